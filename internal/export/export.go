// Package export writes reduced documents as downloadable JSON files.
package export

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/paulmach/orb/geojson"
	"github.com/pkg/errors"

	"georeduce/internal/geom"
)

// DefaultName is the file name offered for download.
const DefaultName = "custom-geojson.json"

// Filename cleans name into a bare file name ending in .json.
func Filename(name string) string {
	name = filepath.Base(strings.TrimSpace(name))
	if name == "" || name == "." || name == string(filepath.Separator) {
		return DefaultName
	}
	if !strings.EqualFold(filepath.Ext(name), ".json") && !strings.EqualFold(filepath.Ext(name), ".geojson") {
		name += ".json"
	}
	return name
}

// Write encodes fc to w.
func Write(w io.Writer, fc *geojson.FeatureCollection) (int, error) {
	data, err := geom.Encode(fc)
	if err != nil {
		return 0, err
	}
	n, err := w.Write(data)
	if err != nil {
		return n, errors.Wrap(err, "write geojson")
	}
	return n, nil
}

// SaveFile writes fc to dir/Filename(name) through a temporary file and returns the
// final path.
func SaveFile(dir, name string, fc *geojson.FeatureCollection) (string, error) {
	if dir == "" {
		dir = "."
	}
	path := filepath.Join(dir, Filename(name))
	tmp, err := os.CreateTemp(dir, ".georeduce-*.json")
	if err != nil {
		return "", errors.Wrap(err, "create temp file")
	}
	defer os.Remove(tmp.Name())
	if _, err := Write(tmp, fc); err != nil {
		tmp.Close()
		return "", err
	}
	if err := tmp.Close(); err != nil {
		return "", errors.Wrap(err, "close temp file")
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", errors.Wrapf(err, "rename to %s", path)
	}
	return path, nil
}
