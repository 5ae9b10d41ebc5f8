package export

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/stretchr/testify/require"

	"georeduce/internal/geom"
)

func sample() *geojson.FeatureCollection {
	f := geojson.NewFeature(orb.Polygon{{{0, 0}, {1, 0}, {1, 1}, {0, 0}}})
	f.Properties["name"] = "square"
	return geojson.NewFeatureCollection().Append(f)
}

func TestFilename(t *testing.T) {
	testCases := map[string]string{
		"":                    DefaultName,
		"custom-geojson":      "custom-geojson.json",
		"custom-geojson.json": "custom-geojson.json",
		"ac.geojson":          "ac.geojson",
		"../../etc/passwd":    "passwd.json",
		"  spaced.JSON ":      "spaced.JSON",
	}
	for in, want := range testCases {
		require.Equal(t, want, Filename(in), in)
	}
}

func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	n, err := Write(&buf, sample())
	require.NoError(t, err)
	require.Equal(t, buf.Len(), n)

	back, err := geom.Decode(buf.Bytes())
	require.NoError(t, err)
	require.Equal(t, "square", back.Features[0].Properties["name"])
}

func TestSaveFile(t *testing.T) {
	dir := t.TempDir()
	path, err := SaveFile(dir, "", sample())
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, DefaultName), path)

	back, err := geom.LoadGeo(path)
	require.NoError(t, err)
	require.Len(t, back.Features, 1)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
}
