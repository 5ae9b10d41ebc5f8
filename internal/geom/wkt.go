package geom

import (
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkt"
	"github.com/paulmach/orb/geojson"
	"github.com/pkg/errors"
)

// ParseWKT parses a WKT geometry into a one-feature collection.
// POLYGON and MULTIPOLYGON are what the reducer works on; other types are accepted so
// they can still be rendered.
func ParseWKT(s string) (*geojson.FeatureCollection, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, errors.New("empty wkt")
	}
	g, err := wkt.Unmarshal(s)
	if err != nil {
		return nil, errors.Wrap(err, "wkt")
	}
	if isEmpty(g) {
		return nil, errors.New("wkt: no coordinates parsed")
	}
	return geojson.NewFeatureCollection().Append(geojson.NewFeature(g)), nil
}

// IsWKT reports whether s looks like a WKT geometry rather than a URL or JSON.
func IsWKT(s string) bool {
	up := strings.ToUpper(strings.TrimSpace(s))
	for _, p := range []string{"POINT", "MULTIPOINT", "LINESTRING", "MULTILINESTRING", "POLYGON", "MULTIPOLYGON", "GEOMETRYCOLLECTION"} {
		if strings.HasPrefix(up, p) {
			return true
		}
	}
	return false
}

func isEmpty(g orb.Geometry) bool {
	if g == nil {
		return true
	}
	return Extract(geojson.NewFeatureCollection().Append(geojson.NewFeature(g))).Vertices() == 0
}
