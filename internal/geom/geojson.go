package geom

import (
	"encoding/json"
	"io"
	"os"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/pkg/errors"
)

// ErrNoGeometry is returned when a document decodes but holds nothing to render or reduce.
var ErrNoGeometry = errors.New("no geometries found")

// LoadGeo reads a GeoJSON file into a feature collection. Files holding a WKT
// geometry are accepted too.
func LoadGeo(path string) (*geojson.FeatureCollection, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}
	if IsWKT(string(data)) {
		return ParseWKT(string(data))
	}
	return Decode(data)
}

// Decode parses a GeoJSON document. A FeatureCollection is returned as is, a single
// Feature or a bare geometry is wrapped into a one-feature collection.
func Decode(data []byte) (*geojson.FeatureCollection, error) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, errors.Wrap(err, "geojson")
	}
	var fc *geojson.FeatureCollection
	switch head.Type {
	case "":
		return nil, errors.New("invalid geojson: missing type")
	case "FeatureCollection":
		c, err := geojson.UnmarshalFeatureCollection(data)
		if err != nil {
			return nil, errors.Wrap(err, "geojson feature collection")
		}
		fc = c
	case "Feature":
		f, err := geojson.UnmarshalFeature(data)
		if err != nil {
			return nil, errors.Wrap(err, "geojson feature")
		}
		fc = geojson.NewFeatureCollection().Append(f)
	default:
		g, err := geojson.UnmarshalGeometry(data)
		if err != nil {
			return nil, errors.Wrapf(err, "geojson geometry %s", head.Type)
		}
		if g.Geometry() == nil {
			return nil, errors.New("unsupported geojson type: " + head.Type)
		}
		fc = geojson.NewFeatureCollection().Append(geojson.NewFeature(g.Geometry()))
	}
	if len(fc.Features) == 0 {
		return nil, ErrNoGeometry
	}
	return fc, nil
}

// Encode serialises fc as GeoJSON.
func Encode(fc *geojson.FeatureCollection) ([]byte, error) {
	data, err := json.Marshal(fc)
	if err != nil {
		return nil, errors.Wrap(err, "encode geojson")
	}
	return data, nil
}

// Extract flattens the geometries of fc into render-ready Data.
func Extract(fc *geojson.FeatureCollection) Data {
	var d Data
	if fc == nil {
		return d
	}
	first := true
	addPt := func(pt orb.Point) {
		if first {
			d.BBox = BBox{MinX: pt[0], MinY: pt[1], MaxX: pt[0], MaxY: pt[1]}
			first = false
			return
		}
		if pt[0] < d.BBox.MinX {
			d.BBox.MinX = pt[0]
		}
		if pt[1] < d.BBox.MinY {
			d.BBox.MinY = pt[1]
		}
		if pt[0] > d.BBox.MaxX {
			d.BBox.MaxX = pt[0]
		}
		if pt[1] > d.BBox.MaxY {
			d.BBox.MaxY = pt[1]
		}
	}
	addLine := func(ls orb.LineString) {
		d.Lines = append(d.Lines, ls)
		for _, p := range ls {
			addPt(p)
		}
	}
	addPoly := func(poly orb.Polygon) {
		d.Polygons = append(d.Polygons, poly)
		for _, ring := range poly {
			for _, p := range ring {
				addPt(p)
			}
		}
	}
	var walkGeom func(g orb.Geometry)
	walkGeom = func(g orb.Geometry) {
		switch g := g.(type) {
		case orb.Point:
			d.Points = append(d.Points, g)
			addPt(g)
		case orb.MultiPoint:
			for _, p := range g {
				d.Points = append(d.Points, p)
				addPt(p)
			}
		case orb.LineString:
			addLine(g)
		case orb.MultiLineString:
			for _, ls := range g {
				addLine(ls)
			}
		case orb.Ring:
			addPoly(orb.Polygon{g})
		case orb.Polygon:
			addPoly(g)
		case orb.MultiPolygon:
			for _, poly := range g {
				addPoly(poly)
			}
		case orb.Collection:
			for _, c := range g {
				walkGeom(c)
			}
		}
	}
	for _, f := range fc.Features {
		if f != nil {
			walkGeom(f.Geometry)
		}
	}
	return d
}
