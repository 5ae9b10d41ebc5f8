// Package reduce downsamples the outer ring of polygon features and rounds the
// surviving coordinates to a number of significant digits.
//
// Everything here is a pure function over its arguments: inputs are never mutated
// and calls are safe to run concurrently.
package reduce

import (
	"errors"
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// guardFactor: window strategies only run on rings longer than Reduce*guardFactor.
const guardFactor = 10

// ErrMalformedGeometry is returned when a feature has no polygon ring to reduce.
var ErrMalformedGeometry = errors.New("malformed geometry")

// Config controls one reduction call.
type Config struct {
	Precision int
	Reduce    int
	// Tolerance is the distance threshold in raw coordinate units.
	// When <= 0 the distance strategy uses Reduce instead.
	Tolerance float64
	Strategy  Strategy
}

func (c Config) threshold() float64 {
	if c.Tolerance > 0 {
		return c.Tolerance
	}
	return float64(c.Reduce)
}

// Ring reduces a single ring and returns a new one.
func Ring(ring orb.Ring, cfg Config) orb.Ring {
	var out orb.Ring
	switch {
	case cfg.Strategy == StrategyDistance:
		out = Distance(ring, cfg.threshold())
	case cfg.Reduce > 1 && len(ring) > cfg.Reduce*guardFactor:
		out = apply(cfg.Strategy, ring, cfg.Reduce)
	default:
		out = append(orb.Ring(nil), ring...)
	}
	if cfg.Precision > 1 {
		for i := range out {
			out[i] = Round(out[i], cfg.Precision)
		}
	}
	return out
}

func apply(s Strategy, ring orb.Ring, n int) orb.Ring {
	switch s {
	case StrategySkip:
		return Skip(ring, n)
	case StrategyMean:
		return Mean(ring, n)
	case StrategyAvg:
		return Avg(ring, n)
	default:
		return Mode(ring, n)
	}
}

// Features reduces the first ring of every feature. A single malformed feature fails
// the whole call.
func Features(features []*geojson.Feature, cfg Config) ([]*geojson.Feature, error) {
	out := make([]*geojson.Feature, 0, len(features))
	for i, f := range features {
		nf, err := feature(f, cfg)
		if err != nil {
			return nil, fmt.Errorf("feature %d: %w", i, err)
		}
		out = append(out, nf)
	}
	return out, nil
}

// Collection reduces every feature of fc into a new collection.
func Collection(fc *geojson.FeatureCollection, cfg Config) (*geojson.FeatureCollection, error) {
	if fc == nil {
		return nil, fmt.Errorf("%w: nil collection", ErrMalformedGeometry)
	}
	fs, err := Features(fc.Features, cfg)
	if err != nil {
		return nil, err
	}
	out := geojson.NewFeatureCollection()
	out.Features = fs
	if fc.BBox != nil {
		out.BBox = append(geojson.BBox(nil), fc.BBox...)
	}
	if fc.ExtraMembers != nil {
		out.ExtraMembers = fc.ExtraMembers.Clone()
	}
	return out, nil
}

func feature(f *geojson.Feature, cfg Config) (*geojson.Feature, error) {
	if f == nil {
		return nil, fmt.Errorf("%w: nil feature", ErrMalformedGeometry)
	}
	nf := *f
	if f.Properties != nil {
		nf.Properties = f.Properties.Clone()
	}
	if f.BBox != nil {
		nf.BBox = append(geojson.BBox(nil), f.BBox...)
	}
	switch g := f.Geometry.(type) {
	case orb.Polygon:
		if len(g) == 0 {
			return nil, fmt.Errorf("%w: polygon without rings", ErrMalformedGeometry)
		}
		p := g.Clone()
		p[0] = Ring(g[0], cfg)
		nf.Geometry = p
	case orb.MultiPolygon:
		if len(g) == 0 || len(g[0]) == 0 {
			return nil, fmt.Errorf("%w: multipolygon without rings", ErrMalformedGeometry)
		}
		mp := g.Clone()
		mp[0][0] = Ring(g[0][0], cfg)
		nf.Geometry = mp
	case nil:
		return nil, fmt.Errorf("%w: missing geometry", ErrMalformedGeometry)
	default:
		return nil, fmt.Errorf("%w: unsupported geometry %s", ErrMalformedGeometry, g.GeoJSONType())
	}
	return &nf, nil
}

// FirstRing returns the ring a reduction operates on, or nil when there is none.
func FirstRing(f *geojson.Feature) orb.Ring {
	if f == nil {
		return nil
	}
	switch g := f.Geometry.(type) {
	case orb.Polygon:
		if len(g) > 0 {
			return g[0]
		}
	case orb.MultiPolygon:
		if len(g) > 0 && len(g[0]) > 0 {
			return g[0][0]
		}
	}
	return nil
}

// CountPoints sums the length of the first ring of every feature.
func CountPoints(features []*geojson.Feature) int {
	n := 0
	for _, f := range features {
		n += len(FirstRing(f))
	}
	return n
}
