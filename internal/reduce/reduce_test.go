package reduce

import (
	"errors"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/stretchr/testify/require"
)

func TestParseStrategy(t *testing.T) {
	for _, s := range Strategies {
		got, err := ParseStrategy(s.String(), RejectUnknown)
		require.NoError(t, err)
		require.Equal(t, s, got)
	}

	got, err := ParseStrategy("median", FallbackToMode)
	require.NoError(t, err)
	require.Equal(t, StrategyMode, got)

	_, err = ParseStrategy("Skip", RejectUnknown)
	require.True(t, errors.Is(err, ErrUnknownStrategy))
}

func TestStrategyNextCycles(t *testing.T) {
	s := StrategySkip
	seen := map[Strategy]bool{}
	for range Strategies {
		seen[s] = true
		s = s.Next()
	}
	require.Len(t, seen, len(Strategies))
	require.Equal(t, StrategySkip, s)
}

func TestRingGuard(t *testing.T) {
	ring := diagonal(11)
	for _, s := range []Strategy{StrategySkip, StrategyMean, StrategyAvg, StrategyMode} {
		require.Equal(t, ring, Ring(ring, Config{Precision: 5, Reduce: 5, Strategy: s}), s.String())
		require.Equal(t, ring, Ring(ring, Config{Precision: 5, Reduce: 1, Strategy: s}), s.String())
	}
	// exactly Reduce*10 points is still guarded
	long := diagonal(50)
	require.Equal(t, long, Ring(long, Config{Reduce: 5, Strategy: StrategySkip}))
}

func TestRingSkip(t *testing.T) {
	ring := diagonal(51)
	out := Ring(ring, Config{Precision: 5, Reduce: 5, Strategy: StrategySkip})
	require.Len(t, out, 10)
	for k := 0; k < 10; k++ {
		require.Equal(t, ring[5*k+4], out[k])
	}
}

func TestRingDistanceIgnoresGuard(t *testing.T) {
	ring := orb.Ring{{0, 0}, {0.1, 0.1}, {2, 2}}
	out := Ring(ring, Config{Reduce: 1, Strategy: StrategyDistance})
	require.Equal(t, orb.Ring{{0, 0}, {2, 2}}, out)

	out = Ring(ring, Config{Reduce: 1, Tolerance: 0.05, Strategy: StrategyDistance})
	require.Equal(t, ring, out)
}

func TestRingRoundsSurvivors(t *testing.T) {
	ring := make(orb.Ring, 30)
	for i := range ring {
		ring[i] = orb.Point{-47.123456 - float64(i), -9.654321}
	}
	out := Ring(ring, Config{Precision: 4, Reduce: 2, Strategy: StrategySkip})
	require.Len(t, out, 15)
	require.Equal(t, orb.Point{-48.12, -9.654}, out[0])

	out = Ring(ring[:3], Config{Precision: 4, Reduce: 2, Strategy: StrategySkip})
	require.Equal(t, orb.Point{-47.12, -9.654}, out[0])
}

func TestRingDoesNotAlias(t *testing.T) {
	ring := diagonal(5)
	out := Ring(ring, Config{Reduce: 1})
	out[0] = orb.Point{42, 42}
	require.Equal(t, orb.Point{0, 0}, ring[0])
}

func TestRingUnknownStrategyValueFallsBackToMode(t *testing.T) {
	ring := diagonal(40)
	require.Equal(t, Mode(ring, 3), Ring(ring, Config{Reduce: 3, Strategy: Strategy(200)}))
}

func polygonFeature(rings ...orb.Ring) *geojson.Feature {
	p := make(orb.Polygon, 0, len(rings))
	for _, r := range rings {
		p = append(p, r)
	}
	f := geojson.NewFeature(p)
	f.Properties["name"] = "test"
	return f
}

func TestCollection(t *testing.T) {
	hole := orb.Ring{{1, 1}, {2, 1}, {2, 2}, {1, 1}}
	fc := geojson.NewFeatureCollection()
	fc.Append(polygonFeature(diagonal(60), hole))
	fc.Append(geojson.NewFeature(orb.MultiPolygon{{diagonal(33)}, {diagonal(44)}}))

	cfg := Config{Precision: 3, Reduce: 3, Strategy: StrategySkip}
	out, err := Collection(fc, cfg)
	require.NoError(t, err)
	require.Len(t, out.Features, 2)

	poly := out.Features[0].Geometry.(orb.Polygon)
	require.Len(t, poly[0], 20)
	require.Equal(t, hole, poly[1])
	require.Equal(t, "test", out.Features[0].Properties["name"])

	mp := out.Features[1].Geometry.(orb.MultiPolygon)
	require.Len(t, mp[0][0], 11)
	require.Equal(t, diagonal(44), mp[1][0])

	require.Equal(t, 31, CountPoints(out.Features))
	require.Equal(t, 93, CountPoints(fc.Features))
}

func TestCollectionDoesNotMutateInput(t *testing.T) {
	fc := geojson.NewFeatureCollection()
	fc.Append(polygonFeature(diagonal(60)))

	out, err := Collection(fc, Config{Precision: 2, Reduce: 4, Strategy: StrategyMean})
	require.NoError(t, err)
	out.Features[0].Properties["name"] = "changed"

	require.Equal(t, diagonal(60), fc.Features[0].Geometry.(orb.Polygon)[0])
	require.Equal(t, "test", fc.Features[0].Properties["name"])
}

func TestCollectionMalformed(t *testing.T) {
	testCases := []struct {
		name    string
		feature *geojson.Feature
	}{
		{"point", geojson.NewFeature(orb.Point{1, 2})},
		{"line", geojson.NewFeature(orb.LineString{{1, 2}, {3, 4}})},
		{"empty polygon", geojson.NewFeature(orb.Polygon{})},
		{"empty multipolygon", geojson.NewFeature(orb.MultiPolygon{{}})},
		{"no geometry", &geojson.Feature{Type: "Feature"}},
		{"nil feature", nil},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			fc := geojson.NewFeatureCollection()
			fc.Append(polygonFeature(diagonal(20)))
			fc.Features = append(fc.Features, tc.feature)

			out, err := Collection(fc, Config{Reduce: 2})
			require.Nil(t, out)
			require.True(t, errors.Is(err, ErrMalformedGeometry))
		})
	}
}
