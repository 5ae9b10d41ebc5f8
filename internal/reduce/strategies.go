package reduce

import (
	"math"
	"sort"

	"github.com/paulmach/orb"
)

// Skip keeps one point out of every n: the n-th point visited in each window.
func Skip(ring orb.Ring, n int) orb.Ring {
	if n < 1 {
		return append(orb.Ring(nil), ring...)
	}
	out := make(orb.Ring, 0, len(ring)/n)
	skip := 1
	for _, p := range ring {
		if skip == n {
			skip = 0
			out = append(out, p)
		}
		skip++
	}
	return out
}

// Distance keeps the first point and then every point whose x or y differs from the
// last kept point by more than threshold. The comparison is in raw coordinate units
// (degrees for lon/lat data), not a geodesic distance.
func Distance(ring orb.Ring, threshold float64) orb.Ring {
	if len(ring) == 0 {
		return orb.Ring{}
	}
	out := orb.Ring{ring[0]}
	ref := ring[0]
	for _, p := range ring[1:] {
		if math.Abs(p[0]-ref[0]) > threshold || math.Abs(p[1]-ref[1]) > threshold {
			out = append(out, p)
			ref = p
		}
	}
	return out
}

// Mode emits, for every full window of n points, the x and y found at index n/2 of the
// window in arrival order. The two axes are buffered separately.
func Mode(ring orb.Ring, n int) orb.Ring {
	return windowed(ring, n, func(xs, ys []float64) orb.Point {
		return orb.Point{xs[n/2], ys[n/2]}
	})
}

// Mean sorts each axis of a window independently and emits index n/2 of both.
// For even n that is the upper-middle element, not an averaged median.
func Mean(ring orb.Ring, n int) orb.Ring {
	return windowed(ring, n, func(xs, ys []float64) orb.Point {
		sort.Float64s(xs)
		sort.Float64s(ys)
		return orb.Point{xs[n/2], ys[n/2]}
	})
}

// Avg emits the arithmetic mean of each window of n points.
func Avg(ring orb.Ring, n int) orb.Ring {
	return windowed(ring, n, func(xs, ys []float64) orb.Point {
		var sx, sy float64
		for i := range xs {
			sx += xs[i]
			sy += ys[i]
		}
		return orb.Point{sx / float64(n), sy / float64(n)}
	})
}

// windowed buffers n points into per-axis slices and calls emit on each full window.
// A trailing partial window is dropped.
func windowed(ring orb.Ring, n int, emit func(xs, ys []float64) orb.Point) orb.Ring {
	if n < 1 {
		return append(orb.Ring(nil), ring...)
	}
	out := make(orb.Ring, 0, len(ring)/n)
	xs := make([]float64, 0, n)
	ys := make([]float64, 0, n)
	for _, p := range ring {
		xs = append(xs, p[0])
		ys = append(ys, p[1])
		if len(xs) == n {
			out = append(out, emit(xs, ys))
			xs = xs[:0]
			ys = ys[:0]
		}
	}
	return out
}
