package tui

import (
	"github.com/paulmach/orb"

	"georeduce/internal/geom"
)

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}

// eachVertex visits every coordinate of d.
func eachVertex(d geom.Data, fn func(orb.Point)) {
	for _, p := range d.Points {
		fn(p)
	}
	for _, ls := range d.Lines {
		for _, p := range ls {
			fn(p)
		}
	}
	for _, poly := range d.Polygons {
		for _, r := range poly {
			for _, p := range r {
				fn(p)
			}
		}
	}
}
