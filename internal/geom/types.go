package geom

import "github.com/paulmach/orb"

type BBox struct {
	MinX float64
	MinY float64
	MaxX float64
	MaxY float64
}

// Valid reports whether the box has a non-zero extent on both axes.
func (b BBox) Valid() bool {
	return b.MaxX > b.MinX && b.MaxY > b.MinY
}

// Union returns the smallest box holding both b and o. A zero box is ignored.
func (b BBox) Union(o BBox) BBox {
	if b == (BBox{}) {
		return o
	}
	if o == (BBox{}) {
		return b
	}
	return BBox{
		MinX: min(b.MinX, o.MinX),
		MinY: min(b.MinY, o.MinY),
		MaxX: max(b.MaxX, o.MaxX),
		MaxY: max(b.MaxY, o.MaxY),
	}
}

// Data is a minimal geometry container for rendering
type Data struct {
	Points   []orb.Point
	Lines    []orb.LineString
	Polygons []orb.Polygon // first ring outer, following holes
	BBox     BBox
}

// Vertices counts every coordinate held by d.
func (d Data) Vertices() int {
	n := len(d.Points)
	for _, ls := range d.Lines {
		n += len(ls)
	}
	for _, p := range d.Polygons {
		for _, r := range p {
			n += len(r)
		}
	}
	return n
}
