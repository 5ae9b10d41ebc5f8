package tui

import (
	"strings"

	"github.com/paulmach/orb"

	"georeduce/internal/geom"
)

const (
	sidebarWidth = 28
	headerHeight = 1
	footerHeight = 2
)

// layout holds the screen areas shared by View and mouse handling.
type layout struct {
	contentW, contentH int
	mapX, mapY         int
	mapW, mapH         int
}

func (m Model) layout() layout {
	l := layout{
		contentW: max(10, m.width),
		contentH: max(4, m.height-headerHeight-footerHeight),
		mapY:     headerHeight,
	}
	sidebar := 0
	if m.showSidebar {
		sidebar = sidebarWidth
		l.mapX = sidebarWidth + 1
	}
	l.mapW = max(10, l.contentW-sidebar-1)
	l.mapH = l.contentH
	return l
}

// cellToLonLat converts a map cell coordinate back to lon/lat using bbox, zoom, and pan.
func (m Model) cellToLonLat(cx, cy, w, h int) (float64, float64, bool) {
	if !m.bbox.Valid() || w <= 1 || h <= 1 {
		return 0, 0, false
	}
	zx := float64(cx-m.offsetX) / float64(w-1)
	zy := 1.0 - float64(cy-m.offsetY)/float64(h-1)
	nx := 0.5 + (zx-0.5)/m.zoom
	ny := 0.5 + (zy-0.5)/m.zoom
	lon := m.bbox.MinX + nx*(m.bbox.MaxX-m.bbox.MinX)
	lat := m.bbox.MinY + ny*(m.bbox.MaxY-m.bbox.MinY)
	return lon, lat, true
}

// normalize maps p into the unit square of the bbox after zooming around the center.
func (m Model) normalize(p orb.Point) (float64, float64, bool) {
	if !m.bbox.Valid() {
		return 0, 0, false
	}
	nx := (p[0] - m.bbox.MinX) / (m.bbox.MaxX - m.bbox.MinX)
	ny := (p[1] - m.bbox.MinY) / (m.bbox.MaxY - m.bbox.MinY)
	return 0.5 + (nx-0.5)*m.zoom, 0.5 + (ny-0.5)*m.zoom, true
}

// screenXYMicro maps p into a 2x4 microgrid per cell for braille rendering.
func (m Model) screenXYMicro(p orb.Point, w, h int) (int, int, bool) {
	zx, zy, ok := m.normalize(p)
	if !ok {
		return 0, 0, false
	}
	sx := int(zx*float64(w*2-1)) + m.offsetX*2
	sy := int((1.0-zy)*float64(h*4-1)) + m.offsetY*4
	return sx, sy, true
}

// screenXY maps p to cell coordinates considering zoom and pan.
func (m Model) screenXY(p orb.Point, w, h int) (int, int, bool) {
	zx, zy, ok := m.normalize(p)
	if !ok {
		return 0, 0, false
	}
	sx := int(zx*float64(w-1)) + m.offsetX
	sy := int((1.0-zy)*float64(h-1)) + m.offsetY
	return sx, sy, true
}

// primary is what gets drawn in front: the reduction when there is one.
func (m Model) primary() geom.Data {
	if m.res != nil {
		return m.reduced
	}
	return m.orig
}

func (m Model) renderMap(w, h int) string {
	front := newBrailleBuf(w, h)
	m.drawData(front, m.primary(), m.fill, w, h)

	var back *brailleBuf
	if m.showOriginal && m.res != nil {
		back = newBrailleBuf(w, h)
		m.drawData(back, m.orig, false, w, h)
	}

	hx, hy := -1, -1
	if m.hovering {
		hx, hy = m.hoverMicX/2, m.hoverMicY/4
	}
	lines := make([]string, h)
	for y := range lines {
		var backRow []uint8
		if back != nil {
			backRow = back.m[y]
		}
		hover := -1
		if y == hy {
			hover = hx
		}
		lines[y] = composeRow(front.m[y], backRow, hover)
	}
	return strings.Join(lines, "\n")
}

func (m Model) drawData(b *brailleBuf, d geom.Data, fill bool, w, h int) {
	for _, poly := range d.Polygons {
		for i, ring := range poly {
			var sm [][2]int
			for _, p := range ring {
				if mx, my, ok := m.screenXYMicro(p, w, h); ok {
					sm = append(sm, [2]int{mx, my})
				}
			}
			if len(sm) < 3 {
				continue
			}
			// holes are outlined, not filled
			if fill && i == 0 {
				b.fillRing(sm)
			}
			b.drawRing(sm)
		}
	}
	for _, ls := range d.Lines {
		var prev *[2]int
		for _, p := range ls {
			mx, my, ok := m.screenXYMicro(p, w, h)
			if !ok {
				continue
			}
			if prev != nil {
				b.drawLineMicro(prev[0], prev[1], mx, my)
			}
			prev = &[2]int{mx, my}
		}
	}
	// points only when there is nothing else to show
	if len(d.Lines) == 0 && len(d.Polygons) == 0 {
		for _, p := range d.Points {
			if mx, my, ok := m.screenXYMicro(p, w, h); ok {
				b.setPixel(mx, my)
			}
		}
	}
}

type cellKind uint8

const (
	cellEmpty cellKind = iota
	cellFront
	cellBack
	cellHover
)

// composeRow merges one row of the two layers, styling runs of equal kind together.
func composeRow(front, back []uint8, hover int) string {
	var b strings.Builder
	var run []rune
	cur := cellEmpty
	flush := func() {
		if len(run) == 0 {
			return
		}
		switch cur {
		case cellFront:
			b.WriteString(reducedStyle.Render(string(run)))
		case cellBack:
			b.WriteString(originalStyle.Render(string(run)))
		case cellHover:
			b.WriteString(hoverStyle.Render(string(run)))
		default:
			b.WriteString(string(run))
		}
		run = run[:0]
	}
	for x := range front {
		kind, r := cellEmpty, ' '
		switch {
		case x == hover:
			kind, r = cellHover, '◯'
		case front[x] != 0:
			kind, r = cellFront, brailleRune(front[x])
		case back != nil && back[x] != 0:
			kind, r = cellBack, brailleRune(back[x])
		}
		if kind != cur {
			flush()
			cur = kind
		}
		run = append(run, r)
	}
	flush()
	return b.String()
}

// nearestMicro returns the micro coords of the drawn vertex closest to the given cell.
func (m Model) nearestMicro(cx, cy, w, h int) (int, int) {
	hx, hy := cx*2, cy*4
	best := 1<<31 - 1
	bx, by := hx, hy
	eachVertex(m.primary(), func(p orb.Point) {
		mx, my, ok := m.screenXYMicro(p, w, h)
		if !ok {
			return
		}
		dx, dy := mx-hx, my-hy
		if d := dx*dx + dy*dy; d < best {
			best = d
			bx, by = mx, my
		}
	})
	return bx, by
}

// inspectNearest finds the vertex closest to the viewport center and returns lon/lat.
func (m Model) inspectNearest() (lon, lat float64, ok bool) {
	w, h := m.mapW, m.mapH
	if w <= 0 {
		w = 80
	}
	if h <= 0 {
		h = 24
	}
	cx, cy := w/2, h/2
	bestD := -1
	var best orb.Point
	eachVertex(m.primary(), func(p orb.Point) {
		sx, sy, ok := m.screenXY(p, w, h)
		if !ok {
			return
		}
		dx, dy := sx-cx, sy-cy
		if d := dx*dx + dy*dy; bestD < 0 || d < bestD {
			bestD = d
			best = p
		}
	})
	if bestD < 0 {
		return 0, 0, false
	}
	return best[0], best[1], true
}
