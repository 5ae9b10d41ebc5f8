package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	list "github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
)

// tolerances are the distance thresholds cycled by "t"; zero falls back to the reduce value.
var tolerances = []float64{0, 0.0001, 0.001, 0.01, 0.1}

const maxPrecision = 17

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		l := m.layout()
		m.mapW, m.mapH = l.mapW, l.mapH
		if m.showSidebar {
			m.l.SetSize(sidebarWidth-2, l.contentH-2)
		}
	case loadedMsg:
		m.handleLoaded(msg)
		return m, nil
	case tea.KeyMsg:
		// If list is visible and filtering, send keys to list and ignore global commands
		if m.showSidebar && m.l.FilterState() == list.Filtering {
			var cmd tea.Cmd
			m.l, cmd = m.l.Update(msg)
			return m, cmd
		}
		if m.pasteMode {
			switch msg.String() {
			case "esc":
				m.pasteMode = false
				m.ta.Blur()
				return m, nil
			case "enter":
				m.pasteMode = false
				m.ta.Blur()
				return m, m.loadPasted(m.ta.Value())
			}
			var cmd tea.Cmd
			m.ta, cmd = m.ta.Update(msg)
			return m, cmd
		}
		if cmd, handled := m.handleKey(msg.String()); handled {
			return m, cmd
		}
	case tea.MouseMsg:
		l := m.layout()
		cx, cy := msg.X-l.mapX, msg.Y-l.mapY
		if cx >= 0 && cx < l.mapW && cy >= 0 && cy < l.mapH {
			m.hovering = true
			m.hoverLon, m.hoverLat, m.hoverHasGeo = m.cellToLonLat(cx, cy, l.mapW, l.mapH)
			m.hoverMicX, m.hoverMicY = m.nearestMicro(cx, cy, l.mapW, l.mapH)
		} else {
			m.hovering = false
		}
	}
	// Pass messages to list when visible
	if m.showSidebar {
		var cmd tea.Cmd
		m.l, cmd = m.l.Update(msg)
		return m, cmd
	}
	return m, nil
}

// handleKey applies a global key binding. handled is false for keys that should still
// reach the sidebar list.
func (m *Model) handleKey(key string) (cmd tea.Cmd, handled bool) {
	switch key {
	case "ctrl+c", "q":
		return tea.Quit, true
	case "s":
		m.cfg.Strategy = m.cfg.Strategy.Next()
		m.rereduce()
	case "]":
		m.cfg.Reduce++
		m.rereduce()
	case "[":
		m.cfg.Reduce = max(1, m.cfg.Reduce-1)
		m.rereduce()
	case "}":
		m.cfg.Precision = clamp(m.cfg.Precision+1, 0, maxPrecision)
		m.rereduce()
	case "{":
		m.cfg.Precision = clamp(m.cfg.Precision-1, 0, maxPrecision)
		m.rereduce()
	case "t":
		m.cfg.Tolerance = nextTolerance(m.cfg.Tolerance)
		m.rereduce()
		if m.cfg.Tolerance > 0 {
			m.status += fmt.Sprintf("  tolerance=%g", m.cfg.Tolerance)
		}
	case "o":
		m.showOriginal = !m.showOriginal
		m.status = fmt.Sprintf("original outline: %v", m.showOriginal)
	case "f":
		m.fill = !m.fill
		m.status = fmt.Sprintf("fill: %v", m.fill)
	case "e":
		m.exportCurrent()
	case "+", "=":
		if m.zoom < 64 {
			m.zoom *= 1.2
			m.status = fmt.Sprintf("zoom: %.2fx", m.zoom)
		}
	case "-", "_":
		if m.zoom > 0.05 {
			m.zoom /= 1.2
			m.status = fmt.Sprintf("zoom: %.2fx", m.zoom)
		}
	case "r":
		m.zoom = 1.0
		m.offsetX, m.offsetY = 0, 0
		m.status = "view reset"
	case "tab":
		m.showSidebar = !m.showSidebar
		if m.showSidebar {
			m.refreshDir()
			m.l.SetSize(sidebarWidth-2, m.layout().contentH-2)
		}
		l := m.layout()
		m.mapW, m.mapH = l.mapW, l.mapH
	case "p":
		m.pasteMode = true
		m.ta.SetValue("")
		m.status = "paste mode"
		m.ta.Focus()
	case "h":
		m.helpVisible = !m.helpVisible
	case "a":
		m.showAttrs = !m.showAttrs
		if m.showAttrs {
			m.refreshAttrsFromCurrent()
		}
	case "i":
		m.inspect()
	case "esc":
		m.inspectPopup = ""
	case "enter":
		if m.showSidebar {
			if it, ok := m.l.SelectedItem().(fileItem); ok {
				return m.loadCmd(it.path), true
			}
		}
	case "up":
		m.offsetY--
	case "down":
		m.offsetY++
	case "left":
		m.offsetX -= 2
	case "right":
		m.offsetX += 2
	default:
		return nil, false
	}
	return nil, !m.showSidebar
}

func (m *Model) inspect() {
	lon, lat, ok := m.inspectNearest()
	if !ok {
		m.inspectPopup = "no feature nearby"
		m.status = m.inspectPopup
		return
	}
	name := "<unsaved>"
	if m.doc != nil {
		name = filepath.Base(m.doc.Location)
	}
	meta := []string{
		fmt.Sprintf("name: %s", name),
		fmt.Sprintf("bbox: [%.5f, %.5f, %.5f, %.5f]", m.bbox.MinX, m.bbox.MinY, m.bbox.MaxX, m.bbox.MaxY),
		fmt.Sprintf("features: %d", len(m.doc.Collection.Features)),
		fmt.Sprintf("vertices: %d → %d", m.orig.Vertices(), m.primary().Vertices()),
		fmt.Sprintf("strategy: %s reduce=%d precision=%d", m.cfg.Strategy, m.cfg.Reduce, m.cfg.Precision),
		fmt.Sprintf("nearest: lon=%.6f lat=%.6f", lon, lat),
	}
	m.inspectPopup = strings.Join(meta, "\n")
	m.status = "inspect popup"
}

func nextTolerance(cur float64) float64 {
	for i, t := range tolerances {
		if t == cur {
			return tolerances[(i+1)%len(tolerances)]
		}
	}
	return tolerances[0]
}
