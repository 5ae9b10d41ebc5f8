package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	list "github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"georeduce/internal/export"
	"georeduce/internal/geom"
	"georeduce/internal/source"
)

type fileItem struct {
	title, desc string
	path        string
}

func (f fileItem) Title() string       { return f.title }
func (f fileItem) Description() string { return f.desc }
func (f fileItem) FilterValue() string { return f.title }

// loadedMsg carries the result of an asynchronous load back into Update.
type loadedMsg struct {
	loc string
	doc *source.Document
	err error
}

func (m *Model) refreshDir() {
	entries, err := os.ReadDir(m.cwd)
	if err != nil {
		m.status = "read dir error: " + err.Error()
		return
	}
	var items []list.Item
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		ext := strings.ToLower(filepath.Ext(name))
		if ext == ".geojson" || ext == ".json" || ext == ".wkt" {
			items = append(items, fileItem{title: name, desc: ext, path: filepath.Join(m.cwd, name)})
		}
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].(fileItem).Title() < items[j].(fileItem).Title() })
	m.items = items
	m.l.SetItems(items)
	if len(items) == 0 {
		m.status = "no supported files in current directory"
	}
}

// loadCmd fetches loc off the update loop.
func (m *Model) loadCmd(loc string) tea.Cmd {
	m.loading = true
	m.status = "loading " + loc
	svc := m.svc
	return func() tea.Msg {
		if svc == nil {
			return loadedMsg{loc: loc, err: errors.New("no service configured")}
		}
		doc, err := svc.Load(context.Background(), loc)
		return loadedMsg{loc: loc, doc: doc, err: err}
	}
}

// loadPasted accepts a URL, a path or a WKT geometry typed into the paste box.
func (m *Model) loadPasted(text string) tea.Cmd {
	text = strings.TrimSpace(text)
	if text == "" {
		m.status = "paste: empty"
		return nil
	}
	if !geom.IsWKT(text) {
		return m.loadCmd(text)
	}
	fc, err := geom.ParseWKT(text)
	if err != nil {
		m.status = "wkt error: " + err.Error()
		return nil
	}
	m.setDocument(&source.Document{Location: "pasted wkt", Collection: fc})
	return nil
}

func (m *Model) handleLoaded(msg loadedMsg) {
	m.loading = false
	if msg.err != nil {
		m.log.Warn("tui_load_failed", zap.String("location", msg.loc), zap.Error(msg.err))
		m.status = "load error: " + msg.err.Error()
		return
	}
	if !source.IsURL(msg.loc) {
		m.selPath = msg.loc
	}
	m.setDocument(msg.doc)
}

// setDocument replaces the current document, resets the viewport and reduces it.
func (m *Model) setDocument(doc *source.Document) {
	m.doc = doc
	m.orig = geom.Extract(doc.Collection)
	m.bbox = m.orig.BBox
	m.zoom = 1.0
	m.offsetX, m.offsetY = 0, 0
	m.inspectPopup = ""
	m.rereduce()
	if m.showAttrs {
		m.refreshAttrsFromCurrent()
	}
}

// rereduce runs the reduction for the current settings.
func (m *Model) rereduce() {
	if m.doc == nil {
		m.status = "nothing loaded"
		return
	}
	if m.svc == nil {
		m.status = "no service configured"
		return
	}
	res, err := m.svc.ReduceDocument(m.doc, m.cfg)
	if err != nil {
		m.res = nil
		m.reduced = geom.Data{}
		m.status = "reduce error: " + err.Error()
		return
	}
	m.res = res
	m.reduced = geom.Extract(res.Reduced)
	m.status = m.summary()
}

func (m *Model) summary() string {
	name := "document"
	if m.doc != nil {
		name = filepath.Base(m.doc.Location)
	}
	if m.res == nil {
		return name
	}
	cached := ""
	if m.doc.Cached {
		cached = " (cached)"
	}
	return fmt.Sprintf("%s%s  %s reduce=%d precision=%d  points %d → %d (%.0f%%)",
		name, cached, m.cfg.Strategy, m.cfg.Reduce, m.cfg.Precision,
		m.res.PointsIn, m.res.PointsOut, m.res.Ratio()*100)
}

// exportCurrent writes the reduced document next to the working directory.
func (m *Model) exportCurrent() {
	if m.res == nil {
		m.status = "nothing to export"
		return
	}
	path, err := export.SaveFile(m.exportDir, m.exportName, m.res.Reduced)
	if err != nil {
		m.log.Error("tui_export_failed", zap.Error(err))
		m.status = "export error: " + err.Error()
		return
	}
	m.log.Info("exported", zap.String("path", path), zap.Int("points", m.res.PointsOut))
	m.status = "exported " + path
}
