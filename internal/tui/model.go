// Package tui is an interactive previewer: it loads a document, reduces it with the
// current settings and draws the reduced outline over the original one so the effect of
// each setting can be seen before exporting.
package tui

import (
	"os"

	list "github.com/charmbracelet/bubbles/list"
	table "github.com/charmbracelet/bubbles/table"
	textarea "github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"georeduce/internal/export"
	"georeduce/internal/geom"
	"georeduce/internal/reduce"
	"georeduce/internal/service"
	"georeduce/internal/source"
)

// Options wires the previewer to the rest of the program.
type Options struct {
	Service    *service.Service
	Reduction  reduce.Config
	ExportDir  string
	ExportName string
	Log        *zap.Logger
}

type Model struct {
	width  int
	height int

	showSidebar bool
	helpVisible bool

	zoom    float64
	offsetX int
	offsetY int

	status string

	// File explorer
	cwd     string
	l       list.Model
	items   []list.Item
	selPath string

	svc        *service.Service
	cfg        reduce.Config
	exportDir  string
	exportName string
	log        *zap.Logger

	// pending is loaded by Init
	pending string
	loading bool

	doc     *source.Document
	res     *service.Result
	orig    geom.Data
	reduced geom.Data
	bbox    geom.BBox

	// last rendered map size (for inspect)
	mapW int
	mapH int

	// paste mode
	pasteMode bool
	ta        textarea.Model

	showOriginal bool
	fill         bool

	inspectPopup string

	// hover state
	hovering    bool
	hoverMicX   int
	hoverMicY   int
	hoverHasGeo bool
	hoverLon    float64
	hoverLat    float64

	// attributes table
	showAttrs bool
	tbl       table.Model
}

func New(o Options) Model {
	m := Model{
		helpVisible:  true,
		zoom:         1.0,
		status:       "georeduce ready",
		svc:          o.Service,
		cfg:          o.Reduction,
		exportDir:    o.ExportDir,
		exportName:   o.ExportName,
		log:          o.Log,
		showOriginal: true,
		fill:         false,
	}
	if m.log == nil {
		m.log = zap.NewNop()
	}
	if m.exportName == "" {
		m.exportName = export.DefaultName
	}
	m.cwd, _ = os.Getwd()
	d := list.NewDefaultDelegate()
	d.ShowDescription = false
	m.l = list.New(nil, d, 0, 0)
	m.l.Title = "Files"
	m.l.SetShowHelp(false)
	m.l.SetShowStatusBar(false)
	m.l.SetFilteringEnabled(true)
	m.ta = textarea.New()
	m.ta.Placeholder = "Paste a GeoJSON URL, a file path or a WKT polygon. Enter to load; Esc to cancel."
	m.ta.CharLimit = 0
	m.ta.SetWidth(50)
	m.ta.SetHeight(6)
	m.tbl = table.New(table.WithFocused(true))
	m.tbl.SetHeight(12)
	m.refreshDir()
	return m
}

// NewWithLocation loads loc (a URL or a file path) once the program starts.
func NewWithLocation(o Options, loc string) Model {
	m := New(o)
	m.pending = loc
	return m
}

func (m Model) Init() tea.Cmd {
	if m.pending == "" {
		return nil
	}
	return m.loadCmd(m.pending)
}
