package tui

import (
	"os"

	list "github.com/charmbracelet/bubbles/list"
	table "github.com/charmbracelet/bubbles/table"
	textarea "github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"

	"geosimplify/internal/geom"
	"geosimplify/internal/simplify"
)

// Options seeds the previewer.
type Options struct {
	Tolerance   float64
	HighQuality bool
	// Simplifier defaults to simplify.New().
	Simplifier *simplify.Simplifier
}

// result is the outcome of simplifying one source feature.
type result struct {
	out   geom.Feature
	stats simplify.Stats
	err   error
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

	// Simplification
	simp        *simplify.Simplifier
	tolerance   float64
	highQuality bool

	// Data
	features []geom.Feature
	results  []result
	origData geom.Data
	simpData geom.Data
	bbox     geom.BBox

	// paste mode
	pasteMode bool
	ta        textarea.Model

	// layer visibility
	showOriginal   bool
	showSimplified bool
	fill           bool

	// inspect popup
	inspectPopup string

	// hover state
	hovering    bool
	hoverCellX  int
	hoverCellY  int
	hoverMicX   int
	hoverMicY   int
	hoverHasGeo bool
	hoverLon    float64
	hoverLat    float64

	// attributes table
	showAttrs bool
	tbl       table.Model
}

func New(opts Options) Model {
	m := Model{
		showSidebar:    false,
		helpVisible:    true,
		zoom:           1.0,
		status:         "geosimplify ready",
		simp:           opts.Simplifier,
		tolerance:      opts.Tolerance,
		highQuality:    opts.HighQuality,
		showOriginal:   true,
		showSimplified: true,
	}
	if m.simp == nil {
		m.simp = simplify.New()
	}
	if !(m.tolerance > 0) {
		m.tolerance = 0.01
	}
	m.cwd, _ = os.Getwd()
	// list setup
	d := list.NewDefaultDelegate()
	d.ShowDescription = false
	m.l = list.New(nil, d, 0, 0)
	m.l.Title = "Files"
	m.l.SetShowHelp(false)
	m.l.SetShowStatusBar(false)
	m.l.SetFilteringEnabled(true)
	// textarea setup
	m.ta = textarea.New()
	m.ta.Placeholder = "Paste WKT here, one LINESTRING or POLYGON per line. Press Enter to render; Esc to cancel."
	m.ta.CharLimit = 0
	m.ta.SetWidth(50)
	m.ta.SetHeight(6)
	// columns are inferred per dataset
	m.tbl = table.New(table.WithFocused(true))
	m.tbl.SetHeight(12)
	m.refreshDir()
	return m
}

// NewWithPath preloads a file's data at launch.
func NewWithPath(path string, opts Options) Model {
	m := New(opts)
	m.loadPath(path)
	return m
}

// NewWithFeatures previews features that were decoded elsewhere, e.g. from stdin.
func NewWithFeatures(name string, features []geom.Feature, opts Options) Model {
	m := New(opts)
	m.setFeatures(features)
	m.status = "loaded: " + name + "  " + m.summary()
	return m
}

func (m Model) Init() tea.Cmd { return nil }
