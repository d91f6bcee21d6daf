// Package tui is the terminal viewer: county map in braille, sample points,
// case playback, a county table and WKT region preview.
package tui

import (
	"context"
	"log/slog"
	"math/rand"
	"time"

	list "github.com/charmbracelet/bubbles/list"
	progress "github.com/charmbracelet/bubbles/progress"
	spinner "github.com/charmbracelet/bubbles/spinner"
	table "github.com/charmbracelet/bubbles/table"
	textarea "github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-gl/mathgl/mgl64"

	"covidmap/internal/cases"
	"covidmap/internal/geom"
	"covidmap/internal/logger"
	"covidmap/internal/mesh"
	"covidmap/internal/playback"
	"covidmap/internal/scene"
)

// Loader prepares the scene and the case timeline. It runs off the UI
// goroutine while the spinner is shown.
type Loader func(ctx context.Context) (*scene.Scene, cases.Timeline, error)

type Options struct {
	Load    Loader
	Pacing  time.Duration
	Spacing float64
	Seed    int64
	Logger  *slog.Logger
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
	opts   Options
	log    *slog.Logger

	// loading
	loading bool
	spin    spinner.Model

	// Data
	scene    *scene.Scene
	timeline cases.Timeline
	bbox     geom.BBox
	solids   map[int]mesh.Solid
	edges    map[int][][2]mgl64.Vec3
	texture  map[int][]mgl64.Vec3

	// county list
	l        list.Model
	selected int

	// last rendered map size (for inspect)
	mapW int
	mapH int

	// paste mode
	pasteMode bool
	ta        textarea.Model
	preview   *scene.Region

	// layer visibility
	showFill    bool
	showSamples bool
	showTexture bool
	showBursts  bool

	// inspect popup
	inspectPopup string

	// hover state
	hovering   bool
	hoverCellX int
	hoverCellY int
	hoverPos   mgl64.Vec3
	hoverAGS   int

	// playback; gen tags messages of the current run
	playing bool
	gen     int
	cancel  context.CancelFunc
	frames  <-chan playback.Frame
	errc    <-chan error
	frame   playback.Frame
	next    int
	trail   []burstMark
	bar     progress.Model

	// county table
	showTable bool
	tbl       table.Model
}

func New(opts Options) Model {
	if opts.Pacing <= 0 {
		opts.Pacing = playback.DefaultPacing
	}
	m := Model{
		helpVisible: true,
		zoom:        1.0,
		status:      "covidmap ready",
		opts:        opts,
		log:         opts.Logger,
		showSamples: true,
		showBursts:  true,
		loading:     opts.Load != nil,
	}
	if m.log == nil {
		m.log = logger.L()
	}
	m.spin = spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(accentStyle))
	m.bar = progress.New(progress.WithDefaultGradient(), progress.WithWidth(40))
	// list setup
	d := list.NewDefaultDelegate()
	d.ShowDescription = true
	m.l = list.New(nil, d, 0, 0)
	m.l.Title = "Counties"
	m.l.SetShowHelp(false)
	m.l.SetShowStatusBar(false)
	m.l.SetFilteringEnabled(true)
	// textarea setup
	m.ta = textarea.New()
	m.ta.Placeholder = "Paste WKT here (POLYGON, MULTIPOLYGON in lon/lat). Press Enter to preview; Esc to cancel."
	m.ta.CharLimit = 0
	m.ta.SetWidth(50)
	m.ta.SetHeight(6)
	m.tbl = table.New(table.WithFocused(true))
	m.tbl.SetHeight(12)
	if m.loading {
		m.status = "loading counties"
	}
	return m
}

// NewWithScene starts the viewer on an already prepared scene.
func NewWithScene(s *scene.Scene, tl cases.Timeline, opts Options) Model {
	opts.Load = nil
	m := New(opts)
	m.setScene(s, tl)
	return m
}

func (m Model) Init() tea.Cmd {
	if !m.loading {
		return nil
	}
	return tea.Batch(m.spin.Tick, loadCmd(m.opts.Load))
}

type loadedMsg struct {
	scene    *scene.Scene
	timeline cases.Timeline
	err      error
}

func loadCmd(load Loader) tea.Cmd {
	return func() tea.Msg {
		s, tl, err := load(context.Background())
		return loadedMsg{scene: s, timeline: tl, err: err}
	}
}

// setScene indexes the scene for drawing and hit testing.
func (m *Model) setScene(s *scene.Scene, tl cases.Timeline) {
	m.scene = s
	m.timeline = tl
	m.bbox = boundsBBox(s.Bounds)
	m.solids = make(map[int]mesh.Solid, len(s.Regions))
	m.edges = make(map[int][][2]mgl64.Vec3, len(s.Regions))
	m.texture = make(map[int][]mgl64.Vec3, len(s.Regions))
	rnd := rand.New(rand.NewSource(m.opts.Seed))
	for _, k := range s.Order {
		r := s.Regions[k]
		merged := mesh.Merge(r.Meshes)
		m.solids[k] = merged.Solid()
		m.edges[k] = outline(merged)
		if m.opts.Spacing > 0 {
			m.texture[k] = spreadRegion(r, m.opts.Spacing, rnd)
		}
	}
	m.l.SetItems(countyItems(s))
	m.next, m.trail, m.frame = 0, nil, playback.Frame{}
	m.status = countyStatus(s, tl)
}
