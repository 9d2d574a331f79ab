// Package ui implements the interactive terminal surface for the cluster
// map: a scatter view with mouse hover/selection, a tooltip, a legend,
// and a papers-per-year timeline, all rendered from the pure frame
// pipeline in pkg/scatter.
package ui

import (
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vanderheijden86/litmap/internal/datasource"
	"github.com/vanderheijden86/litmap/pkg/debug"
	"github.com/vanderheijden86/litmap/pkg/export"
	"github.com/vanderheijden86/litmap/pkg/model"
	"github.com/vanderheijden86/litmap/pkg/scatter"
	"github.com/vanderheijden86/litmap/pkg/timeline"
	"github.com/vanderheijden86/litmap/pkg/watcher"
)

// focusArea tracks which surface owns the keyboard.
type focusArea int

const (
	focusMap focusArea = iota
	focusTimeline
	focusHelp
	focusQuitConfirm
)

// FileChangedMsg is sent when the snapshot file changes on disk.
type FileChangedMsg struct{}

// WatchErrorMsg is sent when the file watcher reports an error.
type WatchErrorMsg struct{ Err error }

// ExportDoneMsg is sent when a quick export finishes.
type ExportDoneMsg struct {
	Path string
	Err  error
}

// WatchFileCmd returns a command that waits for file changes and sends FileChangedMsg.
func WatchFileCmd(w *watcher.Watcher) tea.Cmd {
	return func() tea.Msg {
		<-w.Changed()
		return FileChangedMsg{}
	}
}

// Layout constants, in cells.
const (
	headerRows  = 1
	statusRows  = 1
	legendWidth = 30
	tooltipW    = 34
	tooltipH    = 6
)

// Options configures a new Model.
type Options struct {
	DataPath     string // snapshot path, used for live reload
	Data         *model.ClusterData
	Palette      scatter.Palette
	Watcher      *watcher.Watcher
	ShowLegend   bool
	TimelineMode timeline.Mode
	Title        string
}

// Model is the bubbletea model for the cluster map session.
type Model struct {
	dataPath string
	title    string
	data     *model.ClusterData
	palette  scatter.Palette
	theme    Theme

	st     scatter.State
	scales scatter.Scales
	frame  scatter.Frame
	series timeline.Series
	tlMode timeline.Mode

	focused   focusArea
	prevFocus focusArea

	width, height int
	ready         bool

	mouseX, mouseY int

	legendVisible bool
	statusMsg     string
	statusIsError bool

	helpView viewport.Model
	watcher  *watcher.Watcher
}

// New builds a Model from the loaded snapshot.
func New(opts Options) Model {
	pal := opts.Palette
	if len(pal) == 0 {
		pal = scatter.DefaultPalette
	}
	title := opts.Title
	if title == "" {
		title = "litmap"
	}
	m := Model{
		dataPath:      opts.DataPath,
		title:         title,
		data:          opts.Data,
		palette:       pal,
		theme:         DefaultTheme(defaultRenderer()),
		st:            scatter.NewState(),
		tlMode:        opts.TimelineMode,
		legendVisible: opts.ShowLegend,
		watcher:       opts.Watcher,
	}
	m.series = timeline.Build(pointsOf(opts.Data))
	return m
}

func pointsOf(d *model.ClusterData) []model.ClusterPoint {
	if d == nil {
		return nil
	}
	return d.Points
}

// Init starts the file watch loop when a watcher is attached.
func (m Model) Init() tea.Cmd {
	if m.watcher != nil {
		return WatchFileCmd(m.watcher)
	}
	return nil
}

// plotViewport derives the scatter projection target from the window
// size. Mouse coordinates arrive in window cells, so the plot uses the
// same coordinate space: hit tests need no translation.
func (m Model) plotViewport() scatter.Viewport {
	rightMargin := 2.0
	if m.legendVisible {
		rightMargin = legendWidth + 2
	}
	return scatter.Viewport{
		W: float64(m.width),
		H: float64(m.height),
		Margin: scatter.Margins{
			Top:    headerRows + 2, // header row plus room for centroid labels
			Bottom: statusRows + 1,
			Left:   3,
			Right:  rightMargin,
		},
	}
}

// rebuild reprojects the snapshot after a resize or data swap.
func (m *Model) rebuild() {
	if !m.ready {
		return
	}
	defer debug.LogEnterExit("ui.rebuild")()
	if m.data.Degenerate() {
		m.frame = scatter.Frame{Fallback: m.data.FallbackMessage()}
		return
	}
	m.scales = scatter.NewScales(m.data.Points, m.plotViewport())
	m.frame = scatter.BuildFrameWithScales(m.data, &m.st, m.palette, m.scales)
}

// refresh re-renders after hover/selection changes only, reusing the
// cached scales.
func (m *Model) refresh() {
	if !m.ready || m.data.Degenerate() {
		return
	}
	m.frame = scatter.BuildFrameWithScales(m.data, &m.st, m.palette, m.scales)
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.helpView = viewport.New(msg.Width, msg.Height-headerRows-statusRows)
		m.helpView.SetContent(m.renderHelp())
		m.rebuild()

	case tea.MouseMsg:
		m = m.handleMouse(msg)

	case tea.KeyMsg:
		// Clear status message on any keypress
		m.statusMsg = ""
		m.statusIsError = false

		if m.focused == focusQuitConfirm {
			switch msg.String() {
			case "esc", "y", "Y":
				return m, tea.Quit
			default:
				m.focused = m.prevFocus
				return m, nil
			}
		}

		if m.focused == focusHelp {
			switch msg.String() {
			case "?", "esc", "q":
				m.focused = m.prevFocus
				return m, nil
			default:
				var cmd tea.Cmd
				m.helpView, cmd = m.helpView.Update(msg)
				return m, cmd
			}
		}

		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "q":
			m.prevFocus = m.focused
			m.focused = focusQuitConfirm

		case "?":
			m.prevFocus = m.focused
			m.focused = focusHelp

		case "tab":
			if m.focused == focusMap {
				m.focused = focusTimeline
			} else {
				m.focused = focusMap
			}

		case "v":
			if m.focused == focusTimeline {
				m.tlMode = m.tlMode.Toggle()
			}

		case "esc":
			m.st.ClearSelection()
			m.st.ClearHover()
			m.refresh()

		case "left", "h":
			m.cycleHover(-1)

		case "right", "l":
			m.cycleHover(1)

		case "enter", " ":
			if idx, ok := m.st.HoveredIndex(); ok && idx < len(m.data.Points) {
				m.st.ToggleCluster(m.data.Points[idx].ClusterID)
				m.refresh()
			}

		case "1", "2", "3", "4", "5", "6", "7", "8", "9":
			n := int(msg.String()[0] - '1')
			if n < len(m.frame.Legend) {
				m.st.ToggleCluster(m.frame.Legend[n].ClusterID)
				m.refresh()
			}

		case "g":
			m.legendVisible = !m.legendVisible
			m.rebuild()

		case "y":
			m = m.yankHovered()

		case "s":
			cmds = append(cmds, m.quickExportCmd())
		}

	case FileChangedMsg:
		cmds = append(cmds, m.reloadCmd())
		if m.watcher != nil {
			cmds = append(cmds, WatchFileCmd(m.watcher))
		}

	case snapshotLoadedMsg:
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("reload failed: %v", msg.err)
			m.statusIsError = true
		} else {
			// New snapshot invalidates every interaction: indices and
			// cluster ids from the old one are meaningless against it.
			m.data = msg.data
			m.st.Reset()
			m.series = timeline.Build(m.data.Points)
			m.rebuild()
			m.statusMsg = "snapshot reloaded"
		}

	case WatchErrorMsg:
		m.statusMsg = fmt.Sprintf("watch: %v", msg.Err)
		m.statusIsError = true

	case ExportDoneMsg:
		if msg.Err != nil {
			m.statusMsg = fmt.Sprintf("export failed: %v", msg.Err)
			m.statusIsError = true
		} else {
			m.statusMsg = "exported " + msg.Path
		}
	}

	return m, tea.Batch(cmds...)
}

type snapshotLoadedMsg struct {
	data *model.ClusterData
	err  error
}

func (m Model) reloadCmd() tea.Cmd {
	path := m.dataPath
	return func() tea.Msg {
		data, err := datasource.Load(path)
		return snapshotLoadedMsg{data: data, err: err}
	}
}

func (m Model) quickExportCmd() tea.Cmd {
	data := m.data
	pal := m.palette
	title := m.title
	var selected *int
	if id, ok := m.st.SelectedCluster(); ok {
		v := id
		selected = &v
	}
	return func() tea.Msg {
		path := fmt.Sprintf("litmap-%s.svg", datasource.HashSnapshot(data))
		err := export.SaveScatterSnapshot(export.SnapshotOptions{
			Path:     path,
			Title:    title,
			Data:     data,
			Palette:  pal,
			Selected: selected,
			DataHash: datasource.HashSnapshot(data),
		})
		return ExportDoneMsg{Path: path, Err: err}
	}
}

// handleMouse maps pointer events onto the frame.
func (m Model) handleMouse(msg tea.MouseMsg) Model {
	if m.focused != focusMap || m.frame.Fallback != "" {
		return m
	}
	m.mouseX, m.mouseY = msg.X, msg.Y

	switch msg.Action {
	case tea.MouseActionMotion:
		if idx, ok := scatter.HitTest(m.frame, float64(msg.X), float64(msg.Y)); ok {
			m.st.Hover(idx)
		} else {
			m.st.ClearHover()
		}
		m.refresh()

	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return m
		}
		if tile, ok := m.legendTileAt(msg.X, msg.Y); ok {
			m.st.ToggleCluster(tile)
			m.refresh()
			return m
		}
		if idx, ok := scatter.HitTest(m.frame, float64(msg.X), float64(msg.Y)); ok {
			m.st.ToggleCluster(m.data.Points[idx].ClusterID)
		} else {
			m.st.ClearSelection()
		}
		m.refresh()
	}
	return m
}

// legendTileAt maps a click inside the legend panel onto a cluster id.
func (m Model) legendTileAt(x, y int) (int, bool) {
	if !m.legendVisible || len(m.frame.Legend) == 0 {
		return 0, false
	}
	x0 := m.width - legendWidth
	row := y - (headerRows + 2)
	if x < x0 || row < 0 || row >= len(m.frame.Legend) {
		return 0, false
	}
	return m.frame.Legend[row].ClusterID, true
}

// cycleHover moves keyboard hover through the points in draw order.
func (m *Model) cycleHover(step int) {
	n := len(m.frame.Circles)
	if n == 0 {
		return
	}
	idx, ok := m.st.HoveredIndex()
	if !ok {
		if step >= 0 {
			idx = 0
		} else {
			idx = n - 1
		}
	} else {
		idx = ((idx+step)%n + n) % n
	}
	m.st.Hover(idx)
	// Park the virtual pointer on the hovered point so the tooltip
	// anchors correctly.
	for _, c := range m.frame.Circles {
		if c.PointIdx == idx {
			m.mouseX, m.mouseY = int(c.X), int(c.Y)
			break
		}
	}
	m.refresh()
}

func (m Model) yankHovered() Model {
	idx, ok := m.st.HoveredIndex()
	if !ok || idx >= len(m.data.Points) {
		m.statusMsg = "nothing hovered"
		return m
	}
	p := m.data.Points[idx]
	text := fmt.Sprintf("%s (%d) cluster %d", p.Title, p.Year, p.ClusterID)
	if err := clipboard.WriteAll(text); err != nil {
		m.statusMsg = fmt.Sprintf("clipboard: %v", err)
		m.statusIsError = true
		return m
	}
	m.statusMsg = "copied to clipboard"
	return m
}

// --- accessors used by cmd and tests ---------------------------------------

// State exposes the interaction state for tests.
func (m Model) State() scatter.State { return m.st }

// Frame exposes the current frame for tests.
func (m Model) Frame() scatter.Frame { return m.frame }

// Focused reports the active surface.
func (m Model) Focused() int { return int(m.focused) }

// TimelineMode reports the active timeline aggregation mode.
func (m Model) TimelineMode() timeline.Mode { return m.tlMode }
