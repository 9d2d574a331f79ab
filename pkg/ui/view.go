package ui

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/litmap/pkg/scatter"
)

func defaultRenderer() *lipgloss.Renderer {
	return lipgloss.NewRenderer(os.Stdout)
}

const helpMarkdown = `# litmap

An interactive map of a paper corpus. Each dot is one paper, positioned
by semantic similarity; color is its cluster, size its citation count.

## Mouse

| Action | Effect |
|---|---|
| move | hover a paper, show its tooltip |
| left click on a dot | select its cluster (click again to deselect) |
| left click on a legend row | select that cluster |
| left click on empty space | clear selection |

## Keys

| Key | Effect |
|---|---|
| left / right, h / l | cycle hover through papers |
| enter / space | toggle selection of the hovered paper's cluster |
| 1-9 | toggle the n-th legend cluster |
| esc | clear hover and selection |
| tab | switch between map and timeline |
| v | timeline: yearly vs cumulative |
| g | toggle the legend panel |
| y | copy the hovered paper to the clipboard |
| s | save an SVG snapshot to the current directory |
| ? | this help |
| q | quit |
`

func (m Model) renderHelp() string {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(76),
	)
	if err != nil {
		return helpMarkdown
	}
	out, err := r.Render(helpMarkdown)
	if err != nil {
		return helpMarkdown
	}
	return out
}

// View renders the active surface.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	switch m.focused {
	case focusHelp:
		return m.composeScreen(m.helpView.View())
	case focusQuitConfirm:
		return m.composeScreen(m.renderQuitConfirm())
	case focusTimeline:
		return m.composeScreen(m.renderTimeline())
	default:
		return m.composeScreen(m.renderMap())
	}
}

// composeScreen stacks the header, a body of exactly the remaining rows,
// and the status bar.
func (m Model) composeScreen(body string) string {
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteByte('\n')
	b.WriteString(body)
	b.WriteByte('\n')
	b.WriteString(m.renderStatus())
	return b.String()
}

func (m Model) renderHeader() string {
	left := m.theme.Header.Render(m.title)
	desc := ""
	if m.data != nil && !m.data.Degenerate() {
		desc = fmt.Sprintf(" %d papers · %d clusters · %s",
			len(m.data.Points), len(m.data.Clusters), m.data.Algorithm)
		if m.focused == focusTimeline {
			desc += fmt.Sprintf(" · timeline (%s)", m.tlMode)
		}
	}
	return left + m.theme.MutedText.Render(truncate(desc, m.width-lipgloss.Width(left)))
}

func (m Model) renderStatus() string {
	if m.statusMsg != "" {
		if m.statusIsError {
			return m.theme.ErrorText.Render(truncate(m.statusMsg, m.width))
		}
		return m.theme.StatusBar.Render(truncate(m.statusMsg, m.width))
	}
	return m.theme.StatusBar.Render(truncate("?: help · tab: timeline · q: quit", m.width))
}

func (m Model) bodyHeight() int {
	h := m.height - headerRows - statusRows
	if h < 0 {
		return 0
	}
	return h
}

func (m Model) renderQuitConfirm() string {
	box := m.theme.Fallback.Render("Quit litmap?\n\ny / esc: quit · any other key: stay")
	return lipgloss.Place(m.width, m.bodyHeight(), lipgloss.Center, lipgloss.Center, box)
}

// renderMap draws the scatter frame onto a canvas: circles as glyphs,
// centroid labels, the legend panel, and the tooltip overlay last so it
// sits above everything.
func (m Model) renderMap() string {
	if m.frame.Fallback != "" {
		box := m.theme.Fallback.Render(m.frame.Fallback)
		return lipgloss.Place(m.width, m.bodyHeight(), lipgloss.Center, lipgloss.Center, box)
	}

	// Canvas covers the full window so frame coordinates (which include
	// the header margin) land on the right rows; header and status rows
	// are sliced back off before composing.
	cv := newCanvas(m.width, m.height)

	hovered, hasHover := m.st.HoveredIndex()
	_, hasSel := m.st.SelectedCluster()

	for _, c := range m.frame.Circles {
		dimmed := hasSel && c.Opacity < scatter.FullOpacity
		st := m.theme.ClusterStyle(c.Fill, dimmed)
		if hasHover && c.PointIdx == hovered {
			st = st.Bold(true).Reverse(true)
		}
		cv.put(int(c.X), int(c.Y), pointGlyph(c.R), st)
	}

	for _, l := range m.frame.Labels {
		cv.textCentered(int(l.X), int(l.Y)-1, truncate(l.Text, 20), m.theme.BoldText)
	}

	if m.legendVisible {
		m.drawLegend(cv)
	}

	if hasHover {
		m.drawTooltip(cv, hovered)
	}

	return sliceBody(cv.String(), m.height)
}

// sliceBody drops the header and status rows from a full-window canvas.
func sliceBody(s string, height int) string {
	lines := strings.Split(s, "\n")
	lo := headerRows
	hi := height - statusRows
	if lo > len(lines) {
		lo = len(lines)
	}
	if hi > len(lines) {
		hi = len(lines)
	}
	if lo > hi {
		lo = hi
	}
	return strings.Join(lines[lo:hi], "\n")
}

func (m Model) drawLegend(cv *canvas) {
	x0 := m.width - legendWidth
	y0 := headerRows + 2
	for i, tile := range m.frame.Legend {
		y := y0 + i
		marker := m.theme.ClusterStyle(tile.Color, false)
		cv.put(x0, y, '■', marker)

		label := fmt.Sprintf("%d %s %d (%d-%d)", i+1, m.legendName(tile), tile.Size, tile.YearMin, tile.YearMax)
		st := m.theme.MutedText
		if tile.Selected {
			st = m.theme.BoldText
		}
		cv.text(x0+2, y, truncate(label, legendWidth-3), st)
	}
}

// legendName labels a tile with the cluster's top keyword when it has one.
func (m Model) legendName(tile scatter.LegendTile) string {
	if sum, ok := m.data.Clusters[tile.ClusterID]; ok && len(sum.TopKeywords) > 0 {
		return sum.TopKeywords[0]
	}
	return fmt.Sprintf("cluster %d", tile.ClusterID)
}

func (m Model) drawTooltip(cv *canvas, hovered int) {
	if hovered >= len(m.data.Points) {
		return
	}
	tip := scatter.TooltipFor(m.data.Points[hovered])
	x, y := scatter.TooltipPosition(float64(m.mouseX), float64(m.mouseY), tooltipW, tooltipH, m.plotViewport())

	cv.box(int(x), int(y), tooltipW, tooltipH, m.theme.Axis)
	inner := tooltipW - 4
	cv.text(int(x)+2, int(y)+1, truncate(tip.Title, inner), m.theme.BoldText)
	cv.text(int(x)+2, int(y)+2, truncate(fmt.Sprintf("%d · cluster %d", tip.Year, tip.ClusterID), inner), m.theme.MutedText)
	cv.text(int(x)+2, int(y)+3, truncate(tip.Keywords, inner), m.theme.MutedText)
	if tip.Citations != nil {
		cv.text(int(x)+2, int(y)+4, truncate(fmt.Sprintf("%d citations", *tip.Citations), inner), m.theme.MutedText)
	}
}

// renderTimeline draws the papers-per-year bar chart.
func (m Model) renderTimeline() string {
	if m.series.Empty() {
		box := m.theme.Fallback.Render("No publication years in this snapshot")
		return lipgloss.Place(m.width, m.bodyHeight(), lipgloss.Center, lipgloss.Center, box)
	}

	cv := newCanvas(m.width, m.height)
	vp := scatter.Viewport{
		W: float64(m.width),
		H: float64(m.height),
		Margin: scatter.Margins{
			Top:    headerRows + 1,
			Bottom: statusRows + 2, // room for year labels
			Left:   6,              // room for the count axis
			Right:  2,
		},
	}
	bars := m.series.Bars(m.tlMode, vp)

	barStyle := m.theme.Renderer.NewStyle().Foreground(m.theme.Primary)
	maxCount := 0
	for _, b := range bars {
		if b.Count > maxCount {
			maxCount = b.Count
		}
	}

	baseline := m.height - statusRows - 2
	for _, b := range bars {
		// A gap year has no bar; painting it would show a phantom
		// 1-cell column at the baseline.
		if b.Count == 0 {
			continue
		}
		top := int(b.Y)
		w := int(b.W)
		if w < 1 {
			w = 1
		}
		for y := top; y <= baseline; y++ {
			for dx := 0; dx < w; dx++ {
				cv.put(int(b.X)+dx, y, '█', barStyle)
			}
		}
	}

	// Axis: max count top-left, year labels under the first, middle and
	// last bars. Labeling every bar overlaps at narrow widths.
	cv.text(0, headerRows+1, fmt.Sprintf("%5d", maxCount), m.theme.Axis)
	cv.text(0, baseline, fmt.Sprintf("%5d", 0), m.theme.Axis)
	if len(bars) > 0 {
		labelBars := []int{0, len(bars) / 2, len(bars) - 1}
		for _, i := range labelBars {
			b := bars[i]
			cv.textCentered(int(b.X)+int(b.W)/2, baseline+1, fmt.Sprintf("%d", b.Year), m.theme.Axis)
		}
	}

	return sliceBody(cv.String(), m.height)
}
