package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// cell is one styled character on the canvas.
type cell struct {
	ch    rune
	style lipgloss.Style
	set   bool
}

// canvas is a cell grid the views draw into before rendering. Drawing is
// last-writer-wins, which matches the frame's back-to-front hit-test
// order: whatever is drawn last is what the pointer is over.
type canvas struct {
	w, h  int
	cells [][]cell
}

func newCanvas(w, h int) *canvas {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	cells := make([][]cell, h)
	for y := range cells {
		cells[y] = make([]cell, w)
	}
	return &canvas{w: w, h: h, cells: cells}
}

// put sets one cell, clipping silently outside the canvas.
func (c *canvas) put(x, y int, ch rune, st lipgloss.Style) {
	if x < 0 || y < 0 || x >= c.w || y >= c.h {
		return
	}
	c.cells[y][x] = cell{ch: ch, style: st, set: true}
}

// text writes a string left-to-right starting at (x, y), clipping at the
// right edge. Wide runes occupy one cell here; callers pre-truncate with
// runewidth when alignment matters.
func (c *canvas) text(x, y int, s string, st lipgloss.Style) {
	for _, ch := range s {
		if x >= c.w {
			return
		}
		c.put(x, y, ch, st)
		x++
	}
}

// textCentered writes a string centered on x.
func (c *canvas) textCentered(x, y int, s string, st lipgloss.Style) {
	c.text(x-utf8Len(s)/2, y, s, st)
}

// box draws a rounded border box with the interior cleared.
func (c *canvas) box(x, y, w, h int, st lipgloss.Style) {
	if w < 2 || h < 2 {
		return
	}
	for dy := 0; dy < h; dy++ {
		for dx := 0; dx < w; dx++ {
			ch := ' '
			switch {
			case dy == 0 && dx == 0:
				ch = '╭'
			case dy == 0 && dx == w-1:
				ch = '╮'
			case dy == h-1 && dx == 0:
				ch = '╰'
			case dy == h-1 && dx == w-1:
				ch = '╯'
			case dy == 0 || dy == h-1:
				ch = '─'
			case dx == 0 || dx == w-1:
				ch = '│'
			}
			c.put(x+dx, y+dy, ch, st)
		}
	}
}

// String renders the canvas row by row. Consecutive cells sharing a style
// are batched into one Render call to keep the output compact.
func (c *canvas) String() string {
	var b strings.Builder
	for y := 0; y < c.h; y++ {
		var run strings.Builder
		var runStyle lipgloss.Style
		runActive := false

		flush := func() {
			if run.Len() == 0 {
				return
			}
			if runActive {
				b.WriteString(runStyle.Render(run.String()))
			} else {
				b.WriteString(run.String())
			}
			run.Reset()
		}

		for x := 0; x < c.w; x++ {
			cl := c.cells[y][x]
			ch := cl.ch
			if !cl.set {
				ch = ' '
			}
			if cl.set != runActive || (cl.set && !sameStyle(cl.style, runStyle)) {
				flush()
				runActive = cl.set
				runStyle = cl.style
			}
			run.WriteRune(ch)
		}
		flush()
		if y < c.h-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func sameStyle(a, b lipgloss.Style) bool {
	return a.Render("x") == b.Render("x")
}

func utf8Len(s string) int {
	n := 0
	for range s {
		n++
	}
	return n
}
