package ui

import (
	"github.com/mattn/go-runewidth"

	"github.com/vanderheijden86/litmap/pkg/scatter"
)

// truncateRunesHelper truncates a string to max visual width (cells), adding suffix if needed.
// Uses go-runewidth to handle wide characters correctly.
func truncateRunesHelper(s string, maxWidth int, suffix string) string {
	if maxWidth <= 0 {
		return ""
	}

	width := runewidth.StringWidth(s)
	if width <= maxWidth {
		return s
	}

	suffixWidth := runewidth.StringWidth(suffix)
	if suffixWidth > maxWidth {
		// Even suffix is too wide, truncate suffix
		return runewidth.Truncate(suffix, maxWidth, "")
	}

	targetWidth := maxWidth - suffixWidth
	return runewidth.Truncate(s, targetWidth, "") + suffix
}

// truncate truncates string s to maxWidth cells with an ellipsis
func truncate(s string, maxWidth int) string {
	return truncateRunesHelper(s, maxWidth, "…")
}

// pointGlyph maps the citation radius encoding onto a four-step glyph
// ramp. Terminals cannot draw fractional-pixel circles; the ramp keeps
// the ordering of the size encoding visible (more citations, heavier dot).
func pointGlyph(r float64) rune {
	switch {
	case r < scatter.BaseRadius+0.75:
		return '·'
	case r < scatter.BaseRadius+1.75:
		return '•'
	case r < scatter.BaseRadius+2.75:
		return '●'
	default:
		return '⬤'
	}
}
