package ui

import (
	"fmt"
	"image/color"
	"os"

	"github.com/charmbracelet/colorprofile"
	"github.com/charmbracelet/lipgloss"
)

// TermProfile holds the detected terminal color profile. Computed once at
// package init so every style helper can branch without re-detecting.
var TermProfile colorprofile.Profile

func init() {
	TermProfile = colorprofile.Detect(os.Stdout, os.Environ())
}

// ThemeFg returns the given hex color for ANSI256+ terminals and a safe
// ANSI white (color 7) for 16-color or lower terminals.
func ThemeFg(hex string) lipgloss.TerminalColor {
	if TermProfile < colorprofile.ANSI256 {
		return lipgloss.ANSIColor(7)
	}
	return lipgloss.Color(hex)
}

// Theme bundles the colors and pre-computed styles for one session.
// Styles are created once at startup instead of per-frame.
type Theme struct {
	Renderer *lipgloss.Renderer

	Primary   lipgloss.AdaptiveColor
	Secondary lipgloss.AdaptiveColor
	Subtext   lipgloss.AdaptiveColor

	Border    lipgloss.AdaptiveColor
	Highlight lipgloss.AdaptiveColor
	Muted     lipgloss.AdaptiveColor

	Base      lipgloss.Style
	Header    lipgloss.Style
	StatusBar lipgloss.Style
	ErrorText lipgloss.Style
	MutedText lipgloss.Style
	BoldText  lipgloss.Style
	Axis      lipgloss.Style
	Tooltip   lipgloss.Style
	Fallback  lipgloss.Style
}

// DefaultTheme returns the standard Dracula-inspired theme (adaptive).
func DefaultTheme(r *lipgloss.Renderer) Theme {
	t := Theme{
		Renderer: r,

		Primary:   lipgloss.AdaptiveColor{Light: "#6B47D9", Dark: "#BD93F9"}, // Purple
		Secondary: lipgloss.AdaptiveColor{Light: "#555555", Dark: "#6272A4"}, // Gray
		Subtext:   lipgloss.AdaptiveColor{Light: "#666666", Dark: "#BFBFBF"}, // Dim

		Border:    lipgloss.AdaptiveColor{Light: "#AAAAAA", Dark: "#44475A"},
		Highlight: lipgloss.AdaptiveColor{Light: "#E0E0E0", Dark: "#44475A"},
		Muted:     lipgloss.AdaptiveColor{Light: "#555555", Dark: "#6272A4"},
	}

	t.Base = r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#000000", Dark: "#F8F8F2"})

	t.Header = r.NewStyle().
		Background(t.Primary).
		Foreground(lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#282A36"}).
		Bold(true).
		Padding(0, 1)

	t.StatusBar = r.NewStyle().Foreground(t.Muted)
	t.ErrorText = r.NewStyle().Foreground(ThemeFg("#FF5555")).Bold(true)
	t.MutedText = r.NewStyle().Foreground(t.Muted)
	t.BoldText = r.NewStyle().Bold(true)
	t.Axis = r.NewStyle().Foreground(t.Border)

	t.Tooltip = r.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Primary).
		Padding(0, 1)

	t.Fallback = r.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Border).
		Foreground(t.Subtext).
		Padding(1, 3)

	return t
}

// ClusterStyle maps a palette color onto a terminal style. Dimmed clusters
// render faint instead of alpha-blended; terminals have no opacity, so
// faint is the closest analogue to the 0.2 fill used in image exports.
func (t Theme) ClusterStyle(c color.RGBA, dimmed bool) lipgloss.Style {
	hex := fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	s := t.Renderer.NewStyle().Foreground(ThemeFg(hex))
	if dimmed {
		s = s.Faint(true)
	}
	return s
}

// TestTheme returns a theme suitable for use in tests (stdout renderer).
func TestTheme() Theme {
	return DefaultTheme(lipgloss.NewRenderer(os.Stdout))
}
