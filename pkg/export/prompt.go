// Interactive prompt for the -export flag when no output path is given.
package export

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"
)

// isTerminal checks if stdin is connected to a terminal
func isTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// newForm creates a form with appropriate settings based on TTY detection
func newForm(groups ...*huh.Group) *huh.Form {
	form := huh.NewForm(groups...).WithTheme(huh.ThemeDracula())
	if !isTerminal() {
		form = form.WithAccessible(true)
	}
	return form
}

// PromptResult holds the values collected by PromptOptions.
type PromptResult struct {
	Path   string
	Format string // "svg", "png", or "all"
}

// PromptOptions interactively collects an output path and format. The
// defaults pre-fill the form so pressing enter twice exports with the
// configured settings.
func PromptOptions(defaultPath, defaultFormat string) (*PromptResult, error) {
	if defaultPath == "" {
		defaultPath = "clusters.svg"
	}
	if defaultFormat == "" {
		defaultFormat = "svg"
	}

	path := defaultPath
	format := defaultFormat

	form := newForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Output path").
				Value(&path).
				Placeholder(defaultPath),
			huh.NewSelect[string]().
				Title("Format").
				Options(
					huh.NewOption("SVG (vector, small)", "svg"),
					huh.NewOption("PNG (raster)", "png"),
					huh.NewOption("Both", "all"),
				).
				Value(&format),
		),
	)

	if err := form.Run(); err != nil {
		return nil, err
	}

	path = strings.TrimSpace(path)
	if path == "" {
		path = defaultPath
	}
	switch format {
	case "svg", "png", "all":
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}

	return &PromptResult{Path: path, Format: format}, nil
}
