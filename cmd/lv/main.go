package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/vanderheijden86/litmap/internal/datasource"
	"github.com/vanderheijden86/litmap/pkg/config"
	"github.com/vanderheijden86/litmap/pkg/export"
	"github.com/vanderheijden86/litmap/pkg/model"
	"github.com/vanderheijden86/litmap/pkg/scatter"
	"github.com/vanderheijden86/litmap/pkg/timeline"
	"github.com/vanderheijden86/litmap/pkg/ui"
	"github.com/vanderheijden86/litmap/pkg/version"
	"github.com/vanderheijden86/litmap/pkg/watcher"
)

const defaultSnapshot = "clusters.json"

func main() {
	dataFlag := flag.String("data", "", "Path to the cluster snapshot JSON (overrides LITMAP_DATA and config)")
	exportFlag := flag.String("export", "", "Render a snapshot image to the given path and exit (no TUI)")
	formatFlag := flag.String("format", "", "Export format: svg, png, or all (default from config)")
	titleFlag := flag.String("title", "", "Title for the header and exported images")
	watchFlag := flag.Bool("watch", true, "Reload the view when the snapshot file changes")
	wizardFlag := flag.Bool("wizard", false, "Interactively prompt for export path and format, then exit")
	help := flag.Bool("help", false, "Show help")
	versionFlag := flag.Bool("version", false, "Show version")
	flag.Parse()

	if *help {
		fmt.Println("Usage: lv [options]")
		fmt.Println("\nA TUI viewer for document cluster snapshots.")
		flag.PrintDefaults()
		os.Exit(0)
	}

	if *versionFlag {
		fmt.Printf("lv %s\n", version.Version)
		os.Exit(0)
	}

	cfg, cfgErr := config.Load()
	if cfgErr != nil {
		// Non-fatal: continue with defaults
		fmt.Fprintf(os.Stderr, "Warning: config: %v\n", cfgErr)
		cfg = config.DefaultConfig()
	}

	palette, err := cfg.ResolvePalette()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error in configured palette: %v\n", err)
		os.Exit(1)
	}

	fallback := cfg.DataPath
	if fallback == "" {
		fallback = defaultSnapshot
	}
	dataPath := datasource.ResolvePath(*dataFlag, fallback)

	data, err := datasource.Load(dataPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading snapshot: %v\n", err)
		fmt.Fprintln(os.Stderr, "Point -data (or LITMAP_DATA) at a cluster snapshot JSON file.")
		os.Exit(1)
	}

	title := *titleFlag
	if title == "" {
		title = strings.TrimSuffix(filepath.Base(dataPath), filepath.Ext(dataPath))
	}

	if *exportFlag != "" || *wizardFlag {
		if err := runExport(cfg, data, palette, title, *exportFlag, *formatFlag, *wizardFlag); err != nil {
			fmt.Fprintf(os.Stderr, "Export failed: %v\n", err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Fprintln(os.Stderr, "Error: stdout is not a terminal (use -export for non-interactive rendering)")
		os.Exit(1)
	}

	// Assigned once the program exists; the watcher callback runs on its
	// own goroutine and may fire before then, hence the nil guard.
	var program *tea.Program

	var w *watcher.Watcher
	if *watchFlag {
		w, err = watcher.New(dataPath, watcher.WithOnError(func(werr error) {
			if program != nil {
				program.Send(ui.WatchErrorMsg{Err: werr})
			}
		}))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: watch disabled: %v\n", err)
		} else if err := w.Start(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: watch disabled: %v\n", err)
			w = nil
		} else {
			defer w.Stop()
		}
	}

	m := ui.New(ui.Options{
		DataPath:     dataPath,
		Data:         data,
		Palette:      palette,
		Watcher:      w,
		ShowLegend:   cfg.LegendVisible(),
		TimelineMode: timelineMode(cfg.UI.TimelineMode),
		Title:        title,
	})

	program = newTUIProgram(m)
	if err := runTUIProgram(program); err != nil {
		fmt.Printf("Error running cluster viewer: %v\n", err)
		os.Exit(1)
	}
}

func timelineMode(name string) timeline.Mode {
	if strings.EqualFold(name, "cumulative") {
		return timeline.ModeCumulative
	}
	return timeline.ModeYearly
}

// runExport renders the snapshot headlessly. The wizard prompts for path
// and format; otherwise flags and config decide.
func runExport(cfg config.Config, data *model.ClusterData, palette scatter.Palette, title, path, format string, wizard bool) error {
	if format == "" {
		format = cfg.Export.Format
	}
	if wizard {
		res, err := export.PromptOptions(defaultExportPath(cfg, data), format)
		if err != nil {
			return err
		}
		path, format = res.Path, res.Format
	}
	if path == "" {
		path = defaultExportPath(cfg, data)
	}

	opts := export.SnapshotOptions{
		Path:     path,
		Format:   format,
		Title:    title,
		Width:    cfg.Export.Width,
		Height:   cfg.Export.Height,
		Data:     data,
		Palette:  palette,
		DataHash: datasource.HashSnapshot(data),
	}
	if format == "all" {
		if err := export.SaveAllFormats(opts); err != nil {
			return err
		}
		fmt.Printf("Exported %s.{%s}\n", strings.TrimSuffix(path, filepath.Ext(path)), strings.Join(export.Formats, ","))
		return nil
	}
	if err := export.SaveScatterSnapshot(opts); err != nil {
		return err
	}
	fmt.Printf("Exported %s\n", path)
	return nil
}

func defaultExportPath(cfg config.Config, data *model.ClusterData) string {
	name := fmt.Sprintf("litmap-%s.%s", datasource.HashSnapshot(data), defaultFormatExt(cfg))
	if cfg.Export.Dir != "" {
		return filepath.Join(cfg.Export.Dir, name)
	}
	return name
}

func defaultFormatExt(cfg config.Config) string {
	switch cfg.Export.Format {
	case "png":
		return "png"
	default:
		return "svg"
	}
}

func newTUIProgram(m ui.Model) *tea.Program {
	return tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
		tea.WithoutSignalHandler(),
	)
}

func runTUIProgram(p *tea.Program) error {
	runDone := make(chan struct{})
	defer close(runDone)

	// Graceful shutdown on SIGINT/SIGTERM.
	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-runDone:
			return
		case <-sigCh:
		}

		p.Quit()

		select {
		case <-runDone:
			return
		case <-sigCh:
		case <-time.After(5 * time.Second):
		}

		p.Kill()
	}()

	// Optional auto-quit for automated tests: set LITMAP_TUI_AUTOCLOSE_MS.
	if v := os.Getenv("LITMAP_TUI_AUTOCLOSE_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms > 0 {
			go func() {
				timer := time.NewTimer(time.Duration(ms) * time.Millisecond)
				defer timer.Stop()

				select {
				case <-runDone:
					return
				case <-timer.C:
				}

				p.Quit()

				select {
				case <-runDone:
					return
				case <-time.After(2 * time.Second):
				}

				p.Kill()
			}()
		}
	}

	_, err := p.Run()
	if err != nil && (errors.Is(err, tea.ErrProgramKilled) || errors.Is(err, tea.ErrInterrupted)) {
		return nil
	}
	return err
}
