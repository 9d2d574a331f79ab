// Package export renders static snapshot images of the cluster map.
package export

import (
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"git.sr.ht/~sbinet/gg"
	"github.com/ajstarks/svgo"
	"golang.org/x/image/font/basicfont"

	"github.com/vanderheijden86/litmap/pkg/debug"
	"github.com/vanderheijden86/litmap/pkg/model"
	"github.com/vanderheijden86/litmap/pkg/scatter"
)

// SnapshotOptions controls scatter snapshot export behaviour.
type SnapshotOptions struct {
	Path     string          // Output path; format inferred from extension when Format empty
	Format   string          // "svg" or "png" (case-insensitive). If empty, inferred from Path.
	Title    string          // Optional title rendered in the header block
	Width    int             // Canvas width in pixels (default 1200)
	Height   int             // Canvas height in pixels (default 800)
	Data     *model.ClusterData
	Palette  scatter.Palette // Defaults to scatter.DefaultPalette
	Selected *int            // Optional selected cluster; others render dimmed
	DataHash string          // Hash of the input snapshot for provenance
}

// SaveScatterSnapshot renders a static map snapshot (SVG or PNG) with a
// header block carrying algorithm provenance. Degenerate snapshots render
// the fallback panel instead of an empty plot so an exported file is never
// silently blank.
func SaveScatterSnapshot(opts SnapshotOptions) error {
	if opts.Data == nil {
		return fmt.Errorf("no snapshot to export")
	}

	format := strings.ToLower(strings.TrimPrefix(opts.Format, "."))
	if format == "" {
		switch strings.ToLower(filepath.Ext(opts.Path)) {
		case ".svg":
			format = "svg"
		case ".png":
			format = "png"
		default:
			format = "svg" // safe default
			if opts.Path != "" && filepath.Ext(opts.Path) == "" {
				opts.Path = opts.Path + ".svg"
			}
		}
	}
	if format != "svg" && format != "png" {
		return fmt.Errorf("unsupported format %q (want svg or png)", format)
	}
	if opts.Path == "" {
		return fmt.Errorf("output path is required")
	}

	if err := os.MkdirAll(filepath.Dir(opts.Path), 0o755); err != nil {
		return fmt.Errorf("create parent dir: %w", err)
	}

	layout := buildSnapshotLayout(opts)
	start := time.Now()
	defer func() { debug.LogTiming("export."+format, time.Since(start)) }()

	switch format {
	case "svg":
		return renderSVG(opts.Path, layout)
	case "png":
		return renderPNG(opts.Path, layout)
	default:
		return fmt.Errorf("unhandled format %q", format)
	}
}

// --- layout computation ----------------------------------------------------

const (
	defaultWidth  = 1200
	defaultHeight = 800
	minWidth      = 640
	minHeight     = 480
	headerHeight  = 96.0
	padding       = 24.0
)

type snapshotLayout struct {
	Width    int
	Height   int
	Frame    scatter.Frame
	Palette  scatter.Palette
	Legend   bool
	Fallback string
	Header   headerInfo
}

type headerInfo struct {
	Title      string
	Algorithm  string
	Params     string
	PointCount int
	Clusters   int
	DataHash   string
}

func buildSnapshotLayout(opts SnapshotOptions) snapshotLayout {
	width := opts.Width
	if width <= 0 {
		width = defaultWidth
	}
	if width < minWidth {
		width = minWidth
	}
	height := opts.Height
	if height <= 0 {
		height = defaultHeight
	}
	if height < minHeight {
		height = minHeight
	}

	pal := opts.Palette
	if len(pal) == 0 {
		pal = scatter.DefaultPalette
	}

	st := scatter.NewState()
	if opts.Selected != nil {
		st.ToggleCluster(*opts.Selected)
	}

	// The plot area starts below the header block.
	vp := scatter.Viewport{
		W: float64(width),
		H: float64(height),
		Margin: scatter.Margins{
			Top:    headerHeight + padding,
			Right:  scatter.DefaultMargins.Right,
			Bottom: scatter.DefaultMargins.Bottom,
			Left:   scatter.DefaultMargins.Left,
		},
	}
	frame := scatter.BuildFrame(opts.Data, &st, pal, vp)

	title := strings.TrimSpace(opts.Title)
	if title == "" {
		title = "Cluster Map Snapshot"
	}

	return snapshotLayout{
		Width:   width,
		Height:  height,
		Frame:   frame,
		Palette: pal,
		Legend:  len(frame.Legend) > 0,
		Header: headerInfo{
			Title:      title,
			Algorithm:  opts.Data.Algorithm,
			Params:     formatParams(opts.Data.Parameters),
			PointCount: len(opts.Data.Points),
			Clusters:   len(opts.Data.Clusters),
			DataHash:   opts.DataHash,
		},
	}
}

// formatParams renders clustering parameters in a stable key order so two
// exports of the same snapshot are byte-identical.
func formatParams(params map[string]any) string {
	if len(params) == 0 {
		return "none"
	}
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, params[k]))
	}
	return strings.Join(parts, " ")
}

// --- rendering -------------------------------------------------------------

var (
	colorBackdrop = color.RGBA{0xf9, 0xfa, 0xfb, 0xff}
	colorHeaderBG = color.RGBA{0xf3, 0xf4, 0xf6, 0xff}
	colorLegendBG = color.RGBA{0xee, 0xee, 0xee, 0xff}
	colorStroke   = color.RGBA{0x22, 0x22, 0x22, 0xff}
	colorText     = color.RGBA{0x11, 0x11, 0x11, 0xff}
	colorSubtle   = color.RGBA{0x66, 0x66, 0x66, 0xff}
)

func renderSVG(path string, layout snapshotLayout) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return renderSVGToWriter(file, layout)
}

func renderSVGToWriter(w io.Writer, layout snapshotLayout) error {
	canvas := svg.New(w)
	canvas.Start(layout.Width, layout.Height)
	canvas.Rect(0, 0, layout.Width, layout.Height, fmt.Sprintf("fill:%s", css(colorBackdrop)))
	canvas.Roundrect(16, 16, layout.Width-32, int(headerHeight-24), 10, 10, fmt.Sprintf("fill:%s", css(colorHeaderBG)))

	drawHeaderSVG(canvas, layout.Header)

	if layout.Frame.Fallback != "" {
		canvas.Text(layout.Width/2, layout.Height/2, layout.Frame.Fallback,
			fmt.Sprintf("fill:%s;font-size:16px;font-family:monospace;text-anchor:middle", css(colorSubtle)))
		canvas.End()
		return nil
	}

	for _, c := range layout.Frame.Circles {
		canvas.Circle(int(c.X), int(c.Y), int(c.R),
			fmt.Sprintf("fill:%s;fill-opacity:%.2f", css(c.Fill), c.Opacity))
	}

	for _, l := range layout.Frame.Labels {
		canvas.Text(int(l.X), int(l.Y), l.Text,
			fmt.Sprintf("fill:%s;font-size:13px;font-family:monospace;font-weight:bold;text-anchor:middle", css(colorText)))
	}

	if layout.Legend {
		drawLegendSVG(canvas, layout)
	}

	canvas.End()
	return nil
}

func renderPNG(path string, layout snapshotLayout) error {
	dc := gg.NewContext(layout.Width, layout.Height)
	dc.SetColor(colorBackdrop)
	dc.Clear()

	// header
	dc.SetColor(colorHeaderBG)
	dc.DrawRoundedRectangle(16, 16, float64(layout.Width)-32, headerHeight-24, 10)
	dc.Fill()

	dc.SetFontFace(basicfont.Face7x13)

	drawHeader(dc, layout.Header)

	if layout.Frame.Fallback != "" {
		dc.SetColor(colorSubtle)
		dc.DrawStringAnchored(layout.Frame.Fallback, float64(layout.Width)/2, float64(layout.Height)/2, 0.5, 0.5)
		return dc.SavePNG(path)
	}

	for _, c := range layout.Frame.Circles {
		// NRGBA, not RGBA: the fill alpha is straight, and RGBA would be
		// composited as premultiplied, turning dimmed points into
		// saturated wrong hues.
		dc.SetColor(color.NRGBA{R: c.Fill.R, G: c.Fill.G, B: c.Fill.B, A: uint8(c.Opacity * 255)})
		dc.DrawCircle(c.X, c.Y, c.R)
		dc.Fill()
	}

	dc.SetColor(colorText)
	for _, l := range layout.Frame.Labels {
		dc.DrawStringAnchored(l.Text, l.X, l.Y, 0.5, 0.5)
	}

	if layout.Legend {
		drawLegend(dc, layout)
	}

	return dc.SavePNG(path)
}

func drawHeader(dc *gg.Context, h headerInfo) {
	dc.SetColor(colorText)
	dc.DrawStringAnchored(h.Title, 32, 36, 0, 0.5)
	dc.SetColor(colorSubtle)
	dc.DrawStringAnchored(fmt.Sprintf("algorithm: %s  params: %s", h.Algorithm, h.Params), 32, 54, 0, 0.5)
	dc.DrawStringAnchored(fmt.Sprintf("points: %d  clusters: %d  data_hash: %s", h.PointCount, h.Clusters, h.DataHash), 32, 72, 0, 0.5)
}

func drawHeaderSVG(canvas *svg.SVG, h headerInfo) {
	canvas.Text(32, 40, h.Title, fmt.Sprintf("fill:%s;font-size:16px;font-family:monospace;font-weight:bold", css(colorText)))
	canvas.Text(32, 58, fmt.Sprintf("algorithm: %s  params: %s", h.Algorithm, h.Params),
		fmt.Sprintf("fill:%s;font-size:13px;font-family:monospace", css(colorSubtle)))
	canvas.Text(32, 76, fmt.Sprintf("points: %d  clusters: %d  data_hash: %s", h.PointCount, h.Clusters, h.DataHash),
		fmt.Sprintf("fill:%s;font-size:13px;font-family:monospace", css(colorSubtle)))
}

func drawLegend(dc *gg.Context, layout snapshotLayout) {
	tiles := layout.Frame.Legend
	boxW := 220.0
	boxH := float64(len(tiles))*18 + 30
	x := float64(layout.Width) - boxW - 20
	y := headerHeight + 8
	dc.SetColor(colorLegendBG)
	dc.DrawRoundedRectangle(x, y, boxW, boxH, 10)
	dc.Fill()
	dc.SetColor(colorStroke)
	dc.DrawRoundedRectangle(x, y, boxW, boxH, 10)
	dc.Stroke()

	dc.SetColor(colorText)
	dc.DrawStringAnchored("Clusters", x+12, y+16, 0, 0.5)
	for i, tile := range tiles {
		rowY := y + 34 + float64(i)*18
		dc.SetColor(tile.Color)
		dc.DrawRoundedRectangle(x+12, rowY-8, 14, 14, 3)
		dc.Fill()
		dc.SetColor(colorSubtle)
		dc.DrawStringAnchored(legendLabel(tile), x+32, rowY, 0, 0.5)
	}
}

func drawLegendSVG(canvas *svg.SVG, layout snapshotLayout) {
	tiles := layout.Frame.Legend
	boxW := 220
	boxH := len(tiles)*18 + 30
	x := layout.Width - boxW - 20
	y := int(headerHeight) + 8
	canvas.Roundrect(x, y, boxW, boxH, 10, 10,
		fmt.Sprintf("fill:%s;stroke:%s;stroke-width:1", css(colorLegendBG), css(colorStroke)))
	canvas.Text(x+12, y+18, "Clusters", fmt.Sprintf("fill:%s;font-size:13px;font-family:monospace;font-weight:bold", css(colorText)))
	for i, tile := range tiles {
		rowY := y + 34 + i*18
		canvas.Roundrect(x+12, rowY-8, 14, 14, 3, 3,
			fmt.Sprintf("fill:%s;stroke:%s;stroke-width:1", css(tile.Color), css(colorStroke)))
		canvas.Text(x+32, rowY, legendLabel(tile),
			fmt.Sprintf("fill:%s;font-size:12px;font-family:monospace", css(colorSubtle)))
	}
}

func legendLabel(tile scatter.LegendTile) string {
	label := fmt.Sprintf("cluster %d: %d papers (%d-%d)", tile.ClusterID, tile.Size, tile.YearMin, tile.YearMax)
	if tile.Selected {
		label = "* " + label
	}
	return label
}

// --- helpers ---------------------------------------------------------------

func css(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
