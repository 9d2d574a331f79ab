package export

import (
	"bytes"
	"encoding/xml"
	"image/png"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/vanderheijden86/litmap/pkg/model"
)

func intPtr(v int) *int { return &v }

func sampleData() *model.ClusterData {
	return &model.ClusterData{
		Points: []model.ClusterPoint{
			{ID: "p1", X: 0, Y: 0, ClusterID: 0, Title: "Motor decoding", Year: 2021,
				Keywords: []string{"eeg", "decoding"}, CitationCount: intPtr(150)},
			{ID: "p2", X: 2, Y: 1, ClusterID: 0, Title: "Spike sorting", Year: 2022},
			{ID: "p3", X: 5, Y: 4, ClusterID: 1, Title: "Cortical imaging", Year: 2023},
		},
		Clusters: map[int]model.ClusterSummary{
			0: {Size: 2, TopKeywords: []string{"decoding", "eeg"}, YearRange: model.YearRange{Min: 2021, Max: 2022}},
			1: {Size: 1, TopKeywords: []string{"imaging"}, YearRange: model.YearRange{Min: 2023, Max: 2023}},
		},
		Algorithm:  "hdbscan",
		Parameters: map[string]any{"min_cluster_size": 5, "metric": "euclidean"},
	}
}

// TestSVG_ValidXMLStructure verifies the generated SVG is valid XML
func TestSVG_ValidXMLStructure(t *testing.T) {
	tmp := t.TempDir()
	out := filepath.Join(tmp, "valid.svg")

	err := SaveScatterSnapshot(SnapshotOptions{
		Path:     out,
		Format:   "svg",
		Data:     sampleData(),
		DataHash: "testhash123",
	})
	if err != nil {
		t.Fatalf("SaveScatterSnapshot error: %v", err)
	}

	content, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}

	var svgDoc interface{}
	if err := xml.Unmarshal(content, &svgDoc); err != nil {
		t.Errorf("SVG is not valid XML: %v\nContent:\n%s", err, string(content))
	}
}

// TestSVG_CirclesRendered verifies each point becomes a circle element
func TestSVG_CirclesRendered(t *testing.T) {
	tmp := t.TempDir()
	out := filepath.Join(tmp, "circles.svg")

	data := sampleData()
	err := SaveScatterSnapshot(SnapshotOptions{Path: out, Format: "svg", Data: data})
	if err != nil {
		t.Fatalf("SaveScatterSnapshot error: %v", err)
	}

	content, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	svgStr := string(content)

	circleCount := strings.Count(svgStr, "<circle ")
	if circleCount != len(data.Points) {
		t.Errorf("Expected %d circle elements, found %d", len(data.Points), circleCount)
	}

	// Every circle carries a fill-opacity (the hover/selection encoding)
	opacityCount := strings.Count(svgStr, "fill-opacity:")
	if opacityCount != circleCount {
		t.Errorf("Expected fill-opacity on all %d circles, found %d", circleCount, opacityCount)
	}

	// No selection: everything renders at full opacity
	if !strings.Contains(svgStr, "fill-opacity:0.70") {
		t.Error("Expected fill-opacity:0.70 for unselected state")
	}
}

// TestSVG_CentroidLabelsPresent verifies cluster keyword labels are rendered
func TestSVG_CentroidLabelsPresent(t *testing.T) {
	tmp := t.TempDir()
	out := filepath.Join(tmp, "labels.svg")

	err := SaveScatterSnapshot(SnapshotOptions{Path: out, Format: "svg", Data: sampleData()})
	if err != nil {
		t.Fatalf("SaveScatterSnapshot error: %v", err)
	}

	content, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	svgStr := string(content)

	if !strings.Contains(svgStr, "decoding") {
		t.Error("Centroid label 'decoding' not found in SVG")
	}
	if !strings.Contains(svgStr, "imaging") {
		t.Error("Centroid label 'imaging' not found in SVG")
	}
}

// TestSVG_SelectionDimsOtherClusters verifies the dimmed opacity appears
func TestSVG_SelectionDimsOtherClusters(t *testing.T) {
	tmp := t.TempDir()
	out := filepath.Join(tmp, "selected.svg")

	err := SaveScatterSnapshot(SnapshotOptions{
		Path:     out,
		Format:   "svg",
		Data:     sampleData(),
		Selected: intPtr(1),
	})
	if err != nil {
		t.Fatalf("SaveScatterSnapshot error: %v", err)
	}

	content, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	svgStr := string(content)

	if !strings.Contains(svgStr, "fill-opacity:0.20") {
		t.Error("Expected dimmed clusters at fill-opacity:0.20")
	}
	if !strings.Contains(svgStr, "fill-opacity:0.70") {
		t.Error("Expected the selected cluster at fill-opacity:0.70")
	}
	// Selected cluster is starred in the legend
	if !strings.Contains(svgStr, "* cluster 1") {
		t.Error("Selected cluster marker not found in legend")
	}
}

// TestSVG_HeaderBlockPresent verifies algorithm provenance is rendered
func TestSVG_HeaderBlockPresent(t *testing.T) {
	tmp := t.TempDir()
	out := filepath.Join(tmp, "header.svg")

	err := SaveScatterSnapshot(SnapshotOptions{
		Path:     out,
		Format:   "svg",
		Title:    "BCI Literature Map",
		Data:     sampleData(),
		DataHash: "abc123hash",
	})
	if err != nil {
		t.Fatalf("SaveScatterSnapshot error: %v", err)
	}

	content, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	svgStr := string(content)

	if !strings.Contains(svgStr, "BCI Literature Map") {
		t.Error("Custom title not found in SVG header")
	}
	if !strings.Contains(svgStr, "hdbscan") {
		t.Error("Algorithm not found in SVG header")
	}
	if !strings.Contains(svgStr, "abc123hash") {
		t.Error("Data hash not found in SVG header")
	}
	// Params render in stable key order
	if !strings.Contains(svgStr, "metric=euclidean min_cluster_size=5") {
		t.Error("Sorted parameters not found in SVG header")
	}
}

// TestSVG_LegendPresent verifies the legend box is rendered
func TestSVG_LegendPresent(t *testing.T) {
	tmp := t.TempDir()
	out := filepath.Join(tmp, "legend.svg")

	err := SaveScatterSnapshot(SnapshotOptions{Path: out, Format: "svg", Data: sampleData()})
	if err != nil {
		t.Fatalf("SaveScatterSnapshot error: %v", err)
	}

	content, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	svgStr := string(content)

	if !strings.Contains(svgStr, "Clusters") {
		t.Error("Legend title not found in SVG")
	}
	if !strings.Contains(svgStr, "cluster 0: 2 papers (2021-2022)") {
		t.Error("Legend row for cluster 0 not found in SVG")
	}
}

// TestSVG_FallbackPanel verifies degenerate snapshots render the message
func TestSVG_FallbackPanel(t *testing.T) {
	tmp := t.TempDir()
	out := filepath.Join(tmp, "fallback.svg")

	err := SaveScatterSnapshot(SnapshotOptions{
		Path:   out,
		Format: "svg",
		Data:   &model.ClusterData{Message: "Insufficient data for clustering"},
	})
	if err != nil {
		t.Fatalf("SaveScatterSnapshot error: %v", err)
	}

	content, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	svgStr := string(content)

	if !strings.Contains(svgStr, "Insufficient data for clustering") {
		t.Error("Fallback message not found in SVG")
	}
	if strings.Contains(svgStr, "<circle ") {
		t.Error("Degenerate snapshot must not render circles")
	}
}

// TestSVG_DimensionDefaults verifies sizing falls back sensibly
func TestSVG_DimensionDefaults(t *testing.T) {
	tmp := t.TempDir()
	out := filepath.Join(tmp, "dims.svg")

	err := SaveScatterSnapshot(SnapshotOptions{Path: out, Format: "svg", Data: sampleData(), Width: 10, Height: 10})
	if err != nil {
		t.Fatalf("SaveScatterSnapshot error: %v", err)
	}

	content, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	svgStr := string(content)

	widthMatch := regexp.MustCompile(`width="([0-9]+)"`).FindStringSubmatch(svgStr)
	if len(widthMatch) < 2 || widthMatch[1] != "640" {
		t.Errorf("Expected width clamped to 640, got %v", widthMatch)
	}
}

func TestFormatInferredFromExtension(t *testing.T) {
	tmp := t.TempDir()

	pngOut := filepath.Join(tmp, "map.png")
	if err := SaveScatterSnapshot(SnapshotOptions{Path: pngOut, Data: sampleData()}); err != nil {
		t.Fatalf("png export failed: %v", err)
	}
	raw, err := os.ReadFile(pngOut)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := png.Decode(bytes.NewReader(raw)); err != nil {
		t.Errorf("output is not a decodable PNG: %v", err)
	}

	// Extension-less path gets .svg appended
	bare := filepath.Join(tmp, "map")
	if err := SaveScatterSnapshot(SnapshotOptions{Path: bare, Data: sampleData()}); err != nil {
		t.Fatalf("bare-path export failed: %v", err)
	}
	if _, err := os.Stat(bare + ".svg"); err != nil {
		t.Errorf("expected %s.svg to exist: %v", bare, err)
	}
}

// TestPNG_SelectionDimmingBlend samples the center pixel of each circle
// and checks it is the straight-alpha blend of the cluster color over the
// backdrop. A premultiplied-alpha mixup here renders dimmed points as
// saturated wrong hues instead of faded cluster colors.
func TestPNG_SelectionDimmingBlend(t *testing.T) {
	tmp := t.TempDir()
	out := filepath.Join(tmp, "dim.png")

	// No cluster summaries: no centroid labels or legend to overpaint
	// the sampled pixels.
	data := &model.ClusterData{
		Points: []model.ClusterPoint{
			{ID: "a", X: 0, Y: 0, ClusterID: 0, Title: "A", Year: 2020},
			{ID: "b", X: 10, Y: 10, ClusterID: 1, Title: "B", Year: 2021},
		},
		Algorithm: "hdbscan",
	}
	opts := SnapshotOptions{Path: out, Format: "png", Data: data, Selected: intPtr(1)}

	if err := SaveScatterSnapshot(opts); err != nil {
		t.Fatalf("SaveScatterSnapshot error: %v", err)
	}
	raw, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("decode PNG: %v", err)
	}

	layout := buildSnapshotLayout(opts)
	if len(layout.Frame.Circles) != 2 {
		t.Fatalf("got %d circles, want 2", len(layout.Frame.Circles))
	}

	for _, c := range layout.Frame.Circles {
		r16, g16, b16, _ := img.At(int(c.X), int(c.Y)).RGBA()
		got := [3]float64{float64(r16 >> 8), float64(g16 >> 8), float64(b16 >> 8)}
		want := [3]float64{
			c.Opacity*float64(c.Fill.R) + (1-c.Opacity)*float64(colorBackdrop.R),
			c.Opacity*float64(c.Fill.G) + (1-c.Opacity)*float64(colorBackdrop.G),
			c.Opacity*float64(c.Fill.B) + (1-c.Opacity)*float64(colorBackdrop.B),
		}
		for i := range got {
			if diff := got[i] - want[i]; diff > 3 || diff < -3 {
				t.Errorf("circle at (%.0f,%.0f) opacity %.2f: channel %d = %.0f, want %.0f±3",
					c.X, c.Y, c.Opacity, i, got[i], want[i])
			}
		}
	}
}

func TestUnsupportedFormat(t *testing.T) {
	err := SaveScatterSnapshot(SnapshotOptions{Path: "x.svg", Format: "gif", Data: sampleData()})
	if err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestNilData(t *testing.T) {
	if err := SaveScatterSnapshot(SnapshotOptions{Path: "x.svg"}); err == nil {
		t.Fatal("expected error for nil data")
	}
}

func TestSaveAllFormats(t *testing.T) {
	tmp := t.TempDir()
	out := filepath.Join(tmp, "map.svg")

	if err := SaveAllFormats(SnapshotOptions{Path: out, Data: sampleData()}); err != nil {
		t.Fatalf("SaveAllFormats error: %v", err)
	}

	for _, ext := range []string{".svg", ".png"} {
		p := filepath.Join(tmp, "map"+ext)
		info, err := os.Stat(p)
		if err != nil {
			t.Errorf("expected %s to exist: %v", p, err)
			continue
		}
		if info.Size() == 0 {
			t.Errorf("%s is empty", p)
		}
	}
}
