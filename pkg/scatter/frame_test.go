package scatter

import (
	"testing"

	"pgregory.net/rapid"

	"github.com/vanderheijden86/litmap/pkg/model"
)

func intPtr(n int) *int { return &n }

// threePointSnapshot has 3 points across 2 clusters,
// no message.
func threePointSnapshot() *model.ClusterData {
	return &model.ClusterData{
		Points: []model.ClusterPoint{
			{ID: "p1", X: 0, Y: 0, ClusterID: 0, Title: "Alpha", Year: 2020},
			{ID: "p2", X: 1, Y: 1, ClusterID: 0, Title: "Beta", Year: 2021},
			{ID: "p3", X: 2, Y: 0.5, ClusterID: 1, Title: "Gamma", Year: 2023},
		},
		Clusters: map[int]model.ClusterSummary{
			0: {Size: 2, TopKeywords: []string{"decoding"}, YearRange: model.YearRange{Min: 2020, Max: 2021}},
			1: {Size: 1, TopKeywords: []string{"imaging"}, YearRange: model.YearRange{Min: 2023, Max: 2023}},
		},
		Algorithm: "UMAP + KMeans",
	}
}

func TestRadiusBounds(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		p := model.ClusterPoint{}
		if rapid.Bool().Draw(t, "hasCitations") {
			p.CitationCount = intPtr(rapid.IntRange(0, 100000).Draw(t, "citations"))
		}
		r := Radius(p)
		if r < BaseRadius || r > BaseRadius+RadiusCap {
			t.Fatalf("radius %v outside [%v, %v]", r, BaseRadius, BaseRadius+RadiusCap)
		}
	})
}

func TestRadiusEncoding(t *testing.T) {
	tests := []struct {
		citations *int
		want      float64
	}{
		{nil, 4},            // absent: no bonus
		{intPtr(0), 4},      // zero: no bonus
		{intPtr(100), 5},    // 100/100 = 1
		{intPtr(250), 6.5},  // 250/100 = 2.5
		{intPtr(300), 7},    // exactly the cap
		{intPtr(99999), 7},  // capped
		{intPtr(-5), 4},     // negative treated as absent
	}
	for _, tt := range tests {
		p := model.ClusterPoint{CitationCount: tt.citations}
		if got := Radius(p); got != tt.want {
			t.Errorf("Radius(citations=%v) = %v, want %v", tt.citations, got, tt.want)
		}
	}
}

func TestRadiusMonotoneInCitations(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		a := rapid.IntRange(0, 1000).Draw(t, "a")
		b := rapid.IntRange(0, 1000).Draw(t, "b")
		if a > b {
			a, b = b, a
		}
		ra := Radius(model.ClusterPoint{CitationCount: intPtr(a)})
		rb := Radius(model.ClusterPoint{CitationCount: intPtr(b)})
		if ra > rb {
			t.Fatalf("more citations must not shrink the point: R(%d)=%v > R(%d)=%v", a, ra, b, rb)
		}
	})
}

// Selecting a cluster keeps its points at full opacity, dims the rest,
// and marks its legend tile.
func TestBuildFrameLegendAndDimming(t *testing.T) {
	data := threePointSnapshot()
	st := NewState()
	f := BuildFrame(data, &st, DefaultPalette, testViewport())

	if f.Fallback != "" {
		t.Fatalf("unexpected fallback %q", f.Fallback)
	}
	if len(f.Circles) != 3 {
		t.Fatalf("got %d circles, want 3", len(f.Circles))
	}
	if len(f.Legend) != 2 {
		t.Fatalf("got %d legend tiles, want 2", len(f.Legend))
	}

	// Click legend tile "1".
	st.ToggleCluster(1)
	f = BuildFrame(data, &st, DefaultPalette, testViewport())

	for _, c := range f.Circles {
		p := data.Points[c.PointIdx]
		if p.ClusterID == 1 && c.Opacity != FullOpacity {
			t.Errorf("point %s in selected cluster has opacity %v", p.ID, c.Opacity)
		}
		if p.ClusterID != 1 && c.Opacity >= FullOpacity {
			t.Errorf("point %s outside selected cluster not dimmed: %v", p.ID, c.Opacity)
		}
	}

	var tileSelected bool
	for _, tile := range f.Legend {
		if tile.ClusterID == 1 {
			tileSelected = tile.Selected
		} else if tile.Selected {
			t.Errorf("tile %d marked selected", tile.ClusterID)
		}
	}
	if !tileSelected {
		t.Error("tile 1 not marked selected")
	}
}

// A degenerate snapshot renders only the fallback panel.
func TestBuildFrameDegenerateFallback(t *testing.T) {
	data := &model.ClusterData{Message: "Insufficient data"}
	st := NewState()
	f := BuildFrame(data, &st, DefaultPalette, testViewport())

	if f.Fallback != "Insufficient data" {
		t.Fatalf("fallback = %q, want the snapshot message", f.Fallback)
	}
	if len(f.Circles) != 0 || len(f.Labels) != 0 || len(f.Legend) != 0 {
		t.Error("degenerate snapshot must render no points, labels, or legend")
	}
}

func TestBuildFrameEmptyPointsNoMessage(t *testing.T) {
	data := &model.ClusterData{}
	st := NewState()
	f := BuildFrame(data, &st, DefaultPalette, testViewport())
	if f.Fallback == "" {
		t.Fatal("empty point set with no message must still fall back")
	}
}

func TestBuildFrameOrphanClusterID(t *testing.T) {
	data := threePointSnapshot()
	data.Points = append(data.Points, model.ClusterPoint{
		ID: "stray", X: 0.5, Y: 0.7, ClusterID: 23, Title: "Delta",
	})
	st := NewState()
	f := BuildFrame(data, &st, DefaultPalette, testViewport())

	// The orphan still renders, with its modulo-derived color.
	if len(f.Circles) != 4 {
		t.Fatalf("got %d circles, want 4", len(f.Circles))
	}
	want := DefaultPalette.Color(23)
	var found bool
	for _, c := range f.Circles {
		if data.Points[c.PointIdx].ID == "stray" {
			found = true
			if c.Fill != want {
				t.Errorf("orphan fill = %v, want %v", c.Fill, want)
			}
		}
	}
	if !found {
		t.Fatal("orphan point not rendered")
	}

	// But it earns no centroid label.
	for _, l := range f.Labels {
		if l.ClusterID == 23 {
			t.Error("orphan cluster id must not produce a label")
		}
	}
}

func TestBuildFrameIdempotent(t *testing.T) {
	data := threePointSnapshot()
	st := NewState()
	st.ToggleCluster(0)
	st.Hover(1)

	a := BuildFrame(data, &st, DefaultPalette, testViewport())
	b := BuildFrame(data, &st, DefaultPalette, testViewport())

	if len(a.Circles) != len(b.Circles) || len(a.Labels) != len(b.Labels) || len(a.Legend) != len(b.Legend) {
		t.Fatal("identical inputs produced different frame shapes")
	}
	for i := range a.Circles {
		if a.Circles[i] != b.Circles[i] {
			t.Fatalf("circle %d differs between identical renders", i)
		}
	}
}

func TestLegendOrderedByClusterID(t *testing.T) {
	data := &model.ClusterData{
		Points: []model.ClusterPoint{
			{X: 0, Y: 0, ClusterID: 12},
			{X: 1, Y: 1, ClusterID: 3},
		},
		Clusters: map[int]model.ClusterSummary{
			12: {Size: 1},
			3:  {Size: 1},
		},
	}
	st := NewState()
	f := BuildFrame(data, &st, DefaultPalette, testViewport())
	if len(f.Legend) != 2 || f.Legend[0].ClusterID != 3 || f.Legend[1].ClusterID != 12 {
		t.Fatalf("legend tiles must be ordered by cluster id, got %+v", f.Legend)
	}
}
