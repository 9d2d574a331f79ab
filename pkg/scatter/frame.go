package scatter

import (
	"fmt"
	"image/color"
	"math"

	"github.com/vanderheijden86/litmap/pkg/model"
)

// Presentation constants. Values copied from the web frontend; the relative
// ordering (selected brighter than unselected, more citations larger) is the
// contract, the exact numbers are tunable.
const (
	BaseRadius    = 4.0 // pixels
	RadiusCap     = 3.0 // max citation bonus, pixels
	CitationScale = 100.0
	FullOpacity   = 0.7
	DimOpacity    = 0.2
)

// Circle is one drawable point.
type Circle struct {
	X, Y     float64
	R        float64
	Fill     color.RGBA
	Opacity  float64
	PointIdx int // index into the snapshot's point slice, for hit-testing
}

// Label is a cluster label placed at the projected centroid.
type Label struct {
	X, Y      float64
	Text      string
	ClusterID int
}

// LegendTile is one selectable entry in the cluster summary panel.
type LegendTile struct {
	ClusterID int
	Size      int
	YearMin   int
	YearMax   int
	Color     color.RGBA
	Selected  bool
}

// Frame is the full drawable output of one render pass. Rendering is a pure
// function of (snapshot, state, viewport): any host surface — the TUI, the
// SVG exporter, the PNG exporter — consumes the same frame, and calling
// BuildFrame twice with identical inputs yields identical frames.
type Frame struct {
	Circles []Circle
	Labels  []Label
	Legend  []LegendTile

	// Fallback is non-empty when the snapshot is degenerate; in that case
	// all other fields are empty and the host renders the message panel.
	Fallback string
}

// Radius computes the citation size encoding for a point:
// base plus a capped bonus, giving a visually bounded radius in [4, 7].
// An absent citation count earns no bonus.
func Radius(p model.ClusterPoint) float64 {
	bonus := math.Min(float64(p.Citations())/CitationScale, RadiusCap)
	return BaseRadius + bonus
}

// BuildFrame projects a snapshot into drawable primitives.
//
// Degenerate input is decided before any projection work so an empty point
// set never reaches the extent computation. Orphaned cluster ids degrade to
// "no label, color still computed by modulo".
func BuildFrame(data *model.ClusterData, st *State, pal Palette, vp Viewport) Frame {
	if data.Degenerate() {
		return Frame{Fallback: data.FallbackMessage()}
	}

	sc := NewScales(data.Points, vp)
	return BuildFrameWithScales(data, st, pal, sc)
}

// BuildFrameWithScales is the interaction-only re-render path: hosts that
// cache Scales across hover/selection changes call this to avoid recomputing
// the extent when only visual properties changed. Callers must have already
// rejected degenerate snapshots.
func BuildFrameWithScales(data *model.ClusterData, st *State, pal Palette, sc Scales) Frame {
	f := Frame{
		Circles: make([]Circle, 0, len(data.Points)),
	}

	for i, p := range data.Points {
		f.Circles = append(f.Circles, Circle{
			X:        sc.X.Apply(p.X),
			Y:        sc.Y.Apply(p.Y),
			R:        Radius(p),
			Fill:     pal.Color(p.ClusterID),
			Opacity:  st.Opacity(p.ClusterID),
			PointIdx: i,
		})
	}

	centroids := Centroids(data)
	for _, id := range data.ClusterIDs() {
		c, ok := centroids[id]
		if !ok {
			// declared but empty: no defined label position
			continue
		}
		f.Labels = append(f.Labels, Label{
			X:         sc.X.Apply(c.X),
			Y:         sc.Y.Apply(c.Y),
			Text:      clusterLabel(id, data.Clusters[id]),
			ClusterID: id,
		})
	}

	selected, hasSel := st.SelectedCluster()
	for _, id := range data.ClusterIDs() {
		sum := data.Clusters[id]
		f.Legend = append(f.Legend, LegendTile{
			ClusterID: id,
			Size:      sum.Size,
			YearMin:   sum.YearRange.Min,
			YearMax:   sum.YearRange.Max,
			Color:     pal.Color(id),
			Selected:  hasSel && selected == id,
		})
	}

	return f
}

func clusterLabel(id int, sum model.ClusterSummary) string {
	if len(sum.TopKeywords) > 0 {
		return sum.TopKeywords[0]
	}
	return fmt.Sprintf("cluster %d", id)
}
