package scatter

import (
	"math"

	"github.com/vanderheijden86/litmap/pkg/model"
)

// Margins are the fixed margins inside the viewport, in pixels.
type Margins struct {
	Top    float64
	Right  float64
	Bottom float64
	Left   float64
}

// DefaultMargins leave room for centroid labels at the top and the first
// column of points on the left.
var DefaultMargins = Margins{Top: 20, Right: 20, Bottom: 30, Left: 40}

// Viewport is the target pixel surface for projection.
type Viewport struct {
	W, H   float64
	Margin Margins
}

// Extent is the min/max bounds of one coordinate across a point set.
type Extent struct {
	Min, Max float64
}

// Width returns the size of the extent's domain.
func (e Extent) Width() float64 { return e.Max - e.Min }

// Extents computes the x and y extents of a point set. Points must be
// non-empty; callers short-circuit degenerate snapshots before projecting.
func Extents(points []model.ClusterPoint) (x, y Extent) {
	x = Extent{Min: points[0].X, Max: points[0].X}
	y = Extent{Min: points[0].Y, Max: points[0].Y}
	for _, p := range points[1:] {
		x.Min = math.Min(x.Min, p.X)
		x.Max = math.Max(x.Max, p.X)
		y.Min = math.Min(y.Min, p.Y)
		y.Max = math.Max(y.Max, p.Y)
	}
	return x, y
}

// Linear maps a data-space interval onto a pixel interval. It is a pure
// value: computed once per snapshot, never on hover/selection changes.
type Linear struct {
	d0, d1 float64 // domain
	r0, r1 float64 // range
}

// NewLinear builds a linear scale. A zero-width domain degrades to a
// constant map onto the midpoint of the range, so a snapshot where every
// point shares one coordinate still renders instead of dividing by zero.
func NewLinear(domain Extent, r0, r1 float64) Linear {
	return Linear{d0: domain.Min, d1: domain.Max, r0: r0, r1: r1}
}

// Apply maps a data value to a pixel position.
func (s Linear) Apply(v float64) float64 {
	if s.d1 == s.d0 {
		return (s.r0 + s.r1) / 2
	}
	t := (v - s.d0) / (s.d1 - s.d0)
	return s.r0 + t*(s.r1-s.r0)
}

// Scales is the pair of projections for one snapshot.
type Scales struct {
	X, Y Linear
}

// NewScales derives the projection from the actual extent of points.
// Y is inverted: larger data values render higher on screen.
func NewScales(points []model.ClusterPoint, vp Viewport) Scales {
	ex, ey := Extents(points)
	m := vp.Margin
	return Scales{
		X: NewLinear(ex, m.Left, vp.W-m.Right),
		Y: NewLinear(ey, vp.H-m.Bottom, m.Top),
	}
}
