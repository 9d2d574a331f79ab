package scatter

import (
	"math"
	"testing"

	"pgregory.net/rapid"

	"github.com/vanderheijden86/litmap/pkg/model"
)

func testViewport() Viewport {
	return Viewport{W: 800, H: 600, Margin: DefaultMargins}
}

func TestExtents(t *testing.T) {
	points := []model.ClusterPoint{
		{X: -2.5, Y: 10},
		{X: 4, Y: -3},
		{X: 0, Y: 7},
	}
	ex, ey := Extents(points)
	if ex.Min != -2.5 || ex.Max != 4 {
		t.Errorf("x extent = [%v, %v], want [-2.5, 4]", ex.Min, ex.Max)
	}
	if ey.Min != -3 || ey.Max != 10 {
		t.Errorf("y extent = [%v, %v], want [-3, 10]", ey.Min, ey.Max)
	}
}

func TestLinearMapsDomainToRange(t *testing.T) {
	s := NewLinear(Extent{Min: 0, Max: 10}, 40, 780)
	if got := s.Apply(0); got != 40 {
		t.Errorf("Apply(0) = %v, want 40", got)
	}
	if got := s.Apply(10); got != 780 {
		t.Errorf("Apply(10) = %v, want 780", got)
	}
	if got := s.Apply(5); got != 410 {
		t.Errorf("Apply(5) = %v, want 410", got)
	}
}

// All points share x = 5: the scale must map every value to the
// horizontal midpoint instead of dividing by the zero-width domain.
func TestZeroWidthDomainMapsToMidpoint(t *testing.T) {
	points := []model.ClusterPoint{
		{X: 5, Y: 1},
		{X: 5, Y: 2},
		{X: 5, Y: 3},
	}
	vp := testViewport()
	sc := NewScales(points, vp)

	mid := (vp.Margin.Left + vp.W - vp.Margin.Right) / 2
	for _, p := range points {
		got := sc.X.Apply(p.X)
		if math.Abs(got-mid) > 1e-9 {
			t.Errorf("scaleX(%v) = %v, want midpoint %v", p.X, got, mid)
		}
		if math.IsNaN(got) || math.IsInf(got, 0) {
			t.Fatalf("scaleX(%v) is not finite: %v", p.X, got)
		}
	}
}

func TestScaleYInverted(t *testing.T) {
	points := []model.ClusterPoint{
		{X: 0, Y: 0},
		{X: 1, Y: 100},
	}
	vp := testViewport()
	sc := NewScales(points, vp)

	low := sc.Y.Apply(0)
	high := sc.Y.Apply(100)
	if high >= low {
		t.Errorf("larger y must render higher on screen: scaleY(100)=%v, scaleY(0)=%v", high, low)
	}
	if low != vp.H-vp.Margin.Bottom {
		t.Errorf("min y maps to %v, want bottom edge %v", low, vp.H-vp.Margin.Bottom)
	}
	if high != vp.Margin.Top {
		t.Errorf("max y maps to %v, want top edge %v", high, vp.Margin.Top)
	}
}

func TestScaleXMonotonic(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		lo := rapid.Float64Range(-1e6, 1e6).Draw(t, "lo")
		hi := rapid.Float64Range(-1e6, 1e6).Draw(t, "hi")
		if lo > hi {
			lo, hi = hi, lo
		}
		s := NewLinear(Extent{Min: lo, Max: hi}, 40, 780)

		x1 := rapid.Float64Range(lo, hi).Draw(t, "x1")
		x2 := rapid.Float64Range(lo, hi).Draw(t, "x2")
		if x1 > x2 {
			x1, x2 = x2, x1
		}
		if s.Apply(x1) > s.Apply(x2)+1e-9 {
			t.Fatalf("scaleX not monotonic: f(%v)=%v > f(%v)=%v", x1, s.Apply(x1), x2, s.Apply(x2))
		}
	})
}

func TestScaleYMonotonicDecreasing(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		lo := rapid.Float64Range(-1e6, 1e6).Draw(t, "lo")
		hi := rapid.Float64Range(-1e6, 1e6).Draw(t, "hi")
		if lo > hi {
			lo, hi = hi, lo
		}
		// y scale runs bottom-up: range start below range end
		s := NewLinear(Extent{Min: lo, Max: hi}, 570, 20)

		y1 := rapid.Float64Range(lo, hi).Draw(t, "y1")
		y2 := rapid.Float64Range(lo, hi).Draw(t, "y2")
		if y1 > y2 {
			y1, y2 = y2, y1
		}
		if s.Apply(y1) < s.Apply(y2)-1e-9 {
			t.Fatalf("scaleY not monotone decreasing: f(%v)=%v < f(%v)=%v", y1, s.Apply(y1), y2, s.Apply(y2))
		}
	})
}
