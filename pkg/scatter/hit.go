package scatter

import "math"

// HitSlack widens every circle's hit region a little; exact-pixel targets
// are miserable with a terminal mouse.
const HitSlack = 1.0

// HitTest returns the index (into the snapshot's point slice) of the circle
// under the pointer, preferring the topmost-drawn when circles overlap.
// ok is false when no circle's hit region contains the pointer.
func HitTest(f Frame, x, y float64) (pointIdx int, ok bool) {
	// Later circles draw on top, so scan back to front.
	for i := len(f.Circles) - 1; i >= 0; i-- {
		c := f.Circles[i]
		if math.Hypot(x-c.X, y-c.Y) <= c.R+HitSlack {
			return c.PointIdx, true
		}
	}
	return 0, false
}
