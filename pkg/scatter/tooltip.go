package scatter

import (
	"strings"

	"github.com/vanderheijden86/litmap/pkg/model"
)

// Tooltip offsets from the pointer, in pixels. Right and up, so the box
// never sits under the pointer itself.
const (
	TooltipDX = 10
	TooltipDY = -10
)

// MaxTooltipKeywords bounds the keyword line to the first N entries.
const MaxTooltipKeywords = 3

// Tooltip is the fixed-field overlay content for a hovered point.
type Tooltip struct {
	Title     string
	Year      int
	ClusterID int
	Keywords  string // first three, comma-joined; empty when the point has none
	Citations *int   // nil when the snapshot carried no citation count
}

// TooltipFor extracts the overlay content for a point.
func TooltipFor(p model.ClusterPoint) Tooltip {
	kws := p.Keywords
	if len(kws) > MaxTooltipKeywords {
		kws = kws[:MaxTooltipKeywords]
	}
	return Tooltip{
		Title:     p.Title,
		Year:      p.Year,
		ClusterID: p.ClusterID,
		Keywords:  strings.Join(kws, ", "),
		Citations: p.CitationCount,
	}
}

// TooltipPosition offsets the overlay from the pointer and clamps it into
// the viewport so it never renders off-surface. Recomputed on every pointer
// move while the same point stays hovered.
func TooltipPosition(pointerX, pointerY float64, boxW, boxH float64, vp Viewport) (x, y float64) {
	x = pointerX + TooltipDX
	y = pointerY + TooltipDY

	if x+boxW > vp.W {
		x = pointerX - TooltipDX - boxW
	}
	if x < 0 {
		x = 0
	}
	if y+boxH > vp.H {
		y = vp.H - boxH
	}
	if y < 0 {
		y = 0
	}
	return x, y
}
