package scatter

import (
	"fmt"
	"image/color"
)

// DefaultPalette is the fixed ordered color set cycled by cluster id.
// These are the ten categorical colors the web frontend shipped with;
// keeping them means SVG/PNG exports match what users saw in the browser.
var DefaultPalette = Palette{
	{0x1f, 0x77, 0xb4, 0xff}, // blue
	{0xff, 0x7f, 0x0e, 0xff}, // orange
	{0x2c, 0xa0, 0x2c, 0xff}, // green
	{0xd6, 0x27, 0x28, 0xff}, // red
	{0x94, 0x67, 0xbd, 0xff}, // purple
	{0x8c, 0x56, 0x4b, 0xff}, // brown
	{0xe3, 0x77, 0xc2, 0xff}, // pink
	{0x7f, 0x7f, 0x7f, 0xff}, // gray
	{0xbc, 0xbd, 0x22, 0xff}, // olive
	{0x17, 0xbe, 0xcf, 0xff}, // cyan
}

// Palette is an ordered list of distinct colors. Color assignment is a pure
// function of the cluster id, so two points in the same cluster always render
// identically regardless of draw order or selection state.
type Palette []color.RGBA

// Color returns the palette entry for a cluster id via modulo lookup.
// Ids are not required to be contiguous or zero-based.
func (p Palette) Color(clusterID int) color.RGBA {
	if len(p) == 0 {
		p = DefaultPalette
	}
	i := clusterID % len(p)
	if i < 0 {
		i += len(p)
	}
	return p[i]
}

// Hex returns the CSS hex form of the palette entry for a cluster id.
func (p Palette) Hex(clusterID int) string {
	c := p.Color(clusterID)
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// ParsePalette builds a Palette from "#rrggbb" strings, used for config
// overrides. Invalid entries are rejected rather than silently skipped so a
// typo in the config file doesn't shift every cluster's color by one.
func ParsePalette(hexes []string) (Palette, error) {
	if len(hexes) == 0 {
		return nil, fmt.Errorf("palette must contain at least one color")
	}
	p := make(Palette, 0, len(hexes))
	for _, h := range hexes {
		var r, g, b uint8
		if _, err := fmt.Sscanf(h, "#%02x%02x%02x", &r, &g, &b); err != nil {
			return nil, fmt.Errorf("invalid palette color %q: %w", h, err)
		}
		p = append(p, color.RGBA{r, g, b, 0xff})
	}
	return p, nil
}
