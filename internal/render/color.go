package render

import (
	"fmt"
	"image/color"
)

// DefaultPalette is the species colour cycle used when none is configured.
var DefaultPalette = Palette{
	{R: 0x00, G: 0x66, B: 0xFF, A: 0xFF},
	{R: 0x33, G: 0x99, B: 0x33, A: 0xFF},
	{R: 0xCC, G: 0x33, B: 0x00, A: 0xFF},
	{R: 0x66, G: 0x00, B: 0x66, A: 0xFF},
	{R: 0xFF, G: 0x99, B: 0x00, A: 0xFF},
	{R: 0xB2, G: 0x00, B: 0x47, A: 0xFF},
}

// ModelColor draws the synthesized model.
var ModelColor = color.RGBA{R: 0x99, G: 0x99, B: 0x66, A: 0xFF}

// MarkerColor draws component velocity limits and pending clicks.
var MarkerColor = color.RGBA{R: 0xFF, G: 0x00, B: 0x00, A: 0xFF}

// Palette is an ordered list of colours cycled through by species index.
type Palette []color.RGBA

// SpeciesColor returns the colour for the i-th species group on a page.
func SpeciesColor(p Palette, i int) color.RGBA {
	if len(p) == 0 {
		p = DefaultPalette
	}
	n := len(p)
	return p[((i%n)+n)%n]
}

// Hex formats c as "#RRGGBB".
func Hex(c color.RGBA) string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// ParsePalette parses "#RRGGBB" strings into a palette.
func ParsePalette(hexes []string) (Palette, error) {
	p := make(Palette, 0, len(hexes))
	for _, h := range hexes {
		var c color.RGBA
		if _, err := fmt.Sscanf(h, "#%02x%02x%02x", &c.R, &c.G, &c.B); err != nil {
			return nil, fmt.Errorf("invalid colour %q: %w", h, err)
		}
		c.A = 0xFF
		p = append(p, c)
	}
	return p, nil
}
