package terminal

import (
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Named TrueColor palette used for backgrounds and default mesh tint
// Ordered dark-to-light within each hue group
var (
	// --- Achromatic ---
	Black     = RGB{0, 0, 0}
	Obsidian  = RGB{20, 20, 30} // Blue-black
	Gunmetal  = RGB{26, 27, 38} // Blue-tinted near-black
	DarkSlate = RGB{35, 36, 48} // Blue-gray near-black
	DimGray   = RGB{55, 55, 55}
	Gray      = RGB{120, 120, 120}
	Silver    = RGB{180, 180, 180}
	LightGray = RGB{200, 200, 200}
	White     = RGB{255, 255, 255}

	// --- Warm ---
	Crimson = RGB{220, 20, 60}
	Amber   = RGB{255, 191, 0}
	Gold    = RGB{255, 215, 0}

	// --- Cool ---
	Teal      = RGB{0, 128, 128}
	SteelBlue = RGB{70, 130, 180}
	SkyBlue   = RGB{135, 206, 235}
	Mint      = RGB{152, 255, 152}
)

var namedColors = map[string]RGB{
	"black":     Black,
	"obsidian":  Obsidian,
	"gunmetal":  Gunmetal,
	"darkslate": DarkSlate,
	"dimgray":   DimGray,
	"gray":      Gray,
	"silver":    Silver,
	"lightgray": LightGray,
	"white":     White,
	"crimson":   Crimson,
	"amber":     Amber,
	"gold":      Gold,
	"teal":      Teal,
	"steelblue": SteelBlue,
	"skyblue":   SkyBlue,
	"mint":      Mint,
}

// ParseRGB resolves a palette name or a #rrggbb / #rgb hex string
func ParseRGB(s string) (RGB, error) {
	if c, ok := namedColors[strings.ToLower(strings.TrimSpace(s))]; ok {
		return c, nil
	}
	c, err := colorful.Hex(strings.TrimSpace(s))
	if err != nil {
		return RGB{}, err
	}
	return FromColorful(c), nil
}

// FromColorful converts a go-colorful color, clamping out-of-gamut values
func FromColorful(c colorful.Color) RGB {
	r, g, b := c.Clamped().RGB255()
	return RGB{r, g, b}
}

// Colorful converts to a go-colorful color for blending
func (c RGB) Colorful() colorful.Color {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
}

// Hex returns the #rrggbb form of the color
func (c RGB) Hex() string {
	return c.Colorful().Hex()
}
