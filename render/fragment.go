package render

import (
	"math"

	"github.com/lixenwraith/asciimesh/terminal"
)

// ShadingChannels is the number of fragment slots per cell
// Channel 0 samples the upper half of a cell, channel 1 the lower half
const ShadingChannels = 2

// RGB is an alias to terminal.RGB for colors
type RGB = terminal.RGB

// OptionalRGB is a color that may be absent; a fragment without color is unshaded
type OptionalRGB struct {
	RGB   RGB
	Valid bool
}

// SomeRGB returns a present color
func SomeRGB(c RGB) OptionalRGB {
	return OptionalRGB{RGB: c, Valid: true}
}

// Or returns the color if present, fallback otherwise
func (o OptionalRGB) Or(fallback RGB) RGB {
	if o.Valid {
		return o.RGB
	}
	return fallback
}

// Fragment is one depth and shade candidate for a cell prior to compositing
// Smaller depth is nearer the viewer
type Fragment struct {
	Depth float32
	Shade float32
	Color OptionalRGB
}

// blankDepth is +Inf so every finite depth, including math.MaxFloat32, is nearer
var blankDepth = float32(math.Inf(1))

// BlankFragment returns a fragment farther than any finite depth
func BlankFragment() Fragment {
	return Fragment{Depth: blankDepth}
}

// IsBlank reports whether no surface has been written to the fragment
func (f Fragment) IsBlank() bool {
	return math.IsInf(float64(f.Depth), 1)
}

// Nearer reports whether a sample at depth passes the depth test against f
func (f Fragment) Nearer(depth float32) bool {
	return depth < f.Depth
}

// ShadingCell is the fixed per-cell accumulator of fragments
type ShadingCell [ShadingChannels]Fragment

// BlankShadingCell returns a cell with every channel blank
func BlankShadingCell() ShadingCell {
	var c ShadingCell
	for i := range c {
		c[i] = BlankFragment()
	}
	return c
}

// FrameCell is one committed output unit
type FrameCell struct {
	Rune  rune
	Color RGB
}

// BlankFrameCell is the cleared state of a frame cell
var BlankFrameCell = FrameCell{Rune: ' ', Color: terminal.RGBBlack}
