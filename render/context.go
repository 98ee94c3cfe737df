// Package render owns the character-grid output of a mesh renderer: buffer sizing,
// the model-to-screen transform and serialization of finished frames
package render

import (
	"errors"

	"github.com/go-gl/mathgl/mgl32"
)

// Mode selects between live terminal output and single-shot export
type Mode uint8

const (
	ModeInteractive Mode = iota // Size follows the live terminal
	ModeImage                   // Fixed configured size, rows terminated by a sentinel cell
)

// String returns the mode name
func (m Mode) String() string {
	if m == ModeImage {
		return "image"
	}
	return "interactive"
}

// ErrNoSizer is returned by Update when an interactive context has no size source
var ErrNoSizer = errors.New("interactive context has no size source")

// Size is an output grid size in cells
type Size struct {
	Width  int
	Height int
}

// Sizer reports the live output size
type Sizer interface {
	Size() (width, height int, err error)
}

// Context owns the output grid, the per-frame buffers and the model-to-screen transform
// Not safe for concurrent use; one frame at a time: Update, Clear, rasterize, Flush
type Context struct {
	Width  int
	Height int
	Zoom   float32

	// Transform maps model space to screen space
	Transform mgl32.Mat4

	// Frame is row-major; in image mode each row carries one trailing line-terminator cell
	Frame []FrameCell
	// Shading is row-major, Width*Height cells, no sentinels
	Shading []ShadingCell

	Mode  Mode
	Sizer Sizer
}

// New creates a zero-sized context with an identity transform
// sizer is consulted by Update in interactive mode only and may be nil in image mode
func New(mode Mode, zoom float32, sizer Sizer) *Context {
	return &Context{
		Zoom:      zoom,
		Transform: mgl32.Ident4(),
		Frame:     []FrameCell{},
		Shading:   []ShadingCell{},
		Mode:      mode,
		Sizer:     sizer,
	}
}

// NewImage creates an image-mode context with a fixed size
func NewImage(width, height int, zoom float32) *Context {
	c := New(ModeImage, zoom, nil)
	c.SetSize(width, height)
	return c
}

// IsImage reports whether the context renders a fixed single-shot export
func (c *Context) IsImage() bool {
	return c.Mode == ModeImage
}

// SetSize stores dimensions without allocating; negative values clamp to zero
func (c *Context) SetSize(width, height int) {
	c.Width = max(width, 0)
	c.Height = max(height, 0)
}

// Size returns the stored grid dimensions
func (c *Context) Size() Size {
	return Size{Width: c.Width, Height: c.Height}
}

// Stride returns the frame buffer row length including the image-mode sentinel
func (c *Context) Stride() int {
	if c.IsImage() {
		return c.Width + 1
	}
	return c.Width
}

// BufferSize returns the frame buffer cell count
func (c *Context) BufferSize() int {
	return c.Stride() * c.Height
}

// FrameIndex returns the frame buffer index of cell (x, y)
// x == Width addresses the row sentinel in image mode
func (c *Context) FrameIndex(x, y int) int {
	return y*c.Stride() + x
}

// ShadingIndex returns the shading buffer index of cell (x, y)
func (c *Context) ShadingIndex(x, y int) int {
	return y*c.Width + x
}

// Clear reallocates both buffers to blank for a new frame
func (c *Context) Clear() {
	c.Frame = make([]FrameCell, c.BufferSize())
	if len(c.Frame) > 0 {
		c.Frame[0] = BlankFrameCell
		// Exponential copy
		for filled := 1; filled < len(c.Frame); filled *= 2 {
			copy(c.Frame[filled:], c.Frame[:filled])
		}
	}

	c.Shading = make([]ShadingCell, c.Width*c.Height)
	if len(c.Shading) > 0 {
		c.Shading[0] = BlankShadingCell()
		for filled := 1; filled < len(c.Shading); filled *= 2 {
			copy(c.Shading[filled:], c.Shading[:filled])
		}
	}
}

// Camera sets the transform to proj*view, overriding any auto-fit result
func (c *Context) Camera(proj, view mgl32.Mat4) mgl32.Mat4 {
	c.Transform = proj.Mul4(view)
	return c.Transform
}
