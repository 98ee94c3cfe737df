package render

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"gonum.org/v1/gonum/spatial/r3"
)

// ErrDegenerateGeometry is returned when mesh extents give no usable scale
var ErrDegenerateGeometry = errors.New("degenerate geometry")

// ScaleBasis returns the largest max-corner coordinate over all boxes, starting from zero
func ScaleBasis(bounds []r3.Box) float64 {
	var basis float64
	for _, b := range bounds {
		basis = max(basis, b.Max.X, b.Max.Y, b.Max.Z)
	}
	return basis
}

// AutoFit derives the scale-plus-offset transform that fits geometry into size
// The largest extent fills about half the smaller dimension; width is halved because
// each rasterized column is followed by a blank separator column
// Screen z carries no offset and is only meaningful for depth comparison
func AutoFit(size Size, zoom float32, bounds []r3.Box) (mgl32.Mat4, error) {
	basis := ScaleBasis(bounds)
	// The basis must survive narrowing; tiny values flush to zero, huge ones overflow
	b32 := float32(basis)
	if !(b32 > 0) || math.IsInf(float64(b32), 1) {
		return mgl32.Ident4(), fmt.Errorf("%w: scale basis %v from %d meshes", ErrDegenerateGeometry, basis, len(bounds))
	}

	w, h := float32(size.Width), float32(size.Height)
	scale := min(h, w/2) * zoom / b32 / 2
	if !(scale >= 0) || math.IsInf(float64(scale), 1) {
		return mgl32.Ident4(), fmt.Errorf("%w: scale %v from basis %v and zoom %v", ErrDegenerateGeometry, scale, basis, zoom)
	}

	// Column-major
	return mgl32.Mat4{
		scale, 0, 0, 0,
		0, -scale, 0, 0,
		0, 0, scale, 0,
		w / 4, h / 2, 0, 1,
	}, nil
}

// Update refreshes the auto-fit transform for the current output size
// The current size is the configured one in image mode, otherwise Sizer is queried and
// its error returned unmodified. The transform is recomputed when the size differs from
// prev, and always in image mode. Interactive contexts adopt the detected size.
// Returns the size used; on error prev is returned and the context is unchanged
func (c *Context) Update(prev Size, bounds []r3.Box) (Size, error) {
	current := c.Size()
	if !c.IsImage() {
		if c.Sizer == nil {
			return prev, ErrNoSizer
		}
		w, h, err := c.Sizer.Size()
		if err != nil {
			return prev, err
		}
		current = Size{Width: w, Height: h}
	}

	if current == prev && !c.IsImage() {
		return current, nil
	}

	t, err := AutoFit(current, c.Zoom, bounds)
	if err != nil {
		return prev, err
	}
	c.Transform = t
	if !c.IsImage() {
		c.SetSize(current.Width, current.Height)
	}
	return current, nil
}

// Project maps a model-space point through t to screen space
// Homogeneous w is divided out when a projection produced one; w == 0 leaves the
// vector undivided, so callers that may see such points use ProjectPoint
func Project(t mgl32.Mat4, p r3.Vec) mgl32.Vec3 {
	v := t.Mul4x1(mgl32.Vec4{float32(p.X), float32(p.Y), float32(p.Z), 1})
	if w := v[3]; w != 0 && w != 1 {
		return mgl32.Vec3{v[0] / w, v[1] / w, v[2] / w}
	}
	return v.Vec3()
}

// ProjectPoint is Project that reports false for points on or behind the camera
// plane (w <= 0), which have no meaningful screen position
func ProjectPoint(t mgl32.Mat4, p r3.Vec) (mgl32.Vec3, bool) {
	v := t.Mul4x1(mgl32.Vec4{float32(p.X), float32(p.Y), float32(p.Z), 1})
	w := v[3]
	if !(w > 0) {
		return mgl32.Vec3{}, false
	}
	if w == 1 {
		return v.Vec3(), true
	}
	return mgl32.Vec3{v[0] / w, v[1] / w, v[2] / w}, true
}
