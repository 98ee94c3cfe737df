package main

import (
	"io"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/lixenwraith/asciimesh/mesh"
	"github.com/lixenwraith/asciimesh/raster"
	"github.com/lixenwraith/asciimesh/render"
	"gonum.org/v1/gonum/spatial/r3"
)

const (
	orbitStep = float32(math.Pi / 12) // 15 degrees per key press
	zoomStep  = 1.25
	zoomMin   = 0.05
	zoomMax   = 50
)

// action is a backend-independent viewer command
type action uint8

const (
	actionNone action = iota
	actionQuit
	actionYawLeft
	actionYawRight
	actionPitchUp
	actionPitchDown
	actionZoomIn
	actionZoomOut
	actionReset
)

// staleSize never matches a real terminal, forcing the next Update to refit
var staleSize = render.Size{Width: -1, Height: -1}

// viewer drives one interactive context: size tracking, orbit camera and frame production
type viewer struct {
	ctx    *render.Context
	meshes []*mesh.Mesh
	bounds []r3.Box
	raster *raster.Rasterizer
	opts   render.FlushOptions

	size  render.Size
	fit   mgl32.Mat4
	zoom  float32
	yaw   float32
	pitch float32

	frames int
}

func newViewer(ctx *render.Context, meshes []*mesh.Mesh, rz *raster.Rasterizer, opts render.FlushOptions) *viewer {
	return &viewer{
		ctx:    ctx,
		meshes: meshes,
		bounds: mesh.Bounds(meshes),
		raster: rz,
		opts:   opts,
		size:   staleSize,
		fit:    mgl32.Ident4(),
		zoom:   ctx.Zoom,
	}
}

// view returns the orbit rotation applied before the auto-fit transform
func (v *viewer) view() mgl32.Mat4 {
	return mgl32.HomogRotate3DX(v.pitch).Mul4(mgl32.HomogRotate3DY(v.yaw))
}

// prepare refits on size change, applies the orbit camera and rasterizes one frame
func (v *viewer) prepare() error {
	size, err := v.ctx.Update(v.size, v.bounds)
	if err != nil {
		return err
	}
	if size != v.size {
		// Update stored a fresh auto-fit; keep it as the projection for Camera
		v.fit = v.ctx.Transform
		v.size = size
	}
	v.ctx.Camera(v.fit, v.view())

	v.ctx.Clear()
	v.raster.Draw(v.ctx, v.meshes)
	v.raster.Resolve(v.ctx)
	return nil
}

// flush writes the prepared frame, redrawing in place after the first one
func (v *viewer) flush(w io.Writer) error {
	opts := v.opts
	opts.Redraw = v.ctx.RedrawFor(v.frames)
	if err := v.ctx.Flush(w, opts); err != nil {
		return err
	}
	v.frames++
	return nil
}

// apply executes a command, reporting whether a redraw is needed and whether to quit
func (v *viewer) apply(a action) (redraw, quit bool) {
	switch a {
	case actionQuit:
		return false, true
	case actionYawLeft:
		v.yaw -= orbitStep
	case actionYawRight:
		v.yaw += orbitStep
	case actionPitchUp:
		v.pitch -= orbitStep
	case actionPitchDown:
		v.pitch += orbitStep
	case actionZoomIn:
		v.setZoom(v.ctx.Zoom * zoomStep)
	case actionZoomOut:
		v.setZoom(v.ctx.Zoom / zoomStep)
	case actionReset:
		v.yaw, v.pitch = 0, 0
		v.setZoom(v.zoom)
	default:
		return false, false
	}
	return true, false
}

func (v *viewer) setZoom(z float32) {
	v.ctx.Zoom = min(max(z, zoomMin), zoomMax)
	v.invalidate()
}

// invalidate forces a refit on the next frame
func (v *viewer) invalidate() {
	v.size = staleSize
}

// runeAction maps vi-style and symbol keys
func runeAction(r rune) action {
	switch r {
	case 'q', 'Q':
		return actionQuit
	case 'h':
		return actionYawLeft
	case 'l':
		return actionYawRight
	case 'k':
		return actionPitchUp
	case 'j':
		return actionPitchDown
	case '+', '=':
		return actionZoomIn
	case '-', '_':
		return actionZoomOut
	case 'r':
		return actionReset
	}
	return actionNone
}
