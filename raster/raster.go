// Package raster fills a render context's buffers from triangle meshes
//
// Each logical column is two frame columns wide: the rasterizer writes the even
// column and leaves the odd one blank, matching the auto-fit transform's halved width.
// Every cell is sampled once per shading channel at evenly spaced heights; the
// resolve pass turns coverage and facing ratio into a ramp character and a tint.
package raster

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/lixenwraith/asciimesh/mesh"
	"github.com/lixenwraith/asciimesh/render"
	"github.com/lixenwraith/asciimesh/terminal"
	"gonum.org/v1/gonum/spatial/r3"
)

// DefaultRamp orders characters from faint to dense
const DefaultRamp = ".:-=+*#%@"

// darkening is the Lab blend toward black applied to fully edge-on surfaces
const darkening = 0.7

// channelOffsets are the sample heights within a cell, one per shading channel
var channelOffsets = func() [render.ShadingChannels]float32 {
	var offs [render.ShadingChannels]float32
	for i := range offs {
		offs[i] = (float32(i) + 0.5) / render.ShadingChannels
	}
	return offs
}()

// Rasterizer writes fragments with a per-channel depth test and resolves them into frame cells
type Rasterizer struct {
	Ramp []rune
	// Tint colors faces without a material
	Tint terminal.RGB
}

// New creates a rasterizer; an empty ramp falls back to DefaultRamp
func New(ramp string, tint terminal.RGB) *Rasterizer {
	if ramp == "" {
		ramp = DefaultRamp
	}
	return &Rasterizer{Ramp: []rune(ramp), Tint: tint}
}

// Draw rasterizes every face of every mesh through the context transform
func (r *Rasterizer) Draw(ctx *render.Context, meshes []*mesh.Mesh) {
	for _, m := range meshes {
		for _, f := range m.Faces {
			var color render.OptionalRGB
			if f.Material != nil {
				color = render.SomeRGB(f.Material.Diffuse)
			}
			r.DrawTriangle(ctx, f.Vertices, color)
		}
	}
}

// DrawTriangle projects a model-space triangle and writes fragments into the shading buffer
// Depth is the negated screen z, so geometry toward +z is nearer
// Triangles touching the camera plane of a projective transform are skipped
func (r *Rasterizer) DrawTriangle(ctx *render.Context, tri r3.Triangle, color render.OptionalRGB) {
	a, okA := render.ProjectPoint(ctx.Transform, tri[0])
	b, okB := render.ProjectPoint(ctx.Transform, tri[1])
	c, okC := render.ProjectPoint(ctx.Transform, tri[2])
	if !okA || !okB || !okC {
		return
	}

	area := edge(a, b, c[0], c[1])
	if area == 0 || isNaN(area) {
		return
	}

	n := b.Sub(a).Cross(c.Sub(a))
	shade := float32(math.Abs(float64(n.Z() / n.Len())))

	cols := ctx.Width / 2
	minX := max(0, int(floor(min(a[0], b[0], c[0]))))
	maxX := min(cols-1, int(floor(max(a[0], b[0], c[0]))))
	minY := max(0, int(floor(min(a[1], b[1], c[1]))))
	maxY := min(ctx.Height-1, int(floor(max(a[1], b[1], c[1]))))

	sign := float32(1)
	if area < 0 {
		sign = -1
	}
	inv := 1 / (area * sign)

	for ly := minY; ly <= maxY; ly++ {
		for lx := minX; lx <= maxX; lx++ {
			px := float32(lx) + 0.5
			cell := &ctx.Shading[ctx.ShadingIndex(2*lx, ly)]

			for ch, off := range channelOffsets {
				py := float32(ly) + off
				w0 := edge(b, c, px, py) * sign
				w1 := edge(c, a, px, py) * sign
				w2 := edge(a, b, px, py) * sign
				if w0 < 0 || w1 < 0 || w2 < 0 {
					continue
				}

				depth := -(w0*a[2] + w1*b[2] + w2*c[2]) * inv
				if !cell[ch].Nearer(depth) {
					continue
				}
				cell[ch] = render.Fragment{Depth: depth, Shade: shade, Color: color}
			}
		}
	}
}

// Resolve commits covered shading cells into the frame buffer
// In image mode the row sentinel cells receive the line terminator
func (r *Rasterizer) Resolve(ctx *render.Context) {
	for y := 0; y < ctx.Height; y++ {
		for x := 0; x < ctx.Width; x++ {
			if fc, ok := r.resolveCell(ctx.Shading[ctx.ShadingIndex(x, y)]); ok {
				ctx.Frame[ctx.FrameIndex(x, y)] = fc
			}
		}
		if ctx.IsImage() {
			ctx.Frame[ctx.FrameIndex(ctx.Width, y)] = render.FrameCell{Rune: '\n'}
		}
	}
}

// resolveCell averages channel shades; partial coverage reads fainter
// The color comes from the nearest channel
func (r *Rasterizer) resolveCell(cell render.ShadingCell) (render.FrameCell, bool) {
	var sum float32
	covered := 0
	nearest := -1
	for i, f := range cell {
		if f.IsBlank() {
			continue
		}
		sum += f.Shade
		covered++
		if nearest < 0 || f.Depth < cell[nearest].Depth {
			nearest = i
		}
	}
	if covered == 0 {
		return render.FrameCell{}, false
	}

	intensity := sum / render.ShadingChannels
	idx := int(intensity*float32(len(r.Ramp)-1) + 0.5)
	idx = min(max(idx, 0), len(r.Ramp)-1)

	base := cell[nearest].Color.Or(r.Tint)
	return render.FrameCell{
		Rune:  r.Ramp[idx],
		Color: shadeColor(base, sum/float32(covered)),
	}, true
}

// shadeColor darkens base toward black in Lab space as the surface turns edge-on
func shadeColor(base terminal.RGB, shade float32) terminal.RGB {
	t := float64(1-shade) * darkening
	if t <= 0 {
		return base
	}
	return terminal.FromColorful(base.Colorful().BlendLab(terminal.Black.Colorful(), t))
}

// edge is twice the signed area of (a, b, p)
func edge(a, b mgl32.Vec3, px, py float32) float32 {
	return (b[0]-a[0])*(py-a[1]) - (b[1]-a[1])*(px-a[0])
}

func floor(f float32) float32 {
	return float32(math.Floor(float64(f)))
}

func isNaN(f float32) bool {
	return f != f
}
