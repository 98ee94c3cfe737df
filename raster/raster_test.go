package raster

import (
	"testing"

	"github.com/lixenwraith/asciimesh/mesh"
	"github.com/lixenwraith/asciimesh/render"
	"github.com/lixenwraith/asciimesh/terminal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

// rightTriangle covers x+y <= 10 in screen space under the identity transform
func rightTriangle(z float64) r3.Triangle {
	return r3.Triangle{{Z: z}, {X: 10, Z: z}, {Y: 10, Z: z}}
}

func frameRune(ctx *render.Context, x, y int) rune {
	return ctx.Frame[ctx.FrameIndex(x, y)].Rune
}

func TestDrawTriangleCoverage(t *testing.T) {
	ctx := render.NewImage(20, 10, 1)
	ctx.Clear()
	r := New("", terminal.Amber)

	r.DrawTriangle(ctx, rightTriangle(0), render.OptionalRGB{})
	r.Resolve(ctx)

	assert.Equal(t, '@', frameRune(ctx, 2, 1), "fully covered cell takes the densest rune")
	assert.Equal(t, ' ', frameRune(ctx, 3, 1), "odd columns stay blank")
	assert.Equal(t, terminal.Amber, ctx.Frame[ctx.FrameIndex(2, 1)].Color, "facing surface keeps the tint")

	// Only the upper sample of cell (8, 1) lies under the hypotenuse
	assert.Equal(t, '+', frameRune(ctx, 16, 1))
	assert.Equal(t, ' ', frameRune(ctx, 18, 9))

	for y := 0; y < ctx.Height; y++ {
		assert.Equal(t, '\n', frameRune(ctx, ctx.Width, y), "row %d sentinel", y)
	}
}

func TestDepthTestKeepsNearest(t *testing.T) {
	for _, reversed := range []bool{false, true} {
		ctx := render.NewImage(20, 10, 1)
		ctx.Clear()
		r := New("", terminal.White)

		near := func() { r.DrawTriangle(ctx, rightTriangle(5), render.SomeRGB(terminal.Crimson)) }
		far := func() { r.DrawTriangle(ctx, rightTriangle(0), render.SomeRGB(terminal.Teal)) }
		if reversed {
			far()
			near()
		} else {
			near()
			far()
		}
		r.Resolve(ctx)

		cell := ctx.Shading[ctx.ShadingIndex(2, 1)]
		for ch := range cell {
			assert.InDelta(t, -5, cell[ch].Depth, 1e-4)
		}
		assert.Equal(t, terminal.Crimson, ctx.Frame[ctx.FrameIndex(2, 1)].Color, "reversed=%v", reversed)
	}
}

func TestDrawSkipsDegenerateAndOffscreen(t *testing.T) {
	ctx := render.NewImage(20, 10, 1)
	ctx.Clear()
	r := New("", terminal.White)

	r.DrawTriangle(ctx, r3.Triangle{{}, {X: 5, Y: 5}, {X: 10, Y: 10}}, render.OptionalRGB{})
	r.DrawTriangle(ctx, r3.Triangle{{X: -30}, {X: -20}, {X: -30, Y: 5}}, render.OptionalRGB{})
	r.Resolve(ctx)

	for _, c := range ctx.Shading {
		assert.Equal(t, render.BlankShadingCell(), c)
	}
	for y := 0; y < ctx.Height; y++ {
		for x := 0; x < ctx.Width; x++ {
			assert.Equal(t, render.BlankFrameCell, ctx.Frame[ctx.FrameIndex(x, y)])
		}
	}
}

func TestDrawSkipsCameraPlane(t *testing.T) {
	ctx := render.NewImage(20, 10, 1)
	ctx.Clear()
	// Homogeneous w = z
	ctx.Transform[11], ctx.Transform[15] = 1, 0
	r := New("", terminal.White)

	r.DrawTriangle(ctx, rightTriangle(0), render.OptionalRGB{})
	r.DrawTriangle(ctx, r3.Triangle{{Z: 1}, {X: 10, Z: 1}, {Y: 10, Z: -1}}, render.OptionalRGB{})
	for _, c := range ctx.Shading {
		require.Equal(t, render.BlankShadingCell(), c)
	}

	// At w = 1 the division is a no-op and coverage matches the identity transform
	r.DrawTriangle(ctx, rightTriangle(1), render.OptionalRGB{})
	r.Resolve(ctx)
	assert.Equal(t, '@', frameRune(ctx, 2, 1))
}

func TestDrawWithAutoFit(t *testing.T) {
	red := &mesh.Material{Name: "red", Diffuse: terminal.RGB{R: 255}}
	meshes := []*mesh.Mesh{mesh.New("tri", []mesh.Face{
		{Vertices: r3.Triangle{{}, {X: 1}, {Y: 1}}, Material: red},
	})}

	ctx := render.NewImage(40, 20, 1)
	_, err := ctx.Update(render.Size{}, mesh.Bounds(meshes))
	require.NoError(t, err)
	ctx.Clear()

	r := New(DefaultRamp, terminal.White)
	r.Draw(ctx, meshes)
	r.Resolve(ctx)

	// The y flip reverses winding; coverage must not depend on it
	assert.Equal(t, '@', frameRune(ctx, 22, 8))
	assert.Equal(t, terminal.RGB{R: 255}, ctx.Frame[ctx.FrameIndex(22, 8)].Color)
	assert.Equal(t, ' ', frameRune(ctx, 2, 2))
}

func TestNewRamp(t *testing.T) {
	assert.Equal(t, []rune(DefaultRamp), New("", terminal.White).Ramp)
	assert.Equal(t, []rune("░▒▓"), New("░▒▓", terminal.White).Ramp)
}

func TestResolveCellRamp(t *testing.T) {
	r := New("ab", terminal.White)

	_, ok := r.resolveCell(render.BlankShadingCell())
	assert.False(t, ok)

	cell := render.BlankShadingCell()
	cell[0] = render.Fragment{Depth: 1, Shade: 0.2}
	fc, ok := r.resolveCell(cell)
	require.True(t, ok)
	assert.Equal(t, 'a', fc.Rune)

	cell[1] = render.Fragment{Depth: 0, Shade: 1, Color: render.SomeRGB(terminal.Gold)}
	fc, ok = r.resolveCell(cell)
	require.True(t, ok)
	assert.Equal(t, 'b', fc.Rune)
	assert.NotEqual(t, terminal.Gold, fc.Color, "averaged shade below one darkens the nearest color")
}

func TestShadeColor(t *testing.T) {
	assert.Equal(t, terminal.Gold, shadeColor(terminal.Gold, 1))

	dark := shadeColor(terminal.White, 0)
	assert.Less(t, dark.R, uint8(255))
	assert.Less(t, dark.G, uint8(255))
	assert.Less(t, dark.B, uint8(255))
	assert.Equal(t, terminal.Black, shadeColor(terminal.Black, 0.3))
}
