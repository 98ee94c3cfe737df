package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/lixenwraith/asciimesh/config"
	"github.com/lixenwraith/asciimesh/mesh"
	"github.com/lixenwraith/asciimesh/raster"
	"github.com/lixenwraith/asciimesh/render"
	"github.com/lixenwraith/asciimesh/terminal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

type stubSizer struct {
	w, h int
	err  error
}

func (s *stubSizer) Size() (int, int, error) {
	return s.w, s.h, s.err
}

func unitTriangle() []*mesh.Mesh {
	return []*mesh.Mesh{mesh.New("tri", []mesh.Face{
		{Vertices: r3.Triangle{{}, {X: 1}, {Y: 1}}},
	})}
}

func newTestViewer(sizer render.Sizer) *viewer {
	ctx := render.New(render.ModeInteractive, 1, sizer)
	return newViewer(ctx, unitTriangle(), raster.New("", terminal.White), render.FlushOptions{})
}

func TestRenderImagePlain(t *testing.T) {
	cfg := config.Default()
	cfg.Width, cfg.Height = 20, 10
	cfg.Format = config.FormatPlain
	opts, err := cfg.FlushOptions()
	require.NoError(t, err)

	var buf bytes.Buffer
	err = renderImage(&buf, cfg, unitTriangle(), raster.New(cfg.Ramp, terminal.White), opts, "tri.obj")
	require.NoError(t, err)

	out := buf.String()
	require.True(t, strings.HasSuffix(out, "\n\n"), "rows end with sentinels, the frame with one more break")
	lines := strings.Split(strings.TrimSuffix(out, "\n\n"), "\n")
	require.Len(t, lines, 10)
	for _, l := range lines {
		assert.Len(t, l, 20)
	}
	// Unit triangle fits to screen corners (5,5) (10,5) (5,0)
	assert.Equal(t, byte('@'), lines[3][10])
	assert.Equal(t, byte(' '), lines[3][11])
	assert.Equal(t, byte(' '), lines[8][2])
}

func TestRenderImageHTML(t *testing.T) {
	cfg := config.Default()
	cfg.Width, cfg.Height = 8, 4
	cfg.Format = config.FormatHTML
	opts, err := cfg.FlushOptions()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, renderImage(&buf, cfg, unitTriangle(), raster.New("", terminal.White), opts, "models/tri.obj"))
	assert.Contains(t, buf.String(), "<title>tri.obj</title>")
	assert.Contains(t, buf.String(), `<span style="color:rgb(255,255,255)">@</span>`)
}

func TestRenderImageDegenerate(t *testing.T) {
	cfg := config.Default()
	cfg.Width, cfg.Height = 8, 4
	flat := []*mesh.Mesh{mesh.New("neg", []mesh.Face{
		{Vertices: r3.Triangle{{X: -1, Y: -1}, {X: -2, Y: -1}, {X: -1, Y: -2}}},
	})}

	var buf bytes.Buffer
	err := renderImage(&buf, cfg, flat, raster.New("", terminal.White), render.FlushOptions{}, "neg.obj")
	assert.ErrorIs(t, err, render.ErrDegenerateGeometry)
	assert.Zero(t, buf.Len())
}

func TestViewerPrepareTracksSize(t *testing.T) {
	sizer := &stubSizer{w: 20, h: 10}
	v := newTestViewer(sizer)

	require.NoError(t, v.prepare())
	assert.Equal(t, render.Size{Width: 20, Height: 10}, v.size)
	assert.Len(t, v.ctx.Frame, 200)
	assert.Equal(t, '@', v.ctx.Frame[v.ctx.FrameIndex(10, 3)].Rune)

	sizer.w, sizer.h = 40, 20
	require.NoError(t, v.prepare())
	assert.Equal(t, render.Size{Width: 40, Height: 20}, v.ctx.Size())
	assert.Len(t, v.ctx.Shading, 800)

	sizer.err = errors.New("tty gone")
	assert.Equal(t, sizer.err, v.prepare())
}

func TestViewerFlushRedraw(t *testing.T) {
	v := newTestViewer(&stubSizer{w: 4, h: 2})
	require.NoError(t, v.prepare())

	var first, second bytes.Buffer
	require.NoError(t, v.flush(&first))
	require.NoError(t, v.flush(&second))

	assert.False(t, strings.HasPrefix(first.String(), "\x1b[H"))
	assert.True(t, strings.HasPrefix(second.String(), "\x1b[H"))
	assert.Equal(t, 2, v.frames)
}

func TestPlainStreamFitsTerminal(t *testing.T) {
	term := &stubSizer{w: 6, h: 4}

	plain := newTestViewer(streamSizer(term, render.FlushOptions{}))
	require.NoError(t, plain.prepare())
	assert.Equal(t, render.Size{Width: 6, Height: 3}, plain.ctx.Size())

	var buf bytes.Buffer
	require.NoError(t, plain.flush(&buf))
	out := buf.String()
	require.True(t, strings.HasSuffix(out, "\n"))
	rows := len([]rune(strings.TrimSuffix(out, "\n"))) / term.w
	// Frame rows plus the row the line feed moves onto must not exceed the terminal
	assert.Equal(t, term.h, rows+strings.Count(out, "\n"))

	styled := newTestViewer(streamSizer(term, render.FlushOptions{Color: true}))
	require.NoError(t, styled.prepare())
	assert.Equal(t, render.Size{Width: 6, Height: 4}, styled.ctx.Size(), "styled frames end without a line feed")

	term.err = errors.New("closed")
	_, _, err := streamSizer(term, render.FlushOptions{}).Size()
	assert.Same(t, term.err, err)
}

func TestViewerApply(t *testing.T) {
	v := newTestViewer(&stubSizer{w: 20, h: 10})
	require.NoError(t, v.prepare())

	redraw, quit := v.apply(actionYawRight)
	assert.True(t, redraw)
	assert.False(t, quit)
	assert.Equal(t, orbitStep, v.yaw)

	v.apply(actionPitchUp)
	assert.Equal(t, -orbitStep, v.pitch)

	v.apply(actionZoomIn)
	assert.InDelta(t, 1.25, v.ctx.Zoom, 1e-6)
	assert.Equal(t, staleSize, v.size, "zoom forces a refit")

	for range 100 {
		v.apply(actionZoomOut)
	}
	assert.Equal(t, float32(zoomMin), v.ctx.Zoom)

	v.apply(actionReset)
	assert.Equal(t, float32(1), v.ctx.Zoom)
	assert.Zero(t, v.yaw)
	assert.Zero(t, v.pitch)

	redraw, quit = v.apply(actionNone)
	assert.False(t, redraw)
	assert.False(t, quit)

	_, quit = v.apply(actionQuit)
	assert.True(t, quit)
}

func TestKeyMaps(t *testing.T) {
	runes := map[rune]action{
		'q': actionQuit, 'h': actionYawLeft, 'l': actionYawRight,
		'k': actionPitchUp, 'j': actionPitchDown, '+': actionZoomIn,
		'-': actionZoomOut, 'r': actionReset, 'x': actionNone,
	}
	for r, want := range runes {
		assert.Equal(t, want, runeAction(r), "rune %q", r)
	}

	assert.Equal(t, actionQuit, keyAction(terminal.Event{Type: terminal.EventKey, Key: terminal.KeyCtrlC}))
	assert.Equal(t, actionPitchDown, keyAction(terminal.Event{Type: terminal.EventKey, Key: terminal.KeyDown}))
	assert.Equal(t, actionYawLeft, keyAction(terminal.Event{Type: terminal.EventKey, Key: terminal.KeyRune, Rune: 'h'}))
	assert.Equal(t, actionNone, keyAction(terminal.Event{Type: terminal.EventKey, Key: terminal.KeyEnter}))

	assert.Equal(t, actionQuit, tcellAction(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone)))
	assert.Equal(t, actionYawRight, tcellAction(tcell.NewEventKey(tcell.KeyRight, 0, tcell.ModNone)))
	assert.Equal(t, actionZoomIn, tcellAction(tcell.NewEventKey(tcell.KeyRune, '+', tcell.ModNone)))
}

func TestViewerPresentTcell(t *testing.T) {
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	defer screen.Fini()
	screen.SetSize(20, 10)

	v := newTestViewer(nil)
	v.opts = render.FlushOptions{Color: true, Background: terminal.Obsidian}
	v.ctx.Sizer = screenSizer{screen: screen}

	require.NoError(t, v.present(screen))
	assert.Equal(t, 1, v.frames)

	r, _, style, _ := screen.GetContent(10, 3)
	assert.Equal(t, '@', r)
	fg, bg, _ := style.Decompose()
	assert.Equal(t, tcellColor(terminal.White), fg)
	assert.Equal(t, tcellColor(terminal.Obsidian), bg)

	r, _, _, _ = screen.GetContent(11, 3)
	assert.Equal(t, ' ', r)
}
