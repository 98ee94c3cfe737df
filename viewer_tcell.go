package main

import (
	"log"

	"github.com/gdamore/tcell/v2"
	"github.com/lixenwraith/asciimesh/render"
)

// screenSizer reports the tcell screen size as the live output size
type screenSizer struct {
	screen tcell.Screen
}

func (s screenSizer) Size() (int, int, error) {
	w, h := s.screen.Size()
	return w, h, nil
}

// runTcell shows the viewer on a tcell screen; the screen owns input, resize and output
func runTcell(v *viewer, screen tcell.Screen) error {
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	v.ctx.Sizer = screenSizer{screen: screen}
	screen.HideCursor()

	if err := v.present(screen); err != nil {
		return err
	}

	for {
		redraw := false
		switch ev := screen.PollEvent().(type) {
		case *tcell.EventResize:
			w, h := ev.Size()
			log.Printf("Resize to %dx%d", w, h)
			screen.Sync()
			redraw = true
		case *tcell.EventKey:
			var quit bool
			redraw, quit = v.apply(tcellAction(ev))
			if quit {
				return nil
			}
		case nil:
			// Screen finalized
			return nil
		}

		if redraw {
			if err := v.present(screen); err != nil {
				return err
			}
		}
	}
}

// present rasterizes a frame and blits the frame buffer onto the screen
func (v *viewer) present(screen tcell.Screen) error {
	if err := v.prepare(); err != nil {
		return err
	}

	base := tcell.StyleDefault
	if v.opts.Color {
		base = base.Background(tcellColor(v.opts.Background))
	}

	screen.Clear()
	for y := 0; y < v.ctx.Height; y++ {
		for x := 0; x < v.ctx.Width; x++ {
			cell := v.ctx.Frame[v.ctx.FrameIndex(x, y)]
			style := base
			if v.opts.Color {
				style = style.Foreground(tcellColor(cell.Color))
			}
			screen.SetContent(x, y, cell.Rune, nil, style)
		}
	}
	screen.Show()
	v.frames++
	return nil
}

func tcellColor(c render.RGB) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

// tcellAction maps a tcell key event
func tcellAction(ev *tcell.EventKey) action {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return actionQuit
	case tcell.KeyLeft:
		return actionYawLeft
	case tcell.KeyRight:
		return actionYawRight
	case tcell.KeyUp:
		return actionPitchUp
	case tcell.KeyDown:
		return actionPitchDown
	case tcell.KeyRune:
		return runeAction(ev.Rune())
	}
	return actionNone
}
