package main

import (
	"log"
	"os"

	"github.com/lixenwraith/asciimesh/render"
	"github.com/lixenwraith/asciimesh/terminal"
)

// lineFeedSizer reserves the bottom row for the line feed ending a plain frame
// A line feed on the last row scrolls the screen and pushes the frame's top row off
type lineFeedSizer struct {
	render.Sizer
}

func (s lineFeedSizer) Size() (int, int, error) {
	w, h, err := s.Sizer.Size()
	if err != nil {
		return 0, 0, err
	}
	return w, max(h-1, 0), nil
}

// streamSizer returns the size source for frames streamed to the terminal
func streamSizer(base render.Sizer, opts render.FlushOptions) render.Sizer {
	if !opts.Color {
		return lineFeedSizer{Sizer: base}
	}
	return base
}

// runANSI shows the viewer through a raw terminal session using the styled or plain stream
func runANSI(v *viewer) error {
	sess, err := terminal.Open()
	if err != nil {
		return err
	}
	defer sess.Close()

	defer func() {
		if r := recover(); r != nil {
			terminal.EmergencyReset(os.Stdout)
			panic(r)
		}
	}()

	if err := drawANSI(v, sess); err != nil {
		return err
	}

	for ev := range sess.Events() {
		redraw := false
		switch ev.Type {
		case terminal.EventResize:
			log.Printf("Resize to %dx%d", ev.Width, ev.Height)
			if err := sess.Clear(); err != nil {
				return err
			}
			redraw = true
		case terminal.EventKey:
			var quit bool
			redraw, quit = v.apply(keyAction(ev))
			if quit {
				return nil
			}
		case terminal.EventError:
			return ev.Err
		case terminal.EventClosed:
			return nil
		}

		if redraw {
			if err := drawANSI(v, sess); err != nil {
				return err
			}
		}
	}
	return nil
}

func drawANSI(v *viewer, sess *terminal.Session) error {
	if err := v.prepare(); err != nil {
		return err
	}
	if err := v.flush(sess.Writer()); err != nil {
		return err
	}
	return sess.Flush()
}

// keyAction maps a raw terminal key event
func keyAction(ev terminal.Event) action {
	switch ev.Key {
	case terminal.KeyEscape, terminal.KeyCtrlC:
		return actionQuit
	case terminal.KeyLeft:
		return actionYawLeft
	case terminal.KeyRight:
		return actionYawRight
	case terminal.KeyUp:
		return actionPitchUp
	case terminal.KeyDown:
		return actionPitchDown
	case terminal.KeyRune:
		return runeAction(ev.Rune)
	}
	return actionNone
}
