package render

import (
	"bufio"
	"html"
	"io"

	"github.com/lixenwraith/asciimesh/terminal"
)

// RedrawMode controls cursor placement before a frame is written
type RedrawMode uint8

const (
	RedrawAppend RedrawMode = iota // Write at the current stream position
	RedrawHome                     // Move the cursor to the origin, overwriting the previous frame
)

// FlushOptions selects the output encoding
// Color=false gives plain text; Color with Web gives markup; Color alone gives a styled ANSI stream
type FlushOptions struct {
	Color      bool
	Web        bool
	Background RGB
	ColorMode  terminal.ColorMode
	Redraw     RedrawMode
}

// flushBufferSize holds a full 4K-wide truecolor frame in the common case
const flushBufferSize = 65536

// RedrawFor returns the redraw mode for the n-th flushed frame (0-based)
// Image exports and the first interactive frame append; later interactive frames redraw in place
func (c *Context) RedrawFor(frame int) RedrawMode {
	if c.IsImage() || frame == 0 {
		return RedrawAppend
	}
	return RedrawHome
}

// Flush serializes the frame buffer to w
// It never mutates the context; only write errors are returned, unmodified
func (c *Context) Flush(w io.Writer, opts FlushOptions) error {
	bw := bufio.NewWriterSize(w, flushBufferSize)

	if opts.Redraw == RedrawHome && !(opts.Color && opts.Web) {
		terminal.WriteCursorHome(bw)
	}

	switch {
	case !opts.Color:
		writePlain(bw, c.Frame)
	case opts.Web:
		writeMarkup(bw, c.Frame)
	default:
		writeStyled(bw, c.Frame, opts.Background, opts.ColorMode)
	}

	return bw.Flush()
}

// writePlain concatenates every rune, color ignored, and ends with one line break
func writePlain(w *bufio.Writer, frame []FrameCell) {
	for _, cell := range frame {
		w.WriteRune(cellRune(cell))
	}
	w.WriteByte('\n')
}

// writeStyled emits each rune in its foreground color over a uniform background
func writeStyled(w *bufio.Writer, frame []FrameCell, bg RGB, mode terminal.ColorMode) {
	sw := terminal.NewStyleWriter(w, mode)
	for _, cell := range frame {
		sw.WriteRune(cellRune(cell), cell.Color, bg)
	}
	sw.Reset()
}

// writeMarkup emits one span per cell carrying the cell color inline
func writeMarkup(w *bufio.Writer, frame []FrameCell) {
	for _, cell := range frame {
		w.WriteString(`<span style="color:rgb(`)
		terminal.WriteInt(w, int(cell.Color.R))
		w.WriteByte(',')
		terminal.WriteInt(w, int(cell.Color.G))
		w.WriteByte(',')
		terminal.WriteInt(w, int(cell.Color.B))
		w.WriteString(`)">`)
		w.WriteString(html.EscapeString(string(cellRune(cell))))
		w.WriteString("</span>")
	}
}

func cellRune(cell FrameCell) rune {
	if cell.Rune == 0 {
		return ' '
	}
	return cell.Rune
}

// FlushDocument writes the frame as a standalone HTML page
// The markup fragments are wrapped in a preformatted block on the configured background
func (c *Context) FlushDocument(w io.Writer, title string, opts FlushOptions) error {
	opts.Color, opts.Web = true, true

	bw := bufio.NewWriter(w)
	bw.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>")
	bw.WriteString(html.EscapeString(title))
	bw.WriteString("</title>\n</head>\n<body style=\"margin:0;background:")
	bw.WriteString(opts.Background.Hex())
	bw.WriteString("\">\n<pre style=\"font-family:monospace;line-height:1.0\">")
	if err := bw.Flush(); err != nil {
		return err
	}

	if err := c.Flush(w, opts); err != nil {
		return err
	}

	_, err := io.WriteString(w, "</pre>\n</body>\n</html>\n")
	return err
}
