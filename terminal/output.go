// @lixen: #focus{sys[term,io,output]}
// @lixen: #interact{trigger[output,ansi]}
package terminal

import (
	"bufio"
)

// StyleWriter emits runes with foreground/background SGR styling
// Sequences are coalesced: a color is only re-emitted when it changes
type StyleWriter struct {
	w         *bufio.Writer
	colorMode ColorMode

	lastFg    RGB
	lastBg    RGB
	lastValid bool
}

// NewStyleWriter wraps a buffered writer
func NewStyleWriter(w *bufio.Writer, colorMode ColorMode) *StyleWriter {
	return &StyleWriter{w: w, colorMode: colorMode}
}

// WriteRune writes r styled with fg over bg
// Zero runes are written as spaces
func (s *StyleWriter) WriteRune(r rune, fg, bg RGB) {
	s.writeStyleCoalesced(fg, bg)
	if r == 0 {
		r = ' '
	}
	if r < 0x80 {
		s.w.WriteByte(byte(r))
	} else {
		s.w.WriteRune(r)
	}
}

// Reset emits SGR0 and forgets the current style
func (s *StyleWriter) Reset() {
	WriteReset(s.w)
	s.lastValid = false
}

// writeStyleCoalesced emits a single combined SGR sequence when style changes
func (s *StyleWriter) writeStyleCoalesced(fg, bg RGB) {
	fgChanged := !s.lastValid || fg != s.lastFg
	bgChanged := !s.lastValid || bg != s.lastBg

	w := s.w
	switch {
	case fgChanged && bgChanged:
		w.Write(csi)
		s.writeFgInline(fg)
		w.WriteByte(';')
		s.writeBgInline(bg)
		w.WriteByte('m')
	case fgChanged:
		s.writeFgFull(fg)
	case bgChanged:
		s.writeBgFull(bg)
	default:
		return
	}

	s.lastFg = fg
	s.lastBg = bg
	s.lastValid = true
}

// writeFgInline writes fg color parameters (no CSI prefix, no 'm' suffix)
func (s *StyleWriter) writeFgInline(fg RGB) {
	w := s.w
	if s.colorMode == ColorModeTrueColor {
		w.WriteString("38;2;")
		writeTriple(w, fg)
	} else {
		w.WriteString("38;5;")
		WriteInt(w, int(RGBTo256(fg)))
	}
}

// writeBgInline writes bg color parameters (no CSI prefix, no 'm' suffix)
func (s *StyleWriter) writeBgInline(bg RGB) {
	w := s.w
	if s.colorMode == ColorModeTrueColor {
		w.WriteString("48;2;")
		writeTriple(w, bg)
	} else {
		w.WriteString("48;5;")
		WriteInt(w, int(RGBTo256(bg)))
	}
}

// writeFgFull writes complete fg color sequence
func (s *StyleWriter) writeFgFull(fg RGB) {
	w := s.w
	if s.colorMode == ColorModeTrueColor {
		w.Write(csiFgRGB)
		writeTriple(w, fg)
	} else {
		w.Write(csiFg256)
		WriteInt(w, int(RGBTo256(fg)))
	}
	w.WriteByte('m')
}

// writeBgFull writes complete bg color sequence
func (s *StyleWriter) writeBgFull(bg RGB) {
	w := s.w
	if s.colorMode == ColorModeTrueColor {
		w.Write(csiBgRGB)
		writeTriple(w, bg)
	} else {
		w.Write(csiBg256)
		WriteInt(w, int(RGBTo256(bg)))
	}
	w.WriteByte('m')
}

func writeTriple(w *bufio.Writer, c RGB) {
	WriteInt(w, int(c.R))
	w.WriteByte(';')
	WriteInt(w, int(c.G))
	w.WriteByte(';')
	WriteInt(w, int(c.B))
}
