package terminal

import (
	"bufio"
	"errors"
	"io"
	"os"
	"sync"
)

// ErrNotTerminal is returned when an interactive session is opened without a tty
var ErrNotTerminal = errors.New("stdin is not a terminal")

// Session owns an interactive terminal: raw mode, alternate screen and event delivery
// Frames are written through Writer; Close restores the terminal
type Session struct {
	backend *backend
	writer  *bufio.Writer

	input  *inputReader
	resize *resizeHandler
	events chan Event
	stopCh chan struct{}
	doneCh chan struct{}

	mu     sync.Mutex
	closed bool
}

// Open enters raw mode on stdin and the alternate screen on stdout
func Open() (*Session, error) {
	b := newBackend(os.Stdin, os.Stdout)
	if err := b.init(); err != nil {
		return nil, err
	}

	s := &Session{
		backend: b,
		writer:  bufio.NewWriterSize(b.out, 131072), // 128KB buffer
		input:   newInputReader(b.read),
		resize:  newResizeHandler(b.outFd),
		events:  make(chan Event, 64),
		stopCh:  make(chan struct{}),
		doneCh:  make(chan struct{}),
	}

	w := s.writer
	w.Write(csiAltScreenEnter)
	w.Write(csiCursorHide)
	// Frames are one continuous stream without line breaks; rows rely on auto-wrap
	w.Write(csiAutoWrapOn)
	w.Write(csiSGR0)
	w.Write(csiClear)
	if err := w.Flush(); err != nil {
		b.fini()
		return nil, err
	}

	s.input.start()
	s.resize.start()
	go s.merge()
	return s, nil
}

// Writer returns the frame sink; callers flush their own output
func (s *Session) Writer() io.Writer {
	return s.writer
}

// Flush pushes buffered frame bytes to the terminal
func (s *Session) Flush() error {
	return s.writer.Flush()
}

// Clear blanks the screen and homes the cursor, used after a resize
func (s *Session) Clear() error {
	s.writer.Write(csiSGR0)
	s.writer.Write(csiClear)
	return s.writer.Flush()
}

// Events delivers key and resize events until Close
func (s *Session) Events() <-chan Event {
	return s.events
}

// Close restores terminal state. Safe to call multiple times
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true

	close(s.stopCh)
	<-s.doneCh
	s.input.stop()
	s.resize.stop()

	w := s.writer
	w.Write(csiSGR0)
	w.Write(csiCursorShow)
	w.Write(csiAltScreenExit)
	w.Flush()

	s.backend.fini()
}

// merge fans input and resize events into one channel
func (s *Session) merge() {
	defer close(s.doneCh)
	for {
		var ev Event
		select {
		case <-s.stopCh:
			return
		case ev = <-s.input.eventCh:
		case ev = <-s.resize.eventCh:
		}
		select {
		case s.events <- ev:
		case <-s.stopCh:
			return
		}
	}
}

// EmergencyReset attempts to restore terminal to sane state
// Call this from panic recovery if Close cannot be called normally
func EmergencyReset(w io.Writer) {
	w.Write(csiSGR0)
	w.Write(csiCursorShow)
	w.Write(csiAltScreenExit)
	w.Write(csiAutoWrapOn)

	if f, ok := w.(*os.File); ok {
		f.Sync()
	}

	resetTerminalMode()
}
