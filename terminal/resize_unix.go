//go:build unix

package terminal

import (
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sys/unix"
)

// FdSizer reports the live window size of a terminal file descriptor
type FdSizer struct {
	Fd int
}

// StdoutSizer returns a sizer bound to the process standard output
func StdoutSizer() FdSizer {
	return FdSizer{Fd: int(os.Stdout.Fd())}
}

// Size queries TIOCGWINSZ; ioctl failures are returned as-is
func (s FdSizer) Size() (int, int, error) {
	ws, err := unix.IoctlGetWinsize(s.Fd, unix.TIOCGWINSZ)
	if err != nil {
		return 0, 0, err
	}
	return int(ws.Col), int(ws.Row), nil
}

// resizeHandler manages SIGWINCH signals
type resizeHandler struct {
	sizer   FdSizer
	sigCh   chan os.Signal
	eventCh chan Event
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// newResizeHandler creates a resize handler for the given fd
func newResizeHandler(fd int) *resizeHandler {
	return &resizeHandler{
		sizer:   FdSizer{Fd: fd},
		sigCh:   make(chan os.Signal, 1),
		eventCh: make(chan Event, 1),
		stopCh:  make(chan struct{}),
		doneCh:  make(chan struct{}),
	}
}

// start begins listening for SIGWINCH
func (r *resizeHandler) start() {
	signal.Notify(r.sigCh, syscall.SIGWINCH)
	go r.watchLoop()
}

// stop stops the resize handler
func (r *resizeHandler) stop() {
	signal.Stop(r.sigCh)
	close(r.stopCh)
	<-r.doneCh
}

// watchLoop monitors for resize signals
func (r *resizeHandler) watchLoop() {
	defer close(r.doneCh)

	for {
		select {
		case <-r.stopCh:
			return
		case <-r.sigCh:
			w, h, err := r.sizer.Size()
			if err != nil || w <= 0 || h <= 0 {
				continue
			}
			ev := Event{Type: EventResize, Width: w, Height: h}
			// Non-blocking send, drop old event if not consumed
			select {
			case r.eventCh <- ev:
			default:
				select {
				case <-r.eventCh:
				default:
				}
				r.eventCh <- ev
			}
		}
	}
}
