//go:build !unix

package terminal

import (
	"errors"
	"os"

	"golang.org/x/term"
)

// errUnsupported reports that raw sessions need a unix terminal
var errUnsupported = errors.New("interactive terminal sessions require a unix terminal")

// FdSizer reports the live window size of a terminal file descriptor
type FdSizer struct {
	Fd int
}

// StdoutSizer returns a sizer bound to the process standard output
func StdoutSizer() FdSizer {
	return FdSizer{Fd: int(os.Stdout.Fd())}
}

// Size queries the console size; failures are returned as-is
func (s FdSizer) Size() (int, int, error) {
	return term.GetSize(s.Fd)
}

type backend struct {
	out   *os.File
	outFd int
}

func newBackend(in, out *os.File) *backend {
	return &backend{out: out, outFd: int(out.Fd())}
}

func (b *backend) init() error {
	return errUnsupported
}

func (b *backend) fini() {}

func (b *backend) read(stopCh <-chan struct{}) ([]byte, error) {
	<-stopCh
	return nil, nil
}

type resizeHandler struct {
	eventCh chan Event
}

func newResizeHandler(fd int) *resizeHandler {
	return &resizeHandler{eventCh: make(chan Event)}
}

func (r *resizeHandler) start() {}

func (r *resizeHandler) stop() {}

func resetTerminalMode() {}
