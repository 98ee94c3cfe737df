package terminal

import (
	"unicode/utf8"
)

// inputReader turns raw reads from a backend into key events
type inputReader struct {
	read    func(stopCh <-chan struct{}) ([]byte, error)
	eventCh chan Event
	stopCh  chan struct{}
	doneCh  chan struct{}
}

func newInputReader(read func(stopCh <-chan struct{}) ([]byte, error)) *inputReader {
	return &inputReader{
		read:    read,
		eventCh: make(chan Event, 64),
		stopCh:  make(chan struct{}),
		doneCh:  make(chan struct{}),
	}
}

func (r *inputReader) start() {
	go r.readLoop()
}

func (r *inputReader) stop() {
	close(r.stopCh)
	<-r.doneCh
}

func (r *inputReader) readLoop() {
	defer close(r.doneCh)

	for {
		data, err := r.read(r.stopCh)
		if err != nil {
			r.send(Event{Type: EventError, Err: err})
			return
		}
		if data == nil {
			select {
			case <-r.stopCh:
			default:
				r.send(Event{Type: EventClosed})
			}
			return
		}
		for _, ev := range ParseKeys(data) {
			r.send(ev)
		}
	}
}

func (r *inputReader) send(ev Event) {
	select {
	case r.eventCh <- ev:
	case <-r.stopCh:
	}
}

// decodeRune decodes one UTF-8 rune, treating invalid bytes as a single replacement
func decodeRune(b []byte) (rune, int) {
	r, size := utf8.DecodeRune(b)
	if size == 0 {
		return utf8.RuneError, 1
	}
	return r, size
}
