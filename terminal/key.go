package terminal

// Key represents a parsed input key
type Key uint8

const (
	KeyNone Key = iota
	KeyRune     // Printable character (check Event.Rune)
	KeyEscape
	KeyEnter
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyCtrlC
)

// EventType distinguishes input event categories
type EventType uint8

const (
	EventKey EventType = iota
	EventResize
	EventError  // Read error
	EventClosed // Input closed
)

// Event represents a terminal input event
type Event struct {
	Type   EventType
	Key    Key
	Rune   rune
	Width  int   // For EventResize
	Height int   // For EventResize
	Err    error // For EventError
}

// ParseKeys decodes a raw input chunk into key events
// Only the subset the viewer binds is recognized: printable runes, Enter, Ctrl+C,
// standalone ESC and CSI/SS3 arrow keys; other sequences are dropped
func ParseKeys(buf []byte) []Event {
	var events []Event
	for i := 0; i < len(buf); {
		b := buf[i]
		switch {
		case b == 0x1b:
			if i+2 < len(buf) && (buf[i+1] == '[' || buf[i+1] == 'O') {
				if k, ok := arrowKey(buf[i+2]); ok {
					events = append(events, Event{Type: EventKey, Key: k})
				}
				i += 3
				continue
			}
			events = append(events, Event{Type: EventKey, Key: KeyEscape})
			i++
		case b == 0x03:
			events = append(events, Event{Type: EventKey, Key: KeyCtrlC})
			i++
		case b == '\r' || b == '\n':
			events = append(events, Event{Type: EventKey, Key: KeyEnter})
			i++
		case b < 0x20 || b == 0x7f:
			i++
		default:
			r, size := decodeRune(buf[i:])
			events = append(events, Event{Type: EventKey, Key: KeyRune, Rune: r})
			i += size
		}
	}
	return events
}

func arrowKey(b byte) (Key, bool) {
	switch b {
	case 'A':
		return KeyUp, true
	case 'B':
		return KeyDown, true
	case 'C':
		return KeyRight, true
	case 'D':
		return KeyLeft, true
	}
	return KeyNone, false
}
