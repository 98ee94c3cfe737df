package terminal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseKeys(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []Event
	}{
		{"runes", "hq", []Event{
			{Type: EventKey, Key: KeyRune, Rune: 'h'},
			{Type: EventKey, Key: KeyRune, Rune: 'q'},
		}},
		{"ctrl-c", "\x03", []Event{{Type: EventKey, Key: KeyCtrlC}}},
		{"enter", "\r", []Event{{Type: EventKey, Key: KeyEnter}}},
		{"lone escape", "\x1b", []Event{{Type: EventKey, Key: KeyEscape}}},
		{"csi arrows", "\x1b[A\x1b[D", []Event{
			{Type: EventKey, Key: KeyUp},
			{Type: EventKey, Key: KeyLeft},
		}},
		{"ss3 arrows", "\x1bOB\x1bOC", []Event{
			{Type: EventKey, Key: KeyDown},
			{Type: EventKey, Key: KeyRight},
		}},
		{"unknown csi dropped", "\x1b[Zk", []Event{{Type: EventKey, Key: KeyRune, Rune: 'k'}}},
		{"utf8", "é", []Event{{Type: EventKey, Key: KeyRune, Rune: 'é'}}},
		{"controls dropped", "\x01\x7f", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseKeys([]byte(tt.in)))
		})
	}
}
