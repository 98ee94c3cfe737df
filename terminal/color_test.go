package terminal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRGBTo256(t *testing.T) {
	tests := []struct {
		name string
		c    RGB
		want uint8
	}{
		{"black", RGB{0, 0, 0}, 16},
		{"white", RGB{255, 255, 255}, 231},
		{"pure red", RGB{255, 0, 0}, 196},
		{"pure green", RGB{0, 255, 0}, 46},
		{"pure blue", RGB{0, 0, 255}, 21},
		{"mid gray uses ramp", RGB{128, 128, 128}, 244},
		{"dark gray uses ramp", RGB{28, 28, 28}, 234},
		{"cube exact", RGB{95, 135, 175}, 16 + 36*1 + 6*2 + 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RGBTo256(tt.c))
		})
	}
}

func TestParseColorMode(t *testing.T) {
	for _, s := range []string{"true", "truecolor", "24", "24bit", "TRUE"} {
		m, err := ParseColorMode(s)
		require.NoError(t, err, s)
		assert.Equal(t, ColorModeTrueColor, m, s)
	}
	for _, s := range []string{"256", "8"} {
		m, err := ParseColorMode(s)
		require.NoError(t, err, s)
		assert.Equal(t, ColorMode256, m, s)
	}

	t.Setenv("COLORTERM", "truecolor")
	m, err := ParseColorMode("auto")
	require.NoError(t, err)
	assert.Equal(t, ColorModeTrueColor, m)

	_, err = ParseColorMode("16m")
	assert.Error(t, err)
}

func TestDetectColorMode(t *testing.T) {
	for _, env := range []string{"COLORTERM", "KITTY_WINDOW_ID", "KONSOLE_VERSION", "ITERM_SESSION_ID",
		"ALACRITTY_WINDOW_ID", "ALACRITTY_LOG", "WEZTERM_PANE"} {
		t.Setenv(env, "")
	}

	t.Setenv("TERM", "xterm-256color")
	assert.Equal(t, ColorMode256, DetectColorMode())

	t.Setenv("TERM", "xterm-direct")
	assert.Equal(t, ColorModeTrueColor, DetectColorMode())

	t.Setenv("TERM", "xterm")
	t.Setenv("WEZTERM_PANE", "3")
	assert.Equal(t, ColorModeTrueColor, DetectColorMode())
}

func TestParseRGB(t *testing.T) {
	tests := []struct {
		in   string
		want RGB
	}{
		{"black", Black},
		{" SteelBlue ", SteelBlue},
		{"#ff8000", RGB{255, 128, 0}},
		{"#0f0", RGB{0, 255, 0}},
	}
	for _, tt := range tests {
		got, err := ParseRGB(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseRGB("chartreuse-ish")
	assert.Error(t, err)
}

func TestRGBHexRoundTrip(t *testing.T) {
	c := RGB{12, 200, 7}
	assert.Equal(t, "#0cc807", c.Hex())

	back, err := ParseRGB(c.Hex())
	require.NoError(t, err)
	assert.Equal(t, c, back)
}
