// Package config loads renderer settings from a YAML file
// A missing file is not an error: defaults are returned
package config

import (
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/lixenwraith/asciimesh/raster"
	"github.com/lixenwraith/asciimesh/render"
	"github.com/lixenwraith/asciimesh/terminal"
	"github.com/mattn/go-runewidth"
	"gopkg.in/yaml.v3"
)

// ErrInvalid wraps every validation failure
var ErrInvalid = errors.New("invalid config")

// Output formats
const (
	FormatPlain = "plain"
	FormatANSI  = "ansi"
	FormatHTML  = "html"
)

// Interactive display backends
const (
	BackendANSI  = "ansi"
	BackendTcell = "tcell"
)

// Config mirrors the YAML file layout
type Config struct {
	Zoom       float32 `yaml:"zoom"`
	Format     string  `yaml:"format"`
	ColorMode  string  `yaml:"color_mode"`
	Background string  `yaml:"background"`
	Tint       string  `yaml:"tint"`
	Ramp       string  `yaml:"ramp"`
	Backend    string  `yaml:"backend"`

	// Image mode size; zero width or height selects interactive mode
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// Default returns the built-in settings
func Default() *Config {
	return &Config{
		Zoom:       1.0,
		Format:     FormatANSI,
		ColorMode:  "auto",
		Background: "black",
		Tint:       "white",
		Ramp:       raster.DefaultRamp,
		Backend:    BackendANSI,
	}
}

// Load reads path over the defaults
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, err
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML over the defaults and validates the result
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every field
func (c *Config) Validate() error {
	if !(c.Zoom > 0) || math.IsInf(float64(c.Zoom), 1) {
		return fmt.Errorf("%w: zoom must be positive and finite, got %v", ErrInvalid, c.Zoom)
	}
	switch c.Format {
	case FormatPlain, FormatANSI, FormatHTML:
	default:
		return fmt.Errorf("%w: unknown format %q", ErrInvalid, c.Format)
	}
	switch c.Backend {
	case BackendANSI, BackendTcell:
	default:
		return fmt.Errorf("%w: unknown backend %q", ErrInvalid, c.Backend)
	}
	if _, err := terminal.ParseColorMode(c.ColorMode); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if _, err := terminal.ParseRGB(c.Background); err != nil {
		return fmt.Errorf("%w: background %q: %v", ErrInvalid, c.Background, err)
	}
	if _, err := terminal.ParseRGB(c.Tint); err != nil {
		return fmt.Errorf("%w: tint %q: %v", ErrInvalid, c.Tint, err)
	}
	if c.Ramp == "" {
		return fmt.Errorf("%w: ramp is empty", ErrInvalid)
	}
	for _, r := range c.Ramp {
		// Every ramp rune must occupy exactly one cell or rows drift
		if runewidth.RuneWidth(r) != 1 {
			return fmt.Errorf("%w: ramp rune %q is not single-width", ErrInvalid, r)
		}
	}
	if c.Width < 0 || c.Height < 0 {
		return fmt.Errorf("%w: negative image size %dx%d", ErrInvalid, c.Width, c.Height)
	}
	return nil
}

// ImageMode reports whether a fixed export size is configured
func (c *Config) ImageMode() bool {
	return c.Width > 0 && c.Height > 0
}

// FlushOptions derives encoder settings from format, background and color mode
func (c *Config) FlushOptions() (render.FlushOptions, error) {
	mode, err := terminal.ParseColorMode(c.ColorMode)
	if err != nil {
		return render.FlushOptions{}, err
	}
	bg, err := terminal.ParseRGB(c.Background)
	if err != nil {
		return render.FlushOptions{}, err
	}
	return render.FlushOptions{
		Color:      c.Format != FormatPlain,
		Web:        c.Format == FormatHTML,
		Background: bg,
		ColorMode:  mode,
	}, nil
}

// TintRGB returns the parsed default mesh color
func (c *Config) TintRGB() (terminal.RGB, error) {
	return terminal.ParseRGB(c.Tint)
}
