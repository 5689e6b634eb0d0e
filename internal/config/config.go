package config

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	WindowWidth  = 1024
	WindowHeight = 512
	WindowTitle  = "Wave Visualizer - O: open file, Space: play/pause, Left/Right: seek, Up/Down: bpm, B: follow beat, Esc/Q: quit"

	VisualRingSize = 8192
	LevelWindow    = 2048
	SeekStep       = 5 * time.Second

	DefaultBPM  = 60.0
	BPMNudge    = 5.0
	MinBPM      = 60.0
	MaxBPM      = 180.0
	Sensitivity = 1.5
)

type Config struct {
	Window     WindowConfig `yaml:"window"`
	BPM        float64      `yaml:"bpm"`
	FollowBeat bool         `yaml:"follow_beat"`
	Beat       BeatConfig   `yaml:"beat"`
	Theme      Theme        `yaml:"theme"`
}

type WindowConfig struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
}

type BeatConfig struct {
	MinBPM      float64 `yaml:"min_bpm"`
	MaxBPM      float64 `yaml:"max_bpm"`
	Sensitivity float64 `yaml:"sensitivity"`
}

// Theme is the page palette; band colours are fixed by the renderer.
type Theme struct {
	Primary    string `yaml:"primary"`
	Secondary  string `yaml:"secondary"`
	Text       string `yaml:"text"`
	FontFamily string `yaml:"font_family"`
}

func DefaultConfig() *Config {
	return &Config{
		Window: WindowConfig{
			Width:  WindowWidth,
			Height: WindowHeight,
			Title:  WindowTitle,
		},
		BPM:        DefaultBPM,
		FollowBeat: true,
		Beat: BeatConfig{
			MinBPM:      MinBPM,
			MaxBPM:      MaxBPM,
			Sensitivity: Sensitivity,
		},
		Theme: Theme{
			Primary:    "#F55B47",
			Secondary:  "#CCF24E",
			Text:       "#44403c",
			FontFamily: "New Amsterdam",
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

var ErrInvalid = errors.New("invalid config")

func (c *Config) Validate() error {
	positive := func(v float64) bool { return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v) }

	switch {
	case c.Window.Width <= 0 || c.Window.Height <= 0:
		return fmt.Errorf("%w: window size %dx%d", ErrInvalid, c.Window.Width, c.Window.Height)
	case !positive(c.BPM):
		return fmt.Errorf("%w: bpm %v", ErrInvalid, c.BPM)
	case !positive(c.Beat.MinBPM) || !positive(c.Beat.MaxBPM) || c.Beat.MaxBPM < 2*c.Beat.MinBPM:
		// tempo folding needs at least one octave of range
		return fmt.Errorf("%w: beat range %v-%v", ErrInvalid, c.Beat.MinBPM, c.Beat.MaxBPM)
	case !positive(c.Beat.Sensitivity):
		return fmt.Errorf("%w: sensitivity %v", ErrInvalid, c.Beat.Sensitivity)
	}
	for _, hex := range []string{c.Theme.Primary, c.Theme.Secondary, c.Theme.Text} {
		if _, err := ParseHex(hex); err != nil {
			return err
		}
	}
	return nil
}

// ParseHex converts "#RRGGBB" or "#RGB" to an opaque colour.
func ParseHex(s string) (color.RGBA, error) {
	h := strings.TrimPrefix(s, "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 {
		return color.RGBA{}, fmt.Errorf("%w: colour %q", ErrInvalid, s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("%w: colour %q", ErrInvalid, s)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xFF}, nil
}

// TextColor returns the parsed theme text colour, falling back to white.
func (t Theme) TextColor() color.RGBA {
	c, err := ParseHex(t.Text)
	if err != nil {
		return color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
	}
	return c
}
