package config

import (
	"errors"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.BPM != 60 {
		t.Errorf("expected bpm 60, got %v", cfg.BPM)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
	if cfg.Theme.Primary != "#F55B47" {
		t.Errorf("expected primary #F55B47, got %s", cfg.Theme.Primary)
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wave.yaml")
	cfg := DefaultConfig()
	cfg.BPM = 128
	cfg.FollowBeat = false
	cfg.Window.Width = 640

	if err := Save(path, cfg); err != nil {
		t.Fatal(err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.BPM != 128 || got.FollowBeat || got.Window.Width != 640 {
		t.Errorf("round trip mismatch: %+v", got)
	}
}

func TestLoad_PartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wave.yaml")
	if err := os.WriteFile(path, []byte("bpm: 90\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.BPM != 90 {
		t.Errorf("expected bpm 90, got %v", cfg.BPM)
	}
	if cfg.Window.Height != WindowHeight || cfg.Beat.MaxBPM != MaxBPM {
		t.Errorf("defaults lost: %+v", cfg)
	}
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	if _, err := Load(filepath.Join(dir, "missing.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file: got %v", err)
	}

	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("bpm: -1\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(bad); !errors.Is(err, ErrInvalid) {
		t.Errorf("negative bpm: got %v", err)
	}
}

func TestLoad_NonFiniteBeatRange(t *testing.T) {
	dir := t.TempDir()
	for _, v := range []string{".nan", ".inf", "-.inf"} {
		path := filepath.Join(dir, "beat.yaml")
		if err := os.WriteFile(path, []byte("beat:\n  max_bpm: "+v+"\n"), 0644); err != nil {
			t.Fatal(err)
		}
		if cfg, err := Load(path); !errors.Is(err, ErrInvalid) {
			t.Errorf("max_bpm %s: got err %v, cfg %+v", v, err, cfg)
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero width", func(c *Config) { c.Window.Width = 0 }},
		{"zero bpm", func(c *Config) { c.BPM = 0 }},
		{"narrow beat range", func(c *Config) { c.Beat.MaxBPM = c.Beat.MinBPM + 10 }},
		{"NaN max bpm", func(c *Config) { c.Beat.MaxBPM = math.NaN() }},
		{"infinite max bpm", func(c *Config) { c.Beat.MaxBPM = math.Inf(1) }},
		{"NaN min bpm", func(c *Config) { c.Beat.MinBPM = math.NaN() }},
		{"zero sensitivity", func(c *Config) { c.Beat.Sensitivity = 0 }},
		{"bad colour", func(c *Config) { c.Theme.Text = "teal" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalid) {
				t.Errorf("expected ErrInvalid, got %v", err)
			}
		})
	}
}

func TestParseHex(t *testing.T) {
	tests := []struct {
		in   string
		want color.RGBA
		ok   bool
	}{
		{"#44403c", color.RGBA{R: 0x44, G: 0x40, B: 0x3c, A: 0xFF}, true},
		{"CCF24E", color.RGBA{R: 0xCC, G: 0xF2, B: 0x4E, A: 0xFF}, true},
		{"#fff", color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}, true},
		{"#12345", color.RGBA{}, false},
		{"#zzzzzz", color.RGBA{}, false},
	}

	for _, tt := range tests {
		got, err := ParseHex(tt.in)
		if (err == nil) != tt.ok {
			t.Errorf("ParseHex(%q) error = %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseHex(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
