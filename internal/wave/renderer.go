// Package wave draws three stacked, phase-offset sine bands whose animation
// speed follows a beats-per-minute rate.
//
// The renderer owns no window and schedules nothing itself. The host binds a
// Surface and a Viewport at construction and calls Tick once per frame.
package wave

import (
	"errors"
	"image/color"
	"math"
)

const (
	// DefaultBPM yields a rate multiplier of exactly 1.
	DefaultBPM = 60.0

	baseStep   = 0.02
	bandGap    = 105
	sampleStep = 15
	frequency  = 0.04
	amplitude  = 20
)

var (
	ErrNoSurface  = errors.New("wave: drawing surface unavailable")
	ErrNoViewport = errors.New("wave: viewport unavailable")
	ErrInvalidBPM = errors.New("wave: bpm must be positive and finite")
)

// Surface is the 2D drawing context a frame is painted onto.
type Surface interface {
	Clear(width, height int)
	BeginPath()
	MoveTo(x, y float64)
	LineTo(x, y float64)
	ClosePath()
	Fill(c color.Color)
}

// Viewport reports the current size of the host drawing area in pixels.
type Viewport interface {
	Size() (width, height int)
}

// Band is one filled wave region.
type Band struct {
	Offset float64
	Color  color.RGBA
}

var (
	lime  = color.RGBA{R: 0xCC, G: 0xF5, B: 0x47, A: 0xFF}
	coral = color.RGBA{R: 0xF5, G: 0x5B, B: 0x47, A: 0xFF}

	bands = [3]Band{
		{Offset: 0 * bandGap, Color: lime},
		{Offset: 1 * bandGap, Color: coral},
		{Offset: 2 * bandGap, Color: lime},
	}
)

// Bands returns the three band descriptors in drawing order.
func Bands() [3]Band { return bands }

type Renderer struct {
	surface  Surface
	viewport Viewport

	t          float64
	bpm        float64
	multiplier float64
	width      int
	height     int
}

// New binds the renderer to its surface and viewport and reads the initial
// viewport size. The rate starts at DefaultBPM.
func New(surface Surface, viewport Viewport) (*Renderer, error) {
	if surface == nil {
		return nil, ErrNoSurface
	}
	if viewport == nil {
		return nil, ErrNoViewport
	}
	r := &Renderer{
		surface:    surface,
		viewport:   viewport,
		bpm:        DefaultBPM,
		multiplier: DefaultBPM / 60,
	}
	r.Resize()
	return r, nil
}

// SetRate sets the rate multiplier to bpm/60. Invalid input is rejected and
// the previous rate stays in effect.
func (r *Renderer) SetRate(bpm float64) error {
	if math.IsNaN(bpm) || math.IsInf(bpm, 0) || bpm <= 0 {
		return ErrInvalidBPM
	}
	r.bpm = bpm
	r.multiplier = bpm / 60
	return nil
}

// SetBPM is the external control entry point, used by beat detection and
// key bindings.
func (r *Renderer) SetBPM(bpm float64) error { return r.SetRate(bpm) }

// Resize re-reads the viewport dimensions.
func (r *Renderer) Resize() {
	w, h := r.viewport.Size()
	r.width, r.height = max(w, 0), max(h, 0)
}

// Tick advances the phase and paints one frame.
func (r *Renderer) Tick() {
	r.t += baseStep * r.multiplier
	r.surface.Clear(r.width, r.height)

	w, h := float64(r.width), float64(r.height)
	mid := h / 2
	for _, b := range bands {
		base := mid + b.Offset
		r.surface.BeginPath()
		r.surface.MoveTo(0, base)
		// Sampling stops before the right edge; the closing segment to
		// (w, h) covers the remainder.
		for x := 0; x < r.width; x += sampleStep {
			fx := float64(x)
			r.surface.LineTo(fx, base+math.Sin(fx*frequency+r.t+b.Offset*frequency)*amplitude)
		}
		r.surface.LineTo(w, h)
		r.surface.LineTo(0, h)
		r.surface.ClosePath()
		r.surface.Fill(b.Color)
	}
}

// Phase returns the accumulated animation phase.
func (r *Renderer) Phase() float64 { return r.t }

// Rate returns the current rate multiplier.
func (r *Renderer) Rate() float64 { return r.multiplier }

// BPM returns the tempo last accepted by SetRate.
func (r *Renderer) BPM() float64 { return r.bpm }

func (r *Renderer) Size() (int, int) { return r.width, r.height }
