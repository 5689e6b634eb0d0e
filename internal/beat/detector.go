// Package beat estimates the tempo of played audio from spectral-flux onsets.
package beat

import (
	"math"
	"math/cmplx"
	"sort"

	"github.com/mjibson/go-dsp/fft"
)

const (
	windowSize   = 1024
	hopSize      = 512
	fluxHistory  = 43 // about one second of hops at 44.1 kHz
	maxOnsets    = 17
	minIntervals = 4
	minFlux      = 1e-6
)

// Sink receives tempo estimates.
type Sink interface {
	SetBPM(bpm float64) error
}

type Options struct {
	MinBPM      float64
	MaxBPM      float64
	Sensitivity float64
}

type Detector struct {
	sampleRate int
	opts       Options

	pending  []float64
	prevMag  []float64
	flux     []float64
	onsets   []float64
	hops     int
	lastFlux float64
	bpm      float64
}

func NewDetector(sampleRate int, opts Options) *Detector {
	return &Detector{
		sampleRate: sampleRate,
		opts:       opts,
		pending:    make([]float64, 0, windowSize*2),
		prevMag:    make([]float64, windowSize/2),
	}
}

// Feed consumes stereo samples in playback order. It reports a tempo each
// time a new onset produces an estimate.
func (d *Detector) Feed(samples [][2]float64) (bpm float64, ok bool) {
	for _, s := range samples {
		d.pending = append(d.pending, (s[0]+s[1])*0.5)
	}
	for len(d.pending) >= windowSize {
		if d.analyze(d.pending[:windowSize]) {
			if est, found := d.estimate(); found {
				d.bpm = est
				bpm, ok = est, true
			}
		}
		d.pending = append(d.pending[:0], d.pending[hopSize:]...)
		d.hops++
	}
	return bpm, ok
}

// BPM returns the last estimate, zero before the first one.
func (d *Detector) BPM() float64 { return d.bpm }

func (d *Detector) Reset() {
	d.pending = d.pending[:0]
	clear(d.prevMag)
	d.flux = d.flux[:0]
	d.onsets = d.onsets[:0]
	d.hops = 0
	d.lastFlux = 0
	d.bpm = 0
}

// analyze reports whether the window starts an onset.
func (d *Detector) analyze(window []float64) bool {
	spectrum := fft.FFTReal(window)

	var flux float64
	for i := range d.prevMag {
		mag := cmplx.Abs(spectrum[i])
		if diff := mag - d.prevMag[i]; diff > 0 {
			flux += diff
		}
		d.prevMag[i] = mag
	}

	threshold := mean(d.flux) * d.opts.Sensitivity
	rising := flux > d.lastFlux
	d.lastFlux = flux
	d.flux = append(d.flux, flux)
	if len(d.flux) > fluxHistory {
		d.flux = d.flux[1:]
	}

	if flux < minFlux || flux <= threshold || !rising {
		return false
	}

	at := float64(d.hops*hopSize) / float64(d.sampleRate)
	if n := len(d.onsets); n > 0 && at-d.onsets[n-1] < 30/d.opts.MaxBPM {
		return false
	}
	d.onsets = append(d.onsets, at)
	if len(d.onsets) > maxOnsets {
		d.onsets = d.onsets[1:]
	}
	return true
}

func (d *Detector) estimate() (float64, bool) {
	if len(d.onsets) < minIntervals+1 {
		return 0, false
	}
	intervals := make([]float64, 0, len(d.onsets)-1)
	for i := 1; i < len(d.onsets); i++ {
		intervals = append(intervals, d.onsets[i]-d.onsets[i-1])
	}
	sort.Float64s(intervals)
	median := intervals[len(intervals)/2]
	if median <= 0 {
		return 0, false
	}
	return Fold(60/median, d.opts.MinBPM, d.opts.MaxBPM), true
}

// Fold doubles or halves bpm until it lies in [lo, hi]. hi must be at least 2*lo.
func Fold(bpm, lo, hi float64) float64 {
	if bpm <= 0 || math.IsInf(bpm, 0) || math.IsNaN(bpm) {
		return lo
	}
	for bpm < lo {
		bpm *= 2
	}
	for bpm > hi {
		bpm /= 2
	}
	return bpm
}

func mean(v []float64) float64 {
	if len(v) == 0 {
		return 0
	}
	var sum float64
	for _, x := range v {
		sum += x
	}
	return sum / float64(len(v))
}
