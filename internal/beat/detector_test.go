package beat

import (
	"math"
	"testing"
)

const testRate = 44100

func defaultOpts() Options {
	return Options{MinBPM: 60, MaxBPM: 180, Sensitivity: 1.5}
}

// clickTrack returns seconds of audio with a decaying 1 kHz click on every beat.
func clickTrack(bpm float64, seconds float64) [][2]float64 {
	n := int(seconds * testRate)
	period := int(60 / bpm * testRate)
	out := make([][2]float64, n)
	for i := range out {
		k := i % period
		if k < 512 {
			v := math.Sin(2*math.Pi*1000*float64(k)/testRate) * math.Exp(-float64(k)/100)
			out[i] = [2]float64{v, v}
		}
	}
	return out
}

func feedChunks(d *Detector, samples [][2]float64, chunk int) (last float64, reports int) {
	for start := 0; start < len(samples); start += chunk {
		end := min(start+chunk, len(samples))
		if bpm, ok := d.Feed(samples[start:end]); ok {
			last = bpm
			reports++
		}
	}
	return last, reports
}

func TestDetector_ClickTrack(t *testing.T) {
	tests := []struct {
		bpm float64
	}{
		{90},
		{120},
		{150},
	}

	for _, tt := range tests {
		d := NewDetector(testRate, defaultOpts())
		last, reports := feedChunks(d, clickTrack(tt.bpm, 20), 735)
		if reports == 0 {
			t.Fatalf("%v bpm: no estimate reported", tt.bpm)
		}
		if math.Abs(last-tt.bpm) > 6 {
			t.Errorf("%v bpm: estimated %v", tt.bpm, last)
		}
		if d.BPM() != last {
			t.Errorf("BPM() = %v, want last report %v", d.BPM(), last)
		}
	}
}

func TestDetector_FoldsIntoRange(t *testing.T) {
	d := NewDetector(testRate, defaultOpts())
	last, reports := feedChunks(d, clickTrack(40, 30), 1024)
	if reports == 0 {
		t.Fatal("no estimate reported")
	}
	if last < 60 || last > 180 {
		t.Errorf("estimate %v outside range", last)
	}
	if math.Abs(last-80) > 6 {
		t.Errorf("40 bpm folded to %v, want about 80", last)
	}
}

func TestDetector_Silence(t *testing.T) {
	d := NewDetector(testRate, defaultOpts())
	if _, reports := feedChunks(d, make([][2]float64, testRate*5), 512); reports != 0 {
		t.Errorf("silence produced %d estimates", reports)
	}
}

func TestDetector_Reset(t *testing.T) {
	d := NewDetector(testRate, defaultOpts())
	feedChunks(d, clickTrack(120, 10), 1000)
	if d.BPM() == 0 {
		t.Fatal("expected an estimate before reset")
	}
	d.Reset()
	if d.BPM() != 0 {
		t.Errorf("BPM after reset = %v", d.BPM())
	}
	if _, ok := d.Feed(clickTrack(120, 1)); ok {
		t.Error("estimate reported from one second after reset")
	}
}

func TestFold(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{120, 120},
		{30, 60},
		{45, 90},
		{240, 120},
		{400, 100},
		{0, 60},
		{math.NaN(), 60},
	}

	for _, tt := range tests {
		if got := Fold(tt.in, 60, 180); got != tt.want {
			t.Errorf("Fold(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
