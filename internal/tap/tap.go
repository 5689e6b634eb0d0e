// Package tap records played audio so the render loop can analyse it.
package tap

import (
	"sync"

	"github.com/faiface/beep"
)

// Tap wraps a beep.Streamer and records the last N samples into a ring buffer.
// Stream runs on the speaker goroutine; the read methods are safe to call
// from the render loop.
type Tap struct {
	Source    beep.Streamer
	buffer    [][2]float64
	nextIndex int
	total     int
	mu        sync.RWMutex
}

func New(src beep.Streamer, ringSize int) *Tap {
	return &Tap{
		Source: src,
		buffer: make([][2]float64, ringSize),
	}
}

func (t *Tap) Stream(samples [][2]float64) (int, bool) {
	n, ok := t.Source.Stream(samples)
	if n > 0 {
		t.mu.Lock()
		for i := 0; i < n; i++ {
			t.buffer[t.nextIndex] = samples[i]
			t.nextIndex++
			if t.nextIndex >= len(t.buffer) {
				t.nextIndex = 0
			}
		}
		t.total += n
		t.mu.Unlock()
	}
	return n, ok
}

func (t *Tap) Err() error { return t.Source.Err() }

// Total returns the number of samples streamed so far.
func (t *Tap) Total() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.total
}

// Since returns the samples streamed after cursor, oldest first, and the
// cursor to pass next time. Samples already overwritten in the ring are lost.
func (t *Tap) Since(cursor int) ([][2]float64, int) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	n := t.total - cursor
	if n <= 0 {
		return nil, t.total
	}
	return t.lastLocked(n), t.total
}

// Snapshot returns up to the last n samples, most recent last.
func (t *Tap) Snapshot(n int) [][2]float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.lastLocked(min(n, t.total))
}

func (t *Tap) lastLocked(n int) [][2]float64 {
	if n > len(t.buffer) {
		n = len(t.buffer)
	}
	out := make([][2]float64, n)
	start := t.nextIndex - n
	if start < 0 {
		start += len(t.buffer)
	}
	for i := range out {
		out[i] = t.buffer[(start+i)%len(t.buffer)]
	}
	return out
}
