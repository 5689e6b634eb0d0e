package game

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/flac"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/wav"
	"github.com/ncruces/zenity"

	"github.com/iburimskiy/wave-visualization/internal/beat"
	"github.com/iburimskiy/wave-visualization/internal/config"
	"github.com/iburimskiy/wave-visualization/internal/tap"
)

var ErrUnsupported = errors.New("unsupported file type")

// track is the audio currently loaded into the speaker.
type track struct {
	file     *os.File
	streamer beep.StreamSeekCloser
	format   beep.Format
	ctrl     *beep.Ctrl
	tap      *tap.Tap
	duration time.Duration
	cursor   int
	closed   bool
}

func (tr *track) close() {
	if tr.closed {
		return
	}
	tr.closed = true
	_ = tr.streamer.Close()
	_ = tr.file.Close()
}

func (tr *track) position() time.Duration {
	speaker.Lock()
	pos := tr.streamer.Position()
	speaker.Unlock()
	return tr.format.SampleRate.D(pos)
}

// seekTarget clamps cur+delta to a valid sample index of a track of length n.
func seekTarget(cur, delta, n int) int {
	target := cur + delta
	if target >= n {
		target = n - 1
	}
	if target < 0 {
		target = 0
	}
	return target
}

// seek moves playback by d. Samples streamed before the seek are skipped by
// the beat detector, which starts over from the new position.
func (g *Game) seek(d time.Duration) error {
	tr := g.track
	if tr == nil {
		return nil
	}
	speaker.Lock()
	target := seekTarget(tr.streamer.Position(), tr.format.SampleRate.N(d), tr.streamer.Len())
	err := tr.streamer.Seek(target)
	speaker.Unlock()
	if err != nil {
		return fmt.Errorf("seek: %w", err)
	}

	tr.cursor = tr.tap.Total()
	if g.detector != nil {
		g.detector.Reset()
	}
	return nil
}

func (g *Game) togglePause() {
	if g.track == nil {
		return
	}
	speaker.Lock()
	g.paused = !g.paused
	g.track.ctrl.Paused = g.paused
	speaker.Unlock()
}

func (g *Game) stopCurrent() {
	if !g.speakerReady {
		return
	}
	speaker.Lock()
	speaker.Clear()
	speaker.Unlock()
	if g.track != nil {
		g.track.close()
		g.track = nil
	}
}

func (g *Game) openAndPlayFileDialog() error {
	filename, err := zenity.SelectFile(
		zenity.Title("Open Audio File"),
		zenity.FileFilters{{
			Name:     "Audio",
			Patterns: []string{"*.wav", "*.mp3", "*.flac"},
		}},
	)
	if err != nil {
		if errors.Is(err, zenity.ErrCanceled) {
			return nil
		}
		return err
	}
	return g.loadAndPlay(filename)
}

func decode(f *os.File) (beep.StreamSeekCloser, beep.Format, error) {
	switch ext := strings.ToLower(filepath.Ext(f.Name())); ext {
	case ".wav":
		return wav.Decode(f)
	case ".mp3":
		return mp3.Decode(f)
	case ".flac":
		return flac.Decode(f)
	default:
		return nil, beep.Format{}, fmt.Errorf("%w: %q", ErrUnsupported, ext)
	}
}

func (g *Game) loadAndPlay(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	streamer, format, err := decode(f)
	if err != nil {
		_ = f.Close()
		return fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}

	g.stopCurrent()

	// Re-init when the sample rate changes.
	if !g.speakerReady || g.sampleRate != format.SampleRate {
		if err := speaker.Init(format.SampleRate, format.SampleRate.N(time.Second/20)); err != nil {
			_ = streamer.Close()
			_ = f.Close()
			return fmt.Errorf("init speaker: %w", err)
		}
		g.speakerReady = true
		g.sampleRate = format.SampleRate
	}

	t := tap.New(streamer, config.VisualRingSize)
	tr := &track{
		file:     f,
		streamer: streamer,
		format:   format,
		ctrl:     &beep.Ctrl{Streamer: t},
		tap:      t,
		duration: format.SampleRate.D(streamer.Len()),
	}
	g.track = tr
	g.paused = false
	g.detector = beat.NewDetector(int(format.SampleRate), beat.Options{
		MinBPM:      g.cfg.Beat.MinBPM,
		MaxBPM:      g.cfg.Beat.MaxBPM,
		Sensitivity: g.cfg.Beat.Sensitivity,
	})
	log.Printf("playing %s (%s, %d Hz)", filepath.Base(path), formatDuration(tr.duration), format.SampleRate)

	// The callback runs on the speaker goroutine; Update picks the track up.
	speaker.Play(beep.Seq(tr.ctrl, beep.Callback(func() {
		select {
		case g.finished <- tr:
		default:
		}
	})))
	return nil
}

// reapFinished releases a track whose playback ended.
func (g *Game) reapFinished() {
	select {
	case tr := <-g.finished:
		tr.close()
		if g.track == tr {
			g.track = nil
			g.detector = nil
		}
	default:
	}
}
