package game

import (
	"fmt"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/iburimskiy/wave-visualization/internal/config"
)

const (
	meterX      = 12
	meterY      = 28
	meterWidth  = 160
	meterHeight = 6
)

func (g *Game) drawHUD(screen *ebiten.Image) {
	bpm := g.renderer.BPM()
	mode := "manual"
	if g.followBeat {
		mode = "follow"
	}

	status := fmt.Sprintf("%.1f BPM (%s)", bpm, mode)
	switch {
	case g.track == nil:
		status += " | O to open an audio file"
	case g.paused:
		status += fmt.Sprintf(" | paused %s / %s", formatDuration(g.track.position()), formatDuration(g.track.duration))
	default:
		status += fmt.Sprintf(" | %s / %s", formatDuration(g.track.position()), formatDuration(g.track.duration))
	}
	if g.lastErr != nil {
		status += " | Error: " + g.lastErr.Error()
	}
	ebitenutil.DebugPrintAt(screen, status, meterX, 8)

	text := g.cfg.Theme.TextColor()
	// Validate keeps the range finite and at least an octave wide.
	span := g.cfg.Beat.MaxBPM - g.cfg.Beat.MinBPM
	drawMeter(screen, meterY, (bpm-g.cfg.Beat.MinBPM)/span, text)

	if g.track != nil {
		drawMeter(screen, meterY+meterHeight+4, level(g.track.tap.Snapshot(config.LevelWindow)), text)
	}
}

func drawMeter(screen *ebiten.Image, y float32, ratio float64, clr color.Color) {
	if math.IsNaN(ratio) {
		ratio = 0
	}
	fill := clamp01(ratio) * meterWidth
	vector.StrokeRect(screen, meterX, y, meterWidth, meterHeight, 1, clr, false)
	vector.DrawFilledRect(screen, meterX, y, float32(fill), meterHeight, clr, false)
}

// level maps the RMS of samples onto 0..1, compressed so quiet passages
// still move the meter.
func level(samples [][2]float64) float64 {
	if len(samples) == 0 {
		return 0
	}
	var sumSquares float64
	for _, s := range samples {
		mono := (s[0] + s[1]) * 0.5
		sumSquares += mono * mono
	}
	return clamp01(math.Pow(math.Sqrt(sumSquares/float64(len(samples))), 0.3))
}
