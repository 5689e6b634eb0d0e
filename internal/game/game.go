// Package game hosts the wave renderer in an ebiten window: it supplies the
// drawing surface, the resize notifications and the frame pacing, and feeds
// tempo from played audio into the renderer.
package game

import (
	"errors"
	"fmt"
	"log"

	"github.com/faiface/beep"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/iburimskiy/wave-visualization/internal/beat"
	"github.com/iburimskiy/wave-visualization/internal/config"
	"github.com/iburimskiy/wave-visualization/internal/wave"
)

var (
	_ beat.Sink = (*Game)(nil)
	_ beat.Sink = (*wave.Renderer)(nil)
)

// windowViewport is the size ebiten last reported through Layout.
type windowViewport struct {
	width, height int
}

func (v *windowViewport) Size() (int, int) { return v.width, v.height }

type Game struct {
	cfg *config.Config

	renderer *wave.Renderer
	surface  *imageSurface
	viewport *windowViewport
	resized  bool

	// audio
	track        *track
	finished     chan *track
	detector     *beat.Detector
	speakerReady bool
	sampleRate   beep.SampleRate

	followBeat bool
	paused     bool
	lastErr    error
}

func NewGame(cfg *config.Config) (*Game, error) {
	g := &Game{
		cfg:        cfg,
		surface:    &imageSurface{},
		viewport:   &windowViewport{width: cfg.Window.Width, height: cfg.Window.Height},
		finished:   make(chan *track, 1),
		followBeat: cfg.FollowBeat,
	}
	r, err := wave.New(g.surface, g.viewport)
	if err != nil {
		return nil, err
	}
	if err := r.SetRate(cfg.BPM); err != nil {
		return nil, fmt.Errorf("initial bpm %v: %w", cfg.BPM, err)
	}
	g.renderer = r
	return g, nil
}

// SetBPM lets other parts of the application drive the animation speed.
func (g *Game) SetBPM(bpm float64) error { return g.renderer.SetBPM(bpm) }

func (g *Game) Update() error {
	g.reapFinished()

	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyEscape), inpututil.IsKeyJustPressed(ebiten.KeyQ):
		return ebiten.Termination
	case inpututil.IsKeyJustPressed(ebiten.KeySpace):
		g.togglePause()
	case inpututil.IsKeyJustPressed(ebiten.KeyO):
		if err := g.openAndPlayFileDialog(); err != nil {
			g.fail(err)
		}
	case inpututil.IsKeyJustPressed(ebiten.KeyB):
		g.followBeat = !g.followBeat
	case inpututil.IsKeyJustPressed(ebiten.KeyUp):
		g.nudge(config.BPMNudge)
	case inpututil.IsKeyJustPressed(ebiten.KeyDown):
		g.nudge(-config.BPMNudge)
	case inpututil.IsKeyJustPressed(ebiten.KeyLeft):
		if err := g.seek(-config.SeekStep); err != nil {
			g.fail(err)
		}
	case inpututil.IsKeyJustPressed(ebiten.KeyRight):
		if err := g.seek(config.SeekStep); err != nil {
			g.fail(err)
		}
	}

	g.followTempo()
	return nil
}

func (g *Game) nudge(delta float64) {
	g.followBeat = false
	if err := g.SetBPM(g.renderer.BPM() + delta); err != nil {
		g.fail(err)
	}
}

func (g *Game) followTempo() {
	if g.track == nil || g.detector == nil || g.paused {
		return
	}
	samples, cursor := g.track.tap.Since(g.track.cursor)
	g.track.cursor = cursor
	bpm, ok := g.detector.Feed(samples)
	if !ok || !g.followBeat {
		return
	}
	if err := g.SetBPM(bpm); err != nil {
		g.fail(err)
	}
}

func (g *Game) fail(err error) {
	log.Printf("error: %v", err)
	g.lastErr = err
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.surface.bind(screen)
	if g.resized {
		g.renderer.Resize()
		g.resized = false
	}
	g.renderer.Tick()
	g.drawHUD(screen)
}

// Layout tracks the window size so the waves always span the whole window.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != g.viewport.width || outsideHeight != g.viewport.height {
		g.viewport.width, g.viewport.height = outsideWidth, outsideHeight
		g.resized = true
	}
	return outsideWidth, outsideHeight
}

// Run opens the window and blocks until it is closed. If file is set it
// starts playing immediately.
func Run(cfg *config.Config, file string) error {
	g, err := NewGame(cfg)
	if err != nil {
		return err
	}
	if file != "" {
		if err := g.loadAndPlay(file); err != nil {
			return err
		}
	}
	defer g.stopCurrent()

	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	ebiten.SetWindowTitle(cfg.Window.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return nil
}
