package main

import (
	"fmt"
	"log"
	"os"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/iburimskiy/wave-visualization/internal/config"
	"github.com/iburimskiy/wave-visualization/internal/game"
	"github.com/iburimskiy/wave-visualization/internal/wave"
)

var (
	configFile string
	bpm        float64
	audioFile  string
	noFollow   bool

	plotWidth  int
	plotHeight int
	plotFrames int
	plotBand   int
)

func main() {
	log.SetFlags(log.Ltime)
	log.SetPrefix("wavevis: ")

	rootCmd := &cobra.Command{
		Use:          "wavevis",
		Short:        "BPM-driven wave visualizer",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return game.Run(cfg, audioFile)
		},
	}
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "YAML config file")
	rootCmd.PersistentFlags().Float64Var(&bpm, "bpm", config.DefaultBPM, "initial tempo")
	rootCmd.Flags().StringVar(&audioFile, "file", "", "audio file to play at startup (wav, mp3, flac)")
	rootCmd.Flags().BoolVar(&noFollow, "no-follow", false, "do not follow the detected tempo")

	plotCmd := &cobra.Command{
		Use:   "plot",
		Short: "render frames headlessly and plot one band",
		RunE:  runPlot,
	}
	plotCmd.Flags().IntVar(&plotWidth, "width", 300, "viewport width")
	plotCmd.Flags().IntVar(&plotHeight, "height", 200, "viewport height")
	plotCmd.Flags().IntVar(&plotFrames, "frames", 1, "frames to render before plotting")
	plotCmd.Flags().IntVar(&plotBand, "band", 0, "band to plot (0-2)")

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "print the effective config",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return yaml.NewEncoder(cmd.OutOrStdout()).Encode(cfg)
		},
	}

	rootCmd.AddCommand(plotCmd, configCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads the config file if given, then applies flags that were set.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		var err error
		if cfg, err = config.Load(configFile); err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Changed("bpm") {
		cfg.BPM = bpm
	}
	if f := cmd.Flags().Lookup("no-follow"); f != nil && f.Changed {
		cfg.FollowBeat = !noFollow
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

type fixedViewport struct{ w, h int }

func (v fixedViewport) Size() (int, int) { return v.w, v.h }

func runPlot(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if plotBand < 0 || plotBand > 2 {
		return fmt.Errorf("band %d out of range", plotBand)
	}
	if plotFrames < 1 {
		return fmt.Errorf("frames must be at least 1, got %d", plotFrames)
	}

	rec := &wave.Recorder{}
	r, err := wave.New(rec, fixedViewport{plotWidth, plotHeight})
	if err != nil {
		return err
	}
	if err := r.SetRate(cfg.BPM); err != nil {
		return err
	}
	for i := 0; i < plotFrames; i++ {
		r.Tick()
	}

	curve := rec.Paths[plotBand].Curve()
	if len(curve) < 2 {
		return fmt.Errorf("viewport %dx%d has no samples", plotWidth, plotHeight)
	}
	// screen y grows downwards
	data := make([]float64, 0, len(curve)-1)
	for _, p := range curve[1:] {
		data = append(data, float64(plotHeight)-p.Y)
	}

	graph := asciigraph.Plot(data,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("band %d, t=%.3f, %.1f bpm", plotBand, r.Phase(), r.BPM())),
	)
	fmt.Fprintln(cmd.OutOrStdout(), graph)
	return nil
}
