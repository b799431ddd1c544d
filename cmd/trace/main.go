package main

import (
	"fmt"
	"io"
	"log"
	"math"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"skyburst/assets"
	"skyburst/config"
	"skyburst/engine"
	"skyburst/geom"
)

var (
	configFile  string
	preset      string
	seed        uint64
	intensity   float64
	duration    float64
	dt          float64
	width       int
	dumpSprites string
	quiet       bool
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("213"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	valueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	boxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("238")).Padding(0, 1)
)

// Sample is the state of one burst at time T
type Sample struct {
	T       float64
	Alive   int
	Height  float64 // mean height of live particles above the origin, pixels
	Opacity float64 // mean opacity of live particles
}

func main() {
	rootCmd := &cobra.Command{
		Use:          "trace",
		Short:        "simulate one firework headlessly and plot its particles",
		SilenceUsage: true,
		RunE:         runTrace,
	}
	rootCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	rootCmd.Flags().Uint64Var(&seed, "seed", 1, "random seed")
	rootCmd.Flags().Float64Var(&intensity, "intensity", 300, "launch intensity (drag distance)")
	rootCmd.Flags().Float64Var(&duration, "time", 3.0, "simulated seconds")
	rootCmd.Flags().Float64Var(&dt, "dt", 1.0/60, "frame step")
	rootCmd.Flags().IntVar(&width, "width", 80, "plot width")
	rootCmd.Flags().StringVar(&dumpSprites, "dump-sprites", "", "write the rasterized sprite tables as png into this directory")
	rootCmd.Flags().BoolVar(&quiet, "quiet", false, "suppress engine logging")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runTrace(cmd *cobra.Command, args []string) error {
	cfg := config.DefaultConfig()
	if preset != "" {
		var err error
		if cfg, err = config.LoadPreset(preset); err != nil {
			return err
		}
	}
	if configFile != "" {
		loaded, err := config.LoadOver(configFile, cfg)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	cfg.Seed = seed
	// The trace drives one burst by hand
	cfg.AutoFire.Enabled = false

	logger := log.New(os.Stderr, "trace: ", 0)
	if quiet {
		logger.SetOutput(io.Discard)
	}

	if dumpSprites != "" {
		if err := dumpTables(dumpSprites); err != nil {
			return err
		}
	}

	stage, _, err := cfg.NewStage(false, logger)
	if err != nil {
		return err
	}
	defer stage.Close()
	stage.Start()

	samples := SampleBurst(stage, intensity, duration, dt)
	arc := SampleArc(cfg, intensity, dt)
	printReport(cfg, samples, arc)
	return nil
}

// SampleBurst launches one explosion at the centre of the stage and records
// the particle layer after every step
func SampleBurst(stage *engine.Stage, intensity, duration, dt float64) []Sample {
	origin := stage.Surface.Center()
	stage.Explosions.Launch(origin, intensity)

	samples := []Sample{measure(stage, origin, 0)}
	for t := dt; t <= duration+1e-9; t += dt {
		stage.Update(dt)
		samples = append(samples, measure(stage, origin, t))
	}
	return samples
}

// SampleArc follows one particle launched straight up at the mid-range speed
// and flight of cfg, and returns its height above the origin every dt
func SampleArc(cfg *config.Config, intensity, dt float64) []float64 {
	ex := cfg.Explosion
	speed := (ex.SpeedMin + ex.SpeedMax) / 2 * engine.SpeedScale(intensity)
	flight := (ex.LifetimeMin + ex.LifetimeMax) / 2
	p := engine.NewParticle(geom.Point{}, -math.Pi/2, speed, ex.Gravity, flight)

	heights := []float64{0}
	for f := range p.Trajectory(dt) {
		heights = append(heights, -f.Position.Y)
	}
	return heights
}

func measure(stage *engine.Stage, origin geom.Point, t float64) Sample {
	s := Sample{T: t}
	for _, n := range stage.Surface.Nodes() {
		if n.Layer != engine.LayerParticle {
			continue
		}
		s.Alive++
		s.Height += origin.Y - n.Pos.Y
		s.Opacity += n.Opacity
	}
	if s.Alive > 0 {
		s.Height /= float64(s.Alive)
		s.Opacity /= float64(s.Alive)
	}
	return s
}

func printReport(cfg *config.Config, samples []Sample, arc []float64) {
	heights := make([]float64, len(samples))
	alive := make([]float64, len(samples))
	peak, lastAlive := 0.0, 0.0
	for i, s := range samples {
		heights[i] = s.Height
		alive[i] = float64(s.Alive)
		if s.Height > peak {
			peak = s.Height
		}
		if s.Alive > 0 {
			lastAlive = s.T
		}
	}

	row := func(label string, value any) string {
		return labelStyle.Render(fmt.Sprintf("%-12s", label)) + valueStyle.Render(fmt.Sprint(value))
	}
	header := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("firework trace"),
		row("seed", cfg.Seed),
		row("intensity", intensity),
		row("particles", samples[0].Alive),
		row("peak", fmt.Sprintf("%.0f px", peak)),
		row("last alive", fmt.Sprintf("%.2f s", lastAlive)),
	)
	fmt.Println(boxStyle.Render(header))
	fmt.Println()

	fmt.Println(asciigraph.Plot(heights,
		asciigraph.Height(12),
		asciigraph.Width(width),
		asciigraph.Caption("mean height above origin (px)"),
	))
	fmt.Println()
	fmt.Println(asciigraph.Plot(alive,
		asciigraph.Height(6),
		asciigraph.Width(width),
		asciigraph.Caption("live particles"),
	))
	fmt.Println()
	fmt.Println(asciigraph.Plot(arc,
		asciigraph.Height(12),
		asciigraph.Width(width),
		asciigraph.Caption("single particle launched straight up (px)"),
	))
}

func dumpTables(dir string) error {
	markers, err := assets.DragMarkers()
	if err != nil {
		return err
	}
	particles, err := assets.ExplosionParticles()
	if err != nil {
		return err
	}
	for _, c := range []*assets.Catalog{markers, particles} {
		if err := c.Dump(dir); err != nil {
			return fmt.Errorf("dump %s: %w", c.Name(), err)
		}
	}
	fmt.Println(labelStyle.Render("sprites written to ") + valueStyle.Render(dir))
	return nil
}
