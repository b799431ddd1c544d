package main

import (
	"fmt"
	"log"
	"os"
	"runtime"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/spf13/cobra"

	"skyburst/config"
	"skyburst/game"
)

var (
	configFile    string
	preset        string
	seed          uint64
	reducedMotion bool
	touchMode     string
	profileDir    string
)

func main() {
	log.SetFlags(log.Ltime | log.Lmicroseconds)

	rootCmd := &cobra.Command{
		Use:          "skyburst",
		Short:        "drag-to-launch fireworks",
		SilenceUsage: true,
		RunE:         runShow,
	}
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "start from a named preset")
	rootCmd.Flags().Uint64Var(&seed, "seed", 0, "random seed (0 picks one)")
	rootCmd.Flags().BoolVar(&reducedMotion, "reduced-motion", false, "disable gestures, avatar and the autonomous show")
	rootCmd.Flags().StringVar(&touchMode, "touch", "", "touch mode: auto, on or off")
	rootCmd.Flags().StringVar(&profileDir, "profile-dir", "", "capture profiles here on frame drops")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list presets",
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range config.ListPresets() {
				fmt.Println(name)
			}
		},
	}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "print the resolved configuration as yaml",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			data, err := cfg.Marshal()
			if err != nil {
				return err
			}
			_, err = os.Stdout.Write(data)
			return err
		},
	}

	rootCmd.AddCommand(presetsCmd, configCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig resolves defaults, preset, file, environment and flags, in that order
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		var err error
		if cfg, err = config.LoadPreset(preset); err != nil {
			return nil, err
		}
	}
	if configFile != "" {
		loaded, err := config.LoadOver(configFile, cfg)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("reduced-motion") {
		cfg.Input.ReducedMotion = reducedMotion
	}
	if flags.Changed("touch") {
		cfg.Input.Touch = touchMode
	}
	if flags.Changed("profile-dir") {
		cfg.ProfileDir = profileDir
	}
	return cfg, cfg.Validate()
}

func runShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	touchCapable := runtime.GOOS == "android" || runtime.GOOS == "ios"
	stage, usedSeed, err := cfg.NewStage(touchCapable, log.Default())
	if err != nil {
		return err
	}
	log.Printf("seed %d, touch %v, reduced motion %v", usedSeed, cfg.UseTouch(touchCapable), cfg.Input.ReducedMotion)

	var profiler *game.Profiler
	if cfg.ProfileDir != "" {
		profiler, err = game.NewProfiler(cfg.ProfileDir, log.Default())
		if err != nil {
			return err
		}
	}

	g := game.NewGame(stage, profiler, log.Default())
	defer g.Close()
	stage.Start()

	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	ebiten.SetWindowTitle(cfg.Window.Title)
	if cfg.Window.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}
	ebiten.SetFullscreen(cfg.Window.Fullscreen)
	if !cfg.Input.ReducedMotion {
		// The avatar stands in for the system cursor
		ebiten.SetCursorMode(ebiten.CursorModeHidden)
	}

	if err := ebiten.RunGame(g); err != nil {
		return fmt.Errorf("run game: %w", err)
	}
	return nil
}
