package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override
const EnvPrefix = "SKYBURST_"

// Touch modes
const (
	TouchAuto = "auto"
	TouchOn   = "on"
	TouchOff  = "off"
)

// Config holds the application configuration
type Config struct {
	Window    WindowConfig    `yaml:"window" envPrefix:"WINDOW_"`
	Input     InputConfig     `yaml:"input" envPrefix:"INPUT_"`
	Explosion ExplosionConfig `yaml:"explosion" envPrefix:"EXPLOSION_"`
	Gesture   GestureConfig   `yaml:"gesture" envPrefix:"GESTURE_"`
	AutoFire  AutoFireConfig  `yaml:"autofire" envPrefix:"AUTOFIRE_"`
	Avatar    AvatarConfig    `yaml:"avatar" envPrefix:"AVATAR_"`

	// Seed for the random source; 0 picks one from the clock
	Seed uint64 `yaml:"seed" env:"SEED"`

	// ProfileDir enables frame-drop CPU profiling into this directory
	ProfileDir string `yaml:"profile_dir" env:"PROFILE_DIR"`
}

// WindowConfig holds window settings
type WindowConfig struct {
	Width      int    `yaml:"width" env:"WIDTH"`
	Height     int    `yaml:"height" env:"HEIGHT"`
	Title      string `yaml:"title" env:"TITLE"`
	Resizable  bool   `yaml:"resizable" env:"RESIZABLE"`
	Fullscreen bool   `yaml:"fullscreen" env:"FULLSCREEN"`
}

// InputConfig holds the preference and capability collaborators
type InputConfig struct {
	ReducedMotion  bool    `yaml:"reduced_motion" env:"REDUCED_MOTION"`
	Touch          string  `yaml:"touch" env:"TOUCH"`
	TouchIntensity float64 `yaml:"touch_intensity" env:"TOUCH_INTENSITY"`
}

// ExplosionConfig holds explosion tuning
type ExplosionConfig struct {
	Gravity        float64 `yaml:"gravity" env:"GRAVITY"`
	SpeedMin       float64 `yaml:"speed_min" env:"SPEED_MIN"`
	SpeedMax       float64 `yaml:"speed_max" env:"SPEED_MAX"`
	LifetimeMin    float64 `yaml:"lifetime_min" env:"LIFETIME_MIN"`
	LifetimeMax    float64 `yaml:"lifetime_max" env:"LIFETIME_MAX"`
	ClampIntensity bool    `yaml:"clamp_intensity" env:"CLAMP_INTENSITY"`
}

// GestureConfig holds drag feedback tuning
type GestureConfig struct {
	LineInset      float64 `yaml:"line_inset" env:"LINE_INSET"`
	LineWidth      float64 `yaml:"line_width" env:"LINE_WIDTH"`
	MarkerSize     float64 `yaml:"marker_size" env:"MARKER_SIZE"`
	RotationBias   float64 `yaml:"rotation_bias" env:"ROTATION_BIAS"`
	SettleDuration float64 `yaml:"settle_duration" env:"SETTLE_DURATION"`
}

// AutoFireConfig holds the autonomous show tuning
type AutoFireConfig struct {
	Enabled         bool    `yaml:"enabled" env:"ENABLED"`
	InitialDelay    float64 `yaml:"initial_delay" env:"INITIAL_DELAY"`
	CenterIntensity float64 `yaml:"center_intensity" env:"CENTER_INTENSITY"`
	LoopDelay       float64 `yaml:"loop_delay" env:"LOOP_DELAY"`
	IntensityMin    float64 `yaml:"intensity_min" env:"INTENSITY_MIN"`
	IntensityMax    float64 `yaml:"intensity_max" env:"INTENSITY_MAX"`
	IntervalMin     float64 `yaml:"interval_min" env:"INTERVAL_MIN"`
	IntervalMax     float64 `yaml:"interval_max" env:"INTERVAL_MAX"`
	Margin          float64 `yaml:"margin" env:"MARGIN"`
}

// AvatarConfig holds cursor avatar tuning
type AvatarConfig struct {
	Frequency float64 `yaml:"frequency" env:"FREQUENCY"`
	Size      float64 `yaml:"size" env:"SIZE"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Window: WindowConfig{
			Width:     1280,
			Height:    800,
			Title:     "skyburst",
			Resizable: true,
		},
		Input: InputConfig{
			Touch:          TouchAuto,
			TouchIntensity: 300,
		},
		Explosion: ExplosionConfig{
			Gravity:     2500,
			SpeedMin:    500,
			SpeedMax:    2000,
			LifetimeMin: 1.5,
			LifetimeMax: 2.5,
		},
		Gesture: GestureConfig{
			LineInset:      30,
			LineWidth:      3,
			MarkerSize:     48,
			RotationBias:   90,
			SettleDuration: 0.4,
		},
		AutoFire: AutoFireConfig{
			Enabled:         true,
			InitialDelay:    0.5,
			CenterIntensity: 500,
			LoopDelay:       2.0,
			IntensityMin:    100,
			IntensityMax:    600,
			IntervalMin:     0.8,
			IntervalMax:     2.0,
			Margin:          100,
		},
		Avatar: AvatarConfig{
			Frequency: 18,
			Size:      28,
		},
	}
}

// Load reads a yaml file over the defaults
func Load(path string) (*Config, error) {
	return LoadOver(path, DefaultConfig())
}

// LoadOver reads a yaml file over base. Keys missing from the file keep base's values.
func LoadOver(path string, base *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg := *base
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return &cfg, nil
}

// Save writes cfg as yaml
func Save(path string, cfg *Config) error {
	data, err := cfg.Marshal()
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Marshal encodes cfg as yaml
func (c *Config) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return data, nil
}

// ApplyEnv overlays SKYBURST_* environment variables on c
func (c *Config) ApplyEnv() error {
	if err := env.ParseWithOptions(c, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Validate checks that ranges are ordered and sizes positive
func (c *Config) Validate() error {
	var errs []error
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height))
	}
	switch c.Input.Touch {
	case TouchAuto, TouchOn, TouchOff:
	default:
		errs = append(errs, fmt.Errorf("input.touch must be auto, on or off, got %q", c.Input.Touch))
	}
	if c.Explosion.SpeedMin > c.Explosion.SpeedMax {
		errs = append(errs, errors.New("explosion speed_min exceeds speed_max"))
	}
	if c.Explosion.LifetimeMin <= 0 || c.Explosion.LifetimeMin > c.Explosion.LifetimeMax {
		errs = append(errs, errors.New("explosion lifetime range must be positive and ordered"))
	}
	if c.AutoFire.IntensityMin > c.AutoFire.IntensityMax {
		errs = append(errs, errors.New("autofire intensity_min exceeds intensity_max"))
	}
	if c.AutoFire.IntervalMin <= 0 || c.AutoFire.IntervalMin > c.AutoFire.IntervalMax {
		errs = append(errs, errors.New("autofire interval range must be positive and ordered"))
	}
	if c.Avatar.Frequency <= 0 {
		errs = append(errs, errors.New("avatar frequency must be positive"))
	}
	return errors.Join(errs...)
}
