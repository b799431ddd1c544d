package config

import (
	"fmt"
	"image/color"
	"log"
	"math"
	"math/rand/v2"
	"time"

	"skyburst/assets"
	"skyburst/engine"
)

var avatarColor = color.RGBA{255, 236, 170, 230}

// UseTouch resolves the touch mode against what the platform reports
func (c *Config) UseTouch(touchCapable bool) bool {
	switch c.Input.Touch {
	case TouchOn:
		return true
	case TouchOff:
		return false
	}
	return touchCapable
}

// StageOptions maps the configuration onto engine options
func (c *Config) StageOptions(touchCapable bool) engine.Options {
	opts := engine.DefaultOptions(float64(c.Window.Width), float64(c.Window.Height))
	opts.ReducedMotion = c.Input.ReducedMotion
	opts.Touch = c.UseTouch(touchCapable)

	opts.Explosion.Gravity = c.Explosion.Gravity
	opts.Explosion.SpeedMin = c.Explosion.SpeedMin
	opts.Explosion.SpeedMax = c.Explosion.SpeedMax
	opts.Explosion.LifetimeMin = c.Explosion.LifetimeMin
	opts.Explosion.LifetimeMax = c.Explosion.LifetimeMax
	opts.Explosion.ClampIntensity = c.Explosion.ClampIntensity

	opts.Gesture.LineInset = c.Gesture.LineInset
	opts.Gesture.LineWidth = c.Gesture.LineWidth
	opts.Gesture.MarkerSize = c.Gesture.MarkerSize
	opts.Gesture.RotationBias = c.Gesture.RotationBias
	opts.Gesture.SettleDuration = c.Gesture.SettleDuration
	opts.Gesture.TouchIntensity = c.Input.TouchIntensity

	a := c.AutoFire
	opts.AutoFire.Enabled = a.Enabled
	opts.AutoFire.InitialDelay = a.InitialDelay
	opts.AutoFire.CenterIntensity = a.CenterIntensity
	opts.AutoFire.LoopDelay = a.LoopDelay
	opts.AutoFire.IntensityMin = a.IntensityMin
	opts.AutoFire.IntensityMax = a.IntensityMax
	opts.AutoFire.IntervalMin = a.IntervalMin
	opts.AutoFire.IntervalMax = a.IntervalMax
	opts.AutoFire.Margin = a.Margin

	opts.Avatar.Frequency = c.Avatar.Frequency
	opts.Avatar.Size = c.Avatar.Size
	return opts
}

// Rand returns the random source for the configured seed. A zero seed is
// replaced by one drawn from the clock; the seed used is returned.
func (c *Config) Rand() (*rand.Rand, uint64) {
	seed := c.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)), seed
}

// LoadAssets rasterizes the embedded sprite tables
func LoadAssets(avatarSize float64, logger *log.Logger) (engine.Assets, error) {
	markers, err := assets.DragMarkers()
	if err != nil {
		return engine.Assets{}, fmt.Errorf("load drag markers: %w", err)
	}
	markers.SetLogger(logger)

	particles, err := assets.ExplosionParticles()
	if err != nil {
		return engine.Assets{}, fmt.Errorf("load explosion particles: %w", err)
	}
	particles.SetLogger(logger)

	size := int(math.Ceil(avatarSize))
	return engine.Assets{
		Markers:   engine.Sprites{Table: markers, Fallback: assets.Fallback},
		Particles: engine.Sprites{Table: particles, Fallback: assets.Fallback},
		Avatar:    assets.Sprite{Image: assets.PlaceholderImage(size, avatarColor)},
	}, nil
}

// NewStage builds a stage from the configuration
func (c *Config) NewStage(touchCapable bool, logger *log.Logger) (*engine.Stage, uint64, error) {
	if err := c.Validate(); err != nil {
		return nil, 0, fmt.Errorf("invalid config: %w", err)
	}
	a, err := LoadAssets(c.Avatar.Size, logger)
	if err != nil {
		return nil, 0, err
	}
	rng, seed := c.Rand()
	stage, err := engine.NewStage(c.StageOptions(touchCapable), rng, a, logger)
	if err != nil {
		return nil, 0, err
	}
	return stage, seed, nil
}
