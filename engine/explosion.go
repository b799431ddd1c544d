package engine

import (
	"errors"
	"fmt"
	"image"
	"log"
	"math"

	"skyburst/assets"
	"skyburst/geom"
)

// ErrEmptyCatalog is returned when an asset table has no entries
var ErrEmptyCatalog = fmt.Errorf("engine: empty asset table: %w", geom.ErrEmptyCollection)

// ErrNoFallback is returned when an asset table is configured without a fallback constructor
var ErrNoFallback = errors.New("engine: asset table has no fallback constructor")

// Intensity mapping bounds
const (
	IntensityMin = 0.0
	IntensityMax = 500.0
)

// SpriteTable is a keyed lookup table of visual assets
type SpriteTable interface {
	Keys() []string
	Lookup(key string) (image.Image, bool)
}

// FallbackFunc synthesises a sprite when an asset fails to resolve
type FallbackFunc func(hue float64) assets.Sprite

// Sprites pairs an asset table with its required fallback constructor
type Sprites struct {
	Table    SpriteTable
	Fallback FallbackFunc
}

// Validate checks the table is usable
func (s Sprites) Validate() error {
	if s.Table == nil || len(s.Table.Keys()) == 0 {
		return ErrEmptyCatalog
	}
	if s.Fallback == nil {
		return ErrNoFallback
	}
	return nil
}

// resolve picks a random key and returns its sprite, or the fallback if it does not resolve
func (s Sprites) resolve(rng geom.Rand, hue float64, logger *log.Logger) assets.Sprite {
	key, err := geom.PickRandom(rng, s.Table.Keys())
	if err != nil {
		logger.Printf("engine: pick sprite: %v", err)
		return s.Fallback(hue)
	}
	img, ok := s.Table.Lookup(key)
	if !ok {
		logger.Printf("engine: sprite %q unavailable, using fallback", key)
		return s.Fallback(hue)
	}
	return assets.Sprite{Image: img}
}

// Launcher starts an explosion. Implementations are fire-and-forget.
type Launcher interface {
	Launch(origin geom.Point, intensity float64)
}

// ExplosionOptions holds the tunables of an explosion batch
type ExplosionOptions struct {
	Gravity float64

	MinParticles         float64
	MaxParticles         float64
	IntensityPerParticle float64

	SpeedMin    float64
	SpeedMax    float64
	LifetimeMin float64
	LifetimeMax float64

	// ClampIntensity clamps intensity into [IntensityMin, IntensityMax] before mapping
	ClampIntensity bool
}

// DefaultExplosionOptions returns the standard explosion tuning
func DefaultExplosionOptions() ExplosionOptions {
	return ExplosionOptions{
		Gravity:              DefaultGravity,
		MinParticles:         5,
		MaxParticles:         150,
		IntensityPerParticle: 15,
		SpeedMin:             500,
		SpeedMax:             2000,
		LifetimeMin:          1.5,
		LifetimeMax:          2.5,
	}
}

// ParticleCount returns round(clamp(5, 150, intensity/15))
func ParticleCount(intensity float64) int {
	o := DefaultExplosionOptions()
	return o.ParticleCount(intensity)
}

// ParticleCount returns the number of particles spawned for intensity
func (o ExplosionOptions) ParticleCount(intensity float64) int {
	per := o.IntensityPerParticle
	if per <= 0 {
		per = 1
	}
	return int(math.Round(geom.Clamp(o.MinParticles, o.MaxParticles, intensity/per)))
}

// SpeedScale maps intensity [0, 500] onto a speed multiplier [0.3, 1.5]
func SpeedScale(intensity float64) float64 {
	return geom.MapRange(IntensityMin, IntensityMax, 0.3, 1.5, intensity)
}

// SizeUpperBound maps intensity [0, 500] onto the largest particle size [15, 80]
func SizeUpperBound(intensity float64) float64 {
	return geom.MapRange(IntensityMin, IntensityMax, 15, 80, intensity)
}

// ExplosionEngine spawns explosion batches and drives each particle until it
// fades out and removes itself from the surface
type ExplosionEngine struct {
	sched   *Scheduler
	surface *Surface
	rng     geom.Rand
	sprites Sprites
	opts    ExplosionOptions
	logger  *log.Logger

	launched int
	active   int
}

// NewExplosionEngine creates an explosion engine. It fails if the particle table is
// empty or has no fallback.
func NewExplosionEngine(sched *Scheduler, surface *Surface, rng geom.Rand, sprites Sprites, opts ExplosionOptions) (*ExplosionEngine, error) {
	if err := sprites.Validate(); err != nil {
		return nil, fmt.Errorf("explosion particles: %w", err)
	}
	return &ExplosionEngine{
		sched:   sched,
		surface: surface,
		rng:     rng,
		sprites: sprites,
		opts:    opts,
		logger:  log.Default(),
	}, nil
}

// SetLogger replaces the engine logger
func (e *ExplosionEngine) SetLogger(l *log.Logger) {
	if l != nil {
		e.logger = l
	}
}

// Launched returns the number of explosions started so far
func (e *ExplosionEngine) Launched() int {
	return e.launched
}

// ActiveParticles returns the number of particles still in flight
func (e *ExplosionEngine) ActiveParticles() int {
	return e.active
}

// Launch spawns one explosion batch at origin. It returns immediately; the batch
// cannot be cancelled and every particle removes itself when its fade completes.
func (e *ExplosionEngine) Launch(origin geom.Point, intensity float64) {
	if e.opts.ClampIntensity {
		intensity = geom.Clamp(IntensityMin, IntensityMax, intensity)
	}

	count := e.opts.ParticleCount(intensity)
	speedScale := SpeedScale(intensity)
	sizeUpper := SizeUpperBound(intensity)

	for i := 0; i < count; i++ {
		e.spawn(origin, speedScale, sizeUpper)
	}
	e.launched++
}

// spawn creates one particle with independently randomised parameters
func (e *ExplosionEngine) spawn(origin geom.Point, speedScale, sizeUpper float64) {
	angle := geom.Uniform(e.rng, 0, 2*math.Pi)
	speed := geom.Uniform(e.rng, e.opts.SpeedMin, e.opts.SpeedMax) * speedScale
	flight := geom.Uniform(e.rng, e.opts.LifetimeMin, e.opts.LifetimeMax)

	p := NewParticle(origin, angle, speed, e.opts.Gravity, flight)
	p.Size = geom.Uniform(e.rng, 15, sizeUpper)
	p.RotationRate = geom.Uniform(e.rng, -360, 360)
	p.ColorFilter = geom.Uniform(e.rng, 0, 360)

	sprite := e.sprites.resolve(e.rng, p.ColorFilter, e.logger)
	node := e.surface.Add(Node{
		Type:    NodeTypeSprite,
		Layer:   LayerParticle,
		Pos:     origin,
		Size:    p.Size,
		Opacity: 1,
		Hue:     p.ColorFilter,
		Image:   sprite.Image,
		Glyph:   sprite.Glyph,
		Color:   sprite.Color,
		Visible: true,
	})
	e.active++

	motion := e.sched.EveryFrame(func(dt float64) bool {
		f := p.Step(dt)
		node.Pos = f.Position
		node.Rotation = f.Rotation
		node.Opacity = f.Opacity
		return p.IsAlive()
	})

	// Removal is a timer so it fires even if the motion callback stops early
	e.sched.After(p.Lifetime(), func() {
		e.sched.Cancel(motion)
		e.surface.Remove(node.ID)
		e.active--
	})
}
