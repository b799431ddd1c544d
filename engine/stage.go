package engine

import (
	"fmt"
	"log"

	"skyburst/assets"
	"skyburst/geom"
)

// Options configures every component of a Stage
type Options struct {
	Width  float64
	Height float64

	// ReducedMotion keeps gestures, avatar and autonomous show inert
	ReducedMotion bool
	// Touch selects the simplified press-to-launch gesture path
	Touch bool

	Explosion ExplosionOptions
	Gesture   GestureOptions
	Avatar    AvatarOptions
	AutoFire  AutoFireOptions
}

// DefaultOptions returns the standard tuning for a width x height viewport
func DefaultOptions(width, height float64) Options {
	return Options{
		Width:     width,
		Height:    height,
		Explosion: DefaultExplosionOptions(),
		Gesture:   DefaultGestureOptions(),
		Avatar:    DefaultAvatarOptions(),
		AutoFire:  DefaultAutoFireOptions(),
	}
}

// Assets groups the sprite collaborators of a Stage
type Assets struct {
	Markers   Sprites
	Particles Sprites
	Avatar    assets.Sprite
}

// Stage owns one independent engine instance: its scheduler, surface, input
// router and the components wired to them. Several stages can coexist.
type Stage struct {
	Scheduler  *Scheduler
	Surface    *Surface
	Input      *InputRouter
	Explosions *ExplosionEngine
	Gestures   *GestureController
	Avatar     *CursorAvatar
	AutoFire   *AutoFireworkScheduler
}

// NewStage builds and wires a stage. It fails fast on empty asset tables.
func NewStage(opts Options, rng geom.Rand, a Assets, logger *log.Logger) (*Stage, error) {
	if logger == nil {
		logger = log.Default()
	}

	sched := NewScheduler()
	surface := NewSurface(opts.Width, opts.Height)
	input := NewInputRouter()

	explosions, err := NewExplosionEngine(sched, surface, rng, a.Particles, opts.Explosion)
	if err != nil {
		return nil, fmt.Errorf("new stage: %w", err)
	}
	explosions.SetLogger(logger)

	avatarOpts := opts.Avatar
	avatarOpts.ReducedMotion = avatarOpts.ReducedMotion || opts.ReducedMotion
	avatar := NewCursorAvatar(sched, surface, a.Avatar, avatarOpts)

	gestureOpts := opts.Gesture
	gestureOpts.ReducedMotion = gestureOpts.ReducedMotion || opts.ReducedMotion
	gestureOpts.Touch = gestureOpts.Touch || opts.Touch
	gestures, err := NewGestureController(sched, surface, explosions, rng, a.Markers, avatar, gestureOpts)
	if err != nil {
		return nil, fmt.Errorf("new stage: %w", err)
	}
	gestures.SetLogger(logger)

	autoOpts := opts.AutoFire
	autoOpts.ReducedMotion = autoOpts.ReducedMotion || opts.ReducedMotion
	autoFire := NewAutoFireworkScheduler(sched, surface, explosions, rng, gestures.Drawing, autoOpts)

	return &Stage{
		Scheduler:  sched,
		Surface:    surface,
		Input:      input,
		Explosions: explosions,
		Gestures:   gestures,
		Avatar:     avatar,
		AutoFire:   autoFire,
	}, nil
}

// Start attaches input handlers and starts the autonomous show
func (s *Stage) Start() {
	s.Gestures.Attach(s.Input)
	// The avatar registers after the gesture controller so a move rotates it before it follows
	s.Avatar.Attach(s.Input)
	s.AutoFire.Start()
}

// Update advances the stage by dt seconds
func (s *Stage) Update(dt float64) {
	s.Scheduler.Advance(dt)
}

// Close stops the show and tears the surface down. In-flight particle
// callbacks become no-ops.
func (s *Stage) Close() {
	s.AutoFire.Stop()
	s.Gestures.Detach()
	s.Avatar.Detach()
	s.Surface.Close()
	s.Scheduler.Close()
}
