package engine

import (
	"iter"
	"math"

	"skyburst/geom"
)

// Particle timing constants
const (
	// DefaultGravity is the downward acceleration in pixels per second^2
	DefaultGravity = 2500.0
	// FadeStartRatio is the fraction of the flight after which the fade begins
	FadeStartRatio = 0.8
	// FadeDuration is the length of the fade to zero opacity in seconds
	FadeDuration = 0.3
)

// Particle represents a single spark of an explosion batch
type Particle struct {
	Origin   geom.Point
	Position geom.Point

	VelocityAngle float64 // radians, fixed at spawn
	Speed         float64 // pixels per second
	Gravity       float64 // pixels per second^2

	Rotation     float64 // degrees
	RotationRate float64 // degrees over the whole flight

	Size        float64
	ColorFilter float64 // hue rotation in degrees

	Age    float64 // seconds since spawn
	Flight float64 // duration of the motion phase in seconds
}

// Frame is one sample of a particle trajectory
type Frame struct {
	T        float64
	Position geom.Point
	Rotation float64
	Opacity  float64
}

// NewParticle creates a particle at origin with the given launch vector
func NewParticle(origin geom.Point, angle, speed, gravity, flight float64) *Particle {
	return &Particle{
		Origin:        origin,
		Position:      origin,
		VelocityAngle: angle,
		Speed:         speed,
		Gravity:       gravity,
		Flight:        flight,
	}
}

// FadeStart returns the age at which the fade begins
func (p *Particle) FadeStart() float64 {
	return FadeStartRatio * p.Flight
}

// Lifetime returns the age at which the particle is destroyed (end of fade)
func (p *Particle) Lifetime() float64 {
	return p.FadeStart() + FadeDuration
}

// IsAlive returns true if the particle has not reached the end of its fade
func (p *Particle) IsAlive() bool {
	return p.Age < p.Lifetime()
}

// PositionAt returns the projectile position t seconds after spawn:
// origin + (cos a, sin a) * speed * t + (0, gravity * t^2 / 2)
func (p *Particle) PositionAt(t float64) geom.Point {
	return geom.Point{
		X: p.Origin.X + math.Cos(p.VelocityAngle)*p.Speed*t,
		Y: p.Origin.Y + math.Sin(p.VelocityAngle)*p.Speed*t + 0.5*p.Gravity*t*t,
	}
}

// RotationAt returns the cosmetic spin in degrees at time t
func (p *Particle) RotationAt(t float64) float64 {
	if p.Flight <= 0 {
		return 0
	}
	return p.RotationRate * t / p.Flight
}

// OpacityAt returns 1 until the fade starts, then falls linearly to 0 over FadeDuration
func (p *Particle) OpacityAt(t float64) float64 {
	if t >= p.Lifetime() {
		return 0
	}
	fadeT := t - p.FadeStart()
	if fadeT <= 0 {
		return 1
	}
	return geom.Clamp(0, 1, 1-fadeT/FadeDuration)
}

// FrameAt samples the particle at time t without mutating it
func (p *Particle) FrameAt(t float64) Frame {
	return Frame{
		T:        t,
		Position: p.PositionAt(t),
		Rotation: p.RotationAt(t),
		Opacity:  p.OpacityAt(t),
	}
}

// Step advances the particle by dt seconds and returns the new frame
func (p *Particle) Step(dt float64) Frame {
	p.Age += dt
	f := p.FrameAt(p.Age)
	p.Position = f.Position
	p.Rotation = f.Rotation
	return f
}

// Trajectory lazily yields one frame every dt seconds, starting at dt, until
// the particle expires. The last frame is clamped to the lifetime and has zero opacity.
// It samples the launch vector only; the particle itself is not mutated.
func (p *Particle) Trajectory(dt float64) iter.Seq[Frame] {
	return func(yield func(Frame) bool) {
		if dt <= 0 {
			return
		}
		end := p.Lifetime()
		for i := 1; ; i++ {
			t := float64(i) * dt
			if t >= end {
				yield(p.FrameAt(end))
				return
			}
			if !yield(p.FrameAt(t)) {
				return
			}
		}
	}
}
