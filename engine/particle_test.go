package engine

import (
	"math"
	"testing"

	"skyburst/geom"
)

func TestParticleProjectileMotion(t *testing.T) {
	p := NewParticle(geom.Pt(100, 100), 0, 1000, DefaultGravity, 2)

	pos := p.PositionAt(0.5)
	if math.Abs(pos.X-600) > 1e-9 {
		t.Errorf("expected x 600, got %f", pos.X)
	}
	// 0.5 * 2500 * 0.25
	if math.Abs(pos.Y-(100+312.5)) > 1e-9 {
		t.Errorf("expected y 412.5, got %f", pos.Y)
	}
}

func TestParticleStraightUp(t *testing.T) {
	p := NewParticle(geom.Pt(0, 0), -math.Pi/2, 1000, DefaultGravity, 2)

	// Apex when velocity reaches zero at t = speed/gravity
	apex := p.PositionAt(1000.0 / DefaultGravity)
	if math.Abs(apex.X) > 1e-9 {
		t.Errorf("expected no horizontal drift, got %f", apex.X)
	}
	if apex.Y >= 0 {
		t.Errorf("expected particle above origin at apex, got %f", apex.Y)
	}
}

func TestParticleOpacity(t *testing.T) {
	p := NewParticle(geom.Pt(0, 0), 0, 0, 0, 2)

	if p.OpacityAt(1.0) != 1 {
		t.Error("expected full opacity before fade")
	}
	if math.Abs(p.FadeStart()-1.6) > 1e-12 {
		t.Errorf("expected fade start 1.6, got %f", p.FadeStart())
	}
	if got := p.OpacityAt(1.75); math.Abs(got-0.5) > 1e-9 {
		t.Errorf("expected half opacity mid-fade, got %f", got)
	}
	if p.OpacityAt(p.Lifetime()) != 0 {
		t.Error("expected zero opacity at end of fade")
	}
}

func TestParticleStep(t *testing.T) {
	p := NewParticle(geom.Pt(0, 0), 0, 100, 0, 1.5)
	p.RotationRate = 180

	for p.IsAlive() {
		p.Step(0.1)
	}

	if p.Age < p.Lifetime() {
		t.Errorf("expected age >= lifetime, got %f < %f", p.Age, p.Lifetime())
	}
	if p.Position.X <= 0 {
		t.Error("expected particle to move")
	}
	if math.Abs(p.RotationAt(p.Flight)-180) > 1e-9 {
		t.Errorf("expected full rotation over flight, got %f", p.RotationAt(p.Flight))
	}
}

func TestParticleTrajectory(t *testing.T) {
	p := NewParticle(geom.Pt(10, 10), 1, 800, DefaultGravity, 2)

	var frames []Frame
	for f := range p.Trajectory(1.0 / 60) {
		frames = append(frames, f)
	}

	if len(frames) == 0 {
		t.Fatal("expected frames")
	}
	last := frames[len(frames)-1]
	if math.Abs(last.T-p.Lifetime()) > 1e-9 {
		t.Errorf("expected last frame at lifetime %f, got %f", p.Lifetime(), last.T)
	}
	if last.Opacity != 0 {
		t.Errorf("expected last frame transparent, got %f", last.Opacity)
	}
	for i := 1; i < len(frames); i++ {
		if frames[i].T <= frames[i-1].T {
			t.Fatalf("frames not increasing at %d", i)
		}
	}
	if p.Age != 0 {
		t.Error("trajectory must not mutate the particle")
	}

	// Early break
	n := 0
	for range p.Trajectory(0.1) {
		n++
		if n == 3 {
			break
		}
	}
	if n != 3 {
		t.Errorf("expected to stop after 3 frames, got %d", n)
	}
}

func TestParticleTrajectoryDegenerate(t *testing.T) {
	p := NewParticle(geom.Pt(0, 0), 0, 0, 0, -5)
	n := 0
	for range p.Trajectory(0.1) {
		n++
	}
	if n != 1 {
		t.Errorf("expected a single terminal frame, got %d", n)
	}

	n = 0
	for range p.Trajectory(0) {
		n++
	}
	if n != 0 {
		t.Errorf("expected no frames for zero step, got %d", n)
	}
}
