package engine

import (
	"bytes"
	"errors"
	"log"
	"math"
	"strings"
	"testing"

	"skyburst/geom"
)

func TestParticleCount(t *testing.T) {
	tests := []struct {
		intensity float64
		expected  int
	}{
		{0, 5},
		{-100, 5},
		{75, 5},
		{225, 15},
		{500, 33},
		{2250, 150},
		{3000, 150},
	}

	for _, tt := range tests {
		if got := ParticleCount(tt.intensity); got != tt.expected {
			t.Errorf("intensity %.0f: expected %d, got %d", tt.intensity, tt.expected, got)
		}
	}

	for i := 0.0; i <= 500; i += 0.5 {
		expected := int(math.Round(geom.Clamp(5, 150, i/15)))
		if got := ParticleCount(i); got != expected {
			t.Fatalf("intensity %.1f: expected %d, got %d", i, expected, got)
		}
	}
}

func TestScalingMonotonic(t *testing.T) {
	prevSpeed := math.Inf(-1)
	prevSize := math.Inf(-1)
	for i := -200.0; i <= 2000; i += 7 {
		speed := SpeedScale(i)
		size := SizeUpperBound(i)
		if speed < prevSpeed {
			t.Fatalf("speed scale decreased at %.0f", i)
		}
		if size < prevSize {
			t.Fatalf("size bound decreased at %.0f", i)
		}
		prevSpeed, prevSize = speed, size
	}

	if SpeedScale(0) != 0.3 || SpeedScale(500) != 1.5 {
		t.Errorf("expected speed scale endpoints 0.3/1.5, got %f/%f", SpeedScale(0), SpeedScale(500))
	}
	if SizeUpperBound(0) != 15 || SizeUpperBound(500) != 80 {
		t.Errorf("expected size endpoints 15/80, got %f/%f", SizeUpperBound(0), SizeUpperBound(500))
	}
}

func TestExplosionEngineRequiresAssets(t *testing.T) {
	sched := NewScheduler()
	surface := NewSurface(800, 600)

	_, err := NewExplosionEngine(sched, surface, newTestRand(), testSprites(), DefaultExplosionOptions())
	if !errors.Is(err, ErrEmptyCatalog) {
		t.Errorf("expected ErrEmptyCatalog, got %v", err)
	}
	if !errors.Is(err, geom.ErrEmptyCollection) {
		t.Errorf("expected error to wrap ErrEmptyCollection, got %v", err)
	}

	_, err = NewExplosionEngine(sched, surface, newTestRand(), Sprites{Table: &testTable{keys: []string{"a"}}}, DefaultExplosionOptions())
	if !errors.Is(err, ErrNoFallback) {
		t.Errorf("expected ErrNoFallback, got %v", err)
	}
}

func TestLaunchSpawnsBatch(t *testing.T) {
	sched := NewScheduler()
	surface := NewSurface(800, 600)
	e, err := NewExplosionEngine(sched, surface, newTestRand(), testSprites("a", "b"), DefaultExplosionOptions())
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	origin := geom.Pt(400, 300)
	e.Launch(origin, 225)

	if got := surface.CountLayer(LayerParticle); got != 15 {
		t.Fatalf("expected 15 particle nodes, got %d", got)
	}
	if e.ActiveParticles() != 15 {
		t.Errorf("expected 15 active particles, got %d", e.ActiveParticles())
	}
	if e.Launched() != 1 {
		t.Errorf("expected 1 launch, got %d", e.Launched())
	}

	upper := SizeUpperBound(225)
	for _, n := range surface.Nodes() {
		if n.Pos != origin {
			t.Errorf("expected spawn at origin, got %v", n.Pos)
		}
		if n.Size < 15 || n.Size > upper {
			t.Errorf("size %f outside [15, %f]", n.Size, upper)
		}
		if n.Hue < 0 || n.Hue >= 360 {
			t.Errorf("hue %f outside [0, 360)", n.Hue)
		}
		if n.Image == nil {
			t.Error("expected image sprite")
		}
	}
}

func TestParticlesRemovedWithinLifetime(t *testing.T) {
	intensities := []float64{0, 225, 500, -1000, 5000}

	for _, intensity := range intensities {
		sched := NewScheduler()
		surface := NewSurface(800, 600)
		e, err := NewExplosionEngine(sched, surface, newTestRand(), testSprites("a"), DefaultExplosionOptions())
		if err != nil {
			t.Fatalf("new engine: %v", err)
		}

		e.Launch(geom.Pt(100, 100), intensity)
		if surface.Len() == 0 {
			t.Fatalf("intensity %.0f: expected particles", intensity)
		}

		// Longest flight is 2.5s, so every node is gone by 2.5 + 0.3
		run(sched, 2.8+1.0/60, 1.0/60)

		if surface.Len() != 0 {
			t.Errorf("intensity %.0f: expected all nodes removed, %d left", intensity, surface.Len())
		}
		if e.ActiveParticles() != 0 {
			t.Errorf("intensity %.0f: expected no active particles, got %d", intensity, e.ActiveParticles())
		}
		if sched.Pending() != 0 {
			t.Errorf("intensity %.0f: expected no pending callbacks, got %d", intensity, sched.Pending())
		}
	}
}

func TestParticleFadesBeforeRemoval(t *testing.T) {
	sched := NewScheduler()
	surface := NewSurface(800, 600)
	e, _ := NewExplosionEngine(sched, surface, newTestRand(), testSprites("a"), DefaultExplosionOptions())

	e.Launch(geom.Pt(0, 0), 0)
	run(sched, 1.0, 0.1)
	for _, n := range surface.Nodes() {
		if n.Opacity != 1 {
			t.Errorf("expected full opacity before 1.2s, got %f", n.Opacity)
		}
	}

	tracked := surface.Nodes()
	last := make(map[NodeID]float64, len(tracked))
	for _, n := range tracked {
		last[n.ID] = 1
	}

	for i := 0; i < 60 && surface.Len() > 0; i++ {
		sched.Advance(0.05)
		for _, n := range tracked {
			if _, ok := surface.Get(n.ID); !ok {
				continue
			}
			if n.Opacity > last[n.ID] {
				t.Fatalf("opacity increased for node %d", n.ID)
			}
			last[n.ID] = n.Opacity
		}
	}

	for id, opacity := range last {
		if opacity >= 1 {
			t.Errorf("node %d removed without fading", id)
		}
	}
}

func TestMissingParticleAssetUsesFallback(t *testing.T) {
	var buf bytes.Buffer
	sched := NewScheduler()
	surface := NewSurface(800, 600)
	e, err := NewExplosionEngine(sched, surface, newTestRand(), missingSprites("gone"), DefaultExplosionOptions())
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	e.SetLogger(log.New(&buf, "", 0))

	e.Launch(geom.Pt(10, 10), 0)

	if surface.Len() != 5 {
		t.Fatalf("expected 5 particles, got %d", surface.Len())
	}
	for _, n := range surface.Nodes() {
		if n.Image != nil || n.Glyph == "" {
			t.Errorf("expected fallback glyph node, got %+v", n)
		}
		if n.Color.A == 0 {
			t.Error("expected fallback glyph colour")
		}
	}
	if !strings.Contains(buf.String(), "fallback") {
		t.Errorf("expected fallback to be logged, got %q", buf.String())
	}
}

func TestRemovalAfterSurfaceTeardown(t *testing.T) {
	sched := NewScheduler()
	surface := NewSurface(800, 600)
	e, _ := NewExplosionEngine(sched, surface, newTestRand(), testSprites("a"), DefaultExplosionOptions())

	e.Launch(geom.Pt(0, 0), 300)
	run(sched, 0.5, 0.1)
	surface.Close()

	// Callbacks keep firing against the closed surface without panicking
	run(sched, 3, 0.1)

	if e.ActiveParticles() != 0 {
		t.Errorf("expected every removal callback to run, %d active", e.ActiveParticles())
	}
	if surface.Len() != 0 {
		t.Errorf("expected empty closed surface, got %d", surface.Len())
	}
}

func TestLaunchDeterministicWithSeed(t *testing.T) {
	positions := func() []geom.Point {
		sched := NewScheduler()
		surface := NewSurface(800, 600)
		e, _ := NewExplosionEngine(sched, surface, newTestRand(), testSprites("a", "b"), DefaultExplosionOptions())
		e.Launch(geom.Pt(0, 0), 400)
		run(sched, 0.5, 0.1)
		var out []geom.Point
		for _, n := range surface.Nodes() {
			out = append(out, n.Pos)
		}
		return out
	}

	a := positions()
	b := positions()
	if len(a) != len(b) {
		t.Fatalf("expected equal batch sizes, got %d and %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("expected identical runs with the same seed, differ at %d", i)
		}
	}
}

func TestClampIntensityOption(t *testing.T) {
	opts := DefaultExplosionOptions()
	opts.ClampIntensity = true

	sched := NewScheduler()
	surface := NewSurface(800, 600)
	e, _ := NewExplosionEngine(sched, surface, newTestRand(), testSprites("a"), opts)

	e.Launch(geom.Pt(0, 0), 5000)
	if got := surface.Len(); got != ParticleCount(500) {
		t.Errorf("expected clamped count %d, got %d", ParticleCount(500), got)
	}
	for _, n := range surface.Nodes() {
		if n.Size > SizeUpperBound(500) {
			t.Errorf("size %f above clamped bound", n.Size)
		}
	}
}

func TestLaunchFromTimerLeavesNoBookkeeping(t *testing.T) {
	sched := NewScheduler()
	surface := NewSurface(800, 600)
	e, err := NewExplosionEngine(sched, surface, newTestRand(), testSprites("a"), DefaultExplosionOptions())
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	for i := 0; i < 20; i++ {
		sched.After(0.1*float64(i), func() { e.Launch(geom.Pt(400, 300), 300) })
	}
	run(sched, 12, 1.0/60)

	if e.Launched() != 20 {
		t.Fatalf("expected 20 launches, got %d", e.Launched())
	}
	if surface.Len() != 0 || e.ActiveParticles() != 0 || sched.Pending() != 0 {
		t.Errorf("expected a drained engine, surface %d active %d pending %d",
			surface.Len(), e.ActiveParticles(), sched.Pending())
	}
	if len(sched.cancelled) != 0 {
		t.Errorf("expected no cancellation records, got %d", len(sched.cancelled))
	}
}
