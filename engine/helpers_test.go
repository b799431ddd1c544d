package engine

import (
	"image"
	"image/color"
	"math/rand/v2"

	"skyburst/assets"
	"skyburst/geom"
)

type testTable struct {
	keys    []string
	missing map[string]bool
}

func (t *testTable) Keys() []string { return t.keys }

func (t *testTable) Lookup(key string) (image.Image, bool) {
	if t.missing[key] {
		return nil, false
	}
	return image.NewRGBA(image.Rect(0, 0, 4, 4)), true
}

func testSprites(keys ...string) Sprites {
	return Sprites{
		Table:    &testTable{keys: keys, missing: map[string]bool{}},
		Fallback: assets.Fallback,
	}
}

func missingSprites(keys ...string) Sprites {
	missing := make(map[string]bool, len(keys))
	for _, k := range keys {
		missing[k] = true
	}
	return Sprites{
		Table:    &testTable{keys: keys, missing: missing},
		Fallback: assets.Fallback,
	}
}

type launch struct {
	origin    geom.Point
	intensity float64
}

type recordingLauncher struct {
	launches []launch
}

func (r *recordingLauncher) Launch(origin geom.Point, intensity float64) {
	r.launches = append(r.launches, launch{origin, intensity})
}

func newTestRand() *rand.Rand {
	return rand.New(rand.NewPCG(42, 1024))
}

func newTestStage(opts Options) (*Stage, error) {
	return NewStage(opts, newTestRand(), Assets{
		Markers:   testSprites("rocket"),
		Particles: testSprites("round", "star"),
		Avatar:    assets.Sprite{Glyph: "o", Color: color.NRGBA{A: 255}},
	}, nil)
}

// run advances sched in fixed frames for the given number of seconds
func run(sched *Scheduler, seconds, dt float64) {
	for t := 0.0; t < seconds; t += dt {
		sched.Advance(dt)
	}
}
