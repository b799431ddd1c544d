package engine

import "skyburst/geom"

// AutoFireOptions holds the autonomous firework tunables
type AutoFireOptions struct {
	Enabled         bool
	InitialDelay    float64 // seconds before the opening burst
	CenterIntensity float64 // intensity of the opening burst
	LoopDelay       float64 // seconds after activation before the random loop starts
	IntensityMin    float64
	IntensityMax    float64
	IntervalMin     float64 // seconds between loop ticks
	IntervalMax     float64
	Margin          float64 // pixels kept clear at each viewport edge
	ReducedMotion   bool
}

// DefaultAutoFireOptions returns the standard autonomous show
func DefaultAutoFireOptions() AutoFireOptions {
	return AutoFireOptions{
		Enabled:         true,
		InitialDelay:    0.5,
		CenterIntensity: 500,
		LoopDelay:       2.0,
		IntensityMin:    100,
		IntensityMax:    600,
		IntervalMin:     0.8,
		IntervalMax:     2.0,
		Margin:          100,
	}
}

// AutoFireworkScheduler launches explosions on its own at random positions and
// intervals. A tick is skipped, but still rescheduled, while suppressed reports true.
type AutoFireworkScheduler struct {
	sched      *Scheduler
	surface    *Surface
	launcher   Launcher
	rng        geom.Rand
	suppressed func() bool
	opts       AutoFireOptions

	opening TaskID
	next    TaskID
	running bool

	ticks   int
	skipped int
	fired   int
}

// NewAutoFireworkScheduler creates a stopped scheduler. suppressed may be nil.
func NewAutoFireworkScheduler(sched *Scheduler, surface *Surface, launcher Launcher, rng geom.Rand, suppressed func() bool, opts AutoFireOptions) *AutoFireworkScheduler {
	if suppressed == nil {
		suppressed = func() bool { return false }
	}
	return &AutoFireworkScheduler{
		sched:      sched,
		surface:    surface,
		launcher:   launcher,
		rng:        rng,
		suppressed: suppressed,
		opts:       opts,
	}
}

// Start schedules the opening burst and the loop. It is a no-op when disabled,
// with reduced motion, or when already running.
func (a *AutoFireworkScheduler) Start() {
	if a.running || !a.opts.Enabled || a.opts.ReducedMotion {
		return
	}
	a.running = true

	a.opening = a.sched.After(a.opts.InitialDelay, func() {
		a.opening = 0
		a.launcher.Launch(a.surface.Center(), a.opts.CenterIntensity)
		a.fired++
	})
	a.next = a.sched.After(a.opts.LoopDelay, a.tick)
}

// Stop cancels every pending timer
func (a *AutoFireworkScheduler) Stop() {
	a.sched.Cancel(a.opening)
	a.sched.Cancel(a.next)
	a.opening = 0
	a.next = 0
	a.running = false
}

// Running reports whether the loop is active
func (a *AutoFireworkScheduler) Running() bool {
	return a.running
}

// Ticks returns the number of loop iterations so far
func (a *AutoFireworkScheduler) Ticks() int {
	return a.ticks
}

// Skipped returns the number of loop iterations suppressed by an active drag
func (a *AutoFireworkScheduler) Skipped() int {
	return a.skipped
}

// Fired returns the number of explosions launched, opening burst included
func (a *AutoFireworkScheduler) Fired() int {
	return a.fired
}

// tick runs one loop iteration and always schedules the next
func (a *AutoFireworkScheduler) tick() {
	if !a.running {
		return
	}
	a.ticks++

	if a.suppressed() {
		a.skipped++
	} else {
		a.launcher.Launch(a.randomPoint(), geom.Uniform(a.rng, a.opts.IntensityMin, a.opts.IntensityMax))
		a.fired++
	}

	a.next = a.sched.After(geom.Uniform(a.rng, a.opts.IntervalMin, a.opts.IntervalMax), a.tick)
}

// randomPoint returns a uniform point inside the viewport minus the margin
func (a *AutoFireworkScheduler) randomPoint() geom.Point {
	w, h := a.surface.Size()
	m := a.opts.Margin
	p := a.surface.Center()
	if w > 2*m {
		p.X = geom.Uniform(a.rng, m, w-m)
	}
	if h > 2*m {
		p.Y = geom.Uniform(a.rng, m, h-m)
	}
	return p
}
