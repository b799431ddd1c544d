package engine

import (
	"fmt"
	"image/color"
	"log"
	"math"

	"skyburst/geom"
)

// GestureState represents the state of the drag-to-launch state machine
type GestureState int

const (
	GestureIdle GestureState = iota
	GestureDrawing
)

// String returns the state name
func (s GestureState) String() string {
	switch s {
	case GestureIdle:
		return "idle"
	case GestureDrawing:
		return "drawing"
	default:
		return "unknown"
	}
}

// DragSession tracks one press-move-release gesture
type DragSession struct {
	Origin       geom.Point // fixed at press
	Current      geom.Point
	LastDistance float64
}

// GestureOptions holds the gesture tunables
type GestureOptions struct {
	LineInset      float64 // the aiming line stops this many pixels short of the pointer
	LineWidth      float64
	LineColor      color.NRGBA
	MarkerSize     float64
	GlowSize       float64
	GlowColor      color.NRGBA
	RotationBias   float64 // degrees added to the drag angle so the icon's top faces the drag
	SettleDuration float64 // seconds
	TouchIntensity float64 // intensity of a touch-path launch
	Touch          bool    // touch-primary platform: every press launches directly
	ReducedMotion  bool    // no listeners are registered
}

// DefaultGestureOptions returns the standard gesture tuning
func DefaultGestureOptions() GestureOptions {
	return GestureOptions{
		LineInset:      30,
		LineWidth:      3,
		LineColor:      color.NRGBA{R: 255, G: 255, B: 255, A: 200},
		MarkerSize:     48,
		GlowSize:       40,
		GlowColor:      color.NRGBA{R: 255, G: 210, B: 120, A: 90},
		RotationBias:   90,
		SettleDuration: 0.4,
		TouchIntensity: 300,
	}
}

// MarkerScale returns clamp(1, 100, sqrt(distance/100)).
// Growth is sub-linear: doubling the drag does not double the marker.
func MarkerScale(distance float64) float64 {
	if distance <= 0 {
		return 1
	}
	return geom.Clamp(1, 100, math.Sqrt(distance/100))
}

// AimLine returns the aiming line endpoints. The line runs from origin toward
// current and its tip stops inset pixels short of current; below inset it
// collapses to a zero-length segment at origin.
func AimLine(origin, current geom.Point, inset float64) (geom.Point, geom.Point) {
	d := geom.Distance(origin, current)
	if d < inset || d == 0 {
		return origin, origin
	}
	dir := current.Sub(origin).Scale(1 / d)
	return origin, origin.Add(dir.Scale(d - inset))
}

// GestureController turns pointer input into drag sessions, renders the live
// aiming feedback and hands the final drag to a Launcher on release
type GestureController struct {
	sched    *Scheduler
	surface  *Surface
	launcher Launcher
	rng      geom.Rand
	markers  Sprites
	avatar   *CursorAvatar
	opts     GestureOptions
	logger   *log.Logger

	state   GestureState
	session *DragSession

	// Live feedback nodes, nil when not drawing
	line   *Node
	marker *Node
	glow   *Node

	settle  TaskID
	handles []CallbackHandle
	router  *InputRouter
}

// NewGestureController creates a controller. avatar may be nil.
func NewGestureController(sched *Scheduler, surface *Surface, launcher Launcher, rng geom.Rand, markers Sprites, avatar *CursorAvatar, opts GestureOptions) (*GestureController, error) {
	if err := markers.Validate(); err != nil {
		return nil, fmt.Errorf("drag markers: %w", err)
	}
	return &GestureController{
		sched:    sched,
		surface:  surface,
		launcher: launcher,
		rng:      rng,
		markers:  markers,
		avatar:   avatar,
		opts:     opts,
		logger:   log.Default(),
	}, nil
}

// SetLogger replaces the controller logger
func (g *GestureController) SetLogger(l *log.Logger) {
	if l != nil {
		g.logger = l
	}
}

// State returns the current gesture state
func (g *GestureController) State() GestureState {
	return g.state
}

// Drawing reports whether a drag session is active
func (g *GestureController) Drawing() bool {
	return g.state == GestureDrawing
}

// Session returns a copy of the active drag session
func (g *GestureController) Session() (DragSession, bool) {
	if g.session == nil {
		return DragSession{}, false
	}
	return *g.session, true
}

// Attach registers the controller's pointer handlers on r.
// With reduced motion nothing is registered and the gesture path stays inert.
func (g *GestureController) Attach(r *InputRouter) {
	if g.opts.ReducedMotion || g.router != nil {
		return
	}
	g.router = r

	if g.opts.Touch {
		g.handles = append(g.handles, r.On(PointerDown, func(ev PointerEvent) {
			g.TouchPress(ev.Pos)
		}))
		return
	}

	g.handles = append(g.handles,
		r.On(PointerDown, func(ev PointerEvent) {
			if ev.Touch {
				g.TouchPress(ev.Pos)
				return
			}
			g.Press(ev.Pos)
		}),
		r.On(PointerMove, func(ev PointerEvent) {
			g.Move(ev.Pos)
		}),
		r.On(PointerUp, func(ev PointerEvent) {
			g.Release()
		}),
	)
}

// Detach removes the handlers registered by Attach and drops any live feedback
func (g *GestureController) Detach() {
	if g.router == nil {
		return
	}
	for _, h := range g.handles {
		g.router.Off(h)
	}
	g.handles = nil
	g.router = nil
	g.clearFeedback()
	g.session = nil
	g.state = GestureIdle
}

// Press starts a drag session at p. A press while drawing is ignored.
func (g *GestureController) Press(p geom.Point) {
	if g.state == GestureDrawing {
		return
	}

	// A new drag interrupts a pending settle so the hint stays hidden
	g.sched.Cancel(g.settle)
	g.settle = 0

	g.clearFeedback()
	g.session = &DragSession{Origin: p, Current: p}
	g.surface.HintVisible = false
	g.surface.DragIndicatorVisible = true

	hue := geom.Uniform(g.rng, 0, 360)
	sprite := g.markers.resolve(g.rng, hue, g.logger)

	g.glow = g.surface.Add(Node{
		Type:    NodeTypeGlow,
		Layer:   LayerFeedback,
		Pos:     p,
		Size:    g.opts.GlowSize,
		Opacity: 1,
		Color:   g.opts.GlowColor,
		Visible: true,
	})
	g.line = g.surface.Add(Node{
		Type:    NodeTypeLine,
		Layer:   LayerFeedback,
		From:    p,
		To:      p,
		Width:   g.opts.LineWidth,
		Opacity: 1,
		Color:   g.opts.LineColor,
		Visible: true,
	})
	g.marker = g.surface.Add(Node{
		Type:    NodeTypeSprite,
		Layer:   LayerFeedback,
		Pos:     p,
		Size:    g.opts.MarkerSize,
		Opacity: 1,
		Image:   sprite.Image,
		Glyph:   sprite.Glyph,
		Color:   sprite.Color,
		Visible: true,
	})

	g.state = GestureDrawing
}

// Move updates the drag vector and the live feedback
func (g *GestureController) Move(p geom.Point) {
	if g.state != GestureDrawing || g.session == nil {
		return
	}

	s := g.session
	s.Current = p
	delta := p.Sub(s.Origin)
	s.LastDistance = delta.Len()

	from, to := AimLine(s.Origin, p, g.opts.LineInset)
	g.line.From = from
	g.line.To = to

	scale := MarkerScale(s.LastDistance)
	g.marker.Scale = scale
	g.glow.Scale = scale

	if s.LastDistance > 0 {
		rotation := math.Atan2(delta.Y, delta.X)*180/math.Pi + g.opts.RotationBias
		g.marker.Rotation = rotation
		if g.avatar != nil {
			g.avatar.SetRotation(rotation)
		}
	}
}

// Release launches an explosion at the session origin with the last drag distance,
// clears the feedback and plays the settle animation
func (g *GestureController) Release() {
	if g.state != GestureDrawing || g.session == nil {
		return
	}

	origin := g.session.Origin
	intensity := g.session.LastDistance

	g.launcher.Launch(origin, intensity)

	g.clearFeedback()
	g.surface.DragIndicatorVisible = false
	g.session = nil
	g.state = GestureIdle

	g.startSettle()
}

// TouchPress launches directly at p with the fixed touch intensity
func (g *GestureController) TouchPress(p geom.Point) {
	g.launcher.Launch(p, g.opts.TouchIntensity)
}

// startSettle eases the avatar back to rest, then restores the hint
func (g *GestureController) startSettle() {
	duration := g.opts.SettleDuration
	startRotation := 0.0
	if g.avatar != nil {
		startRotation = g.avatar.Rotation()
	}

	elapsed := 0.0
	g.settle = g.sched.EveryFrame(func(dt float64) bool {
		elapsed += dt
		progress := 1.0
		if duration > 0 {
			progress = geom.Clamp(0, 1, elapsed/duration)
		}
		if g.avatar != nil {
			g.avatar.SetRotation(startRotation * (1 - easeOutCubic(progress)))
		}
		if progress < 1 {
			return true
		}
		g.surface.HintVisible = true
		g.settle = 0
		return false
	})
}

// clearFeedback removes the aiming line, marker and glow. Safe to call repeatedly.
func (g *GestureController) clearFeedback() {
	for _, n := range []**Node{&g.line, &g.marker, &g.glow} {
		if *n != nil {
			g.surface.Remove((*n).ID)
			*n = nil
		}
	}
}

func easeOutCubic(t float64) float64 {
	u := 1 - t
	return 1 - u*u*u
}
