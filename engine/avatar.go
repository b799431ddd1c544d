package engine

import (
	"github.com/charmbracelet/harmonica"

	"skyburst/assets"
	"skyburst/geom"
)

// AvatarOptions holds the cursor avatar tunables
type AvatarOptions struct {
	Frequency     float64 // spring angular frequency; higher follows tighter
	Damping       float64 // 1 is critically damped
	Size          float64
	ReducedMotion bool
}

// DefaultAvatarOptions returns a critically damped follower with a short time constant
func DefaultAvatarOptions() AvatarOptions {
	return AvatarOptions{
		Frequency: 18,
		Damping:   1.0,
		Size:      28,
	}
}

// CursorAvatar is an on-screen marker trailing the raw pointer through a damped spring
type CursorAvatar struct {
	sched   *Scheduler
	surface *Surface
	sprite  assets.Sprite
	opts    AvatarOptions

	node     *Node
	pos      geom.Point
	vel      geom.Point
	target   geom.Point
	rotation float64
	visible  bool

	task    TaskID
	router  *InputRouter
	handles []CallbackHandle
}

// NewCursorAvatar creates a hidden avatar drawn with sprite
func NewCursorAvatar(sched *Scheduler, surface *Surface, sprite assets.Sprite, opts AvatarOptions) *CursorAvatar {
	return &CursorAvatar{
		sched:   sched,
		surface: surface,
		sprite:  sprite,
		opts:    opts,
	}
}

// Attach follows pointer events from r and starts the per-frame follower.
// With reduced motion the avatar stays inert.
func (a *CursorAvatar) Attach(r *InputRouter) {
	if a.opts.ReducedMotion || a.router != nil {
		return
	}
	a.router = r
	a.handles = append(a.handles,
		r.On(PointerEnter, func(ev PointerEvent) { a.Show(ev.Pos) }),
		r.On(PointerLeave, func(ev PointerEvent) { a.Hide() }),
		r.On(PointerMove, func(ev PointerEvent) { a.SetTarget(ev.Pos) }),
		r.On(PointerDown, func(ev PointerEvent) { a.SetTarget(ev.Pos) }),
	)

	a.task = a.sched.EveryFrame(func(dt float64) bool {
		a.step(dt)
		return true
	})
}

// Detach removes the handlers registered by Attach, stops the follower and hides the avatar
func (a *CursorAvatar) Detach() {
	if a.router == nil {
		return
	}
	for _, h := range a.handles {
		a.router.Off(h)
	}
	a.handles = nil
	a.router = nil
	a.sched.Cancel(a.task)
	a.task = 0
	a.Hide()
}

// Show makes the avatar visible, snapping it to p if it was hidden
func (a *CursorAvatar) Show(p geom.Point) {
	if !a.visible {
		a.pos = p
		a.vel = geom.Point{}
	}
	a.target = p
	a.visible = true

	if a.node == nil {
		a.node = a.surface.Add(Node{
			Type:    NodeTypeSprite,
			Layer:   LayerAvatar,
			Size:    a.opts.Size,
			Opacity: 1,
			Image:   a.sprite.Image,
			Glyph:   a.sprite.Glyph,
			Color:   a.sprite.Color,
		})
	}
	a.sync()
}

// Hide makes the avatar invisible
func (a *CursorAvatar) Hide() {
	a.visible = false
	a.sync()
}

// SetTarget sets the raw pointer position the avatar follows
func (a *CursorAvatar) SetTarget(p geom.Point) {
	a.target = p
}

// SetRotation sets the avatar heading in degrees
func (a *CursorAvatar) SetRotation(deg float64) {
	a.rotation = deg
	a.sync()
}

// Rotation returns the avatar heading in degrees
func (a *CursorAvatar) Rotation() float64 {
	return a.rotation
}

// Position returns the smoothed avatar position
func (a *CursorAvatar) Position() geom.Point {
	return a.pos
}

// Visible reports whether the avatar is shown
func (a *CursorAvatar) Visible() bool {
	return a.visible
}

// step advances the spring toward the target by dt seconds
func (a *CursorAvatar) step(dt float64) {
	if dt <= 0 {
		return
	}
	spring := harmonica.NewSpring(dt, a.opts.Frequency, a.opts.Damping)
	a.pos.X, a.vel.X = spring.Update(a.pos.X, a.vel.X, a.target.X)
	a.pos.Y, a.vel.Y = spring.Update(a.pos.Y, a.vel.Y, a.target.Y)
	a.sync()
}

// sync copies avatar state onto its surface node
func (a *CursorAvatar) sync() {
	if a.node == nil {
		return
	}
	a.node.Pos = a.pos
	a.node.Rotation = a.rotation
	a.node.Visible = a.visible
}
