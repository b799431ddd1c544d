package engine

import "skyburst/geom"

// PointerKind distinguishes the pointer events delivered by an InputRouter
type PointerKind int

const (
	PointerDown PointerKind = iota
	PointerMove
	PointerUp
	PointerEnter
	PointerLeave
)

// String returns the event name
func (k PointerKind) String() string {
	switch k {
	case PointerDown:
		return "down"
	case PointerMove:
		return "move"
	case PointerUp:
		return "up"
	case PointerEnter:
		return "enter"
	case PointerLeave:
		return "leave"
	default:
		return "unknown"
	}
}

// PointerEvent is one unified pointer or touch event
type PointerEvent struct {
	Kind  PointerKind
	Pos   geom.Point
	Touch bool
}

// PointerHandler receives pointer events
type PointerHandler func(PointerEvent)

type pointerHandler struct {
	id uint32
	fn PointerHandler
}

// InputRouter fans pointer events out to registered handlers in registration order
type InputRouter struct {
	handlers map[PointerKind][]pointerHandler
	nextID   uint32
}

// CallbackHandle allows removing a registered handler
type CallbackHandle struct {
	kind PointerKind
	id   uint32
}

// NewInputRouter creates a router with no handlers
func NewInputRouter() *InputRouter {
	return &InputRouter{
		handlers: make(map[PointerKind][]pointerHandler),
	}
}

// On registers fn for events of the given kind
func (r *InputRouter) On(kind PointerKind, fn PointerHandler) CallbackHandle {
	r.nextID++
	r.handlers[kind] = append(r.handlers[kind], pointerHandler{id: r.nextID, fn: fn})
	return CallbackHandle{kind: kind, id: r.nextID}
}

// Off removes a handler registered with On
func (r *InputRouter) Off(h CallbackHandle) {
	list := r.handlers[h.kind]
	for i, ph := range list {
		if ph.id == h.id {
			r.handlers[h.kind] = append(list[:i], list[i+1:]...)
			return
		}
	}
}

// Listeners returns the number of handlers registered for kind
func (r *InputRouter) Listeners(kind PointerKind) int {
	return len(r.handlers[kind])
}

// Dispatch delivers ev to every handler registered for its kind
func (r *InputRouter) Dispatch(ev PointerEvent) {
	for _, ph := range r.handlers[ev.Kind] {
		ph.fn(ev)
	}
}
