package engine

import "skyburst/geom"

// PointerSample is the polled pointer state for one frame
type PointerSample struct {
	Pos     geom.Point
	Inside  bool // pointer is over the viewport
	Pressed bool // primary button or a touch is down
	Touch   bool // the press comes from a touch screen
}

// PointerTracker turns successive PointerSamples into edge events
type PointerTracker struct {
	prev    PointerSample
	started bool
}

// Feed compares s with the previous sample and returns the events it implies,
// in the order enter, down, move, up, leave
func (t *PointerTracker) Feed(s PointerSample) []PointerEvent {
	var events []PointerEvent
	prev := t.prev
	if !t.started {
		prev = PointerSample{Pos: s.Pos}
		t.started = true
	}
	t.prev = s

	ev := func(kind PointerKind) PointerEvent {
		return PointerEvent{Kind: kind, Pos: s.Pos, Touch: s.Touch}
	}

	if s.Inside && !prev.Inside {
		events = append(events, ev(PointerEnter))
	}
	if s.Pressed && !prev.Pressed {
		events = append(events, ev(PointerDown))
	}
	if s.Pos != prev.Pos && (s.Inside || s.Pressed) {
		events = append(events, ev(PointerMove))
	}
	if !s.Pressed && prev.Pressed {
		up := ev(PointerUp)
		up.Touch = prev.Touch
		events = append(events, up)
	}
	if !s.Inside && prev.Inside {
		events = append(events, ev(PointerLeave))
	}
	return events
}

// Pump feeds s and dispatches the resulting events on r
func (t *PointerTracker) Pump(r *InputRouter, s PointerSample) {
	for _, ev := range t.Feed(s) {
		r.Dispatch(ev)
	}
}
