package engine

import "sort"

// TaskID identifies a timer or frame callback registered on a Scheduler
type TaskID uint64

// FrameFunc is called once per frame with the frame delta in seconds.
// Returning false deregisters the callback.
type FrameFunc func(dt float64) bool

type timer struct {
	id  TaskID
	at  float64
	seq uint64
	fn  func()
}

type frameTask struct {
	id TaskID
	fn FrameFunc
}

// Scheduler is a cooperative, single-threaded frame scheduler.
// Timers and frame callbacks run to completion inside Advance; nothing blocks.
// A host (the ebiten Update loop, or a test) drives it by calling Advance once per frame.
type Scheduler struct {
	now    float64
	nextID TaskID
	seq    uint64

	timers    []*timer
	frames    []frameTask
	pending   map[TaskID]bool
	cancelled map[TaskID]bool

	closed bool
}

// NewScheduler creates an empty scheduler at time zero
func NewScheduler() *Scheduler {
	return &Scheduler{
		timers:    make([]*timer, 0, 16),
		frames:    make([]frameTask, 0, 256),
		pending:   make(map[TaskID]bool),
		cancelled: make(map[TaskID]bool),
	}
}

// Now returns the scheduler time in seconds
func (s *Scheduler) Now() float64 {
	return s.now
}

// After schedules fn to run once, delay seconds from now.
// A non-positive delay runs fn on the next Advance.
func (s *Scheduler) After(delay float64, fn func()) TaskID {
	if s.closed {
		return 0
	}
	s.nextID++
	s.seq++
	s.pending[s.nextID] = true
	s.timers = append(s.timers, &timer{
		id:  s.nextID,
		at:  s.now + delay,
		seq: s.seq,
		fn:  fn,
	})
	return s.nextID
}

// EveryFrame registers fn to run on every Advance until it returns false or is cancelled.
// Callbacks registered during an Advance start on the following frame.
func (s *Scheduler) EveryFrame(fn FrameFunc) TaskID {
	if s.closed {
		return 0
	}
	s.nextID++
	s.pending[s.nextID] = true
	s.frames = append(s.frames, frameTask{id: s.nextID, fn: fn})
	return s.nextID
}

// Cancel deregisters a timer or frame callback. Unknown, fired and finished ids are ignored.
func (s *Scheduler) Cancel(id TaskID) {
	if !s.pending[id] {
		return
	}
	delete(s.pending, id)
	s.cancelled[id] = true
}

// Pending returns the number of registered timers and frame callbacks
func (s *Scheduler) Pending() int {
	return len(s.pending)
}

// Advance moves time forward by dt seconds, fires due timers in deadline order,
// then runs every frame callback once with dt.
func (s *Scheduler) Advance(dt float64) {
	if s.closed {
		return
	}
	if dt < 0 {
		dt = 0
	}
	s.now += dt

	// Snapshot before timers fire so callbacks registered anywhere in this
	// Advance wait for the next one
	current := s.frames
	s.frames = nil

	s.fireTimers()

	kept := make([]frameTask, 0, len(current))
	for _, f := range current {
		if s.closed {
			return
		}
		if s.cancelled[f.id] {
			delete(s.cancelled, f.id)
			continue
		}
		if f.fn(dt) && !s.cancelled[f.id] {
			kept = append(kept, f)
		} else {
			delete(s.cancelled, f.id)
			delete(s.pending, f.id)
		}
	}
	if s.closed {
		return
	}
	s.frames = append(kept, s.frames...)
}

// fireTimers runs all timers whose deadline has passed, including ones
// scheduled by other timers during this call if they are already due.
func (s *Scheduler) fireTimers() {
	for {
		due := s.dueTimers()
		if len(due) == 0 {
			return
		}
		for _, t := range due {
			if s.closed {
				return
			}
			if s.cancelled[t.id] {
				delete(s.cancelled, t.id)
				continue
			}
			delete(s.pending, t.id)
			t.fn()
		}
	}
}

// dueTimers drops cancelled timers, then removes and returns the due ones
// ordered by deadline then registration
func (s *Scheduler) dueTimers() []*timer {
	var due []*timer
	remaining := s.timers[:0]
	for _, t := range s.timers {
		if s.cancelled[t.id] {
			delete(s.cancelled, t.id)
			continue
		}
		if t.at <= s.now {
			due = append(due, t)
		} else {
			remaining = append(remaining, t)
		}
	}
	s.timers = remaining
	sort.Slice(due, func(i, j int) bool {
		if due[i].at != due[j].at {
			return due[i].at < due[j].at
		}
		return due[i].seq < due[j].seq
	})
	return due
}

// Close drops every pending task. Later registrations and Advance calls are no-ops.
func (s *Scheduler) Close() {
	s.closed = true
	s.timers = nil
	s.frames = nil
	s.pending = make(map[TaskID]bool)
	s.cancelled = make(map[TaskID]bool)
}
