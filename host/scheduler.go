package host

import (
	"slices"
	"sync"
	"time"
)

type listener struct {
	id ListenerID
	fn ResizeFunc
}

// Scheduler holds the host-side bookkeeping shared by every host: pending
// frame requests, resize listeners and the current surface size.
//
// Methods are safe to call from any goroutine. Callbacks run outside the
// lock on whichever goroutine calls Tick or Resize, so they may call back
// into the scheduler.
type Scheduler struct {
	mu sync.Mutex

	width, height int
	nextID        uint64

	frames    map[FrameID]FrameFunc
	order     []FrameID
	listeners []listener
}

// NewScheduler creates a scheduler for a surface of the given size.
func NewScheduler(width, height int) *Scheduler {
	return &Scheduler{
		width:  width,
		height: height,
		frames: make(map[FrameID]FrameFunc),
	}
}

// Size implements Host.
func (s *Scheduler) Size() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.width, s.height
}

// RequestFrame implements Host.
func (s *Scheduler) RequestFrame(fn FrameFunc) FrameID {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	id := FrameID(s.nextID)
	s.frames[id] = fn
	s.order = append(s.order, id)
	return id
}

// CancelFrame implements Host.
func (s *Scheduler) CancelFrame(id FrameID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.frames[id]; !ok {
		return
	}
	delete(s.frames, id)
	s.order = slices.DeleteFunc(s.order, func(o FrameID) bool {
		return o == id
	})
}

// OnResize implements Host.
func (s *Scheduler) OnResize(fn ResizeFunc) ListenerID {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	id := ListenerID(s.nextID)
	s.listeners = append(s.listeners, listener{id: id, fn: fn})
	return id
}

// RemoveResizeListener implements Host.
func (s *Scheduler) RemoveResizeListener(id ListenerID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.listeners = slices.DeleteFunc(s.listeners, func(l listener) bool {
		return l.id == id
	})
}

// Tick runs every frame requested before the call, in request order, and
// returns how many ran. Frames requested while ticking run on the next Tick.
// A request cancelled by an earlier callback in the same batch is skipped.
func (s *Scheduler) Tick(now time.Time) int {
	s.mu.Lock()
	batch := s.order
	s.order = nil
	s.mu.Unlock()

	ran := 0
	for _, id := range batch {
		s.mu.Lock()
		fn, ok := s.frames[id]
		delete(s.frames, id)
		s.mu.Unlock()

		if ok {
			fn(now)
			ran++
		}
	}
	return ran
}

// Resize records a new surface size and notifies listeners. Nothing happens
// if the size is unchanged.
func (s *Scheduler) Resize(width, height int) {
	s.mu.Lock()
	if width == s.width && height == s.height {
		s.mu.Unlock()
		return
	}
	s.width, s.height = width, height
	notify := slices.Clone(s.listeners)
	s.mu.Unlock()

	for _, l := range notify {
		l.fn(width, height)
	}
}

// Pending returns the number of outstanding frame requests.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.frames)
}

// Listeners returns the number of registered resize listeners.
func (s *Scheduler) Listeners() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.listeners)
}
