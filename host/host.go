// Package host provides the environment a field runs in: a frame scheduler
// and a resize notification source, backed by a headless ticker, a raylib
// window or a tcell terminal.
//
// Every host runs frame callbacks and resize notifications to completion on
// a single loop goroutine. Resize events are dispatched between frames.
package host

import "time"

// FrameID identifies a pending frame request. The zero value is never
// issued.
type FrameID uint64

// ListenerID identifies a registered resize listener. The zero value is
// never issued.
type ListenerID uint64

// FrameFunc runs once for a requested frame.
type FrameFunc func(now time.Time)

// ResizeFunc receives the new surface size in pixels.
type ResizeFunc func(width, height int)

// Host schedules frames and reports surface resizes.
type Host interface {
	// Size returns the current surface size in pixels.
	Size() (width, height int)

	// RequestFrame schedules fn to run once on the next frame.
	RequestFrame(fn FrameFunc) FrameID
	// CancelFrame drops a pending request. Unknown ids are ignored.
	CancelFrame(id FrameID)

	// OnResize registers fn to run after every surface resize.
	OnResize(fn ResizeFunc) ListenerID
	// RemoveResizeListener unregisters a listener. Unknown ids are ignored.
	RemoveResizeListener(id ListenerID)
}
