package host

import (
	"context"
	"log/slog"
	"time"
)

type size struct{ width, height int }

// Ticker is a headless host driven by a fixed-rate time.Ticker.
type Ticker struct {
	*Scheduler

	interval time.Duration
	resizes  chan size
}

// NewTicker creates a headless host for a surface of the given size running
// at fps frames per second.
func NewTicker(width, height, fps int) *Ticker {
	if fps <= 0 {
		fps = 60
	}
	return &Ticker{
		Scheduler: NewScheduler(width, height),
		interval:  time.Second / time.Duration(fps),
		resizes:   make(chan size, 16),
	}
}

// PostResize queues a resize to be dispatched between frames. It is safe to
// call from any goroutine. When the queue is full the event is dropped.
func (t *Ticker) PostResize(width, height int) {
	select {
	case t.resizes <- size{width, height}:
	default:
		slog.Debug("resize dropped", "width", width, "height", height)
	}
}

// Run drives frames until ctx is cancelled.
func (t *Ticker) Run(ctx context.Context) error {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case sz := <-t.resizes:
			t.Resize(sz.width, sz.height)

		case now := <-ticker.C:
			t.Tick(now)
		}
	}
}
