package host

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gdamore/tcell/v2"
)

// Terminal is a host backed by a tcell screen. Each cell holds two pixel
// rows, so the surface is twice as tall as the terminal.
type Terminal struct {
	*Scheduler

	screen   tcell.Screen
	interval time.Duration
	layers   []func(tcell.Screen)
}

// NewTerminal takes over the controlling terminal. The caller must call
// Close.
func NewTerminal(fps int) (*Terminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("creating screen: %w", err)
	}
	return NewTerminalWithScreen(screen, fps)
}

// NewTerminalWithScreen initializes screen and wraps it in a host.
func NewTerminalWithScreen(screen tcell.Screen, fps int) (*Terminal, error) {
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("initializing screen: %w", err)
	}
	if fps <= 0 {
		fps = 30
	}

	cols, rows := screen.Size()
	return &Terminal{
		Scheduler: NewScheduler(cols, rows*2),
		screen:    screen,
		interval:  time.Second / time.Duration(fps),
	}, nil
}

// Screen returns the underlying screen.
func (t *Terminal) Screen() tcell.Screen {
	return t.screen
}

// AddLayer registers fn to draw to the screen after each frame.
func (t *Terminal) AddLayer(fn func(tcell.Screen)) {
	t.layers = append(t.layers, fn)
}

// Run drives frames until Esc, q or Ctrl-C is pressed or ctx is cancelled.
func (t *Terminal) Run(ctx context.Context) error {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	done := make(chan struct{})
	defer close(done)

	events := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := t.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-done:
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev := <-events:
			if !t.handleEvent(ev) {
				return nil
			}

		case now := <-ticker.C:
			t.Tick(now)
			for _, layer := range t.layers {
				layer(t.screen)
			}
			t.screen.Show()
		}
	}
}

// handleEvent reports whether the loop should continue.
func (t *Terminal) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyRune:
			if ev.Rune() == 'q' {
				return false
			}
		}

	case *tcell.EventResize:
		cols, rows := ev.Size()
		slog.Debug("terminal resized", "cols", cols, "rows", rows)
		t.screen.Sync()
		t.Resize(cols, rows*2)
	}
	return true
}

// Close restores the terminal.
func (t *Terminal) Close() {
	t.screen.Fini()
}
