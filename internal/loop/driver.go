package loop

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/backdrop/internal/draw"
	"github.com/tomz197/backdrop/internal/loop/config"
	"github.com/tomz197/backdrop/internal/object"
)

// ErrDriverRunning is returned when Run is called on a driver that is
// already running.
var ErrDriverRunning = errors.New("loop: driver already running")

// maxPendingClicks bounds the clicks applied by a single tick.
const maxPendingClicks = 8

// Event is a host notification delivered to a Driver.
type Event interface {
	event()
}

// PointerMoved reports the pointer position in logical units.
type PointerMoved struct{ X, Y float64 }

// PointerLeft reports that no pointer is over the surface.
type PointerLeft struct{}

// Clicked reports a primary-button press in logical units.
type Clicked struct{ X, Y float64 }

// Resized reports the surface size in logical units and the device pixel ratio.
type Resized struct{ Width, Height, Scale float64 }

// VisibilityChanged reports that the surface was hidden or shown again.
type VisibilityChanged struct{ Hidden bool }

// ThemeChanged pushes the host's theme.
type ThemeChanged struct{ Theme object.Theme }

// ThemeToggled flips the current theme.
type ThemeToggled struct{}

// Refreshed asks for a full reinitialization.
type Refreshed struct{}

func (PointerMoved) event()      {}
func (PointerLeft) event()       {}
func (Clicked) event()           {}
func (Resized) event()           {}
func (VisibilityChanged) event() {}
func (ThemeChanged) event()      {}
func (ThemeToggled) event()      {}
func (Refreshed) event()         {}

// PresentFunc displays a frame. The frame is only valid during the call.
type PresentFunc func(f *draw.Frame) error

// Driver collects host events into input snapshots and ticks a World.
//
// Hosts with their own frame callback call Handle and Step from that single
// goroutine. Hosts with concurrent event sources call Post from any goroutine
// and let Run own the World.
type Driver struct {
	world   *World
	inbox   chan Event
	logger  *log.Logger
	running atomic.Bool
	dropped atomic.Uint64

	// Pending input, owned by the goroutine calling Handle/Step
	surface Surface
	pointer object.Pointer
	clicks  []object.Pointer
	theme   object.Theme
	refresh bool
	hidden  bool
}

// NewDriver creates a driver for world. A nil logger uses the default logger.
func NewDriver(world *World, logger *log.Logger) *Driver {
	if logger == nil {
		logger = log.Default()
	}
	return &Driver{
		world:   world,
		inbox:   make(chan Event, config.EventQueueSize),
		logger:  logger,
		pointer: object.AbsentPointer(),
		clicks:  make([]object.Pointer, 0, maxPendingClicks),
		theme:   world.Theme(),
	}
}

// World returns the driven world.
func (d *Driver) World() *World {
	return d.world
}

// Post queues an event for Run without blocking. It reports false and drops
// the event when the queue is full.
func (d *Driver) Post(ev Event) bool {
	select {
	case d.inbox <- ev:
		return true
	default:
		d.dropped.Add(1)
		return false
	}
}

// Dropped returns how many posted events were discarded.
func (d *Driver) Dropped() uint64 {
	return d.dropped.Load()
}

// Handle folds an event into the pending input.
func (d *Driver) Handle(ev Event) {
	switch e := ev.(type) {
	case PointerMoved:
		d.pointer = object.Pointer{X: e.X, Y: e.Y}
	case PointerLeft:
		d.pointer = object.AbsentPointer()
	case Clicked:
		d.pointer = object.Pointer{X: e.X, Y: e.Y}
		if len(d.clicks) < maxPendingClicks {
			d.clicks = append(d.clicks, object.Pointer{X: e.X, Y: e.Y})
		}
	case Resized:
		if e.Width != d.surface.Width || e.Height != d.surface.Height {
			d.logger.Debug("surface resized", "width", e.Width, "height", e.Height, "scale", e.Scale)
		}
		d.surface = Surface{Width: e.Width, Height: e.Height, Scale: e.Scale}
	case VisibilityChanged:
		if e.Hidden != d.hidden {
			d.logger.Debug("visibility changed", "hidden", e.Hidden, "tick", d.world.Ticks())
		}
		d.hidden = e.Hidden
	case ThemeChanged:
		d.theme = e.Theme
	case ThemeToggled:
		d.theme = d.theme.Toggle()
	case Refreshed:
		d.refresh = true
	}
}

// Step runs one tick with the pending input. It returns nil while hidden or
// before a surface has been reported.
func (d *Driver) Step() *draw.Frame {
	if d.hidden {
		return nil
	}
	frame := d.world.Tick(Input{
		Surface: d.surface,
		Pointer: d.pointer,
		Clicks:  d.clicks,
		Theme:   d.theme,
		Refresh: d.refresh,
	})
	d.clicks = d.clicks[:0]
	if frame != nil {
		d.refresh = false
	}
	return frame
}

// Run ticks the world at config.TickRate and hands every frame to present
// until ctx is cancelled or present fails. Posted events are applied between
// ticks. No ticks are scheduled while the surface is hidden.
func (d *Driver) Run(ctx context.Context, present PresentFunc) error {
	if !d.running.CompareAndSwap(false, true) {
		return ErrDriverRunning
	}
	defer d.running.Store(false)

	return d.run(ctx, present, config.TickTime)
}

func (d *Driver) run(ctx context.Context, present PresentFunc, every time.Duration) error {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		var tick <-chan time.Time
		if !d.hidden {
			tick = ticker.C
		}

		select {
		case <-ctx.Done():
			return nil
		case ev := <-d.inbox:
			d.Handle(ev)
		case <-tick:
			frame := d.Step()
			if frame == nil {
				continue
			}
			if err := present(frame); err != nil {
				return err
			}
		}
	}
}
