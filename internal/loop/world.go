// Package loop advances the animation one tick at a time and schedules ticks
// for a host.
package loop

import (
	"math/rand"
	"time"

	"github.com/tomz197/backdrop/internal/draw"
	"github.com/tomz197/backdrop/internal/object"
)

// Options configures a World.
type Options struct {
	Particles int          // Ambient particle count
	Seed      int64        // Random seed; 0 picks one from the clock
	Theme     object.Theme // Theme used until the host reports one
}

// DefaultOptions returns the standard animation settings.
func DefaultOptions() Options {
	return Options{
		Particles: object.DefaultParticles,
		Theme:     object.ThemeDark,
	}
}

// Surface is the host's drawable area in device-independent units plus the
// device pixel ratio used by raster hosts.
type Surface struct {
	Width  float64
	Height float64
	Scale  float64
}

// Empty reports whether the surface has no drawable area.
func (s Surface) Empty() bool {
	return s.Width <= 0 || s.Height <= 0
}

// Input is the snapshot of host state consumed by one tick.
type Input struct {
	Surface Surface
	Pointer object.Pointer   // object.AbsentPointer() when no pointer is over the surface
	Clicks  []object.Pointer // Clicks since the previous tick, in arrival order
	Theme   object.Theme
	Refresh bool // Force a full reinitialization
}

// World owns every entity pool and advances them together.
type World struct {
	opts   Options
	rng    *rand.Rand
	screen object.Screen
	scale  float64
	theme  object.Theme
	ready  bool
	ticks  uint64

	field      *object.Field
	squadron   *object.Squadron
	lasers     *object.Lasers
	explosions *object.Explosions

	frame draw.Frame
}

// NewWorld creates a world. Entities are created on the first tick that
// reports a non-empty surface.
func NewWorld(opts Options) *World {
	if opts.Particles < 0 {
		opts.Particles = 0
	}
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))
	return &World{
		opts:       opts,
		rng:        rng,
		theme:      opts.Theme,
		field:      object.NewField(),
		squadron:   object.NewSquadron(),
		lasers:     object.NewLasers(),
		explosions: object.NewExplosions(rng),
	}
}

// Tick applies in and advances the simulation by one step. It returns nil
// while the surface is empty. The returned frame is reused by the next Tick.
func (w *World) Tick(in Input) *draw.Frame {
	if in.Surface.Empty() {
		return nil
	}
	w.scale = in.Surface.Scale

	resized := in.Surface.Width != w.screen.Width || in.Surface.Height != w.screen.Height
	if !w.ready || resized || in.Theme != w.theme || in.Refresh {
		w.screen = object.Screen{Width: in.Surface.Width, Height: in.Surface.Height}
		w.theme = in.Theme
		w.Reinit()
	}

	for _, c := range in.Clicks {
		w.Click(c.X, c.Y)
	}

	w.ticks++
	w.frame.Reset(w.ticks, w.screen.Width, w.screen.Height, w.scale, w.theme.Background())

	uctx := object.UpdateContext{
		Screen:     w.screen,
		Pointer:    in.Pointer,
		Rand:       w.rng,
		Lasers:     w.lasers,
		Explosions: w.explosions,
	}
	dctx := object.DrawContext{Frame: &w.frame, Theme: w.theme}

	w.field.Update(uctx)
	w.field.Draw(dctx)
	w.squadron.Update(uctx)
	w.lasers.Update(uctx, w.squadron.Ships())
	w.lasers.Draw(dctx)
	w.squadron.Draw(dctx)
	w.explosions.Draw(dctx)
	w.explosions.Update()

	return &w.frame
}

// Reinit repopulates particles and ships for the current surface and clears
// lasers and explosions.
func (w *World) Reinit() {
	w.field.Init(w.opts.Particles, w.screen, w.rng)
	w.squadron.Init(w.screen, w.rng)
	w.lasers.Clear()
	w.explosions.Clear()
	w.ready = true
}

// Click scatters everything near (x, y) and spawns a click explosion.
func (w *World) Click(x, y float64) {
	if !w.ready {
		return
	}
	w.field.Scatter(x, y, w.screen)
	w.squadron.Scatter(x, y)
	w.lasers.Scatter(x, y)
	w.explosions.SpawnBurst(x, y)
}

// Screen returns the current simulation bounds.
func (w *World) Screen() object.Screen { return w.screen }

// Theme returns the theme of the current population.
func (w *World) Theme() object.Theme { return w.theme }

// Ticks returns how many ticks have run.
func (w *World) Ticks() uint64 { return w.ticks }

// Field returns the particle field.
func (w *World) Field() *object.Field { return w.field }

// Squadron returns the ships.
func (w *World) Squadron() *object.Squadron { return w.squadron }

// Lasers returns the live bolts.
func (w *World) Lasers() *object.Lasers { return w.lasers }

// Explosions returns the live explosions.
func (w *World) Explosions() *object.Explosions { return w.explosions }
