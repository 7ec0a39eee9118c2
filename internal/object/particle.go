package object

import (
	"math"
	"math/rand"

	"github.com/tomz197/backdrop/internal/physics"
)

// Ambient particle tuning.
const (
	AttractRadius    = 200.0 // Pointer pull reaches this far
	AttractForce     = 0.04  // Pull strength at the pointer, falling off linearly
	ParticleFriction = 0.96  // Velocity multiplier per tick
	EdgeFadeMargin   = 20.0  // Particles fade out within this distance of an edge
	AlphaEaseRate    = 0.04  // Alpha gained per tick away from edges
	ExplodeRadius    = 180.0 // Click impulse reaches this far
	ExplodeForce     = 10.0  // Click impulse on particles at the click point
	DefaultParticles = 300
)

// Particle is one drifting ambient mote.
type Particle struct {
	X, Y        float64 // Position
	VX, VY      float64 // Velocity from pointer forces, decays by friction
	DX, DY      float64 // Constant drift
	Size        float64 // Radius, fixed for the particle's life
	Alpha       float64 // Current opacity
	TargetAlpha float64 // Opacity the particle eases toward
}

// Field owns a fixed-size pool of ambient particles. Particles that leave
// the surface are overwritten in place, so the pool never grows or shrinks
// during ticks.
type Field struct {
	particles []Particle
	grid      *physics.SpatialGrid
}

// NewField creates an empty field.
func NewField() *Field {
	return &Field{grid: physics.NewSpatialGrid(0, 0, ExplodeRadius)}
}

// Init repopulates the field with count fresh particles. The backing array is
// reused when it is large enough.
func (f *Field) Init(count int, screen Screen, rng *rand.Rand) {
	if count < 0 {
		count = 0
	}
	if cap(f.particles) < count {
		f.particles = make([]Particle, count)
	}
	f.particles = f.particles[:count]
	for i := range f.particles {
		f.particles[i] = NewParticle(screen, rng)
	}
}

// NewParticle creates a particle at a random position on the screen.
func NewParticle(screen Screen, rng *rand.Rand) Particle {
	x := math.Floor(rng.Float64() * screen.Width)
	y := math.Floor(rng.Float64() * screen.Height)

	// Keep motes proportionate across surface sizes
	screenSize := math.Max(screen.Width, screen.Height)
	baseSize := rng.Float64()*1.2 + 0.3
	multiplier := physics.Clamp(screenSize/2000, 0.7, 1.5)
	size := physics.Clamp(baseSize*multiplier, 0.6, 2.0)

	return Particle{
		X:           x,
		Y:           y,
		Size:        size,
		TargetAlpha: randRange(rng, 0.2, 0.7),
		DX:          (rng.Float64() - 0.5) * 0.2,
		DY:          (rng.Float64() - 0.5) * 0.2,
	}
}

// Len returns the number of live particles.
func (f *Field) Len() int {
	return len(f.particles)
}

// Particles exposes the pool for inspection. Callers must not resize it.
func (f *Field) Particles() []Particle {
	return f.particles
}

// Update fades, attracts, integrates and recycles every particle.
func (f *Field) Update(ctx UpdateContext) {
	w := ctx.Screen.Width
	h := ctx.Screen.Height
	mx := ctx.Pointer.X
	my := ctx.Pointer.Y

	for i := range f.particles {
		p := &f.particles[i]

		// Fade near edges, ease in elsewhere
		closestEdge := math.Min(
			math.Min(p.X-p.Size, w-p.X-p.Size),
			math.Min(p.Y-p.Size, h-p.Y-p.Size),
		)
		edgeFactor := physics.Clamp(closestEdge/EdgeFadeMargin, 0, 1)
		if edgeFactor < 1 {
			p.Alpha = p.TargetAlpha * edgeFactor
		} else {
			p.Alpha = math.Min(p.TargetAlpha, p.Alpha+AlphaEaseRate)
		}

		// Pointer attraction
		adx := mx - p.X
		ady := my - p.Y
		dist := math.Sqrt(adx*adx + ady*ady)
		ix, iy := physics.Impulse(adx, ady, dist, physics.Falloff(dist, AttractRadius, AttractForce))
		p.VX += ix
		p.VY += iy

		p.VX *= ParticleFriction
		p.VY *= ParticleFriction
		p.X += p.DX + p.VX
		p.Y += p.DY + p.VY

		// Recycle in place
		if !ctx.Screen.Contains(p.X, p.Y, p.Size) {
			*p = NewParticle(ctx.Screen, ctx.Rand)
		}
	}
}

// Draw emits one filled circle per particle.
func (f *Field) Draw(ctx DrawContext) {
	color := ctx.Theme.Base()
	for i := range f.particles {
		p := &f.particles[i]
		ctx.Frame.FillCircle(p.X, p.Y, p.Size, color, p.Alpha)
	}
}

// Scatter pushes particles within ExplodeRadius of (x, y) outward.
func (f *Field) Scatter(x, y float64, screen Screen) {
	f.grid.Reset(screen.Width, screen.Height, ExplodeRadius)
	for i := range f.particles {
		f.grid.Insert(f.particles[i].X, f.particles[i].Y, i)
	}

	f.grid.QueryAround(x, y, func(i int) bool {
		p := &f.particles[i]
		edx := p.X - x
		edy := p.Y - y
		dist := math.Sqrt(edx*edx + edy*edy)
		ix, iy := physics.Impulse(edx, edy, dist, physics.Falloff(dist, ExplodeRadius, ExplodeForce))
		p.VX += ix
		p.VY += iy
		return false
	})
}
