package object

import (
	"math"
	"math/rand"

	"github.com/tomz197/backdrop/internal/draw"
)

// Explosion tuning.
const (
	MaxExplosions     = 30    // Simultaneous explosions; spawns beyond are dropped
	SparkCount        = 12    // Sparks in a click explosion
	HitSparkCount     = 5     // Sparks in a laser hit
	FadeThreshold     = 0.005 // Below this an explosion or spark counts as gone
	visibleAlpha      = 0.01  // Below this nothing is drawn
	explosionDecay    = 0.98
	ringEase          = 0.06
	sparkFriction     = 0.97
	sparkAlphaDecay   = 0.985
	sparkSizeDecay    = 0.99
	outerRingWidth    = 1.5
	innerRingWidth    = 0.5
	innerRingFraction = 0.6
)

// Spark is a debris particle owned by one explosion.
type Spark struct {
	X, Y   float64
	VX, VY float64
	Alpha  float64
	Size   float64
}

// Explosion is an expanding double ring with spark debris.
type Explosion struct {
	X, Y      float64
	Radius    float64
	MaxRadius float64
	Alpha     float64
	Tint      draw.Color
	Tinted    bool // Untinted explosions use the theme base color
	sparks    [SparkCount]Spark
	numSparks int
}

// Sparks returns the explosion's sparks.
func (e *Explosion) Sparks() []Spark {
	return e.sparks[:e.numSparks]
}

// faded reports whether the ring and every spark have decayed below FadeThreshold.
func (e *Explosion) faded() bool {
	if e.Alpha >= FadeThreshold {
		return false
	}
	for i := 0; i < e.numSparks; i++ {
		if e.sparks[i].Alpha >= FadeThreshold {
			return false
		}
	}
	return true
}

// Explosions owns a bounded collection of explosions. Storage is allocated
// once; spawning and eviction never allocate.
type Explosions struct {
	items []Explosion
	rng   *rand.Rand
}

// NewExplosions creates an empty pool drawing randomness from rng.
func NewExplosions(rng *rand.Rand) *Explosions {
	return &Explosions{
		items: make([]Explosion, 0, MaxExplosions),
		rng:   rng,
	}
}

// Len returns the number of live explosions.
func (p *Explosions) Len() int {
	return len(p.items)
}

// Items exposes the live explosions for inspection.
func (p *Explosions) Items() []Explosion {
	return p.items
}

// Clear removes every explosion.
func (p *Explosions) Clear() {
	p.items = p.items[:0]
}

// alloc returns a zeroed slot, or nil when the pool is full.
func (p *Explosions) alloc() *Explosion {
	if len(p.items) >= MaxExplosions {
		return nil
	}
	p.items = p.items[:len(p.items)+1]
	e := &p.items[len(p.items)-1]
	*e = Explosion{}
	return e
}

// SpawnHit adds a small laser-impact burst tinted with the shooter's color.
func (p *Explosions) SpawnHit(x, y float64, tint draw.Color) bool {
	e := p.alloc()
	if e == nil {
		return false
	}
	rng := p.rng
	e.X, e.Y = x, y
	e.Radius = 1
	e.MaxRadius = randRange(rng, 10, 16)
	e.Alpha = 0.4
	e.Tint = tint
	e.Tinted = true
	e.numSparks = HitSparkCount
	for i := 0; i < HitSparkCount; i++ {
		angle := rng.Float64() * 2 * math.Pi
		speed := randRange(rng, 1, 3)
		e.sparks[i] = Spark{
			X:     x,
			Y:     y,
			VX:    math.Cos(angle) * speed,
			VY:    math.Sin(angle) * speed,
			Alpha: randRange(rng, 0.6, 0.9),
			Size:  randRange(rng, 0.5, 1.2),
		}
	}
	return true
}

// SpawnBurst adds a large click explosion with evenly spread sparks in the
// theme color.
func (p *Explosions) SpawnBurst(x, y float64) bool {
	e := p.alloc()
	if e == nil {
		return false
	}
	rng := p.rng
	e.X, e.Y = x, y
	e.Radius = 2
	e.MaxRadius = randRange(rng, 80, 120)
	e.Alpha = 0.8
	e.numSparks = SparkCount
	for i := 0; i < SparkCount; i++ {
		angle := 2*math.Pi*float64(i)/SparkCount + (rng.Float64()-0.5)*0.4
		speed := randRange(rng, 3, 7)
		e.sparks[i] = Spark{
			X:     x,
			Y:     y,
			VX:    math.Cos(angle) * speed,
			VY:    math.Sin(angle) * speed,
			Alpha: randRange(rng, 0.7, 1.0),
			Size:  randRange(rng, 1, 2.5),
		}
	}
	return true
}

// Draw emits the rings and visible sparks of every explosion.
func (p *Explosions) Draw(ctx DrawContext) {
	for i := range p.items {
		e := &p.items[i]
		color := ctx.Theme.Base()
		if e.Tinted {
			color = e.Tint
		}

		if e.Alpha > visibleAlpha {
			ctx.Frame.StrokeCircle(e.X, e.Y, e.Radius, outerRingWidth, color, e.Alpha*0.6)
			ctx.Frame.StrokeCircle(e.X, e.Y, e.Radius*innerRingFraction, innerRingWidth, color, e.Alpha*0.3)
		}
		for j := 0; j < e.numSparks; j++ {
			s := &e.sparks[j]
			if s.Alpha > visibleAlpha {
				ctx.Frame.FillCircle(s.X, s.Y, s.Size, color, s.Alpha)
			}
		}
	}
}

// Update integrates sparks, grows and fades rings, and evicts explosions
// whose ring and sparks have all faded.
func (p *Explosions) Update() {
	n := 0
	for i := range p.items {
		e := &p.items[i]
		for j := 0; j < e.numSparks; j++ {
			s := &e.sparks[j]
			s.X += s.VX
			s.Y += s.VY
			s.VX *= sparkFriction
			s.VY *= sparkFriction
			s.Alpha *= sparkAlphaDecay
			s.Size *= sparkSizeDecay
		}
		e.Radius += (e.MaxRadius - e.Radius) * ringEase
		e.Alpha *= explosionDecay

		if !e.faded() {
			if n != i {
				p.items[n] = *e
			}
			n++
		}
	}
	p.items = p.items[:n]
}
