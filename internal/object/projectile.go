package object

import (
	"math"

	"github.com/tomz197/backdrop/internal/draw"
	"github.com/tomz197/backdrop/internal/physics"
)

// Laser tuning.
const (
	LaserSpeed        = 4.0  // Units per tick
	LaserLife         = 180  // Ticks before a bolt expires
	LaserLength       = 8.0  // Drawn length of a bolt
	LaserMargin       = 20.0 // Bolts are removed this far outside the surface
	MaxLasers         = 60   // Live bolts; new shots beyond are dropped
	LaserHitRadius    = ShipSize * 1.2
	LaserKnockback    = 0.2 // Fraction of bolt velocity transferred to the struck ship
	LaserScatterForce = 4.0 // Click impulse on bolts at the click point
)

var laserCenter = draw.RGB(255, 255, 255)

// Laser is a bolt fired by a ship.
type Laser struct {
	X, Y    float64 // Position
	VX, VY  float64 // Velocity
	Life    int     // Ticks remaining
	MaxLife int     // Initial life (for fade calculation)
	Faction Faction // Faction of the ship that fired it
}

// NewLaser creates a bolt at (x, y) heading along angle.
func NewLaser(x, y, angle float64, faction Faction) Laser {
	return Laser{
		X:       x,
		Y:       y,
		VX:      math.Cos(angle) * LaserSpeed,
		VY:      math.Sin(angle) * LaserSpeed,
		Life:    LaserLife,
		MaxLife: LaserLife,
		Faction: faction,
	}
}

// Lasers owns the bounded collection of live bolts.
type Lasers struct {
	items []Laser
}

// NewLasers creates an empty pool with room for MaxLasers bolts.
func NewLasers() *Lasers {
	return &Lasers{items: make([]Laser, 0, MaxLasers)}
}

// Fire adds a bolt unless the pool is full.
func (l *Lasers) Fire(laser Laser) bool {
	if l.Full() {
		return false
	}
	l.items = append(l.items, laser)
	return true
}

// Full reports whether no more bolts can be fired.
func (l *Lasers) Full() bool {
	return len(l.items) >= MaxLasers
}

// Len returns the number of live bolts.
func (l *Lasers) Len() int {
	return len(l.items)
}

// Items exposes the live bolts for inspection.
func (l *Lasers) Items() []Laser {
	return l.items
}

// Clear removes every bolt.
func (l *Lasers) Clear() {
	l.items = l.items[:0]
}

// Update moves every bolt, expires old or escaped ones, and resolves hits
// against opposing ships. Surviving bolts are compacted in place.
func (l *Lasers) Update(ctx UpdateContext, ships []Ship) {
	kept := l.items[:0]
	for i := range l.items {
		laser := l.items[i]
		laser.X += laser.VX
		laser.Y += laser.VY
		laser.Life--

		remove := laser.Life <= 0 || !ctx.Screen.Contains(laser.X, laser.Y, LaserMargin)
		if !remove {
			remove = l.resolveHit(ctx, &laser, ships)
		}

		if !remove {
			kept = append(kept, laser)
		}
	}
	l.items = kept
}

// resolveHit checks the bolt against opposing ships in squadron order and
// handles the first one it touches.
func (l *Lasers) resolveHit(ctx UpdateContext, laser *Laser, ships []Ship) bool {
	for i := range ships {
		ship := &ships[i]
		if ship.Faction == laser.Faction {
			continue
		}
		if physics.DistanceSquared(laser.X, laser.Y, ship.X, ship.Y) >= LaserHitRadius*LaserHitRadius {
			continue
		}

		if ctx.Explosions != nil {
			ctx.Explosions.SpawnHit(laser.X, laser.Y, laser.Faction.LaserColor())
		}
		ship.VX += laser.VX * LaserKnockback
		ship.VY += laser.VY * LaserKnockback
		return true
	}
	return false
}

// Scatter deflects bolts within ExplodeRadius of (x, y) outward.
func (l *Lasers) Scatter(x, y float64) {
	for i := range l.items {
		laser := &l.items[i]
		edx := laser.X - x
		edy := laser.Y - y
		dist := math.Sqrt(edx*edx + edy*edy)
		ix, iy := physics.Impulse(edx, edy, dist, physics.Falloff(dist, ExplodeRadius, LaserScatterForce))
		laser.VX += ix
		laser.VY += iy
	}
}

// Draw renders every bolt as a glow, a core beam and a bright center.
func (l *Lasers) Draw(ctx DrawContext) {
	for i := range l.items {
		laser := &l.items[i]
		speed := math.Sqrt(laser.VX*laser.VX + laser.VY*laser.VY)
		if speed < 0.01 {
			continue
		}

		alpha := 1.0
		if laser.MaxLife > 0 {
			alpha = float64(laser.Life) / float64(laser.MaxLife)
		}
		color := laser.Faction.LaserColor()
		nx := laser.VX / speed * LaserLength * 0.5
		ny := laser.VY / speed * LaserLength * 0.5
		tail := draw.Point{X: laser.X - nx, Y: laser.Y - ny}
		head := draw.Point{X: laser.X + nx, Y: laser.Y + ny}

		ctx.Frame.Line(tail, head, 3, color, alpha*0.25)
		ctx.Frame.Line(tail, head, 1.2, color, alpha*0.8)
		ctx.Frame.Line(tail, head, 0.4, laserCenter, alpha*0.3)
	}
}
