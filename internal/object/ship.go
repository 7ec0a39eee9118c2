package object

import (
	"math"
	"math/rand"

	"github.com/tomz197/backdrop/internal/draw"
	"github.com/tomz197/backdrop/internal/physics"
)

// Ship tuning.
const (
	ShipsPerSide        = 5
	ShipSize            = 14.0
	ShipThrust          = 0.02  // Forward acceleration per tick
	ShipFriction        = 0.985 // Velocity multiplier per tick
	ShipMaxSpeed        = 2.5
	ShipShootRange      = 350.0
	ShipCooldownMin     = 90  // Ticks
	ShipCooldownMax     = 220 // Ticks (exclusive)
	ShipExplodeForce    = 8.0 // Click impulse on ships at the click point
	ShipSeparationDist  = 120.0
	ShipSeparationForce = 0.04
	ShipWallPadding     = 5.0   // Ships are clamped this far inside the surface
	EdgeMargin          = 200.0 // Ships start turning back within this distance of an edge

	shipFadeRate        = 0.008
	shipInitialSpeed    = 0.3
	edgeSteerBase       = 0.06
	edgeSteerUrgency    = 0.12
	separationBlend     = 0.03
	wanderAmount        = 0.04
	aimJitter           = 0.12
	rebelBandStart      = 0.05
	empireBandStart     = 0.65
	factionBandWidth    = 0.3
	engineGlowRadius    = 1.8
	shipHullAlphaFactor = 0.8
	engineAlphaFactor   = 0.6
)

// Ship is an autonomous fighter that patrols, keeps its distance from other
// ships and fires at the nearest enemy in range.
type Ship struct {
	X, Y          float64 // Position
	VX, VY        float64 // Velocity
	Angle         float64 // Heading in radians
	Faction       Faction
	ShootCooldown int     // Ticks until the next shot attempt
	Alpha         float64 // Current opacity
	TargetAlpha   float64 // Opacity the ship fades in to
}

// NewShip creates a ship in its faction's horizontal band with a random heading.
func NewShip(faction Faction, screen Screen, rng *rand.Rand) Ship {
	w, h := screen.Width, screen.Height

	bandStart := rebelBandStart
	if faction == Empire {
		bandStart = empireBandStart
	}
	x := rng.Float64()*w*factionBandWidth + w*bandStart

	y := h * 0.5
	if span := h - EdgeMargin*2; span > 0 {
		y = rng.Float64()*span + EdgeMargin
	}

	angle := rng.Float64() * math.Pi * 2
	return Ship{
		X:             x,
		Y:             y,
		VX:            math.Cos(angle) * shipInitialSpeed,
		VY:            math.Sin(angle) * shipInitialSpeed,
		Angle:         angle,
		Faction:       faction,
		ShootCooldown: rng.Intn(ShipCooldownMax),
		TargetAlpha:   randRange(rng, 0.6, 0.85),
	}
}

// Nose returns the point a ship fires from.
func (s *Ship) Nose() (float64, float64) {
	return s.X + math.Cos(s.Angle)*ShipSize, s.Y + math.Sin(s.Angle)*ShipSize
}

// Speed returns the magnitude of the ship's velocity.
func (s *Ship) Speed() float64 {
	return math.Sqrt(s.VX*s.VX + s.VY*s.VY)
}

// Squadron owns both factions' ships for the life of the animation.
type Squadron struct {
	ships []Ship
}

// NewSquadron creates an empty squadron.
func NewSquadron() *Squadron {
	return &Squadron{}
}

// Init replaces every ship with ShipsPerSide fresh ships per faction,
// interleaved rebel, empire, rebel, ...
func (q *Squadron) Init(screen Screen, rng *rand.Rand) {
	q.ships = q.ships[:0]
	for i := 0; i < ShipsPerSide; i++ {
		q.ships = append(q.ships, NewShip(Rebel, screen, rng))
		q.ships = append(q.ships, NewShip(Empire, screen, rng))
	}
}

// Set replaces the squadron's ships. Used to stage scenarios.
func (q *Squadron) Set(ships []Ship) {
	q.ships = append(q.ships[:0], ships...)
}

// Ships exposes the squadron for collision checks and inspection.
func (q *Squadron) Ships() []Ship {
	return q.ships
}

// Len returns the number of ships.
func (q *Squadron) Len() int {
	return len(q.ships)
}

// Update runs one steering, movement and firing step for every ship in order.
func (q *Squadron) Update(ctx UpdateContext) {
	for i := range q.ships {
		q.updateShip(ctx, i)
	}
}

func (q *Squadron) updateShip(ctx UpdateContext, i int) {
	ship := &q.ships[i]
	w, h := ctx.Screen.Width, ctx.Screen.Height
	cx, cy := ctx.Screen.Center()

	// Fade in
	if ship.Alpha < ship.TargetAlpha {
		ship.Alpha = math.Min(ship.TargetAlpha, ship.Alpha+shipFadeRate)
	}

	// Edge avoidance: turn toward the center, sharply only close to a wall
	edgeClosest := math.Min(
		math.Min(ship.X/EdgeMargin, (w-ship.X)/EdgeMargin),
		math.Min(ship.Y/EdgeMargin, (h-ship.Y)/EdgeMargin),
	)
	if edgeClosest < 1 {
		toCenter := math.Atan2(cy-ship.Y, cx-ship.X)
		urgency := math.Pow(1-math.Max(0, edgeClosest), 2)
		ship.Angle = physics.SteerAngle(ship.Angle, toCenter, edgeSteerBase+urgency*edgeSteerUrgency)
	}

	// Separation
	sepX, sepY := q.separation(i)
	if sepX != 0 || sepY != 0 {
		ship.Angle = physics.SteerAngle(ship.Angle, math.Atan2(sepY, sepX), separationBlend)
	}

	// Wander
	ship.Angle += (ctx.Rand.Float64() - 0.5) * wanderAmount

	// Thrust, friction, speed cap
	ship.VX += math.Cos(ship.Angle) * ShipThrust
	ship.VY += math.Sin(ship.Angle) * ShipThrust
	ship.VX *= ShipFriction
	ship.VY *= ShipFriction
	if speed := ship.Speed(); speed > ShipMaxSpeed {
		ship.VX = ship.VX / speed * ShipMaxSpeed
		ship.VY = ship.VY / speed * ShipMaxSpeed
	}

	ship.X += ship.VX
	ship.Y += ship.VY

	// Hard clamp, ships never leave the surface
	ship.X = physics.Clamp(ship.X, ShipWallPadding, w-ShipWallPadding)
	ship.Y = physics.Clamp(ship.Y, ShipWallPadding, h-ShipWallPadding)

	ship.ShootCooldown--
	if ship.ShootCooldown <= 0 && ctx.Lasers != nil && !ctx.Lasers.Full() {
		q.tryFire(ctx, ship)
	}
}

// separation sums repulsion from every other ship closer than ShipSeparationDist.
func (q *Squadron) separation(i int) (float64, float64) {
	ship := &q.ships[i]
	var sepX, sepY float64
	for j := range q.ships {
		if j == i {
			continue
		}
		other := &q.ships[j]
		sx := ship.X - other.X
		sy := ship.Y - other.Y
		sd := math.Sqrt(sx*sx + sy*sy)
		px, py := physics.Impulse(sx, sy, sd, physics.Falloff(sd, ShipSeparationDist, ShipSeparationForce))
		sepX += px
		sepY += py
	}
	return sepX, sepY
}

// tryFire shoots at the nearest enemy if it is in range. The cooldown is only
// reset when a shot is fired.
func (q *Squadron) tryFire(ctx UpdateContext, ship *Ship) {
	target := q.nearestEnemy(ship)
	if target == nil {
		return
	}
	dx := target.X - ship.X
	dy := target.Y - ship.Y
	if math.Sqrt(dx*dx+dy*dy) >= ShipShootRange {
		return
	}

	aim := math.Atan2(dy, dx) + (ctx.Rand.Float64()-0.5)*aimJitter
	nx, ny := ship.Nose()
	if !ctx.Lasers.Fire(NewLaser(nx, ny, aim, ship.Faction)) {
		return
	}
	ship.ShootCooldown = ShipCooldownMin + ctx.Rand.Intn(ShipCooldownMax-ShipCooldownMin)
}

// nearestEnemy returns the closest ship of the opposing faction, or nil.
func (q *Squadron) nearestEnemy(ship *Ship) *Ship {
	var nearest *Ship
	best := math.Inf(1)
	for j := range q.ships {
		other := &q.ships[j]
		if other.Faction == ship.Faction {
			continue
		}
		if d := physics.DistanceSquared(ship.X, ship.Y, other.X, other.Y); d < best {
			best = d
			nearest = other
		}
	}
	return nearest
}

// Scatter pushes ships within ExplodeRadius of (x, y) outward.
func (q *Squadron) Scatter(x, y float64) {
	for i := range q.ships {
		ship := &q.ships[i]
		edx := ship.X - x
		edy := ship.Y - y
		dist := math.Sqrt(edx*edx + edy*edy)
		ix, iy := physics.Impulse(edx, edy, dist, physics.Falloff(dist, ExplodeRadius, ShipExplodeForce))
		ship.VX += ix
		ship.VY += iy
	}
}

// Draw renders every ship in its faction's silhouette.
func (q *Squadron) Draw(ctx DrawContext) {
	for i := range q.ships {
		drawShip(ctx.Frame, &q.ships[i])
	}
}

// Ship outlines in ship-local coordinates, nose along +X.
var (
	rebelHullShape = [4]draw.Point{
		{X: ShipSize, Y: 0},
		{X: -ShipSize * 0.6, Y: -ShipSize * 0.5},
		{X: -ShipSize * 0.2, Y: 0},
		{X: -ShipSize * 0.6, Y: ShipSize * 0.5},
	}
	empireStrut = [2]draw.Point{{X: 0, Y: -ShipSize * 0.7}, {X: 0, Y: ShipSize * 0.7}}
	empireTop   = [2]draw.Point{{X: -ShipSize * 0.25, Y: -ShipSize * 0.7}, {X: ShipSize * 0.25, Y: -ShipSize * 0.7}}
	empireBot   = [2]draw.Point{{X: -ShipSize * 0.25, Y: ShipSize * 0.7}, {X: ShipSize * 0.25, Y: ShipSize * 0.7}}
	engineSpot  = draw.Point{X: -ShipSize * 0.5, Y: 0}
)

// toWorld rotates a ship-local point by the heading and moves it to the ship.
func toWorld(p draw.Point, x, y, cos, sin float64) draw.Point {
	return draw.Point{
		X: x + p.X*cos - p.Y*sin,
		Y: y + p.X*sin + p.Y*cos,
	}
}

func drawShip(f *draw.Frame, s *Ship) {
	cos, sin := math.Cos(s.Angle), math.Sin(s.Angle)
	hull := s.Faction.HullColor()
	accent := s.Faction.LaserColor()

	if s.Faction == Rebel {
		var pts [4]draw.Point
		for i, p := range rebelHullShape {
			pts[i] = toWorld(p, s.X, s.Y, cos, sin)
		}
		f.FillPolygon(pts[:], hull, s.Alpha*shipHullAlphaFactor)
		f.StrokePolygon(pts[:], 1, accent, s.Alpha)
	} else {
		for _, seg := range [...][2]draw.Point{empireStrut, empireTop, empireBot} {
			f.Line(toWorld(seg[0], s.X, s.Y, cos, sin), toWorld(seg[1], s.X, s.Y, cos, sin), 1, accent, s.Alpha)
		}
		f.FillCircle(s.X, s.Y, ShipSize*0.3, hull, s.Alpha*shipHullAlphaFactor)
		f.StrokeCircle(s.X, s.Y, ShipSize*0.3, 0.8, accent, s.Alpha)
	}

	glow := toWorld(engineSpot, s.X, s.Y, cos, sin)
	f.FillCircle(glow.X, glow.Y, engineGlowRadius, accent, s.Alpha*engineAlphaFactor)
}
