package object

import "github.com/tomz197/backdrop/internal/draw"

// Faction is one of the two opposing ship groups.
type Faction int

const (
	Rebel Faction = iota
	Empire
)

// Faction colors.
var (
	rebelLaser  = draw.RGB(100, 180, 255)
	empireLaser = draw.RGB(255, 70, 70)
	rebelHull   = draw.RGB(70, 130, 200)
	empireHull  = draw.RGB(180, 50, 50)
)

// Opponent returns the opposing faction.
func (f Faction) Opponent() Faction {
	if f == Rebel {
		return Empire
	}
	return Rebel
}

// LaserColor is the bolt, accent and hit-spark color of the faction.
func (f Faction) LaserColor() draw.Color {
	if f == Rebel {
		return rebelLaser
	}
	return empireLaser
}

// HullColor is the fill color of the faction's ships.
func (f Faction) HullColor() draw.Color {
	if f == Rebel {
		return rebelHull
	}
	return empireHull
}

// String returns the faction name.
func (f Faction) String() string {
	if f == Rebel {
		return "rebel"
	}
	return "empire"
}
