package object

import (
	"math/rand"

	"github.com/tomz197/backdrop/internal/draw"
)

// Screen represents the drawable surface in device-independent units.
type Screen struct {
	Width  float64
	Height float64
}

// Center returns the middle of the surface.
func (s Screen) Center() (float64, float64) {
	return s.Width * 0.5, s.Height * 0.5
}

// Empty reports whether the surface has no drawable area.
func (s Screen) Empty() bool {
	return s.Width <= 0 || s.Height <= 0
}

// Contains reports whether (x, y) lies within the surface grown by margin
// on every side.
func (s Screen) Contains(x, y, margin float64) bool {
	return x >= -margin && x <= s.Width+margin && y >= -margin && y <= s.Height+margin
}

// NoPointer is the pointer position used before any pointer input arrives.
// It is far enough outside every surface that no attraction ever applies.
const NoPointer = -9999.0

// Pointer is the latest known pointer position.
type Pointer struct {
	X, Y float64
}

// AbsentPointer returns the pointer used when no pointer is over the surface.
func AbsentPointer() Pointer {
	return Pointer{X: NoPointer, Y: NoPointer}
}

// LaserSpawner accepts new lasers. Fire reports false when the pool is full.
type LaserSpawner interface {
	Fire(l Laser) bool
	Full() bool
}

// ExplosionSpawner accepts new explosions. Spawn reports false when the pool is full.
type ExplosionSpawner interface {
	SpawnHit(x, y float64, tint draw.Color) bool
}

// UpdateContext provides everything an entity pool needs during update.
type UpdateContext struct {
	Screen     Screen
	Pointer    Pointer
	Rand       *rand.Rand
	Lasers     LaserSpawner
	Explosions ExplosionSpawner
}

// DrawContext provides drawing resources for entity pools.
type DrawContext struct {
	Frame *draw.Frame
	Theme Theme
}

// Theme is the ambient color scheme of the hosting surface.
type Theme int

const (
	ThemeDark Theme = iota
	ThemeLight
)

// ParseTheme maps "light" to ThemeLight and anything else to ThemeDark.
func ParseTheme(s string) Theme {
	if s == "light" {
		return ThemeLight
	}
	return ThemeDark
}

// String returns the theme name.
func (t Theme) String() string {
	if t == ThemeLight {
		return "light"
	}
	return "dark"
}

// Toggle returns the other theme.
func (t Theme) Toggle() Theme {
	if t == ThemeLight {
		return ThemeDark
	}
	return ThemeLight
}

// Base returns the particle and untinted explosion color for the theme.
func (t Theme) Base() draw.Color {
	if t == ThemeLight {
		return draw.RGB(0, 0, 0)
	}
	return draw.RGB(255, 255, 255)
}

// Background returns the color a surface is cleared to under the theme.
func (t Theme) Background() draw.Color {
	if t == ThemeLight {
		return draw.RGB(250, 250, 250)
	}
	return draw.RGB(0, 0, 0)
}

// randRange returns a uniform value in [lo, hi).
func randRange(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}
