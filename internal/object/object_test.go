package object

import (
	"math/rand"
	"testing"

	"github.com/tomz197/backdrop/internal/draw"
)

type world struct {
	screen     Screen
	rng        *rand.Rand
	field      *Field
	squadron   *Squadron
	lasers     *Lasers
	explosions *Explosions
}

func newWorld(w, h float64, seed int64) *world {
	rng := rand.New(rand.NewSource(seed))
	return &world{
		screen:     Screen{Width: w, Height: h},
		rng:        rng,
		field:      NewField(),
		squadron:   NewSquadron(),
		lasers:     NewLasers(),
		explosions: NewExplosions(rng),
	}
}

func (w *world) ctx(pointer Pointer) UpdateContext {
	return UpdateContext{
		Screen:     w.screen,
		Pointer:    pointer,
		Rand:       w.rng,
		Lasers:     w.lasers,
		Explosions: w.explosions,
	}
}

func (w *world) tick(pointer Pointer) {
	ctx := w.ctx(pointer)
	w.field.Update(ctx)
	w.squadron.Update(ctx)
	w.lasers.Update(ctx, w.squadron.Ships())
	w.explosions.Update()
}

func TestScreenContains(t *testing.T) {
	s := Screen{Width: 100, Height: 50}
	tests := []struct {
		x, y, margin float64
		want         bool
	}{
		{0, 0, 0, true},
		{100, 50, 0, true},
		{-1, 10, 0, false},
		{-1, 10, 2, true},
		{50, 53, 2, false},
	}
	for _, tt := range tests {
		if got := s.Contains(tt.x, tt.y, tt.margin); got != tt.want {
			t.Fatalf("Contains(%v, %v, %v) = %v, want %v", tt.x, tt.y, tt.margin, got, tt.want)
		}
	}
	if !(Screen{Width: 0, Height: 10}).Empty() {
		t.Fatal("zero-width screen should be empty")
	}
}

func TestThemeColors(t *testing.T) {
	if ThemeDark.Base() != draw.RGB(255, 255, 255) {
		t.Fatalf("dark base = %v", ThemeDark.Base())
	}
	if ThemeLight.Base() != draw.RGB(0, 0, 0) {
		t.Fatalf("light base = %v", ThemeLight.Base())
	}
	if ThemeDark.Toggle() != ThemeLight || ThemeLight.Toggle() != ThemeDark {
		t.Fatal("Toggle should flip the theme")
	}
	if ParseTheme("light") != ThemeLight || ParseTheme("whatever") != ThemeDark {
		t.Fatal("ParseTheme mismatch")
	}
}

func TestFactionColors(t *testing.T) {
	if Rebel.LaserColor() != draw.RGB(100, 180, 255) || Empire.LaserColor() != draw.RGB(255, 70, 70) {
		t.Fatal("unexpected laser colors")
	}
	if Rebel.Opponent() != Empire || Empire.Opponent() != Rebel {
		t.Fatal("Opponent mismatch")
	}
}
