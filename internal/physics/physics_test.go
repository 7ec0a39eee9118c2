package physics

import (
	"math"
	"sort"
	"testing"
)

const eps = 1e-9

func TestSteerAngleTakesShortestPath(t *testing.T) {
	tests := []struct {
		name                    string
		current, target, amount float64
		want                    float64
	}{
		{"direct", 0, 1, 0.5, 0.5},
		{"full amount", 0.2, -0.4, 1, -0.4},
		{"across +pi", 3.0, -3.0, 1, 3.0 + (2*math.Pi - 6.0)},
		{"across -pi", -3.0, 3.0, 0.5, -3.0 - (2*math.Pi-6.0)/2},
		{"wound heading", 4 * math.Pi, 0.1, 1, 4*math.Pi + 0.1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SteerAngle(tt.current, tt.target, tt.amount)
			if math.Abs(got-tt.want) > eps {
				t.Fatalf("SteerAngle(%v, %v, %v) = %v, want %v", tt.current, tt.target, tt.amount, got, tt.want)
			}
		})
	}
}

func TestSteerAngleNeverTurnsMoreThanPi(t *testing.T) {
	for cur := -10.0; cur <= 10; cur += 0.37 {
		for tgt := -10.0; tgt <= 10; tgt += 0.41 {
			step := SteerAngle(cur, tgt, 1) - cur
			if math.Abs(step) > math.Pi+eps {
				t.Fatalf("turn from %v to %v took %v rad", cur, tgt, step)
			}
		}
	}
}

func TestNormalizeAngle(t *testing.T) {
	for _, a := range []float64{-7, -math.Pi, -1, 0, 1, math.Pi, 7, 100} {
		got := NormalizeAngle(a)
		if got <= -math.Pi || got > math.Pi {
			t.Fatalf("NormalizeAngle(%v) = %v out of range", a, got)
		}
		if math.Abs(math.Sin(got)-math.Sin(a)) > 1e-9 || math.Abs(math.Cos(got)-math.Cos(a)) > 1e-9 {
			t.Fatalf("NormalizeAngle(%v) = %v changed direction", a, got)
		}
	}
}

func TestRemapAndClamp(t *testing.T) {
	if got := Remap(5, 0, 10, 100, 200); got != 150 {
		t.Fatalf("Remap = %v, want 150", got)
	}
	if got := Remap(3, 2, 2, 7, 9); got != 7 {
		t.Fatalf("Remap on empty range = %v, want 7", got)
	}
	if got := Clamp(12, 0, 10); got != 10 {
		t.Fatalf("Clamp high = %v", got)
	}
	if got := Clamp(-1, 0, 10); got != 0 {
		t.Fatalf("Clamp low = %v", got)
	}
	if got := Clamp(3, 5, -5); got != 5 {
		t.Fatalf("Clamp inverted = %v, want lower bound", got)
	}
}

func TestFalloffGuardsSmallDistances(t *testing.T) {
	if got := Falloff(0, 100, 5); got != 0 {
		t.Fatalf("Falloff at 0 = %v, want 0", got)
	}
	if got := Falloff(MinForceDistance, 100, 5); got != 0 {
		t.Fatalf("Falloff at min distance = %v, want 0", got)
	}
	if got := Falloff(100, 100, 5); got != 0 {
		t.Fatalf("Falloff at radius = %v, want 0", got)
	}
	if got := Falloff(50, 100, 4); math.Abs(got-2) > eps {
		t.Fatalf("Falloff(50,100,4) = %v, want 2", got)
	}
	if x, y := Impulse(0, 0, 0, 10); x != 0 || y != 0 {
		t.Fatalf("Impulse at zero distance = (%v,%v)", x, y)
	}
	if x, y := Impulse(3, 4, 5, 10); math.Abs(x-6) > eps || math.Abs(y-8) > eps {
		t.Fatalf("Impulse = (%v,%v), want (6,8)", x, y)
	}
}

func TestDistanceHelpers(t *testing.T) {
	if d := Distance(0, 0, 3, 4); d != 5 {
		t.Fatalf("Distance = %v", d)
	}
	if d := DistanceSquared(1, 1, 4, 5); d != 25 {
		t.Fatalf("DistanceSquared = %v", d)
	}
	if !PointInCircle(1, 1, 0, 0, 1.5) || PointInCircle(2, 2, 0, 0, 1.5) {
		t.Fatalf("PointInCircle misclassified")
	}
}

func TestSpatialGridFindsEverythingWithinCellSize(t *testing.T) {
	const cell = 50.0
	g := NewSpatialGrid(400, 300, cell)

	type pt struct{ x, y float64 }
	var pts []pt
	for x := -10.0; x < 420; x += 17 {
		for y := -10.0; y < 320; y += 23 {
			pts = append(pts, pt{x, y})
		}
	}
	for i, p := range pts {
		g.Insert(p.x, p.y, i)
	}

	queries := []pt{{0, 0}, {200, 150}, {399, 299}, {-30, 120}, {410, 310}}
	for _, q := range queries {
		var got []int
		g.QueryAround(q.x, q.y, func(i int) bool {
			if Distance(q.x, q.y, pts[i].x, pts[i].y) < cell {
				got = append(got, i)
			}
			return false
		})
		var want []int
		for i, p := range pts {
			if Distance(q.x, q.y, p.x, p.y) < cell {
				want = append(want, i)
			}
		}
		sort.Ints(got)
		if len(got) != len(want) {
			t.Fatalf("query %v: found %d items, want %d", q, len(got), len(want))
		}
		for i := range got {
			if got[i] != want[i] {
				t.Fatalf("query %v: item mismatch at %d", q, i)
			}
		}
	}
}

func TestSpatialGridEarlyStopAndClear(t *testing.T) {
	g := NewSpatialGrid(100, 100, 10)
	g.Insert(5, 5, 1)
	g.Insert(6, 6, 2)

	calls := 0
	g.QueryAround(5, 5, func(int) bool {
		calls++
		return true
	})
	if calls != 1 {
		t.Fatalf("early stop made %d calls", calls)
	}

	g.Clear()
	g.QueryAround(5, 5, func(int) bool {
		t.Fatalf("cleared grid returned an item")
		return false
	})

	g.Reset(0, 0, 0)
	g.Insert(3, 3, 7)
	found := false
	g.QueryAround(0, 0, func(i int) bool {
		found = i == 7
		return found
	})
	if !found {
		t.Fatalf("degenerate grid lost its item")
	}
}

func TestSpatialGridCapsCellCount(t *testing.T) {
	g := NewSpatialGrid(1e7, 1e7, 180)
	if n := len(g.cells); n > MaxGridCells {
		t.Fatalf("grid has %d cells, cap is %d", n, MaxGridCells)
	}
	if g.cellSize < 180 {
		t.Fatalf("cell size shrank to %v", g.cellSize)
	}

	// Items within the query radius are still found with the larger cells
	g.Insert(5e6, 5e6, 1)
	g.Insert(5e6+150, 5e6, 2)
	var got []int
	g.QueryAround(5e6, 5e6, func(i int) bool {
		got = append(got, i)
		return false
	})
	sort.Ints(got)
	if len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Fatalf("query found %v", got)
	}

	g.Reset(1, 1e12, 180)
	if n := len(g.cells); n > MaxGridCells {
		t.Fatalf("tall grid has %d cells", n)
	}
	g.Reset(math.Inf(1), math.NaN(), 180)
	if n := len(g.cells); n != 1 {
		t.Fatalf("non-finite area gave %d cells", n)
	}
}
