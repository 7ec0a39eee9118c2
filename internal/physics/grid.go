package physics

import "math"

// MaxGridCells bounds the cell count of a SpatialGrid. Larger areas get
// proportionally larger cells.
const MaxGridCells = 1 << 16

// SpatialGrid is a uniform grid for broad-phase proximity queries over a
// bounded (non-wrapping) area. Items are inserted by position and index, then
// nearby items can be queried via a 3x3 cell neighborhood lookup.
//
// Cell size must be >= the maximum query radius so that every item within
// the radius is found within the 3x3 neighborhood.
type SpatialGrid struct {
	cellSize    float64
	invCellSize float64 // 1 / cellSize (precomputed to avoid division)
	cols        int
	rows        int
	cells       []gridCell
}

// gridCell stores the indices of items that fall within a grid cell.
// The slice is reused between rebuilds (reset to [:0]) to avoid allocations.
type gridCell struct {
	items []int
}

// NewSpatialGrid creates a spatial grid covering the given area.
func NewSpatialGrid(width, height, cellSize float64) *SpatialGrid {
	g := &SpatialGrid{}
	g.Reset(width, height, cellSize)
	return g
}

// Reset resizes the grid for a new area and empties it. Cell storage is kept
// when the cell count does not change. Non-finite or negative sizes count as
// zero.
func (g *SpatialGrid) Reset(width, height, cellSize float64) {
	width, height = finiteSize(width), finiteSize(height)
	if !(cellSize > 0) || math.IsInf(cellSize, 0) {
		cellSize = 1
	}
	cellSize = max(cellSize, width/MaxGridCells, height/MaxGridCells,
		math.Sqrt(width/MaxGridCells)*math.Sqrt(height))
	cols, rows := gridDims(width, height, cellSize)
	for cols*rows > MaxGridCells {
		cellSize *= math.Sqrt(float64(cols) * float64(rows) / MaxGridCells)
		cols, rows = gridDims(width, height, cellSize)
	}

	g.cellSize = cellSize
	g.invCellSize = 1.0 / cellSize
	if cols*rows != len(g.cells) {
		g.cells = make([]gridCell, cols*rows)
	}
	g.cols = cols
	g.rows = rows
	g.Clear()
}

// Clear removes all items from the grid without deallocating cell memory.
func (g *SpatialGrid) Clear() {
	for i := range g.cells {
		g.cells[i].items = g.cells[i].items[:0]
	}
}

// Insert adds an item (identified by index) at the given position.
// Positions outside the area are stored in the nearest edge cell.
func (g *SpatialGrid) Insert(x, y float64, index int) {
	col, row := g.posToCell(x, y)
	idx := row*g.cols + col
	g.cells[idx].items = append(g.cells[idx].items, index)
}

// QueryAround calls fn for each item index in the 3x3 cell neighborhood
// around the given position. Cells past the grid edge are skipped.
// If fn returns true, iteration stops early (useful for "find first" queries).
func (g *SpatialGrid) QueryAround(x, y float64, fn func(index int) bool) {
	col, row := g.posToCell(x, y)

	for r := row - 1; r <= row+1; r++ {
		if r < 0 || r >= g.rows {
			continue
		}
		rowOffset := r * g.cols

		for c := col - 1; c <= col+1; c++ {
			if c < 0 || c >= g.cols {
				continue
			}
			for _, itemIdx := range g.cells[rowOffset+c].items {
				if fn(itemIdx) {
					return
				}
			}
		}
	}
}

// posToCell converts coordinates to grid cell coordinates.
// Clamps to valid range to handle out-of-area positions.
func (g *SpatialGrid) posToCell(x, y float64) (col, row int) {
	col = int(math.Floor(x * g.invCellSize))
	if col < 0 {
		col = 0
	} else if col >= g.cols {
		col = g.cols - 1
	}

	row = int(math.Floor(y * g.invCellSize))
	if row < 0 {
		row = 0
	} else if row >= g.rows {
		row = g.rows - 1
	}

	return col, row
}

func gridDims(width, height, cellSize float64) (cols, rows int) {
	cols = max(int(math.Ceil(width/cellSize)), 1)
	rows = max(int(math.Ceil(height/cellSize)), 1)
	return cols, rows
}

func finiteSize(v float64) float64 {
	if !(v > 0) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
