package arena

import "image"

// NoSlot marks an empty occupancy cell.
const NoSlot = -1

// OccupancyGrid maps each CellSize lookup cell to the slot of the combatant
// whose box top-left lies in it. At most one combatant owns a cell.
type OccupancyGrid struct {
	w, h  int
	cells []int
}

// NewOccupancyGrid creates an empty w x h cell grid.
func NewOccupancyGrid(w, h int) *OccupancyGrid {
	g := &OccupancyGrid{w: w, h: h, cells: make([]int, w*h)}
	g.Clear()
	return g
}

// Size returns the grid extent in cells.
func (g *OccupancyGrid) Size() (w, h int) {
	return g.w, g.h
}

// Clear empties every cell.
func (g *OccupancyGrid) Clear() {
	for i := range g.cells {
		g.cells[i] = NoSlot
	}
}

// At returns the slot owning cell (cx, cy), or NoSlot. Out of range is empty.
func (g *OccupancyGrid) At(cx, cy int) int {
	if cx < 0 || cy < 0 || cx >= g.w || cy >= g.h {
		return NoSlot
	}
	return g.cells[cy*g.w+cx]
}

// Set stores slot in the cell; it returns false when out of range.
func (g *OccupancyGrid) Set(cx, cy, slot int) bool {
	if cx < 0 || cy < 0 || cx >= g.w || cy >= g.h {
		return false
	}
	g.cells[cy*g.w+cx] = slot
	return true
}

// CellOf returns the cell holding pixel position p.
func CellOf(p image.Point) (cx, cy int) {
	return floorDiv(p.X, CellSize), floorDiv(p.Y, CellSize)
}

// OccupiedCell is one owned cell.
type OccupiedCell struct {
	X, Y int
	Slot int
}

// Occupied lists owned cells in row-major order.
func (g *OccupancyGrid) Occupied() []OccupiedCell {
	var out []OccupiedCell
	for i, s := range g.cells {
		if s != NoSlot {
			out = append(out, OccupiedCell{X: i % g.w, Y: i / g.w, Slot: s})
		}
	}
	return out
}
