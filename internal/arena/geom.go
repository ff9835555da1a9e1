package arena

import "image"

const (
	TileSize = 16 // floor tile edge in pixels
	CellSize = 8  // occupancy cell edge in pixels, must be a power of two
	BoxSize  = 8  // combatant collision box edge in pixels

	FrameWidth  = 16
	FrameHeight = 19
)

// BobOffset is subtracted from a combatant's position to get the top-left
// of its sprite: the collision box sits centred under the bottom 8 rows.
var BobOffset = image.Pt((FrameWidth-BoxSize)/2, FrameHeight-BoxSize)

// TileCoord addresses a floor tile.
type TileCoord struct {
	X, Y int
}

// Facing is the 8-way compass direction a combatant looks at. The order
// matches the sprite sheet rows.
type Facing uint8

const (
	FacingS Facing = iota
	FacingSE
	FacingE
	FacingNE
	FacingN
	FacingNW
	FacingW
	FacingSW
	FacingCount
)

var facingDeltas = [FacingCount]image.Point{
	FacingS:  {0, 1},
	FacingSE: {1, 1},
	FacingE:  {1, 0},
	FacingNE: {1, -1},
	FacingN:  {0, -1},
	FacingNW: {-1, -1},
	FacingW:  {-1, 0},
	FacingSW: {-1, 1},
}

var facingNames = [FacingCount]string{"S", "SE", "E", "NE", "N", "NW", "W", "SW"}

func (f Facing) String() string {
	if f >= FacingCount {
		return "?"
	}
	return facingNames[f]
}

// Delta returns the unit step for the facing.
func (f Facing) Delta() image.Point {
	if f >= FacingCount {
		return image.Point{}
	}
	return facingDeltas[f]
}

// IsCardinal reports whether f is one of S, E, N, W.
func (f Facing) IsCardinal() bool {
	return f%2 == 0
}

// facingFromDelta maps a unit delta to a facing. ok is false for (0,0).
func facingFromDelta(dx, dy int) (f Facing, ok bool) {
	dx, dy = sign(dx), sign(dy)
	if dx == 0 && dy == 0 {
		return FacingS, false
	}
	for i, d := range facingDeltas {
		if d.X == dx && d.Y == dy {
			return Facing(i), true
		}
	}
	return FacingS, false
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

// floorDiv divides rounding toward negative infinity so that pixel
// coordinates left of or above the arena land in cell -1, not 0.
func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// boxesOverlap is the exact AABB test for two combatant boxes.
func boxesOverlap(a, b image.Point) bool {
	return a.X < b.X+BoxSize && b.X < a.X+BoxSize &&
		a.Y < b.Y+BoxSize && b.Y < a.Y+BoxSize
}

// boxContains reports whether point p lies inside the box at pos.
func boxContains(pos, p image.Point) bool {
	return p.X >= pos.X && p.X < pos.X+BoxSize &&
		p.Y >= pos.Y && p.Y < pos.Y+BoxSize
}
