package render

import (
	"image"
	"image/color"
	"math/rand"

	"github.com/Garsondee/Chaos-Arena/internal/arena"
)

// Palette used by the procedural art.
var (
	colVoid      = color.RGBA{R: 8, G: 6, B: 14, A: 255}
	colVoidSpeck = color.RGBA{R: 24, G: 18, B: 40, A: 255}
	colFloor     = color.RGBA{R: 118, G: 104, B: 86, A: 255}
	colFloorEdge = color.RGBA{R: 84, G: 72, B: 58, A: 255}
	colFloorLite = color.RGBA{R: 146, G: 132, B: 110, A: 255}
	colCrack     = color.RGBA{R: 46, G: 38, B: 30, A: 255}

	colOutline = color.RGBA{R: 20, G: 20, B: 24, A: 255}
	colBody    = color.RGBA{R: 220, G: 220, B: 220, A: 255}
	colShade   = color.RGBA{R: 160, G: 160, B: 168, A: 255}
	colBlade   = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	colHurt    = color.RGBA{R: 255, G: 90, B: 70, A: 255}
)

// Tileset is the generated tile column and its stage mask. Cell s of both
// images sits at arena.TileSource(s).
type Tileset struct {
	Bitmap *image.RGBA
	Mask   *image.RGBA // alpha only; stage cells lose pixels as they crumble
	States int
}

// BuildTileset paints one cell per tile state for a hazard with the given
// number of crumble steps: void, intact floor, then each crumble stage.
func BuildTileset(steps int) Tileset {
	states := steps + 1
	ts := Tileset{
		Bitmap: image.NewRGBA(image.Rect(0, 0, arena.TileSize, states*arena.TileSize)),
		Mask:   image.NewRGBA(image.Rect(0, 0, arena.TileSize, states*arena.TileSize)),
		States: states,
	}
	rng := rand.New(rand.NewSource(int64(steps))) // #nosec G404 -- art noise only

	// The hole order is fixed so a later stage always contains the holes of
	// every earlier one.
	holes := rng.Perm(arena.TileSize * arena.TileSize)

	for s := 0; s < states; s++ {
		origin := arena.TileSource(arena.TileState(s))
		state := arena.TileState(s)
		for y := 0; y < arena.TileSize; y++ {
			for x := 0; x < arena.TileSize; x++ {
				p := origin.Add(image.Pt(x, y))
				if state == arena.TileVoid {
					c := colVoid
					if rng.Intn(23) == 0 {
						c = colVoidSpeck
					}
					ts.Bitmap.SetRGBA(p.X, p.Y, c)
					ts.Mask.SetRGBA(p.X, p.Y, color.RGBA{A: 255})
					continue
				}
				ts.Bitmap.SetRGBA(p.X, p.Y, floorPixel(x, y, state.Stage()))
				ts.Mask.SetRGBA(p.X, p.Y, color.RGBA{A: 255})
			}
		}
		if stage := state.Stage(); state != arena.TileVoid && stage > 0 {
			n := len(holes) * stage / (steps + 1)
			for _, h := range holes[:n] {
				ts.Mask.SetRGBA(origin.X+h%arena.TileSize, origin.Y+h/arena.TileSize, color.RGBA{})
			}
		}
	}
	return ts
}

func floorPixel(x, y, stage int) color.RGBA {
	switch {
	case x == 0 || y == 0:
		return colFloorLite
	case x == arena.TileSize-1 || y == arena.TileSize-1:
		return colFloorEdge
	}
	// Cracks spread diagonally from the centre as the tile decays.
	d := x - y
	if d < 0 {
		d = -d
	}
	if stage > 0 && d < stage/2+1 && (x+y)%3 != 0 {
		return colCrack
	}
	return colFloor
}

// ApplyMask returns bitmap with its alpha replaced by mask's alpha.
func ApplyMask(bitmap, mask *image.RGBA) *image.RGBA {
	out := image.NewRGBA(bitmap.Bounds())
	b := bitmap.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := bitmap.RGBAAt(x, y)
			if mask.RGBAAt(x, y).A == 0 {
				continue
			}
			out.SetRGBA(x, y, c)
		}
	}
	return out
}

// BuildWarriorSheet paints every frame listed by arena.FrameFor into one
// FrameWidth wide column. The figure is drawn in light greys so a per-slot
// colour scale can tint it.
func BuildWarriorSheet() *image.RGBA {
	sheet := image.NewRGBA(image.Rect(0, 0, arena.FrameWidth, arena.SheetFrames()*arena.FrameHeight))
	for f := arena.Facing(0); f < arena.FacingCount; f++ {
		for a := arena.Action(0); a < arena.ActionCount; a++ {
			for i := 0; i < arena.FrameCount(a); i++ {
				off := arena.FrameFor(f, a, i).Bitmap
				paintWarrior(sheet, off, f, a, i)
			}
		}
	}
	return sheet
}

// bladeReach is how far the weapon sticks out per attack frame.
var bladeReach = [4]int{2, 4, 7, 5}

func paintWarrior(dst *image.RGBA, off image.Point, f arena.Facing, a arena.Action, frame int) {
	set := func(x, y int, c color.RGBA) {
		if x < 0 || y < 0 || x >= arena.FrameWidth || y >= arena.FrameHeight {
			return
		}
		dst.SetRGBA(off.X+x, off.Y+y, c)
	}
	fill := func(x0, y0, x1, y1 int, c color.RGBA) {
		for y := y0; y <= y1; y++ {
			for x := x0; x <= x1; x++ {
				set(x, y, c)
			}
		}
	}

	body := colBody
	if a == arena.ActionHurt && frame%2 == 0 {
		body = colHurt
	}

	// Legs: alternate while walking.
	legShift := 0
	if a == arena.ActionWalk {
		legShift = frame*2 - 1
	}
	fill(5, 15, 6, 18+min(legShift, 0), colShade)
	fill(9, 15, 10, 18-max(legShift, 0), colShade)

	// Torso and head with a one-pixel outline.
	fill(4, 7, 11, 15, colOutline)
	fill(5, 8, 10, 14, body)
	fill(5, 1, 10, 6, colOutline)
	fill(6, 2, 9, 5, body)

	// Eyes show the facing.
	d := f.Delta()
	ex, ey := 7+d.X, 3+max(d.Y, 0)
	if d.Y >= 0 {
		set(ex, ey, colOutline)
		set(ex+1, ey, colOutline)
	}

	if a == arena.ActionFalling {
		fill(2, 2+frame, 3, 7, colShade)
		fill(12, 2+frame, 13, 7, colShade)
		return
	}

	reach := 3
	if a == arena.ActionAttack {
		reach = bladeReach[frame%len(bladeReach)]
	}
	cx, cy := 8, 11
	for i := 1; i <= reach; i++ {
		set(cx+d.X*(i+2), cy+d.Y*(i+2), colBlade)
	}
}

// SlotColor is the tint of a roster slot.
func SlotColor(slot int) color.RGBA {
	palette := []color.RGBA{
		{R: 230, G: 70, B: 60, A: 255},
		{R: 70, G: 120, B: 230, A: 255},
		{R: 80, G: 200, B: 90, A: 255},
		{R: 240, G: 200, B: 60, A: 255},
		{R: 200, G: 90, B: 220, A: 255},
		{R: 70, G: 210, B: 210, A: 255},
	}
	if slot >= 0 && slot < len(palette) {
		return palette[slot]
	}
	return color.RGBA{R: 150, G: 150, B: 150, A: 255}
}
