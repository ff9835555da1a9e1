// Package tty draws a session into a terminal with tcell. Each floor tile is
// two cells wide and one row high; a combatant is a letter on the cell under
// its box centre.
package tty

import (
	"fmt"
	"image"

	"github.com/gdamore/tcell/v2"

	"github.com/Garsondee/Chaos-Arena/internal/arena"
)

// cellsPerTile is how many terminal columns one tile spans.
const cellsPerTile = 2

var slotColors = []tcell.Color{
	tcell.ColorRed, tcell.ColorBlue, tcell.ColorGreen,
	tcell.ColorYellow, tcell.ColorFuchsia, tcell.ColorAqua,
}

// Terminal implements arena.Renderer and arena.Effects on a tcell screen.
type Terminal struct {
	screen tcell.Screen
	w, h   int // arena size in tiles
	steps  int

	// Tile states per buffer, recovered from the tileset offsets of blits.
	grids [2][]arena.TileState
	back  int

	bobs    []arena.Bob
	status  string
	flash   int
	commits int
}

// New wraps an initialised screen for a layout whose hazard uses steps
// crumble steps.
func New(screen tcell.Screen, layout *arena.Layout, steps int) *Terminal {
	t := &Terminal{screen: screen, w: layout.Width, h: layout.Height, steps: steps}
	for i := range t.grids {
		t.grids[i] = make([]arena.TileState, t.w*t.h)
	}
	return t
}

// SetStatus sets the line printed under the arena.
func (t *Terminal) SetStatus(s string) { t.status = s }

// Size returns the terminal area the arena needs, status line included.
func (t *Terminal) Size() (cols, rows int) { return t.w * cellsPerTile, t.h + 1 }

func (t *Terminal) set(dst arena.TileCoord, src image.Point, target arena.BufferTarget) {
	if dst.X < 0 || dst.Y < 0 || dst.X >= t.w || dst.Y >= t.h {
		return
	}
	s := arena.TileState(src.Y / arena.TileSize)
	i := dst.Y*t.w + dst.X
	if target == arena.TargetAll {
		t.grids[0][i], t.grids[1][i] = s, s
		return
	}
	t.grids[t.back][i] = s
}

// BlitTile records the tile state at dst.
func (t *Terminal) BlitTile(dst arena.TileCoord, src image.Point, target arena.BufferTarget) {
	t.set(dst, src, target)
}

// BlitTileMasked records a crumble stage at dst.
func (t *Terminal) BlitTileMasked(dst arena.TileCoord, src image.Point, target arena.BufferTarget) {
	t.set(dst, src, target)
}

// PushBob queues a combatant marker for the frame.
func (t *Terminal) PushBob(b arena.Bob) { t.bobs = append(t.bobs, b) }

// Thunder inverts the arena for a few frames.
func (t *Terminal) Thunder() { t.flash = 6 }

// CommitFrame draws the composed buffer and flips.
func (t *Terminal) CommitFrame() {
	t.draw(t.grids[t.back])
	t.bobs = t.bobs[:0]
	t.back ^= 1
	t.commits++
	if t.flash > 0 {
		t.flash--
	}
}

// TileGlyph returns the two cells drawn for a tile state.
func TileGlyph(s arena.TileState, steps int) (rune, tcell.Style) {
	base := tcell.StyleDefault.Background(tcell.ColorBlack)
	if s == arena.TileVoid {
		return ' ', base
	}
	switch st := s.Stage(); {
	case st == 0:
		return '█', base.Foreground(tcell.NewRGBColor(118, 104, 86))
	case st*3 < steps:
		return '▓', base.Foreground(tcell.NewRGBColor(110, 96, 78))
	case st*3 < 2*steps:
		return '▒', base.Foreground(tcell.NewRGBColor(96, 82, 66))
	default:
		return '░', base.Foreground(tcell.NewRGBColor(80, 68, 54))
	}
}

// BobGlyph returns the letter drawn for a combatant.
func BobGlyph(b arena.Bob) rune {
	label := arena.SlotLabel(b.Slot)
	r := rune(label[len(label)-1])
	switch b.Action {
	case arena.ActionAttack:
		return '*'
	case arena.ActionHurt:
		return '!'
	case arena.ActionFalling:
		return 'v'
	}
	return r
}

func (t *Terminal) draw(grid []arena.TileState) {
	invert := t.flash > 0
	for y := 0; y < t.h; y++ {
		for x := 0; x < t.w; x++ {
			r, st := TileGlyph(grid[y*t.w+x], t.steps)
			if invert {
				st = st.Reverse(true)
			}
			for c := 0; c < cellsPerTile; c++ {
				t.screen.SetContent(x*cellsPerTile+c, y, r, nil, st)
			}
		}
	}
	for _, b := range t.bobs {
		if !b.Visible {
			continue
		}
		centre := b.Pos.Add(arena.BobOffset).Add(image.Pt(arena.BoxSize/2, arena.BoxSize/2))
		cx := centre.X * cellsPerTile / arena.TileSize
		cy := centre.Y / arena.TileSize
		col := tcell.ColorWhite
		if b.Slot < len(slotColors) {
			col = slotColors[b.Slot]
		}
		t.screen.SetContent(cx, cy, BobGlyph(b), nil, tcell.StyleDefault.Foreground(col).Background(tcell.ColorBlack).Bold(true))
	}
	t.drawStatus()
	t.screen.Show()
}

// ShowStatus repaints only the status line, leaving the buffers untouched.
func (t *Terminal) ShowStatus() {
	t.drawStatus()
	t.screen.Show()
}

func (t *Terminal) drawStatus() {
	line := fmt.Sprintf("%-*s", t.w*cellsPerTile, t.status)
	for i, r := range []rune(line) {
		t.screen.SetContent(i, t.h, r, nil, tcell.StyleDefault)
	}
}
