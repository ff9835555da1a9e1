// Package render draws a session with ebiten: tile buffers, bobs, the thunder
// flash and the debug overlays.
package render

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/Garsondee/Chaos-Arena/internal/arena"
)

// thunderTicks is how long one flash lasts.
const thunderTicks = 12

type tileBlit struct {
	dst    arena.TileCoord
	src    image.Point
	masked bool
}

// Screen is a double-buffered arena display. Tile blits accumulate per
// buffer and are replayed into the ebiten images on Draw; bobs are composed
// on top of the front buffer each frame.
//
// It implements arena.Renderer and arena.Effects.
type Screen struct {
	size  image.Point
	steps int

	buffers [2]*ebiten.Image
	pending [2][]tileBlit
	back    int

	building []arena.Bob // bobs pushed for the frame being composed
	shown    []arena.Bob // bobs of the last committed frame
	frames   int

	flash int

	tiles  *ebiten.Image
	masked *ebiten.Image
	sheet  *ebiten.Image
}

// NewScreen creates a display for a layout whose hazard uses steps crumble
// steps. Images are created on the first Draw.
func NewScreen(layout *arena.Layout, steps int) *Screen {
	return &Screen{size: layout.PixelSize(), steps: steps}
}

// Size returns the arena size in pixels.
func (s *Screen) Size() image.Point { return s.size }

// BlitTile queues an opaque tile copy.
func (s *Screen) BlitTile(dst arena.TileCoord, src image.Point, target arena.BufferTarget) {
	s.queue(tileBlit{dst: dst, src: src}, target)
}

// BlitTileMasked queues a tile overlay drawn through the stage mask.
func (s *Screen) BlitTileMasked(dst arena.TileCoord, src image.Point, target arena.BufferTarget) {
	s.queue(tileBlit{dst: dst, src: src, masked: true}, target)
}

func (s *Screen) queue(b tileBlit, target arena.BufferTarget) {
	if target == arena.TargetAll {
		s.pending[0] = append(s.pending[0], b)
		s.pending[1] = append(s.pending[1], b)
		return
	}
	s.pending[s.back] = append(s.pending[s.back], b)
}

// PushBob adds a sprite to the frame being composed.
func (s *Screen) PushBob(b arena.Bob) {
	s.building = append(s.building, b)
}

// CommitFrame publishes the composed frame and flips buffers.
func (s *Screen) CommitFrame() {
	s.shown, s.building = s.building, s.shown[:0]
	s.back ^= 1
	s.frames++
	if s.flash > 0 {
		s.flash--
	}
}

// Thunder starts a full-screen flash.
func (s *Screen) Thunder() {
	s.flash = thunderTicks
}

// Flashing reports whether a thunder flash is on screen.
func (s *Screen) Flashing() bool { return s.flash > 0 }

// Frames returns how many frames were committed.
func (s *Screen) Frames() int { return s.frames }

// Shown returns the bobs of the last committed frame in draw order.
func (s *Screen) Shown() []arena.Bob { return s.shown }

// Front returns the index of the buffer on display.
func (s *Screen) Front() int { return s.back ^ 1 }

func (s *Screen) ensureImages() {
	if s.tiles != nil {
		return
	}
	ts := BuildTileset(s.steps)
	s.tiles = ebiten.NewImageFromImage(ts.Bitmap)
	s.masked = ebiten.NewImageFromImage(ApplyMask(ts.Bitmap, ts.Mask))
	s.sheet = ebiten.NewImageFromImage(BuildWarriorSheet())
	for i := range s.buffers {
		s.buffers[i] = ebiten.NewImage(s.size.X, s.size.Y)
	}
}

func (s *Screen) flush(i int) {
	for _, b := range s.pending[i] {
		src := s.tiles
		opts := &ebiten.DrawImageOptions{Blend: ebiten.BlendCopy}
		if b.masked {
			src = s.masked
			opts.Blend = ebiten.BlendSourceOver
		}
		r := image.Rect(b.src.X, b.src.Y, b.src.X+arena.TileSize, b.src.Y+arena.TileSize)
		opts.GeoM.Translate(float64(b.dst.X*arena.TileSize), float64(b.dst.Y*arena.TileSize))
		s.buffers[i].DrawImage(src.SubImage(r).(*ebiten.Image), opts)
	}
	s.pending[i] = s.pending[i][:0]
}

// Draw renders the front buffer and the committed bobs at (ox, oy).
func (s *Screen) Draw(dst *ebiten.Image, ox, oy int) {
	s.ensureImages()
	s.flush(0)
	s.flush(1)

	opts := &ebiten.DrawImageOptions{}
	opts.GeoM.Translate(float64(ox), float64(oy))
	dst.DrawImage(s.buffers[s.Front()], opts)

	for _, b := range s.shown {
		if !b.Visible || b.Height <= 0 {
			continue
		}
		src := image.Rect(b.Frame.Bitmap.X, b.Frame.Bitmap.Y, b.Frame.Bitmap.X+b.Width, b.Frame.Bitmap.Y+b.Height)
		bo := &ebiten.DrawImageOptions{}
		bo.GeoM.Translate(float64(ox+b.Pos.X), float64(oy+b.Pos.Y))
		bo.ColorScale.ScaleWithColor(SlotColor(b.Slot))
		dst.DrawImage(s.sheet.SubImage(src).(*ebiten.Image), bo)
	}

	if s.flash > 0 {
		a := uint8(200 * s.flash / thunderTicks)
		vector.FillRect(dst, float32(ox), float32(oy), float32(s.size.X), float32(s.size.Y),
			color.RGBA{R: a, G: a, B: a, A: a}, false)
	}
}

// DrawOccupancy outlines every occupied lookup cell.
func DrawOccupancy(dst *ebiten.Image, ox, oy int, cells []arena.OccupiedCell) {
	for _, c := range cells {
		col := SlotColor(c.Slot)
		vector.StrokeRect(dst,
			float32(ox+c.X*arena.CellSize), float32(oy+c.Y*arena.CellSize),
			arena.CellSize, arena.CellSize, 1, col, false)
	}
}
