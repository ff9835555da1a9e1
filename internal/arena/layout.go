package arena

import (
	"errors"
	"fmt"
	"image"
	"sort"
	"strings"
)

// TileState is the decay state of one floor tile. Values between TileFloor
// and the terminal step are crumbling but still solid.
type TileState uint8

const (
	TileVoid  TileState = iota // nothing to stand on
	TileFloor                  // intact floor
)

// Stage returns how many decay steps the tile has taken, 0 for intact floor.
func (s TileState) Stage() int {
	if s == TileVoid {
		return 0
	}
	return int(s - TileFloor)
}

// IsSolid reports whether the state gives footing.
func (s TileState) IsSolid() bool {
	return s != TileVoid
}

// Layout glyphs.
const (
	glyphVoid  = '.'
	glyphFloor = '#'
	glyphSpawn = 'S' // floor tile that is also a spawn point
)

// ErrNoFloor is returned for layouts without a single floor tile.
var ErrNoFloor = errors.New("layout has no floor tiles")

// ErrUnknownLayout is returned by BuiltinLayout for names it does not know.
var ErrUnknownLayout = errors.New("unknown layout")

// Layout is a parsed static arena: the source tile grid and spawn points.
// It is never mutated after parsing.
type Layout struct {
	Name   string
	Width  int // in tiles
	Height int // in tiles
	tiles  []TileState
	Spawns []TileCoord
}

// ParseLayout builds a layout from rows of glyphs: '.' void, '#' floor,
// 'S' floor with a spawn point. All rows must have the same width.
func ParseLayout(name string, rows []string) (*Layout, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("layout %q: no rows", name)
	}
	w := len(rows[0])
	if w == 0 {
		return nil, fmt.Errorf("layout %q: empty first row", name)
	}
	l := &Layout{Name: name, Width: w, Height: len(rows), tiles: make([]TileState, w*len(rows))}
	floors := 0
	for y, row := range rows {
		if len(row) != w {
			return nil, fmt.Errorf("layout %q: row %d is %d wide, want %d", name, y, len(row), w)
		}
		for x := 0; x < w; x++ {
			switch row[x] {
			case glyphVoid:
			case glyphFloor:
				l.tiles[y*w+x] = TileFloor
				floors++
			case glyphSpawn:
				l.tiles[y*w+x] = TileFloor
				l.Spawns = append(l.Spawns, TileCoord{X: x, Y: y})
				floors++
			default:
				return nil, fmt.Errorf("layout %q: bad glyph %q at %d,%d", name, row[x], x, y)
			}
		}
	}
	if floors == 0 {
		return nil, fmt.Errorf("layout %q: %w", name, ErrNoFloor)
	}
	return l, nil
}

// At returns the source state of a tile; out of range is void.
func (l *Layout) At(x, y int) TileState {
	if x < 0 || y < 0 || x >= l.Width || y >= l.Height {
		return TileVoid
	}
	return l.tiles[y*l.Width+x]
}

// PixelSize returns the arena extent in pixels.
func (l *Layout) PixelSize() image.Point {
	return image.Pt(l.Width*TileSize, l.Height*TileSize)
}

// CrumbleOrder returns every floor tile sorted by descending squared
// distance from the arena centre. Equal distances keep row-major order.
func (l *Layout) CrumbleOrder() []TileCoord {
	var out []TileCoord
	for y := 0; y < l.Height; y++ {
		for x := 0; x < l.Width; x++ {
			if l.At(x, y) != TileVoid {
				out = append(out, TileCoord{X: x, Y: y})
			}
		}
	}
	// Doubled coordinates keep the centre of an even-sized grid integral.
	cx, cy := l.Width-1, l.Height-1
	dist := func(t TileCoord) int {
		dx := 2*t.X - cx
		dy := 2*t.Y - cy
		return dx*dx + dy*dy
	}
	sort.SliceStable(out, func(i, j int) bool {
		return dist(out[i]) > dist(out[j])
	})
	return out
}

// String renders the layout back to glyph rows.
func (l *Layout) String() string {
	spawn := make(map[TileCoord]bool, len(l.Spawns))
	for _, s := range l.Spawns {
		spawn[s] = true
	}
	var sb strings.Builder
	for y := 0; y < l.Height; y++ {
		for x := 0; x < l.Width; x++ {
			switch {
			case spawn[TileCoord{X: x, Y: y}]:
				sb.WriteByte(glyphSpawn)
			case l.At(x, y) != TileVoid:
				sb.WriteByte(glyphFloor)
			default:
				sb.WriteByte(glyphVoid)
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

var builtinLayouts = map[string][]string{
	"classic": {
		"....................",
		"....................",
		".##################.",
		".#S######S#######S#.",
		".####...####...####.",
		".####...####...####.",
		".####...####...####.",
		".##S######S#####S##.",
		".#########S########.",
		".####...####...####.",
		".####...####...####.",
		".####...####...####.",
		".#S######S#######S#.",
		".##################.",
		"....................",
		"....................",
	},
	"cross": {
		"....................",
		"......########......",
		"......##S##S##......",
		"......########......",
		"......########......",
		".##################.",
		".#S####S####S####S#.",
		".##################.",
		".##################.",
		".#S######..######S#.",
		".##################.",
		"......########......",
		"......##S##S##......",
		"......########......",
		"......########......",
		"....................",
	},
	"islands": {
		"....................",
		".######......######.",
		".#S##S#......#S##S#.",
		".######......######.",
		".######..##..######.",
		"...##....##....##...",
		"...##..######..##...",
		"...#####S##S#####...",
		"...##..######..##...",
		"...##....##....##...",
		".######..##..######.",
		".######......######.",
		".#S##S#......#S##S#.",
		".######......######.",
		"....................",
		"....................",
	},
}

// BuiltinLayoutNames lists the bundled layouts in sorted order.
func BuiltinLayoutNames() []string {
	names := make([]string, 0, len(builtinLayouts))
	for n := range builtinLayouts {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// BuiltinLayout parses one of the bundled layouts.
func BuiltinLayout(name string) (*Layout, error) {
	rows, ok := builtinLayouts[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownLayout, name)
	}
	return ParseLayout(name, rows)
}
