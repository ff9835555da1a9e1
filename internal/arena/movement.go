package arena

import (
	"fmt"
	"image"
)

// tryMoveBy moves c by at most one pixel per axis, X first. Each axis is
// accepted only if the box stays inside the arena and does not overlap a
// live combatant ahead of it. Returns whether c moved.
func (s *Session) tryMoveBy(c *Combatant, dx, dy int) bool {
	dx, dy = sign(dx), sign(dy)
	old := c.pos
	moved := false

	if dx != 0 {
		next := image.Pt(c.pos.X+dx, c.pos.Y)
		if s.inBounds(next) && s.blockerX(c, next, dx) == nil {
			c.pos = next
			moved = true
		}
	}
	if dy != 0 {
		next := image.Pt(c.pos.X, c.pos.Y+dy)
		if s.inBounds(next) && s.blockerY(c, next, dy) == nil {
			c.pos = next
			moved = true
		}
	}
	if !moved {
		return false
	}
	s.syncBob(c)
	s.reassignCell(c, old)
	s.log.AddVerbose(s.tick, c.label, CatState, "move", fmt.Sprintf("(%d,%d)", c.pos.X, c.pos.Y))
	return true
}

func (s *Session) inBounds(p image.Point) bool {
	return p.X >= 0 && p.Y >= 0 && p.X+BoxSize <= s.pixels.X && p.Y+BoxSize <= s.pixels.Y
}

// blockerX returns the combatant that the box at next would hit moving
// horizontally. Candidates are those whose top-left lies in the band the
// box sweeps into: x in (old.X, next.X+Box) going right, mirrored going
// left, and within a box height either side vertically.
func (s *Session) blockerX(c *Combatant, next image.Point, dx int) *Combatant {
	var x0, x1 int
	if dx > 0 {
		x0, x1 = c.pos.X+1, next.X+BoxSize-1
	} else {
		x0, x1 = next.X-BoxSize+1, c.pos.X-1
	}
	return s.blockerIn(c, next, x0, x1, next.Y-BoxSize+1, next.Y+BoxSize-1)
}

// blockerY is blockerX for vertical moves.
func (s *Session) blockerY(c *Combatant, next image.Point, dy int) *Combatant {
	var y0, y1 int
	if dy > 0 {
		y0, y1 = c.pos.Y+1, next.Y+BoxSize-1
	} else {
		y0, y1 = next.Y-BoxSize+1, c.pos.Y-1
	}
	return s.blockerIn(c, next, next.X-BoxSize+1, next.X+BoxSize-1, y0, y1)
}

// blockerIn scans the lookup cells covering the pixel band [x0,x1]x[y0,y1]
// and returns the first live combatant whose box overlaps the box at next.
func (s *Session) blockerIn(c *Combatant, next image.Point, x0, x1, y0, y1 int) *Combatant {
	for cy := floorDiv(y0, CellSize); cy <= floorDiv(y1, CellSize); cy++ {
		for cx := floorDiv(x0, CellSize); cx <= floorDiv(x1, CellSize); cx++ {
			slot := s.grid.At(cx, cy)
			if slot == NoSlot || slot == c.slot {
				continue
			}
			o := &s.combatants[slot]
			if o.dead || o.action == ActionFalling {
				continue
			}
			if boxesOverlap(next, o.pos) {
				return o
			}
		}
	}
	return nil
}

// reassignCell moves c's lookup entry from the cell of old to its current
// cell, clearing before claiming.
func (s *Session) reassignCell(c *Combatant, old image.Point) {
	ox, oy := CellOf(old)
	nx, ny := CellOf(c.pos)
	if ox == nx && oy == ny {
		return
	}
	if owner := s.grid.At(ox, oy); owner == c.slot {
		s.grid.Set(ox, oy, NoSlot)
	} else {
		s.log.Add(s.tick, c.label, CatInvariant, "stale_occupant",
			fmt.Sprintf("cell %d,%d held by %s", ox, oy, ownerLabel(owner)))
	}
	if owner := s.grid.At(nx, ny); owner != NoSlot {
		s.log.Add(s.tick, c.label, CatInvariant, "double_claim",
			fmt.Sprintf("cell %d,%d held by %s", nx, ny, SlotLabel(owner)))
	}
	s.grid.Set(nx, ny, c.slot)
}

// vacate releases c's lookup cell when it leaves play.
func (s *Session) vacate(c *Combatant) {
	cx, cy := CellOf(c.pos)
	owner := s.grid.At(cx, cy)
	if owner == c.slot {
		s.grid.Set(cx, cy, NoSlot)
		return
	}
	s.log.Add(s.tick, c.label, CatInvariant, "stale_occupant",
		fmt.Sprintf("cell %d,%d held by %s on vacate", cx, cy, ownerLabel(owner)))
}

func ownerLabel(slot int) string {
	if slot == NoSlot {
		return "nobody"
	}
	return SlotLabel(slot)
}

// syncBob copies position and visibility into the draw request and reports
// sprites leaving the display area.
func (s *Session) syncBob(c *Combatant) {
	rp := c.RenderPos()
	c.bob.Pos = rp
	c.bob.Height = c.visible
	c.bob.Visible = !c.dead && c.visible > 0
	if rp.X < -FrameWidth || rp.Y < -FrameHeight || rp.X > s.pixels.X || rp.Y > s.pixels.Y {
		s.log.Add(s.tick, c.label, CatInvariant, "display_bounds",
			fmt.Sprintf("sprite at %d,%d", rp.X, rp.Y))
		c.bob.Pos = image.Pt(
			min(max(rp.X, -FrameWidth), s.pixels.X),
			min(max(rp.Y, -FrameHeight), s.pixels.Y),
		)
	}
}
