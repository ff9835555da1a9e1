package arena

import (
	"fmt"
	"image"

	"github.com/Garsondee/Chaos-Arena/internal/steer"
)

// process runs one combatant through steering, state, movement, strike and
// animation for this tick.
func (s *Session) process(c *Combatant) {
	if c.dead {
		return
	}
	c.steer.Process()

	switch {
	case s.countdown > 0:
		// Frozen until the round starts; only animate.
	case c.action == ActionFalling:
		s.processFalling(c)
		if c.dead {
			return
		}
	case c.action == ActionHurt && !c.lastFrame():
		s.tryMoveBy(c, c.push.X, c.push.Y)
	case c.action == ActionAttack && !c.lastFrame():
		if c.push != (image.Point{}) {
			s.tryMoveBy(c, c.push.X, c.push.Y)
		}
		if c.frame == FrameCount(ActionAttack)-2 && !c.struck {
			c.struck = true
			s.resolveStrike(c)
		}
	default:
		s.processInput(c)
	}

	c.advanceFrame(s.tuning.FrameCooldown)
}

// processInput handles an idle or walking combatant, or one whose attack or
// hurt animation reached its final frame.
func (s *Session) processInput(c *Combatant) {
	if !s.hasFooting(c) {
		s.startFalling(c)
		return
	}

	if c.steer.Check(steer.DirFire) {
		c.push = c.facing.Delta()
		c.struck = false
		c.startAction(ActionAttack, s.tuning.FrameCooldown)
		return
	}

	dx, dy := 0, 0
	if c.steer.Check(steer.DirUp) {
		dy--
	}
	if c.steer.Check(steer.DirDown) {
		dy++
	}
	if c.steer.Check(steer.DirLeft) {
		dx--
	}
	if c.steer.Check(steer.DirRight) {
		dx++
	}
	f, ok := facingFromDelta(dx, dy)
	if !ok {
		c.push = image.Point{}
		c.setAction(ActionIdle, s.tuning.FrameCooldown)
		return
	}
	c.facing = f
	c.push = image.Point{}
	c.setAction(ActionWalk, s.tuning.FrameCooldown)
	s.tryMoveBy(c, dx, dy)
}

// hasFooting samples the box's top-left and bottom-right corners; either
// one on a solid tile keeps the combatant up.
func (s *Session) hasFooting(c *Combatant) bool {
	tl := c.pos
	br := c.pos.Add(image.Pt(BoxSize-1, BoxSize-1))
	return s.hazard.IsSolidAt(tl.X, tl.Y) || s.hazard.IsSolidAt(br.X, br.Y)
}

func (s *Session) startFalling(c *Combatant) {
	s.vacate(c)
	c.push = image.Point{}
	// Tiles level with the box top are beside the feet, not below them.
	c.ledgeRow = floorDiv(c.pos.Y, TileSize) + 1
	c.startAction(ActionFalling, s.tuning.FrameCooldown)
	s.audio.PlaySfx(CueFall, SfxChannel, SfxVolume, PriorityFall)
	s.log.Add(s.tick, c.label, CatState, "fall", fmt.Sprintf("at %d,%d", c.pos.X, c.pos.Y))
}

// processFalling drops the combatant and clips its sprite against the first
// solid tile below, which is drawn in front of it.
func (s *Session) processFalling(c *Combatant) {
	c.pos.Y += s.tuning.FallStep
	if c.pos.Y >= s.pixels.Y {
		c.visible = 0
		s.die(c, "left the arena")
		return
	}
	c.visible = s.visibleRows(c)
	if c.visible <= 0 {
		s.die(c, "fell behind a ledge")
		return
	}
	s.syncBob(c)
}

// visibleRows returns how many sprite rows remain above the nearest solid
// tile edge below the row the fall started in.
func (s *Session) visibleRows(c *Combatant) int {
	top := c.RenderPos().Y
	tx := floorDiv(c.Center().X, TileSize)
	for ty := c.ledgeRow; ty < s.layout.Height; ty++ {
		if !s.hazard.IsSolid(tx, ty) {
			continue
		}
		rows := ty*TileSize - top
		if rows > FrameHeight {
			rows = FrameHeight
		}
		return rows
	}
	return FrameHeight
}

func (s *Session) die(c *Combatant, why string) {
	c.dead = true
	s.syncBob(c)
	s.log.Add(s.tick, c.label, CatState, "dead", why)
	if c.human && s.cfg.Thunders {
		s.effects.Thunder()
	}
}

// StrikeTarget returns the combatant a strike from c facing f would hit, or
// nil. The strike point lies one cell beyond the box centre; only the cell
// holding it and its left, upper and upper-left neighbours can own a box
// covering it.
func (s *Session) StrikeTarget(c *Combatant, f Facing) *Combatant {
	p := c.Center().Add(f.Delta().Mul(CellSize))
	cx, cy := CellOf(p)
	cells := [4]image.Point{{cx, cy}, {cx - 1, cy}, {cx, cy - 1}, {cx - 1, cy - 1}}
	for _, cell := range cells {
		slot := s.grid.At(cell.X, cell.Y)
		if slot == NoSlot || slot == c.slot {
			continue
		}
		t := &s.combatants[slot]
		if t.dead || t.action == ActionFalling {
			continue
		}
		if boxContains(t.pos, p) {
			return t
		}
	}
	return nil
}

// resolveStrike applies c's swing to at most one target.
func (s *Session) resolveStrike(c *Combatant) {
	t := s.StrikeTarget(c, c.facing)
	if t == nil {
		s.audio.PlaySfx(CueSwipe, SfxChannel, SfxVolume, PrioritySwipe)
		s.log.AddVerbose(s.tick, c.label, CatStrike, "miss", c.facing.String())
		return
	}
	t.push = c.facing.Delta()
	t.startAction(ActionHurt, s.tuning.FrameCooldown)
	s.audio.PlaySfx(CueHit, SfxChannel, SfxVolume, PriorityHit)
	s.log.Add(s.tick, c.label, CatStrike, "hit", fmt.Sprintf("%s pushed %s", t.label, c.facing))
}
