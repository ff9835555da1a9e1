package arena

import (
	"fmt"
	"image"

	"github.com/Garsondee/Chaos-Arena/internal/steer"
)

// Action is the animation/state a combatant is in.
type Action uint8

const (
	ActionIdle Action = iota
	ActionWalk
	ActionAttack
	ActionHurt
	ActionFalling
	ActionCount
)

var actionNames = [ActionCount]string{"idle", "walk", "attack", "hurt", "falling"}

func (a Action) String() string {
	if a >= ActionCount {
		return "?"
	}
	return actionNames[a]
}

// FrameCount returns how many animation frames an action has.
func FrameCount(a Action) int {
	if a == ActionAttack || a == ActionHurt {
		return 4
	}
	return 2
}

// Sprite sheet layout: one FrameWidth x FrameHeight cell per frame, stacked
// vertically in facing, action, frame order. The mask sheet shares offsets.
var frameTable, sheetFrames = buildFrameTable()

func buildFrameTable() ([FacingCount][ActionCount][]FrameOffsets, int) {
	var t [FacingCount][ActionCount][]FrameOffsets
	idx := 0
	for f := Facing(0); f < FacingCount; f++ {
		for a := Action(0); a < ActionCount; a++ {
			for i := 0; i < FrameCount(a); i++ {
				p := image.Pt(0, idx*FrameHeight)
				t[f][a] = append(t[f][a], FrameOffsets{Bitmap: p, Mask: p})
				idx++
			}
		}
	}
	return t, idx
}

// SheetFrames returns how many frames the warrior sheet holds.
func SheetFrames() int {
	return sheetFrames
}

// FrameFor returns the sheet offsets of one frame. Out-of-range frames
// clamp to the last frame of the action.
func FrameFor(f Facing, a Action, frame int) FrameOffsets {
	if f >= FacingCount || a >= ActionCount {
		return FrameOffsets{}
	}
	frames := frameTable[f][a]
	if frame < 0 {
		frame = 0
	}
	if frame >= len(frames) {
		frame = len(frames) - 1
	}
	return frames[frame]
}

// Combatant is one warrior in the arena.
type Combatant struct {
	slot  int
	label string
	mode  steer.Mode
	human bool
	steer steer.Steer
	ai    *AI

	pos           image.Point // top-left of the collision box
	action        Action
	facing        Facing
	frame         int
	frameCooldown int
	push          image.Point // per-tick displacement during attack lunge or knockback
	struck        bool        // strike already resolved this attack
	dead          bool
	visible       int // sprite rows drawn, shrinks while falling behind a ledge
	ledgeRow      int // first tile row a fall can be clipped against
	bob           Bob
}

// SlotLabel names a slot in logs and reports.
func SlotLabel(slot int) string {
	if slot < PlayerSlots {
		return fmt.Sprintf("P%d", slot+1)
	}
	return fmt.Sprintf("X%d", slot-PlayerSlots+1)
}

func (c *Combatant) Slot() int { return c.slot }

func (c *Combatant) Label() string { return c.label }

func (c *Combatant) Mode() steer.Mode { return c.mode }

// IsHuman reports whether a player device drives the combatant.
func (c *Combatant) IsHuman() bool { return c.human }

func (c *Combatant) Pos() image.Point { return c.pos }

// RenderPos returns the top-left of the sprite.
func (c *Combatant) RenderPos() image.Point { return c.pos.Sub(BobOffset) }

func (c *Combatant) Action() Action { return c.action }

func (c *Combatant) Facing() Facing { return c.facing }

func (c *Combatant) Frame() int { return c.frame }

func (c *Combatant) Push() image.Point { return c.push }

func (c *Combatant) IsDead() bool { return c.dead }

// Steer exposes the combatant's input state.
func (c *Combatant) Steer() *steer.Steer { return &c.steer }

// Bob returns the draw request built on the last tick.
func (c *Combatant) Bob() Bob { return c.bob }

// Center returns the centre of the collision box.
func (c *Combatant) Center() image.Point {
	return c.pos.Add(image.Pt(BoxSize/2, BoxSize/2))
}

// setAction switches action and restarts its animation only on change.
func (c *Combatant) setAction(a Action, cooldown int) {
	if c.action == a {
		return
	}
	c.startAction(a, cooldown)
}

// startAction always restarts the animation.
func (c *Combatant) startAction(a Action, cooldown int) {
	c.action = a
	c.frame = 0
	c.frameCooldown = cooldown
	c.updateFrame()
}

// advanceFrame counts down the frame timer and wraps the animation.
func (c *Combatant) advanceFrame(cooldown int) {
	if c.frameCooldown > 0 {
		c.frameCooldown--
		return
	}
	c.frame++
	if c.frame >= FrameCount(c.action) {
		c.frame = 0
	}
	c.frameCooldown = cooldown
	c.updateFrame()
}

func (c *Combatant) updateFrame() {
	c.bob.Frame = FrameFor(c.facing, c.action, c.frame)
	c.bob.Facing = c.facing
	c.bob.Action = c.action
}

// lastFrame reports whether the current action is on its final frame.
func (c *Combatant) lastFrame() bool {
	return c.frame >= FrameCount(c.action)-1
}
