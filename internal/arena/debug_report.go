package arena

import (
	"fmt"
	"strings"
)

// DebugReport renders the session state as text for the clipboard or a
// terminal. lastTicks bounds the event excerpt; <= 0 means 150 ticks.
func (s *Session) DebugReport(lastTicks int) string {
	if lastTicks <= 0 {
		lastTicks = 150
	}
	toTick := s.tick
	fromTick := toTick - lastTicks + 1
	if fromTick < 0 {
		fromTick = 0
	}

	var b strings.Builder
	fmt.Fprintf(&b, "--- Chaos Arena debug report ---\n")
	fmt.Fprintf(&b, "layout=%s seed=%d tick=%d countdown=%d\n", s.layout.Name, s.cfg.Seed, s.tick, s.countdown)
	fmt.Fprintf(&b, "alive=%d players=%d last_alive=%s round_over=%v\n\n",
		s.AliveCount(), s.AlivePlayerCount(), winnerLabel(s.LastAliveSlot()), s.RoundOver())

	b.WriteString("== combatants ==\n")
	for i := range s.combatants {
		c := &s.combatants[i]
		cx, cy := CellOf(c.pos)
		state := c.action.String()
		if c.dead {
			state = "dead"
		}
		ctrl := c.mode.String()
		if named, ok := c.steer.Controller().(stateNamer); ok {
			ctrl += "/" + named.State()
		}
		fmt.Fprintf(&b, "%-3s %-7s %-8s pos=(%3d,%3d) cell=(%2d,%2d) face=%-2s frame=%d push=(%d,%d) rows=%d\n",
			c.label, ctrl, state, c.pos.X, c.pos.Y, cx, cy, c.facing, c.frame, c.push.X, c.push.Y, c.visible)
	}

	b.WriteString("\n== hazard ==\n")
	h := s.hazard
	fmt.Fprintf(&b, "claimed=%d/%d solid_tiles=%d redraws=%d pending=%d deferred=%d\n",
		h.Claimed(), len(h.Order()), h.SolidTiles(), h.RedrawsPushed(), h.queue.Len(), h.Deferred())
	for i, sl := range h.slots {
		if !sl.Active {
			continue
		}
		fmt.Fprintf(&b, "slot %d: tile=(%d,%d) stage=%d timer=%d waiting=%v\n",
			i, sl.Tile.X, sl.Tile.Y, h.State(sl.Tile.X, sl.Tile.Y).Stage(), sl.Timer, sl.Waiting)
	}

	b.WriteString("\n== occupancy ==\n")
	for _, oc := range s.grid.Occupied() {
		fmt.Fprintf(&b, "(%2d,%2d)=%s ", oc.X, oc.Y, SlotLabel(oc.Slot))
	}
	b.WriteByte('\n')

	events := s.log.FilterTickRange(fromTick, toTick)
	fmt.Fprintf(&b, "\n== events T=%d..%d ==\n", fromTick, toTick)
	if len(events) == 0 {
		b.WriteString("(none)\n")
	}
	b.WriteString(formatEvents(events))
	return b.String()
}

// stateNamer is a scripted controller that can name its current state.
type stateNamer interface {
	State() string
}

func winnerLabel(slot int) string {
	if slot == NoWinner {
		return "none"
	}
	return SlotLabel(slot)
}
