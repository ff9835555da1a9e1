package arena

import "github.com/Garsondee/Chaos-Arena/internal/steer"

type aiState uint8

const (
	aiMoving aiState = iota
	aiAttacking
)

func (st aiState) String() string {
	if st == aiAttacking {
		return "attacking"
	}
	return "moving"
}

var facingToSteer = [FacingCount]steer.Direction{
	FacingS:  steer.DirDown,
	FacingSE: steer.DirDown,
	FacingE:  steer.DirRight,
	FacingNE: steer.DirRight,
	FacingN:  steer.DirUp,
	FacingNW: steer.DirUp,
	FacingW:  steer.DirLeft,
	FacingSW: steer.DirLeft,
}

// AI is the scripted opponent: it scans the four cardinal directions one
// per tick for something to hit and otherwise wanders, turning at ledges or
// when its movement hold runs out.
type AI struct {
	s     *Session
	c     *Combatant
	state aiState

	nextAttack   Facing // scan pointer, cardinal only
	nextMove     Facing // travel direction
	moveCooldown int
}

func newAI(s *Session, c *Combatant) *AI {
	return &AI{
		s:            s,
		c:            c,
		nextAttack:   FacingS,
		nextMove:     FacingS,
		moveCooldown: s.tuning.AIMoveHold,
	}
}

// Process implements steer.Controller.
func (ai *AI) Process() steer.Direction {
	if ai.s.CountdownActive() {
		return steer.DirNone
	}
	if ai.c.dead || ai.c.action > ActionWalk {
		return steer.DirNone
	}

	switch ai.state {
	case aiMoving:
		// Scan while walking or the warrior would stop every other tick.
		if ai.s.StrikeTarget(ai.c, ai.nextAttack) != nil {
			ai.state = aiAttacking
			return facingToSteer[ai.nextAttack]
		}
		ai.nextAttack += 2
		if ai.nextAttack >= FacingCount {
			ai.nextAttack = FacingS
		}

		d := ai.nextMove.Delta()
		tile := TileCoord{X: floorDiv(ai.c.pos.X, TileSize) + d.X, Y: floorDiv(ai.c.pos.Y, TileSize) + d.Y}
		ai.moveCooldown--
		if ai.moveCooldown <= 0 || !ai.s.IsSolid(tile.X, tile.Y) {
			// Even facings only, so the wander never goes diagonal.
			ai.nextMove = Facing(ai.s.rng.Intn(int(FacingCount)/2) * 2)
			ai.moveCooldown = ai.s.tuning.AIMoveHold
			return steer.DirNone
		}
		return facingToSteer[ai.nextMove]
	case aiAttacking:
		ai.state = aiMoving
		ai.nextMove = ai.nextAttack
		ai.moveCooldown = ai.s.tuning.AIMoveHold
		return steer.DirFire
	}
	return steer.DirNone
}

// State names the controller state for reports.
func (ai *AI) State() string {
	return ai.state.String()
}
