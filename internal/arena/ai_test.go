package arena

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Garsondee/Chaos-Arena/internal/steer"
)

func TestAI_ScansCardinalsThenFires(t *testing.T) {
	ts, err := NewTestSim(
		WithLayoutRows(openFloor()...),
		WithCPU(0),
		WithCombatantAt(0, 80, 80),
		WithCombatantAt(1, 88, 80),
	)
	require.NoError(t, err)
	ai := ts.Combatant(0).ai
	require.NotNil(t, ai)

	// Tick 1 scans S, finds nothing, walks S along the hold.
	ts.RunTicks(1)
	assert.Equal(t, FacingE, ai.nextAttack, "scan advances two steps, skipping diagonals")
	assert.Equal(t, ActionWalk, ts.Combatant(0).Action())

	// Tick 2 scans E and finds P2.
	ts.RunTicks(1)
	assert.Equal(t, aiAttacking, ai.state)
	assert.Equal(t, FacingE, ts.Combatant(0).Facing())

	ts.RunTicks(1)
	assert.Equal(t, aiMoving, ai.state)
	assert.Equal(t, FacingE, ai.nextMove, "charges along the attack direction")
	assert.Equal(t, ActionAttack, ts.Combatant(0).Action())

	hit := ts.RunUntil(func(ts *TestSim) bool { return ts.Combatant(1).Action() == ActionHurt }, 20)
	assert.NotEqual(t, -1, hit, ts.Log.Format())
}

func TestAI_SilentWhenBusyOrCountingDown(t *testing.T) {
	ts, err := NewTestSim(WithCPU(0), WithTuning(func(tu *Tuning) { tu.CountdownTicks = 10 }))
	require.NoError(t, err)
	c := ts.Combatant(0)
	ai := c.ai
	assert.Equal(t, steer.DirNone, ai.Process(), "countdown")

	ts.Session.countdown = 0
	for _, a := range []Action{ActionAttack, ActionHurt, ActionFalling} {
		c.action = a
		assert.Equal(t, steer.DirNone, ai.Process(), a.String())
	}
	c.action = ActionIdle
	c.dead = true
	assert.Equal(t, steer.DirNone, ai.Process(), "dead")
}

func TestAI_RerollsCardinalWhenHoldExpires(t *testing.T) {
	ts, err := NewTestSim(
		WithLayoutRows(openFloor()...),
		WithCPU(0),
		WithBenched(1, 2, 3, 4, 5),
		WithCombatantAt(0, 100, 100),
	)
	require.NoError(t, err)
	ai := ts.Combatant(0).ai
	for i := 0; i < 40; i++ {
		ai.moveCooldown = 1
		assert.Equal(t, steer.DirNone, ai.Process(), "no output on the reroll tick")
		assert.True(t, ai.nextMove.IsCardinal(), "rolled %s", ai.nextMove)
		assert.Equal(t, ts.Session.tuning.AIMoveHold, ai.moveCooldown)
	}
}

func TestAI_TurnsAtLedge(t *testing.T) {
	rows := openFloor()
	rows[7] = strings.Repeat(".", 20)
	ts, err := NewTestSim(
		WithLayoutRows(rows...),
		WithCPU(0),
		WithBenched(1, 2, 3, 4, 5),
		WithCombatantAt(0, 100, 100),
	)
	require.NoError(t, err)
	ai := ts.Combatant(0).ai
	ai.nextMove = FacingN
	// Tile (6,5) is solid, so the first call keeps walking north.
	assert.Equal(t, steer.DirUp, ai.Process())

	ai.nextMove = FacingS
	ai.moveCooldown = 30
	// Tile (6,7) ahead is void: reroll instead of walking off.
	assert.Equal(t, steer.DirNone, ai.Process())
	assert.Equal(t, ts.Session.tuning.AIMoveHold, ai.moveCooldown)
}

func TestAI_CPUOnlyRoundEnds(t *testing.T) {
	ts, err := NewTestSim(
		WithCPU(0, 1, 2, 3, 4, 5),
		WithSeed(11),
		WithTuning(func(tu *Tuning) {
			tu.CrumbleClaimInterval = 5
			tu.CrumbleCooldown = 3
		}),
	)
	require.NoError(t, err)
	at := ts.RunUntil(func(ts *TestSim) bool { return ts.Session.RoundOver() }, 20000)
	require.NotEqual(t, -1, at, ts.Snapshot())
	assert.LessOrEqual(t, ts.Session.AliveCount(), 1)
}
