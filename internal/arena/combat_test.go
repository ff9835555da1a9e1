package arena

import (
	"image"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Garsondee/Chaos-Arena/internal/steer"
)

func TestStrike_HitsAdjacentOnPenultimateFrame(t *testing.T) {
	ts, err := NewTestSim(
		WithLayoutRows(openFloor()...),
		WithScripted(0),
		WithCombatantAt(0, 80, 80),
		WithCombatantAt(1, 88, 80),
		WithCombatantAt(2, 88, 96),
		WithFacing(0, FacingE),
	)
	require.NoError(t, err)
	a, b, c := ts.Combatant(0), ts.Combatant(1), ts.Combatant(2)

	ts.Hold(0, steer.DirFire)
	ts.RunTicks(1)
	require.Equal(t, ActionAttack, a.Action())
	assert.Equal(t, image.Pt(1, 0), a.Push())

	hitAt := ts.RunUntil(func(ts *TestSim) bool {
		return b.Action() == ActionHurt
	}, 40)
	require.NotEqual(t, -1, hitAt, ts.Log.Format())
	assert.Equal(t, 13, hitAt, "frame 2 starts after 1+5+6 ticks")
	assert.Equal(t, 2, a.Frame())
	assert.Equal(t, image.Pt(1, 0), b.Push(), "knockback follows attacker facing")
	assert.Equal(t, ActionIdle, c.Action(), "one strike, one target")
	assert.Equal(t, 1, ts.Audio.Count(CueHit))

	ts.Release(0)
	ts.RunTicks(30)
	assert.Equal(t, 1, ts.Log.Count(CatStrike, "hit"), "a swing strikes once")
	assert.Greater(t, b.Pos().X, 88, "knocked back east")
	assert.Equal(t, 80, b.Pos().Y)
	checkGridInvariant(t, ts)
}

func TestStrike_MissPlaysSwipe(t *testing.T) {
	ts, err := NewTestSim(
		WithLayoutRows(openFloor()...),
		WithScripted(0),
		WithCombatantAt(0, 80, 80),
	)
	require.NoError(t, err)
	ts.Hold(0, steer.DirFire)
	ts.RunTicks(14)
	ts.Release(0)

	assert.Equal(t, 1, ts.Audio.Count(CueSwipe))
	assert.Zero(t, ts.Audio.Count(CueHit))
	for _, c := range ts.Session.Combatants()[1:] {
		assert.NotEqual(t, ActionHurt, c.Action(), c.Label())
	}
}

func TestStrikeTarget_IgnoresSelfDeadAndFalling(t *testing.T) {
	ts, err := NewTestSim(
		WithLayoutRows(openFloor()...),
		WithCombatantAt(0, 80, 80),
		WithCombatantAt(1, 80, 88),
	)
	require.NoError(t, err)
	s := ts.Session
	a, b := ts.Combatant(0), ts.Combatant(1)

	assert.Same(t, b, s.StrikeTarget(a, FacingS))
	assert.Nil(t, s.StrikeTarget(a, FacingN))
	assert.Nil(t, s.StrikeTarget(a, FacingE))

	b.action = ActionFalling
	assert.Nil(t, s.StrikeTarget(a, FacingS))
	b.action = ActionIdle
	b.dead = true
	assert.Nil(t, s.StrikeTarget(a, FacingS))
}

func TestStrikeTarget_DiagonalReach(t *testing.T) {
	ts, err := NewTestSim(
		WithLayoutRows(openFloor()...),
		WithCombatantAt(0, 80, 80),
		WithCombatantAt(1, 90, 90),
	)
	require.NoError(t, err)
	// Strike point (92,92) lies in B's box [90,98).
	assert.Same(t, ts.Combatant(1), ts.Session.StrikeTarget(ts.Combatant(0), FacingSE))
	assert.Nil(t, ts.Session.StrikeTarget(ts.Combatant(0), FacingSW))
}

func TestHurt_ReturnsToInputOnFinalFrame(t *testing.T) {
	ts, err := NewTestSim(
		WithLayoutRows(openFloor()...),
		WithScripted(1),
		WithCombatantAt(1, 100, 100),
	)
	require.NoError(t, err)
	b := ts.Combatant(1)
	b.push = image.Pt(-1, 0)
	b.startAction(ActionHurt, ts.Session.tuning.FrameCooldown)

	ts.Hold(1, steer.DirUp)
	ts.RunUntil(func(ts *TestSim) bool { return b.Frame() == FrameCount(ActionHurt)-1 }, 40)
	assert.Equal(t, ActionHurt, b.Action())
	assert.Less(t, b.Pos().X, 100, "knockback applied while hurt")
	assert.Equal(t, 100, b.Pos().Y, "input ignored while hurt")

	ts.RunTicks(1)
	assert.Equal(t, ActionWalk, b.Action())
	assert.Equal(t, 99, b.Pos().Y)
}

func TestFall_ClipsThenDiesBehindLedge(t *testing.T) {
	rows := openFloor()
	rows[5] = "#####.##############"
	ts, err := NewTestSim(
		WithLayoutRows(rows...),
		WithScripted(0),
		WithCombatantAt(0, 84, 84),
	)
	require.NoError(t, err)
	a := ts.Combatant(0)
	before := ts.Session.AliveCount()

	ts.RunTicks(1)
	require.Equal(t, ActionFalling, a.Action())
	assert.Equal(t, 1, ts.Audio.Count(CueFall))
	for _, oc := range ts.Session.OccupiedCells() {
		assert.NotEqual(t, 0, oc.Slot, "airborne combatants leave the grid")
	}

	ts.RunTicks(11)
	require.False(t, a.IsDead())
	assert.Equal(t, 106, a.Pos().Y)
	assert.Equal(t, 1, a.Bob().Height, "one row left above the ledge")

	ts.RunTicks(1)
	assert.True(t, a.IsDead())
	assert.Equal(t, before-1, ts.Session.AliveCount())
	assert.True(t, ts.Log.HasEntry(CatState, "dead", "ledge"))
}

func TestFall_FromTileCornerIgnoresLevelFloor(t *testing.T) {
	rows := openFloor()
	rows[5] = "#####.##############"
	rows[6] = "#####..#############"
	ts, err := NewTestSim(
		WithLayoutRows(rows...),
		WithScripted(0),
		WithCombatantAt(0, 92, 89),
	)
	require.NoError(t, err)
	a := ts.Combatant(0)

	// Both corner samples are void; most of the box still sits on tile (6,5).
	ts.RunTicks(1)
	require.Equal(t, ActionFalling, a.Action())

	ts.RunTicks(1)
	require.False(t, a.IsDead(), ts.Log.Format())
	assert.Equal(t, 91, a.Pos().Y)
	assert.Equal(t, FrameHeight, a.Bob().Height, "tile (6,5) is level with the feet, nothing to hide behind yet")

	at := ts.RunUntil(func(ts *TestSim) bool { return a.IsDead() }, 40)
	assert.Equal(t, 18, at, "sprite top reaches the row 7 ledge once the box is at y=123")
	assert.True(t, ts.Log.HasEntry(CatState, "dead", "ledge"))
}

func TestFall_OffBottomEdge(t *testing.T) {
	rows := openFloor()
	rows[15] = strings.Repeat(".", 20)
	ts, err := NewTestSim(
		WithLayoutRows(rows...),
		WithScripted(0),
		WithCombatantAt(0, 100, 244),
	)
	require.NoError(t, err)
	a := ts.Combatant(0)
	at := ts.RunUntil(func(ts *TestSim) bool { return a.IsDead() }, 20)
	require.NotEqual(t, -1, at)
	assert.Equal(t, 7, at, "six 2px steps from y=244 reach the bottom")
	assert.True(t, ts.Log.HasEntry(CatState, "dead", "left the arena"))
	assert.False(t, a.Bob().Visible)
}

func TestFall_ThunderOnHumanDeath(t *testing.T) {
	rows := openFloor()
	rows[5] = "#####.##############"
	for _, tc := range []struct {
		name     string
		opts     []SimOption
		thunders int
	}{
		{"human with thunders", []SimOption{WithScripted(0), WithThunders()}, 1},
		{"human without thunders", []SimOption{WithScripted(0)}, 0},
		{"idle slot with thunders", []SimOption{WithThunders()}, 0},
	} {
		t.Run(tc.name, func(t *testing.T) {
			opts := append([]SimOption{WithLayoutRows(rows...), WithCombatantAt(0, 84, 84)}, tc.opts...)
			ts, err := NewTestSim(opts...)
			require.NoError(t, err)
			ts.RunTicks(20)
			require.True(t, ts.Combatant(0).IsDead())
			assert.Equal(t, tc.thunders, ts.Effects.Thunders)
		})
	}
}
