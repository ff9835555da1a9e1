package arena

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Garsondee/Chaos-Arena/internal/steer"
)

func TestMove_BlockedRightStillMovesDown(t *testing.T) {
	// A in cell (10,10), B filling the cell to its right.
	ts, err := NewTestSim(
		WithLayoutRows(openFloor()...),
		WithScripted(0),
		WithCombatantAt(0, 80, 80),
		WithCombatantAt(1, 88, 80),
	)
	require.NoError(t, err)
	a, b := ts.Combatant(0), ts.Combatant(1)

	ts.Hold(0, steer.DirRight)
	ts.RunTicks(1)
	assert.Equal(t, image.Pt(80, 80), a.Pos(), "X move into B rejected")
	assert.Equal(t, FacingE, a.Facing())
	assert.Equal(t, ActionWalk, a.Action())

	ts.Hold(0, steer.DirRight, steer.DirDown)
	ts.RunTicks(1)
	assert.Equal(t, image.Pt(80, 81), a.Pos(), "Y evaluated independently")
	assert.Equal(t, FacingSE, a.Facing())
	assert.Equal(t, image.Pt(88, 80), b.Pos())
	checkGridInvariant(t, ts)
}

func TestMove_CollisionIndependentOfAxisOrder(t *testing.T) {
	// B sits diagonally down-right; moving SE the X step is free and the Y
	// step would overlap.
	ts, err := NewTestSim(
		WithLayoutRows(openFloor()...),
		WithScripted(0),
		WithCombatantAt(0, 80, 80),
		WithCombatantAt(1, 88, 88),
	)
	require.NoError(t, err)
	a := ts.Combatant(0)

	ts.Hold(0, steer.DirRight, steer.DirDown)
	for i := 0; i < 10; i++ {
		ts.RunTicks(1)
		checkNoOverlap(t, ts)
	}
	assert.Equal(t, 80, a.Pos().Y, "never slides under B")
	assert.Equal(t, 90, a.Pos().X)
}

func TestMove_ClampsToArena(t *testing.T) {
	ts, err := NewTestSim(
		WithLayoutRows(openFloor()...),
		WithScripted(0),
		WithCombatantAt(0, 0, 0),
	)
	require.NoError(t, err)
	a := ts.Combatant(0)

	ts.Hold(0, steer.DirLeft, steer.DirUp)
	ts.RunTicks(5)
	assert.Equal(t, image.Pt(0, 0), a.Pos())
	assert.Equal(t, ActionWalk, a.Action())
	assert.Equal(t, FacingNW, a.Facing())
}

func TestMove_ReassignsCellOnCrossing(t *testing.T) {
	ts, err := NewTestSim(
		WithLayoutRows(openFloor()...),
		WithScripted(0),
		WithCombatantAt(0, 87, 80),
	)
	require.NoError(t, err)
	s := ts.Session
	require.Equal(t, 0, s.grid.At(10, 10))

	ts.Hold(0, steer.DirRight)
	ts.RunTicks(1)
	assert.Equal(t, NoSlot, s.grid.At(10, 10), "old cell cleared")
	assert.Equal(t, 0, s.grid.At(11, 10), "new cell claimed")
	assert.Zero(t, ts.Log.Count(CatInvariant, ""))
}

func TestMove_StaleCellIsLoggedNotFatal(t *testing.T) {
	ts, err := NewTestSim(
		WithLayoutRows(openFloor()...),
		WithScripted(0),
		WithCombatantAt(0, 87, 80),
	)
	require.NoError(t, err)
	s := ts.Session
	s.grid.Set(10, 10, NoSlot) // corrupt the lookup

	ts.Hold(0, steer.DirRight)
	require.NotPanics(t, func() { ts.RunTicks(1) })
	assert.True(t, ts.Log.HasEntry(CatInvariant, "stale_occupant", "nobody"))
	assert.Equal(t, 0, s.grid.At(11, 10), "still claims the destination")
}

func TestMove_NeverMoreThanOnePixelPerAxis(t *testing.T) {
	ts, err := NewTestSim(
		WithLayoutRows(openFloor()...),
		WithScripted(0),
		WithCombatantAt(0, 100, 100),
	)
	require.NoError(t, err)
	a := ts.Combatant(0)
	dirs := [][]steer.Direction{
		{steer.DirRight}, {steer.DirUp, steer.DirLeft}, {steer.DirDown, steer.DirRight}, {steer.DirLeft},
	}
	for _, d := range dirs {
		ts.Hold(0, d...)
		for i := 0; i < 6; i++ {
			before := a.Pos()
			ts.RunTicks(1)
			delta := a.Pos().Sub(before)
			assert.LessOrEqual(t, abs(delta.X), 1)
			assert.LessOrEqual(t, abs(delta.Y), 1)
		}
	}
}

func TestIdle_KeepsFacing(t *testing.T) {
	ts, err := NewTestSim(
		WithLayoutRows(openFloor()...),
		WithScripted(0),
		WithCombatantAt(0, 100, 100),
	)
	require.NoError(t, err)
	a := ts.Combatant(0)
	ts.Hold(0, steer.DirLeft)
	ts.RunTicks(2)
	ts.Release(0)
	ts.RunTicks(1)
	assert.Equal(t, ActionIdle, a.Action())
	assert.Equal(t, FacingW, a.Facing())
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func TestSyncBob_ClampsSpriteOutsideDisplay(t *testing.T) {
	ts, err := NewTestSim(
		WithLayoutRows(openFloor()...),
		WithCombatantAt(0, 80, 80),
	)
	require.NoError(t, err)
	s := ts.Session
	a := ts.Combatant(0)
	size := s.PixelSize()

	a.pos = image.Pt(size.X+40, -60)
	s.syncBob(a)
	assert.True(t, ts.Log.HasEntry(CatInvariant, "display_bounds", ""))
	assert.Equal(t, image.Pt(size.X, -FrameHeight), a.Bob().Pos)

	a.pos = image.Pt(80, 80)
	s.syncBob(a)
	assert.Equal(t, a.RenderPos(), a.Bob().Pos, "in-range sprites are untouched")
}
