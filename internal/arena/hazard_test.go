package arena

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHazard(t *testing.T, rows []string, edit func(*Tuning)) (*Hazard, *RecordingRenderer, *RecordingAudio, *EventLog) {
	t.Helper()
	l, err := ParseLayout("hazard", rows)
	require.NoError(t, err)
	tuning := DefaultTuning()
	if edit != nil {
		edit(&tuning)
	}
	require.NoError(t, tuning.Validate())
	r := &RecordingRenderer{}
	a := &RecordingAudio{}
	log := NewEventLog(false)
	h := NewHazard(l, tuning, r, a, log)
	h.ResetForRound()
	return h, r, a, log
}

// progress maps a state onto a monotone scale: intact floor 0, void steps.
func progress(s TileState, steps int) int {
	if s == TileVoid {
		return steps
	}
	return s.Stage()
}

func TestHazard_TileDecaysInStepsTicks(t *testing.T) {
	h, r, a, _ := newTestHazard(t, []string{"#"}, func(tu *Tuning) {
		tu.CrumbleClaimInterval = 1
		tu.CrumbleCooldown = 1
		tu.CrumbleSteps = 8
		tu.CrumbleSlots = 1
	})
	r.Blits = nil

	for tick := 1; tick <= 7; tick++ {
		h.Tick(tick)
		require.True(t, h.IsSolid(0, 0), "tick %d", tick)
		assert.Equal(t, tick, h.State(0, 0).Stage(), "tick %d", tick)
	}
	h.Tick(8)
	assert.Equal(t, TileVoid, h.State(0, 0))
	assert.Equal(t, 8, h.RedrawsPushed())
	assert.Equal(t, 1, h.Claimed())
	assert.Equal(t, 1, a.Count(CueCrumble))
	for _, sl := range h.Slots() {
		assert.False(t, sl.Active, "slot freed at void")
	}
}

func TestHazard_RedrawReplaysIntoBackBuffer(t *testing.T) {
	h, r, _, _ := newTestHazard(t, []string{"##"}, func(tu *Tuning) {
		tu.CrumbleClaimInterval = 1
		tu.CrumbleCooldown = 100
		tu.CrumbleSlots = 1
		tu.RedrawReplay = 2
	})
	for _, b := range r.Blits {
		assert.Equal(t, TargetAll, b.Target, "reset paints every buffer")
	}
	require.Len(t, r.Blits, 2)
	r.Blits = nil

	// Claim at tick 1, first step at tick 100.
	for tick := 1; tick <= 100; tick++ {
		h.Tick(tick)
	}
	require.Len(t, h.PendingRedraws(), 1)
	assert.Empty(t, r.Blits)

	h.Tick(101)
	h.Tick(102)
	assert.Empty(t, h.PendingRedraws(), "retired after two draws")
	require.Len(t, r.Blits, 4)
	for i, b := range r.Blits {
		assert.Equal(t, TargetBack, b.Target)
		assert.Equal(t, i%2 == 1, b.Masked, "void base then masked stage")
	}
	assert.Equal(t, TileSource(TileFloor+1), r.Blits[1].Src)
}

func TestHazard_FullQueueDefersStep(t *testing.T) {
	h, _, _, log := newTestHazard(t, []string{"####"}, func(tu *Tuning) {
		tu.CrumbleClaimInterval = 1
		tu.CrumbleCooldown = 1
		tu.CrumbleSlots = 4
		tu.RedrawCapacity = 1
		tu.RedrawReplay = 2
	})
	steps := h.tuning.CrumbleSteps
	prev := make([]int, 4)
	for tick := 1; tick <= 200; tick++ {
		h.Tick(tick)
		require.LessOrEqual(t, len(h.PendingRedraws()), 1)
		for x := 0; x < 4; x++ {
			p := progress(h.State(x, 0), steps)
			require.GreaterOrEqual(t, p, prev[x], "tile %d regressed at T=%d", x, tick)
			prev[x] = p
		}
	}
	assert.Positive(t, h.Deferred())
	assert.True(t, log.HasEntry(CatInvariant, "redraw_full", ""))
	assert.Equal(t, 0, h.SolidTiles(), "every tile still reaches void")
}

func TestHazard_OverflowLoggedOncePerWait(t *testing.T) {
	h, _, _, log := newTestHazard(t, []string{"##"}, func(tu *Tuning) {
		tu.CrumbleClaimInterval = 1
		tu.CrumbleCooldown = 1
		tu.CrumbleSlots = 2
		tu.RedrawCapacity = 1
		tu.RedrawReplay = 4
	})
	for tick := 1; tick <= 12; tick++ {
		h.Tick(tick)
	}
	full := log.Filter(CatInvariant, "redraw_full")
	require.NotEmpty(t, full)
	assert.Less(t, len(full), h.Deferred(), "a long wait is reported once")

	last := map[string]int{}
	for _, e := range full {
		tile := strings.SplitN(e.Value, " waits", 2)[0]
		if prev, ok := last[tile]; ok {
			assert.Greater(t, e.Tick-prev, 1, "%s reported on consecutive ticks", tile)
		}
		last[tile] = e.Tick
	}
}

func TestHazard_ClaimsFollowCrumbleOrder(t *testing.T) {
	rows := []string{
		"########",
		"########",
		"###..###",
		"########",
		"########",
	}
	h, _, _, log := newTestHazard(t, rows, func(tu *Tuning) {
		tu.CrumbleClaimInterval = 3
		tu.CrumbleCooldown = 2
		tu.CrumbleSlots = 3
	})
	for tick := 1; tick <= 2000; tick++ {
		h.Tick(tick)
	}
	claims := log.Filter(CatHazard, "claim")
	require.Len(t, claims, len(h.Order()))

	l := h.layout
	dist := func(c TileCoord) int {
		dx, dy := 2*c.X-(l.Width-1), 2*c.Y-(l.Height-1)
		return dx*dx + dy*dy
	}
	last := -1
	for i, e := range claims {
		var c TileCoord
		var slot int
		_, err := fmt.Sscanf(e.Value, "tile %d,%d slot %d", &c.X, &c.Y, &slot)
		require.NoError(t, err, e.Value)
		assert.Equal(t, h.Order()[i], c)
		if last >= 0 {
			assert.LessOrEqual(t, dist(c), last, "claim %d", i)
		}
		last = dist(c)
	}
	assert.Equal(t, 0, h.SolidTiles())
}

func TestHazard_ResetRestoresSource(t *testing.T) {
	h, r, _, _ := newTestHazard(t, []string{"#.#"}, func(tu *Tuning) {
		tu.CrumbleClaimInterval = 1
		tu.CrumbleCooldown = 1
	})
	for tick := 1; tick <= 40; tick++ {
		h.Tick(tick)
	}
	require.Equal(t, 0, h.SolidTiles())

	r.Blits = nil
	h.ResetForRound()
	assert.True(t, h.IsSolid(0, 0))
	assert.False(t, h.IsSolid(1, 0))
	assert.True(t, h.IsSolid(2, 0))
	assert.Empty(t, h.PendingRedraws())
	assert.Equal(t, 0, h.Claimed())
	assert.Len(t, r.Blits, 3)
}

func TestHazard_IsSolidAtUsesFloorDivision(t *testing.T) {
	h, _, _, _ := newTestHazard(t, []string{"#"}, nil)
	assert.True(t, h.IsSolidAt(0, 0))
	assert.True(t, h.IsSolidAt(15, 15))
	assert.False(t, h.IsSolidAt(-1, 0))
	assert.False(t, h.IsSolidAt(16, 0))
}
