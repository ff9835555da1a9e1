package audio

import (
	"testing"

	"github.com/gopxl/beep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Garsondee/Chaos-Arena/internal/arena"
)

type recordingOutput struct {
	voices []beep.Streamer
}

func (r *recordingOutput) play(s beep.Streamer) { r.voices = append(r.voices, s) }

func drain(s beep.Streamer) int {
	buf := make([][2]float64, 512)
	total := 0
	for {
		n, ok := s.Stream(buf)
		total += n
		if !ok {
			return total
		}
	}
}

func TestSynthesize_EveryCueEnds(t *testing.T) {
	for cue := arena.Cue(0); cue < arena.CueCount; cue++ {
		s := Synthesize(cue, arena.SfxVolume)
		require.NotNil(t, s, cue.String())
		n := drain(s)
		want := sampleRate.N(cueLength[cue])
		assert.InDelta(t, want, n, 1, cue.String())
	}
	assert.Nil(t, Synthesize(arena.CueCount, arena.SfxVolume))
}

func TestSynthesize_StaysInRange(t *testing.T) {
	buf := make([][2]float64, 2048)
	for cue := arena.Cue(0); cue < arena.CueCount; cue++ {
		s := Synthesize(cue, arena.SfxVolume)
		n, _ := s.Stream(buf)
		for _, smp := range buf[:n] {
			assert.LessOrEqual(t, smp[0], 1.0)
			assert.GreaterOrEqual(t, smp[0], -1.0)
		}
	}
}

func TestPlayer_HigherPriorityPreempts(t *testing.T) {
	out := &recordingOutput{}
	p := newPlayer(out)

	p.PlaySfx(arena.CueSwipe, arena.SfxChannel, arena.SfxVolume, arena.PrioritySwipe)
	p.PlaySfx(arena.CueHit, arena.SfxChannel, arena.SfxVolume, arena.PriorityHit)
	require.Len(t, out.voices, 2)

	n, ok := out.voices[0].Stream(make([][2]float64, 16))
	assert.Zero(t, n)
	assert.False(t, ok, "pre-empted cue is cut")

	played, dropped := p.Stats()
	assert.Equal(t, 2, played)
	assert.Zero(t, dropped)
}

func TestPlayer_LowerPriorityWaitsForChannel(t *testing.T) {
	out := &recordingOutput{}
	p := newPlayer(out)

	p.PlaySfx(arena.CueFall, arena.SfxChannel, arena.SfxVolume, arena.PriorityFall)
	p.PlaySfx(arena.CueSwipe, arena.SfxChannel, arena.SfxVolume, arena.PrioritySwipe)
	assert.Len(t, out.voices, 1, "swipe dropped while the fall plays")

	p.PlaySfx(arena.CueSwipe, 0, arena.SfxVolume, arena.PrioritySwipe)
	assert.Len(t, out.voices, 2, "other channels are independent")

	drain(out.voices[0])
	p.PlaySfx(arena.CueSwipe, arena.SfxChannel, arena.SfxVolume, arena.PrioritySwipe)
	assert.Len(t, out.voices, 3, "free once the fall ended")

	_, dropped := p.Stats()
	assert.Equal(t, 1, dropped)
}

func TestPlayer_EqualPriorityRestarts(t *testing.T) {
	out := &recordingOutput{}
	p := newPlayer(out)
	p.PlaySfx(arena.CueHit, arena.SfxChannel, arena.SfxVolume, arena.PriorityHit)
	p.PlaySfx(arena.CueHit, arena.SfxChannel, arena.SfxVolume, arena.PriorityHit)
	assert.Len(t, out.voices, 2)

	p.StopAll()
	_, ok := out.voices[1].Stream(make([][2]float64, 4))
	assert.False(t, ok)
}

func TestSilentPlayer(t *testing.T) {
	var a arena.Audio = NewSilent()
	assert.NotPanics(t, func() {
		a.PlaySfx(arena.CueCrumble, arena.SfxChannel, arena.SfxVolume, arena.PriorityCrumble)
		a.PlaySfx(arena.CueSwipe, arena.SfxChannel, arena.SfxVolume, arena.PrioritySwipe)
	})
	played, _ := a.(*Player).Stats()
	assert.Equal(t, 2, played)
}
