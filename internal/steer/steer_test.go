package steer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeKeys map[Key]bool

func (f fakeKeys) KeyPressed(k Key) bool { return f[k] }

type fakeJoy struct {
	port  int
	lines [DirCount]bool
}

func (f *fakeJoy) JoyPressed(port int, d Direction) bool {
	return port == f.port && f.lines[d]
}

// scriptedSeq replays a fixed list of outputs, then DirNone forever.
type scriptedSeq struct {
	out []Direction
	i   int
}

func (s *scriptedSeq) Process() Direction {
	if s.i >= len(s.out) {
		return DirNone
	}
	d := s.out[s.i]
	s.i++
	return d
}

func TestKeyboard_CheckIsLevelUseIsEdge(t *testing.T) {
	keys := fakeKeys{}
	s := Keyboard(KeymapWSAD, keys)

	keys[KeyW] = true
	s.Process()
	assert.True(t, s.Check(DirUp))
	assert.True(t, s.Check(DirUp), "check must not consume")
	assert.True(t, s.Use(DirUp))
	assert.False(t, s.Use(DirUp), "second use while held")
	assert.True(t, s.Check(DirUp), "used direction is still held")

	s.Process()
	assert.False(t, s.Use(DirUp), "held across process stays used")

	keys[KeyW] = false
	s.Process()
	assert.False(t, s.Check(DirUp))

	keys[KeyW] = true
	s.Process()
	assert.True(t, s.Use(DirUp), "re-press re-arms use")
}

func TestKeyboard_ArrowsLayout(t *testing.T) {
	keys := fakeKeys{KeyArrowLeft: true, KeyRightShift: true, KeyA: true}
	s := Keyboard(KeymapArrows, keys)
	s.Process()
	assert.True(t, s.Check(DirLeft))
	assert.True(t, s.Check(DirFire))
	assert.False(t, s.Check(DirRight))
	assert.True(t, s.IsPlayer())
}

func TestJoystick_ReadsOwnPortOnly(t *testing.T) {
	joy := &fakeJoy{port: 2}
	joy.lines[DirFire] = true
	own := Joystick(2, joy)
	other := Joystick(0, joy)
	own.Process()
	other.Process()
	assert.True(t, own.Check(DirFire))
	assert.False(t, other.Check(DirFire))
}

func TestScripted_HoldsSelectionAndReleasesOnChange(t *testing.T) {
	ctrl := &scriptedSeq{out: []Direction{DirRight, DirRight, DirFire, DirNone}}
	s := Scripted(ctrl)
	require.False(t, s.IsPlayer())
	assert.Same(t, ctrl, s.Controller())

	s.Process()
	assert.True(t, s.Check(DirRight))
	assert.True(t, s.Use(DirRight))

	s.Process()
	assert.True(t, s.Check(DirRight), "same selection keeps holding")
	assert.False(t, s.Use(DirRight), "hold is one activation")

	s.Process()
	assert.False(t, s.Check(DirRight), "previous selection released on change")
	assert.True(t, s.Check(DirFire))

	s.Process()
	assert.False(t, s.Check(DirFire))
	for d := Direction(0); d < DirCount; d++ {
		assert.Equal(t, StateInactive, s.State(d), "dir %s", d)
	}
}

func TestIdle_NeverActive(t *testing.T) {
	s := Idle()
	s.Process()
	for d := Direction(0); d < DirCount; d++ {
		assert.False(t, s.Check(d))
		assert.False(t, s.Use(d))
	}
	assert.Equal(t, DirNone, s.PressedDir())
}

func TestPressedDir_Priority(t *testing.T) {
	keys := fakeKeys{KeyD: true, KeyS: true}
	s := Keyboard(KeymapWSAD, keys)
	s.Process()
	assert.Equal(t, DirDown, s.PressedDir())
}

func TestParseMode(t *testing.T) {
	cases := map[string]Mode{
		"JOY 1":  ModeJoy1,
		"joy4":   ModeJoy4,
		"wsad":   ModeWSAD,
		"Arrows": ModeArrows,
		"cpu":    ModeCPU,
		"off":    ModeOff,
	}
	for in, want := range cases {
		got, err := ParseMode(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseMode("gamepad")
	assert.ErrorIs(t, err, ErrUnknownMode)
}

func TestFromMode(t *testing.T) {
	src := Sources{Joy: &fakeJoy{}, Keys: fakeKeys{}}
	s := FromMode(ModeJoy3, src, nil)
	assert.Equal(t, 2, s.Port())
	s = FromMode(ModeArrows, src, nil)
	assert.Equal(t, KeymapArrows, s.Keymap())
	s = FromMode(ModeCPU, src, &scriptedSeq{})
	assert.Equal(t, KindScripted, s.Kind())
	s = FromMode(ModeOff, src, nil)
	assert.Equal(t, KindIdle, s.Kind())
	assert.True(t, ModeArrows.IsPlayer())
	assert.False(t, ModeCPU.IsPlayer())
}

func TestController_NilForDeviceSteers(t *testing.T) {
	kb := Keyboard(KeymapWSAD, fakeKeys{})
	assert.Nil(t, kb.Controller())
	idle := Idle()
	assert.Nil(t, idle.Controller())
}
