package steer

// Direction is one steerable input line.
type Direction uint8

const (
	DirUp Direction = iota
	DirDown
	DirLeft
	DirRight
	DirFire
	DirCount // also used as "no direction"
)

// DirNone is returned by controllers that emit nothing this tick.
const DirNone = DirCount

func (d Direction) String() string {
	switch d {
	case DirUp:
		return "up"
	case DirDown:
		return "down"
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	case DirFire:
		return "fire"
	default:
		return "none"
	}
}

// DirState is the three-valued state of a single direction.
type DirState uint8

const (
	StateInactive DirState = iota // released
	StateActive                   // pressed, not yet consumed by Use
	StateUsed                     // pressed and consumed; stays until release
)

// Kind tags which backend drives a Steer.
type Kind uint8

const (
	KindIdle Kind = iota
	KindJoystick
	KindKeyboard
	KindScripted
)

func (k Kind) String() string {
	switch k {
	case KindJoystick:
		return "joystick"
	case KindKeyboard:
		return "keyboard"
	case KindScripted:
		return "scripted"
	default:
		return "idle"
	}
}

// Keymap selects one of the two fixed keyboard layouts.
type Keymap uint8

const (
	KeymapWSAD   Keymap = iota // W/S/A/D + left shift
	KeymapArrows               // arrows + right shift
)

// Key is a backend-neutral key code; KeySource implementations map it to
// whatever their device layer uses.
type Key uint8

const (
	KeyW Key = iota
	KeyS
	KeyA
	KeyD
	KeyLeftShift
	KeyArrowUp
	KeyArrowDown
	KeyArrowLeft
	KeyArrowRight
	KeyRightShift
	KeyCount
)

var keymaps = [...][DirCount]Key{
	KeymapWSAD:   {DirUp: KeyW, DirDown: KeyS, DirLeft: KeyA, DirRight: KeyD, DirFire: KeyLeftShift},
	KeymapArrows: {DirUp: KeyArrowUp, DirDown: KeyArrowDown, DirLeft: KeyArrowLeft, DirRight: KeyArrowRight, DirFire: KeyRightShift},
}

// KeysFor returns the key bound to each direction in the given keymap.
func KeysFor(m Keymap) [DirCount]Key {
	return keymaps[m]
}

// JoySource reports raw joystick line state by port.
type JoySource interface {
	JoyPressed(port int, dir Direction) bool
}

// KeySource reports raw key state.
type KeySource interface {
	KeyPressed(k Key) bool
}

// Controller is a scripted input producer. Process returns the single
// direction it wants held this tick, or DirNone.
type Controller interface {
	Process() Direction
}

// Steer normalises one input source into per-direction states.
// The zero value is an idle steer.
type Steer struct {
	kind   Kind
	port   int
	keymap Keymap
	joy    JoySource
	keys   KeySource
	ctrl   Controller
	prev   Direction

	states [DirCount]DirState
}

// Joystick returns a steer reading joystick port from src.
func Joystick(port int, src JoySource) Steer {
	return Steer{kind: KindJoystick, port: port, joy: src, prev: DirNone}
}

// Keyboard returns a steer reading the given keymap from src.
func Keyboard(m Keymap, src KeySource) Steer {
	return Steer{kind: KindKeyboard, keymap: m, keys: src, prev: DirNone}
}

// Scripted returns a steer driven by ctrl.
func Scripted(ctrl Controller) Steer {
	return Steer{kind: KindScripted, ctrl: ctrl, prev: DirNone}
}

// Idle returns a steer that never reports input.
func Idle() Steer {
	return Steer{kind: KindIdle, prev: DirNone}
}

func (s *Steer) Kind() Kind { return s.kind }

func (s *Steer) Port() int { return s.port }

func (s *Steer) Keymap() Keymap { return s.keymap }

func (s *Steer) Controller() Controller { return s.ctrl }

// IsPlayer reports whether a human device drives this steer.
func (s *Steer) IsPlayer() bool {
	return s.kind == KindJoystick || s.kind == KindKeyboard
}

// Process samples the backend and updates direction states.
func (s *Steer) Process() {
	switch s.kind {
	case KindJoystick:
		if s.joy == nil {
			return
		}
		for d := Direction(0); d < DirCount; d++ {
			s.latch(d, s.joy.JoyPressed(s.port, d))
		}
	case KindKeyboard:
		if s.keys == nil {
			return
		}
		keys := keymaps[s.keymap]
		for d := Direction(0); d < DirCount; d++ {
			s.latch(d, s.keys.KeyPressed(keys[d]))
		}
	case KindScripted:
		s.processScripted()
	}
}

// latch applies a raw level to a direction: a press only promotes an
// inactive direction, so Used survives while the line is held.
func (s *Steer) latch(d Direction, pressed bool) {
	if !pressed {
		s.states[d] = StateInactive
		return
	}
	if s.states[d] == StateInactive {
		s.states[d] = StateActive
	}
}

func (s *Steer) processScripted() {
	if s.ctrl == nil {
		return
	}
	dir := s.ctrl.Process()
	if dir < DirCount && s.states[dir] == StateInactive {
		s.states[dir] = StateActive
	}
	// Release the previous selection as soon as the selection changes.
	if s.prev != dir && s.prev < DirCount {
		s.states[s.prev] = StateInactive
	}
	s.prev = dir
}

// Check is the level query: true while the direction is held.
func (s *Steer) Check(d Direction) bool {
	if d >= DirCount {
		return false
	}
	return s.states[d] != StateInactive
}

// Use is the edge query: true once per activation.
func (s *Steer) Use(d Direction) bool {
	if d >= DirCount {
		return false
	}
	if s.states[d] == StateActive {
		s.states[d] = StateUsed
		return true
	}
	return false
}

// State returns the raw state of d.
func (s *Steer) State(d Direction) DirState {
	if d >= DirCount {
		return StateInactive
	}
	return s.states[d]
}

// PressedDir returns the first held movement direction in Up, Down, Left,
// Right order, or DirNone.
func (s *Steer) PressedDir() Direction {
	for d := DirUp; d <= DirRight; d++ {
		if s.states[d] != StateInactive {
			return d
		}
	}
	return DirNone
}

// Reset releases every direction.
func (s *Steer) Reset() {
	s.states = [DirCount]DirState{}
	s.prev = DirNone
}
