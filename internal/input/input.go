// Package input binds steering backends to ebiten's keyboard and gamepads.
package input

import (
	"sort"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/Garsondee/Chaos-Arena/internal/steer"
)

// stickDeadZone is the axis magnitude below which a stick counts as centred.
const stickDeadZone = 0.5

var keyBindings = [steer.KeyCount]ebiten.Key{
	steer.KeyW:          ebiten.KeyW,
	steer.KeyS:          ebiten.KeyS,
	steer.KeyA:          ebiten.KeyA,
	steer.KeyD:          ebiten.KeyD,
	steer.KeyLeftShift:  ebiten.KeyShiftLeft,
	steer.KeyArrowUp:    ebiten.KeyArrowUp,
	steer.KeyArrowDown:  ebiten.KeyArrowDown,
	steer.KeyArrowLeft:  ebiten.KeyArrowLeft,
	steer.KeyArrowRight: ebiten.KeyArrowRight,
	steer.KeyRightShift: ebiten.KeyShiftRight,
}

// EbitenKey returns the ebiten key a steering key is read from.
func EbitenKey(k steer.Key) (ebiten.Key, bool) {
	if k >= steer.KeyCount {
		return 0, false
	}
	return keyBindings[k], true
}

// Keyboard reads steering keys from ebiten. The zero value is ready to use.
type Keyboard struct {
	pressed func(ebiten.Key) bool
}

// KeyPressed implements steer.KeySource.
func (kb Keyboard) KeyPressed(k steer.Key) bool {
	ek, ok := EbitenKey(k)
	if !ok {
		return false
	}
	if kb.pressed != nil {
		return kb.pressed(ek)
	}
	return ebiten.IsKeyPressed(ek)
}

// Gamepads maps joystick ports to connected gamepads in connection order.
// Call Refresh once per tick before steering is processed.
type Gamepads struct {
	ids []ebiten.GamepadID
}

// Refresh rescans connected gamepads.
func (g *Gamepads) Refresh() {
	g.ids = ebiten.AppendGamepadIDs(g.ids[:0])
	sort.Slice(g.ids, func(i, j int) bool { return g.ids[i] < g.ids[j] })
}

// Connected returns how many gamepads are bound to ports.
func (g *Gamepads) Connected() int { return len(g.ids) }

// JoyPressed implements steer.JoySource. Ports without a gamepad read as
// released.
func (g *Gamepads) JoyPressed(port int, dir steer.Direction) bool {
	if port < 0 || port >= len(g.ids) {
		return false
	}
	id := g.ids[port]
	if ebiten.IsStandardGamepadLayoutAvailable(id) {
		return standardPressed(id, dir)
	}
	return rawPressed(id, dir)
}

func standardPressed(id ebiten.GamepadID, dir steer.Direction) bool {
	h := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickHorizontal)
	v := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickVertical)
	switch dir {
	case steer.DirUp:
		return v < -stickDeadZone || ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonLeftTop)
	case steer.DirDown:
		return v > stickDeadZone || ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonLeftBottom)
	case steer.DirLeft:
		return h < -stickDeadZone || ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonLeftLeft)
	case steer.DirRight:
		return h > stickDeadZone || ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonLeftRight)
	case steer.DirFire:
		return ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonRightBottom)
	}
	return false
}

// rawPressed reads the first two axes and button 0 of pads without a
// standard mapping.
func rawPressed(id ebiten.GamepadID, dir steer.Direction) bool {
	axis := func(a ebiten.GamepadAxisType) float64 {
		if int(a) >= ebiten.GamepadAxisCount(id) {
			return 0
		}
		return ebiten.GamepadAxisValue(id, a)
	}
	switch dir {
	case steer.DirUp:
		return axis(1) < -stickDeadZone
	case steer.DirDown:
		return axis(1) > stickDeadZone
	case steer.DirLeft:
		return axis(0) < -stickDeadZone
	case steer.DirRight:
		return axis(0) > stickDeadZone
	case steer.DirFire:
		return ebiten.IsGamepadButtonPressed(id, ebiten.GamepadButton0)
	}
	return false
}

// Sources returns the steering backends for a session.
func Sources(pads *Gamepads) steer.Sources {
	return steer.Sources{Joy: pads, Keys: Keyboard{}}
}
