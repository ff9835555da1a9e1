package steer

import (
	"errors"
	"fmt"
	"strings"
)

// Mode is the per-slot steering assignment chosen by the menu shell.
type Mode uint8

const (
	ModeJoy1 Mode = iota
	ModeJoy2
	ModeJoy3
	ModeJoy4
	ModeWSAD
	ModeArrows
	ModeCPU
	ModeIdle
	ModeOff
	ModeCount
)

var modeLabels = [ModeCount]string{
	"JOY 1", "JOY 2", "JOY 3", "JOY 4", "WSAD", "ARROWS", "CPU", "IDLE", "OFF",
}

// ErrUnknownMode is returned by ParseMode for labels it does not recognise.
var ErrUnknownMode = errors.New("unknown steer mode")

func (m Mode) String() string {
	if m >= ModeCount {
		return "?"
	}
	return modeLabels[m]
}

// IsPlayer reports whether the mode is driven by a human device.
func (m Mode) IsPlayer() bool {
	return m <= ModeArrows
}

// ParseMode accepts the display labels case-insensitively, with or without
// the space ("joy1", "JOY 1", "arrows", "cpu").
func ParseMode(s string) (Mode, error) {
	norm := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), " ", ""))
	for m := Mode(0); m < ModeCount; m++ {
		if strings.ReplaceAll(modeLabels[m], " ", "") == norm {
			return m, nil
		}
	}
	return ModeOff, fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

// Sources bundles the device backends a mode may bind to.
type Sources struct {
	Joy  JoySource
	Keys KeySource
}

// FromMode builds the steer for a mode. ctrl is used only for ModeCPU.
// ModeOff and ModeIdle produce an idle steer.
func FromMode(m Mode, src Sources, ctrl Controller) Steer {
	switch m {
	case ModeJoy1, ModeJoy2, ModeJoy3, ModeJoy4:
		return Joystick(int(m-ModeJoy1), src.Joy)
	case ModeWSAD:
		return Keyboard(KeymapWSAD, src.Keys)
	case ModeArrows:
		return Keyboard(KeymapArrows, src.Keys)
	case ModeCPU:
		return Scripted(ctrl)
	default:
		return Idle()
	}
}
