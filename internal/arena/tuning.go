package arena

import (
	"errors"
	"fmt"
)

// Tuning holds the tick-based constants of a round. Every duration is in
// simulation ticks.
type Tuning struct {
	CrumbleClaimInterval int `yaml:"crumble_claim_interval"` // ticks between tile claims
	CrumbleCooldown      int `yaml:"crumble_cooldown"`       // ticks between decay steps of one tile
	CrumbleSteps         int `yaml:"crumble_steps"`          // transitions from Floor to Void
	CrumbleSlots         int `yaml:"crumble_slots"`          // tiles decaying at once
	RedrawReplay         int `yaml:"redraw_replay"`          // times each redraw entry is drawn
	RedrawCapacity       int `yaml:"redraw_capacity"`
	FallStep             int `yaml:"fall_step"` // pixels per tick while falling
	CountdownTicks       int `yaml:"countdown_ticks"`
	FrameCooldown        int `yaml:"frame_cooldown"` // ticks per animation frame
	AIMoveHold           int `yaml:"ai_move_hold"`   // ticks a CPU keeps a roaming direction
}

// DefaultTuning returns the stock round settings.
func DefaultTuning() Tuning {
	return Tuning{
		CrumbleClaimInterval: 50,
		CrumbleCooldown:      25,
		CrumbleSteps:         8,
		CrumbleSlots:         8,
		RedrawReplay:         2,
		RedrawCapacity:       64,
		FallStep:             2,
		CountdownTicks:       150,
		FrameCooldown:        5,
		AIMoveHold:           50,
	}
}

// ErrBadTuning is wrapped by Validate failures.
var ErrBadTuning = errors.New("invalid tuning")

// Validate rejects settings the engine cannot run with.
func (t Tuning) Validate() error {
	positive := []struct {
		name string
		v    int
	}{
		{"crumble_claim_interval", t.CrumbleClaimInterval},
		{"crumble_cooldown", t.CrumbleCooldown},
		{"crumble_steps", t.CrumbleSteps},
		{"crumble_slots", t.CrumbleSlots},
		{"redraw_replay", t.RedrawReplay},
		{"redraw_capacity", t.RedrawCapacity},
		{"fall_step", t.FallStep},
		{"frame_cooldown", t.FrameCooldown},
		{"ai_move_hold", t.AIMoveHold},
	}
	for _, p := range positive {
		if p.v <= 0 {
			return fmt.Errorf("%w: %s must be positive, got %d", ErrBadTuning, p.name, p.v)
		}
	}
	if t.CountdownTicks < 0 {
		return fmt.Errorf("%w: countdown_ticks must not be negative", ErrBadTuning)
	}
	// Tile states are stored in a byte alongside Void and Floor.
	if t.CrumbleSteps > 250 {
		return fmt.Errorf("%w: crumble_steps %d exceeds 250", ErrBadTuning, t.CrumbleSteps)
	}
	return nil
}
