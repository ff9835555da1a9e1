package arena

import (
	"fmt"
	"image"

	"github.com/Garsondee/Chaos-Arena/internal/steer"
)

// TestSim is a headless session harness for tests and batch reports. It
// records every renderer and audio call and lets tests hold keys on
// individual slots for deterministic input.
type TestSim struct {
	Session  *Session
	Log      *EventLog
	Renderer *RecordingRenderer
	Audio    *RecordingAudio
	Effects  *RecordingEffects
	Tick     int

	layout   *Layout
	layoutFn func() (*Layout, error)
	cfg      SessionConfig
	keys     map[int]*ScriptKeys
}

// simOptionKind controls the pass in which an option is applied.
type simOptionKind int

const (
	simOptInfra  simOptionKind = iota // seed, tuning, flags, log; applied first
	simOptLayout                      // arena layout
	simOptRoster                      // slot modes, scripted slots
	simOptSetup                       // mutations of the built session, in order
)

// SimOption is a builder function applied to a TestSim during construction.
type SimOption struct {
	kind simOptionKind
	fn   func(*TestSim)
}

// WithSeed sets the session seed.
func WithSeed(seed int64) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.cfg.Seed = seed
	}}
}

// WithVerbose enables per-tick verbose logging.
func WithVerbose(v bool) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.Log = NewEventLog(v)
	}}
}

// WithTuning edits the harness tuning, which starts as DefaultTuning
// without a countdown.
func WithTuning(edit func(*Tuning)) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		edit(&ts.cfg.Tuning)
	}}
}

// WithThunders enables the thunder effect on human deaths.
func WithThunders() SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.cfg.Thunders = true
	}}
}

// WithExtraEnemies adds the four CPU-only slots.
func WithExtraEnemies() SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.cfg.ExtraEnemies = true
	}}
}

// WithLayout uses an already parsed layout.
func WithLayout(l *Layout) SimOption {
	return SimOption{simOptLayout, func(ts *TestSim) {
		ts.layoutFn = func() (*Layout, error) { return l, nil }
	}}
}

// WithLayoutRows parses rows as the arena.
func WithLayoutRows(rows ...string) SimOption {
	return SimOption{simOptLayout, func(ts *TestSim) {
		ts.layoutFn = func() (*Layout, error) { return ParseLayout("test", rows) }
	}}
}

// WithBuiltinLayout selects a bundled layout by name.
func WithBuiltinLayout(name string) SimOption {
	return SimOption{simOptLayout, func(ts *TestSim) {
		ts.layoutFn = func() (*Layout, error) { return BuiltinLayout(name) }
	}}
}

// WithModes assigns steer modes to player slots in order.
func WithModes(modes ...steer.Mode) SimOption {
	return SimOption{simOptRoster, func(ts *TestSim) {
		for i, m := range modes {
			if i < PlayerSlots {
				ts.cfg.Modes[i] = m
			}
		}
	}}
}

// WithCPU hands the given player slots to the scripted controller.
func WithCPU(slots ...int) SimOption {
	return SimOption{simOptRoster, func(ts *TestSim) {
		for _, slot := range slots {
			if slot >= 0 && slot < PlayerSlots {
				ts.cfg.Modes[slot] = steer.ModeCPU
			}
		}
	}}
}

// WithScripted makes the given player slots human keyboard slots whose
// keys the test drives through Hold and Release.
func WithScripted(slots ...int) SimOption {
	return SimOption{simOptRoster, func(ts *TestSim) {
		for _, slot := range slots {
			if slot >= 0 && slot < PlayerSlots {
				ts.cfg.Modes[slot] = steer.ModeWSAD
				ts.keys[slot] = &ScriptKeys{}
			}
		}
	}}
}

// WithCombatantAt moves a combatant's box to pixel (x, y) after seating.
func WithCombatantAt(slot, x, y int) SimOption {
	return SimOption{simOptSetup, func(ts *TestSim) {
		if c := ts.Session.Combatant(slot); c != nil {
			ts.Session.place(c, image.Pt(x, y))
		}
	}}
}

// WithBenched removes combatants from play before the first tick. They
// count as dead.
func WithBenched(slots ...int) SimOption {
	return SimOption{simOptSetup, func(ts *TestSim) {
		for _, slot := range slots {
			c := ts.Session.Combatant(slot)
			if c == nil || c.dead {
				continue
			}
			ts.Session.vacate(c)
			c.dead = true
			ts.Session.syncBob(c)
			ts.Log.Add(0, c.label, CatRound, "benched", "")
		}
	}}
}

// WithFacing turns a combatant before the first tick.
func WithFacing(slot int, f Facing) SimOption {
	return SimOption{simOptSetup, func(ts *TestSim) {
		if c := ts.Session.Combatant(slot); c != nil {
			c.facing = f
			c.updateFrame()
		}
	}}
}

// NewTestSim constructs a TestSim from the given options in ordered passes:
//  1. Infrastructure (seed, tuning, flags, log)
//  2. Layout (default "classic")
//  3. Roster (default every player slot IDLE)
//  4. Session construction
//  5. Setup mutations, in the order given
func NewTestSim(opts ...SimOption) (*TestSim, error) {
	tuning := DefaultTuning()
	tuning.CountdownTicks = 0
	ts := &TestSim{
		Log:      NewEventLog(false),
		Renderer: &RecordingRenderer{},
		Audio:    &RecordingAudio{},
		Effects:  &RecordingEffects{},
		cfg:      SessionConfig{Seed: 1, Tuning: tuning},
		keys:     map[int]*ScriptKeys{},
		layoutFn: func() (*Layout, error) { return BuiltinLayout("classic") },
	}
	for i := range ts.cfg.Modes {
		ts.cfg.Modes[i] = steer.ModeIdle
	}
	for _, kind := range []simOptionKind{simOptInfra, simOptLayout, simOptRoster} {
		for _, o := range opts {
			if o.kind == kind {
				o.fn(ts)
			}
		}
	}

	layout, err := ts.layoutFn()
	if err != nil {
		return nil, fmt.Errorf("test sim layout: %w", err)
	}
	ts.layout = layout
	sess, err := NewSession(ts.cfg, layout, Collaborators{
		Renderer: ts.Renderer,
		Audio:    ts.Audio,
		Effects:  ts.Effects,
		Log:      ts.Log,
	})
	if err != nil {
		return nil, fmt.Errorf("test sim session: %w", err)
	}
	ts.Session = sess
	for slot, keys := range ts.keys {
		sess.combatants[slot].steer = steer.Keyboard(steer.KeymapWSAD, keys)
	}

	for _, o := range opts {
		if o.kind == simOptSetup {
			o.fn(ts)
		}
	}
	return ts, nil
}

// Hold presses the given directions on a scripted slot, releasing others.
func (ts *TestSim) Hold(slot int, dirs ...steer.Direction) {
	k, ok := ts.keys[slot]
	if !ok {
		return
	}
	k.Release()
	keys := steer.KeysFor(steer.KeymapWSAD)
	for _, d := range dirs {
		if d < steer.DirCount {
			k.down[keys[d]] = true
		}
	}
}

// Release lets go of every key on a scripted slot.
func (ts *TestSim) Release(slot int) {
	if k, ok := ts.keys[slot]; ok {
		k.Release()
	}
}

// RunTicks advances the session n ticks.
func (ts *TestSim) RunTicks(n int) {
	for i := 0; i < n; i++ {
		ts.step()
	}
}

// RunUntil advances the session up to maxTicks, stopping early if predicate
// returns true. Returns the tick at which the predicate was satisfied, or -1.
func (ts *TestSim) RunUntil(predicate func(*TestSim) bool, maxTicks int) int {
	for i := 0; i < maxTicks; i++ {
		ts.step()
		if predicate(ts) {
			return ts.Tick
		}
	}
	return -1
}

func (ts *TestSim) step() {
	prev := make([]Action, len(ts.Session.combatants))
	for i := range ts.Session.combatants {
		prev[i] = ts.Session.combatants[i].action
	}
	ts.Session.Tick()
	ts.Tick = ts.Session.tick
	for i := range ts.Session.combatants {
		c := &ts.Session.combatants[i]
		if c.action != prev[i] && !c.dead {
			ts.Log.AddVerbose(ts.Tick, c.label, CatState, "change",
				fmt.Sprintf("%s → %s", prev[i], c.action))
		}
	}
}

// Combatant returns the combatant in slot.
func (ts *TestSim) Combatant(slot int) *Combatant {
	return ts.Session.Combatant(slot)
}

// Layout returns the arena the harness runs on.
func (ts *TestSim) Layout() *Layout {
	return ts.layout
}

// Snapshot returns the session debug report.
func (ts *TestSim) Snapshot() string {
	return ts.Session.DebugReport(0)
}

// ScriptKeys is a KeySource whose keys tests set directly.
type ScriptKeys struct {
	down [steer.KeyCount]bool
}

func (k *ScriptKeys) KeyPressed(key steer.Key) bool {
	return key < steer.KeyCount && k.down[key]
}

// Release lets go of every key.
func (k *ScriptKeys) Release() {
	k.down = [steer.KeyCount]bool{}
}

// BlitCall is one recorded tile blit.
type BlitCall struct {
	Tile   TileCoord
	Src    image.Point
	Masked bool
	Target BufferTarget
}

// RecordingRenderer keeps every call for inspection.
type RecordingRenderer struct {
	Blits   []BlitCall
	Frame   []Bob // bobs pushed since the last commit
	Last    []Bob // bobs of the last committed frame
	Commits int
}

func (r *RecordingRenderer) BlitTile(dst TileCoord, src image.Point, target BufferTarget) {
	r.Blits = append(r.Blits, BlitCall{Tile: dst, Src: src, Target: target})
}

func (r *RecordingRenderer) BlitTileMasked(dst TileCoord, src image.Point, target BufferTarget) {
	r.Blits = append(r.Blits, BlitCall{Tile: dst, Src: src, Masked: true, Target: target})
}

func (r *RecordingRenderer) PushBob(b Bob) {
	r.Frame = append(r.Frame, b)
}

func (r *RecordingRenderer) CommitFrame() {
	r.Last = r.Frame
	r.Frame = nil
	r.Commits++
}

// SfxCall is one recorded cue.
type SfxCall struct {
	Cue      Cue
	Priority int
}

// RecordingAudio keeps every cue played.
type RecordingAudio struct {
	Played []SfxCall
}

func (a *RecordingAudio) PlaySfx(cue Cue, _, _, priority int) {
	a.Played = append(a.Played, SfxCall{Cue: cue, Priority: priority})
}

// Count returns how many times cue played.
func (a *RecordingAudio) Count(cue Cue) int {
	n := 0
	for _, p := range a.Played {
		if p.Cue == cue {
			n++
		}
	}
	return n
}

// RecordingEffects counts thunder flashes.
type RecordingEffects struct {
	Thunders int
}

func (e *RecordingEffects) Thunder() {
	e.Thunders++
}
