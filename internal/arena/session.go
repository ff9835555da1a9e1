package arena

import (
	"errors"
	"fmt"
	"image"
	"math/rand"

	"github.com/Garsondee/Chaos-Arena/internal/steer"
)

const (
	PlayerSlots     = 6 // human-eligible slots
	ExtraEnemySlots = 4 // CPU-only slots added by the extra enemies option
	MaxCombatants   = PlayerSlots + ExtraEnemySlots

	// NoWinner is returned by LastAliveSlot when no player slot survives.
	NoWinner = -1

	spawnShuffleSwaps = 32
	countdownCueEvery = 50
)

// ErrNoSpawnPoints is returned when a layout cannot seat the roster.
var ErrNoSpawnPoints = errors.New("not enough spawn points")

// SessionConfig describes one round.
type SessionConfig struct {
	Modes        [PlayerSlots]steer.Mode
	ExtraEnemies bool
	Thunders     bool
	Seed         int64
	Tuning       Tuning // zero value selects DefaultTuning
}

// Collaborators are the outside services a session drives. Nil members
// fall back to no-op implementations.
type Collaborators struct {
	Renderer Renderer
	Audio    Audio
	Effects  Effects
	Inputs   steer.Sources
	Log      *EventLog
}

// Session runs one round: hazard, combatants and draw order.
type Session struct {
	cfg    SessionConfig
	tuning Tuning
	layout *Layout
	hazard *Hazard
	grid   *OccupancyGrid
	pixels image.Point

	combatants []Combatant
	order      []int // draw order, slot indices
	humans     int

	rng       *rand.Rand
	tick      int
	countdown int

	out     Renderer
	audio   Audio
	effects Effects
	log     *EventLog
}

// NewSession seats the roster on shuffled spawn points and paints the arena.
func NewSession(cfg SessionConfig, layout *Layout, deps Collaborators) (*Session, error) {
	if layout == nil {
		return nil, errors.New("new session: nil layout")
	}
	tuning := cfg.Tuning
	if tuning == (Tuning{}) {
		tuning = DefaultTuning()
	}
	if err := tuning.Validate(); err != nil {
		return nil, fmt.Errorf("new session: %w", err)
	}
	count := PlayerSlots
	if cfg.ExtraEnemies {
		count = MaxCombatants
	}
	if len(layout.Spawns) < count {
		return nil, fmt.Errorf("layout %q has %d spawn points for %d combatants: %w",
			layout.Name, len(layout.Spawns), count, ErrNoSpawnPoints)
	}

	s := &Session{
		cfg:       cfg,
		tuning:    tuning,
		layout:    layout,
		pixels:    layout.PixelSize(),
		rng:       rand.New(rand.NewSource(cfg.Seed)), // #nosec G404 -- gameplay randomness
		countdown: tuning.CountdownTicks,
		out:       deps.Renderer,
		audio:     deps.Audio,
		effects:   deps.Effects,
		log:       deps.Log,
	}
	if s.out == nil {
		s.out = NopRenderer{}
	}
	if s.audio == nil {
		s.audio = NopAudio{}
	}
	if s.effects == nil {
		s.effects = NopEffects{}
	}
	if s.log == nil {
		s.log = NewEventLog(false)
	}
	s.grid = NewOccupancyGrid(s.pixels.X/CellSize, s.pixels.Y/CellSize)
	s.hazard = NewHazard(layout, tuning, s.out, s.audio, s.log)
	s.hazard.ResetForRound()

	spawns := append([]TileCoord(nil), layout.Spawns...)
	for i := 0; i < spawnShuffleSwaps; i++ {
		a, b := s.rng.Intn(len(spawns)), s.rng.Intn(len(spawns))
		spawns[a], spawns[b] = spawns[b], spawns[a]
	}

	s.combatants = make([]Combatant, count)
	s.order = make([]int, count)
	for slot := 0; slot < count; slot++ {
		mode := steer.ModeCPU
		if slot < PlayerSlots {
			mode = cfg.Modes[slot]
			if mode == steer.ModeOff {
				mode = steer.ModeCPU
			}
		}
		c := &s.combatants[slot]
		c.slot = slot
		c.label = SlotLabel(slot)
		c.mode = mode
		c.human = mode.IsPlayer()
		if mode == steer.ModeCPU {
			c.ai = newAI(s, c)
		}
		var ctrl steer.Controller
		if c.ai != nil {
			ctrl = c.ai
		}
		c.steer = steer.FromMode(mode, deps.Inputs, ctrl)
		if c.human {
			s.humans++
		}
		c.facing = FacingS
		c.bob = Bob{Slot: slot, Width: FrameWidth, Height: FrameHeight, Visible: true}
		c.visible = FrameHeight
		c.startAction(ActionIdle, tuning.FrameCooldown)
		s.place(c, spawnPixel(spawns[slot]))
		s.order[slot] = slot
		s.log.Add(0, c.label, CatRound, "spawn",
			fmt.Sprintf("%s at %d,%d (%s)", mode, c.pos.X, c.pos.Y, c.steer.Kind()))
	}
	return s, nil
}

// spawnPixel centres a combatant box on a spawn tile.
func spawnPixel(t TileCoord) image.Point {
	off := (TileSize - BoxSize) / 2
	return image.Pt(t.X*TileSize+off, t.Y*TileSize+off)
}

// place moves c to p without collision checks and claims its cell.
func (s *Session) place(c *Combatant, p image.Point) {
	if ox, oy := CellOf(c.pos); s.grid.At(ox, oy) == c.slot {
		s.grid.Set(ox, oy, NoSlot)
	}
	c.pos = p
	s.syncBob(c)
	cx, cy := CellOf(p)
	if other := s.grid.At(cx, cy); other != NoSlot && other != c.slot {
		s.log.Add(s.tick, c.label, CatInvariant, "double_claim",
			fmt.Sprintf("cell %d,%d held by %s", cx, cy, SlotLabel(other)))
	}
	s.grid.Set(cx, cy, c.slot)
}

// Tick advances the round by one frame.
func (s *Session) Tick() {
	s.tick++
	if s.countdown > 0 {
		if s.countdown%countdownCueEvery == 0 {
			s.audio.PlaySfx(CueCountdown, SfxChannel, SfxVolume, PriorityCountdown)
		}
		s.countdown--
		if s.countdown == 0 {
			s.log.Add(s.tick, "--", CatRound, "fight", "countdown over")
		}
	} else {
		s.hazard.Tick(s.tick)
	}

	for i := range s.combatants {
		s.process(&s.combatants[i])
	}

	s.sortDrawOrder()
	for _, slot := range s.order {
		c := &s.combatants[slot]
		if c.dead {
			continue
		}
		s.out.PushBob(c.bob)
	}
	s.out.CommitFrame()
}

// sortDrawOrder runs one adjacent-swap pass keyed on packed (y, x), so a
// single tick moves any combatant at most one place.
func (s *Session) sortDrawOrder() {
	key := func(slot int) int {
		p := s.combatants[slot].pos
		return p.Y<<16 | (p.X & 0xffff)
	}
	for i := 0; i+1 < len(s.order); i++ {
		if key(s.order[i]) > key(s.order[i+1]) {
			s.order[i], s.order[i+1] = s.order[i+1], s.order[i]
		}
	}
}

// AliveCount returns how many combatants are not dead.
func (s *Session) AliveCount() int {
	n := 0
	for i := range s.combatants {
		if !s.combatants[i].dead {
			n++
		}
	}
	return n
}

// AlivePlayerCount returns how many human-driven combatants are not dead.
func (s *Session) AlivePlayerCount() int {
	n := 0
	for i := range s.combatants {
		c := &s.combatants[i]
		if !c.dead && c.human {
			n++
		}
	}
	return n
}

// LastAliveSlot returns the first surviving player slot, or NoWinner.
func (s *Session) LastAliveSlot() int {
	for slot := 0; slot < PlayerSlots && slot < len(s.combatants); slot++ {
		if !s.combatants[slot].dead {
			return slot
		}
	}
	return NoWinner
}

// RoundOver reports whether the round has been decided: every human is
// down, or at most one combatant is left.
func (s *Session) RoundOver() bool {
	if s.humans > 0 && s.AlivePlayerCount() == 0 {
		return true
	}
	return s.AliveCount() <= 1
}

// CountdownActive reports whether the start-of-round countdown is running.
func (s *Session) CountdownActive() bool {
	return s.countdown > 0
}

// CountdownSeconds returns the whole countdown steps left, for the HUD.
func (s *Session) CountdownSeconds() int {
	return (s.countdown + countdownCueEvery - 1) / countdownCueEvery
}

// IsSolid reports footing on tile (x, y).
func (s *Session) IsSolid(x, y int) bool {
	return s.hazard.IsSolid(x, y)
}

// SpawnPoints returns the layout spawn tiles.
func (s *Session) SpawnPoints() []TileCoord {
	return s.layout.Spawns
}

// OccupiedCells lists every owned occupancy cell.
func (s *Session) OccupiedCells() []OccupiedCell {
	return s.grid.Occupied()
}

// Combatant returns the combatant in slot, or nil.
func (s *Session) Combatant(slot int) *Combatant {
	if slot < 0 || slot >= len(s.combatants) {
		return nil
	}
	return &s.combatants[slot]
}

// Combatants returns the roster in slot order.
func (s *Session) Combatants() []*Combatant {
	out := make([]*Combatant, len(s.combatants))
	for i := range s.combatants {
		out[i] = &s.combatants[i]
	}
	return out
}

// DrawOrder returns slot indices in the current draw order.
func (s *Session) DrawOrder() []int {
	return append([]int(nil), s.order...)
}

func (s *Session) Hazard() *Hazard { return s.hazard }

func (s *Session) Layout() *Layout { return s.layout }

func (s *Session) Log() *EventLog { return s.log }

func (s *Session) Tuning() Tuning { return s.tuning }

func (s *Session) TickCount() int { return s.tick }

// Humans returns how many slots are human-driven.
func (s *Session) Humans() int { return s.humans }

// PixelSize returns the arena extent in pixels.
func (s *Session) PixelSize() image.Point { return s.pixels }
