package arena

import "fmt"

// CrumbleSlot tracks one decaying tile.
type CrumbleSlot struct {
	Active  bool
	Tile    TileCoord
	Timer   int
	Waiting bool // step due but held back by a full redraw queue
}

// Hazard owns the live tile grid and the crumbling floor: a precomputed
// decay order, a small pool of active slots and the redraw queue that
// replays tile changes into every display buffer.
type Hazard struct {
	layout *Layout
	tuning Tuning
	order  []TileCoord
	live   []TileState

	next       int // index of the next unclaimed entry in order
	claimTimer int
	slots      []CrumbleSlot
	queue      redrawQueue

	out   Renderer
	audio Audio
	log   *EventLog

	pushed   int // redraw entries produced this round
	deferred int // decay steps postponed by a full queue
}

// NewHazard loads layout into a fresh engine. Call ResetForRound before the
// first Tick.
func NewHazard(layout *Layout, tuning Tuning, out Renderer, audio Audio, log *EventLog) *Hazard {
	if out == nil {
		out = NopRenderer{}
	}
	if audio == nil {
		audio = NopAudio{}
	}
	return &Hazard{
		layout: layout,
		tuning: tuning,
		order:  layout.CrumbleOrder(),
		live:   make([]TileState, layout.Width*layout.Height),
		slots:  make([]CrumbleSlot, tuning.CrumbleSlots),
		queue:  newRedrawQueue(tuning.RedrawCapacity),
		out:    out,
		audio:  audio,
		log:    log,
	}
}

// ResetForRound restores the source grid, clears slots and queue, and paints
// every tile into all buffers.
func (h *Hazard) ResetForRound() {
	for y := 0; y < h.layout.Height; y++ {
		for x := 0; x < h.layout.Width; x++ {
			s := h.layout.At(x, y)
			h.live[y*h.layout.Width+x] = s
			h.out.BlitTile(TileCoord{X: x, Y: y}, TileSource(s), TargetAll)
		}
	}
	for i := range h.slots {
		h.slots[i] = CrumbleSlot{}
	}
	h.queue.reset()
	h.next = 0
	h.claimTimer = h.tuning.CrumbleClaimInterval
	h.pushed = 0
	h.deferred = 0
}

// Tick advances the hazard by one frame: claim on cadence, drain one redraw
// entry, then step every active slot whose timer expires.
func (h *Hazard) Tick(now int) {
	h.claimTimer--
	if h.claimTimer <= 0 {
		h.claimTimer = h.tuning.CrumbleClaimInterval
		h.claim(now)
	}

	h.drain()

	for i := range h.slots {
		sl := &h.slots[i]
		if !sl.Active {
			continue
		}
		if sl.Timer > 0 {
			sl.Timer--
		}
		if sl.Timer > 0 {
			continue
		}
		if h.queue.Full() {
			// Retry next tick once the drain frees an entry.
			h.deferred++
			if !sl.Waiting {
				sl.Waiting = true
				h.log.Add(now, "--", CatInvariant, "redraw_full",
					fmt.Sprintf("tile %d,%d waits, %d pending", sl.Tile.X, sl.Tile.Y, h.queue.Len()))
			}
			continue
		}
		h.step(now, sl)
	}
}

func (h *Hazard) claim(now int) {
	free := -1
	for i := range h.slots {
		if !h.slots[i].Active {
			free = i
			break
		}
	}
	if free < 0 {
		return
	}
	for h.next < len(h.order) {
		t := h.order[h.next]
		h.next++
		if h.State(t.X, t.Y) != TileFloor {
			continue
		}
		h.slots[free] = CrumbleSlot{Active: true, Tile: t, Timer: h.tuning.CrumbleCooldown}
		h.log.Add(now, "--", CatHazard, "claim", fmt.Sprintf("tile %d,%d slot %d", t.X, t.Y, free))
		return
	}
}

// step moves a slot's tile one notch toward void and queues the redraw.
func (h *Hazard) step(now int, sl *CrumbleSlot) {
	idx := sl.Tile.Y*h.layout.Width + sl.Tile.X
	cur := h.live[idx]
	next := TileVoid
	if cur != TileVoid && cur.Stage()+1 < h.tuning.CrumbleSteps {
		next = cur + 1
	}
	h.live[idx] = next
	e := RedrawEntry{Tile: sl.Tile, Src: TileSource(next), Masked: next != TileVoid, Remaining: h.tuning.RedrawReplay}
	h.queue.push(e)
	h.pushed++
	sl.Waiting = false

	if next == TileVoid {
		*sl = CrumbleSlot{}
		h.audio.PlaySfx(CueCrumble, SfxChannel, SfxVolume, PriorityCrumble)
		h.log.Add(now, "--", CatHazard, "void", fmt.Sprintf("tile %d,%d", e.Tile.X, e.Tile.Y))
		return
	}
	sl.Timer = h.tuning.CrumbleCooldown
}

func (h *Hazard) drain() {
	e := h.queue.front()
	if e == nil {
		return
	}
	h.out.BlitTile(e.Tile, TileSource(TileVoid), TargetBack)
	if e.Masked {
		h.out.BlitTileMasked(e.Tile, e.Src, TargetBack)
	}
	e.Remaining--
	if e.Remaining <= 0 {
		h.queue.pop()
	}
}

// State returns the live state of a tile; out of range is void.
func (h *Hazard) State(x, y int) TileState {
	if x < 0 || y < 0 || x >= h.layout.Width || y >= h.layout.Height {
		return TileVoid
	}
	return h.live[y*h.layout.Width+x]
}

// IsSolid reports whether the tile gives footing.
func (h *Hazard) IsSolid(x, y int) bool {
	return h.State(x, y).IsSolid()
}

// IsSolidAt reports footing under pixel position p.
func (h *Hazard) IsSolidAt(px, py int) bool {
	return h.IsSolid(floorDiv(px, TileSize), floorDiv(py, TileSize))
}

// Order returns the crumble order computed at load time.
func (h *Hazard) Order() []TileCoord {
	return h.order
}

// Claimed returns how many order entries have been consumed.
func (h *Hazard) Claimed() int {
	return h.next
}

// Slots returns a copy of the slot pool.
func (h *Hazard) Slots() []CrumbleSlot {
	out := make([]CrumbleSlot, len(h.slots))
	copy(out, h.slots)
	return out
}

// PendingRedraws returns queued entries oldest first.
func (h *Hazard) PendingRedraws() []RedrawEntry {
	return h.queue.snapshot()
}

// RedrawsPushed returns how many redraw entries this round produced.
func (h *Hazard) RedrawsPushed() int {
	return h.pushed
}

// Deferred returns how many decay steps waited on a full redraw queue.
func (h *Hazard) Deferred() int {
	return h.deferred
}

// SolidTiles counts tiles that still give footing.
func (h *Hazard) SolidTiles() int {
	n := 0
	for _, s := range h.live {
		if s.IsSolid() {
			n++
		}
	}
	return n
}
