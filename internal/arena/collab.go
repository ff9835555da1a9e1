package arena

import "image"

// BufferTarget selects which display buffers a blit lands in.
type BufferTarget uint8

const (
	TargetBack BufferTarget = iota // the buffer being composed this frame
	TargetAll                      // every buffer, used for full redraws
)

// FrameOffsets locates one animation frame in the sprite sheet and its mask.
type FrameOffsets struct {
	Bitmap image.Point
	Mask   image.Point
}

// Bob is a sprite draw request handed to the renderer.
type Bob struct {
	Slot    int
	Pos     image.Point // top-left on screen
	Width   int
	Height  int // visible rows from the top, shrinks while falling behind a ledge
	Frame   FrameOffsets
	Facing  Facing
	Action  Action
	Visible bool
}

// Renderer draws tiles and sprites. The session calls BlitTile and
// BlitTileMasked while composing a frame, PushBob once per live combatant in
// draw order, then CommitFrame.
type Renderer interface {
	// BlitTile copies the tileset cell at src to tile dst.
	BlitTile(dst TileCoord, src image.Point, target BufferTarget)
	// BlitTileMasked overlays the tileset cell at src on tile dst through
	// its mask.
	BlitTileMasked(dst TileCoord, src image.Point, target BufferTarget)
	PushBob(b Bob)
	CommitFrame()
}

// Cue names a sound effect.
type Cue uint8

const (
	CueSwipe Cue = iota
	CueHit
	CueCrumble
	CueFall
	CueCountdown
	CueCount
)

var cueNames = [CueCount]string{"swipe", "hit", "crumble", "fall", "countdown"}

func (c Cue) String() string {
	if c >= CueCount {
		return "?"
	}
	return cueNames[c]
}

// Sound effect priorities; a higher value pre-empts a lower one on the same
// channel.
const (
	PrioritySwipe     = 3
	PriorityHit       = 5
	PriorityCrumble   = 8
	PriorityFall      = 10
	PriorityCountdown = 20
)

// SfxChannel is the mixer channel all simulation cues share.
const SfxChannel = 3

// SfxVolume is the full cue volume on a 0..64 scale.
const SfxVolume = 64

// Audio plays sound effects.
type Audio interface {
	PlaySfx(cue Cue, channel, volume, priority int)
}

// Effects receives global screen effects.
type Effects interface {
	Thunder()
}

// NopRenderer discards every draw call.
type NopRenderer struct{}

func (NopRenderer) BlitTile(TileCoord, image.Point, BufferTarget)       {}
func (NopRenderer) BlitTileMasked(TileCoord, image.Point, BufferTarget) {}
func (NopRenderer) PushBob(Bob)                                         {}
func (NopRenderer) CommitFrame()                                        {}

// NopAudio is silent.
type NopAudio struct{}

func (NopAudio) PlaySfx(Cue, int, int, int) {}

// NopEffects ignores effects.
type NopEffects struct{}

func (NopEffects) Thunder() {}

// TileSource returns the tileset offset of a tile state: one column of
// TileSize cells indexed by state value.
func TileSource(s TileState) image.Point {
	return image.Pt(0, int(s)*TileSize)
}
