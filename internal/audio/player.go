// Package audio plays simulation cues through beep.
package audio

import (
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/Garsondee/Chaos-Arena/internal/arena"
)

// voice wraps a playing cue so its channel can tell when it ended and can
// cut it short.
type voice struct {
	streamer beep.Streamer
	priority int
	stopped  atomic.Bool
	finished atomic.Bool
}

func (v *voice) Stream(samples [][2]float64) (n int, ok bool) {
	if v.stopped.Load() {
		v.finished.Store(true)
		return 0, false
	}
	n, ok = v.streamer.Stream(samples)
	if !ok {
		v.finished.Store(true)
	}
	return n, ok
}

func (v *voice) Err() error { return v.streamer.Err() }

func (v *voice) busy() bool { return !v.finished.Load() && !v.stopped.Load() }

// output receives streamers to mix.
type output interface {
	play(s beep.Streamer)
}

type speakerOutput struct{}

func (speakerOutput) play(s beep.Streamer) { speaker.Play(s) }

// Player implements arena.Audio. Each channel plays one cue at a time; a new
// cue replaces the playing one only when its priority is at least as high.
type Player struct {
	mu       sync.Mutex
	out      output
	channels map[int]*voice
	played   int
	dropped  int
}

// New opens the default speaker. When no audio device is available it logs
// the failure and returns a silent player.
func New() *Player {
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/20)); err != nil {
		log.Printf("audio disabled: %v", err)
		return NewSilent()
	}
	return newPlayer(speakerOutput{})
}

// NewSilent returns a player that produces no sound.
func NewSilent() *Player {
	return newPlayer(nil)
}

func newPlayer(out output) *Player {
	return &Player{out: out, channels: map[int]*voice{}}
}

// PlaySfx starts cue on channel unless a higher-priority cue is still
// playing there.
func (p *Player) PlaySfx(cue arena.Cue, channel, volume, priority int) {
	s := Synthesize(cue, volume)
	if s == nil {
		return
	}
	p.mu.Lock()
	cur := p.channels[channel]
	if cur != nil && cur.busy() && cur.priority > priority {
		p.dropped++
		p.mu.Unlock()
		return
	}
	if cur != nil {
		cur.stopped.Store(true)
	}
	v := &voice{streamer: s, priority: priority}
	if p.out == nil {
		// Nothing drains a silent voice; it ends when the next cue arrives.
		v.finished.Store(true)
	}
	p.channels[channel] = v
	p.played++
	out := p.out
	p.mu.Unlock()

	if out != nil {
		out.play(v)
	}
}

// Stats returns how many cues started and how many lost to a higher priority.
func (p *Player) Stats() (played, dropped int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.played, p.dropped
}

// StopAll cuts every playing cue.
func (p *Player) StopAll() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for ch, v := range p.channels {
		v.stopped.Store(true)
		delete(p.channels, ch)
	}
}
