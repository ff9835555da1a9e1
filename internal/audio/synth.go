package audio

import (
	"math"
	"math/rand"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"

	"github.com/Garsondee/Chaos-Arena/internal/arena"
)

const sampleRate = beep.SampleRate(44100)

// WaveType selects an oscillator shape.
type WaveType int

const (
	WaveSine WaveType = iota
	WaveSquare
	WaveNoise
)

// oscillator produces a fixed-length wave whose frequency glides linearly
// from freq to endFreq.
type oscillator struct {
	freq, endFreq float64
	phase         float64
	position      int
	duration      int
	wave          WaveType
	rng           *rand.Rand
}

func newOscillator(freq, endFreq float64, d time.Duration, wave WaveType) *oscillator {
	return &oscillator{
		freq:     freq,
		endFreq:  endFreq,
		duration: sampleRate.N(d),
		wave:     wave,
		rng:      rand.New(rand.NewSource(int64(freq*1000) + int64(d))), // #nosec G404 -- audio noise only
	}
}

func (o *oscillator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if o.position >= o.duration {
			return i, i > 0
		}
		var val float64
		switch o.wave {
		case WaveSine:
			val = math.Sin(2 * math.Pi * o.phase)
		case WaveSquare:
			val = 1
			if o.phase >= 0.5 {
				val = -1
			}
		case WaveNoise:
			val = o.rng.Float64()*2 - 1
		}
		samples[i][0] = val
		samples[i][1] = val

		t := float64(o.position) / float64(o.duration)
		f := o.freq + (o.endFreq-o.freq)*t
		o.phase += f / float64(sampleRate)
		o.phase -= math.Floor(o.phase)
		o.position++
	}
	return len(samples), true
}

func (o *oscillator) Err() error { return nil }

// decay multiplies a stream by exp(-rate*t).
type decay struct {
	streamer beep.Streamer
	rate     float64
	position int
}

func (d *decay) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = d.streamer.Stream(samples)
	for i := 0; i < n; i++ {
		env := math.Exp(-d.rate * float64(d.position) / float64(sampleRate))
		samples[i][0] *= env
		samples[i][1] *= env
		d.position++
	}
	return n, ok
}

func (d *decay) Err() error { return d.streamer.Err() }

func withVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}

// cueLength is the duration of each synthesised cue.
var cueLength = [arena.CueCount]time.Duration{
	arena.CueSwipe:     120 * time.Millisecond,
	arena.CueHit:       160 * time.Millisecond,
	arena.CueCrumble:   320 * time.Millisecond,
	arena.CueFall:      650 * time.Millisecond,
	arena.CueCountdown: 110 * time.Millisecond,
}

// Synthesize builds the streamer for a cue at a 0..arena.SfxVolume volume.
func Synthesize(cue arena.Cue, volume int) beep.Streamer {
	if cue >= arena.CueCount {
		return nil
	}
	d := cueLength[cue]
	var s beep.Streamer
	switch cue {
	case arena.CueSwipe:
		s = &decay{streamer: newOscillator(0, 0, d, WaveNoise), rate: 18}
	case arena.CueHit:
		s = beep.Mix(
			&decay{streamer: newOscillator(140, 90, d, WaveSquare), rate: 14},
			withVolume(&decay{streamer: newOscillator(0, 0, d, WaveNoise), rate: 30}, 0.4),
		)
	case arena.CueCrumble:
		s = beep.Mix(
			withVolume(&decay{streamer: newOscillator(0, 0, d, WaveNoise), rate: 8}, 0.5),
			withVolume(&decay{streamer: newOscillator(80, 60, d, WaveSine), rate: 8}, 0.6),
		)
	case arena.CueFall:
		s = &decay{streamer: newOscillator(660, 110, d, WaveSine), rate: 2}
	case arena.CueCountdown:
		s = newOscillator(880, 880, d, WaveSine)
	}
	return withVolume(beep.Take(sampleRate.N(d), s), 0.3*float64(volume)/float64(arena.SfxVolume))
}
