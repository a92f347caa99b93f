package effects

import (
	"math"
	"math/rand"

	"github.com/gopxl/beep"
	beepfx "github.com/gopxl/beep/effects"
)

// Wave is an oscillator shape.
type Wave string

const (
	WaveSine   Wave = "sine"
	WaveSquare Wave = "square"
	WaveSaw    Wave = "saw"
	WaveNoise  Wave = "noise"
)

// oscillator generates a raw wave. A negative length streams forever.
type oscillator struct {
	freq     float64
	phase    float64
	length   int
	position int
	wave     Wave
	rate     beep.SampleRate
	rng      *rand.Rand
}

func newOscillator(freq float64, length int, wave Wave, rate beep.SampleRate, rng *rand.Rand) *oscillator {
	return &oscillator{freq: freq, length: length, wave: wave, rate: rate, rng: rng}
}

func (o *oscillator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if o.length >= 0 && o.position >= o.length {
			return i, false
		}

		var val float64
		switch o.wave {
		case WaveSquare:
			if o.phase < 0.5 {
				val = 1
			} else {
				val = -1
			}
		case WaveSaw:
			val = 2 * (o.phase - 0.5)
		case WaveNoise:
			val = o.rng.Float64()*2 - 1
		default:
			val = math.Sin(2 * math.Pi * o.phase)
		}

		samples[i][0] = val
		samples[i][1] = val

		o.phase += o.freq / float64(o.rate)
		o.phase -= math.Floor(o.phase)
		o.position++
	}
	return len(samples), true
}

func (o *oscillator) Err() error { return nil }

// envelope applies a linear attack and, for finite streams, a linear release.
type envelope struct {
	streamer beep.Streamer
	position int
	attack   int
	release  int
	total    int // <0 for endless streams
}

func newEnvelope(s beep.Streamer, total, attack, release int) *envelope {
	return &envelope{streamer: s, total: total, attack: attack, release: release}
}

func (e *envelope) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = e.streamer.Stream(samples)
	for i := 0; i < n; i++ {
		if e.total >= 0 && e.position >= e.total {
			return i, false
		}
		vol := 1.0
		if e.attack > 0 && e.position < e.attack {
			vol = float64(e.position) / float64(e.attack)
		}
		if e.total >= 0 && e.release > 0 {
			remaining := e.total - e.position
			if remaining < e.release {
				vol *= float64(remaining) / float64(e.release)
			}
		}
		samples[i][0] *= vol
		samples[i][1] *= vol
		e.position++
	}
	return n, ok
}

func (e *envelope) Err() error { return e.streamer.Err() }

// newVolume wraps s in a linear gain; log2(0) is -Inf so zero is silent.
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &beepfx.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &beepfx.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}

// voice is a mixer entry that doubles as the effect's Handle.
type voice struct {
	src     beep.Streamer
	release int
	tail    int // remaining release samples after Stop, -1 while not stopping
	done    bool
}

func (v *voice) Playing() bool { return !v.done }

func (v *voice) Stop() {
	if v.done || v.tail >= 0 {
		return
	}
	if v.release <= 0 {
		v.done = true
		return
	}
	v.tail = v.release
}

func (v *voice) Stream(samples [][2]float64) (int, bool) {
	if v.done {
		return 0, false
	}
	n, ok := v.src.Stream(samples)
	if v.tail >= 0 {
		for i := 0; i < n; i++ {
			if v.tail == 0 {
				v.done = true
				return i, false
			}
			g := float64(v.tail) / float64(v.release)
			samples[i][0] *= g
			samples[i][1] *= g
			v.tail--
		}
	}
	if !ok || n < len(samples) {
		v.done = true
		return n, false
	}
	return n, true
}

func (v *voice) Err() error { return v.src.Err() }
