package effects

import (
	"log"
	"math"
	"math/rand"
	"time"

	"github.com/gopxl/beep"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/lampdies/easing"
)

const (
	DefaultSampleRate  = beep.SampleRate(8000)
	OneShotMinInterval = 0.05
	mixChunk           = 512
)

// Def describes a synthesized effect. Durations are in seconds.
type Def struct {
	Wave      Wave
	Frequency float64
	Duration  float64 // ignored when Loop is set
	Attack    float64
	Release   float64 // also the fade-out tail after Stop
	Volume    float64
	Loop      bool
}

// Mixer is a Sink that synthesizes each request as a beep voice. Voices
// advance with simulation time, so Handle.Playing is deterministic.
type Mixer struct {
	rate   beep.SampleRate
	mixer  *beep.Mixer
	defs   map[string]Def
	curves *easing.Registry
	shaker *Shaker
	rng    *rand.Rand

	now      float64
	lastShot map[string]float64
	carry    float64
	buf      [][2]float64
	peak     float64

	// Tap receives every mixed chunk, e.g. to feed a speaker. Optional.
	Tap func(samples [][2]float64)
}

// NewMixer builds a mixer for defs. curves may be nil.
func NewMixer(rate beep.SampleRate, defs map[string]Def, curves *easing.Registry, seed int64) *Mixer {
	if rate <= 0 {
		rate = DefaultSampleRate
	}
	m := &Mixer{
		rate:     rate,
		mixer:    &beep.Mixer{},
		curves:   curves,
		shaker:   NewShaker(seed),
		rng:      rand.New(rand.NewSource(seed)),
		lastShot: make(map[string]float64),
		buf:      make([][2]float64, mixChunk),
	}
	m.SetDefs(defs)
	return m
}

// SetDefs replaces the effect table. Voices already playing keep going.
func (m *Mixer) SetDefs(defs map[string]Def) {
	m.defs = make(map[string]Def, len(defs))
	for name, d := range defs {
		m.defs[name] = d
	}
}

// Play starts the named effect. Unknown names and one-shots repeated within
// OneShotMinInterval return Done.
func (m *Mixer) Play(name string, pos cp.Vector, scale float64) Handle {
	def, ok := m.defs[name]
	if !ok {
		return Done
	}
	if !def.Loop {
		if last, seen := m.lastShot[name]; seen && m.now-last < OneShotMinInterval {
			return Done
		}
		m.lastShot[name] = m.now
	}
	if scale <= 0 {
		scale = 1
	}

	length := -1
	if !def.Loop {
		length = m.rate.N(seconds(def.Duration))
		if length <= 0 {
			return Done
		}
	}
	var s beep.Streamer = newOscillator(def.Frequency, length, def.Wave, m.rate, m.rng)
	s = newEnvelope(s, length, m.rate.N(seconds(def.Attack)), m.rate.N(seconds(def.Release)))
	v := &voice{
		src:     newVolume(s, def.Volume*math.Min(scale, 2)),
		release: m.rate.N(seconds(def.Release)),
		tail:    -1,
	}
	m.mixer.Add(v)
	return v
}

// Shake starts a camera shake; unknown curves fall back to linear.
func (m *Mixer) Shake(duration, magnitude float64, curve easing.Kind) {
	f, err := m.curves.Get(curve)
	if err != nil {
		log.Printf("effects: shake curve %q: %v", curve, err)
		f = easing.Linear
	}
	m.shaker.Start(duration, magnitude, f)
}

// Advance streams dt seconds of audio through the mixer and steps the shaker.
func (m *Mixer) Advance(dt float64) {
	if dt <= 0 {
		return
	}
	m.now += dt
	m.shaker.Advance(dt)

	m.carry += dt * float64(m.rate)
	n := int(m.carry)
	m.carry -= float64(n)

	m.peak = 0
	for n > 0 {
		chunk := n
		if chunk > len(m.buf) {
			chunk = len(m.buf)
		}
		samples := m.buf[:chunk]
		m.mixer.Stream(samples)
		for _, s := range samples {
			m.peak = math.Max(m.peak, math.Max(math.Abs(s[0]), math.Abs(s[1])))
		}
		if m.Tap != nil {
			m.Tap(samples)
		}
		n -= chunk
	}
}

// Voices returns the number of voices still in the mixer.
func (m *Mixer) Voices() int {
	return m.mixer.Len()
}

// Peak returns the loudest sample of the last Advance.
func (m *Mixer) Peak() float64 {
	return m.peak
}

// Shaker returns the camera shaker driven by this mixer.
func (m *Mixer) Shaker() *Shaker {
	return m.shaker
}

// Now returns the mixer's simulation time.
func (m *Mixer) Now() float64 {
	return m.now
}

func seconds(s float64) time.Duration {
	if s <= 0 {
		return 0
	}
	return time.Duration(s * float64(time.Second))
}
