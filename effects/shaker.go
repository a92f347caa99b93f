package effects

import (
	"math/rand"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/lampdies/easing"
)

// Shaker produces a decaying random camera offset.
type Shaker struct {
	rng       *rand.Rand
	duration  float64
	magnitude float64
	elapsed   float64
	curve     easing.Func
	offset    cp.Vector
}

func NewShaker(seed int64) *Shaker {
	return &Shaker{rng: rand.New(rand.NewSource(seed))}
}

// Start begins a shake. A weaker request never cuts short a stronger one.
func (s *Shaker) Start(duration, magnitude float64, curve easing.Func) {
	if duration <= 0 || magnitude <= 0 {
		return
	}
	if s.Intensity() > magnitude {
		return
	}
	s.duration = duration
	s.magnitude = magnitude
	s.elapsed = 0
	s.curve = curve
}

// Intensity is the current shake amplitude.
func (s *Shaker) Intensity() float64 {
	if !s.Active() {
		return 0
	}
	p := easing.Evaluate(s.curve, s.elapsed/s.duration)
	return s.magnitude * (1 - p)
}

func (s *Shaker) Active() bool {
	return s.duration > 0 && s.elapsed < s.duration
}

func (s *Shaker) Advance(dt float64) {
	if !s.Active() {
		s.offset = cp.Vector{}
		return
	}
	s.elapsed += dt
	amp := s.Intensity()
	s.offset = cp.Vector{X: (s.rng.Float64()*2 - 1) * amp, Y: (s.rng.Float64()*2 - 1) * amp}
}

// Offset returns the camera offset for the current frame.
func (s *Shaker) Offset() cp.Vector {
	return s.offset
}
