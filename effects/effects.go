// Package effects carries fire-and-forget audio, particle, and camera-shake
// requests out of the simulation.
package effects

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/lampdies/easing"
)

// Effect names requested by the simulation.
const (
	ProjectileTrail   = "projectile_trail"
	ProjectileDestroy = "projectile_destroy"
	ProjectileBounce  = "projectile_bounce"
	Shoot             = "shoot"
	PlayerHurt        = "player_hurt"
	PlayerRespawn     = "player_respawn"
	ShardHit          = "shard_hit"
	ShardDestroy      = "shard_destroy"
	BeamHit           = "beam_hit"
	BeamHum           = "beam_hum"
)

// Handle tracks one playing effect.
type Handle interface {
	Playing() bool
	// Stop ends the effect, letting it fade out over its release tail.
	Stop()
}

// Sink accepts effect requests. Implementations never block.
type Sink interface {
	Play(name string, pos cp.Vector, scale float64) Handle
	Shake(duration, magnitude float64, curve easing.Kind)
}

type doneHandle struct{}

func (doneHandle) Playing() bool { return false }
func (doneHandle) Stop()         {}

// Done is a handle that has already finished.
var Done Handle = doneHandle{}

// Nop discards every request.
type Nop struct{}

func (Nop) Play(string, cp.Vector, float64) Handle { return Done }
func (Nop) Shake(float64, float64, easing.Kind)    {}

// OrNop returns s, or Nop when s is nil.
func OrNop(s Sink) Sink {
	if s == nil {
		return Nop{}
	}
	return s
}

// Event is one request seen by a Recorder.
type Event struct {
	Name      string
	Position  cp.Vector
	Scale     float64
	Shake     bool
	Duration  float64
	Magnitude float64
}

// Recorder forwards requests to Next and keeps the most recent ones.
type Recorder struct {
	Next  Sink
	Limit int

	events []Event
}

func (r *Recorder) Play(name string, pos cp.Vector, scale float64) Handle {
	r.record(Event{Name: name, Position: pos, Scale: scale})
	return OrNop(r.Next).Play(name, pos, scale)
}

func (r *Recorder) Shake(duration, magnitude float64, curve easing.Kind) {
	r.record(Event{Name: "shake", Shake: true, Duration: duration, Magnitude: magnitude})
	OrNop(r.Next).Shake(duration, magnitude, curve)
}

func (r *Recorder) record(e Event) {
	r.events = append(r.events, e)
	if r.Limit > 0 && len(r.events) > r.Limit {
		r.events = r.events[len(r.events)-r.Limit:]
	}
}

// Events returns recorded requests, oldest first.
func (r *Recorder) Events() []Event {
	return r.events
}

// Count returns how many recorded requests had the given name.
func (r *Recorder) Count(name string) int {
	n := 0
	for _, e := range r.events {
		if e.Name == name {
			n++
		}
	}
	return n
}

// Reset clears recorded requests.
func (r *Recorder) Reset() {
	r.events = r.events[:0]
}
