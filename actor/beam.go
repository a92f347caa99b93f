package actor

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/lampdies/collision"
	"github.com/milk9111/lampdies/damage"
	"github.com/milk9111/lampdies/easing"
	"github.com/milk9111/lampdies/effects"
)

const (
	beamShakeDuration  = 0.35
	beamShakeMagnitude = 20.0
)

type BeamConfig struct {
	Origin         cp.Vector
	Angle          float64 // radians, 0 points along +X
	Distance       float64
	Damage         float64
	DamageInterval float64
	TimeOn         float64 // on/off cycling is disabled unless both are set
	TimeOff        float64
	RotationSpeed  float64 // radians per second
	Mask           collision.LayerSet
}

// Beam is a laser sentry: it raycasts along its heading every frame and
// hits the first damageable it touches at most once per DamageInterval.
type Beam struct {
	world  *collision.World
	cfg    BeamConfig
	sink   effects.Sink
	router damage.Router

	angle     float64
	on        bool
	stateTime float64
	hitTime   float64
	hasHit    bool

	end     cp.Vector
	blocked bool
	hum     effects.Handle
}

func NewBeam(world *collision.World, cfg BeamConfig, sink effects.Sink, router damage.Router) (*Beam, error) {
	if world == nil {
		return nil, ErrNoWorld
	}
	if router == nil {
		router = damage.Direct
	}
	return &Beam{
		world:  world,
		cfg:    cfg,
		sink:   effects.OrNop(sink),
		router: router,
		angle:  cfg.Angle,
		on:     true,
		end:    cfg.Origin,
		hum:    effects.Done,
	}, nil
}

func (b *Beam) TickFrame(now, dt float64) {
	b.updateState(now)

	if b.on {
		if !b.hum.Playing() {
			b.hum = b.sink.Play(effects.BeamHum, b.cfg.Origin, 1)
		}
		b.cast(now)
	} else {
		b.hum.Stop()
		b.end = b.cfg.Origin
		b.blocked = false
	}

	if b.cfg.RotationSpeed != 0 {
		b.angle = math.Mod(b.angle+b.cfg.RotationSpeed*dt, 2*math.Pi)
	}
}

func (b *Beam) updateState(now float64) {
	if b.cfg.TimeOn == 0 || b.cfg.TimeOff == 0 {
		return
	}
	if b.on && now-b.stateTime >= b.cfg.TimeOn {
		b.on = false
		b.stateTime = now
	} else if !b.on && now-b.stateTime >= b.cfg.TimeOff {
		b.on = true
		b.stateTime = now
	}
}

func (b *Beam) cast(now float64) {
	dir := b.Direction()
	hit, ok := b.world.RaycastDirectional(b.cfg.Origin, dir, b.cfg.Distance, b.cfg.Mask)
	b.blocked = ok
	if !ok {
		b.end = b.cfg.Origin.Add(dir.Mult(b.cfg.Distance))
		return
	}
	b.end = hit.Point

	if b.hasHit && now-b.hitTime < b.cfg.DamageInterval {
		return
	}
	if b.router.Deliver(hit.Owner, b.cfg.Damage, hit.Point) {
		b.hitTime = now
		b.hasHit = true
		b.sink.Play(effects.BeamHit, hit.Point, 1)
		b.sink.Shake(beamShakeDuration, beamShakeMagnitude, easing.KindLinear)
	}
}

// SetConfig swaps the beam's tuning and resets its heading.
func (b *Beam) SetConfig(cfg BeamConfig) {
	b.cfg = cfg
	b.angle = cfg.Angle
	b.hasHit = false
	b.end = cfg.Origin
}

// Stop silences the hum, e.g. before the beam is discarded.
func (b *Beam) Stop() {
	b.hum.Stop()
	b.hum = effects.Done
}

// Direction is the unit heading of the beam.
func (b *Beam) Direction() cp.Vector {
	return cp.Vector{X: math.Cos(b.angle), Y: math.Sin(b.angle)}
}

func (b *Beam) On() bool           { return b.on }
func (b *Beam) Origin() cp.Vector  { return b.cfg.Origin }
func (b *Beam) End() cp.Vector     { return b.end }
func (b *Beam) Blocked() bool      { return b.blocked }
func (b *Beam) Angle() float64     { return b.angle }
func (b *Beam) Config() BeamConfig { return b.cfg }
