// Package projectile simulates pooled projectiles whose speed and size are
// eased over a randomized lifetime, and which bounce off reflective surfaces
// and detonate on colliding ones.
package projectile

import (
	"errors"
	"math"
	"math/rand"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/lampdies/collision"
	"github.com/milk9111/lampdies/common"
	"github.com/milk9111/lampdies/damage"
	"github.com/milk9111/lampdies/easing"
	"github.com/milk9111/lampdies/effects"
)

var (
	ErrNoBody      = errors.New("projectile: no physics world")
	ErrNotInactive = errors.New("projectile: activate while not inactive")
)

const (
	velocitySmoothing = 10.0
	turnRate          = 15.0

	hitShakeDuration  = 0.1
	hitShakeMagnitude = 12.0
)

// Status is the lifecycle state.
type Status int

const (
	StatusInactive Status = iota
	StatusActive
	StatusStopping
)

func (s Status) String() string {
	switch s {
	case StatusActive:
		return "active"
	case StatusStopping:
		return "stopping"
	}
	return "inactive"
}

// Options are construction-time collaborators. Zero values are usable.
type Options struct {
	Radius float64
	// Group is a Chipmunk collision group; shapes sharing it never collide,
	// so a shooter's own shots pass through it.
	Group  uint
	Curves *easing.Registry
	Router damage.Router
	Sink   effects.Sink
	Rand   *rand.Rand
}

// Projectile owns one body and its lifecycle. All methods run on the
// simulation thread.
type Projectile struct {
	world  *collision.World
	body   *cp.Body
	shape  *cp.Shape
	group  uint
	curves *easing.Registry
	router damage.Router
	sink   effects.Sink
	rng    *rand.Rand

	status Status
	data   LaunchData
	ease   easing.Func

	lifetime  float64
	startTime float64
	elapsed   float64
	lerpTime  float64
	speed     float64
	size      float64
	angle     float64

	velocityEffect cp.Vector

	trail   effects.Handle
	destroy effects.Handle
}

// New builds an inactive projectile. A world is mandatory.
func New(world *collision.World, opts Options) (*Projectile, error) {
	if world == nil {
		return nil, ErrNoBody
	}
	if opts.Radius <= 0 {
		opts.Radius = 0.15
	}
	if opts.Router == nil {
		opts.Router = damage.Direct
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(1))
	}

	body := cp.NewBody(1, cp.MomentForCircle(1, 0, opts.Radius, cp.Vector{}))
	body.SetVelocityUpdateFunc(func(body *cp.Body, gravity cp.Vector, damping float64, dt float64) {
		cp.BodyUpdateVelocity(body, cp.Vector{}, damping, dt)
	})
	shape := cp.NewCircle(body, opts.Radius, cp.Vector{})
	shape.SetElasticity(0)
	shape.SetFriction(0)

	return &Projectile{
		world:   world,
		body:    body,
		shape:   shape,
		group:   opts.Group,
		curves:  opts.Curves,
		router:  opts.Router,
		sink:    effects.OrNop(opts.Sink),
		rng:     opts.Rand,
		trail:   effects.Done,
		destroy: effects.Done,
	}, nil
}

// Activate launches the projectile at time now. Only legal while Inactive.
func (p *Projectile) Activate(data LaunchData, now float64) error {
	if p.status != StatusInactive {
		return ErrNotInactive
	}
	if err := data.Validate(); err != nil {
		return err
	}
	ease, err := p.curves.Get(data.Easing)
	if err != nil {
		return errors.Join(ErrInvalidLaunch, err)
	}

	data.Direction = common.SafeNormalize(data.Direction)
	p.data = data
	p.ease = ease
	p.lifetime = data.Lifetime.From + p.rng.Float64()*(data.Lifetime.To-data.Lifetime.From)
	p.startTime = now
	p.elapsed = 0
	p.lerpTime = easing.Evaluate(ease, 0)
	p.speed = data.Speed.At(p.lerpTime)
	p.size = data.Size.At(p.lerpTime)
	p.velocityEffect = data.InitialVelocityEffect
	p.angle = heading(data.Direction)

	p.body.SetPosition(data.StartPosition)
	p.body.SetVelocityVector(cp.Vector{})
	p.body.SetAngle(p.angle)
	p.body.SetAngularVelocity(0)
	p.world.AddBody(p.body, p.group, collision.LayerProjectile, data.Reflective|data.Colliding, p, p.shape)
	p.world.Listen(p.shape, p)

	p.status = StatusActive
	p.destroy = effects.Done
	p.trail = p.sink.Play(effects.ProjectileTrail, data.StartPosition, p.size)
	return nil
}

// TickFrame advances lifetime interpolation. now is simulation time.
func (p *Projectile) TickFrame(now, dt float64) {
	if p.status == StatusActive && now-p.startTime >= p.lifetime {
		p.Deactivate()
	}

	if p.status == StatusStopping && !p.trail.Playing() && !p.destroy.Playing() {
		p.status = StatusInactive
	}

	if p.status != StatusActive {
		return
	}

	p.elapsed = math.Max(0, (now-p.startTime)/p.lifetime)
	p.lerpTime = easing.Evaluate(p.ease, p.elapsed)
	p.speed = p.data.Speed.At(p.lerpTime)
	p.size = p.data.Size.At(p.lerpTime)
	p.velocityEffect = common.LerpVector(p.data.InitialVelocityEffect, cp.Vector{}, p.lerpTime)

	if dt > 0 {
		p.angle += common.DeltaAngle(p.angle, heading(p.data.Direction)) * common.Clamp01(dt*turnRate)
	}
}

// TickPhysics eases the body velocity toward speed*direction, keeping the
// residual launch velocity only while it adds to the net speed.
func (p *Projectile) TickPhysics(dt float64) {
	if p.status != StatusActive || dt <= 0 {
		return
	}
	target := p.data.Direction.Mult(p.speed)
	if withEffect := target.Add(p.velocityEffect); withEffect.LengthSq() > target.LengthSq() {
		target = withEffect
	}
	p.body.SetVelocityVector(common.LerpVector(p.body.Velocity(), target, common.Clamp01(dt*velocitySmoothing)))
}

// HandleContact reacts to a begin contact delivered by the world. A surface
// in both layer sets reflects and then detonates.
func (p *Projectile) HandleContact(c collision.Contact) {
	if p.status != StatusActive {
		return
	}
	if p.data.Reflective.Has(c.Layer) {
		p.reflect(c.Normal)
	}
	if p.data.Colliding.Has(c.Layer) {
		p.router.Deliver(c.Owner, p.data.Damage, c.Point)
		p.sink.Shake(hitShakeDuration, hitShakeMagnitude, easing.KindLinear)
		p.BlowUp()
	}
}

func (p *Projectile) reflect(normal cp.Vector) {
	dir := common.SafeNormalize(common.Reflect(p.data.Direction, normal))
	if dir.X == 0 && dir.Y == 0 {
		return
	}
	p.sink.Play(effects.ProjectileBounce, p.body.Position(), 1)
	p.data.Direction = dir
	p.body.SetVelocityVector(dir.Mult(p.speed))
	p.body.SetAngularVelocity(0)
	p.data.InitialVelocityEffect = dir.Mult(p.velocityEffect.Length())
}

// BlowUp plays the destroy effect and deactivates. It does nothing unless
// the projectile is Active.
func (p *Projectile) BlowUp() {
	if p.status != StatusActive {
		return
	}
	p.destroy = p.sink.Play(effects.ProjectileDestroy, p.body.Position(), p.size)
	p.Deactivate()
}

// Deactivate removes the body from the world and enters Stopping. Calling it
// while Stopping or Inactive is a no-op.
func (p *Projectile) Deactivate() {
	if p.status != StatusActive {
		return
	}
	p.trail.Stop()
	p.status = StatusStopping
	p.body.SetVelocityVector(cp.Vector{})
	p.world.Unlisten(p.shape)
	p.world.RemoveBody(p.body, p.shape)
}

// GetHit destroys the projectile regardless of damage.
func (p *Projectile) GetHit(float64, cp.Vector) {
	p.BlowUp()
}

func (p *Projectile) Status() Status            { return p.status }
func (p *Projectile) Active() bool              { return p.status == StatusActive }
func (p *Projectile) Speed() float64            { return p.speed }
func (p *Projectile) Size() float64             { return p.size }
func (p *Projectile) Lifetime() float64         { return p.lifetime }
func (p *Projectile) Elapsed() float64          { return p.elapsed }
func (p *Projectile) LerpTime() float64         { return p.lerpTime }
func (p *Projectile) Direction() cp.Vector      { return p.data.Direction }
func (p *Projectile) VelocityEffect() cp.Vector { return p.velocityEffect }
func (p *Projectile) Data() LaunchData          { return p.data }
func (p *Projectile) Position() cp.Vector       { return p.body.Position() }
func (p *Projectile) Velocity() cp.Vector       { return p.body.Velocity() }
func (p *Projectile) Body() *cp.Body            { return p.body }
func (p *Projectile) Shape() *cp.Shape          { return p.shape }

// Angle is the smoothed visual heading in radians.
func (p *Projectile) Angle() float64 { return p.angle }

func heading(dir cp.Vector) float64 {
	return math.Atan2(dir.Y, dir.X)
}
