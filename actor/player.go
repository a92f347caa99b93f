// Package actor assembles the simulation's actors out of movement,
// projectile, collision, and damage parts.
package actor

import (
	"errors"
	"fmt"
	"log"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/lampdies/collision"
	"github.com/milk9111/lampdies/damage"
	"github.com/milk9111/lampdies/effects"
	"github.com/milk9111/lampdies/movement"
)

// PlayerGroup is the collision group shared by the player and its shots.
const PlayerGroup uint = 1

var ErrNoWorld = errors.New("actor: no collision world")

type PlayerConfig struct {
	Footprint       collision.Footprint
	Mass            float64
	Tuning          movement.Tuning
	GroundMask      collision.LayerSet
	CollideMask     collision.LayerSet
	MaxHealth       float64
	Invulnerability float64 // seconds after a non-lethal hit
	RespawnDelay    float64
	Spawn           cp.Vector
}

func DefaultPlayerConfig() PlayerConfig {
	return PlayerConfig{
		Footprint:    collision.Footprint{Width: 0.8, Height: 1.6},
		Mass:         1,
		Tuning:       movement.DefaultTuning(),
		GroundMask:   collision.Layers(collision.LayerGround, collision.LayerReflective, collision.LayerDestructible),
		CollideMask:  collision.Layers(collision.LayerGround, collision.LayerReflective, collision.LayerDestructible, collision.LayerEnemy, collision.LayerProjectile),
		MaxHealth:    1,
		RespawnDelay: 0.5,
	}
}

// Player is the controllable actor. Lethal hits send it into a timed
// respawn: frozen at the spawn point with input disabled until the delay
// passes, then health refills and control resumes.
type Player struct {
	world      *collision.World
	body       *cp.Body
	shape      *cp.Shape
	controller *movement.Controller
	health     *damage.Health
	sink       effects.Sink
	cfg        PlayerConfig

	spawn        cp.Vector
	respawning   bool
	respawnSince float64
	frozen       bool
	now          float64
	lean         float64
	deaths       int
}

func NewPlayer(world *collision.World, cfg PlayerConfig, sink effects.Sink) (*Player, error) {
	if world == nil {
		return nil, ErrNoWorld
	}
	if cfg.Mass <= 0 {
		cfg.Mass = 1
	}
	fp := cfg.Footprint

	p := &Player{
		world:  world,
		health: damage.NewHealth(cfg.MaxHealth),
		sink:   effects.OrNop(sink),
		cfg:    cfg,
		spawn:  cfg.Spawn,
	}

	body := cp.NewBody(cfg.Mass, cp.INFINITY)
	body.SetPosition(cfg.Spawn)
	body.SetVelocityUpdateFunc(func(body *cp.Body, gravity cp.Vector, damping float64, dt float64) {
		if p.frozen {
			body.SetVelocityVector(cp.Vector{})
			return
		}
		cp.BodyUpdateVelocity(body, gravity, damping, dt)
	})
	half := fp.Height/2 - fp.Width/2
	if half < 0 {
		half = 0
	}
	shape := cp.NewSegment(body, cp.Vector{Y: -half}, cp.Vector{Y: half}, fp.Width/2)
	shape.SetFriction(0)
	shape.SetElasticity(0)

	ctrl, err := movement.NewController(world, body, fp, cfg.GroundMask, cfg.Tuning)
	if err != nil {
		return nil, fmt.Errorf("actor: new player: %w", err)
	}
	world.AddBody(body, PlayerGroup, collision.LayerPlayer, cfg.CollideMask, p, shape)

	p.body = body
	p.shape = shape
	p.controller = ctrl
	p.health.OnDeath = func(*damage.Health, damage.Hit) { p.startRespawn() }
	return p, nil
}

// TickFrame runs health timers, the respawn state, then movement.
func (p *Player) TickFrame(src movement.InputSource, now, dt float64) movement.State {
	p.now = now
	p.health.Tick(dt)

	if p.respawning {
		if now-p.respawnSince < p.cfg.RespawnDelay {
			return p.controller.State()
		}
		p.finishRespawn()
	}

	s := p.controller.TickFrame(src, dt)
	p.lean = movement.Lean(p.lean, s.Velocity.X, p.cfg.Tuning.MaxSpeed, p.cfg.Tuning.LeanAngle, dt)
	return s
}

// GetHit applies damage; hits while respawning are ignored.
func (p *Player) GetHit(dmg float64, point cp.Vector) {
	if p.respawning {
		return
	}
	if !p.health.ApplyDamage(dmg, point) {
		return
	}
	p.sink.Play(effects.PlayerHurt, point, 1)
	if !p.respawning {
		p.health.StartInvulnerable(p.cfg.Invulnerability)
	}
}

func (p *Player) startRespawn() {
	p.respawning = true
	p.respawnSince = p.now
	p.frozen = true
	p.deaths++
	p.controller.Disable()
	p.controller.Reset()
	p.body.SetPosition(p.spawn)
	p.body.SetVelocityVector(cp.Vector{})
	log.Printf("Player: died (%d), respawning at %v", p.deaths, p.spawn)
}

func (p *Player) finishRespawn() {
	p.respawning = false
	p.frozen = false
	p.health.Reset()
	p.controller.Enable()
	p.sink.Play(effects.PlayerRespawn, p.spawn, 1)
}

// SetSpawnpoint moves the respawn location, e.g. at a checkpoint.
func (p *Player) SetSpawnpoint(pos cp.Vector) {
	p.spawn = pos
}

// Teleport places the player without touching its state machine.
func (p *Player) Teleport(pos cp.Vector) {
	p.body.SetPosition(pos)
	p.body.SetVelocityVector(cp.Vector{})
}

// SetTuning applies new movement tuning between ticks.
func (p *Player) SetTuning(t movement.Tuning) error {
	if err := p.controller.SetTuning(t); err != nil {
		return err
	}
	p.cfg.Tuning = t
	return nil
}

func (p *Player) Respawning() bool               { return p.respawning }
func (p *Player) Deaths() int                    { return p.deaths }
func (p *Player) Health() *damage.Health         { return p.health }
func (p *Player) Position() cp.Vector            { return p.body.Position() }
func (p *Player) Velocity() cp.Vector            { return p.body.Velocity() }
func (p *Player) Spawn() cp.Vector               { return p.spawn }
func (p *Player) Lean() float64                  { return p.lean }
func (p *Player) State() movement.State          { return p.controller.State() }
func (p *Player) Tuning() movement.Tuning        { return p.cfg.Tuning }
func (p *Player) Footprint() collision.Footprint { return p.cfg.Footprint }
func (p *Player) Body() *cp.Body                 { return p.body }
