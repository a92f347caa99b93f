package actor

import (
	"errors"
	"math"
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/lampdies/collision"
	"github.com/milk9111/lampdies/easing"
	"github.com/milk9111/lampdies/effects"
	"github.com/milk9111/lampdies/movement"
	"github.com/milk9111/lampdies/projectile"
)

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

func floorWorld() *collision.World {
	w := collision.NewWorld(cp.Vector{Y: -20})
	w.AddStaticBox(cp.BB{L: -20, B: -1, R: 20, T: 0}, collision.LayerGround, nil)
	return w
}

func newTestPlayer(t *testing.T, w *collision.World, mutate func(*PlayerConfig)) (*Player, *effects.Recorder) {
	t.Helper()
	cfg := DefaultPlayerConfig()
	cfg.Spawn = cp.Vector{X: 0, Y: 0.82}
	if mutate != nil {
		mutate(&cfg)
	}
	rec := &effects.Recorder{}
	p, err := NewPlayer(w, cfg, rec)
	if err != nil {
		t.Fatalf("new player: %v", err)
	}
	return p, rec
}

type target struct{ hits int }

func (d *target) GetHit(float64, cp.Vector) { d.hits++ }

func TestNewPlayerRequiresWorld(t *testing.T) {
	if _, err := NewPlayer(nil, DefaultPlayerConfig(), nil); !errors.Is(err, ErrNoWorld) {
		t.Fatalf("err = %v", err)
	}
	bad := DefaultPlayerConfig()
	bad.Tuning.MaxSpeed = -1
	if _, err := NewPlayer(floorWorld(), bad, nil); !errors.Is(err, movement.ErrInvalidTuning) {
		t.Fatalf("invalid tuning: err = %v", err)
	}
}

func TestPlayerRespawn(t *testing.T) {
	w := floorWorld()
	p, rec := newTestPlayer(t, w, nil)

	p.TickFrame(movement.Input{Horizontal: 1}, 0, 0.1)
	if !p.State().Contacts.Grounded {
		t.Fatalf("player should start grounded")
	}
	p.Teleport(cp.Vector{X: 5, Y: 0.82})
	p.SetSpawnpoint(cp.Vector{X: -3, Y: 0.82})

	p.GetHit(1, cp.Vector{X: 5, Y: 1})
	if !p.Respawning() || p.Position() != p.Spawn() || p.Velocity() != (cp.Vector{}) {
		t.Fatalf("lethal hit should freeze the player at spawn: pos %v", p.Position())
	}
	if rec.Count(effects.PlayerHurt) != 1 {
		t.Fatalf("hurt effect not requested")
	}

	p.GetHit(1, cp.Vector{})
	if p.Deaths() != 1 {
		t.Fatalf("hits while respawning must be ignored")
	}

	p.TickFrame(movement.Input{Horizontal: 1}, 0.2, 0.1)
	w.Step(0.1)
	if !p.Respawning() || p.Velocity() != (cp.Vector{}) || p.Position() != p.Spawn() {
		t.Fatalf("player moved during respawn: pos %v vel %v", p.Position(), p.Velocity())
	}

	p.TickFrame(movement.Input{Horizontal: 1}, 0.5, 0.1)
	if p.Respawning() || !p.Health().IsAlive() {
		t.Fatalf("respawn should finish after the delay")
	}
	if rec.Count(effects.PlayerRespawn) != 1 {
		t.Fatalf("respawn effect not requested")
	}
	if p.Velocity().X <= 0 {
		t.Fatalf("control should resume, v = %v", p.Velocity())
	}
}

func TestPlayerInvulnerability(t *testing.T) {
	p, _ := newTestPlayer(t, floorWorld(), func(c *PlayerConfig) {
		c.MaxHealth = 3
		c.Invulnerability = 0.5
	})
	p.GetHit(1, cp.Vector{})
	p.GetHit(1, cp.Vector{})
	if !approx(p.Health().Current, 2) {
		t.Fatalf("second hit inside invulnerability applied: hp %v", p.Health().Current)
	}
	p.TickFrame(nil, 0.6, 0.6)
	p.GetHit(1, cp.Vector{})
	if !approx(p.Health().Current, 1) || p.Respawning() {
		t.Fatalf("hp = %v respawning = %v", p.Health().Current, p.Respawning())
	}
}

func testTemplate() projectile.LaunchData {
	return projectile.LaunchData{
		Direction: cp.Vector{X: 1},
		Damage:    1,
		Lifetime:  projectile.Range{From: 1, To: 1},
		Speed:     projectile.Range{From: 10, To: 4},
		Size:      projectile.Range{From: 1, To: 0.3},
		Easing:    easing.KindOutQuad,
		Colliding: collision.Layers(collision.LayerGround, collision.LayerEnemy),
	}
}

func TestLauncher(t *testing.T) {
	w := floorWorld()
	pool := projectile.NewPool(4, func() (*projectile.Projectile, error) {
		return projectile.New(w, projectile.Options{Group: PlayerGroup})
	})
	rec := &effects.Recorder{}
	l := NewLauncher(pool, LauncherConfig{
		Template:        testTemplate(),
		FireInterval:    0.25,
		MuzzleOffset:    0.5,
		InheritVelocity: true,
	}, rec)

	shot, err := l.Fire(cp.Vector{X: 1, Y: 2}, cp.Vector{X: 0, Y: 3}, cp.Vector{X: 4}, 0)
	if err != nil {
		t.Fatalf("fire: %v", err)
	}
	d := shot.Data()
	if !approx(d.StartPosition.X, 1) || !approx(d.StartPosition.Y, 2.5) {
		t.Fatalf("start = %v", d.StartPosition)
	}
	if !approx(d.Direction.Y, 1) || d.InitialVelocityEffect != (cp.Vector{X: 4}) {
		t.Fatalf("direction %v effect %v", d.Direction, d.InitialVelocityEffect)
	}
	if rec.Count(effects.Shoot) != 1 {
		t.Fatalf("shoot effect missing")
	}

	if _, err := l.Fire(cp.Vector{}, cp.Vector{X: 1}, cp.Vector{}, 0.1); !errors.Is(err, ErrCooldown) {
		t.Fatalf("fire during cooldown: err = %v", err)
	}
	if l.Ready(0.1) || !l.Ready(0.25) {
		t.Fatalf("Ready disagrees with cooldown")
	}
	if _, err := l.Fire(cp.Vector{}, cp.Vector{}, cp.Vector{}, 0.3); !errors.Is(err, projectile.ErrInvalidLaunch) {
		t.Fatalf("zero aim: err = %v", err)
	}
	if _, err := l.Fire(cp.Vector{}, cp.Vector{X: -1}, cp.Vector{}, 0.3); err != nil {
		t.Fatalf("fire after cooldown: %v", err)
	}
	if pool.ActiveCount() != 2 {
		t.Fatalf("active = %d, want 2", pool.ActiveCount())
	}
}

func TestBeamDamageInterval(t *testing.T) {
	w := collision.NewWorld(cp.Vector{})
	enemy := &target{}
	w.AddStaticBox(cp.BB{L: 3, B: -1, R: 4, T: 1}, collision.LayerEnemy, enemy)

	rec := &effects.Recorder{}
	b, err := NewBeam(w, BeamConfig{
		Distance:       10,
		Damage:         1,
		DamageInterval: 0.5,
		Mask:           collision.Layers(collision.LayerEnemy, collision.LayerGround),
	}, rec, nil)
	if err != nil {
		t.Fatalf("new beam: %v", err)
	}

	for _, now := range []float64{0, 0.1, 0.3, 0.6} {
		b.TickFrame(now, 0.1)
	}
	if enemy.hits != 2 {
		t.Fatalf("hits = %d, want 2", enemy.hits)
	}
	if !b.Blocked() || !approx(b.End().X, 3) {
		t.Fatalf("beam end = %v", b.End())
	}
	if rec.Count(effects.BeamHit) != 2 || rec.Count("shake") != 2 {
		t.Fatalf("unexpected effects %+v", rec.Events())
	}
}

func TestBeamCycleAndRotation(t *testing.T) {
	w := collision.NewWorld(cp.Vector{})
	b, err := NewBeam(w, BeamConfig{
		Distance:      5,
		TimeOn:        1,
		TimeOff:       1,
		RotationSpeed: math.Pi / 2,
		Mask:          collision.Layers(collision.LayerGround),
	}, nil, nil)
	if err != nil {
		t.Fatalf("new beam: %v", err)
	}

	b.TickFrame(0, 1)
	if !b.On() || !approx(b.End().X, 5) || b.Blocked() {
		t.Fatalf("beam should be on and unobstructed, end %v", b.End())
	}
	if d := b.Direction(); !approx(d.X, 0) || !approx(d.Y, 1) {
		t.Fatalf("direction after a quarter turn = %v", d)
	}
	b.TickFrame(1, 0)
	if b.On() || b.End() != b.Origin() {
		t.Fatalf("beam should switch off after TimeOn")
	}
	b.TickFrame(2, 0)
	if !b.On() || !approx(b.End().Y, 5) {
		t.Fatalf("beam should switch back on pointing up, end %v", b.End())
	}
}

func TestBeamKillsPlayer(t *testing.T) {
	w := floorWorld()
	p, _ := newTestPlayer(t, w, func(c *PlayerConfig) {
		c.Spawn = cp.Vector{X: -10, Y: 0.82}
	})
	p.Teleport(cp.Vector{X: 2, Y: 0.82})

	b, err := NewBeam(w, BeamConfig{
		Origin:   cp.Vector{X: -1, Y: 0.8},
		Distance: 8,
		Damage:   1,
		Mask:     collision.Layers(collision.LayerGround, collision.LayerPlayer),
	}, nil, nil)
	if err != nil {
		t.Fatalf("new beam: %v", err)
	}
	b.TickFrame(0, 1.0/60)
	if !p.Respawning() || p.Position() != p.Spawn() {
		t.Fatalf("beam should kill the player")
	}
}
