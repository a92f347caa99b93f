package actor

import (
	"errors"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/lampdies/common"
	"github.com/milk9111/lampdies/effects"
	"github.com/milk9111/lampdies/projectile"
)

var ErrCooldown = errors.New("actor: launcher cooling down")

type LauncherConfig struct {
	Template        projectile.LaunchData
	FireInterval    float64
	MuzzleOffset    float64 // spawn distance from the shooter along the aim
	InheritVelocity bool
}

// Launcher fires pooled projectiles, passing the shooter's velocity on as
// the launch velocity effect.
type Launcher struct {
	pool *projectile.Pool
	cfg  LauncherConfig
	sink effects.Sink

	lastFire float64
	fired    bool
}

func NewLauncher(pool *projectile.Pool, cfg LauncherConfig, sink effects.Sink) *Launcher {
	return &Launcher{pool: pool, cfg: cfg, sink: effects.OrNop(sink)}
}

// Fire launches one projectile from origin toward aim.
func (l *Launcher) Fire(origin, aim, shooterVelocity cp.Vector, now float64) (*projectile.Projectile, error) {
	if l.fired && now-l.lastFire < l.cfg.FireInterval {
		return nil, ErrCooldown
	}
	dir := common.SafeNormalize(aim)

	data := l.cfg.Template
	data.StartPosition = origin.Add(dir.Mult(l.cfg.MuzzleOffset))
	data.Direction = dir
	data.InitialVelocityEffect = cp.Vector{}
	if l.cfg.InheritVelocity {
		data.InitialVelocityEffect = shooterVelocity
	}

	p, err := l.pool.Launch(data, now)
	if err != nil {
		return nil, err
	}
	l.lastFire = now
	l.fired = true
	l.sink.Play(effects.Shoot, data.StartPosition, 1)
	return p, nil
}

// Ready reports whether Fire would pass the cooldown at now.
func (l *Launcher) Ready(now float64) bool {
	return !l.fired || now-l.lastFire >= l.cfg.FireInterval
}

// SetConfig swaps the launch template; shots in flight keep theirs.
func (l *Launcher) SetConfig(cfg LauncherConfig) {
	l.cfg = cfg
}

func (l *Launcher) Pool() *projectile.Pool {
	return l.pool
}
