package projectile

import (
	"errors"
	"fmt"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/lampdies/collision"
	"github.com/milk9111/lampdies/common"
	"github.com/milk9111/lampdies/easing"
)

var ErrInvalidLaunch = errors.New("projectile: invalid launch data")

// Range is a (from, to) pair. For lifetimes From/To are min/max; for speed
// and size they are the start and end values.
type Range struct {
	From float64
	To   float64
}

func (r Range) At(t float64) float64 {
	return common.Lerp(r.From, r.To, t)
}

// LaunchData configures one activation. It is immutable after Activate,
// except that reflection rewrites Direction and InitialVelocityEffect.
type LaunchData struct {
	StartPosition         cp.Vector
	Direction             cp.Vector
	InitialVelocityEffect cp.Vector

	Damage     float64
	Lifetime   Range
	Speed      Range
	Size       Range
	Easing     easing.Kind
	Reflective collision.LayerSet
	Colliding  collision.LayerSet
}

// Validate checks launch preconditions.
func (d LaunchData) Validate() error {
	for _, v := range []float64{
		d.StartPosition.X, d.StartPosition.Y,
		d.Direction.X, d.Direction.Y,
		d.InitialVelocityEffect.X, d.InitialVelocityEffect.Y,
		d.Damage, d.Lifetime.From, d.Lifetime.To,
		d.Speed.From, d.Speed.To, d.Size.From, d.Size.To,
	} {
		if !common.Finite(v) {
			return fmt.Errorf("%w: non-finite value", ErrInvalidLaunch)
		}
	}
	switch {
	case d.Lifetime.From <= 0:
		return fmt.Errorf("%w: lifetime %v must be positive", ErrInvalidLaunch, d.Lifetime.From)
	case d.Lifetime.From > d.Lifetime.To:
		return fmt.Errorf("%w: lifetime min %v > max %v", ErrInvalidLaunch, d.Lifetime.From, d.Lifetime.To)
	case d.Direction.X == 0 && d.Direction.Y == 0:
		return fmt.Errorf("%w: zero direction", ErrInvalidLaunch)
	case d.Damage < 0:
		return fmt.Errorf("%w: negative damage %v", ErrInvalidLaunch, d.Damage)
	case d.Speed.From < 0 || d.Speed.To < 0:
		return fmt.Errorf("%w: negative speed", ErrInvalidLaunch)
	case d.Size.From < 0 || d.Size.To < 0:
		return fmt.Errorf("%w: negative size", ErrInvalidLaunch)
	}
	return nil
}
