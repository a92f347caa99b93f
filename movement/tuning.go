package movement

import (
	"errors"
	"fmt"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/lampdies/common"
)

var ErrInvalidTuning = errors.New("movement: invalid tuning")

// Tuning holds the player's movement constants. Speeds are world units per
// second, accelerations per second squared, times in seconds.
type Tuning struct {
	MaxSpeed           float64
	GroundAcceleration float64
	AirAcceleration    float64
	GroundFriction     float64
	AirFriction        cp.Vector // X decays horizontal speed, Y bleeds rising speed after jump release

	WallStickTime            float64
	FrictionSlideTargetSpeed float64
	FrictionSlideMultiplier  float64

	JumpForce                float64
	TargetJumpSpeed          float64
	JumpDuration             float64
	WallJumpHeightMultiplier float64

	LeanAngle float64 // radians, cosmetic only
}

func DefaultTuning() Tuning {
	return Tuning{
		MaxSpeed:                 10,
		GroundAcceleration:       35,
		AirAcceleration:          15,
		GroundFriction:           1,
		AirFriction:              cp.Vector{X: 0.5, Y: 4},
		WallStickTime:            0.15,
		FrictionSlideTargetSpeed: 1,
		FrictionSlideMultiplier:  0.85,
		JumpForce:                8,
		TargetJumpSpeed:          6,
		JumpDuration:             0.25,
		WallJumpHeightMultiplier: 1,
		LeanAngle:                0.2,
	}
}

// Validate rejects negative or non-finite values.
func (t Tuning) Validate() error {
	fields := []struct {
		name string
		v    float64
	}{
		{"max_speed", t.MaxSpeed},
		{"ground_acceleration", t.GroundAcceleration},
		{"air_acceleration", t.AirAcceleration},
		{"ground_friction", t.GroundFriction},
		{"air_friction.x", t.AirFriction.X},
		{"air_friction.y", t.AirFriction.Y},
		{"wall_stick_time", t.WallStickTime},
		{"friction_slide_target_speed", t.FrictionSlideTargetSpeed},
		{"friction_slide_multiplier", t.FrictionSlideMultiplier},
		{"jump_force", t.JumpForce},
		{"target_jump_speed", t.TargetJumpSpeed},
		{"jump_duration", t.JumpDuration},
		{"wall_jump_height_multiplier", t.WallJumpHeightMultiplier},
		{"lean_angle", t.LeanAngle},
	}
	for _, f := range fields {
		if !common.Finite(f.v) || f.v < 0 {
			return fmt.Errorf("%w: %s = %v", ErrInvalidTuning, f.name, f.v)
		}
	}
	return nil
}
