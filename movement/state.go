// Package movement is the player's movement state machine: contact-aware
// acceleration, friction, wall-stick, and jump/float timing.
package movement

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/lampdies/common"
)

// inputDeadzone is the axis magnitude below which input counts as released.
const inputDeadzone = 0.05

// Contacts classifies the surfaces touching the actor this tick.
type Contacts struct {
	Grounded  bool
	Roofed    bool
	WallLeft  bool
	WallRight bool
}

func (c Contacts) Walled() bool { return c.WallLeft || c.WallRight }

// InputSource is polled once per frame tick.
type InputSource interface {
	HorizontalAxis() float64
	JumpHeld() bool
}

// Input is a snapshot of the normalized controls.
type Input struct {
	Horizontal float64
	Jump       bool
}

func (i Input) HorizontalAxis() float64 { return i.Horizontal }
func (i Input) JumpHeld() bool          { return i.Jump }

// Read samples src, clamping the axis to [-1,1]. A nil source is neutral.
func Read(src InputSource) Input {
	if src == nil {
		return Input{}
	}
	h := src.HorizontalAxis()
	if !common.Finite(h) {
		h = 0
	}
	return Input{Horizontal: common.Clamp(h, -1, 1), Jump: src.JumpHeld()}
}

// Phase is the jump state.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseJumping
	PhaseFloating
)

func (p Phase) String() string {
	switch p {
	case PhaseJumping:
		return "jumping"
	case PhaseFloating:
		return "floating"
	}
	return "idle"
}

// State is the movement state owned by one actor.
type State struct {
	Velocity       cp.Vector
	Contacts       Contacts
	WallStickTimer float64
	CanJump        bool
	CanFloat       bool
	JumpTimer      float64
	Phase          Phase
}

// Step advances s by one frame tick. Contacts must be freshly probed; they
// replace the previous tick's flags before any velocity change.
func Step(s State, contacts Contacts, in Input, t Tuning, dt float64) State {
	if dt <= 0 || !common.Finite(dt) {
		s.Contacts = contacts
		return s
	}
	s.Contacts = contacts
	s = stepMoving(s, in, t, dt)
	s = stepJumping(s, in, t, dt)
	return s
}

func stepMoving(s State, in Input, t Tuning, dt float64) State {
	c := s.Contacts
	h := in.Horizontal
	v := s.Velocity

	if (c.WallLeft && h > inputDeadzone) || (c.WallRight && h < -inputDeadzone) {
		s.WallStickTimer += dt
	} else {
		s.WallStickTimer = 0
	}

	accel := t.AirAcceleration
	if c.Grounded {
		accel = t.GroundAcceleration
	}
	if !c.Walled() || c.Grounded || s.WallStickTimer >= t.WallStickTime {
		v.X += accel * h * dt
	}

	if math.Abs(h) < inputDeadzone || (h > inputDeadzone && v.X < -inputDeadzone) || (h < -inputDeadzone && v.X > inputDeadzone) {
		friction := t.AirFriction.X
		if c.Grounded {
			friction = t.GroundFriction
		}
		v.X += -v.X * friction * dt
	}

	if (h < -inputDeadzone && c.WallLeft) || (h > inputDeadzone && c.WallRight) {
		if v.Y < -t.FrictionSlideTargetSpeed {
			v.Y += -v.Y * t.FrictionSlideMultiplier * dt
		}
	}

	if math.Abs(v.X) > t.MaxSpeed {
		v.X = common.Sign(v.X) * t.MaxSpeed
	}

	s.Velocity = v
	return s
}

func stepJumping(s State, in Input, t Tuning, dt float64) State {
	c := s.Contacts
	v := s.Velocity

	if !in.Jump {
		s.CanFloat = false
		s.Phase = PhaseIdle
		if c.Walled() || c.Grounded {
			s.CanJump = true
		}
		if v.Y > 0 {
			v.Y += -v.Y * t.AirFriction.Y * dt
		}
		s.Velocity = v
		return s
	}

	jumped := false
	if c.Grounded && s.CanJump {
		v.Y += t.JumpForce
		jumped = true
	} else if c.Walled() && s.CanJump {
		dir := 0.0
		if c.WallLeft {
			dir++
		}
		if c.WallRight {
			dir--
		}
		v = cp.Vector{X: dir * t.JumpForce, Y: t.JumpForce * t.WallJumpHeightMultiplier}
		jumped = true
	}
	s.Phase = PhaseIdle
	if jumped {
		s.JumpTimer = 0
		s.CanJump = false
		s.CanFloat = true
		s.Phase = PhaseJumping
	}

	if s.CanFloat {
		s.JumpTimer += dt
		if s.JumpTimer < t.JumpDuration {
			if v.Y < t.TargetJumpSpeed {
				v.Y += t.JumpForce
			}
			if v.Y > t.TargetJumpSpeed {
				v.Y = t.TargetJumpSpeed
			}
			if !jumped {
				s.Phase = PhaseFloating
			}
		} else {
			s.CanFloat = false
		}
	}

	s.Velocity = v
	return s
}
