package movement

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/lampdies/collision"
)

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestGroundAcceleration(t *testing.T) {
	tests := []struct {
		name     string
		maxSpeed float64
		want     float64
	}{
		{"unclamped", 10, 3.5},
		{"clamped", 2, 2},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tun := DefaultTuning()
			tun.GroundAcceleration = 35
			tun.MaxSpeed = tc.maxSpeed
			s := Step(State{}, Contacts{Grounded: true}, Input{Horizontal: 1}, tun, 0.1)
			if !approx(s.Velocity.X, tc.want) {
				t.Fatalf("v.x = %v, want %v", s.Velocity.X, tc.want)
			}
		})
	}
}

func TestSpeedClampHoldsForAnyInput(t *testing.T) {
	tun := DefaultTuning()
	rng := rand.New(rand.NewSource(42))
	s := State{}
	for i := 0; i < 5000; i++ {
		c := Contacts{
			Grounded:  rng.Intn(2) == 0,
			WallLeft:  rng.Intn(4) == 0,
			WallRight: rng.Intn(4) == 0,
		}
		in := Input{Horizontal: rng.Float64()*2 - 1, Jump: rng.Intn(3) == 0}
		s.Velocity.X += (rng.Float64()*2 - 1) * 40
		s.Contacts = c
		moved := stepMoving(s, in, tun, rng.Float64()*0.2)
		if math.Abs(moved.Velocity.X) > tun.MaxSpeed {
			t.Fatalf("step %d: |v.x| = %v exceeds %v", i, math.Abs(moved.Velocity.X), tun.MaxSpeed)
		}
		s = Step(s, c, in, tun, rng.Float64()*0.2)
		if math.Abs(s.Velocity.X) > math.Max(tun.MaxSpeed, tun.JumpForce) {
			t.Fatalf("step %d: |v.x| = %v after jump", i, s.Velocity.X)
		}
	}
}

func TestWallJumpDirection(t *testing.T) {
	tests := []struct {
		name     string
		contacts Contacts
		want     float64
	}{
		{"left_wall", Contacts{WallLeft: true}, 8},
		{"right_wall", Contacts{WallRight: true}, -8},
		{"both_walls", Contacts{WallLeft: true, WallRight: true}, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tun := DefaultTuning()
			tun.JumpForce = 8
			tun.WallJumpHeightMultiplier = 1.5
			tun.JumpDuration = 0
			s := State{CanJump: true, Velocity: cp.Vector{X: 3, Y: -4}}
			s = Step(s, tc.contacts, Input{Jump: true}, tun, 0.1)
			if !approx(s.Velocity.X, tc.want) || !approx(s.Velocity.Y, 12) {
				t.Fatalf("v = %v, want (%v, 12)", s.Velocity, tc.want)
			}
			if s.CanJump || s.Phase != PhaseJumping {
				t.Fatalf("jump flags not consumed: %+v", s)
			}
		})
	}
}

func TestWallStick(t *testing.T) {
	tun := DefaultTuning()
	tun.WallStickTime = 0.15
	tun.AirAcceleration = 15
	wall := Contacts{WallLeft: true}
	pushAway := Input{Horizontal: 1}

	s := Step(State{}, wall, pushAway, tun, 0.1)
	if !approx(s.WallStickTimer, 0.1) || s.Velocity.X != 0 {
		t.Fatalf("first tick should stick: %+v", s)
	}
	s = Step(s, wall, pushAway, tun, 0.1)
	if !approx(s.WallStickTimer, 0.2) || !approx(s.Velocity.X, 1.5) {
		t.Fatalf("second tick should release: %+v", s)
	}
	s = Step(s, wall, Input{}, tun, 0.1)
	if s.WallStickTimer != 0 {
		t.Fatalf("timer should reset when not pressing, got %v", s.WallStickTimer)
	}
}

func TestFrictionAndSlide(t *testing.T) {
	tun := DefaultTuning()
	tun.GroundFriction = 1
	tun.FrictionSlideTargetSpeed = 1
	tun.FrictionSlideMultiplier = 0.85

	s := Step(State{Velocity: cp.Vector{X: 5}}, Contacts{Grounded: true}, Input{}, tun, 0.1)
	if !approx(s.Velocity.X, 4.5) {
		t.Fatalf("ground friction: v.x = %v, want 4.5", s.Velocity.X)
	}

	s = Step(State{Velocity: cp.Vector{Y: -5}}, Contacts{WallLeft: true}, Input{Horizontal: -1}, tun, 0.1)
	if !approx(s.Velocity.Y, -4.575) {
		t.Fatalf("wall slide: v.y = %v, want -4.575", s.Velocity.Y)
	}

	s = Step(State{Velocity: cp.Vector{Y: -0.5}}, Contacts{WallLeft: true}, Input{Horizontal: -1}, tun, 0.1)
	if !approx(s.Velocity.Y, -0.5) {
		t.Fatalf("slow fall must not be slowed, v.y = %v", s.Velocity.Y)
	}
}

func TestJumpAndFloat(t *testing.T) {
	tun := DefaultTuning()
	tun.JumpForce = 8
	tun.TargetJumpSpeed = 6
	tun.JumpDuration = 0.25
	tun.AirFriction = cp.Vector{Y: 4}
	ground := Contacts{Grounded: true}
	held := Input{Jump: true}

	// canJump starts false: holding jump before ever releasing does nothing.
	s := Step(State{}, ground, held, tun, 0.1)
	if s.Velocity.Y != 0 || s.Phase != PhaseIdle {
		t.Fatalf("jump without prior release: %+v", s)
	}

	s = Step(s, ground, Input{}, tun, 0.1)
	if !s.CanJump {
		t.Fatalf("release on ground should arm the jump")
	}

	s = Step(s, ground, held, tun, 0.1)
	if !approx(s.Velocity.Y, 6) || s.Phase != PhaseJumping || !s.CanFloat {
		t.Fatalf("jump tick: %+v", s)
	}

	s.Velocity.Y = 5
	s = Step(s, Contacts{}, held, tun, 0.1)
	if !approx(s.Velocity.Y, 6) || s.Phase != PhaseFloating {
		t.Fatalf("float tick: %+v", s)
	}

	s.Velocity.Y = 5
	s = Step(s, Contacts{}, held, tun, 0.1)
	if !approx(s.Velocity.Y, 5) || s.CanFloat || s.Phase != PhaseIdle {
		t.Fatalf("float should expire: %+v", s)
	}

	s.Velocity.Y = 4
	s = Step(s, Contacts{}, Input{}, tun, 0.1)
	if !approx(s.Velocity.Y, 2.4) || s.CanJump {
		t.Fatalf("release in air: %+v", s)
	}
}

func TestTuningValidate(t *testing.T) {
	if err := DefaultTuning().Validate(); err != nil {
		t.Fatalf("defaults invalid: %v", err)
	}
	bad := DefaultTuning()
	bad.MaxSpeed = -1
	if err := bad.Validate(); !errors.Is(err, ErrInvalidTuning) {
		t.Fatalf("negative max speed: err = %v", err)
	}
	bad = DefaultTuning()
	bad.JumpForce = math.NaN()
	if err := bad.Validate(); !errors.Is(err, ErrInvalidTuning) {
		t.Fatalf("NaN jump force: err = %v", err)
	}
}

func TestRead(t *testing.T) {
	if in := Read(Input{Horizontal: 3, Jump: true}); in.Horizontal != 1 || !in.Jump {
		t.Fatalf("Read should clamp: %+v", in)
	}
	if in := Read(nil); in != (Input{}) {
		t.Fatalf("nil source should be neutral: %+v", in)
	}
}

func TestLean(t *testing.T) {
	if got := Lean(0, 10, 10, 0.2, 0.2); !approx(got, -0.2) {
		t.Fatalf("full lean = %v", got)
	}
	if got := Lean(0.1, 0, 10, 0.2, 0.1); !approx(got, 0.05) {
		t.Fatalf("lean should ease back to zero, got %v", got)
	}
}

func TestController(t *testing.T) {
	w := collision.NewWorld(cp.Vector{Y: -20})
	w.AddStaticBox(cp.BB{L: -10, B: -1, R: 10, T: 0}, collision.LayerGround, nil)

	if _, err := NewController(w, nil, collision.Footprint{}, 0, DefaultTuning()); !errors.Is(err, ErrNoBody) {
		t.Fatalf("missing body: err = %v", err)
	}

	body := cp.NewBody(1, cp.INFINITY)
	body.SetPosition(cp.Vector{X: 0, Y: 1})
	shape := cp.NewCircle(body, 0.5, cp.Vector{})
	w.AddBody(body, 1, collision.LayerPlayer, collision.Layers(collision.LayerGround), nil, shape)

	tun := DefaultTuning()
	c, err := NewController(w, body, collision.Footprint{Width: 1, Height: 2}, collision.Layers(collision.LayerGround), tun)
	if err != nil {
		t.Fatalf("new controller: %v", err)
	}

	s := c.TickFrame(Input{Horizontal: 1}, 0.1)
	if !s.Contacts.Grounded {
		t.Fatalf("controller should sense the floor")
	}
	if !approx(body.Velocity().X, 3.5) {
		t.Fatalf("body v.x = %v, want 3.5", body.Velocity().X)
	}

	c.Disable()
	c.TickFrame(Input{Horizontal: 1}, 0.1)
	if !approx(body.Velocity().X, 3.15) {
		t.Fatalf("disabled input should read neutral and apply friction, v.x = %v", body.Velocity().X)
	}
	c.Enable()
	c.Reset()
	if body.Velocity() != (cp.Vector{}) || c.State().CanJump {
		t.Fatalf("reset should clear velocity and flags")
	}
}
