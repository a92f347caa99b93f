package movement

import (
	"errors"
	"fmt"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/lampdies/collision"
)

var ErrNoBody = errors.New("movement: no physics body")

// Controller binds a movement State to a physics body. Each frame tick it
// probes contacts, steps the state machine, then commits the velocity.
type Controller struct {
	world     *collision.World
	body      *cp.Body
	footprint collision.Footprint
	ground    collision.LayerSet

	tuning   Tuning
	state    State
	disabled bool
}

// NewController fails fast when the world or body is missing or the
// tuning is invalid.
func NewController(world *collision.World, body *cp.Body, fp collision.Footprint, ground collision.LayerSet, t Tuning) (*Controller, error) {
	if world == nil || body == nil {
		return nil, ErrNoBody
	}
	if err := t.Validate(); err != nil {
		return nil, fmt.Errorf("movement: new controller: %w", err)
	}
	return &Controller{
		world:     world,
		body:      body,
		footprint: fp,
		ground:    ground,
		tuning:    t,
	}, nil
}

// Sense probes the world around the body.
func (c *Controller) Sense() Contacts {
	pos := c.body.Position()
	walls := c.world.ProbeWalls(pos, c.footprint, c.ground)
	return Contacts{
		Grounded:  c.world.ProbeGround(pos, c.footprint, c.ground),
		Roofed:    c.world.ProbeCeiling(pos, c.footprint, c.ground),
		WallLeft:  walls.Left,
		WallRight: walls.Right,
	}
}

// TickFrame runs one movement tick. While disabled the input reads neutral.
func (c *Controller) TickFrame(src InputSource, dt float64) State {
	contacts := c.Sense()

	in := Input{}
	if !c.disabled {
		in = Read(src)
	}

	c.state.Velocity = c.body.Velocity()
	c.state = Step(c.state, contacts, in, c.tuning, dt)

	c.body.SetVelocityVector(c.state.Velocity)
	c.body.SetAngularVelocity(0)
	return c.state
}

func (c *Controller) State() State {
	return c.state
}

func (c *Controller) Tuning() Tuning {
	return c.tuning
}

// SetTuning swaps tuning between ticks, e.g. on hot reload.
func (c *Controller) SetTuning(t Tuning) error {
	if err := t.Validate(); err != nil {
		return err
	}
	c.tuning = t
	return nil
}

func (c *Controller) Disable()       { c.disabled = true }
func (c *Controller) Enable()        { c.disabled = false }
func (c *Controller) Disabled() bool { return c.disabled }

// Reset clears timers, jump flags, and velocity.
func (c *Controller) Reset() {
	c.state = State{}
	c.body.SetVelocityVector(cp.Vector{})
}

func (c *Controller) Body() *cp.Body {
	return c.body
}

func (c *Controller) Footprint() collision.Footprint {
	return c.footprint
}
