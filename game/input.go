package game

import "github.com/jakecoffman/cp"

// Input is one frame of normalized device state. Drivers fill it from
// keyboard, gamepad or terminal keys.
type Input struct {
	Horizontal float64
	Jump       bool
	Fire       bool
	Aim        cp.Vector // zero aims along the facing direction
}

func (i Input) HorizontalAxis() float64 { return i.Horizontal }
func (i Input) JumpHeld() bool          { return i.Jump }
