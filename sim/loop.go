// Package sim drives the two simulation phases: a fixed-rate physics tick
// and a variable-rate frame tick.
package sim

import (
	"log"

	"github.com/milk9111/lampdies/common"
)

const (
	DefaultFixedStep = 1.0 / 60.0
	DefaultMaxSteps  = 8
)

// Clock is simulation time in seconds. It only moves when advanced.
type Clock struct {
	now float64
}

func (c *Clock) Advance(dt float64) { c.now += dt }
func (c *Clock) Now() float64       { return c.now }

// Loop runs the physics scheduler at a fixed step from an accumulator, then
// the frame scheduler once with the real frame delta. Everything runs on the
// caller's goroutine.
type Loop struct {
	Physics *Scheduler
	Frame   *Scheduler

	fixedStep   float64
	maxSteps    int
	accumulator float64
	clock       Clock
	physicsTime float64
	steps       int64
	frames      int64
	dropped     int64
}

func NewLoop(fixedStep float64, maxSteps int) *Loop {
	if fixedStep <= 0 {
		fixedStep = DefaultFixedStep
	}
	if maxSteps <= 0 {
		maxSteps = DefaultMaxSteps
	}
	return &Loop{
		Physics:   NewScheduler(),
		Frame:     NewScheduler(),
		fixedStep: fixedStep,
		maxSteps:  maxSteps,
	}
}

// Advance consumes one frame of frameDt seconds and returns the number of
// physics steps taken. Backlog beyond maxSteps is dropped.
func (l *Loop) Advance(frameDt float64) int {
	if frameDt <= 0 || !common.Finite(frameDt) {
		return 0
	}
	l.accumulator += frameDt

	n := 0
	for l.accumulator >= l.fixedStep && n < l.maxSteps {
		l.physicsTime += l.fixedStep
		l.Physics.Update(Tick{Now: l.physicsTime, Dt: l.fixedStep, Index: l.steps})
		l.accumulator -= l.fixedStep
		l.steps++
		n++
	}
	if l.accumulator >= l.fixedStep {
		l.dropped++
		if l.dropped == 1 || l.dropped%100 == 0 {
			log.Printf("Loop: dropping %.3fs of physics backlog (%d times)", l.accumulator, l.dropped)
		}
		l.accumulator = 0
	}

	l.clock.Advance(frameDt)
	l.Frame.Update(Tick{Now: l.clock.Now(), Dt: frameDt, Index: l.frames})
	l.frames++
	return n
}

func (l *Loop) Now() float64       { return l.clock.Now() }
func (l *Loop) FixedStep() float64 { return l.fixedStep }
func (l *Loop) Steps() int64       { return l.steps }
func (l *Loop) Frames() int64      { return l.frames }

// Alpha is the fraction of a physics step left in the accumulator, for
// render interpolation.
func (l *Loop) Alpha() float64 {
	return l.accumulator / l.fixedStep
}
