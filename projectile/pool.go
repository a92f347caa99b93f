package projectile

import (
	"errors"
	"fmt"
)

var ErrPoolExhausted = errors.New("projectile: pool exhausted")

// Pool recycles projectiles. Instances stay live until their lifecycle
// returns to Inactive, then go back on the free list.
type Pool struct {
	capacity int
	factory  func() (*Projectile, error)

	live    []*Projectile
	free    []*Projectile
	created int
}

// NewPool creates a pool holding at most capacity projectiles built by factory.
func NewPool(capacity int, factory func() (*Projectile, error)) *Pool {
	if capacity <= 0 {
		capacity = 1
	}
	return &Pool{capacity: capacity, factory: factory}
}

// Launch activates a free or newly built projectile.
func (p *Pool) Launch(data LaunchData, now float64) (*Projectile, error) {
	var pr *Projectile
	switch {
	case len(p.free) > 0:
		pr = p.free[len(p.free)-1]
		p.free = p.free[:len(p.free)-1]
	case p.created < p.capacity:
		var err error
		pr, err = p.factory()
		if err != nil {
			return nil, fmt.Errorf("projectile: pool: %w", err)
		}
		p.created++
	default:
		return nil, ErrPoolExhausted
	}

	if err := pr.Activate(data, now); err != nil {
		p.free = append(p.free, pr)
		return nil, err
	}
	p.live = append(p.live, pr)
	return pr, nil
}

// TickFrame ticks every live projectile and releases the ones that became
// Inactive.
func (p *Pool) TickFrame(now, dt float64) {
	writeIdx := 0
	for _, pr := range p.live {
		pr.TickFrame(now, dt)
		if pr.Status() == StatusInactive {
			p.free = append(p.free, pr)
			continue
		}
		p.live[writeIdx] = pr
		writeIdx++
	}
	for i := writeIdx; i < len(p.live); i++ {
		p.live[i] = nil
	}
	p.live = p.live[:writeIdx]
}

func (p *Pool) TickPhysics(dt float64) {
	for _, pr := range p.live {
		pr.TickPhysics(dt)
	}
}

// Live returns projectiles that are Active or Stopping.
func (p *Pool) Live() []*Projectile {
	return p.live
}

// ActiveCount counts projectiles still in flight.
func (p *Pool) ActiveCount() int {
	n := 0
	for _, pr := range p.live {
		if pr.Active() {
			n++
		}
	}
	return n
}

// DeactivateAll stops every projectile in flight, e.g. on level reload.
func (p *Pool) DeactivateAll() {
	for _, pr := range p.live {
		pr.Deactivate()
	}
}

func (p *Pool) Capacity() int { return p.capacity }
