// Package damage defines the hit capability shared by every damageable actor.
package damage

import "github.com/jakecoffman/cp"

// Damageable is implemented by anything that can be hit at a point.
type Damageable interface {
	GetHit(damage float64, point cp.Vector)
}

// Router delivers damage to a collision partner.
type Router interface {
	Deliver(target any, damage float64, point cp.Vector) bool
}

// RouterFunc adapts a function to Router.
type RouterFunc func(target any, damage float64, point cp.Vector) bool

func (f RouterFunc) Deliver(target any, damage float64, point cp.Vector) bool {
	return f(target, damage, point)
}

// Direct is the default Router: it calls Deliver.
var Direct Router = RouterFunc(Deliver)

// Deliver calls GetHit when target implements Damageable. Targets without
// the capability are skipped; that is not an error.
func Deliver(target any, damage float64, point cp.Vector) bool {
	d, ok := target.(Damageable)
	if !ok || d == nil {
		return false
	}
	d.GetHit(damage, point)
	return true
}
