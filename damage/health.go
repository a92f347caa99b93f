package damage

import "github.com/jakecoffman/cp"

// Hit describes one applied hit.
type Hit struct {
	Damage float64
	Point  cp.Vector
}

// Health is a reusable health pool for anything that can take damage.
type Health struct {
	Max          float64
	Current      float64
	Invulnerable float64 // seconds of remaining invulnerability
	Dead         bool

	OnDamage func(h *Health, hit Hit)
	OnDeath  func(h *Health, hit Hit)
}

// NewHealth creates a Health with max/current initialized.
func NewHealth(max float64) *Health {
	if max <= 0 {
		max = 1
	}
	return &Health{Max: max, Current: max}
}

func (h *Health) IsAlive() bool {
	return h != nil && !h.Dead && h.Current > 0
}

// ApplyDamage applies damage unless invulnerable. Returns true if damage was applied.
func (h *Health) ApplyDamage(amount float64, point cp.Vector) bool {
	if h == nil || h.Dead || h.Invulnerable > 0 || amount <= 0 {
		return false
	}
	hit := Hit{Damage: amount, Point: point}
	h.Current -= amount
	if h.Current < 0 {
		h.Current = 0
	}
	if h.OnDamage != nil {
		h.OnDamage(h, hit)
	}
	if h.Current <= 0 {
		h.Dead = true
		if h.OnDeath != nil {
			h.OnDeath(h, hit)
		}
	}
	return true
}

// Heal restores health up to Max.
func (h *Health) Heal(amount float64) {
	if h == nil || h.Dead || amount <= 0 {
		return
	}
	h.Current += amount
	if h.Current > h.Max {
		h.Current = h.Max
	}
}

// Reset refills the pool and revives it.
func (h *Health) Reset() {
	if h == nil {
		return
	}
	h.Current = h.Max
	h.Dead = false
	h.Invulnerable = 0
}

// StartInvulnerable ignores damage for the given number of seconds.
func (h *Health) StartInvulnerable(seconds float64) {
	if h == nil || seconds <= h.Invulnerable {
		return
	}
	h.Invulnerable = seconds
}

// Tick advances the invulnerability timer.
func (h *Health) Tick(dt float64) {
	if h == nil || h.Invulnerable <= 0 {
		return
	}
	h.Invulnerable -= dt
	if h.Invulnerable < 0 {
		h.Invulnerable = 0
	}
}

// Fraction returns Current/Max in [0,1].
func (h *Health) Fraction() float64 {
	if h == nil || h.Max <= 0 {
		return 0
	}
	return h.Current / h.Max
}

// SetMaxHP sets the maximum health value and clamps Current if needed.
func (h *Health) SetMaxHP(v float64) {
	if h == nil {
		return
	}
	h.Max = v
	if h.Max <= 0 {
		h.Max = 1
	}
	if h.Current > h.Max {
		h.Current = h.Max
	}
}
