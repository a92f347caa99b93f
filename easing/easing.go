// Package easing maps normalized time in [0,1] to eased progress in [0,1].
package easing

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/milk9111/lampdies/common"
	"gopkg.in/yaml.v3"
)

var ErrUnknownCurve = errors.New("easing: unknown curve")

// Func is an easing curve. Inputs outside [0,1] are clamped before evaluation.
type Func func(t float64) float64

// Kind names a curve in the registry. The zero value resolves to Linear.
type Kind string

const (
	KindLinear     Kind = "linear"
	KindInQuad     Kind = "in_quad"
	KindOutQuad    Kind = "out_quad"
	KindInOutQuad  Kind = "in_out_quad"
	KindInCubic    Kind = "in_cubic"
	KindOutCubic   Kind = "out_cubic"
	KindInOutCubic Kind = "in_out_cubic"
	KindInSine     Kind = "in_sine"
	KindOutSine    Kind = "out_sine"
	KindInOutSine  Kind = "in_out_sine"
	KindInExpo     Kind = "in_expo"
	KindOutExpo    Kind = "out_expo"
	KindSmoothStep Kind = "smooth_step"
)

func Linear(t float64) float64 { return t }

func InQuad(t float64) float64  { return t * t }
func OutQuad(t float64) float64 { return t * (2 - t) }
func InOutQuad(t float64) float64 {
	if t < 0.5 {
		return 2 * t * t
	}
	return -1 + (4-2*t)*t
}

func InCubic(t float64) float64 { return t * t * t }
func OutCubic(t float64) float64 {
	u := t - 1
	return u*u*u + 1
}
func InOutCubic(t float64) float64 {
	if t < 0.5 {
		return 4 * t * t * t
	}
	u := 2*t - 2
	return 0.5*u*u*u + 1
}

func InSine(t float64) float64    { return 1 - math.Cos(t*math.Pi/2) }
func OutSine(t float64) float64   { return math.Sin(t * math.Pi / 2) }
func InOutSine(t float64) float64 { return -(math.Cos(math.Pi*t) - 1) / 2 }

func InExpo(t float64) float64 {
	if t <= 0 {
		return 0
	}
	return math.Pow(2, 10*t-10)
}

func OutExpo(t float64) float64 {
	if t >= 1 {
		return 1
	}
	return 1 - math.Pow(2, -10*t)
}

func SmoothStep(t float64) float64 { return t * t * (3 - 2*t) }

var builtins = map[Kind]Func{
	KindLinear:     Linear,
	KindInQuad:     InQuad,
	KindOutQuad:    OutQuad,
	KindInOutQuad:  InOutQuad,
	KindInCubic:    InCubic,
	KindOutCubic:   OutCubic,
	KindInOutCubic: InOutCubic,
	KindInSine:     InSine,
	KindOutSine:    OutSine,
	KindInOutSine:  InOutSine,
	KindInExpo:     InExpo,
	KindOutExpo:    OutExpo,
	KindSmoothStep: SmoothStep,
}

// Evaluate clamps t to [0,1] and applies f. A nil f behaves as Linear.
func Evaluate(f Func, t float64) float64 {
	t = common.Clamp01(t)
	if f == nil {
		return t
	}
	return f(t)
}

// Lookup resolves a built-in curve.
func Lookup(k Kind) (Func, error) {
	if k == "" {
		return Linear, nil
	}
	f, ok := builtins[k]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCurve, k)
	}
	return f, nil
}

// Registry resolves built-in curves plus curves registered at runtime
// (usually compiled from scripts). It is safe for concurrent use so the
// prefab watcher goroutine can register while the game reads.
type Registry struct {
	mu     sync.RWMutex
	custom map[Kind]Func
}

func NewRegistry() *Registry {
	return &Registry{custom: make(map[Kind]Func)}
}

// Register adds or replaces a custom curve. Built-in names cannot be shadowed.
func (r *Registry) Register(k Kind, f Func) error {
	if r == nil {
		return errors.New("easing: nil registry")
	}
	if _, ok := builtins[k]; ok {
		return fmt.Errorf("easing: register %q: shadows built-in curve", k)
	}
	if k == "" || f == nil {
		return fmt.Errorf("easing: register %q: empty name or nil curve", k)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.custom[k] = f
	return nil
}

// Get resolves k against built-ins first, then custom curves.
func (r *Registry) Get(k Kind) (Func, error) {
	if f, err := Lookup(k); err == nil {
		return f, nil
	}
	if r == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCurve, k)
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.custom[k]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCurve, k)
	}
	return f, nil
}

// Names lists every resolvable curve, sorted.
func (r *Registry) Names() []Kind {
	out := make([]Kind, 0, len(builtins))
	for k := range builtins {
		out = append(out, k)
	}
	if r != nil {
		r.mu.RLock()
		for k := range r.custom {
			out = append(out, k)
		}
		r.mu.RUnlock()
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// UnmarshalYAML accepts a plain scalar curve name.
func (k *Kind) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return fmt.Errorf("easing: decode kind: %w", err)
	}
	*k = Kind(s)
	return nil
}
