package easing

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/milk9111/lampdies/common"
)

var ErrScript = errors.New("easing: script")

// scriptSamples is the resolution of the lookup table baked from a script.
const scriptSamples = 256

const scriptPrelude = "math := import(\"math\")\n"

// Compile evaluates a tengo expression of t (e.g. "t * t * (3 - 2 * t)" or
// "math.pow(t, 0.5)") across [0,1] once and returns a curve that linearly
// interpolates the baked samples. The script never runs on the tick path.
func Compile(src string) (Func, error) {
	expr := strings.TrimSpace(src)
	if expr == "" {
		return nil, fmt.Errorf("%w: empty expression", ErrScript)
	}

	script := tengo.NewScript([]byte(scriptPrelude + "out = " + expr))
	script.SetImports(stdlib.GetModuleMap("math"))
	if err := script.Add("t", 0.0); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrScript, err)
	}
	if err := script.Add("out", 0.0); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrScript, err)
	}

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("%w: compile: %v", ErrScript, err)
	}

	table := make([]float64, scriptSamples+1)
	for i := range table {
		t := float64(i) / scriptSamples
		if err := compiled.Set("t", t); err != nil {
			return nil, fmt.Errorf("%w: set t: %v", ErrScript, err)
		}
		if err := compiled.Run(); err != nil {
			return nil, fmt.Errorf("%w: run at t=%.3f: %v", ErrScript, t, err)
		}
		v := compiled.Get("out").Float()
		if !common.Finite(v) {
			return nil, fmt.Errorf("%w: non-finite result at t=%.3f", ErrScript, t)
		}
		table[i] = v
	}

	return func(t float64) float64 {
		x := common.Clamp01(t) * scriptSamples
		i := int(math.Floor(x))
		if i >= scriptSamples {
			return table[scriptSamples]
		}
		return common.Lerp(table[i], table[i+1], x-float64(i))
	}, nil
}

// RegisterScripts compiles each named expression into r. It stops at the
// first failure and reports which curve broke.
func RegisterScripts(r *Registry, scripts map[string]string) error {
	for name, src := range scripts {
		f, err := Compile(src)
		if err != nil {
			return fmt.Errorf("easing: curve %q: %w", name, err)
		}
		if err := r.Register(Kind(name), f); err != nil {
			return err
		}
	}
	return nil
}
