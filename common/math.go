package common

import (
	"math"

	"github.com/jakecoffman/cp"
)

const approxEpsilon = 1e-6

func Lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

// Clamp01 limits t to [0, 1].
func Clamp01(t float64) float64 {
	return Clamp(t, 0, 1)
}

func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Sign returns -1, 0 or 1.
func Sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

// Approximately reports whether a and b are equal within a small tolerance.
func Approximately(a, b float64) bool {
	return math.Abs(a-b) <= approxEpsilon
}

// Finite reports whether v is neither NaN nor infinite.
func Finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// LerpVector interpolates between a and b without clamping t.
func LerpVector(a, b cp.Vector, t float64) cp.Vector {
	return cp.Vector{X: Lerp(a.X, b.X, t), Y: Lerp(a.Y, b.Y, t)}
}

// SafeNormalize returns the unit vector of v, or the zero vector when v has
// no length.
func SafeNormalize(v cp.Vector) cp.Vector {
	l := v.Length()
	if l == 0 || !Finite(l) {
		return cp.Vector{}
	}
	return cp.Vector{X: v.X / l, Y: v.Y / l}
}

// Reflect mirrors d about the surface normal n: d - 2(d·n)n.
// n is normalized first so callers may pass raw contact normals.
func Reflect(d, n cp.Vector) cp.Vector {
	n = SafeNormalize(n)
	dot := d.X*n.X + d.Y*n.Y
	return cp.Vector{X: d.X - 2*dot*n.X, Y: d.Y - 2*dot*n.Y}
}

// MoveTowards moves current toward target by at most maxDelta.
func MoveTowards(current, target, maxDelta float64) float64 {
	if math.Abs(target-current) <= maxDelta {
		return target
	}
	return current + Sign(target-current)*maxDelta
}

// DeltaAngle returns the shortest signed difference between two angles in
// radians, in (-Pi, Pi].
func DeltaAngle(from, to float64) float64 {
	d := math.Mod(to-from, 2*math.Pi)
	if d > math.Pi {
		d -= 2 * math.Pi
	} else if d <= -math.Pi {
		d += 2 * math.Pi
	}
	return d
}
