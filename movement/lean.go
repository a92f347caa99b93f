package movement

import (
	"math"

	"github.com/milk9111/lampdies/common"
)

const leanRate = 5.0

// Lean eases a visual tilt toward one proportional to horizontal speed,
// leaning against the direction of travel. Cosmetic only.
func Lean(current, vx, maxSpeed, angle, dt float64) float64 {
	target := 0.0
	if !common.Approximately(vx, 0) && maxSpeed > 0 {
		target = -common.Sign(vx) * math.Abs(vx) / maxSpeed * angle
	}
	return common.Lerp(current, target, common.Clamp01(dt*leanRate))
}
