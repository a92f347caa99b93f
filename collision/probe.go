package collision

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/lampdies/common"
)

const (
	// probeOffset pushes probe shapes out of the owner's collider so they
	// never nest fully inside it.
	probeOffset = 0.05
	// probeShrink trims probe radii for the same reason.
	probeShrink = 0.01
)

// Footprint is the size of an actor's collider.
type Footprint struct {
	Width  float64
	Height float64
}

// Walls reports wall contact on each side of an actor.
type Walls struct {
	Left  bool
	Right bool
}

func (w Walls) Any() bool { return w.Left || w.Right }

// RayHit describes the first surface hit by a raycast.
type RayHit struct {
	Point    cp.Vector
	Normal   cp.Vector
	Distance float64
	Shape    *cp.Shape
	Layer    Layer
	Owner    any
}

// ProbeGround checks for a filtered surface under the footprint: a circle
// of radius width/2 offset down by height/4.
func (w *World) ProbeGround(pos cp.Vector, fp Footprint, filter LayerSet) bool {
	center := cp.Vector{X: pos.X, Y: pos.Y - fp.Height/4 - probeOffset}
	return w.overlapCircle(center, fp.Width/2-probeShrink, filter)
}

// ProbeCeiling mirrors ProbeGround upward.
func (w *World) ProbeCeiling(pos cp.Vector, fp Footprint, filter LayerSet) bool {
	center := cp.Vector{X: pos.X, Y: pos.Y + fp.Height/4 + probeOffset}
	return w.overlapCircle(center, fp.Width/2-probeShrink, filter)
}

// ProbeWalls checks two vertical capsules nudged left and right. Their
// height is reduced by half the width so floor and ceiling contact is not
// reported as a wall.
func (w *World) ProbeWalls(pos cp.Vector, fp Footprint, filter LayerSet) Walls {
	height := fp.Height - fp.Width*0.5
	return Walls{
		Left:  w.overlapCapsule(cp.Vector{X: pos.X - probeOffset, Y: pos.Y}, fp.Width, height, filter),
		Right: w.overlapCapsule(cp.Vector{X: pos.X + probeOffset, Y: pos.Y}, fp.Width, height, filter),
	}
}

// RaycastDirectional returns the first filtered surface along dir within
// maxDistance.
func (w *World) RaycastDirectional(origin, dir cp.Vector, maxDistance float64, filter LayerSet) (RayHit, bool) {
	if w == nil || w.space == nil || maxDistance <= 0 {
		return RayHit{}, false
	}
	d := common.SafeNormalize(dir)
	if d.X == 0 && d.Y == 0 {
		return RayHit{}, false
	}
	end := origin.Add(d.Mult(maxDistance))
	info := w.space.SegmentQueryFirst(origin, end, 0, QueryFilter(cp.NO_GROUP, filter))
	if info.Shape == nil {
		return RayHit{}, false
	}
	hit := RayHit{
		Point:    info.Point,
		Normal:   info.Normal,
		Distance: info.Alpha * maxDistance,
		Shape:    info.Shape,
	}
	if tag, ok := TagOf(info.Shape); ok {
		hit.Layer = tag.Layer
		hit.Owner = tag.Owner
	}
	return hit, true
}

func (w *World) overlapCircle(center cp.Vector, radius float64, filter LayerSet) bool {
	if w == nil || w.space == nil || radius <= 0 || filter.Empty() {
		return false
	}
	w.probeBody.SetPosition(center)
	shape := cp.NewCircle(w.probeBody, radius, cp.Vector{})
	return w.overlapShape(shape, filter)
}

func (w *World) overlapCapsule(center cp.Vector, width, height float64, filter LayerSet) bool {
	if w == nil || w.space == nil || width <= 0 || filter.Empty() {
		return false
	}
	radius := width / 2
	half := height/2 - radius
	if half <= 0 {
		return w.overlapCircle(center, radius, filter)
	}
	w.probeBody.SetPosition(center)
	shape := cp.NewSegment(w.probeBody, cp.Vector{X: 0, Y: -half}, cp.Vector{X: 0, Y: half}, radius)
	return w.overlapShape(shape, filter)
}

func (w *World) overlapShape(shape *cp.Shape, filter LayerSet) bool {
	shape.SetFilter(QueryFilter(cp.NO_GROUP, filter))
	hit := false
	w.space.ShapeQuery(shape, func(_ *cp.Shape, points *cp.ContactPointSet) {
		if points != nil && points.Count > 0 {
			hit = true
		}
	})
	return hit
}
