package collision

import (
	"log"
	"math"

	"github.com/jakecoffman/cp"
)

const (
	collisionTypeDefault cp.CollisionType = iota
	collisionTypeListener
)

const defaultIterations = 20

// Tag is stored in every shape's UserData so contacts and queries can
// recover the surface layer and the owning actor.
type Tag struct {
	Layer Layer
	Owner any
}

// TagOf returns the tag attached to s, if any.
func TagOf(s *cp.Shape) (*Tag, bool) {
	if s == nil {
		return nil, false
	}
	t, ok := s.UserData.(*Tag)
	return t, ok && t != nil
}

// Contact is a begin-contact event delivered after the physics step.
type Contact struct {
	Self   *cp.Shape
	Other  *cp.Shape
	Layer  Layer
	Owner  any
	Point  cp.Vector
	Normal cp.Vector // surface normal of Other, pointing toward Self
}

// ContactListener receives contacts for the shapes it registered.
type ContactListener interface {
	HandleContact(c Contact)
}

// World owns the Chipmunk space, static level geometry, and contact dispatch.
// It is driven from a single simulation thread.
type World struct {
	space         *cp.Space
	gravity       cp.Vector
	handlersReady bool

	listeners map[*cp.Shape]ContactListener
	pending   []Contact

	probeBody *cp.Body
	statics   []*cp.Shape
}

// NewWorld creates a world with the given gravity (y-up).
func NewWorld(gravity cp.Vector) *World {
	space := cp.NewSpace()
	space.Iterations = defaultIterations
	space.SetGravity(gravity)

	w := &World{
		space:     space,
		gravity:   gravity,
		listeners: make(map[*cp.Shape]ContactListener),
		probeBody: cp.NewKinematicBody(),
	}
	w.setupHandlers()
	return w
}

// Space returns the underlying Chipmunk space.
func (w *World) Space() *cp.Space {
	if w == nil {
		return nil
	}
	return w.space
}

// Gravity returns the configured gravity.
func (w *World) Gravity() cp.Vector {
	if w == nil {
		return cp.Vector{}
	}
	return w.gravity
}

// Step advances the simulation by dt and then dispatches buffered contacts.
// Listeners may add or remove shapes while handling a contact.
func (w *World) Step(dt float64) {
	if w == nil || w.space == nil || dt <= 0 {
		return
	}
	w.space.Step(dt)
	w.dispatch()
}

func (w *World) dispatch() {
	if len(w.pending) == 0 {
		return
	}
	batch := w.pending
	w.pending = nil
	for _, c := range batch {
		l, ok := w.listeners[c.Self]
		if !ok || l == nil {
			continue
		}
		l.HandleContact(c)
	}
}

func (w *World) setupHandlers() {
	if w.handlersReady || w.space == nil {
		return
	}

	handler := w.space.NewWildcardCollisionHandler(collisionTypeListener)
	handler.UserData = w
	handler.BeginFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) bool {
		world, ok := userData.(*World)
		if !ok || world == nil {
			return true
		}
		// Wildcard handlers see the listener shape as A; a pair of
		// listeners gets one call per side.
		shapeA, shapeB := arb.Shapes()
		if _, ok := world.listeners[shapeA]; !ok {
			return true
		}
		set := arb.ContactPointSet()
		point := shapeA.Body().Position()
		if set.Count > 0 {
			point = set.Points[0].PointB
		}
		// Normal points from A to B; the surface of B faces A.
		world.pending = append(world.pending, newContact(shapeA, shapeB, point, arb.Normal().Neg()))
		return true
	}

	w.handlersReady = true
}

func newContact(self, other *cp.Shape, point, normal cp.Vector) Contact {
	c := Contact{Self: self, Other: other, Point: point, Normal: normal}
	if tag, ok := TagOf(other); ok {
		c.Layer = tag.Layer
		c.Owner = tag.Owner
	}
	return c
}

// Listen registers l for begin contacts on s.
func (w *World) Listen(s *cp.Shape, l ContactListener) {
	if w == nil || s == nil || l == nil {
		return
	}
	s.SetCollisionType(collisionTypeListener)
	w.listeners[s] = l
}

// Unlisten stops delivering contacts for s, including ones already buffered.
func (w *World) Unlisten(s *cp.Shape) {
	if w == nil || s == nil {
		return
	}
	delete(w.listeners, s)
	s.SetCollisionType(collisionTypeDefault)
}

// ShapeFilter builds a Chipmunk filter for a shape on layer that collides
// with mask. group lets an actor's own shapes and probes ignore each other.
func ShapeFilter(group uint, layer Layer, mask LayerSet) cp.ShapeFilter {
	return cp.NewShapeFilter(group, layer.Bit(), uint(mask))
}

// QueryFilter builds a filter for probes that only see mask.
func QueryFilter(group uint, mask LayerSet) cp.ShapeFilter {
	return cp.NewShapeFilter(group, cp.ALL_CATEGORIES, uint(mask))
}

// AddBody adds a dynamic or kinematic body and its shapes. Every shape is
// tagged with layer/owner and filtered to collide with mask.
func (w *World) AddBody(body *cp.Body, group uint, layer Layer, mask LayerSet, owner any, shapes ...*cp.Shape) {
	if w == nil || w.space == nil || body == nil {
		return
	}
	if !w.space.ContainsBody(body) {
		w.space.AddBody(body)
	}
	tag := &Tag{Layer: layer, Owner: owner}
	for _, s := range shapes {
		if s == nil {
			continue
		}
		s.UserData = tag
		s.SetFilter(ShapeFilter(group, layer, mask))
		if !w.space.ContainsShape(s) {
			w.space.AddShape(s)
		}
	}
}

// RemoveBody removes body and shapes from the space if present.
func (w *World) RemoveBody(body *cp.Body, shapes ...*cp.Shape) {
	if w == nil || w.space == nil {
		return
	}
	for _, s := range shapes {
		if s != nil && w.space.ContainsShape(s) {
			w.space.RemoveShape(s)
		}
	}
	if body != nil && w.space.ContainsBody(body) {
		w.space.RemoveBody(body)
	}
}

// Contains reports whether body is currently simulated.
func (w *World) Contains(body *cp.Body) bool {
	return w != nil && w.space != nil && body != nil && w.space.ContainsBody(body)
}

// AddStaticBox adds an axis-aligned static box on layer.
func (w *World) AddStaticBox(bb cp.BB, layer Layer, owner any) *cp.Shape {
	if w == nil || w.space == nil {
		return nil
	}
	shape := cp.NewBox2(w.space.StaticBody, bb, 0)
	shape.SetFriction(0.8)
	shape.UserData = &Tag{Layer: layer, Owner: owner}
	shape.SetFilter(ShapeFilter(cp.NO_GROUP, layer, LayerSet(math.MaxUint32)))
	w.space.AddShape(shape)
	w.statics = append(w.statics, shape)
	return shape
}

// AddStaticSegment adds a static segment (used for world bounds).
func (w *World) AddStaticSegment(a, b cp.Vector, radius float64, layer Layer) *cp.Shape {
	if w == nil || w.space == nil {
		return nil
	}
	shape := cp.NewSegment(w.space.StaticBody, a, b, radius)
	shape.SetFriction(0.8)
	shape.UserData = &Tag{Layer: layer}
	shape.SetFilter(ShapeFilter(cp.NO_GROUP, layer, LayerSet(math.MaxUint32)))
	w.space.AddShape(shape)
	w.statics = append(w.statics, shape)
	return shape
}

// RemoveStatic removes a static shape, e.g. a destroyed shard.
func (w *World) RemoveStatic(s *cp.Shape) {
	if w == nil || w.space == nil || s == nil {
		return
	}
	if w.space.ContainsShape(s) {
		w.space.RemoveShape(s)
	}
	for i, st := range w.statics {
		if st == s {
			w.statics = append(w.statics[:i], w.statics[i+1:]...)
			break
		}
	}
	delete(w.listeners, s)
}

// Statics returns the static shapes currently in the world.
func (w *World) Statics() []*cp.Shape {
	if w == nil {
		return nil
	}
	return w.statics
}

func (w *World) logf(format string, args ...any) {
	log.Printf("PhysicsWorld: "+format, args...)
}
