package damage

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/lampdies/collision"
	"github.com/milk9111/lampdies/effects"
)

// Shard is a destructible tile. Hits drain its health; when it runs out the
// tile is removed from the collision world.
type Shard struct {
	X, Y   int
	Center cp.Vector

	world  *collision.World
	shape  *cp.Shape
	sink   effects.Sink
	health *Health
}

// NewShard takes ownership of a destructible tile built by
// collision.World.BuildLevel and makes it the tile's damage target.
func NewShard(world *collision.World, tile collision.DestructibleTile, center cp.Vector, hp float64, sink effects.Sink) *Shard {
	s := &Shard{
		X:      tile.X,
		Y:      tile.Y,
		Center: center,
		world:  world,
		shape:  tile.Shape,
		sink:   effects.OrNop(sink),
		health: NewHealth(hp),
	}
	if tag, ok := collision.TagOf(tile.Shape); ok {
		tag.Owner = s
	}
	s.health.OnDeath = func(*Health, Hit) {
		s.world.RemoveStatic(s.shape)
		s.sink.Play(effects.ShardDestroy, s.Center, 1)
	}
	return s
}

func (s *Shard) GetHit(damage float64, point cp.Vector) {
	if s.health.ApplyDamage(damage, point) && !s.health.Dead {
		s.sink.Play(effects.ShardHit, point, 1)
	}
}

func (s *Shard) Destroyed() bool {
	return s.health.Dead
}

func (s *Shard) Health() *Health {
	return s.health
}

func (s *Shard) Shape() *cp.Shape {
	return s.shape
}
