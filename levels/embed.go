// Package levels holds the embedded JSON tile maps.
package levels

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/lampdies/collision"
)

//go:embed *.json
var LevelsFS embed.FS

// DefaultGravity is used when a level leaves gravity unset.
const DefaultGravity = -24.5

// Entity kinds placed by levels.
const (
	EntitySpawn      = "spawn"
	EntityBeam       = "beam"
	EntityCheckpoint = "checkpoint"
)

// Level is a tile map plus placed entities. Tiles are rows, top row first,
// using the collision.Tile* values.
type Level struct {
	Name        string   `json:"name"`
	Width       int      `json:"width"`
	Height      int      `json:"height"`
	TileSize    float64  `json:"tile_size"`
	Gravity     float64  `json:"gravity,omitempty"`
	ShardHealth float64  `json:"shard_health,omitempty"`
	Tiles       [][]int  `json:"tiles"`
	Entities    []Entity `json:"entities,omitempty"`
}

// Entity is placed at tile (X, Y).
type Entity struct {
	Type  string                 `json:"type"`
	X     int                    `json:"x"`
	Y     int                    `json:"y"`
	Props map[string]interface{} `json:"props,omitempty"`
}

// Float reads a numeric prop, falling back to def.
func (e Entity) Float(name string, def float64) float64 {
	v, ok := e.Props[name]
	if !ok {
		return def
	}
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	}
	return def
}

func LoadLevelFromFS(name string) (*Level, error) {
	if !strings.HasSuffix(name, ".json") {
		name += ".json"
	}
	data, err := fs.ReadFile(LevelsFS, name)
	if err != nil {
		return nil, fmt.Errorf("read level: %w", err)
	}
	var lvl Level
	if err := json.Unmarshal(data, &lvl); err != nil {
		return nil, fmt.Errorf("unmarshal level: %w", err)
	}
	if lvl.Name == "" {
		lvl.Name = strings.TrimSuffix(name, ".json")
	}
	return &lvl, nil
}

// List returns the embedded level names without extension.
func List() []string {
	matches, _ := fs.Glob(LevelsFS, "*.json")
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, strings.TrimSuffix(path.Base(m), ".json"))
	}
	sort.Strings(names)
	return names
}

// Grid flattens the tile rows for collision.World.BuildLevel.
func (l *Level) Grid() (collision.TileGrid, error) {
	if len(l.Tiles) != l.Height {
		return collision.TileGrid{}, fmt.Errorf("level %s: %d rows, want %d", l.Name, len(l.Tiles), l.Height)
	}
	tiles := make([]int, 0, l.Width*l.Height)
	for y, row := range l.Tiles {
		if len(row) != l.Width {
			return collision.TileGrid{}, fmt.Errorf("level %s: row %d has %d tiles, want %d", l.Name, y, len(row), l.Width)
		}
		tiles = append(tiles, row...)
	}
	size := l.TileSize
	if size <= 0 {
		size = 1
	}
	return collision.TileGrid{Width: l.Width, Height: l.Height, TileSize: size, Tiles: tiles}, nil
}

func (l *Level) GravityVector() cp.Vector {
	g := l.Gravity
	if g == 0 {
		g = DefaultGravity
	}
	return cp.Vector{Y: g}
}

// Find returns the entities of the given kind in file order.
func (l *Level) Find(kind string) []Entity {
	var out []Entity
	for _, e := range l.Entities {
		if e.Type == kind {
			out = append(out, e)
		}
	}
	return out
}

// Spawn returns the first spawn entity.
func (l *Level) Spawn() (Entity, bool) {
	spawns := l.Find(EntitySpawn)
	if len(spawns) == 0 {
		return Entity{}, false
	}
	return spawns[0], true
}
