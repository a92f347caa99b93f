package collision

import (
	"fmt"

	"github.com/jakecoffman/cp"
)

// Tile values understood by BuildLevel.
const (
	TileEmpty        = 0
	TileGround       = 1
	TileReflective   = 2
	TileDestructible = 3
)

// TileGrid is a row-major tile map. Row 0 is the top of the level; world
// space is y-up with the level's bottom-left corner at the origin.
type TileGrid struct {
	Width    int
	Height   int
	TileSize float64
	Tiles    []int
}

func (g TileGrid) valid() error {
	if g.Width <= 0 || g.Height <= 0 || g.TileSize <= 0 {
		return fmt.Errorf("collision: invalid grid %dx%d tile=%v", g.Width, g.Height, g.TileSize)
	}
	if len(g.Tiles) != g.Width*g.Height {
		return fmt.Errorf("collision: grid has %d tiles, want %d", len(g.Tiles), g.Width*g.Height)
	}
	return nil
}

// TileBB returns the world-space box of the rectangle of tiles starting at
// column x, row y spanning w columns and h rows.
func (g TileGrid) TileBB(x, y, w, h int) cp.BB {
	ts := g.TileSize
	return cp.BB{
		L: float64(x) * ts,
		R: float64(x+w) * ts,
		T: float64(g.Height-y) * ts,
		B: float64(g.Height-y-h) * ts,
	}
}

// TileCenter returns the world-space center of tile (x, y).
func (g TileGrid) TileCenter(x, y int) cp.Vector {
	bb := g.TileBB(x, y, 1, 1)
	return cp.Vector{X: (bb.L + bb.R) / 2, Y: (bb.B + bb.T) / 2}
}

// DestructibleTile is a single breakable tile kept as its own shape.
type DestructibleTile struct {
	X, Y  int
	Shape *cp.Shape
}

// LevelShapes lists what BuildLevel added.
type LevelShapes struct {
	Solids        []*cp.Shape
	Destructibles []DestructibleTile
	Bounds        []*cp.Shape
}

// BuildLevel adds static geometry for grid. Contiguous tiles of the same
// kind are merged into larger boxes so the space holds few static shapes;
// destructible tiles stay individual so they can be removed one at a time.
func (w *World) BuildLevel(g TileGrid) (LevelShapes, error) {
	var out LevelShapes
	if err := g.valid(); err != nil {
		return out, err
	}

	processed := make([]bool, g.Width*g.Height)
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			idx := y*g.Width + x
			if processed[idx] {
				continue
			}
			tile := g.Tiles[idx]
			layer, ok := tileLayer(tile)
			if !ok {
				processed[idx] = true
				continue
			}

			if tile == TileDestructible {
				shape := w.AddStaticBox(g.TileBB(x, y, 1, 1), layer, nil)
				out.Destructibles = append(out.Destructibles, DestructibleTile{X: x, Y: y, Shape: shape})
				processed[idx] = true
				continue
			}

			width := 1
			for x+width < g.Width {
				idx2 := y*g.Width + (x + width)
				if processed[idx2] || g.Tiles[idx2] != tile {
					break
				}
				width++
			}

			height := 1
		heightLoop:
			for y+height < g.Height {
				for xi := x; xi < x+width; xi++ {
					idx2 := (y+height)*g.Width + xi
					if processed[idx2] || g.Tiles[idx2] != tile {
						break heightLoop
					}
				}
				height++
			}

			out.Solids = append(out.Solids, w.AddStaticBox(g.TileBB(x, y, width, height), layer, nil))

			for yy := y; yy < y+height; yy++ {
				for xx := x; xx < x+width; xx++ {
					processed[yy*g.Width+xx] = true
				}
			}
		}
	}

	worldW := float64(g.Width) * g.TileSize
	worldH := float64(g.Height) * g.TileSize
	segments := []struct {
		a cp.Vector
		b cp.Vector
	}{
		{a: cp.Vector{X: 0, Y: worldH}, b: cp.Vector{X: worldW, Y: worldH}}, // top
		{a: cp.Vector{X: 0, Y: 0}, b: cp.Vector{X: worldW, Y: 0}},           // bottom
		{a: cp.Vector{X: 0, Y: 0}, b: cp.Vector{X: 0, Y: worldH}},           // left
		{a: cp.Vector{X: worldW, Y: 0}, b: cp.Vector{X: worldW, Y: worldH}}, // right
	}
	for _, seg := range segments {
		out.Bounds = append(out.Bounds, w.AddStaticSegment(seg.a, seg.b, 0.1, LayerGround))
	}

	w.logf("built level %dx%d: %d solids, %d destructibles", g.Width, g.Height, len(out.Solids), len(out.Destructibles))
	return out, nil
}

func tileLayer(tile int) (Layer, bool) {
	switch tile {
	case TileGround:
		return LayerGround, true
	case TileReflective:
		return LayerReflective, true
	case TileDestructible:
		return LayerDestructible, true
	}
	return 0, false
}
