package main

import (
	"fmt"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	ebtext "github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/lampdies/collision"
	"github.com/milk9111/lampdies/game"
	"github.com/milk9111/lampdies/levels"
	"golang.org/x/image/font/basicfont"
)

const (
	pixelsPerUnit = 32
	stickDeadzone = 0.2
)

var (
	groundColor       = color.RGBA{R: 90, G: 90, B: 100, A: 255}
	reflectiveColor   = color.RGBA{R: 120, G: 190, B: 230, A: 255}
	destructibleColor = color.RGBA{R: 200, G: 140, B: 60, A: 255}
	playerColor       = color.RGBA{R: 240, G: 240, B: 240, A: 255}
	shotColor         = color.RGBA{R: 255, G: 220, B: 80, A: 255}
	beamColor         = color.RGBA{R: 255, G: 40, B: 40, A: 220}
	checkpointColor   = color.RGBA{R: 80, G: 220, B: 120, A: 160}
	probeColor        = color.RGBA{R: 0, G: 255, B: 0, A: 200}
)

type app struct {
	game   *game.Game
	debug  bool
	face   ebtext.Face
	width  float64
	height float64
}

func newApp(g *game.Game, debug bool) *app {
	b := g.Bounds()
	return &app{
		game:   g,
		debug:  debug,
		face:   ebtext.NewGoXFace(basicfont.Face7x13),
		width:  (b.R - b.L) * pixelsPerUnit,
		height: (b.T - b.B) * pixelsPerUnit,
	}
}

func (a *app) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyF3) {
		a.debug = !a.debug
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyN) {
		a.nextLevel()
	}
	tps := float64(ebiten.TPS())
	if tps <= 0 {
		tps = 60
	}
	a.game.Update(a.readInput(), 1/tps)
	return nil
}

func (a *app) nextLevel() {
	names := levels.List()
	cur := a.game.Level().Name
	for i, n := range names {
		if n == cur {
			next := names[(i+1)%len(names)]
			if err := a.game.LoadLevel(next); err == nil {
				b := a.game.Bounds()
				a.width = (b.R - b.L) * pixelsPerUnit
				a.height = (b.T - b.B) * pixelsPerUnit
			}
			return
		}
	}
}

func (a *app) readInput() game.Input {
	var in game.Input
	if ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		in.Horizontal--
	}
	if ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		in.Horizontal++
	}
	in.Jump = ebiten.IsKeyPressed(ebiten.KeySpace) || ebiten.IsKeyPressed(ebiten.KeyW)
	in.Fire = ebiten.IsKeyPressed(ebiten.KeyJ) || ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)

	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		mx, my := ebiten.CursorPosition()
		target := a.toWorld(float64(mx), float64(my))
		in.Aim = target.Sub(a.game.Player().Position())
	}

	for _, id := range ebiten.AppendGamepadIDs(nil) {
		if !ebiten.IsStandardGamepadLayoutAvailable(id) {
			continue
		}
		if x := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickHorizontal); math.Abs(x) > stickDeadzone {
			in.Horizontal = x
		}
		if ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonRightBottom) {
			in.Jump = true
		}
		if ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonFrontTopRight) {
			in.Fire = true
		}
		rx := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisRightStickHorizontal)
		ry := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisRightStickVertical)
		if math.Hypot(rx, ry) > stickDeadzone {
			in.Aim = cp.Vector{X: rx, Y: -ry}
		}
	}
	return in
}

// toScreen maps y-up world units to y-down pixels, shaken.
func (a *app) toScreen(v cp.Vector) (float32, float32) {
	b := a.game.Bounds()
	off := a.game.ShakeOffset()
	x := (v.X - b.L + off.X/pixelsPerUnit) * pixelsPerUnit
	y := (b.T - v.Y - off.Y/pixelsPerUnit) * pixelsPerUnit
	return float32(x), float32(y)
}

func (a *app) toWorld(x, y float64) cp.Vector {
	b := a.game.Bounds()
	return cp.Vector{X: b.L + x/pixelsPerUnit, Y: b.T - y/pixelsPerUnit}
}

func (a *app) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{R: 16, G: 16, B: 24, A: 255})
	a.drawTiles(screen)
	a.drawCheckpoints(screen)
	a.drawBeams(screen)
	a.drawShots(screen)
	a.drawPlayer(screen)
	if a.debug {
		a.drawDebug(screen)
	}
	a.drawHUD(screen)
}

func (a *app) drawTiles(screen *ebiten.Image) {
	grid := a.game.Grid()
	for y := 0; y < grid.Height; y++ {
		for x := 0; x < grid.Width; x++ {
			var clr color.Color
			switch grid.Tiles[y*grid.Width+x] {
			case collision.TileGround:
				clr = groundColor
			case collision.TileReflective:
				clr = reflectiveColor
			default:
				continue
			}
			a.fillBB(screen, grid.TileBB(x, y, 1, 1), clr)
		}
	}
	for _, s := range a.game.Shards() {
		if s.Destroyed() {
			continue
		}
		a.fillBB(screen, s.Shape().BB(), destructibleColor)
	}
}

func (a *app) fillBB(screen *ebiten.Image, bb cp.BB, clr color.Color) {
	x, y := a.toScreen(cp.Vector{X: bb.L, Y: bb.T})
	w := float32((bb.R - bb.L) * pixelsPerUnit)
	h := float32((bb.T - bb.B) * pixelsPerUnit)
	vector.FillRect(screen, x, y, w, h, clr, false)
}

func (a *app) drawCheckpoints(screen *ebiten.Image) {
	for _, c := range a.game.Checkpoints() {
		x, y := a.toScreen(c)
		vector.StrokeRect(screen, x-6, y-10, 12, 20, 2, checkpointColor, false)
	}
}

func (a *app) drawBeams(screen *ebiten.Image) {
	for _, b := range a.game.Beams() {
		ox, oy := a.toScreen(b.Origin())
		vector.DrawFilledCircle(screen, ox, oy, 5, beamColor, true)
		if !b.On() {
			continue
		}
		ex, ey := a.toScreen(b.End())
		vector.StrokeLine(screen, ox, oy, ex, ey, 2, beamColor, true)
	}
}

func (a *app) drawShots(screen *ebiten.Image) {
	for _, p := range a.game.Pool().Live() {
		if !p.Active() {
			continue
		}
		x, y := a.toScreen(p.Position())
		r := float32(p.Size() / 2 * pixelsPerUnit)
		vector.DrawFilledCircle(screen, x, y, r, shotColor, true)
	}
}

func (a *app) drawPlayer(screen *ebiten.Image) {
	p := a.game.Player()
	fp := p.Footprint()
	pos := p.Position()
	lean := p.Lean()

	// Lean the capsule's spine around its center.
	half := fp.Height/2 - fp.Width/2
	up := cp.Vector{X: -math.Sin(lean), Y: math.Cos(lean)}
	top := pos.Add(up.Mult(half))
	bottom := pos.Sub(up.Mult(half))
	tx, ty := a.toScreen(top)
	bx, by := a.toScreen(bottom)
	clr := color.Color(playerColor)
	if p.Respawning() {
		clr = color.RGBA{R: 120, G: 120, B: 120, A: 160}
	}
	vector.StrokeLine(screen, tx, ty, bx, by, float32(fp.Width*pixelsPerUnit), clr, true)
	vector.DrawFilledCircle(screen, tx, ty, float32(fp.Width/2*pixelsPerUnit), clr, true)
	vector.DrawFilledCircle(screen, bx, by, float32(fp.Width/2*pixelsPerUnit), clr, true)
}

func (a *app) drawDebug(screen *ebiten.Image) {
	p := a.game.Player()
	s := p.State()
	pos := p.Position()
	fp := p.Footprint()
	x, y := a.toScreen(pos)
	w := float32(fp.Width * pixelsPerUnit)
	h := float32(fp.Height * pixelsPerUnit)
	vector.StrokeRect(screen, x-w/2, y-h/2, w, h, 1, probeColor, false)

	vx, vy := a.toScreen(pos.Add(s.Velocity.Mult(0.1)))
	vector.StrokeLine(screen, x, y, vx, vy, 1, probeColor, true)

	for _, b := range a.game.Beams() {
		if b.Blocked() {
			ex, ey := a.toScreen(b.End())
			vector.StrokeCircle(screen, ex, ey, 4, 1, probeColor, true)
		}
	}
}

func (a *app) drawHUD(screen *ebiten.Image) {
	p := a.game.Player()
	s := p.State()
	lines := []string{
		fmt.Sprintf("level %s  t=%.2f  FPS %.0f", a.game.Level().Name, a.game.Now(), ebiten.ActualFPS()),
		fmt.Sprintf("hp %.1f/%.1f  deaths %d  shards %d", p.Health().Current, p.Health().Max, p.Deaths(), a.game.Alive()),
		fmt.Sprintf("shots %d/%d  voices %d", a.game.Pool().ActiveCount(), a.game.Pool().Capacity(), a.game.Mixer().Voices()),
	}
	if a.debug {
		lines = append(lines,
			fmt.Sprintf("v=(%.2f, %.2f) phase=%s", s.Velocity.X, s.Velocity.Y, s.Phase),
			fmt.Sprintf("grounded=%t roofed=%t wall L=%t R=%t stick=%.2f", s.Contacts.Grounded, s.Contacts.Roofed, s.Contacts.WallLeft, s.Contacts.WallRight, s.WallStickTimer),
			fmt.Sprintf("canJump=%t canFloat=%t jumpTimer=%.2f", s.CanJump, s.CanFloat, s.JumpTimer),
		)
	}
	for i, line := range lines {
		op := &ebtext.DrawOptions{}
		op.GeoM.Translate(8, float64(8+i*16))
		ebtext.Draw(screen, line, a.face, op)
	}
}

func (a *app) Layout(outsideWidth, outsideHeight int) (int, int) {
	return int(a.width), int(a.height)
}
