// Command termplay runs a level in the terminal. Terminals report key
// presses but not releases, so a key counts as held for a short window
// after its last repeat.
package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/lampdies/collision"
	"github.com/milk9111/lampdies/game"
)

const (
	holdWindow = 150 * time.Millisecond
	frameTime  = 16 * time.Millisecond
	cellsPerX  = 2
)

type termplay struct {
	screen tcell.Screen
	game   *game.Game
	held   map[string]time.Time
}

func main() {
	levelName := flag.String("level", game.DefaultLevel, "embedded level name (.json optional)")
	seed := flag.Int64("seed", 1, "seed for projectile lifetimes and noise")
	watch := flag.Bool("watch", false, "hot-reload specs from prefabs/")
	flag.Parse()

	g, err := game.New(game.Options{Level: *levelName, Seed: *seed, Watch: *watch})
	if err != nil {
		log.Fatal(err)
	}
	defer g.Close()

	screen, err := tcell.NewScreen()
	if err != nil {
		log.Fatal(err)
	}
	if err := screen.Init(); err != nil {
		log.Fatal(err)
	}
	defer screen.Fini()

	t := &termplay{screen: screen, game: g, held: make(map[string]time.Time)}
	t.run()
}

func (t *termplay) run() {
	ticker := time.NewTicker(frameTime)
	defer ticker.Stop()

	events := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := t.screen.PollEvent()
			if ev == nil {
				return
			}
			events <- ev
		}
	}()

	last := time.Now()
	for {
		select {
		case ev := <-events:
			if !t.handleEvent(ev) {
				return
			}
		case now := <-ticker.C:
			dt := now.Sub(last).Seconds()
			last = now
			t.game.Update(t.input(now), math.Min(dt, 0.1))
			t.draw()
		}
	}
}

func (t *termplay) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyLeft:
			t.held["left"] = time.Now()
		case tcell.KeyRight:
			t.held["right"] = time.Now()
		case tcell.KeyUp:
			t.held["jump"] = time.Now()
		case tcell.KeyRune:
			switch ev.Rune() {
			case 'q':
				return false
			case 'a':
				t.held["left"] = time.Now()
			case 'd':
				t.held["right"] = time.Now()
			case ' ', 'w':
				t.held["jump"] = time.Now()
			case 'j', 'f':
				t.held["fire"] = time.Now()
			}
		}
	case *tcell.EventResize:
		t.screen.Sync()
	}
	return true
}

func (t *termplay) pressed(key string, now time.Time) bool {
	at, ok := t.held[key]
	return ok && now.Sub(at) < holdWindow
}

func (t *termplay) input(now time.Time) game.Input {
	var in game.Input
	if t.pressed("left", now) {
		in.Horizontal--
	}
	if t.pressed("right", now) {
		in.Horizontal++
	}
	in.Jump = t.pressed("jump", now)
	in.Fire = t.pressed("fire", now)
	return in
}

func (t *termplay) cell(v cp.Vector) (int, int) {
	b := t.game.Bounds()
	return int(math.Floor((v.X - b.L) * cellsPerX)), int(math.Floor(b.T - v.Y))
}

func (t *termplay) put(v cp.Vector, r rune, style tcell.Style) {
	x, y := t.cell(v)
	t.screen.SetContent(x, y, r, nil, style)
}

func (t *termplay) draw() {
	t.screen.Clear()
	grid := t.game.Grid()

	ground := tcell.StyleDefault.Foreground(tcell.ColorGray)
	mirror := tcell.StyleDefault.Foreground(tcell.ColorAqua)
	for y := 0; y < grid.Height; y++ {
		for x := 0; x < grid.Width; x++ {
			var r rune
			var style tcell.Style
			switch grid.Tiles[y*grid.Width+x] {
			case collision.TileGround:
				r, style = '█', ground
			case collision.TileReflective:
				r, style = '▒', mirror
			default:
				continue
			}
			for i := 0; i < cellsPerX; i++ {
				t.screen.SetContent(x*cellsPerX+i, y, r, nil, style)
			}
		}
	}

	shard := tcell.StyleDefault.Foreground(tcell.ColorOrange)
	for _, s := range t.game.Shards() {
		if s.Destroyed() {
			continue
		}
		bb := s.Shape().BB()
		t.put(cp.Vector{X: bb.L + 0.25, Y: bb.T - 0.5}, '%', shard)
		t.put(cp.Vector{X: bb.R - 0.25, Y: bb.T - 0.5}, '%', shard)
	}

	red := tcell.StyleDefault.Foreground(tcell.ColorRed)
	for _, b := range t.game.Beams() {
		t.put(b.Origin(), 'O', red)
		if !b.On() {
			continue
		}
		length := b.End().Distance(b.Origin())
		for d := 0.5; d < length; d += 0.5 {
			t.put(b.Origin().Add(b.Direction().Mult(d)), '·', red)
		}
	}

	yellow := tcell.StyleDefault.Foreground(tcell.ColorYellow)
	for _, p := range t.game.Pool().Live() {
		if p.Active() {
			t.put(p.Position(), 'o', yellow)
		}
	}

	player := t.game.Player()
	style := tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true)
	if player.Respawning() {
		style = tcell.StyleDefault.Foreground(tcell.ColorGray)
	}
	pos := player.Position()
	half := player.Footprint().Height / 4
	t.put(pos.Add(cp.Vector{Y: half}), '@', style)
	t.put(pos.Sub(cp.Vector{Y: half}), 'Π', style)

	s := player.State()
	hud := fmt.Sprintf(" %s t=%.1f deaths=%d shards=%d v=(%.1f,%.1f) %s ",
		t.game.Level().Name, t.game.Now(), player.Deaths(), t.game.Alive(), s.Velocity.X, s.Velocity.Y, s.Phase)
	for i, r := range hud {
		t.screen.SetContent(i, grid.Height, r, nil, tcell.StyleDefault.Reverse(true))
	}
	t.screen.Show()
}
