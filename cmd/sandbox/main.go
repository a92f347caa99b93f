package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/lampdies/game"
	"github.com/milk9111/lampdies/levels"
)

func main() {
	debug := flag.Bool("debug", false, "draw probes, rays and contact flags")
	levelName := flag.String("level", game.DefaultLevel, "embedded level name (.json optional)")
	seed := flag.Int64("seed", 1, "seed for projectile lifetimes and noise")
	watch := flag.Bool("watch", false, "hot-reload specs from prefabs/")
	list := flag.Bool("list", false, "print embedded levels and exit")
	flag.Parse()

	if *list {
		for _, name := range levels.List() {
			log.Println(name)
		}
		return
	}

	g, err := game.New(game.Options{Level: *levelName, Seed: *seed, Watch: *watch})
	if err != nil {
		log.Fatal(err)
	}
	defer g.Close()

	app := newApp(g, *debug)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(int(app.width), int(app.height))
	ebiten.SetWindowTitle("lampdies sandbox")

	if err := ebiten.RunGame(app); err != nil {
		log.Fatal(err)
	}
}
