// Package game assembles a level, its actors and the effect mixer, and
// drives them from a fixed-step loop.
package game

import (
	"errors"
	"fmt"
	"log"
	"math/rand"
	"os"

	"github.com/gopxl/beep"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/lampdies/actor"
	"github.com/milk9111/lampdies/collision"
	"github.com/milk9111/lampdies/damage"
	"github.com/milk9111/lampdies/easing"
	"github.com/milk9111/lampdies/effects"
	"github.com/milk9111/lampdies/levels"
	"github.com/milk9111/lampdies/prefabs"
	"github.com/milk9111/lampdies/projectile"
	"github.com/milk9111/lampdies/sim"
)

const (
	DefaultLevel = "sandbox"

	defaultShardHealth = 3
	checkpointRadius   = 1.0
	recorderLimit      = 256
	spawnClearance     = 0.02
)

var ErrUnknownSpec = errors.New("game: unknown spec")

type Options struct {
	Level     string
	Seed      int64
	FixedStep float64
	MaxSteps  int
	// Watch hot-reloads specs changed under prefabs.Dir.
	Watch bool
}

// Game owns every simulation object. All methods run on the caller's
// goroutine; the watcher only hands over file names.
type Game struct {
	opts Options

	playerSpec *prefabs.PlayerSpec
	projSpec   *prefabs.ProjectileSpec
	beamSpec   *prefabs.BeamSpec
	fxSpec     *prefabs.EffectsSpec

	curves   *easing.Registry
	mixer    *effects.Mixer
	recorder *effects.Recorder
	rng      *rand.Rand
	loop     *sim.Loop
	watcher  *prefabs.Watcher

	level       *levels.Level
	grid        collision.TileGrid
	world       *collision.World
	player      *actor.Player
	pool        *projectile.Pool
	launcher    *actor.Launcher
	beams       []*actor.Beam
	shards      []*damage.Shard
	checkpoints []cp.Vector

	input  Input
	facing float64
}

func New(opts Options) (*Game, error) {
	if opts.Level == "" {
		opts.Level = DefaultLevel
	}
	g := &Game{
		opts:   opts,
		rng:    rand.New(rand.NewSource(opts.Seed)),
		facing: 1,
	}

	if err := g.loadSpecs(); err != nil {
		return nil, err
	}
	g.mixer = effects.NewMixer(beep.SampleRate(g.fxSpec.SampleRate), g.fxSpec.Defs(), g.curves, opts.Seed)
	g.recorder = &effects.Recorder{Next: g.mixer, Limit: recorderLimit}

	if err := g.LoadLevel(opts.Level); err != nil {
		return nil, err
	}

	if opts.Watch {
		if _, err := os.Stat(prefabs.Dir); err != nil {
			log.Printf("Game: not watching %s: %v", prefabs.Dir, err)
		} else if w, err := prefabs.NewWatcher(prefabs.Dir); err != nil {
			log.Printf("Game: watcher: %v", err)
		} else {
			g.watcher = w
		}
	}
	return g, nil
}

func (g *Game) loadSpecs() error {
	var err error
	if g.playerSpec, err = prefabs.LoadPlayerSpec(); err != nil {
		return err
	}
	if g.projSpec, err = prefabs.LoadProjectileSpec(); err != nil {
		return err
	}
	if g.beamSpec, err = prefabs.LoadBeamSpec(); err != nil {
		return err
	}
	if g.fxSpec, err = prefabs.LoadEffectsSpec(); err != nil {
		return err
	}
	es, err := prefabs.LoadEasingSpec()
	if err != nil {
		return err
	}
	if g.curves, err = es.Registry(); err != nil {
		return err
	}
	return nil
}

// LoadLevel discards the current world and builds the named level.
func (g *Game) LoadLevel(name string) error {
	lvl, err := levels.LoadLevelFromFS(name)
	if err != nil {
		return fmt.Errorf("game: level %s: %w", name, err)
	}
	grid, err := lvl.Grid()
	if err != nil {
		return fmt.Errorf("game: %w", err)
	}

	g.teardown()

	world := collision.NewWorld(lvl.GravityVector())
	shapes, err := world.BuildLevel(grid)
	if err != nil {
		return fmt.Errorf("game: build %s: %w", lvl.Name, err)
	}
	g.level = lvl
	g.grid = grid
	g.world = world
	g.shards = g.shards[:0]
	g.beams = g.beams[:0]
	g.checkpoints = g.checkpoints[:0]

	hp := lvl.ShardHealth
	if hp <= 0 {
		hp = defaultShardHealth
	}
	for _, tile := range shapes.Destructibles {
		g.shards = append(g.shards, damage.NewShard(world, tile, grid.TileCenter(tile.X, tile.Y), hp, g.recorder))
	}

	if err := g.spawnPlayer(); err != nil {
		return err
	}
	if err := g.spawnBeams(); err != nil {
		return err
	}
	for _, e := range lvl.Find(levels.EntityCheckpoint) {
		g.checkpoints = append(g.checkpoints, g.standingPoint(e))
	}

	g.loop = sim.NewLoop(g.opts.FixedStep, g.opts.MaxSteps)
	g.loop.Physics.Add(sim.SystemFunc(g.physicsTick))
	g.loop.Frame.Add(sim.SystemFunc(g.frameTick))

	log.Printf("Game: loaded level %s (%d shards, %d beams, %d checkpoints)", lvl.Name, len(g.shards), len(g.beams), len(g.checkpoints))
	return nil
}

func (g *Game) teardown() {
	if g.pool != nil {
		g.pool.DeactivateAll()
	}
	for _, b := range g.beams {
		b.Stop()
	}
}

// standingPoint is where a player-sized body rests on the tile below e.
func (g *Game) standingPoint(e levels.Entity) cp.Vector {
	bb := g.grid.TileBB(e.X, e.Y, 1, 1)
	h := g.playerSpec.Footprint.Height
	return cp.Vector{X: (bb.L + bb.R) / 2, Y: bb.B + h/2 + spawnClearance}
}

func (g *Game) spawnPlayer() error {
	spawn, ok := g.level.Spawn()
	if !ok {
		return fmt.Errorf("game: level %s has no spawn", g.level.Name)
	}
	cfg, err := g.playerSpec.Config(g.standingPoint(spawn))
	if err != nil {
		return err
	}
	player, err := actor.NewPlayer(g.world, cfg, g.recorder)
	if err != nil {
		return err
	}
	g.player = player

	capacity := g.projSpec.PoolCapacity
	g.pool = projectile.NewPool(capacity, func() (*projectile.Projectile, error) {
		return projectile.New(g.world, projectile.Options{
			Radius: g.projSpec.Radius,
			Group:  actor.PlayerGroup,
			Curves: g.curves,
			Sink:   g.recorder,
			Rand:   g.rng,
		})
	})
	lc, err := g.playerSpec.LauncherConfig(g.projSpec)
	if err != nil {
		return err
	}
	g.launcher = actor.NewLauncher(g.pool, lc, g.recorder)
	return nil
}

func (g *Game) spawnBeams() error {
	for _, e := range g.level.Find(levels.EntityBeam) {
		beam, err := actor.NewBeam(g.world, g.beamConfig(e), g.recorder, nil)
		if err != nil {
			return err
		}
		g.beams = append(g.beams, beam)
	}
	return nil
}

func (g *Game) beamConfig(e levels.Entity) actor.BeamConfig {
	cfg := g.beamSpec.Config(g.grid.TileCenter(e.X, e.Y), e.Float("angle", 0))
	cfg.RotationSpeed = e.Float("rotation_speed", cfg.RotationSpeed)
	cfg.TimeOn = e.Float("time_on", cfg.TimeOn)
	cfg.TimeOff = e.Float("time_off", cfg.TimeOff)
	return cfg
}

// Update advances the simulation by one rendered frame.
func (g *Game) Update(in Input, dt float64) {
	if g.watcher != nil {
		for _, name := range g.watcher.Drain() {
			if err := g.Reload(name); err != nil {
				log.Printf("Game: reload %s: %v", name, err)
			}
		}
	}
	g.input = in
	g.loop.Advance(dt)
}

func (g *Game) physicsTick(t sim.Tick) {
	g.pool.TickPhysics(t.Dt)
	g.world.Step(t.Dt)
}

func (g *Game) frameTick(t sim.Tick) {
	in := g.input
	if in.Horizontal > 0 {
		g.facing = 1
	} else if in.Horizontal < 0 {
		g.facing = -1
	}

	g.player.TickFrame(in, t.Now, t.Dt)
	if in.Fire && !g.player.Respawning() && g.launcher.Ready(t.Now) {
		g.fire(in, t.Now)
	}
	g.pool.TickFrame(t.Now, t.Dt)
	for _, b := range g.beams {
		b.TickFrame(t.Now, t.Dt)
	}
	g.touchCheckpoints()
	g.mixer.Advance(t.Dt)
}

func (g *Game) fire(in Input, now float64) {
	aim := in.Aim
	if aim.LengthSq() == 0 {
		aim = cp.Vector{X: g.facing}
	}
	// Cooldown and an exhausted pool both just skip the shot.
	_, _ = g.launcher.Fire(g.player.Position(), aim, g.player.Velocity(), now)
}

func (g *Game) touchCheckpoints() {
	if g.player.Respawning() {
		return
	}
	pos := g.player.Position()
	for _, c := range g.checkpoints {
		if c != g.player.Spawn() && pos.Distance(c) <= checkpointRadius {
			g.player.SetSpawnpoint(c)
			log.Printf("Game: checkpoint %v", c)
		}
	}
}

// Reload re-reads one spec file and applies it between frames. Projectiles
// in flight keep their launch data.
func (g *Game) Reload(name string) error {
	switch prefabs.Name(name) {
	case prefabs.PlayerFile:
		spec, err := prefabs.LoadPlayerSpec()
		if err != nil {
			return err
		}
		tuning, err := spec.Movement.Tuning()
		if err != nil {
			return err
		}
		lc, err := spec.LauncherConfig(g.projSpec)
		if err != nil {
			return err
		}
		if err := g.player.SetTuning(tuning); err != nil {
			return err
		}
		g.launcher.SetConfig(lc)
		g.playerSpec = spec
	case prefabs.ProjectileFile:
		spec, err := prefabs.LoadProjectileSpec()
		if err != nil {
			return err
		}
		lc, err := g.playerSpec.LauncherConfig(spec)
		if err != nil {
			return err
		}
		g.launcher.SetConfig(lc)
		g.projSpec = spec
	case prefabs.BeamFile:
		spec, err := prefabs.LoadBeamSpec()
		if err != nil {
			return err
		}
		g.beamSpec = spec
		for i, e := range g.level.Find(levels.EntityBeam) {
			if i < len(g.beams) {
				g.beams[i].SetConfig(g.beamConfig(e))
			}
		}
	case prefabs.EffectsFile:
		spec, err := prefabs.LoadEffectsSpec()
		if err != nil {
			return err
		}
		g.fxSpec = spec
		g.mixer.SetDefs(spec.Defs())
	case prefabs.EasingFile:
		spec, err := prefabs.LoadEasingSpec()
		if err != nil {
			return err
		}
		if err := easing.RegisterScripts(g.curves, spec.Curves); err != nil {
			return err
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownSpec, name)
	}
	log.Printf("Game: reloaded %s", prefabs.Name(name))
	return nil
}

// Close stops the watcher and any looping effects.
func (g *Game) Close() error {
	g.teardown()
	if g.watcher != nil {
		return g.watcher.Close()
	}
	return nil
}

// ShakeOffset is the camera offset for this frame.
func (g *Game) ShakeOffset() cp.Vector {
	return g.mixer.Shaker().Offset()
}

// Bounds is the level's world-space box.
func (g *Game) Bounds() cp.BB {
	return g.grid.TileBB(0, 0, g.grid.Width, g.grid.Height)
}

func (g *Game) Now() float64                { return g.loop.Now() }
func (g *Game) Level() *levels.Level        { return g.level }
func (g *Game) Grid() collision.TileGrid    { return g.grid }
func (g *Game) World() *collision.World     { return g.world }
func (g *Game) Player() *actor.Player       { return g.player }
func (g *Game) Pool() *projectile.Pool      { return g.pool }
func (g *Game) Launcher() *actor.Launcher   { return g.launcher }
func (g *Game) Beams() []*actor.Beam        { return g.beams }
func (g *Game) Shards() []*damage.Shard     { return g.shards }
func (g *Game) Checkpoints() []cp.Vector    { return g.checkpoints }
func (g *Game) Mixer() *effects.Mixer       { return g.mixer }
func (g *Game) Recorder() *effects.Recorder { return g.recorder }
func (g *Game) Curves() *easing.Registry    { return g.curves }
func (g *Game) Facing() float64             { return g.facing }

// Alive reports the shards still standing.
func (g *Game) Alive() int {
	n := 0
	for _, s := range g.shards {
		if !s.Destroyed() {
			n++
		}
	}
	return n
}
