package game

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/lampdies/effects"
	"github.com/milk9111/lampdies/prefabs"
)

const frame = 1.0 / 60.0

func newArena(t *testing.T) *Game {
	t.Helper()
	g, err := New(Options{Level: "arena", Seed: 1})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = g.Close() })
	return g
}

func run(g *Game, in Input, seconds float64) {
	for i := 0; i < int(math.Round(seconds/frame)); i++ {
		g.Update(in, frame)
	}
}

func TestNewArena(t *testing.T) {
	g := newArena(t)
	if len(g.Beams()) != 1 || len(g.Shards()) != 1 {
		t.Fatalf("beams=%d shards=%d", len(g.Beams()), len(g.Shards()))
	}
	want := cp.Vector{X: 2.5, Y: 1.82}
	if got := g.Player().Spawn(); math.Abs(got.X-want.X) > 1e-9 || math.Abs(got.Y-want.Y) > 1e-9 {
		t.Fatalf("spawn = %v, want %v", got, want)
	}
	if b := g.Bounds(); b.L != 0 || b.B != 0 || b.R != 12 || b.T != 7 {
		t.Fatalf("bounds = %+v", b)
	}
}

func TestIdlePlayerSettles(t *testing.T) {
	g := newArena(t)
	run(g, Input{}, 1)

	s := g.Player().State()
	if !s.Contacts.Grounded {
		t.Fatalf("player should be grounded after settling, pos=%v", g.Player().Position())
	}
	if x := g.Player().Position().X; math.Abs(x-2.5) > 1e-6 {
		t.Fatalf("idle player drifted to x=%v", x)
	}
	if g.Now() < 1-1e-9 {
		t.Fatalf("clock = %v", g.Now())
	}
}

func TestShootShardThenWalkIntoBeam(t *testing.T) {
	g := newArena(t)
	run(g, Input{}, 0.5)

	run(g, Input{Fire: true, Aim: cp.Vector{X: 1}}, 1.5)
	if g.Alive() != 0 {
		t.Fatalf("shard should be destroyed, hp=%v", g.Shards()[0].Health().Current)
	}
	rec := g.Recorder()
	if rec.Count(effects.Shoot) < 2 || rec.Count(effects.ShardDestroy) != 1 {
		t.Fatalf("shoot=%d shard_destroy=%d", rec.Count(effects.Shoot), rec.Count(effects.ShardDestroy))
	}

	run(g, Input{Horizontal: 1}, 3)
	if g.Player().Deaths() < 1 {
		t.Fatalf("player should have walked into the beam, pos=%v", g.Player().Position())
	}
	if rec.Count(effects.BeamHit) < 1 {
		t.Fatalf("beam hit effect missing")
	}
}

func TestFireFacesLastDirection(t *testing.T) {
	g := newArena(t)
	run(g, Input{}, 0.25)
	run(g, Input{Horizontal: -1}, frame)
	if g.Facing() != -1 {
		t.Fatalf("facing = %v", g.Facing())
	}
	run(g, Input{Fire: true}, frame)
	live := g.Pool().Live()
	if len(live) != 1 {
		t.Fatalf("live shots = %d", len(live))
	}
	if d := live[0].Direction(); d.X >= 0 {
		t.Fatalf("shot direction = %v, want leftward", d)
	}
}

func TestCheckpointMovesSpawn(t *testing.T) {
	g, err := New(Options{Level: "sandbox"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer g.Close()
	if len(g.Checkpoints()) == 0 {
		t.Fatalf("sandbox has no checkpoints")
	}
	c := g.Checkpoints()[0]
	g.Player().Teleport(c)
	g.Update(Input{}, frame)
	if g.Player().Spawn() != c {
		t.Fatalf("spawn = %v, want %v", g.Player().Spawn(), c)
	}
}

func TestReloadPlayerSpec(t *testing.T) {
	dir := t.TempDir()
	prev := prefabs.Dir
	prefabs.Dir = dir
	t.Cleanup(func() { prefabs.Dir = prev })

	g := newArena(t)

	data, err := prefabs.PrefabsFS.ReadFile(prefabs.PlayerFile)
	if err != nil {
		t.Fatal(err)
	}
	edited := strings.Replace(string(data), "max_speed: 10", "max_speed: 5", 1)
	if err := os.WriteFile(filepath.Join(dir, prefabs.PlayerFile), []byte(edited), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := g.Reload(filepath.Join(dir, prefabs.PlayerFile)); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if got := g.Player().Tuning().MaxSpeed; got != 5 {
		t.Fatalf("max speed = %v, want 5", got)
	}

	if err := g.Reload("nothing.yaml"); !errors.Is(err, ErrUnknownSpec) {
		t.Fatalf("Reload(unknown) = %v", err)
	}
}

func TestReloadRejectsBadTuning(t *testing.T) {
	dir := t.TempDir()
	prev := prefabs.Dir
	prefabs.Dir = dir
	t.Cleanup(func() { prefabs.Dir = prev })

	g := newArena(t)
	data, err := prefabs.PrefabsFS.ReadFile(prefabs.PlayerFile)
	if err != nil {
		t.Fatal(err)
	}
	edited := strings.Replace(string(data), "max_speed: 10", "max_speed: -1", 1)
	if err := os.WriteFile(filepath.Join(dir, prefabs.PlayerFile), []byte(edited), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := g.Reload(prefabs.PlayerFile); err == nil {
		t.Fatalf("expected invalid tuning error")
	}
	if got := g.Player().Tuning().MaxSpeed; got != 10 {
		t.Fatalf("tuning changed despite error: %v", got)
	}
}

func TestLoadLevel(t *testing.T) {
	g := newArena(t)
	run(g, Input{Fire: true}, 0.1)
	if err := g.LoadLevel("sandbox"); err != nil {
		t.Fatalf("LoadLevel: %v", err)
	}
	if g.Level().Name != "sandbox" || g.Pool().ActiveCount() != 0 {
		t.Fatalf("level=%s active=%d", g.Level().Name, g.Pool().ActiveCount())
	}
	if err := g.LoadLevel("missing"); err == nil {
		t.Fatalf("expected error")
	}
}
