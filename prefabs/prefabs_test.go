package prefabs

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/lampdies/collision"
	"github.com/milk9111/lampdies/easing"
	"github.com/milk9111/lampdies/effects"
	"github.com/milk9111/lampdies/movement"
)

func TestEmbeddedSpecsConvert(t *testing.T) {
	player, err := LoadPlayerSpec()
	if err != nil {
		t.Fatalf("LoadPlayerSpec: %v", err)
	}
	cfg, err := player.Config(cp.Vector{X: 2, Y: 3})
	if err != nil {
		t.Fatalf("player config: %v", err)
	}
	if cfg.Tuning != movement.DefaultTuning() {
		t.Fatalf("player.yaml tuning drifted from defaults: %+v", cfg.Tuning)
	}
	if cfg.Spawn != (cp.Vector{X: 2, Y: 3}) {
		t.Fatalf("spawn = %v", cfg.Spawn)
	}
	if !cfg.GroundMask.Has(collision.LayerGround) || cfg.GroundMask.Has(collision.LayerPlayer) {
		t.Fatalf("ground mask = %v", cfg.GroundMask)
	}

	proj, err := LoadProjectileSpec()
	if err != nil {
		t.Fatalf("LoadProjectileSpec: %v", err)
	}
	lc, err := player.LauncherConfig(proj)
	if err != nil {
		t.Fatalf("launcher config: %v", err)
	}
	if lc.Template.Damage != 1 || lc.Template.Easing != easing.KindOutQuad {
		t.Fatalf("template = %+v", lc.Template)
	}
	if !lc.Template.Reflective.Has(collision.LayerReflective) {
		t.Fatalf("reflective = %v", lc.Template.Reflective)
	}

	fx, err := LoadEffectsSpec()
	if err != nil {
		t.Fatalf("LoadEffectsSpec: %v", err)
	}
	defs := fx.Defs()
	for _, name := range []string{effects.ProjectileTrail, effects.ProjectileDestroy, effects.Shoot, effects.BeamHum} {
		if _, ok := defs[name]; !ok {
			t.Fatalf("effects.yaml missing %q", name)
		}
	}
	if !defs[effects.ProjectileTrail].Loop {
		t.Fatalf("trail should loop")
	}

	beam, err := LoadBeamSpec()
	if err != nil {
		t.Fatalf("LoadBeamSpec: %v", err)
	}
	bc := beam.Config(cp.Vector{X: 1}, 0.5)
	if bc.Angle != 0.5 || bc.Distance <= 0 || !bc.Mask.Has(collision.LayerPlayer) {
		t.Fatalf("beam config = %+v", bc)
	}

	es, err := LoadEasingSpec()
	if err != nil {
		t.Fatalf("LoadEasingSpec: %v", err)
	}
	reg, err := es.Registry()
	if err != nil {
		t.Fatalf("easing registry: %v", err)
	}
	f, err := reg.Get("sqrt")
	if err != nil {
		t.Fatalf("sqrt curve: %v", err)
	}
	if got := f(0.25); got < 0.49 || got > 0.51 {
		t.Fatalf("sqrt(0.25) = %v", got)
	}
}

func TestUnknownProjectile(t *testing.T) {
	spec := &ProjectileSpec{}
	if _, err := spec.Launch("nope"); err == nil {
		t.Fatalf("expected error for unknown projectile")
	}
}

func TestInvalidLaunchSpec(t *testing.T) {
	spec := &ProjectileSpec{Projectiles: map[string]LaunchSpec{
		"bad": {Lifetime: RangeSpec{From: 2, To: 1}},
	}}
	if _, err := spec.Launch("bad"); err == nil {
		t.Fatalf("expected error for inverted lifetime")
	}
}

func TestDiskOverride(t *testing.T) {
	dir := t.TempDir()
	prev := Dir
	Dir = dir
	t.Cleanup(func() { Dir = prev })

	if err := os.WriteFile(filepath.Join(dir, BeamFile), []byte("distance: 7\ndamage: 3\nmask: [player]\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	spec, err := LoadBeamSpec()
	if err != nil {
		t.Fatalf("LoadBeamSpec: %v", err)
	}
	if spec.Distance != 7 || spec.Damage != 3 {
		t.Fatalf("override not applied: %+v", spec)
	}
	if _, ok := ModTime(BeamFile); !ok {
		t.Fatalf("ModTime should see the disk file")
	}
	if _, ok := ModTime(PlayerFile); ok {
		t.Fatalf("ModTime should miss embedded-only files")
	}
}

func TestBadYAML(t *testing.T) {
	dir := t.TempDir()
	prev := Dir
	Dir = dir
	t.Cleanup(func() { Dir = prev })

	if err := os.WriteFile(filepath.Join(dir, BeamFile), []byte("mask: [nowhere]\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadBeamSpec(); err == nil {
		t.Fatalf("expected unknown layer error")
	}
}

func TestName(t *testing.T) {
	tests := []struct{ in, want string }{
		{"player.yaml", "player.yaml"},
		{"prefabs/beam.yaml", "beam.yaml"},
		{"/tmp/x/prefabs/effects.yaml", "effects.yaml"},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			if got := Name(tc.in); got != tc.want {
				t.Fatalf("Name(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestWatcherReportsSpecChanges(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(dir)
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, PlayerFile), []byte("name: p\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case name := <-w.Events:
		if name != PlayerFile {
			t.Fatalf("event = %q, want %q", name, PlayerFile)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("no watcher event")
	}

	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
}

func TestWatcherAccept(t *testing.T) {
	w := &Watcher{seen: make(map[string]time.Time)}
	t0 := time.Unix(100, 0)
	tests := []struct {
		name   string
		ev     fsnotify.Event
		at     time.Time
		want   string
		wantOK bool
	}{
		{"write_yaml", fsnotify.Event{Name: "prefabs/beam.yaml", Op: fsnotify.Write}, t0, "beam.yaml", true},
		{"debounced", fsnotify.Event{Name: "prefabs/beam.yaml", Op: fsnotify.Write}, t0.Add(50 * time.Millisecond), "", false},
		{"after_debounce", fsnotify.Event{Name: "prefabs/beam.yaml", Op: fsnotify.Write}, t0.Add(time.Second), "beam.yaml", true},
		{"chmod_ignored", fsnotify.Event{Name: "prefabs/player.yaml", Op: fsnotify.Chmod}, t0, "", false},
		{"not_a_spec", fsnotify.Event{Name: "prefabs/notes.txt", Op: fsnotify.Create}, t0, "", false},
		{"yml_extension", fsnotify.Event{Name: "prefabs/extra.YML", Op: fsnotify.Create}, t0, "extra.YML", true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := w.accept(tc.ev, tc.at)
			if got != tc.want || ok != tc.wantOK {
				t.Fatalf("accept = %q, %v; want %q, %v", got, ok, tc.want, tc.wantOK)
			}
		})
	}
}
