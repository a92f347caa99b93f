// Package prefabs holds the YAML tuning for actors, projectiles, effects and
// curves, embedded in the binary and overridable from disk.
package prefabs

import (
	"fmt"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/lampdies/actor"
	"github.com/milk9111/lampdies/collision"
	"github.com/milk9111/lampdies/easing"
	"github.com/milk9111/lampdies/effects"
	"github.com/milk9111/lampdies/movement"
	"github.com/milk9111/lampdies/projectile"
	"gopkg.in/yaml.v3"
)

const (
	PlayerFile     = "player.yaml"
	ProjectileFile = "projectile.yaml"
	EffectsFile    = "effects.yaml"
	BeamFile       = "beam.yaml"
	EasingFile     = "easing.yaml"
)

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

type VecSpec struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

func (v VecSpec) Vector() cp.Vector { return cp.Vector{X: v.X, Y: v.Y} }

type RangeSpec struct {
	From float64 `yaml:"from"`
	To   float64 `yaml:"to"`
}

func (r RangeSpec) Range() projectile.Range { return projectile.Range{From: r.From, To: r.To} }

type FootprintSpec struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

type MovementSpec struct {
	MaxSpeed                 float64 `yaml:"max_speed"`
	GroundAcceleration       float64 `yaml:"ground_acceleration"`
	AirAcceleration          float64 `yaml:"air_acceleration"`
	GroundFriction           float64 `yaml:"ground_friction"`
	AirFriction              VecSpec `yaml:"air_friction"`
	WallStickTime            float64 `yaml:"wall_stick_time"`
	FrictionSlideTargetSpeed float64 `yaml:"friction_slide_target_speed"`
	FrictionSlideMultiplier  float64 `yaml:"friction_slide_multiplier"`
	JumpForce                float64 `yaml:"jump_force"`
	TargetJumpSpeed          float64 `yaml:"target_jump_speed"`
	JumpDuration             float64 `yaml:"jump_duration"`
	WallJumpHeightMultiplier float64 `yaml:"wall_jump_height_multiplier"`
	LeanAngle                float64 `yaml:"lean_angle"`
}

func (m MovementSpec) Tuning() (movement.Tuning, error) {
	t := movement.Tuning{
		MaxSpeed:                 m.MaxSpeed,
		GroundAcceleration:       m.GroundAcceleration,
		AirAcceleration:          m.AirAcceleration,
		GroundFriction:           m.GroundFriction,
		AirFriction:              m.AirFriction.Vector(),
		WallStickTime:            m.WallStickTime,
		FrictionSlideTargetSpeed: m.FrictionSlideTargetSpeed,
		FrictionSlideMultiplier:  m.FrictionSlideMultiplier,
		JumpForce:                m.JumpForce,
		TargetJumpSpeed:          m.TargetJumpSpeed,
		JumpDuration:             m.JumpDuration,
		WallJumpHeightMultiplier: m.WallJumpHeightMultiplier,
		LeanAngle:                m.LeanAngle,
	}
	if err := t.Validate(); err != nil {
		return movement.Tuning{}, err
	}
	return t, nil
}

type LauncherSpec struct {
	Projectile      string  `yaml:"projectile"`
	FireInterval    float64 `yaml:"fire_interval"`
	MuzzleOffset    float64 `yaml:"muzzle_offset"`
	InheritVelocity bool    `yaml:"inherit_velocity"`
}

type PlayerSpec struct {
	Name            string             `yaml:"name"`
	Footprint       FootprintSpec      `yaml:"footprint"`
	Mass            float64            `yaml:"mass"`
	MaxHealth       float64            `yaml:"max_health"`
	Invulnerability float64            `yaml:"invulnerability"`
	RespawnDelay    float64            `yaml:"respawn_delay"`
	GroundMask      collision.LayerSet `yaml:"ground_mask"`
	CollideMask     collision.LayerSet `yaml:"collide_mask"`
	Movement        MovementSpec       `yaml:"movement"`
	Launcher        LauncherSpec       `yaml:"launcher"`
}

func LoadPlayerSpec() (*PlayerSpec, error) {
	spec, err := LoadSpec[PlayerSpec](PlayerFile)
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

// Config converts the spec; the spawn point comes from the level.
func (s *PlayerSpec) Config(spawn cp.Vector) (actor.PlayerConfig, error) {
	tuning, err := s.Movement.Tuning()
	if err != nil {
		return actor.PlayerConfig{}, fmt.Errorf("prefabs: %s: %w", PlayerFile, err)
	}
	if s.Footprint.Width <= 0 || s.Footprint.Height < s.Footprint.Width {
		return actor.PlayerConfig{}, fmt.Errorf("prefabs: %s: footprint %vx%v must be a standing capsule", PlayerFile, s.Footprint.Width, s.Footprint.Height)
	}
	return actor.PlayerConfig{
		Footprint:       collision.Footprint{Width: s.Footprint.Width, Height: s.Footprint.Height},
		Mass:            s.Mass,
		Tuning:          tuning,
		GroundMask:      s.GroundMask,
		CollideMask:     s.CollideMask,
		MaxHealth:       s.MaxHealth,
		Invulnerability: s.Invulnerability,
		RespawnDelay:    s.RespawnDelay,
		Spawn:           spawn,
	}, nil
}

// LauncherConfig resolves the launcher's projectile template from p.
func (s *PlayerSpec) LauncherConfig(p *ProjectileSpec) (actor.LauncherConfig, error) {
	data, err := p.Launch(s.Launcher.Projectile)
	if err != nil {
		return actor.LauncherConfig{}, err
	}
	return actor.LauncherConfig{
		Template:        data,
		FireInterval:    s.Launcher.FireInterval,
		MuzzleOffset:    s.Launcher.MuzzleOffset,
		InheritVelocity: s.Launcher.InheritVelocity,
	}, nil
}

type LaunchSpec struct {
	Damage     float64            `yaml:"damage"`
	Lifetime   RangeSpec          `yaml:"lifetime"`
	Speed      RangeSpec          `yaml:"speed"`
	Size       RangeSpec          `yaml:"size"`
	Easing     easing.Kind        `yaml:"easing"`
	Reflective collision.LayerSet `yaml:"reflective"`
	Colliding  collision.LayerSet `yaml:"colliding"`
}

type ProjectileSpec struct {
	PoolCapacity int                   `yaml:"pool_capacity"`
	Radius       float64               `yaml:"radius"`
	Projectiles  map[string]LaunchSpec `yaml:"projectiles"`
}

func LoadProjectileSpec() (*ProjectileSpec, error) {
	spec, err := LoadSpec[ProjectileSpec](ProjectileFile)
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

// Launch returns the named template. Position and direction are left for
// the launcher to fill in.
func (s *ProjectileSpec) Launch(name string) (projectile.LaunchData, error) {
	ls, ok := s.Projectiles[name]
	if !ok {
		return projectile.LaunchData{}, fmt.Errorf("prefabs: %s: unknown projectile %q", ProjectileFile, name)
	}
	data := projectile.LaunchData{
		Damage:     ls.Damage,
		Lifetime:   ls.Lifetime.Range(),
		Speed:      ls.Speed.Range(),
		Size:       ls.Size.Range(),
		Easing:     ls.Easing,
		Reflective: ls.Reflective,
		Colliding:  ls.Colliding,
	}
	probe := data
	probe.Direction = cp.Vector{X: 1}
	if err := probe.Validate(); err != nil {
		return projectile.LaunchData{}, fmt.Errorf("prefabs: %s: %s: %w", ProjectileFile, name, err)
	}
	return data, nil
}

type EffectSpec struct {
	Wave      effects.Wave `yaml:"wave"`
	Frequency float64      `yaml:"frequency"`
	Duration  float64      `yaml:"duration"`
	Attack    float64      `yaml:"attack"`
	Release   float64      `yaml:"release"`
	Volume    float64      `yaml:"volume"`
	Loop      bool         `yaml:"loop"`
}

type EffectsSpec struct {
	SampleRate int                   `yaml:"sample_rate"`
	Effects    map[string]EffectSpec `yaml:"effects"`
}

func LoadEffectsSpec() (*EffectsSpec, error) {
	spec, err := LoadSpec[EffectsSpec](EffectsFile)
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

func (s *EffectsSpec) Defs() map[string]effects.Def {
	defs := make(map[string]effects.Def, len(s.Effects))
	for name, e := range s.Effects {
		defs[name] = effects.Def{
			Wave:      e.Wave,
			Frequency: e.Frequency,
			Duration:  e.Duration,
			Attack:    e.Attack,
			Release:   e.Release,
			Volume:    e.Volume,
			Loop:      e.Loop,
		}
	}
	return defs
}

// BeamSpec is the shared tuning for laser sentries. Levels place them and
// may override angle and rotation.
type BeamSpec struct {
	Distance       float64            `yaml:"distance"`
	Damage         float64            `yaml:"damage"`
	DamageInterval float64            `yaml:"damage_interval"`
	TimeOn         float64            `yaml:"time_on"`
	TimeOff        float64            `yaml:"time_off"`
	RotationSpeed  float64            `yaml:"rotation_speed"`
	Mask           collision.LayerSet `yaml:"mask"`
}

func LoadBeamSpec() (*BeamSpec, error) {
	spec, err := LoadSpec[BeamSpec](BeamFile)
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

func (s *BeamSpec) Config(origin cp.Vector, angle float64) actor.BeamConfig {
	return actor.BeamConfig{
		Origin:         origin,
		Angle:          angle,
		Distance:       s.Distance,
		Damage:         s.Damage,
		DamageInterval: s.DamageInterval,
		TimeOn:         s.TimeOn,
		TimeOff:        s.TimeOff,
		RotationSpeed:  s.RotationSpeed,
		Mask:           s.Mask,
	}
}

// EasingSpec maps custom curve names to tengo expressions of t.
type EasingSpec struct {
	Curves map[string]string `yaml:"curves"`
}

func LoadEasingSpec() (*EasingSpec, error) {
	spec, err := LoadSpec[EasingSpec](EasingFile)
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

// Registry compiles the custom curves on top of the builtins.
func (s *EasingSpec) Registry() (*easing.Registry, error) {
	r := easing.NewRegistry()
	if err := easing.RegisterScripts(r, s.Curves); err != nil {
		return nil, fmt.Errorf("prefabs: %s: %w", EasingFile, err)
	}
	return r, nil
}
