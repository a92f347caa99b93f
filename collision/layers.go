package collision

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

var ErrUnknownLayer = errors.New("collision: unknown layer")

// Layer is a surface category. It maps 1:1 onto a Chipmunk category bit.
type Layer uint8

const (
	LayerGround Layer = iota
	LayerReflective
	LayerPlayer
	LayerEnemy
	LayerProjectile
	LayerDestructible
	LayerHazard

	maxLayers = 32
)

var layerNames = map[string]Layer{
	"ground":       LayerGround,
	"reflective":   LayerReflective,
	"player":       LayerPlayer,
	"enemy":        LayerEnemy,
	"projectile":   LayerProjectile,
	"destructible": LayerDestructible,
	"hazard":       LayerHazard,
}

// LayerByName resolves a layer from its configuration name.
func LayerByName(name string) (Layer, error) {
	l, ok := layerNames[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownLayer, name)
	}
	return l, nil
}

func (l Layer) String() string {
	for name, v := range layerNames {
		if v == l {
			return name
		}
	}
	return fmt.Sprintf("layer(%d)", uint8(l))
}

// Bit returns the category bit of l.
func (l Layer) Bit() uint {
	if l >= maxLayers {
		return 0
	}
	return 1 << uint(l)
}

// LayerSet is an opaque bitset of layers.
type LayerSet uint32

// Layers builds a set from individual layers.
func Layers(ls ...Layer) LayerSet {
	var s LayerSet
	return s.With(ls...)
}

// ParseLayers builds a set from configuration names.
func ParseLayers(names ...string) (LayerSet, error) {
	var s LayerSet
	for _, n := range names {
		l, err := LayerByName(n)
		if err != nil {
			return 0, err
		}
		s = s.With(l)
	}
	return s, nil
}

func (s LayerSet) With(ls ...Layer) LayerSet {
	for _, l := range ls {
		s |= LayerSet(l.Bit())
	}
	return s
}

func (s LayerSet) Without(ls ...Layer) LayerSet {
	for _, l := range ls {
		s &^= LayerSet(l.Bit())
	}
	return s
}

// Has reports s ∩ {l} ≠ ∅.
func (s LayerSet) Has(l Layer) bool {
	return uint(s)&l.Bit() != 0
}

func (s LayerSet) Intersects(o LayerSet) bool {
	return s&o != 0
}

func (s LayerSet) Empty() bool {
	return s == 0
}

// Names lists the named layers contained in s, sorted.
func (s LayerSet) Names() []string {
	var out []string
	for name, l := range layerNames {
		if s.Has(l) {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

func (s LayerSet) String() string {
	return "{" + strings.Join(s.Names(), ",") + "}"
}

// UnmarshalYAML accepts a list of layer names.
func (s *LayerSet) UnmarshalYAML(value *yaml.Node) error {
	var names []string
	if err := value.Decode(&names); err != nil {
		return fmt.Errorf("collision: decode layer set: %w", err)
	}
	parsed, err := ParseLayers(names...)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// MarshalYAML writes the set back as a list of names.
func (s LayerSet) MarshalYAML() (interface{}, error) {
	return s.Names(), nil
}
