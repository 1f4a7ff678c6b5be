package morph

import (
	"fmt"

	"github.com/spaghettifunk/anima-gallery/engine/core"
	"github.com/spaghettifunk/anima-gallery/engine/geometry"
	"github.com/spaghettifunk/anima-gallery/engine/math"
)

// BasisName is used when a shape is built without explicit keys.
const BasisName = "Basis"

// Key is one named set of absolute vertex positions.
type Key struct {
	Name      string
	Positions []math.Vec3
}

/**
 * @brief Shape blends named keys into a mesh:
 * positions = basis + sum(weight * (key - basis)).
 * The first key is the basis unless SetBasis picks another.
 */
type Shape struct {
	ID      string
	mesh    *geometry.Mesh
	keys    []Key
	index   map[string]int
	basis   int
	weights map[string]float32
}

// NewShape binds keys to mesh. With no keys the current mesh positions
// become the basis.
func NewShape(id string, mesh *geometry.Mesh, keys ...Key) (*Shape, error) {
	if mesh == nil {
		return nil, fmt.Errorf("shape %q has no mesh: %w", id, core.ErrInvalidShape)
	}
	if len(keys) == 0 {
		keys = []Key{{Name: BasisName, Positions: append([]math.Vec3(nil), mesh.Positions...)}}
	}
	s := &Shape{
		ID:      id,
		mesh:    mesh,
		index:   make(map[string]int, len(keys)),
		weights: make(map[string]float32, len(keys)),
	}
	for _, k := range keys {
		if err := s.AddKey(k); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// AddKey appends a key. Its position count must match the mesh.
func (s *Shape) AddKey(k Key) error {
	if len(k.Positions) != len(s.mesh.Positions) {
		return fmt.Errorf("shape %q key %q: %d positions for %d vertices: %w",
			s.ID, k.Name, len(k.Positions), len(s.mesh.Positions), core.ErrInvalidShape)
	}
	if _, dup := s.index[k.Name]; dup {
		return fmt.Errorf("shape %q: duplicate key %q: %w", s.ID, k.Name, core.ErrInvalidShape)
	}
	s.index[k.Name] = len(s.keys)
	s.keys = append(s.keys, k)
	return nil
}

// SetBasis selects the key every other key is measured against.
func (s *Shape) SetBasis(name string) error {
	i, ok := s.index[name]
	if !ok {
		return fmt.Errorf("shape %q basis %q: %w", s.ID, name, core.ErrChannelNotFound)
	}
	s.basis = i
	return nil
}

func (s *Shape) HasKey(name string) bool {
	_, ok := s.index[name]
	return ok
}

// SetKey stores the weight of a key. Nothing moves until Calculate.
func (s *Shape) SetKey(name string, weight float32) error {
	if !s.HasKey(name) {
		return fmt.Errorf("shape %q key %q: %w", s.ID, name, core.ErrChannelNotFound)
	}
	s.weights[name] = weight
	return nil
}

// Weight returns the stored weight of name, zero when unset.
func (s *Shape) Weight(name string) float32 {
	return s.weights[name]
}

// Channels returns the non-basis key names in key order.
func (s *Shape) Channels() []string {
	out := make([]string, 0, len(s.keys))
	for i, k := range s.keys {
		if i != s.basis {
			out = append(out, k.Name)
		}
	}
	return out
}

// Calculate writes the blended positions into the mesh.
func (s *Shape) Calculate() {
	basis := s.keys[s.basis].Positions
	out := s.mesh.Positions
	copy(out, basis)
	for i, k := range s.keys {
		if i == s.basis {
			continue
		}
		w := s.weights[k.Name]
		if w == 0 {
			continue
		}
		for v := range out {
			out[v] = out[v].Add(k.Positions[v].Sub(basis[v]).MulScalar(w))
		}
	}
}
