package scene

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/spaghettifunk/anima-gallery/engine/core"
	"github.com/spaghettifunk/anima-gallery/engine/geometry"
	"github.com/spaghettifunk/anima-gallery/engine/math"
)

// ModelInstance places one armature and its deformable meshes in the world.
type ModelInstance struct {
	ID        uuid.UUID
	Name      string
	Placement *math.Transform
	Hierarchy *Hierarchy
	meshes    map[string]*geometry.Mesh
}

func NewModelInstance(name string, hierarchy *Hierarchy) *ModelInstance {
	return &ModelInstance{
		ID:        uuid.New(),
		Name:      name,
		Placement: math.NewTransform(),
		Hierarchy: hierarchy,
		meshes:    make(map[string]*geometry.Mesh),
	}
}

// Armature returns the root joint, or nil once destroyed.
func (m *ModelInstance) Armature() *Joint {
	if m.Hierarchy == nil {
		return nil
	}
	return m.Hierarchy.Root()
}

// GetJoint resolves a joint of this instance by identifier.
func (m *ModelInstance) GetJoint(id string) (*Joint, error) {
	if m.Hierarchy == nil {
		return nil, fmt.Errorf("%s: joint %q: %w", m.Name, id, core.ErrJointNotFound)
	}
	return m.Hierarchy.GetJoint(id)
}

// Update recomputes world transforms using the current placement.
func (m *ModelInstance) Update() {
	if m.Hierarchy != nil {
		m.Hierarchy.Recompute(m.Placement.GetLocal())
	}
}

func (m *ModelInstance) AddMesh(mesh *geometry.Mesh) {
	m.meshes[mesh.Name] = mesh
}

// Mesh returns a mesh owned by the instance.
func (m *ModelInstance) Mesh(name string) (*geometry.Mesh, error) {
	mesh, ok := m.meshes[name]
	if !ok {
		return nil, fmt.Errorf("%s: mesh %q: %w", m.Name, name, core.ErrMeshNotFound)
	}
	return mesh, nil
}

// MeshNames returns the owned mesh names, sorted.
func (m *ModelInstance) MeshNames() []string {
	names := make([]string, 0, len(m.meshes))
	for n := range m.meshes {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Destroy drops the hierarchy and meshes with the instance.
func (m *ModelInstance) Destroy() {
	m.Hierarchy = nil
	m.meshes = map[string]*geometry.Mesh{}
}
