package scene

import (
	"fmt"

	"github.com/spaghettifunk/anima-gallery/engine/core"
	"github.com/spaghettifunk/anima-gallery/engine/math"
)

// Joint is one node of a transform hierarchy.
type Joint struct {
	ID string
	// Local transform relative to Parent. Mutated by animators every frame.
	Local *math.Transform
	// World is derived by Hierarchy.Recompute and must not be set directly.
	World    math.Mat4
	Parent   *Joint
	Children []*Joint
}

// JointConfig is the serialized description of a joint subtree.
type JointConfig struct {
	Name        string        `toml:"name"`
	Translation [3]float32    `toml:"translation"`
	Rotation    [4]float32    `toml:"rotation,omitempty"`
	Scale       [3]float32    `toml:"scale,omitempty"`
	Children    []JointConfig `toml:"children,omitempty"`
}

// Transform builds the local transform described by the config. A zero
// rotation means identity, a zero scale means one.
func (c JointConfig) Transform() *math.Transform {
	rot := math.NewQuatIdentity()
	if c.Rotation != [4]float32{} {
		rot = math.Quaternion{X: c.Rotation[0], Y: c.Rotation[1], Z: c.Rotation[2], W: c.Rotation[3]}.Normalize()
	}
	scale := math.NewVec3One()
	if c.Scale != [3]float32{} {
		scale = math.NewVec3(c.Scale[0], c.Scale[1], c.Scale[2])
	}
	pos := math.NewVec3(c.Translation[0], c.Translation[1], c.Translation[2])
	return math.NewTransformFromPositionRotationScale(pos, rot, scale)
}

/**
 * @brief Owns every joint of one armature. The tree is strict: a single root,
 * unique identifiers, children kept in insertion order.
 */
type Hierarchy struct {
	root *Joint
	byID map[string]*Joint
}

// NewHierarchy creates a hierarchy holding only its root.
func NewHierarchy(rootID string) *Hierarchy {
	root := &Joint{
		ID:    rootID,
		Local: math.NewTransform(),
		World: math.NewMat4Identity(),
	}
	return &Hierarchy{
		root: root,
		byID: map[string]*Joint{rootID: root},
	}
}

// NewHierarchyFromConfig builds a hierarchy from a serialized skeleton.
func NewHierarchyFromConfig(cfg JointConfig) (*Hierarchy, error) {
	if cfg.Name == "" {
		return nil, fmt.Errorf("skeleton root has no name: %w", core.ErrInvalidConfig)
	}
	h := NewHierarchy(cfg.Name)
	h.root.Local = cfg.Transform()

	type pending struct {
		parent string
		cfg    JointConfig
	}
	queue := make([]pending, 0, len(cfg.Children))
	for _, c := range cfg.Children {
		queue = append(queue, pending{cfg.Name, c})
	}
	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		if _, err := h.AddJoint(p.parent, p.cfg.Name, p.cfg.Transform()); err != nil {
			return nil, err
		}
		for _, c := range p.cfg.Children {
			queue = append(queue, pending{p.cfg.Name, c})
		}
	}
	h.Recompute(math.NewMat4Identity())
	return h, nil
}

// AddJoint appends a joint as the last child of parentID.
func (h *Hierarchy) AddJoint(parentID, id string, local *math.Transform) (*Joint, error) {
	if id == "" {
		return nil, fmt.Errorf("joint under %q has no name: %w", parentID, core.ErrInvalidConfig)
	}
	if _, exists := h.byID[id]; exists {
		return nil, fmt.Errorf("duplicate joint %q: %w", id, core.ErrInvalidConfig)
	}
	parent, err := h.GetJoint(parentID)
	if err != nil {
		return nil, err
	}
	if local == nil {
		local = math.NewTransform()
	}
	j := &Joint{
		ID:     id,
		Local:  local,
		World:  local.GetLocal().Mul(parent.World),
		Parent: parent,
	}
	parent.Children = append(parent.Children, j)
	h.byID[id] = j
	return j, nil
}

func (h *Hierarchy) Root() *Joint {
	return h.root
}

// Len returns the number of joints, root included.
func (h *Hierarchy) Len() int {
	return len(h.byID)
}

// GetJoint looks a joint up by identifier.
func (h *Hierarchy) GetJoint(id string) (*Joint, error) {
	j, ok := h.byID[id]
	if !ok {
		return nil, fmt.Errorf("joint %q: %w", id, core.ErrJointNotFound)
	}
	return j, nil
}

// Children returns the ordered children of j.
func (h *Hierarchy) Children(j *Joint) []*Joint {
	if j == nil {
		return nil
	}
	return j.Children
}

// WorldTransform returns the world matrix computed by the last Recompute.
func (h *Hierarchy) WorldTransform(j *Joint) math.Mat4 {
	if j == nil {
		return math.NewMat4Identity()
	}
	return j.World
}

/**
 * @brief Recomputes every world transform top-down. The root's parent is
 * placement. Must run to completion before anything reads World in a frame.
 */
func (h *Hierarchy) Recompute(placement math.Mat4) {
	h.root.World = h.root.Local.GetLocal().Mul(placement)
	stack := []*Joint{h.root}
	for len(stack) > 0 {
		j := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, c := range j.Children {
			c.World = c.Local.GetLocal().Mul(j.World)
			stack = append(stack, c)
		}
	}
}

// Joints returns every joint in pre-order, root first.
func (h *Hierarchy) Joints() []*Joint {
	out := make([]*Joint, 0, len(h.byID))
	stack := []*Joint{h.root}
	for len(stack) > 0 {
		j := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		out = append(out, j)
		for i := len(j.Children) - 1; i >= 0; i-- {
			stack = append(stack, j.Children[i])
		}
	}
	return out
}
