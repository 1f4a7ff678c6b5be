package gallery

import (
	"github.com/spaghettifunk/anima-gallery/engine/geometry"
	"github.com/spaghettifunk/anima-gallery/engine/math"
	"github.com/spaghettifunk/anima-gallery/engine/morph"
	"github.com/spaghettifunk/anima-gallery/engine/scene"
)

var (
	propColour   = geometry.Colour{R: 0.55, G: 0.65, B: 0.85, A: 1}
	groundColour = geometry.Colour{R: 0.8, G: 0.78, B: 0.72, A: 1}
	arrowColour  = geometry.Colour{R: 0.9, G: 0.45, B: 0.2, A: 1}
	skinColour   = geometry.Colour{R: 0.85, G: 0.7, B: 0.6, A: 1}
)

// half angle terms of a 60 degree turn
const (
	sin30 = 0.5
	cos30 = 0.8660254
)

// skeletonRig is the static armature: root -> Bone1 -> Bone2, plus a side
// chain Bone1 -> Bone3 -> Bone4 leaning away from the main one.
func skeletonRig(root string) scene.JointConfig {
	return scene.JointConfig{
		Name: root,
		Children: []scene.JointConfig{{
			Name:        "Bone1",
			Translation: [3]float32{0, 1, 0},
			Children: []scene.JointConfig{
				{Name: "Bone2", Translation: [3]float32{0, 1, 0}},
				{
					Name:        "Bone3",
					Translation: [3]float32{0, 0.8, 0},
					Rotation:    [4]float32{0, 0, -sin30, cos30},
					Children: []scene.JointConfig{
						{Name: "Bone4", Translation: [3]float32{0, 0.8, 0}},
					},
				},
			},
		}},
	}
}

// animatedRig is a small biped upper body.
func animatedRig(root string) scene.JointConfig {
	arm := func(side string, sign float32) scene.JointConfig {
		return scene.JointConfig{
			Name:        "Arm." + side,
			Translation: [3]float32{0, 0.5, 0},
			Rotation:    [4]float32{0, 0, sign * 0.5735764, 0.8191520},
			Children: []scene.JointConfig{
				{Name: "Hand." + side, Translation: [3]float32{0, 0.6, 0}},
			},
		}
	}
	return scene.JointConfig{
		Name: root,
		Children: []scene.JointConfig{{
			Name:        "Root",
			Translation: [3]float32{0, 0.2, 0},
			Children: []scene.JointConfig{{
				Name:        "Spine",
				Translation: [3]float32{0, 1, 0},
				Children: []scene.JointConfig{
					{Name: "Neck", Translation: [3]float32{0, 0.6, 0}},
					arm("L", 1),
					arm("R", -1),
				},
			}},
		}},
	}
}

func newRigInstance(name string, cfg scene.JointConfig) (*scene.ModelInstance, error) {
	h, err := scene.NewHierarchyFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	return scene.NewModelInstance(name, h), nil
}

// animate rocks the animated rig. Phases keep the arms opposed.
func animate(inst *scene.ModelInstance) (*SwingAnimator, error) {
	a := NewSwingAnimator()
	swings := []struct {
		joint     string
		axis      math.Vec3
		amplitude float32
		phase     float32
	}{
		{"Spine", math.NewVec3(0, 0, 1), 0.25, 0},
		{"Neck", math.NewVec3(0, 1, 0), 0.6, 0.5},
		{"Arm.L", math.NewVec3(1, 0, 0), 0.7, 0},
		{"Arm.R", math.NewVec3(1, 0, 0), 0.7, math.K_PI},
	}
	for _, s := range swings {
		j, err := inst.GetJoint(s.joint)
		if err != nil {
			return nil, err
		}
		a.Add(j, s.axis, s.amplitude, math.K_PI, s.phase)
	}
	return a, nil
}

// mapPositions returns a transformed copy of positions.
func mapPositions(src []math.Vec3, fn func(math.Vec3) math.Vec3) []math.Vec3 {
	out := make([]math.Vec3, len(src))
	for i, p := range src {
		out[i] = fn(p)
	}
	return out
}

func basisKey(m *geometry.Mesh) morph.Key {
	return morph.Key{Name: morph.BasisName, Positions: append([]math.Vec3(nil), m.Positions...)}
}

// stretchKey pushes every vertex at or above y by lift.
func stretchKey(name string, m *geometry.Mesh, y, lift float32) morph.Key {
	return morph.Key{Name: name, Positions: mapPositions(m.Positions, func(p math.Vec3) math.Vec3 {
		if p.Y >= y {
			p.Y += lift
		}
		return p
	})}
}

// bendKey shears vertices sideways proportionally to their height above base.
func bendKey(name string, m *geometry.Mesh, base, amount float32) morph.Key {
	return morph.Key{Name: name, Positions: mapPositions(m.Positions, func(p math.Vec3) math.Vec3 {
		h := p.Y - base
		p.X += amount * h * h
		return p
	})}
}

// inflateKey scales vertices away from centre.
func inflateKey(name string, m *geometry.Mesh, centre math.Vec3, factor math.Vec3) morph.Key {
	return morph.Key{Name: name, Positions: mapPositions(m.Positions, func(p math.Vec3) math.Vec3 {
		return centre.Add(p.Sub(centre).Mul(factor))
	})}
}
