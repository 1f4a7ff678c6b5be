package gallery

import (
	"github.com/spaghettifunk/anima-gallery/engine/core"
	"github.com/spaghettifunk/anima-gallery/engine/geometry"
	"github.com/spaghettifunk/anima-gallery/engine/math"
	"github.com/spaghettifunk/anima-gallery/engine/morph"
	"github.com/spaghettifunk/anima-gallery/engine/scene"
)

// SimpleScene shows static props and nothing else.
type SimpleScene struct {
	BaseScene
	inst *scene.ModelInstance
}

func (s *SimpleScene) Create(ctx *Context) error {
	if err := s.BaseScene.Create(ctx); err != nil {
		return err
	}
	s.inst = scene.NewModelInstance("simple", nil)
	s.inst.AddMesh(geometry.GenerateBox("ground", 4, 0.1, 4, groundColour).Translated("ground", math.NewVec3(0, -0.05, 0)))
	s.inst.AddMesh(geometry.GenerateBox("cube", 1, 1, 1, propColour).Translated("cube", math.NewVec3(-1, 0.5, 0)))
	s.inst.AddMesh(geometry.GenerateBox("pillar", 0.4, 1.5, 0.4, propColour).Translated("pillar", math.NewVec3(1, 0.75, 1)))
	return s.AddModel(s.inst)
}

type arrowSpec struct {
	name string
	x    float32
	// Key 2 exists only on the bent arrows
	bend bool
}

var arrows = []arrowSpec{
	{"arrow.032", -1.5, false},
	{"arrow.033", -0.5, false},
	{"arrow.034", 0.5, true},
	{"arrow.035", 1.5, true},
}

// ShapekeysScene blends four arrows. The first two only stretch, the last
// two stretch and bend.
type ShapekeysScene struct {
	BaseScene
	inst *scene.ModelInstance
}

func (s *ShapekeysScene) Create(ctx *Context) error {
	if err := s.BaseScene.Create(ctx); err != nil {
		return err
	}
	s.inst = scene.NewModelInstance("shapekeys", nil)
	for _, a := range arrows {
		s.inst.AddMesh(geometry.GenerateArrow(a.name, arrowColour).Translated(a.name, math.NewVec3(a.x, 0, 0)))
	}
	if err := s.AddModel(s.inst); err != nil {
		return err
	}
	for _, a := range arrows {
		m, err := s.inst.Mesh(a.name)
		if err != nil {
			return err
		}
		keys := []morph.Key{basisKey(m), stretchKey("Key 1", m, 0.6, 0.6)}
		if a.bend {
			keys = append(keys, bendKey("Key 2", m, 0, 0.5))
		}
		if _, err := s.BindShape(s.inst, a.name, keys...); err != nil {
			return err
		}
	}
	s.OnUpdate(s.drive)
	return nil
}

func (s *ShapekeysScene) drive(float64) error {
	v := s.Sin01()
	for _, a := range arrows {
		if err := s.SetShapeKey(s.inst, a.name, "Key 1", v); err != nil {
			return err
		}
		if a.bend {
			if err := s.SetShapeKey(s.inst, a.name, "Key 2", v); err != nil {
				return err
			}
		}
	}
	return nil
}

// SkeletonScene shows a static armature plus every armature described in
// the configuration.
type SkeletonScene struct {
	BaseScene
	inst   *scene.ModelInstance
	extras []*scene.ModelInstance
}

func (s *SkeletonScene) Create(ctx *Context) error {
	if err := s.BaseScene.Create(ctx); err != nil {
		return err
	}
	inst, err := newRigInstance("skeleton", skeletonRig("Armature"))
	if err != nil {
		return err
	}
	s.inst = inst
	s.inst.AddMesh(geometry.GenerateBox("body", 0.5, 2, 0.3, propColour).Translated("body", math.NewVec3(0, 1, 0)))
	if err := s.AddModel(s.inst); err != nil {
		return err
	}
	s.ShowSkeleton(s.inst)

	for _, cfg := range ctx.Config.Skeletons {
		extra, err := newRigInstance(cfg.Name, cfg)
		if err != nil {
			return err
		}
		s.extras = append(s.extras, extra)
		s.ShowSkeleton(extra)
		core.LogDebug("extra armature %q with %d joints", cfg.Name, extra.Hierarchy.Len())
	}
	return nil
}

// AnimationScene poses an armature with the swing animator.
type AnimationScene struct {
	BaseScene
	inst     *scene.ModelInstance
	animator *SwingAnimator
}

func (s *AnimationScene) Create(ctx *Context) error {
	if err := s.BaseScene.Create(ctx); err != nil {
		return err
	}
	inst, err := newAnimatedModel("animation", "ArmatureAnim")
	if err != nil {
		return err
	}
	s.inst = inst
	if err := s.addAnimatedModel(inst); err != nil {
		return err
	}
	if s.animator, err = animate(inst); err != nil {
		return err
	}
	s.OnUpdate(s.animator.Update)
	return nil
}

func newAnimatedModel(name, root string) (*scene.ModelInstance, error) {
	inst, err := newRigInstance(name, animatedRig(root))
	if err != nil {
		return nil, err
	}
	inst.AddMesh(geometry.GenerateBox("torso", 0.5, 1, 0.3, propColour).Translated("torso", math.NewVec3(0, 0.5, 0)))
	inst.AddMesh(geometry.GenerateBox("head", 0.35, 0.35, 0.35, skinColour).Translated("head", math.NewVec3(0, 0.2, 0)))
	return inst, nil
}

func (b *BaseScene) addAnimatedModel(inst *scene.ModelInstance) error {
	if err := b.AddModel(inst); err != nil {
		return err
	}
	if err := b.Attach(inst, "torso", "Root"); err != nil {
		return err
	}
	if err := b.Attach(inst, "head", "Neck"); err != nil {
		return err
	}
	b.ShowSkeleton(inst)
	return nil
}

// AnimationShapekeysScene animates an armature next to a blending mesh.
type AnimationShapekeysScene struct {
	BaseScene
	inst     *scene.ModelInstance
	animator *SwingAnimator
}

const morphMesh = "anim+shapekeys"

func (s *AnimationShapekeysScene) Create(ctx *Context) error {
	if err := s.BaseScene.Create(ctx); err != nil {
		return err
	}
	inst, err := newAnimatedModel("animation_shapekeys", "ArmatureAnim.001")
	if err != nil {
		return err
	}
	s.inst = inst
	centre := math.NewVec3(1.5, 0.3, 0)
	box := geometry.GenerateBox(morphMesh, 0.6, 0.6, 0.6, skinColour).Translated(morphMesh, centre)
	s.inst.AddMesh(box)
	if err := s.addAnimatedModel(inst); err != nil {
		return err
	}
	_, err = s.BindShape(inst, morphMesh,
		basisKey(box),
		inflateKey("Key 1", box, centre, math.NewVec3(1.6, 1, 1.6)),
		stretchKey("Key 2", box, 0.6, 0.5),
	)
	if err != nil {
		return err
	}
	if s.animator, err = animate(inst); err != nil {
		return err
	}
	s.OnUpdate(s.drive)
	s.OnUpdate(s.animator.Update)
	return nil
}

func (s *AnimationShapekeysScene) drive(float64) error {
	v := s.Sin01()
	if err := s.SetShapeKey(s.inst, morphMesh, "Key 1", v); err != nil {
		return err
	}
	return s.SetShapeKey(s.inst, morphMesh, "Key 2", v)
}

// ComplexScene combines the animated rig with blending head and torso and
// a second, static, armature.
type ComplexScene struct {
	BaseScene
	inst     *scene.ModelInstance
	static   *scene.ModelInstance
	animator *SwingAnimator
}

func (s *ComplexScene) Create(ctx *Context) error {
	if err := s.BaseScene.Create(ctx); err != nil {
		return err
	}
	inst, err := newAnimatedModel("complex", "Armature.002")
	if err != nil {
		return err
	}
	s.inst = inst
	s.inst.Placement.SetPosition(math.NewVec3(1, 0, 0))
	if err := s.addAnimatedModel(inst); err != nil {
		return err
	}

	head, err := inst.Mesh("head")
	if err != nil {
		return err
	}
	if _, err := s.BindShape(inst, "head", basisKey(head), inflateKey("Key 1", head, math.NewVec3(0, 0.2, 0), math.NewVec3(1.4, 1.4, 1.4))); err != nil {
		return err
	}
	torso, err := inst.Mesh("torso")
	if err != nil {
		return err
	}
	if _, err := s.BindShape(inst, "torso", basisKey(torso), inflateKey("Key 1", torso, math.NewVec3(0, 0.5, 0), math.NewVec3(1.4, 1, 1.4))); err != nil {
		return err
	}

	if s.static, err = newRigInstance("complex.static", skeletonRig("Armature")); err != nil {
		return err
	}
	s.static.Placement.SetPosition(math.NewVec3(-1.5, 0, 0))
	s.ShowSkeleton(s.static)

	if s.animator, err = animate(inst); err != nil {
		return err
	}
	s.OnUpdate(s.drive)
	s.OnUpdate(s.animator.Update)
	return nil
}

func (s *ComplexScene) drive(float64) error {
	v := s.Sin01()
	if err := s.SetShapeKey(s.inst, "head", "Key 1", v); err != nil {
		return err
	}
	return s.SetShapeKey(s.inst, "torso", "Key 1", v)
}
