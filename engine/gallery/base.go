package gallery

import (
	"fmt"

	"github.com/spaghettifunk/anima-gallery/engine/config"
	"github.com/spaghettifunk/anima-gallery/engine/core"
	"github.com/spaghettifunk/anima-gallery/engine/geometry"
	"github.com/spaghettifunk/anima-gallery/engine/math"
	"github.com/spaghettifunk/anima-gallery/engine/morph"
	"github.com/spaghettifunk/anima-gallery/engine/renderer"
	"github.com/spaghettifunk/anima-gallery/engine/renderer/components"
	"github.com/spaghettifunk/anima-gallery/engine/scene"
	"github.com/spaghettifunk/anima-gallery/engine/skeleton"
)

var (
	ClearColour = renderer.Colour{R: 0.95, G: 0.95, B: 0.95, A: 1}
	BoneColour  = geometry.ColourGreen.WithAlpha(0.5)
	GridColour  = geometry.ColourBlack.WithAlpha(0.2)
)

const (
	gridDivisions = 20
	axisCap       = 0.1
	axisStem      = 0.25
	axisDivisions = 5
)

type placedMesh struct {
	handle renderer.MeshHandle
	// nil draws at the owning instance placement
	joint *scene.Joint
}

type model struct {
	inst   *scene.ModelInstance
	meshes []placedMesh
}

/**
 * @brief BaseScene is the plumbing every gallery scene shares: the grid,
 * the camera, the morph signal and driver, and the skeleton overlay with
 * its toggle key. Scenes embed it, call its Create first and then add
 * models, shapes and per frame steps.
 *
 * A frame runs: signal advance, toggle check, scene steps, morph flush,
 * world transform recompute. Rendering then draws the grid and models in
 * one world pass followed by one skeleton overlay covering every shown
 * armature.
 */
type BaseScene struct {
	Signal   *morph.Signal
	Driver   *morph.Driver
	Skeleton *skeleton.Renderer
	Flags    skeleton.Flags

	ctx       *Context
	toggleKey core.KeyCode
	models    []*model
	armatures []*scene.ModelInstance
	steps     []func(delta float64) error
}

func (b *BaseScene) Create(ctx *Context) error {
	if ctx == nil || ctx.Config == nil || ctx.Backend == nil {
		return fmt.Errorf("scene context is incomplete: %w", core.ErrInvalidConfig)
	}
	b.ctx = ctx
	cfg := ctx.Config

	if ctx.Camera == nil {
		ctx.Camera = components.NewCamera(cfg.Application.Width, cfg.Application.Height)
	}
	b.Signal = morph.NewSignalWithPeriod(cfg.Morph.PeriodSeconds)
	b.Driver = morph.NewDriver()
	b.Skeleton = skeleton.NewRenderer()
	if ctx.Bus != nil {
		b.Skeleton.Listen(ctx.Bus)
	}
	b.applyConfig(cfg)

	if err := ctx.Backend.RegisterMesh(renderer.MeshBone, geometry.GenerateBox(string(renderer.MeshBone), 1, 1, 1, BoneColour)); err != nil {
		return err
	}
	grid := geometry.GenerateLineGrid(string(renderer.MeshGrid), gridDivisions, gridDivisions, 1, GridColour)
	return ctx.Backend.RegisterMesh(renderer.MeshGrid, grid)
}

// ApplyConfig takes a reloaded configuration. The signal keeps its
// accumulated time so the animation does not jump.
func (b *BaseScene) ApplyConfig(cfg *config.Config) {
	b.ctx.Config = cfg
	b.applyConfig(cfg)
	b.Signal.Omega = math.K_PI_2 / cfg.Morph.PeriodSeconds
	core.LogInfo("scene configuration applied")
}

func (b *BaseScene) applyConfig(cfg *config.Config) {
	s := cfg.Skeleton
	b.Flags = skeleton.Flags{
		Bones:         s.Bones,
		Axes:          s.Axes,
		Names:         s.Names,
		Relations:     s.Relations,
		RootBones:     s.RootBones,
		BoneThickness: s.BoneThickness,
	}
	key, err := core.ParseKeyCode(s.ToggleKey)
	if err != nil {
		core.LogWarn("toggle key: %v, keeping %d", err, b.toggleKey)
	} else {
		b.toggleKey = key
	}

	cam := b.ctx.Camera
	cam.SetPosition(cfg.Camera.PositionVec())
	cam.SetTarget(cfg.Camera.TargetVec())
	cam.SetPerspective(math.DegToRad(cfg.Camera.FovDegrees), cfg.Camera.Near, cfg.Camera.Far)
	b.ctx.Backend.SetCamera(cam)

	axes := geometry.GenerateAxes(string(renderer.MeshAxes), s.AxisLength, axisCap, axisStem, axisDivisions)
	if err := b.ctx.Backend.RegisterMesh(renderer.MeshAxes, axes); err != nil {
		core.LogError("axes gizmo: %v", err)
	}
}

func (b *BaseScene) Context() *Context {
	return b.ctx
}

// Sin01 is the current morph signal value in [0, 1].
func (b *BaseScene) Sin01() float32 {
	return b.Signal.Value()
}

// OnUpdate adds a step run every frame, in registration order.
func (b *BaseScene) OnUpdate(step func(delta float64) error) {
	b.steps = append(b.steps, step)
}

// MeshHandle is the backend handle of one mesh of inst.
func MeshHandle(inst *scene.ModelInstance, mesh string) renderer.MeshHandle {
	return renderer.MeshHandle(inst.Name + "/" + mesh)
}

// AddModel registers every mesh of inst and draws them at its placement.
func (b *BaseScene) AddModel(inst *scene.ModelInstance) error {
	m := &model{inst: inst}
	for _, name := range inst.MeshNames() {
		mesh, err := inst.Mesh(name)
		if err != nil {
			return err
		}
		handle := MeshHandle(inst, name)
		if err := b.ctx.Backend.RegisterMesh(handle, mesh); err != nil {
			return err
		}
		m.meshes = append(m.meshes, placedMesh{handle: handle})
	}
	b.models = append(b.models, m)
	inst.Update()
	return nil
}

// Attach makes an already added mesh follow a joint instead of the placement.
func (b *BaseScene) Attach(inst *scene.ModelInstance, mesh, jointID string) error {
	joint, err := inst.GetJoint(jointID)
	if err != nil {
		return err
	}
	handle := MeshHandle(inst, mesh)
	for _, m := range b.models {
		if m.inst != inst {
			continue
		}
		for i := range m.meshes {
			if m.meshes[i].handle == handle {
				m.meshes[i].joint = joint
				return nil
			}
		}
	}
	return fmt.Errorf("%s: attach %q: %w", inst.Name, mesh, core.ErrMeshNotFound)
}

// ShowSkeleton adds inst to the armatures drawn by the overlay.
func (b *BaseScene) ShowSkeleton(inst *scene.ModelInstance) {
	b.armatures = append(b.armatures, inst)
	inst.Update()
}

// BindShape turns a mesh of inst into a morph target driven through b.Driver.
// The first key must be the basis.
func (b *BaseScene) BindShape(inst *scene.ModelInstance, mesh string, keys ...morph.Key) (*morph.Shape, error) {
	m, err := inst.Mesh(mesh)
	if err != nil {
		return nil, err
	}
	shape, err := morph.NewShape(mesh, m, keys...)
	if err != nil {
		return nil, err
	}
	if err := shape.SetBasis(morph.BasisName); err != nil {
		return nil, err
	}
	b.Driver.Bind(string(MeshHandle(inst, mesh)), shape)
	return shape, nil
}

// SetShapeKey sets one channel of a bound mesh for this frame.
func (b *BaseScene) SetShapeKey(inst *scene.ModelInstance, mesh, channel string, value float32) error {
	return b.Driver.Set(string(MeshHandle(inst, mesh)), channel, value)
}

func (b *BaseScene) Update(delta float64) error {
	b.Signal.Advance(delta)

	if b.ctx.Input != nil && b.ctx.Input.IsKeyJustPressed(b.toggleKey) {
		if b.ctx.Bus != nil {
			b.ctx.Bus.Fire(core.EVENT_CODE_TOGGLE_SKELETON, b, core.EventContext{})
		} else {
			b.Skeleton.Toggle()
		}
	}

	for _, step := range b.steps {
		if err := step(delta); err != nil {
			return err
		}
	}
	if _, err := b.Driver.Flush(); err != nil {
		return err
	}
	for _, m := range b.models {
		m.inst.Update()
	}
	for _, a := range b.armatures {
		a.Update()
	}
	return nil
}

func (b *BaseScene) RenderFrame(f *Frame) error {
	cam := f.Camera
	if cam == nil {
		cam = b.ctx.Camera
	}
	d := f.Drawer

	if err := d.Begin(renderer.PassWorld); err != nil {
		return err
	}
	if err := b.drawWorld(d); err != nil {
		_ = d.End()
		return err
	}
	if err := d.End(); err != nil {
		return err
	}

	if len(b.armatures) == 0 {
		return nil
	}
	roots := make([]*scene.Joint, len(b.armatures))
	for i, a := range b.armatures {
		roots[i] = a.Armature()
	}
	if err := b.Skeleton.RenderAll(roots, cam, d, b.Flags); err != nil {
		return fmt.Errorf("skeleton overlay: %w", err)
	}
	return nil
}

func (b *BaseScene) drawWorld(d renderer.Drawer) error {
	if err := d.DrawMesh(renderer.MeshGrid, math.NewMat4Identity()); err != nil {
		return err
	}
	for _, m := range b.models {
		placement := m.inst.Placement.GetLocal()
		for _, pm := range m.meshes {
			transform := placement
			if pm.joint != nil {
				transform = pm.joint.World
			}
			if err := d.DrawMesh(pm.handle, transform); err != nil {
				return err
			}
		}
	}
	return nil
}
