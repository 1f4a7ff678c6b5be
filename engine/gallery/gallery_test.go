package gallery

import (
	"io"
	"os"
	"testing"

	"github.com/spaghettifunk/anima-gallery/engine/config"
	"github.com/spaghettifunk/anima-gallery/engine/core"
	"github.com/spaghettifunk/anima-gallery/engine/renderer"
	"github.com/spaghettifunk/anima-gallery/engine/renderer/raster"
	"github.com/spaghettifunk/anima-gallery/engine/scene"
	"github.com/spaghettifunk/anima-gallery/engine/skeleton"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	core.SetLogOutput(io.Discard)
	os.Exit(m.Run())
}

type harness struct {
	scene Scene
	ctx   *Context
	rec   *renderer.Recorder
}

func newHarness(t *testing.T, name string, cfg *config.Config) *harness {
	t.Helper()
	if cfg == nil {
		cfg = config.Default()
	}
	bus := core.NewEventBus()
	h := &harness{
		rec: renderer.NewRecorder(),
		ctx: &Context{
			Config: cfg,
			Bus:    bus,
			Input:  core.NewInput(bus, 8),
		},
	}
	h.ctx.Backend = h.rec
	s, err := DefaultRegistry().New(name)
	require.NoError(t, err)
	require.NoError(t, s.Create(h.ctx))
	h.scene = s
	return h
}

// frame mirrors one engine frame: input, update, render.
func (h *harness) frame(t *testing.T, dt float64) {
	t.Helper()
	h.rec.Reset()
	h.ctx.Input.Drain()
	require.NoError(t, h.scene.(Updater).Update(dt))
	require.NoError(t, h.rec.BeginFrame(ClearColour))
	require.NoError(t, h.scene.RenderFrame(&Frame{Delta: dt, Drawer: h.rec, Camera: h.ctx.Camera}))
	require.NoError(t, h.rec.EndFrame(dt))
	h.ctx.Input.Update()
}

func TestRegistryNames(t *testing.T) {
	r := DefaultRegistry()
	assert.Equal(t, []string{"animation", "animation_shapekeys", "complex", "shapekeys", "simple", "skeleton"}, r.Names())

	_, err := r.New("selected")
	assert.ErrorIs(t, err, core.ErrUnknownScene)

	assert.ErrorIs(t, r.Register("simple", func() Scene { return &SimpleScene{} }), core.ErrInvalidConfig)
	assert.ErrorIs(t, r.Register("", nil), core.ErrInvalidConfig)
}

func TestEverySceneRuns(t *testing.T) {
	for _, name := range DefaultRegistry().Names() {
		t.Run(name, func(t *testing.T) {
			h := newHarness(t, name, nil)
			for i := 0; i < 3; i++ {
				h.frame(t, 1.0/30)
			}
			assert.Equal(t, 1, h.rec.CountMesh(renderer.MeshGrid))
		})
	}
}

func TestEverySceneRasterizes(t *testing.T) {
	for _, name := range DefaultRegistry().Names() {
		t.Run(name, func(t *testing.T) {
			cfg := config.Default()
			cfg.Application.Width, cfg.Application.Height = 64, 48
			b := raster.NewBackend(64, 48)
			bus := core.NewEventBus()
			ctx := &Context{Config: cfg, Backend: b, Bus: bus, Input: core.NewInput(bus, 4)}

			s, err := DefaultRegistry().New(name)
			require.NoError(t, err)
			require.NoError(t, s.Create(ctx))
			require.NoError(t, s.(Updater).Update(0.1))
			require.NoError(t, b.BeginFrame(ClearColour))
			require.NoError(t, s.RenderFrame(&Frame{Delta: 0.1, Drawer: b, Camera: ctx.Camera}))
			require.NoError(t, b.EndFrame(0.1))
		})
	}
}

func TestSkeletonSceneOverlay(t *testing.T) {
	h := newHarness(t, "skeleton", nil)
	h.frame(t, 0)

	assert.Equal(t, 1, h.rec.CountMesh(MeshHandle(h.scene.(*SkeletonScene).inst, "body")))
	assert.Equal(t, 4, h.rec.CountMesh(renderer.MeshAxes))
	// Bone1 hangs off the armature and gets no box
	assert.Equal(t, 3, h.rec.CountMesh(renderer.MeshBone))
	assert.Equal(t, 3, h.rec.Count(renderer.OpDrawLine, renderer.PassOverlay))
	assert.Equal(t, 1, h.rec.Count(renderer.OpClearDepth, 0))
	assert.Equal(t, []string{"Bone1", "Bone2", "Bone3", "Bone4"}, h.rec.Texts())
}

func TestToggleKeyHidesOverlay(t *testing.T) {
	h := newHarness(t, "skeleton", nil)
	base := &h.scene.(*SkeletonScene).BaseScene

	require.NoError(t, h.ctx.Input.Push(core.KEY_SPACE, true))
	h.frame(t, 0)
	assert.Equal(t, skeleton.Hidden, base.Skeleton.State())
	assert.Zero(t, h.rec.Count(renderer.OpClearDepth, 0))
	assert.Empty(t, h.rec.Texts())
	assert.Equal(t, 1, h.rec.CountMesh(renderer.MeshGrid))

	// holding the key does not toggle again
	h.frame(t, 0)
	assert.Equal(t, skeleton.Hidden, base.Skeleton.State())

	require.NoError(t, h.ctx.Input.Push(core.KEY_SPACE, false))
	h.frame(t, 0)
	require.NoError(t, h.ctx.Input.Push(core.KEY_SPACE, true))
	h.frame(t, 0)
	assert.Equal(t, skeleton.Visible, base.Skeleton.State())
	assert.Len(t, h.rec.Texts(), 4)
}

func TestConfiguredSkeletonsAreShown(t *testing.T) {
	cfg := config.Default()
	cfg.Skeletons = []scene.JointConfig{{
		Name:        "Extra",
		Translation: [3]float32{2, 0, 0},
		Children: []scene.JointConfig{{
			Name:        "Extra.Bone",
			Translation: [3]float32{0, 1, 0},
			Children:    []scene.JointConfig{{Name: "Extra.Tip", Translation: [3]float32{0, 1, 0}}},
		}},
	}}
	h := newHarness(t, "skeleton", cfg)
	h.frame(t, 0)

	texts := h.rec.Texts()
	assert.Contains(t, texts, "Extra.Bone")
	assert.Contains(t, texts, "Extra.Tip")
	assertBonesBeforeOverlayClear(t, h.rec)

	tip, err := h.scene.(*SkeletonScene).extras[0].GetJoint("Extra.Tip")
	require.NoError(t, err)
	assert.InDelta(t, 2, tip.World.Translation().X, 1e-5)
	assert.InDelta(t, 2, tip.World.Translation().Y, 1e-5)
}

func TestShapekeysFollowSignal(t *testing.T) {
	h := newHarness(t, "shapekeys", nil)
	s := h.scene.(*ShapekeysScene)

	// quarter period: the signal peaks at one
	h.frame(t, 0.5)
	require.InDelta(t, 1, s.Sin01(), 1e-4)

	straight, err := s.inst.Mesh("arrow.032")
	require.NoError(t, err)
	assert.InDelta(t, -1.5, straight.Positions[6].X, 1e-4)
	assert.InDelta(t, 1.6, straight.Positions[6].Y, 1e-4)

	bent, err := s.inst.Mesh("arrow.034")
	require.NoError(t, err)
	assert.InDelta(t, 1.0, bent.Positions[6].X, 1e-4)
	assert.InDelta(t, 1.6, bent.Positions[6].Y, 1e-4)

	// half a period later the signal is back to one half
	h.frame(t, 0.5)
	assert.InDelta(t, 1.3, straight.Positions[6].Y, 1e-4)
	assert.Empty(t, h.rec.Texts(), "shapekeys has no armature")
}

func TestAnimationMovesJoints(t *testing.T) {
	h := newHarness(t, "animation", nil)
	s := h.scene.(*AnimationScene)
	hand, err := s.inst.GetJoint("Hand.L")
	require.NoError(t, err)

	h.frame(t, 0)
	rest := hand.World.Translation()
	h.frame(t, 0.25)
	moved := hand.World.Translation()
	assert.False(t, rest.Compare(moved, 1e-3), "hand stayed at %v", rest)

	// the head follows the neck joint
	neck, err := s.inst.GetJoint("Neck")
	require.NoError(t, err)
	var headTransform *renderer.Call
	for i, c := range h.rec.Calls {
		if c.Op == renderer.OpDrawMesh && c.Mesh == MeshHandle(s.inst, "head") {
			headTransform = &h.rec.Calls[i]
		}
	}
	require.NotNil(t, headTransform)
	assert.True(t, headTransform.Transform.Compare(neck.World, 1e-6))
}

func TestComplexDrawsBothArmatures(t *testing.T) {
	h := newHarness(t, "complex", nil)
	h.frame(t, 0.1)
	texts := h.rec.Texts()
	assert.Contains(t, texts, "Spine")
	assert.Contains(t, texts, "Bone4")
	assertBonesBeforeOverlayClear(t, h.rec)
}

// assertBonesBeforeOverlayClear checks that every armature shares one depth
// clear and that no bone box or gizmo is drawn after it.
func assertBonesBeforeOverlayClear(t *testing.T, rec *renderer.Recorder) {
	t.Helper()
	require.Equal(t, 1, rec.Count(renderer.OpClearDepth, 0))
	cleared := false
	for _, c := range rec.Calls {
		switch {
		case c.Op == renderer.OpClearDepth:
			cleared = true
		case cleared && c.Op == renderer.OpDrawMesh:
			assert.Failf(t, "mesh drawn after the overlay clear", "%s", c)
		}
	}
}

func TestApplyConfig(t *testing.T) {
	h := newHarness(t, "skeleton", nil)
	cfg := config.Default()
	cfg.Skeleton.Names = false
	cfg.Skeleton.Relations = false
	cfg.Morph.PeriodSeconds = 4

	h.scene.(Reconfigurable).ApplyConfig(cfg)
	h.frame(t, 1)
	assert.Empty(t, h.rec.Texts())
	assert.Zero(t, h.rec.Count(renderer.OpDrawLine, renderer.PassOverlay))
	assert.InDelta(t, 1, h.scene.(*SkeletonScene).Sin01(), 1e-4)
}

func TestCreateNeedsBackend(t *testing.T) {
	s := &SimpleScene{}
	assert.ErrorIs(t, s.Create(&Context{Config: config.Default()}), core.ErrInvalidConfig)
}
