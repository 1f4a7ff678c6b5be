package raster

import (
	"bytes"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/HugoSmits86/nativewebp"
	"github.com/spaghettifunk/anima-gallery/engine/core"
	"github.com/spaghettifunk/anima-gallery/engine/geometry"
	"github.com/spaghettifunk/anima-gallery/engine/math"
	"github.com/spaghettifunk/anima-gallery/engine/renderer"
	"github.com/spaghettifunk/anima-gallery/engine/renderer/components"
	"github.com/spaghettifunk/anima-gallery/engine/systems"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var background = geometry.Colour{R: 0.95, G: 0.95, B: 0.95, A: 1}

func TestMain(m *testing.M) {
	core.SetLogOutput(io.Discard)
	os.Exit(m.Run())
}

func newTestBackend(t *testing.T) *Backend {
	t.Helper()
	b := NewBackend(64, 64)
	b.SetCamera(components.NewCamera(64, 64))
	require.NoError(t, b.RegisterMesh(renderer.MeshBone, geometry.GenerateBox("bone", 1, 1, 1, geometry.ColourGreen)))
	require.NoError(t, b.RegisterMesh(renderer.MeshAxes, geometry.GenerateAxes("axes", 1, 0.1, 0.25, 5)))
	return b
}

func centre(b *Backend) (uint8, uint8, uint8) {
	c := b.Image().RGBAAt(32, 32)
	return c.R, c.G, c.B
}

func TestBeginFrameClearsToColour(t *testing.T) {
	b := newTestBackend(t)
	require.NoError(t, b.BeginFrame(background))
	r, g, bl := centre(b)
	assert.Equal(t, []uint8{242, 242, 242}, []uint8{r, g, bl})
}

func TestPassLifecycleErrors(t *testing.T) {
	b := newTestBackend(t)

	assert.ErrorIs(t, b.DrawMesh(renderer.MeshBone, math.NewMat4Identity()), core.ErrPassNotActive)
	assert.ErrorIs(t, b.DrawLine(math.NewVec3Zero(), math.NewVec3One(), geometry.ColourYellow), core.ErrPassNotActive)
	assert.ErrorIs(t, b.DrawText("x", math.NewVec2(0, 0)), core.ErrPassNotActive)
	assert.ErrorIs(t, b.End(), core.ErrPassNotActive)

	require.NoError(t, b.Begin(renderer.PassWorld))
	assert.ErrorIs(t, b.Begin(renderer.PassOverlay), core.ErrPassAlreadyActive)
	assert.ErrorIs(t, b.ClearDepth(), core.ErrPassAlreadyActive)
	assert.ErrorIs(t, b.DrawMesh("missing", math.NewMat4Identity()), core.ErrMeshNotFound)
	require.NoError(t, b.End())

	require.NoError(t, b.Begin(renderer.PassScreen))
	assert.Error(t, b.DrawMesh(renderer.MeshBone, math.NewMat4Identity()))
	require.NoError(t, b.End())
}

func TestDrawMeshShadesCentre(t *testing.T) {
	b := newTestBackend(t)
	require.NoError(t, b.BeginFrame(background))
	require.NoError(t, b.Begin(renderer.PassWorld))
	require.NoError(t, b.DrawMesh(renderer.MeshBone, math.NewMat4Identity()))
	require.NoError(t, b.End())

	r, g, bl := centre(b)
	assert.Zero(t, r)
	assert.Greater(t, g, uint8(100))
	assert.Zero(t, bl)
}

func TestDepthHidesFartherMeshUntilCleared(t *testing.T) {
	b := newTestBackend(t)
	require.NoError(t, b.RegisterMesh("red", geometry.GenerateBox("red", 0.5, 0.5, 0.5, geometry.ColourRed)))

	far := math.NewMat4Translation(math.NewVec3(-0.5, -0.5, -0.5))
	require.NoError(t, b.BeginFrame(background))
	require.NoError(t, b.Begin(renderer.PassWorld))
	require.NoError(t, b.DrawMesh(renderer.MeshBone, math.NewMat4Identity()))
	require.NoError(t, b.DrawMesh("red", far))
	require.NoError(t, b.End())
	r, g, _ := centre(b)
	assert.Zero(t, r, "red box behind the green one must be hidden")
	assert.NotZero(t, g)

	require.NoError(t, b.ClearDepth())
	require.NoError(t, b.Begin(renderer.PassWorld))
	require.NoError(t, b.DrawMesh("red", far))
	require.NoError(t, b.End())
	r, g, _ = centre(b)
	assert.NotZero(t, r, "after a depth clear the red box draws on top")
	assert.Zero(t, g)
}

func TestDrawTextMarksPixels(t *testing.T) {
	b := newTestBackend(t)
	require.NoError(t, b.BeginFrame(background))
	require.NoError(t, b.Begin(renderer.PassScreen))
	require.NoError(t, b.DrawText("Bone1", math.NewVec2(2, 2)))
	require.NoError(t, b.End())

	dark := 0
	img := b.Image()
	for y := 0; y < 16; y++ {
		for x := 0; x < LabelWidth("Bone1")+2; x++ {
			if img.RGBAAt(x, y).R < 128 {
				dark++
			}
		}
	}
	assert.Greater(t, dark, 10)
}

func TestRenderIsDeterministic(t *testing.T) {
	render := func() []byte {
		b := newTestBackend(t)
		require.NoError(t, b.BeginFrame(background))
		require.NoError(t, b.Begin(renderer.PassWorld))
		require.NoError(t, b.DrawMesh(renderer.MeshAxes, math.NewMat4Identity()))
		require.NoError(t, b.DrawMesh(renderer.MeshBone, math.NewMat4Scale(math.NewVec3(0.1, 2, 0.1))))
		require.NoError(t, b.End())
		require.NoError(t, b.ClearDepth())
		require.NoError(t, b.Begin(renderer.PassOverlay))
		require.NoError(t, b.DrawLine(math.NewVec3Zero(), math.NewVec3(0, 1, 0), geometry.ColourYellow))
		require.NoError(t, b.End())
		return append([]byte(nil), b.Image().Pix...)
	}
	assert.Equal(t, render(), render())
}

func TestResizedReplacesTarget(t *testing.T) {
	b := newTestBackend(t)
	require.NoError(t, b.Resized(32, 16))
	assert.Equal(t, 32, b.Image().Bounds().Dx())
	assert.ErrorIs(t, b.Resized(0, 16), core.ErrInvalidConfig)
}

func TestCapturePNGFrames(t *testing.T) {
	dir := t.TempDir()
	b := newTestBackend(t)
	b.SetCapture(NewCapture(dir, "skeleton", FormatPNG, false, 0))

	for i := 0; i < 2; i++ {
		require.NoError(t, b.BeginFrame(background))
		require.NoError(t, b.EndFrame(0.016))
	}
	files, err := b.capture.Flush()
	require.NoError(t, err)
	require.Len(t, files, 2)

	f, err := os.Open(files[0])
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 64, img.Bounds().Dx())
}

func TestCaptureAnimatedWebP(t *testing.T) {
	dir := t.TempDir()
	c := NewCapture(dir, "shapekeys", FormatWebP, true, 40*time.Millisecond)
	b := newTestBackend(t)
	b.SetCapture(c)
	for i := 0; i < 3; i++ {
		require.NoError(t, b.BeginFrame(background))
		require.NoError(t, b.EndFrame(0.016))
	}
	files, err := c.Flush()
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, ".webp", filepath.Ext(files[0]))

	data, err := os.ReadFile(files[0])
	require.NoError(t, err)
	require.Greater(t, len(data), 16)
	assert.Equal(t, "RIFF", string(data[0:4]))
	assert.Equal(t, "WEBPVP8X", string(data[8:16]))
	assert.True(t, bytes.Contains(data, []byte("ANMF")), "expected animation frames")
}

func TestCaptureSingleWebPDecodes(t *testing.T) {
	dir := t.TempDir()
	c := NewCapture(dir, "simple", FormatWebP, false, 0)
	require.NoError(t, c.Add(NewFrameBuffer(8, 4).Color))
	files, err := c.Flush()
	require.NoError(t, err)
	require.Len(t, files, 1)

	f, err := os.Open(files[0])
	require.NoError(t, err)
	defer f.Close()
	img, err := nativewebp.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 8, img.Bounds().Dx())
}

func TestCaptureEncodesOnJobSystem(t *testing.T) {
	dir := t.TempDir()
	js, err := systems.NewJobSystem(3, 4)
	require.NoError(t, err)

	c := NewCapture(dir, "skeleton", FormatPNG, false, 0)
	c.UseJobs(js)
	fb := NewFrameBuffer(8, 8)
	for i := 0; i < 10; i++ {
		require.NoError(t, c.Add(fb.Color))
	}
	files, err := c.Flush()
	require.NoError(t, err)
	require.Len(t, files, 10)
	assert.Equal(t, "skeleton", filepath.Base(files[0])[:8])
	assert.Less(t, files[0], files[9])

	// the job system is released by Flush
	assert.ErrorIs(t, js.Submit(systems.JobTask{Run: func() error { return nil }}), systems.ErrJobSystemClosed)
}

func TestCaptureNoneWritesNothing(t *testing.T) {
	dir := t.TempDir()
	c := NewCapture(dir, "simple", FormatNone, false, 0)
	require.NoError(t, c.Add(NewFrameBuffer(4, 4).Color))
	files, err := c.Flush()
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("png")
	require.NoError(t, err)
	assert.Equal(t, FormatPNG, f)
	_, err = ParseFormat("gif")
	assert.ErrorIs(t, err, core.ErrInvalidConfig)
}
