package raster

import (
	"fmt"
	"image"
	"image/color"

	"github.com/spaghettifunk/anima-gallery/engine/core"
	"github.com/spaghettifunk/anima-gallery/engine/geometry"
	"github.com/spaghettifunk/anima-gallery/engine/math"
	"github.com/spaghettifunk/anima-gallery/engine/renderer"
)

// Backend rasterizes drawer calls on the CPU into an RGBA image.
type Backend struct {
	fb         *FrameBuffer
	guard      renderer.PassGuard
	meshes     map[renderer.MeshHandle]*geometry.Mesh
	camera     renderer.Camera
	viewProj   math.Mat4
	light      LightConfig
	textColour color.Color
	capture    *Capture
}

func NewBackend(width, height uint32) *Backend {
	return &Backend{
		fb:         NewFrameBuffer(int(width), int(height)),
		meshes:     make(map[renderer.MeshHandle]*geometry.Mesh),
		viewProj:   math.NewMat4Identity(),
		light:      DefaultLightConfig(),
		textColour: color.Black,
	}
}

// SetCapture makes EndFrame hand every finished frame to c.
func (b *Backend) SetCapture(c *Capture) {
	b.capture = c
}

func (b *Backend) SetCamera(camera renderer.Camera) {
	b.camera = camera
}

// Image returns the colour target. It is overwritten by the next frame.
func (b *Backend) Image() *image.RGBA {
	return b.fb.Color
}

func (b *Backend) Resized(width, height uint32) error {
	if width == 0 || height == 0 {
		return fmt.Errorf("resize to %dx%d: %w", width, height, core.ErrInvalidConfig)
	}
	if err := b.guard.RequireIdle("resize"); err != nil {
		return err
	}
	b.fb = NewFrameBuffer(int(width), int(height))
	core.LogDebug("raster target resized to %dx%d", width, height)
	return nil
}

func (b *Backend) RegisterMesh(handle renderer.MeshHandle, mesh *geometry.Mesh) error {
	if err := mesh.Validate(); err != nil {
		return fmt.Errorf("register %q: %w", handle, err)
	}
	b.meshes[handle] = mesh
	return nil
}

func (b *Backend) BeginFrame(clear renderer.Colour) error {
	if err := b.guard.RequireIdle("begin frame"); err != nil {
		return err
	}
	b.fb.Clear(clear)
	return nil
}

func (b *Backend) EndFrame(deltaTime float64) error {
	if err := b.guard.RequireIdle("end frame"); err != nil {
		return err
	}
	if b.capture != nil {
		return b.capture.Add(b.fb.Color)
	}
	return nil
}

func (b *Backend) Begin(kind renderer.PassKind) error {
	if err := b.guard.Begin(kind); err != nil {
		return err
	}
	if b.camera != nil {
		b.viewProj = b.camera.ViewProjection()
	}
	return nil
}

func (b *Backend) End() error {
	_, err := b.guard.End()
	return err
}

func (b *Backend) ClearDepth() error {
	if err := b.guard.RequireIdle("clear depth"); err != nil {
		return err
	}
	b.fb.ClearDepth()
	return nil
}

func (b *Backend) DrawMesh(handle renderer.MeshHandle, transform math.Mat4) error {
	kind, err := b.guard.Require("draw mesh")
	if err != nil {
		return err
	}
	if kind == renderer.PassScreen {
		return fmt.Errorf("draw mesh %q in %s pass: meshes need a 3D pass", handle, kind)
	}
	mesh, ok := b.meshes[handle]
	if !ok {
		return fmt.Errorf("draw mesh %q: %w", handle, core.ErrMeshNotFound)
	}

	mvp := transform.Mul(b.viewProj)
	projected := make([]screenVertex, len(mesh.Positions))
	visible := make([]bool, len(mesh.Positions))
	for i, p := range mesh.Positions {
		projected[i], visible[i] = b.toScreen(p, mvp)
	}

	switch mesh.Mode {
	case geometry.ModeLines:
		for i := 0; i+1 < len(mesh.Indices); i += 2 {
			ia, ib := mesh.Indices[i], mesh.Indices[i+1]
			if !visible[ia] || !visible[ib] {
				continue
			}
			RasterizeLine(b.fb, projected[ia], projected[ib], mesh.Colours[ia], mesh.DepthAlways)
		}
	default:
		for i := 0; i+2 < len(mesh.Indices); i += 3 {
			idx := [3]uint32{mesh.Indices[i], mesh.Indices[i+1], mesh.Indices[i+2]}
			if !visible[idx[0]] || !visible[idx[1]] || !visible[idx[2]] {
				continue
			}
			w0 := mesh.Positions[idx[0]].Transform(transform)
			w1 := mesh.Positions[idx[1]].Transform(transform)
			w2 := mesh.Positions[idx[2]].Transform(transform)
			normal := w1.Sub(w0).Cross(w2.Sub(w0)).Normalized()
			shade := b.light.ComputeShade(normal)

			c := mesh.Colours[idx[0]]
			c.R *= shade
			c.G *= shade
			c.B *= shade
			RasterizeTriangle(b.fb, [3]screenVertex{projected[idx[0]], projected[idx[1]], projected[idx[2]]}, c, mesh.DepthAlways)
		}
	}
	return nil
}

func (b *Backend) DrawLine(from, to math.Vec3, colour renderer.Colour) error {
	kind, err := b.guard.Require("draw line")
	if err != nil {
		return err
	}
	if kind == renderer.PassScreen {
		RasterizeLine(b.fb, screenVertex{X: from.X, Y: from.Y}, screenVertex{X: to.X, Y: to.Y}, colour, true)
		return nil
	}
	a, okA := b.toScreen(from, b.viewProj)
	c, okC := b.toScreen(to, b.viewProj)
	if okA && okC {
		RasterizeLine(b.fb, a, c, colour, false)
	}
	return nil
}

func (b *Backend) DrawText(text string, screen math.Vec2) error {
	if _, err := b.guard.Require("draw text"); err != nil {
		return err
	}
	DrawLabel(b.fb, text, int(screen.X), int(screen.Y), b.textColour)
	return nil
}

// toScreen projects p through m to pixel coordinates. Points on or behind
// the camera plane are reported invisible.
func (b *Backend) toScreen(p math.Vec3, m math.Mat4) (screenVertex, bool) {
	clip := p.ToVec4(1).Transform(m)
	if clip.W <= 1e-6 {
		return screenVertex{}, false
	}
	ndcX := clip.X / clip.W
	ndcY := clip.Y / clip.W
	return screenVertex{
		X: (ndcX + 1) * 0.5 * float32(b.fb.Width),
		Y: (1 - ndcY) * 0.5 * float32(b.fb.Height),
		Z: clip.Z / clip.W,
	}, true
}
