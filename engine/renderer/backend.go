package renderer

import (
	"fmt"

	"github.com/spaghettifunk/anima-gallery/engine/core"
	"github.com/spaghettifunk/anima-gallery/engine/geometry"
	"github.com/spaghettifunk/anima-gallery/engine/math"
)

// PassKind selects how draws inside a pass are treated.
type PassKind uint8

const (
	// 3D, depth tested and depth writing.
	PassWorld PassKind = iota
	// 3D lines drawn over the world after a depth clear.
	PassOverlay
	// 2D, screen space coordinates with the origin at the top left.
	PassScreen
)

func (k PassKind) String() string {
	switch k {
	case PassWorld:
		return "world"
	case PassOverlay:
		return "overlay"
	case PassScreen:
		return "screen"
	}
	return fmt.Sprintf("pass(%d)", uint8(k))
}

// MeshHandle names a mesh registered with a backend.
type MeshHandle string

const (
	MeshBone MeshHandle = "debug.bone"
	MeshAxes MeshHandle = "debug.axes"
	MeshGrid MeshHandle = "debug.grid"
)

type Colour = geometry.Colour

// Drawer is the primitive drawing surface every debug pass goes through.
// Draw calls are only valid between Begin and End.
type Drawer interface {
	Begin(kind PassKind) error
	End() error
	// ClearDepth resets the depth buffer only. It must be called between passes.
	ClearDepth() error
	DrawMesh(handle MeshHandle, transform math.Mat4) error
	DrawLine(from, to math.Vec3, colour Colour) error
	DrawText(text string, screen math.Vec2) error
}

// Camera turns world positions into screen positions.
type Camera interface {
	Project(world math.Vec3) math.Vec2
	ViewProjection() math.Mat4
}

// RendererBackend is a Drawer that also owns frames and mesh storage.
type RendererBackend interface {
	Drawer
	Resized(width, height uint32) error
	BeginFrame(clear Colour) error
	EndFrame(deltaTime float64) error
	RegisterMesh(handle MeshHandle, mesh *geometry.Mesh) error
	SetCamera(camera Camera)
}

// PassGuard tracks the currently open pass so every backend applies the
// same lifecycle rules.
type PassGuard struct {
	active bool
	kind   PassKind
}

func (g *PassGuard) Begin(kind PassKind) error {
	if g.active {
		return fmt.Errorf("begin %s while %s is open: %w", kind, g.kind, core.ErrPassAlreadyActive)
	}
	g.active = true
	g.kind = kind
	return nil
}

func (g *PassGuard) End() (PassKind, error) {
	if !g.active {
		return 0, fmt.Errorf("end: %w", core.ErrPassNotActive)
	}
	g.active = false
	return g.kind, nil
}

// Require returns the open pass or ErrPassNotActive naming op.
func (g *PassGuard) Require(op string) (PassKind, error) {
	if !g.active {
		return 0, fmt.Errorf("%s: %w", op, core.ErrPassNotActive)
	}
	return g.kind, nil
}

// RequireIdle fails when a pass is open.
func (g *PassGuard) RequireIdle(op string) error {
	if g.active {
		return fmt.Errorf("%s inside %s pass: %w", op, g.kind, core.ErrPassAlreadyActive)
	}
	return nil
}

func (g *PassGuard) Active() bool {
	return g.active
}
