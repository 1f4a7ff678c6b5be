package renderer

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spaghettifunk/anima-gallery/engine/core"
	"github.com/spaghettifunk/anima-gallery/engine/geometry"
	"github.com/spaghettifunk/anima-gallery/engine/math"
)

// Op identifies a recorded drawer call.
type Op uint8

const (
	OpBegin Op = iota
	OpEnd
	OpClearDepth
	OpDrawMesh
	OpDrawLine
	OpDrawText
	OpBeginFrame
	OpEndFrame
)

var opNames = map[Op]string{
	OpBegin:      "begin",
	OpEnd:        "end",
	OpClearDepth: "clear_depth",
	OpDrawMesh:   "draw_mesh",
	OpDrawLine:   "draw_line",
	OpDrawText:   "draw_text",
	OpBeginFrame: "begin_frame",
	OpEndFrame:   "end_frame",
}

func (o Op) String() string {
	if n, ok := opNames[o]; ok {
		return n
	}
	return fmt.Sprintf("op(%d)", uint8(o))
}

// Call is one recorded drawer call. Only the fields relevant to Op are set.
type Call struct {
	Op        Op
	Pass      PassKind
	Mesh      MeshHandle
	Transform math.Mat4
	From, To  math.Vec3
	Colour    Colour
	Text      string
	Position  math.Vec2
}

func (c Call) String() string {
	switch c.Op {
	case OpBegin, OpEnd:
		return fmt.Sprintf("%s %s", c.Op, c.Pass)
	case OpDrawMesh:
		t := c.Transform.Translation()
		return fmt.Sprintf("%s %s %s at (%.3f, %.3f, %.3f)", c.Op, c.Pass, c.Mesh, t.X, t.Y, t.Z)
	case OpDrawLine:
		return fmt.Sprintf("%s %s (%.3f, %.3f, %.3f) -> (%.3f, %.3f, %.3f)", c.Op, c.Pass,
			c.From.X, c.From.Y, c.From.Z, c.To.X, c.To.Y, c.To.Z)
	case OpDrawText:
		return fmt.Sprintf("%s %s %q at (%.1f, %.1f)", c.Op, c.Pass, c.Text, c.Position.X, c.Position.Y)
	}
	return c.Op.String()
}

// Recorder is a backend that draws nothing and remembers every call. It
// applies the same pass rules as the raster backend.
type Recorder struct {
	guard  PassGuard
	meshes map[MeshHandle]*geometry.Mesh
	camera Camera
	Calls  []Call
}

func NewRecorder() *Recorder {
	return &Recorder{meshes: make(map[MeshHandle]*geometry.Mesh)}
}

func (r *Recorder) Begin(kind PassKind) error {
	if err := r.guard.Begin(kind); err != nil {
		return err
	}
	r.Calls = append(r.Calls, Call{Op: OpBegin, Pass: kind})
	return nil
}

func (r *Recorder) End() error {
	kind, err := r.guard.End()
	if err != nil {
		return err
	}
	r.Calls = append(r.Calls, Call{Op: OpEnd, Pass: kind})
	return nil
}

func (r *Recorder) ClearDepth() error {
	if err := r.guard.RequireIdle("clear depth"); err != nil {
		return err
	}
	r.Calls = append(r.Calls, Call{Op: OpClearDepth})
	return nil
}

func (r *Recorder) DrawMesh(handle MeshHandle, transform math.Mat4) error {
	kind, err := r.guard.Require("draw mesh")
	if err != nil {
		return err
	}
	if _, ok := r.meshes[handle]; !ok && len(r.meshes) > 0 {
		return fmt.Errorf("draw mesh %q: %w", handle, core.ErrMeshNotFound)
	}
	r.Calls = append(r.Calls, Call{Op: OpDrawMesh, Pass: kind, Mesh: handle, Transform: transform})
	return nil
}

func (r *Recorder) DrawLine(from, to math.Vec3, colour Colour) error {
	kind, err := r.guard.Require("draw line")
	if err != nil {
		return err
	}
	r.Calls = append(r.Calls, Call{Op: OpDrawLine, Pass: kind, From: from, To: to, Colour: colour})
	return nil
}

func (r *Recorder) DrawText(text string, screen math.Vec2) error {
	kind, err := r.guard.Require("draw text")
	if err != nil {
		return err
	}
	r.Calls = append(r.Calls, Call{Op: OpDrawText, Pass: kind, Text: text, Position: screen})
	return nil
}

func (r *Recorder) Resized(width, height uint32) error {
	return nil
}

func (r *Recorder) BeginFrame(clear Colour) error {
	if err := r.guard.RequireIdle("begin frame"); err != nil {
		return err
	}
	r.Calls = append(r.Calls, Call{Op: OpBeginFrame, Colour: clear})
	return nil
}

func (r *Recorder) EndFrame(deltaTime float64) error {
	if err := r.guard.RequireIdle("end frame"); err != nil {
		return err
	}
	r.Calls = append(r.Calls, Call{Op: OpEndFrame})
	return nil
}

// RegisterMesh stores the mesh so draws of unknown handles can be rejected.
// A recorder with no registered meshes accepts any handle.
func (r *Recorder) RegisterMesh(handle MeshHandle, mesh *geometry.Mesh) error {
	if err := mesh.Validate(); err != nil {
		return err
	}
	r.meshes[handle] = mesh
	return nil
}

func (r *Recorder) SetCamera(camera Camera) {
	r.camera = camera
}

// Reset forgets every recorded call.
func (r *Recorder) Reset() {
	r.Calls = r.Calls[:0]
}

// Count returns how many calls of op were recorded in pass kind. OpClearDepth,
// OpBeginFrame and OpEndFrame ignore kind.
func (r *Recorder) Count(op Op, kind PassKind) int {
	n := 0
	for _, c := range r.Calls {
		if c.Op != op {
			continue
		}
		if op == OpClearDepth || op == OpBeginFrame || op == OpEndFrame || c.Pass == kind {
			n++
		}
	}
	return n
}

// CountMesh returns how many times handle was drawn.
func (r *Recorder) CountMesh(handle MeshHandle) int {
	n := 0
	for _, c := range r.Calls {
		if c.Op == OpDrawMesh && c.Mesh == handle {
			n++
		}
	}
	return n
}

// Texts returns every label drawn, in call order.
func (r *Recorder) Texts() []string {
	var out []string
	for _, c := range r.Calls {
		if c.Op == OpDrawText {
			out = append(out, c.Text)
		}
	}
	return out
}

// Summary renders a compact per-op histogram, sorted by op name.
func (r *Recorder) Summary() string {
	counts := map[string]int{}
	for _, c := range r.Calls {
		counts[c.Op.String()]++
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%d", k, counts[k]))
	}
	return strings.Join(parts, " ")
}
