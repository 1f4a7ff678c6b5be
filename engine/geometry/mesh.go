package geometry

import (
	"fmt"

	"github.com/spaghettifunk/anima-gallery/engine/math"
)

// Mode tells the drawer how to assemble indices into primitives.
type Mode int

const (
	// Every three indices form a triangle.
	ModeTriangles Mode = iota
	// Every two indices form a line segment.
	ModeLines
)

// Colour is a linear RGBA colour with components in [0, 1].
type Colour struct {
	R, G, B, A float32
}

var (
	ColourRed    = Colour{1, 0, 0, 1}
	ColourGreen  = Colour{0, 1, 0, 1}
	ColourBlue   = Colour{0, 0, 1, 1}
	ColourYellow = Colour{1, 1, 0, 1}
	ColourBlack  = Colour{0, 0, 0, 1}
	ColourWhite  = Colour{1, 1, 1, 1}
	ColourGrey   = Colour{0.5, 0.5, 0.5, 1}
)

// WithAlpha returns c with its alpha replaced.
func (c Colour) WithAlpha(a float32) Colour {
	c.A = a
	return c
}

/**
 * @brief Geometry that can be handed to a drawer. Positions are read by
 * reference on every draw, so deforming them in place (morph targets)
 * shows up on the next frame without re-registering the mesh.
 */
type Mesh struct {
	Name      string
	Mode      Mode
	Positions []math.Vec3
	Indices   []uint32
	/** @brief One colour per position. */
	Colours []Colour
	/** @brief Draw on top of everything regardless of depth (debug gizmos). */
	DepthAlways bool
}

// Validate checks that every index and colour lines up with the positions.
func (m *Mesh) Validate() error {
	if m == nil {
		return fmt.Errorf("mesh is nil")
	}
	if len(m.Colours) != len(m.Positions) {
		return fmt.Errorf("mesh %q: %d colours for %d positions", m.Name, len(m.Colours), len(m.Positions))
	}
	stride := 3
	if m.Mode == ModeLines {
		stride = 2
	}
	if len(m.Indices)%stride != 0 {
		return fmt.Errorf("mesh %q: index count %d is not a multiple of %d", m.Name, len(m.Indices), stride)
	}
	for _, idx := range m.Indices {
		if int(idx) >= len(m.Positions) {
			return fmt.Errorf("mesh %q: index %d out of range (%d positions)", m.Name, idx, len(m.Positions))
		}
	}
	return nil
}

// Clone returns a deep copy so the copy can be deformed independently.
func (m *Mesh) Clone(name string) *Mesh {
	out := &Mesh{
		Name:        name,
		Mode:        m.Mode,
		Positions:   append([]math.Vec3(nil), m.Positions...),
		Indices:     append([]uint32(nil), m.Indices...),
		Colours:     append([]Colour(nil), m.Colours...),
		DepthAlways: m.DepthAlways,
	}
	return out
}

// Translated returns a copy of the mesh with every position offset by delta.
func (m *Mesh) Translated(name string, delta math.Vec3) *Mesh {
	out := m.Clone(name)
	for i := range out.Positions {
		out.Positions[i] = out.Positions[i].Add(delta)
	}
	return out
}

func fill(c Colour, n int) []Colour {
	out := make([]Colour, n)
	for i := range out {
		out[i] = c
	}
	return out
}
