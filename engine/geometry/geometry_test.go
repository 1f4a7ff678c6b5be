package geometry

import (
	"testing"

	"github.com/spaghettifunk/anima-gallery/engine/math"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeneratorsProduceValidMeshes(t *testing.T) {
	meshes := []*Mesh{
		GenerateBox("box", 1, 1, 1, ColourGreen),
		GenerateAxes("axes", 0.15, 0.1, 0.25, 5),
		GenerateLineGrid("grid", 20, 20, 1, ColourBlack.WithAlpha(0.2)),
		GenerateArrow("arrow", ColourBlue),
	}
	for _, m := range meshes {
		assert.NoError(t, m.Validate(), m.Name)
	}
}

func TestBoxIsUnitCentred(t *testing.T) {
	box := GenerateBox("bone", 1, 1, 1, ColourGreen)
	require.Len(t, box.Positions, 24)
	require.Len(t, box.Indices, 36)
	for _, p := range box.Positions {
		assert.InDelta(t, 0.5, abs(p.X), 1e-6)
		assert.InDelta(t, 0.5, abs(p.Y), 1e-6)
		assert.InDelta(t, 0.5, abs(p.Z), 1e-6)
	}
}

func TestAxesColouredPerAxis(t *testing.T) {
	axes := GenerateAxes("axes", 1, 0.1, 0.25, 4)
	assert.Equal(t, ModeLines, axes.Mode)
	assert.True(t, axes.DepthAlways)
	assert.Equal(t, ColourRed, axes.Colours[0])
	assert.Equal(t, math.NewVec3(1, 0, 0), axes.Positions[1])
	assert.Equal(t, ColourBlue, axes.Colours[len(axes.Colours)-1])
}

func TestGridLineCount(t *testing.T) {
	grid := GenerateLineGrid("grid", 4, 2, 0.5, ColourGrey)
	assert.Len(t, grid.Indices, 2*((4+1)+(2+1)))
	assert.Equal(t, math.NewVec3(-1, 0, -0.5), grid.Positions[0])
}

func TestValidateRejectsBadIndices(t *testing.T) {
	m := GenerateArrow("arrow", ColourRed)
	m.Indices[0] = 99
	assert.Error(t, m.Validate())

	m = GenerateArrow("arrow", ColourRed)
	m.Colours = m.Colours[:1]
	assert.Error(t, m.Validate())

	var nilMesh *Mesh
	assert.Error(t, nilMesh.Validate())
}

func TestCloneIsIndependent(t *testing.T) {
	a := GenerateArrow("a", ColourRed)
	b := a.Translated("b", math.NewVec3(1, 0, 0))
	b.Positions[0].Y = 5
	assert.Equal(t, float32(0), a.Positions[0].Y)
	assert.InDelta(t, 0.9, b.Positions[0].X, 1e-6)
	assert.Equal(t, "b", b.Name)
}

func abs(f float32) float32 {
	if f < 0 {
		return -f
	}
	return f
}
