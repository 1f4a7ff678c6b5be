package geometry

import (
	"github.com/chewxy/math32"
	"github.com/spaghettifunk/anima-gallery/engine/core"
	"github.com/spaghettifunk/anima-gallery/engine/math"
)

/**
 * @brief Generates a box centred on the origin. Each face gets its own four
 * vertices so it can be flat shaded.
 *
 * @param name The name of the mesh.
 * @param width The width of the box (X).
 * @param height The height of the box (Y).
 * @param depth The depth of the box (Z).
 * @param colour The colour of every vertex.
 */
func GenerateBox(name string, width, height, depth float32, colour Colour) *Mesh {
	if width == 0 {
		core.LogWarn("Width must be nonzero. Defaulting to one.")
		width = 1.0
	}
	if height == 0 {
		core.LogWarn("Height must be nonzero. Defaulting to one.")
		height = 1.0
	}
	if depth == 0 {
		core.LogWarn("Depth must be nonzero. Defaulting to one.")
		depth = 1.0
	}

	minX, maxX := -width*0.5, width*0.5
	minY, maxY := -height*0.5, height*0.5
	minZ, maxZ := -depth*0.5, depth*0.5

	verts := []math.Vec3{
		// Front face
		{X: minX, Y: minY, Z: maxZ}, {X: maxX, Y: maxY, Z: maxZ}, {X: minX, Y: maxY, Z: maxZ}, {X: maxX, Y: minY, Z: maxZ},
		// Back face
		{X: maxX, Y: minY, Z: minZ}, {X: minX, Y: maxY, Z: minZ}, {X: maxX, Y: maxY, Z: minZ}, {X: minX, Y: minY, Z: minZ},
		// Left
		{X: minX, Y: minY, Z: minZ}, {X: minX, Y: maxY, Z: maxZ}, {X: minX, Y: maxY, Z: minZ}, {X: minX, Y: minY, Z: maxZ},
		// Right face
		{X: maxX, Y: minY, Z: maxZ}, {X: maxX, Y: maxY, Z: minZ}, {X: maxX, Y: maxY, Z: maxZ}, {X: maxX, Y: minY, Z: minZ},
		// Bottom face
		{X: maxX, Y: minY, Z: maxZ}, {X: minX, Y: minY, Z: minZ}, {X: maxX, Y: minY, Z: minZ}, {X: minX, Y: minY, Z: maxZ},
		// Top face
		{X: minX, Y: maxY, Z: maxZ}, {X: maxX, Y: maxY, Z: minZ}, {X: minX, Y: maxY, Z: minZ}, {X: maxX, Y: maxY, Z: maxZ},
	}

	indices := make([]uint32, 0, 36)
	for i := uint32(0); i < 6; i++ {
		offset := i * 4
		indices = append(indices,
			offset+0, offset+1, offset+2,
			offset+0, offset+3, offset+1,
		)
	}

	return &Mesh{
		Name:      name,
		Mode:      ModeTriangles,
		Positions: verts,
		Indices:   indices,
		Colours:   fill(colour, len(verts)),
	}
}

/**
 * @brief Generates an XYZ axis gizmo: a red X, green Y and blue Z stem from
 * the origin, each capped by a cone drawn as lines.
 *
 * @param name The name of the mesh.
 * @param axisLength Length of each stem.
 * @param capLength Fraction of the stem taken by the cap.
 * @param stemThickness Radius of the cap base relative to the cap length.
 * @param divisions Number of lines around each cap.
 */
func GenerateAxes(name string, axisLength, capLength, stemThickness float32, divisions int) *Mesh {
	if divisions < 3 {
		divisions = 3
	}
	m := &Mesh{
		Name:        name,
		Mode:        ModeLines,
		DepthAlways: true,
	}

	type axis struct {
		dir, u, v math.Vec3
		colour    Colour
	}
	axes := []axis{
		{math.NewVec3(1, 0, 0), math.NewVec3(0, 1, 0), math.NewVec3(0, 0, 1), ColourRed},
		{math.NewVec3(0, 1, 0), math.NewVec3(0, 0, 1), math.NewVec3(1, 0, 0), ColourGreen},
		{math.NewVec3(0, 0, 1), math.NewVec3(1, 0, 0), math.NewVec3(0, 1, 0), ColourBlue},
	}

	capLen := axisLength * capLength
	radius := capLen * stemThickness
	for _, a := range axes {
		base := uint32(len(m.Positions))
		tip := a.dir.MulScalar(axisLength)
		m.Positions = append(m.Positions, math.NewVec3Zero(), tip)
		m.Indices = append(m.Indices, base, base+1)

		capBase := a.dir.MulScalar(axisLength - capLen)
		ring := uint32(len(m.Positions))
		for d := 0; d < divisions; d++ {
			angle := math.K_PI_2 * float32(d) / float32(divisions)
			offset := a.u.MulScalar(math32.Cos(angle) * radius).Add(a.v.MulScalar(math32.Sin(angle) * radius))
			m.Positions = append(m.Positions, capBase.Add(offset))
		}
		for d := uint32(0); d < uint32(divisions); d++ {
			next := (d + 1) % uint32(divisions)
			m.Indices = append(m.Indices, base+1, ring+d, ring+d, ring+next)
		}
		for len(m.Colours) < len(m.Positions) {
			m.Colours = append(m.Colours, a.colour)
		}
	}
	return m
}

/**
 * @brief Generates a flat line grid on the XZ plane centred on the origin.
 *
 * @param name The name of the mesh.
 * @param xDivisions Number of cells along X.
 * @param zDivisions Number of cells along Z.
 * @param cellSize Edge length of one cell.
 * @param colour The line colour.
 */
func GenerateLineGrid(name string, xDivisions, zDivisions int, cellSize float32, colour Colour) *Mesh {
	if xDivisions < 1 {
		xDivisions = 1
	}
	if zDivisions < 1 {
		zDivisions = 1
	}
	m := &Mesh{Name: name, Mode: ModeLines}

	halfX := float32(xDivisions) * cellSize * 0.5
	halfZ := float32(zDivisions) * cellSize * 0.5
	for i := 0; i <= xDivisions; i++ {
		x := -halfX + float32(i)*cellSize
		base := uint32(len(m.Positions))
		m.Positions = append(m.Positions, math.NewVec3(x, 0, -halfZ), math.NewVec3(x, 0, halfZ))
		m.Indices = append(m.Indices, base, base+1)
	}
	for i := 0; i <= zDivisions; i++ {
		z := -halfZ + float32(i)*cellSize
		base := uint32(len(m.Positions))
		m.Positions = append(m.Positions, math.NewVec3(-halfX, 0, z), math.NewVec3(halfX, 0, z))
		m.Indices = append(m.Indices, base, base+1)
	}
	m.Colours = fill(colour, len(m.Positions))
	return m
}

/**
 * @brief Generates a flat arrow pointing along +Y in the XY plane: a shaft
 * and a triangular head, one unit tall.
 */
func GenerateArrow(name string, colour Colour) *Mesh {
	verts := []math.Vec3{
		// shaft
		{X: -0.1, Y: 0, Z: 0}, {X: 0.1, Y: 0, Z: 0}, {X: 0.1, Y: 0.6, Z: 0}, {X: -0.1, Y: 0.6, Z: 0},
		// head
		{X: -0.25, Y: 0.6, Z: 0}, {X: 0.25, Y: 0.6, Z: 0}, {X: 0, Y: 1, Z: 0},
	}
	return &Mesh{
		Name:      name,
		Mode:      ModeTriangles,
		Positions: verts,
		Indices:   []uint32{0, 1, 2, 0, 2, 3, 4, 5, 6},
		Colours:   fill(colour, len(verts)),
	}
}
