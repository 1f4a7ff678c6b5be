package raster

import (
	"github.com/chewxy/math32"
	"github.com/spaghettifunk/anima-gallery/engine/geometry"
)

// RasterizeLine draws a one pixel wide line with a DDA walk, interpolating
// depth between the endpoints.
func RasterizeLine(fb *FrameBuffer, a, b screenVertex, c geometry.Colour, depthAlways bool) {
	dx := b.X - a.X
	dy := b.Y - a.Y
	steps := int(math32.Ceil(math32.Max(math32.Abs(dx), math32.Abs(dy))))
	if steps == 0 {
		steps = 1
	}
	// keep pathological projections from stalling the frame
	if steps > 4*(fb.Width+fb.Height) {
		steps = 4 * (fb.Width + fb.Height)
	}
	inv := 1 / float32(steps)
	for i := 0; i <= steps; i++ {
		t := float32(i) * inv
		x := int(math32.Floor(a.X + dx*t))
		y := int(math32.Floor(a.Y + dy*t))
		if !fb.inside(x, y) {
			continue
		}
		z := a.Z + (b.Z-a.Z)*t
		if !depthAlways && (z < -1 || z > 1) {
			continue
		}
		if !fb.depthTest(x, y, z, depthAlways, !depthAlways) {
			continue
		}
		fb.blend(x, y, c)
	}
}
