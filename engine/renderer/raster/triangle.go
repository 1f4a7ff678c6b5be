package raster

import (
	"github.com/chewxy/math32"
	"github.com/spaghettifunk/anima-gallery/engine/geometry"
	"github.com/spaghettifunk/anima-gallery/engine/math"
)

// screenVertex is a vertex after projection: pixel x, y and ndc depth.
type screenVertex struct {
	X, Y, Z float32
}

// LightConfig holds the fixed directional light used for flat shading.
type LightConfig struct {
	Dir     math.Vec3
	Ambient float32
	Direct  float32
}

func DefaultLightConfig() LightConfig {
	return LightConfig{
		Dir:     math.NewVec3(-1, 0.8, -0.2).Normalized(),
		Ambient: 0.55,
		Direct:  0.45,
	}
}

// ComputeShade returns the lighting scalar for a face normal. Faces are
// double sided.
func (lc LightConfig) ComputeShade(normal math.Vec3) float32 {
	return lc.Ambient + math32.Abs(normal.Dot(lc.Dir))*lc.Direct
}

// RasterizeTriangle fills one triangle with a flat colour, interpolating
// depth barycentrically.
func RasterizeTriangle(fb *FrameBuffer, v [3]screenVertex, c geometry.Colour, depthAlways bool) {
	x0, y0, z0 := v[0].X, v[0].Y, v[0].Z
	x1, y1, z1 := v[1].X, v[1].Y, v[1].Z
	x2, y2, z2 := v[2].X, v[2].Y, v[2].Z

	minX := int(math32.Floor(math32.Min(math32.Min(x0, x1), x2)))
	maxX := int(math32.Ceil(math32.Max(math32.Max(x0, x1), x2)))
	minY := int(math32.Floor(math32.Min(math32.Min(y0, y1), y2)))
	maxY := int(math32.Ceil(math32.Max(math32.Max(y0, y1), y2)))

	if minX < 0 {
		minX = 0
	}
	if maxX >= fb.Width {
		maxX = fb.Width - 1
	}
	if minY < 0 {
		minY = 0
	}
	if maxY >= fb.Height {
		maxY = fb.Height - 1
	}
	if minX > maxX || minY > maxY {
		return
	}

	det := (y1-y2)*(x0-x2) + (x2-x1)*(y0-y2)
	if det > -1e-8 && det < 1e-8 {
		return
	}
	invDet := 1.0 / det

	dy12 := y1 - y2
	dx21 := x2 - x1
	dy20 := y2 - y0
	dx02 := x0 - x2

	for sy := minY; sy <= maxY; sy++ {
		dsy := float32(sy) + 0.5 - y2
		for sx := minX; sx <= maxX; sx++ {
			dsx := float32(sx) + 0.5 - x2
			w0 := (dy12*dsx + dx21*dsy) * invDet
			w1 := (dy20*dsx + dx02*dsy) * invDet
			w2 := 1.0 - w0 - w1
			if w0 < 0 || w1 < 0 || w2 < 0 {
				continue
			}
			z := w0*z0 + w1*z1 + w2*z2
			if z < -1 || z > 1 {
				continue
			}
			if !fb.depthTest(sx, sy, z, depthAlways, true) {
				continue
			}
			fb.blend(sx, sy, c)
		}
	}
}
