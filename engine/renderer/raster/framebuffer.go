package raster

import (
	"image"
	"image/color"

	"github.com/chewxy/math32"
	"github.com/spaghettifunk/anima-gallery/engine/geometry"
)

// FrameBuffer holds the colour target and a depth value per pixel. Depth is
// normalized device z, smaller is closer.
type FrameBuffer struct {
	Width  int
	Height int
	Color  *image.RGBA
	ZBuf   []float32
}

// NewFrameBuffer allocates a transparent colour buffer and a cleared depth buffer.
func NewFrameBuffer(w, h int) *FrameBuffer {
	fb := &FrameBuffer{
		Width:  w,
		Height: h,
		Color:  image.NewRGBA(image.Rect(0, 0, w, h)),
		ZBuf:   make([]float32, w*h),
	}
	fb.ClearDepth()
	return fb
}

// Clear fills the colour buffer with c and resets depth.
func (fb *FrameBuffer) Clear(c geometry.Colour) {
	rgba := toRGBA(c)
	pix := fb.Color.Pix
	for i := 0; i < len(pix); i += 4 {
		pix[i] = rgba.R
		pix[i+1] = rgba.G
		pix[i+2] = rgba.B
		pix[i+3] = rgba.A
	}
	fb.ClearDepth()
}

// ClearDepth resets depth only.
func (fb *FrameBuffer) ClearDepth() {
	inf := math32.Inf(1)
	for i := range fb.ZBuf {
		fb.ZBuf[i] = inf
	}
}

// blend writes c over the pixel at (x, y) using source alpha.
func (fb *FrameBuffer) blend(x, y int, c geometry.Colour) {
	off := fb.Color.PixOffset(x, y)
	pix := fb.Color.Pix[off : off+4 : off+4]
	a := clamp01(c.A)
	inv := 1 - a
	pix[0] = clamp255(c.R*255*a + float32(pix[0])*inv)
	pix[1] = clamp255(c.G*255*a + float32(pix[1])*inv)
	pix[2] = clamp255(c.B*255*a + float32(pix[2])*inv)
	pix[3] = clamp255(a*255 + float32(pix[3])*inv)
}

// depthTest reports whether z passes at (x, y) and records it when write is set.
func (fb *FrameBuffer) depthTest(x, y int, z float32, always, write bool) bool {
	idx := y*fb.Width + x
	if !always && z > fb.ZBuf[idx] {
		return false
	}
	if write && z < fb.ZBuf[idx] {
		fb.ZBuf[idx] = z
	}
	return true
}

func (fb *FrameBuffer) inside(x, y int) bool {
	return x >= 0 && y >= 0 && x < fb.Width && y < fb.Height
}

func toRGBA(c geometry.Colour) color.RGBA {
	return color.RGBA{
		R: clamp255(c.R * 255),
		G: clamp255(c.G * 255),
		B: clamp255(c.B * 255),
		A: clamp255(c.A * 255),
	}
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func clamp255(v float32) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}
