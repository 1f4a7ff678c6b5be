package raster

import (
	"image"
	"image/color"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// DrawLabel draws text with its top left corner at (x, y) using the
// built-in 7x13 bitmap face.
func DrawLabel(fb *FrameBuffer, text string, x, y int, c color.Color) {
	face := basicfont.Face7x13
	d := &font.Drawer{
		Dst:  fb.Color,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.P(x, y+face.Ascent),
	}
	d.DrawString(text)
}

// LabelWidth returns the pixel width of text in the label face.
func LabelWidth(text string) int {
	return font.MeasureString(basicfont.Face7x13, text).Ceil()
}
