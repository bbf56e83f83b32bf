package overlay

import (
	"image"
	"image/color"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// shadowColor is black at ~70% opacity.
var shadowColor = color.NRGBA{A: 180}

// Ink is the resolved color triple of a text block.
type Ink struct {
	Fill    color.Color
	Outline color.Color
	Shadow  color.Color
}

// Stroke configures the outline and drop shadow in pixels.
type Stroke struct {
	Width        int
	ShadowOffset int
}

// DrawBlock renders every line of b onto dst.
func DrawBlock(dst *image.RGBA, face font.Face, b Block, ink Ink, s Stroke) {
	for _, l := range b.Lines {
		DrawLine(dst, face, l, ink, s)
	}
}

// DrawLine draws one line back to front: the shadow, the outline stamped at
// every offset within the stroke width, then the fill. The outline is a
// brute-force (2w+1)^2-1 redraw of the glyph run; widths are capped at 15.
func DrawLine(dst *image.RGBA, face font.Face, l Line, ink Ink, s Stroke) {
	d := &font.Drawer{Dst: dst, Face: face}
	pass := func(c color.Color, dx, dy int) {
		d.Src = image.NewUniform(c)
		d.Dot = l.Dot.Add(fixed.P(dx, dy))
		d.DrawString(l.Text)
	}

	pass(ink.Shadow, s.ShadowOffset, s.ShadowOffset)

	w := s.Width
	for dx := -w; dx <= w; dx++ {
		for dy := -w; dy <= w; dy++ {
			if dx != 0 || dy != 0 {
				pass(ink.Outline, dx, dy)
			}
		}
	}

	pass(ink.Fill, 0, 0)
}
