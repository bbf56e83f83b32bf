package genimage

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"

	"golang.org/x/image/draw"
)

var (
	placeholderBackground = color.RGBA{0xf0, 0xf7, 0xf9, 0xff}
	placeholderBand       = color.RGBA{0x4a, 0x90, 0xa4, 0xff}
	placeholderDisc       = color.NRGBA{0x7c, 0xb8, 0xa8, 0x4d}
)

// Placeholder draws a plain branded background. It never fails and ignores
// the prompt, so the same size always yields the same bytes.
type Placeholder struct{}

func (Placeholder) Generate(ctx context.Context, _ string, size Size) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	w, h := max(size.Width, 1), max(size.Height, 1)
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(placeholderBackground), image.Point{}, draw.Src)

	band := image.Rect(w/10, h/10, w*9/10, h/4)
	draw.Draw(img, band, image.NewUniform(placeholderBand), image.Point{}, draw.Src)

	r := w * 15 / 100
	cx, cy := w/2, h/2
	disc := &circle{center: image.Pt(cx, cy), r: r}
	draw.DrawMask(img, disc.Bounds(), image.NewUniform(placeholderDisc), image.Point{}, disc, disc.Bounds().Min, draw.Over)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// circle is an alpha mask of a filled disc.
type circle struct {
	center image.Point
	r      int
}

func (c *circle) ColorModel() color.Model { return color.AlphaModel }

func (c *circle) Bounds() image.Rectangle {
	return image.Rect(c.center.X-c.r, c.center.Y-c.r, c.center.X+c.r, c.center.Y+c.r)
}

func (c *circle) At(x, y int) color.Color {
	dx, dy := x-c.center.X, y-c.center.Y
	if dx*dx+dy*dy <= c.r*c.r {
		return color.Alpha{A: 255}
	}
	return color.Alpha{}
}
