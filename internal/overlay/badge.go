package overlay

import (
	"fmt"
	"image"

	qrcode "github.com/skip2/go-qrcode"
	"golang.org/x/image/draw"
)

// StampQR draws a QR code for url in the bottom-right corner of dst. The
// code is a sixth of the canvas width with a margin of 1/27 of it.
func StampQR(dst *image.RGBA, url string) error {
	q, err := qrcode.New(url, qrcode.Medium)
	if err != nil {
		return fmt.Errorf("qr code for %q: %w", url, err)
	}

	b := dst.Bounds()
	size := b.Dx() / 6
	margin := b.Dx() / 27
	if size <= 0 {
		return nil
	}

	code := q.Image(size)
	cb := code.Bounds()
	at := image.Rect(b.Max.X-margin-cb.Dx(), b.Max.Y-margin-cb.Dy(), b.Max.X-margin, b.Max.Y-margin)
	draw.Draw(dst, at, code, cb.Min, draw.Src)
	return nil
}
