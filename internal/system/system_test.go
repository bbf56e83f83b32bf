package system

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLayerPoolReturnsClearedLayer(t *testing.T) {
	p := NewLayerPool()
	rect := image.Rect(0, 0, 16, 8)

	img := p.Get(rect)
	assert.Equal(t, rect, img.Bounds())
	img.Set(3, 3, color.RGBA{255, 0, 0, 255})
	p.Put(img)

	again := p.Get(rect)
	assert.Equal(t, rect, again.Bounds())
	for i := range again.Pix {
		if again.Pix[i] != 0 {
			t.Fatalf("layer not cleared at byte %d", i)
		}
	}
}

func TestLayerPoolIgnoresUnknownSizes(t *testing.T) {
	p := NewLayerPool()
	p.Put(image.NewRGBA(image.Rect(0, 0, 4, 4)))
	p.Put(nil)

	img := p.Get(image.Rect(0, 0, 4, 4))
	assert.Equal(t, 4, img.Bounds().Dx())
}

func TestClampWorkers(t *testing.T) {
	tests := []struct {
		requested, jobs, want int
	}{
		{4, 5, 4},
		{8, 5, 5},
		{1, 0, 1},
		{3, 1, 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ClampWorkers(tt.requested, tt.jobs))
	}

	n := ClampWorkers(0, 100)
	assert.GreaterOrEqual(t, n, 1)
	assert.LessOrEqual(t, n, 100)
}

func TestDefaultWorkers(t *testing.T) {
	assert.GreaterOrEqual(t, DefaultWorkers(), 1)
}
