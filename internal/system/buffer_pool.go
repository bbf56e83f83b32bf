package system

import (
	"image"
	"image/draw"
	"sync"
)

// LayerPool recycles canvas-sized *image.RGBA text layers between compose
// calls. Layers are keyed by their bounds, so one pool serves several canvas
// presets.
type LayerPool struct {
	pools map[image.Rectangle]*sync.Pool
	mu    sync.RWMutex
}

var globalPool = NewLayerPool()

func NewLayerPool() *LayerPool {
	return &LayerPool{pools: make(map[image.Rectangle]*sync.Pool)}
}

// GetLayer returns a fully transparent layer with the given bounds.
func GetLayer(rect image.Rectangle) *image.RGBA {
	return globalPool.Get(rect)
}

// PutLayer hands a layer back for reuse. The caller must not touch it afterwards.
func PutLayer(img *image.RGBA) {
	globalPool.Put(img)
}

func (p *LayerPool) Get(rect image.Rectangle) *image.RGBA {
	p.mu.RLock()
	pool, exists := p.pools[rect]
	p.mu.RUnlock()

	if !exists {
		p.mu.Lock()
		pool, exists = p.pools[rect]
		if !exists {
			pool = &sync.Pool{
				New: func() any {
					return image.NewRGBA(rect)
				},
			}
			p.pools[rect] = pool
		}
		p.mu.Unlock()
	}

	img := pool.Get().(*image.RGBA)
	draw.Draw(img, img.Rect, image.Transparent, image.Point{}, draw.Src)
	return img
}

func (p *LayerPool) Put(img *image.RGBA) {
	if img == nil {
		return
	}
	p.mu.RLock()
	pool, exists := p.pools[img.Rect]
	p.mu.RUnlock()

	if exists {
		pool.Put(img)
	}
}
