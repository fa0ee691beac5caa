package system

import (
	"image"
	"sync"
)

// SurfacePool recycles *image.RGBA render targets, one sync.Pool per size.
type SurfacePool struct {
	pools map[image.Rectangle]*sync.Pool
	mu    sync.RWMutex
}

func NewSurfacePool() *SurfacePool {
	return &SurfacePool{pools: make(map[image.Rectangle]*sync.Pool)}
}

var globalPool = NewSurfacePool()

// GetSurface returns a cleared surface covering rect from the shared pool.
func GetSurface(rect image.Rectangle) *image.RGBA {
	return globalPool.Get(rect)
}

func PutSurface(img *image.RGBA) {
	globalPool.Put(img)
}

func (p *SurfacePool) Get(rect image.Rectangle) *image.RGBA {
	p.mu.RLock()
	pool, exists := p.pools[rect]
	p.mu.RUnlock()

	if !exists {
		p.mu.Lock()
		pool, exists = p.pools[rect]
		if !exists {
			pool = &sync.Pool{
				New: func() interface{} {
					return image.NewRGBA(rect)
				},
			}
			p.pools[rect] = pool
		}
		p.mu.Unlock()
	}

	img := pool.Get().(*image.RGBA)
	clear(img.Pix)
	return img
}

// Put ignores surfaces whose size was never handed out by Get.
func (p *SurfacePool) Put(img *image.RGBA) {
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
