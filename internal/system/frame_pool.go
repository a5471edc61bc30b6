package system

import (
	"image"
	"sync"
)

// FramePool recycles *image.RGBA frames per size so the export loop does
// not allocate a fresh canvas for every frame.
type FramePool struct {
	mu    sync.RWMutex
	pools map[image.Point]*sync.Pool
}

// NewFramePool creates an empty pool.
func NewFramePool() *FramePool {
	return &FramePool{pools: make(map[image.Point]*sync.Pool)}
}

// Get returns a w×h frame. Its content is undefined.
func (p *FramePool) Get(w, h int) *image.RGBA {
	key := image.Point{X: w, Y: h}

	p.mu.RLock()
	pool, ok := p.pools[key]
	p.mu.RUnlock()

	if !ok {
		p.mu.Lock()
		pool, ok = p.pools[key]
		if !ok {
			pool = &sync.Pool{
				New: func() any {
					return image.NewRGBA(image.Rect(0, 0, w, h))
				},
			}
			p.pools[key] = pool
		}
		p.mu.Unlock()
	}
	return pool.Get().(*image.RGBA)
}

// Put hands a frame back. Frames of sizes never requested are dropped.
func (p *FramePool) Put(img *image.RGBA) {
	if img == nil {
		return
	}
	key := img.Rect.Size()

	p.mu.RLock()
	pool, ok := p.pools[key]
	p.mu.RUnlock()

	if ok {
		pool.Put(img)
	}
}
