package sim

import (
	"sync"

	"github.com/san-kum/verlet/internal/geom"
)

// FramePool recycles position buffers for callers that snapshot a world
// every tick and drop the copy right after use.
type FramePool struct {
	pool sync.Pool
}

func NewFramePool() *FramePool {
	return &FramePool{
		pool: sync.Pool{
			New: func() interface{} {
				s := make([]geom.Vec2, 0, 256)
				return &s
			},
		},
	}
}

// Get returns a zero-length buffer with room for at least n positions.
func (p *FramePool) Get(n int) *[]geom.Vec2 {
	buf := p.pool.Get().(*[]geom.Vec2)
	if cap(*buf) < n {
		s := make([]geom.Vec2, 0, n)
		buf = &s
	}
	*buf = (*buf)[:0]
	return buf
}

func (p *FramePool) Put(buf *[]geom.Vec2) {
	if buf == nil {
		return
	}
	p.pool.Put(buf)
}
