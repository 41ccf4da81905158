package buffer

import "sync"

// MaxPooledSamples bounds the backing array a pooled Block may keep.
// Larger blocks are left to the garbage collector on Put so a single
// long render does not pin its memory for the life of the pool.
const MaxPooledSamples = 1 << 22

// Pool recycles multichannel Blocks between calls that need scratch
// space of varying shape, such as per-call transfer blocks in a render
// loop. It is safe for concurrent use.
type Pool struct {
	pool sync.Pool
}

// NewPool returns an empty Pool.
func NewPool() *Pool {
	return &Pool{
		pool: sync.Pool{
			New: func() any {
				return &Block{}
			},
		},
	}
}

// Get returns a zeroed Block shaped channels × frames, reusing a pooled
// backing array when one is large enough. Return it with Put.
func (p *Pool) Get(channels, frames int) *Block {
	b := p.pool.Get().(*Block)
	b.Resize(channels, frames)
	b.Zero()
	return b
}

// Put hands b back for reuse. Channel views obtained from b must not be
// used afterwards. Nil and oversized blocks are dropped.
func (p *Pool) Put(b *Block) {
	if b == nil || cap(b.data) > MaxPooledSamples {
		return
	}
	p.pool.Put(b)
}
