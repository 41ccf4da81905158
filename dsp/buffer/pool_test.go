package buffer

import "testing"

func TestPoolGetShape(t *testing.T) {
	p := NewPool()

	tests := []struct{ channels, frames int }{{2, 8}, {1, 512}, {6, 3}}
	for _, tt := range tests {
		b := p.Get(tt.channels, tt.frames)
		if b.Len() != tt.channels || b.Frames() != tt.frames {
			t.Fatalf("Get(%d, %d) shape = %dx%d", tt.channels, tt.frames, b.Len(), b.Frames())
		}
		p.Put(b)
	}
}

func TestPoolReuseIsZeroed(t *testing.T) {
	p := NewPool()

	b := p.Get(2, 4)
	b.Channels()[0][0] = 42
	b.Channels()[1][3] = 43
	p.Put(b)

	// A reshaped block must not leak samples from an earlier shape.
	b2 := p.Get(4, 2)
	for ch, s := range b2.Channels() {
		for i, v := range s {
			if v != 0 {
				t.Fatalf("reused Channels()[%d][%d] = %v, want 0", ch, i, v)
			}
		}
	}
	p.Put(b2)
}

func TestPoolPutDropsNilAndOversized(_ *testing.T) {
	p := NewPool()
	p.Put(nil)
	p.Put(New(1, MaxPooledSamples+1))
}
