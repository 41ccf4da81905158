package buffer

// Block holds channels of equal length in one backing array.
// Use Channels() to bridge to [][]float32 APIs.
type Block struct {
	data  []float32
	chans [][]float32
}

// New returns a zero-filled Block of channels × frames.
func New(channels, frames int) *Block {
	b := &Block{}
	b.Resize(channels, frames)
	return b
}

// Channels returns per-channel views into the backing array. Each view
// has its capacity clipped so appending to one never touches the next.
func (b *Block) Channels() [][]float32 {
	return b.chans
}

// Len returns the number of channels.
func (b *Block) Len() int {
	return len(b.chans)
}

// Frames returns the per-channel length.
func (b *Block) Frames() int {
	if len(b.chans) == 0 {
		return 0
	}
	return len(b.chans[0])
}

// Resize sets the shape, reusing the backing array when it is large
// enough. Newly exposed samples are zeroed; existing samples are not
// preserved across a change of frame count.
func (b *Block) Resize(channels, frames int) {
	channels = max(channels, 0)
	frames = max(frames, 0)
	n := channels * frames
	if n <= cap(b.data) {
		old := len(b.data)
		b.data = b.data[:n]
		if n > old {
			clear(b.data[old:])
		}
	} else {
		grown := make([]float32, n)
		copy(grown, b.data)
		b.data = grown
	}
	if cap(b.chans) >= channels {
		b.chans = b.chans[:channels]
	} else {
		b.chans = make([][]float32, channels)
	}
	for ch := range b.chans {
		b.chans[ch] = b.data[ch*frames : (ch+1)*frames : (ch+1)*frames]
	}
}

// Zero sets all samples to 0.
func (b *Block) Zero() {
	clear(b.data)
}

// Copy returns a deep copy of the block.
func (b *Block) Copy() *Block {
	c := New(b.Len(), b.Frames())
	copy(c.data, b.data)
	return c
}
