package stretch

import (
	"fmt"

	"github.com/tphakala/simd/f32"

	"github.com/cwbudde/algo-stretch/dsp/buffer"
)

// View returns the frames [offset, offset+n) of every channel in buf
// without copying.
func View(buf [][]float32, offset, n int) ([][]float32, error) {
	if offset < 0 || n < 0 {
		return nil, fmt.Errorf("%w: negative view [%d, +%d)", ErrInvalidParameter, offset, n)
	}
	out := make([][]float32, len(buf))
	for ch, s := range buf {
		if offset+n > len(s) {
			return nil, fmt.Errorf("%w: view [%d, %d) exceeds channel %d of %d frames",
				ErrInvalidParameter, offset, offset+n, ch, len(s))
		}
		out[ch] = s[offset : offset+n : offset+n]
	}
	return out, nil
}

// blockFrames validates the shape of block and returns its frame count.
func blockFrames(block [][]float32, channels int) (int, error) {
	if len(block) != channels {
		return 0, fmt.Errorf("%w: got %d channels, want %d", ErrChannelCountMismatch, len(block), channels)
	}
	n := len(block[0])
	for ch, s := range block[1:] {
		if len(s) != n {
			return 0, fmt.Errorf("%w: channel %d has %d frames, channel 0 has %d",
				ErrChannelCountMismatch, ch+1, len(s), n)
		}
	}
	return n, nil
}

// NewBlock allocates a zeroed block of channels × frames.
func NewBlock(channels, frames int) [][]float32 {
	return buffer.New(channels, frames).Channels()
}

// Deinterleave splits interleaved samples into channels.
func Deinterleave(in []float32, channels int) ([][]float32, error) {
	if channels < 1 || len(in)%channels != 0 {
		return nil, fmt.Errorf("%w: %d samples do not divide into %d channels",
			ErrChannelCountMismatch, len(in), channels)
	}
	frames := len(in) / channels
	out := NewBlock(channels, frames)
	for i := range frames {
		for ch := range channels {
			out[ch][i] = in[i*channels+ch]
		}
	}
	return out, nil
}

// Interleave joins equally long channels into one interleaved slice.
func Interleave(block [][]float32) []float32 {
	if len(block) == 0 {
		return nil
	}
	channels, frames := len(block), len(block[0])
	out := make([]float32, channels*frames)
	if channels == 2 {
		f32.Interleave2(out, block[0], block[1])
		return out
	}
	for ch, s := range block {
		for i, v := range s[:frames] {
			out[i*channels+ch] = v
		}
	}
	return out
}
