package vocoder

import (
	"github.com/cwbudde/algo-stretch/dsp/interp"
)

// historyTaps is the largest number of taps any kernel reads before its
// base sample.
const historyTaps = 2

// resampler reads a stretched stream at a fractional rate. Reading at
// rate r shortens the stream by r and scales every frequency by r.
type resampler struct {
	pos  float64
	taps []float64
}

func newResampler() *resampler {
	return &resampler{taps: make([]float64, interp.Lagrange6.Taps())}
}

// prime seeds src with silent history so the first output sample is
// centred on the first real stretched sample.
func (r *resampler) prime(src *Queue[float64]) {
	src.PushZeros(historyTaps)
	r.pos = historyTaps
}

// render appends at most limit samples to dst. Without final it stops
// when the kernel would read past the end of src; with final, missing
// lookahead reads as silence and rendering stops at the end of src.
func (r *resampler) render(src *Queue[float64], dst *Queue[float32], rate float64, kind interp.Kind, limit int, final bool) int {
	before := kind.Before()
	after := kind.Taps() - before - 1
	taps := r.taps[:kind.Taps()]

	n := 0
	for n < limit {
		i := int(r.pos)
		if final {
			if i >= src.Len() {
				break
			}
		} else if i+after >= src.Len() {
			break
		}

		for k := range taps {
			idx := i - before + k
			if idx < src.Len() {
				taps[k] = src.At(idx)
			} else {
				taps[k] = 0
			}
		}
		dst.Push(float32(interp.Interpolate(kind, r.pos-float64(i), taps)))
		r.pos += rate
		n++
	}

	if drop := int(r.pos) - historyTaps; drop > 0 {
		drop = min(drop, src.Len())
		src.Discard(drop)
		r.pos -= float64(drop)
	}
	return n
}
