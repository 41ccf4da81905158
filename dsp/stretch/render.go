package stretch

import (
	"context"
	"errors"
	"math"

	"github.com/cwbudde/algo-stretch/dsp/buffer"
)

// renderBlockSize is the chunk size used by the buffer helpers.
const renderBlockSize = 8192

// scratch holds the transfer blocks of the buffer helpers.
var scratch = buffer.NewPool()

// WithStretcher builds a Stretcher, passes it to fn and closes it on
// every exit path.
func WithStretcher(sampleRate, channels int, opts Options, timeRatio, pitchScale float64,
	fn func(*Stretcher) error, options ...Option,
) (err error) {
	s, err := New(sampleRate, channels, opts, timeRatio, pitchScale, options...)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, s.Close())
	}()
	return fn(s)
}

// WithLiveShifter builds a LiveShifter, passes it to fn and closes it on
// every exit path.
func WithLiveShifter(sampleRate, channels int, opts LiveOptions,
	fn func(*LiveShifter) error, options ...Option,
) (err error) {
	l, err := NewLiveShifter(sampleRate, channels, opts, options...)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, l.Close())
	}()
	return fn(l)
}

// StretchBuffer stretches a whole buffer offline with a study pass and
// returns exactly round(len × timeRatio) frames per channel.
func StretchBuffer(ctx context.Context, in [][]float32, sampleRate int, timeRatio, pitchScale float64,
	opts Options, options ...Option,
) ([][]float32, error) {
	if len(in) == 0 {
		return nil, ErrChannelCountMismatch
	}
	opts.Process = ProcessOffline
	frames := len(in[0])
	var out [][]float32
	err := WithStretcher(sampleRate, len(in), opts, timeRatio, pitchScale, func(s *Stretcher) error {
		if err := s.SetMaxProcessSize(renderBlockSize); err != nil {
			return err
		}
		if err := s.SetExpectedInputDuration(int64(frames)); err != nil {
			return err
		}
		if err := feed(ctx, in, s.Study); err != nil {
			return err
		}

		out = make([][]float32, len(in))
		for ch := range out {
			out[ch] = make([]float32, 0, int(math.Round(float64(frames)*timeRatio)))
		}
		tmp := scratch.Get(len(in), renderBlockSize)
		defer scratch.Put(tmp)
		blk := tmp.Channels()
		drain := func() error {
			for {
				n, err := s.Available()
				if err != nil {
					return err
				}
				if n <= 0 {
					return nil
				}
				got, err := s.Retrieve(blk)
				if err != nil {
					return err
				}
				for ch := range out {
					out[ch] = append(out[ch], blk[ch][:got]...)
				}
			}
		}
		return feed(ctx, in, func(block [][]float32, final bool) error {
			if err := s.Process(block, final); err != nil {
				return err
			}
			return drain()
		})
	}, options...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// feed passes in to fn in render-sized blocks, the last one marked
// final. An empty buffer is passed as one final empty block.
func feed(ctx context.Context, in [][]float32, fn func([][]float32, bool) error) error {
	frames := len(in[0])
	for off := 0; ; off += renderBlockSize {
		if err := ctx.Err(); err != nil {
			return err
		}
		n := min(renderBlockSize, frames-off)
		block, err := View(in, off, n)
		if err != nil {
			return err
		}
		final := off+n >= frames
		if err := fn(block, final); err != nil {
			return err
		}
		if final {
			return nil
		}
	}
}

// StretchInterleaved is StretchBuffer over interleaved samples.
func StretchInterleaved(ctx context.Context, in []float32, channels, sampleRate int, timeRatio, pitchScale float64,
	opts Options, options ...Option,
) ([]float32, error) {
	block, err := Deinterleave(in, channels)
	if err != nil {
		return nil, err
	}
	out, err := StretchBuffer(ctx, block, sampleRate, timeRatio, pitchScale, opts, options...)
	if err != nil {
		return nil, err
	}
	return Interleave(out), nil
}

// ShiftBuffer runs a LiveShifter over a whole buffer and returns output
// of the same length, aligned with the input.
func ShiftBuffer(ctx context.Context, in [][]float32, sampleRate int, pitchScale float64,
	opts LiveOptions, options ...Option,
) ([][]float32, error) {
	if len(in) == 0 {
		return nil, ErrChannelCountMismatch
	}
	channels, frames := len(in), len(in[0])
	out := NewBlock(channels, frames)
	err := WithLiveShifter(sampleRate, channels, opts, func(l *LiveShifter) error {
		if err := l.SetPitchScale(pitchScale); err != nil {
			return err
		}
		bs := l.BlockSize()
		delay := l.StartDelay()
		srcBlk, dstBlk := scratch.Get(channels, bs), scratch.Get(channels, bs)
		defer scratch.Put(srcBlk)
		defer scratch.Put(dstBlk)
		src, dst := srcBlk.Channels(), dstBlk.Channels()
		// pos indexes the first frame of the current block, in and out alike.
		for pos := 0; pos < frames+delay; pos += bs {
			if err := ctx.Err(); err != nil {
				return err
			}
			for ch := range src {
				clear(src[ch])
				if pos < frames {
					copy(src[ch], in[ch][pos:])
				}
			}
			if err := l.Shift(src, dst); err != nil {
				return err
			}
			for i := range bs {
				j := pos + i - delay
				if j < 0 || j >= frames {
					continue
				}
				for ch := range out {
					out[ch][j] = dst[ch][i]
				}
			}
		}
		return nil
	}, options...)
	if err != nil {
		return nil, err
	}
	return out, nil
}
