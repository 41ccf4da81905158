package stretch

import (
	"fmt"
	"log/slog"
	"math"
)

const (
	liveBlockSize = 512
	// livePadMargin is the input slack beyond one frame that keeps every
	// Shift call supplied with a full output block.
	livePadMargin = 64
	// underrunDecay is the per-sample gain applied to the last output
	// value when output runs short.
	underrunDecay = 0.99
)

// LiveShifter shifts pitch with low latency over fixed-size blocks.
// Every Shift call consumes and produces exactly BlockSize frames.
type LiveShifter struct {
	log        *slog.Logger
	sampleRate int
	channels   int
	opts       LiveOptions
	pitch      float64
	geo        geometry
	eng        *engine
	last       []float32
	disposed   bool
	fault      error
	stats      counters
}

// NewLiveShifter builds a shifter at pitch 1.
func NewLiveShifter(sampleRate, channels int, opts LiveOptions, options ...Option) (*LiveShifter, error) {
	cfg := applyOptions(options)
	if err := validateFormat(sampleRate, channels); err != nil {
		return nil, fmt.Errorf("live shifter: %w", err)
	}
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("live shifter: %w", err)
	}
	l := &LiveShifter{
		log:        cfg.logger.With("component", "live shifter"),
		sampleRate: sampleRate,
		channels:   channels,
		opts:       opts,
		pitch:      1,
		geo:        liveGeometry(sampleRate, opts.Window),
		last:       make([]float32, channels),
	}
	eng, err := newEngine(engineParams{
		sampleRate: sampleRate,
		channels:   channels,
		geo:        l.geo,
		midSide:    opts.Channels == ChannelsTogether,
		pad:        l.geo.frameSize + livePadMargin,
		k: kernel{
			transients: TransientsMixed,
			formant:    opts.Formant,
			pitch:      PitchHighQuality,
		},
		ratio: 1,
		pitch: 1,
		log:   l.log,
	})
	if err != nil {
		return nil, fmt.Errorf("live shifter: %w: %w", ErrConstructionFailure, err)
	}
	l.eng = eng
	l.eng.grow(2*liveBlockSize, 4*liveBlockSize)
	l.stats.startDelay.Store(int64(l.StartDelay()))
	l.stats.state.Store(int32(StateProcessing))
	l.log.Debug("created",
		"sample_rate", sampleRate,
		"channels", channels,
		"frame_size", l.geo.frameSize,
		"window", opts.Window,
		"formant", opts.Formant)
	return l, nil
}

func (l *LiveShifter) check() error {
	if l.disposed {
		return fmt.Errorf("live shifter: %w", ErrUseAfterDispose)
	}
	if l.fault != nil {
		return fmt.Errorf("live shifter: %w: %w", ErrFaulted, l.fault)
	}
	return nil
}

// fail marks the instance faulted until Reset or Close.
func (l *LiveShifter) fail(err error) error {
	l.fault = err
	l.stats.faulted.Store(true)
	l.log.Error("faulted", "err", err)
	return fmt.Errorf("live shifter: %w", err)
}

// ChannelCount returns the number of channels per block.
func (l *LiveShifter) ChannelCount() int { return l.channels }

// PitchScale returns the current frequency multiplier.
func (l *LiveShifter) PitchScale() float64 { return l.pitch }

// BlockSize returns the frame count every Shift block must have.
func (l *LiveShifter) BlockSize() int { return liveBlockSize }

// Stats returns a snapshot of the counters. It is safe to call from any
// goroutine.
func (l *LiveShifter) Stats() Stats { return l.stats.snapshot() }

// StartDelay is the number of leading output frames that precede the
// first input frame.
func (l *LiveShifter) StartDelay() int {
	n := float64(l.geo.frameSize)
	return int(math.Round(n/2 + livePadMargin + n/(2*l.pitch)))
}

// SetPitchScale changes the frequency multiplier, in [1/8, 8].
func (l *LiveShifter) SetPitchScale(p float64) error {
	if err := l.check(); err != nil {
		return err
	}
	if !validPitch(p) {
		return fmt.Errorf("live shifter: %w: pitch scale %v outside [%v, %v]",
			ErrInvalidParameter, p, minPitchScale, maxPitchScale)
	}
	l.pitch = p
	l.eng.pitch = p
	l.stats.startDelay.Store(int64(l.StartDelay()))
	return nil
}

// SetFormantOption selects whether the spectral envelope follows the
// pitch shift. It applies from the next Shift.
func (l *LiveShifter) SetFormantOption(f Formant) error {
	if err := l.check(); err != nil {
		return err
	}
	if f != FormantShifted && f != FormantPreserved {
		return fmt.Errorf("live shifter: %w: formant option out of range: %d", ErrInvalidParameter, f)
	}
	l.opts.Formant = f
	l.eng.k.formant = f
	return nil
}

// SetFormantScale sets the envelope scale used with FormantPreserved.
// Zero selects 1/pitch.
func (l *LiveShifter) SetFormantScale(f float64) error {
	if err := l.check(); err != nil {
		return err
	}
	if f < 0 || math.IsInf(f, 0) || math.IsNaN(f) {
		return fmt.Errorf("live shifter: %w: formant scale %v", ErrInvalidParameter, f)
	}
	l.eng.k.formantScale = f
	return nil
}

// FormantScale returns the envelope scale; 0 means 1/pitch.
func (l *LiveShifter) FormantScale() float64 {
	if l.eng == nil {
		return 0
	}
	return l.eng.k.formantScale
}

// Shift consumes one block of input and fills out with one block of
// output.
func (l *LiveShifter) Shift(in, out [][]float32) error {
	if err := l.check(); err != nil {
		return err
	}
	if err := l.checkBlock(in, "input"); err != nil {
		return err
	}
	if err := l.checkBlock(out, "output"); err != nil {
		return err
	}

	l.eng.write(in, 0, liveBlockSize)
	if err := l.eng.advance(); err != nil {
		return l.fail(err)
	}
	n := l.eng.read(out)
	if n < liveBlockSize {
		l.log.Warn("output underrun", "missing", liveBlockSize-n)
		for ch := range out {
			v := l.last[ch]
			if n > 0 {
				v = out[ch][n-1]
			}
			for i := n; i < liveBlockSize; i++ {
				v *= underrunDecay
				out[ch][i] = v
			}
		}
	}
	for ch := range out {
		l.last[ch] = out[ch][liveBlockSize-1]
	}
	l.stats.observe(l.eng)
	l.stats.retrieved.Add(liveBlockSize)
	return nil
}

func (l *LiveShifter) checkBlock(block [][]float32, what string) error {
	if len(block) != l.channels {
		return fmt.Errorf("live shifter: %s: %w: got %d channels, want %d",
			what, ErrChannelCountMismatch, len(block), l.channels)
	}
	for ch, s := range block {
		if len(s) != liveBlockSize {
			return fmt.Errorf("live shifter: %s: %w: channel %d has %d frames, want %d",
				what, ErrBlockSizeMismatch, ch, len(s), liveBlockSize)
		}
	}
	return nil
}

// Reset discards all buffered audio and lifts a fault. The pitch scale
// is kept.
func (l *LiveShifter) Reset() error {
	if l.disposed {
		return fmt.Errorf("live shifter: %w", ErrUseAfterDispose)
	}
	l.eng.reset(1)
	clear(l.last)
	l.fault = nil
	l.stats.reset()
	return nil
}

// Close releases the instance.
func (l *LiveShifter) Close() error {
	if l.disposed {
		return fmt.Errorf("live shifter: %w", ErrUseAfterDispose)
	}
	l.disposed = true
	l.eng = nil
	l.stats.state.Store(int32(StateDisposed))
	l.log.Debug("closed")
	return nil
}
