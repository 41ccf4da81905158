package vocoder

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-stretch/dsp/interp"
)

const normFloor = 1e-12

// Channel is the streaming phase vocoder for one audio channel.
//
// Input is addressed by absolute sample index. Analysis frames may start
// anywhere inside the retained input; synthesis frames are laid out every
// Hop samples in the stretched domain, normalised by the accumulated
// squared window, and read back through the output resampler.
type Channel struct {
	cfg  Config
	spec *spectrum
	env  *envelope

	in     Queue[float64]
	inBase int64

	omega     []float64
	prevPhase []float64
	synPhase  []float64
	hist1     []float64
	hist2     []float64
	peaks     []int
	bandLo    int
	bandHi    int
	started   bool
	synth     []float64
	synthBins []complex128

	accum []float64
	norm  []float64

	skip      int
	stretched Queue[float64]
	rs        *resampler
	out       Queue[float32]
}

// NewChannel allocates the FFT plan, window and buffers for cfg.
func NewChannel(cfg Config) (*Channel, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	spec, err := newSpectrum(cfg)
	if err != nil {
		return nil, err
	}
	n := cfg.FrameSize
	bins := n/2 + 1
	c := &Channel{
		cfg:       cfg,
		spec:      spec,
		env:       newEnvelope(bins),
		omega:     make([]float64, bins),
		prevPhase: make([]float64, bins),
		synPhase:  make([]float64, bins),
		hist1:     make([]float64, bins),
		hist2:     make([]float64, bins),
		peaks:     make([]int, 0, bins/2),
		synth:     make([]float64, n),
		synthBins: make([]complex128, bins),
		accum:     make([]float64, n),
		norm:      make([]float64, n),
		rs:        newResampler(),
	}
	binHz := float64(cfg.SampleRate) / float64(n)
	c.bandLo = int(bandLowHz / binHz)
	c.bandHi = min(bins-1, int(math.Ceil(bandHighHz/binHz)))
	for k := range c.omega {
		c.omega[k] = 2 * math.Pi * float64(k) / float64(n)
	}
	c.in.Grow(2 * n)
	c.rs.prime(&c.stretched)
	return c, nil
}

// Config returns the geometry the channel was built with.
func (c *Channel) Config() Config { return c.cfg }

// Write appends input samples.
func (c *Channel) Write(src []float32) {
	c.in.Grow(len(src))
	for _, v := range src {
		c.in.Push(float64(v))
	}
}

// WriteFloat64 appends input samples without conversion.
func (c *Channel) WriteFloat64(src []float64) { c.in.Append(src) }

// WriteZeros appends n silent input samples.
func (c *Channel) WriteZeros(n int) { c.in.PushZeros(n) }

// Written returns the absolute index one past the last input sample.
func (c *Channel) Written() int64 { return c.inBase + int64(c.in.Len()) }

// Release drops input before absolute index upTo.
func (c *Channel) Release(upTo int64) {
	if n := upTo - c.inBase; n > 0 {
		n = min(n, int64(c.in.Len()))
		c.in.Discard(int(n))
		c.inBase += n
	}
}

// GrowInput reserves room for n more input samples.
func (c *Channel) GrowInput(n int) { c.in.Grow(n) }

// GrowOutput reserves room for n more output samples.
func (c *Channel) GrowOutput(n int) { c.out.Grow(n) }

// SetSkip drops the next n stretched samples before resampling.
func (c *Channel) SetSkip(n int) { c.skip = n }

// Analyse reads the frame starting at absolute index start and returns
// its onset values. The frame must be fully written and not released.
func (c *Channel) Analyse(start int64) (Onset, error) {
	off := start - c.inBase
	end := off + int64(c.cfg.FrameSize)
	if off < 0 || end > int64(c.in.Len()) {
		return Onset{}, fmt.Errorf("vocoder: frame [%d,%d) outside retained input [%d,%d)",
			start, start+int64(c.cfg.FrameSize), c.inBase, c.Written())
	}
	return c.spec.analyse(c.in.Slice(int(off), int(end)))
}

// Synthesise builds the synthesis frame for the most recent analysis and
// overlap-adds it at the next synthesis position.
func (c *Channel) Synthesise(p FrameParams) error {
	mag := c.spec.mag
	phase := c.spec.phase

	if p.Smoothing {
		for k := range mag {
			m := mag[k]
			mag[k] = (m + c.hist1[k] + c.hist2[k]) / 3
			c.hist2[k] = c.hist1[k]
			c.hist1[k] = m
		}
	}
	if p.FormantWarp > 0 && p.FormantWarp != 1 {
		c.env.warp(mag, p.FormantWarp)
	}

	reset := p.Reset
	if !c.started {
		reset = ResetAll
		c.started = true
	}
	c.advancePhases(p, reset)
	copy(c.prevPhase, phase)

	for k, m := range mag {
		s, co := math.Sincos(c.synPhase[k])
		c.synthBins[k] = complex(m*co, m*s)
	}
	if err := c.spec.fft.Inverse(c.synth, c.synthBins); err != nil {
		return err
	}

	w := c.spec.window
	for i, v := range c.synth {
		c.accum[i] += v * w[i]
		c.norm[i] += w[i] * w[i]
	}
	c.emit(c.cfg.Hop)
	return nil
}

func (c *Channel) advancePhases(p FrameParams, reset Reset) {
	phase := c.spec.phase
	mag := c.spec.mag
	half := len(phase) - 1
	hopOut := float64(c.cfg.Hop)
	hopIn := float64(p.InputHop)

	instFreq := func(k int) float64 {
		if p.InputHop <= 0 {
			return c.omega[k]
		}
		delta := wrapPhase(phase[k] - c.prevPhase[k] - c.omega[k]*hopIn)
		return c.omega[k] + delta/hopIn
	}

	if !p.PhaseLock {
		for k := range phase {
			c.synPhase[k] = wrapPhase(c.synPhase[k] + instFreq(k)*hopOut)
		}
	} else {
		c.peaks = c.peaks[:0]
		for k := 1; k < half; k++ {
			if mag[k] >= mag[k-1] && mag[k] > mag[k+1] {
				c.peaks = append(c.peaks, k)
			}
		}
		if len(c.peaks) == 0 {
			for k := range phase {
				c.synPhase[k] = wrapPhase(c.synPhase[k] + instFreq(k)*hopOut)
			}
		} else {
			for _, pk := range c.peaks {
				c.synPhase[pk] = wrapPhase(c.synPhase[pk] + instFreq(pk)*hopOut)
			}
			peakIdx := 0
			for k := range phase {
				for peakIdx+1 < len(c.peaks) && absInt(c.peaks[peakIdx+1]-k) < absInt(c.peaks[peakIdx]-k) {
					peakIdx++
				}
				pk := c.peaks[peakIdx]
				if k != pk {
					c.synPhase[k] = wrapPhase(c.synPhase[pk] + phase[k] - phase[pk])
				}
			}
		}
	}

	switch reset {
	case ResetAll:
		copy(c.synPhase, phase)
	case ResetOutsideBand:
		for k := range phase {
			if k < c.bandLo || k > c.bandHi {
				c.synPhase[k] = phase[k]
			}
		}
	}
}

// emit moves n completed stretched samples out of the overlap-add buffer.
func (c *Channel) emit(n int) {
	for i := range n {
		v := c.accum[i]
		if c.norm[i] > normFloor {
			v /= c.norm[i]
		}
		if c.skip > 0 {
			c.skip--
			continue
		}
		c.stretched.Push(v)
	}
	rest := copy(c.accum, c.accum[n:])
	copy(c.norm, c.norm[n:])
	clear(c.accum[rest:])
	clear(c.norm[rest:])
}

// Flush completes every sample still pending in the overlap-add buffer.
func (c *Channel) Flush() {
	c.emit(c.cfg.FrameSize - c.cfg.Hop)
}

// Render resamples stretched samples at rate into the output queue,
// producing at most limit samples. See resampler.render for final.
func (c *Channel) Render(rate float64, kind interp.Kind, limit int, final bool) int {
	return c.rs.render(&c.stretched, &c.out, rate, kind, limit, final)
}

// PadOutput appends n silent output samples.
func (c *Channel) PadOutput(n int) { c.out.PushZeros(n) }

// Buffered returns the number of output samples ready to read.
func (c *Channel) Buffered() int { return c.out.Len() }

// Read dequeues output samples into dst.
func (c *Channel) Read(dst []float32) int { return c.out.Read(dst) }

// Output exposes the output queue for in-place post-processing.
func (c *Channel) Output() *Queue[float32] { return &c.out }

// Reset returns the channel to its freshly constructed state, keeping
// allocations.
func (c *Channel) Reset() {
	c.in.Reset()
	c.inBase = 0
	c.spec.reset()
	clear(c.prevPhase)
	clear(c.synPhase)
	clear(c.hist1)
	clear(c.hist2)
	clear(c.accum)
	clear(c.norm)
	c.started = false
	c.skip = 0
	c.stretched.Reset()
	c.out.Reset()
	c.rs.prime(&c.stretched)
}

func wrapPhase(p float64) float64 {
	return p - 2*math.Pi*math.Round(p/(2*math.Pi))
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
