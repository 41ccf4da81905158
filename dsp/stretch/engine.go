package stretch

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/tphakala/simd/f32"

	"github.com/cwbudde/algo-stretch/dsp/stretch/internal/vocoder"
	"github.com/cwbudde/algo-stretch/dsp/stretch/internal/workers"
)

var errOutOfStep = errors.New("channels rendered different frame counts")

// engine is the streaming core shared by Stretcher and LiveShifter.
//
// Synthesis frames are laid out every hop samples of the stretched
// stream; frame j lands at output position cursor = j*hop/pitch. Its
// analysis frame starts at the input position the timeline maps to that
// cursor. The stretched stream is then read back at rate pitch.
type engine struct {
	log     *slog.Logger
	geo     geometry
	chans   []*vocoder.Channel
	pool    *workers.Pool
	offline bool
	midSide bool
	// pad zeros precede the input; skip stretched samples are dropped.
	pad, skip int

	k       kernel
	pitch   float64
	tl      *timeline
	profile *onsetProfile
	tracker vocoder.Tracker

	onsets  []vocoder.Onset
	counts  []int
	scratch [2][]float32

	cursor    float64
	prevStart int64
	frames    int64
	input     int64
	emitted   int64
	// target is the exact output length, known once the final block of
	// an offline stream arrives. Negative until then.
	target int64
	final  bool
}

type engineParams struct {
	sampleRate int
	channels   int
	geo        geometry
	offline    bool
	midSide    bool
	pad, skip  int
	k          kernel
	ratio      float64
	pitch      float64
	pool       *workers.Pool
	log        *slog.Logger
}

func newEngine(p engineParams) (*engine, error) {
	e := &engine{
		log:     p.log,
		geo:     p.geo,
		pool:    p.pool,
		offline: p.offline,
		midSide: p.midSide && p.channels == 2,
		pad:     p.pad,
		skip:    p.skip,
		k:       p.k,
		pitch:   p.pitch,
		chans:   make([]*vocoder.Channel, p.channels),
		onsets:  make([]vocoder.Onset, p.channels),
		counts:  make([]int, p.channels),
	}
	cfg := p.geo.vocoderConfig(p.sampleRate)
	for i := range e.chans {
		c, err := vocoder.NewChannel(cfg)
		if err != nil {
			return nil, err
		}
		e.chans[i] = c
	}
	e.reset(p.ratio)
	return e, nil
}

// reset returns to the start of a stream with a plain ratio timeline.
func (e *engine) reset(ratio float64) {
	for _, c := range e.chans {
		c.Reset()
		c.WriteZeros(e.pad)
		c.SetSkip(e.skip)
	}
	e.tl = newTimeline(ratio, nil)
	e.profile = nil
	e.tracker.Reset()
	e.cursor = 0
	e.prevStart = 0
	e.frames = 0
	e.input = 0
	e.emitted = 0
	e.target = -1
	e.final = false
}

func (e *engine) grow(in, out int) {
	for _, c := range e.chans {
		c.GrowInput(in)
		c.GrowOutput(out)
	}
}

func (e *engine) setRatio(ratio float64) {
	e.tl.setRatio(ratio, e.tl.inverse(e.cursor))
}

// write appends frames [off, off+n) of every channel in block.
func (e *engine) write(block [][]float32, off, n int) {
	if e.midSide {
		e.encodeMidSide(block[0][off:off+n], block[1][off:off+n])
	} else {
		for ch, c := range e.chans {
			c.Write(block[ch][off : off+n])
		}
	}
	e.input += int64(n)
}

func (e *engine) encodeMidSide(l, r []float32) {
	n := len(l)
	for i := range e.scratch {
		if cap(e.scratch[i]) < n {
			e.scratch[i] = make([]float32, n)
		}
		e.scratch[i] = e.scratch[i][:n]
	}
	mid, side := e.scratch[0], e.scratch[1]
	f32.AddSub(mid, side, l, r)
	f32.Scale(mid, mid, 0.5)
	f32.Scale(side, side, 0.5)
	e.chans[0].Write(mid)
	e.chans[1].Write(side)
}

func (e *engine) written() int64 { return e.chans[0].Written() }

func (e *engine) buffered() int { return e.chans[0].Buffered() }

func (e *engine) nextStart() int64 {
	s := int64(math.Round(e.tl.inverse(e.cursor)))
	return max(s, e.prevStart, 0)
}

// stopCursor bounds frame scheduling once the output length is known:
// every output sample before target depends only on frames before it.
func (e *engine) stopCursor() float64 {
	return float64(e.target) + float64(e.geo.frameSize)/e.pitch
}

// samplesRequired reports how much input the next frame still needs.
func (e *engine) samplesRequired() int {
	if e.buffered() > 0 || e.final {
		return 0
	}
	need := e.nextStart() + int64(e.geo.frameSize) - e.written()
	return int(max(need, 0))
}

// advance runs every frame the buffered input allows, then resamples.
func (e *engine) advance() error {
	if err := e.runFrames(); err != nil {
		return err
	}
	return e.render(false)
}

func (e *engine) runFrames() error {
	n := int64(e.geo.frameSize)
	for {
		if e.target >= 0 && e.cursor > e.stopCursor() {
			return nil
		}
		start := e.nextStart()
		if start+n > e.written() {
			return nil
		}
		if err := e.frame(start); err != nil {
			return err
		}
	}
}

func (e *engine) frame(start int64) error {
	inHop := 0
	if e.frames > 0 {
		inHop = int(start - e.prevStart)
	}
	err := e.pool.Run(len(e.chans), func(i int) error {
		o, err := e.chans[i].Analyse(start)
		e.onsets[i] = o
		return err
	})
	if err != nil {
		return err
	}

	params := vocoder.FrameParams{
		InputHop:    inHop,
		Reset:       e.resetFor(start),
		PhaseLock:   e.k.phase == PhaseLaminar,
		Smoothing:   e.k.smoothing == SmoothingOn,
		FormantWarp: e.k.formantWarp(e.pitch),
	}
	err = e.pool.Run(len(e.chans), func(i int) error {
		c := e.chans[i]
		if err := c.Synthesise(params); err != nil {
			return err
		}
		c.Release(start)
		return nil
	})
	if err != nil {
		return err
	}

	e.prevStart = start
	e.frames++
	e.cursor += float64(e.geo.hop) / e.pitch
	e.tl.prune(float64(start))
	return nil
}

// resetFor decides the phase reset for the frame at start. A studied
// profile takes precedence over causal detection.
func (e *engine) resetFor(start int64) vocoder.Reset {
	var onset bool
	if e.profile != nil {
		lo := e.prevStart
		if e.frames == 0 {
			lo = -1
		}
		onset = e.profile.between(lo, start)
	} else {
		merged := e.onsets[0]
		for _, o := range e.onsets[1:] {
			merged = merged.Merge(o)
		}
		onset = e.tracker.Update(merged, e.k.detectorKind())
	}
	if !onset {
		return vocoder.ResetNone
	}
	return e.k.onsetReset()
}

func (e *engine) render(final bool) error {
	limit := math.MaxInt
	if e.target >= 0 {
		limit = int(max(e.target-e.emitted, 0))
	}
	kind := e.k.interpolation()
	err := e.pool.Run(len(e.chans), func(i int) error {
		e.counts[i] = e.chans[i].Render(e.pitch, kind, limit, final)
		return nil
	})
	if err != nil {
		return err
	}
	for ch, n := range e.counts[1:] {
		if n != e.counts[0] {
			return fmt.Errorf("%w: channel %d has %d, channel 0 has %d", errOutOfStep, ch+1, n, e.counts[0])
		}
	}
	e.emitted += int64(e.counts[0])
	if b := e.buffered(); b > MaxBufferedFrames {
		return fmt.Errorf("%w: %d frames buffered per channel, limit %d", ErrResourceExhaustion, b, MaxBufferedFrames)
	}
	return nil
}

// finish pads the input tail, runs the remaining frames and completes
// the output. Offline streams are cut or padded to the exact length.
func (e *engine) finish() error {
	n := int64(e.geo.frameSize)
	tail := n
	if e.offline {
		e.target = int64(math.Round(e.tl.forward(float64(e.input))))
		end := int64(math.Ceil(e.tl.inverse(e.stopCursor()))) + n + 1
		tail = max(end-e.written(), n)
	}
	for _, c := range e.chans {
		c.WriteZeros(int(tail))
	}
	e.final = true
	if err := e.runFrames(); err != nil {
		return err
	}
	for _, c := range e.chans {
		c.Flush()
	}
	if err := e.render(true); err != nil {
		return err
	}
	if e.target > e.emitted {
		short := int(e.target - e.emitted)
		for _, c := range e.chans {
			c.PadOutput(short)
		}
		e.log.Debug("padded output tail", "frames", short)
		e.emitted = e.target
	}
	return nil
}

// read moves up to len(out[0]) buffered frames into out.
func (e *engine) read(out [][]float32) int {
	n := min(len(out[0]), e.buffered())
	for ch, c := range e.chans {
		c.Read(out[ch][:n])
	}
	if e.midSide {
		mid, side := out[0][:n], out[1][:n]
		for i := range n {
			m, s := mid[i], side[i]
			mid[i] = m + s
			side[i] = m - s
		}
	}
	return n
}
