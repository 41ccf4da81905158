package stretch

import (
	"sort"

	"github.com/tphakala/simd/f32"

	"github.com/cwbudde/algo-stretch/dsp/stretch/internal/vocoder"
)

// onsetProfile is the sorted list of onset positions found by a study
// pass, in input frames.
type onsetProfile struct {
	onsets []int64
	frames int64
}

// between reports whether an onset lies in (lo, hi].
func (p *onsetProfile) between(lo, hi int64) bool {
	i := sort.Search(len(p.onsets), func(i int) bool { return p.onsets[i] > lo })
	return i < len(p.onsets) && p.onsets[i] <= hi
}

// studier analyses a mono mixdown of the study input. Frame k is centred
// on input frame k*hop, so the mixdown is preceded by half a frame of
// silence.
type studier struct {
	an       *vocoder.Analyzer
	tracker  vocoder.Tracker
	detector vocoder.Detector
	n, hop   int

	mix  vocoder.Queue[float64]
	sum  []float32
	base int64
	next int64

	onsets []int64
	frames int64
}

func newStudier(sampleRate int, geo geometry, d vocoder.Detector) (*studier, error) {
	an, err := vocoder.NewAnalyzer(geo.vocoderConfig(sampleRate))
	if err != nil {
		return nil, err
	}
	st := &studier{an: an, detector: d, n: geo.frameSize, hop: geo.hop}
	st.mix.PushZeros(geo.frameSize / 2)
	return st, nil
}

func (st *studier) write(block [][]float32) error {
	n := len(block[0])
	if cap(st.sum) < n {
		st.sum = make([]float32, n)
	}
	sum := st.sum[:n]
	copy(sum, block[0])
	for _, ch := range block[1:] {
		f32.Add(sum, sum, ch[:n])
	}
	if len(block) > 1 {
		f32.Scale(sum, sum, 1/float32(len(block)))
	}
	st.mix.Grow(n)
	for _, v := range sum {
		st.mix.Push(float64(v))
	}
	st.frames += int64(n)
	return st.run()
}

func (st *studier) finish() (*onsetProfile, error) {
	st.mix.PushZeros(st.n)
	if err := st.run(); err != nil {
		return nil, err
	}
	return &onsetProfile{onsets: st.onsets, frames: st.frames}, nil
}

func (st *studier) run() error {
	for st.next+int64(st.n) <= st.base+int64(st.mix.Len()) {
		off := int(st.next - st.base)
		o, err := st.an.Analyze(st.mix.Slice(off, off+st.n))
		if err != nil {
			return err
		}
		if st.tracker.Update(o, st.detector) {
			st.onsets = append(st.onsets, st.next)
		}
		st.next += int64(st.hop)
		drop := st.next - st.base
		st.mix.Discard(int(drop))
		st.base += drop
	}
	return nil
}
