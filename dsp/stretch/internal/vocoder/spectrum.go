package vocoder

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-stretch/dsp/window"
	"github.com/cwbudde/algo-vecmath"
	"github.com/tphakala/simd/f64"
)

const (
	magnitudeFloor = 1e-9
	// risePower is the squared-magnitude ratio of a 3 dB rise.
	risePower = 2.0
)

// spectrum holds one analysis frame and the previous frame's magnitudes.
type spectrum struct {
	fft     transform
	window  []float64
	frame   []float64
	bins    []complex128
	re, im  []float64
	mag     []float64
	phase   []float64
	prevMag []float64
}

func newSpectrum(cfg Config) (*spectrum, error) {
	fft, err := newTransform(cfg.Backend, cfg.FrameSize)
	if err != nil {
		return nil, err
	}
	w, err := window.Generate(cfg.Window, cfg.FrameSize, window.WithPeriodic())
	if err != nil {
		return nil, fmt.Errorf("vocoder: %w", err)
	}
	bins := cfg.FrameSize/2 + 1
	return &spectrum{
		fft:     fft,
		window:  w,
		frame:   make([]float64, cfg.FrameSize),
		bins:    make([]complex128, bins),
		re:      make([]float64, bins),
		im:      make([]float64, bins),
		mag:     make([]float64, bins),
		phase:   make([]float64, bins),
		prevMag: make([]float64, bins),
	}, nil
}

// analyse windows src, transforms it and fills mag and phase. It returns
// the onset values against the previous frame.
func (s *spectrum) analyse(src []float64) (Onset, error) {
	if err := window.ApplyCoefficients(s.frame, src, s.window); err != nil {
		return Onset{}, fmt.Errorf("vocoder: %w", err)
	}
	if err := s.fft.Forward(s.bins, s.frame); err != nil {
		return Onset{}, err
	}
	for k, v := range s.bins {
		s.re[k] = real(v)
		s.im[k] = imag(v)
		s.phase[k] = math.Atan2(imag(v), real(v))
	}
	vecmath.Magnitude(s.mag, s.re, s.im)

	o := s.onset()
	copy(s.prevMag, s.mag)
	return o, nil
}

func (s *spectrum) onset() Onset {
	rising := 0
	flux := 0.0
	for k, m := range s.mag {
		p := s.prevMag[k]
		if m > magnitudeFloor && m*m >= risePower*p*p {
			rising++
		}
		if m > p {
			flux += m - p
		}
	}
	total := f64.Sum(s.mag)
	o := Onset{Percussive: float64(rising) / float64(len(s.mag))}
	if total > magnitudeFloor {
		o.Flux = flux / total
	}
	o.Energy = f64.DotProductUnsafe(s.mag, s.mag)
	return o
}

func (s *spectrum) reset() {
	clear(s.prevMag)
}

// Analyzer runs onset detection over a single stream without synthesis.
type Analyzer struct {
	spec *spectrum
}

// NewAnalyzer builds an Analyzer with the frame geometry of cfg.
func NewAnalyzer(cfg Config) (*Analyzer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	spec, err := newSpectrum(cfg)
	if err != nil {
		return nil, err
	}
	return &Analyzer{spec: spec}, nil
}

// Analyze returns the onset values of frame, which must hold FrameSize samples.
func (a *Analyzer) Analyze(frame []float64) (Onset, error) {
	return a.spec.analyse(frame)
}

// Reset forgets the previous frame.
func (a *Analyzer) Reset() { a.spec.reset() }
