package vocoder

import (
	"errors"
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/tphakala/simd/f64"
	"gonum.org/v1/gonum/dsp/fourier"
)

// Backend selects the FFT implementation behind a Channel.
type Backend int

const (
	// ComplexFFT runs a full-length complex plan (algo-fft).
	ComplexFFT Backend = iota
	// RealFFT runs a real-input transform (gonum).
	RealFFT
)

var errBadScale = errors.New("vocoder: fft round trip lost the signal")

// transform moves one real frame to its half spectrum and back.
// Inverse output is normalised so Inverse(Forward(x)) == x.
type transform interface {
	Forward(spec []complex128, frame []float64) error
	Inverse(frame []float64, spec []complex128) error
}

func newTransform(b Backend, n int) (transform, error) {
	var (
		t   transform
		err error
	)
	switch b {
	case ComplexFFT:
		t, err = newComplexTransform(n)
	case RealFFT:
		t = newRealTransform(n)
	default:
		return nil, fmt.Errorf("vocoder: unknown fft backend %d", b)
	}
	if err != nil {
		return nil, err
	}
	if err := calibrate(t, n); err != nil {
		return nil, err
	}
	return t, nil
}

// calibrate measures the inverse gain with a unit impulse and folds its
// reciprocal into the transform, so both libraries agree on scaling.
func calibrate(t transform, n int) error {
	frame := make([]float64, n)
	spec := make([]complex128, n/2+1)
	frame[0] = 1
	if err := t.Forward(spec, frame); err != nil {
		return err
	}
	if err := t.Inverse(frame, spec); err != nil {
		return err
	}
	g := frame[0]
	if g == 0 || math.IsNaN(g) || math.IsInf(g, 0) {
		return errBadScale
	}
	switch ct := t.(type) {
	case *complexTransform:
		ct.scale /= g
	case *realTransform:
		ct.scale /= g
	}
	return nil
}

type complexTransform struct {
	plan  *algofft.Plan[complex128]
	in    []complex128
	out   []complex128
	scale float64
}

func newComplexTransform(n int) (*complexTransform, error) {
	plan, err := algofft.NewPlan64(n)
	if err != nil {
		return nil, fmt.Errorf("vocoder: fft plan for size %d: %w", n, err)
	}
	return &complexTransform{
		plan:  plan,
		in:    make([]complex128, n),
		out:   make([]complex128, n),
		scale: 1,
	}, nil
}

func (c *complexTransform) Forward(spec []complex128, frame []float64) error {
	for i, v := range frame {
		c.in[i] = complex(v, 0)
	}
	if err := c.plan.Forward(c.out, c.in); err != nil {
		return fmt.Errorf("vocoder: forward fft: %w", err)
	}
	copy(spec, c.out[:len(spec)])
	return nil
}

func (c *complexTransform) Inverse(frame []float64, spec []complex128) error {
	n := len(c.in)
	half := n / 2
	c.in[0] = complex(real(spec[0]), 0)
	c.in[half] = complex(real(spec[half]), 0)
	for k := 1; k < half; k++ {
		v := spec[k]
		c.in[k] = v
		c.in[n-k] = complex(real(v), -imag(v))
	}
	if err := c.plan.Inverse(c.out, c.in); err != nil {
		return fmt.Errorf("vocoder: inverse fft: %w", err)
	}
	for i := range frame {
		frame[i] = real(c.out[i]) * c.scale
	}
	return nil
}

type realTransform struct {
	fft   *fourier.FFT
	tmp   []complex128
	scale float64
}

func newRealTransform(n int) *realTransform {
	return &realTransform{
		fft:   fourier.NewFFT(n),
		tmp:   make([]complex128, n/2+1),
		scale: 1,
	}
}

func (r *realTransform) Forward(spec []complex128, frame []float64) error {
	r.fft.Coefficients(spec, frame)
	return nil
}

func (r *realTransform) Inverse(frame []float64, spec []complex128) error {
	// gonum does not normalise the inverse.
	copy(r.tmp, spec)
	r.fft.Sequence(frame, r.tmp)
	f64.Scale(frame, frame, r.scale)
	return nil
}
