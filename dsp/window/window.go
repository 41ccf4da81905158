// Package window generates the analysis/synthesis windows used by the
// overlap-add phase vocoder.
package window

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-vecmath"
)

// Type identifies a window function.
type Type int

const (
	TypeHann Type = iota
	TypeBlackman
	TypeBlackmanHarris4Term
)

func (t Type) String() string {
	switch t {
	case TypeHann:
		return "hann"
	case TypeBlackman:
		return "blackman"
	case TypeBlackmanHarris4Term:
		return "blackman-harris"
	default:
		return fmt.Sprintf("Type(%d)", int(t))
	}
}

// Option configures window generation.
type Option func(*config)

type config struct {
	periodic bool
}

// WithPeriodic generates the DFT-even (periodic) variant, the right choice
// for overlap-add.
func WithPeriodic() Option {
	return func(c *config) { c.periodic = true }
}

var cosineTerms = map[Type][]float64{
	TypeHann:                {0.5, 0.5},
	TypeBlackman:            {0.42, 0.5, 0.08},
	TypeBlackmanHarris4Term: {0.35875, 0.48829, 0.14128, 0.01168},
}

// Generate returns length coefficients of window t.
func Generate(t Type, length int, opts ...Option) ([]float64, error) {
	if err := validateLength(length); err != nil {
		return nil, err
	}
	terms, ok := cosineTerms[t]
	if !ok {
		return nil, fmt.Errorf("%w: %v", errUnknownType, t)
	}

	var cfg config
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	out := make([]float64, length)
	if length == 1 {
		out[0] = 1
		return out, nil
	}

	div := float64(length - 1)
	if cfg.periodic {
		div = float64(length)
	}
	for i := range out {
		x := 2 * math.Pi * float64(i) / div
		v := 0.0
		sign := 1.0
		for k, a := range terms {
			v += sign * a * math.Cos(float64(k)*x)
			sign = -sign
		}
		out[i] = v
	}
	return out, nil
}

// ApplyCoefficients writes samples*coeffs into dst.
func ApplyCoefficients(dst, samples, coeffs []float64) error {
	if len(samples) != len(coeffs) || len(dst) != len(coeffs) {
		return errMismatchedLength
	}
	vecmath.MulBlock(dst, samples, coeffs)
	return nil
}

// ApplyCoefficientsInPlace multiplies samples by coeffs.
func ApplyCoefficientsInPlace(samples, coeffs []float64) error {
	if len(samples) != len(coeffs) {
		return errMismatchedLength
	}
	vecmath.MulBlockInPlace(samples, coeffs)
	return nil
}

// OverlapGain returns the steady-state sum of squared coefficients seen by
// one output sample when frames are overlapped every hop samples.
func OverlapGain(coeffs []float64, hop int) float64 {
	if hop <= 0 || len(coeffs) == 0 {
		return 0
	}
	sum := 0.0
	for _, w := range coeffs {
		sum += w * w
	}
	return sum / float64(hop)
}
