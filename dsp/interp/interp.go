package interp

import "fmt"

// Kind selects an interpolation kernel.
type Kind int

const (
	Linear Kind = iota
	Hermite
	Lagrange6
)

func (k Kind) String() string {
	switch k {
	case Linear:
		return "linear"
	case Hermite:
		return "hermite"
	case Lagrange6:
		return "lagrange6"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Taps returns the number of neighbouring samples the kernel reads.
func (k Kind) Taps() int {
	switch k {
	case Hermite:
		return 4
	case Lagrange6:
		return 6
	default:
		return 2
	}
}

// Before returns how many of the taps precede the base sample x0.
func (k Kind) Before() int {
	switch k {
	case Hermite:
		return 1
	case Lagrange6:
		return 2
	default:
		return 0
	}
}

// Interpolate evaluates kernel k at fraction t in [0,1) between x[k.Before()]
// and the sample after it. x must hold k.Taps() samples.
func Interpolate(k Kind, t float64, x []float64) float64 {
	switch k {
	case Hermite:
		return Hermite4(t, x[0], x[1], x[2], x[3])
	case Lagrange6:
		return Lagrange6Point(t, x[0], x[1], x[2], x[3], x[4], x[5])
	default:
		return Linear2(t, x[0], x[1])
	}
}

// Linear2 interpolates linearly from x0 to x1.
func Linear2(t, x0, x1 float64) float64 {
	return x0 + t*(x1-x0)
}

// Hermite4 computes cubic 4-point interpolation.
// It interpolates from x0 to x1 using neighbor points xm1 and x2.
func Hermite4(t, xm1, x0, x1, x2 float64) float64 {
	c0 := x0
	c1 := 0.5 * (x1 - xm1)
	c2 := xm1 - 2.5*x0 + 2*x1 - 0.5*x2
	c3 := 0.5*(x2-xm1) + 1.5*(x0-x1)
	return ((c3*t+c2)*t+c1)*t + c0
}

// Lagrange6Point evaluates the quintic through nodes -2..3 at t.
func Lagrange6Point(t, xm2, xm1, x0, x1, x2, x3 float64) float64 {
	// Node offsets relative to t.
	dm2 := t + 2
	dm1 := t + 1
	d0 := t
	d1 := t - 1
	d2 := t - 2
	d3 := t - 3

	// Denominators are the products of node distances: -120, 24, -12, 12, -24, 120.
	wm2 := dm1 * d0 * d1 * d2 * d3 / -120
	wm1 := dm2 * d0 * d1 * d2 * d3 / 24
	w0 := dm2 * dm1 * d1 * d2 * d3 / -12
	w1 := dm2 * dm1 * d0 * d2 * d3 / 12
	w2 := dm2 * dm1 * d0 * d1 * d3 / -24
	w3 := dm2 * dm1 * d0 * d1 * d2 / 120

	return wm2*xm2 + wm1*xm1 + w0*x0 + w1*x1 + w2*x2 + w3*x3
}
