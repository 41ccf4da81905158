package interp

import (
	"math"
	"testing"
)

func TestHermite4IdentityOnLinearRamp(t *testing.T) {
	xm1, x0, x1, x2 := -1.0, 0.0, 1.0, 2.0
	for _, tc := range []struct {
		t float64
		w float64
	}{
		{t: 0.0, w: 0.0},
		{t: 0.25, w: 0.25},
		{t: 0.5, w: 0.5},
		{t: 1.0, w: 1.0},
	} {
		got := Hermite4(tc.t, xm1, x0, x1, x2)
		if diff := got - tc.w; diff < -1e-12 || diff > 1e-12 {
			t.Fatalf("t=%v: got %v want %v", tc.t, got, tc.w)
		}
	}
}

func TestLagrange6ExactOnQuintic(t *testing.T) {
	poly := func(x float64) float64 {
		return 0.5 - 0.25*x + 0.1*x*x - 0.03*x*x*x + 0.002*math.Pow(x, 4) + 0.001*math.Pow(x, 5)
	}
	for _, frac := range []float64{0, 0.1, 0.5, 0.9} {
		got := Lagrange6Point(frac, poly(-2), poly(-1), poly(0), poly(1), poly(2), poly(3))
		if diff := math.Abs(got - poly(frac)); diff > 1e-12 {
			t.Fatalf("t=%v: got %v want %v", frac, got, poly(frac))
		}
	}
}

func TestInterpolateReproducesCentreSample(t *testing.T) {
	ramp := []float64{3, -1, 4, 1, -5, 9}
	tests := []struct {
		kind Kind
		want float64
	}{
		{kind: Linear, want: 3},
		{kind: Hermite, want: -1},
		{kind: Lagrange6, want: 4},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			got := Interpolate(tt.kind, 0, ramp[:tt.kind.Taps()])
			if got != tt.want {
				t.Fatalf("Interpolate(%v, 0) = %v, want %v", tt.kind, got, tt.want)
			}
			if tt.kind.Before() >= tt.kind.Taps() {
				t.Fatalf("Before() = %d outside %d taps", tt.kind.Before(), tt.kind.Taps())
			}
		})
	}
}

func TestLinear2Midpoint(t *testing.T) {
	if got := Linear2(0.25, 2, 4); got != 2.5 {
		t.Fatalf("Linear2 got %v want 2.5", got)
	}
}

func BenchmarkLagrange6(b *testing.B) {
	var acc float64
	b.ResetTimer()
	for i := range b.N {
		acc += Lagrange6Point(float64(i%97)/97, 1, 2, 3, 4, 5, 6)
	}
	_ = acc
}
