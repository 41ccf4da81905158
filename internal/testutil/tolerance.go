package testutil

import (
	"math"
	"testing"
)

// RequireNearlyEqual fails t if got and want differ in length or if any
// sample pair exceeds eps (absolute tolerance).
func RequireNearlyEqual(t *testing.T, got, want []float32, eps float64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("length mismatch: got %d, want %d", len(got), len(want))
	}
	if d, i := MaxDeviation(got, want); d > eps {
		t.Fatalf("frame %d: got %v, want %v (diff %v > eps %v)", i, got[i], want[i], d, eps)
	}
}

// RequireDelayed fails t unless got holds want shifted right by delay
// frames, within eps. got may be longer than delay+len(want).
func RequireDelayed(t *testing.T, got, want []float32, delay int, eps float64) {
	t.Helper()
	if len(got) < delay+len(want) {
		t.Fatalf("got %d frames, need delay %d + %d", len(got), delay, len(want))
	}
	seg := got[delay : delay+len(want)]
	if d, i := MaxDeviation(seg, want); d > eps {
		t.Fatalf("frame %d (input %d): got %v, want %v (diff %v > eps %v)",
			delay+i, i, seg[i], want[i], d, eps)
	}
}

// RequireFinite fails t if any sample of any channel is NaN or Inf.
func RequireFinite(t *testing.T, block ...[]float32) {
	t.Helper()
	for ch, s := range block {
		for i, v := range s {
			f := float64(v)
			if math.IsNaN(f) || math.IsInf(f, 0) {
				t.Fatalf("channel %d frame %d: non-finite value %v", ch, i, v)
			}
		}
	}
}

// MaxDeviation returns the largest absolute difference over the common
// prefix of a and b and the frame where it occurs.
func MaxDeviation(a, b []float32) (float64, int) {
	worst, at := 0.0, 0
	for i := range min(len(a), len(b)) {
		if d := math.Abs(float64(a[i]) - float64(b[i])); d > worst {
			worst, at = d, i
		}
	}
	return worst, at
}
