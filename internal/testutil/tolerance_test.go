package testutil

import (
	"math"
	"testing"
)

func TestMaxDeviation(t *testing.T) {
	tests := []struct {
		name   string
		a, b   []float32
		want   float64
		wantAt int
	}{
		{"equal", []float32{1, 2}, []float32{1, 2}, 0, 0},
		{"middle", []float32{1, 2, 3}, []float32{1, 2.5, 3}, 0.5, 1},
		{"common prefix", []float32{1, 4}, []float32{1}, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, at := MaxDeviation(tt.a, tt.b)
			if math.Abs(d-tt.want) > 1e-12 || at != tt.wantAt {
				t.Fatalf("MaxDeviation = (%v, %d), want (%v, %d)", d, at, tt.want, tt.wantAt)
			}
		})
	}
}

func TestRequireHelpersPass(t *testing.T) {
	RequireNearlyEqual(t, []float32{1, 2}, []float32{1, 2.0001}, 1e-3)
	RequireDelayed(t, []float32{0, 0, 1, 2, 7}, []float32{1, 2}, 2, 1e-6)
	RequireFinite(t, []float32{0, -1, 1e30}, []float32{3})
}
