package vocoder

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-stretch/internal/testutil"
)

func TestTransformRoundTrip(t *testing.T) {
	for _, backend := range []Backend{ComplexFFT, RealFFT} {
		tr, err := newTransform(backend, 256)
		if err != nil {
			t.Fatalf("backend %d: newTransform() error = %v", backend, err)
		}
		noise := testutil.DeterministicNoise(7, 1, 256)
		frame := make([]float64, 256)
		for i, v := range noise {
			frame[i] = float64(v)
		}
		spec := make([]complex128, 129)
		if err := tr.Forward(spec, frame); err != nil {
			t.Fatal(err)
		}
		out := make([]float64, 256)
		if err := tr.Inverse(out, spec); err != nil {
			t.Fatal(err)
		}
		for i := range out {
			if math.Abs(out[i]-frame[i]) > 1e-9 {
				t.Fatalf("backend %d index %d: got %v want %v", backend, i, out[i], frame[i])
			}
		}
	}
}

func TestTransformUnknownBackend(t *testing.T) {
	if _, err := newTransform(Backend(9), 64); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}
