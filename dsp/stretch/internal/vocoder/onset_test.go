package vocoder

import (
	"testing"

	"github.com/cwbudde/algo-stretch/dsp/window"
	"github.com/cwbudde/algo-stretch/internal/testutil"
)

func TestTrackerFlagsOnsetAfterSilence(t *testing.T) {
	a, err := NewAnalyzer(Config{SampleRate: 48000, FrameSize: 512, Hop: 128, Window: window.TypeHann})
	if err != nil {
		t.Fatalf("NewAnalyzer() error = %v", err)
	}
	silence := make([]float64, 512)
	burst := make([]float64, 512)
	for i, v := range testutil.DeterministicNoise(5, 0.8, 512) {
		burst[i] = float64(v)
	}

	for _, d := range []Detector{DetectorCompound, DetectorPercussive, DetectorSoft} {
		t.Run(d.String(), func(t *testing.T) {
			a.Reset()
			var tr Tracker
			for range 4 {
				o, err := a.Analyze(silence)
				if err != nil {
					t.Fatal(err)
				}
				if tr.Update(o, d) {
					t.Fatal("silence reported as onset")
				}
			}
			o, err := a.Analyze(burst)
			if err != nil {
				t.Fatal(err)
			}
			if !tr.Update(o, d) {
				t.Fatalf("burst after silence not detected: %+v", o)
			}
			// A steady continuation is not a new onset.
			o, _ = a.Analyze(burst)
			if tr.Update(o, d) {
				t.Fatal("steady frame reported as onset")
			}
		})
	}
}

func TestOnsetValueAndMerge(t *testing.T) {
	a := Onset{Percussive: 0.2, Flux: 0.6, Energy: 1}
	b := Onset{Percussive: 0.4, Flux: 0.1, Energy: 2}
	m := a.Merge(b)
	if m.Percussive != 0.4 || m.Flux != 0.6 || m.Energy != 3 {
		t.Fatalf("Merge() = %+v", m)
	}
	if got := m.Value(DetectorCompound); got != 0.5 {
		t.Fatalf("compound value = %v, want 0.5", got)
	}
	if m.Value(DetectorPercussive) != 0.4 || m.Value(DetectorSoft) != 0.6 {
		t.Fatal("single detector values not passed through")
	}
}

func TestEnvelopeWarpKeepsFlatSpectrum(t *testing.T) {
	env := newEnvelope(257)
	mag := make([]float64, 257)
	for i := range mag {
		mag[i] = 0.25
	}
	env.warp(mag, 1.5)
	for i, m := range mag {
		if d := m - 0.25; d > 1e-9 || d < -1e-9 {
			t.Fatalf("bin %d: %v, want 0.25", i, m)
		}
	}
}
