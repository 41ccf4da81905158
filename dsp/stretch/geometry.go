package stretch

import (
	"github.com/cwbudde/algo-stretch/dsp/interp"
	"github.com/cwbudde/algo-stretch/dsp/stretch/internal/vocoder"
	"github.com/cwbudde/algo-stretch/dsp/window"
)

// geometry is the frame layout an engine runs with.
type geometry struct {
	frameSize int
	hop       int
	backend   vocoder.Backend
	window    window.Type
}

func (g geometry) vocoderConfig(sampleRate int) vocoder.Config {
	return vocoder.Config{
		SampleRate: sampleRate,
		FrameSize:  g.frameSize,
		Hop:        g.hop,
		Backend:    g.backend,
		Window:     g.window,
	}
}

// rateMultiplier doubles the frame size for each octave the sample rate
// sits above the 48 kHz family, so frames cover the same duration.
func rateMultiplier(sampleRate int) int {
	m := 1
	for rate := sampleRate; rate > 64000; rate /= 2 {
		m *= 2
	}
	return m
}

func stretcherGeometry(sampleRate int, w Window, e Engine) geometry {
	if e == EngineFiner {
		sizes := [...]int{WindowStandard: 4096, WindowShort: 2048, WindowLong: 4096}
		n := sizes[w] * rateMultiplier(sampleRate)
		return geometry{frameSize: n, hop: n / 8, backend: vocoder.RealFFT, window: window.TypeBlackman}
	}
	sizes := [...]int{WindowStandard: 2048, WindowShort: 1024, WindowLong: 4096}
	n := sizes[w] * rateMultiplier(sampleRate)
	return geometry{frameSize: n, hop: n / 4, backend: vocoder.ComplexFFT, window: window.TypeHann}
}

func liveGeometry(sampleRate int, w Window) geometry {
	n := 1024
	if w == WindowShort {
		n = 512
	}
	n *= rateMultiplier(sampleRate)
	return geometry{frameSize: n, hop: n / 4, backend: vocoder.ComplexFFT, window: window.TypeHann}
}

// kernel holds the per-frame options that may change while running.
type kernel struct {
	transients   Transients
	detector     Detector
	phase        Phase
	smoothing    Smoothing
	formant      Formant
	formantScale float64
	pitch        PitchMode
}

func kernelFor(o Options) kernel {
	return kernel{
		transients: o.Transients,
		detector:   o.Detector,
		phase:      o.Phase,
		smoothing:  o.Smoothing,
		formant:    o.Formant,
		pitch:      o.Pitch,
	}
}

func (k kernel) interpolation() interp.Kind {
	switch k.pitch {
	case PitchHighQuality:
		return interp.Hermite
	case PitchHighConsistency:
		return interp.Lagrange6
	default:
		return interp.Linear
	}
}

func (k kernel) detectorKind() vocoder.Detector {
	switch k.detector {
	case DetectorPercussive:
		return vocoder.DetectorPercussive
	case DetectorSoft:
		return vocoder.DetectorSoft
	default:
		return vocoder.DetectorCompound
	}
}

func (k kernel) onsetReset() vocoder.Reset {
	switch k.transients {
	case TransientsCrisp:
		return vocoder.ResetAll
	case TransientsMixed:
		return vocoder.ResetOutsideBand
	default:
		return vocoder.ResetNone
	}
}

// formantWarp returns the envelope read factor for pitch. The envelope
// follows the shift unless formants are preserved; a zero formant scale
// means 1/pitch, which keeps the envelope in place.
func (k kernel) formantWarp(pitch float64) float64 {
	if k.formant != FormantPreserved {
		return 0
	}
	scale := k.formantScale
	if scale <= 0 {
		scale = 1 / pitch
	}
	return 1 / scale
}
