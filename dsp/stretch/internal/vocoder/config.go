package vocoder

import (
	"fmt"

	"github.com/cwbudde/algo-stretch/dsp/window"
)

// Config fixes the frame geometry of a Channel.
type Config struct {
	SampleRate int
	FrameSize  int
	Hop        int
	Backend    Backend
	Window     window.Type
}

// Validate checks that the geometry is usable.
func (c Config) Validate() error {
	if c.SampleRate <= 0 {
		return fmt.Errorf("vocoder: sample rate must be positive: %d", c.SampleRate)
	}
	if c.FrameSize < 16 || c.FrameSize&(c.FrameSize-1) != 0 {
		return fmt.Errorf("vocoder: frame size must be a power of two >= 16: %d", c.FrameSize)
	}
	if c.Hop <= 0 || c.Hop > c.FrameSize/2 {
		return fmt.Errorf("vocoder: hop must be in [1, %d]: %d", c.FrameSize/2, c.Hop)
	}
	return nil
}

// Reset selects which bins take their analysis phase directly.
type Reset int

const (
	ResetNone Reset = iota
	ResetAll
	// ResetOutsideBand keeps phase continuity between 150 Hz and 4 kHz,
	// where sustained pitched content usually lives.
	ResetOutsideBand
)

const (
	bandLowHz  = 150.0
	bandHighHz = 4000.0
)

// FrameParams controls how one synthesis frame is built.
type FrameParams struct {
	// InputHop is the analysis hop since the previous frame. Zero means
	// the analysis position did not move.
	InputHop int
	Reset    Reset
	// PhaseLock enables identity phase locking around spectral peaks.
	PhaseLock bool
	// Smoothing averages magnitudes over the last three frames.
	Smoothing bool
	// FormantWarp reads the spectral envelope at bin k*FormantWarp.
	// Zero or one leaves magnitudes untouched.
	FormantWarp float64
}
