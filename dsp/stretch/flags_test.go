package stretch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlagsRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		opts  Options
		flags Flags
	}{
		{name: "defaults", opts: DefaultOptions(), flags: 0},
		{name: "realtime", opts: RealTimeOptions(), flags: FlagRealTime},
		{
			name: "mixed set",
			opts: Options{
				Process:    ProcessRealTime,
				Transients: TransientsSmooth,
				Detector:   DetectorPercussive,
				Window:     WindowShort,
				Formant:    FormantPreserved,
				Pitch:      PitchHighConsistency,
			},
			flags: 0x1 | 0x200 | 0x400 | 0x100000 | 0x1000000 | 0x4000000,
		},
		{
			name: "finer together",
			opts: Options{
				Stretch:   StretchPrecise,
				Phase:     PhaseIndependent,
				Threading: ThreadingAlways,
				Window:    WindowLong,
				Smoothing: SmoothingOn,
				Channels:  ChannelsTogether,
				Engine:    EngineFiner,
			},
			flags: 0x10 | 0x2000 | 0x20000 | 0x200000 | 0x800000 | 0x10000000 | 0x20000000,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.flags, tt.opts.Flags())
			got, err := ParseFlags(tt.flags)
			require.NoError(t, err)
			assert.Equal(t, tt.opts, got)
		})
	}
}

func TestParseFlagsRejects(t *testing.T) {
	tests := []struct {
		name  string
		flags Flags
	}{
		{name: "unknown bit", flags: 0x4},
		{name: "high bit", flags: 0x80000000},
		{name: "two transients", flags: FlagTransientsMixed | FlagTransientsSmooth},
		{name: "two windows", flags: FlagWindowShort | FlagWindowLong},
		{name: "two threading", flags: FlagThreadingNever | FlagThreadingAlways},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseFlags(tt.flags)
			require.ErrorIs(t, err, ErrConstructionFailure)
		})
	}
}

func TestParseEnums(t *testing.T) {
	tr, err := ParseTransients(" Smooth ")
	require.NoError(t, err)
	assert.Equal(t, TransientsSmooth, tr)

	w, err := ParseWindow("long")
	require.NoError(t, err)
	assert.Equal(t, WindowLong, w)

	e, err := ParseEngine("finer")
	require.NoError(t, err)
	assert.Equal(t, EngineFiner, e)

	_, err = ParseDetector("loud")
	require.ErrorIs(t, err, ErrInvalidParameter)

	assert.Equal(t, "quality", PitchHighQuality.String())
	assert.Equal(t, "Window(9)", Window(9).String())
	assert.Equal(t, "draining", StateDraining.String())
}
