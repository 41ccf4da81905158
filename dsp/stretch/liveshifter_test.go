package stretch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-stretch/internal/testutil"
)

func TestNewLiveShifterValidation(t *testing.T) {
	_, err := NewLiveShifter(0, 1, LiveOptions{})
	require.ErrorIs(t, err, ErrConstructionFailure)
	_, err = NewLiveShifter(testRate, 1, LiveOptions{Window: WindowLong})
	require.ErrorIs(t, err, ErrConstructionFailure)
	_, err = NewLiveShifter(testRate, 1, LiveOptions{Formant: Formant(4)})
	require.ErrorIs(t, err, ErrConstructionFailure)
}

func TestLiveShifterStartDelay(t *testing.T) {
	tests := []struct {
		name  string
		opts  LiveOptions
		pitch float64
		want  int
	}{
		{name: "standard unity", pitch: 1, want: 1088},
		{name: "standard octave up", pitch: 2, want: 832},
		{name: "standard octave down", pitch: 0.5, want: 1600},
		{name: "short unity", opts: LiveOptions{Window: WindowShort}, pitch: 1, want: 576},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := NewLiveShifter(testRate, 1, tt.opts)
			require.NoError(t, err)
			defer l.Close()
			require.NoError(t, l.SetPitchScale(tt.pitch))
			assert.Equal(t, tt.want, l.StartDelay())
			assert.Equal(t, 512, l.BlockSize())
		})
	}
}

func TestLiveShifterIdentity(t *testing.T) {
	const frames = 8192
	tests := []struct {
		name     string
		channels int
		opts     LiveOptions
	}{
		{name: "mono", channels: 1},
		{name: "mono short", channels: 1, opts: LiveOptions{Window: WindowShort}},
		{name: "stereo mid side", channels: 2, opts: LiveOptions{Channels: ChannelsTogether}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := make([][]float32, tt.channels)
			for ch := range in {
				in[ch] = testutil.DeterministicNoise(int64(ch+1), 0.5, frames)
			}
			out, err := ShiftBuffer(t.Context(), in, testRate, 1, tt.opts)
			require.NoError(t, err)
			for ch := range in {
				testutil.RequireNearlyEqual(t, out[ch], in[ch], 1e-4)
			}
		})
	}
}

func TestLiveShifterAlwaysFillsBlocks(t *testing.T) {
	for _, pitch := range []float64{0.125, 0.5, 0.8, 1.5, 8} {
		l, err := NewLiveShifter(testRate, 1, LiveOptions{})
		require.NoError(t, err)
		require.NoError(t, l.SetPitchScale(pitch))

		sig := testutil.DeterministicSine(330, testRate, 0.5, 64*512)
		out := NewBlock(1, 512)
		for off := 0; off < len(sig); off += 512 {
			require.NoError(t, l.Shift([][]float32{sig[off : off+512]}, out))
			testutil.RequireFinite(t, out[0])
		}
		st := l.Stats()
		assert.Equal(t, int64(len(sig)), st.InputFrames)
		assert.GreaterOrEqual(t, st.OutputFrames, st.RetrievedFrames, "pitch %v", pitch)
		require.NoError(t, l.Close())
	}
}

func TestLiveShifterBlockErrors(t *testing.T) {
	l, err := NewLiveShifter(testRate, 2, LiveOptions{})
	require.NoError(t, err)
	defer l.Close()

	good := NewBlock(2, 512)
	require.ErrorIs(t, l.Shift(NewBlock(2, 256), good), ErrBlockSizeMismatch)
	require.ErrorIs(t, l.Shift(good, NewBlock(2, 1024)), ErrBlockSizeMismatch)
	require.ErrorIs(t, l.Shift(NewBlock(1, 512), good), ErrChannelCountMismatch)
	require.NoError(t, l.Shift(good, NewBlock(2, 512)))
}

func TestLiveShifterResetAndClose(t *testing.T) {
	l, err := NewLiveShifter(testRate, 1, LiveOptions{})
	require.NoError(t, err)

	sig := testutil.DeterministicNoise(5, 0.5, 512)
	first, second := NewBlock(1, 512), NewBlock(1, 512)
	for range 4 {
		require.NoError(t, l.Shift([][]float32{sig}, first))
	}
	require.NoError(t, l.SetPitchScale(1.25))
	require.NoError(t, l.Reset())
	assert.InDelta(t, 1.25, l.PitchScale(), 0)
	require.NoError(t, l.SetPitchScale(1))

	for range 4 {
		require.NoError(t, l.Shift([][]float32{sig}, second))
	}
	assert.Equal(t, first, second)

	require.NoError(t, l.SetFormantOption(FormantPreserved))
	require.ErrorIs(t, l.SetFormantOption(Formant(2)), ErrInvalidParameter)
	require.ErrorIs(t, l.SetPitchScale(10), ErrInvalidParameter)

	require.NoError(t, l.Close())
	require.ErrorIs(t, l.Close(), ErrUseAfterDispose)
	require.ErrorIs(t, l.Shift(first, second), ErrUseAfterDispose)
	require.ErrorIs(t, l.Reset(), ErrUseAfterDispose)
	assert.Equal(t, 1, l.ChannelCount())
	assert.Equal(t, StateDisposed, l.Stats().State)
}

func TestLiveShifterFaultIsSticky(t *testing.T) {
	l, err := NewLiveShifter(testRate, 1, LiveOptions{})
	require.NoError(t, err)

	in, out := NewBlock(1, 512), NewBlock(1, 512)
	require.NoError(t, l.Shift(in, out))

	err = l.fail(ErrResourceExhaustion)
	require.ErrorIs(t, err, ErrResourceExhaustion)
	assert.True(t, l.Stats().Faulted)

	require.ErrorIs(t, l.Shift(in, out), ErrFaulted)
	require.ErrorIs(t, l.Shift(in, out), ErrFaulted)
	require.ErrorIs(t, l.SetPitchScale(2), ErrFaulted)
	require.ErrorIs(t, l.SetFormantOption(FormantPreserved), ErrFaulted)

	require.NoError(t, l.Reset())
	assert.False(t, l.Stats().Faulted)
	require.NoError(t, l.Shift(in, out))

	_ = l.fail(ErrResourceExhaustion)
	require.NoError(t, l.Close())
	require.ErrorIs(t, l.Shift(in, out), ErrUseAfterDispose)
}
