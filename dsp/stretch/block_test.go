package stretch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestView(t *testing.T) {
	buf := [][]float32{{0, 1, 2, 3, 4}, {5, 6, 7, 8, 9}}
	v, err := View(buf, 1, 3)
	require.NoError(t, err)
	assert.Equal(t, [][]float32{{1, 2, 3}, {6, 7, 8}}, v)

	v[0][0] = 42
	assert.InDelta(t, 42, buf[0][1], 0)
	assert.Equal(t, 3, cap(v[1]))

	_, err = View(buf, 3, 3)
	require.ErrorIs(t, err, ErrInvalidParameter)
	_, err = View(buf, -1, 1)
	require.ErrorIs(t, err, ErrInvalidParameter)
}

func TestInterleaveRoundTrip(t *testing.T) {
	for _, channels := range []int{1, 2, 3} {
		in := make([]float32, channels*7)
		for i := range in {
			in[i] = float32(i)
		}
		block, err := Deinterleave(in, channels)
		require.NoError(t, err)
		require.Len(t, block, channels)
		assert.InDelta(t, float32(channels), block[0][1], 0)
		assert.Equal(t, in, Interleave(block))
	}

	_, err := Deinterleave(make([]float32, 5), 2)
	require.ErrorIs(t, err, ErrChannelCountMismatch)
	assert.Nil(t, Interleave(nil))
}
