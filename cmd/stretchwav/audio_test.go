package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendPCM(t *testing.T) {
	tests := []struct {
		name string
		bits int
		pcm  []byte
		want float32
	}{
		{name: "16 bit negative one", bits: 16, pcm: []byte{0x00, 0x80}, want: -1},
		{name: "16 bit half", bits: 16, pcm: []byte{0x00, 0x40}, want: 0.5},
		{name: "24 bit minus lsb", bits: 24, pcm: []byte{0xff, 0xff, 0xff}, want: -1.0 / (1 << 23)},
		{name: "24 bit negative one", bits: 24, pcm: []byte{0x00, 0x00, 0x80}, want: -1},
		{name: "24 bit half", bits: 24, pcm: []byte{0x00, 0x00, 0x40}, want: 0.5},
		{name: "32 bit quarter", bits: 32, pcm: []byte{0x00, 0x00, 0x00, 0x20}, want: 0.25},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scale, err := sampleScale(tt.bits)
			require.NoError(t, err)
			got := appendPCM(nil, tt.pcm, tt.bits, scale)
			require.Len(t, got, 1)
			assert.InDelta(t, tt.want, got[0], 1e-9)
		})
	}
}

func TestSampleScaleRejects8Bit(t *testing.T) {
	_, err := sampleScale(8)
	require.ErrorIs(t, err, errUnsupported)
}

func TestWAVRoundTrip24Bit(t *testing.T) {
	dir := t.TempDir()
	path := writeTestWAV(t, dir, "st.wav", 2, 1234, 24)
	c, err := readAudio(path)
	require.NoError(t, err)
	require.Len(t, c.channels, 2)
	assert.Equal(t, 1234, c.frames())
	assert.Equal(t, 24, c.bitDepth)
	assert.Equal(t, testRate, c.sampleRate)
}

func TestReadAudioUnsupportedExtension(t *testing.T) {
	_, err := readAudio(filepath.Join(t.TempDir(), "song.mp3"))
	require.Error(t, err)
}

func TestWriteWAVRejectsDepth(t *testing.T) {
	err := writeWAV(filepath.Join(t.TempDir(), "x.wav"), testRate, 12, [][]float32{{0}})
	require.ErrorIs(t, err, errUnsupported)
}

func TestOutputPath(t *testing.T) {
	assert.Equal(t, "out.wav", outputPath("out.wav", "in.flac", false))
	assert.Equal(t, filepath.Join("dir", "in.wav"), outputPath("dir", "a/in.flac", false))
	assert.Equal(t, filepath.Join("x.wav", "in.wav"), outputPath("x.wav", "in.flac", true))
}
