package main

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/tphakala/flac"

	"github.com/cwbudde/algo-stretch/dsp/stretch"
)

// clip is a decoded file held as one float32 slice per channel.
type clip struct {
	sampleRate int
	bitDepth   int
	channels   [][]float32
}

func (c *clip) frames() int {
	if len(c.channels) == 0 {
		return 0
	}
	return len(c.channels[0])
}

var errUnsupported = errors.New("unsupported audio format")

func readAudio(path string) (*clip, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".flac":
		return readFLAC(f)
	case ".wav", ".wave":
		return readWAV(f)
	default:
		return nil, fmt.Errorf("%s: %w", path, errUnsupported)
	}
}

func readWAV(r io.ReadSeeker) (*clip, error) {
	dec := wav.NewDecoder(r)
	dec.ReadInfo()
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("%w: not a valid WAV file", errUnsupported)
	}
	if dec.WavAudioFormat != 1 {
		return nil, fmt.Errorf("%w: WAV format tag %d, want PCM", errUnsupported, dec.WavAudioFormat)
	}
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, err
	}
	bits := int(dec.BitDepth)
	scale, err := sampleScale(bits)
	if err != nil {
		return nil, err
	}

	chans := int(dec.NumChans)
	interleaved := make([]float32, len(buf.Data))
	for i, v := range buf.Data {
		interleaved[i] = float32(float64(v) * scale)
	}
	data, err := stretch.Deinterleave(interleaved, chans)
	if err != nil {
		return nil, err
	}
	return &clip{sampleRate: int(dec.SampleRate), bitDepth: bits, channels: data}, nil
}

func readFLAC(f *os.File) (*clip, error) {
	dec, err := flac.NewDecoder(f)
	if err != nil {
		return nil, err
	}
	scale, err := sampleScale(dec.BitsPerSample)
	if err != nil {
		return nil, err
	}

	interleaved := make([]float32, 0, int(dec.TotalSamples)*dec.NChannels)
	for {
		frame, err := dec.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		interleaved = appendPCM(interleaved, frame, dec.BitsPerSample, scale)
	}
	data, err := stretch.Deinterleave(interleaved, dec.NChannels)
	if err != nil {
		return nil, err
	}
	return &clip{sampleRate: dec.SampleRate, bitDepth: dec.BitsPerSample, channels: data}, nil
}

func sampleScale(bits int) (float64, error) {
	switch bits {
	case 16, 24, 32:
		return 1 / float64(int64(1)<<(bits-1)), nil
	default:
		return 0, fmt.Errorf("%w: %d-bit samples", errUnsupported, bits)
	}
}

// appendPCM decodes little-endian signed PCM bytes into dst.
func appendPCM(dst []float32, pcm []byte, bits int, scale float64) []float32 {
	width := bits / 8
	for i := 0; i+width <= len(pcm); i += width {
		var v int32
		switch bits {
		case 16:
			v = int32(int16(binary.LittleEndian.Uint16(pcm[i:])))
		case 24:
			u := uint32(pcm[i]) | uint32(pcm[i+1])<<8 | uint32(pcm[i+2])<<16
			v = int32(u<<8) >> 8
		case 32:
			v = int32(binary.LittleEndian.Uint32(pcm[i:]))
		}
		dst = append(dst, float32(float64(v)*scale))
	}
	return dst
}

func writeWAV(path string, sampleRate, bitDepth int, data [][]float32) (err error) {
	if bitDepth != 16 && bitDepth != 24 {
		return fmt.Errorf("%w: cannot write %d-bit WAV", errUnsupported, bitDepth)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, f.Close())
	}()

	peak := float64(int64(1)<<(bitDepth-1)) - 1
	interleaved := stretch.Interleave(data)
	ints := make([]int, len(interleaved))
	for i, v := range interleaved {
		s := math.Round(float64(v) * peak)
		ints[i] = int(max(-peak-1, min(peak, s)))
	}

	enc := wav.NewEncoder(f, sampleRate, bitDepth, len(data), 1)
	buf := &audio.IntBuffer{
		Data:           ints,
		Format:         &audio.Format{SampleRate: sampleRate, NumChannels: len(data)},
		SourceBitDepth: bitDepth,
	}
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	return enc.Close()
}
