package stretch_test

import (
	"context"
	"fmt"
	"math"

	"github.com/cwbudde/algo-stretch/dsp/stretch"
)

func ExampleStretchBuffer() {
	in := make([]float32, 44100)
	for i := range in {
		in[i] = float32(0.5 * math.Sin(2*math.Pi*220*float64(i)/44100))
	}

	out, err := stretch.StretchBuffer(context.Background(), [][]float32{in}, 44100, 1.5, 1, stretch.DefaultOptions())
	if err != nil {
		panic(err)
	}

	fmt.Println(len(out[0]))
	// Output: 66150
}

func ExampleStretcher() {
	s, err := stretch.New(48000, 2, stretch.RealTimeOptions(), 1, 1)
	if err != nil {
		panic(err)
	}
	defer s.Close()

	fmt.Println("pad:", s.PreferredStartPad())
	fmt.Println("delay:", s.StartDelay())
	fmt.Println("needs:", s.SamplesRequired())
	// Output:
	// pad: 1024
	// delay: 1024
	// needs: 2048
}

func ExampleParseFlags() {
	opts, err := stretch.ParseFlags(stretch.FlagRealTime | stretch.FlagWindowShort | stretch.FlagEngineFiner)
	if err != nil {
		panic(err)
	}
	fmt.Println(opts.Process, opts.Window, opts.Engine)
	// Output: realtime short finer
}

func ExampleLiveShifter() {
	l, err := stretch.NewLiveShifter(44100, 1, stretch.LiveOptions{})
	if err != nil {
		panic(err)
	}
	defer l.Close()

	_ = l.SetPitchScale(math.Pow(2, 7.0/12))

	in, out := stretch.NewBlock(1, l.BlockSize()), stretch.NewBlock(1, l.BlockSize())
	if err := l.Shift(in, out); err != nil {
		panic(err)
	}
	fmt.Println(l.BlockSize(), l.StartDelay())
	// Output: 512 918
}
