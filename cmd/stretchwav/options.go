package main

import (
	"fmt"
	"math"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-stretch/dsp/stretch"
)

func addPitchFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.Float64("pitch", 1, "pitch scale (frequency multiplier)")
	f.Float64("semitones", 0, "pitch shift in semitones, overrides --pitch")
	f.Bool("formant", false, "preserve formants while shifting")
	f.Bool("mid-side", false, "process a stereo pair as mid/side")
	f.String("window", "standard", "analysis window: standard, short or long")
}

func addStretchFlags(cmd *cobra.Command) {
	addPitchFlags(cmd)
	f := cmd.Flags()
	f.Float64("ratio", 1, "time ratio, output duration / input duration")
	f.String("engine", "faster", "engine: faster or finer")
	f.String("transients", "crisp", "transient handling: crisp, mixed or smooth")
	f.String("detector", "compound", "onset detector: compound, percussive or soft")
	f.String("threads", "auto", "per-channel threading: auto, never or always")
	f.String("interpolation", "speed", "output interpolation: speed, quality or consistency")
	f.Bool("realtime", false, "use realtime mode instead of offline")
	f.Bool("independent-phase", false, "disable phase locking")
	f.Bool("smoothing", false, "smooth magnitudes across frames")
}

// pitchScale resolves --semitones and --pitch into a frequency multiplier.
func (a *app) pitchScale() float64 {
	if st := a.v.GetFloat64("semitones"); st != 0 {
		return math.Pow(2, st/12)
	}
	return a.v.GetFloat64("pitch")
}

func (a *app) stretchOptions() (stretch.Options, error) {
	var (
		o   stretch.Options
		err error
	)
	if o.Window, err = stretch.ParseWindow(a.v.GetString("window")); err != nil {
		return o, err
	}
	if o.Engine, err = stretch.ParseEngine(a.v.GetString("engine")); err != nil {
		return o, err
	}
	if o.Transients, err = stretch.ParseTransients(a.v.GetString("transients")); err != nil {
		return o, err
	}
	if o.Detector, err = stretch.ParseDetector(a.v.GetString("detector")); err != nil {
		return o, err
	}
	if o.Threading, err = stretch.ParseThreading(a.v.GetString("threads")); err != nil {
		return o, err
	}
	if o.Pitch, err = stretch.ParsePitchMode(a.v.GetString("interpolation")); err != nil {
		return o, err
	}
	if a.v.GetBool("realtime") {
		o.Process = stretch.ProcessRealTime
	}
	if a.v.GetBool("independent-phase") {
		o.Phase = stretch.PhaseIndependent
	}
	if a.v.GetBool("smoothing") {
		o.Smoothing = stretch.SmoothingOn
	}
	if a.v.GetBool("formant") {
		o.Formant = stretch.FormantPreserved
	}
	if a.v.GetBool("mid-side") {
		o.Channels = stretch.ChannelsTogether
	}
	return o, nil
}

func (a *app) liveOptions() (stretch.LiveOptions, error) {
	var o stretch.LiveOptions
	w, err := stretch.ParseWindow(a.v.GetString("window"))
	if err != nil {
		return o, err
	}
	o.Window = w
	if a.v.GetBool("formant") {
		o.Formant = stretch.FormantPreserved
	}
	if a.v.GetBool("mid-side") {
		o.Channels = stretch.ChannelsTogether
	}
	if err := o.Validate(); err != nil {
		return o, fmt.Errorf("shift: %w", err)
	}
	return o, nil
}
