package stretch

import (
	"fmt"
	"strings"
)

// ProcessMode selects offline (exact length, two-pass capable) or
// realtime (streaming) processing.
type ProcessMode int

const (
	ProcessOffline ProcessMode = iota
	ProcessRealTime
)

// StretchMode is accepted for compatibility. Scheduling is always
// sample-accurate.
type StretchMode int

const (
	StretchElastic StretchMode = iota
	StretchPrecise
)

// Transients selects how phases are treated at detected onsets.
type Transients int

const (
	// TransientsCrisp resets every bin at an onset.
	TransientsCrisp Transients = iota
	// TransientsMixed resets only bins outside the main pitched band.
	TransientsMixed
	// TransientsSmooth never resets.
	TransientsSmooth
)

// Detector selects the onset detection function.
type Detector int

const (
	DetectorCompound Detector = iota
	DetectorPercussive
	DetectorSoft
)

// Phase selects whether bin phases are locked to their spectral peak.
type Phase int

const (
	PhaseLaminar Phase = iota
	PhaseIndependent
)

// Threading selects whether channels are processed on worker goroutines.
type Threading int

const (
	ThreadingAuto Threading = iota
	ThreadingNever
	ThreadingAlways
)

// Window selects the analysis window length.
type Window int

const (
	WindowStandard Window = iota
	WindowShort
	WindowLong
)

// Smoothing enables magnitude smoothing across frames.
type Smoothing int

const (
	SmoothingOff Smoothing = iota
	SmoothingOn
)

// Formant selects whether the spectral envelope follows the pitch shift.
type Formant int

const (
	FormantShifted Formant = iota
	FormantPreserved
)

// PitchMode selects the output interpolation used for pitch shifting.
type PitchMode int

const (
	PitchHighSpeed PitchMode = iota
	PitchHighQuality
	PitchHighConsistency
)

// Channels selects whether a stereo pair is processed as mid/side.
type Channels int

const (
	ChannelsApart Channels = iota
	ChannelsTogether
)

// Engine selects the processing engine variant.
type Engine int

const (
	EngineFaster Engine = iota
	EngineFiner
)

var (
	processNames   = []string{"offline", "realtime"}
	stretchNames   = []string{"elastic", "precise"}
	transientNames = []string{"crisp", "mixed", "smooth"}
	detectorNames  = []string{"compound", "percussive", "soft"}
	phaseNames     = []string{"laminar", "independent"}
	threadingNames = []string{"auto", "never", "always"}
	windowNames    = []string{"standard", "short", "long"}
	smoothingNames = []string{"off", "on"}
	formantNames   = []string{"shifted", "preserved"}
	pitchModeNames = []string{"speed", "quality", "consistency"}
	channelsNames  = []string{"apart", "together"}
	engineNames    = []string{"faster", "finer"}
)

func enumName(names []string, v int, typ string) string {
	if v >= 0 && v < len(names) {
		return names[v]
	}
	return fmt.Sprintf("%s(%d)", typ, v)
}

// String returns the lower-case name used by the Parse functions.
func (v ProcessMode) String() string { return enumName(processNames, int(v), "ProcessMode") }
func (v StretchMode) String() string { return enumName(stretchNames, int(v), "StretchMode") }
func (v Transients) String() string  { return enumName(transientNames, int(v), "Transients") }
func (v Detector) String() string    { return enumName(detectorNames, int(v), "Detector") }
func (v Phase) String() string       { return enumName(phaseNames, int(v), "Phase") }
func (v Threading) String() string   { return enumName(threadingNames, int(v), "Threading") }
func (v Window) String() string      { return enumName(windowNames, int(v), "Window") }
func (v Smoothing) String() string   { return enumName(smoothingNames, int(v), "Smoothing") }
func (v Formant) String() string     { return enumName(formantNames, int(v), "Formant") }
func (v PitchMode) String() string   { return enumName(pitchModeNames, int(v), "PitchMode") }
func (v Channels) String() string    { return enumName(channelsNames, int(v), "Channels") }
func (v Engine) String() string      { return enumName(engineNames, int(v), "Engine") }

// ParseTransients maps a transients name back to its value. The Parse
// functions accept the names returned by String.
func ParseTransients(s string) (Transients, error) {
	v, err := parseEnum(transientNames, s, "transients")
	return Transients(v), err
}

// ParseDetector maps a detector name to its value.
func ParseDetector(s string) (Detector, error) {
	v, err := parseEnum(detectorNames, s, "detector")
	return Detector(v), err
}

// ParseWindow maps a window name to its value.
func ParseWindow(s string) (Window, error) {
	v, err := parseEnum(windowNames, s, "window")
	return Window(v), err
}

// ParseEngine maps an engine name to its value.
func ParseEngine(s string) (Engine, error) {
	v, err := parseEnum(engineNames, s, "engine")
	return Engine(v), err
}

// ParseThreading maps a threading name to its value.
func ParseThreading(s string) (Threading, error) {
	v, err := parseEnum(threadingNames, s, "threading")
	return Threading(v), err
}

// ParsePitchMode maps a pitch mode name to its value.
func ParsePitchMode(s string) (PitchMode, error) {
	v, err := parseEnum(pitchModeNames, s, "pitch mode")
	return PitchMode(v), err
}

func parseEnum(names []string, s, what string) (int, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, n := range names {
		if n == s {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown %s %q (want one of %s)",
		ErrInvalidParameter, what, s, strings.Join(names, ", "))
}

// Options is the construction-time option set. The zero value selects
// every default.
type Options struct {
	Process    ProcessMode
	Stretch    StretchMode
	Transients Transients
	Detector   Detector
	Phase      Phase
	Threading  Threading
	Window     Window
	Smoothing  Smoothing
	Formant    Formant
	Pitch      PitchMode
	Channels   Channels
	Engine     Engine
}

// DefaultOptions returns the default offline option set.
func DefaultOptions() Options { return Options{} }

// RealTimeOptions returns the defaults with realtime processing.
func RealTimeOptions() Options { return Options{Process: ProcessRealTime} }

// Validate rejects values outside their group.
func (o Options) Validate() error {
	for _, g := range flagGroups {
		v := g.get(o)
		if v < 0 || v > len(g.bits) {
			return fmt.Errorf("%w: %s option out of range: %d", ErrConstructionFailure, g.name, v)
		}
	}
	return nil
}

// String lists every option group by name.
func (o Options) String() string {
	return fmt.Sprintf("%v/%v transients=%v detector=%v phase=%v threads=%v window=%v smoothing=%v formant=%v pitch=%v channels=%v engine=%v",
		o.Process, o.Stretch, o.Transients, o.Detector, o.Phase, o.Threading,
		o.Window, o.Smoothing, o.Formant, o.Pitch, o.Channels, o.Engine)
}

// LiveOptions is the reduced option set accepted by LiveShifter.
type LiveOptions struct {
	// Window accepts WindowStandard or WindowShort.
	Window   Window
	Channels Channels
	Formant  Formant
}

// Validate rejects values the live shifter does not support.
func (o LiveOptions) Validate() error {
	if o.Window != WindowStandard && o.Window != WindowShort {
		return fmt.Errorf("%w: live shifter window must be standard or short: %v", ErrConstructionFailure, o.Window)
	}
	if o.Channels != ChannelsApart && o.Channels != ChannelsTogether {
		return fmt.Errorf("%w: channels option out of range: %d", ErrConstructionFailure, o.Channels)
	}
	if o.Formant != FormantShifted && o.Formant != FormantPreserved {
		return fmt.Errorf("%w: formant option out of range: %d", ErrConstructionFailure, o.Formant)
	}
	return nil
}
