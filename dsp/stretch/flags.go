package stretch

import "fmt"

// Flags is the bit-set form of Options. Bit values are part of the
// public contract and never change.
type Flags uint32

const (
	FlagRealTime             Flags = 0x00000001
	FlagPrecise              Flags = 0x00000010
	FlagTransientsMixed      Flags = 0x00000100
	FlagTransientsSmooth     Flags = 0x00000200
	FlagDetectorPercussive   Flags = 0x00000400
	FlagDetectorSoft         Flags = 0x00000800
	FlagPhaseIndependent     Flags = 0x00002000
	FlagThreadingNever       Flags = 0x00010000
	FlagThreadingAlways      Flags = 0x00020000
	FlagWindowShort          Flags = 0x00100000
	FlagWindowLong           Flags = 0x00200000
	FlagSmoothingOn          Flags = 0x00800000
	FlagFormantPreserved     Flags = 0x01000000
	FlagPitchHighQuality     Flags = 0x02000000
	FlagPitchHighConsistency Flags = 0x04000000
	FlagChannelsTogether     Flags = 0x10000000
	FlagEngineFiner          Flags = 0x20000000
)

// flagGroup describes one mutually exclusive option group. bits[i] is
// the flag of enum value i+1; value 0 is the default and has no bit.
type flagGroup struct {
	name string
	bits []Flags
	get  func(Options) int
	set  func(*Options, int)
}

func (g flagGroup) mask() Flags {
	var m Flags
	for _, b := range g.bits {
		m |= b
	}
	return m
}

var flagGroups = []flagGroup{
	{"process", []Flags{FlagRealTime},
		func(o Options) int { return int(o.Process) }, func(o *Options, v int) { o.Process = ProcessMode(v) }},
	{"stretch", []Flags{FlagPrecise},
		func(o Options) int { return int(o.Stretch) }, func(o *Options, v int) { o.Stretch = StretchMode(v) }},
	{"transients", []Flags{FlagTransientsMixed, FlagTransientsSmooth},
		func(o Options) int { return int(o.Transients) }, func(o *Options, v int) { o.Transients = Transients(v) }},
	{"detector", []Flags{FlagDetectorPercussive, FlagDetectorSoft},
		func(o Options) int { return int(o.Detector) }, func(o *Options, v int) { o.Detector = Detector(v) }},
	{"phase", []Flags{FlagPhaseIndependent},
		func(o Options) int { return int(o.Phase) }, func(o *Options, v int) { o.Phase = Phase(v) }},
	{"threading", []Flags{FlagThreadingNever, FlagThreadingAlways},
		func(o Options) int { return int(o.Threading) }, func(o *Options, v int) { o.Threading = Threading(v) }},
	{"window", []Flags{FlagWindowShort, FlagWindowLong},
		func(o Options) int { return int(o.Window) }, func(o *Options, v int) { o.Window = Window(v) }},
	{"smoothing", []Flags{FlagSmoothingOn},
		func(o Options) int { return int(o.Smoothing) }, func(o *Options, v int) { o.Smoothing = Smoothing(v) }},
	{"formant", []Flags{FlagFormantPreserved},
		func(o Options) int { return int(o.Formant) }, func(o *Options, v int) { o.Formant = Formant(v) }},
	{"pitch", []Flags{FlagPitchHighQuality, FlagPitchHighConsistency},
		func(o Options) int { return int(o.Pitch) }, func(o *Options, v int) { o.Pitch = PitchMode(v) }},
	{"channels", []Flags{FlagChannelsTogether},
		func(o Options) int { return int(o.Channels) }, func(o *Options, v int) { o.Channels = Channels(v) }},
	{"engine", []Flags{FlagEngineFiner},
		func(o Options) int { return int(o.Engine) }, func(o *Options, v int) { o.Engine = Engine(v) }},
}

var knownFlags = func() Flags {
	var m Flags
	for _, g := range flagGroups {
		m |= g.mask()
	}
	return m
}()

// ParseFlags converts a bit-set into Options. Unknown bits and two values
// from the same group fail with ErrConstructionFailure.
func ParseFlags(f Flags) (Options, error) {
	if unknown := f &^ knownFlags; unknown != 0 {
		return Options{}, fmt.Errorf("%w: unknown option bits %#x", ErrConstructionFailure, uint32(unknown))
	}
	var o Options
	for _, g := range flagGroups {
		value := 0
		for i, b := range g.bits {
			if f&b == 0 {
				continue
			}
			if value != 0 {
				return Options{}, fmt.Errorf("%w: conflicting %s options %#x", ErrConstructionFailure, g.name, uint32(f&g.mask()))
			}
			value = i + 1
		}
		g.set(&o, value)
	}
	return o, nil
}

// Flags converts o to its bit-set form. Out-of-range fields contribute
// no bits; Validate reports them.
func (o Options) Flags() Flags {
	var f Flags
	for _, g := range flagGroups {
		if v := g.get(o); v > 0 && v <= len(g.bits) {
			f |= g.bits[v-1]
		}
	}
	return f
}
