package stretch

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/klauspost/cpuid/v2"

	"github.com/cwbudde/algo-stretch/dsp/stretch/internal/workers"
)

// EndOfStream is returned by Available once the final block has been
// processed and every output frame retrieved.
const EndOfStream = -1

// Stretcher changes the duration and pitch of a multichannel stream.
//
// Offline mode produces exactly round(T(total input)) frames with no
// start delay, where T is the time ratio or keyframe timeline, and may be
// preceded by a study pass. Realtime mode streams with a fixed latency
// reported by StartDelay.
//
// A Stretcher is not safe for concurrent use, except for Stats.
type Stretcher struct {
	log        *slog.Logger
	sampleRate int
	channels   int
	opts       Options
	ratio      float64
	pitch      float64
	geo        geometry

	eng       *engine
	pool      *workers.Pool
	study     *studier
	profile   *onsetProfile
	keyframes *KeyFrameMap

	state      State
	fault      error
	maxProcess int
	expected   int64
	stats      counters
}

// New builds a Stretcher for the given format, options and initial
// parameters.
func New(sampleRate, channels int, opts Options, timeRatio, pitchScale float64, options ...Option) (*Stretcher, error) {
	cfg := applyOptions(options)
	if err := validateFormat(sampleRate, channels); err != nil {
		return nil, fmt.Errorf("stretcher: %w", err)
	}
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("stretcher: %w", err)
	}
	if !validRatio(timeRatio) {
		return nil, fmt.Errorf("stretcher: %w: time ratio %v", ErrConstructionFailure, timeRatio)
	}
	if !validPitch(pitchScale) {
		return nil, fmt.Errorf("stretcher: %w: pitch scale %v", ErrConstructionFailure, pitchScale)
	}

	s := &Stretcher{
		log:        cfg.logger.With("component", "stretcher"),
		sampleRate: sampleRate,
		channels:   channels,
		opts:       opts,
		ratio:      timeRatio,
		pitch:      pitchScale,
		geo:        stretcherGeometry(sampleRate, opts.Window, opts.Engine),
		maxProcess: cfg.maxProcessSize,
	}
	if n := workerCount(opts, channels, cfg.workers); n > 1 {
		s.pool = workers.New(n)
	}

	pad := 0
	if s.offline() {
		pad = s.geo.frameSize / 2
	}
	eng, err := newEngine(engineParams{
		sampleRate: sampleRate,
		channels:   channels,
		geo:        s.geo,
		offline:    s.offline(),
		midSide:    opts.Channels == ChannelsTogether,
		pad:        pad,
		skip:       pad,
		k:          kernelFor(opts),
		ratio:      timeRatio,
		pitch:      pitchScale,
		pool:       s.pool,
		log:        s.log,
	})
	if err != nil {
		s.pool.Close()
		return nil, fmt.Errorf("stretcher: %w: %w", ErrConstructionFailure, err)
	}
	s.eng = eng
	s.eng.grow(2*s.maxProcess, 8*s.maxProcess)
	s.stats.startDelay.Store(int64(s.StartDelay()))

	s.log.Debug("created",
		"sample_rate", sampleRate,
		"channels", channels,
		"options", opts.String(),
		"frame_size", s.geo.frameSize,
		"hop", s.geo.hop,
		"workers", s.pool.Size(),
		"ratio", timeRatio,
		"pitch", pitchScale)
	return s, nil
}

func validateFormat(sampleRate, channels int) error {
	if sampleRate < minSampleRate || sampleRate > maxSampleRate {
		return fmt.Errorf("%w: sample rate %d outside [%d, %d]",
			ErrConstructionFailure, sampleRate, minSampleRate, maxSampleRate)
	}
	if channels < 1 || channels > maxChannels {
		return fmt.Errorf("%w: channel count %d outside [1, %d]", ErrConstructionFailure, channels, maxChannels)
	}
	return nil
}

func validRatio(r float64) bool {
	return r > 0 && !math.IsInf(r, 0) && !math.IsNaN(r)
}

func validPitch(p float64) bool {
	return p >= minPitchScale && p <= maxPitchScale
}

// workerCount decides how many goroutines share the channel work.
func workerCount(opts Options, channels, limit int) int {
	if channels < 2 {
		return 0
	}
	var n int
	switch opts.Threading {
	case ThreadingAlways:
		n = channels
	case ThreadingAuto:
		if opts.Process != ProcessOffline || cpuid.CPU.LogicalCores < 2 {
			return 0
		}
		n = min(channels, cpuid.CPU.LogicalCores)
	default:
		return 0
	}
	if limit > 0 {
		n = min(n, limit)
	}
	return n
}

func (s *Stretcher) offline() bool { return s.opts.Process == ProcessOffline }

func (s *Stretcher) check() error {
	if s.state == StateDisposed {
		return fmt.Errorf("stretcher: %w", ErrUseAfterDispose)
	}
	if s.fault != nil {
		return fmt.Errorf("stretcher: %w: %w", ErrFaulted, s.fault)
	}
	return nil
}

func (s *Stretcher) fail(err error) error {
	s.fault = err
	s.stats.faulted.Store(true)
	s.log.Error("faulted", "state", s.state, "err", err)
	return fmt.Errorf("stretcher: %w", err)
}

func (s *Stretcher) setState(st State) {
	if st == s.state {
		return
	}
	s.log.Debug("state", "from", s.state, "to", st)
	s.state = st
	s.stats.state.Store(int32(st))
}

// SetTimeRatio changes the output/input duration ratio. While
// processing, the change applies from the current input position on.
func (s *Stretcher) SetTimeRatio(r float64) error {
	if err := s.check(); err != nil {
		return err
	}
	if !validRatio(r) {
		return fmt.Errorf("stretcher: %w: time ratio %v", ErrInvalidParameter, r)
	}
	s.ratio = r
	if s.state.started() {
		s.eng.setRatio(r)
	}
	return nil
}

// SetPitchScale changes the frequency multiplier, in [1/8, 8]. It takes
// effect from the next frame.
func (s *Stretcher) SetPitchScale(p float64) error {
	if err := s.check(); err != nil {
		return err
	}
	if !validPitch(p) {
		return fmt.Errorf("stretcher: %w: pitch scale %v outside [%v, %v]",
			ErrInvalidParameter, p, minPitchScale, maxPitchScale)
	}
	s.pitch = p
	s.eng.pitch = p
	s.stats.startDelay.Store(int64(s.StartDelay()))
	return nil
}

// SetFormantScale sets the envelope scale used with FormantPreserved.
// Zero selects 1/pitch.
func (s *Stretcher) SetFormantScale(f float64) error {
	if err := s.check(); err != nil {
		return err
	}
	if f < 0 || math.IsInf(f, 0) || math.IsNaN(f) {
		return fmt.Errorf("stretcher: %w: formant scale %v", ErrInvalidParameter, f)
	}
	s.eng.k.formantScale = f
	return nil
}

// ChannelCount returns the number of channels per block.
func (s *Stretcher) ChannelCount() int { return s.channels }

// TimeRatio returns the current output/input duration ratio.
func (s *Stretcher) TimeRatio() float64 { return s.ratio }

// PitchScale returns the current frequency multiplier.
func (s *Stretcher) PitchScale() float64 { return s.pitch }

// Options returns the options in effect, including runtime changes.
func (s *Stretcher) Options() Options { return s.opts }

// State returns the lifecycle state.
func (s *Stretcher) State() State { return s.state }

// Stats returns a snapshot of the counters. It is safe to call from any
// goroutine.
func (s *Stretcher) Stats() Stats { return s.stats.snapshot() }

// ProcessSizeLimit returns the largest value SetMaxProcessSize accepts
// without clamping.
func (s *Stretcher) ProcessSizeLimit() int { return processSizeLimit }

// FormantScale returns the envelope scale; 0 means 1/pitch.
func (s *Stretcher) FormantScale() float64 {
	if s.eng == nil {
		return 0
	}
	return s.eng.k.formantScale
}

// EngineVersion reports 2 for the faster engine and 3 for the finer one.
func (s *Stretcher) EngineVersion() int {
	if s.opts.Engine == EngineFiner {
		return 3
	}
	return 2
}

// PreferredStartPad is the number of leading zeros a realtime caller
// should feed so the first real input frame is fully analysed.
func (s *Stretcher) PreferredStartPad() int {
	if s.offline() {
		return 0
	}
	return s.geo.frameSize / 2
}

// StartDelay is the number of leading output frames to drop after
// feeding PreferredStartPad zeros. Offline output is already aligned.
func (s *Stretcher) StartDelay() int {
	if s.offline() {
		return 0
	}
	return int(math.Round(float64(s.geo.frameSize) / 2 / s.pitch))
}

// Latency is StartDelay.
func (s *Stretcher) Latency() int { return s.StartDelay() }

// SetTransientsOption selects how onsets reset phases. It applies from
// the next frame.
func (s *Stretcher) SetTransientsOption(v Transients) error {
	return s.setOption("transients", int(v), len(transientNames), func() {
		s.opts.Transients = v
		s.eng.k.transients = v
	})
}

// SetDetectorOption selects the onset detector.
func (s *Stretcher) SetDetectorOption(v Detector) error {
	return s.setOption("detector", int(v), len(detectorNames), func() {
		s.opts.Detector = v
		s.eng.k.detector = v
	})
}

// SetPhaseOption selects laminar or independent phase advance.
func (s *Stretcher) SetPhaseOption(v Phase) error {
	return s.setOption("phase", int(v), len(phaseNames), func() {
		s.opts.Phase = v
		s.eng.k.phase = v
	})
}

// SetFormantOption selects whether the spectral envelope follows the
// pitch shift.
func (s *Stretcher) SetFormantOption(v Formant) error {
	return s.setOption("formant", int(v), len(formantNames), func() {
		s.opts.Formant = v
		s.eng.k.formant = v
	})
}

// SetPitchOption selects the output interpolation kernel.
func (s *Stretcher) SetPitchOption(v PitchMode) error {
	return s.setOption("pitch", int(v), len(pitchModeNames), func() {
		s.opts.Pitch = v
		s.eng.k.pitch = v
	})
}

func (s *Stretcher) setOption(name string, v, count int, apply func()) error {
	if err := s.check(); err != nil {
		return err
	}
	if v < 0 || v >= count {
		return fmt.Errorf("stretcher: %w: %s option out of range: %d", ErrInvalidParameter, name, v)
	}
	apply()
	return nil
}

// SetExpectedInputDuration hints the total input length so buffers can
// be sized up front. It never changes the output.
func (s *Stretcher) SetExpectedInputDuration(frames int64) error {
	if err := s.check(); err != nil {
		return err
	}
	if frames < 0 {
		return fmt.Errorf("stretcher: %w: expected duration %d", ErrInvalidParameter, frames)
	}
	s.expected = frames
	if s.offline() {
		est := math.Round(float64(frames) * s.ratio)
		s.eng.grow(0, int(min(est, 1<<20)))
	}
	return nil
}

// SetMaxProcessSize sets the largest chunk Process handles at once.
// Values above ProcessSizeLimit are clamped.
func (s *Stretcher) SetMaxProcessSize(n int) error {
	if err := s.check(); err != nil {
		return err
	}
	if n < 1 {
		return fmt.Errorf("stretcher: %w: max process size %d", ErrInvalidParameter, n)
	}
	if n > processSizeLimit {
		s.log.Warn("max process size clamped", "requested", n, "limit", processSizeLimit)
		n = processSizeLimit
	}
	s.maxProcess = n
	s.eng.grow(2*n, 8*n)
	return nil
}

// SamplesRequired reports how many more input frames are needed before
// output can be produced. It is 0 while output is available.
func (s *Stretcher) SamplesRequired() int {
	if s.check() != nil {
		return 0
	}
	return s.eng.samplesRequired()
}

// SetKeyFrameMap replaces the timeline anchors. Offline only, and only
// before processing starts. A nil or empty map clears it.
func (s *Stretcher) SetKeyFrameMap(m *KeyFrameMap) error {
	if err := s.check(); err != nil {
		return err
	}
	if !s.offline() {
		return fmt.Errorf("stretcher: keyframe map: %w", ErrModeMismatch)
	}
	if s.state.started() {
		return fmt.Errorf("stretcher: keyframe map: %w", ErrPhaseAlreadyClosed)
	}
	if m.Len() == 0 {
		s.keyframes = nil
		return nil
	}
	s.keyframes = &KeyFrameMap{frames: m.Frames()}
	return nil
}

// Study feeds a block to the study pass. Offline only.
func (s *Stretcher) Study(in [][]float32, final bool) error {
	if err := s.check(); err != nil {
		return err
	}
	if !s.offline() {
		return fmt.Errorf("stretcher: study: %w", ErrModeMismatch)
	}
	if !s.state.canStudy() {
		return fmt.Errorf("stretcher: study in state %v: %w", s.state, ErrPhaseAlreadyClosed)
	}
	if _, err := blockFrames(in, s.channels); err != nil {
		return fmt.Errorf("stretcher: study: %w", err)
	}
	if s.study == nil {
		st, err := newStudier(s.sampleRate, s.geo, s.eng.k.detectorKind())
		if err != nil {
			return s.fail(err)
		}
		s.study = st
		s.setState(StateStudying)
	}
	if err := s.study.write(in); err != nil {
		return s.fail(err)
	}
	if final {
		return s.closeStudy()
	}
	return nil
}

func (s *Stretcher) closeStudy() error {
	profile, err := s.study.finish()
	if err != nil {
		return s.fail(err)
	}
	s.profile = profile
	s.study = nil
	s.log.Debug("study complete", "frames", profile.frames, "onsets", len(profile.onsets))
	s.setState(StateStudied)
	return nil
}

// Process feeds a block to the stretcher. Final marks the end of input.
func (s *Stretcher) Process(in [][]float32, final bool) error {
	if err := s.check(); err != nil {
		return err
	}
	if !s.state.canProcess() {
		return fmt.Errorf("stretcher: process in state %v: %w", s.state, ErrPhaseAlreadyClosed)
	}
	n, err := blockFrames(in, s.channels)
	if err != nil {
		return fmt.Errorf("stretcher: process: %w", err)
	}
	if s.state == StateStudying {
		s.log.Warn("process called during study; closing study pass")
		if err := s.closeStudy(); err != nil {
			return err
		}
	}
	if !s.state.started() {
		s.begin()
	}

	for off := 0; off < n; off += s.maxProcess {
		m := min(s.maxProcess, n-off)
		s.eng.write(in, off, m)
		if err := s.eng.advance(); err != nil {
			return s.fail(err)
		}
	}
	if final {
		s.checkLength()
		if err := s.eng.finish(); err != nil {
			return s.fail(err)
		}
		if s.eng.buffered() > 0 {
			s.setState(StateDraining)
		} else {
			s.setState(StateFinished)
		}
	}
	s.stats.observe(s.eng)
	return nil
}

// begin builds the timeline from the ratio current at the first
// processed block. Keyframes and the study profile exist offline only.
func (s *Stretcher) begin() {
	s.eng.tl = newTimeline(s.ratio, s.keyframes)
	if s.offline() {
		s.eng.profile = s.profile
	}
	s.setState(StateProcessing)
}

func (s *Stretcher) checkLength() {
	got := s.eng.input
	switch {
	case s.profile != nil && s.profile.frames != got:
		s.log.Warn("processed length differs from studied length", "studied", s.profile.frames, "processed", got)
	case s.expected > 0 && s.expected != got:
		s.log.Debug("processed length differs from expected duration", "expected", s.expected, "processed", got)
	}
}

// Available returns the number of frames ready to retrieve, or
// EndOfStream once the stream is finished and fully drained.
func (s *Stretcher) Available() (int, error) {
	if err := s.check(); err != nil {
		return 0, err
	}
	b := s.eng.buffered()
	if b == 0 && s.state >= StateDraining {
		s.setState(StateFinished)
		return EndOfStream, nil
	}
	return b, nil
}

// Retrieve copies up to len(out[0]) frames into out and returns the
// number copied. It never blocks.
func (s *Stretcher) Retrieve(out [][]float32) (int, error) {
	if err := s.check(); err != nil {
		return 0, err
	}
	if _, err := blockFrames(out, s.channels); err != nil {
		return 0, fmt.Errorf("stretcher: retrieve: %w", err)
	}
	n := s.eng.read(out)
	s.stats.retrieved.Add(int64(n))
	s.stats.buffered.Store(int64(s.eng.buffered()))
	if s.state == StateDraining && s.eng.buffered() == 0 {
		s.setState(StateFinished)
	}
	return n, nil
}

// Reset returns to the configured state, keeping ratio, pitch and
// options. Keyframes and the study profile are cleared, and a fault is
// lifted.
func (s *Stretcher) Reset() error {
	if s.state == StateDisposed {
		return fmt.Errorf("stretcher: %w", ErrUseAfterDispose)
	}
	s.eng.reset(s.ratio)
	s.study = nil
	s.profile = nil
	s.keyframes = nil
	s.fault = nil
	s.stats.reset()
	s.setState(StateConfigured)
	return nil
}

// Close releases the instance and joins its workers. Getters keep
// reporting the last configuration.
func (s *Stretcher) Close() error {
	if s.state == StateDisposed {
		return fmt.Errorf("stretcher: %w", ErrUseAfterDispose)
	}
	s.pool.Close()
	s.pool = nil
	s.eng = nil
	s.study = nil
	s.profile = nil
	s.setState(StateDisposed)
	return nil
}
