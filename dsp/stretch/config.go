package stretch

import (
	"log/slog"
)

const (
	// ProcessSizeLimit is the largest chunk one Process call is split into.
	processSizeLimit = 524288
	// defaultMaxProcessSize is the chunk size used until SetMaxProcessSize.
	defaultMaxProcessSize = 4096
	// MaxBufferedFrames bounds the per-channel output queue.
	MaxBufferedFrames = 1 << 27

	minSampleRate = 1
	maxSampleRate = 768000
	maxChannels   = 64

	minPitchScale = 0.125
	maxPitchScale = 8.0
)

// Option configures a Stretcher or LiveShifter at construction.
type Option func(*config)

type config struct {
	logger         *slog.Logger
	maxProcessSize int
	workers        int
}

func defaultConfig() config {
	return config{
		logger:         slog.New(slog.DiscardHandler),
		maxProcessSize: defaultMaxProcessSize,
	}
}

func applyOptions(opts []Option) config {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// WithLogger routes diagnostics to l. Nil keeps the discarding default.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithMaxProcessSize sets the initial chunk size, as SetMaxProcessSize.
func WithMaxProcessSize(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.maxProcessSize = min(n, processSizeLimit)
		}
	}
}

// WithWorkers caps the worker goroutines used when threading is enabled.
// Zero means one per channel, bounded by the host's logical cores.
func WithWorkers(n int) Option {
	return func(c *config) {
		if n >= 0 {
			c.workers = n
		}
	}
}
