package stretch

import "sync/atomic"

// Stats is a snapshot of an instance's counters.
type Stats struct {
	InputFrames     int64
	OutputFrames    int64
	RetrievedFrames int64
	Buffered        int
	StartDelay      int
	State           State
	Faulted         bool
}

// counters are written by the owning goroutine and may be read from any
// other, which lets a metrics scrape run alongside processing.
type counters struct {
	input      atomic.Int64
	output     atomic.Int64
	retrieved  atomic.Int64
	buffered   atomic.Int64
	startDelay atomic.Int64
	state      atomic.Int32
	faulted    atomic.Bool
}

func (c *counters) snapshot() Stats {
	return Stats{
		InputFrames:     c.input.Load(),
		OutputFrames:    c.output.Load(),
		RetrievedFrames: c.retrieved.Load(),
		Buffered:        int(c.buffered.Load()),
		StartDelay:      int(c.startDelay.Load()),
		State:           State(c.state.Load()),
		Faulted:         c.faulted.Load(),
	}
}

func (c *counters) reset() {
	c.input.Store(0)
	c.output.Store(0)
	c.retrieved.Store(0)
	c.buffered.Store(0)
	c.faulted.Store(false)
}

// observe copies the engine's running totals.
func (c *counters) observe(e *engine) {
	c.input.Store(e.input)
	c.output.Store(e.emitted)
	c.buffered.Store(int64(e.buffered()))
}
