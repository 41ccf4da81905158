package stretch

import "fmt"

// State is the lifecycle phase of a Stretcher.
type State int32

const (
	StateConfigured State = iota
	StateStudying
	StateStudied
	StateProcessing
	// StateDraining means the final block was submitted and output remains.
	StateDraining
	StateFinished
	StateDisposed
)

var stateNames = [...]string{
	StateConfigured: "configured",
	StateStudying:   "studying",
	StateStudied:    "studied",
	StateProcessing: "processing",
	StateDraining:   "draining",
	StateFinished:   "finished",
	StateDisposed:   "disposed",
}

func (s State) String() string {
	if s >= 0 && int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("State(%d)", int32(s))
}

// canStudy reports whether a study pass may still receive input.
func (s State) canStudy() bool {
	return s == StateConfigured || s == StateStudying
}

// canProcess reports whether the stream is still open for input.
func (s State) canProcess() bool {
	return s <= StateProcessing
}

// started reports whether processing has begun.
func (s State) started() bool {
	return s >= StateProcessing
}
