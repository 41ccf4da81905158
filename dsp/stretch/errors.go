package stretch

import "errors"

var (
	// ErrConstructionFailure reports an invalid sample rate, channel count,
	// option set or initial parameter.
	ErrConstructionFailure = errors.New("construction failure")
	// ErrUseAfterDispose is returned by every operation after Close.
	ErrUseAfterDispose = errors.New("use after dispose")
	// ErrPhaseAlreadyClosed reports a study or process call after the
	// phase received its final block.
	ErrPhaseAlreadyClosed   = errors.New("phase already closed")
	ErrChannelCountMismatch = errors.New("channel count mismatch")
	ErrBlockSizeMismatch    = errors.New("block size mismatch")
	ErrInvalidKeyframeMap   = errors.New("invalid keyframe map")
	// ErrResourceExhaustion reports that internal buffers grew past
	// MaxBufferedFrames.
	ErrResourceExhaustion = errors.New("resource exhaustion")
	// ErrInvalidParameter reports a rejected runtime parameter.
	ErrInvalidParameter = errors.New("invalid parameter")
	// ErrModeMismatch reports an operation that the configured processing
	// mode does not support.
	ErrModeMismatch = errors.New("operation not supported in this processing mode")
	// ErrFaulted is returned once an internal DSP fault has poisoned the
	// instance. Reset or Close it.
	ErrFaulted = errors.New("instance faulted")
)
