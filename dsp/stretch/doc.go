// Package stretch provides time-stretching and pitch-shifting of
// multichannel float32 audio.
//
// Included processors:
//   - Stretcher: offline or realtime stretcher with an optional study
//     pass, keyframe timeline and non-blocking retrieval.
//   - LiveShifter: low-latency pitch shifter over fixed 512-frame blocks.
//
// StretchBuffer, StretchInterleaved and ShiftBuffer run whole buffers
// through either processor.
package stretch
