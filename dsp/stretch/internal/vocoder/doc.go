// Package vocoder implements the streaming phase-vocoder kernel behind the
// stretch package: per-channel analysis and overlap-add synthesis, onset
// detection, formant envelope warping and the fractional-rate output
// resampler that turns a time stretch into a pitch shift.
//
// A Channel is driven frame by frame by its owner, which decides where
// each analysis frame starts and whether its phases are reset. Synthesis
// frames are always Hop samples apart.
package vocoder
