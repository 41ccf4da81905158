// Package buffer provides a reusable multichannel float32 block and a
// pool for allocation-friendly processing loops. Processors accept raw
// [][]float32; Block is an optional convenience that keeps the channels
// in one backing array.
package buffer
