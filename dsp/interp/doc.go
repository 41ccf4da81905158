// Package interp provides the fractional-position interpolation kernels
// used when reading a sample stream at a non-integer rate.
//
// Available kernels, from cheapest to highest quality:
//
//   - [Linear]:    2-point linear interpolation
//   - [Hermite]:   4-point cubic Hermite (good default)
//   - [Lagrange6]: 6-point Lagrange polynomial
//
// Every kernel reproduces its centre sample exactly at t = 0, so reading
// a stream at rate 1.0 is lossless.
package interp
