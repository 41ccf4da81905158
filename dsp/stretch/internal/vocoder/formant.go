package vocoder

import "math"

// envelope is a log-magnitude spectral envelope smoothed with a centred
// moving average.
type envelope struct {
	logMag []float64
	prefix []float64
	smooth []float64
	width  int
}

func newEnvelope(bins int) *envelope {
	return &envelope{
		logMag: make([]float64, bins),
		prefix: make([]float64, bins+1),
		smooth: make([]float64, bins),
		width:  max(3, (bins-1)/64),
	}
}

func (e *envelope) compute(mag []float64) {
	for k, m := range mag {
		e.logMag[k] = math.Log(m + magnitudeFloor)
		e.prefix[k+1] = e.prefix[k] + e.logMag[k]
	}
	n := len(mag)
	half := e.width / 2
	for k := range n {
		lo := max(0, k-half)
		hi := min(n, k+half+1)
		e.smooth[k] = (e.prefix[hi] - e.prefix[lo]) / float64(hi-lo)
	}
}

// at returns the envelope at a fractional bin, clamped to the spectrum.
func (e *envelope) at(bin float64) float64 {
	last := len(e.smooth) - 1
	if bin <= 0 {
		return e.smooth[0]
	}
	if bin >= float64(last) {
		return e.smooth[last]
	}
	i := int(bin)
	t := bin - float64(i)
	return e.smooth[i] + t*(e.smooth[i+1]-e.smooth[i])
}

// warp rescales mag in place so that the envelope at bin k becomes the
// unwarped envelope at bin k*factor.
func (e *envelope) warp(mag []float64, factor float64) {
	e.compute(mag)
	for k := range mag {
		mag[k] *= math.Exp(e.at(float64(k)*factor) - e.smooth[k])
	}
}
