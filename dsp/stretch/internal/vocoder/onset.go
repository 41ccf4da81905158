package vocoder

import "fmt"

// Detector selects which onset function drives phase resets.
type Detector int

const (
	DetectorCompound Detector = iota
	DetectorPercussive
	DetectorSoft
)

func (d Detector) String() string {
	switch d {
	case DetectorCompound:
		return "compound"
	case DetectorPercussive:
		return "percussive"
	case DetectorSoft:
		return "soft"
	default:
		return fmt.Sprintf("Detector(%d)", int(d))
	}
}

// Onset holds the detection functions of one analysis frame.
type Onset struct {
	// Percussive is the fraction of bins that rose by 3 dB or more.
	Percussive float64
	// Flux is the positive spectral flux normalised by total magnitude.
	Flux float64
	// Energy is the sum of squared magnitudes.
	Energy float64
}

// Value returns the detection function selected by d.
func (o Onset) Value(d Detector) float64 {
	switch d {
	case DetectorPercussive:
		return o.Percussive
	case DetectorSoft:
		return o.Flux
	default:
		return 0.5 * (o.Percussive + o.Flux)
	}
}

// Merge combines per-channel onsets by taking the strongest value of each
// function.
func (o Onset) Merge(other Onset) Onset {
	return Onset{
		Percussive: max(o.Percussive, other.Percussive),
		Flux:       max(o.Flux, other.Flux),
		Energy:     o.Energy + other.Energy,
	}
}

var thresholds = map[Detector]float64{
	DetectorCompound:   0.3,
	DetectorPercussive: 0.35,
	DetectorSoft:       0.3,
}

// holdoffFrames is the minimum distance between two reported onsets.
const holdoffFrames = 3

// Tracker turns a stream of detection values into onset decisions: a
// value over threshold that rises above the previous one, outside the
// holdoff after the last onset.
type Tracker struct {
	prev    float64
	holdoff int
}

// Update consumes one frame and reports whether it is an onset.
func (t *Tracker) Update(o Onset, d Detector) bool {
	v := o.Value(d)
	hit := t.holdoff == 0 && v > thresholds[d] && v > t.prev
	t.prev = v
	if t.holdoff > 0 {
		t.holdoff--
	}
	if hit {
		t.holdoff = holdoffFrames
	}
	return hit
}

// Reset clears the tracker history.
func (t *Tracker) Reset() { *t = Tracker{} }
