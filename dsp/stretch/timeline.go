package stretch

import "sort"

// segment maps x >= in linearly: y = out + (x-in)*slope.
type segment struct {
	in, out, slope float64
}

// timeline is the continuous, strictly increasing map from input position
// to output position. Keyframe anchors contribute fixed segments; the last
// segment always follows the current time ratio.
type timeline struct {
	segs []segment
}

func newTimeline(ratio float64, m *KeyFrameMap) *timeline {
	t := &timeline{}
	x, y := 0.0, 0.0
	for i, kf := range m.Frames() {
		in, out := float64(kf.Input), float64(kf.Output)
		if i == 0 && kf.Input == 0 {
			x, y = in, out
			continue
		}
		t.segs = append(t.segs, segment{in: x, out: y, slope: (out - y) / (in - x)})
		x, y = in, out
	}
	t.segs = append(t.segs, segment{in: x, out: y, slope: ratio})
	return t
}

func (t *timeline) forward(x float64) float64 {
	i := sort.Search(len(t.segs), func(i int) bool { return t.segs[i].in > x }) - 1
	s := t.segs[max(i, 0)]
	return s.out + (x-s.in)*s.slope
}

func (t *timeline) inverse(y float64) float64 {
	i := sort.Search(len(t.segs), func(i int) bool { return t.segs[i].out > y }) - 1
	s := t.segs[max(i, 0)]
	return s.in + (y-s.out)/s.slope
}

// setRatio changes the slope of the ratio segment from input position x
// on. Before the last anchor the change only alters the segment that
// starts there.
func (t *timeline) setRatio(ratio, x float64) {
	last := &t.segs[len(t.segs)-1]
	if x <= last.in {
		last.slope = ratio
		return
	}
	t.segs = append(t.segs, segment{in: x, out: t.forward(x), slope: ratio})
}

// prune drops segments that end before input position x.
func (t *timeline) prune(x float64) {
	drop := 0
	for drop+1 < len(t.segs) && t.segs[drop+1].in <= x {
		drop++
	}
	if drop > 0 {
		t.segs = append(t.segs[:0], t.segs[drop:]...)
	}
}
