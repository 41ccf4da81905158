package stretch

import (
	"fmt"
	"maps"
	"slices"
)

// KeyFrame anchors an input sample position to an output sample position.
type KeyFrame struct {
	Input  int64
	Output int64
}

// KeyFrameMap is an ordered set of anchors, strictly increasing in both
// input and output position. The zero value is an empty map.
type KeyFrameMap struct {
	frames []KeyFrame
}

// NewKeyFrameMap builds a map from matched parallel arrays.
func NewKeyFrameMap(inputs, outputs []int64) (*KeyFrameMap, error) {
	if len(inputs) != len(outputs) {
		return nil, fmt.Errorf("%w: %d input positions but %d output positions",
			ErrInvalidKeyframeMap, len(inputs), len(outputs))
	}
	m := &KeyFrameMap{frames: make([]KeyFrame, 0, len(inputs))}
	for i := range inputs {
		if err := m.Add(inputs[i], outputs[i]); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// KeyFrameMapFromMap builds a map from input → output pairs, ordering them
// by input position.
func KeyFrameMapFromMap(pairs map[int64]int64) (*KeyFrameMap, error) {
	m := &KeyFrameMap{frames: make([]KeyFrame, 0, len(pairs))}
	for _, in := range slices.Sorted(maps.Keys(pairs)) {
		if err := m.Add(in, pairs[in]); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Add appends an anchor after the last one.
func (m *KeyFrameMap) Add(input, output int64) error {
	if input < 0 || output < 0 {
		return fmt.Errorf("%w: negative position (%d, %d)", ErrInvalidKeyframeMap, input, output)
	}
	if n := len(m.frames); n > 0 {
		last := m.frames[n-1]
		if input <= last.Input || output <= last.Output {
			return fmt.Errorf("%w: (%d, %d) does not follow (%d, %d)",
				ErrInvalidKeyframeMap, input, output, last.Input, last.Output)
		}
	}
	m.frames = append(m.frames, KeyFrame{Input: input, Output: output})
	return nil
}

// Len returns the number of anchors.
func (m *KeyFrameMap) Len() int {
	if m == nil {
		return 0
	}
	return len(m.frames)
}

// Frames returns a copy of the anchors in order.
func (m *KeyFrameMap) Frames() []KeyFrame {
	if m == nil {
		return nil
	}
	return slices.Clone(m.frames)
}
