package buffer

import "testing"

func TestNew(t *testing.T) {
	tests := []struct {
		name       string
		channels   int
		frames     int
		wantLen    int
		wantFrames int
	}{
		{"stereo", 2, 16, 2, 16},
		{"mono empty", 1, 0, 1, 0},
		{"negative", -1, 8, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := New(tt.channels, tt.frames)
			if b.Len() != tt.wantLen {
				t.Fatalf("Len() = %d, want %d", b.Len(), tt.wantLen)
			}
			if b.Frames() != tt.wantFrames {
				t.Fatalf("Frames() = %d, want %d", b.Frames(), tt.wantFrames)
			}
			for ch, s := range b.Channels() {
				for i, v := range s {
					if v != 0 {
						t.Fatalf("Channels()[%d][%d] = %v, want 0", ch, i, v)
					}
				}
			}
		})
	}
}

func TestChannelsDoNotOverlap(t *testing.T) {
	b := New(2, 4)
	chans := b.Channels()
	chans[0] = append(chans[0], 9)
	if got := b.Channels()[1][0]; got != 0 {
		t.Fatalf("append to channel 0 wrote into channel 1: %v", got)
	}
	if cap(b.Channels()[0]) != 4 {
		t.Fatalf("cap = %d, want 4", cap(b.Channels()[0]))
	}
}

func TestResizeReusesBacking(t *testing.T) {
	b := New(2, 8)
	b.Channels()[1][7] = 3
	first := &b.data[0]

	b.Resize(4, 4)
	if &b.data[0] != first {
		t.Fatal("Resize to the same sample count reallocated")
	}
	if b.Len() != 4 || b.Frames() != 4 {
		t.Fatalf("shape = %dx%d, want 4x4", b.Len(), b.Frames())
	}

	b.Resize(1, 4)
	b.Resize(2, 4)
	if got := b.Channels()[1][0]; got != 0 {
		t.Fatalf("newly exposed sample = %v, want 0", got)
	}

	b.Resize(3, 100)
	if b.Frames() != 100 || len(b.data) != 300 {
		t.Fatalf("grow failed: frames %d, data %d", b.Frames(), len(b.data))
	}
}

func TestZeroAndCopy(t *testing.T) {
	b := New(2, 3)
	b.Channels()[0][1] = 1
	b.Channels()[1][2] = 2

	c := b.Copy()
	b.Zero()

	if b.Channels()[0][1] != 0 || b.Channels()[1][2] != 0 {
		t.Fatal("Zero left data behind")
	}
	if c.Channels()[0][1] != 1 || c.Channels()[1][2] != 2 {
		t.Fatal("Copy shares storage with its source")
	}
}
