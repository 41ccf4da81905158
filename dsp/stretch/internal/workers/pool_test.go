package workers

import (
	"errors"
	"sync/atomic"
	"testing"

	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestRunVisitsEveryIndex(t *testing.T) {
	tests := []struct {
		name string
		pool *Pool
		n    int
	}{
		{name: "nil pool", pool: nil, n: 5},
		{name: "single worker", pool: New(1), n: 3},
		{name: "more jobs than workers", pool: New(2), n: 7},
		{name: "zero jobs", pool: New(2), n: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer tt.pool.Close()
			seen := make([]atomic.Int32, tt.n)
			err := tt.pool.Run(tt.n, func(i int) error {
				seen[i].Add(1)
				return nil
			})
			if err != nil {
				t.Fatalf("Run() error = %v", err)
			}
			for i := range seen {
				if got := seen[i].Load(); got != 1 {
					t.Fatalf("index %d visited %d times, want 1", i, got)
				}
			}
		})
	}
}

func TestRunReportsJobError(t *testing.T) {
	p := New(3)
	defer p.Close()

	boom := errors.New("boom")
	err := p.Run(4, func(i int) error {
		if i == 2 {
			return boom
		}
		return nil
	})
	if !errors.Is(err, boom) {
		t.Fatalf("Run() error = %v, want %v", err, boom)
	}
}

func TestRunAfterClose(t *testing.T) {
	p := New(2)
	p.Close()
	p.Close()

	err := p.Run(2, func(int) error { return nil })
	if !errors.Is(err, ErrClosed) {
		t.Fatalf("Run() after Close error = %v, want ErrClosed", err)
	}
	if p.Size() != 2 {
		t.Fatalf("Size() = %d, want 2", p.Size())
	}
}
