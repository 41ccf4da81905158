// Package workers provides the per-instance goroutine pool that runs
// channel jobs in parallel behind a synchronous call.
package workers

import (
	"errors"
	"sync"
)

// ErrClosed is returned by Run after Close.
var ErrClosed = errors.New("workers: pool closed")

type job struct {
	fn    func(int) error
	index int
	b     *batch
}

type batch struct {
	wg   sync.WaitGroup
	once sync.Once
	err  error
}

func (b *batch) fail(err error) {
	b.once.Do(func() { b.err = err })
}

// Pool is a fixed set of goroutines owned by one engine instance.
// A nil *Pool is valid and runs every job on the calling goroutine.
type Pool struct {
	jobs   chan job
	wg     sync.WaitGroup
	mu     sync.Mutex
	closed bool
	size   int
}

// New starts size worker goroutines. size < 1 is treated as 1.
func New(size int) *Pool {
	if size < 1 {
		size = 1
	}
	p := &Pool{
		jobs: make(chan job, size),
		size: size,
	}
	p.wg.Add(size)
	for range size {
		go p.worker()
	}
	return p
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for j := range p.jobs {
		if err := j.fn(j.index); err != nil {
			j.b.fail(err)
		}
		j.b.wg.Done()
	}
}

// Size reports the number of worker goroutines, 0 for a nil pool.
func (p *Pool) Size() int {
	if p == nil {
		return 0
	}
	return p.size
}

// Run calls fn(i) for every i in [0, n) and waits for all of them.
// It returns the first error reported by any job.
func (p *Pool) Run(n int, fn func(i int) error) error {
	if p == nil || n == 1 {
		for i := range n {
			if err := fn(i); err != nil {
				return err
			}
		}
		return nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrClosed
	}

	b := &batch{}
	b.wg.Add(n)
	for i := range n {
		p.jobs <- job{fn: fn, index: i, b: b}
	}
	b.wg.Wait()
	return b.err
}

// Close stops the workers and waits for them to exit. It is safe to call
// more than once.
func (p *Pool) Close() {
	if p == nil {
		return
	}
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.jobs)
	p.mu.Unlock()
	p.wg.Wait()
}
