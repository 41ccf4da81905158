package vocoder

import "slices"

// Sample is the element type of a Queue.
type Sample interface {
	~float32 | ~float64
}

// Queue is a growable FIFO of samples. Consumed space is reclaimed lazily
// when the live region can be moved to the front of the backing array.
type Queue[T Sample] struct {
	buf  []T
	head int
}

// Len returns the number of queued samples.
func (q *Queue[T]) Len() int { return len(q.buf) - q.head }

// Grow makes room for n more samples without reallocating.
func (q *Queue[T]) Grow(n int) {
	q.compact()
	if cap(q.buf)-len(q.buf) >= n {
		return
	}
	next := make([]T, len(q.buf), len(q.buf)+n)
	copy(next, q.buf)
	q.buf = next
}

// Append queues src.
func (q *Queue[T]) Append(src []T) {
	q.compact()
	q.buf = append(q.buf, src...)
}

// Push queues one sample.
func (q *Queue[T]) Push(v T) {
	q.compact()
	q.buf = append(q.buf, v)
}

// PushZeros queues n zero samples.
func (q *Queue[T]) PushZeros(n int) {
	if n <= 0 {
		return
	}
	q.compact()
	l := len(q.buf)
	q.buf = slices.Grow(q.buf, n)[:l+n]
	clear(q.buf[l:])
}

// At returns the i-th queued sample.
func (q *Queue[T]) At(i int) T { return q.buf[q.head+i] }

// Slice returns a view of queued samples [i, j). The view is invalidated
// by the next write.
func (q *Queue[T]) Slice(i, j int) []T { return q.buf[q.head+i : q.head+j] }

// Discard drops the n oldest samples.
func (q *Queue[T]) Discard(n int) {
	n = min(n, q.Len())
	q.head += n
	if q.head == len(q.buf) {
		q.buf = q.buf[:0]
		q.head = 0
	}
}

// Read dequeues up to len(dst) samples into dst and returns the count.
func (q *Queue[T]) Read(dst []T) int {
	n := copy(dst, q.buf[q.head:])
	q.Discard(n)
	return n
}

// Reset empties the queue, keeping its storage.
func (q *Queue[T]) Reset() {
	q.buf = q.buf[:0]
	q.head = 0
}

func (q *Queue[T]) compact() {
	if q.head == 0 || q.head < len(q.buf)/2 {
		return
	}
	n := copy(q.buf, q.buf[q.head:])
	q.buf = q.buf[:n]
	q.head = 0
}
