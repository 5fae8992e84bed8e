package queue

import (
	"context"
	"sync"
)

// Unbounded is an in-memory FIFO queue without a capacity limit. Push never
// blocks; Pop blocks until an item is available, the queue is closed or the
// context ends.
type Unbounded[T any] struct {
	mu     sync.Mutex
	data   []T
	notify chan struct{}
	closed bool
}

func NewUnbounded[T any]() *Unbounded[T] {
	return &Unbounded[T]{notify: make(chan struct{}, 1)}
}

// Push appends v. It reports false when the queue is closed.
func (q *Unbounded[T]) Push(v T) bool {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return false
	}
	q.data = append(q.data, v)
	q.signal()
	q.mu.Unlock()
	return true
}

// signal wakes one blocked reader. Callers hold q.mu.
func (q *Unbounded[T]) signal() {
	select {
	case q.notify <- struct{}{}:
	default:
	}
}

// Pop removes the oldest item. Items pushed before Close are still drained;
// ok is false once the queue is closed and empty or ctx is done.
func (q *Unbounded[T]) Pop(ctx context.Context) (v T, ok bool) {
	for {
		q.mu.Lock()
		if len(q.data) > 0 {
			v = q.data[0]
			var zero T
			q.data[0] = zero
			q.data = q.data[1:]
			if len(q.data) > 0 && !q.closed {
				q.signal()
			}
			q.mu.Unlock()
			return v, true
		}
		closed := q.closed
		q.mu.Unlock()

		if closed {
			return v, false
		}

		select {
		case <-q.notify:
		case <-ctx.Done():
			return v, false
		}
	}
}

// Close stops accepting new items and wakes blocked readers.
func (q *Unbounded[T]) Close() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	close(q.notify)
	q.mu.Unlock()
}

func (q *Unbounded[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.data)
}
