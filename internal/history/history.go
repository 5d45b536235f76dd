package history

import (
	"sync"
)

// DefaultCapacity is how many entries each log retains.
const DefaultCapacity = 1000

// Log is a fixed-capacity, insertion-ordered log. When full, appending evicts
// the oldest entry. Safe for concurrent use.
type Log[T any] struct {
	mu    sync.Mutex
	buf   []T
	start int
	size  int
}

func NewLog[T any](capacity int) *Log[T] {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Log[T]{buf: make([]T, capacity)}
}

func (l *Log[T]) Append(item T) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.size < len(l.buf) {
		l.buf[(l.start+l.size)%len(l.buf)] = item
		l.size++
		return
	}
	l.buf[l.start] = item
	l.start = (l.start + 1) % len(l.buf)
}

// Snapshot returns an independent copy, oldest first.
func (l *Log[T]) Snapshot() []T {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]T, l.size)
	for i := 0; i < l.size; i++ {
		out[i] = l.buf[(l.start+i)%len(l.buf)]
	}
	return out
}

// Filter returns the entries of a snapshot that satisfy keep, in order.
func (l *Log[T]) Filter(keep func(T) bool) []T {
	snap := l.Snapshot()
	out := snap[:0]
	for _, item := range snap {
		if keep(item) {
			out = append(out, item)
		}
	}
	return out
}

// Tail returns up to n of the most recent entries satisfying keep, oldest
// first. A nil keep matches everything.
func (l *Log[T]) Tail(n int, keep func(T) bool) []T {
	var items []T
	if keep == nil {
		items = l.Snapshot()
	} else {
		items = l.Filter(keep)
	}
	if n >= 0 && len(items) > n {
		items = items[len(items)-n:]
	}
	return items
}

func (l *Log[T]) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	var zero T
	for i := range l.buf {
		l.buf[i] = zero
	}
	l.start = 0
	l.size = 0
}

func (l *Log[T]) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.size
}

func (l *Log[T]) Cap() int { return len(l.buf) }
