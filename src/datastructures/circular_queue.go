package datastructures

// A fixed-size ring that keeps the most recent items.
//
// Pushing into a full ring overwrites the oldest item.
type CircularQueue[T any] struct {
	buffer []T
	head   int
	len    int
}

// Create a new ring holding up to capacity items.
func NewCircularQueue[T any](capacity int) CircularQueue[T] {
	if capacity < 1 {
		capacity = 1
	}
	return CircularQueue[T]{
		buffer: make([]T, capacity),
	}
}

// Push appends item, returning false if an older item was overwritten.
func (q *CircularQueue[T]) Push(item T) bool {
	tail := (q.head + q.len) % len(q.buffer)
	q.buffer[tail] = item

	if q.len == len(q.buffer) {
		q.head = (q.head + 1) % len(q.buffer)
		return false
	}
	q.len++
	return true
}

// Snapshot copies the newest limit items, oldest first. A limit of zero or
// less copies everything.
func (q *CircularQueue[T]) Snapshot(limit int) []T {
	n := q.len
	if limit > 0 && limit < n {
		n = limit
	}

	out := make([]T, n)
	start := q.len - n
	for i := 0; i < n; i++ {
		out[i] = q.buffer[(q.head+start+i)%len(q.buffer)]
	}
	return out
}

func (q *CircularQueue[T]) Len() int {
	return q.len
}

func (q *CircularQueue[T]) IsEmpty() bool {
	return q.len == 0
}
