package datastructures

import (
	"container/heap"

	"golang.org/x/exp/constraints"
)

type heapImpl[K constraints.Ordered, T any] []heapItem[K, T]

type heapItem[K constraints.Ordered, T any] struct {
	value    T
	priority K
}

func (q heapImpl[K, T]) Len() int { return len(q) }

func (q heapImpl[K, T]) Less(i, j int) bool {
	return q[i].priority > q[j].priority
}

func (q heapImpl[K, T]) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
}

func (q *heapImpl[K, T]) Push(x any) {
	item := x.(heapItem[K, T])
	*q = append(*q, item)
}

func (q *heapImpl[K, T]) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	old[n-1] = heapItem[K, T]{} // avoid memory leak
	*q = old[0 : n-1]
	return item
}

// A binary max-heap keyed by priority.
//
// The backing array starts at the initial capacity and grows on demand until
// it holds limit items. A limit of zero means unbounded. Items with equal
// priorities are dequeued in no particular order.
//
// This type is not thread-safe.
type PriorityQueue[K constraints.Ordered, T any] struct {
	heap  heapImpl[K, T]
	limit int
}

// Create a new priority queue.
func NewPriorityQueue[K constraints.Ordered, T any](
	capacity int,
	limit int,
) PriorityQueue[K, T] {
	if capacity < 0 {
		capacity = 0
	}
	if limit > 0 && capacity > limit {
		capacity = limit
	}
	return PriorityQueue[K, T]{
		heap:  make(heapImpl[K, T], 0, capacity),
		limit: limit,
	}
}

// Enqueue pushes value with the given priority.
//
// Returns false if the queue already holds limit items.
func (q *PriorityQueue[K, T]) Enqueue(value T, priority K) bool {
	if q.limit > 0 && len(q.heap) >= q.limit {
		return false
	}

	heap.Push(&q.heap, heapItem[K, T]{
		value:    value,
		priority: priority,
	})
	return true
}

// Dequeue removes the item with the largest priority.
func (q *PriorityQueue[K, T]) Dequeue() (val T, ok bool) {
	if len(q.heap) == 0 {
		ok = false
		return
	}

	item := heap.Pop(&q.heap).(heapItem[K, T])
	val = item.value
	ok = true
	return
}

// Peek returns the item with the largest priority without removing it.
func (q *PriorityQueue[K, T]) Peek() (val T, priority K, ok bool) {
	if len(q.heap) == 0 {
		return
	}
	return q.heap[0].value, q.heap[0].priority, true
}

func (q *PriorityQueue[K, T]) Len() int {
	return len(q.heap)
}

func (q *PriorityQueue[K, T]) Limit() int {
	return q.limit
}

// Ordered reports whether every parent has a priority greater than or
// equal to both of its children.
func (q *PriorityQueue[K, T]) Ordered() bool {
	for i := range q.heap {
		for _, c := range [2]int{2*i + 1, 2*i + 2} {
			if c < len(q.heap) && q.heap[c].priority > q.heap[i].priority {
				return false
			}
		}
	}
	return true
}
