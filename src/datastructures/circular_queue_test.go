package datastructures_test

import (
	"testing"

	"github.com/Oichkatzelesfrettschen/minix318-sub000/src/datastructures"
	"github.com/stretchr/testify/assert"
)

func TestCircularQueue_PushAndSnapshot(t *testing.T) {
	q := datastructures.NewCircularQueue[int](3)
	assert.True(t, q.IsEmpty())

	assert.True(t, q.Push(1))
	assert.True(t, q.Push(2))
	assert.True(t, q.Push(3))

	// { 1, 2, 3 }
	assert.Equal(t, []int{1, 2, 3}, q.Snapshot(0))

	// { 2, 3, 4 }
	assert.False(t, q.Push(4))
	assert.Equal(t, 3, q.Len())
	assert.Equal(t, []int{2, 3, 4}, q.Snapshot(0))

	// { 3, 4, 5 }
	assert.False(t, q.Push(5))
	assert.Equal(t, []int{4, 5}, q.Snapshot(2))
	assert.Equal(t, []int{3, 4, 5}, q.Snapshot(10))
}

func TestCircularQueue_Empty(t *testing.T) {
	q := datastructures.NewCircularQueue[int](0)

	assert.Empty(t, q.Snapshot(0))
	assert.True(t, q.Push(1))
	assert.False(t, q.Push(2))
	assert.Equal(t, []int{2}, q.Snapshot(0))
}
