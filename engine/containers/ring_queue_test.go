package containers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRingQueueFIFOAndWrap(t *testing.T) {
	q := NewRingQueue[int](3)
	require.NoError(t, q.Enqueue(1))
	require.NoError(t, q.Enqueue(2))
	require.NoError(t, q.Enqueue(3))
	assert.True(t, q.IsFull())
	assert.ErrorIs(t, q.Enqueue(4), ErrQueueFull)

	v, err := q.Dequeue()
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	require.NoError(t, q.Enqueue(4))
	for _, want := range []int{2, 3, 4} {
		head, err := q.Peek()
		require.NoError(t, err)
		assert.Equal(t, want, head)

		v, err := q.Dequeue()
		require.NoError(t, err)
		assert.Equal(t, want, v)
	}
	assert.True(t, q.IsEmpty())
	assert.Equal(t, 0, q.Len())
}

func TestRingQueueEmpty(t *testing.T) {
	q := NewRingQueue[string](0)
	_, err := q.Dequeue()
	assert.ErrorIs(t, err, ErrQueueEmpty)
	_, err = q.Peek()
	assert.ErrorIs(t, err, ErrQueueEmpty)
}
