package matchmaking

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnqueueIsIdempotent(t *testing.T) {
	q := NewQueue()

	assert.True(t, q.Enqueue("a"))
	assert.False(t, q.Enqueue("a"))
	assert.Equal(t, 1, q.Len())
}

func TestDequeuePairsKeepsArrivalOrder(t *testing.T) {
	q := NewQueue()
	q.Enqueue("a")
	q.Enqueue("b")
	q.Enqueue("c")
	q.Enqueue("d")
	q.Enqueue("e")

	pairs := q.DequeuePairs()

	require.Len(t, pairs, 2)
	assert.Equal(t, Pair{"a", "b"}, pairs[0])
	assert.Equal(t, Pair{"c", "d"}, pairs[1])
	assert.Equal(t, 1, q.Len(), "odd entry keeps waiting")

	assert.Empty(t, q.DequeuePairs())
}

func TestRemove(t *testing.T) {
	q := NewQueue()
	q.Enqueue("a")
	q.Enqueue("b")
	q.Enqueue("c")

	q.Remove("b")
	q.Remove("b")
	q.Remove("never-queued")

	pairs := q.DequeuePairs()
	require.Len(t, pairs, 1)
	assert.Equal(t, Pair{"a", "c"}, pairs[0])
}

func TestRemovedConnectionCanRequeue(t *testing.T) {
	q := NewQueue()
	q.Enqueue("a")
	q.Remove("a")

	assert.True(t, q.Enqueue("a"))
}

func TestConcurrentPairingNeverDuplicates(t *testing.T) {
	q := NewQueue()

	const players = 100
	var wg sync.WaitGroup
	var mu sync.Mutex
	var pairs []Pair

	for i := 0; i < players; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			q.Enqueue(fmt.Sprintf("conn-%d", n))
			got := q.DequeuePairs()

			mu.Lock()
			pairs = append(pairs, got...)
			mu.Unlock()
		}(i)
	}
	wg.Wait()
	pairs = append(pairs, q.DequeuePairs()...)

	require.Len(t, pairs, players/2)

	seen := make(map[string]bool)
	for _, p := range pairs {
		assert.NotEqual(t, p[0], p[1], "a connection must never be paired with itself")
		for _, id := range p {
			assert.False(t, seen[id], "connection %s paired twice", id)
			seen[id] = true
		}
	}
	assert.Equal(t, 0, q.Len())
}
