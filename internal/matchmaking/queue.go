// Package matchmaking holds the FIFO waiting list for quick matches.
package matchmaking

import "sync"

// Pair is two connections matched together. The first entry entered the
// queue earlier and becomes player index 0.
type Pair [2]string

// Queue is an ordered waiting list of connection IDs. A connection
// appears at most once.
type Queue struct {
	mu      sync.Mutex
	waiting []string
	queued  map[string]bool
}

func NewQueue() *Queue {
	return &Queue{
		queued: make(map[string]bool),
	}
}

// Enqueue appends connID unless it is already waiting. It reports
// whether the connection was newly added.
func (q *Queue) Enqueue(connID string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.queued[connID] {
		return false
	}
	q.waiting = append(q.waiting, connID)
	q.queued[connID] = true
	return true
}

// DequeuePairs removes as many pairs as the current queue allows, oldest
// entries first. The whole operation runs under the queue lock so two
// concurrent callers can never pair the same connection twice.
func (q *Queue) DequeuePairs() []Pair {
	q.mu.Lock()
	defer q.mu.Unlock()

	var pairs []Pair
	for len(q.waiting) >= 2 {
		first, second := q.waiting[0], q.waiting[1]
		q.waiting = q.waiting[2:]
		delete(q.queued, first)
		delete(q.queued, second)
		pairs = append(pairs, Pair{first, second})
	}
	return pairs
}

// Remove drops connID from the queue if present. Used on disconnect and
// when a queued player moves into a room some other way.
func (q *Queue) Remove(connID string) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if !q.queued[connID] {
		return
	}
	delete(q.queued, connID)
	for i, id := range q.waiting {
		if id == connID {
			q.waiting = append(q.waiting[:i], q.waiting[i+1:]...)
			break
		}
	}
}

// Len returns the number of waiting connections.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	return len(q.waiting)
}
