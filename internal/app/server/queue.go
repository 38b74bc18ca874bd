package server

import (
	"sync"
	"time"
)

type waitingEntry struct {
	identity   Identity
	client     *Client
	enqueuedAt time.Time
}

// Queue holds users waiting for an opponent and pairs them strictly FIFO.
// No skill-based matching. The waiting party becomes Black; the arrival
// whose enqueue pops the head becomes White.
type Queue struct {
	mu      sync.Mutex
	waiting []waitingEntry
	now     func() time.Time
}

func NewQueue(now func() time.Time) *Queue {
	return &Queue{now: now}
}

// Enqueue either pairs the arrival with the oldest waiter or appends a new
// waiting entry. When matched the popped entry is returned and removed
// atomically, so a concurrent Cancel cannot also claim it. A user already
// waiting is left in place and reported unmatched.
func (q *Queue) Enqueue(identity Identity, client *Client) (waitingEntry, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for _, entry := range q.waiting {
		if entry.identity.UserId == identity.UserId {
			return waitingEntry{}, false
		}
	}

	if len(q.waiting) > 0 {
		head := q.waiting[0]
		q.waiting = q.waiting[1:]
		return head, true
	}

	q.waiting = append(q.waiting, waitingEntry{
		identity:   identity,
		client:     client,
		enqueuedAt: q.now(),
	})
	return waitingEntry{}, false
}

// Cancel removes the user's waiting entry if present. Idempotent.
func (q *Queue) Cancel(userId string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for i, entry := range q.waiting {
		if entry.identity.UserId == userId {
			q.waiting = append(q.waiting[:i], q.waiting[i+1:]...)
			return
		}
	}
}

func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.waiting)
}
