package server

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func identityFor(userId string) Identity {
	return Identity{UserId: userId, Username: userId, Rating: 1200}
}

func TestEnqueueFirstUserWaits(t *testing.T) {
	q := NewQueue(testClock())

	_, matched := q.Enqueue(identityFor("a"), nil)
	assert.False(t, matched)
	assert.Equal(t, 1, q.Len())
}

func TestEnqueuePairsWithOldestWaiter(t *testing.T) {
	q := NewQueue(testClock())

	// Seed three waiters directly; pairing through Enqueue would drain
	// the queue as it goes.
	for _, id := range []string{"a", "b", "c"} {
		q.waiting = append(q.waiting, waitingEntry{
			identity:   identityFor(id),
			enqueuedAt: time.Now(),
		})
	}

	entry, matched := q.Enqueue(identityFor("d"), nil)
	require.True(t, matched)
	assert.Equal(t, "a", entry.identity.UserId)
	assert.Equal(t, 2, q.Len())
	assert.Equal(t, "b", q.waiting[0].identity.UserId)
	assert.Equal(t, "c", q.waiting[1].identity.UserId)
}

func TestEnqueueWhileWaitingIsNoOp(t *testing.T) {
	q := NewQueue(testClock())

	q.Enqueue(identityFor("a"), nil)
	_, matched := q.Enqueue(identityFor("a"), nil)
	assert.False(t, matched)
	assert.Equal(t, 1, q.Len(), "user must not be queued twice")
}

func TestCancelIsIdempotent(t *testing.T) {
	q := NewQueue(testClock())

	q.Enqueue(identityFor("a"), nil)
	q.Cancel("a")
	assert.Equal(t, 0, q.Len())

	// Cancelling again, or cancelling a user never queued, is a no-op.
	q.Cancel("a")
	q.Cancel("never-queued")
	assert.Equal(t, 0, q.Len())
}

func TestCancelledWaiterIsNotMatched(t *testing.T) {
	q := NewQueue(testClock())

	q.Enqueue(identityFor("a"), nil)
	q.Cancel("a")

	_, matched := q.Enqueue(identityFor("b"), nil)
	assert.False(t, matched)
	assert.Equal(t, 1, q.Len())
}
