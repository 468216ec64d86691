package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func queueIDs(n int) []uuid.UUID {
	ids := make([]uuid.UUID, n)
	for i := range ids {
		ids[i] = uuid.New()
	}
	return ids
}

func (m *QueueManager) snapshot(userID int64, mode QueueMode) []uuid.UUID {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]uuid.UUID(nil), m.sessions[userID][mode]...)
}

func TestQueueManager_RebuildAndHead(t *testing.T) {
	m := NewQueueManager()
	ids := queueIDs(3)

	m.Rebuild(1, QueueDue, ids)

	assert.Equal(t, 3, m.Len(1, QueueDue))
	head, ok := m.Head(1, QueueDue)
	require.True(t, ok)
	assert.Equal(t, ids[0], head)

	// Other users and modes are untouched
	assert.Equal(t, 0, m.Len(2, QueueDue))
	assert.Equal(t, 0, m.Len(1, QueueStarred))
}

func TestQueueManager_HeadEmpty(t *testing.T) {
	m := NewQueueManager()

	_, ok := m.Head(1, QueueDue)
	assert.False(t, ok)
}

func TestQueueManager_MarkRated(t *testing.T) {
	m := NewQueueManager()
	ids := queueIDs(3)
	m.Rebuild(1, QueueDue, ids)

	m.MarkRated(1, QueueDue, ids[1])

	assert.Equal(t, []uuid.UUID{ids[0], ids[2]}, m.snapshot(1, QueueDue))

	// Removing an id that is not queued is a no-op
	m.MarkRated(1, QueueDue, uuid.New())
	assert.Equal(t, 2, m.Len(1, QueueDue))
}

func TestQueueManager_RotateHead(t *testing.T) {
	m := NewQueueManager()
	ids := queueIDs(3)
	m.Rebuild(1, QueueStarred, ids)

	// Local "hard": the item goes to the back for another pass
	m.RotateHead(1, QueueStarred)

	assert.Equal(t, []uuid.UUID{ids[1], ids[2], ids[0]}, m.snapshot(1, QueueStarred))
}

func TestQueueManager_RotateHead_SingleItem(t *testing.T) {
	m := NewQueueManager()
	ids := queueIDs(1)
	m.Rebuild(1, QueueStarred, ids)

	m.RotateHead(1, QueueStarred)

	assert.Equal(t, ids, m.snapshot(1, QueueStarred))
}

func TestQueueManager_DropHead(t *testing.T) {
	m := NewQueueManager()
	ids := queueIDs(3)
	m.Rebuild(1, QueueStarred, ids)

	// Local "easy": done with this item for the session
	m.DropHead(1, QueueStarred)

	assert.Equal(t, []uuid.UUID{ids[1], ids[2]}, m.snapshot(1, QueueStarred))

	m.DropHead(1, QueueStarred)
	m.DropHead(1, QueueStarred)
	m.DropHead(1, QueueStarred)
	assert.Equal(t, 0, m.Len(1, QueueStarred))
}

func TestQueueManager_SyncMerge(t *testing.T) {
	m := NewQueueManager()
	ids := queueIDs(4)

	// Session started with a, b, c; user rotated to b, c, a
	m.Rebuild(1, QueueDifficult, []uuid.UUID{ids[1], ids[2], ids[0]})

	// Meanwhile c stopped qualifying and d was added
	m.SyncMerge(1, QueueDifficult, []uuid.UUID{ids[0], ids[1], ids[3]})

	// Session order survives for survivors, newcomers go to the back
	assert.Equal(t, []uuid.UUID{ids[1], ids[0], ids[3]}, m.snapshot(1, QueueDifficult))
}

func TestQueueManager_SyncMerge_EmptySession(t *testing.T) {
	m := NewQueueManager()
	ids := queueIDs(2)

	m.SyncMerge(1, QueueDifficult, ids)

	assert.Equal(t, ids, m.snapshot(1, QueueDifficult))
}

func TestQueueManager_SyncMerge_AllDisqualified(t *testing.T) {
	m := NewQueueManager()
	m.Rebuild(1, QueueDifficult, queueIDs(3))

	m.SyncMerge(1, QueueDifficult, nil)

	assert.Equal(t, 0, m.Len(1, QueueDifficult))
}

func TestQueueManager_Clear(t *testing.T) {
	m := NewQueueManager()
	m.Rebuild(1, QueueDue, queueIDs(2))
	m.Rebuild(1, QueueStarred, queueIDs(2))
	m.Rebuild(2, QueueDue, queueIDs(1))

	m.Clear(1)

	assert.Equal(t, 0, m.Len(1, QueueDue))
	assert.Equal(t, 0, m.Len(1, QueueStarred))
	assert.Equal(t, 1, m.Len(2, QueueDue))
}
