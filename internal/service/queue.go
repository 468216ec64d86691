package service

import (
	"sync"

	"github.com/google/uuid"
)

// QueueMode names one of the browsing modes a practice queue serves
type QueueMode string

const (
	QueueDue       QueueMode = "due"
	QueueDifficult QueueMode = "difficult"
	QueueStarred   QueueMode = "starred"
)

// QueueManager keeps per-user session queues for the practice modes.
// Queues are ephemeral sequencing state: they are rebuilt on mode entry,
// reordered by local actions, and are never the source of truth for
// whether something was rated. The review record is
type QueueManager struct {
	mu       sync.RWMutex
	sessions map[int64]map[QueueMode][]uuid.UUID
}

// NewQueueManager creates an empty queue manager
func NewQueueManager() *QueueManager {
	return &QueueManager{
		sessions: make(map[int64]map[QueueMode][]uuid.UUID),
	}
}

// Rebuild replaces the user's queue for a mode with the given ids.
// Used on Due mode entry and for the explicit "loop again" reset of the
// Starred and Difficult modes
func (m *QueueManager) Rebuild(userID int64, mode QueueMode, ids []uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.userQueues(userID)[mode] = append([]uuid.UUID(nil), ids...)
}

// SyncMerge resyncs a Starred/Difficult queue against the currently
// qualifying set: existing order is kept for ids that still qualify,
// new qualifiers are appended, disqualified ids are dropped
func (m *QueueManager) SyncMerge(userID int64, mode QueueMode, qualifying []uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()

	qualifies := make(map[uuid.UUID]bool, len(qualifying))
	for _, id := range qualifying {
		qualifies[id] = true
	}

	queues := m.userQueues(userID)
	var merged []uuid.UUID
	seen := make(map[uuid.UUID]bool, len(qualifying))
	for _, id := range queues[mode] {
		if qualifies[id] && !seen[id] {
			merged = append(merged, id)
			seen[id] = true
		}
	}
	for _, id := range qualifying {
		if !seen[id] {
			merged = append(merged, id)
			seen[id] = true
		}
	}
	queues[mode] = merged
}

// Head returns the next item of the queue without removing it
func (m *QueueManager) Head(userID int64, mode QueueMode) (uuid.UUID, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	queue := m.sessions[userID][mode]
	if len(queue) == 0 {
		return uuid.Nil, false
	}
	return queue[0], true
}

// Len returns the number of items left in the queue
func (m *QueueManager) Len(userID int64, mode QueueMode) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions[userID][mode])
}

// MarkRated removes an id from the session queue immediately after its
// rating was persisted, without waiting for a full resync
func (m *QueueManager) MarkRated(userID int64, mode QueueMode, id uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()

	queues := m.userQueues(userID)
	queue := queues[mode]
	for i, queued := range queue {
		if queued == id {
			queues[mode] = append(queue[:i], queue[i+1:]...)
			return
		}
	}
}

// RotateHead moves the head to the tail: the local "Hard" action of the
// Starred and Difficult modes. Review records are untouched
func (m *QueueManager) RotateHead(userID int64, mode QueueMode) {
	m.mu.Lock()
	defer m.mu.Unlock()

	queues := m.userQueues(userID)
	queue := queues[mode]
	if len(queue) < 2 {
		return
	}
	head := queue[0]
	queues[mode] = append(queue[1:], head)
}

// DropHead removes the head: the local "Easy" action
func (m *QueueManager) DropHead(userID int64, mode QueueMode) {
	m.mu.Lock()
	defer m.mu.Unlock()

	queues := m.userQueues(userID)
	if queue := queues[mode]; len(queue) > 0 {
		queues[mode] = queue[1:]
	}
}

// Clear drops all session queues of the user
func (m *QueueManager) Clear(userID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, userID)
}

// userQueues returns the user's queue map, creating it if needed.
// Callers must hold the write lock
func (m *QueueManager) userQueues(userID int64) map[QueueMode][]uuid.UUID {
	queues, ok := m.sessions[userID]
	if !ok {
		queues = make(map[QueueMode][]uuid.UUID)
		m.sessions[userID] = queues
	}
	return queues
}
