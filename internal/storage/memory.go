// internal/storage/memory.go
package storage

import (
	"sync"

	"solagire-dashboard/internal/data"
)

const defaultHistory = 10

// SnapshotStore holds the current snapshot and a bounded history of the
// previous ones. Snapshots are immutable; Swap replaces the reference.
type SnapshotStore struct {
	mu       sync.RWMutex
	buffer   []*data.Snapshot
	capacity int
}

func NewSnapshotStore(capacity int) *SnapshotStore {
	if capacity <= 0 {
		capacity = defaultHistory
	}
	return &SnapshotStore{
		buffer:   make([]*data.Snapshot, 0, capacity),
		capacity: capacity,
	}
}

// Swap makes snap the current snapshot and returns the previous one, if any.
func (s *SnapshotStore) Swap(snap *data.Snapshot) *data.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	var prev *data.Snapshot
	if n := len(s.buffer); n > 0 {
		prev = s.buffer[n-1]
	}
	if len(s.buffer) >= s.capacity {
		// drop the oldest
		s.buffer = append(s.buffer[:0], s.buffer[1:]...)
	}
	s.buffer = append(s.buffer, snap)
	return prev
}

// Current returns the most recent snapshot.
func (s *SnapshotStore) Current() (*data.Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.buffer) == 0 {
		return nil, false
	}
	return s.buffer[len(s.buffer)-1], true
}

// Recent returns up to count snapshots, newest first. count <= 0 means all.
func (s *SnapshotStore) Recent(count int) []*data.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if count <= 0 || count > len(s.buffer) {
		count = len(s.buffer)
	}
	result := make([]*data.Snapshot, 0, count)
	for i := len(s.buffer) - 1; i >= len(s.buffer)-count; i-- {
		result = append(result, s.buffer[i])
	}
	return result
}

// Len returns the number of retained snapshots.
func (s *SnapshotStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.buffer)
}
