package debugger

import "sync"

// DefaultStoreCapacity bounds the authoritative entry store.
const DefaultStoreCapacity = 1000

// LogStore holds the most recent entries in insertion order. Once capacity is
// reached the oldest entry is evicted on every append.
type LogStore struct {
	mu      sync.Mutex
	entries *ring[LogEntry]
}

func NewLogStore(capacity int) *LogStore {
	if capacity <= 0 {
		capacity = DefaultStoreCapacity
	}
	return &LogStore{
		entries: newRing[LogEntry](capacity),
	}
}

// Append adds entry at the end of the sequence.
func (s *LogStore) Append(entry LogEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries.add(entry)
}

// All returns a copy of the stored entries, oldest first. Appends made after
// the call are not reflected in the returned slice.
func (s *LogStore) All() []LogEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.entries.list()
}

// Clear empties the store.
func (s *LogStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries.reset()
}

func (s *LogStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.entries.len()
}

func (s *LogStore) Capacity() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.entries.capacity()
}
