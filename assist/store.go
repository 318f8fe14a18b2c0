package assist

import "sync"

// RecordStore holds the current record set. Loads are tagged with versions handed out by
// Begin so that a slow, older load can never overwrite the result of a newer one.
type RecordStore struct {
	mu      sync.RWMutex
	records RecordSet
	issued  uint64
	applied uint64
}

// NewRecordStore constructs an empty store.
func NewRecordStore() *RecordStore {
	return &RecordStore{}
}

// Begin reserves the version for a new load.
func (s *RecordStore) Begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.issued++
	return s.issued
}

// Replace swaps in records loaded under version. It reports false and keeps the current
// set when a newer version has already been applied.
func (s *RecordStore) Replace(version uint64, records RecordSet) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if version <= s.applied {
		return false
	}
	s.records = records.Clone()
	if s.records == nil {
		s.records = RecordSet{}
	}
	s.applied = version
	return true
}

// Snapshot returns the current records and the version they were loaded under.
// The returned slice must not be modified.
func (s *RecordStore) Snapshot() (RecordSet, uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.records, s.applied
}

// Applied returns the version of the current record set, zero before the first load.
func (s *RecordStore) Applied() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.applied
}

// Size returns the current number of records stored.
func (s *RecordStore) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
