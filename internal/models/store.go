package models

import "sync"

// Store holds the local snapshot of one user's collection for the duration of
// a session. It is owned by whoever constructed it (one store per session, not
// a process-wide singleton) and is only mutated through the collection
// controller, which serializes mutation sequences. Individual accessors are
// guarded by an internal RWMutex: the controller's background refresh swaps
// the contents from its own goroutine while callers keep reading.
type Store struct {
	mu      sync.RWMutex
	records []Record
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{}
}

// ReplaceAll swaps the full contents of the store, used after the initial load
// and after background refreshes. The input is cloned so the caller keeps no
// handle into live state.
func (s *Store) ReplaceAll(records []Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = cloneAll(records)
}

// Snapshot returns a copy of the store suitable for rollback: restoring it
// later yields the exact pre-mutation state regardless of what happened to the
// live records in between.
func (s *Store) Snapshot() []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneAll(s.records)
}

// Restore replaces the store contents with a snapshot taken earlier.
func (s *Store) Restore(snapshot []Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = cloneAll(snapshot)
}

// All returns a copy of the records in store order.
func (s *Store) All() []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneAll(s.records)
}

// Len returns the number of records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Get returns the record with the given id.
func (s *Store) Get(id int) (Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.records {
		if r.ID == id {
			return r.Clone(), true
		}
	}
	return Record{}, false
}

// Upsert replaces the record with a matching id in place, or appends when no
// record has that id.
func (s *Store) Upsert(record Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, r := range s.records {
		if r.ID == record.ID {
			s.records[i] = record.Clone()
			return
		}
	}
	s.records = append(s.records, record.Clone())
}

// RemoveByID removes the record with the given id, preserving the relative
// order of the others. Returns false when no record has that id.
func (s *Store) RemoveByID(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, r := range s.records {
		if r.ID == id {
			s.records = append(s.records[:i], s.records[i+1:]...)
			return true
		}
	}
	return false
}

// NextID returns the id a new record should get: one past the highest id in
// the store, or 1 when the store is empty.
func (s *Store) NextID() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	max := 0
	for _, r := range s.records {
		if r.ID > max {
			max = r.ID
		}
	}
	return max + 1
}

// Reindex reassigns every record's id to its 1-based position in store order
// and its rowIndex to position+2 (one for the header row, one for 1-based
// sheet rows). This mirrors the spreadsheet shifting rows up after a delete.
// It walks the whole collection, not just records past the deleted position:
// the store may be ordered by a display sort rather than by id.
func (s *Store) Reindex() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.records {
		s.records[i].ID = i + 1
		s.records[i].RowIndex = i + 2
	}
}

func cloneAll(records []Record) []Record {
	out := make([]Record, len(records))
	for i, r := range records {
		out[i] = r.Clone()
	}
	return out
}
