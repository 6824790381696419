package alarm

import (
	"slices"
	"sync"

	"github.com/sandeepkv93/nutrid/internal/model"
)

// Store owns the alarm records. Published slices are never modified in
// place: every mutation builds a new slice, so a Snapshot can be iterated
// without holding the lock.
type Store struct {
	mu      sync.RWMutex
	records []model.Alarm
}

func NewStore(initial []model.Alarm) *Store {
	out := make([]model.Alarm, 0, len(initial))
	for _, a := range initial {
		out = append(out, a.Clone())
	}
	return &Store{records: out}
}

// Snapshot returns the current immutable slice. Callers must not modify it.
func (s *Store) Snapshot() []model.Alarm {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.records
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

func (s *Store) Get(id string) (model.Alarm, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.records {
		if a.ID == id {
			return a.Clone(), true
		}
	}
	return model.Alarm{}, false
}

func (s *Store) Has(id string) bool {
	_, ok := s.Get(id)
	return ok
}

func (s *Store) Append(a model.Alarm) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := make([]model.Alarm, len(s.records), len(s.records)+1)
	copy(next, s.records)
	s.records = append(next, a.Clone())
}

func (s *Store) Replace(records []model.Alarm) {
	next := make([]model.Alarm, 0, len(records))
	for _, a := range records {
		next = append(next, a.Clone())
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = next
}

// Mutate applies fn to a copy of every record for which match returns true
// and publishes the result. It reports how many records were changed.
func (s *Store) Mutate(match func(model.Alarm) bool, fn func(*model.Alarm)) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	var next []model.Alarm
	changed := 0
	for i, a := range s.records {
		if !match(a) {
			continue
		}
		if next == nil {
			next = slices.Clone(s.records)
		}
		updated := a.Clone()
		fn(&updated)
		next[i] = updated
		changed++
	}
	if next != nil {
		s.records = next
	}
	return changed
}

// Remove drops every record with the given id and reports how many were
// removed.
func (s *Store) Remove(id string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := make([]model.Alarm, 0, len(s.records))
	for _, a := range s.records {
		if a.ID != id {
			next = append(next, a)
		}
	}
	removed := len(s.records) - len(next)
	if removed > 0 {
		s.records = next
	}
	return removed
}
