// Package report keeps finished analyses for the lifetime of the process and
// renders them for download.
package report

import (
	"sync"

	"github.com/google/uuid"

	"github.com/jonathan/researchscope/internal/pipeline"
)

// Store is an in-memory, process-lifetime collection of reports.
// Nothing is persisted or evicted.
type Store struct {
	mu      sync.RWMutex
	reports map[uuid.UUID]*pipeline.Report
	order   []uuid.UUID
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{reports: make(map[uuid.UUID]*pipeline.Report)}
}

// Add stores a report under its ID, replacing any report with the same ID.
func (s *Store) Add(r *pipeline.Report) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.reports[r.ID]; !exists {
		s.order = append(s.order, r.ID)
	}
	s.reports[r.ID] = r
}

// Get returns the report with the given ID.
func (s *Store) Get(id uuid.UUID) (*pipeline.Report, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.reports[id]
	return r, ok
}

// List returns all reports, newest first.
func (s *Store) List() []*pipeline.Report {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*pipeline.Report, 0, len(s.order))
	for i := len(s.order) - 1; i >= 0; i-- {
		out = append(out, s.reports[s.order[i]])
	}
	return out
}

// Len returns the number of stored reports.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.reports)
}
