// Package store persists verification reports. Implementations satisfy
// verify.ReportStore and return sentinel.ErrNotFound for unknown IDs.
package store

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"veridoc/internal/verify"
	"veridoc/pkg/platform/sentinel"
)

// InMemoryStore keeps reports in process memory. Suitable for tests and
// single-instance deployments without Postgres.
type InMemoryStore struct {
	mu      sync.RWMutex
	reports map[uuid.UUID]verify.Report
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{reports: make(map[uuid.UUID]verify.Report)}
}

func (s *InMemoryStore) Save(_ context.Context, report verify.Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports[report.ID] = report
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, id uuid.UUID) (verify.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if report, ok := s.reports[id]; ok {
		return report, nil
	}
	return verify.Report{}, sentinel.ErrNotFound
}
