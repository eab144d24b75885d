package report

import (
	"context"
	"sort"
	"sync"

	"fleetops/internal/compliance/models"
	id "fleetops/pkg/domain"
	"fleetops/pkg/platform/sentinel"
)

// InMemoryStore keeps reports in process memory for tests and single-node runs.
type InMemoryStore struct {
	mu      sync.RWMutex
	reports map[id.ReportID]models.ComplianceReport
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{reports: make(map[id.ReportID]models.ComplianceReport)}
}

func (s *InMemoryStore) Save(_ context.Context, report models.ComplianceReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.reports[report.ID]; exists {
		return sentinel.ErrConflict
	}
	s.reports[report.ID] = report
	return nil
}

func (s *InMemoryStore) Get(_ context.Context, reportID id.ReportID) (models.ComplianceReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.reports[reportID]
	if !ok {
		return models.ComplianceReport{}, sentinel.ErrNotFound
	}
	return r, nil
}

// ListByDriver returns the driver's reports, newest first.
func (s *InMemoryStore) ListByDriver(_ context.Context, driverID id.DriverID) ([]models.ComplianceReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []models.ComplianceReport{}
	for _, r := range s.reports {
		if r.DriverID == driverID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].GeneratedAt.After(out[j].GeneratedAt)
	})
	return out, nil
}
