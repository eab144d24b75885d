package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"fleetops/internal/compliance/models"
	id "fleetops/pkg/domain"
	"fleetops/pkg/platform/sentinel"
)

// InMemoryStore keeps each driver's samples sorted by timestamp.
type InMemoryStore struct {
	mu       sync.RWMutex
	byDriver map[id.DriverID][]models.ActivityRecord
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{byDriver: make(map[id.DriverID][]models.ActivityRecord)}
}

// Append stores the batch atomically. A sample whose driver and timestamp
// already exist rejects the whole batch with sentinel.ErrConflict.
func (s *InMemoryStore) Append(_ context.Context, records []models.ActivityRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	type key struct {
		driver id.DriverID
		ts     int64
	}
	batch := make(map[key]struct{}, len(records))
	for _, r := range records {
		k := key{r.DriverID, r.Timestamp.UnixNano()}
		if _, dup := batch[k]; dup {
			return sentinel.ErrConflict
		}
		batch[k] = struct{}{}
		existing := s.byDriver[r.DriverID]
		i := searchFrom(existing, r.Timestamp)
		if i < len(existing) && existing[i].Timestamp.Equal(r.Timestamp) {
			return sentinel.ErrConflict
		}
	}

	for _, r := range records {
		r.Timestamp = r.Timestamp.UTC()
		existing := s.byDriver[r.DriverID]
		i := searchFrom(existing, r.Timestamp)
		existing = append(existing, models.ActivityRecord{})
		copy(existing[i+1:], existing[i:])
		existing[i] = r
		s.byDriver[r.DriverID] = existing
	}
	return nil
}

func (s *InMemoryStore) ListActivities(_ context.Context, driverID id.DriverID, window models.TimeWindow) ([]models.ActivityRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	records := s.byDriver[driverID]
	lo := searchFrom(records, window.Start)
	hi := searchFrom(records, window.End)
	out := make([]models.ActivityRecord, hi-lo)
	copy(out, records[lo:hi])
	return out, nil
}

func (s *InMemoryStore) LastBefore(_ context.Context, driverID id.DriverID, t time.Time) (models.ActivityRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	records := s.byDriver[driverID]
	i := searchFrom(records, t)
	if i == 0 {
		return models.ActivityRecord{}, sentinel.ErrNotFound
	}
	return records[i-1], nil
}

func (s *InMemoryStore) FirstAtOrAfter(_ context.Context, driverID id.DriverID, t time.Time) (models.ActivityRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	records := s.byDriver[driverID]
	i := searchFrom(records, t)
	if i == len(records) {
		return models.ActivityRecord{}, sentinel.ErrNotFound
	}
	return records[i], nil
}

// searchFrom returns the index of the first record at or after t.
func searchFrom(records []models.ActivityRecord, t time.Time) int {
	return sort.Search(len(records), func(i int) bool {
		return !records[i].Timestamp.Before(t)
	})
}
