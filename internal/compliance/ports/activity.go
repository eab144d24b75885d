package ports

import (
	"context"
	"time"

	"fleetops/internal/compliance/models"
	id "fleetops/pkg/domain"
)

//go:generate mockgen -source=activity.go -destination=../service/mocks/activity_mock.go -package=mocks

// ActivityStore supplies driver activity samples. Results may be unsorted;
// the engine sorts them.
type ActivityStore interface {
	// ListActivities returns the driver's samples with Timestamp in window.
	ListActivities(ctx context.Context, driverID id.DriverID, window models.TimeWindow) ([]models.ActivityRecord, error)
	// LastBefore returns the latest sample strictly before t, or sentinel.ErrNotFound.
	LastBefore(ctx context.Context, driverID id.DriverID, t time.Time) (models.ActivityRecord, error)
	// FirstAtOrAfter returns the earliest sample at or after t, or sentinel.ErrNotFound.
	FirstAtOrAfter(ctx context.Context, driverID id.DriverID, t time.Time) (models.ActivityRecord, error)
}
