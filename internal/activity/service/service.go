package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"fleetops/internal/compliance/engine"
	"fleetops/internal/compliance/models"
	id "fleetops/pkg/domain"
	dErrors "fleetops/pkg/domain-errors"
	"fleetops/pkg/platform/audit"
	"fleetops/pkg/platform/sentinel"
	"fleetops/pkg/requestcontext"
)

// MaxBatch bounds a single ingestion request.
const MaxBatch = 10000

// Store persists activity samples.
type Store interface {
	Append(ctx context.Context, records []models.ActivityRecord) error
	ListActivities(ctx context.Context, driverID id.DriverID, window models.TimeWindow) ([]models.ActivityRecord, error)
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.ComplianceEvent) error
}

// Service validates and stores driver activity samples.
type Service struct {
	store   Store
	auditor AuditPublisher
	logger  *slog.Logger
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithAuditPublisher records one operations event per accepted batch.
func WithAuditPublisher(p AuditPublisher) Option {
	return func(s *Service) { s.auditor = p }
}

func New(store Store, opts ...Option) *Service {
	s := &Service{store: store, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Record stores a batch of samples for one driver. Samples may omit the
// driver; a sample naming a different driver is rejected. Samples are
// immutable, so re-sending a timestamp is a conflict.
func (s *Service) Record(ctx context.Context, driverID id.DriverID, records []models.ActivityRecord) (int, error) {
	if driverID.IsNil() {
		return 0, dErrors.New(dErrors.CodeInvalidInput, "driver_id is required")
	}
	if len(records) == 0 {
		return 0, dErrors.New(dErrors.CodeValidation, "activities must not be empty")
	}
	if len(records) > MaxBatch {
		return 0, dErrors.New(dErrors.CodeValidation, fmt.Sprintf("at most %d activities per request", MaxBatch))
	}

	batch := make([]models.ActivityRecord, len(records))
	for i, r := range records {
		if r.DriverID.IsNil() {
			r.DriverID = driverID
		}
		if r.DriverID != driverID {
			return 0, dErrors.New(dErrors.CodeValidation, "activities["+strconv.Itoa(i)+"]: driver_id does not match path")
		}
		if err := r.Validate(); err != nil {
			return 0, dErrors.Wrap(err, dErrors.CodeValidation, "activities["+strconv.Itoa(i)+"]")
		}
		batch[i] = r
	}

	err := s.store.Append(ctx, batch)
	if errors.Is(err, sentinel.ErrConflict) {
		return 0, dErrors.Wrap(err, dErrors.CodeConflict, "an activity with the same timestamp already exists")
	}
	if err != nil {
		return 0, fmt.Errorf("storing activities: %w", err)
	}

	s.logger.InfoContext(ctx, "activities recorded",
		"driver_id", driverID,
		"count", len(batch),
		"request_id", requestcontext.RequestID(ctx),
	)
	if s.auditor != nil {
		err := s.auditor.Emit(ctx, audit.ComplianceEvent{
			DriverID:  driverID,
			Action:    audit.EventActivitiesRecorded,
			Reason:    strconv.Itoa(len(batch)) + " samples",
			RequestID: requestcontext.RequestID(ctx),
			ActorID:   requestcontext.Subject(ctx),
		})
		if err != nil {
			s.logger.WarnContext(ctx, "activity audit failed", "driver_id", driverID, "error", err)
		}
	}
	return len(batch), nil
}

// List returns the driver's samples in window, sorted by timestamp.
func (s *Service) List(ctx context.Context, driverID id.DriverID, window models.TimeWindow) ([]models.ActivityRecord, error) {
	if driverID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "driver_id is required")
	}
	if err := window.Validate(); err != nil {
		return nil, err
	}
	records, err := s.store.ListActivities(ctx, driverID, window)
	if err != nil {
		return nil, fmt.Errorf("listing activities: %w", err)
	}
	return engine.SortRecords(records), nil
}
