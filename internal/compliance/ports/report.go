package ports

import (
	"context"

	"fleetops/internal/compliance/models"
	id "fleetops/pkg/domain"
)

//go:generate mockgen -source=report.go -destination=../service/mocks/report_mock.go -package=mocks

// ReportStore persists assembled reports. Reports are evidence and are never
// updated once saved.
type ReportStore interface {
	Save(ctx context.Context, report models.ComplianceReport) error
	// Get returns sentinel.ErrNotFound for an unknown ID.
	Get(ctx context.Context, reportID id.ReportID) (models.ComplianceReport, error)
	// ListByDriver returns the driver's reports, newest first.
	ListByDriver(ctx context.Context, driverID id.DriverID) ([]models.ComplianceReport, error)
}
