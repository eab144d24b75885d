package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"fleetops/internal/compliance/engine"
	"fleetops/internal/compliance/models"
	id "fleetops/pkg/domain"
	dErrors "fleetops/pkg/domain-errors"
	"fleetops/pkg/platform/audit"
	"fleetops/pkg/platform/sentinel"
	"fleetops/pkg/requestcontext"
)

// GetActiveAlerts evaluates the alert rules for today so far. The latest
// record's activity is treated as ongoing until now.
//
// Alerts are always returned. The first sighting of each alert per day is
// also announced through the audit trail; announcement failures are logged
// and never hide the alerts from the caller.
func (s *Service) GetActiveAlerts(ctx context.Context, driverID id.DriverID) ([]models.Alert, error) {
	if driverID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "driver_id is required")
	}
	now := requestcontext.Now(ctx).In(s.location)

	ctx, span := s.startSpan(ctx, "GetActiveAlerts")
	span.SetAttributes(attribute.String("driver_id", driverID.String()))

	records, err := s.fetchToday(ctx, driverID, now)
	endSpan(span, err)
	if err != nil {
		return nil, err
	}

	today := engine.AnalyzeInProgressDay(records, now, s.regulation)
	alerts := engine.ActiveAlerts(driverID, today, now, s.regulation)
	for _, a := range alerts {
		s.announce(ctx, a, today.Date)
	}
	return alerts, nil
}

func (s *Service) fetchToday(ctx context.Context, driverID id.DriverID, now time.Time) ([]models.ActivityRecord, error) {
	dayStart := engine.DayWindow(now).Start
	window := models.TimeWindow{Start: dayStart, End: now}

	var records []models.ActivityRecord
	before, err := s.activities.LastBefore(ctx, driverID, dayStart)
	switch {
	case err == nil:
		records = append(records, before)
	case !errors.Is(err, sentinel.ErrNotFound):
		return nil, fmt.Errorf("fetching preceding activity: %w", err)
	}
	if !now.After(dayStart) {
		return records, nil
	}

	start := time.Now()
	today, err := s.activities.ListActivities(ctx, driverID, window)
	s.metrics.ObserveFetch(time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("listing activities: %w", err)
	}
	return append(records, today...), nil
}

func (s *Service) announce(ctx context.Context, a models.Alert, day string) {
	if s.ledger != nil {
		first, err := s.ledger.FirstSeen(ctx, a.DedupKey(day), s.dedupTTL)
		if err != nil {
			s.logger.WarnContext(ctx, "alert ledger unavailable", "driver_id", a.DriverID, "error", err)
		} else if !first {
			return
		}
	}

	s.metrics.IncAlert(a)
	s.logger.InfoContext(ctx, "compliance alert raised",
		"driver_id", a.DriverID,
		"type", a.Type,
		"severity", a.Severity,
		"risk_score", a.RiskScore,
		"minutes_to_violation", a.MinutesToViolation,
	)
	if s.auditor == nil {
		return
	}
	err := s.auditor.Emit(ctx, audit.ComplianceEvent{
		Timestamp: a.GeneratedAt,
		DriverID:  a.DriverID,
		Action:    audit.EventAlertRaised,
		State:     string(a.Severity),
		Reason:    string(a.Type),
		RequestID: requestcontext.RequestID(ctx),
		ActorID:   requestcontext.Subject(ctx),
	})
	if err != nil {
		s.logger.WarnContext(ctx, "alert audit failed", "driver_id", a.DriverID, "error", err)
	}
}
