package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"fleetops/internal/compliance/engine"
	"fleetops/internal/compliance/models"
	id "fleetops/pkg/domain"
	dErrors "fleetops/pkg/domain-errors"
	"fleetops/pkg/platform/audit"
	"fleetops/pkg/platform/sentinel"
	"fleetops/pkg/requestcontext"
)

// GenerateReport assembles and stores a report for the period ending now.
// Every calendar day touched by [now - period, now) is analysed.
func (s *Service) GenerateReport(ctx context.Context, driverID id.DriverID, period models.PeriodType) (models.ComplianceReport, error) {
	return s.generate(ctx, driverID, period, audit.EventReportGenerated)
}

// GenerateFleetReports generates one report per driver, at most concurrency
// at a time. The first failure cancels the remaining drivers and is returned.
// Reports come back in driverIDs order.
func (s *Service) GenerateFleetReports(ctx context.Context, driverIDs []id.DriverID, period models.PeriodType) ([]models.ComplianceReport, error) {
	if len(driverIDs) == 0 {
		return nil, dErrors.New(dErrors.CodeValidation, "driver_ids must not be empty")
	}
	if !period.IsValid() {
		return nil, dErrors.New(dErrors.CodeValidation, "unsupported period: "+string(period))
	}
	seen := make(map[id.DriverID]struct{}, len(driverIDs))
	for _, d := range driverIDs {
		if d.IsNil() {
			return nil, dErrors.New(dErrors.CodeInvalidInput, "driver_ids must not contain empty IDs")
		}
		if _, dup := seen[d]; dup {
			return nil, dErrors.New(dErrors.CodeValidation, "duplicate driver_id "+d.String())
		}
		seen[d] = struct{}{}
	}

	ctx, span := s.startSpan(ctx, "GenerateFleetReports")
	span.SetAttributes(attribute.Int("drivers", len(driverIDs)), attribute.String("period", string(period)))

	reports := make([]models.ComplianceReport, len(driverIDs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, driverID := range driverIDs {
		i, driverID := i, driverID
		g.Go(func() error {
			r, err := s.generate(gctx, driverID, period, audit.EventFleetReportGenerated)
			if err != nil {
				return fmt.Errorf("driver %s: %w", driverID, err)
			}
			reports[i] = r
			return nil
		})
	}
	err := g.Wait()
	endSpan(span, err)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "fleet reports generated",
		"drivers", len(driverIDs),
		"period", period,
		"request_id", requestcontext.RequestID(ctx),
	)
	return reports, nil
}

func (s *Service) generate(ctx context.Context, driverID id.DriverID, periodType models.PeriodType, action audit.AuditEvent) (models.ComplianceReport, error) {
	if driverID.IsNil() {
		return models.ComplianceReport{}, dErrors.New(dErrors.CodeInvalidInput, "driver_id is required")
	}
	now := requestcontext.Now(ctx).In(s.location)
	period, err := models.PeriodEnding(periodType, now)
	if err != nil {
		return models.ComplianceReport{}, err
	}

	ctx, span := s.startSpan(ctx, "GenerateReport")
	span.SetAttributes(
		attribute.String("driver_id", driverID.String()),
		attribute.String("period", string(periodType)),
	)
	start := time.Now()

	report, err := s.assemble(ctx, driverID, period, now)
	if err == nil {
		err = s.runTx(ctx, func(ctx context.Context) error {
			if err := s.reports.Save(ctx, report); err != nil {
				return fmt.Errorf("saving report: %w", err)
			}
			return s.emitReportEvents(ctx, report, action)
		})
	}
	endSpan(span, err)
	if err != nil {
		s.logger.ErrorContext(ctx, "report generation failed",
			"driver_id", driverID,
			"period", periodType,
			"error", err,
		)
		return models.ComplianceReport{}, err
	}

	s.metrics.ObserveReport(report, time.Since(start))
	s.logger.InfoContext(ctx, "compliance report generated",
		"driver_id", driverID,
		"report_id", report.ID,
		"period", periodType,
		"state", report.Summary.ComplianceState,
		"score", report.Summary.ComplianceScore,
		"violations", report.Summary.TotalViolations,
		"request_id", requestcontext.RequestID(ctx),
	)
	return report, nil
}

func (s *Service) assemble(ctx context.Context, driverID id.DriverID, period models.Period, now time.Time) (models.ComplianceReport, error) {
	first := s.localDate(period.Start)
	last := s.localDate(period.End)
	if period.End.Equal(last) {
		last = last.AddDate(0, 0, -1)
	}
	days, records, err := s.analyzeDays(ctx, driverID, first, last)
	if err != nil {
		return models.ComplianceReport{}, err
	}
	return engine.AssembleReport(engine.ReportInput{
		ID:          id.NewReportID(),
		DriverID:    driverID,
		Period:      period,
		Days:        days,
		Weeks:       engine.AnalyzeWeeklyCompliance(days, s.weeklyOptions(records)),
		GeneratedAt: now,
	}), nil
}

func (s *Service) emitReportEvents(ctx context.Context, report models.ComplianceReport, action audit.AuditEvent) error {
	if s.auditor == nil {
		return nil
	}
	base := audit.ComplianceEvent{
		Timestamp: report.GeneratedAt,
		DriverID:  report.DriverID,
		ReportID:  report.ID.String(),
		Period:    string(report.Period.Type),
		State:     string(report.Summary.ComplianceState),
		Score:     report.Summary.ComplianceScore,
		RequestID: requestcontext.RequestID(ctx),
		ActorID:   requestcontext.Subject(ctx),
	}

	generated := base
	generated.Action = action
	if err := s.auditor.Emit(ctx, generated); err != nil {
		return err
	}
	if report.Summary.TotalViolations == 0 {
		return nil
	}
	detected := base
	detected.Action = audit.EventViolationDetected
	detected.Reason = violationTypes(report.Summary.ByType)
	return s.auditor.Emit(ctx, detected)
}

// violationTypes lists the present types in rule-table order.
func violationTypes(byType map[models.ViolationType]int) string {
	var present []string
	for _, t := range models.ViolationTypes {
		if byType[t] > 0 {
			present = append(present, string(t))
		}
	}
	return strings.Join(present, ",")
}

// GetReport returns a stored report.
func (s *Service) GetReport(ctx context.Context, reportID id.ReportID) (models.ComplianceReport, error) {
	if reportID.IsNil() {
		return models.ComplianceReport{}, dErrors.New(dErrors.CodeInvalidInput, "report_id is required")
	}
	r, err := s.reports.Get(ctx, reportID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return models.ComplianceReport{}, dErrors.Wrap(err, dErrors.CodeNotFound, "report not found")
	}
	if err != nil {
		return models.ComplianceReport{}, fmt.Errorf("loading report: %w", err)
	}
	return r, nil
}

// ListReports returns the driver's stored reports, newest first.
func (s *Service) ListReports(ctx context.Context, driverID id.DriverID) ([]models.ComplianceReport, error) {
	if driverID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "driver_id is required")
	}
	reports, err := s.reports.ListByDriver(ctx, driverID)
	if err != nil {
		return nil, fmt.Errorf("listing reports: %w", err)
	}
	if reports == nil {
		reports = []models.ComplianceReport{}
	}
	return reports, nil
}
