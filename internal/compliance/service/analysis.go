package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"fleetops/internal/compliance/engine"
	"fleetops/internal/compliance/models"
	id "fleetops/pkg/domain"
	dErrors "fleetops/pkg/domain-errors"
	"fleetops/pkg/platform/sentinel"
	"fleetops/pkg/requestcontext"
)

// maxAnalysisDays caps ad-hoc ranges; a yearly report is the longest period.
const maxAnalysisDays = 366

// AnalyzeDay analyses the calendar day named by date's year, month and day in
// the service timezone. A day with no records is a zeroed, compliant analysis.
func (s *Service) AnalyzeDay(ctx context.Context, driverID id.DriverID, date time.Time) (models.DailyAnalysis, error) {
	if driverID.IsNil() {
		return models.DailyAnalysis{}, dErrors.New(dErrors.CodeInvalidInput, "driver_id is required")
	}
	ctx, span := s.startSpan(ctx, "AnalyzeDay")
	span.SetAttributes(attribute.String("driver_id", driverID.String()))

	days, _, err := s.analyzeDays(ctx, driverID, s.calendarDate(date), s.calendarDate(date))
	endSpan(span, err)
	if err != nil {
		return models.DailyAnalysis{}, err
	}
	return days[0], nil
}

// AnalyzeWeeks analyses every calendar day from through to inclusive and
// groups them into weeks.
func (s *Service) AnalyzeWeeks(ctx context.Context, driverID id.DriverID, from, to time.Time) ([]models.WeeklyAnalysis, error) {
	if driverID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "driver_id is required")
	}
	first, last := s.calendarDate(from), s.calendarDate(to)
	if last.Before(first) {
		return nil, dErrors.New(dErrors.CodeValidation, "to must not be before from")
	}
	ctx, span := s.startSpan(ctx, "AnalyzeWeeks")
	span.SetAttributes(attribute.String("driver_id", driverID.String()))

	days, records, err := s.analyzeDays(ctx, driverID, first, last)
	endSpan(span, err)
	if err != nil {
		return nil, err
	}
	return engine.AnalyzeWeeklyCompliance(days, s.weeklyOptions(records)), nil
}

func (s *Service) weeklyOptions(records []models.ActivityRecord) engine.WeeklyOptions {
	return engine.WeeklyOptions{Regulation: s.regulation, Anchor: s.anchor, Records: records}
}

// calendarDate reinterprets t's year, month and day in the service timezone.
func (s *Service) calendarDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, s.location)
}

// localDate returns midnight of t's calendar day in the service timezone.
func (s *Service) localDate(t time.Time) time.Time {
	return engine.DayWindow(t.In(s.location)).Start
}

// analyzeDays runs the daily analyzer for each calendar day from first to
// last inclusive, using one store fetch for the whole range. The day
// containing the request time is analysed only up to it. The fetched records,
// neighbours included, are returned for weekly rest detection.
func (s *Service) analyzeDays(ctx context.Context, driverID id.DriverID, first, last time.Time) ([]models.DailyAnalysis, []models.ActivityRecord, error) {
	window := models.TimeWindow{Start: first, End: engine.DayWindow(last).End}
	if window.End.Sub(window.Start) > maxAnalysisDays*25*time.Hour {
		return nil, nil, dErrors.New(dErrors.CodeValidation, fmt.Sprintf("range exceeds %d days", maxAnalysisDays))
	}

	records, err := s.fetchWithNeighbours(ctx, driverID, window)
	if err != nil {
		return nil, nil, err
	}

	now := requestcontext.Now(ctx).In(s.location)
	var days []models.DailyAnalysis
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		dayWindow := engine.DayWindow(d)
		dayRecords := recordsFor(records, dayWindow)
		if dayWindow.Contains(now) {
			days = append(days, engine.AnalyzeDayUntil(dayRecords, now, s.regulation))
			continue
		}
		days = append(days, engine.AnalyzeDailyRecords(dayRecords, d, s.regulation))
	}
	return days, records, nil
}

// fetchWithNeighbours returns the records in window, sorted, plus the last
// record before it and the first after it so intervals crossing the window
// edges are attributed correctly.
func (s *Service) fetchWithNeighbours(ctx context.Context, driverID id.DriverID, window models.TimeWindow) ([]models.ActivityRecord, error) {
	start := time.Now()
	defer func() { s.metrics.ObserveFetch(time.Since(start)) }()

	inside, err := s.activities.ListActivities(ctx, driverID, window)
	if err != nil {
		return nil, fmt.Errorf("listing activities: %w", err)
	}
	records := make([]models.ActivityRecord, 0, len(inside)+2)

	before, err := s.activities.LastBefore(ctx, driverID, window.Start)
	switch {
	case err == nil:
		records = append(records, before)
	case !errors.Is(err, sentinel.ErrNotFound):
		return nil, fmt.Errorf("fetching preceding activity: %w", err)
	}

	records = append(records, engine.SortRecords(inside)...)

	after, err := s.activities.FirstAtOrAfter(ctx, driverID, window.End)
	switch {
	case err == nil:
		records = append(records, after)
	case !errors.Is(err, sentinel.ErrNotFound):
		return nil, fmt.Errorf("fetching following activity: %w", err)
	}
	return records, nil
}

// recordsFor slices sorted records down to those inside day plus one
// neighbour on each side.
func recordsFor(sorted []models.ActivityRecord, day models.TimeWindow) []models.ActivityRecord {
	lo := sort.Search(len(sorted), func(i int) bool { return !sorted[i].Timestamp.Before(day.Start) })
	hi := sort.Search(len(sorted), func(i int) bool { return !sorted[i].Timestamp.Before(day.End) })
	if lo > 0 {
		lo--
	}
	if hi < len(sorted) {
		hi++
	}
	return sorted[lo:hi]
}
