package engine

import (
	"time"

	"fleetops/internal/compliance/models"
	id "fleetops/pkg/domain"
)

// trendTolerance is the score difference between period halves treated as stable.
const trendTolerance = 5.0

// ReportInput is everything needed to assemble a report without I/O.
type ReportInput struct {
	ID          id.ReportID
	DriverID    id.DriverID
	Period      models.Period
	Days        []models.DailyAnalysis
	Weeks       []models.WeeklyAnalysis
	GeneratedAt time.Time
}

// AssembleReport binds daily and weekly analyses into a report. Violations
// are listed day by day, then week by week.
func AssembleReport(in ReportInput) models.ComplianceReport {
	violations := []models.Violation{}
	for _, d := range in.Days {
		violations = append(violations, d.Violations...)
	}
	for _, w := range in.Weeks {
		violations = append(violations, w.Violations...)
	}

	summary := summarize(in.Days, violations)
	weeks := in.Weeks
	if weeks == nil {
		weeks = []models.WeeklyAnalysis{}
	}

	return models.ComplianceReport{
		ID:              in.ID,
		DriverID:        in.DriverID,
		Period:          in.Period,
		Summary:         summary,
		Weeks:           weeks,
		Violations:      violations,
		Recommendations: GenerateRecommendations(violations, summary.ComplianceScore, summary.AverageDailyDriving),
		Trends:          buildTrends(in.Days, weeks),
		GeneratedAt:     in.GeneratedAt,
	}
}

func summarize(days []models.DailyAnalysis, violations []models.Violation) models.ReportSummary {
	s := models.ReportSummary{
		DaysAnalyzed:    len(days),
		TotalViolations: len(violations),
		BySeverity:      map[models.Severity]int{},
		ByType:          map[models.ViolationType]int{},
	}
	for _, d := range days {
		s.Totals = s.Totals.Plus(d.Totals)
		if d.Active() {
			s.ActiveDays++
		}
	}
	if s.ActiveDays > 0 {
		s.AverageDailyDriving = s.Totals.Driving / float64(s.ActiveDays)
	}
	for _, v := range violations {
		s.BySeverity[v.Severity]++
		s.ByType[v.Type]++
	}
	s.ComplianceScore = CalculateComplianceScore(violations)
	s.ComplianceState = models.StateOf(violations)
	return s
}

func buildTrends(days []models.DailyAnalysis, weeks []models.WeeklyAnalysis) models.ReportTrends {
	t := models.ReportTrends{
		DailyDriving: make([]models.DailyPoint, 0, len(days)),
		Weekly:       make([]models.WeeklyPoint, 0, len(weeks)),
		Direction:    models.TrendStable,
	}
	byDate := make(map[string]models.DailyAnalysis, len(days))
	for _, d := range days {
		t.DailyDriving = append(t.DailyDriving, models.DailyPoint{Date: d.Date, Driving: d.Totals.Driving})
		byDate[d.Date] = d
	}
	for _, w := range weeks {
		vs := append([]models.Violation{}, w.Violations...)
		for _, date := range w.Days {
			vs = append(vs, byDate[date].Violations...)
		}
		t.Weekly = append(t.Weekly, models.WeeklyPoint{
			WeekStart:  w.WeekStart,
			Driving:    w.Totals.Driving,
			Score:      CalculateComplianceScore(vs),
			Violations: len(vs),
		})
	}
	t.Direction = trendDirection(t.Weekly)
	return t
}

// trendDirection compares the mean weekly score of the second half of the
// period with the first half.
func trendDirection(points []models.WeeklyPoint) models.TrendDirection {
	if len(points) < 2 {
		return models.TrendStable
	}
	half := len(points) / 2
	first := meanScore(points[:half])
	second := meanScore(points[len(points)-half:])
	switch {
	case second-first > trendTolerance:
		return models.TrendImproving
	case first-second > trendTolerance:
		return models.TrendWorsening
	}
	return models.TrendStable
}

func meanScore(points []models.WeeklyPoint) float64 {
	var total float64
	for _, p := range points {
		total += float64(p.Score)
	}
	return total / float64(len(points))
}
