package models

import (
	"strings"
	"time"

	id "fleetops/pkg/domain"
	dErrors "fleetops/pkg/domain-errors"
)

// PeriodType names the span a compliance report covers.
type PeriodType string

const (
	PeriodWeekly    PeriodType = "weekly"
	PeriodMonthly   PeriodType = "monthly"
	PeriodQuarterly PeriodType = "quarterly"
	PeriodYearly    PeriodType = "yearly"
)

func (p PeriodType) IsValid() bool {
	switch p {
	case PeriodWeekly, PeriodMonthly, PeriodQuarterly, PeriodYearly:
		return true
	}
	return false
}

// ParsePeriodType rejects unknown tokens; there is no default period.
func ParsePeriodType(s string) (PeriodType, error) {
	p := PeriodType(strings.ToLower(strings.TrimSpace(s)))
	if !p.IsValid() {
		return "", dErrors.New(dErrors.CodeValidation, "period must be one of weekly, monthly, quarterly, yearly")
	}
	return p, nil
}

// Period is a report's resolved range.
type Period struct {
	Type  PeriodType `json:"type"`
	Start time.Time  `json:"start"`
	End   time.Time  `json:"end"`
}

// PeriodEnding subtracts the calendar span of p from now, giving [now-span, now).
func PeriodEnding(p PeriodType, now time.Time) (Period, error) {
	var start time.Time
	switch p {
	case PeriodWeekly:
		start = now.AddDate(0, 0, -7)
	case PeriodMonthly:
		start = now.AddDate(0, -1, 0)
	case PeriodQuarterly:
		start = now.AddDate(0, -3, 0)
	case PeriodYearly:
		start = now.AddDate(-1, 0, 0)
	default:
		return Period{}, dErrors.New(dErrors.CodeValidation, "unsupported period: "+string(p))
	}
	return Period{Type: p, Start: start, End: now}, nil
}

func (p Period) Window() TimeWindow {
	return TimeWindow{Start: p.Start, End: p.End}
}

// Recommendation is advice derived from the violations in a report.
type Recommendation struct {
	Code     string        `json:"code"`
	Priority Severity      `json:"priority"`
	Message  string        `json:"message"`
	Trigger  ViolationType `json:"trigger,omitempty"`
}

type ReportSummary struct {
	DaysAnalyzed        int                   `json:"days_analyzed"`
	ActiveDays          int                   `json:"active_days"`
	Totals              ActivityTotals        `json:"totals"`
	AverageDailyDriving float64               `json:"average_daily_driving"`
	ComplianceScore     int                   `json:"compliance_score"`
	ComplianceState     ComplianceState       `json:"compliance_state"`
	TotalViolations     int                   `json:"total_violations"`
	BySeverity          map[Severity]int      `json:"by_severity"`
	ByType              map[ViolationType]int `json:"by_type"`
}

type TrendDirection string

const (
	TrendImproving TrendDirection = "improving"
	TrendStable    TrendDirection = "stable"
	TrendWorsening TrendDirection = "worsening"
)

type DailyPoint struct {
	Date    string  `json:"date"`
	Driving float64 `json:"driving"`
}

type WeeklyPoint struct {
	WeekStart  string  `json:"week_start"`
	Driving    float64 `json:"driving"`
	Score      int     `json:"score"`
	Violations int     `json:"violations"`
}

type ReportTrends struct {
	DailyDriving []DailyPoint   `json:"daily_driving"`
	Weekly       []WeeklyPoint  `json:"weekly"`
	Direction    TrendDirection `json:"direction"`
}

// ComplianceReport is the assembled, persisted result for one driver and period.
type ComplianceReport struct {
	ID              id.ReportID      `json:"id"`
	DriverID        id.DriverID      `json:"driver_id"`
	Period          Period           `json:"period"`
	Summary         ReportSummary    `json:"summary"`
	Weeks           []WeeklyAnalysis `json:"weeks"`
	Violations      []Violation      `json:"violations"`
	Recommendations []Recommendation `json:"recommendations"`
	Trends          ReportTrends     `json:"trends"`
	GeneratedAt     time.Time        `json:"generated_at"`
}
