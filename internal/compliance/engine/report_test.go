package engine

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fleetops/internal/compliance/models"
	id "fleetops/pkg/domain"
)

func TestAssembleReport(t *testing.T) {
	reg := DefaultRegulation()
	days := week(0, 9.5, 12)
	for i := range days {
		days[i].Violations = []models.Violation{{
			Type: models.ViolationDailyDriving, Severity: models.SeverityMedium, Date: days[i].Date,
		}}
		days[i].ComplianceState = models.StateMedium
	}
	weeks := AnalyzeWeeklyCompliance(days, WeeklyOptions{Regulation: reg, Anchor: models.AnchorCalendar})
	period, err := models.PeriodEnding(models.PeriodWeekly, at(7, 0, 0))
	require.NoError(t, err)

	report := AssembleReport(ReportInput{
		ID:          id.NewReportID(),
		DriverID:    id.DriverID(uuid.New()),
		Period:      period,
		Days:        days,
		Weeks:       weeks,
		GeneratedAt: at(7, 0, 0),
	})

	t.Run("day violations precede week violations", func(t *testing.T) {
		require.Greater(t, len(report.Violations), 7)
		for _, v := range report.Violations[:7] {
			assert.Equal(t, models.ViolationDailyDriving, v.Type)
		}
		assert.Equal(t, len(report.Violations), report.Summary.TotalViolations)
	})

	t.Run("summary", func(t *testing.T) {
		s := report.Summary
		assert.Equal(t, 7, s.DaysAnalyzed)
		assert.Equal(t, 7, s.ActiveDays)
		assert.InDelta(t, 66.5, s.Totals.Driving, 1e-9)
		assert.InDelta(t, 9.5, s.AverageDailyDriving, 1e-9)
		assert.Equal(t, 7, s.ByType[models.ViolationDailyDriving])
		assert.Equal(t, 1, s.ByType[models.ViolationWeeklyDriving])
		assert.Equal(t, 0, s.ComplianceScore)
		assert.Equal(t, models.StateCritical, s.ComplianceState)
	})

	t.Run("recommendations", func(t *testing.T) {
		codes := map[string]bool{}
		for _, r := range report.Recommendations {
			codes[r.Code] = true
		}
		assert.True(t, codes["REVIEW_ROUTES"])
		assert.True(t, codes["CAP_WEEKLY_HOURS"])
		assert.True(t, codes["LIMIT_EXTENSIONS"])
		assert.True(t, codes["MANDATORY_TRAINING"])
		assert.True(t, codes["REDISTRIBUTE_WORKLOAD"])
	})

	t.Run("trends", func(t *testing.T) {
		assert.Len(t, report.Trends.DailyDriving, 7)
		require.Len(t, report.Trends.Weekly, 1)
		assert.Equal(t, 0, report.Trends.Weekly[0].Score)
		assert.Equal(t, models.TrendStable, report.Trends.Direction)
	})
}

func TestAssembleReport_Empty(t *testing.T) {
	report := AssembleReport(ReportInput{ID: id.NewReportID()})

	assert.NotNil(t, report.Violations)
	assert.NotNil(t, report.Weeks)
	assert.NotNil(t, report.Recommendations)
	assert.Equal(t, 100, report.Summary.ComplianceScore)
	assert.Equal(t, models.StateCompliant, report.Summary.ComplianceState)
	assert.Zero(t, report.Summary.AverageDailyDriving)
}

func TestTrendDirection(t *testing.T) {
	points := func(scores ...int) []models.WeeklyPoint {
		out := make([]models.WeeklyPoint, len(scores))
		for i, s := range scores {
			out[i].Score = s
		}
		return out
	}

	tests := []struct {
		name   string
		scores []int
		want   models.TrendDirection
	}{
		{"single week", []int{40}, models.TrendStable},
		{"improving", []int{50, 60, 80, 90}, models.TrendImproving},
		{"worsening", []int{100, 90, 70}, models.TrendWorsening},
		{"within tolerance", []int{80, 84}, models.TrendStable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, trendDirection(points(tt.scores...)))
		})
	}
}
