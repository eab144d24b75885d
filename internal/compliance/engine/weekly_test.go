package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fleetops/internal/compliance/models"
)

// day builds a synthetic daily analysis whose rest is one period ending at midnight.
func day(offset int, driving, rest float64) models.DailyAnalysis {
	start := testDay.AddDate(0, 0, offset)
	end := start.AddDate(0, 0, 1)
	d := models.DailyAnalysis{
		Date:            start.Format(dateLayout),
		DayStart:        start,
		Totals:          models.ActivityTotals{Driving: driving, Rest: rest},
		RestPeriods:     []models.RestPeriod{},
		Violations:      []models.Violation{},
		ComplianceState: models.StateCompliant,
	}
	if rest > 0 {
		d.RestPeriods = append(d.RestPeriods, models.RestPeriod{
			Start: end.Add(-time.Duration(rest * float64(time.Hour))),
			End:   end,
			Hours: rest,
		})
	}
	return d
}

func week(offset int, driving, rest float64) []models.DailyAnalysis {
	days := make([]models.DailyAnalysis, 7)
	for i := range days {
		days[i] = day(offset+i, driving, rest)
	}
	return days
}

func calendarOpts() WeeklyOptions {
	return WeeklyOptions{Regulation: DefaultRegulation(), Anchor: models.AnchorCalendar}
}

func TestAnalyzeWeeklyCompliance_Empty(t *testing.T) {
	weeks := AnalyzeWeeklyCompliance(nil, calendarOpts())
	assert.NotNil(t, weeks)
	assert.Empty(t, weeks)
}

func TestAnalyzeWeeklyCompliance_TotalsAreExactSum(t *testing.T) {
	days := []models.DailyAnalysis{
		day(0, 8.1, 12.3), day(1, 7.7, 11.9), day(2, 9.2, 10.4), day(3, 0.1, 13.3),
		day(4, 8.05, 12), day(5, 3.3, 14), day(6, 0, 24),
	}
	weeks := AnalyzeWeeklyCompliance(days, calendarOpts())
	require.Len(t, weeks, 1)

	var want models.ActivityTotals
	for _, d := range days {
		want = want.Plus(d.Totals)
	}
	assert.InDelta(t, want.Driving, weeks[0].Totals.Driving, 1e-9)
	assert.InDelta(t, want.Rest, weeks[0].Totals.Rest, 1e-9)
	assert.Len(t, weeks[0].Days, 7)
	assert.True(t, weeks[0].Complete)
}

func TestAnalyzeWeeklyCompliance_WeeklyRules(t *testing.T) {
	t.Run("weekly driving above 56h", func(t *testing.T) {
		days := week(0, 8.5, 12)
		days[6] = day(6, 8.5, 48)
		weeks := AnalyzeWeeklyCompliance(days, calendarOpts())
		require.Len(t, weeks, 1)

		vs := findViolations(weeks[0].Violations, models.ViolationWeeklyDriving)
		require.Len(t, vs, 1)
		assert.Equal(t, models.SeverityCritical, vs[0].Severity)
		assert.InDelta(t, 59.5, vs[0].Actual, 1e-9)
		assert.Equal(t, "2024-01-15", vs[0].Date)
		assert.Equal(t, models.StateCritical, weeks[0].ComplianceState)
	})

	t.Run("more than two extended days", func(t *testing.T) {
		days := week(0, 6, 12)
		for i := 0; i < 3; i++ {
			days[i] = day(i, 9.5, 12)
		}
		weeks := AnalyzeWeeklyCompliance(days, calendarOpts())
		assert.Equal(t, 3, weeks[0].ExtendedDrivingDays)
		vs := findViolations(weeks[0].Violations, models.ViolationExtendedDrivingLimit)
		require.Len(t, vs, 1)
		assert.Equal(t, models.SeverityHigh, vs[0].Severity)
	})

	t.Run("two extended days allowed", func(t *testing.T) {
		days := week(0, 6, 12)
		days[0] = day(0, 9.5, 12)
		days[1] = day(1, 10, 12)
		weeks := AnalyzeWeeklyCompliance(days, calendarOpts())
		assert.False(t, hasViolation(weeks[0].Violations, models.ViolationExtendedDrivingLimit))
	})

	t.Run("more than three reduced rest days", func(t *testing.T) {
		days := week(0, 6, 12)
		for i := 0; i < 4; i++ {
			days[i] = day(i, 6, 10)
		}
		weeks := AnalyzeWeeklyCompliance(days, calendarOpts())
		assert.Equal(t, 4, weeks[0].ReducedRestDays)
		assert.True(t, hasViolation(weeks[0].Violations, models.ViolationReducedRestLimit))
	})

	t.Run("inactive days are not reduced rest days", func(t *testing.T) {
		days := week(0, 6, 12)
		days[5] = day(5, 0, 0)
		days[6] = day(6, 0, 0)
		weeks := AnalyzeWeeklyCompliance(days, calendarOpts())
		assert.Equal(t, 0, weeks[0].ReducedRestDays)
	})

	t.Run("week without activity has no violations", func(t *testing.T) {
		weeks := AnalyzeWeeklyCompliance(week(0, 0, 0), calendarOpts())
		require.Len(t, weeks, 1)
		assert.Empty(t, weeks[0].Violations)
		assert.Equal(t, models.StateCompliant, weeks[0].ComplianceState)
	})
}

func TestAnalyzeWeeklyCompliance_WeeklyRest(t *testing.T) {
	t.Run("rest joined across midnight is regular", func(t *testing.T) {
		days := week(0, 8, 12)
		days[5] = day(5, 0, 24)
		days[6] = day(6, 0, 24)
		weeks := AnalyzeWeeklyCompliance(days, calendarOpts())
		assert.InDelta(t, 60.0, weeks[0].LongestRest, 1e-9)
		assert.False(t, hasViolation(weeks[0].Violations, models.ViolationReducedWeeklyRest))
		assert.False(t, hasViolation(weeks[0].Violations, models.ViolationInsufficientWeeklyRest))
	})

	t.Run("36h is reduced weekly rest", func(t *testing.T) {
		days := week(0, 8, 12)
		days[6] = day(6, 0, 24)
		weeks := AnalyzeWeeklyCompliance(days, calendarOpts())
		assert.InDelta(t, 36.0, weeks[0].LongestRest, 1e-9)
		vs := findViolations(weeks[0].Violations, models.ViolationReducedWeeklyRest)
		require.Len(t, vs, 1)
		assert.Equal(t, models.SeverityMedium, vs[0].Severity)
		assert.Equal(t, 45.0, vs[0].Limit)
	})

	t.Run("no long rest is insufficient", func(t *testing.T) {
		weeks := AnalyzeWeeklyCompliance(week(0, 8, 12), calendarOpts())
		vs := findViolations(weeks[0].Violations, models.ViolationInsufficientWeeklyRest)
		require.Len(t, vs, 1)
		assert.Equal(t, models.SeverityCritical, vs[0].Severity)
		assert.Equal(t, 24.0, vs[0].Limit)
	})

	t.Run("partial week is not judged", func(t *testing.T) {
		weeks := AnalyzeWeeklyCompliance(week(0, 8, 12)[:4], calendarOpts())
		require.Len(t, weeks, 1)
		assert.False(t, weeks[0].Complete)
		assert.False(t, hasViolation(weeks[0].Violations, models.ViolationInsufficientWeeklyRest))
	})
}

func TestAnalyzeWeeklyCompliance_TrailingSevenDays(t *testing.T) {
	// Wednesday through the following Wednesday: two partial calendar weeks.
	days := append(week(2, 8, 12), day(9, 8, 12))

	weeks := AnalyzeWeeklyCompliance(days, calendarOpts())
	require.Len(t, weeks, 2)
	assert.False(t, weeks[0].Complete)
	assert.False(t, weeks[1].Complete)
	assert.Nil(t, weeks[0].RestWindow)
	assert.False(t, hasViolation(weeks[0].Violations, models.ViolationInsufficientWeeklyRest))

	require.NotNil(t, weeks[1].RestWindow)
	assert.Equal(t, at(3, 0, 0), weeks[1].RestWindow.Start)
	assert.Equal(t, at(10, 0, 0), weeks[1].RestWindow.End)
	vs := findViolations(weeks[1].Violations, models.ViolationInsufficientWeeklyRest)
	require.Len(t, vs, 1)
	assert.InDelta(t, 12.0, vs[0].Actual, 1e-9)
	assert.Equal(t, models.StateCritical, weeks[1].ComplianceState)

	t.Run("a complete week takes precedence", func(t *testing.T) {
		days := append(week(0, 8, 12), day(7, 8, 12))
		weeks := AnalyzeWeeklyCompliance(days, calendarOpts())
		require.Len(t, weeks, 2)
		assert.True(t, hasViolation(weeks[0].Violations, models.ViolationInsufficientWeeklyRest))
		assert.Nil(t, weeks[1].RestWindow)
		assert.False(t, hasViolation(weeks[1].Violations, models.ViolationInsufficientWeeklyRest))
	})

	t.Run("gap in the last seven days is not judged", func(t *testing.T) {
		days := append(week(2, 8, 12)[:6], day(9, 8, 12))
		weeks := AnalyzeWeeklyCompliance(days, calendarOpts())
		for _, w := range weeks {
			assert.Nil(t, w.RestWindow)
		}
	})
}

func TestAnalyzeWeeklyCompliance_RestFromRawRecords(t *testing.T) {
	// Saturday and Sunday have no samples of their own, so their daily
	// analyses are empty; the raw intervals still show a 48h rest.
	days := week(0, 8, 0)
	days[5] = day(5, 0, 0)
	days[6] = day(6, 0, 0)
	records := []models.ActivityRecord{
		rec(at(4, 18, 0), D),
		rec(at(5, 0, 0), R),
		rec(at(6, 12, 0), R),
		rec(at(7, 0, 0), D),
	}

	withRecords := calendarOpts()
	withRecords.Records = records
	weeks := AnalyzeWeeklyCompliance(days, withRecords)
	require.Len(t, weeks, 1)
	assert.InDelta(t, 48.0, weeks[0].LongestRest, 1e-9)
	assert.False(t, hasViolation(weeks[0].Violations, models.ViolationInsufficientWeeklyRest))
	assert.False(t, hasViolation(weeks[0].Violations, models.ViolationReducedWeeklyRest))

	weeks = AnalyzeWeeklyCompliance(days, calendarOpts())
	assert.True(t, hasViolation(weeks[0].Violations, models.ViolationInsufficientWeeklyRest))
}

func TestAnalyzeWeeklyCompliance_InProgressDayIsNotReducedRest(t *testing.T) {
	days := week(0, 8, 10)
	days[6].InProgress = true
	days[6].RestPeriods[0].Hours = 2

	weeks := AnalyzeWeeklyCompliance(days, calendarOpts())
	require.Len(t, weeks, 1)
	assert.Equal(t, 6, weeks[0].ReducedRestDays)
}

func TestAnalyzeWeeklyCompliance_Grouping(t *testing.T) {
	// Wednesday through the following Tuesday.
	days := week(2, 6, 12)

	t.Run("calendar anchor splits at Monday", func(t *testing.T) {
		weeks := AnalyzeWeeklyCompliance(days, calendarOpts())
		require.Len(t, weeks, 2)
		assert.Equal(t, "2024-01-15", weeks[0].WeekStart)
		assert.Len(t, weeks[0].Days, 5)
		assert.Equal(t, "2024-01-22", weeks[1].WeekStart)
		assert.Len(t, weeks[1].Days, 2)
	})

	t.Run("range anchor starts at first day", func(t *testing.T) {
		opts := calendarOpts()
		opts.Anchor = models.AnchorRange
		weeks := AnalyzeWeeklyCompliance(days, opts)
		require.Len(t, weeks, 1)
		assert.Equal(t, "2024-01-17", weeks[0].WeekStart)
	})

	t.Run("input order does not matter", func(t *testing.T) {
		shuffled := []models.DailyAnalysis{days[6], days[0], days[3], days[5], days[1], days[4], days[2]}
		assert.Equal(t, AnalyzeWeeklyCompliance(days, calendarOpts()), AnalyzeWeeklyCompliance(shuffled, calendarOpts()))
	})
}

func TestAnalyzeWeeklyCompliance_FortnightlyCap(t *testing.T) {
	first := week(0, 50.0/6, 12)
	first[6] = day(6, 0, 48)
	second := week(7, 45.0/6, 12)
	second[6] = day(13, 0, 48)

	weeks := AnalyzeWeeklyCompliance(append(first, second...), calendarOpts())
	require.Len(t, weeks, 2)
	assert.False(t, hasViolation(weeks[0].Violations, models.ViolationFortnightlyDriving))

	vs := findViolations(weeks[1].Violations, models.ViolationFortnightlyDriving)
	require.Len(t, vs, 1)
	assert.InDelta(t, 95.0, vs[0].Actual, 1e-9)
	assert.Equal(t, 90.0, vs[0].Limit)
	assert.Equal(t, models.StateCritical, weeks[1].ComplianceState)
	assert.False(t, hasViolation(weeks[1].Violations, models.ViolationWeeklyDriving))
}

func TestAnalyzeWeeklyCompliance_FortnightlyNeedsAdjacentWeeks(t *testing.T) {
	first := week(0, 50.0/6, 12)
	third := week(14, 45.0/6, 12)

	weeks := AnalyzeWeeklyCompliance(append(first, third...), calendarOpts())
	require.Len(t, weeks, 2)
	assert.False(t, hasViolation(weeks[1].Violations, models.ViolationFortnightlyDriving))
}
