package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "fleetops/pkg/domain"
	dErrors "fleetops/pkg/domain-errors"
)

func TestParseActivityType(t *testing.T) {
	a, err := ParseActivityType(" driving ")
	require.NoError(t, err)
	assert.Equal(t, ActivityDriving, a)

	_, err = ParseActivityType("SLEEPING")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
}

func TestActivityRecordValidate(t *testing.T) {
	valid := ActivityRecord{
		DriverID:  id.DriverID(uuid.New()),
		Activity:  ActivityRest,
		Timestamp: time.Date(2024, 1, 15, 8, 0, 0, 0, time.UTC),
	}
	require.NoError(t, valid.Validate())

	negative := -1.0
	tests := map[string]func(r *ActivityRecord){
		"missing driver":    func(r *ActivityRecord) { r.DriverID = id.DriverID{} },
		"unknown activity":  func(r *ActivityRecord) { r.Activity = "NAP" },
		"missing timestamp": func(r *ActivityRecord) { r.Timestamp = time.Time{} },
		"bad latitude":      func(r *ActivityRecord) { r.Position = &Position{Latitude: 91} },
		"negative speed":    func(r *ActivityRecord) { r.Speed = &negative },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			r := valid
			mutate(&r)
			err := r.Validate()
			require.Error(t, err)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
		})
	}
}

func TestTimeWindow(t *testing.T) {
	start := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	w := TimeWindow{Start: start, End: start.Add(24 * time.Hour)}

	assert.True(t, w.Contains(start))
	assert.False(t, w.Contains(w.End), "end is exclusive")
	assert.Equal(t, 24.0, w.Hours())
	assert.NoError(t, w.Validate())
	assert.Error(t, TimeWindow{Start: start, End: start}.Validate())
	assert.Error(t, TimeWindow{}.Validate())
}

func TestStateOf(t *testing.T) {
	assert.Equal(t, StateCompliant, StateOf(nil))
	assert.Equal(t, StateHigh, StateOf([]Violation{
		{Severity: SeverityMedium}, {Severity: SeverityHigh}, {Severity: SeverityLow},
	}))
	assert.Equal(t, StateCritical, Worse(StateLow, StateCritical))
	assert.Equal(t, StateMedium, Worse(StateMedium, StateCompliant))
}

func TestPeriodEnding(t *testing.T) {
	now := time.Date(2024, 3, 31, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		period PeriodType
		start  time.Time
	}{
		{PeriodWeekly, time.Date(2024, 3, 24, 12, 0, 0, 0, time.UTC)},
		{PeriodMonthly, time.Date(2024, 3, 2, 12, 0, 0, 0, time.UTC)}, // Feb 31 normalizes
		{PeriodQuarterly, time.Date(2023, 12, 31, 12, 0, 0, 0, time.UTC)},
		{PeriodYearly, time.Date(2023, 3, 31, 12, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(string(tt.period), func(t *testing.T) {
			p, err := PeriodEnding(tt.period, now)
			require.NoError(t, err)
			assert.Equal(t, tt.start, p.Start)
			assert.Equal(t, now, p.End)
			assert.Equal(t, tt.period, p.Type)
		})
	}

	_, err := PeriodEnding("daily", now)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))

	_, err = ParsePeriodType("fortnightly")
	assert.Error(t, err)
	p, err := ParsePeriodType("Monthly")
	require.NoError(t, err)
	assert.Equal(t, PeriodMonthly, p)
}

func TestAlertDedupKey(t *testing.T) {
	driver := id.DriverID(uuid.MustParse("11111111-1111-1111-1111-111111111111"))
	a := Alert{Type: AlertBreakDue, DriverID: driver, Severity: SeverityMedium}
	assert.Equal(t, "11111111-1111-1111-1111-111111111111:CONTINUOUS_DRIVING_BREAK_DUE:medium:2024-01-15", a.DedupKey("2024-01-15"))
}
