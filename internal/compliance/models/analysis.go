package models

import "time"

// ActivityTotals holds hours per activity type.
type ActivityTotals struct {
	Driving   float64 `json:"driving"`
	Rest      float64 `json:"rest"`
	Work      float64 `json:"work"`
	Available float64 `json:"available"`
}

// Add accumulates hours for one activity.
func (t *ActivityTotals) Add(a ActivityType, hours float64) {
	switch a {
	case ActivityDriving:
		t.Driving += hours
	case ActivityRest:
		t.Rest += hours
	case ActivityWork:
		t.Work += hours
	case ActivityAvailable:
		t.Available += hours
	}
}

// Plus returns the field-wise sum.
func (t ActivityTotals) Plus(o ActivityTotals) ActivityTotals {
	return ActivityTotals{
		Driving:   t.Driving + o.Driving,
		Rest:      t.Rest + o.Rest,
		Work:      t.Work + o.Work,
		Available: t.Available + o.Available,
	}
}

// Sum is the total recorded time across all activities.
func (t ActivityTotals) Sum() float64 {
	return t.Driving + t.Rest + t.Work + t.Available
}

// DrivingRun is one continuous-driving accumulation between qualifying breaks.
type DrivingRun struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Hours float64   `json:"hours"`
}

// Break is a REST interval of at least the qualifying break length.
type Break struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Hours float64   `json:"hours"`
}

// RestPeriod is a maximal run of consecutive REST intervals.
type RestPeriod struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Hours float64   `json:"hours"`
}

// DailyAnalysis is derived from one day's records and is never stored as
// authoritative state.
type DailyAnalysis struct {
	Date                  string          `json:"date"`
	DayStart              time.Time       `json:"day_start"`
	Records               int             `json:"records"`
	Totals                ActivityTotals  `json:"totals"`
	ContinuousDrivingRuns []DrivingRun    `json:"continuous_driving_runs"`
	Breaks                []Break         `json:"breaks"`
	RestPeriods           []RestPeriod    `json:"rest_periods"`
	Violations            []Violation     `json:"violations"`
	ComplianceState       ComplianceState `json:"compliance_state"`
	// OpenContinuousDriving is the continuous-driving counter when the scan
	// ended, i.e. driving not yet followed by a qualifying break.
	OpenContinuousDriving float64 `json:"open_continuous_driving"`
	// FirstActivity is the first in-day sample time, zero when none.
	FirstActivity time.Time `json:"first_activity,omitzero"`
	// CoveredFrom is the start of the first interval attributed to the day.
	// It is midnight when activity carries over from the previous day.
	CoveredFrom time.Time `json:"covered_from,omitzero"`
	// InProgress marks a day analysed before it ended. Daily rest minimums
	// are not applied to it.
	InProgress bool `json:"in_progress,omitempty"`
}

// Active reports whether any time was attributed to the day.
func (d DailyAnalysis) Active() bool {
	return d.Totals.Sum() > 0
}

// DailyRest is the sum of the day's rest periods.
func (d DailyAnalysis) DailyRest() float64 {
	var total float64
	for _, rp := range d.RestPeriods {
		total += rp.Hours
	}
	return total
}

// WeeklyAnalysis rolls up the daily analyses that share a week start.
type WeeklyAnalysis struct {
	WeekStart           string         `json:"week_start"`
	Days                []string       `json:"days"`
	Totals              ActivityTotals `json:"totals"`
	ExtendedDrivingDays int            `json:"extended_driving_days"`
	ReducedRestDays     int            `json:"reduced_rest_days"`
	LongestRest         float64        `json:"longest_rest"`
	Complete            bool           `json:"complete"`
	// RestWindow is the seven-day span weekly rest was judged over, nil when
	// it was not judged.
	RestWindow      *TimeWindow     `json:"rest_window,omitempty"`
	Violations      []Violation     `json:"violations"`
	ComplianceState ComplianceState `json:"compliance_state"`
}

// WeekAnchor selects how days are grouped into weeks.
type WeekAnchor string

const (
	// AnchorCalendar groups by ISO week starting Monday.
	AnchorCalendar WeekAnchor = "calendar"
	// AnchorRange groups consecutive 7-day blocks starting at the first analysed day.
	AnchorRange WeekAnchor = "range"
)

func (a WeekAnchor) IsValid() bool {
	return a == AnchorCalendar || a == AnchorRange
}
