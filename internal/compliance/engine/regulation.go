// Package engine implements the driving-time rules as pure functions.
//
// Nothing here performs I/O, reads a clock or logs. Every function is a
// deterministic function of its arguments, so analyses can be recomputed at
// any time and compared byte for byte.
package engine

// Regulation holds the limits the analysers enforce, in hours unless noted.
type Regulation struct {
	MaxContinuousDriving float64
	QualifyingBreak      float64
	BreakWarning         float64

	DailyDrivingBase     float64
	DailyDrivingExtended float64
	DailyRestRegular     float64
	DailyRestReduced     float64
	MaxDailyWorking      float64

	WeeklyDriving      float64
	FortnightlyDriving float64
	MaxExtendedDays    int
	MaxReducedRestDays int
	WeeklyRestRegular  float64
	WeeklyRestReduced  float64

	// RiskLookahead is the projection horizon for predictive alerts.
	RiskLookahead float64
	// RiskWarningFraction of DailyDrivingBase raises the lower-risk alert.
	RiskWarningFraction float64
}

// DefaultRegulation returns the EU driving-time limits.
func DefaultRegulation() Regulation {
	return Regulation{
		MaxContinuousDriving: 4.5,
		QualifyingBreak:      0.75,
		BreakWarning:         4.0,

		DailyDrivingBase:     9,
		DailyDrivingExtended: 10,
		DailyRestRegular:     11,
		DailyRestReduced:     9,
		MaxDailyWorking:      13,

		WeeklyDriving:      56,
		FortnightlyDriving: 90,
		MaxExtendedDays:    2,
		MaxReducedRestDays: 3,
		WeeklyRestRegular:  45,
		WeeklyRestReduced:  24,

		RiskLookahead:       2,
		RiskWarningFraction: 0.9,
	}
}
