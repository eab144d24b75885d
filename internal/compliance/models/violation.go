package models

import "time"

// Severity grades a violation. The order low < medium < high < critical is fixed.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Severities lists every severity from least to most serious.
var Severities = []Severity{SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical}

// Rank orders severities; unknown values rank below low.
func (s Severity) Rank() int {
	switch s {
	case SeverityLow:
		return 1
	case SeverityMedium:
		return 2
	case SeverityHigh:
		return 3
	case SeverityCritical:
		return 4
	}
	return 0
}

func (s Severity) IsValid() bool { return s.Rank() > 0 }

type ViolationType string

const (
	ViolationContinuousDriving      ViolationType = "CONTINUOUS_DRIVING_EXCEEDED"
	ViolationDailyDriving           ViolationType = "DAILY_DRIVING_EXCEEDED"
	ViolationInsufficientDailyRest  ViolationType = "INSUFFICIENT_DAILY_REST"
	ViolationWorkingTime            ViolationType = "WORKING_TIME_EXCEEDED"
	ViolationWeeklyDriving          ViolationType = "WEEKLY_DRIVING_EXCEEDED"
	ViolationExtendedDrivingLimit   ViolationType = "EXTENDED_DRIVING_LIMIT_EXCEEDED"
	ViolationReducedRestLimit       ViolationType = "REDUCED_REST_LIMIT_EXCEEDED"
	ViolationInsufficientWeeklyRest ViolationType = "INSUFFICIENT_WEEKLY_REST"
	ViolationReducedWeeklyRest      ViolationType = "REDUCED_WEEKLY_REST"
	ViolationFortnightlyDriving     ViolationType = "FORTNIGHTLY_DRIVING_EXCEEDED"
)

// ViolationTypes lists every type in rule-table order.
var ViolationTypes = []ViolationType{
	ViolationContinuousDriving,
	ViolationDailyDriving,
	ViolationInsufficientDailyRest,
	ViolationWorkingTime,
	ViolationWeeklyDriving,
	ViolationFortnightlyDriving,
	ViolationExtendedDrivingLimit,
	ViolationReducedRestLimit,
	ViolationInsufficientWeeklyRest,
	ViolationReducedWeeklyRest,
}

// Violation is a rule breach found by analysis. Instant breaches carry
// Timestamp; day and week breaches carry Date (YYYY-MM-DD of the day or week start).
type Violation struct {
	Type          ViolationType `json:"type"`
	Severity      Severity      `json:"severity"`
	Actual        float64       `json:"actual"`
	Limit         float64       `json:"limit"`
	ExtendedLimit float64       `json:"extended_limit,omitempty"`
	Timestamp     time.Time     `json:"timestamp,omitzero"`
	Date          string        `json:"date,omitempty"`
	Note          string        `json:"note,omitempty"`
}

// ComplianceState is the worst severity present, or COMPLIANT.
type ComplianceState string

const (
	StateCompliant ComplianceState = "COMPLIANT"
	StateLow       ComplianceState = "LOW"
	StateMedium    ComplianceState = "MEDIUM"
	StateHigh      ComplianceState = "HIGH"
	StateCritical  ComplianceState = "CRITICAL"
)

// StateOf derives the compliance state from a violation list.
func StateOf(violations []Violation) ComplianceState {
	worst := Severity("")
	for _, v := range violations {
		if v.Severity.Rank() > worst.Rank() {
			worst = v.Severity
		}
	}
	return StateForSeverity(worst)
}

func StateForSeverity(s Severity) ComplianceState {
	switch s {
	case SeverityLow:
		return StateLow
	case SeverityMedium:
		return StateMedium
	case SeverityHigh:
		return StateHigh
	case SeverityCritical:
		return StateCritical
	}
	return StateCompliant
}

// Rank orders states the same way as severities; COMPLIANT is 0.
func (s ComplianceState) Rank() int {
	switch s {
	case StateLow:
		return 1
	case StateMedium:
		return 2
	case StateHigh:
		return 3
	case StateCritical:
		return 4
	}
	return 0
}

// Worse returns the more serious of two states.
func Worse(a, b ComplianceState) ComplianceState {
	if b.Rank() > a.Rank() {
		return b
	}
	return a
}
