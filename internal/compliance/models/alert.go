package models

import (
	"time"

	id "fleetops/pkg/domain"
)

type AlertType string

const (
	// AlertDailyDrivingRisk is raised when the linear projection of today's
	// driving crosses the daily limit or its warning threshold.
	AlertDailyDrivingRisk AlertType = "DAILY_DRIVING_RISK"
	// AlertBreakDue is raised when the open continuous-driving run is close
	// to the continuous limit.
	AlertBreakDue AlertType = "CONTINUOUS_DRIVING_BREAK_DUE"
)

// PredictionMethod documents how alert figures are computed. The risk
// estimate is a linear extrapolation of today's average driving rate, not a
// statistical model.
const PredictionMethod = "linear_projection"

// Alert is a near-real-time warning about the current, partially elapsed day.
type Alert struct {
	Type               AlertType   `json:"type"`
	DriverID           id.DriverID `json:"driver_id"`
	Severity           Severity    `json:"severity"`
	RiskScore          float64     `json:"risk_score"`
	CurrentHours       float64     `json:"current_hours"`
	ProjectedHours     float64     `json:"projected_hours,omitempty"`
	Threshold          float64     `json:"threshold"`
	MinutesToViolation int         `json:"minutes_to_violation"`
	Method             string      `json:"method"`
	Message            string      `json:"message"`
	GeneratedAt        time.Time   `json:"generated_at"`
}

// DedupKey identifies an alert for the ledger: one emission per driver, type,
// severity and day.
func (a Alert) DedupKey(day string) string {
	return a.DriverID.String() + ":" + string(a.Type) + ":" + string(a.Severity) + ":" + day
}
