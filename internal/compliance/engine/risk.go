package engine

import (
	"fmt"
	"math"
	"time"

	"fleetops/internal/compliance/models"
	id "fleetops/pkg/domain"
)

// PredictDrivingRisk projects today's driving linearly.
//
// rate = driving so far / hours covered so far today, and the
// projection is driving + rate × lookahead. Crossing the daily limit gives
// risk 0.9; crossing RiskWarningFraction of it gives 0.7. Minutes to
// violation assume the rate holds. This is a heuristic, not a statistical
// model. A zero rate never alerts.
func PredictDrivingRisk(driverID id.DriverID, today models.DailyAnalysis, now time.Time, reg Regulation) (models.Alert, bool) {
	soFar := today.Totals.Driving
	if soFar <= 0 || today.CoveredFrom.IsZero() {
		return models.Alert{}, false
	}
	// Both halves of the rate span the same time: driving carried over
	// from before midnight is counted from midnight.
	elapsed := now.Sub(today.CoveredFrom).Hours()
	if elapsed <= 0 {
		return models.Alert{}, false
	}
	rate := soFar / elapsed
	projected := soFar + rate*reg.RiskLookahead

	limit := reg.DailyDrivingBase
	warning := limit * reg.RiskWarningFraction

	var (
		threshold float64
		risk      float64
		severity  models.Severity
	)
	switch {
	case projected > limit:
		threshold, risk, severity = limit, 0.9, models.SeverityHigh
	case projected > warning:
		threshold, risk, severity = warning, 0.7, models.SeverityMedium
	default:
		return models.Alert{}, false
	}

	minutes := math.Max(0, (threshold-soFar)/rate*60)
	return models.Alert{
		Type:               models.AlertDailyDrivingRisk,
		DriverID:           driverID,
		Severity:           severity,
		RiskScore:          risk,
		CurrentHours:       soFar,
		ProjectedHours:     projected,
		Threshold:          threshold,
		MinutesToViolation: int(math.Round(minutes)),
		Method:             models.PredictionMethod,
		Message: fmt.Sprintf("projected %.1fh driving within %.0fh exceeds %.1fh threshold",
			projected, reg.RiskLookahead, threshold),
		GeneratedAt: now,
	}, true
}

// BreakDue alerts when the open continuous-driving run is between the warning
// level and the continuous limit.
func BreakDue(driverID id.DriverID, today models.DailyAnalysis, now time.Time, reg Regulation) (models.Alert, bool) {
	c := today.OpenContinuousDriving
	if c < reg.BreakWarning || c > reg.MaxContinuousDriving {
		return models.Alert{}, false
	}
	minutes := (reg.MaxContinuousDriving - c) * 60
	return models.Alert{
		Type:               models.AlertBreakDue,
		DriverID:           driverID,
		Severity:           models.SeverityMedium,
		RiskScore:          c / reg.MaxContinuousDriving,
		CurrentHours:       c,
		Threshold:          reg.MaxContinuousDriving,
		MinutesToViolation: int(math.Round(minutes)),
		Method:             models.PredictionMethod,
		Message:            fmt.Sprintf("%.0f minutes of continuous driving left before a 45-minute break is required", minutes),
		GeneratedAt:        now,
	}, true
}

// ActiveAlerts evaluates every alert rule for an in-progress day.
func ActiveAlerts(driverID id.DriverID, today models.DailyAnalysis, now time.Time, reg Regulation) []models.Alert {
	alerts := []models.Alert{}
	if a, ok := PredictDrivingRisk(driverID, today, now, reg); ok {
		alerts = append(alerts, a)
	}
	if a, ok := BreakDue(driverID, today, now, reg); ok {
		alerts = append(alerts, a)
	}
	return alerts
}
