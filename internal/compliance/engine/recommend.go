package engine

import "fleetops/internal/compliance/models"

type recommendationRule struct {
	trigger models.ViolationType
	rec     models.Recommendation
}

// recommendationRules is evaluated in order; each rule fires at most once.
var recommendationRules = []recommendationRule{
	{models.ViolationContinuousDriving, models.Recommendation{
		Code:     "SCHEDULE_BREAKS",
		Priority: models.SeverityHigh,
		Message:  "Schedule a 45-minute break at least every 4 hours of driving",
	}},
	{models.ViolationDailyDriving, models.Recommendation{
		Code:     "REVIEW_ROUTES",
		Priority: models.SeverityHigh,
		Message:  "Review route planning and driver rotation to keep daily driving within 9 hours",
	}},
	{models.ViolationInsufficientDailyRest, models.Recommendation{
		Code:     "ENFORCE_DAILY_REST",
		Priority: models.SeverityHigh,
		Message:  "Plan shifts so every driver gets an 11-hour daily rest",
	}},
	{models.ViolationWorkingTime, models.Recommendation{
		Code:     "LIMIT_OTHER_WORK",
		Priority: models.SeverityMedium,
		Message:  "Move loading and administrative work off drivers who are near their driving limit",
	}},
	{models.ViolationWeeklyDriving, models.Recommendation{
		Code:     "CAP_WEEKLY_HOURS",
		Priority: models.SeverityHigh,
		Message:  "Cap weekly assignments at 56 driving hours",
	}},
	{models.ViolationFortnightlyDriving, models.Recommendation{
		Code:     "BALANCE_FORTNIGHT",
		Priority: models.SeverityHigh,
		Message:  "Balance consecutive weeks so two-week driving stays within 90 hours",
	}},
	{models.ViolationExtendedDrivingLimit, models.Recommendation{
		Code:     "LIMIT_EXTENSIONS",
		Priority: models.SeverityMedium,
		Message:  "Use the 10-hour daily extension at most twice per week",
	}},
	{models.ViolationReducedRestLimit, models.Recommendation{
		Code:     "LIMIT_REDUCED_REST",
		Priority: models.SeverityMedium,
		Message:  "Reduce daily rest to 9 hours at most three times between weekly rests",
	}},
	{models.ViolationInsufficientWeeklyRest, models.Recommendation{
		Code:     "ROTATE_WEEKLY_REST",
		Priority: models.SeverityHigh,
		Message:  "Schedule mandatory rotation so each driver takes a 45-hour weekly rest",
	}},
	{models.ViolationReducedWeeklyRest, models.Recommendation{
		Code:     "COMPENSATE_WEEKLY_REST",
		Priority: models.SeverityLow,
		Message:  "Compensate reduced weekly rest within three weeks",
	}},
}

// GenerateRecommendations maps violation types present in violations to
// advice, then adds threshold advice for low scores and heavy average driving.
func GenerateRecommendations(violations []models.Violation, score int, averageDailyDriving float64) []models.Recommendation {
	present := make(map[models.ViolationType]bool, len(violations))
	for _, v := range violations {
		present[v.Type] = true
	}

	out := []models.Recommendation{}
	for _, rule := range recommendationRules {
		if present[rule.trigger] {
			rec := rule.rec
			rec.Trigger = rule.trigger
			out = append(out, rec)
		}
	}
	if score < 50 {
		out = append(out, models.Recommendation{
			Code:     "MANDATORY_TRAINING",
			Priority: models.SeverityCritical,
			Message:  "Enrol the driver in mandatory driving-time compliance training",
		})
	}
	if averageDailyDriving > 8 {
		out = append(out, models.Recommendation{
			Code:     "REDISTRIBUTE_WORKLOAD",
			Priority: models.SeverityMedium,
			Message:  "Redistribute workload; average daily driving exceeds 8 hours",
		})
	}
	return out
}
