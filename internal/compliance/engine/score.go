package engine

import "fleetops/internal/compliance/models"

// severityDeductions is the fixed score penalty per violation.
var severityDeductions = map[models.Severity]int{
	models.SeverityCritical: 25,
	models.SeverityHigh:     15,
	models.SeverityMedium:   10,
	models.SeverityLow:      5,
}

// Deduction returns the score penalty for one violation of severity s.
func Deduction(s models.Severity) int {
	return severityDeductions[s]
}

// CalculateComplianceScore starts at 100 and subtracts the fixed deduction of
// every violation, clamped at 0. Order does not matter.
func CalculateComplianceScore(violations []models.Violation) int {
	score := 100
	for _, v := range violations {
		score -= Deduction(v.Severity)
		if score <= 0 {
			return 0
		}
	}
	return score
}
