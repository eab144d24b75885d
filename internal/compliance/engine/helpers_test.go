package engine

import (
	"time"

	"fleetops/internal/compliance/models"
)

var testDay = time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC) // Monday

// at returns testDay shifted by dayOffset days at hh:mm.
func at(dayOffset, hh, mm int) time.Time {
	return testDay.AddDate(0, 0, dayOffset).Add(time.Duration(hh)*time.Hour + time.Duration(mm)*time.Minute)
}

func rec(ts time.Time, a models.ActivityType) models.ActivityRecord {
	return models.ActivityRecord{Activity: a, Timestamp: ts}
}

func findViolations(vs []models.Violation, typ models.ViolationType) []models.Violation {
	var out []models.Violation
	for _, v := range vs {
		if v.Type == typ {
			out = append(out, v)
		}
	}
	return out
}

func hasViolation(vs []models.Violation, typ models.ViolationType) bool {
	return len(findViolations(vs, typ)) > 0
}
