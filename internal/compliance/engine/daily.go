package engine

import (
	"sort"
	"time"

	"fleetops/internal/compliance/models"
)

const dateLayout = "2006-01-02"

// SortRecords returns a copy ordered by timestamp. Ties keep input order.
func SortRecords(records []models.ActivityRecord) []models.ActivityRecord {
	sorted := make([]models.ActivityRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})
	return sorted
}

// DayWindow returns [midnight, next midnight) of date in date's location.
func DayWindow(date time.Time) models.TimeWindow {
	start := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	return models.TimeWindow{Start: start, End: start.AddDate(0, 0, 1)}
}

// AnalyzeDailyRecords analyses one calendar day.
//
// The interval between consecutive records i and i+1 belongs to record i's
// activity and is clipped to the day. Records outside the day therefore only
// close or open intervals: a caller may pass the last record before midnight
// and the first record after it so rest spanning midnight is split between
// days. The last interval ends at the last record; nothing is extrapolated.
// A day with fewer than two samples of its own is zeroed and compliant, even
// when neighbouring records would span it.
func AnalyzeDailyRecords(records []models.ActivityRecord, date time.Time, reg Regulation) models.DailyAnalysis {
	day := DayWindow(date)
	return analyze(SortRecords(records), day, scanMode{cutoff: day.End, ownRecords: true}, reg)
}

// AnalyzeDayUntil analyses the day containing now with the same rules as
// AnalyzeDailyRecords, ignoring time after now. The day has not ended, so
// daily rest minimums are not applied.
func AnalyzeDayUntil(records []models.ActivityRecord, now time.Time, reg Regulation) models.DailyAnalysis {
	day := DayWindow(now)
	return analyze(SortRecords(records), day, scanMode{cutoff: now, ownRecords: true, inProgress: true}, reg)
}

// AnalyzeInProgressDay analyses today up to now, treating the latest record's
// activity as ongoing until now. A record from before midnight alone is
// enough: its activity is carried from midnight. Daily rest minimums are not
// applied.
func AnalyzeInProgressDay(records []models.ActivityRecord, now time.Time, reg Regulation) models.DailyAnalysis {
	day := DayWindow(now)
	sorted := SortRecords(records)
	if n := len(sorted); n > 0 && sorted[n-1].Timestamp.Before(now) {
		open := sorted[n-1]
		open.Timestamp = now
		sorted = append(sorted, open)
	}
	return analyze(sorted, day, scanMode{cutoff: now, inProgress: true}, reg)
}

type scanMode struct {
	cutoff time.Time
	// ownRecords zeroes days with fewer than two in-day samples.
	ownRecords bool
	inProgress bool
}

type dailyScan struct {
	reg      Regulation
	analysis models.DailyAnalysis

	counter  float64
	runStart time.Time
	runEnd   time.Time
	flagged  bool

	restOpen  bool
	restStart time.Time
	restEnd   time.Time
}

func analyze(sorted []models.ActivityRecord, day models.TimeWindow, mode scanMode, reg Regulation) models.DailyAnalysis {
	s := &dailyScan{
		reg: reg,
		analysis: models.DailyAnalysis{
			Date:                  day.Start.Format(dateLayout),
			DayStart:              day.Start,
			ContinuousDrivingRuns: []models.DrivingRun{},
			Breaks:                []models.Break{},
			RestPeriods:           []models.RestPeriod{},
			Violations:            []models.Violation{},
			ComplianceState:       models.StateCompliant,
			InProgress:            mode.inProgress,
		},
	}
	end := day.End
	if mode.cutoff.Before(end) {
		end = mode.cutoff
	}

	for _, r := range sorted {
		if day.Contains(r.Timestamp) && r.Timestamp.Before(end) {
			s.analysis.Records++
			if s.analysis.FirstActivity.IsZero() {
				s.analysis.FirstActivity = r.Timestamp
			}
		}
	}
	if mode.ownRecords && s.analysis.Records < 2 {
		return s.analysis
	}

	for i := 0; i+1 < len(sorted); i++ {
		from, to := clip(sorted[i].Timestamp, sorted[i+1].Timestamp, day.Start, end)
		if !to.After(from) {
			continue
		}
		if s.analysis.CoveredFrom.IsZero() {
			s.analysis.CoveredFrom = from
		}
		s.interval(sorted[i].Activity, from, to)
	}
	s.closeRest()
	s.analysis.OpenContinuousDriving = s.counter
	if s.counter > 0 {
		s.appendRun()
	}

	s.applyDailyLimits()
	s.analysis.ComplianceState = models.StateOf(s.analysis.Violations)
	return s.analysis
}

func clip(from, to, lo, hi time.Time) (time.Time, time.Time) {
	if from.Before(lo) {
		from = lo
	}
	if to.After(hi) {
		to = hi
	}
	return from, to
}

func (s *dailyScan) interval(activity models.ActivityType, from, to time.Time) {
	hours := to.Sub(from).Hours()
	s.analysis.Totals.Add(activity, hours)

	if activity != models.ActivityRest {
		s.closeRest()
	}

	switch activity {
	case models.ActivityDriving:
		if s.counter == 0 {
			s.runStart = from
		}
		s.counter += hours
		s.runEnd = to
		if !s.flagged && s.counter > s.reg.MaxContinuousDriving {
			s.flagged = true
			s.analysis.Violations = append(s.analysis.Violations, models.Violation{
				Type:      models.ViolationContinuousDriving,
				Severity:  models.SeverityHigh,
				Actual:    s.counter,
				Limit:     s.reg.MaxContinuousDriving,
				Timestamp: to,
			})
		}
	case models.ActivityRest:
		if !s.restOpen {
			s.restOpen = true
			s.restStart = from
		}
		s.restEnd = to
		// Consecutive REST samples form one rest; once it reaches the
		// qualifying length the continuous-driving counter resets.
		if s.counter > 0 && s.restEnd.Sub(s.restStart).Hours() >= s.reg.QualifyingBreak {
			s.appendRun()
			s.counter = 0
			s.flagged = false
		}
	}
}

// closeRest ends the current run of consecutive REST intervals.
func (s *dailyScan) closeRest() {
	if !s.restOpen {
		return
	}
	s.restOpen = false
	hours := s.restEnd.Sub(s.restStart).Hours()
	s.analysis.RestPeriods = append(s.analysis.RestPeriods, models.RestPeriod{
		Start: s.restStart,
		End:   s.restEnd,
		Hours: hours,
	})
	if hours >= s.reg.QualifyingBreak {
		s.analysis.Breaks = append(s.analysis.Breaks, models.Break{
			Start: s.restStart,
			End:   s.restEnd,
			Hours: hours,
		})
	}
}

func (s *dailyScan) appendRun() {
	s.analysis.ContinuousDrivingRuns = append(s.analysis.ContinuousDrivingRuns, models.DrivingRun{
		Start: s.runStart,
		End:   s.runEnd,
		Hours: s.counter,
	})
}

func (s *dailyScan) applyDailyLimits() {
	a := &s.analysis
	if !a.Active() {
		return
	}
	date := a.Date
	driving := a.Totals.Driving

	switch {
	case driving > s.reg.DailyDrivingExtended:
		a.Violations = append(a.Violations, models.Violation{
			Type:          models.ViolationDailyDriving,
			Severity:      models.SeverityCritical,
			Actual:        driving,
			Limit:         s.reg.DailyDrivingBase,
			ExtendedLimit: s.reg.DailyDrivingExtended,
			Date:          date,
		})
	case driving > s.reg.DailyDrivingBase:
		a.Violations = append(a.Violations, models.Violation{
			Type:          models.ViolationDailyDriving,
			Severity:      models.SeverityMedium,
			Actual:        driving,
			Limit:         s.reg.DailyDrivingBase,
			ExtendedLimit: s.reg.DailyDrivingExtended,
			Date:          date,
			Note:          "using permitted extension (max 2×/week)",
		})
	}

	rest := a.DailyRest()
	switch {
	case a.InProgress:
		// rest may still accrue before midnight
	case rest < s.reg.DailyRestReduced:
		a.Violations = append(a.Violations, models.Violation{
			Type:     models.ViolationInsufficientDailyRest,
			Severity: models.SeverityCritical,
			Actual:   rest,
			Limit:    s.reg.DailyRestReduced,
			Date:     date,
		})
	case rest < s.reg.DailyRestRegular:
		a.Violations = append(a.Violations, models.Violation{
			Type:     models.ViolationInsufficientDailyRest,
			Severity: models.SeverityMedium,
			Actual:   rest,
			Limit:    s.reg.DailyRestRegular,
			Date:     date,
			Note:     "reduced rest (max 3×/week)",
		})
	}

	if working := driving + a.Totals.Work; working > s.reg.MaxDailyWorking {
		a.Violations = append(a.Violations, models.Violation{
			Type:     models.ViolationWorkingTime,
			Severity: models.SeverityHigh,
			Actual:   working,
			Limit:    s.reg.MaxDailyWorking,
			Date:     date,
		})
	}
}
