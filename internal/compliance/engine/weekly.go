package engine

import (
	"sort"
	"time"

	"fleetops/internal/compliance/models"
)

// WeeklyOptions configures week grouping.
type WeeklyOptions struct {
	Regulation Regulation
	Anchor     models.WeekAnchor
	// Records are the raw samples behind the days, including the neighbours
	// just outside them. When set, weekly rest is measured on their
	// intervals; otherwise it is rebuilt from the daily rest periods.
	Records []models.ActivityRecord
}

// WeekStart returns the start of the week containing day. For AnchorRange,
// weeks are 7-day blocks counted from origin.
func WeekStart(day time.Time, anchor models.WeekAnchor, origin time.Time) time.Time {
	d := DayWindow(day).Start
	if anchor == models.AnchorRange {
		o := DayWindow(origin).Start
		offset := daysBetween(o, d)
		if offset < 0 {
			offset -= 6
		}
		return o.AddDate(0, 0, (offset/7)*7)
	}
	shift := (int(d.Weekday()) + 6) % 7 // Monday = 0
	return d.AddDate(0, 0, -shift)
}

// daysBetween counts calendar days, independent of DST-length days.
func daysBetween(a, b time.Time) int {
	ua := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	ub := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(ub.Sub(ua).Hours() / 24)
}

// AnalyzeWeeklyCompliance groups daily analyses into weeks and applies the
// weekly rules. Days may arrive in any order; weeks are returned ascending.
//
// Weekly rest is the longest continuous rest overlapping the week. It is
// judged for complete weeks (seven analysed days), since a partial week may
// still contain its rest. When no week is complete but the last seven days
// are consecutive, those seven days stand in for the last week, so a
// seven-day range split by the anchor is still judged once. Consecutive weeks
// whose combined driving exceeds the fortnightly cap flag the later week.
func AnalyzeWeeklyCompliance(days []models.DailyAnalysis, opts WeeklyOptions) []models.WeeklyAnalysis {
	reg := opts.Regulation
	if len(days) == 0 {
		return []models.WeeklyAnalysis{}
	}

	ordered := make([]models.DailyAnalysis, len(days))
	copy(ordered, days)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].DayStart.Before(ordered[j].DayStart)
	})
	origin := ordered[0].DayStart

	type bucket struct {
		start time.Time
		days  []models.DailyAnalysis
	}
	var buckets []*bucket
	index := map[string]*bucket{}
	for _, d := range ordered {
		ws := WeekStart(d.DayStart, opts.Anchor, origin)
		key := ws.Format(dateLayout)
		b, ok := index[key]
		if !ok {
			b = &bucket{start: ws}
			index[key] = b
			buckets = append(buckets, b)
		}
		b.days = append(b.days, d)
	}

	var rests []models.RestPeriod
	if len(opts.Records) > 0 {
		rests = restRuns(opts.Records)
	} else {
		rests = joinRestPeriods(ordered)
	}
	trailing, hasTrailing := trailingWeek(ordered)

	weeks := make([]models.WeeklyAnalysis, 0, len(buckets))
	for _, b := range buckets {
		w := models.WeeklyAnalysis{
			WeekStart:  b.start.Format(dateLayout),
			Days:       make([]string, 0, len(b.days)),
			Violations: []models.Violation{},
			Complete:   len(b.days) == 7,
		}
		state := models.StateCompliant
		active := false
		for _, d := range b.days {
			w.Days = append(w.Days, d.Date)
			w.Totals = w.Totals.Plus(d.Totals)
			if !d.Active() {
				continue
			}
			active = true
			if d.Totals.Driving > reg.DailyDrivingBase {
				w.ExtendedDrivingDays++
			}
			if !d.InProgress && d.DailyRest() < reg.DailyRestRegular {
				w.ReducedRestDays++
			}
			state = models.Worse(state, d.ComplianceState)
		}

		weekEnd := b.start.AddDate(0, 0, 7)
		w.LongestRest = longestRestWithin(rests, b.start, weekEnd)
		if w.Complete {
			w.RestWindow = &models.TimeWindow{Start: b.start, End: weekEnd}
		}

		if active {
			w.Violations = weeklyViolations(w, reg)
		}
		w.ComplianceState = models.Worse(state, models.StateOf(w.Violations))
		weeks = append(weeks, w)
	}

	if n := len(weeks); n > 0 && hasTrailing && !anyComplete(weeks) {
		last := &weeks[n-1]
		last.RestWindow = &trailing
		last.LongestRest = longestRestWithin(rests, trailing.Start, trailing.End)
		if activeWithin(ordered, trailing) {
			last.Violations = append(last.Violations, weeklyRestViolations(*last, reg)...)
			last.ComplianceState = models.Worse(last.ComplianceState, models.StateOf(last.Violations))
		}
	}

	applyFortnightlyCap(weeks, reg)
	return weeks
}

func weeklyViolations(w models.WeeklyAnalysis, reg Regulation) []models.Violation {
	out := []models.Violation{}
	if w.Totals.Driving > reg.WeeklyDriving {
		out = append(out, models.Violation{
			Type:     models.ViolationWeeklyDriving,
			Severity: models.SeverityCritical,
			Actual:   w.Totals.Driving,
			Limit:    reg.WeeklyDriving,
			Date:     w.WeekStart,
		})
	}
	if w.ExtendedDrivingDays > reg.MaxExtendedDays {
		out = append(out, models.Violation{
			Type:     models.ViolationExtendedDrivingLimit,
			Severity: models.SeverityHigh,
			Actual:   float64(w.ExtendedDrivingDays),
			Limit:    float64(reg.MaxExtendedDays),
			Date:     w.WeekStart,
		})
	}
	if w.ReducedRestDays > reg.MaxReducedRestDays {
		out = append(out, models.Violation{
			Type:     models.ViolationReducedRestLimit,
			Severity: models.SeverityHigh,
			Actual:   float64(w.ReducedRestDays),
			Limit:    float64(reg.MaxReducedRestDays),
			Date:     w.WeekStart,
		})
	}
	if w.RestWindow != nil {
		out = append(out, weeklyRestViolations(w, reg)...)
	}
	return out
}

func weeklyRestViolations(w models.WeeklyAnalysis, reg Regulation) []models.Violation {
	switch {
	case w.LongestRest < reg.WeeklyRestReduced:
		return []models.Violation{{
			Type:     models.ViolationInsufficientWeeklyRest,
			Severity: models.SeverityCritical,
			Actual:   w.LongestRest,
			Limit:    reg.WeeklyRestReduced,
			Date:     w.WeekStart,
		}}
	case w.LongestRest < reg.WeeklyRestRegular:
		return []models.Violation{{
			Type:     models.ViolationReducedWeeklyRest,
			Severity: models.SeverityMedium,
			Actual:   w.LongestRest,
			Limit:    reg.WeeklyRestRegular,
			Date:     w.WeekStart,
			Note:     "reduced weekly rest requires compensation",
		}}
	}
	return nil
}

// trailingWeek returns the span of the last seven days when they are
// consecutive.
func trailingWeek(ordered []models.DailyAnalysis) (models.TimeWindow, bool) {
	n := len(ordered)
	if n < 7 {
		return models.TimeWindow{}, false
	}
	first, last := ordered[n-7].DayStart, ordered[n-1].DayStart
	if daysBetween(first, last) != 6 {
		return models.TimeWindow{}, false
	}
	return models.TimeWindow{Start: first, End: DayWindow(last).End}, true
}

func anyComplete(weeks []models.WeeklyAnalysis) bool {
	for _, w := range weeks {
		if w.Complete {
			return true
		}
	}
	return false
}

// activeWithin reports whether any day inside window had activity.
func activeWithin(days []models.DailyAnalysis, window models.TimeWindow) bool {
	for _, d := range days {
		if window.Contains(d.DayStart) && d.Active() {
			return true
		}
	}
	return false
}

func applyFortnightlyCap(weeks []models.WeeklyAnalysis, reg Regulation) {
	for i := 1; i < len(weeks); i++ {
		prev, cur := &weeks[i-1], &weeks[i]
		ps, err1 := time.Parse(dateLayout, prev.WeekStart)
		cs, err2 := time.Parse(dateLayout, cur.WeekStart)
		if err1 != nil || err2 != nil || daysBetween(ps, cs) != 7 {
			continue
		}
		combined := prev.Totals.Driving + cur.Totals.Driving
		if combined > reg.FortnightlyDriving {
			cur.Violations = append(cur.Violations, models.Violation{
				Type:     models.ViolationFortnightlyDriving,
				Severity: models.SeverityCritical,
				Actual:   combined,
				Limit:    reg.FortnightlyDriving,
				Date:     cur.WeekStart,
				Note:     "two consecutive weeks combined",
			})
			cur.ComplianceState = models.Worse(cur.ComplianceState, models.StateCritical)
		}
	}
}

// joinRestPeriods merges rest periods of consecutive days that touch at
// midnight into continuous runs.
func joinRestPeriods(days []models.DailyAnalysis) []models.RestPeriod {
	var runs []models.RestPeriod
	for _, d := range days {
		for _, rp := range d.RestPeriods {
			if n := len(runs); n > 0 && runs[n-1].End.Equal(rp.Start) {
				runs[n-1].End = rp.End
				runs[n-1].Hours += rp.Hours
				continue
			}
			runs = append(runs, rp)
		}
	}
	return runs
}

// restRuns merges consecutive REST intervals of the raw samples into runs.
// The interval after the last sample is unknown and is not counted.
func restRuns(records []models.ActivityRecord) []models.RestPeriod {
	sorted := SortRecords(records)
	var runs []models.RestPeriod
	for i := 0; i+1 < len(sorted); i++ {
		from, to := sorted[i].Timestamp, sorted[i+1].Timestamp
		if sorted[i].Activity != models.ActivityRest || !to.After(from) {
			continue
		}
		if n := len(runs); n > 0 && runs[n-1].End.Equal(from) {
			runs[n-1].End = to
			runs[n-1].Hours = to.Sub(runs[n-1].Start).Hours()
			continue
		}
		runs = append(runs, models.RestPeriod{Start: from, End: to, Hours: to.Sub(from).Hours()})
	}
	return runs
}

func longestRestWithin(runs []models.RestPeriod, start, end time.Time) float64 {
	var longest float64
	for _, r := range runs {
		if r.End.After(start) && r.Start.Before(end) && r.Hours > longest {
			longest = r.Hours
		}
	}
	return longest
}
