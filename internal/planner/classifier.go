package planner

import (
	"fmt"
	"time"

	"github.com/noah-isme/study-planner-api/internal/models"
)

// DateLayout is the canonical calendar date format.
const DateLayout = "2006-01-02"

// Classification is the day type and week assigned to a date.
type Classification struct {
	Date       time.Time
	DayType    models.DayType
	WeekNumber *int
}

// CivilDate drops the clock and location from t, keeping its calendar date.
func CivilDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DateKey formats a date as YYYY-MM-DD.
func DateKey(t time.Time) string {
	return t.Format(DateLayout)
}

// DatesBetween lists every calendar date in [start, end]. It returns nil when start is after end.
func DatesBetween(start, end time.Time) []time.Time {
	start, end = CivilDate(start), CivilDate(end)
	if start.After(end) {
		return nil
	}
	var dates []time.Time
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d)
	}
	return dates
}

// IndexExclusions keys exclusions by date. A repeated date is reported and the later entry wins.
func IndexExclusions(exclusions []models.Exclusion) (map[string]models.Exclusion, []models.Diagnostic) {
	index := make(map[string]models.Exclusion, len(exclusions))
	var diagnostics []models.Diagnostic
	for _, ex := range exclusions {
		key := DateKey(CivilDate(ex.Date))
		if prev, ok := index[key]; ok {
			diagnostics = append(diagnostics, models.Diagnostic{
				Code:    models.DiagnosticDuplicateExclusion,
				Message: fmt.Sprintf("duplicate exclusion on %s: %s replaced by %s", key, prev.Kind, ex.Kind),
				Date:    key,
			})
		}
		index[key] = ex
	}
	return index, diagnostics
}

// ClassifyDays assigns a day type to each date, in order.
//
// In cyclic mode excluded dates take their exclusion's day type and are skipped when counting the
// cycle; the remaining dates are cut into runs of StudyDays+ReviewDays where the first StudyDays
// are study days. Week numbers advance once per completed run and excluded dates carry the week
// in effect when they occur.
func ClassifyDays(dates []time.Time, exclusions map[string]models.Exclusion, opts Options) []Classification {
	opts = opts.normalized()
	out := make([]Classification, len(dates))
	assigned := make([]bool, len(dates))

	for i, date := range dates {
		out[i].Date = date
		if ex, ok := exclusions[DateKey(date)]; ok {
			out[i].DayType = ex.Kind.DayType()
			assigned[i] = true
		}
	}

	if opts.Mode == ModeCyclic {
		cycle := opts.CycleLength()
		week := 1
		position := 0
		for i := range dates {
			current := week
			out[i].WeekNumber = &current
			if assigned[i] {
				continue
			}
			if position < opts.StudyDays {
				out[i].DayType = models.DayTypeStudy
			} else {
				out[i].DayType = models.DayTypeReview
			}
			assigned[i] = true
			position++
			if position == cycle {
				position = 0
				week++
			}
		}
	}

	for i := range out {
		if !assigned[i] {
			out[i].DayType = models.DayTypeStudy
		}
	}
	return out
}
