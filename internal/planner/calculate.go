// Package planner computes per-day study availability for a calendar period.
// Every function in this package is pure: results depend only on the arguments.
package planner

import (
	"fmt"
	"time"

	"github.com/sourcegraph/conc/iter"

	"github.com/noah-isme/study-planner-api/internal/models"
	"github.com/noah-isme/study-planner-api/pkg/timerange"
)

// Input is everything needed to compute a period.
type Input struct {
	PeriodStart  time.Time
	PeriodEnd    time.Time
	WeeklyBlocks []models.WeeklyBlock
	Exclusions   []models.Exclusion
	Academies    []models.AcademyCommitment
	Options      Options
}

// Result is the computed period.
type Result struct {
	Summary     models.PeriodSummary
	Days        []models.DailyResult
	Diagnostics []models.Diagnostic
}

type dayOutcome struct {
	day  models.DailyResult
	diag *models.Diagnostic
}

// Calculate classifies every date in the period, derives availability and timeline per day,
// cross-checks the two, and aggregates the summary. Problems with the input are reported as
// diagnostics and the computation continues with best-effort values.
func Calculate(in Input) Result {
	opts := in.Options.normalized()
	var diagnostics []models.Diagnostic

	start, end := CivilDate(in.PeriodStart), CivilDate(in.PeriodEnd)
	if start.After(end) {
		diagnostics = append(diagnostics, models.Diagnostic{
			Code:    models.DiagnosticPeriodReversed,
			Message: fmt.Sprintf("period start %s is after end %s; bounds swapped", DateKey(start), DateKey(end)),
		})
		start, end = end, start
	}

	dates := DatesBetween(start, end)
	if opts.MaxDays > 0 && len(dates) > opts.MaxDays {
		diagnostics = append(diagnostics, models.Diagnostic{
			Code:    models.DiagnosticPeriodTruncated,
			Message: fmt.Sprintf("period has %d days; only the first %d are computed", len(dates), opts.MaxDays),
		})
		dates = dates[:opts.MaxDays]
	}

	exclusions, dupes := IndexExclusions(in.Exclusions)
	diagnostics = append(diagnostics, dupes...)

	week := NewWeeklySchedule(in.WeeklyBlocks, in.Academies)
	classified := ClassifyDays(dates, exclusions, opts)

	// Days are independent; iter.Map keeps results in input order.
	outcomes := iter.Map(classified, func(c *Classification) dayOutcome {
		day, diag := ComputeDay(*c, week, opts)
		return dayOutcome{day: day, diag: diag}
	})

	days := make([]models.DailyResult, 0, len(outcomes))
	for _, o := range outcomes {
		if o.diag != nil {
			diagnostics = append(diagnostics, *o.diag)
		}
		days = append(days, o.day)
	}

	return Result{
		Summary:     Summarize(days, in.Academies),
		Days:        days,
		Diagnostics: diagnostics,
	}
}

// ComputeDay derives the daily result for one classified date.
func ComputeDay(c Classification, week *WeeklySchedule, opts Options) (models.DailyResult, *models.Diagnostic) {
	available := AvailableRanges(c.Date, c.DayType, week, opts)
	timeline := BuildTimeline(c.Date, c.DayType, week, opts)
	if available == nil {
		available = []timerange.Range{}
	}
	if timeline == nil {
		timeline = []models.TimeSlot{}
	}
	day := models.DailyResult{
		Date:            c.Date,
		DayType:         c.DayType,
		AvailableRanges: available,
		TotalHours:      Hours(timerange.TotalMinutes(available)),
		Timeline:        timeline,
		WeekNumber:      c.WeekNumber,
		Note:            Note(available),
	}
	return day, CrossCheck(c.Date, timeline, available, opts)
}
