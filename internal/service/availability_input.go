package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/noah-isme/study-planner-api/internal/dto"
	"github.com/noah-isme/study-planner-api/internal/models"
	"github.com/noah-isme/study-planner-api/internal/planner"
	appErrors "github.com/noah-isme/study-planner-api/pkg/errors"
	"github.com/noah-isme/study-planner-api/pkg/timerange"
)

// periodBounds parses the period dates. A missing or unparseable bound falls back to the other
// one; ok is false when neither parses.
func periodBounds(rawStart, rawEnd string) (start, end time.Time, ok bool, diags []models.Diagnostic) {
	start, startErr := parseDate(rawStart)
	end, endErr := parseDate(rawEnd)
	if startErr != nil {
		diags = append(diags, invalidDate("periodStart", rawStart))
	}
	if endErr != nil {
		diags = append(diags, invalidDate("periodEnd", rawEnd))
	}
	switch {
	case startErr != nil && endErr != nil:
		return time.Time{}, time.Time{}, false, diags
	case startErr != nil:
		start = end
	case endErr != nil:
		end = start
	}
	return start, end, true, diags
}

func parseDate(raw string) (time.Time, error) {
	return time.Parse(planner.DateLayout, strings.TrimSpace(raw))
}

func invalidDate(field, raw string) models.Diagnostic {
	if strings.TrimSpace(raw) == "" {
		return models.Diagnostic{Code: models.DiagnosticInvalidDate, Message: field + " is missing"}
	}
	return models.Diagnostic{Code: models.DiagnosticInvalidDate, Message: fmt.Sprintf("%s %q is not a YYYY-MM-DD date", field, raw)}
}

func validationError(err error, format string, args ...interface{}) error {
	return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, fmt.Sprintf(format, args...))
}

// inputFromRequest coerces a request into engine input. Ill-formed time ranges are rejected;
// bad dates become diagnostics.
func inputFromRequest(req dto.CalculateAvailabilityRequest, defaults PlannerDefaults) (planner.Input, []models.Diagnostic, error) {
	var in planner.Input
	var diags []models.Diagnostic

	opts, err := applyOptionOverrides(defaults.Options, req)
	if err != nil {
		return in, nil, err
	}
	in.Options = opts

	for i, b := range req.WeeklyBlocks {
		window, err := timerange.Parse(b.Start, b.End)
		if err != nil {
			return in, nil, validationError(err, "weeklyBlocks[%d]: invalid time range %s-%s", i, b.Start, b.End)
		}
		in.WeeklyBlocks = append(in.WeeklyBlocks, models.WeeklyBlock{DayOfWeek: *b.DayOfWeek, Window: window})
	}

	for i, a := range req.Academies {
		window, err := timerange.Parse(a.Start, a.End)
		if err != nil {
			return in, nil, validationError(err, "academies[%d]: invalid time range %s-%s", i, a.Start, a.End)
		}
		travel := defaults.DefaultTravelMinutes
		if a.TravelMinutes != nil {
			travel = *a.TravelMinutes
		}
		in.Academies = append(in.Academies, models.AcademyCommitment{
			DayOfWeek:     *a.DayOfWeek,
			Window:        window,
			Name:          a.Name,
			Subject:       a.Subject,
			TravelMinutes: travel,
		})
	}

	for i, x := range req.Exclusions {
		date, err := parseDate(x.Date)
		if err != nil {
			diags = append(diags, invalidDate(fmt.Sprintf("exclusions[%d].date", i), x.Date))
			continue
		}
		in.Exclusions = append(in.Exclusions, models.Exclusion{Date: date, Kind: models.ExclusionKind(x.Kind), Reason: x.Reason})
	}
	return in, diags, nil
}

// inputFromSchedule coerces stored rows into engine input. Rows that cannot be coerced are
// skipped with a diagnostic, since they were not submitted by the caller.
func inputFromSchedule(schedule *models.StudentSchedule, defaults PlannerDefaults) (planner.Input, []models.Diagnostic) {
	var in planner.Input
	var diags []models.Diagnostic

	opts := defaults.Options
	student := schedule.Student
	switch planner.Mode(strings.ToUpper(student.SchedulerMode)) {
	case planner.ModeExclusionsOnly:
		opts.Mode = planner.ModeExclusionsOnly
	case planner.ModeCyclic:
		opts.Mode = planner.ModeCyclic
	}
	if student.StudyDays > 0 {
		opts.StudyDays = student.StudyDays
		opts.ReviewDays = max(student.ReviewDays, 0)
	}
	in.Options = opts

	for _, row := range schedule.Blocks {
		window, err := timerange.Parse(row.StartTime, row.EndTime)
		if err != nil {
			diags = append(diags, invalidEntry("weekly block", row.ID, err))
			continue
		}
		in.WeeklyBlocks = append(in.WeeklyBlocks, models.WeeklyBlock{DayOfWeek: row.DayOfWeek, Window: window})
	}

	for _, row := range schedule.Academies {
		window, err := timerange.Parse(row.StartTime, row.EndTime)
		if err != nil {
			diags = append(diags, invalidEntry("academy commitment", row.ID, err))
			continue
		}
		travel := defaults.DefaultTravelMinutes
		if row.TravelMinutes.Valid {
			travel = int(row.TravelMinutes.Int64)
		}
		in.Academies = append(in.Academies, models.AcademyCommitment{
			DayOfWeek:     row.DayOfWeek,
			Window:        window,
			Name:          row.Name.String,
			Subject:       row.Subject.String,
			TravelMinutes: travel,
		})
	}

	for _, row := range schedule.Exclusions {
		kind := models.ExclusionKind(strings.ToUpper(row.Kind))
		if !kind.Valid() {
			diags = append(diags, invalidEntry("exclusion", row.ID, fmt.Errorf("unknown kind %q", row.Kind)))
			continue
		}
		in.Exclusions = append(in.Exclusions, models.Exclusion{Date: row.Date, Kind: kind, Reason: row.Reason.String})
	}
	return in, diags
}

func invalidEntry(what, id string, err error) models.Diagnostic {
	return models.Diagnostic{Code: models.DiagnosticInvalidEntry, Message: fmt.Sprintf("%s %s skipped: %v", what, id, err)}
}
