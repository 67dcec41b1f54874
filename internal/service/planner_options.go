package service

import (
	"fmt"
	"strings"

	"github.com/noah-isme/study-planner-api/internal/dto"
	"github.com/noah-isme/study-planner-api/internal/planner"
	"github.com/noah-isme/study-planner-api/pkg/config"
	appErrors "github.com/noah-isme/study-planner-api/pkg/errors"
	"github.com/noah-isme/study-planner-api/pkg/timerange"
)

const defaultTravelMinutes = 60

// PlannerDefaults are the engine options and boundary defaults applied to every request.
type PlannerDefaults struct {
	Options              planner.Options
	DefaultTravelMinutes int
	AdjustMaxEnd         int
}

// DefaultPlannerDefaults mirrors the documented engine defaults.
func DefaultPlannerDefaults() PlannerDefaults {
	return PlannerDefaults{
		Options:              planner.DefaultOptions(),
		DefaultTravelMinutes: defaultTravelMinutes,
		AdjustMaxEnd:         23*60 + 59,
	}
}

// PlannerDefaultsFromConfig parses the planner settings. Window settings use "HH:mm-HH:mm";
// an empty lunch or self-study setting disables that window.
func PlannerDefaultsFromConfig(cfg config.PlannerConfig) (PlannerDefaults, error) {
	d := DefaultPlannerDefaults()
	opts := &d.Options

	if cfg.CampStudyHours != "" {
		r, err := parseWindowSetting("PLANNER_CAMP_STUDY_HOURS", cfg.CampStudyHours)
		if err != nil {
			return d, err
		}
		opts.CampStudyHours = *r
	}
	var err error
	if opts.CampSelfStudyHours, err = parseWindowSetting("PLANNER_CAMP_SELF_STUDY_HOURS", cfg.CampSelfStudyHours); err != nil {
		return d, err
	}
	if opts.LunchTime, err = parseWindowSetting("PLANNER_LUNCH_TIME", cfg.LunchTime); err != nil {
		return d, err
	}
	if cfg.DesignatedHolidayHours != "" {
		r, err := parseWindowSetting("PLANNER_DESIGNATED_HOLIDAY_HOURS", cfg.DesignatedHolidayHours)
		if err != nil {
			return d, err
		}
		opts.DesignatedHolidayHours = *r
	}

	opts.SelfStudyOnHolidays = cfg.SelfStudyOnHolidays
	opts.SelfStudyWithBlocks = cfg.SelfStudyWithBlocks
	if cfg.StudyDays > 0 {
		opts.StudyDays = cfg.StudyDays
		if cfg.ReviewDays >= 0 {
			opts.ReviewDays = cfg.ReviewDays
		}
	}
	if cfg.CrossCheckToleranceMinutes > 0 {
		opts.CrossCheckToleranceMinutes = cfg.CrossCheckToleranceMinutes
	}
	if cfg.MaxPeriodDays > 0 {
		opts.MaxDays = cfg.MaxPeriodDays
	}
	if cfg.DefaultTravelMinutes != nil {
		if *cfg.DefaultTravelMinutes < 0 {
			return d, fmt.Errorf("PLANNER_DEFAULT_TRAVEL_MINUTES: must not be negative, got %d", *cfg.DefaultTravelMinutes)
		}
		d.DefaultTravelMinutes = *cfg.DefaultTravelMinutes
	}
	if cfg.AdjustMaxEndTime != "" {
		maxEnd, err := timerange.ParseClock(cfg.AdjustMaxEndTime)
		if err != nil {
			return d, fmt.Errorf("PLANNER_ADJUST_MAX_END_TIME: %w", err)
		}
		d.AdjustMaxEnd = maxEnd
	}
	return d, nil
}

func parseWindowSetting(name, raw string) (*timerange.Range, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	start, end, ok := strings.Cut(raw, "-")
	if !ok {
		return nil, fmt.Errorf("%s: expected HH:mm-HH:mm, got %q", name, raw)
	}
	r, err := timerange.Parse(strings.TrimSpace(start), strings.TrimSpace(end))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return &r, nil
}

// applyOptionOverrides layers request overrides on top of the defaults.
func applyOptionOverrides(base planner.Options, req dto.CalculateAvailabilityRequest) (planner.Options, error) {
	opts := base
	if req.SchedulerMode != "" {
		opts.Mode = planner.Mode(req.SchedulerMode)
	}
	if req.StudyDays != nil {
		opts.StudyDays = *req.StudyDays
	}
	if req.ReviewDays != nil {
		opts.ReviewDays = *req.ReviewDays
	}

	o := req.Options
	if o == nil {
		return opts, nil
	}
	if o.CampStudyHours != nil {
		r, err := parseWindow("options.campStudyHours", *o.CampStudyHours)
		if err != nil {
			return opts, err
		}
		opts.CampStudyHours = r
	}
	if o.CampSelfStudyHours != nil {
		r, err := parseWindow("options.campSelfStudyHours", *o.CampSelfStudyHours)
		if err != nil {
			return opts, err
		}
		opts.CampSelfStudyHours = &r
	}
	if o.DisableSelfStudy {
		opts.CampSelfStudyHours = nil
	}
	if o.LunchTime != nil {
		r, err := parseWindow("options.lunchTime", *o.LunchTime)
		if err != nil {
			return opts, err
		}
		opts.LunchTime = &r
	}
	if o.DisableLunch {
		opts.LunchTime = nil
	}
	if o.DesignatedHolidayHours != nil {
		r, err := parseWindow("options.designatedHolidayHours", *o.DesignatedHolidayHours)
		if err != nil {
			return opts, err
		}
		opts.DesignatedHolidayHours = r
	}
	if o.SelfStudyOnHolidays != nil {
		opts.SelfStudyOnHolidays = *o.SelfStudyOnHolidays
	}
	if o.SelfStudyWithBlocks != nil {
		opts.SelfStudyWithBlocks = *o.SelfStudyWithBlocks
	}
	if o.CrossCheckToleranceMinutes != nil {
		opts.CrossCheckToleranceMinutes = *o.CrossCheckToleranceMinutes
	}
	return opts, nil
}

func parseWindow(field string, w dto.TimeWindow) (timerange.Range, error) {
	r, err := timerange.Parse(w.Start, w.End)
	if err != nil {
		return timerange.Range{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status,
			fmt.Sprintf("%s: invalid time range %s-%s", field, w.Start, w.End))
	}
	return r, nil
}
