package dto

import "github.com/noah-isme/study-planner-api/internal/models"

// TimeWindow is a same-day clock range such as {"start":"09:00","end":"12:00"}.
type TimeWindow struct {
	Start string `json:"start" validate:"required"`
	End   string `json:"end" validate:"required"`
}

// WeeklyBlockInput is one recurring availability window. Weekday 0 is Sunday.
type WeeklyBlockInput struct {
	DayOfWeek *int   `json:"dayOfWeek" validate:"required,min=0,max=6"`
	Start     string `json:"start" validate:"required"`
	End       string `json:"end" validate:"required"`
}

// ExclusionInput marks a single date as unavailable or reduced.
type ExclusionInput struct {
	Date   string `json:"date"`
	Kind   string `json:"kind" validate:"required,oneof=VACATION PERSONAL_DAY DESIGNATED_HOLIDAY OTHER"`
	Reason string `json:"reason,omitempty"`
}

// AcademyInput is a recurring weekly commitment. A missing travel time uses the configured default.
type AcademyInput struct {
	DayOfWeek     *int   `json:"dayOfWeek" validate:"required,min=0,max=6"`
	Start         string `json:"start" validate:"required"`
	End           string `json:"end" validate:"required"`
	Name          string `json:"name,omitempty"`
	Subject       string `json:"subject,omitempty"`
	TravelMinutes *int   `json:"travelMinutes,omitempty" validate:"omitempty,min=0,max=720"`
}

// PlannerOptionsInput overrides the configured planner defaults for one request.
type PlannerOptionsInput struct {
	CampStudyHours             *TimeWindow `json:"campStudyHours,omitempty" validate:"omitempty"`
	CampSelfStudyHours         *TimeWindow `json:"campSelfStudyHours,omitempty" validate:"omitempty"`
	LunchTime                  *TimeWindow `json:"lunchTime,omitempty" validate:"omitempty"`
	DisableLunch               bool        `json:"disableLunch,omitempty"`
	DisableSelfStudy           bool        `json:"disableSelfStudy,omitempty"`
	DesignatedHolidayHours     *TimeWindow `json:"designatedHolidayHours,omitempty" validate:"omitempty"`
	SelfStudyOnHolidays        *bool       `json:"selfStudyOnHolidays,omitempty"`
	SelfStudyWithBlocks        *bool       `json:"selfStudyWithBlocks,omitempty"`
	CrossCheckToleranceMinutes *int        `json:"crossCheckToleranceMinutes,omitempty" validate:"omitempty,min=0,max=1440"`
}

// CalculateAvailabilityRequest carries every input of a period calculation inline.
// Dates use YYYY-MM-DD; unparseable dates are reported as diagnostics rather than rejected.
type CalculateAvailabilityRequest struct {
	PeriodStart   string               `json:"periodStart"`
	PeriodEnd     string               `json:"periodEnd"`
	SchedulerMode string               `json:"schedulerMode,omitempty" validate:"omitempty,oneof=CYCLIC EXCLUSIONS_ONLY"`
	StudyDays     *int                 `json:"studyDays,omitempty" validate:"omitempty,min=1,max=31"`
	ReviewDays    *int                 `json:"reviewDays,omitempty" validate:"omitempty,min=0,max=31"`
	WeeklyBlocks  []WeeklyBlockInput   `json:"weeklyBlocks" validate:"omitempty,dive"`
	Exclusions    []ExclusionInput     `json:"exclusions" validate:"omitempty,dive"`
	Academies     []AcademyInput       `json:"academies" validate:"omitempty,dive"`
	Options       *PlannerOptionsInput `json:"options,omitempty" validate:"omitempty"`
}

// StudentAvailabilityQuery selects the period for a stored student configuration.
type StudentAvailabilityQuery struct {
	Start string `form:"start" validate:"required,datetime=2006-01-02"`
	End   string `form:"end" validate:"required,datetime=2006-01-02"`
}

// AvailabilityResponse is the computed period.
type AvailabilityResponse struct {
	CalculationID string               `json:"calculationId"`
	PeriodStart   string               `json:"periodStart,omitempty"`
	PeriodEnd     string               `json:"periodEnd,omitempty"`
	Summary       models.PeriodSummary `json:"summary"`
	Days          []models.DailyResult `json:"days"`
	Diagnostics   []models.Diagnostic  `json:"diagnostics"`
	Cached        bool                 `json:"cached"`
}
