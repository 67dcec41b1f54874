package models

import (
	"time"

	"github.com/noah-isme/study-planner-api/pkg/timerange"
)

// DayType classifies a calendar date inside a study period.
type DayType string

const (
	DayTypeStudy             DayType = "STUDY_DAY"
	DayTypeReview            DayType = "REVIEW_DAY"
	DayTypeDesignatedHoliday DayType = "DESIGNATED_HOLIDAY"
	DayTypeVacation          DayType = "VACATION"
	DayTypePersonal          DayType = "PERSONAL_DAY"
)

// DayTypes lists every day type in reporting order.
var DayTypes = []DayType{DayTypeStudy, DayTypeReview, DayTypeDesignatedHoliday, DayTypeVacation, DayTypePersonal}

// IsStudyLike reports whether the day derives availability from blocks or camp hours.
func (d DayType) IsStudyLike() bool {
	return d == DayTypeStudy || d == DayTypeReview
}

// ExclusionKind is the reason a date is taken out of the study cycle.
type ExclusionKind string

const (
	ExclusionVacation          ExclusionKind = "VACATION"
	ExclusionPersonal          ExclusionKind = "PERSONAL_DAY"
	ExclusionDesignatedHoliday ExclusionKind = "DESIGNATED_HOLIDAY"
	ExclusionOther             ExclusionKind = "OTHER"
)

// Valid reports whether the kind is a known value.
func (k ExclusionKind) Valid() bool {
	switch k {
	case ExclusionVacation, ExclusionPersonal, ExclusionDesignatedHoliday, ExclusionOther:
		return true
	}
	return false
}

// DayType maps an exclusion kind to the day type it produces. OTHER is treated as a personal day.
func (k ExclusionKind) DayType() DayType {
	switch k {
	case ExclusionVacation:
		return DayTypeVacation
	case ExclusionDesignatedHoliday:
		return DayTypeDesignatedHoliday
	default:
		return DayTypePersonal
	}
}

// WeeklyBlock is a recurring window of expected study time. DayOfWeek follows time.Weekday (0 = Sunday).
type WeeklyBlock struct {
	DayOfWeek int             `json:"day_of_week"`
	Window    timerange.Range `json:"window"`
}

// Exclusion takes a single date out of the cycle.
type Exclusion struct {
	Date   time.Time     `json:"date"`
	Kind   ExclusionKind `json:"kind"`
	Reason string        `json:"reason,omitempty"`
}

// AcademyCommitment is a recurring weekly class outside the study plan, padded by travel on both sides.
type AcademyCommitment struct {
	DayOfWeek     int             `json:"day_of_week"`
	Window        timerange.Range `json:"window"`
	Name          string          `json:"name,omitempty"`
	Subject       string          `json:"subject,omitempty"`
	TravelMinutes int             `json:"travel_minutes"`
}

// TravelWindow returns the class window widened by travel time before and after.
func (a AcademyCommitment) TravelWindow() timerange.Range {
	return timerange.Widen(a.Window, a.TravelMinutes, a.TravelMinutes)
}

// Label is the display label used on timeline segments.
func (a AcademyCommitment) Label() string {
	switch {
	case a.Name != "" && a.Subject != "":
		return a.Name + " (" + a.Subject + ")"
	case a.Name != "":
		return a.Name
	case a.Subject != "":
		return a.Subject
	}
	return "academy"
}

// SlotKind labels one timeline segment.
type SlotKind string

const (
	SlotStudyTime    SlotKind = "STUDY_TIME"
	SlotLunch        SlotKind = "LUNCH"
	SlotAcademyClass SlotKind = "ACADEMY_CLASS"
	SlotTravel       SlotKind = "TRAVEL"
	SlotSelfStudy    SlotKind = "SELF_STUDY"
)

// TimeSlot is a labeled timeline segment.
type TimeSlot struct {
	Kind   SlotKind        `json:"kind"`
	Window timerange.Range `json:"window"`
	Label  string          `json:"label,omitempty"`
}

// DailyResult is the computed availability for one date.
type DailyResult struct {
	Date            time.Time         `json:"date"`
	DayType         DayType           `json:"day_type"`
	AvailableRanges []timerange.Range `json:"available_ranges"`
	TotalHours      float64           `json:"total_hours"`
	Timeline        []TimeSlot        `json:"timeline"`
	WeekNumber      *int              `json:"week_number,omitempty"`
	Note            string            `json:"note"`
}

// AcademyGroup aggregates commitments sharing a name and subject.
type AcademyGroup struct {
	Name             string  `json:"name"`
	Subject          string  `json:"subject"`
	Weekdays         []int   `json:"weekdays"`
	OccurrenceCount  int     `json:"occurrence_count"`
	TotalClassHours  float64 `json:"total_class_hours"`
	TotalTravelHours float64 `json:"total_travel_hours"`
}

// AcademyStatistics summarises academy load across a period.
type AcademyStatistics struct {
	Groups               []AcademyGroup `json:"groups"`
	TotalOccurrences     int            `json:"total_occurrences"`
	TotalClassHours      float64        `json:"total_class_hours"`
	TotalTravelHours     float64        `json:"total_travel_hours"`
	AverageTravelMinutes float64        `json:"average_travel_minutes"`
}

// PeriodSummary rolls daily results up to the period.
type PeriodSummary struct {
	TotalDays      int                 `json:"total_days"`
	DayTypeCounts  map[DayType]int     `json:"day_type_counts"`
	DayTypeHours   map[DayType]float64 `json:"day_type_hours"`
	StudyHours     float64             `json:"study_hours"`
	ReviewHours    float64             `json:"review_hours"`
	SelfStudyHours float64             `json:"self_study_hours"`
	Academy        AcademyStatistics   `json:"academy"`
}

// DiagnosticCode identifies the kind of non-fatal problem found while computing a period.
type DiagnosticCode string

const (
	DiagnosticInvalidDate        DiagnosticCode = "INVALID_DATE"
	DiagnosticPeriodReversed     DiagnosticCode = "PERIOD_REVERSED"
	DiagnosticPeriodTruncated    DiagnosticCode = "PERIOD_TRUNCATED"
	DiagnosticDuplicateExclusion DiagnosticCode = "DUPLICATE_EXCLUSION"
	DiagnosticTimelineDivergence DiagnosticCode = "TIMELINE_DIVERGENCE"
	DiagnosticInvalidEntry       DiagnosticCode = "INVALID_ENTRY"
)

// Diagnostic is a non-fatal finding reported alongside a result.
type Diagnostic struct {
	Code    DiagnosticCode `json:"code"`
	Message string         `json:"message"`
	Date    string         `json:"date,omitempty"`
}
