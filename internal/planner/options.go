package planner

import (
	"github.com/noah-isme/study-planner-api/pkg/timerange"
)

// Mode selects how dates are classified.
type Mode string

const (
	// ModeCyclic repeats StudyDays study days followed by ReviewDays review days over non-excluded dates.
	ModeCyclic Mode = "CYCLIC"
	// ModeExclusionsOnly marks every non-excluded date as a study day.
	ModeExclusionsOnly Mode = "EXCLUSIONS_ONLY"
)

const (
	defaultStudyDays               = 6
	defaultReviewDays              = 1
	defaultCrossCheckToleranceMins = 30
)

// Options carries every tunable the engine reads. It is passed once per call.
type Options struct {
	Mode       Mode
	StudyDays  int
	ReviewDays int

	// CampStudyHours and CampSelfStudyHours are used when a weekday has no weekly blocks.
	// CampSelfStudyHours is also the self-study window appended to timelines; nil disables it.
	CampStudyHours     timerange.Range
	CampSelfStudyHours *timerange.Range
	LunchTime          *timerange.Range

	DesignatedHolidayHours timerange.Range
	SelfStudyOnHolidays    bool
	SelfStudyWithBlocks    bool

	// CrossCheckToleranceMinutes bounds the allowed gap between the timeline and the computed availability.
	CrossCheckToleranceMinutes int
	// MaxDays truncates overly long periods; zero means unlimited.
	MaxDays int
}

// DefaultOptions returns the documented defaults.
func DefaultOptions() Options {
	selfStudy := timerange.MustParse("13:00", "18:00")
	lunch := timerange.MustParse("12:00", "13:00")
	return Options{
		Mode:                       ModeCyclic,
		StudyDays:                  defaultStudyDays,
		ReviewDays:                 defaultReviewDays,
		CampStudyHours:             timerange.MustParse("09:00", "12:00"),
		CampSelfStudyHours:         &selfStudy,
		LunchTime:                  &lunch,
		DesignatedHolidayHours:     timerange.MustParse("13:00", "18:00"),
		CrossCheckToleranceMinutes: defaultCrossCheckToleranceMins,
	}
}

// CycleLength is the number of non-excluded dates in one study/review run.
func (o Options) CycleLength() int {
	return o.StudyDays + o.ReviewDays
}

func (o Options) normalized() Options {
	if o.Mode == "" {
		o.Mode = ModeCyclic
	}
	if o.StudyDays < 0 {
		o.StudyDays = 0
	}
	if o.ReviewDays < 0 {
		o.ReviewDays = 0
	}
	if o.CycleLength() == 0 {
		o.StudyDays = defaultStudyDays
		o.ReviewDays = defaultReviewDays
	}
	if o.CrossCheckToleranceMinutes < 0 {
		o.CrossCheckToleranceMinutes = defaultCrossCheckToleranceMins
	}
	return o
}
