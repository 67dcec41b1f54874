package planner

import (
	"sort"
	"time"

	"github.com/noah-isme/study-planner-api/internal/models"
	"github.com/noah-isme/study-planner-api/pkg/timerange"
)

const unavailableNote = "unavailable"

// WeeklySchedule indexes weekly blocks and academy commitments by weekday.
type WeeklySchedule struct {
	blocks    [7][]models.WeeklyBlock
	academies [7][]models.AcademyCommitment
}

// NewWeeklySchedule groups blocks and commitments by weekday, ordered by start time.
// Entries with a weekday outside 0-6 are ignored.
func NewWeeklySchedule(blocks []models.WeeklyBlock, academies []models.AcademyCommitment) *WeeklySchedule {
	w := &WeeklySchedule{}
	for _, b := range blocks {
		if b.DayOfWeek < 0 || b.DayOfWeek > 6 {
			continue
		}
		w.blocks[b.DayOfWeek] = append(w.blocks[b.DayOfWeek], b)
	}
	for _, a := range academies {
		if a.DayOfWeek < 0 || a.DayOfWeek > 6 {
			continue
		}
		if a.TravelMinutes < 0 {
			a.TravelMinutes = 0
		}
		w.academies[a.DayOfWeek] = append(w.academies[a.DayOfWeek], a)
	}
	for day := 0; day < 7; day++ {
		sort.SliceStable(w.blocks[day], func(i, j int) bool {
			return w.blocks[day][i].Window.Start < w.blocks[day][j].Window.Start
		})
		sort.SliceStable(w.academies[day], func(i, j int) bool {
			return w.academies[day][i].Window.Start < w.academies[day][j].Window.Start
		})
	}
	return w
}

// Blocks returns the weekly blocks for a weekday.
func (w *WeeklySchedule) Blocks(day time.Weekday) []models.WeeklyBlock {
	return w.blocks[day]
}

// Academies returns the academy commitments for a weekday.
func (w *WeeklySchedule) Academies(day time.Weekday) []models.AcademyCommitment {
	return w.academies[day]
}

// HasBlocks reports whether the weekday has at least one weekly block.
func (w *WeeklySchedule) HasBlocks(day time.Weekday) bool {
	return len(w.blocks[day]) > 0
}

func (w *WeeklySchedule) blockRanges(day time.Weekday) []timerange.Range {
	ranges := make([]timerange.Range, 0, len(w.blocks[day]))
	for _, b := range w.blocks[day] {
		ranges = append(ranges, b.Window)
	}
	return ranges
}

// AvailableRanges computes the study ranges for a date of the given day type.
func AvailableRanges(date time.Time, dayType models.DayType, week *WeeklySchedule, opts Options) []timerange.Range {
	switch dayType {
	case models.DayTypeDesignatedHoliday:
		if opts.SelfStudyOnHolidays {
			return []timerange.Range{opts.DesignatedHolidayHours}
		}
		return nil
	case models.DayTypeVacation, models.DayTypePersonal:
		return nil
	}

	weekday := date.Weekday()
	ranges := week.blockRanges(weekday)
	if len(ranges) == 0 {
		ranges = []timerange.Range{opts.CampStudyHours}
		if opts.CampSelfStudyHours != nil {
			ranges = append(ranges, *opts.CampSelfStudyHours)
		}
	}

	if opts.LunchTime != nil {
		ranges = timerange.SubtractAll(ranges, *opts.LunchTime)
	}
	for _, academy := range week.Academies(weekday) {
		ranges = timerange.SubtractAll(ranges, academy.TravelWindow())
	}
	return timerange.Merge(ranges)
}

// Hours converts minutes to fractional hours.
func Hours(minutes int) float64 {
	return float64(minutes) / 60
}

// Note renders available ranges for display.
func Note(ranges []timerange.Range) string {
	if len(ranges) == 0 {
		return unavailableNote
	}
	return timerange.Join(ranges)
}
