package planner

import (
	"fmt"
	"sort"
	"time"

	"github.com/noah-isme/study-planner-api/internal/models"
	"github.com/noah-isme/study-planner-api/pkg/timerange"
)

const (
	lunchLabel     = "lunch"
	travelLabel    = "travel"
	studyLabel     = "study"
	selfStudyLabel = "self-study"
	holidayLabel   = "designated holiday"
)

// BuildTimeline derives the day as an ordered, non-overlapping list of labeled segments.
// It is computed independently of AvailableRanges so the two can be cross-checked.
func BuildTimeline(date time.Time, dayType models.DayType, week *WeeklySchedule, opts Options) []models.TimeSlot {
	if !dayType.IsStudyLike() {
		if dayType == models.DayTypeDesignatedHoliday && opts.SelfStudyOnHolidays {
			return []models.TimeSlot{{Kind: models.SlotSelfStudy, Window: opts.DesignatedHolidayHours, Label: holidayLabel}}
		}
		return nil
	}

	weekday := date.Weekday()
	academies := week.Academies(weekday)
	hasBlocks := week.HasBlocks(weekday)

	bases := timerange.Merge(week.blockRanges(weekday))
	if !hasBlocks {
		bases = []timerange.Range{opts.CampStudyHours}
	}

	var timeline []models.TimeSlot
	for _, base := range bases {
		timeline = append(timeline, fill(base, segmentsWithin(base, academies, opts), models.SlotStudyTime, studyLabel)...)
	}

	if opts.CampSelfStudyHours != nil && (!hasBlocks || opts.SelfStudyWithBlocks) {
		pieces := []timerange.Range{*opts.CampSelfStudyHours}
		for _, slot := range timeline {
			pieces = timerange.SubtractAll(pieces, slot.Window)
		}
		for _, piece := range timerange.Merge(pieces) {
			segments := segmentsWithin(piece, academies, opts)
			timeline = append(timeline, fill(piece, segments, models.SlotSelfStudy, selfStudyLabel)...)
		}
	}

	sort.SliceStable(timeline, func(i, j int) bool {
		return timeline[i].Window.Start < timeline[j].Window.Start
	})
	return timeline
}

// segmentsWithin collects lunch, travel and class segments clipped to base.
func segmentsWithin(base timerange.Range, academies []models.AcademyCommitment, opts Options) []models.TimeSlot {
	var segments []models.TimeSlot
	add := func(kind models.SlotKind, window timerange.Range, label string) {
		if clipped, ok := timerange.Intersect(window, base); ok {
			segments = append(segments, models.TimeSlot{Kind: kind, Window: clipped, Label: label})
		}
	}

	if opts.LunchTime != nil {
		add(models.SlotLunch, *opts.LunchTime, lunchLabel)
	}
	for _, academy := range academies {
		if !timerange.Overlaps(academy.TravelWindow(), base) {
			continue
		}
		if academy.TravelMinutes > 0 {
			before := timerange.Widen(timerange.Range{Start: academy.Window.Start, End: academy.Window.Start}, academy.TravelMinutes, 0)
			add(models.SlotTravel, before, travelLabel)
		}
		add(models.SlotAcademyClass, academy.Window, academy.Label())
		if academy.TravelMinutes > 0 {
			after := timerange.Widen(timerange.Range{Start: academy.Window.End, End: academy.Window.End}, 0, academy.TravelMinutes)
			add(models.SlotTravel, after, travelLabel)
		}
	}
	return normalizeSegments(segments)
}

// normalizeSegments sorts segments, merges touching segments of the same kind and label,
// and trims later segments so no two overlap.
func normalizeSegments(segments []models.TimeSlot) []models.TimeSlot {
	sort.SliceStable(segments, func(i, j int) bool {
		if segments[i].Window.Start == segments[j].Window.Start {
			return segments[i].Window.End < segments[j].Window.End
		}
		return segments[i].Window.Start < segments[j].Window.Start
	})

	var out []models.TimeSlot
	for _, seg := range segments {
		if len(out) == 0 {
			out = append(out, seg)
			continue
		}
		last := &out[len(out)-1]
		if seg.Kind == last.Kind && seg.Label == last.Label && seg.Window.Start <= last.Window.End {
			if seg.Window.End > last.Window.End {
				last.Window.End = seg.Window.End
			}
			continue
		}
		if seg.Window.Start < last.Window.End {
			seg.Window.Start = last.Window.End
		}
		if seg.Window.Start >= seg.Window.End {
			continue
		}
		out = append(out, seg)
	}
	return out
}

// fill interleaves segments of the given kind into every gap of base not covered by segments.
func fill(base timerange.Range, segments []models.TimeSlot, kind models.SlotKind, label string) []models.TimeSlot {
	out := make([]models.TimeSlot, 0, len(segments)*2+1)
	cursor := base.Start
	for _, seg := range segments {
		if seg.Window.Start > cursor {
			out = append(out, models.TimeSlot{Kind: kind, Window: timerange.Range{Start: cursor, End: seg.Window.Start}, Label: label})
		}
		out = append(out, seg)
		if seg.Window.End > cursor {
			cursor = seg.Window.End
		}
	}
	if cursor < base.End {
		out = append(out, models.TimeSlot{Kind: kind, Window: timerange.Range{Start: cursor, End: base.End}, Label: label})
	}
	return out
}

// StudyMinutes sums study and self-study segments of a timeline.
func StudyMinutes(timeline []models.TimeSlot) int {
	total := 0
	for _, slot := range timeline {
		if slot.Kind == models.SlotStudyTime || slot.Kind == models.SlotSelfStudy {
			total += slot.Window.Minutes()
		}
	}
	return total
}

// CrossCheck compares the timeline against the computed availability and reports divergence
// beyond the configured tolerance.
func CrossCheck(date time.Time, timeline []models.TimeSlot, available []timerange.Range, opts Options) *models.Diagnostic {
	timelineMinutes := StudyMinutes(timeline)
	availableMinutes := timerange.TotalMinutes(available)
	diff := timelineMinutes - availableMinutes
	if diff < 0 {
		diff = -diff
	}
	if diff <= opts.CrossCheckToleranceMinutes {
		return nil
	}
	key := DateKey(date)
	return &models.Diagnostic{
		Code:    models.DiagnosticTimelineDivergence,
		Message: fmt.Sprintf("timeline has %d study minutes but availability has %d on %s", timelineMinutes, availableMinutes, key),
		Date:    key,
	}
}
