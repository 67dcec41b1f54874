package planner

import (
	"sort"
	"time"

	"github.com/noah-isme/study-planner-api/internal/models"
)

type academyKey struct {
	name    string
	subject string
}

// Summarize rolls daily results and academy commitments up to a period summary.
func Summarize(days []models.DailyResult, academies []models.AcademyCommitment) models.PeriodSummary {
	summary := models.PeriodSummary{
		TotalDays:     len(days),
		DayTypeCounts: make(map[models.DayType]int, len(models.DayTypes)),
		DayTypeHours:  make(map[models.DayType]float64, len(models.DayTypes)),
	}
	for _, dt := range models.DayTypes {
		summary.DayTypeCounts[dt] = 0
		summary.DayTypeHours[dt] = 0
	}

	var weekdayCounts [7]int
	selfStudyMinutes := 0
	for _, day := range days {
		summary.DayTypeCounts[day.DayType]++
		summary.DayTypeHours[day.DayType] += day.TotalHours
		switch day.DayType {
		case models.DayTypeStudy:
			summary.StudyHours += day.TotalHours
		case models.DayTypeReview:
			summary.ReviewHours += day.TotalHours
		}
		for _, slot := range day.Timeline {
			if slot.Kind == models.SlotSelfStudy {
				selfStudyMinutes += slot.Window.Minutes()
			}
		}
		weekdayCounts[day.Date.Weekday()]++
	}
	summary.SelfStudyHours = Hours(selfStudyMinutes)
	summary.Academy = academyStatistics(academies, weekdayCounts)
	return summary
}

// academyStatistics groups commitments by (name, subject) in order of first appearance.
func academyStatistics(academies []models.AcademyCommitment, weekdayCounts [7]int) models.AcademyStatistics {
	stats := models.AcademyStatistics{Groups: []models.AcademyGroup{}}
	order := make([]academyKey, 0)
	groups := make(map[academyKey]*models.AcademyGroup)
	weekdays := make(map[academyKey]map[int]struct{})

	classMinutesTotal := 0
	travelMinutesTotal := 0
	for _, academy := range academies {
		if academy.DayOfWeek < 0 || academy.DayOfWeek > 6 {
			continue
		}
		key := academyKey{name: academy.Name, subject: academy.Subject}
		group, ok := groups[key]
		if !ok {
			group = &models.AcademyGroup{Name: academy.Name, Subject: academy.Subject}
			groups[key] = group
			weekdays[key] = make(map[int]struct{})
			order = append(order, key)
		}
		weekdays[key][academy.DayOfWeek] = struct{}{}

		travel := academy.TravelMinutes
		if travel < 0 {
			travel = 0
		}
		occurrences := weekdayCounts[time.Weekday(academy.DayOfWeek)]
		classMinutes := academy.Window.Minutes() * occurrences
		travelMinutes := 2 * travel * occurrences

		group.OccurrenceCount += occurrences
		group.TotalClassHours += Hours(classMinutes)
		group.TotalTravelHours += Hours(travelMinutes)

		stats.TotalOccurrences += occurrences
		classMinutesTotal += classMinutes
		travelMinutesTotal += travelMinutes
	}

	for _, key := range order {
		group := groups[key]
		for day := range weekdays[key] {
			group.Weekdays = append(group.Weekdays, day)
		}
		sort.Ints(group.Weekdays)
		stats.Groups = append(stats.Groups, *group)
	}

	stats.TotalClassHours = Hours(classMinutesTotal)
	stats.TotalTravelHours = Hours(travelMinutesTotal)
	if stats.TotalOccurrences > 0 {
		stats.AverageTravelMinutes = float64(travelMinutesTotal) / float64(stats.TotalOccurrences)
	}
	return stats
}
