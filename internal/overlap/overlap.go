// Package overlap detects time conflicts between planned items and shifts new items past them.
package overlap

import (
	"fmt"
	"sort"

	"github.com/noah-isme/study-planner-api/pkg/timerange"
)

// DefaultMaxEnd is the latest minute an adjusted item may end at (23:59).
const DefaultMaxEnd = 23*60 + 59

// Entry is a planned item on a date. End may exceed the day after a shift.
type Entry struct {
	Date  string `json:"date"`
	Start int    `json:"start"`
	End   int    `json:"end"`
	Ref   string `json:"ref"`
}

// Window returns the entry's time range.
func (e Entry) Window() timerange.Range {
	return timerange.Range{Start: e.Start, End: e.End}
}

// HasWindow reports whether the entry carries a usable time range.
func (e Entry) HasWindow() bool {
	return e.Date != "" && e.Start < e.End
}

// Overlap is a detected conflict between two entries on the same date.
type Overlap struct {
	Date           string `json:"date"`
	A              Entry  `json:"a"`
	B              Entry  `json:"b"`
	OverlapMinutes int    `json:"overlap_minutes"`
}

// Unadjustable is a new entry that could not be moved clear of existing entries within the day.
type Unadjustable struct {
	Ref    string `json:"ref"`
	Reason string `json:"reason"`
}

// Adjustment is the outcome of AdjustOverlaps.
type Adjustment struct {
	Items         []Entry        `json:"items"`
	AdjustedCount int            `json:"adjusted_count"`
	Unadjustable  []Unadjustable `json:"unadjustable"`
}

func groupByDate(entries []Entry) map[string][]Entry {
	grouped := make(map[string][]Entry)
	for _, e := range entries {
		if !e.HasWindow() {
			continue
		}
		grouped[e.Date] = append(grouped[e.Date], e)
	}
	return grouped
}

func check(a, b Entry) (Overlap, bool) {
	if !timerange.Overlaps(a.Window(), b.Window()) {
		return Overlap{}, false
	}
	return Overlap{Date: a.Date, A: a, B: b, OverlapMinutes: timerange.OverlapMinutes(a.Window(), b.Window())}, true
}

// ValidateAgainstExisting reports every pair of a new entry and an existing entry on the same
// date whose windows overlap. A is always the new entry.
func ValidateAgainstExisting(newItems, existing []Entry) []Overlap {
	byDate := groupByDate(existing)
	overlaps := []Overlap{}
	for _, item := range newItems {
		if !item.HasWindow() {
			continue
		}
		for _, ex := range byDate[item.Date] {
			if o, ok := check(item, ex); ok {
				overlaps = append(overlaps, o)
			}
		}
	}
	return overlaps
}

// ValidateInternal reports overlapping pairs within one batch, per date, each pair once.
func ValidateInternal(items []Entry) []Overlap {
	overlaps := []Overlap{}
	var dates []string
	byDate := groupByDate(items)
	for date := range byDate {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	for _, date := range dates {
		group := byDate[date]
		for i := 0; i < len(group); i++ {
			for j := i + 1; j < len(group); j++ {
				if o, ok := check(group[i], group[j]); ok {
					overlaps = append(overlaps, o)
				}
			}
		}
	}
	return overlaps
}

// AdjustOverlaps processes new entries in the given order and pushes each one past every
// existing entry on its date that it runs into, keeping its duration. An entry whose shifted
// end passes maxEnd is reported as unadjustable and left at its shifted position.
// Existing entries are never moved.
func AdjustOverlaps(newItems, existing []Entry, maxEnd int) Adjustment {
	byDate := groupByDate(existing)
	for _, group := range byDate {
		sort.SliceStable(group, func(i, j int) bool {
			if group[i].Start == group[j].Start {
				return group[i].End < group[j].End
			}
			return group[i].Start < group[j].Start
		})
	}

	result := Adjustment{
		Items:        make([]Entry, 0, len(newItems)),
		Unadjustable: []Unadjustable{},
	}
	for _, item := range newItems {
		if !item.HasWindow() {
			result.Items = append(result.Items, item)
			continue
		}

		duration := item.End - item.Start
		candidate := item
		shifted := false
		for _, ex := range byDate[item.Date] {
			if timerange.Overlaps(candidate.Window(), ex.Window()) {
				candidate.Start = ex.End
				candidate.End = ex.End + duration
				shifted = true
			}
		}

		if !shifted {
			result.Items = append(result.Items, item)
			continue
		}
		result.Items = append(result.Items, candidate)
		if candidate.End > maxEnd {
			result.Unadjustable = append(result.Unadjustable, Unadjustable{
				Ref: item.Ref,
				Reason: fmt.Sprintf("shifted window %s~%s on %s ends after %s",
					timerange.FormatMinutes(candidate.Start), timerange.FormatMinutes(candidate.End), item.Date, timerange.FormatMinutes(maxEnd)),
			})
			continue
		}
		result.AdjustedCount++
	}
	return result
}

// SortCandidates orders entries by date, then start, keeping insertion order for ties,
// so AdjustOverlaps gives reproducible results regardless of how the batch was assembled.
func SortCandidates(items []Entry) []Entry {
	out := make([]Entry, len(items))
	copy(out, items)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].Start < out[j].Start
	})
	return out
}
