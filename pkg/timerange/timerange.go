package timerange

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// MinutesPerDay bounds every range; 1440 is accepted as an end value meaning midnight.
const MinutesPerDay = 24 * 60

var (
	// ErrInvalidRange is returned when start >= end or a bound falls outside the day.
	ErrInvalidRange = errors.New("invalid time range")
	// ErrInvalidClock is returned for clock strings that are not HH:mm.
	ErrInvalidClock = errors.New("invalid clock value")
)

// Range is a half-open [Start, End) window expressed in minutes from midnight.
type Range struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// New validates the bounds and returns a Range.
func New(start, end int) (Range, error) {
	if start < 0 || end > MinutesPerDay || start >= end {
		return Range{}, fmt.Errorf("%w: %d-%d", ErrInvalidRange, start, end)
	}
	return Range{Start: start, End: end}, nil
}

// Parse builds a Range from two "HH:mm" clock strings.
func Parse(start, end string) (Range, error) {
	s, err := ParseClock(start)
	if err != nil {
		return Range{}, err
	}
	e, err := ParseClock(end)
	if err != nil {
		return Range{}, err
	}
	return New(s, e)
}

// MustParse is Parse for compile-time constants; it panics on bad input.
func MustParse(start, end string) Range {
	r, err := Parse(start, end)
	if err != nil {
		panic(err)
	}
	return r
}

// ParseClock converts "HH:mm" (or "HH:mm:ss", seconds ignored) into minutes from midnight.
// "24:00" is accepted as the end of the day.
func ParseClock(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	parts := strings.Split(raw, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, raw)
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, raw)
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil || minutes < 0 || minutes > 59 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, raw)
	}
	if hours < 0 || hours > 24 || (hours == 24 && minutes != 0) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, raw)
	}
	return hours*60 + minutes, nil
}

// FormatMinutes renders minutes from midnight as "HH:mm".
func FormatMinutes(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// Minutes returns the length of the range.
func (r Range) Minutes() int {
	return r.End - r.Start
}

// String renders the range as "HH:mm~HH:mm".
func (r Range) String() string {
	return FormatMinutes(r.Start) + "~" + FormatMinutes(r.End)
}

// Overlaps reports whether two half-open ranges share at least one minute.
func Overlaps(a, b Range) bool {
	return a.Start < b.End && b.Start < a.End
}

// Intersect returns the shared part of a and b.
func Intersect(a, b Range) (Range, bool) {
	if !Overlaps(a, b) {
		return Range{}, false
	}
	return Range{Start: max(a.Start, b.Start), End: min(a.End, b.End)}, true
}

// OverlapMinutes returns how many minutes a and b share.
func OverlapMinutes(a, b Range) int {
	shared, ok := Intersect(a, b)
	if !ok {
		return 0
	}
	return shared.Minutes()
}

// Subtract removes exclude from base, leaving zero, one or two ranges.
func Subtract(base, exclude Range) []Range {
	if !Overlaps(base, exclude) {
		return []Range{base}
	}
	var out []Range
	if exclude.Start > base.Start {
		out = append(out, Range{Start: base.Start, End: exclude.Start})
	}
	if exclude.End < base.End {
		out = append(out, Range{Start: exclude.End, End: base.End})
	}
	return out
}

// SubtractAll removes exclude from every range in ranges.
func SubtractAll(ranges []Range, exclude Range) []Range {
	out := make([]Range, 0, len(ranges))
	for _, r := range ranges {
		out = append(out, Subtract(r, exclude)...)
	}
	return out
}

// Merge sorts ranges by start and coalesces overlapping or touching ranges.
// The input slice is not modified.
func Merge(ranges []Range) []Range {
	if len(ranges) == 0 {
		return nil
	}
	sorted := make([]Range, len(ranges))
	copy(sorted, ranges)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Start == sorted[j].Start {
			return sorted[i].End < sorted[j].End
		}
		return sorted[i].Start < sorted[j].Start
	})

	merged := []Range{sorted[0]}
	for _, r := range sorted[1:] {
		last := &merged[len(merged)-1]
		if r.Start <= last.End {
			if r.End > last.End {
				last.End = r.End
			}
			continue
		}
		merged = append(merged, r)
	}
	return merged
}

// TotalMinutes sums the lengths of ranges.
func TotalMinutes(ranges []Range) int {
	total := 0
	for _, r := range ranges {
		total += r.Minutes()
	}
	return total
}

// Widen extends r by before and after minutes, clamped to the day.
func Widen(r Range, before, after int) Range {
	return Range{Start: max(0, r.Start-before), End: min(MinutesPerDay, r.End+after)}
}

// Join renders ranges as a comma separated "HH:mm~HH:mm" list, or empty when there are none.
func Join(ranges []Range) string {
	parts := make([]string, 0, len(ranges))
	for _, r := range ranges {
		parts = append(parts, r.String())
	}
	return strings.Join(parts, ", ")
}
