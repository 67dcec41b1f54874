package timerange

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRejectsIllFormedRanges(t *testing.T) {
	_, err := New(600, 600)
	assert.ErrorIs(t, err, ErrInvalidRange)

	_, err = New(700, 600)
	assert.ErrorIs(t, err, ErrInvalidRange)

	_, err = New(-10, 600)
	assert.ErrorIs(t, err, ErrInvalidRange)

	_, err = New(0, MinutesPerDay+1)
	assert.ErrorIs(t, err, ErrInvalidRange)

	r, err := New(0, MinutesPerDay)
	require.NoError(t, err)
	assert.Equal(t, MinutesPerDay, r.Minutes())
}

func TestParseClock(t *testing.T) {
	cases := map[string]int{
		"00:00":    0,
		"09:30":    570,
		"9:05":     545,
		"23:59":    1439,
		"24:00":    1440,
		"18:00:00": 1080,
	}
	for raw, want := range cases {
		got, err := ParseClock(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, got, raw)
	}

	for _, raw := range []string{"", "9", "24:30", "12:60", "ab:cd", "-1:00"} {
		_, err := ParseClock(raw)
		assert.ErrorIs(t, err, ErrInvalidClock, raw)
	}
}

func TestFormatAndString(t *testing.T) {
	r := MustParse("09:00", "12:30")
	assert.Equal(t, "09:00~12:30", r.String())
	assert.Equal(t, "00:05", FormatMinutes(5))
	assert.Equal(t, "09:00~12:00, 13:00~15:30", Join([]Range{MustParse("09:00", "12:00"), MustParse("13:00", "15:30")}))
	assert.Equal(t, "", Join(nil))
}

func TestOverlapsIsSymmetric(t *testing.T) {
	ranges := []Range{
		MustParse("09:00", "10:00"),
		MustParse("09:30", "11:00"),
		MustParse("10:00", "12:00"),
		MustParse("11:30", "12:00"),
		MustParse("08:00", "18:00"),
	}
	for _, a := range ranges {
		for _, b := range ranges {
			assert.Equal(t, Overlaps(a, b), Overlaps(b, a), "%s vs %s", a, b)
		}
	}
	assert.False(t, Overlaps(MustParse("09:00", "10:00"), MustParse("10:00", "11:00")), "touching ranges do not overlap")
}

func TestSubtract(t *testing.T) {
	base := MustParse("09:00", "18:00")

	assert.Equal(t, []Range{base}, Subtract(base, MustParse("19:00", "20:00")))
	assert.Equal(t, []Range{MustParse("09:00", "12:00"), MustParse("13:00", "18:00")}, Subtract(base, MustParse("12:00", "13:00")))
	assert.Equal(t, []Range{MustParse("10:00", "18:00")}, Subtract(base, MustParse("08:00", "10:00")))
	assert.Equal(t, []Range{MustParse("09:00", "15:30")}, Subtract(base, MustParse("15:30", "18:30")))
	assert.Empty(t, Subtract(base, MustParse("08:00", "19:00")))
}

func TestSubtractThenMergeRemovesExactlyTheIntersection(t *testing.T) {
	bases := []Range{MustParse("09:00", "18:00"), MustParse("13:00", "14:00"), MustParse("00:00", "24:00")}
	excludes := []Range{
		MustParse("08:00", "09:30"),
		MustParse("12:00", "13:00"),
		MustParse("17:00", "23:00"),
		MustParse("05:00", "06:00"),
		MustParse("00:00", "24:00"),
	}
	for _, base := range bases {
		for _, x := range excludes {
			got := Merge(Subtract(base, x))
			assert.Equal(t, base.Minutes()-OverlapMinutes(base, x), TotalMinutes(got), "%s minus %s", base, x)
			for _, r := range got {
				assert.False(t, Overlaps(r, x))
				assert.GreaterOrEqual(t, r.Start, base.Start)
				assert.LessOrEqual(t, r.End, base.End)
			}
		}
	}
}

func TestMerge(t *testing.T) {
	in := []Range{
		MustParse("13:00", "15:00"),
		MustParse("09:00", "10:00"),
		MustParse("10:00", "11:00"),
		MustParse("14:00", "16:00"),
		MustParse("18:00", "19:00"),
	}
	got := Merge(in)
	assert.Equal(t, []Range{MustParse("09:00", "11:00"), MustParse("13:00", "16:00"), MustParse("18:00", "19:00")}, got)
	assert.Equal(t, MustParse("13:00", "15:00"), in[0], "input must not be reordered")
	assert.Nil(t, Merge(nil))
}

func TestMergeProducesSortedDisjointRanges(t *testing.T) {
	inputs := [][]Range{
		{MustParse("09:00", "10:00"), MustParse("11:00", "12:00")},
		{MustParse("09:00", "12:00"), MustParse("10:00", "11:00")},
		{MustParse("15:00", "16:00"), MustParse("09:00", "15:00"), MustParse("16:00", "17:00")},
	}
	for _, in := range inputs {
		got := Merge(in)
		for i := 1; i < len(got); i++ {
			assert.Less(t, got[i-1].End, got[i].Start, "merged output must be sorted and disjoint")
		}
		assert.LessOrEqual(t, TotalMinutes(got), TotalMinutes(in))
		if len(got) == len(in) {
			assert.Equal(t, TotalMinutes(in), TotalMinutes(got))
		}
	}
}

func TestWidenClampsToDay(t *testing.T) {
	assert.Equal(t, MustParse("15:30", "18:30"), Widen(MustParse("16:00", "18:00"), 30, 30))
	assert.Equal(t, Range{Start: 0, End: 120}, Widen(MustParse("00:30", "01:00"), 60, 60))
	assert.Equal(t, Range{Start: 1380, End: MinutesPerDay}, Widen(MustParse("23:30", "24:00"), 30, 60))
}
