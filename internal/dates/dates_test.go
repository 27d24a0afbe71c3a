package dates

import (
	"testing"
	"time"

	"equipbook/internal/domain"

	"github.com/stretchr/testify/assert"
)

func d(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestDaysBetween(t *testing.T) {
	assert.Equal(t, 0, DaysBetween(d("2024-06-01"), d("2024-06-01")))
	assert.Equal(t, 4, DaysBetween(d("2024-06-01"), d("2024-06-05")))
	assert.Equal(t, 4, DaysBetween(d("2024-06-05"), d("2024-06-01")))
	assert.Equal(t, 31, DaysBetween(d("2024-01-01"), d("2024-02-01")))
}

func TestDaysBetweenIgnoresTimeOfDay(t *testing.T) {
	a := time.Date(2024, 6, 1, 23, 59, 0, 0, time.UTC)
	b := time.Date(2024, 6, 2, 0, 1, 0, 0, time.UTC)
	assert.Equal(t, 1, DaysBetween(a, b))
}

func TestRangesOverlap(t *testing.T) {
	cases := []struct {
		name           string
		s1, e1, s2, e2 string
		want           bool
	}{
		{"identical", "2024-06-01", "2024-06-05", "2024-06-01", "2024-06-05", true},
		{"contained", "2024-06-01", "2024-06-10", "2024-06-03", "2024-06-05", true},
		{"partial", "2024-06-01", "2024-06-05", "2024-06-03", "2024-06-07", true},
		{"touching boundary", "2024-06-01", "2024-06-05", "2024-06-05", "2024-06-08", true},
		{"disjoint", "2024-06-01", "2024-06-05", "2024-06-06", "2024-06-08", false},
		{"single day equal", "2024-06-01", "2024-06-01", "2024-06-01", "2024-06-01", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := RangesOverlap(d(tc.s1), d(tc.e1), d(tc.s2), d(tc.e2))
			assert.Equal(t, tc.want, got)

			// Overlap is symmetric in the two ranges.
			sym := RangesOverlap(d(tc.s2), d(tc.e2), d(tc.s1), d(tc.e1))
			assert.Equal(t, got, sym)
		})
	}
}

func TestValidateRange(t *testing.T) {
	today := d("2024-06-01")

	assert.NoError(t, ValidateRange(d("2024-06-01"), d("2024-06-05"), today))
	assert.NoError(t, ValidateRange(d("2024-06-05"), d("2024-06-05"), today))

	assert.ErrorIs(t, ValidateRange(time.Time{}, d("2024-06-05"), today), domain.ErrInvalidRange)
	assert.ErrorIs(t, ValidateRange(d("2024-06-01"), time.Time{}, today), domain.ErrInvalidRange)
	assert.ErrorIs(t, ValidateRange(d("2024-05-31"), d("2024-06-05"), today), domain.ErrPastDate)
	assert.ErrorIs(t, ValidateRange(d("2024-06-07"), d("2024-06-05"), today), domain.ErrInvalidRange)
}
