// Package dates implements the calendar-date arithmetic the booking
// engine relies on. All comparisons work on whole days; times of day
// never influence overlap or validation results.
package dates

import (
	"time"

	"equipbook/internal/domain"
)

// Day truncates t to its calendar date.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the absolute number of whole calendar days
// between a and b. The inclusive duration of a range is DaysBetween+1.
func DaysBetween(a, b time.Time) int {
	diff := Day(b).Sub(Day(a)) / (24 * time.Hour)
	if diff < 0 {
		diff = -diff
	}
	return int(diff)
}

// RangesOverlap reports whether the closed ranges [s1, e1] and
// [s2, e2] share at least one day. Touching boundary days overlap.
func RangesOverlap(s1, e1, s2, e2 time.Time) bool {
	return !Day(s1).After(Day(e2)) && !Day(s2).After(Day(e1))
}

// ValidateRange checks a requested booking range against today.
func ValidateRange(start, end, today time.Time) error {
	if start.IsZero() || end.IsZero() {
		return domain.ErrInvalidRange
	}
	if Day(start).Before(Day(today)) {
		return domain.ErrPastDate
	}
	if Day(start).After(Day(end)) {
		return domain.ErrInvalidRange
	}
	return nil
}
