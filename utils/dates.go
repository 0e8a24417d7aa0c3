package utils

import (
	"fmt"
	"time"

	"ems/models"
)

// ParseDate parses a YYYY-MM-DD calendar date as UTC midnight.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(models.DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, want YYYY-MM-DD", s)
	}
	return t, nil
}

// ParsePeriod returns the first and last calendar day of a YYYY-MM period.
func ParsePeriod(period string) (first, last time.Time, err error) {
	first, err = time.Parse(models.PeriodLayout, period)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid period %q, want YYYY-MM", period)
	}
	last = first.AddDate(0, 1, -1)
	return first, last, nil
}

// IsWeekday reports whether t falls Monday to Friday.
func IsWeekday(t time.Time) bool {
	wd := t.Weekday()
	return wd != time.Saturday && wd != time.Sunday
}

// Weekdays counts Monday-Friday dates in [from, to], inclusive.
func Weekdays(from, to time.Time) int {
	n := 0
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		if IsWeekday(d) {
			n++
		}
	}
	return n
}

// FormatDate renders t as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(models.DateLayout)
}
