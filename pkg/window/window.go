// Package window computes the contiguous calendar-date range a run covers.
package window

import "time"

// DateKey formats a date as the ISO calendar-date key used for upserts.
func DateKey(d time.Time) string {
	return d.Format("2006-01-02")
}

// Plan returns the ascending, inclusive sequence of dates to process.
// The window ends on today (or yesterday when includeToday is false) and
// contains exactly windowDays dates. windowDays < 1 is clamped to 1.
func Plan(today time.Time, windowDays int, includeToday bool) []time.Time {
	if windowDays < 1 {
		windowDays = 1
	}

	end := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, today.Location())
	if !includeToday {
		end = end.AddDate(0, 0, -1)
	}

	dates := make([]time.Time, windowDays)
	start := end.AddDate(0, 0, -(windowDays - 1))
	for i := range dates {
		dates[i] = start.AddDate(0, 0, i)
	}
	return dates
}
