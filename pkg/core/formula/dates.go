package formula

import "time"

// EDate shifts a date by whole months the way the spreadsheet EDATE function does:
// when the target month is shorter, the day is clamped to its last day (Jan 31 + 1 month = Feb 28).
func EDate(start time.Time, months int) time.Time {
	y, m, d := start.Date()
	first := time.Date(y, m+time.Month(months), 1, 0, 0, 0, 0, time.UTC)
	if last := daysIn(first); d > last {
		d = last
	}
	return time.Date(first.Year(), first.Month(), d, 0, 0, 0, 0, time.UTC)
}

// EOMonth returns the last day of the month that lies the given number of months after start.
func EOMonth(start time.Time, months int) time.Time {
	y, m, _ := start.Date()
	// Day 0 of the following month is the last day of the target month.
	return time.Date(y, m+time.Month(months)+1, 0, 0, 0, 0, 0, time.UTC)
}

func daysIn(firstOfMonth time.Time) int {
	return time.Date(firstOfMonth.Year(), firstOfMonth.Month()+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
