package compliance

import "time"

// DateOnly truncates t to midnight UTC.
func DateOnly(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// AddMonths adds n calendar months, clamping the day to the end of the
// target month (Jan 31 + 1 month = Feb 28/29).
func AddMonths(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m, 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	first = first.AddDate(0, n, 0)
	if last := daysIn(first.Year(), first.Month()); d > last {
		d = last
	}
	return time.Date(first.Year(), first.Month(), d, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

// AddDays shifts t by n calendar days.
func AddDays(t time.Time, n int) time.Time {
	return t.AddDate(0, 0, n)
}

// WholeMonths counts complete calendar months in [start, end], end day
// included: 2024-09-01..2026-08-31 is 24 months. A partial trailing month
// does not count. Returns 0 when end is not after start.
func WholeMonths(start, end time.Time) int {
	if !end.After(start) {
		return 0
	}
	sy, sm, sd := start.Date()
	ey, em, ed := AddDays(end, 1).Date()
	months := (ey-sy)*12 + int(em-sm)
	if ed < sd {
		months--
	}
	if months < 0 {
		return 0
	}
	return months
}

// NumPeriods is max(1, ceil(totalMonths / periodMonths)).
func NumPeriods(totalMonths, periodMonths int) int {
	if periodMonths <= 0 {
		return 1
	}
	n := (totalMonths + periodMonths - 1) / periodMonths
	if n < 1 {
		return 1
	}
	return n
}

func daysIn(y int, m time.Month) int {
	return time.Date(y, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
