package domain

import "time"

// Month windows are always computed from explicit UTC month boundaries, never
// from elapsed-day arithmetic, so they stay correct across months of
// different lengths.

// MonthStart returns day 1, 00:00 UTC of t's month
func MonthStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// NextMonthStart returns day 1, 00:00 UTC of the month after t's
func NextMonthStart(t time.Time) time.Time {
	return MonthStart(t).AddDate(0, 1, 0)
}

// MonthStartBack returns day 1, 00:00 UTC of the month n months before t's
func MonthStartBack(t time.Time, n int) time.Time {
	return MonthStart(t).AddDate(0, -n, 0)
}

// MonthWindow returns the half-open [start, end) window for a calendar month
func MonthWindow(year int, month time.Month) (time.Time, time.Time) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}

// DayStart truncates t to its UTC calendar day
func DayStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// SameUTCDay reports whether a and b fall on the same UTC calendar day
func SameUTCDay(a, b time.Time) bool {
	return DayStart(a).Equal(DayStart(b))
}
