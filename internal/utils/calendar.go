package utils

import "time"

// NthWeekdayOfMonth returns the day of month of the nth (1-based) occurrence
// of weekday in the month: the first match plus (n-1) weeks.
func NthWeekdayOfMonth(year int, month time.Month, weekday time.Weekday, n int) int {
	first := time.Date(year, month, 1, 12, 0, 0, 0, time.UTC)
	offset := (int(weekday) - int(first.Weekday()) + 7) % 7
	return 1 + offset + (n-1)*7
}

// LastWeekdayOfMonth returns the day of month of the last occurrence of
// weekday, found by walking back from the month's last day.
func LastWeekdayOfMonth(year int, month time.Month, weekday time.Weekday) int {
	last := time.Date(year, month+1, 0, 12, 0, 0, 0, time.UTC)
	for last.Weekday() != weekday {
		last = last.AddDate(0, 0, -1)
	}
	return last.Day()
}
