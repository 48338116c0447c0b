package analytics

import (
	"math"
	"time"
)

// TrailingMonths is the size of the monthly payments window, current month included.
const TrailingMonths = 6

// day returns the calendar date of now, anchored at 00:00 UTC.
func day(now time.Time) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Today is the range covering the calendar date of now.
func Today(now time.Time) DateRange {
	d := day(now)
	return DateRange{From: d, To: d.AddDate(0, 0, 1)}
}

// CalendarMonth is the range covering the whole calendar month of now.
func CalendarMonth(now time.Time) DateRange {
	y, m, _ := now.Date()
	first := time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
	return DateRange{From: first, To: first.AddDate(0, 1, 0)}
}

// TrailingWindow covers the first day of the month n-1 months before now through the
// date of now, inclusive.
func TrailingWindow(now time.Time, n int) DateRange {
	y, m, _ := now.Date()
	first := time.Date(y, m, 1, 0, 0, 0, 0, time.UTC).AddDate(0, -(n - 1), 0)
	return DateRange{From: first, To: day(now).AddDate(0, 0, 1)}
}

// percent returns round(num/den*100) with half-to-even rounding, or 0 when den is 0.
func percent(num, den int64) int64 {
	if den <= 0 {
		return 0
	}
	return int64(math.RoundToEven(float64(num) / float64(den) * 100))
}

// roundTenth rounds to one decimal place, half to even.
func roundTenth(v float64) float64 {
	return math.RoundToEven(v*10) / 10
}
