package workload

import "time"

// BusinessDays counts Monday through Friday between from and to, inclusive
// of both endpoints. Returns 0 when to is before from. Only the calendar
// date matters; time-of-day components are ignored.
func BusinessDays(from, to time.Time) int {
	from = truncateToDay(from)
	to = truncateToDay(to)

	days := 0
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		switch d.Weekday() {
		case time.Saturday, time.Sunday:
		default:
			days++
		}
	}
	return days
}

// MonthWindow returns the first and last day of the month containing now.
func MonthWindow(now time.Time) (start, end time.Time) {
	start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	end = start.AddDate(0, 1, -1)
	return start, end
}

// ElapsedBusinessDays counts business days from the start of the month
// containing now through now itself.
func ElapsedBusinessDays(now time.Time) int {
	start, _ := MonthWindow(now)
	return BusinessDays(start, now)
}

// TotalBusinessDays counts business days in the whole month containing now.
func TotalBusinessDays(now time.Time) int {
	start, end := MonthWindow(now)
	return BusinessDays(start, end)
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
