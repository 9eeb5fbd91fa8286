package ledger

import "time"

// Calendar maps dates to fiscal years. A fiscal year is labelled by
// the calendar year in which it starts.
type Calendar struct {
	StartMonth time.Month // zero means January
}

// CalendarYear is the calendar-year fiscal calendar.
var CalendarYear = Calendar{StartMonth: time.January}

func (c Calendar) start() time.Month {
	if c.StartMonth < time.January || c.StartMonth > time.December {
		return time.January
	}
	return c.StartMonth
}

// FiscalYear returns the fiscal year containing t.
func (c Calendar) FiscalYear(t time.Time) int {
	if t.Month() < c.start() {
		return t.Year() - 1
	}
	return t.Year()
}

// YearStart returns the first day of fiscal year fy.
func (c Calendar) YearStart(fy int) time.Time {
	return time.Date(fy, c.start(), 1, 0, 0, 0, 0, time.UTC)
}

// YearEnd returns the last day of fiscal year fy.
func (c Calendar) YearEnd(fy int) time.Time {
	return c.YearStart(fy+1).AddDate(0, 0, -1)
}

// Day truncates t to its calendar day in UTC.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func sameMonth(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month()
}
