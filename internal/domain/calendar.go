package domain

import (
	"math"
	"time"
)

const dayKeyLayout = "2006-01-02"

// Calendar fixes the week-start convention and timezone that all date
// bucketing uses. Passing it explicitly keeps week boundaries reproducible
// across environments instead of depending on process-wide locale state.
type Calendar struct {
	WeekStartsOn time.Weekday
	Location     *time.Location
}

// DefaultCalendar uses Monday weeks in the local timezone.
func DefaultCalendar() Calendar {
	return Calendar{WeekStartsOn: time.Monday, Location: time.Local}
}

func (c Calendar) loc() *time.Location {
	if c.Location == nil {
		return time.Local
	}
	return c.Location
}

// StartOfDay truncates t to midnight in the calendar's timezone.
func (c Calendar) StartOfDay(t time.Time) time.Time {
	t = t.In(c.loc())
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, c.loc())
}

// StartOfWeek snaps t back to midnight of the most recent week-start day.
func (c Calendar) StartOfWeek(t time.Time) time.Time {
	day := c.StartOfDay(t)
	back := (int(day.Weekday()) - int(c.WeekStartsOn) + 7) % 7
	return day.AddDate(0, 0, -back)
}

// EndOfWeek is the last stored instant of t's week. Timestamps persist at
// second precision, so the week covers [StartOfWeek, EndOfWeek] inclusive.
func (c Calendar) EndOfWeek(t time.Time) time.Time {
	return c.StartOfWeek(t).AddDate(0, 0, 7).Add(-time.Second)
}

// DayKey is the calendar-day bucket for t, e.g. "2025-03-14".
func (c Calendar) DayKey(t time.Time) string {
	return t.In(c.loc()).Format(dayKeyLayout)
}

// DaysBetween is the difference in calendar days from a to b. Rounding keeps
// the count stable across DST transitions.
func (c Calendar) DaysBetween(a, b time.Time) int {
	diff := c.StartOfDay(b).Sub(c.StartOfDay(a))
	return int(math.Round(diff.Hours() / 24))
}
