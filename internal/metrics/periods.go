package metrics

import (
	"fmt"
	"time"
)

// dateLayout is the wire format for calendar dates
const dateLayout = "2006-01-02"

// PeriodBoundaries holds every date boundary a metrics computation needs. It
// is derived once per request from an injected reference date so the whole
// engine stays deterministic; nothing downstream reads the wall clock.
type PeriodBoundaries struct {
	Today         time.Time
	PrevMonthEnd  time.Time
	PrevWeekStart time.Time
	PrevWeekEnd   time.Time

	// Rolling 30-day windows: current is [Rolling30Start, Today], previous
	// is [Rolling60Start, Rolling30Start).
	Rolling30Start time.Time
	Rolling60Start time.Time

	// Current calendar periods, used by the time/invoice statistics.
	CurrentWeekStart  time.Time
	CurrentWeekEnd    time.Time
	CurrentMonthStart time.Time
	CurrentMonthEnd   time.Time
	PrevMonthStart    time.Time
}

// NewPeriodBoundaries computes all period boundaries for the given reference
// date. Weeks run Sunday through Saturday, matching how the dashboard has
// always cut them: the previous week is the week containing now minus seven
// days.
func NewPeriodBoundaries(now time.Time) PeriodBoundaries {
	today := truncateToDay(now)

	monthStart := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
	prevMonthEnd := monthStart.AddDate(0, 0, -1)
	prevMonthStart := time.Date(prevMonthEnd.Year(), prevMonthEnd.Month(), 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, -1)

	oneWeekAgo := today.AddDate(0, 0, -7)
	prevWeekStart := oneWeekAgo.AddDate(0, 0, -int(oneWeekAgo.Weekday()))
	prevWeekEnd := prevWeekStart.AddDate(0, 0, 6)

	currentWeekStart := today.AddDate(0, 0, -int(today.Weekday()))
	currentWeekEnd := currentWeekStart.AddDate(0, 0, 6)

	return PeriodBoundaries{
		Today:             today,
		PrevMonthEnd:      prevMonthEnd,
		PrevWeekStart:     prevWeekStart,
		PrevWeekEnd:       prevWeekEnd,
		Rolling30Start:    today.AddDate(0, 0, -30),
		Rolling60Start:    today.AddDate(0, 0, -60),
		CurrentWeekStart:  currentWeekStart,
		CurrentWeekEnd:    currentWeekEnd,
		CurrentMonthStart: monthStart,
		CurrentMonthEnd:   monthEnd,
		PrevMonthStart:    prevMonthStart,
	}
}

// InCurrentRolling30 reports whether d falls inside [today-30, today]
func (p PeriodBoundaries) InCurrentRolling30(d time.Time) bool {
	d = truncateToDay(d)
	return !d.Before(p.Rolling30Start) && !d.After(p.Today)
}

// InPreviousRolling30 reports whether d falls inside [today-60, today-30)
func (p PeriodBoundaries) InPreviousRolling30(d time.Time) bool {
	d = truncateToDay(d)
	return !d.Before(p.Rolling60Start) && d.Before(p.Rolling30Start)
}

// PreviousMonthLabel renders the previous-month range for period_info
func (p PeriodBoundaries) PreviousMonthLabel() string {
	return fmt.Sprintf("%s to %s", p.PrevMonthStart.Format(dateLayout), p.PrevMonthEnd.Format(dateLayout))
}

// PreviousWeekLabel renders the previous-week range for period_info
func (p PeriodBoundaries) PreviousWeekLabel() string {
	return fmt.Sprintf("%s to %s", p.PrevWeekStart.Format(dateLayout), p.PrevWeekEnd.Format(dateLayout))
}

// truncateToDay drops the time-of-day component and normalizes to UTC
func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// daysBetween returns the whole days from a to b (negative when b precedes a)
func daysBetween(a, b time.Time) float64 {
	return truncateToDay(b).Sub(truncateToDay(a)).Hours() / 24
}

// endOfMonth returns the last calendar day of the month containing d
func endOfMonth(d time.Time) time.Time {
	first := time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC)
	return first.AddDate(0, 1, -1)
}

// endOfWeek returns the Saturday closing the Sunday-through-Saturday week
// containing d
func endOfWeek(d time.Time) time.Time {
	d = truncateToDay(d)
	return d.AddDate(0, 0, 6-int(d.Weekday()))
}
