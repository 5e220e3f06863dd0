// Package recurrence implements the calendar arithmetic behind recurring
// transactions and automatic goal contributions. Everything here is pure:
// no clocks, no persistence.
package recurrence

import (
	"fmt"
	"time"
)

// Interval is the repetition interval of a recurring transaction.
type Interval string

const (
	IntervalDaily   Interval = "daily"
	IntervalWeekly  Interval = "weekly"
	IntervalMonthly Interval = "monthly"
	IntervalYearly  Interval = "yearly"
)

// ParseInterval parses and validates an interval stored as a string.
func ParseInterval(s string) (Interval, error) {
	i := Interval(s)
	if !i.Valid() {
		return "", fmt.Errorf("unknown recurrence interval %q", s)
	}
	return i, nil
}

// Valid reports whether the interval is one of the supported tags.
func (i Interval) Valid() bool {
	switch i {
	case IntervalDaily, IntervalWeekly, IntervalMonthly, IntervalYearly:
		return true
	}
	return false
}

// Frequency is the bucket an automatic goal contribution belongs to.
type Frequency string

const (
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
)

// Valid reports whether the frequency is one of the supported buckets.
func (f Frequency) Valid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly:
		return true
	}
	return false
}

// Label returns the capitalized form used in contribution descriptions.
func (f Frequency) Label() string {
	switch f {
	case FrequencyDaily:
		return "Daily"
	case FrequencyWeekly:
		return "Weekly"
	case FrequencyMonthly:
		return "Monthly"
	}
	return string(f)
}

// NextDate computes the occurrence that follows current for the given
// interval. Monthly and yearly keep the day of month, clamped to the
// length of the target month (Jan 31 -> Feb 28/29, Feb 29 -> Feb 28 on
// non-leap years). NextDate panics on an unknown interval: callers must
// validate stored intervals first, so reaching the panic is a bug.
func NextDate(current time.Time, interval Interval) time.Time {
	switch interval {
	case IntervalDaily:
		return current.AddDate(0, 0, 1)
	case IntervalWeekly:
		return current.AddDate(0, 0, 7)
	case IntervalMonthly:
		return addMonthsClamped(current, 1)
	case IntervalYearly:
		return addYearsClamped(current, 1)
	}
	panic(fmt.Sprintf("recurrence: invalid interval %q", interval))
}

// Schedule is the active recurrence state of a transaction: the interval,
// the next occurrence, and an optional end date. A transaction with no
// Schedule is non-recurring; Advance returning terminated=true is the
// one-way transition out of the recurring state.
type Schedule struct {
	Interval Interval
	Next     time.Time
	End      *time.Time
}

// Advance computes the schedule after an occurrence on today. When the
// computed next occurrence would fall past the end date, the schedule
// terminates and the zero Schedule is returned.
func (s Schedule) Advance(today time.Time) (Schedule, bool) {
	next := NextDate(today, s.Interval)
	if s.End != nil && next.After(*s.End) {
		return Schedule{}, true
	}
	s.Next = next
	return s, false
}

// Midnight truncates t to midnight in its own location. Jobs normalize
// "today" through this so date comparisons are calendar-day comparisons.
func Midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// SameDay reports whether a and b fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func addMonthsClamped(t time.Time, months int) time.Time {
	y, m, d := t.Date()
	hh, mm, ss := t.Clock()

	first := time.Date(y, m+time.Month(months), 1, hh, mm, ss, t.Nanosecond(), t.Location())
	if last := daysInMonth(first.Month(), first.Year()); d > last {
		d = last
	}
	return time.Date(first.Year(), first.Month(), d, hh, mm, ss, t.Nanosecond(), t.Location())
}

func addYearsClamped(t time.Time, years int) time.Time {
	y, m, d := t.Date()
	hh, mm, ss := t.Clock()

	if last := daysInMonth(m, y+years); d > last {
		d = last
	}
	return time.Date(y+years, m, d, hh, mm, ss, t.Nanosecond(), t.Location())
}

func daysInMonth(month time.Month, year int) int {
	// Day zero of the following month is the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
