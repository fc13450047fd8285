// Package recurrence computes the next occurrence of a recurring
// transaction rule. Next is a pure function: identical inputs always
// produce identical outputs, and there is no dependency on the clock
// beyond the anchor date passed in.
package recurrence

import (
	"time"

	"fintrack/internal/dates"
)

// Frequency identifies how often a recurring rule fires.
type Frequency string

const (
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekday Frequency = "weekday"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
	FrequencyYearly  Frequency = "yearly"
	FrequencyCustom  Frequency = "custom"
)

// Valid reports whether f is a recognized frequency.
func (f Frequency) Valid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekday, FrequencyWeekly,
		FrequencyMonthly, FrequencyYearly, FrequencyCustom:
		return true
	}
	return false
}

// Metadata refines a custom-frequency rule. Fields are optional; which
// fields are set selects the scheduling shape (see Next).
type Metadata struct {
	// DayOfWeek is 0-6 with 0 = Sunday.
	DayOfWeek *int `json:"dayOfWeek,omitempty"`
	// WeekOfMonth is 1-5; 5 means the last occurrence in the month.
	WeekOfMonth *int `json:"weekOfMonth,omitempty"`
	// DayOfMonth is 1-31, clamped to shorter months.
	DayOfMonth *int `json:"dayOfMonth,omitempty"`
}

// Empty reports whether no metadata field is set.
func (m *Metadata) Empty() bool {
	return m == nil || (m.DayOfWeek == nil && m.WeekOfMonth == nil && m.DayOfMonth == nil)
}

// Next computes the occurrence that follows current for the given
// frequency. The second return value is false when the rule is exhausted:
// the candidate falls strictly after end. Unrecognized frequencies and
// custom rules without usable metadata degrade to a +1 day step.
func Next(current dates.Date, freq Frequency, meta *Metadata, end *dates.Date) (dates.Date, bool) {
	var next dates.Date

	switch freq {
	case FrequencyDaily:
		next = current.AddDays(1)
	case FrequencyWeekday:
		next = current.AddDays(1)
		for next.IsWeekend() {
			next = next.AddDays(1)
		}
	case FrequencyWeekly:
		next = current.AddWeeks(1)
	case FrequencyMonthly:
		// Day-of-month is preserved relative to the anchor, so a clamp in
		// a short month does not propagate: Jan 31 -> Feb 29 -> Mar 29.
		next = current.AddMonths(1)
	case FrequencyYearly:
		next = current.AddYears(1)
	case FrequencyCustom:
		next = nextCustom(current, meta)
	default:
		next = current.AddDays(1)
	}

	if end != nil && next.After(*end) {
		return dates.Date{}, false
	}
	return next, true
}

func nextCustom(current dates.Date, meta *Metadata) dates.Date {
	switch {
	case meta != nil && meta.DayOfWeek != nil && meta.WeekOfMonth != nil:
		// e.g. "second Tuesday of next month".
		weekday := time.Weekday(*meta.DayOfWeek)
		return current.AddMonths(1).FirstOfMonth().NthWeekdayOfMonth(weekday, *meta.WeekOfMonth)
	case meta != nil && meta.DayOfWeek != nil:
		// e.g. "every Tuesday": one week forward, snapped to the weekday
		// within that Sunday-based week.
		anchor := current.AddWeeks(1)
		return anchor.AddDays(*meta.DayOfWeek - int(anchor.Weekday()))
	case meta != nil && meta.DayOfMonth != nil:
		// e.g. "the 15th of every month", clamped to shorter months.
		return current.AddMonths(1).WithDay(*meta.DayOfMonth)
	default:
		// No usable metadata. Degrade to a daily step rather than stall
		// the rule; creation-time validation keeps new rules out of this
		// state.
		return current.AddDays(1)
	}
}
