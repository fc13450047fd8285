// Package dates provides a civil calendar date type and the pure calendar
// arithmetic used by the recurrence engine. A Date carries no time-of-day
// and no timezone; it is serialized everywhere (JSON, SQL) as YYYY-MM-DD,
// which keeps timezone ambiguity out of the scheduling math.
package dates

import (
	"database/sql/driver"
	"fmt"
	"time"
)

// Layout is the wire format for dates.
const Layout = "2006-01-02"

// Date is a calendar date without a time component.
// The zero Date is the zero time.Time and reports IsZero() == true.
type Date struct {
	t time.Time
}

// New constructs a Date from year, month, and day.
func New(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// Parse parses a YYYY-MM-DD string.
func Parse(s string) (Date, error) {
	t, err := time.Parse(Layout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return Date{t}, nil
}

// FromTime truncates a time.Time to its calendar date.
func FromTime(t time.Time) Date {
	return New(t.Year(), t.Month(), t.Day())
}

// Today returns the current calendar date in the given location.
func Today(loc *time.Location) Date {
	return FromTime(time.Now().In(loc))
}

func (d Date) String() string { return d.t.Format(Layout) }

// IsZero reports whether d is the zero Date.
func (d Date) IsZero() bool { return d.t.IsZero() }

// Year returns the calendar year.
func (d Date) Year() int { return d.t.Year() }

// Month returns the calendar month.
func (d Date) Month() time.Month { return d.t.Month() }

// Day returns the 1-based day of the month.
func (d Date) Day() int { return d.t.Day() }

// Weekday returns the day of the week (Sunday = 0).
func (d Date) Weekday() time.Weekday { return d.t.Weekday() }

// Before reports whether d is before other.
func (d Date) Before(other Date) bool { return d.t.Before(other.t) }

// After reports whether d is strictly after other.
func (d Date) After(other Date) bool { return d.t.After(other.t) }

// Equal reports whether d and other are the same calendar date.
func (d Date) Equal(other Date) bool { return d.t.Equal(other.t) }

// AddDays returns the date n days later (earlier for negative n).
func (d Date) AddDays(n int) Date {
	return Date{d.t.AddDate(0, 0, n)}
}

// AddWeeks returns the date n weeks later.
func (d Date) AddWeeks(n int) Date {
	return d.AddDays(n * 7)
}

// AddMonths returns the date n months later, preserving the day of the
// month. If the day does not exist in the target month the result is
// clamped to that month's last day (Jan 31 +1 = Feb 28/29, never Mar 3).
func (d Date) AddMonths(n int) Date {
	first := time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, n, 0)
	target := New(first.Year(), first.Month(), 1)
	day := d.Day()
	if max := target.DaysInMonth(); day > max {
		day = max
	}
	return New(target.Year(), target.Month(), day)
}

// AddYears returns the date n years later, clamping Feb 29 to Feb 28 in
// non-leap years.
func (d Date) AddYears(n int) Date {
	target := New(d.Year()+n, d.Month(), 1)
	day := d.Day()
	if max := target.DaysInMonth(); day > max {
		day = max
	}
	return New(target.Year(), target.Month(), day)
}

// IsWeekend reports whether d falls on a Saturday or Sunday.
func (d Date) IsWeekend() bool {
	wd := d.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// DaysInMonth returns the number of days in d's month.
func (d Date) DaysInMonth() int {
	// Day zero of the next month is the last day of this month.
	return time.Date(d.Year(), d.Month()+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// LastDayOfMonth returns the last calendar day of d's month.
func (d Date) LastDayOfMonth() Date {
	return New(d.Year(), d.Month(), d.DaysInMonth())
}

// FirstOfMonth returns the first day of d's month.
func (d Date) FirstOfMonth() Date {
	return New(d.Year(), d.Month(), 1)
}

// WithDay returns d with its day of the month replaced, clamped to the
// month's last day.
func (d Date) WithDay(day int) Date {
	if max := d.DaysInMonth(); day > max {
		day = max
	}
	return New(d.Year(), d.Month(), day)
}

// NthWeekdayOfMonth returns the n-th occurrence of weekday in d's month.
// n runs from 1 to 5; n = 5, or any n whose occurrence would overflow the
// month, means the last occurrence of that weekday.
func (d Date) NthWeekdayOfMonth(weekday time.Weekday, n int) Date {
	first := d.FirstOfMonth()
	offset := (int(weekday) - int(first.Weekday()) + 7) % 7
	day := 1 + offset + (n-1)*7
	if last := d.DaysInMonth(); day > last {
		// Step back to the final occurrence within the month.
		for day > last {
			day -= 7
		}
	}
	return New(d.Year(), d.Month(), day)
}

// MarshalJSON encodes d as a YYYY-MM-DD string.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON decodes a YYYY-MM-DD string.
func (d *Date) UnmarshalJSON(data []byte) error {
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return fmt.Errorf("invalid date JSON: %s", data)
	}
	parsed, err := Parse(string(data[1 : len(data)-1]))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Value implements driver.Valuer; dates are stored as YYYY-MM-DD strings.
func (d Date) Value() (driver.Value, error) {
	return d.String(), nil
}

// Scan implements sql.Scanner for string, []byte, and time.Time columns.
func (d *Date) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*d = Date{}
		return nil
	case string:
		parsed, err := Parse(v)
		if err != nil {
			return err
		}
		*d = parsed
		return nil
	case []byte:
		parsed, err := Parse(string(v))
		if err != nil {
			return err
		}
		*d = parsed
		return nil
	case time.Time:
		*d = FromTime(v)
		return nil
	default:
		return fmt.Errorf("cannot scan %T into dates.Date", src)
	}
}

// GormDataType tells GORM to create date columns for Date fields.
func (Date) GormDataType() string {
	return "date"
}
