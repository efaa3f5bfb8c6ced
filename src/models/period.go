package models

import (
	"fmt"
	"time"
)

// MaxPeriodWalk bounds every month-by-month walk so malformed period data cannot loop forever
const MaxPeriodWalk = 240

// CalendarPeriod identifies a single calendar month
// It is comparable and can be used directly as a map key
type CalendarPeriod struct {
	Month int `json:"month" validate:"min=1,max=12"`
	Year  int `json:"year" validate:"min=1"`
}

// NewCalendarPeriod creates a period from a month (1..12) and year
func NewCalendarPeriod(month, year int) CalendarPeriod {
	return CalendarPeriod{Month: month, Year: year}
}

// PeriodOf returns the calendar period containing t
func PeriodOf(t time.Time) CalendarPeriod {
	return CalendarPeriod{Month: int(t.Month()), Year: t.Year()}
}

// Valid reports whether the month is in range and the year is set
func (p CalendarPeriod) Valid() bool {
	return p.Month >= 1 && p.Month <= 12 && p.Year > 0
}

// IsZero reports whether the period was never set
func (p CalendarPeriod) IsZero() bool {
	return p.Month == 0 && p.Year == 0
}

// Compare orders periods chronologically: year first, then month
func (p CalendarPeriod) Compare(other CalendarPeriod) int {
	switch {
	case p.Year < other.Year:
		return -1
	case p.Year > other.Year:
		return 1
	case p.Month < other.Month:
		return -1
	case p.Month > other.Month:
		return 1
	}
	return 0
}

// Before reports whether p is earlier than other
func (p CalendarPeriod) Before(other CalendarPeriod) bool {
	return p.Compare(other) < 0
}

// After reports whether p is later than other
func (p CalendarPeriod) After(other CalendarPeriod) bool {
	return p.Compare(other) > 0
}

// Next returns the following month, wrapping December into January of the next year
func (p CalendarPeriod) Next() CalendarPeriod {
	if p.Month >= 12 {
		return CalendarPeriod{Month: 1, Year: p.Year + 1}
	}
	return CalendarPeriod{Month: p.Month + 1, Year: p.Year}
}

// AddMonths moves the period forward (or backward for negative n) by n months
func (p CalendarPeriod) AddMonths(n int) CalendarPeriod {
	index := p.Year*12 + (p.Month - 1) + n
	return CalendarPeriod{Month: index%12 + 1, Year: index / 12}
}

// FirstDay returns midnight UTC on the first day of the period
func (p CalendarPeriod) FirstDay() time.Time {
	return time.Date(p.Year, time.Month(p.Month), 1, 0, 0, 0, 0, time.UTC)
}

// String renders the period as YYYY-MM
func (p CalendarPeriod) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, p.Month)
}

// ParseCalendarPeriod parses a YYYY-MM string
func ParseCalendarPeriod(s string) (CalendarPeriod, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return CalendarPeriod{}, fmt.Errorf("invalid period %q: %w", s, err)
	}
	return PeriodOf(t), nil
}

// MaxPeriod returns the later of two periods
func MaxPeriod(a, b CalendarPeriod) CalendarPeriod {
	if a.After(b) {
		return a
	}
	return b
}

// MinPeriod returns the earlier of two periods
func MinPeriod(a, b CalendarPeriod) CalendarPeriod {
	if a.Before(b) {
		return a
	}
	return b
}

// MonthsInRange lists every period from start to end inclusive
// The walk stops after limit months; an empty slice is returned when start is after end
func MonthsInRange(start, end CalendarPeriod, limit int) []CalendarPeriod {
	if !start.Valid() || !end.Valid() || start.After(end) {
		return nil
	}

	var months []CalendarPeriod
	for cur := start; !cur.After(end) && len(months) < limit; cur = cur.Next() {
		months = append(months, cur)
	}
	return months
}
