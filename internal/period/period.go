package period

import (
	"fmt"
	"time"
)

// Month identifies one calendar month (year + month), the unit every
// obligation and payment is keyed to.
type Month struct {
	Year int
	Mon  time.Month
}

// Of truncates a date to its calendar month.
func Of(t time.Time) Month {
	return Month{Year: t.Year(), Mon: t.Month()}
}

// Start returns the first day of the month at midnight UTC.
func (m Month) Start() time.Time {
	return time.Date(m.Year, m.Mon, 1, 0, 0, 0, 0, time.UTC)
}

// Next returns the following calendar month.
func (m Month) Next() Month {
	return m.Add(1)
}

// Add returns the month n calendar months later (n may be negative).
func (m Month) Add(n int) Month {
	return Of(m.Start().AddDate(0, n, 0))
}

// Before reports whether m is strictly earlier than o.
func (m Month) Before(o Month) bool {
	if m.Year != o.Year {
		return m.Year < o.Year
	}
	return m.Mon < o.Mon
}

// After reports whether m is strictly later than o.
func (m Month) After(o Month) bool {
	return o.Before(m)
}

// Contains reports whether t falls inside this calendar month.
func (m Month) Contains(t time.Time) bool {
	return t.Year() == m.Year && t.Month() == m.Mon
}

// Key renders the month as "YYYY-MM", the form used for dedup keys and
// payment month assignment.
func (m Month) Key() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Mon))
}

// Label renders a human-readable form for reminder messages, e.g. "March 2024".
func (m Month) Label() string {
	return fmt.Sprintf("%s %d", m.Mon.String(), m.Year)
}
