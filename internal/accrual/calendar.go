package accrual

import (
	"time"

	"github.com/fkhayef/lendex/internal/period"
)

// OpenSchedule lists the months a loan is responsible for: every month from
// the anchor's month up to, but not including, the reference date's month.
// A reference date inside the anchor month yields an empty schedule.
func OpenSchedule(anchor, ref time.Time) []period.Month {
	var months []period.Month
	refMonth := period.Of(ref)
	for m := period.Of(anchor); m.Before(refMonth); m = m.Next() {
		months = append(months, m)
	}
	return months
}

// FixedSchedule lists the months of a fixed-tenure plan: exactly tenure
// entries from the start month, except that months beginning after the
// reference date are not produced (nothing can be owed for a month that has
// not started). A non-positive tenure yields an empty schedule.
func FixedSchedule(start time.Time, tenure int, ref time.Time) []period.Month {
	var months []period.Month
	m := period.Of(start)
	for i := 0; i < tenure; i++ {
		if m.Start().After(ref) {
			break
		}
		months = append(months, m)
		m = m.Next()
	}
	return months
}
