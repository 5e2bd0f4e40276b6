package accrual

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/fkhayef/lendex/internal/period"
)

// tolerance absorbs rounding noise when comparing paid against required.
var tolerance = decimal.NewFromFloat(0.01)

// Result is the evaluator's classification of one agreement.
type Result struct {
	// OverdueCount is the number of flagged months across the whole schedule.
	OverdueCount int
	// FirstOverdue is the earliest flagged month; nil when the agreement is
	// current.
	FirstOverdue *period.Month
	// Shortfall is the sum of (required - paid) over the flagged months.
	Shortfall decimal.Decimal
}

// Overdue reports whether any month was flagged.
func (r Result) Overdue() bool {
	return r.OverdueCount > 0
}

// Evaluate classifies an agreement as current or overdue as of ref.
//
// A month is short when the payments assigned to it fall more than the
// tolerance below the required amount. A short month is flagged only once the
// first day of its following month lies strictly before ref: a freshly elapsed
// month keeps a grace window of roughly one month, while anything older is
// always flagged. Months with zero required amount can never be short, so a
// closed-out loan or a zero-rate loan is always current.
//
// Evaluate is pure and never fails; degenerate inputs (empty schedule, zero
// tenure, no payments) classify as current.
func Evaluate(ob Obligation, payments []PaymentRecord, ref time.Time) Result {
	res := Result{Shortfall: decimal.Zero}

	for _, m := range ob.Schedule(ref) {
		required := ob.RequiredFor(m)
		paid := PaidIn(m, payments)
		if paid.GreaterThanOrEqual(required.Sub(tolerance)) {
			continue
		}
		if !m.Next().Start().Before(ref) {
			// grace: the following month has not begun yet
			continue
		}
		if res.FirstOverdue == nil {
			first := m
			res.FirstOverdue = &first
		}
		res.OverdueCount++
		res.Shortfall = res.Shortfall.Add(required.Sub(paid))
	}

	return res
}
