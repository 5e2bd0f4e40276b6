package accrual

import (
	"github.com/shopspring/decimal"

	"github.com/fkhayef/lendex/internal/period"
)

// PaidIn sums the payments assigned to the given month. Matching is by
// assignment month only; payments accumulate, so several partial payments in
// the same month count together. Returns zero when nothing matches.
func PaidIn(p period.Month, payments []PaymentRecord) decimal.Decimal {
	total := decimal.Zero
	for _, rec := range payments {
		if rec.Period == p {
			total = total.Add(rec.Amount)
		}
	}
	return total
}
