package accrual

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/fkhayef/lendex/internal/period"
)

// Obligation is the capability shared by the two agreement kinds. A loan
// produces an open-ended schedule with a computed interest amount per month; an
// installment plan produces a fixed-tenure schedule with a flat amount.
// The evaluator is written against this interface only.
type Obligation interface {
	// Schedule returns the ordered months the agreement is responsible for,
	// as of the reference date. Pure function of its inputs.
	Schedule(ref time.Time) []period.Month

	// RequiredFor returns the amount owed for one month of the schedule.
	RequiredFor(p period.Month) decimal.Decimal
}

// PaymentRecord is the matcher's view of a recorded payment: the amount and
// the calendar month it was assigned to. The wall-clock date the payment was
// actually entered never participates in matching.
type PaymentRecord struct {
	Amount decimal.Decimal
	Period period.Month
}
