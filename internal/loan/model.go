package loan

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/fkhayef/lendex/internal/accrual"
	"github.com/fkhayef/lendex/internal/period"
)

// Loan is an open-ended agreement: the borrower owes interest on the
// remaining principal every month from the tracking anchor onward. Principal
// is repaid outside the monthly cycle and only changes through explicit edits
// or closure.
type Loan struct {
	ID                  int64           `json:"id"`
	BorrowerID          int64           `json:"borrower_id"`
	Principal           decimal.Decimal `json:"principal"`
	MonthlyInterestRate decimal.Decimal `json:"monthly_interest_rate"`
	IssuedDate          time.Time       `json:"issued_date"`
	TrackingStartDate   *time.Time      `json:"tracking_start_date,omitempty"`
	NextDueDate         time.Time       `json:"next_due_date"`
	// NotificationPostponedUntil suppresses scheduler reminders while in the
	// future. It never affects due dates or payment matching.
	NotificationPostponedUntil *time.Time      `json:"notification_postponed_until,omitempty"`
	RemainingPrincipal         decimal.Decimal `json:"remaining_principal"`
	Repaid                     bool            `json:"repaid"`
	Remarks                    string          `json:"remarks"`
	CreatedAt                  time.Time       `json:"created_at"`

	// Populated by joins for display and reminder rendering.
	BorrowerName string `json:"borrower_name"`
	OwnerID      int64  `json:"-"`
}

// Payment is one recorded payment against a loan, assigned to a calendar
// month. Rows are append-only; several payments may target the same month.
type Payment struct {
	ID     int64           `json:"id"`
	LoanID int64           `json:"loan_id"`
	Amount decimal.Decimal `json:"amount"`
	// MonthDate carries the assignment month (truncated to year+month for
	// matching); PaymentDate is the wall-clock date the payment was entered.
	MonthDate   time.Time `json:"month_date"`
	PaymentDate time.Time `json:"payment_date"`
	Note        string    `json:"note"`
	CreatedAt   time.Time `json:"created_at"`
}

// AnchorDate is the date accrual tracking starts from.
func (l *Loan) AnchorDate() time.Time {
	if l.TrackingStartDate != nil {
		return *l.TrackingStartDate
	}
	return l.IssuedDate
}

// Schedule implements accrual.Obligation: every month from the anchor up to
// the reference date's month.
func (l *Loan) Schedule(ref time.Time) []period.Month {
	return accrual.OpenSchedule(l.AnchorDate(), ref)
}

// RequiredFor implements accrual.Obligation: the flat monthly interest,
// remaining principal times the monthly rate.
func (l *Loan) RequiredFor(period.Month) decimal.Decimal {
	return l.RemainingPrincipal.Mul(l.MonthlyInterestRate).Div(decimal.NewFromInt(100))
}

// PostponedAt reports whether reminder emission is suppressed as of ref.
func (l *Loan) PostponedAt(ref time.Time) bool {
	return l.NotificationPostponedUntil != nil && l.NotificationPostponedUntil.After(ref)
}

// Records converts stored payments to the evaluator's input form.
func Records(payments []*Payment) []accrual.PaymentRecord {
	records := make([]accrual.PaymentRecord, len(payments))
	for i, p := range payments {
		records[i] = accrual.PaymentRecord{
			Amount: p.Amount,
			Period: period.Of(p.MonthDate),
		}
	}
	return records
}
