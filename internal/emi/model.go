package emi

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/fkhayef/lendex/internal/accrual"
	"github.com/fkhayef/lendex/internal/period"
)

// EMI is a fixed-tenure installment plan: the borrower owes the same
// installment amount for each of tenure months from the start date. The
// borrower is recorded by name only; the plan belongs directly to a user.
type EMI struct {
	ID           int64           `json:"id"`
	UserID       int64           `json:"user_id"`
	BorrowerName string          `json:"borrower_name"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
	GivenInCash  decimal.Decimal `json:"given_in_cash"`
	GivenDate    time.Time       `json:"given_date"`
	Tenure       int             `json:"tenure"`
	EMIAmount    decimal.Decimal `json:"emi_amount"`
	StartDate    time.Time       `json:"start_date"`
	Completed    bool            `json:"completed"`
	Remarks      string          `json:"remarks"`
	CreatedAt    time.Time       `json:"created_at"`
}

// Payment is one recorded installment payment, assigned to a calendar month.
// Append-only, like loan payments.
type Payment struct {
	ID          int64           `json:"id"`
	EMIID       int64           `json:"emi_id"`
	Amount      decimal.Decimal `json:"amount"`
	MonthDate   time.Time       `json:"month_date"`
	PaymentDate time.Time       `json:"payment_date"`
	Note        string          `json:"note"`
	Remarks     string          `json:"remarks"`
	CreatedAt   time.Time       `json:"created_at"`
}

// Schedule implements accrual.Obligation: tenure months from the start date,
// bounded by the reference date.
func (e *EMI) Schedule(ref time.Time) []period.Month {
	return accrual.FixedSchedule(e.StartDate, e.Tenure, ref)
}

// RequiredFor implements accrual.Obligation: the fixed installment.
func (e *EMI) RequiredFor(period.Month) decimal.Decimal {
	return e.EMIAmount
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

// completedBy reports whether every one of the plan's tenure months has
// accumulated payments covering the installment. This is the completion
// invariant: partial payments in a month count together.
func completedBy(e *EMI, payments []*Payment) bool {
	if e.Tenure <= 0 {
		return false
	}
	records := Records(payments)
	m := period.Of(e.StartDate)
	for i := 0; i < e.Tenure; i++ {
		if accrual.PaidIn(m, records).LessThan(e.EMIAmount) {
			return false
		}
		m = m.Next()
	}
	return true
}

var _ accrual.Obligation = (*EMI)(nil)
