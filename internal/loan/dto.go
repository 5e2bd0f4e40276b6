package loan

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/fkhayef/lendex/internal/accrual"
)

// CreateLoanRequest represents the request to issue a loan to a borrower
type CreateLoanRequest struct {
	Principal           decimal.Decimal `json:"principal" validate:"required"`
	MonthlyInterestRate decimal.Decimal `json:"monthly_interest_rate" validate:"required"`
	IssuedDate          string          `json:"issued_date" validate:"required"`        // YYYY-MM-DD
	TrackingStartDate   string          `json:"tracking_start_date,omitempty"`          // YYYY-MM-DD, defaults to issued date
	Remarks             string          `json:"remarks,omitempty"`
}

// UpdateLoanRequest represents the request to edit a loan's terms
type UpdateLoanRequest struct {
	Principal           decimal.Decimal `json:"principal" validate:"required"`
	MonthlyInterestRate decimal.Decimal `json:"monthly_interest_rate" validate:"required"`
	Remarks             string          `json:"remarks"`
}

// RecordPaymentRequest represents the request to record a payment against an
// interest month
type RecordPaymentRequest struct {
	Amount decimal.Decimal `json:"amount" validate:"required"`
	// Month is the assignment month, YYYY-MM-DD (day ignored) or YYYY-MM.
	Month string `json:"month" validate:"required"`
	// PaymentDate is the wall-clock date of the payment; defaults to today.
	PaymentDate string `json:"payment_date,omitempty"`
	Note        string `json:"note,omitempty"`
}

// PostponeDueDateRequest moves the loan's next due date
type PostponeDueDateRequest struct {
	NewDueDate string `json:"new_due_date" validate:"required"` // YYYY-MM-DD
}

// PostponeNotificationsRequest suppresses reminders for N days from today
type PostponeNotificationsRequest struct {
	Days int `json:"days" validate:"required"`
}

// StatusResponse is the live overdue classification of one loan
type StatusResponse struct {
	Loan         *Loan           `json:"loan"`
	OverdueCount int             `json:"overdue_count"`
	FirstOverdue string          `json:"first_overdue,omitempty"` // YYYY-MM
	Shortfall    decimal.Decimal `json:"shortfall"`
}

func statusResponse(l *Loan, res accrual.Result) *StatusResponse {
	sr := &StatusResponse{
		Loan:         l,
		OverdueCount: res.OverdueCount,
		Shortfall:    res.Shortfall,
	}
	if res.FirstOverdue != nil {
		sr.FirstOverdue = res.FirstOverdue.Key()
	}
	return sr
}

func parseDate(s string) (time.Time, error) {
	if len(s) == 7 {
		return time.Parse("2006-01", s)
	}
	return time.Parse("2006-01-02", s)
}
