package emi

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/fkhayef/lendex/internal/accrual"
)

// CreateEMIRequest represents the request to set up an installment plan
type CreateEMIRequest struct {
	BorrowerName string          `json:"borrower_name" validate:"required"`
	TotalAmount  decimal.Decimal `json:"total_amount" validate:"required"`
	GivenInCash  decimal.Decimal `json:"given_in_cash"`
	GivenDate    string          `json:"given_date" validate:"required"` // YYYY-MM-DD
	Tenure       int             `json:"tenure" validate:"required"`
	EMIAmount    decimal.Decimal `json:"emi_amount" validate:"required"`
	StartDate    string          `json:"start_date" validate:"required"` // YYYY-MM-DD
	Remarks      string          `json:"remarks,omitempty"`
}

// UpdateEMIRequest mirrors CreateEMIRequest for edits
type UpdateEMIRequest = CreateEMIRequest

// RecordPaymentRequest represents the request to record an installment payment
type RecordPaymentRequest struct {
	Amount decimal.Decimal `json:"amount" validate:"required"`
	// Month is the assignment month, YYYY-MM-DD (day ignored) or YYYY-MM.
	Month       string `json:"month" validate:"required"`
	PaymentDate string `json:"payment_date,omitempty"`
	Note        string `json:"note,omitempty"`
	Remarks     string `json:"remarks,omitempty"`
}

// StatusResponse is the live overdue classification of one plan
type StatusResponse struct {
	EMI          *EMI            `json:"emi"`
	OverdueCount int             `json:"overdue_count"`
	FirstOverdue string          `json:"first_overdue,omitempty"` // YYYY-MM
	Shortfall    decimal.Decimal `json:"shortfall"`
}

func statusResponse(e *EMI, res accrual.Result) *StatusResponse {
	sr := &StatusResponse{
		EMI:          e,
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
