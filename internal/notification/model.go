package notification

import "time"

// Notification is one overdue reminder produced by the daily cycle. Exactly
// one of LoanID and EMIID is set. At most one notification exists per
// agreement and first overdue month; DueDate carries that month's first day
// and anchors the dedup.
type Notification struct {
	ID           int64     `json:"id"`
	LoanID       *int64    `json:"loan_id,omitempty"`
	EMIID        *int64    `json:"emi_id,omitempty"`
	UserID       int64     `json:"user_id"`
	BorrowerName string    `json:"borrower_name"`
	DueDate      time.Time `json:"due_date"`
	SentDate     time.Time `json:"sent_date"`
	DaysPastDue  int       `json:"days_past_due"`
	Message      string    `json:"message"`
	Sent         bool      `json:"sent"`
	CreatedAt    time.Time `json:"created_at"`
}
