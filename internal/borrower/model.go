package borrower

import "time"

// Borrower is a person the lender extends loans to. Owned by exactly one user;
// all access is owner-scoped.
type Borrower struct {
	ID        int64     `json:"id"`
	OwnerID   int64     `json:"owner_id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"created_at"`

	// LoanCount is populated by list queries for the dashboard view.
	LoanCount int `json:"loan_count"`
}
