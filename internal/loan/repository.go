package loan

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Repository handles loan and payment data persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new loan repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const loanColumns = `
	l.id, l.borrower_id, l.principal, l.monthly_interest_rate, l.issued_date,
	l.tracking_start_date, l.next_due_date, l.notification_postponed_until,
	l.remaining_principal, l.repaid, l.remarks, l.created_at,
	b.name, b.owner_id
`

func scanLoan(row interface{ Scan(...interface{}) error }) (*Loan, error) {
	l := &Loan{}
	var trackingStart, postponedUntil sql.NullTime
	err := row.Scan(
		&l.ID, &l.BorrowerID, &l.Principal, &l.MonthlyInterestRate, &l.IssuedDate,
		&trackingStart, &l.NextDueDate, &postponedUntil,
		&l.RemainingPrincipal, &l.Repaid, &l.Remarks, &l.CreatedAt,
		&l.BorrowerName, &l.OwnerID,
	)
	if err != nil {
		return nil, err
	}
	if trackingStart.Valid {
		t := trackingStart.Time
		l.TrackingStartDate = &t
	}
	if postponedUntil.Valid {
		t := postponedUntil.Time
		l.NotificationPostponedUntil = &t
	}
	return l, nil
}

// Create inserts a new loan under a borrower
func (r *Repository) Create(ctx context.Context, l *Loan) (*Loan, error) {
	query := `
		INSERT INTO loans (borrower_id, principal, monthly_interest_rate, issued_date,
		                   tracking_start_date, next_due_date, remaining_principal, repaid, remarks)
		VALUES ($1, $2, $3, $4, $5, $6, $7, false, $8)
		RETURNING id, created_at
	`

	var trackingStart sql.NullTime
	if l.TrackingStartDate != nil {
		trackingStart = sql.NullTime{Time: *l.TrackingStartDate, Valid: true}
	}

	err := r.db.QueryRowContext(ctx, query,
		l.BorrowerID, l.Principal, l.MonthlyInterestRate, l.IssuedDate,
		trackingStart, l.NextDueDate, l.RemainingPrincipal, l.Remarks,
	).Scan(&l.ID, &l.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create loan: %w", err)
	}

	return r.GetByID(ctx, l.ID)
}

// GetByID retrieves a loan with its borrower's name and owner
func (r *Repository) GetByID(ctx context.Context, id int64) (*Loan, error) {
	query := `
		SELECT ` + loanColumns + `
		FROM loans l
		JOIN borrowers b ON b.id = l.borrower_id
		WHERE l.id = $1
	`

	l, err := scanLoan(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get loan: %w", err)
	}
	return l, nil
}

// ListByOwner retrieves all loans belonging to a user's borrowers
func (r *Repository) ListByOwner(ctx context.Context, ownerID int64) ([]*Loan, error) {
	query := `
		SELECT ` + loanColumns + `
		FROM loans l
		JOIN borrowers b ON b.id = l.borrower_id
		WHERE b.owner_id = $1
		ORDER BY l.created_at DESC
	`
	return r.queryLoans(ctx, query, ownerID)
}

// ListActive retrieves every non-repaid loan across all users, for the
// reminder scan
func (r *Repository) ListActive(ctx context.Context) ([]*Loan, error) {
	query := `
		SELECT ` + loanColumns + `
		FROM loans l
		JOIN borrowers b ON b.id = l.borrower_id
		WHERE l.repaid = false
		ORDER BY l.id
	`
	return r.queryLoans(ctx, query)
}

func (r *Repository) queryLoans(ctx context.Context, query string, args ...interface{}) ([]*Loan, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list loans: %w", err)
	}
	defer rows.Close()

	var loans []*Loan
	for rows.Next() {
		l, err := scanLoan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan loan: %w", err)
		}
		loans = append(loans, l)
	}

	return loans, rows.Err()
}

// UpdateTerms edits principal, rate and remarks; remaining principal follows
// the edited principal
func (r *Repository) UpdateTerms(ctx context.Context, id int64, principal, rate decimal.Decimal, remarks string) error {
	query := `
		UPDATE loans
		SET principal = $2, remaining_principal = $2, monthly_interest_rate = $3, remarks = $4
		WHERE id = $1
	`
	if _, err := r.db.ExecContext(ctx, query, id, principal, rate, remarks); err != nil {
		return fmt.Errorf("failed to update loan: %w", err)
	}
	return nil
}

// SetNextDueDate moves the due date
func (r *Repository) SetNextDueDate(ctx context.Context, id int64, dueDate time.Time) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE loans SET next_due_date = $2 WHERE id = $1`, id, dueDate); err != nil {
		return fmt.Errorf("failed to set due date: %w", err)
	}
	return nil
}

// SetPostponedUntil sets the reminder suppression date
func (r *Repository) SetPostponedUntil(ctx context.Context, id int64, until time.Time) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE loans SET notification_postponed_until = $2 WHERE id = $1`, id, until); err != nil {
		return fmt.Errorf("failed to postpone notifications: %w", err)
	}
	return nil
}

// Close marks the loan repaid and zeroes the remaining principal
func (r *Repository) Close(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE loans SET repaid = true, remaining_principal = 0 WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to close loan: %w", err)
	}
	return nil
}

// CreatePayment appends a payment row; existing rows are never modified
func (r *Repository) CreatePayment(ctx context.Context, p *Payment) (*Payment, error) {
	query := `
		INSERT INTO payments (loan_id, amount, month_date, payment_date, note)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err := r.db.QueryRowContext(ctx, query,
		p.LoanID, p.Amount, p.MonthDate, p.PaymentDate, p.Note,
	).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create payment: %w", err)
	}

	return p, nil
}

// PaymentsForLoan retrieves a loan's payments, newest assignment month first
func (r *Repository) PaymentsForLoan(ctx context.Context, loanID int64) ([]*Payment, error) {
	query := `
		SELECT id, loan_id, amount, month_date, payment_date, note, created_at
		FROM payments
		WHERE loan_id = $1
		ORDER BY month_date DESC, id DESC
	`

	rows, err := r.db.QueryContext(ctx, query, loanID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	defer rows.Close()

	var payments []*Payment
	for rows.Next() {
		p := &Payment{}
		if err := rows.Scan(&p.ID, &p.LoanID, &p.Amount, &p.MonthDate, &p.PaymentDate, &p.Note, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		payments = append(payments, p)
	}

	return payments, rows.Err()
}
