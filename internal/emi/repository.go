package emi

import (
	"context"
	"database/sql"
	"fmt"
)

// Repository handles installment plan data persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new EMI repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const emiColumns = `
	id, user_id, borrower_name, total_amount, given_in_cash, given_date,
	tenure, emi_amount, start_date, completed, remarks, created_at
`

func scanEMI(row interface{ Scan(...interface{}) error }) (*EMI, error) {
	e := &EMI{}
	err := row.Scan(
		&e.ID, &e.UserID, &e.BorrowerName, &e.TotalAmount, &e.GivenInCash, &e.GivenDate,
		&e.Tenure, &e.EMIAmount, &e.StartDate, &e.Completed, &e.Remarks, &e.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return e, nil
}

// Create inserts a new installment plan
func (r *Repository) Create(ctx context.Context, e *EMI) (*EMI, error) {
	query := `
		INSERT INTO emis (user_id, borrower_name, total_amount, given_in_cash, given_date,
		                  tenure, emi_amount, start_date, completed, remarks)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, false, $9)
		RETURNING ` + emiColumns + `
	`

	created, err := scanEMI(r.db.QueryRowContext(ctx, query,
		e.UserID, e.BorrowerName, e.TotalAmount, e.GivenInCash, e.GivenDate,
		e.Tenure, e.EMIAmount, e.StartDate, e.Remarks,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create emi: %w", err)
	}

	return created, nil
}

// GetByID retrieves a plan by its ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*EMI, error) {
	query := `SELECT ` + emiColumns + ` FROM emis WHERE id = $1`

	e, err := scanEMI(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get emi: %w", err)
	}
	return e, nil
}

// ListByUser retrieves all plans of a user
func (r *Repository) ListByUser(ctx context.Context, userID int64) ([]*EMI, error) {
	query := `SELECT ` + emiColumns + ` FROM emis WHERE user_id = $1 ORDER BY created_at DESC`
	return r.queryEMIs(ctx, query, userID)
}

// ListActive retrieves every non-completed plan across all users, for the
// reminder scan
func (r *Repository) ListActive(ctx context.Context) ([]*EMI, error) {
	query := `SELECT ` + emiColumns + ` FROM emis WHERE completed = false ORDER BY id`
	return r.queryEMIs(ctx, query)
}

func (r *Repository) queryEMIs(ctx context.Context, query string, args ...interface{}) ([]*EMI, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list emis: %w", err)
	}
	defer rows.Close()

	var emis []*EMI
	for rows.Next() {
		e, err := scanEMI(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan emi: %w", err)
		}
		emis = append(emis, e)
	}

	return emis, rows.Err()
}

// Update edits a plan's terms
func (r *Repository) Update(ctx context.Context, e *EMI) (*EMI, error) {
	query := `
		UPDATE emis
		SET borrower_name = $2, total_amount = $3, given_in_cash = $4, given_date = $5,
		    tenure = $6, emi_amount = $7, start_date = $8, remarks = $9
		WHERE id = $1
		RETURNING ` + emiColumns + `
	`

	updated, err := scanEMI(r.db.QueryRowContext(ctx, query,
		e.ID, e.BorrowerName, e.TotalAmount, e.GivenInCash, e.GivenDate,
		e.Tenure, e.EMIAmount, e.StartDate, e.Remarks,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to update emi: %w", err)
	}

	return updated, nil
}

// SetCompleted marks a plan completed
func (r *Repository) SetCompleted(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE emis SET completed = true WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to complete emi: %w", err)
	}
	return nil
}

// Delete removes a plan and its payments
func (r *Repository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM emis WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete emi: %w", err)
	}
	return nil
}

// CreatePayment appends an installment payment row
func (r *Repository) CreatePayment(ctx context.Context, p *Payment) (*Payment, error) {
	query := `
		INSERT INTO emi_payments (emi_id, amount, month_date, payment_date, note, remarks)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	err := r.db.QueryRowContext(ctx, query,
		p.EMIID, p.Amount, p.MonthDate, p.PaymentDate, p.Note, p.Remarks,
	).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create emi payment: %w", err)
	}

	return p, nil
}

// PaymentsForEMI retrieves a plan's payments, newest assignment month first
func (r *Repository) PaymentsForEMI(ctx context.Context, emiID int64) ([]*Payment, error) {
	query := `
		SELECT id, emi_id, amount, month_date, payment_date, note, remarks, created_at
		FROM emi_payments
		WHERE emi_id = $1
		ORDER BY month_date DESC, id DESC
	`

	rows, err := r.db.QueryContext(ctx, query, emiID)
	if err != nil {
		return nil, fmt.Errorf("failed to list emi payments: %w", err)
	}
	defer rows.Close()

	var payments []*Payment
	for rows.Next() {
		p := &Payment{}
		if err := rows.Scan(&p.ID, &p.EMIID, &p.Amount, &p.MonthDate, &p.PaymentDate, &p.Note, &p.Remarks, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan emi payment: %w", err)
		}
		payments = append(payments, p)
	}

	return payments, rows.Err()
}
