package notification

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Repository handles notification data persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new notification repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const columns = `id, loan_id, emi_id, user_id, borrower_name, due_date,
	sent_date, days_past_due, message, sent, created_at`

func scan(row interface{ Scan(...interface{}) error }) (*Notification, error) {
	n := &Notification{}
	err := row.Scan(
		&n.ID, &n.LoanID, &n.EMIID, &n.UserID, &n.BorrowerName, &n.DueDate,
		&n.SentDate, &n.DaysPastDue, &n.Message, &n.Sent, &n.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return n, nil
}

// CreateForLoanIfAbsent inserts a reminder for a loan's first overdue month.
// The partial unique index on (loan_id, due_date) makes the insert a no-op
// when a reminder for that month already exists; the method then returns
// (nil, nil). This is the dedup gate and it is atomic.
func (r *Repository) CreateForLoanIfAbsent(ctx context.Context, n *Notification) (*Notification, error) {
	query := `
		INSERT INTO notifications (loan_id, user_id, borrower_name, due_date, sent_date, days_past_due, message, sent)
		VALUES ($1, $2, $3, $4, $5, $6, $7, false)
		ON CONFLICT (loan_id, due_date) WHERE loan_id IS NOT NULL DO NOTHING
		RETURNING ` + columns

	created, err := scan(r.db.QueryRowContext(ctx, query,
		n.LoanID, n.UserID, n.BorrowerName, n.DueDate, n.SentDate, n.DaysPastDue, n.Message,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create loan notification: %w", err)
	}

	return created, nil
}

// CreateForEMIIfAbsent is the installment plan counterpart of
// CreateForLoanIfAbsent, keyed on (emi_id, due_date).
func (r *Repository) CreateForEMIIfAbsent(ctx context.Context, n *Notification) (*Notification, error) {
	query := `
		INSERT INTO notifications (emi_id, user_id, borrower_name, due_date, sent_date, days_past_due, message, sent)
		VALUES ($1, $2, $3, $4, $5, $6, $7, false)
		ON CONFLICT (emi_id, due_date) WHERE emi_id IS NOT NULL DO NOTHING
		RETURNING ` + columns

	created, err := scan(r.db.QueryRowContext(ctx, query,
		n.EMIID, n.UserID, n.BorrowerName, n.DueDate, n.SentDate, n.DaysPastDue, n.Message,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create emi notification: %w", err)
	}

	return created, nil
}

// ListForUser retrieves the user's notifications, newest first
func (r *Repository) ListForUser(ctx context.Context, userID int64) ([]*Notification, error) {
	query := `
		SELECT ` + columns + `
		FROM notifications
		WHERE user_id = $1
		ORDER BY sent_date DESC, id DESC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer rows.Close()

	var notifications []*Notification
	for rows.Next() {
		n, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		notifications = append(notifications, n)
	}

	return notifications, rows.Err()
}

// MarkSent records successful email delivery
func (r *Repository) MarkSent(ctx context.Context, id int64, at time.Time) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE notifications SET sent = true, sent_date = $2 WHERE id = $1`, id, at,
	); err != nil {
		return fmt.Errorf("failed to mark notification sent: %w", err)
	}
	return nil
}
