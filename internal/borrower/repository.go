package borrower

import (
	"context"
	"database/sql"
	"fmt"
)

// Repository handles borrower data persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new borrower repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new borrower
func (r *Repository) Create(ctx context.Context, ownerID int64, name, phone string) (*Borrower, error) {
	query := `
		INSERT INTO borrowers (owner_id, name, phone)
		VALUES ($1, $2, $3)
		RETURNING id, owner_id, name, phone, created_at
	`

	b := &Borrower{}
	err := r.db.QueryRowContext(ctx, query, ownerID, name, phone).Scan(
		&b.ID, &b.OwnerID, &b.Name, &b.Phone, &b.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create borrower: %w", err)
	}

	return b, nil
}

// GetByID retrieves a borrower by its ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*Borrower, error) {
	query := `
		SELECT id, owner_id, name, phone, created_at
		FROM borrowers
		WHERE id = $1
	`

	b := &Borrower{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&b.ID, &b.OwnerID, &b.Name, &b.Phone, &b.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get borrower: %w", err)
	}

	return b, nil
}

// ListByOwner retrieves all borrowers of a user with their loan counts
func (r *Repository) ListByOwner(ctx context.Context, ownerID int64) ([]*Borrower, error) {
	query := `
		SELECT b.id, b.owner_id, b.name, b.phone, b.created_at,
		       COUNT(l.id) AS loan_count
		FROM borrowers b
		LEFT JOIN loans l ON l.borrower_id = b.id
		WHERE b.owner_id = $1
		GROUP BY b.id
		ORDER BY b.name
	`

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list borrowers: %w", err)
	}
	defer rows.Close()

	var borrowers []*Borrower
	for rows.Next() {
		b := &Borrower{}
		if err := rows.Scan(&b.ID, &b.OwnerID, &b.Name, &b.Phone, &b.CreatedAt, &b.LoanCount); err != nil {
			return nil, fmt.Errorf("failed to scan borrower: %w", err)
		}
		borrowers = append(borrowers, b)
	}

	return borrowers, rows.Err()
}

// Update edits a borrower's name and phone
func (r *Repository) Update(ctx context.Context, id int64, name, phone string) (*Borrower, error) {
	query := `
		UPDATE borrowers
		SET name = $2, phone = $3
		WHERE id = $1
		RETURNING id, owner_id, name, phone, created_at
	`

	b := &Borrower{}
	err := r.db.QueryRowContext(ctx, query, id, name, phone).Scan(
		&b.ID, &b.OwnerID, &b.Name, &b.Phone, &b.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update borrower: %w", err)
	}

	return b, nil
}

// Delete removes a borrower and, through cascading, its loans and payments
func (r *Repository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM borrowers WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete borrower: %w", err)
	}
	return nil
}
