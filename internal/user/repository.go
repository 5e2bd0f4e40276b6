package user

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"
)

// Repository handles user data persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new user repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const columns = `id, username, email, password_hash, verified, created_at`

func scan(row interface{ Scan(...interface{}) error }) (*User, error) {
	u := &User{}
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Verified, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return u, nil
}

// Create inserts a new account
func (r *Repository) Create(ctx context.Context, username, email, passwordHash string) (*User, error) {
	query := `
		INSERT INTO users (username, email, password_hash)
		VALUES ($1, $2, $3)
		RETURNING ` + columns

	u, err := scan(r.db.QueryRowContext(ctx, query, username, email, passwordHash))
	if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
		return nil, ErrUserExists
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return u, nil
}

// GetByID retrieves an account by ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*User, error) {
	u, err := scan(r.db.QueryRowContext(ctx,
		`SELECT `+columns+` FROM users WHERE id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}

// GetByUsername retrieves an account by username
func (r *Repository) GetByUsername(ctx context.Context, username string) (*User, error) {
	u, err := scan(r.db.QueryRowContext(ctx,
		`SELECT `+columns+` FROM users WHERE username = $1`, username))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}

// GetByEmail retrieves an account by email
func (r *Repository) GetByEmail(ctx context.Context, email string) (*User, error) {
	u, err := scan(r.db.QueryRowContext(ctx,
		`SELECT `+columns+` FROM users WHERE email = $1`, email))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}

// UpdateProfile edits username and email
func (r *Repository) UpdateProfile(ctx context.Context, id int64, username, email string) (*User, error) {
	query := `
		UPDATE users
		SET username = $2, email = $3
		WHERE id = $1
		RETURNING ` + columns

	u, err := scan(r.db.QueryRowContext(ctx, query, id, username, email))
	if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
		return nil, ErrUserExists
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return u, nil
}

// SetVerified marks the account's email as confirmed
func (r *Repository) SetVerified(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE users SET verified = true WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to mark user verified: %w", err)
	}
	return nil
}

// SetPassword replaces the stored password hash
func (r *Repository) SetPassword(ctx context.Context, id int64, passwordHash string) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE users SET password_hash = $2 WHERE id = $1`, id, passwordHash); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}
