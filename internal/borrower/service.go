package borrower

import (
	"context"
	"errors"
	"strings"
)

// Common errors
var (
	ErrBorrowerNotFound = errors.New("borrower not found")
	ErrNotOwner         = errors.New("not the owner of this borrower")
	ErrNameRequired     = errors.New("borrower name is required")
)

// Service handles borrower business logic
type Service struct {
	repo *Repository
}

// NewService creates a new borrower service
func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// Create registers a borrower under the given user
func (s *Service) Create(ctx context.Context, ownerID int64, req *CreateBorrowerRequest) (*Borrower, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, ErrNameRequired
	}
	return s.repo.Create(ctx, ownerID, strings.TrimSpace(req.Name), req.Phone)
}

// ListForOwner returns the user's borrowers with loan counts
func (s *Service) ListForOwner(ctx context.Context, ownerID int64) ([]*Borrower, error) {
	return s.repo.ListByOwner(ctx, ownerID)
}

// GetOwned returns a borrower after checking ownership
func (s *Service) GetOwned(ctx context.Context, id, ownerID int64) (*Borrower, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, ErrBorrowerNotFound
	}
	if b.OwnerID != ownerID {
		return nil, ErrNotOwner
	}
	return b, nil
}

// Update edits a borrower after checking ownership
func (s *Service) Update(ctx context.Context, id, ownerID int64, req *UpdateBorrowerRequest) (*Borrower, error) {
	if _, err := s.GetOwned(ctx, id, ownerID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Name) == "" {
		return nil, ErrNameRequired
	}
	return s.repo.Update(ctx, id, strings.TrimSpace(req.Name), req.Phone)
}

// Delete removes a borrower after checking ownership
func (s *Service) Delete(ctx context.Context, id, ownerID int64) error {
	if _, err := s.GetOwned(ctx, id, ownerID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
