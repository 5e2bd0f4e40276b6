package loan

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/fkhayef/lendex/internal/accrual"
	"github.com/fkhayef/lendex/internal/borrower"
	"github.com/fkhayef/lendex/internal/period"
)

// Common errors
var (
	ErrLoanNotFound     = errors.New("loan not found")
	ErrNotOwner         = errors.New("not the owner of this loan")
	ErrLoanClosed       = errors.New("loan is already closed")
	ErrInvalidAmount    = errors.New("payment amount must be positive")
	ErrInvalidPeriod    = errors.New("assignment month outside the loan's tracking window")
	ErrInvalidDate      = errors.New("invalid date")
	ErrInvalidPostpone  = errors.New("postponement days must be positive")
	ErrInvalidPrincipal = errors.New("principal must be positive")
)

// Service handles loan business logic
type Service struct {
	repo      *Repository
	borrowers *borrower.Service
	logger    *logrus.Logger
	now       func() time.Time
}

// NewService creates a new loan service
func NewService(repo *Repository, borrowers *borrower.Service, logger *logrus.Logger) *Service {
	return &Service{
		repo:      repo,
		borrowers: borrowers,
		logger:    logger,
		now:       time.Now,
	}
}

// Create issues a loan under one of the user's borrowers. The next due date
// starts one month after the tracking anchor.
func (s *Service) Create(ctx context.Context, borrowerID, ownerID int64, req *CreateLoanRequest) (*Loan, error) {
	if _, err := s.borrowers.GetOwned(ctx, borrowerID, ownerID); err != nil {
		return nil, err
	}
	if !req.Principal.IsPositive() {
		return nil, ErrInvalidPrincipal
	}

	issued, err := parseDate(req.IssuedDate)
	if err != nil {
		return nil, ErrInvalidDate
	}

	l := &Loan{
		BorrowerID:          borrowerID,
		Principal:           req.Principal,
		MonthlyInterestRate: req.MonthlyInterestRate,
		IssuedDate:          issued,
		RemainingPrincipal:  req.Principal,
		Remarks:             req.Remarks,
	}

	anchor := issued
	if req.TrackingStartDate != "" {
		start, err := parseDate(req.TrackingStartDate)
		if err != nil {
			return nil, ErrInvalidDate
		}
		l.TrackingStartDate = &start
		anchor = start
	}
	l.NextDueDate = anchor.AddDate(0, 1, 0)

	created, err := s.repo.Create(ctx, l)
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"loan_id":     created.ID,
		"borrower_id": borrowerID,
		"principal":   created.Principal,
	}).Info("Loan created")

	return created, nil
}

// ListForUser returns all loans of the user's borrowers
func (s *Service) ListForUser(ctx context.Context, ownerID int64) ([]*Loan, error) {
	return s.repo.ListByOwner(ctx, ownerID)
}

// GetOwned returns a loan after checking ownership
func (s *Service) GetOwned(ctx context.Context, id, ownerID int64) (*Loan, error) {
	l, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if l == nil {
		return nil, ErrLoanNotFound
	}
	if l.OwnerID != ownerID {
		return nil, ErrNotOwner
	}
	return l, nil
}

// Update edits a loan's terms. Remaining principal follows the edited
// principal: ordinary payments never touch it.
func (s *Service) Update(ctx context.Context, id, ownerID int64, req *UpdateLoanRequest) (*Loan, error) {
	if _, err := s.GetOwned(ctx, id, ownerID); err != nil {
		return nil, err
	}
	if !req.Principal.IsPositive() {
		return nil, ErrInvalidPrincipal
	}
	if err := s.repo.UpdateTerms(ctx, id, req.Principal, req.MonthlyInterestRate, req.Remarks); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

// RecordPayment appends a payment assigned to an interest month. The
// assignment month must fall inside the loan's tracking window; the payment
// does not reduce the principal.
func (s *Service) RecordPayment(ctx context.Context, loanID, ownerID int64, req *RecordPaymentRequest) (*Payment, error) {
	l, err := s.GetOwned(ctx, loanID, ownerID)
	if err != nil {
		return nil, err
	}
	if !req.Amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	monthDate, err := parseDate(req.Month)
	if err != nil {
		return nil, ErrInvalidDate
	}

	today := s.now()
	if err := checkAssignmentMonth(period.Of(monthDate), period.Of(l.AnchorDate()), period.Of(today)); err != nil {
		return nil, err
	}

	paymentDate := today
	if req.PaymentDate != "" {
		if paymentDate, err = parseDate(req.PaymentDate); err != nil {
			return nil, ErrInvalidDate
		}
	}

	p := &Payment{
		LoanID:      loanID,
		Amount:      req.Amount,
		MonthDate:   monthDate,
		PaymentDate: paymentDate,
		Note:        req.Note,
	}

	created, err := s.repo.CreatePayment(ctx, p)
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"loan_id": loanID,
		"month":   period.Of(monthDate).Key(),
		"amount":  req.Amount,
	}).Info("Loan payment recorded")

	return created, nil
}

// checkAssignmentMonth enforces the payment window: on or after the tracking
// anchor's month, no later than the current month.
func checkAssignmentMonth(assigned, anchor, current period.Month) error {
	if assigned.Before(anchor) || assigned.After(current) {
		return ErrInvalidPeriod
	}
	return nil
}

// Payments returns a loan's payment history, newest month first
func (s *Service) Payments(ctx context.Context, loanID, ownerID int64) ([]*Payment, error) {
	if _, err := s.GetOwned(ctx, loanID, ownerID); err != nil {
		return nil, err
	}
	return s.repo.PaymentsForLoan(ctx, loanID)
}

// PostponeDueDate moves the next due date without touching accrual
func (s *Service) PostponeDueDate(ctx context.Context, loanID, ownerID int64, req *PostponeDueDateRequest) (*Loan, error) {
	if _, err := s.GetOwned(ctx, loanID, ownerID); err != nil {
		return nil, err
	}
	newDate, err := parseDate(req.NewDueDate)
	if err != nil {
		return nil, ErrInvalidDate
	}
	if err := s.repo.SetNextDueDate(ctx, loanID, newDate); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, loanID)
}

// PostponeNotifications suppresses scheduler reminders for the next N days.
// Live overdue views are unaffected.
func (s *Service) PostponeNotifications(ctx context.Context, loanID, ownerID int64, days int) error {
	if _, err := s.GetOwned(ctx, loanID, ownerID); err != nil {
		return err
	}
	if days <= 0 {
		return ErrInvalidPostpone
	}
	until := s.now().AddDate(0, 0, days)
	if err := s.repo.SetPostponedUntil(ctx, loanID, until); err != nil {
		return err
	}

	s.logger.WithFields(logrus.Fields{
		"loan_id": loanID,
		"until":   until.Format("2006-01-02"),
	}).Info("Loan notifications postponed")

	return nil
}

// Close marks the loan repaid; remaining principal is zeroed
func (s *Service) Close(ctx context.Context, loanID, ownerID int64) (*Loan, error) {
	l, err := s.GetOwned(ctx, loanID, ownerID)
	if err != nil {
		return nil, err
	}
	if l.Repaid {
		return nil, ErrLoanClosed
	}
	if err := s.repo.Close(ctx, loanID); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, loanID)
}

// Status returns the live overdue classification of one loan as of now.
// Postponement is deliberately ignored here: the owner always sees the true
// state.
func (s *Service) Status(ctx context.Context, loanID, ownerID int64) (*StatusResponse, error) {
	l, err := s.GetOwned(ctx, loanID, ownerID)
	if err != nil {
		return nil, err
	}

	payments, err := s.repo.PaymentsForLoan(ctx, loanID)
	if err != nil {
		return nil, err
	}

	res := accrual.Evaluate(l, Records(payments), s.now())
	return statusResponse(l, res), nil
}

// ListOverdueForUser returns the user's loans that are overdue right now,
// with their classifications. Used by the reminders view.
func (s *Service) ListOverdueForUser(ctx context.Context, ownerID int64) ([]*StatusResponse, error) {
	loans, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	var overdue []*StatusResponse
	for _, l := range loans {
		if l.Repaid {
			continue
		}
		payments, err := s.repo.PaymentsForLoan(ctx, l.ID)
		if err != nil {
			return nil, err
		}
		if res := accrual.Evaluate(l, Records(payments), now); res.Overdue() {
			overdue = append(overdue, statusResponse(l, res))
		}
	}

	return overdue, nil
}

var _ accrual.Obligation = (*Loan)(nil)
