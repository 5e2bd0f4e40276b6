package emi

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/fkhayef/lendex/internal/accrual"
	"github.com/fkhayef/lendex/internal/period"
)

// Common errors
var (
	ErrEMINotFound   = errors.New("installment plan not found")
	ErrNotOwner      = errors.New("not the owner of this installment plan")
	ErrEMICompleted  = errors.New("installment plan is already completed")
	ErrInvalidAmount = errors.New("payment amount must be positive")
	ErrInvalidPeriod = errors.New("assignment month outside the plan's tenure window")
	ErrInvalidDate   = errors.New("invalid date")
	ErrInvalidTenure = errors.New("tenure must be positive")
	ErrNameRequired  = errors.New("borrower name is required")
)

// Service handles installment plan business logic
type Service struct {
	repo   *Repository
	logger *logrus.Logger
	now    func() time.Time
}

// NewService creates a new EMI service
func NewService(repo *Repository, logger *logrus.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
}

// Create sets up an installment plan for the user
func (s *Service) Create(ctx context.Context, userID int64, req *CreateEMIRequest) (*EMI, error) {
	e, err := fromRequest(req)
	if err != nil {
		return nil, err
	}
	e.UserID = userID

	created, err := s.repo.Create(ctx, e)
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"emi_id":   created.ID,
		"borrower": created.BorrowerName,
		"tenure":   created.Tenure,
	}).Info("Installment plan created")

	return created, nil
}

func fromRequest(req *CreateEMIRequest) (*EMI, error) {
	if strings.TrimSpace(req.BorrowerName) == "" {
		return nil, ErrNameRequired
	}
	if req.Tenure <= 0 {
		return nil, ErrInvalidTenure
	}
	if !req.EMIAmount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	givenDate, err := parseDate(req.GivenDate)
	if err != nil {
		return nil, ErrInvalidDate
	}
	startDate, err := parseDate(req.StartDate)
	if err != nil {
		return nil, ErrInvalidDate
	}

	return &EMI{
		BorrowerName: strings.TrimSpace(req.BorrowerName),
		TotalAmount:  req.TotalAmount,
		GivenInCash:  req.GivenInCash,
		GivenDate:    givenDate,
		Tenure:       req.Tenure,
		EMIAmount:    req.EMIAmount,
		StartDate:    startDate,
		Remarks:      req.Remarks,
	}, nil
}

// ListForUser returns the user's installment plans
func (s *Service) ListForUser(ctx context.Context, userID int64) ([]*EMI, error) {
	return s.repo.ListByUser(ctx, userID)
}

// GetOwned returns a plan after checking ownership
func (s *Service) GetOwned(ctx context.Context, id, userID int64) (*EMI, error) {
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, ErrEMINotFound
	}
	if e.UserID != userID {
		return nil, ErrNotOwner
	}
	return e, nil
}

// Update edits a plan's terms, then re-checks completion against the new
// tenure and installment
func (s *Service) Update(ctx context.Context, id, userID int64, req *UpdateEMIRequest) (*EMI, error) {
	existing, err := s.GetOwned(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	e, err := fromRequest(req)
	if err != nil {
		return nil, err
	}
	e.ID = existing.ID
	e.UserID = existing.UserID

	updated, err := s.repo.Update(ctx, e)
	if err != nil {
		return nil, err
	}
	return s.checkCompletion(ctx, updated)
}

// Delete removes a plan after checking ownership
func (s *Service) Delete(ctx context.Context, id, userID int64) error {
	if _, err := s.GetOwned(ctx, id, userID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// Close marks a plan completed on explicit user action
func (s *Service) Close(ctx context.Context, id, userID int64) (*EMI, error) {
	e, err := s.GetOwned(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if e.Completed {
		return nil, ErrEMICompleted
	}
	if err := s.repo.SetCompleted(ctx, id); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

// RecordPayment appends an installment payment. The assignment month must
// fall inside the tenure window. When the payment satisfies the last open
// month the plan flips to completed.
func (s *Service) RecordPayment(ctx context.Context, emiID, userID int64, req *RecordPaymentRequest) (*Payment, error) {
	e, err := s.GetOwned(ctx, emiID, userID)
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

	assigned := period.Of(monthDate)
	first := period.Of(e.StartDate)
	last := first.Add(e.Tenure - 1)
	if assigned.Before(first) || assigned.After(last) {
		return nil, ErrInvalidPeriod
	}

	paymentDate := s.now()
	if req.PaymentDate != "" {
		if paymentDate, err = parseDate(req.PaymentDate); err != nil {
			return nil, ErrInvalidDate
		}
	}

	p := &Payment{
		EMIID:       emiID,
		Amount:      req.Amount,
		MonthDate:   monthDate,
		PaymentDate: paymentDate,
		Note:        req.Note,
		Remarks:     req.Remarks,
	}

	created, err := s.repo.CreatePayment(ctx, p)
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"emi_id": emiID,
		"month":  assigned.Key(),
		"amount": req.Amount,
	}).Info("Installment payment recorded")

	if _, err := s.checkCompletion(ctx, e); err != nil {
		return nil, err
	}

	return created, nil
}

// checkCompletion flips the completed flag exactly when every tenure month
// has accumulated paid >= installment.
func (s *Service) checkCompletion(ctx context.Context, e *EMI) (*EMI, error) {
	if e.Completed {
		return e, nil
	}

	payments, err := s.repo.PaymentsForEMI(ctx, e.ID)
	if err != nil {
		return nil, err
	}
	if !completedBy(e, payments) {
		return e, nil
	}

	if err := s.repo.SetCompleted(ctx, e.ID); err != nil {
		return nil, err
	}
	s.logger.WithField("emi_id", e.ID).Info("Installment plan completed")
	return s.repo.GetByID(ctx, e.ID)
}

// Payments returns a plan's payment history
func (s *Service) Payments(ctx context.Context, emiID, userID int64) ([]*Payment, error) {
	if _, err := s.GetOwned(ctx, emiID, userID); err != nil {
		return nil, err
	}
	return s.repo.PaymentsForEMI(ctx, emiID)
}

// Status returns the live overdue classification of one plan as of now.
// Completed plans are always current.
func (s *Service) Status(ctx context.Context, emiID, userID int64) (*StatusResponse, error) {
	e, err := s.GetOwned(ctx, emiID, userID)
	if err != nil {
		return nil, err
	}
	if e.Completed {
		return statusResponse(e, accrual.Result{}), nil
	}

	payments, err := s.repo.PaymentsForEMI(ctx, emiID)
	if err != nil {
		return nil, err
	}

	res := accrual.Evaluate(e, Records(payments), s.now())
	return statusResponse(e, res), nil
}

// ListOverdueForUser returns the user's plans that are overdue right now
func (s *Service) ListOverdueForUser(ctx context.Context, userID int64) ([]*StatusResponse, error) {
	emis, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	var overdue []*StatusResponse
	for _, e := range emis {
		if e.Completed {
			continue
		}
		payments, err := s.repo.PaymentsForEMI(ctx, e.ID)
		if err != nil {
			return nil, err
		}
		if res := accrual.Evaluate(e, Records(payments), now); res.Overdue() {
			overdue = append(overdue, statusResponse(e, res))
		}
	}

	return overdue, nil
}
