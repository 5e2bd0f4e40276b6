package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/fkhayef/lendex/internal/accrual"
)

const subject = "Lendex - Overdue Payment Reminder"

// Days past due is reported in whole months of 30 days.
const daysPerMonth = 30

// Store persists notifications. *Repository satisfies it.
type Store interface {
	CreateForLoanIfAbsent(ctx context.Context, n *Notification) (*Notification, error)
	CreateForEMIIfAbsent(ctx context.Context, n *Notification) (*Notification, error)
	ListForUser(ctx context.Context, userID int64) ([]*Notification, error)
	MarkSent(ctx context.Context, id int64, at time.Time) error
}

// Deliverer sends a reminder out of band. *mailer.Mailer satisfies it.
type Deliverer interface {
	Send(to, subject, body string) error
}

// Recipients resolves a user ID to an email address
type Recipients interface {
	EmailFor(ctx context.Context, userID int64) (string, error)
}

// Service produces overdue reminders and keeps them deduplicated
type Service struct {
	store      Store
	mail       Deliverer
	recipients Recipients
	logger     *logrus.Logger
	now        func() time.Time
}

// NewService creates a new notification service
func NewService(store Store, mail Deliverer, recipients Recipients, logger *logrus.Logger) *Service {
	return &Service{
		store:      store,
		mail:       mail,
		recipients: recipients,
		logger:     logger,
		now:        time.Now,
	}
}

// NotifyLoanOverdue records and delivers a reminder for an overdue loan.
// Returns (nil, nil) when the evaluation is not overdue or when a reminder
// for the same first overdue month already exists.
func (s *Service) NotifyLoanOverdue(ctx context.Context, userID, loanID int64, borrower string, res accrual.Result) (*Notification, error) {
	if !res.Overdue() || res.FirstOverdue == nil {
		return nil, nil
	}

	message := fmt.Sprintf("Collect %d months overdue payments from %s starting from %s - Total: ₹%s",
		res.OverdueCount, borrower, res.FirstOverdue.Label(), res.Shortfall.StringFixed(2))

	n := &Notification{
		LoanID:       &loanID,
		UserID:       userID,
		BorrowerName: borrower,
		DueDate:      res.FirstOverdue.Start(),
		SentDate:     s.now(),
		DaysPastDue:  res.OverdueCount * daysPerMonth,
		Message:      message,
	}

	created, err := s.store.CreateForLoanIfAbsent(ctx, n)
	if err != nil {
		return nil, err
	}
	if created == nil {
		s.logger.WithFields(logrus.Fields{
			"loan_id":  loanID,
			"due_date": n.DueDate.Format("2006-01-02"),
		}).Debug("Reminder already sent for this overdue month")
		return nil, nil
	}

	s.deliver(ctx, created)
	return created, nil
}

// NotifyEMIOverdue is the installment plan counterpart of NotifyLoanOverdue
func (s *Service) NotifyEMIOverdue(ctx context.Context, userID, emiID int64, borrower string, res accrual.Result) (*Notification, error) {
	if !res.Overdue() || res.FirstOverdue == nil {
		return nil, nil
	}

	message := fmt.Sprintf("Collect %d months overdue EMI payments from %s starting from %s - Total: ₹%s",
		res.OverdueCount, borrower, res.FirstOverdue.Label(), res.Shortfall.StringFixed(2))

	n := &Notification{
		EMIID:        &emiID,
		UserID:       userID,
		BorrowerName: borrower,
		DueDate:      res.FirstOverdue.Start(),
		SentDate:     s.now(),
		DaysPastDue:  res.OverdueCount * daysPerMonth,
		Message:      message,
	}

	created, err := s.store.CreateForEMIIfAbsent(ctx, n)
	if err != nil {
		return nil, err
	}
	if created == nil {
		s.logger.WithFields(logrus.Fields{
			"emi_id":   emiID,
			"due_date": n.DueDate.Format("2006-01-02"),
		}).Debug("Reminder already sent for this overdue month")
		return nil, nil
	}

	s.deliver(ctx, created)
	return created, nil
}

// deliver emails the reminder to its owner. A delivery failure leaves the
// notification recorded with sent=false; the agreement is still considered
// notified for this overdue month.
func (s *Service) deliver(ctx context.Context, n *Notification) {
	email, err := s.recipients.EmailFor(ctx, n.UserID)
	if err != nil {
		s.logger.WithError(err).WithField("user_id", n.UserID).Warn("Could not resolve reminder recipient")
		return
	}

	if err := s.mail.Send(email, subject, n.Message); err != nil {
		s.logger.WithError(err).WithField("notification_id", n.ID).Warn("Failed to deliver reminder email")
		return
	}

	if err := s.store.MarkSent(ctx, n.ID, s.now()); err != nil {
		s.logger.WithError(err).WithField("notification_id", n.ID).Warn("Failed to mark reminder as sent")
	}
}

// ListForUser returns the user's reminder history
func (s *Service) ListForUser(ctx context.Context, userID int64) ([]*Notification, error) {
	return s.store.ListForUser(ctx, userID)
}
