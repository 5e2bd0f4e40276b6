package reminder

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/fkhayef/lendex/internal/accrual"
	"github.com/fkhayef/lendex/internal/emi"
	"github.com/fkhayef/lendex/internal/loan"
	"github.com/fkhayef/lendex/internal/notification"
)

// LoanSource supplies active loans and their payments. *loan.Repository
// satisfies it.
type LoanSource interface {
	ListActive(ctx context.Context) ([]*loan.Loan, error)
	PaymentsForLoan(ctx context.Context, loanID int64) ([]*loan.Payment, error)
}

// EMISource supplies active installment plans and their payments.
// *emi.Repository satisfies it.
type EMISource interface {
	ListActive(ctx context.Context) ([]*emi.EMI, error)
	PaymentsForEMI(ctx context.Context, emiID int64) ([]*emi.Payment, error)
}

// Notifier records and delivers overdue reminders. *notification.Service
// satisfies it.
type Notifier interface {
	NotifyLoanOverdue(ctx context.Context, userID, loanID int64, borrower string, res accrual.Result) (*notification.Notification, error)
	NotifyEMIOverdue(ctx context.Context, userID, emiID int64, borrower string, res accrual.Result) (*notification.Notification, error)
}

// Scheduler runs the daily overdue sweep over all active agreements
type Scheduler struct {
	loans    LoanSource
	emis     EMISource
	notifier Notifier
	logger   *logrus.Logger
	cron     *cron.Cron
	now      func() time.Time
}

// NewScheduler creates a scheduler over the given sources
func NewScheduler(loans LoanSource, emis EMISource, notifier Notifier, logger *logrus.Logger) *Scheduler {
	return &Scheduler{
		loans:    loans,
		emis:     emis,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
	}
}

// Start schedules the daily cycle on the given cron spec and begins running.
// A cycle still in flight when the next tick fires is not overlapped.
func (s *Scheduler) Start(spec string) error {
	s.cron = cron.New(cron.WithChain(
		cron.SkipIfStillRunning(cron.DefaultLogger),
		cron.Recover(cron.DefaultLogger),
	))
	if _, err := s.cron.AddFunc(spec, func() {
		s.RunCycle(context.Background())
	}); err != nil {
		return err
	}
	s.cron.Start()
	s.logger.WithField("cron", spec).Info("Reminder scheduler started")
	return nil
}

// Stop halts the cron and waits for a running cycle to finish
func (s *Scheduler) Stop() {
	if s.cron != nil {
		<-s.cron.Stop().Done()
	}
}

// RunCycle evaluates every active agreement once and emits reminders for the
// overdue ones. A failure on one agreement is logged and does not stop the
// sweep.
func (s *Scheduler) RunCycle(ctx context.Context) {
	runID := uuid.NewString()
	now := s.now()
	log := s.logger.WithField("run_id", runID)
	log.Info("Reminder cycle started")

	checked, notified := s.sweepLoans(ctx, log, now)
	emiChecked, emiNotified := s.sweepEMIs(ctx, log, now)

	log.WithFields(logrus.Fields{
		"loans_checked":  checked,
		"loans_notified": notified,
		"emis_checked":   emiChecked,
		"emis_notified":  emiNotified,
	}).Info("Reminder cycle finished")
}

func (s *Scheduler) sweepLoans(ctx context.Context, log *logrus.Entry, now time.Time) (checked, notified int) {
	loans, err := s.loans.ListActive(ctx)
	if err != nil {
		log.WithError(err).Error("Failed to list active loans")
		return 0, 0
	}

	for _, l := range loans {
		checked++
		if l.PostponedAt(now) {
			log.WithField("loan_id", l.ID).Debug("Reminders postponed, skipping loan")
			continue
		}

		payments, err := s.loans.PaymentsForLoan(ctx, l.ID)
		if err != nil {
			log.WithError(err).WithField("loan_id", l.ID).Error("Failed to load loan payments")
			continue
		}

		res := accrual.Evaluate(l, loan.Records(payments), now)
		if !res.Overdue() {
			continue
		}

		n, err := s.notifier.NotifyLoanOverdue(ctx, l.OwnerID, l.ID, l.BorrowerName, res)
		if err != nil {
			log.WithError(err).WithField("loan_id", l.ID).Error("Failed to notify overdue loan")
			continue
		}
		if n != nil {
			notified++
		}
	}

	return checked, notified
}

func (s *Scheduler) sweepEMIs(ctx context.Context, log *logrus.Entry, now time.Time) (checked, notified int) {
	emis, err := s.emis.ListActive(ctx)
	if err != nil {
		log.WithError(err).Error("Failed to list active installment plans")
		return 0, 0
	}

	for _, e := range emis {
		checked++

		payments, err := s.emis.PaymentsForEMI(ctx, e.ID)
		if err != nil {
			log.WithError(err).WithField("emi_id", e.ID).Error("Failed to load installment payments")
			continue
		}

		res := accrual.Evaluate(e, emi.Records(payments), now)
		if !res.Overdue() {
			continue
		}

		n, err := s.notifier.NotifyEMIOverdue(ctx, e.UserID, e.ID, e.BorrowerName, res)
		if err != nil {
			log.WithError(err).WithField("emi_id", e.ID).Error("Failed to notify overdue installment plan")
			continue
		}
		if n != nil {
			notified++
		}
	}

	return checked, notified
}
