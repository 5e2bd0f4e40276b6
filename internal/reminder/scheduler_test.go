package reminder

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/fkhayef/lendex/internal/accrual"
	"github.com/fkhayef/lendex/internal/emi"
	"github.com/fkhayef/lendex/internal/loan"
	"github.com/fkhayef/lendex/internal/notification"
)

type fakeLoans struct {
	loans       []*loan.Loan
	payments    map[int64][]*loan.Payment
	failPayment int64
}

func (f *fakeLoans) ListActive(context.Context) ([]*loan.Loan, error) {
	return f.loans, nil
}

func (f *fakeLoans) PaymentsForLoan(_ context.Context, loanID int64) ([]*loan.Payment, error) {
	if loanID == f.failPayment {
		return nil, errors.New("connection reset")
	}
	return f.payments[loanID], nil
}

type fakeEMIs struct {
	emis     []*emi.EMI
	payments map[int64][]*emi.Payment
}

func (f *fakeEMIs) ListActive(context.Context) ([]*emi.EMI, error) {
	return f.emis, nil
}

func (f *fakeEMIs) PaymentsForEMI(_ context.Context, emiID int64) ([]*emi.Payment, error) {
	return f.payments[emiID], nil
}

type notifyCall struct {
	kind     string
	id       int64
	userID   int64
	borrower string
	result   accrual.Result
}

type fakeNotifier struct {
	calls    []notifyCall
	suppress bool
}

func (f *fakeNotifier) NotifyLoanOverdue(_ context.Context, userID, loanID int64, borrower string, res accrual.Result) (*notification.Notification, error) {
	f.calls = append(f.calls, notifyCall{kind: "loan", id: loanID, userID: userID, borrower: borrower, result: res})
	if f.suppress {
		return nil, nil
	}
	return &notification.Notification{ID: int64(len(f.calls))}, nil
}

func (f *fakeNotifier) NotifyEMIOverdue(_ context.Context, userID, emiID int64, borrower string, res accrual.Result) (*notification.Notification, error) {
	f.calls = append(f.calls, notifyCall{kind: "emi", id: emiID, userID: userID, borrower: borrower, result: res})
	if f.suppress {
		return nil, nil
	}
	return &notification.Notification{ID: int64(len(f.calls))}, nil
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func overdueLoan(id int64, postponedUntil *time.Time) *loan.Loan {
	return &loan.Loan{
		ID:                         id,
		OwnerID:                    7,
		BorrowerName:               "Suresh",
		RemainingPrincipal:         decimal.NewFromInt(60000),
		MonthlyInterestRate:        decimal.NewFromInt(2),
		IssuedDate:                 date(2024, time.January, 1),
		NotificationPostponedUntil: postponedUntil,
	}
}

func testScheduler(loans *fakeLoans, emis *fakeEMIs, notifier *fakeNotifier, now time.Time) *Scheduler {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	s := NewScheduler(loans, emis, notifier, logger)
	s.now = func() time.Time { return now }
	return s
}

func TestCycleNotifiesOverdueLoan(t *testing.T) {
	loans := &fakeLoans{loans: []*loan.Loan{overdueLoan(42, nil)}}
	notifier := &fakeNotifier{}
	s := testScheduler(loans, &fakeEMIs{}, notifier, date(2024, time.April, 10))

	s.RunCycle(context.Background())

	if len(notifier.calls) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(notifier.calls))
	}
	call := notifier.calls[0]
	if call.kind != "loan" || call.id != 42 || call.userID != 7 || call.borrower != "Suresh" {
		t.Errorf("unexpected call %+v", call)
	}
	if call.result.OverdueCount != 3 {
		t.Errorf("expected 3 overdue months, got %d", call.result.OverdueCount)
	}
	if !call.result.Shortfall.Equal(decimal.NewFromInt(3600)) {
		t.Errorf("expected shortfall 3600, got %s", call.result.Shortfall)
	}
}

func TestCycleSkipsPostponedLoan(t *testing.T) {
	until := date(2024, time.April, 20)
	loans := &fakeLoans{loans: []*loan.Loan{
		overdueLoan(42, &until),
		overdueLoan(43, nil),
	}}
	notifier := &fakeNotifier{}
	s := testScheduler(loans, &fakeEMIs{}, notifier, date(2024, time.April, 10))

	s.RunCycle(context.Background())

	if len(notifier.calls) != 1 {
		t.Fatalf("expected only the non-postponed loan notified, got %d calls", len(notifier.calls))
	}
	if notifier.calls[0].id != 43 {
		t.Errorf("expected loan 43 notified, got %d", notifier.calls[0].id)
	}
}

func TestCycleNotifiesAfterPostponementExpires(t *testing.T) {
	until := date(2024, time.April, 20)
	loans := &fakeLoans{loans: []*loan.Loan{overdueLoan(42, &until)}}
	notifier := &fakeNotifier{}
	s := testScheduler(loans, &fakeEMIs{}, notifier, date(2024, time.April, 21))

	s.RunCycle(context.Background())

	if len(notifier.calls) != 1 {
		t.Errorf("expected the loan notified once postponement lapsed, got %d calls", len(notifier.calls))
	}
}

func TestCycleIsolatesPerLoanFailures(t *testing.T) {
	loans := &fakeLoans{
		loans:       []*loan.Loan{overdueLoan(42, nil), overdueLoan(43, nil)},
		failPayment: 42,
	}
	notifier := &fakeNotifier{}
	s := testScheduler(loans, &fakeEMIs{}, notifier, date(2024, time.April, 10))

	s.RunCycle(context.Background())

	if len(notifier.calls) != 1 || notifier.calls[0].id != 43 {
		t.Errorf("expected the healthy loan still notified, got %+v", notifier.calls)
	}
}

func TestCycleNotifiesOverdueEMI(t *testing.T) {
	e := &emi.EMI{
		ID:           5,
		UserID:       7,
		BorrowerName: "Ramesh",
		Tenure:       3,
		EMIAmount:    decimal.NewFromInt(1000),
		StartDate:    date(2024, time.January, 5),
	}
	emis := &fakeEMIs{
		emis: []*emi.EMI{e},
		payments: map[int64][]*emi.Payment{
			5: {
				{Amount: decimal.NewFromInt(1000), MonthDate: date(2024, time.January, 1)},
				{Amount: decimal.NewFromInt(1000), MonthDate: date(2024, time.February, 1)},
			},
		},
	}
	notifier := &fakeNotifier{}
	s := testScheduler(&fakeLoans{}, emis, notifier, date(2024, time.April, 15))

	s.RunCycle(context.Background())

	if len(notifier.calls) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(notifier.calls))
	}
	call := notifier.calls[0]
	if call.kind != "emi" || call.id != 5 {
		t.Errorf("unexpected call %+v", call)
	}
	if call.result.FirstOverdue == nil || call.result.FirstOverdue.Key() != "2024-03" {
		t.Errorf("expected first overdue 2024-03, got %v", call.result.FirstOverdue)
	}
}

func TestCycleCurrentAgreementsProduceNothing(t *testing.T) {
	l := overdueLoan(42, nil)
	loans := &fakeLoans{
		loans: []*loan.Loan{l},
		payments: map[int64][]*loan.Payment{
			42: {
				{Amount: decimal.NewFromInt(1200), MonthDate: date(2024, time.January, 1)},
				{Amount: decimal.NewFromInt(1200), MonthDate: date(2024, time.February, 1)},
				{Amount: decimal.NewFromInt(1200), MonthDate: date(2024, time.March, 1)},
			},
		},
	}
	notifier := &fakeNotifier{}
	s := testScheduler(loans, &fakeEMIs{}, notifier, date(2024, time.April, 10))

	s.RunCycle(context.Background())

	if len(notifier.calls) != 0 {
		t.Errorf("a fully paid loan must not be notified, got %+v", notifier.calls)
	}
}
