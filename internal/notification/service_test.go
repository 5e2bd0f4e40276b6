package notification

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/fkhayef/lendex/internal/accrual"
	"github.com/fkhayef/lendex/internal/period"
)

type fakeStore struct {
	existing bool
	created  []*Notification
	sent     []int64
}

func (f *fakeStore) CreateForLoanIfAbsent(_ context.Context, n *Notification) (*Notification, error) {
	if f.existing {
		return nil, nil
	}
	n.ID = int64(len(f.created) + 1)
	f.created = append(f.created, n)
	return n, nil
}

func (f *fakeStore) CreateForEMIIfAbsent(_ context.Context, n *Notification) (*Notification, error) {
	if f.existing {
		return nil, nil
	}
	n.ID = int64(len(f.created) + 1)
	f.created = append(f.created, n)
	return n, nil
}

func (f *fakeStore) ListForUser(context.Context, int64) ([]*Notification, error) {
	return f.created, nil
}

func (f *fakeStore) MarkSent(_ context.Context, id int64, _ time.Time) error {
	f.sent = append(f.sent, id)
	return nil
}

type fakeMail struct {
	fail     bool
	bodies   []string
	subjects []string
}

func (f *fakeMail) Send(_, subject, body string) error {
	if f.fail {
		return errors.New("smtp unavailable")
	}
	f.subjects = append(f.subjects, subject)
	f.bodies = append(f.bodies, body)
	return nil
}

type fakeRecipients struct{}

func (fakeRecipients) EmailFor(context.Context, int64) (string, error) {
	return "owner@example.com", nil
}

func testService(store *fakeStore, mail *fakeMail) *Service {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	s := NewService(store, mail, fakeRecipients{}, logger)
	s.now = func() time.Time {
		return time.Date(2024, time.April, 10, 9, 0, 0, 0, time.UTC)
	}
	return s
}

func overdueResult(count int, first period.Month, shortfall float64) accrual.Result {
	return accrual.Result{
		OverdueCount: count,
		FirstOverdue: &first,
		Shortfall:    decimal.NewFromFloat(shortfall),
	}
}

func TestNotifyLoanOverdueMessage(t *testing.T) {
	store := &fakeStore{}
	mail := &fakeMail{}
	s := testService(store, mail)

	res := overdueResult(3, period.Month{Year: 2024, Mon: time.January}, 3600)
	n, err := s.NotifyLoanOverdue(context.Background(), 7, 42, "Suresh", res)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n == nil {
		t.Fatal("expected a notification to be created")
	}

	want := "Collect 3 months overdue payments from Suresh starting from January 2024 - Total: ₹3600.00"
	if n.Message != want {
		t.Errorf("message = %q, want %q", n.Message, want)
	}
	if n.DaysPastDue != 90 {
		t.Errorf("days past due = %d, want 90", n.DaysPastDue)
	}
	if !n.DueDate.Equal(time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("due date = %s", n.DueDate)
	}

	if len(mail.bodies) != 1 || mail.bodies[0] != want {
		t.Errorf("expected the message delivered by email, got %v", mail.bodies)
	}
	if mail.subjects[0] != "Lendex - Overdue Payment Reminder" {
		t.Errorf("subject = %q", mail.subjects[0])
	}
	if len(store.sent) != 1 || store.sent[0] != n.ID {
		t.Errorf("expected notification marked sent, got %v", store.sent)
	}
}

func TestNotifyEMIOverdueMessage(t *testing.T) {
	store := &fakeStore{}
	mail := &fakeMail{}
	s := testService(store, mail)

	res := overdueResult(1, period.Month{Year: 2024, Mon: time.March}, 1000)
	n, err := s.NotifyEMIOverdue(context.Background(), 7, 5, "Ramesh", res)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "Collect 1 months overdue EMI payments from Ramesh starting from March 2024 - Total: ₹1000.00"
	if n.Message != want {
		t.Errorf("message = %q, want %q", n.Message, want)
	}
	if n.EMIID == nil || *n.EMIID != 5 {
		t.Errorf("emi id = %v", n.EMIID)
	}
	if n.LoanID != nil {
		t.Error("loan id must be unset on an EMI reminder")
	}
}

func TestNotifyIsDeduplicated(t *testing.T) {
	store := &fakeStore{existing: true}
	mail := &fakeMail{}
	s := testService(store, mail)

	res := overdueResult(2, period.Month{Year: 2024, Mon: time.February}, 2400)
	n, err := s.NotifyLoanOverdue(context.Background(), 7, 42, "Suresh", res)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != nil {
		t.Error("expected a suppressed duplicate to return nil")
	}
	if len(mail.bodies) != 0 {
		t.Error("a suppressed duplicate must not send email")
	}
}

func TestNotifySkipsCurrentAgreements(t *testing.T) {
	store := &fakeStore{}
	mail := &fakeMail{}
	s := testService(store, mail)

	n, err := s.NotifyLoanOverdue(context.Background(), 7, 42, "Suresh", accrual.Result{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != nil || len(store.created) != 0 {
		t.Error("a current agreement must not produce a reminder")
	}
}

func TestDeliveryFailureKeepsRecord(t *testing.T) {
	store := &fakeStore{}
	mail := &fakeMail{fail: true}
	s := testService(store, mail)

	res := overdueResult(1, period.Month{Year: 2024, Mon: time.March}, 1200)
	n, err := s.NotifyLoanOverdue(context.Background(), 7, 42, "Suresh", res)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n == nil {
		t.Fatal("the record must exist even when email delivery fails")
	}
	if len(store.sent) != 0 {
		t.Error("a failed delivery must not be marked sent")
	}
}
