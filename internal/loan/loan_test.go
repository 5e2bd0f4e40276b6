package loan

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fkhayef/lendex/internal/accrual"
	"github.com/fkhayef/lendex/internal/period"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestAnchorDateFallsBackToIssuedDate(t *testing.T) {
	issued := date(2024, time.January, 5)
	l := &Loan{IssuedDate: issued}
	if !l.AnchorDate().Equal(issued) {
		t.Errorf("Expected anchor %v, got %v", issued, l.AnchorDate())
	}

	start := date(2024, time.March, 1)
	l.TrackingStartDate = &start
	if !l.AnchorDate().Equal(start) {
		t.Errorf("Expected anchor %v, got %v", start, l.AnchorDate())
	}
}

func TestRequiredForIsRemainingPrincipalTimesRate(t *testing.T) {
	l := &Loan{
		RemainingPrincipal:  decimal.NewFromInt(60000),
		MonthlyInterestRate: decimal.NewFromInt(2),
	}

	required := l.RequiredFor(period.Month{Year: 2024, Mon: time.January})
	if !required.Equal(decimal.NewFromInt(1200)) {
		t.Errorf("Expected 1200, got %s", required)
	}
}

func TestZeroRateLoanNeverOverdue(t *testing.T) {
	l := &Loan{
		IssuedDate:          date(2023, time.January, 1),
		RemainingPrincipal:  decimal.NewFromInt(50000),
		MonthlyInterestRate: decimal.Zero,
	}

	res := accrual.Evaluate(l, nil, date(2024, time.June, 1))
	if res.Overdue() {
		t.Errorf("Expected zero-rate loan to be current, got %d overdue", res.OverdueCount)
	}
}

func TestPostponedAt(t *testing.T) {
	until := date(2024, time.April, 20)
	l := &Loan{NotificationPostponedUntil: &until}

	if !l.PostponedAt(date(2024, time.April, 10)) {
		t.Error("Expected postponed on April 10")
	}
	if l.PostponedAt(date(2024, time.April, 20)) {
		t.Error("Expected not postponed on the until date itself")
	}
	if (&Loan{}).PostponedAt(date(2024, time.April, 10)) {
		t.Error("Expected not postponed without a date set")
	}
}

func TestCheckAssignmentMonthWindow(t *testing.T) {
	anchor := period.Month{Year: 2024, Mon: time.January}
	current := period.Month{Year: 2024, Mon: time.April}

	cases := []struct {
		name     string
		assigned period.Month
		wantErr  bool
	}{
		{"at anchor", period.Month{Year: 2024, Mon: time.January}, false},
		{"inside window", period.Month{Year: 2024, Mon: time.March}, false},
		{"current month", period.Month{Year: 2024, Mon: time.April}, false},
		{"before anchor", period.Month{Year: 2023, Mon: time.December}, true},
		{"in the future", period.Month{Year: 2024, Mon: time.May}, true},
	}

	for _, tc := range cases {
		err := checkAssignmentMonth(tc.assigned, anchor, current)
		if tc.wantErr && err == nil {
			t.Errorf("%s: expected ErrInvalidPeriod", tc.name)
		}
		if !tc.wantErr && err != nil {
			t.Errorf("%s: unexpected error %v", tc.name, err)
		}
	}
}

func TestRecordsUseAssignmentMonth(t *testing.T) {
	payments := []*Payment{
		{
			Amount:      decimal.NewFromInt(500),
			MonthDate:   date(2024, time.January, 1),
			PaymentDate: date(2024, time.March, 20), // recorded late
		},
	}

	records := Records(payments)
	if len(records) != 1 {
		t.Fatalf("Expected 1 record, got %d", len(records))
	}
	if records[0].Period.Key() != "2024-01" {
		t.Errorf("Expected record assigned to 2024-01, got %s", records[0].Period.Key())
	}
}
