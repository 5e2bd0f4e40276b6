package accrual

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fkhayef/lendex/internal/period"
)

// openObligation mimics a loan: open-ended schedule, flat monthly interest.
type openObligation struct {
	anchor  time.Time
	monthly decimal.Decimal
}

func (o openObligation) Schedule(ref time.Time) []period.Month {
	return OpenSchedule(o.anchor, ref)
}

func (o openObligation) RequiredFor(period.Month) decimal.Decimal {
	return o.monthly
}

// fixedObligation mimics an installment plan.
type fixedObligation struct {
	start       time.Time
	tenure      int
	installment decimal.Decimal
}

func (o fixedObligation) Schedule(ref time.Time) []period.Month {
	return FixedSchedule(o.start, o.tenure, ref)
}

func (o fixedObligation) RequiredFor(period.Month) decimal.Decimal {
	return o.installment
}

// Loan with principal 60000 at 2% monthly and no payments: January through
// March are flagged as of April 10th, April itself has not elapsed.
func TestEvaluateLoanNoPayments(t *testing.T) {
	ob := openObligation{
		anchor:  date(2024, time.January, 1),
		monthly: decimal.NewFromInt(1200), // 60000 * 2 / 100
	}

	res := Evaluate(ob, nil, date(2024, time.April, 10))

	if res.OverdueCount != 3 {
		t.Errorf("Expected 3 overdue months, got %d", res.OverdueCount)
	}
	if res.FirstOverdue == nil || res.FirstOverdue.Key() != "2024-01" {
		t.Errorf("Expected first overdue 2024-01, got %v", res.FirstOverdue)
	}
	if !res.Shortfall.Equal(decimal.NewFromInt(3600)) {
		t.Errorf("Expected shortfall 3600, got %s", res.Shortfall)
	}
}

// EMI with tenure 3 starting January, installments for January and February
// paid: only March is overdue as of April 15th.
func TestEvaluatePlanOneMissedInstallment(t *testing.T) {
	ob := fixedObligation{
		start:       date(2024, time.January, 1),
		tenure:      3,
		installment: decimal.NewFromInt(1000),
	}
	payments := []PaymentRecord{
		rec(1000, 2024, time.January),
		rec(1000, 2024, time.February),
	}

	res := Evaluate(ob, payments, date(2024, time.April, 15))

	if res.OverdueCount != 1 {
		t.Errorf("Expected 1 overdue month, got %d", res.OverdueCount)
	}
	if res.FirstOverdue == nil || res.FirstOverdue.Key() != "2024-03" {
		t.Errorf("Expected first overdue 2024-03, got %v", res.FirstOverdue)
	}
	if !res.Shortfall.Equal(decimal.NewFromInt(1000)) {
		t.Errorf("Expected shortfall 1000, got %s", res.Shortfall)
	}
}

// Two partial payments of 600 in the same month accumulate to an overpayment;
// the month is satisfied and contributes no shortfall.
func TestEvaluateAccumulatedOverpayment(t *testing.T) {
	ob := fixedObligation{
		start:       date(2024, time.January, 1),
		tenure:      1,
		installment: decimal.NewFromInt(1000),
	}
	payments := []PaymentRecord{
		rec(600, 2024, time.January),
		rec(600, 2024, time.January),
	}

	res := Evaluate(ob, payments, date(2024, time.March, 10))

	if res.Overdue() {
		t.Errorf("Expected current, got %d overdue months with shortfall %s",
			res.OverdueCount, res.Shortfall)
	}
}

// Zero required amount (zero rate or zero remaining principal) can never be
// overdue, whatever the payment history.
func TestEvaluateZeroRequiredNeverOverdue(t *testing.T) {
	ob := openObligation{
		anchor:  date(2020, time.January, 1),
		monthly: decimal.Zero,
	}

	res := Evaluate(ob, nil, date(2024, time.June, 1))

	if res.Overdue() {
		t.Errorf("Expected current for zero required amount, got %d overdue", res.OverdueCount)
	}
	if !res.Shortfall.IsZero() {
		t.Errorf("Expected zero shortfall, got %s", res.Shortfall)
	}
}

// Reference date equal to the anchor yields an empty schedule: current.
func TestEvaluateReferenceAtAnchor(t *testing.T) {
	anchor := date(2024, time.January, 1)
	ob := openObligation{anchor: anchor, monthly: decimal.NewFromInt(500)}

	if res := Evaluate(ob, nil, anchor); res.Overdue() {
		t.Errorf("Expected current at anchor date, got %d overdue", res.OverdueCount)
	}
}

// A just-elapsed month stays inside its grace window until the first day of
// the following month has passed.
func TestEvaluateGraceWindowBoundary(t *testing.T) {
	ob := openObligation{
		anchor:  date(2024, time.January, 1),
		monthly: decimal.NewFromInt(1000),
	}

	// On February 1st, January's following month has only just begun.
	res := Evaluate(ob, nil, date(2024, time.February, 1))
	if res.Overdue() {
		t.Errorf("Expected January within grace on Feb 1, got %d overdue", res.OverdueCount)
	}

	// One day later January is flagged.
	res = Evaluate(ob, nil, date(2024, time.February, 2))
	if res.OverdueCount != 1 {
		t.Errorf("Expected January flagged on Feb 2, got %d overdue", res.OverdueCount)
	}
}

// Payments a cent or less below the required amount are absorbed by the
// tolerance.
func TestEvaluateRoundingTolerance(t *testing.T) {
	ob := fixedObligation{
		start:       date(2024, time.January, 1),
		tenure:      1,
		installment: decimal.NewFromInt(1000),
	}
	payments := []PaymentRecord{rec(999.99, 2024, time.January)}

	if res := Evaluate(ob, payments, date(2024, time.June, 1)); res.Overdue() {
		t.Errorf("Expected 999.99 against 1000 to satisfy, got %d overdue", res.OverdueCount)
	}
}

// Shortfall is zero exactly when no month is flagged, and never negative.
func TestEvaluateShortfallConsistency(t *testing.T) {
	ob := fixedObligation{
		start:       date(2024, time.January, 1),
		tenure:      4,
		installment: decimal.NewFromInt(1000),
	}
	payments := []PaymentRecord{
		rec(1000, 2024, time.January),
		rec(400, 2024, time.February), // partial
	}

	res := Evaluate(ob, payments, date(2024, time.June, 1))

	if res.Shortfall.IsNegative() {
		t.Errorf("Shortfall must be non-negative, got %s", res.Shortfall)
	}
	if (res.OverdueCount == 0) != res.Shortfall.IsZero() {
		t.Errorf("Shortfall %s inconsistent with overdue count %d", res.Shortfall, res.OverdueCount)
	}
	// Feb short by 600, Mar and Apr short by 1000 each
	if !res.Shortfall.Equal(decimal.NewFromInt(2600)) {
		t.Errorf("Expected shortfall 2600, got %s", res.Shortfall)
	}
	if res.FirstOverdue == nil || res.FirstOverdue.Key() != "2024-02" {
		t.Errorf("Expected first overdue 2024-02, got %v", res.FirstOverdue)
	}
}
