package emi

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fkhayef/lendex/internal/accrual"
	"github.com/fkhayef/lendex/internal/period"
)

func testPlan(start time.Time, tenure int, installment float64) *EMI {
	return &EMI{
		BorrowerName: "Ramesh",
		Tenure:       tenure,
		EMIAmount:    decimal.NewFromFloat(installment),
		StartDate:    start,
	}
}

func payment(amount float64, year int, month time.Month) *Payment {
	return &Payment{
		Amount:    decimal.NewFromFloat(amount),
		MonthDate: time.Date(year, month, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestScheduleBoundedByTenure(t *testing.T) {
	e := testPlan(time.Date(2024, time.January, 5, 0, 0, 0, 0, time.UTC), 3, 1000)
	ref := time.Date(2024, time.December, 1, 0, 0, 0, 0, time.UTC)

	months := e.Schedule(ref)
	if len(months) != 3 {
		t.Fatalf("expected 3 scheduled months, got %d", len(months))
	}
	if months[0].Key() != "2024-01" || months[2].Key() != "2024-03" {
		t.Errorf("unexpected window %s..%s", months[0].Key(), months[2].Key())
	}
}

func TestEvaluateMissedInstallment(t *testing.T) {
	e := testPlan(time.Date(2024, time.January, 5, 0, 0, 0, 0, time.UTC), 3, 1000)
	payments := []*Payment{
		payment(1000, 2024, time.January),
		payment(1000, 2024, time.February),
	}
	ref := time.Date(2024, time.April, 15, 0, 0, 0, 0, time.UTC)

	res := accrual.Evaluate(e, Records(payments), ref)
	if res.OverdueCount != 1 {
		t.Fatalf("expected 1 overdue month, got %d", res.OverdueCount)
	}
	if res.FirstOverdue == nil || res.FirstOverdue.Key() != "2024-03" {
		t.Errorf("expected first overdue 2024-03, got %v", res.FirstOverdue)
	}
	if !res.Shortfall.Equal(decimal.NewFromInt(1000)) {
		t.Errorf("expected shortfall 1000, got %s", res.Shortfall)
	}
}

func TestCompletedByAccumulatesPartialPayments(t *testing.T) {
	e := testPlan(time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC), 2, 1000)

	payments := []*Payment{
		payment(600, 2024, time.January),
		payment(600, 2024, time.January),
		payment(1000, 2024, time.February),
	}
	if !completedBy(e, payments) {
		t.Error("two partial payments covering the installment should complete the month")
	}

	short := []*Payment{
		payment(600, 2024, time.January),
		payment(300, 2024, time.January),
		payment(1000, 2024, time.February),
	}
	if completedBy(e, short) {
		t.Error("900 against a 1000 installment should not complete the plan")
	}
}

func TestCompletedByRequiresEveryMonth(t *testing.T) {
	e := testPlan(time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC), 3, 500)

	payments := []*Payment{
		payment(500, 2024, time.January),
		payment(500, 2024, time.March),
	}
	if completedBy(e, payments) {
		t.Error("a skipped middle month should leave the plan open")
	}

	payments = append(payments, payment(500, 2024, time.February))
	if !completedBy(e, payments) {
		t.Error("all tenure months covered should complete the plan")
	}
}

func TestCompletedByZeroTenure(t *testing.T) {
	e := testPlan(time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC), 0, 1000)
	if completedBy(e, nil) {
		t.Error("a plan without tenure months never auto-completes")
	}
}

func TestOverpaymentDoesNotSpillOver(t *testing.T) {
	e := testPlan(time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC), 2, 1000)

	// 2000 in January does not cover February; months are independent.
	payments := []*Payment{payment(2000, 2024, time.January)}
	if completedBy(e, payments) {
		t.Error("overpayment in one month must not satisfy another")
	}

	ref := time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC)
	res := accrual.Evaluate(e, Records(payments), ref)
	if res.OverdueCount != 1 {
		t.Errorf("expected February overdue, got count %d", res.OverdueCount)
	}
	if res.FirstOverdue == nil || (period.Month{Year: 2024, Mon: time.February}) != *res.FirstOverdue {
		t.Errorf("expected first overdue 2024-02, got %v", res.FirstOverdue)
	}
}
