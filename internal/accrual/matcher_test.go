package accrual

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fkhayef/lendex/internal/period"
)

func rec(amount float64, y int, m time.Month) PaymentRecord {
	return PaymentRecord{
		Amount: decimal.NewFromFloat(amount),
		Period: period.Month{Year: y, Mon: m},
	}
}

func TestPaidInSumsMatchingMonth(t *testing.T) {
	payments := []PaymentRecord{
		rec(600, 2024, time.January),
		rec(600, 2024, time.January),
		rec(1000, 2024, time.February),
	}

	paid := PaidIn(period.Month{Year: 2024, Mon: time.January}, payments)
	if !paid.Equal(decimal.NewFromInt(1200)) {
		t.Errorf("Expected 1200 for January, got %s", paid)
	}
}

func TestPaidInIsPeriodExact(t *testing.T) {
	// a payment assigned to January contributes to January and nothing else
	payments := []PaymentRecord{rec(1000, 2024, time.January)}

	if paid := PaidIn(period.Month{Year: 2024, Mon: time.February}, payments); !paid.IsZero() {
		t.Errorf("Expected zero for February, got %s", paid)
	}
	if paid := PaidIn(period.Month{Year: 2023, Mon: time.January}, payments); !paid.IsZero() {
		t.Errorf("Expected zero for January of another year, got %s", paid)
	}
}

func TestPaidInEmpty(t *testing.T) {
	if paid := PaidIn(period.Month{Year: 2024, Mon: time.January}, nil); !paid.IsZero() {
		t.Errorf("Expected zero with no payments, got %s", paid)
	}
}
