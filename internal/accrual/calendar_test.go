package accrual

import (
	"testing"
	"time"

	"github.com/fkhayef/lendex/internal/period"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestOpenScheduleRunsUpToReferenceMonth(t *testing.T) {
	months := OpenSchedule(date(2024, time.January, 1), date(2024, time.April, 10))

	want := []period.Month{
		{Year: 2024, Mon: time.January},
		{Year: 2024, Mon: time.February},
		{Year: 2024, Mon: time.March},
	}
	if len(months) != len(want) {
		t.Fatalf("Expected %d months, got %d", len(want), len(months))
	}
	for i, m := range months {
		if m != want[i] {
			t.Errorf("Month %d: expected %s, got %s", i, want[i].Key(), m.Key())
		}
	}
}

func TestOpenScheduleEmptyWhenReferenceInAnchorMonth(t *testing.T) {
	months := OpenSchedule(date(2024, time.January, 1), date(2024, time.January, 31))
	if len(months) != 0 {
		t.Errorf("Expected empty schedule, got %d months", len(months))
	}
}

func TestOpenScheduleMidMonthAnchor(t *testing.T) {
	// anchor day within the month is irrelevant; the anchor month itself counts
	months := OpenSchedule(date(2024, time.January, 20), date(2024, time.March, 1))
	if len(months) != 2 {
		t.Fatalf("Expected 2 months, got %d", len(months))
	}
	if months[0].Key() != "2024-01" || months[1].Key() != "2024-02" {
		t.Errorf("Expected 2024-01..2024-02, got %s..%s", months[0].Key(), months[1].Key())
	}
}

func TestFixedScheduleExactTenure(t *testing.T) {
	months := FixedSchedule(date(2024, time.January, 1), 3, date(2025, time.June, 1))
	if len(months) != 3 {
		t.Fatalf("Expected tenure to bound the schedule at 3, got %d", len(months))
	}
	if months[2].Key() != "2024-03" {
		t.Errorf("Expected last month 2024-03, got %s", months[2].Key())
	}
}

func TestFixedScheduleStopsAtReferenceDate(t *testing.T) {
	months := FixedSchedule(date(2024, time.January, 1), 12, date(2024, time.February, 15))
	if len(months) != 2 {
		t.Fatalf("Expected 2 elapsed months of 12, got %d", len(months))
	}
}

func TestFixedScheduleZeroTenure(t *testing.T) {
	if months := FixedSchedule(date(2024, time.January, 1), 0, date(2024, time.June, 1)); len(months) != 0 {
		t.Errorf("Expected empty schedule for zero tenure, got %d", len(months))
	}
}

func TestSchedulesAreRestartable(t *testing.T) {
	anchor, ref := date(2024, time.January, 1), date(2024, time.April, 10)
	first := OpenSchedule(anchor, ref)
	second := OpenSchedule(anchor, ref)
	if len(first) != len(second) {
		t.Fatalf("Expected identical schedules, got %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("Month %d differs across runs", i)
		}
	}
}
