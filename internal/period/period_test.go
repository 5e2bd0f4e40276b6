package period

import (
	"testing"
	"time"
)

func TestOfTruncatesToMonth(t *testing.T) {
	m := Of(time.Date(2024, time.March, 17, 13, 45, 0, 0, time.UTC))
	if m.Year != 2024 || m.Mon != time.March {
		t.Errorf("Expected 2024-03, got %s", m.Key())
	}
}

func TestAddCrossesYearBoundary(t *testing.T) {
	m := Month{Year: 2024, Mon: time.November}
	if got := m.Add(3); got.Year != 2025 || got.Mon != time.February {
		t.Errorf("Expected 2025-02, got %s", got.Key())
	}
	if got := m.Add(-11); got.Year != 2023 || got.Mon != time.December {
		t.Errorf("Expected 2023-12, got %s", got.Key())
	}
}

func TestOrdering(t *testing.T) {
	jan := Month{Year: 2024, Mon: time.January}
	feb := Month{Year: 2024, Mon: time.February}
	dec23 := Month{Year: 2023, Mon: time.December}

	if !jan.Before(feb) {
		t.Error("Expected 2024-01 before 2024-02")
	}
	if !dec23.Before(jan) {
		t.Error("Expected 2023-12 before 2024-01")
	}
	if jan.Before(jan) {
		t.Error("Before must be strict")
	}
	if !feb.After(jan) {
		t.Error("Expected 2024-02 after 2024-01")
	}
}

func TestContainsIgnoresDayAndClock(t *testing.T) {
	m := Month{Year: 2024, Mon: time.January}
	if !m.Contains(time.Date(2024, time.January, 31, 23, 59, 0, 0, time.UTC)) {
		t.Error("Expected last instant of January to be contained")
	}
	if m.Contains(time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC)) {
		t.Error("Expected February 1st not to be contained")
	}
}

func TestKeyAndLabel(t *testing.T) {
	m := Month{Year: 2024, Mon: time.March}
	if m.Key() != "2024-03" {
		t.Errorf("Expected key 2024-03, got %s", m.Key())
	}
	if m.Label() != "March 2024" {
		t.Errorf("Expected label 'March 2024', got %q", m.Label())
	}
}
