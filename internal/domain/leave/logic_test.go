package leave

import (
	"testing"
	"time"
)

func TestCalculateDaysInclusive(t *testing.T) {
	start := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	days, err := CalculateDays(start, start)
	if err != nil {
		t.Fatalf("same-day range: %v", err)
	}
	if days != 1 {
		t.Fatalf("same-day range = %v, want 1", days)
	}

	days, err = CalculateDays(start, start.AddDate(0, 0, 4))
	if err != nil {
		t.Fatalf("five-day range: %v", err)
	}
	if days != 5 {
		t.Fatalf("five-day range = %v, want 5", days)
	}
}

func TestCalculateDaysRejectsReversedRange(t *testing.T) {
	start := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	if _, err := CalculateDays(start, start.AddDate(0, 0, -1)); err != ErrInvalidRange {
		t.Fatalf("err = %v, want ErrInvalidRange", err)
	}
}

func TestRemainingGoesNegative(t *testing.T) {
	if got := Remaining(12, 14); got != -2 {
		t.Fatalf("Remaining(12, 14) = %v, want -2", got)
	}
	if got := Remaining(10, 3.5); got != 6.5 {
		t.Fatalf("Remaining(10, 3.5) = %v, want 6.5", got)
	}
}
