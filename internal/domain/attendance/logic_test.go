package attendance

import (
	"testing"
	"time"
)

func TestClassifyBoundaries(t *testing.T) {
	cases := []struct {
		hours float64
		want  string
	}{
		{4.49, StatusAbsent},
		{4.5, StatusHalfDay},
		{8.99, StatusHalfDay},
		{9.0, StatusPresent},
		{9.01, StatusPresent},
		{0, StatusAbsent},
	}
	for _, tc := range cases {
		if got := Classify(tc.hours); got != tc.want {
			t.Fatalf("Classify(%v) = %s, want %s", tc.hours, got, tc.want)
		}
	}
}

func TestHoursBetweenRounding(t *testing.T) {
	checkIn := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	checkOut := checkIn.Add(8*time.Hour + 20*time.Minute)

	hours := HoursBetween(checkIn, checkOut)
	if hours != 8.33 {
		t.Fatalf("expected 8.33 hours, got %v", hours)
	}
}

func TestHoursBetweenFullDay(t *testing.T) {
	checkIn := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	checkOut := checkIn.Add(9 * time.Hour)

	hours := HoursBetween(checkIn, checkOut)
	if hours != 9 {
		t.Fatalf("expected 9 hours, got %v", hours)
	}
	if Classify(hours) != StatusPresent {
		t.Fatalf("expected PRESENT for a 9 hour day")
	}
}
