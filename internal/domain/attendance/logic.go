package attendance

import (
	"math"
	"time"
)

const (
	StatusPresent = "PRESENT"
	StatusHalfDay = "HALF_DAY"
	StatusAbsent  = "ABSENT"
	// StatusLeave is assigned during response shaping for approved leave days,
	// never by the resolver itself.
	StatusLeave = "LEAVE"
)

const (
	halfDayThresholdHours = 4.5
	presentThresholdHours = 9.0
)

// HoursBetween returns the worked duration in hours, rounded to 2 decimals.
func HoursBetween(checkIn, checkOut time.Time) float64 {
	return round2(checkOut.Sub(checkIn).Hours())
}

// Classify maps hours worked onto a day status. Thresholds: below 4.5 hours
// is ABSENT, 4.5 up to but excluding 9 is HALF_DAY, 9 and above is PRESENT.
func Classify(hoursWorked float64) string {
	switch {
	case hoursWorked < halfDayThresholdHours:
		return StatusAbsent
	case hoursWorked < presentThresholdHours:
		return StatusHalfDay
	default:
		return StatusPresent
	}
}

func round2(value float64) float64 {
	return math.Round(value*100) / 100
}
