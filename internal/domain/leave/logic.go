package leave

import "time"

// CalculateDays returns the inclusive day count between start and end.
func CalculateDays(start, end time.Time) (float64, error) {
	if end.Before(start) {
		return 0, ErrInvalidRange
	}
	return end.Sub(start).Hours()/24 + 1, nil
}

// Remaining computes days left on a balance. Over-use is allowed; the result
// goes negative instead of clamping at zero.
func Remaining(daysAllotted, daysUsed float64) float64 {
	return daysAllotted - daysUsed
}
