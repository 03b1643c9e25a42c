package attendance

import "errors"

var (
	ErrNoCheckIn         = errors.New("no check-in recorded for this day")
	ErrAlreadyCheckedOut = errors.New("already checked out for this day")
	ErrInvalidDuration   = errors.New("check-out must be after check-in")
)
