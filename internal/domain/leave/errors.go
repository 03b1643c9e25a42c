package leave

import "errors"

var (
	ErrPolicyNotFound  = errors.New("leave policy not found")
	ErrRequestNotFound = errors.New("leave request not found")
	ErrRequestDecided  = errors.New("leave request already decided")
	ErrInvalidRange    = errors.New("end date before start date")
	ErrLWPExceedsDays  = errors.New("unpaid days exceed requested days")
)
