package payroll

import "errors"

var (
	ErrInvalidPeriod = errors.New("month must be 1-12 and year positive")
	ErrRunNotFound   = errors.New("payroll run not found")
	ErrRunExists     = errors.New("payroll run already committed for period")
	ErrEmptyRun      = errors.New("payroll run has no rows")
	ErrOfferExists   = errors.New("employee already has an offer")
	ErrOfferNotFound = errors.New("offer not found")
)
