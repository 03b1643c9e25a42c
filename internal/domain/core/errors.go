package core

import "errors"

var (
	ErrEmployeeNotFound = errors.New("employee not found")
	ErrEmailTaken       = errors.New("email already in use")
	ErrMissingFields    = errors.New("first name, last name and email are required")
)
