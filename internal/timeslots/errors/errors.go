package errors

import "errors"

var (
	ErrNotFound = errors.New("time slot policy not found")

	ErrInvalidDate = errors.New("invalid date, expected YYYY-MM-DD")
)
