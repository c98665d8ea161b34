package errors

import "errors"

var (
	ErrNotFound = errors.New("booking not found")

	ErrInvalidID = errors.New("invalid booking ID format")

	// ErrSlotTaken is raised by the storage layer when a second confirmed
	// booking is written for the same date and time.
	ErrSlotTaken = errors.New("a confirmed booking already exists for this slot")

	ErrSlotLocked = errors.New("booking slot is locked by another request")
)
