package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when an ID is malformed or missing.
	ErrInvalidID = errors.New("invalid ID")

	// ErrEmptyContent is returned when required content is empty.
	ErrEmptyContent = errors.New("content cannot be empty")

	// ErrInvalidDirection is returned when a practice direction is not valid.
	ErrInvalidDirection = errors.New("invalid practice direction")

	// ErrInvalidFilter is returned when a card filter option is not valid.
	ErrInvalidFilter = errors.New("invalid card filter")

	// ErrInvalidCount is returned when a requested card count is not positive.
	ErrInvalidCount = errors.New("count must be positive")
)
