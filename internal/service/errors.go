package service

import "errors"

// Common service errors
var (
	// ErrNotFound is returned when a resource is not found
	ErrNotFound = errors.New("resource not found")

	// ErrInvalidInput is returned when input validation fails. It is the
	// only error class that fails an entire pricing operation; everything
	// else degrades locally.
	ErrInvalidInput = errors.New("invalid input")

	// ErrConflict is returned on duplicates (e.g. agency code)
	ErrConflict = errors.New("resource conflict")

	// ErrAgencyNotFound is returned when an agency is not found
	ErrAgencyNotFound = errors.New("agency not found")

	// ErrRateNotFound is returned when a catalog rate is not found
	ErrRateNotFound = errors.New("service rate not found")

	// ErrRuleNotFound is returned when a pricing rule is not found
	ErrRuleNotFound = errors.New("pricing rule not found")

	// ErrInvalidBounds is returned when a rule's minPrice exceeds maxPrice
	ErrInvalidBounds = errors.New("minPrice must not exceed maxPrice")
)
