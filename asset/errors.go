/*
errors.go - Centralized error types for the asset engine

PURPOSE:
  All error types in one place for consistency and discoverability.
  Higher layers (api, store) wrap these with additional context.

ERROR CATEGORIES:
  1. Validation errors - Malformed booking proposals; recoverable
  2. Configuration errors - Invalid useful-life table entries; fatal
  3. Not-found errors - Missing assets/reservations/employees

Unusual but representable data (zero price, future purchase date,
expired reservations) is never an error; those are defined edge cases
handled by the finance and booking packages.

USAGE:
  if errors.Is(err, asset.ErrValidation) {
      // reject the proposal, let the caller pick another slot
  }
*/
package asset

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrValidation is the root of all proposal validation failures.
	ErrValidation = errors.New("validation failed")

	// ErrConfiguration is the root of all configuration failures.
	ErrConfiguration = errors.New("invalid configuration")

	// ErrUnclassifiedAsset is returned when a book value is requested
	// for an asset whose net value cannot be resolved. Callers must
	// classify first; the calculator refuses to run on Unclassified.
	ErrUnclassifiedAsset = errors.New("asset is unclassified")

	// ErrAssetNotFound is returned when a referenced asset doesn't exist.
	ErrAssetNotFound = errors.New("asset not found")

	// ErrEmployeeNotFound is returned when a referenced employee doesn't exist.
	ErrEmployeeNotFound = errors.New("employee not found")

	// ErrReservationNotFound is returned when a referenced reservation doesn't exist.
	ErrReservationNotFound = errors.New("reservation not found")

	// ErrDuplicateID is returned when creating a record whose ID already exists.
	ErrDuplicateID = errors.New("duplicate id")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// Validation error codes.
const (
	CodeInvalidInterval = "invalid_interval"
	CodeNotPoolDevice   = "not_pool_device"
	CodeBookingConflict = "booking_conflict"
	CodeInvalidStatus   = "invalid_status"
	CodeProposalAborted = "proposal_aborted"
)

// ValidationError describes a rejected booking proposal or transition.
// Always recoverable: nothing was written when one is returned.
type ValidationError struct {
	Code    string
	Message string

	// ConflictingID is set for booking_conflict errors and names the
	// existing reservation that blocked the proposal.
	ConflictingID string
}

func (e *ValidationError) Error() string {
	if e.ConflictingID != "" {
		return fmt.Sprintf("%s: %s (conflicts with %s)", e.Code, e.Message, e.ConflictingID)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// ConfigurationError describes invalid injected configuration, such as
// a useful-life table entry of zero months. Fatal: surfaced immediately,
// never silently defaulted beyond the documented 36-month fallback.
type ConfigurationError struct {
	Field   string
	Message string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration: %s: %s", e.Field, e.Message)
}

func (e *ConfigurationError) Unwrap() error {
	return ErrConfiguration
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid client input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsNotFound returns true if the error indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrAssetNotFound) ||
		errors.Is(err, ErrEmployeeNotFound) ||
		errors.Is(err, ErrReservationNotFound)
}
