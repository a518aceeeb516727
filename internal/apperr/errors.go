package apperr

import "errors"

// Sentinel errors for expected workflow outcomes. Services return these
// (possibly wrapped with %w) instead of free-form error strings so handlers
// can map them to HTTP codes with errors.Is.
var (
	ErrValidation       = errors.New("validation failed")
	ErrNotFound         = errors.New("not found")
	ErrDuplicateEmail   = errors.New("email already registered or pending verification")
	ErrInvalidOtp       = errors.New("invalid otp")
	ErrOtpExpired       = errors.New("otp expired")
	ErrAlreadyAccepted  = errors.New("donation already accepted")
	ErrNotAccepted      = errors.New("donation not accepted yet")
	ErrUnauthorized     = errors.New("invalid credentials")
	ErrForbidden        = errors.New("access denied")
	ErrCandidateBlocked = errors.New("candidate is blocked")
	ErrNoData           = errors.New("no data for the requested range")
)
