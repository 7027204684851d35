package domain

import "errors"

// Sentinel errors for domain-level error discrimination.
// Services wrap these so handlers can map to HTTP status codes without leaking infrastructure details.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrBadRequest   = errors.New("bad request")
)

// Registration and verification flow errors. All are recoverable: the
// caller corrects its input or restarts registration; none crash the process.
var (
	ErrDuplicateEmail   = errors.New("an account with this email already exists")
	ErrDuplicatePhone   = errors.New("an account with this phone number already exists")
	ErrSessionNotFound  = errors.New("verification session not found or expired")
	ErrInvalidCode      = errors.New("invalid verification code")
	ErrInvalidLink      = errors.New("verification link invalid or expired")
	ErrEmailNotVerified = errors.New("email must be verified before the phone OTP")
)
