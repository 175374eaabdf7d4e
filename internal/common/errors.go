// Package common defines shared constants and sentinel errors used across
// the archive server layers. Callers should use errors.Is to match these
// values; detail is attached by wrapping, e.g.
//
//	fmt.Errorf("%w: file name is required", common.ErrorValidation)
package common

import (
	"errors"
	"fmt"
)

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors.
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorAccessDenied = errors.New("access denied")
	ErrorConflict     = errors.New("conflict")
	ErrorValidation   = errors.New("validation error")

	// ErrAlreadyProcessed is reported when a transfer or access request has
	// already left the pending state. It matches ErrorConflict.
	ErrAlreadyProcessed = fmt.Errorf("%w: already processed", ErrorConflict)

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)
