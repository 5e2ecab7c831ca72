package usecase

import "errors"

var (
	// ErrInvalidInput marks caller mistakes: bad filters, unknown sources,
	// out-of-range worker counts.
	ErrInvalidInput = errors.New("invalid input")
	// ErrUnauthorized guards the internal job endpoints.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrDependencyUnavailable wraps every sheet fetch or decode failure.
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)
