package services

import "errors"

var (
	// ErrNotFound covers both "does not exist" and "exists but not yours".
	// The two are deliberately indistinguishable to the caller.
	ErrNotFound = errors.New("subscription not found")

	// ErrMissingService means a create request carried neither a service id
	// nor enough service details to create one.
	ErrMissingService = errors.New("service information is required")
)

// ValidationError rejects a malformed input field before any mutation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Reason
}
