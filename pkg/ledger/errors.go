package ledger

import (
	"errors"
	"fmt"
)

var (
	ErrRecordNotFound = errors.New("user record not found")
	ErrRecordExists   = errors.New("user record already exists")
	ErrEntryNotFound  = errors.New("entry not found")
)

// ValidationError reports a malformed or out-of-range field on entry creation
// or edit. The mutation is never applied.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// PolicyViolation wraps a date-window rejection: the date is past, outside
// the allowed current/next-month window, or unparseable.
type PolicyViolation struct {
	Err error
}

func (e *PolicyViolation) Error() string {
	return fmt.Sprintf("date not allowed: %v", e.Err)
}

func (e *PolicyViolation) Unwrap() error {
	return e.Err
}
