package apperr

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// Sentinel error kinds every service returns. Callers branch with errors.Is;
// handlers map them to HTTP status codes via response.FromError.
var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")
)

// ValidationError reports a domain-rule violation (monotonicity, duplicate
// initial state, negative consumption, re-billing, referential refusals).
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

// Validationf builds a ValidationError with a formatted message.
func Validationf(format string, args ...interface{}) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// NotFoundf wraps ErrNotFound with context.
func NotFoundf(format string, args ...interface{}) error {
	return fmt.Errorf(format+": %w", append(args, ErrNotFound)...)
}

// Conflictf wraps ErrConflict with context.
func Conflictf(format string, args ...interface{}) error {
	return fmt.Errorf(format+": %w", append(args, ErrConflict)...)
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// FromDB translates GORM errors into domain error kinds. Record-not-found
// becomes ErrNotFound, duplicate-key (the lost side of an optimistic append
// race) becomes ErrConflict. Anything else passes through untouched.
func FromDB(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return NotFoundf("%s", what)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return Conflictf("%s", what)
	default:
		return fmt.Errorf("%s: %w", what, err)
	}
}
