// Package calcerr defines the error kinds reported by the forecasting and
// savings engine. Operations wrap one of the sentinels with context so callers
// can branch with errors.Is.
package calcerr

import (
	"errors"
	"fmt"
)

var (
	// ErrInsufficientData means a series is too short for the requested computation.
	ErrInsufficientData = errors.New("insufficient data")

	// ErrInvalidData means a value in the input is non-finite or non-positive where positivity is required.
	ErrInvalidData = errors.New("invalid data")

	// ErrDegenerateRange means the elapsed time of a series is zero or negative.
	ErrDegenerateRange = errors.New("degenerate range")

	// ErrInvalidParameter means a caller-supplied parameter is out of bounds.
	ErrInvalidParameter = errors.New("invalid parameter")
)

// InsufficientData wraps ErrInsufficientData.
func InsufficientData(format string, args ...interface{}) error {
	return wrap(ErrInsufficientData, format, args...)
}

// InvalidData wraps ErrInvalidData.
func InvalidData(format string, args ...interface{}) error {
	return wrap(ErrInvalidData, format, args...)
}

// DegenerateRange wraps ErrDegenerateRange.
func DegenerateRange(format string, args ...interface{}) error {
	return wrap(ErrDegenerateRange, format, args...)
}

// InvalidParameter wraps ErrInvalidParameter.
func InvalidParameter(format string, args ...interface{}) error {
	return wrap(ErrInvalidParameter, format, args...)
}

func wrap(kind error, format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", kind, fmt.Sprintf(format, args...))
}

// Kind returns the sentinel an error wraps, or nil when it is not an engine error.
func Kind(err error) error {
	for _, kind := range []error{ErrInsufficientData, ErrInvalidData, ErrDegenerateRange, ErrInvalidParameter} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}
