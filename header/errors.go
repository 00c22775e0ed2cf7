package header

import (
	"fmt"

	"github.com/ghettovoice/httphdr/internal/errorutil"
	"github.com/ghettovoice/httphdr/internal/grammar"
)

// Error is a header package error.
type Error = errorutil.Error

// ErrInvalidArgument is matched by every constructor and setter failure.
const ErrInvalidArgument = errorutil.ErrInvalidArgument

const (
	// ErrMissingValue is returned when a required value is nil or empty.
	ErrMissingValue Error = "missing required value"
	// ErrInvalidValue is returned when a value does not match its grammar.
	ErrInvalidValue Error = "invalid value"
	// ErrOutOfRange is returned when a numeric field is outside of its allowed range.
	ErrOutOfRange Error = "value out of range"
	// ErrInvalidFormat is returned when a header value cannot be parsed.
	ErrInvalidFormat Error = "invalid format"
)

func newMissingValueError(what string) error {
	return errorutil.NewInvalidArgumentError(fmt.Errorf("%w: %s", ErrMissingValue, what)) //errtrace:skip
}

func newInvalidValueError(format string, args ...any) error {
	return errorutil.NewInvalidArgumentError(errorutil.NewWrapperError(ErrInvalidValue, fmt.Sprintf(format, args...))) //errtrace:skip
}

func newOutOfRangeError(format string, args ...any) error {
	return errorutil.NewInvalidArgumentError(errorutil.NewWrapperError(ErrOutOfRange, fmt.Sprintf(format, args...))) //errtrace:skip
}

func newFormatError(input string, index int) error {
	rest := "<empty>"
	if index >= 0 && index < len(input) {
		rest = input[index:]
	}
	return errorutil.NewWrapperError(ErrInvalidFormat, "cannot parse %q", rest) //errtrace:skip
}

func checkToken(what, s string) error {
	if s == "" {
		return newMissingValueError(what) //errtrace:skip
	}
	if !grammar.IsToken(s) {
		return newInvalidValueError("%s %q is not a token", what, s) //errtrace:skip
	}
	return nil
}
