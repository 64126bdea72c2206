package bind

import (
	"errors"
	"fmt"
)

// ErrorType represents parse-time error categories.
// These are recoverable by the caller: the input was bad, not the schema.
type ErrorType string

const (
	ErrorTypeUnknownFlag          ErrorType = "unknown_flag"
	ErrorTypeMissingRequired      ErrorType = "missing_required"
	ErrorTypeCallLimitExceeded    ErrorType = "call_limit_exceeded"
	ErrorTypeUnexpectedPositional ErrorType = "unexpected_positional"
	ErrorTypeArrayFull            ErrorType = "array_full"
	ErrorTypeConversionFailed     ErrorType = "conversion_failed"
	ErrorTypeUnbound              ErrorType = "unbound"
	ErrorTypeMissingValue         ErrorType = "missing_value"
	ErrorTypeUnexpectedValue      ErrorType = "unexpected_value"
)

// ParseError is returned by Parser.Parse for the first offending token.
type ParseError struct {
	Type       ErrorType
	Message    string
	Flag       string // Display name of the entry involved, if any
	Token      string // Offending token, if any
	Position   int    // Index of the offending token in the argument list, -1 at end of input
	Suggestion string // Closest declared flag for unknown flags
	Cause      error
}

func (e *ParseError) Error() string {
	return e.Message
}

// Unwrap returns the underlying binder error, if any.
func (e *ParseError) Unwrap() error {
	return e.Cause
}

// NewParseError creates a new ParseError with the given type and message
func NewParseError(errType ErrorType, message string) *ParseError {
	return &ParseError{
		Type:     errType,
		Message:  message,
		Position: -1,
	}
}

// SetupErrorType represents schema and binding declaration defects.
// A SetupError is a programming error of the engine's caller and is never
// produced while parsing.
type SetupErrorType string

const (
	SetupEmptyName           SetupErrorType = "empty_name"
	SetupInvalidName         SetupErrorType = "invalid_name"
	SetupDuplicateName       SetupErrorType = "duplicate_name"
	SetupPositionalShortName SetupErrorType = "positional_short_name"
	SetupPositionalNoLong    SetupErrorType = "positional_without_long_name"
	SetupPositionalNoArity   SetupErrorType = "positional_zero_arity"
	SetupNegativeArity       SetupErrorType = "negative_arity"
	SetupMissingType         SetupErrorType = "missing_type"
	SetupNestedArray         SetupErrorType = "nested_array"
	SetupZeroCallLimit       SetupErrorType = "zero_call_limit"
	SetupOrderCollision      SetupErrorType = "order_collision"
	SetupOrderOutOfRange     SetupErrorType = "order_out_of_range"
	SetupDanglingName        SetupErrorType = "dangling_name"
	SetupBinderMismatch      SetupErrorType = "binder_mismatch"
	SetupUnknownBinding      SetupErrorType = "unknown_binding"
	SetupForeignRuntime      SetupErrorType = "foreign_runtime"
)

// SetupError describes one violated schema or binding invariant.
type SetupError struct {
	Type    SetupErrorType
	Message string
	Entry   int    // Declaration index of the offending entry, -1 when not tied to one
	Name    string // Display name of the offending entry or binding
}

func (e *SetupError) Error() string {
	if e.Entry >= 0 {
		return fmt.Sprintf("bind: entry %d (%s): %s", e.Entry, e.Name, e.Message)
	}
	if e.Name != "" {
		return fmt.Sprintf("bind: %s: %s", e.Name, e.Message)
	}
	return "bind: " + e.Message
}

func setupErr(typ SetupErrorType, entry int, name, format string, args ...any) *SetupError {
	return &SetupError{
		Type:    typ,
		Message: fmt.Sprintf(format, args...),
		Entry:   entry,
		Name:    name,
	}
}

// IsSetupError reports whether err (or any error joined into it) is a SetupError.
func IsSetupError(err error) bool {
	var se *SetupError
	return errors.As(err, &se)
}

// SetupErrors flattens err into its individual SetupErrors.
func SetupErrors(err error) []*SetupError {
	if err == nil {
		return nil
	}
	var out []*SetupError
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		for _, e := range joined.Unwrap() {
			out = append(out, SetupErrors(e)...)
		}
		return out
	}
	var se *SetupError
	if errors.As(err, &se) {
		out = append(out, se)
	}
	return out
}
