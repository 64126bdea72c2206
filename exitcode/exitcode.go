// Package exitcode maps bind parse and setup errors, and any error type the
// program registers, to process exit codes. The bind engine itself stops at
// returning structured errors; this package is for the code around Parse.
package exitcode

import (
	"errors"
	"reflect"

	"github.com/dzonerzy/go-snapbind/bind"
)

// Error requests a specific process exit code. Callbacks and the code
// around Parse can return one to override the mapping below.
type Error struct {
	Code int
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return "exit"
}

func (e *Error) Unwrap() error { return e.Err }

// Defaults holds common default codes.
type Defaults struct {
	Success         int // default: 0
	GeneralError    int // default: 1
	MisusageError   int // default: 2
	ValidationError int // default: 3
	SetupError      int // default: 70
}

func defaultExitDefaults() Defaults {
	return Defaults{Success: 0, GeneralError: 1, MisusageError: 2, ValidationError: 3, SetupError: 70}
}

type typedCode struct {
	typ  reflect.Type
	code int
}

// Manager maps errors to process exit codes.
type Manager struct {
	byParse  map[bind.ErrorType]int
	byType   []typedCode
	defaults Defaults
}

// New returns a manager with every parse error category mapped:
// conversion failures to ValidationError, the rest to MisusageError.
func New() *Manager {
	m := &Manager{
		byParse:  make(map[bind.ErrorType]int),
		defaults: defaultExitDefaults(),
	}
	for _, typ := range []bind.ErrorType{
		bind.ErrorTypeUnknownFlag,
		bind.ErrorTypeMissingRequired,
		bind.ErrorTypeCallLimitExceeded,
		bind.ErrorTypeUnexpectedPositional,
		bind.ErrorTypeArrayFull,
		bind.ErrorTypeMissingValue,
		bind.ErrorTypeUnexpectedValue,
	} {
		m.byParse[typ] = m.defaults.MisusageError
	}
	m.byParse[bind.ErrorTypeConversionFailed] = m.defaults.ValidationError
	m.byParse[bind.ErrorTypeUnbound] = m.defaults.GeneralError
	return m
}

// DefineError maps errors of err's dynamic type to code. Earlier definitions
// win when several types match.
func (m *Manager) DefineError(err error, code int) *Manager {
	if err == nil {
		return m
	}
	m.byType = append(m.byType, typedCode{typ: reflect.TypeOf(err), code: code})
	return m
}

// DefineParse overrides the code used for a parse error category.
func (m *Manager) DefineParse(typ bind.ErrorType, code int) *Manager {
	m.byParse[typ] = code
	return m
}

// Default replaces the manager's default codes. Category mappings made by
// NewExitCodes keep their values.
func (m *Manager) Default(d Defaults) *Manager {
	m.defaults = d
	return m
}

// Resolve converts an error to an exit code.
// Precedence:
//  1. Error (requested code)
//  2. SetupError
//  3. ParseError category mapping (DefineParse)
//  4. Concrete error type mapping (DefineError)
//  5. GeneralError
func (m *Manager) Resolve(err error) int {
	if err == nil {
		return m.defaults.Success
	}

	var exitErr *Error
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	if bind.IsSetupError(err) {
		return m.defaults.SetupError
	}

	var pe *bind.ParseError
	if errors.As(err, &pe) {
		if code, ok := m.byParse[pe.Type]; ok {
			return code
		}
		return m.defaults.GeneralError
	}

	for _, tc := range m.byType {
		if errors.As(err, reflect.New(tc.typ).Interface()) {
			return tc.code
		}
	}

	return m.defaults.GeneralError
}
