package middleware

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/dzonerzy/go-snapbind/bind"
)

// ValidatorFunc checks the values an occurrence just wrote. Validators read
// the destinations they were built over; the entry and state say which
// occurrence triggered the check.
type ValidatorFunc func(e *bind.Entry, st *bind.State) error

// NamedValidator associates a human-readable name with a ValidatorFunc for
// clearer error reporting and easier composition.
type NamedValidator struct {
	Name string
	Fn   ValidatorFunc
}

// Custom wraps an arbitrary ValidatorFunc with a name for reporting.
func Custom(name string, fn ValidatorFunc) NamedValidator {
	return NamedValidator{Name: name, Fn: fn}
}

// File returns a NamedValidator that ensures each path names an existing file.
func File(paths ...*string) NamedValidator {
	return NamedValidator{Name: "file_exists", Fn: FileExists(paths...)}
}

// Dir returns a NamedValidator that ensures each path names an existing directory.
func Dir(paths ...*string) NamedValidator {
	return NamedValidator{Name: "directory_exists", Fn: DirectoryExists(paths...)}
}

// Validate composes validators into a single Middleware. The wrapped callback
// runs first; validators then run in order and the first failure is handed
// to the reporter.
//
// Example:
//
//	var errs middleware.Collector
//	check := middleware.Validate([]middleware.NamedValidator{
//	    middleware.Custom("port_range", checkPort),
//	    middleware.File(&config),
//	}, middleware.WithCollector(&errs))
func Validate(validators []NamedValidator, options ...MiddlewareOption) Middleware {
	config := newConfig(options)
	validators = slices.DeleteFunc(slices.Clone(validators), func(v NamedValidator) bool {
		return v.Name == "" || v.Fn == nil
	})

	return func(next bind.Callback) bind.Callback {
		return func(e *bind.Entry, st *bind.State) {
			next(e, st)
			for _, v := range validators {
				if err := v.Fn(e, st); err != nil {
					config.report(asValidationError(v.Name, e, err))
					return
				}
			}
		}
	}
}

func asValidationError(name string, e *bind.Entry, err error) *ValidationError {
	validationErr := &ValidationError{}
	if errors.As(err, &validationErr) {
		if validationErr.Entry == "" {
			validationErr.Entry = entryName(e)
		}
		return validationErr
	}
	return &ValidationError{
		Entry:   entryName(e),
		Message: name + " validation failed for " + entryName(e),
		Cause:   err,
	}
}

// FileExists creates a validator that ensures each non-empty path points to an existing file
func FileExists(paths ...*string) ValidatorFunc {
	return func(e *bind.Entry, _ *bind.State) error {
		for _, p := range paths {
			if p == nil || *p == "" {
				continue
			}
			if err := validateFileExists(*p); err != nil {
				return &ValidationError{
					Entry:   entryName(e),
					Value:   *p,
					Message: fmt.Sprintf("file validation failed for %s", entryName(e)),
					Cause:   err,
				}
			}
		}
		return nil
	}
}

// DirectoryExists creates a validator that ensures each non-empty path points to an existing directory
func DirectoryExists(paths ...*string) ValidatorFunc {
	return func(e *bind.Entry, _ *bind.State) error {
		for _, p := range paths {
			if p == nil || *p == "" {
				continue
			}
			if err := validateDirectoryExists(*p); err != nil {
				return &ValidationError{
					Entry:   entryName(e),
					Value:   *p,
					Message: fmt.Sprintf("directory validation failed for %s", entryName(e)),
					Cause:   err,
				}
			}
		}
		return nil
	}
}

// OneOf accepts *p only when it equals one of allowed.
func OneOf(p *string, allowed ...string) ValidatorFunc {
	return func(e *bind.Entry, _ *bind.State) error {
		if slices.Contains(allowed, *p) {
			return nil
		}
		return &ValidationError{
			Entry:   entryName(e),
			Value:   *p,
			Message: fmt.Sprintf("%s must be one of %s, got %q", entryName(e), strings.Join(allowed, ", "), *p),
		}
	}
}

// Range accepts every value the occurrence wrote into view if it lies in
// [lo, hi]. An array cursor keeps advancing across repeated occurrences, so
// the window ends at the cursor and spans Fulfilled() slots.
func Range[T int | float64](view []T, lo, hi T) ValidatorFunc {
	return func(e *bind.Entry, st *bind.State) error {
		end := st.Fulfilled()
		if b := st.Binder(); b.IsArray() {
			end = b.Len()
		}
		end = min(end, len(view))
		start := max(end-st.Fulfilled(), 0)
		for i, v := range view[start:end] {
			if v < lo || v > hi {
				return &ValidationError{
					Entry:   entryName(e),
					Value:   v,
					Message: fmt.Sprintf("%s value %d out of range [%v, %v]: %v", entryName(e), start+i+1, lo, hi, v),
				}
			}
		}
		return nil
	}
}

// Semver accepts *p when it parses as a semantic version satisfying
// constraint. An invalid constraint makes every check fail.
func Semver(p *string, constraint string) ValidatorFunc {
	c, cerr := semver.NewConstraint(constraint)
	return func(e *bind.Entry, _ *bind.State) error {
		if cerr != nil {
			return cerr
		}
		v, err := semver.NewVersion(*p)
		if err != nil {
			return &ValidationError{
				Entry:   entryName(e),
				Value:   *p,
				Message: fmt.Sprintf("%s is not a semantic version", entryName(e)),
				Cause:   err,
			}
		}
		if !c.Check(v) {
			return &ValidationError{
				Entry:   entryName(e),
				Value:   *p,
				Message: fmt.Sprintf("%s %s does not satisfy %s", entryName(e), v, constraint),
			}
		}
		return nil
	}
}

func validateFileExists(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", path)
	}
	return nil
}

func validateDirectoryExists(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", path)
	}
	return nil
}

// NoopValidator creates a validator that doesn't perform any validation.
func NoopValidator() Middleware {
	return func(next bind.Callback) bind.Callback {
		return next
	}
}

// FileSystemValidator checks file and directory existence after each occurrence.
func FileSystemValidator(files, dirs []*string, options ...MiddlewareOption) Middleware {
	var validators []NamedValidator
	if len(files) > 0 {
		validators = append(validators, File(files...))
	}
	if len(dirs) > 0 {
		validators = append(validators, Dir(dirs...))
	}
	return Validate(validators, options...)
}
