// Package middleware wraps bind callbacks with cross-cutting behavior:
// logging of matched occurrences, panic recovery and value validation.
package middleware

import (
	"errors"
	"io"
	"sync"

	"github.com/dzonerzy/go-snapbind/bind"
)

// Middleware decorates a callback. The returned callback is attached to a
// Runtime with bind.Handle and runs synchronously inside Parse.
type Middleware func(next bind.Callback) bind.Callback

// MiddlewareChain represents a chain of middleware functions
type MiddlewareChain []Middleware

// Apply applies the middleware chain to a callback. Middleware are wrapped
// in the order they appear in the chain. A nil callback is replaced by a no-op
// so that logging and validation still run for entries without a handler.
func (chain MiddlewareChain) Apply(cb bind.Callback) bind.Callback {
	if cb == nil {
		cb = noop
	}
	for i := len(chain) - 1; i >= 0; i-- {
		cb = chain[i](cb)
	}
	return cb
}

// Use returns a new chain with the provided middleware appended.
func (chain MiddlewareChain) Use(middleware ...Middleware) MiddlewareChain {
	out := make(MiddlewareChain, 0, len(chain)+len(middleware))
	out = append(out, chain...)
	return append(out, middleware...)
}

// Handle is shorthand for bind.Handle(name, chain.Apply(cb)).
func (chain MiddlewareChain) Handle(name string, cb bind.Callback) bind.Binding {
	return bind.Handle(name, chain.Apply(cb))
}

// Chain creates a new middleware chain from the provided middleware, preserving
// order.
func Chain(middleware ...Middleware) MiddlewareChain {
	return MiddlewareChain(middleware)
}

func noop(*bind.Entry, *bind.State) {}

// ValidationError represents a value rejected by a validator after it was bound.
type ValidationError struct {
	Entry   string
	Value   any
	Message string
	Cause   error
}

func (e *ValidationError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *ValidationError) Unwrap() error { return e.Cause }

// RecoveryError represents a panic recovered from a callback
type RecoveryError struct {
	Panic any
	Entry string
	Stack []byte
}

func (e *RecoveryError) Error() string {
	return "callback for '" + e.Entry + "' panicked: " + toString(e.Panic)
}

// Collector gathers errors reported by middleware during a parse. Callbacks
// cannot fail a parse, so validators and recovery report here and the caller
// inspects Err once Parse returned. A Collector is safe for concurrent use.
type Collector struct {
	mu   sync.Mutex
	errs []error
}

// Report records err. Nil errors are ignored.
func (c *Collector) Report(err error) {
	if err == nil {
		return
	}
	c.mu.Lock()
	c.errs = append(c.errs, err)
	c.mu.Unlock()
}

// Err returns the reported errors joined, or nil.
func (c *Collector) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return errors.Join(c.errs...)
}

// Len returns the number of reported errors.
func (c *Collector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.errs)
}

// Reset forgets every reported error.
func (c *Collector) Reset() {
	c.mu.Lock()
	c.errs = c.errs[:0]
	c.mu.Unlock()
}

// Configuration types

// MiddlewareConfig contains configuration for middleware behavior
type MiddlewareConfig struct {
	LogLevel     LogLevel
	LogOutput    LogOutput
	LogFormat    LogFormat
	Writer       io.Writer
	IncludeState bool
	PrintStack   bool
	StackSize    int
	Reporter     func(error)
}

// LogLevel represents logging levels
type LogLevel int

const (
	LogLevelNone LogLevel = iota
	LogLevelError
	LogLevelWarn
	LogLevelInfo
	LogLevelDebug
)

// LogOutput represents log output destinations
type LogOutput int

const (
	LogOutputStderr LogOutput = iota
	LogOutputStdout
	LogOutputNone
)

// LogFormat represents log formats
type LogFormat int

const (
	LogFormatText LogFormat = iota
	LogFormatJSON
)

// MiddlewareOption configures a MiddlewareConfig.
type MiddlewareOption func(config *MiddlewareConfig)

func DefaultConfig() *MiddlewareConfig {
	return &MiddlewareConfig{
		LogLevel:     LogLevelInfo,
		LogOutput:    LogOutputStderr,
		LogFormat:    LogFormatText,
		IncludeState: true,
		PrintStack:   true,
		StackSize:    4096,
	}
}

func newConfig(options []MiddlewareOption) *MiddlewareConfig {
	config := DefaultConfig()
	for _, option := range options {
		option(config)
	}
	return config
}

func WithLogLevel(level LogLevel) MiddlewareOption {
	return func(config *MiddlewareConfig) {
		config.LogLevel = level
	}
}

func WithLogFormat(format LogFormat) MiddlewareOption {
	return func(config *MiddlewareConfig) {
		config.LogFormat = format
	}
}

// WithWriter sends output to w instead of the LogOutput destination.
func WithWriter(w io.Writer) MiddlewareOption {
	return func(config *MiddlewareConfig) {
		config.Writer = w
	}
}

func WithStackTrace(enabled bool) MiddlewareOption {
	return func(config *MiddlewareConfig) {
		config.PrintStack = enabled
	}
}

// WithReporter routes recovered panics and validation failures to report.
func WithReporter(report func(error)) MiddlewareOption {
	return func(config *MiddlewareConfig) {
		config.Reporter = report
	}
}

// WithCollector is WithReporter(c.Report).
func WithCollector(c *Collector) MiddlewareOption {
	return WithReporter(c.Report)
}

func (config *MiddlewareConfig) report(err error) {
	if config.Reporter != nil {
		config.Reporter(err)
	}
}

// Utility functions

func toString(v any) string {
	if v == nil {
		return "<nil>"
	}
	if s, ok := v.(string); ok {
		return s
	}
	if err, ok := v.(error); ok {
		return err.Error()
	}
	return "<unknown>"
}

func entryName(e *bind.Entry) string {
	if e == nil {
		return "unknown"
	}
	return e.DisplayName()
}
