package middleware

import (
	"fmt"
	"io"
	"runtime"
	"sync"

	"github.com/dzonerzy/go-snapbind/bind"
)

// Recovery creates a middleware that recovers from panics raised by a
// callback. The panic becomes a *RecoveryError handed to the configured
// reporter, and parsing continues with the next token.
func Recovery(options ...MiddlewareOption) Middleware {
	config := newConfig(options)
	return RecoveryWithHandler(func(panicVal any, entry string, stack []byte) {
		recoveryErr := &RecoveryError{Panic: panicVal, Entry: entry, Stack: stack}
		if config.PrintStack && len(stack) > 0 {
			if w := stackWriter(config); w != nil {
				fmt.Fprintf(w, "PANIC in callback for '%s': %v\n", entry, panicVal)
				fmt.Fprintf(w, "Stack trace:\n%s\n", stack)
			}
		}
		config.report(recoveryErr)
	}, options...)
}

// RecoveryWithHandler creates a recovery middleware with a custom panic handler
func RecoveryWithHandler(handler func(panicVal any, entry string, stack []byte), options ...MiddlewareOption) Middleware {
	config := newConfig(options)

	return func(next bind.Callback) bind.Callback {
		return func(e *bind.Entry, st *bind.State) {
			defer func() {
				if r := recover(); r != nil {
					handler(r, entryName(e), captureStack(config))
				}
			}()
			next(e, st)
		}
	}
}

// RecoveryToError recovers without printing stack traces; panics reach report
// as *RecoveryError values.
func RecoveryToError(report func(error)) Middleware {
	return Recovery(WithStackTrace(false), WithReporter(report))
}

// NoopRecovery creates a recovery middleware that doesn't actually recover
// (useful for development when you want panics to crash the program)
func NoopRecovery() Middleware {
	return func(next bind.Callback) bind.Callback {
		return next
	}
}

// RecoveryStats tracks recovery statistics. It is safe for concurrent use.
type RecoveryStats struct {
	mu          sync.Mutex
	TotalPanics int
	EntryPanics map[string]int
	LastPanic   *RecoveryError
}

// NewRecoveryStats creates a new recovery statistics tracker
func NewRecoveryStats() *RecoveryStats {
	return &RecoveryStats{EntryPanics: make(map[string]int)}
}

// Snapshot returns the panic count and the count for entry.
func (s *RecoveryStats) Snapshot(entry string) (total, forEntry int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.TotalPanics, s.EntryPanics[entry]
}

// RecoveryWithStats creates a recovery middleware that tracks statistics
func RecoveryWithStats(stats *RecoveryStats, options ...MiddlewareOption) Middleware {
	config := newConfig(options)
	return RecoveryWithHandler(func(panicVal any, entry string, stack []byte) {
		recoveryErr := &RecoveryError{Panic: panicVal, Entry: entry, Stack: stack}

		stats.mu.Lock()
		stats.TotalPanics++
		stats.EntryPanics[entry]++
		stats.LastPanic = recoveryErr
		stats.mu.Unlock()

		config.report(recoveryErr)
	}, options...)
}

func captureStack(config *MiddlewareConfig) []byte {
	if !config.PrintStack || config.StackSize <= 0 {
		return nil
	}
	stack := make([]byte, config.StackSize)
	return stack[:runtime.Stack(stack, false)]
}

func stackWriter(config *MiddlewareConfig) io.Writer {
	if config.Writer != nil {
		return config.Writer
	}
	return getLogWriter(config.LogOutput)
}
