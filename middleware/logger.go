package middleware

import (
	"io"
	"os"
	"strconv"
	"time"

	"github.com/goccy/go-json"

	"github.com/dzonerzy/go-snapbind/bind"
	"github.com/dzonerzy/go-snapbind/internal/pool"
)

// Occurrence describes one completed occurrence of an entry as seen by the
// logger.
type Occurrence struct {
	Entry     string
	Call      int
	Limit     int
	Fulfilled int
	Arity     int
	StartTime time.Time
	Duration  time.Duration
	Panic     any
}

var occurrencePool = pool.NewPoolWithReset(
	func() *Occurrence { return &Occurrence{} },
	func(o *Occurrence) { *o = Occurrence{} },
)

// Logger creates a middleware that logs every matched occurrence
func Logger(options ...MiddlewareOption) Middleware {
	config := newConfig(options)
	writer := config.Writer
	if writer == nil {
		writer = getLogWriter(config.LogOutput)
	}
	return logger(writer, config)
}

// LoggerWithWriter creates a logger middleware that writes to a specific writer
func LoggerWithWriter(writer io.Writer, options ...MiddlewareOption) Middleware {
	config := newConfig(options)
	return logger(writer, config)
}

func logger(writer io.Writer, config *MiddlewareConfig) Middleware {
	return func(next bind.Callback) bind.Callback {
		if config.LogLevel == LogLevelNone || writer == nil {
			return next
		}
		return func(e *bind.Entry, st *bind.State) {
			info := occurrencePool.Get()
			defer occurrencePool.Put(info)

			info.Entry = entryName(e)
			info.Call = st.CallCount()
			info.Limit = e.CallLimit()
			info.Fulfilled = st.Fulfilled()
			info.Arity = e.Arity()
			info.StartTime = time.Now()

			if config.LogLevel >= LogLevelDebug {
				logOccurrence(writer, config, info, "START")
			}

			// A panicking callback is logged and the panic continues upward.
			defer func() {
				if r := recover(); r != nil {
					info.Duration = time.Since(info.StartTime)
					info.Panic = r
					logOccurrence(writer, config, info, "ERROR")
					panic(r)
				}
			}()

			next(e, st)

			info.Duration = time.Since(info.StartTime)
			logOccurrence(writer, config, info, "MATCH")
		}
	}
}

func shouldLog(configLevel LogLevel, messageLevel string) bool {
	switch messageLevel {
	case "ERROR":
		return configLevel >= LogLevelError
	case "MATCH":
		return configLevel >= LogLevelInfo
	case "START":
		return configLevel >= LogLevelDebug
	default:
		return configLevel >= LogLevelInfo
	}
}

func getLogWriter(output LogOutput) io.Writer {
	switch output {
	case LogOutputStdout:
		return os.Stdout
	case LogOutputStderr:
		return os.Stderr
	case LogOutputNone:
		return nil
	default:
		return os.Stderr
	}
}

func logOccurrence(writer io.Writer, config *MiddlewareConfig, info *Occurrence, level string) {
	if !shouldLog(config.LogLevel, level) {
		return
	}
	switch config.LogFormat { // exhaustive over LogFormat
	case LogFormatJSON:
		writeJSONLog(writer, info, level, config)
	case LogFormatText:
		writeTextLog(writer, info, level, config)
	default:
		writeTextLog(writer, info, level, config)
	}
}

func writeTextLog(writer io.Writer, info *Occurrence, level string, config *MiddlewareConfig) {
	buf := pool.GetBuffer(256)
	defer pool.PutBuffer(buf)

	*buf = append(*buf, '[')
	*buf = append(*buf, info.StartTime.Format("2006-01-02 15:04:05")...)
	*buf = append(*buf, "] "...)
	*buf = append(*buf, level...)
	*buf = append(*buf, " entry="...)
	*buf = append(*buf, info.Entry...)

	if config.IncludeState {
		*buf = append(*buf, " call="...)
		*buf = strconv.AppendInt(*buf, int64(info.Call), 10)
		*buf = append(*buf, '/')
		*buf = strconv.AppendInt(*buf, int64(info.Limit), 10)
		*buf = append(*buf, " values="...)
		*buf = strconv.AppendInt(*buf, int64(info.Fulfilled), 10)
		*buf = append(*buf, '/')
		*buf = strconv.AppendInt(*buf, int64(info.Arity), 10)
	}

	if info.Duration > 0 {
		*buf = append(*buf, " duration="...)
		*buf = append(*buf, info.Duration.String()...)
	}

	if info.Panic != nil {
		*buf = append(*buf, " panic=\""...)
		*buf = append(*buf, toString(info.Panic)...)
		*buf = append(*buf, '"')
	}

	*buf = append(*buf, '\n')

	//nolint:errcheck,gosec // Logging is best-effort; ignore write errors.
	writer.Write(*buf)
}

func writeJSONLog(writer io.Writer, info *Occurrence, level string, config *MiddlewareConfig) {
	buf := pool.GetBuffer(512)
	defer pool.PutBuffer(buf)

	*buf = append(*buf, '{')
	*buf = append(*buf, `"timestamp":"`...)
	*buf = append(*buf, info.StartTime.Format(time.RFC3339)...)
	*buf = append(*buf, `","level":"`...)
	*buf = append(*buf, level...)
	*buf = append(*buf, `","entry":`...)
	enc, _ := json.Marshal(info.Entry)
	*buf = append(*buf, enc...)

	if config.IncludeState {
		*buf = append(*buf, `,"call":`...)
		*buf = strconv.AppendInt(*buf, int64(info.Call), 10)
		*buf = append(*buf, `,"call_limit":`...)
		*buf = strconv.AppendInt(*buf, int64(info.Limit), 10)
		*buf = append(*buf, `,"fulfilled":`...)
		*buf = strconv.AppendInt(*buf, int64(info.Fulfilled), 10)
		*buf = append(*buf, `,"arity":`...)
		*buf = strconv.AppendInt(*buf, int64(info.Arity), 10)
	}

	if info.Duration > 0 {
		*buf = append(*buf, `,"duration_us":`...)
		*buf = strconv.AppendInt(*buf, info.Duration.Microseconds(), 10)
	}

	if info.Panic != nil {
		*buf = append(*buf, `,"panic":`...)
		enc, _ := json.Marshal(toString(info.Panic))
		*buf = append(*buf, enc...)
	}

	*buf = append(*buf, '}', '\n')

	//nolint:errcheck,gosec // Logging is best-effort; ignore write errors.
	writer.Write(*buf)
}

// DebugLogger creates a logger with debug level (logs everything)
func DebugLogger() Middleware {
	return Logger(WithLogLevel(LogLevelDebug))
}

// InfoLogger creates a logger with info level (logs matches and panics)
func InfoLogger() Middleware {
	return Logger(WithLogLevel(LogLevelInfo))
}

// ErrorLogger creates a logger with error level (logs only panics)
func ErrorLogger() Middleware {
	return Logger(WithLogLevel(LogLevelError))
}

// JSONLogger creates a logger that outputs JSON format
func JSONLogger() Middleware {
	return Logger(WithLogFormat(LogFormatJSON))
}

// SilentLogger creates a logger that doesn't output anything (useful for testing)
func SilentLogger() Middleware {
	return Logger(func(config *MiddlewareConfig) {
		config.LogOutput = LogOutputNone
	})
}
