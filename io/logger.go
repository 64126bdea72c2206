package snapio

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

// LogLevel is the severity of a log message.
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelSuccess
	LevelWarning
	LevelError
)

// String returns the string representation of the log level
func (l LogLevel) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelSuccess:
		return "SUCCESS"
	case LevelWarning:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// LogFormat selects how a line is prefixed.
type LogFormat int

const (
	LogFormatCircles LogFormat = iota // 🟣 🔵 🟢 🟡 🔴
	LogFormatSymbols                  // ● ◆ ✓ ▲ ✗
	LogFormatTagged                   // [DEBUG] [INFO] ...
	LogFormatPlain                    // no prefix
	LogFormatCustom                   // user template
)

var formatPrefixes = map[LogFormat][5]string{
	LogFormatCircles: {"🟣", "🔵", "🟢", "🟡", "🔴"},
	LogFormatSymbols: {"●", "◆", "✓", "▲", "✗"},
	LogFormatTagged:  {"[DEBUG]", "[INFO]", "[SUCCESS]", "[WARN]", "[ERROR]"},
}

// Logger writes levelled, optionally coloured lines through an IOManager.
// It is safe for concurrent use.
type Logger struct {
	io           *IOManager
	mu           sync.Mutex
	threshold    LogLevel
	format       LogFormat
	template     string
	prefixes     [5]string
	withTime     bool
	timeFormat   string
	errorsStderr bool
	theme        Theme
}

// NewLogger creates a logger at LevelInfo with the circles format.
func NewLogger(m *IOManager) *Logger {
	return &Logger{
		io:           m,
		threshold:    LevelInfo,
		format:       LogFormatCircles,
		prefixes:     formatPrefixes[LogFormatCircles],
		timeFormat:   "15:04:05",
		errorsStderr: true,
		theme:        DefaultTheme(m),
	}
}

// WithLevel drops messages below level.
func (l *Logger) WithLevel(level LogLevel) *Logger {
	l.threshold = level
	return l
}

// WithFormat sets the prefix format and returns the logger for chaining
func (l *Logger) WithFormat(format LogFormat) *Logger {
	l.format = format
	switch format {
	case LogFormatPlain:
		l.prefixes = [5]string{}
	case LogFormatCustom:
	default:
		l.prefixes = formatPrefixes[format]
	}
	return l
}

// WithTemplate switches to LogFormatCustom. Template variables:
// {{.Level}}, {{.Time}}, {{.Message}}, {{.Prefix}}.
func (l *Logger) WithTemplate(template string) *Logger {
	l.template = template
	l.format = LogFormatCustom
	return l
}

// SetPrefix overrides the prefix of one level.
func (l *Logger) SetPrefix(level LogLevel, prefix string) *Logger {
	if level >= LevelDebug && level <= LevelError {
		l.prefixes[level] = prefix
	}
	return l
}

// WithTimestamp enables or disables timestamps.
func (l *Logger) WithTimestamp(enabled bool) *Logger {
	l.withTime = enabled
	return l
}

// WithTimeFormat sets the time layout.
func (l *Logger) WithTimeFormat(layout string) *Logger {
	l.timeFormat = layout
	return l
}

// ErrorsToStderr controls whether errors and warnings go to stderr
func (l *Logger) ErrorsToStderr(enabled bool) *Logger {
	l.errorsStderr = enabled
	return l
}

// WithTheme sets the semantic colours.
func (l *Logger) WithTheme(theme Theme) *Logger {
	l.theme = theme
	return l
}

// Enabled reports whether messages at level would be written.
func (l *Logger) Enabled(level LogLevel) bool {
	return l != nil && level >= l.threshold
}

// Log writes one line at level.
func (l *Logger) Log(level LogLevel, format string, args ...any) {
	if !l.Enabled(level) {
		return
	}
	line := l.render(level, fmt.Sprintf(format, args...))

	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.writer(level), line)
}

func (l *Logger) render(level LogLevel, msg string) string {
	if strings.TrimSpace(msg) == "" {
		return msg
	}
	var prefix string
	if level >= LevelDebug && level <= LevelError {
		prefix = l.prefixes[level]
	}

	if l.format == LogFormatCustom && l.template != "" {
		r := strings.NewReplacer(
			"{{.Level}}", level.String(),
			"{{.Message}}", msg,
			"{{.Prefix}}", prefix,
			"{{.Time}}", time.Now().Format(l.timeFormat),
		)
		return l.colorize(level, r.Replace(l.template))
	}

	parts := make([]string, 0, 3)
	if prefix != "" {
		parts = append(parts, prefix)
	}
	if l.withTime {
		parts = append(parts, "["+time.Now().Format(l.timeFormat)+"]")
	}
	parts = append(parts, msg)
	return l.colorize(level, strings.Join(parts, " "))
}

func (l *Logger) colorize(level LogLevel, text string) string {
	var c Color
	switch level {
	case LevelDebug:
		c = l.theme.Debug
	case LevelInfo:
		c = l.theme.Info
	case LevelSuccess:
		c = l.theme.Success
	case LevelWarning:
		c = l.theme.Warning
	case LevelError:
		c = l.theme.Error
	default:
		return text
	}
	return NewStyle().Fg(c).Sprint(l.io, text)
}

func (l *Logger) writer(level LogLevel) io.Writer {
	if l.errorsStderr && level >= LevelWarning {
		return l.io.Err()
	}
	return l.io.Out()
}

// Debug logs a debug message (purple circle by default)
func (l *Logger) Debug(format string, args ...any) { l.Log(LevelDebug, format, args...) }

// Info logs an informational message (blue circle by default)
func (l *Logger) Info(format string, args ...any) { l.Log(LevelInfo, format, args...) }

// Success logs a success message (green circle by default)
func (l *Logger) Success(format string, args ...any) { l.Log(LevelSuccess, format, args...) }

// Warning logs a warning message (yellow circle by default)
func (l *Logger) Warning(format string, args ...any) { l.Log(LevelWarning, format, args...) }

// Error logs an error message (red circle by default)
func (l *Logger) Error(format string, args ...any) { l.Log(LevelError, format, args...) }
