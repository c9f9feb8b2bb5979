package common

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/lni/dragonboat/v4/logger"
)

// slicePrefix is the storage key prefix of persisted slices. A message of the
// form "persist:<id>: text" is logged with a slice field.
const slicePrefix = "persist:"

// --------------------------------------------------------------------------
// Logfmt Logger (implements dragonboats logger.ILogger)
// --------------------------------------------------------------------------

// sliceLogger writes one logfmt line per message:
//
//	ts=2025-01-01T12:00:00Z level=debug logger=persist slice=root msg="wrote 2 fields"
type sliceLogger struct {
	name  string
	level logger.LogLevel

	mu  *sync.Mutex
	out io.Writer
	now func() time.Time
}

// outMu serializes all loggers writing to stderr.
var outMu sync.Mutex

func newSliceLogger(name string, out io.Writer, mu *sync.Mutex) *sliceLogger {
	return &sliceLogger{
		name:  name,
		level: logger.INFO,
		mu:    mu,
		out:   out,
		now:   time.Now,
	}
}

func (l *sliceLogger) SetLevel(level logger.LogLevel) {
	l.level = level
}

func (l *sliceLogger) Debugf(format string, args ...interface{}) {
	if l.level >= logger.DEBUG {
		l.write("debug", format, args)
	}
}

func (l *sliceLogger) Infof(format string, args ...interface{}) {
	if l.level >= logger.INFO {
		l.write("info", format, args)
	}
}

func (l *sliceLogger) Warningf(format string, args ...interface{}) {
	if l.level >= logger.WARNING {
		l.write("warn", format, args)
	}
}

func (l *sliceLogger) Errorf(format string, args ...interface{}) {
	if l.level >= logger.ERROR {
		l.write("error", format, args)
	}
}

func (l *sliceLogger) Panicf(format string, args ...interface{}) {
	l.write("panic", format, args)
	panic(fmt.Sprintf(format, args...))
}

func (l *sliceLogger) write(level, format string, args []interface{}) {
	slice, msg := splitSlice(fmt.Sprintf(format, args...))

	var b strings.Builder
	fmt.Fprintf(&b, "ts=%s level=%s logger=%s", l.now().UTC().Format(time.RFC3339), level, l.name)
	if slice != "" {
		fmt.Fprintf(&b, " slice=%s", slice)
	}
	fmt.Fprintf(&b, " msg=%q\n", msg)

	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = io.WriteString(l.out, b.String())
}

// splitSlice separates the slice id from a "persist:<id>: text" message.
func splitSlice(message string) (slice, rest string) {
	tail, ok := strings.CutPrefix(message, slicePrefix)
	if !ok {
		return "", message
	}
	id, rest, ok := strings.Cut(tail, ": ")
	if !ok || id == "" || strings.ContainsAny(id, " \t") {
		return "", message
	}
	return id, rest
}

// --------------------------------------------------------------------------
// Logger Factory
// --------------------------------------------------------------------------

// CreateLogger implements the dragonboat logger.Factory signature.
// Log lines go to stderr so that command output on stdout stays parseable.
func CreateLogger(pkgName string) logger.ILogger {
	return newSliceLogger(pkgName, os.Stderr, &outMu)
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

// ParseLogLevel converts a string level to logger.LogLevel
func ParseLogLevel(level string) (logger.LogLevel, error) {
	switch strings.ToLower(level) {
	case "debug":
		return logger.DEBUG, nil
	case "info", "":
		return logger.INFO, nil
	case "warning", "warn":
		return logger.WARNING, nil
	case "error":
		return logger.ERROR, nil
	default:
		return logger.INFO, fmt.Errorf("invalid log level: %s. must be one of debug, info, warn, error", level)
	}
}

// --------------------------------------------------------------------------
// Logger initialization
// --------------------------------------------------------------------------

// LoggerNames lists the package loggers of this module.
var LoggerNames = []string{"persist", "storage", "container"}

// InitLoggers installs the custom logger factory and sets the level of every
// package logger.
func InitLoggers(level string) error {
	lvl, err := ParseLogLevel(level)
	if err != nil {
		return err
	}

	logger.SetLoggerFactory(CreateLogger)
	for _, name := range LoggerNames {
		logger.GetLogger(name).SetLevel(lvl)
	}
	return nil
}
