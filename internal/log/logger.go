// Package log is the structured logger shared by every textdrop component.
// It wraps logrus with a package-level logger and a small field helper.
package log

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"textdrop/internal/errors"

	"github.com/sirupsen/logrus"
)

var (
	isDebug = false
	logger  = NewLogger()
)

// Field is a single key/value pair attached to a log entry
type Field struct {
	Key   string
	Value interface{}
}

// F builds a Field
func F(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}

// Logger writes leveled, structured entries
type Logger struct {
	entry *logrus.Entry
	file  *os.File
}

type options struct {
	out      io.Writer
	json     bool
	filePath string
}

// Option configures a Logger
type Option func(*options)

// WithOutput sends entries to w instead of stdout
func WithOutput(w io.Writer) Option {
	return func(o *options) { o.out = w }
}

// WithJSON switches to JSON formatted entries
func WithJSON() Option {
	return func(o *options) { o.json = true }
}

// WithFile additionally appends entries to the file at path
func WithFile(path string) Option {
	return func(o *options) { o.filePath = path }
}

// NewLogger creates a logger. Without options it writes text entries to stdout.
func NewLogger(opts ...Option) *Logger {
	o := &options{out: os.Stdout}
	for _, opt := range opts {
		opt(o)
	}

	base := logrus.New()
	base.SetLevel(logrus.DebugLevel)

	l := &Logger{}
	out := o.out
	if o.filePath != "" {
		f, err := os.OpenFile(o.filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "log: cannot open %s: %v\n", o.filePath, err)
		} else {
			l.file = f
			out = io.MultiWriter(o.out, f)
		}
	}
	base.SetOutput(out)

	if o.json {
		base.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyMsg:  "message",
				logrus.FieldKeyTime: "timestamp",
			},
		})
	} else {
		base.SetFormatter(&logrus.TextFormatter{
			DisableColors:   true,
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
		})
	}

	l.entry = logrus.NewEntry(base)
	return l
}

// Configure replaces the package-level logger
func Configure(opts ...Option) {
	logger = NewLogger(opts...)
}

// SetDebug toggles debug entries for every logger
func SetDebug(debug bool) {
	isDebug = debug
}

// IsDebug reports whether debug entries are written
func IsDebug() bool {
	return isDebug
}

// Close releases the log file, if any
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}

// With returns a child logger carrying the given fields
func (l *Logger) With(fields ...Field) *Logger {
	data := make(logrus.Fields, len(fields))
	for _, f := range fields {
		data[f.Key] = f.Value
	}
	return &Logger{entry: l.entry.WithFields(data), file: l.file}
}

// WithError attaches err and, for application errors, its kind and subject
func (l *Logger) WithError(err error) *Logger {
	if err == nil {
		return l.With(F("error", "<nil>"))
	}

	fields := []Field{F("error", err.Error()), F("error_kind", int(errors.KindOf(err)))}

	var fileErr *errors.FileError
	var readErr *errors.ReadError
	var configErr *errors.ConfigError
	switch {
	case errors.As(err, &configErr):
		fields = append(fields, F("param", configErr.Param()))
	case errors.As(err, &readErr):
		fields = append(fields, F("address", readErr.Address()), F("index", readErr.Index()))
	case errors.As(err, &fileErr):
		fields = append(fields, F("path", fileErr.Path()))
	}
	return l.With(fields...)
}

func (l *Logger) Info(msg string)                          { l.log(logrus.InfoLevel, msg) }
func (l *Logger) Infof(format string, args ...interface{}) { l.log(logrus.InfoLevel, fmt.Sprintf(format, args...)) }
func (l *Logger) Warn(msg string)                          { l.log(logrus.WarnLevel, msg) }
func (l *Logger) Warnf(format string, args ...interface{}) { l.log(logrus.WarnLevel, fmt.Sprintf(format, args...)) }
func (l *Logger) Error(msg string)                         { l.log(logrus.ErrorLevel, msg) }
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.log(logrus.ErrorLevel, fmt.Sprintf(format, args...))
}

// Debug logs msg only when debug output is enabled
func (l *Logger) Debug(msg string) {
	if isDebug {
		l.log(logrus.DebugLevel, msg)
	}
}

// Debugf logs a formatted message only when debug output is enabled
func (l *Logger) Debugf(format string, args ...interface{}) {
	if isDebug {
		l.log(logrus.DebugLevel, fmt.Sprintf(format, args...))
	}
}

// log must be called directly from an exported method so the caller frame is right.
func (l *Logger) log(level logrus.Level, msg string) {
	entry := l.entry
	if _, file, line, ok := runtime.Caller(2); ok {
		entry = entry.WithField("caller", fmt.Sprintf("%s:%d", filepath.Base(file), line))
	}
	entry.Log(level, msg)
}

// LogWithFields returns the package logger with fields attached
func LogWithFields(fields ...Field) *Logger {
	return logger.With(fields...)
}

// LogWithError returns the package logger with err attached
func LogWithError(err error) *Logger {
	return logger.WithError(err)
}

// LogError logs err with a message at error level
func LogError(err error, msg string) {
	l := logger.WithError(err)
	l.log(logrus.ErrorLevel, msg)
}

func Info(msg string)                          { logger.log(logrus.InfoLevel, msg) }
func Infof(format string, args ...interface{}) { logger.log(logrus.InfoLevel, fmt.Sprintf(format, args...)) }
func Warn(msg string)                          { logger.log(logrus.WarnLevel, msg) }
func Warnf(format string, args ...interface{}) { logger.log(logrus.WarnLevel, fmt.Sprintf(format, args...)) }
func Error(msg string)                         { logger.log(logrus.ErrorLevel, msg) }
func Errorf(format string, args ...interface{}) {
	logger.log(logrus.ErrorLevel, fmt.Sprintf(format, args...))
}

// Debug logs msg on the package logger when debug output is enabled
func Debug(msg string) {
	if isDebug {
		logger.log(logrus.DebugLevel, msg)
	}
}

// Debugf logs a formatted message on the package logger when debug output is enabled
func Debugf(format string, args ...interface{}) {
	if isDebug {
		logger.log(logrus.DebugLevel, fmt.Sprintf(format, args...))
	}
}
