// Package errors provides standardized error handling for textdrop.
// It defines common error types, constants, and helper functions for consistent
// error creation, wrapping, and handling across the application.
package errors

import (
	"errors"
	"fmt"
)

// Standard errors package errors that we re-export for convenience
var (
	// Unwrap unwraps an error to access the underlying error
	Unwrap = errors.Unwrap
	// Is reports whether any error in err's chain matches target
	Is = errors.Is
	// As finds the first error in err's chain that matches target
	As = errors.As
	// Join returns an error that wraps the given errors
	Join = errors.Join
)

// ErrorKind represents the kind of error
type ErrorKind int

// Error kinds
const (
	Unknown ErrorKind = iota
	// File error kinds
	FileNotFound
	FileAccessDenied
	InvalidPath
	// Read error kinds
	ReadFailed
	AddressUnresolved
	PayloadTooLarge
	// Config error kinds
	InvalidConfig
	ConfigNotFound
	// Gesture error kinds
	GestureInProgress
	NoGesture
	TargetClosed
	// Payload error kinds
	DecodeFailed
)

// Common error constants for frequently occurring errors
var (
	ErrGestureInProgress = NewGestureError("drop gesture already in progress", GestureInProgress)
	ErrNoGesture         = NewGestureError("no drop gesture in progress", NoGesture)
	ErrTargetClosed      = NewGestureError("drop target closed", TargetClosed)
)

// ApplicationError is the base error type for all application errors
type ApplicationError struct {
	msg  string
	err  error
	kind ErrorKind
}

// Error returns the error message
func (e *ApplicationError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.err)
	}
	return e.msg
}

// Unwrap returns the wrapped error
func (e *ApplicationError) Unwrap() error {
	return e.err
}

// Kind returns the kind of error
func (e *ApplicationError) Kind() ErrorKind {
	return e.kind
}

// FileError represents errors related to file operations
type FileError struct {
	ApplicationError
	path string
}

// NewFileError creates a new file error
func NewFileError(msg string, path string, kind ErrorKind, err error) *FileError {
	return &FileError{
		ApplicationError: ApplicationError{
			msg:  msg,
			err:  err,
			kind: kind,
		},
		path: path,
	}
}

// Error returns the file error message
func (e *FileError) Error() string {
	if e.path != "" {
		if e.err != nil {
			return fmt.Sprintf("%s: %s: %v", e.msg, e.path, e.err)
		}
		return fmt.Sprintf("%s: %s", e.msg, e.path)
	}
	return e.ApplicationError.Error()
}

// Path returns the file path associated with the error
func (e *FileError) Path() string {
	return e.path
}

// ReadError reports that a dropped item could not produce text content.
type ReadError struct {
	ApplicationError
	address string
	index   int
}

// NewReadError creates a read error for the item at index in the pending drop
func NewReadError(msg string, address string, index int, kind ErrorKind, err error) *ReadError {
	return &ReadError{
		ApplicationError: ApplicationError{
			msg:  msg,
			err:  err,
			kind: kind,
		},
		address: address,
		index:   index,
	}
}

// Error returns the read error message
func (e *ReadError) Error() string {
	if e.address != "" {
		if e.err != nil {
			return fmt.Sprintf("%s: %s: %v", e.msg, e.address, e.err)
		}
		return fmt.Sprintf("%s: %s", e.msg, e.address)
	}
	return e.ApplicationError.Error()
}

// Address returns the address that failed to read
func (e *ReadError) Address() string {
	return e.address
}

// Index returns the position of the failed item within its drop
func (e *ReadError) Index() int {
	return e.index
}

// ConfigError represents errors related to configuration
type ConfigError struct {
	ApplicationError
	param string
}

// NewConfigError creates a new configuration error
func NewConfigError(msg string, param string, kind ErrorKind, err error) *ConfigError {
	return &ConfigError{
		ApplicationError: ApplicationError{
			msg:  msg,
			err:  err,
			kind: kind,
		},
		param: param,
	}
}

// Error returns the config error message
func (e *ConfigError) Error() string {
	if e.param != "" {
		if e.err != nil {
			return fmt.Sprintf("%s: %s: %v", e.msg, e.param, e.err)
		}
		return fmt.Sprintf("%s: %s", e.msg, e.param)
	}
	return e.ApplicationError.Error()
}

// Param returns the configuration parameter associated with the error
func (e *ConfigError) Param() string {
	return e.param
}

// GestureError is returned when an adapter notification does not fit the
// current drop lifecycle.
type GestureError struct {
	ApplicationError
}

// NewGestureError creates a new gesture error
func NewGestureError(msg string, kind ErrorKind) *GestureError {
	return &GestureError{
		ApplicationError: ApplicationError{
			msg:  msg,
			kind: kind,
		},
	}
}

// Is matches gesture errors by kind so callers can compare against
// ErrGestureInProgress and ErrNoGesture.
func (e *GestureError) Is(target error) bool {
	t, ok := target.(*GestureError)
	return ok && t.kind == e.kind
}

// New creates a new error with a message
func New(msg string) error {
	return &ApplicationError{
		msg:  msg,
		kind: Unknown,
	}
}

// NewKind creates a new error of the given kind
func NewKind(msg string, kind ErrorKind, err error) error {
	return &ApplicationError{
		msg:  msg,
		err:  err,
		kind: kind,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return &ApplicationError{
		msg:  msg,
		err:  err,
		kind: Unknown,
	}
}

// Wrapf wraps an existing error with additional formatted context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return &ApplicationError{
		msg:  fmt.Sprintf(format, args...),
		err:  err,
		kind: Unknown,
	}
}

// KindOf returns the first known kind in err's chain, skipping plain wraps
func KindOf(err error) ErrorKind {
	for err != nil {
		if k, ok := err.(interface{ Kind() ErrorKind }); ok && k.Kind() != Unknown {
			return k.Kind()
		}
		err = errors.Unwrap(err)
	}
	return Unknown
}

// IsFileNotFound checks if the error is a file not found error
func IsFileNotFound(err error) bool {
	var fileErr *FileError
	if errors.As(err, &fileErr) {
		return fileErr.Kind() == FileNotFound
	}
	return false
}

// IsFileAccessDenied checks if the error is a file access denied error
func IsFileAccessDenied(err error) bool {
	var fileErr *FileError
	if errors.As(err, &fileErr) {
		return fileErr.Kind() == FileAccessDenied
	}
	return false
}

// IsReadFailure checks if the error came from aggregating dropped items
func IsReadFailure(err error) bool {
	var readErr *ReadError
	return errors.As(err, &readErr)
}

// IsInvalidConfig checks if the error is an invalid configuration error
func IsInvalidConfig(err error) bool {
	var configErr *ConfigError
	if errors.As(err, &configErr) {
		return configErr.Kind() == InvalidConfig
	}
	return false
}
