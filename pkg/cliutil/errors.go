// Package cliutil holds the error kinds and small helpers shared by the
// cmd/* entry points (spec.md 7): ConfigError for bad flags, IOError for
// snapshot file problems, and LogicError for invariant violations that
// indicate a bug rather than a bad input.
package cliutil

import "github.com/pkg/errors"

// ConfigError wraps a CLI flag or config problem: out-of-range value or a
// missing input directory, caught before any solving work starts.
type ConfigError struct {
	cause error
}

func (e *ConfigError) Error() string { return "config error: " + e.cause.Error() }
func (e *ConfigError) Unwrap() error { return e.cause }

// NewConfigError wraps msg as a ConfigError.
func NewConfigError(msg string) error {
	return &ConfigError{cause: errors.New(msg)}
}

// WrapConfigError wraps err as a ConfigError, preserving its stack.
func WrapConfigError(err error, msg string) error {
	return &ConfigError{cause: errors.Wrap(err, msg)}
}

// IOError wraps a snapshot file problem (missing, unreadable or corrupt),
// surfaced with the offending path.
type IOError struct {
	Path  string
	cause error
}

func (e *IOError) Error() string { return "io error at " + e.Path + ": " + e.cause.Error() }
func (e *IOError) Unwrap() error { return e.cause }

// WrapIOError wraps err as an IOError naming path.
func WrapIOError(err error, path string) error {
	return &IOError{Path: path, cause: err}
}

// LogicError signals an invariant violation (mismatched action-vector
// length, table lookup miss): a bug, not an input problem. Per spec.md
// 4.5/7, these are fatal and must not be retried.
type LogicError struct {
	cause error
}

func (e *LogicError) Error() string { return "logic error: " + e.cause.Error() }
func (e *LogicError) Unwrap() error { return e.cause }

// Fatal panics with a LogicError, for invariant violations discovered in
// a cmd/* tool's hot path.
func Fatal(format string, args ...interface{}) {
	panic(&LogicError{cause: errors.Errorf(format, args...)})
}
