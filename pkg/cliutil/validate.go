package cliutil

import (
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
)

// FlagChecks accumulates independent flag-range validation failures (so a
// tool can report every bad flag at once instead of stopping at the
// first), returning a single ConfigError wrapping a multierror.Error.
type FlagChecks struct {
	err *multierror.Error
}

// Require appends a failure if ok is false.
func (f *FlagChecks) Require(ok bool, msg string) {
	if !ok {
		f.err = multierror.Append(f.err, errors.New(msg))
	}
}

// Err returns a ConfigError if any check failed, or nil.
func (f *FlagChecks) Err() error {
	if f.err == nil {
		return nil
	}
	return &ConfigError{cause: f.err.ErrorOrNil()}
}
