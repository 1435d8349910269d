package main

import (
	"errors"
	"fmt"

	"github.com/mschirtzinger/taskmgr/internal/exitcode"
)

// exitError carries the process exit code for an error.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

// userError reports bad input; exit code 1.
func userError(format string, args ...interface{}) error {
	return &exitError{code: exitcode.UserError, err: fmt.Errorf(format, args...)}
}

// storageError reports a failure to read or write the task list; exit code 2.
func storageError(err error) error {
	if err == nil {
		return nil
	}
	return &exitError{code: exitcode.StorageError, err: err}
}

// codeFor maps err to an exit code. Errors without a code, such as cobra's
// argument errors, are user errors.
func codeFor(err error) int {
	if err == nil {
		return exitcode.Success
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return exitcode.UserError
}
