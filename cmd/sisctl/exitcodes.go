package main

import (
	"errors"

	appErrors "github.com/noah-isme/sis-schedule-console/pkg/errors"
)

type cliError struct {
	code int
	err  error
}

func (e *cliError) Error() string {
	return e.err.Error()
}

func (e *cliError) Unwrap() error {
	return e.err
}

const (
	exitOK       = 0
	exitUsage    = 2
	exitUpstream = 3
	exitBusy     = 4
)

func withCode(code int, err error) error {
	if err == nil {
		return nil
	}
	return &cliError{code: code, err: err}
}

// upstreamErr classifies service errors for the process exit code.
func upstreamErr(err error) error {
	if err == nil {
		return nil
	}
	appErr := appErrors.FromError(err)
	switch appErr.Code {
	case appErrors.ErrBusy.Code:
		return withCode(exitBusy, appErr)
	case appErrors.ErrValidation.Code:
		return withCode(exitUsage, appErr)
	}
	return withCode(exitUpstream, appErr)
}

func exitCode(err error) int {
	if err == nil {
		return exitOK
	}
	var ce *cliError
	if errors.As(err, &ce) {
		return ce.code
	}
	return 1
}
