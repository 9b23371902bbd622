package cli

import "errors"

// Process exit codes. Each failure phase of the submit flow maps to its own
// code so wrapping scripts can tell the phases apart.
const (
	ExitOK               = 0
	ExitGeneric          = 1
	ExitUpdateFailed     = 2
	ExitSubmitFailed     = 3
	ExitNonJSONResponse  = 4
	ExitMissingWorkItem  = 5
	ExitWorkItemFailed   = 6
)

// ExitError carries a specific process exit code through cobra's error
// return path.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return "exit"
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error { return e.Err }

// exitWith wraps err with the given exit code.
func exitWith(code int, err error) error {
	return &ExitError{Code: code, Err: err}
}

// ExitCode extracts the process exit code from an error returned by
// Execute.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitGeneric
}
