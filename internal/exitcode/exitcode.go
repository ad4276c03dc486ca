package exitcode

import (
	"errors"

	"github.com/disposejs/dispose/internal/passes"
	"github.com/disposejs/dispose/internal/pipeline"
)

const (
	Success = 0

	// At least one file couldn't be rewritten
	Failure = 1

	// The command line or the configuration file is invalid
	Usage = 2

	// The output didn't parse, which is a bug in this tool
	Internal = 3
)

// Coder is an interface to control what value Get returns.
type Coder interface {
	error
	ExitCode() int
}

// Get gets the exit code associated with an error. Cases:
//
//	nil => 0
//	errors implementing Coder => value returned by ExitCode
//	pipeline.VerifyError => 3
//	all other errors => 1
//
// An error that joins several errors gets the highest code among them.
func Get(err error) int {
	if err == nil {
		return Success
	}

	if coder := Coder(nil); errors.As(err, &coder) {
		return coder.ExitCode()
	}

	if joined := (interface{ WrappedErrors() []error })(nil); errors.As(err, &joined) {
		code := Failure
		for _, inner := range joined.WrappedErrors() {
			if c := Get(inner); c > code {
				code = c
			}
		}
		return code
	}

	if verify := (*pipeline.VerifyError)(nil); errors.As(err, &verify) {
		return Internal
	}

	return Failure
}

// Set wraps an error in a Coder, setting its error code.
func Set(err error, code int) error {
	if err == nil {
		return nil
	}
	return coder{err, code}
}

// Returns true if the error is a problem with the input code rather than
// with the command line or this tool
func IsInputError(err error) bool {
	var parseError *pipeline.ParseError
	var unsupported *passes.UnsupportedPatternError
	return errors.As(err, &parseError) || errors.As(err, &unsupported)
}

var _ Coder = coder{}

type coder struct {
	error
	int
}

func (co coder) ExitCode() int {
	return co.int
}

func (co coder) Unwrap() error {
	return co.error
}
