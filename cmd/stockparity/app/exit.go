package app

import (
	stderrors "errors"
	"os"

	"github.com/retailops/stockparity/pkg/errors"
)

// Exit codes reported by the CLI.
const (
	// ExitOK means the run completed with no findings.
	ExitOK = 0

	// ExitFindings means the run completed and found discrepancies
	// beyond tolerance. The tool worked; the data disagrees.
	ExitFindings = 1

	// ExitConfig means configuration or schema validation failed.
	ExitConfig = 2

	// ExitFetch means one or both sources could not be fetched.
	ExitFetch = 3

	// ExitFailure means any other execution failure.
	ExitFailure = 4
)

// ExitCode maps an error returned by command execution to the process
// exit code. Fetch errors keep their own code even when they wrap parse
// or validation causes: an unreadable source is a fetch problem, not a
// config problem.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	switch {
	case errors.IsFindings(err):
		return ExitFindings
	case errors.IsFetchError(err):
		return ExitFetch
	case errors.IsConfigError(err), errors.IsValidationError(err), isParseError(err):
		return ExitConfig
	default:
		return ExitFailure
	}
}

// Exit prints the error, if any, to stderr and terminates the process
// with the mapped code. This is meant to be used in main.go for
// top-level error handling.
func Exit(err error) {
	if err != nil {
		_, _ = os.Stderr.WriteString(err.Error() + "\n")
	}
	os.Exit(ExitCode(err))
}

func isParseError(err error) bool {
	var parseErr *errors.ParseError
	return stderrors.As(err, &parseErr)
}
