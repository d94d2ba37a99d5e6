package popstat

import (
	"errors"
	"strings"
)

// Sentinel errors for the pipeline's failure taxonomy.
// These enable callers to distinguish error types using errors.Is().
//
// Example usage:
//
//	err := loader.LoadPlaces(ctx, src)
//	if errors.Is(err, popstat.ErrMalformedRecord) {
//	    // Handle an invalid input row
//	}
var (
	// ErrInvalidConfig indicates the provided configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrConnectionUnavailable indicates the store was unreachable after
	// all bounded connection attempts were exhausted.
	ErrConnectionUnavailable = errors.New("store connection unavailable")

	// ErrMalformedRecord indicates an input row is missing a required field.
	ErrMalformedRecord = errors.New("malformed input record")

	// ErrConstraintViolation indicates the store rejected an insert that
	// passed resolution. This is a logic defect, not input variance.
	ErrConstraintViolation = errors.New("store constraint violation")

	// ErrWriteFailure indicates the report destination could not be written.
	ErrWriteFailure = errors.New("report write failure")

	// ErrSourceNotFound indicates an input source file does not exist.
	ErrSourceNotFound = errors.New("input source not found")

	// ErrApprovalDenied indicates the user denied approval for a reset.
	ErrApprovalDenied = errors.New("approval denied")

	// ErrUnsupportedAuthMethod indicates the requested authentication
	// method is not supported.
	ErrUnsupportedAuthMethod = errors.New("unsupported authentication method")
)

// ExitCodeForError returns the appropriate exit code for an error.
// Returns ExitSuccess (0) for nil errors, semantic codes for known errors,
// and ExitGeneralError (1) for unclassified errors.
func ExitCodeForError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Check for sentinel errors
	switch {
	case errors.Is(err, ErrInvalidConfig):
		return ExitConfigError
	case errors.Is(err, ErrConnectionUnavailable):
		return ExitConnectionError
	case errors.Is(err, ErrApprovalDenied):
		return ExitApprovalDenied
	case errors.Is(err, ErrConstraintViolation):
		return ExitConstraintError
	case errors.Is(err, ErrSourceNotFound):
		return ExitSourceMissing
	case errors.Is(err, ErrWriteFailure):
		return ExitWriteError
	case errors.Is(err, ErrMalformedRecord):
		return ExitGeneralError
	case errors.Is(err, ErrUnsupportedAuthMethod):
		return ExitConfigError
	}

	errStr := err.Error()

	// Cobra usage errors surface as plain errors from Execute()
	if strings.Contains(errStr, "unknown flag") ||
		strings.Contains(errStr, "unknown shorthand flag") ||
		strings.Contains(errStr, "unknown command") ||
		strings.Contains(errStr, "invalid argument") ||
		strings.Contains(errStr, "accepts ") ||
		strings.Contains(errStr, "required flag") {
		return ExitUsageError
	}

	// Check for common connection error patterns
	if strings.Contains(errStr, "failed to connect") ||
		strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "no such host") {
		return ExitConnectionError
	}

	return ExitGeneralError
}
