package popstat

import "time"

// Exit codes for semantic error classification.
// These follow Unix/GNU conventions:
//   - 0: Success
//   - 1: General error
//   - 2: CLI usage error (misuse of command line)
//   - 3+: Application-specific errors
const (
	ExitSuccess         = 0  // Stage completed successfully
	ExitGeneralError    = 1  // Unknown or unclassified error
	ExitUsageError      = 2  // CLI usage error (missing args, invalid flags)
	ExitPanic           = 3  // Internal panic (unexpected crash)
	ExitConfigError     = 10 // Invalid configuration or parameters
	ExitConnectionError = 11 // Store unreachable after bounded retries
	ExitApprovalDenied  = 12 // User denied reset approval
	ExitConstraintError = 13 // Store rejected an insert (logic defect)
	ExitSourceMissing   = 14 // Input source file not found
	ExitWriteError      = 15 // Report destination could not be written
)

const (
	// DefaultConnectMaxAttempts is the total number of connection attempts
	// made before the stage gives up. This counts the first attempt, so
	// ten attempts means nine sleeps in between.
	DefaultConnectMaxAttempts = 10

	// DefaultConnectRetryDelay is the fixed delay between connection attempts.
	// Together with DefaultConnectMaxAttempts it bounds worst-case startup
	// latency when the store is still coming up.
	DefaultConnectRetryDelay = 5 * time.Second

	// DefaultStageTimeout caps the wall-clock time of a single stage.
	// Catastrophic failure protection, not normal timeout control.
	DefaultStageTimeout = 3 * time.Minute

	// DefaultForceApprovalCountdown is the countdown duration before a
	// forced reset proceeds without interactive confirmation.
	DefaultForceApprovalCountdown = 5 * time.Second

	// DefaultReportFileMode is the permission mode for emitted reports.
	DefaultReportFileMode = 0o644
)
