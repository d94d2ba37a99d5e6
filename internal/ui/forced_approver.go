package ui

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/vvka-141/popstat/pkg/popstat"
)

// ForcedApprover implements the Approver interface for forced
// (non-interactive) approval. It displays a countdown and automatically
// approves when it elapses, used when the --force flag is provided.
type ForcedApprover struct {
	output  io.Writer
	sleepFn func(time.Duration)
}

// NewForcedApprover creates a new ForcedApprover.
func NewForcedApprover() popstat.Approver {
	return &ForcedApprover{output: os.Stderr, sleepFn: time.Sleep}
}

// RequestApproval displays a countdown and automatically approves after it.
func (a *ForcedApprover) RequestApproval(ctx context.Context, dbName string) (bool, error) {
	fmt.Fprintf(a.output, "\n☠️  DANGER: about to TRUNCATE the places and people tables in database '%s'\n", dbName)

	countdownSeconds := int(popstat.DefaultForceApprovalCountdown.Seconds())
	for i := countdownSeconds; i > 0; i-- {
		select {
		case <-ctx.Done():
			return false, ctx.Err()
		default:
			fmt.Fprintf(a.output, "\rResetting in: %d seconds... (Press Ctrl+C to cancel)", i)
			a.sleepFn(1 * time.Second)
		}
	}

	fmt.Fprintf(a.output, "\r✓ Proceeding with reset...                              \n")
	return true, nil
}

// Verify ForcedApprover implements the Approver interface at compile time
var _ popstat.Approver = (*ForcedApprover)(nil)
