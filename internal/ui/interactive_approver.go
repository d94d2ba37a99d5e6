// Package ui holds the console interaction pieces of popstat: approval
// prompts for destructive operations and terminal detection.
package ui

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/vvka-141/popstat/pkg/popstat"
	"golang.org/x/term"
)

// InteractiveApprover implements the Approver interface for console-based
// interactive confirmation. It prompts the user to type the database name
// to confirm destructive operations.
type InteractiveApprover struct {
	input  io.Reader
	output io.Writer
}

// NewInteractiveApprover creates an InteractiveApprover reading from
// stdin and writing to stderr.
func NewInteractiveApprover() popstat.Approver {
	return &InteractiveApprover{input: os.Stdin, output: os.Stderr}
}

// RequestApproval prompts the user to type the database name to confirm.
func (a *InteractiveApprover) RequestApproval(ctx context.Context, dbName string) (bool, error) {
	fmt.Fprintf(a.output, "\n⚠️  WARNING: You are about to TRUNCATE the places and people tables in database '%s'\n", dbName)
	fmt.Fprintln(a.output, "This will permanently delete all loaded data!")
	fmt.Fprintf(a.output, "\nTo confirm, type the database name '%s' and press Enter: ", dbName)

	// Read user input with context cancellation support
	inputChan := make(chan string, 1)
	errChan := make(chan error, 1)

	go func() {
		reader := bufio.NewReader(a.input)
		input, err := reader.ReadString('\n')
		if err != nil {
			errChan <- err
			return
		}
		inputChan <- strings.TrimSpace(input)
	}()

	select {
	case <-ctx.Done():
		return false, ctx.Err()
	case err := <-errChan:
		return false, fmt.Errorf("failed to read input: %w", err)
	case input := <-inputChan:
		if input == dbName {
			fmt.Fprintln(a.output, "✓ Confirmed. Proceeding with reset...")
			return true, nil
		}
		fmt.Fprintf(a.output, "✗ Input '%s' does not match database name '%s'. Operation cancelled.\n", input, dbName)
		return false, nil
	}
}

// IsInteractive reports whether stdin is attached to a terminal. The
// interactive approver is only useful when it is; callers should require
// --force otherwise.
func IsInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// Verify InteractiveApprover implements the Approver interface at compile time
var _ popstat.Approver = (*InteractiveApprover)(nil)
