package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const asciiLogo = `                         __        __
   ___  ___  ___  ___ / /____ _/ /_
  / _ \/ _ \/ _ \(_-</ __/ _ '/ __/
 / .__/\___/ .__/___/\__/\_,_/\__/
/_/       /_/`

var rootCmd = &cobra.Command{
	Use:   "popstat",
	Short: "Demographic data pipeline for PostgreSQL",
	Long: asciiLogo + `

popstat runs a two-stage batch pipeline: 'load' ingests place and people
CSV sources into PostgreSQL, 'compute' aggregates population per
birthplace country and emits a JSON summary document.

Stage ordering is the caller's contract: run load before compute.

Exit Codes:
  0  - Success
  1  - General error (malformed input or unclassified failure)
  2  - CLI usage error (invalid arguments or flags)
  3  - Panic or unexpected system error
  10 - Invalid configuration or parameters
  11 - Store unreachable after bounded retries
  12 - User denied reset approval
  13 - Store constraint violation
  14 - Input source file not found
  15 - Report destination could not be written`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		printVersionInfo()
		return nil
	}
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().Bool("help", false, "Help for popstat")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output for all commands")
}

// getVerboseFlag safely retrieves the verbose flag value
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to get verbose flag: %v\n", err)
		return false
	}
	return verbose
}
