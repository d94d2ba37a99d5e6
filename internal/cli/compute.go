package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/vvka-141/popstat/internal/db"
	"github.com/vvka-141/popstat/internal/logging"
	"github.com/vvka-141/popstat/internal/pipeline"
	"github.com/vvka-141/popstat/internal/render"
	"github.com/vvka-141/popstat/pkg/popstat"
)

const defaultOutputFile = "summary.json"

var computeCmd = &cobra.Command{
	Use:   "compute",
	Short: "Compute the population-by-country summary",
	Long: `Compute aggregates the loaded data into a population summary.

The compute command:
1. Connects to PostgreSQL, retrying while the store is still starting up
2. Counts people per birthplace country (unknown birthplaces excluded)
3. Atomically writes the summary as a compact JSON document

The command only reads from the store; running it repeatedly without an
intervening load produces identical output.

Examples:
  # Write summary.json in the current directory
  popstat compute -d census

  # Write to an explicit destination and show the table
  popstat compute -d census -o /var/reports/population.json --pretty`,
	Args: cobra.NoArgs,
	RunE: runCompute,
}

type computeFlagValues struct {
	conn    connFlagValues
	output  string
	pretty  bool
	timeout time.Duration
}

var computeFlags computeFlagValues

func init() {
	rootCmd.AddCommand(computeCmd)

	registerConnectionFlags(computeCmd, &computeFlags.conn)

	computeCmd.Flags().StringVarP(&computeFlags.output, "output", "o", "",
		"Destination for the summary JSON document\n"+
			"(default: output from popstat.yaml, or ./"+defaultOutputFile+")")
	computeCmd.Flags().BoolVar(&computeFlags.pretty, "pretty", false,
		"Also render the summary as a table on stderr")

	computeCmd.Flags().DurationVar(&computeFlags.timeout, "timeout", popstat.DefaultStageTimeout,
		"Catastrophic failure protection timeout (default 3m)\n"+
			"Prevents indefinite hangs from network issues or deadlocks\n"+
			"Examples: 30s, 5m, 1h30m")
}

// buildComputeConfig builds a ComputeConfig from CLI flags, environment
// and the optional project file in the working directory.
func buildComputeConfig(cmd *cobra.Command, verbose bool) (popstat.ComputeConfig, *popstat.ConnectionConfig, error) {
	_ = godotenv.Load()

	projectCfg, err := loadProjectConfig(".")
	if err != nil {
		return popstat.ComputeConfig{}, nil, err
	}

	connConfig, err := resolveConnection(&computeFlags.conn, projectCfg, verbose)
	if err != nil {
		return popstat.ComputeConfig{}, nil, err
	}

	outputPath := computeFlags.output
	if outputPath == "" && projectCfg != nil {
		outputPath = projectCfg.Output
	}
	if outputPath == "" {
		outputPath = defaultOutputFile
	}

	timeout, err := resolveTimeout(cmd, computeFlags.timeout, projectCfg)
	if err != nil {
		return popstat.ComputeConfig{}, nil, err
	}

	cfg := popstat.ComputeConfig{
		ConnectionString:  db.BuildConnectionString(connConfig),
		OutputPath:        outputPath,
		Pretty:            computeFlags.pretty,
		Timeout:           timeout,
		Verbose:           verbose,
		AuthMethod:        connConfig.AuthMethod,
		AzureTenantID:     connConfig.AzureTenantID,
		AzureClientID:     connConfig.AzureClientID,
		AzureClientSecret: connConfig.AzureClientSecret,
		AWSRegion:         connConfig.AWSRegion,
		GoogleInstance:    connConfig.GoogleInstance,
	}

	if err := cfg.Validate(); err != nil {
		return popstat.ComputeConfig{}, nil, err
	}
	return cfg, connConfig, nil
}

func runCompute(cmd *cobra.Command, args []string) error {
	verbose := getVerboseFlag(cmd)

	cfg, connConfig, err := buildComputeConfig(cmd, verbose)
	if err != nil {
		return err
	}

	logger := logging.NewConsoleLogger(verbose)

	connector, err := db.NewConnector(connConfig, logger)
	if err != nil {
		return err
	}

	stage := pipeline.NewComputeStage(connector, logger)

	ctx, cancel := signalContext("compute")
	defer cancel()

	summary, err := stage.Run(ctx, &cfg)
	if err != nil {
		return fmt.Errorf("compute failed: %w", err)
	}

	if cfg.Pretty {
		fmt.Fprintln(os.Stderr)
		fmt.Fprint(os.Stderr, render.SummaryTable(summary))
	}

	fmt.Fprintf(os.Stderr, "Wrote summary for %d countries to %s\n", len(summary), cfg.OutputPath)
	return nil
}
