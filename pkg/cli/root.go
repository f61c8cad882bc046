package cli

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/David-Botos/csv-ingress/pkg/config"
	"github.com/David-Botos/csv-ingress/pkg/logging"
)

var rootCmd = &cobra.Command{
	Use:   "csvload",
	Short: "Load a CSV file into a SQL table",
	Long: `csvload reads a CSV file, maps its columns to a fixed target schema,
drops and recreates the destination table and inserts every row with
periodic commits.

Credentials come from DB_HOST, DB_PORT, DB_NAME, DB_USER and DB_PASS or
from the file given with --secrets (.env or .yaml).

Exit Codes:
  0  - Success
  1  - Load failed`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: teardown,
}

var rootFlags struct {
	csv       string
	table     string
	mapping   string
	secrets   string
	logLevel  string
	logFormat string
}

var (
	cfg         *config.Config
	flushLogger func()
)

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&rootFlags.csv, "csv", "", "CSV file to load (env CSV_PATH)")
	flags.StringVar(&rootFlags.table, "table", "", "Target table name (env TABLE_NAME)")
	flags.StringVar(&rootFlags.mapping, "mapping", "", "YAML column mapping file (env MAPPING_FILE)")
	flags.StringVar(&rootFlags.secrets, "secrets", "", "Credentials file, .env or .yaml (env SECRETS_FILE)")
	flags.StringVar(&rootFlags.logLevel, "log-level", "", "Log level (env LOG_LEVEL)")
	flags.StringVar(&rootFlags.logFormat, "log-format", "", "Log format: console or json (env LOG_FORMAT)")
}

// setup loads configuration, applies flag overrides and installs the logger
func setup(cmd *cobra.Command, args []string) error {
	loaded, err := config.LoadConfig()
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("csv") {
		loaded.CSVPath = rootFlags.csv
	}
	if flags.Changed("table") {
		loaded.TableName = rootFlags.table
	}
	if flags.Changed("mapping") {
		loaded.MappingFile = rootFlags.mapping
	}
	if flags.Changed("secrets") {
		loaded.SecretsFile = rootFlags.secrets
	}
	if flags.Changed("log-level") {
		loaded.LogLevel = rootFlags.logLevel
	}
	if flags.Changed("log-format") {
		loaded.LogFormat = rootFlags.logFormat
	}
	applyLoadFlags(cmd, loaded)

	if err := loaded.Validate(); err != nil {
		return err
	}

	logger, flush, err := logging.Setup(loaded.LogLevel, loaded.LogFormat)
	if err != nil {
		return err
	}
	flushLogger = flush
	cfg = loaded

	logger.Debug("Configuration loaded",
		zap.String("csv", cfg.CSVPath),
		zap.String("table", cfg.TableName),
		zap.String("destination", cfg.Destination))
	return nil
}

func teardown(cmd *cobra.Command, args []string) {
	if flushLogger != nil {
		flushLogger()
		flushLogger = nil
	}
}
