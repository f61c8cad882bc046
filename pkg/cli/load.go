package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/David-Botos/csv-ingress/pkg/config"
	"github.com/David-Botos/csv-ingress/pkg/connector"
	"github.com/David-Botos/csv-ingress/pkg/converter"
	"github.com/David-Botos/csv-ingress/pkg/loader"
	"github.com/David-Botos/csv-ingress/pkg/statement"
	"github.com/David-Botos/csv-ingress/pkg/transfer"
)

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Recreate the target table and insert every CSV row",
	Args:  cobra.NoArgs,
	RunE:  runLoad,
}

var loadFlags struct {
	commitFraction float64
	parameterized  bool
	verify         bool
	report         bool
}

func init() {
	flags := loadCmd.Flags()
	flags.Float64Var(&loadFlags.commitFraction, "commit-fraction", transfer.DefaultCommitFraction,
		"Share of rows inserted between commits (env COMMIT_FRACTION)")
	flags.BoolVar(&loadFlags.parameterized, "parameterized", false,
		"Bind values as parameters instead of inlining literals (env PARAMETERIZED)")
	flags.BoolVar(&loadFlags.verify, "verify", false,
		"Compare row and per-column counts after the load (env VERIFY)")
	flags.BoolVar(&loadFlags.report, "report", false, "Print a metrics report to stderr")
	rootCmd.AddCommand(loadCmd)
}

// applyLoadFlags copies explicitly set load flags onto the configuration
func applyLoadFlags(cmd *cobra.Command, c *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("commit-fraction") {
		c.CommitFraction = loadFlags.commitFraction
	}
	if flags.Changed("parameterized") {
		c.Parameterized = loadFlags.parameterized
	}
	if flags.Changed("verify") {
		c.Verify = loadFlags.verify
	}
}

func runLoad(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	manager, err := newLoadManager(cmd, cfg)
	if err != nil {
		return err
	}

	factory := connector.NewConnectorFactory(cfg, config.NewSecretProvider(cfg.SecretsFile), zap.L().Named("connector"))
	job := transfer.NewLoadJob(cfg.CSVPath, cfg.TableName)

	_, err = manager.Run(ctx, job, factory.Connect)
	if loadFlags.report {
		fmt.Fprint(cmd.ErrOrStderr(), manager.GenerateReport())
	}
	return err
}

// newLoadManager wires loader, converter and statement builder from configuration
func newLoadManager(cmd *cobra.Command, c *config.Config) (*transfer.LoadManager, error) {
	mapping, err := resolveMapping(c)
	if err != nil {
		return nil, err
	}

	opts := loader.DefaultOptions()
	opts.Delimiter = c.CSVDelimiter
	if c.NATokens != nil {
		opts.NATokens = c.NATokens
	}

	return transfer.NewLoadManager(
		loader.NewLoader(zap.L().Named("loader"), opts),
		newTypeConverter(mapping),
		transfer.Options{
			Mapping:        mapping,
			Builder:        newBuilder(c),
			CommitFraction: c.CommitFraction,
			Verify:         c.Verify,
			VerifyTimeout:  c.StatementTimeout,
			Output:         cmd.OutOrStdout(),
		},
		zap.L().Named("transfer"),
	), nil
}

// newTypeConverter applies the mapping's timestamp columns, keeping the
// default purchase-date column when the mapping names none
func newTypeConverter(mapping loader.Mapping) *converter.TypeConverter {
	logger := zap.L().Named("converter")
	if len(mapping.TimestampColumns) == 0 {
		return converter.NewTypeConverter(logger)
	}

	convCfg := converter.DefaultConfig()
	convCfg.TimestampColumns = mapping.TimestampColumns
	return converter.NewTypeConverterWithConfig(logger, convCfg)
}

func resolveMapping(c *config.Config) (loader.Mapping, error) {
	if c.MappingFile == "" {
		return loader.DefaultMapping(), nil
	}
	return loader.LoadMapping(c.MappingFile)
}

func newBuilder(c *config.Config) statement.Builder {
	if !c.Parameterized {
		return statement.NewLiteralBuilder()
	}
	if c.Destination == config.DestinationSnowflake {
		return statement.NewParameterizedBuilder(statement.Question)
	}
	return statement.NewParameterizedBuilder(statement.Dollar)
}
