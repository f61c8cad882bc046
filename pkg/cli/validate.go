package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/David-Botos/csv-ingress/pkg/config"
	"github.com/David-Botos/csv-ingress/pkg/connector"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check credentials and connectivity to the destination",
	Args:  cobra.NoArgs,
	RunE:  runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	factory := connector.NewConnectorFactory(cfg, config.NewSecretProvider(cfg.SecretsFile), zap.L().Named("connector"))

	conn, err := factory.Connect(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	if err := conn.Validate(ctx); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s connection ok\n", conn.Name())
	return nil
}
