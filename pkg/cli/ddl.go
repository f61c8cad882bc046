package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/David-Botos/csv-ingress/pkg/transfer"
)

var ddlCmd = &cobra.Command{
	Use:   "ddl",
	Short: "Print the DROP/CREATE statements for the CSV without connecting",
	Args:  cobra.NoArgs,
	RunE:  runDDL,
}

func init() {
	rootCmd.AddCommand(ddlCmd)
}

func runDDL(cmd *cobra.Command, args []string) error {
	manager, err := newLoadManager(cmd, cfg)
	if err != nil {
		return err
	}

	ds, err := manager.Prepare(cmd.Context(), transfer.NewLoadJob(cfg.CSVPath, cfg.TableName))
	if err != nil {
		return err
	}

	statements, err := manager.DDL(cfg.TableName, ds)
	if err != nil {
		return err
	}

	for _, stmt := range statements {
		fmt.Fprintln(cmd.OutOrStdout(), stmt)
	}
	return nil
}
