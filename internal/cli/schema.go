package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/nordstat/datadoc/internal/bootstrap"
	"github.com/nordstat/datadoc/internal/config"
)

var schemaCmd = &cobra.Command{
	Use:   "schema <dataset>",
	Short: "Print the variable schema of a dataset file",
	Long: `Schema reads the column names and types of a dataset file without
touching its metadata document.

Examples:
  datadoc schema ./inndata/person_data_v1.parquet
  datadoc schema ./klargjorte-data/befolkning.sas7bdat`,
	Args: cobra.ExactArgs(1),
	RunE: runSchema,
}

func init() {
	rootCmd.AddCommand(schemaCmd)
}

func runSchema(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, config.Load())
	if err != nil {
		return fmt.Errorf("bootstrap: %w", err)
	}
	defer app.Close()

	columns, err := app.Extractor.ExtractSchema(ctx, args[0])
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "VARIABLE\tTYPE")
	for _, col := range columns {
		fmt.Fprintf(w, "%s\t%s\n", col.ShortName, col.DataType)
	}
	return w.Flush()
}
