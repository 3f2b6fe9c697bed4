package cli

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/nordstat/datadoc/internal/bootstrap"
	"github.com/nordstat/datadoc/internal/config"
	"github.com/nordstat/datadoc/internal/core/domain"
	"github.com/nordstat/datadoc/internal/core/ports"
)

var openCmd = &cobra.Command{
	Use:   "open <dataset>",
	Short: "Open or create the metadata document for a dataset",
	Long: `Open reads the dataset's column schema and its metadata document,
migrating older document versions to the current format and
reconciling documented variables against the columns actually present.

A report of added, removed, renamed and unchanged variables is printed.
Removals of documented variables are flagged, their documentation is
lost on the next save.

Examples:
  # Inspect the document without writing anything
  datadoc open ./inndata/person_data_v1.parquet

  # Migrate and persist the document in one step
  datadoc open ./inndata/person_data_v1.parquet --save

  # Carry documentation across a column rename
  datadoc open ./inndata/person_data_v2.parquet --save \
    --rename yrkesinntekt=occupational_income`,
	Args: cobra.ExactArgs(1),
	RunE: runOpen,
}

type openFlagValues struct {
	save         bool
	renames      []string
	serveMetrics bool
}

var openFlags openFlagValues

func init() {
	rootCmd.AddCommand(openCmd)

	openCmd.Flags().BoolVar(&openFlags.save, "save", false,
		"Write the document back after opening")
	openCmd.Flags().StringSliceVar(&openFlags.renames, "rename", nil,
		"Confirmed column rename as old=new (can be specified multiple times).\n"+
			"Documentation written for the old name is carried to the new one.")
	openCmd.Flags().BoolVar(&openFlags.serveMetrics, "serve-metrics", false,
		"Expose prometheus metrics on $METRICS_PORT while the command runs")
}

func runOpen(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()
	app, err := bootstrap.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("bootstrap: %w", err)
	}
	defer app.Close()

	if openFlags.serveMetrics {
		server := &http.Server{Addr: ":" + cfg.MetricsPort, Handler: app.Metrics.Handler()}
		go func() {
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				app.Logger.Error("metrics server", "error", err)
			}
		}()
		defer server.Close()
	}

	renames, err := parseRenames(openFlags.renames)
	if err != nil {
		return err
	}

	session := app.NewSession()
	started := time.Now()
	res, err := session.Open(ctx, args[0], renames)
	app.Metrics.ObserveOpen(time.Since(started), res.MigratedFrom, len(res.Diff.Added), len(res.Diff.Removed), err)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	printOpenReport(out, res, session.DocumentRef(), session.PercentComplete())

	if openFlags.save {
		err := session.Save(ctx)
		app.Metrics.ObserveSave(err)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "saved %s\n", session.DocumentRef())
	}
	return nil
}

func printOpenReport(out io.Writer, res ports.OpenResult, ref string, percent int) {
	switch {
	case res.Created:
		fmt.Fprintf(out, "new document %s\n", ref)
	case res.MigratedFrom != "":
		fmt.Fprintf(out, "document %s migrated from %s to %s\n", ref, res.MigratedFrom, domain.DocumentVersion)
	default:
		fmt.Fprintf(out, "document %s\n", ref)
	}

	diff := res.Diff
	if len(diff.Added) > 0 {
		fmt.Fprintf(out, "added:    %s\n", strings.Join(diff.Added, ", "))
	}
	if len(diff.Removed) > 0 {
		fmt.Fprintf(out, "removed:  %s\n", strings.Join(diff.Removed, ", "))
	}
	for old, updated := range diff.Renamed {
		fmt.Fprintf(out, "renamed:  %s -> %s\n", old, updated)
	}
	if len(diff.Unchanged) > 0 {
		fmt.Fprintf(out, "kept:     %s\n", strings.Join(diff.Unchanged, ", "))
	}
	for _, name := range diff.LostDocumentation {
		fmt.Fprintf(out, "warning:  documentation for %q will be lost on save\n", name)
	}
	fmt.Fprintf(out, "completion: %d%%\n", percent)
}

// parseRenames parses repeated old=new pairs into a rename map.
func parseRenames(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	renames := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		old, updated, ok := strings.Cut(pair, "=")
		old = strings.TrimSpace(old)
		updated = strings.TrimSpace(updated)
		if !ok || old == "" || updated == "" {
			return nil, fmt.Errorf("invalid rename %q, expected old=new", pair)
		}
		if _, dup := renames[old]; dup {
			return nil, fmt.Errorf("duplicate rename for %q", old)
		}
		renames[old] = updated
	}
	return renames, nil
}
