// Package cli wires the command line surface for editing metadata
// documents alongside their datasets.
package cli

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "datadoc",
	Short: "Document the variables and provenance of statistical datasets",
	Long: `datadoc maintains a metadata document next to each dataset file.

Opening a dataset reads its column schema, reconciles it with any
previously written documentation, migrates older document versions to
the current format, and reports what changed. Saving writes the
document back as JSON with a __DOC.json suffix.

Supported dataset formats: parquet, sas7bdat, xlsx.`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}
