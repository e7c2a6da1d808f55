// Package unique provides the unique command, which extracts the
// distinct values of one column from a delimited file.
package unique

import (
	"github.com/spf13/cobra"

	"github.com/retailops/stockparity/internal/cmd/application"
)

// NewCommand creates the unique command using app context.
func NewCommand(app application.Application) *cobra.Command {
	var flags *Flags

	cmd := &cobra.Command{
		Use:     "unique <input>",
		GroupID: "core",
		Short:   "List distinct values of a column",
		Args:    cobra.ExactArgs(1),
		Long: `Unique scans a delimited file and lists the distinct values of one
column in first-seen order, with occurrence counts. The delimiter is
sniffed from a sample unless forced.

Rows can be restricted with --where column=value filters, values can be
folded case-insensitively, and --once keeps only values that occur
exactly once, which is how you spot keys that lost their pair.`,
		Example: `  stockparity unique export.csv --column sku
  stockparity unique export.csv -c location_id --counts
  stockparity unique export.csv -c sku --where location_id=L1
  stockparity unique export.csv -c sku --once --sort
  stockparity unique values.txt --no-header`,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags.Input = args[0]
			return ExecuteUnique(cmd, app, flags)
		},
	}

	// Add unique-specific flags
	flags = addFlags(cmd)

	return cmd
}
