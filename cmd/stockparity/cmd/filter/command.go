// Package filter provides the filter command, a streaming CSV filter
// keyed on SKU and location values.
package filter

import (
	"github.com/spf13/cobra"

	"github.com/retailops/stockparity/internal/cmd/application"
)

// NewCommand creates the filter command using app context.
func NewCommand(app application.Application) *cobra.Command {
	var flags *Flags

	cmd := &cobra.Command{
		Use:     "filter <input> <output>",
		GroupID: "core",
		Short:   "Filter a stock export by SKU and location",
		Args:    cobra.ExactArgs(2),
		Long: `Filter streams a delimited stock export and keeps the rows whose SKU
(and, when location values are given, location) match. The input
delimiter is sniffed from a sample unless forced; the output is always
comma-separated with a header.

Match values come from repeatable flags and/or files. A value file is
either a CSV with a header (the sku or location column is read) or a
plain list with one value per line; blank lines and # comments are
skipped.`,
		Example: `  stockparity filter export.csv subset.csv --sku SKU-1 --sku SKU-2
  stockparity filter export.csv subset.csv --sku-file recall.csv
  stockparity filter export.tsv subset.csv --sku-file skus.txt --location L1
  stockparity filter export.csv rest.csv --sku-file recall.csv --invert
  stockparity filter export.csv subset.csv --sku ABC --columns sku,location_id,on_hand`,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags.Input = args[0]
			flags.Output = args[1]
			return ExecuteFilter(cmd, app, flags)
		},
	}

	// Add filter-specific flags
	flags = addFlags(cmd)

	return cmd
}
