package filter

import (
	"github.com/spf13/cobra"
)

// Flags holds the filter command's flag values. Input and Output come
// from the positional arguments.
type Flags struct {
	Input  string
	Output string

	SKUs           []string
	SKUFile        string
	Locations      []string
	LocationFile   string
	SKUColumn      string
	LocationColumn string
	Columns        []string
	Invert         bool
	IgnoreCase     bool
	Delimiter      string
}

// addFlags registers the filter flags and returns the bound struct.
func addFlags(cmd *cobra.Command) *Flags {
	flags := &Flags{}

	cmd.Flags().StringArrayVar(&flags.SKUs, "sku", nil, "SKU value to keep (repeatable)")
	cmd.Flags().StringVar(&flags.SKUFile, "sku-file", "", "file of SKU values (CSV with header or one per line)")
	cmd.Flags().StringArrayVar(&flags.Locations, "location", nil, "location value to keep (repeatable)")
	cmd.Flags().StringVar(&flags.LocationFile, "location-file", "", "file of location values")
	cmd.Flags().StringVar(&flags.SKUColumn, "sku-column", "", "input column holding the SKU (default sku)")
	cmd.Flags().StringVar(&flags.LocationColumn, "location-column", "", "input column holding the location (default location_id)")
	cmd.Flags().StringSliceVar(&flags.Columns, "columns", nil, "columns to keep in the output (default all)")
	cmd.Flags().BoolVar(&flags.Invert, "invert", false, "keep the rows that do not match")
	cmd.Flags().BoolVar(&flags.IgnoreCase, "ignore-case", false, "match values case-insensitively")
	cmd.Flags().StringVar(&flags.Delimiter, "delimiter", "", "input delimiter (single character, default sniffed)")

	return flags
}
