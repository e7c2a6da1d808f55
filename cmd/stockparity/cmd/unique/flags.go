package unique

import (
	"github.com/spf13/cobra"
)

// Flags holds the unique command's flag values. Input comes from the
// positional argument.
type Flags struct {
	Input string

	Column     string
	NoHeader   bool
	Where      []string
	IgnoreCase bool
	Sort       bool
	Once       bool
	Counts     bool
	Delimiter  string
}

// addFlags registers the unique flags and returns the bound struct.
func addFlags(cmd *cobra.Command) *Flags {
	flags := &Flags{}

	cmd.Flags().StringVarP(&flags.Column, "column", "c", "", "column to read (default first)")
	cmd.Flags().BoolVar(&flags.NoHeader, "no-header", false, "treat the first line as data")
	cmd.Flags().StringArrayVar(&flags.Where, "where", nil, "keep rows where column=value (repeatable)")
	cmd.Flags().BoolVar(&flags.IgnoreCase, "ignore-case", false, "fold values case-insensitively")
	cmd.Flags().BoolVar(&flags.Sort, "sort", false, "sort values instead of first-seen order")
	cmd.Flags().BoolVar(&flags.Once, "once", false, "keep only values that occur exactly once")
	cmd.Flags().BoolVar(&flags.Counts, "counts", false, "write value,count CSV instead of plain values")
	cmd.Flags().StringVar(&flags.Delimiter, "delimiter", "", "input delimiter (single character, default sniffed)")

	return flags
}
