package reconcile

import (
	"github.com/spf13/cobra"
)

// Flags holds the reconcile command's flag values.
type Flags struct {
	// Date pins the snapshot window to one calendar day in the
	// reference time zone, replacing any configured window.
	Date string

	// Out overrides the artifact output path.
	Out string

	// Strict aborts on the first bad record instead of skipping it.
	// Only applied when the flag was actually passed.
	Strict bool

	// ShowRows prints the row-level differences after the summary.
	ShowRows bool
}

// addFlags registers the reconcile flags and returns the bound struct.
func addFlags(cmd *cobra.Command) *Flags {
	flags := &Flags{}

	cmd.Flags().StringVar(&flags.Date, "date", "", "snapshot day to compare (YYYY-MM-DD, reference time zone)")
	cmd.Flags().StringVar(&flags.Out, "out", "", "artifact path or directory (overrides output.path)")
	cmd.Flags().BoolVar(&flags.Strict, "strict", false, "abort on the first record that fails normalization")
	cmd.Flags().BoolVar(&flags.ShowRows, "show-rows", false, "print row-level differences after the summary")

	return flags
}
