// Package reconcile provides the reconcile command, the CLI entry point
// for a full comparison run.
package reconcile

import (
	"github.com/spf13/cobra"

	"github.com/retailops/stockparity/internal/cmd/application"
)

// NewCommand creates the reconcile command using app context.
func NewCommand(app application.Application) *cobra.Command {
	var flags *Flags

	cmd := &cobra.Command{
		Use:     "reconcile",
		GroupID: "core",
		Short:   "Compare OMS and warehouse stock levels",
		Args:    cobra.NoArgs,
		Long: `Reconcile fetches inventory records from both configured sources,
normalizes them into canonical form, joins them per (sku, location_id),
and compares every metric under the configured tolerances.

The command will:
• Resolve the snapshot window (--date or the configured window)
• Fetch OMS and warehouse records concurrently, each under its own timeout
• Normalize both sides, skipping or rejecting bad records per --strict
• Compare joined metrics and classify every key
• Write the diff artifact and print a run summary

Exit status 1 means the run worked and found discrepancies; 2, 3 and 4
report configuration, fetch and other failures.`,
		Example: `  stockparity reconcile                       # Use the resolved run config
  stockparity reconcile --date 2025-03-15     # Compare that day's snapshot
  stockparity reconcile --strict              # Abort on the first bad record
  stockparity reconcile -o json               # Machine-readable summary
  stockparity reconcile --out ./audit         # Write the artifact elsewhere`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			return ExecuteReconcile(ctx, cmd, app, flags)
		},
	}

	// Add reconcile-specific flags
	flags = addFlags(cmd)

	return cmd
}
