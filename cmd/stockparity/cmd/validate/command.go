// Package validate provides the validate command, a standalone check of
// the run configuration.
package validate

import (
	"github.com/spf13/cobra"

	"github.com/retailops/stockparity/internal/cmd/application"
)

// NewCommand creates the validate command using app context.
func NewCommand(app application.Application) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "validate [config-file]",
		GroupID: "management",
		Short:   "Validate the run configuration",
		Args:    cobra.MaximumNArgs(1),
		Long: `Validate parses the run configuration, checks the schema version,
struct tags and cross-field rules, and reports what a reconcile run
would resolve: snapshot window, time zone, sources, and artifact output.

Without an argument it validates the file reconcile would use: the
--config flag, or the first stockparity.yaml found in the working or
home directory.`,
		Example: `  stockparity validate                       # Validate the resolved config
  stockparity validate ./staging.yaml        # Validate a specific file
  stockparity validate -o json               # Machine-readable report`,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			return ExecuteValidate(cmd, app, path)
		},
	}

	return cmd
}
