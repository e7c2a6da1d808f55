package app

import (
	"github.com/spf13/cobra"

	"github.com/retailops/stockparity/cmd/stockparity/cmd/filter"
	"github.com/retailops/stockparity/cmd/stockparity/cmd/reconcile"
	"github.com/retailops/stockparity/cmd/stockparity/cmd/unique"
	"github.com/retailops/stockparity/cmd/stockparity/cmd/validate"
)

// Subcommand constructors. Each wires the app in as the command's
// application.Application.

// CreateReconcileCommand builds the reconcile subcommand.
func (a *App) CreateReconcileCommand() *cobra.Command { return reconcile.NewCommand(a) }

// CreateValidateCommand builds the validate subcommand.
func (a *App) CreateValidateCommand() *cobra.Command { return validate.NewCommand(a) }

// CreateFilterCommand builds the filter subcommand.
func (a *App) CreateFilterCommand() *cobra.Command { return filter.NewCommand(a) }

// CreateUniqueCommand builds the unique subcommand.
func (a *App) CreateUniqueCommand() *cobra.Command { return unique.NewCommand(a) }

// CreateVersionCommand builds the version subcommand. Verbose mode
// adds build provenance.
func (a *App) CreateVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("stockparity %s\n", a.version)
			if a.config.Verbose {
				cmd.Printf("  commit:   %s\n", a.commit)
				cmd.Printf("  built:    %s\n", a.date)
				cmd.Printf("  built by: %s\n", a.builtBy)
			}
		},
	}
}
