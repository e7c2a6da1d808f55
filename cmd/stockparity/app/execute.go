package app

import (
	"context"

	"github.com/spf13/cobra"
)

// Execute parses args and runs the selected subcommand. main.go calls
// this once after app construction.
func (a *App) Execute(ctx context.Context, args []string) error {
	root := a.rootCommand()
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

// rootCommand assembles the root cobra command, its persistent flags,
// and every subcommand.
func (a *App) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:     "stockparity",
		Short:   "Stock parity between OMS and warehouse",
		Version: a.version,
		Long: `Stockparity compares stock levels between the order management system
and the data warehouse, keyed by SKU and location.

It fetches both sides concurrently, normalizes every record into canonical
form, joins the two sets per (sku, location_id), applies per-metric
tolerances, and writes a deterministic diff artifact plus a summary.`,
		PersistentPreRunE: a.applyFlags,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	root.AddGroup(
		&cobra.Group{ID: "core", Title: "Core Commands:"},
		&cobra.Group{ID: "management", Title: "Management Commands:"},
	)

	flags := root.PersistentFlags()
	flags.StringVar(&a.config.ConfigFile, "config", "", "run config file (default is ./stockparity.yaml, then $HOME/.stockparity.yaml)")
	flags.BoolVarP(&a.config.Verbose, "verbose", "v", false, "verbose output (shortcut for --log-level=debug)")
	flags.BoolVarP(&a.config.Quiet, "quiet", "q", false, "minimal output (shortcut for --log-level=warn)")
	flags.BoolVar(&a.config.NoColor, "no-color", false, "disable colored output")
	flags.StringVarP(&a.config.Format, "format", "o", "", "output format: table, json, yaml, csv")
	flags.StringVar(&a.config.LogLevel, "log-level", "", "log level: trace, debug, info, warn, error (overrides -v/-q)")

	// --output predates --format and survives as a hidden alias.
	flags.StringVar(&a.config.Format, "output", "", "")
	_ = flags.MarkDeprecated("output", "use --format instead")

	// Keep `stockparity --version` in step with the version subcommand.
	root.SetVersionTemplate("stockparity {{.Version}}\n")

	a.addCommands(root)
	return root
}

// applyFlags folds parsed persistent flags into the app config and
// rebuilds the logger before any subcommand runs.
func (a *App) applyFlags(cmd *cobra.Command, _ []string) error {
	a.config.UpdateFromFlags(
		mustGetBool(cmd, "verbose"),
		mustGetBool(cmd, "quiet"),
		mustGetBool(cmd, "no-color"),
		mustGetString(cmd, "format"),
		mustGetString(cmd, "log-level"),
	)

	logger := NewLogger(a.config)
	a.logger = &logger
	return nil
}

func (a *App) addCommands(root *cobra.Command) {
	// Core commands
	root.AddCommand(a.CreateReconcileCommand())
	root.AddCommand(a.CreateFilterCommand())
	root.AddCommand(a.CreateUniqueCommand())

	// Management commands
	root.AddCommand(a.CreateValidateCommand())

	// Utility commands
	root.AddCommand(a.CreateVersionCommand())
}

// mustGetBool reads a bool flag registered by this package. A lookup
// error means the flag was never defined, which is a programming error
// rather than user input.
func mustGetBool(cmd *cobra.Command, name string) bool {
	v, err := cmd.Flags().GetBool(name)
	if err != nil {
		panic("flag " + name + " not registered: " + err.Error())
	}
	return v
}

// mustGetString is the string counterpart of mustGetBool.
func mustGetString(cmd *cobra.Command, name string) string {
	v, err := cmd.Flags().GetString(name)
	if err != nil {
		panic("flag " + name + " not registered: " + err.Error())
	}
	return v
}
