package reconcile

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/retailops/stockparity"
	"github.com/retailops/stockparity/internal/cmd/application"
	"github.com/retailops/stockparity/internal/cmd/output"
	"github.com/retailops/stockparity/internal/config"
	"github.com/retailops/stockparity/pkg/constants"
	"github.com/retailops/stockparity/pkg/errors"
)

// ExecuteReconcile runs a full comparison using the resolved run config
// with command-line overrides applied, then renders the summary.
func ExecuteReconcile(ctx context.Context, cmd *cobra.Command, app application.Application, flags *Flags) error {
	cfg, err := app.RunConfig()
	if err != nil {
		return err
	}
	if err := applyFlags(cfg, cmd, flags); err != nil {
		return err
	}

	format, err := consoleFormat(app.OutputFormat())
	if err != nil {
		return err
	}

	sp, err := app.Stockparity(
		stockparity.WithConfig(cfg),
		stockparity.WithLogger(*app.Logger()),
	)
	if err != nil {
		return err
	}
	defer func() {
		if err := sp.Close(); err != nil {
			app.Logger().Warn().Err(err).Msg("Source cleanup failed")
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, constants.CommandTimeout)
	defer cancel()

	result, runErr := sp.Run(ctx)
	if result == nil {
		return runErr
	}

	// Findings still come with a full result; render before reporting.
	if err := output.FormatSummary(cmd.OutOrStdout(), result.Summary, format); err != nil {
		return err
	}
	if flags.ShowRows && len(result.Rows) > 0 {
		if err := output.FormatRows(cmd.OutOrStdout(), result.Rows, format); err != nil {
			return err
		}
	}

	return runErr
}

// applyFlags folds command-line overrides into the run config and
// revalidates it.
func applyFlags(cfg *config.Config, cmd *cobra.Command, flags *Flags) error {
	changed := false
	if flags.Date != "" {
		// An explicit window outranks the date, so drop it.
		cfg.Date = flags.Date
		cfg.Window = config.WindowConfig{}
		changed = true
	}
	if flags.Out != "" {
		cfg.Output.Path = flags.Out
		changed = true
	}
	if cmd.Flags().Changed("strict") {
		cfg.Strict = flags.Strict
		changed = true
	}
	if changed {
		return cfg.Validate()
	}
	return nil
}

// consoleFormat validates the requested console format, falling back to
// terminal detection when none was requested.
func consoleFormat(requested string) (output.Format, error) {
	format, err := output.ParseFormat(requested)
	if err != nil {
		return "", errors.NewValidationError("format", requested, err.Error())
	}
	if format == "" {
		format = output.DetectFormat("")
	}
	return format, nil
}
