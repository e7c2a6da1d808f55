// Command stockparity compares OMS and DWH inventory levels and
// reports per-SKU discrepancies.
package main

import (
	"context"
	"os"

	"github.com/retailops/stockparity/cmd/stockparity/app"
	"github.com/retailops/stockparity/pkg/constants"
)

// Build metadata injected through -ldflags at release time.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
	builtBy = "unknown"
)

func main() {
	application, err := app.New(version, commit, date, builtBy)
	if err != nil {
		app.Exit(err)
	}

	ctx, cancel := app.SignalContext()
	defer cancel()

	if err := application.Execute(ctx, os.Args[1:]); err != nil {
		// The signal context may already be cancelled, so shutdown runs
		// under its own deadline. A shutdown failure is logged rather
		// than allowed to replace the run error as the exit cause.
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
		defer shutdownCancel()

		if shutdownErr := application.Shutdown(shutdownCtx); shutdownErr != nil {
			application.Logger().Error().Err(shutdownErr).Msg("shutdown failed after run error")
		}
		app.Exit(err)
	}
}
