package validate

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/retailops/stockparity/internal/cmd/application"
	"github.com/retailops/stockparity/internal/cmd/output"
	"github.com/retailops/stockparity/internal/config"
	"github.com/retailops/stockparity/pkg/constants"
	"github.com/retailops/stockparity/pkg/errors"
)

// Report describes a validated run configuration and what a run would
// resolve from it.
type Report struct {
	Path     string `json:"path" yaml:"path"`
	Valid    bool   `json:"valid" yaml:"valid"`
	Window   string `json:"window" yaml:"window"`
	Timezone string `json:"timezone" yaml:"timezone"`
	Sources  string `json:"sources" yaml:"sources"`
	Output   string `json:"output" yaml:"output"`
	Strict   bool   `json:"strict" yaml:"strict"`
}

// ExecuteValidate checks one run configuration file. An empty path means
// the file the app resolves for reconcile runs.
func ExecuteValidate(cmd *cobra.Command, app application.Application, path string) error {
	var err error
	if path == "" {
		path, err = app.ConfigPath()
		if err != nil {
			return err
		}
	}

	cfg, err := config.Load(path)
	if err != nil {
		return err
	}

	format, err := output.ParseFormat(app.OutputFormat())
	if err != nil {
		return errors.NewValidationError("format", app.OutputFormat(), err.Error())
	}

	report, err := buildReport(path, cfg)
	if err != nil {
		return err
	}

	if format == "" || format == output.FormatTable {
		cmd.Printf("Configuration valid: %s\n", report.Path)
		cmd.Printf("  window:   %s\n", report.Window)
		cmd.Printf("  timezone: %s\n", report.Timezone)
		cmd.Printf("  sources:  %s\n", report.Sources)
		cmd.Printf("  output:   %s\n", report.Output)
		cmd.Printf("  strict:   %v\n", report.Strict)
		return nil
	}
	return output.NewFormatter(format).Format(cmd.OutOrStdout(), report)
}

// buildReport resolves the derived values the same way a run would.
func buildReport(path string, cfg *config.Config) (*Report, error) {
	window, err := cfg.ResolveWindow(time.Now())
	if err != nil {
		return nil, err
	}
	artifactFormat, err := cfg.Output.ArtifactFormat()
	if err != nil {
		return nil, err
	}

	timezone := cfg.ReferenceTimezone
	if timezone == "" {
		timezone = constants.DefaultTimezone
	}

	return &Report{
		Path:     path,
		Valid:    true,
		Window:   window.String(),
		Timezone: timezone,
		Sources:  sourceNames(cfg),
		Output:   string(artifactFormat) + " in " + cfg.Output.Path,
		Strict:   cfg.Strict,
	}, nil
}

// sourceNames names the configured source pair.
func sourceNames(cfg *config.Config) string {
	switch {
	case cfg.Sources.Snapshot != nil:
		return "snapshot"
	case cfg.Sources.OMS != nil && cfg.Sources.DWH != nil:
		return "oms, dwh"
	default:
		return "none"
	}
}
