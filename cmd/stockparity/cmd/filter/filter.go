package filter

import (
	"github.com/spf13/cobra"

	"github.com/retailops/stockparity/internal/cmd/application"
	"github.com/retailops/stockparity/internal/csvkit"
	"github.com/retailops/stockparity/pkg/errors"
)

// ExecuteFilter builds the match sets and streams the input through the
// filter, reporting the number of rows written.
func ExecuteFilter(cmd *cobra.Command, app application.Application, flags *Flags) error {
	skus := csvkit.NewValueSet(flags.IgnoreCase)
	for _, v := range flags.SKUs {
		skus.Add(v)
	}
	if flags.SKUFile != "" {
		if err := skus.AddFile(flags.SKUFile, "sku"); err != nil {
			return err
		}
	}

	locations := csvkit.NewValueSet(flags.IgnoreCase)
	for _, v := range flags.Locations {
		locations.Add(v)
	}
	if flags.LocationFile != "" {
		if err := locations.AddFile(flags.LocationFile, "location_id"); err != nil {
			return err
		}
	}

	delimiter, err := parseDelimiter(flags.Delimiter)
	if err != nil {
		return err
	}

	job := csvkit.FilterJob{
		Input:          flags.Input,
		Output:         flags.Output,
		SKUColumn:      flags.SKUColumn,
		LocationColumn: flags.LocationColumn,
		SKUs:           skus,
		Locations:      locations,
		Columns:        flags.Columns,
		Invert:         flags.Invert,
		Delimiter:      delimiter,
	}

	written, err := csvkit.Filter(job)
	if err != nil {
		return err
	}

	app.Logger().Info().
		Str("input", flags.Input).
		Str("output", flags.Output).
		Int("rows", written).
		Msg("Filter complete")
	cmd.Printf("Wrote %d rows to %s\n", written, flags.Output)

	return nil
}

// parseDelimiter converts the flag value to a rune; empty means sniff.
func parseDelimiter(s string) (rune, error) {
	if s == "" {
		return 0, nil
	}
	if s == `\t` {
		return '\t', nil
	}
	runes := []rune(s)
	if len(runes) != 1 {
		return 0, errors.NewValidationError("delimiter", s, "must be a single character")
	}
	return runes[0], nil
}
