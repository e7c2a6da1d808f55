package unique

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/retailops/stockparity/internal/cmd/application"
	"github.com/retailops/stockparity/internal/csvkit"
	"github.com/retailops/stockparity/pkg/errors"
)

// ExecuteUnique scans the input and writes its distinct values to the
// command's output.
func ExecuteUnique(cmd *cobra.Command, app application.Application, flags *Flags) error {
	where, err := parseWhere(flags.Where)
	if err != nil {
		return err
	}
	delimiter, err := parseDelimiter(flags.Delimiter)
	if err != nil {
		return err
	}

	job := csvkit.UniqueJob{
		Input:      flags.Input,
		Column:     flags.Column,
		NoHeader:   flags.NoHeader,
		Where:      where,
		IgnoreCase: flags.IgnoreCase,
		Sort:       flags.Sort,
		Once:       flags.Once,
		Delimiter:  delimiter,
	}

	values, err := csvkit.Unique(job)
	if err != nil {
		return err
	}

	app.Logger().Debug().
		Str("input", flags.Input).
		Int("values", len(values)).
		Msg("Unique scan complete")

	if flags.Counts {
		return csvkit.WriteCounts(cmd.OutOrStdout(), flags.Column, values)
	}
	return csvkit.WriteValues(cmd.OutOrStdout(), values)
}

// parseWhere converts repeated column=value pairs into a map.
func parseWhere(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	where := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		if !ok || strings.TrimSpace(name) == "" {
			return nil, errors.NewValidationError("where", pair, "must be column=value")
		}
		where[strings.TrimSpace(name)] = value
	}
	return where, nil
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
