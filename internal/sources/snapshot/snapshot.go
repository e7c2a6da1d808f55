// Package snapshot reconciles directly from delimited file exports,
// standing in for the live systems in offline runs and fixtures.
package snapshot

import (
	"context"
	"io"
	"strings"

	"github.com/retailops/stockparity/internal/config"
	"github.com/retailops/stockparity/internal/csvkit"
	"github.com/retailops/stockparity/pkg/errors"
	"github.com/retailops/stockparity/pkg/inventory"
	"github.com/retailops/stockparity/pkg/normalize"
	"github.com/retailops/stockparity/pkg/sources"
)

// Source implements sources.Source over one delimited snapshot export.
// The file's header names the raw fields; blank cells are treated as
// missing rather than empty values, so optional columns may be sparse.
type Source struct {
	id      sources.ID
	path    string
	delim   rune
	mapping normalize.Mapping
}

// Pair creates the two file-backed sources of a snapshot run: the OMS
// side and the DWH side. Both share the configured delimiter, mapping
// override, and metric restriction.
func Pair(cfg *config.SnapshotConfig) (*Source, *Source, error) {
	if cfg == nil {
		return nil, nil, errors.NewConfigError("snapshot", "source is not configured", nil)
	}
	a, err := New(sources.OMSID, cfg.OMSPath, cfg)
	if err != nil {
		return nil, nil, err
	}
	b, err := New(sources.DWHID, cfg.DWHPath, cfg)
	if err != nil {
		return nil, nil, err
	}
	return a, b, nil
}

// New creates a file-backed source standing in for the given side.
func New(id sources.ID, path string, cfg *config.SnapshotConfig) (*Source, error) {
	if cfg == nil {
		return nil, errors.NewConfigError("snapshot", "source is not configured", nil)
	}
	if path == "" {
		return nil, errors.NewConfigError("snapshot", "snapshot path is empty", nil)
	}

	mapping := DefaultMapping(id)
	if cfg.Mapping != nil {
		mapping = *cfg.Mapping
		mapping.Source = id.String()
	}
	mapping = mapping.Restrict(cfg.Metrics)
	if err := mapping.Validate(); err != nil {
		return nil, err
	}

	var delim rune
	if cfg.Delimiter != "" {
		delim = []rune(cfg.Delimiter)[0]
	}

	return &Source{id: id, path: path, delim: delim, mapping: mapping}, nil
}

// ID implements the sources.Source interface.
func (s *Source) ID() sources.ID {
	return s.id
}

// Mapping implements the sources.Source interface.
func (s *Source) Mapping() normalize.Mapping {
	return s.mapping
}

// Cleanup implements the sources.Source interface.
func (s *Source) Cleanup() error {
	return nil
}

// Fetch reads the whole export. The window is not applied here; rows
// outside it are filtered during normalization like any other source.
func (s *Source) Fetch(ctx context.Context, _ inventory.Window) ([]normalize.Raw, error) {
	var opts []csvkit.ReaderOption
	if s.delim != 0 {
		opts = append(opts, csvkit.WithDelimiter(s.delim))
	}

	r, err := csvkit.Open(s.path, opts...)
	if err != nil {
		return nil, err
	}
	defer r.Close() //nolint:errcheck // read-only file

	header := r.Header()
	var rows []normalize.Raw
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.WrapParse("csv", s.path, err)
		}

		raw := make(normalize.Raw, len(header))
		for i, name := range header {
			if i >= len(record) {
				break
			}
			if value := strings.TrimSpace(record[i]); value != "" {
				raw[strings.TrimSpace(name)] = value
			}
		}
		rows = append(rows, raw)
	}

	return rows, nil
}

// DefaultMapping returns the field mapping for snapshot exports with
// canonical column names.
func DefaultMapping(id sources.ID) normalize.Mapping {
	return normalize.Mapping{
		Source: id.String(),
		Fields: []normalize.FieldMapping{
			{From: "sku", To: normalize.FieldSKU},
			{From: "location_id", To: normalize.FieldLocationID},
			{From: "as_of", To: normalize.FieldAsOf},
			{From: "on_hand", To: "on_hand"},
			{From: "reserved", To: "reserved", Optional: true},
			{From: "available", To: "available", Optional: true},
			{From: "damaged", To: "damaged", Optional: true},
		},
	}
}
