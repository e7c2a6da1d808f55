// Package dwh fetches inventory rows from the analytical warehouse
// over a MySQL connection.
package dwh

import (
	"context"
	"fmt"
	"strings"

	"github.com/retailops/stockparity/internal/config"
	"github.com/retailops/stockparity/pkg/errors"
	"github.com/retailops/stockparity/pkg/inventory"
	"github.com/retailops/stockparity/pkg/normalize"
	"github.com/retailops/stockparity/pkg/sources"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DefaultTable is the warehouse table read when no table or query is
// configured.
const DefaultTable = "inventory_snapshots"

// Source implements sources.Source backed by a warehouse SQL query.
type Source struct {
	cfg     *config.DWHConfig
	mapping normalize.Mapping

	// db is opened lazily on the first Fetch so connection failures
	// surface as fetch errors, not configuration errors.
	db *gorm.DB
}

// New creates a warehouse source from its run configuration.
func New(cfg *config.DWHConfig) (*Source, error) {
	return newSource(cfg, nil)
}

// NewWithDB creates a warehouse source over an existing connection.
// Cleanup closes the connection either way.
func NewWithDB(cfg *config.DWHConfig, db *gorm.DB) (*Source, error) {
	return newSource(cfg, db)
}

func newSource(cfg *config.DWHConfig, db *gorm.DB) (*Source, error) {
	if cfg == nil {
		return nil, errors.NewConfigError("dwh", "source is not configured", nil)
	}

	mapping := DefaultMapping()
	if cfg.Mapping != nil {
		mapping = *cfg.Mapping
	}
	mapping = mapping.Restrict(cfg.Metrics)
	if err := mapping.Validate(); err != nil {
		return nil, err
	}

	return &Source{cfg: cfg, mapping: mapping, db: db}, nil
}

// ID implements the sources.Source interface.
func (s *Source) ID() sources.ID {
	return sources.DWHID
}

// Mapping implements the sources.Source interface.
func (s *Source) Mapping() normalize.Mapping {
	return s.mapping
}

// Cleanup implements the sources.Source interface.
func (s *Source) Cleanup() error {
	if s.db == nil {
		return nil
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Fetch runs the snapshot query and returns each row as a raw record
// keyed by column name. MySQL drivers hand back strings as []byte;
// the normalizer copes with that downstream.
func (s *Source) Fetch(ctx context.Context, window inventory.Window) ([]normalize.Raw, error) {
	db, err := s.connect()
	if err != nil {
		return nil, err
	}

	query, args := s.query(window)
	rows, err := db.WithContext(ctx).Raw(query, args...).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck // read side is checked via rows.Err

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var out []normalize.Raw
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}

		raw := make(normalize.Raw, len(columns))
		for i, col := range columns {
			raw[col] = values[i]
		}
		out = append(out, raw)
	}

	return out, rows.Err()
}

func (s *Source) connect() (*gorm.DB, error) {
	if s.db != nil {
		return s.db, nil
	}

	db, err := gorm.Open(mysql.Open(s.cfg.ResolveDSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	s.db = db
	return db, nil
}

// query returns the SQL to run and its bind arguments. A custom query
// may bind the window with two placeholders (start, end); a query
// without placeholders runs as-is.
func (s *Source) query(window inventory.Window) (string, []any) {
	bounds := []any{window.Start, window.End}

	if s.cfg.Query != "" {
		if strings.Count(s.cfg.Query, "?") == 0 {
			return s.cfg.Query, nil
		}
		return s.cfg.Query, bounds
	}

	table := s.cfg.Table
	if table == "" {
		table = DefaultTable
	}
	q := fmt.Sprintf(
		"SELECT sku, location_id, snapshot_at, qty_on_hand, qty_reserved, qty_available, qty_damaged FROM %s WHERE snapshot_at BETWEEN ? AND ?",
		table,
	)
	return q, bounds
}

// DefaultMapping returns the field mapping for the standard warehouse
// snapshot query. Quantity columns use the warehouse qty_ prefix.
func DefaultMapping() normalize.Mapping {
	return normalize.Mapping{
		Source: sources.DWHID.String(),
		Fields: []normalize.FieldMapping{
			{From: "sku", To: normalize.FieldSKU},
			{From: "location_id", To: normalize.FieldLocationID},
			{From: "snapshot_at", To: normalize.FieldAsOf},
			{From: "qty_on_hand", To: "on_hand"},
			{From: "qty_reserved", To: "reserved"},
			{From: "qty_available", To: "available", Optional: true},
			{From: "qty_damaged", To: "damaged", Optional: true},
		},
	}
}
