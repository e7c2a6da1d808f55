// Package oms fetches inventory positions from the order management
// system's REST API.
package oms

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"strconv"
	"time"

	"github.com/retailops/stockparity/internal/config"
	"github.com/retailops/stockparity/internal/transport"
	"github.com/retailops/stockparity/pkg/constants"
	"github.com/retailops/stockparity/pkg/errors"
	"github.com/retailops/stockparity/pkg/inventory"
	"github.com/retailops/stockparity/pkg/normalize"
	"github.com/retailops/stockparity/pkg/sources"
)

// DefaultPath is the standard inventory snapshot endpoint, relative to
// the configured base URL.
const DefaultPath = "/v1/inventory/positions"

// pageResponse is one page of the OMS inventory snapshot payload.
type pageResponse struct {
	Items []normalize.Raw `json:"items"`
}

// Source implements sources.Source backed by the OMS REST API.
type Source struct {
	cfg       *config.OMSConfig
	transport *transport.Client
	mapping   normalize.Mapping
}

// New creates an OMS source from its run configuration. The mapping
// override and metrics restriction are resolved and validated here so
// Fetch can assume a well-formed mapping.
func New(cfg *config.OMSConfig) (*Source, error) {
	if cfg == nil {
		return nil, errors.NewConfigError("oms", "source is not configured", nil)
	}

	mapping := DefaultMapping()
	if cfg.Mapping != nil {
		mapping = *cfg.Mapping
	}
	mapping = mapping.Restrict(cfg.Metrics)
	if err := mapping.Validate(); err != nil {
		return nil, err
	}

	return &Source{
		cfg:       cfg,
		transport: transport.New(&transport.BearerAuth{}, cfg.ResolveToken()),
		mapping:   mapping,
	}, nil
}

// ID implements the sources.Source interface.
func (s *Source) ID() sources.ID {
	return sources.OMSID
}

// Mapping implements the sources.Source interface.
func (s *Source) Mapping() normalize.Mapping {
	return s.mapping
}

// Cleanup implements the sources.Source interface.
func (s *Source) Cleanup() error {
	return nil
}

// Fetch retrieves all inventory rows for the window, following
// pagination until a short page signals the end.
func (s *Source) Fetch(ctx context.Context, window inventory.Window) ([]normalize.Raw, error) {
	pageSize := s.cfg.PageSize
	if pageSize <= 0 {
		pageSize = constants.DefaultPageSize
	}

	var rows []normalize.Raw
	for page := 1; ; page++ {
		endpoint, err := s.pageURL(window, page, pageSize)
		if err != nil {
			return nil, err
		}

		resp, err := s.transport.Get(ctx, endpoint)
		if err != nil {
			return nil, err
		}

		var result pageResponse
		if err := transport.DecodeResponse(sources.OMSID.String(), resp, &result); err != nil {
			return nil, err
		}

		rows = append(rows, result.Items...)
		if len(result.Items) < pageSize {
			return rows, nil
		}
	}
}

// pageURL builds the snapshot URL for one page of the window.
func (s *Source) pageURL(window inventory.Window, page, pageSize int) (string, error) {
	base, err := url.Parse(s.cfg.BaseURL)
	if err != nil {
		return "", errors.NewConfigError("oms", fmt.Sprintf("invalid base_url %q", s.cfg.BaseURL), err)
	}

	endpoint := s.cfg.Path
	if endpoint == "" {
		endpoint = DefaultPath
	}
	base.Path = path.Join(base.Path, endpoint)

	query := base.Query()
	query.Set("from", window.Start.UTC().Format(time.RFC3339Nano))
	query.Set("to", window.End.UTC().Format(time.RFC3339Nano))
	query.Set("page", strconv.Itoa(page))
	query.Set("page_size", strconv.Itoa(pageSize))
	base.RawQuery = query.Encode()

	return base.String(), nil
}

// DefaultMapping returns the field mapping for the standard OMS
// inventory snapshot payload. Available and damaged are optional:
// older OMS releases omit them and available is derived downstream.
func DefaultMapping() normalize.Mapping {
	return normalize.Mapping{
		Source: sources.OMSID.String(),
		Fields: []normalize.FieldMapping{
			{From: "sku", To: normalize.FieldSKU},
			{From: "location_id", To: normalize.FieldLocationID},
			{From: "as_of", To: normalize.FieldAsOf},
			{From: "on_hand", To: "on_hand"},
			{From: "reserved", To: "reserved"},
			{From: "available", To: "available", Optional: true},
			{From: "damaged", To: "damaged", Optional: true},
		},
	}
}
