// Package sources defines the contract between the reconciliation
// engine and the systems it compares. A source knows how to fetch raw
// inventory rows for a snapshot window and which declarative mapping
// turns those rows into canonical records.
//
// Example usage:
//
//	var registry sources.Registry
//	registry.Set(src.ID(), src)
//
//	src, ok := registry.Get(sources.OMSID)
//	if !ok {
//	    return errors.NewNotFoundError("source", sources.OMSID.String())
//	}
//	raw, err := src.Fetch(ctx, window)
package sources

import (
	"context"
	"slices"
	"sync"

	"github.com/retailops/stockparity/pkg/inventory"
	"github.com/retailops/stockparity/pkg/normalize"
)

// Registry is a thread-safe container for managing data sources.
// The zero value is ready to use.
type Registry struct {
	mu      sync.RWMutex
	sources map[ID]Source
}

// NewRegistry creates a new Registry instance.
func NewRegistry() *Registry {
	return &Registry{
		sources: make(map[ID]Source),
	}
}

// Get returns a source by ID.
func (r *Registry) Get(id ID) (Source, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	src, found := r.sources[id]
	return src, found
}

// Set registers a source under its ID, replacing any previous entry.
func (r *Registry) Set(id ID, src Source) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sources == nil {
		r.sources = make(map[ID]Source)
	}
	r.sources[id] = src
}

// Delete removes a source by ID.
func (r *Registry) Delete(id ID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sources, id)
}

// Len returns the number of registered sources.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sources)
}

// List returns a slice of all registered sources.
func (r *Registry) List() []Source {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sources := make([]Source, 0, len(r.sources))
	for _, src := range r.sources {
		sources = append(sources, src)
	}
	return sources
}

// IDs returns a slice of all registered source IDs.
func (r *Registry) IDs() []ID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]ID, 0, len(r.sources))
	for id := range r.sources {
		ids = append(ids, id)
	}
	return ids
}

// Cleanup releases every registered source's resources, returning the
// first error encountered.
func (r *Registry) Cleanup() error {
	var first error
	for _, src := range r.List() {
		if err := src.Cleanup(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// ID represents the identifier of a data source.
type ID string

// String returns the string representation of a source ID.
func (id ID) String() string {
	return string(id)
}

// Built-in source IDs.
const (
	// OMSID is the order management system, the reference side.
	OMSID ID = "oms"
	// DWHID is the analytical warehouse, the comparison side.
	DWHID ID = "dwh"
	// SnapshotID reads a local snapshot file in place of a live system.
	SnapshotID ID = "snapshot"
)

// IDs returns all built-in source IDs.
func IDs() []ID {
	return []ID{
		OMSID,
		DWHID,
		SnapshotID,
	}
}

// IsValid returns true if the ID is one of the built-in constants.
func (id ID) IsValid() bool {
	return slices.Contains(IDs(), id)
}

// Source represents one system holding inventory positions.
type Source interface {
	// ID identifies this source in logs, errors, and summaries.
	ID() ID

	// Fetch retrieves the raw inventory rows for the window. Fetch is
	// expected to honor ctx cancellation; rows outside the window may
	// be returned and are filtered later.
	Fetch(ctx context.Context, window inventory.Window) ([]normalize.Raw, error)

	// Mapping returns the declarative field mapping for this source's
	// raw rows.
	Mapping() normalize.Mapping

	// Cleanup releases any resources (called after all Fetch operations).
	Cleanup() error
}
