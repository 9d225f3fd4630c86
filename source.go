package docdex

import (
	"context"
	"time"
)

// Source represents a registered documentation source: one package whose
// symbol inventory is merged into the symbol table.
type Source struct {
	ID           string    `json:"id"`
	Package      string    `json:"package"`
	BaseURL      string    `json:"baseUrl"`
	InventoryURL string    `json:"inventoryUrl"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`

	// InventoryHash fingerprints the last successfully fetched inventory
	// payload and SymbolCount records how many entries it contributed.
	// Both are refreshed on every successful ingest and let a later
	// refresh report which sources actually changed.
	InventoryHash string `json:"inventoryHash"`
	SymbolCount   int    `json:"symbolCount"`
}

// Validate returns an error if the source contains invalid fields.
func (s *Source) Validate() error {
	if s.Package == "" {
		return Errorf(EINVALID, "source package name required")
	}
	if s.BaseURL == "" {
		return Errorf(EINVALID, "source base URL required")
	}
	if s.InventoryURL == "" {
		return Errorf(EINVALID, "source inventory URL required")
	}
	return nil
}

// SourceService represents a service for managing documentation sources.
type SourceService interface {
	// CreateSource creates a new source registration.
	// Returns ECONFLICT if the package is already registered.
	CreateSource(ctx context.Context, source *Source) error

	// FindSourceByPackage retrieves a source by its package name.
	// Returns ENOTFOUND if the source does not exist.
	FindSourceByPackage(ctx context.Context, pkg string) (*Source, error)

	// FindSources retrieves sources matching the filter, ordered by
	// package name.
	FindSources(ctx context.Context, filter SourceFilter) ([]*Source, error)

	// UpdateSource updates an existing source registration.
	// Returns ENOTFOUND if the source does not exist.
	UpdateSource(ctx context.Context, id string, upd SourceUpdate) (*Source, error)

	// DeleteSource permanently removes a source registration.
	// Returns ENOTFOUND if the source does not exist.
	DeleteSource(ctx context.Context, id string) error
}

// SourceFilter represents a filter for FindSources.
type SourceFilter struct {
	ID      *string `json:"id"`
	Package *string `json:"package"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// SourceUpdate represents fields that can be updated on a source.
type SourceUpdate struct {
	BaseURL       *string `json:"baseUrl"`
	InventoryURL  *string `json:"inventoryUrl"`
	InventoryHash *string `json:"inventoryHash"`
	SymbolCount   *int    `json:"symbolCount"`
}
