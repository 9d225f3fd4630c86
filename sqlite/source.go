package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/fwojciec/docdex"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ docdex.SourceService = (*SourceService)(nil)

// SourceService implements docdex.SourceService using SQLite.
type SourceService struct {
	db *DB
}

// NewSourceService creates a new SourceService.
func NewSourceService(db *DB) *SourceService {
	return &SourceService{db: db}
}

// CreateSource creates a new source registration.
func (s *SourceService) CreateSource(ctx context.Context, source *docdex.Source) error {
	if err := source.Validate(); err != nil {
		return err
	}

	var existingID string
	err := s.db.QueryRowContext(ctx, "SELECT id FROM sources WHERE package = ?", source.Package).Scan(&existingID)
	if err == nil {
		return docdex.Errorf(docdex.ECONFLICT, "source for package %q already exists", source.Package)
	}
	if err != sql.ErrNoRows {
		return err
	}

	source.ID = uuid.New().String()
	now := time.Now().UTC()
	source.CreatedAt = now
	source.UpdatedAt = now

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO sources (id, package, base_url, inventory_url, inventory_hash, symbol_count, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, source.ID, source.Package, source.BaseURL, source.InventoryURL, source.InventoryHash,
		source.SymbolCount, source.CreatedAt.Format(time.RFC3339), source.UpdatedAt.Format(time.RFC3339))

	return err
}

// FindSourceByPackage retrieves a source by its package name.
func (s *SourceService) FindSourceByPackage(ctx context.Context, pkg string) (*docdex.Source, error) {
	var source docdex.Source
	var createdAt, updatedAt string

	err := s.db.QueryRowContext(ctx, `
		SELECT id, package, base_url, inventory_url, inventory_hash, symbol_count, created_at, updated_at
		FROM sources
		WHERE package = ?
	`, pkg).Scan(&source.ID, &source.Package, &source.BaseURL, &source.InventoryURL,
		&source.InventoryHash, &source.SymbolCount, &createdAt, &updatedAt)

	if err == sql.ErrNoRows {
		return nil, docdex.Errorf(docdex.ENOTFOUND, "source not found")
	}
	if err != nil {
		return nil, err
	}

	if source.CreatedAt, err = parseRFC3339(createdAt, "created_at"); err != nil {
		return nil, err
	}
	if source.UpdatedAt, err = parseRFC3339(updatedAt, "updated_at"); err != nil {
		return nil, err
	}

	return &source, nil
}

// FindSources retrieves sources matching the filter, ordered by package name.
func (s *SourceService) FindSources(ctx context.Context, filter docdex.SourceFilter) ([]*docdex.Source, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT id, package, base_url, inventory_url, inventory_hash, symbol_count, created_at, updated_at FROM sources WHERE 1=1")

	if filter.ID != nil {
		query.WriteString(" AND id = ?")
		args = append(args, *filter.ID)
	}
	if filter.Package != nil {
		query.WriteString(" AND package = ?")
		args = append(args, *filter.Package)
	}

	query.WriteString(" ORDER BY package ASC")

	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sources []*docdex.Source
	for rows.Next() {
		var source docdex.Source
		var createdAt, updatedAt string

		if err := rows.Scan(&source.ID, &source.Package, &source.BaseURL, &source.InventoryURL,
			&source.InventoryHash, &source.SymbolCount, &createdAt, &updatedAt); err != nil {
			return nil, err
		}

		if source.CreatedAt, err = parseRFC3339(createdAt, "created_at"); err != nil {
			return nil, err
		}
		if source.UpdatedAt, err = parseRFC3339(updatedAt, "updated_at"); err != nil {
			return nil, err
		}

		sources = append(sources, &source)
	}

	return sources, rows.Err()
}

// UpdateSource updates an existing source registration.
func (s *SourceService) UpdateSource(ctx context.Context, id string, upd docdex.SourceUpdate) (*docdex.Source, error) {
	source, err := s.findSourceByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if upd.BaseURL != nil {
		source.BaseURL = *upd.BaseURL
	}
	if upd.InventoryURL != nil {
		source.InventoryURL = *upd.InventoryURL
	}
	if upd.InventoryHash != nil {
		source.InventoryHash = *upd.InventoryHash
	}
	if upd.SymbolCount != nil {
		source.SymbolCount = *upd.SymbolCount
	}

	if err := source.Validate(); err != nil {
		return nil, err
	}

	source.UpdatedAt = time.Now().UTC()

	_, err = s.db.ExecContext(ctx, `
		UPDATE sources
		SET base_url = ?, inventory_url = ?, inventory_hash = ?, symbol_count = ?, updated_at = ?
		WHERE id = ?
	`, source.BaseURL, source.InventoryURL, source.InventoryHash, source.SymbolCount,
		source.UpdatedAt.Format(time.RFC3339), id)

	if err != nil {
		return nil, err
	}

	return source, nil
}

// DeleteSource permanently removes a source registration.
func (s *SourceService) DeleteSource(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM sources WHERE id = ?", id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return docdex.Errorf(docdex.ENOTFOUND, "source not found")
	}

	return nil
}

func (s *SourceService) findSourceByID(ctx context.Context, id string) (*docdex.Source, error) {
	var source docdex.Source
	var createdAt, updatedAt string

	err := s.db.QueryRowContext(ctx, `
		SELECT id, package, base_url, inventory_url, inventory_hash, symbol_count, created_at, updated_at
		FROM sources
		WHERE id = ?
	`, id).Scan(&source.ID, &source.Package, &source.BaseURL, &source.InventoryURL,
		&source.InventoryHash, &source.SymbolCount, &createdAt, &updatedAt)

	if err == sql.ErrNoRows {
		return nil, docdex.Errorf(docdex.ENOTFOUND, "source not found")
	}
	if err != nil {
		return nil, err
	}

	if source.CreatedAt, err = parseRFC3339(createdAt, "created_at"); err != nil {
		return nil, err
	}
	if source.UpdatedAt, err = parseRFC3339(updatedAt, "updated_at"); err != nil {
		return nil, err
	}

	return &source, nil
}
