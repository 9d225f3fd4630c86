package sqlite_test

import (
	"context"
	"testing"

	"github.com/fwojciec/docdex"
	"github.com/fwojciec/docdex/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *sqlite.DB {
	t.Helper()
	db := sqlite.NewDB(":memory:")
	require.NoError(t, db.Open())
	t.Cleanup(func() { db.Close() })
	return db
}

func testSource(pkg string) *docdex.Source {
	return &docdex.Source{
		Package:      pkg,
		BaseURL:      "https://docs.example/" + pkg + "/",
		InventoryURL: "https://docs.example/" + pkg + "/objects.inv",
	}
}

func TestSourceService_CreateSource(t *testing.T) {
	t.Parallel()

	t.Run("creates source with generated ID and timestamps", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewSourceService(db)
		ctx := context.Background()

		source := testSource("zlib")
		source.InventoryHash = "deadbeef"
		source.SymbolCount = 42

		err := svc.CreateSource(ctx, source)
		require.NoError(t, err)

		assert.NotEmpty(t, source.ID, "ID should be generated")
		assert.False(t, source.CreatedAt.IsZero(), "CreatedAt should be set")
		assert.False(t, source.UpdatedAt.IsZero(), "UpdatedAt should be set")

		// Verify the inventory state round-trips
		found, err := svc.FindSourceByPackage(ctx, "zlib")
		require.NoError(t, err)
		assert.Equal(t, "deadbeef", found.InventoryHash)
		assert.Equal(t, 42, found.SymbolCount)
	})

	t.Run("returns error for invalid source", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewSourceService(db)
		ctx := context.Background()

		source := &docdex.Source{} // missing required fields

		err := svc.CreateSource(ctx, source)
		require.Error(t, err)
		assert.Equal(t, docdex.EINVALID, docdex.ErrorCode(err))
	})

	t.Run("returns ECONFLICT for duplicate package", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewSourceService(db)
		ctx := context.Background()

		require.NoError(t, svc.CreateSource(ctx, testSource("zlib")))

		err := svc.CreateSource(ctx, testSource("zlib"))
		require.Error(t, err)
		assert.Equal(t, docdex.ECONFLICT, docdex.ErrorCode(err))
	})
}

func TestSourceService_FindSourceByPackage(t *testing.T) {
	t.Parallel()

	t.Run("returns source when found", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewSourceService(db)
		ctx := context.Background()

		source := testSource("zlib")
		require.NoError(t, svc.CreateSource(ctx, source))

		found, err := svc.FindSourceByPackage(ctx, "zlib")
		require.NoError(t, err)
		assert.Equal(t, source.ID, found.ID)
		assert.Equal(t, source.Package, found.Package)
		assert.Equal(t, source.BaseURL, found.BaseURL)
		assert.Equal(t, source.InventoryURL, found.InventoryURL)
	})

	t.Run("returns ENOTFOUND when not found", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewSourceService(db)
		ctx := context.Background()

		_, err := svc.FindSourceByPackage(ctx, "nonexistent")
		require.Error(t, err)
		assert.Equal(t, docdex.ENOTFOUND, docdex.ErrorCode(err))
	})
}

func TestSourceService_FindSources(t *testing.T) {
	t.Parallel()

	t.Run("returns all sources ordered by package", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewSourceService(db)
		ctx := context.Background()

		for _, pkg := range []string{"zlib", "attrs", "numpy"} {
			require.NoError(t, svc.CreateSource(ctx, testSource(pkg)))
		}

		sources, err := svc.FindSources(ctx, docdex.SourceFilter{})
		require.NoError(t, err)
		require.Len(t, sources, 3)
		assert.Equal(t, "attrs", sources[0].Package)
		assert.Equal(t, "numpy", sources[1].Package)
		assert.Equal(t, "zlib", sources[2].Package)
	})

	t.Run("filters by package", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewSourceService(db)
		ctx := context.Background()

		require.NoError(t, svc.CreateSource(ctx, testSource("alpha")))
		require.NoError(t, svc.CreateSource(ctx, testSource("beta")))

		pkg := "alpha"
		sources, err := svc.FindSources(ctx, docdex.SourceFilter{Package: &pkg})
		require.NoError(t, err)
		require.Len(t, sources, 1)
		assert.Equal(t, "alpha", sources[0].Package)
	})

	t.Run("respects limit and offset", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewSourceService(db)
		ctx := context.Background()

		for _, pkg := range []string{"a", "b", "c", "d", "e"} {
			require.NoError(t, svc.CreateSource(ctx, testSource(pkg)))
		}

		sources, err := svc.FindSources(ctx, docdex.SourceFilter{Limit: 2, Offset: 1})
		require.NoError(t, err)
		require.Len(t, sources, 2)
		assert.Equal(t, "b", sources[0].Package)
		assert.Equal(t, "c", sources[1].Package)
	})
}

func TestSourceService_UpdateSource(t *testing.T) {
	t.Parallel()

	t.Run("updates source fields", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewSourceService(db)
		ctx := context.Background()

		source := testSource("zlib")
		require.NoError(t, svc.CreateSource(ctx, source))
		originalUpdatedAt := source.UpdatedAt

		newBase := "https://docs.example/zlib/v2/"
		newHash := "cafebabe"
		newCount := 7
		updated, err := svc.UpdateSource(ctx, source.ID, docdex.SourceUpdate{
			BaseURL:       &newBase,
			InventoryHash: &newHash,
			SymbolCount:   &newCount,
		})
		require.NoError(t, err)

		assert.Equal(t, "https://docs.example/zlib/v2/", updated.BaseURL)
		assert.Equal(t, "cafebabe", updated.InventoryHash)
		assert.Equal(t, 7, updated.SymbolCount)
		assert.Equal(t, source.InventoryURL, updated.InventoryURL, "unset fields should be untouched")
		assert.True(t, updated.UpdatedAt.After(originalUpdatedAt) || updated.UpdatedAt.Equal(originalUpdatedAt))
	})

	t.Run("returns ENOTFOUND when not found", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewSourceService(db)
		ctx := context.Background()

		base := "https://docs.example/x/"
		_, err := svc.UpdateSource(ctx, "nonexistent-id", docdex.SourceUpdate{BaseURL: &base})
		require.Error(t, err)
		assert.Equal(t, docdex.ENOTFOUND, docdex.ErrorCode(err))
	})
}

func TestSourceService_DeleteSource(t *testing.T) {
	t.Parallel()

	t.Run("deletes existing source", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewSourceService(db)
		ctx := context.Background()

		source := testSource("zlib")
		require.NoError(t, svc.CreateSource(ctx, source))

		err := svc.DeleteSource(ctx, source.ID)
		require.NoError(t, err)

		_, err = svc.FindSourceByPackage(ctx, "zlib")
		assert.Equal(t, docdex.ENOTFOUND, docdex.ErrorCode(err))
	})

	t.Run("returns ENOTFOUND when not found", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewSourceService(db)
		ctx := context.Background()

		err := svc.DeleteSource(ctx, "nonexistent-id")
		require.Error(t, err)
		assert.Equal(t, docdex.ENOTFOUND, docdex.ErrorCode(err))
	})
}
