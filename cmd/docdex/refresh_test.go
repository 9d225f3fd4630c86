package main_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/fwojciec/docdex"
	main "github.com/fwojciec/docdex/cmd/docdex"
	"github.com/fwojciec/docdex/mock"
	"github.com/fwojciec/docdex/resolve"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRefreshCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("refreshes sources and prints a summary", func(t *testing.T) {
		t.Parallel()

		sources := &mock.SourceService{
			FindSourcesFn: func(_ context.Context, _ docdex.SourceFilter) ([]*docdex.Source, error) {
				return []*docdex.Source{
					{ID: "src-1", Package: "alpha", BaseURL: "https://alpha.example.com/", InventoryURL: "https://alpha.example.com/objects.inv"},
					{ID: "src-2", Package: "beta", BaseURL: "https://beta.example.com/", InventoryURL: "https://beta.example.com/objects.inv", InventoryHash: "b1"},
				}, nil
			},
			UpdateSourceFn: func(_ context.Context, id string, upd docdex.SourceUpdate) (*docdex.Source, error) {
				return &docdex.Source{ID: id}, nil
			},
		}

		inventory := &mock.InventoryFetcher{
			FetchInventoryFn: func(_ context.Context, url string) (*docdex.Inventory, error) {
				switch url {
				case "https://alpha.example.com/objects.inv":
					return &docdex.Inventory{Hash: "a1", Entries: []docdex.InventoryEntry{
						{Name: "alpha.run", Type: "py:function", URI: "api.html#$"},
					}}, nil
				default:
					return &docdex.Inventory{Hash: "b1", Entries: []docdex.InventoryEntry{
						{Name: "beta.walk", Type: "py:function", URI: "api.html#$"},
					}}, nil
				}
			},
		}

		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}

		resolver := &resolve.Service{Sources: sources, Inventory: inventory}
		deps := &main.Dependencies{
			Ctx:      context.Background(),
			Stdout:   stdout,
			Stderr:   stderr,
			Sources:  sources,
			Resolver: resolver,
		}

		cmd := &main.RefreshCmd{Concurrency: 2}

		err := cmd.Run(deps)

		require.NoError(t, err)
		assert.Equal(t, 2, resolver.Concurrency)
		assert.Contains(t, stdout.String(), "alpha  1 symbols  updated")
		assert.Contains(t, stdout.String(), "beta  1 symbols  unchanged")
		assert.Contains(t, stdout.String(), "Indexed 2 symbols from 2 packages")
	})

	t.Run("reports failing sources and keeps the rest", func(t *testing.T) {
		t.Parallel()

		sources := &mock.SourceService{
			FindSourcesFn: func(_ context.Context, _ docdex.SourceFilter) ([]*docdex.Source, error) {
				return []*docdex.Source{
					{ID: "src-1", Package: "alpha", BaseURL: "https://alpha.example.com/", InventoryURL: "https://alpha.example.com/objects.inv", InventoryHash: "a1"},
					{ID: "src-2", Package: "beta", BaseURL: "https://beta.example.com/", InventoryURL: "https://beta.example.com/objects.inv"},
				}, nil
			},
		}

		inventory := &mock.InventoryFetcher{
			FetchInventoryFn: func(_ context.Context, url string) (*docdex.Inventory, error) {
				if url == "https://alpha.example.com/objects.inv" {
					return &docdex.Inventory{Hash: "a1", Entries: []docdex.InventoryEntry{
						{Name: "alpha.run", Type: "py:function", URI: "api.html#$"},
					}}, nil
				}
				return nil, docdex.Errorf(docdex.EINTERNAL, "HTTP 500 for %s", url)
			},
		}

		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}

		deps := &main.Dependencies{
			Ctx:      context.Background(),
			Stdout:   stdout,
			Stderr:   stderr,
			Sources:  sources,
			Resolver: &resolve.Service{Sources: sources, Inventory: inventory},
		}

		cmd := &main.RefreshCmd{}

		err := cmd.Run(deps)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to refresh 1 of 2")
		assert.Contains(t, stderr.String(), "beta: HTTP 500")
		assert.Contains(t, stdout.String(), "alpha  1 symbols")
		assert.Contains(t, stdout.String(), "Indexed 1 symbols from 1 packages")
	})

	t.Run("prints a hint when nothing is registered", func(t *testing.T) {
		t.Parallel()

		sources := &mock.SourceService{
			FindSourcesFn: func(_ context.Context, _ docdex.SourceFilter) ([]*docdex.Source, error) {
				return nil, nil
			},
		}

		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}

		deps := &main.Dependencies{
			Ctx:      context.Background(),
			Stdout:   stdout,
			Stderr:   stderr,
			Sources:  sources,
			Resolver: &resolve.Service{Sources: sources},
		}

		cmd := &main.RefreshCmd{}

		err := cmd.Run(deps)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "No packages registered")
	})
}
