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

// getResolver wires a resolver whose pages echo the symbol name back as
// documentation, against a single registered source serving entries.
func getResolver(entries ...docdex.InventoryEntry) *resolve.Service {
	sources := &mock.SourceService{
		FindSourcesFn: func(_ context.Context, _ docdex.SourceFilter) ([]*docdex.Source, error) {
			return []*docdex.Source{{
				ID:            "src-1",
				Package:       "widgetlib",
				BaseURL:       "https://widgets.example.com/docs/",
				InventoryURL:  "https://widgets.example.com/docs/objects.inv",
				InventoryHash: "h1",
			}}, nil
		},
	}

	inventory := &mock.InventoryFetcher{
		FetchInventoryFn: func(_ context.Context, url string) (*docdex.Inventory, error) {
			return &docdex.Inventory{Hash: "h1", Entries: entries}, nil
		},
	}

	fetcher := &mock.Fetcher{
		FetchFn: func(_ context.Context, url string) (string, error) {
			return "<html></html>", nil
		},
		CloseFn: func() error { return nil },
	}

	parser := &mock.PageParser{
		ParseFn: func(html string) (docdex.Page, error) {
			return &mock.Page{
				ExtractFn: func(sym *docdex.Symbol) (*docdex.Fragment, bool) {
					return &docdex.Fragment{Description: sym.Name, PageURL: sym.URL()}, true
				},
			}, nil
		},
	}

	renderer := &mock.FragmentRenderer{
		RenderFn: func(frag *docdex.Fragment) (string, error) {
			return "docs for " + frag.Description, nil
		},
	}

	return &resolve.Service{
		Sources:   sources,
		Inventory: inventory,
		Fetcher:   fetcher,
		Parser:    parser,
		Renderer:  renderer,
	}
}

func TestGetCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("resolves a symbol and prints markdown with the URL", func(t *testing.T) {
		t.Parallel()

		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}

		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: stdout,
			Stderr: stderr,
			Resolver: getResolver(
				docdex.InventoryEntry{Name: "widgetlib.make_widget", Type: "py:function", URI: "widgets.html#$"},
			),
		}

		cmd := &main.GetCmd{Name: "widgetlib.make_widget", Plain: true, Width: 80}

		err := cmd.Run(deps)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "docs for widgetlib.make_widget")
		assert.Contains(t, stdout.String(), "https://widgets.example.com/docs/widgets.html#widgetlib.make_widget")
		assert.NotContains(t, stdout.String(), "Related:")
	})

	t.Run("prints renamed collisions as related names", func(t *testing.T) {
		t.Parallel()

		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}

		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: stdout,
			Stderr: stderr,
			Resolver: getResolver(
				docdex.InventoryEntry{Name: "foo", Type: "py:function", URI: "api.html#$"},
				docdex.InventoryEntry{Name: "foo", Type: "std:label", URI: "guides.html#foo"},
				docdex.InventoryEntry{Name: "foo", Type: "std:term", URI: "glossary.html#term-foo"},
			),
		}

		cmd := &main.GetCmd{Name: "foo", Plain: true, Width: 80}

		err := cmd.Run(deps)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "docs for foo")
		assert.Contains(t, stdout.String(), "Related: label.foo, term.foo")
	})

	t.Run("reports unknown symbols with a hint", func(t *testing.T) {
		t.Parallel()

		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}

		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: stdout,
			Stderr: stderr,
			Resolver: getResolver(
				docdex.InventoryEntry{Name: "widgetlib.make_widget", Type: "py:function", URI: "widgets.html#$"},
			),
		}

		cmd := &main.GetCmd{Name: "no_such_thing", Plain: true, Width: 80}

		err := cmd.Run(deps)

		require.Error(t, err)
		assert.Equal(t, docdex.ENOTFOUND, docdex.ErrorCode(err))
		assert.Contains(t, stderr.String(), "not found")
		assert.Contains(t, stderr.String(), "docdex list")
		assert.Empty(t, stdout.String())
	})

	t.Run("errors when no packages are registered", func(t *testing.T) {
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
			Resolver: &resolve.Service{Sources: sources},
		}

		cmd := &main.GetCmd{Name: "anything", Plain: true, Width: 80}

		err := cmd.Run(deps)

		require.Error(t, err)
		assert.Equal(t, docdex.EINVALID, docdex.ErrorCode(err))
		assert.Contains(t, stderr.String(), "docdex add")
	})

	t.Run("warns about failing sources but still resolves", func(t *testing.T) {
		t.Parallel()

		sources := &mock.SourceService{
			FindSourcesFn: func(_ context.Context, _ docdex.SourceFilter) ([]*docdex.Source, error) {
				return []*docdex.Source{
					{ID: "src-1", Package: "widgetlib", BaseURL: "https://widgets.example.com/docs/", InventoryURL: "https://widgets.example.com/docs/objects.inv", InventoryHash: "h1"},
					{ID: "src-2", Package: "broken", BaseURL: "https://broken.example.com/", InventoryURL: "https://broken.example.com/objects.inv"},
				}, nil
			},
		}

		inventory := &mock.InventoryFetcher{
			FetchInventoryFn: func(_ context.Context, url string) (*docdex.Inventory, error) {
				if url == "https://widgets.example.com/docs/objects.inv" {
					return &docdex.Inventory{Hash: "h1", Entries: []docdex.InventoryEntry{
						{Name: "widgetlib.make_widget", Type: "py:function", URI: "widgets.html#$"},
					}}, nil
				}
				return nil, docdex.Errorf(docdex.EINTERNAL, "HTTP 500 for %s", url)
			},
		}

		fetcher := &mock.Fetcher{
			FetchFn: func(_ context.Context, url string) (string, error) { return "<html></html>", nil },
			CloseFn: func() error { return nil },
		}
		parser := &mock.PageParser{
			ParseFn: func(html string) (docdex.Page, error) {
				return &mock.Page{
					ExtractFn: func(sym *docdex.Symbol) (*docdex.Fragment, bool) {
						return &docdex.Fragment{Description: sym.Name}, true
					},
				}, nil
			},
		}
		renderer := &mock.FragmentRenderer{
			RenderFn: func(frag *docdex.Fragment) (string, error) {
				return "docs for " + frag.Description, nil
			},
		}

		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}

		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: stdout,
			Stderr: stderr,
			Resolver: &resolve.Service{
				Sources:   sources,
				Inventory: inventory,
				Fetcher:   fetcher,
				Parser:    parser,
				Renderer:  renderer,
			},
		}

		cmd := &main.GetCmd{Name: "widgetlib.make_widget", Plain: true, Width: 80}

		err := cmd.Run(deps)

		require.NoError(t, err)
		assert.Contains(t, stderr.String(), "warning: broken:")
		assert.Contains(t, stdout.String(), "docs for widgetlib.make_widget")
	})
}
