// Package resolve orchestrates documentation symbol resolution. It
// merges inventory sources into a disambiguated symbol table, coordinates
// single-flight page fetching, and memoizes rendered results.
package resolve

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/fwojciec/docdex"
	"github.com/fwojciec/docdex/cache"
	"golang.org/x/sync/errgroup"
)

// Defaults for optional Service configuration.
const (
	DefaultConcurrency   = 10
	DefaultCacheCapacity = cache.DefaultCapacity
)

// DefaultRetryDelays returns the backoff delays between inventory fetch
// attempts: 1s then 2s, for three attempts in total.
func DefaultRetryDelays() []time.Duration {
	return []time.Duration{1 * time.Second, 2 * time.Second}
}

// Service resolves documentation symbol names to rendered markdown.
// The zero value is not usable; populate the collaborator fields and run
// RefreshAll before resolving.
type Service struct {
	Sources   docdex.SourceService
	Inventory docdex.InventoryFetcher
	Fetcher   docdex.Fetcher
	Parser    docdex.PageParser
	Renderer  docdex.FragmentRenderer
	Limiter   docdex.DomainLimiter // optional; nil disables rate limiting
	Stats     docdex.Stats         // optional; nil discards observations
	Logger    *slog.Logger         // optional; nil uses slog.Default

	// Concurrency bounds parallel inventory fetches during a refresh.
	Concurrency int

	// RetryDelays are the waits between inventory fetch attempts; only
	// transient errors are retried. nil means DefaultRetryDelays.
	RetryDelays []time.Duration

	// CacheCapacity bounds the rendered-result cache.
	CacheCapacity int

	mu  sync.RWMutex
	gen *generation
}

// generation is one consistent view of the loaded documentation: the
// symbol table, the page coordinator, and the result cache built over
// them. A refresh builds a new generation and swaps it in whole, so
// readers never mix pre- and post-refresh data.
type generation struct {
	idx   *index
	coord *coordinator
	cache *cache.Cache[string]
}

// RefreshResult reports the outcome of a refresh.
type RefreshResult struct {
	Sources []SourceRefresh
	Symbols int // total reachable names in the rebuilt table
}

// SourceRefresh is the outcome for one source.
type SourceRefresh struct {
	Package string
	Symbols int
	Changed bool // inventory differs from the previous successful fetch
	Err     error
}

// ProgressFunc is a callback reporting per-source refresh progress.
// It is called from the refreshing goroutine only.
type ProgressFunc func(completed, total int, pkg string)

// Resolve looks up name in the symbol table and returns its rendered
// documentation. Returns ENOTFOUND for unknown names and for symbols
// whose page no longer contains their anchor, and EUNAVAILABLE before
// the first successful refresh.
func (s *Service) Resolve(ctx context.Context, name string) (*docdex.Resolution, error) {
	gen := s.generation()
	if gen == nil {
		return nil, docdex.Errorf(docdex.EUNAVAILABLE, "documentation index not loaded")
	}

	sym, ok := gen.idx.lookup(name)
	if !ok {
		return nil, docdex.Errorf(docdex.ENOTFOUND, "symbol %q not found", name)
	}
	s.stats().IncResolve(strings.ToLower(sym.Package))

	markdown, err := gen.cache.Get(ctx, name)
	if err != nil {
		return nil, err
	}

	return &docdex.Resolution{
		Symbol:   sym,
		Markdown: markdown,
		Related:  gen.idx.related(name),
	}, nil
}

// ListPackages returns the registered packages in name order.
func (s *Service) ListPackages(ctx context.Context) ([]docdex.PackageInfo, error) {
	sources, err := s.Sources.FindSources(ctx, docdex.SourceFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to list sources: %w", err)
	}

	infos := make([]docdex.PackageInfo, 0, len(sources))
	for _, src := range sources {
		infos = append(infos, docdex.PackageInfo{Package: src.Package, BaseURL: src.BaseURL})
	}
	return infos, nil
}

// RefreshAll rebuilds the symbol table from every registered source.
// Inventories are fetched concurrently; a source that fails contributes
// nothing without failing the refresh. The new table, page coordinator,
// and result cache replace the old ones as one unit.
func (s *Service) RefreshAll(ctx context.Context, progress ProgressFunc) (*RefreshResult, error) {
	sources, err := s.Sources.FindSources(ctx, docdex.SourceFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to list sources: %w", err)
	}

	type outcome struct {
		position int
		pkg      string
		inv      *docdex.Inventory
		err      error
	}
	outcomeCh := make(chan outcome, len(sources))

	concurrency := s.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	go func() {
		for i, src := range sources {
			g.Go(func() error {
				inv, err := s.fetchInventory(gctx, src)
				outcomeCh <- outcome{position: i, pkg: src.Package, inv: inv, err: err}
				return nil
			})
		}
		_ = g.Wait()
		close(outcomeCh)
	}()

	outcomes := make([]outcome, len(sources))
	completed := 0
	for out := range outcomeCh {
		completed++
		outcomes[out.position] = out
		if progress != nil {
			progress(completed, len(sources), out.pkg)
		}
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	idx := newIndex()
	coord := newCoordinator(s.Fetcher, s.Parser, s.Renderer, s.Limiter, s.stats())

	result := &RefreshResult{Sources: make([]SourceRefresh, 0, len(sources))}
	for i, src := range sources {
		out := outcomes[i]
		if out.err != nil {
			s.stats().IncInventoryFailure(src.Package)
			s.logger().Warn("inventory refresh failed", "package", src.Package, "error", out.err)
			result.Sources = append(result.Sources, SourceRefresh{Package: src.Package, Err: out.err})
			continue
		}

		stored := idx.ingest(src, out.inv)
		for _, sym := range stored {
			coord.register(sym)
		}

		changed := out.inv.Hash != src.InventoryHash
		if changed {
			if err := s.recordIngest(ctx, src, out.inv.Hash, len(stored)); err != nil {
				s.logger().Warn("failed to record inventory state", "package", src.Package, "error", err)
			}
		}
		s.logger().Debug("ingested inventory", "package", src.Package, "symbols", len(stored), "changed", changed)
		result.Sources = append(result.Sources, SourceRefresh{Package: src.Package, Symbols: len(stored), Changed: changed})
	}
	result.Symbols = len(idx.symbols)

	s.swap(s.newGeneration(idx, coord))
	return result, nil
}

// AddOrUpdateSource validates a source by fetching its inventory,
// merges the inventory into the live symbol table, and persists the
// registration. An existing registration for the package is updated in
// place. Returns the stored source and the number of symbols ingested.
func (s *Service) AddOrUpdateSource(ctx context.Context, pkg, baseURL, inventoryURL string) (*docdex.Source, int, error) {
	if baseURL != "" && !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}

	src := &docdex.Source{Package: pkg, BaseURL: baseURL, InventoryURL: inventoryURL}
	if err := src.Validate(); err != nil {
		return nil, 0, err
	}

	inv, err := s.fetchInventory(ctx, src)
	if err != nil {
		return nil, 0, err
	}

	count := s.mergeLive(src, inv)

	existing, err := s.Sources.FindSourceByPackage(ctx, pkg)
	switch {
	case err == nil:
		updated, uerr := s.Sources.UpdateSource(ctx, existing.ID, docdex.SourceUpdate{
			BaseURL:       &baseURL,
			InventoryURL:  &inventoryURL,
			InventoryHash: &inv.Hash,
			SymbolCount:   &count,
		})
		if uerr != nil {
			return nil, 0, uerr
		}
		return updated, count, nil

	case docdex.ErrorCode(err) == docdex.ENOTFOUND:
		src.InventoryHash = inv.Hash
		src.SymbolCount = count
		if cerr := s.Sources.CreateSource(ctx, src); cerr != nil {
			return nil, 0, cerr
		}
		return src, count, nil

	default:
		return nil, 0, err
	}
}

// RemoveSource deletes the registration for pkg and rebuilds the symbol
// table from the remaining sources.
func (s *Service) RemoveSource(ctx context.Context, pkg string) error {
	src, err := s.Sources.FindSourceByPackage(ctx, pkg)
	if err != nil {
		return err
	}
	if err := s.Sources.DeleteSource(ctx, src.ID); err != nil {
		return err
	}
	_, err = s.RefreshAll(ctx, nil)
	return err
}

// fetchInventory fetches one source's inventory, retrying transient
// failures with the configured delays.
func (s *Service) fetchInventory(ctx context.Context, src *docdex.Source) (*docdex.Inventory, error) {
	delays := s.RetryDelays
	if delays == nil {
		delays = DefaultRetryDelays()
	}
	maxAttempts := len(delays) + 1

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		inv, err := s.Inventory.FetchInventory(ctx, src.InventoryURL)
		if err == nil {
			return inv, nil
		}
		lastErr = err

		if !docdex.IsTransient(err) || attempt >= maxAttempts-1 {
			break
		}

		s.stats().IncInventoryRetry(src.Package)
		s.logger().Debug("retrying inventory fetch", "package", src.Package, "attempt", attempt+2, "error", err)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delays[attempt]):
		}
	}

	return nil, lastErr
}

// mergeLive ingests inv into a copy of the current generation and swaps
// the copy in. The page coordinator carries over so already fetched
// pages stay warm; the result cache is rebuilt because renames during
// ingest can change what a plain name resolves to.
func (s *Service) mergeLive(src *docdex.Source, inv *docdex.Inventory) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	var idx *index
	var coord *coordinator
	if s.gen != nil {
		idx = s.gen.idx.clone()
		coord = s.gen.coord
	} else {
		idx = newIndex()
		coord = newCoordinator(s.Fetcher, s.Parser, s.Renderer, s.Limiter, s.stats())
	}

	stored := idx.ingest(src, inv)
	for _, sym := range stored {
		coord.register(sym)
	}

	s.gen = s.newGeneration(idx, coord)
	return len(stored)
}

func (s *Service) recordIngest(ctx context.Context, src *docdex.Source, hash string, count int) error {
	_, err := s.Sources.UpdateSource(ctx, src.ID, docdex.SourceUpdate{
		InventoryHash: &hash,
		SymbolCount:   &count,
	})
	return err
}

// newGeneration builds the result cache over a finished table and
// coordinator. The cached function resolves through this generation
// only, so in-flight resolutions survive a concurrent swap intact.
func (s *Service) newGeneration(idx *index, coord *coordinator) *generation {
	capacity := s.CacheCapacity
	if capacity <= 0 {
		capacity = DefaultCacheCapacity
	}
	stats := s.stats()

	gen := &generation{idx: idx, coord: coord}
	gen.cache = cache.New(func(ctx context.Context, args ...string) (string, error) {
		sym, ok := idx.lookup(args[0])
		if !ok {
			return "", docdex.Errorf(docdex.ENOTFOUND, "symbol %q not found", args[0])
		}
		return coord.resolve(ctx, sym)
	}, cache.WithCapacity(capacity), cache.WithEvents(stats.IncCacheHit, stats.IncCacheMiss))
	return gen
}

func (s *Service) generation() *generation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.gen
}

func (s *Service) swap(gen *generation) {
	s.mu.Lock()
	s.gen = gen
	s.mu.Unlock()
}

func (s *Service) stats() docdex.Stats {
	if s.Stats != nil {
		return s.Stats
	}
	return docdex.NopStats{}
}

func (s *Service) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}
