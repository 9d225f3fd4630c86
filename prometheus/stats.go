// Package prometheus provides a Prometheus-backed implementation of
// docdex.Stats.
package prometheus

import (
	"time"

	"github.com/fwojciec/docdex"
	prom "github.com/prometheus/client_golang/prometheus"
)

// Ensure Stats implements docdex.Stats at compile time.
var _ docdex.Stats = (*Stats)(nil)

// Stats records docdex operational metrics in a Prometheus registry.
type Stats struct {
	resolves          *prom.CounterVec
	cacheHits         prom.Counter
	cacheMisses       prom.Counter
	pageFetches       prom.Histogram
	inventoryRetries  *prom.CounterVec
	inventoryFailures *prom.CounterVec
}

// NewStats constructs the docdex metrics and registers them in reg.
// A nil registry allocates a private one.
func NewStats(reg *prom.Registry) *Stats {
	if reg == nil {
		reg = prom.NewRegistry()
	}

	s := &Stats{
		resolves: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "docdex",
			Name:      "resolves_total",
			Help:      "Symbol resolutions by package",
		}, []string{"package"}),
		cacheHits: prom.NewCounter(prom.CounterOpts{
			Namespace: "docdex",
			Name:      "result_cache_hits_total",
			Help:      "Result cache hits",
		}),
		cacheMisses: prom.NewCounter(prom.CounterOpts{
			Namespace: "docdex",
			Name:      "result_cache_misses_total",
			Help:      "Result cache misses",
		}),
		pageFetches: prom.NewHistogram(prom.HistogramOpts{
			Namespace: "docdex",
			Name:      "page_fetch_duration_seconds",
			Help:      "Duration of documentation page fetches",
			Buckets:   prom.DefBuckets,
		}),
		inventoryRetries: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "docdex",
			Name:      "inventory_retries_total",
			Help:      "Transient inventory fetch failures that were retried",
		}, []string{"package"}),
		inventoryFailures: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "docdex",
			Name:      "inventory_failures_total",
			Help:      "Sources whose inventory could not be fetched",
		}, []string{"package"}),
	}

	reg.MustRegister(s.resolves, s.cacheHits, s.cacheMisses, s.pageFetches,
		s.inventoryRetries, s.inventoryFailures)

	return s
}

// IncResolve counts a symbol resolution attributed to a package.
func (s *Stats) IncResolve(pkg string) {
	s.resolves.WithLabelValues(pkg).Inc()
}

// IncCacheHit counts a result cache hit.
func (s *Stats) IncCacheHit() {
	s.cacheHits.Inc()
}

// IncCacheMiss counts a result cache miss.
func (s *Stats) IncCacheMiss() {
	s.cacheMisses.Inc()
}

// ObservePageFetch records the duration of one documentation page fetch.
func (s *Stats) ObservePageFetch(d time.Duration) {
	s.pageFetches.Observe(d.Seconds())
}

// IncInventoryRetry counts a retried inventory fetch for a package.
func (s *Stats) IncInventoryRetry(pkg string) {
	s.inventoryRetries.WithLabelValues(pkg).Inc()
}

// IncInventoryFailure counts a failed inventory fetch for a package.
func (s *Stats) IncInventoryFailure(pkg string) {
	s.inventoryFailures.WithLabelValues(pkg).Inc()
}
