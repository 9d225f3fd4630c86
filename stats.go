package docdex

import "time"

// Stats records operational counters. Implementations must be safe for
// concurrent use. The prometheus subpackage provides a real recorder;
// NopStats discards everything.
type Stats interface {
	// IncResolve counts a symbol resolution attributed to a package.
	IncResolve(pkg string)

	// IncCacheHit and IncCacheMiss count result cache outcomes.
	IncCacheHit()
	IncCacheMiss()

	// ObservePageFetch records the duration of one documentation page fetch.
	ObservePageFetch(d time.Duration)

	// IncInventoryRetry counts a transient inventory fetch failure that
	// will be retried.
	IncInventoryRetry(pkg string)

	// IncInventoryFailure counts a source whose inventory could not be
	// fetched at all.
	IncInventoryFailure(pkg string)
}

// NopStats is a Stats implementation that discards all observations.
type NopStats struct{}

var _ Stats = (*NopStats)(nil)

func (NopStats) IncResolve(string)              {}
func (NopStats) IncCacheHit()                   {}
func (NopStats) IncCacheMiss()                  {}
func (NopStats) ObservePageFetch(time.Duration) {}
func (NopStats) IncInventoryRetry(string)       {}
func (NopStats) IncInventoryFailure(string)     {}
