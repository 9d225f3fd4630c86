package mock

import (
	"time"

	"github.com/fwojciec/docdex"
)

var _ docdex.Stats = (*Stats)(nil)

// Stats is a mock implementation of docdex.Stats.
type Stats struct {
	IncResolveFn          func(pkg string)
	IncCacheHitFn         func()
	IncCacheMissFn        func()
	ObservePageFetchFn    func(d time.Duration)
	IncInventoryRetryFn   func(pkg string)
	IncInventoryFailureFn func(pkg string)
}

func (s *Stats) IncResolve(pkg string) {
	s.IncResolveFn(pkg)
}

func (s *Stats) IncCacheHit() {
	s.IncCacheHitFn()
}

func (s *Stats) IncCacheMiss() {
	s.IncCacheMissFn()
}

func (s *Stats) ObservePageFetch(d time.Duration) {
	s.ObservePageFetchFn(d)
}

func (s *Stats) IncInventoryRetry(pkg string) {
	s.IncInventoryRetryFn(pkg)
}

func (s *Stats) IncInventoryFailure(pkg string) {
	s.IncInventoryFailureFn(pkg)
}
