package resolve

import (
	"context"
	"sync"
	"time"

	"github.com/fwojciec/docdex"
)

// coordinator ensures each documentation page is fetched and parsed at
// most once per index generation, no matter how many of its symbols are
// requested concurrently. Symbols are registered at ingest time, so the
// single parse pass over a page renders every symbol the page hosts.
type coordinator struct {
	fetcher  docdex.Fetcher
	parser   docdex.PageParser
	renderer docdex.FragmentRenderer
	limiter  docdex.DomainLimiter
	stats    docdex.Stats

	mu    sync.Mutex
	pages map[string]*pageState
}

// pageState tracks one documentation page through fetch and parse. The
// queue's tail end is serviced first, giving the most recently requested
// symbol the lowest latency. started stays set once the page has been
// fetched; it is reset when the fetch fails so a later request retries.
// active is set while a fetch or parse pass is in flight.
//
// waiters and results are keyed by anchor rather than symbol name:
// extraction is anchor-driven, and a symbol's table name can change when
// a later source merge renames it while its page is already warm.
type pageState struct {
	queue   []*docdex.Symbol
	started bool
	active  bool
	waiters map[string]*waiter
	results map[string]*symbolResult
}

// waiter wakes every caller blocked on one symbol. err is set before the
// channel closes when the page fetch failed.
type waiter struct {
	done chan struct{}
	err  error
}

type symbolResult struct {
	markdown string
	err      error
}

func newCoordinator(fetcher docdex.Fetcher, parser docdex.PageParser, renderer docdex.FragmentRenderer, limiter docdex.DomainLimiter, stats docdex.Stats) *coordinator {
	return &coordinator{
		fetcher:  fetcher,
		parser:   parser,
		renderer: renderer,
		limiter:  limiter,
		stats:    stats,
		pages:    make(map[string]*pageState),
	}
}

func newPageState() *pageState {
	return &pageState{
		waiters: make(map[string]*waiter),
		results: make(map[string]*symbolResult),
	}
}

// push appends sym to the hot end of the queue, moving it there if
// already queued.
func (st *pageState) push(sym *docdex.Symbol) {
	for i, queued := range st.queue {
		if queued == sym {
			st.queue = append(st.queue[:i], st.queue[i+1:]...)
			break
		}
	}
	st.queue = append(st.queue, sym)
}

// register queues sym on its page so the page's parse pass renders it
// even if it is never requested directly.
func (c *coordinator) register(sym *docdex.Symbol) {
	c.mu.Lock()
	defer c.mu.Unlock()
	st, ok := c.pages[sym.PageKey()]
	if !ok {
		st = newPageState()
		c.pages[sym.PageKey()] = st
	}
	st.push(sym)
}

// resolve returns the rendered markdown for sym, fetching and parsing
// its page on first demand. Callers for symbols on the same page share
// one fetch; callers for different pages never block each other. Once
// queued a request is not cancellable; it completes when the parse pass
// reaches the symbol.
func (c *coordinator) resolve(ctx context.Context, sym *docdex.Symbol) (string, error) {
	key := sym.PageKey()

	c.mu.Lock()
	st, ok := c.pages[key]
	if !ok {
		st = newPageState()
		c.pages[key] = st
	}
	if res, ok := st.results[sym.AnchorID]; ok {
		c.mu.Unlock()
		return res.markdown, res.err
	}
	if st.started && !st.active {
		// The page was fully parsed without producing a result for this
		// anchor, so it was never registered here. Same outcome as a
		// missing anchor.
		c.mu.Unlock()
		return "", docdex.Errorf(docdex.ENOTFOUND, "no documentation found for %q", sym.Name)
	}
	st.push(sym)
	w, ok := st.waiters[sym.AnchorID]
	if !ok {
		w = &waiter{done: make(chan struct{})}
		st.waiters[sym.AnchorID] = w
	}
	start := !st.started
	if start {
		st.started = true
		st.active = true
	}
	c.mu.Unlock()

	if start {
		page, err := c.fetchPage(ctx, sym)
		if err != nil {
			c.failPage(st, err)
			return "", err
		}
		go c.parsePage(st, page)
	}

	<-w.done

	c.mu.Lock()
	res := st.results[sym.AnchorID]
	c.mu.Unlock()
	if res == nil {
		return "", w.err
	}
	return res.markdown, res.err
}

func (c *coordinator) fetchPage(ctx context.Context, sym *docdex.Symbol) (docdex.Page, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx, sym.Host()); err != nil {
			return nil, err
		}
	}

	start := time.Now()
	html, err := c.fetcher.Fetch(ctx, sym.PageKey())
	if err != nil {
		return nil, err
	}
	c.stats.ObservePageFetch(time.Since(start))

	return c.parser.Parse(html)
}

// failPage resets the page so a later request can retry, and fails every
// waiter with err.
func (c *coordinator) failPage(st *pageState, err error) {
	c.mu.Lock()
	st.started = false
	st.active = false
	for name, w := range st.waiters {
		w.err = err
		close(w.done)
		delete(st.waiters, name)
	}
	c.mu.Unlock()
}

// parsePage drains the page queue, most recently requested first,
// rendering each symbol and waking its waiters. The lock is released
// between symbols so new requests can join the queue or read results
// mid-drain.
func (c *coordinator) parsePage(st *pageState, page docdex.Page) {
	for {
		c.mu.Lock()
		n := len(st.queue)
		if n == 0 {
			st.active = false
			c.mu.Unlock()
			return
		}
		sym := st.queue[n-1]
		st.queue = st.queue[:n-1]
		if _, done := st.results[sym.AnchorID]; done {
			c.mu.Unlock()
			continue
		}
		c.mu.Unlock()

		markdown, err := c.renderSymbol(page, sym)

		c.mu.Lock()
		st.results[sym.AnchorID] = &symbolResult{markdown: markdown, err: err}
		if w, ok := st.waiters[sym.AnchorID]; ok {
			close(w.done)
			delete(st.waiters, sym.AnchorID)
		}
		c.mu.Unlock()
	}
}

// renderSymbol extracts and renders one symbol from an already parsed
// page. A missing anchor is a negative result, not a failure.
func (c *coordinator) renderSymbol(page docdex.Page, sym *docdex.Symbol) (string, error) {
	frag, ok := page.Extract(sym)
	if !ok {
		return "", docdex.Errorf(docdex.ENOTFOUND, "no documentation found for %q", sym.Name)
	}
	return c.renderer.Render(frag)
}
