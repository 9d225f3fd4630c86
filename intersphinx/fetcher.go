package intersphinx

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"syscall"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/docdex"
)

// DefaultFetchTimeout is the default timeout for inventory requests.
const DefaultFetchTimeout = 10 * time.Second

const userAgent = "docdex (+https://github.com/fwojciec/docdex)"

// Ensure Fetcher implements docdex.InventoryFetcher at compile time.
var _ docdex.InventoryFetcher = (*Fetcher)(nil)

// Fetcher downloads and parses inventories over HTTP. Failures carry
// application error codes so that callers can tell transient conditions
// (worth retrying) from terminal ones.
type Fetcher struct {
	client  *http.Client
	timeout time.Duration
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the timeout for inventory requests.
// Defaults to DefaultFetchTimeout (10s) if not specified.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithHTTPClient sets the underlying HTTP client, overriding WithTimeout.
func WithHTTPClient(client *http.Client) Option {
	return func(f *Fetcher) {
		f.client = client
	}
}

// NewFetcher creates a new inventory Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout: DefaultFetchTimeout,
	}
	for _, opt := range opts {
		opt(f)
	}

	if f.client == nil {
		f.client = &http.Client{
			Timeout: f.timeout,
		}
	}

	return f
}

// FetchInventory downloads the inventory at url and parses it. The
// returned inventory's Hash fingerprints the raw payload.
func (f *Fetcher) FetchInventory(ctx context.Context, url string) (*docdex.Inventory, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, docdex.Errorf(docdex.EINVALID, "invalid inventory URL %q: %v", url, err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, classifyRequestErr(url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, docdex.Errorf(docdex.EINTERNAL, "inventory %s returned HTTP %d", url, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, classifyReadErr(url, err)
	}

	inv, err := Parse(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	inv.Hash = fmt.Sprintf("%016x", xxhash.Sum64(body))

	return inv, nil
}

// Close releases resources. For the HTTP fetcher this is a no-op since
// http.Client doesn't require explicit cleanup.
func (f *Fetcher) Close() error {
	return nil
}

// classifyRequestErr maps connection-phase failures to error codes.
// Timeouts are transient; refusals and other dial failures are terminal.
func classifyRequestErr(url string, err error) error {
	var nerr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return docdex.Errorf(docdex.ETIMEOUT, "timed out fetching inventory %s", url)
	case errors.As(err, &nerr) && nerr.Timeout():
		return docdex.Errorf(docdex.ETIMEOUT, "timed out fetching inventory %s", url)
	case errors.Is(err, syscall.ECONNRESET), errors.Is(err, io.ErrUnexpectedEOF):
		return docdex.Errorf(docdex.EUNAVAILABLE, "connection lost fetching inventory %s", url)
	case errors.Is(err, context.Canceled):
		return err
	default:
		return docdex.Errorf(docdex.EINTERNAL, "failed to fetch inventory %s: %v", url, err)
	}
}

// classifyReadErr maps body-read failures to error codes. A connection
// dropped mid-stream is transient.
func classifyReadErr(url string, err error) error {
	var nerr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return docdex.Errorf(docdex.ETIMEOUT, "timed out reading inventory %s", url)
	case errors.As(err, &nerr) && nerr.Timeout():
		return docdex.Errorf(docdex.ETIMEOUT, "timed out reading inventory %s", url)
	case errors.Is(err, context.Canceled):
		return err
	default:
		return docdex.Errorf(docdex.EUNAVAILABLE, "connection lost reading inventory %s", url)
	}
}
