package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/docdex"
)

// Ensure LoggingInventoryFetcher implements docdex.InventoryFetcher.
var _ docdex.InventoryFetcher = (*LoggingInventoryFetcher)(nil)

// LoggingInventoryFetcher wraps an InventoryFetcher with debug logging.
type LoggingInventoryFetcher struct {
	next   docdex.InventoryFetcher
	logger *slog.Logger
}

// NewLoggingInventoryFetcher creates a new LoggingInventoryFetcher.
func NewLoggingInventoryFetcher(next docdex.InventoryFetcher, logger *slog.Logger) *LoggingInventoryFetcher {
	return &LoggingInventoryFetcher{next: next, logger: logger}
}

// FetchInventory logs the inventory fetch and delegates to the wrapped fetcher.
func (f *LoggingInventoryFetcher) FetchInventory(ctx context.Context, url string) (inv *docdex.Inventory, err error) {
	defer func(begin time.Time) {
		entries := 0
		if inv != nil {
			entries = len(inv.Entries)
		}
		f.logger.Info("fetch inventory",
			"url", url,
			"entries", entries,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return f.next.FetchInventory(ctx, url)
}
