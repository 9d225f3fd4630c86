package main

import (
	"fmt"
	"time"

	"github.com/fwojciec/docdex"
	"github.com/schollz/progressbar/v3"
)

// Run executes the refresh command.
func (c *RefreshCmd) Run(deps *Dependencies) error {
	if c.Concurrency > 0 {
		deps.Resolver.Concurrency = c.Concurrency
	}

	// The bar goes to stderr so stdout stays parseable. It is created on
	// the first progress callback, which carries the source count.
	var bar *progressbar.ProgressBar
	progress := func(completed, total int, pkg string) {
		if bar == nil {
			bar = progressbar.NewOptions(total,
				progressbar.OptionSetDescription("Refreshing inventories"),
				progressbar.OptionSetWriter(deps.Stderr),
				progressbar.OptionSetWidth(40),
				progressbar.OptionShowCount(),
				progressbar.OptionThrottle(65*time.Millisecond),
				progressbar.OptionShowElapsedTimeOnFinish(),
				progressbar.OptionOnCompletion(func() {
					fmt.Fprintln(deps.Stderr)
				}),
			)
		}
		_ = bar.Set(completed)
	}

	result, err := deps.Resolver.RefreshAll(deps.Ctx, progress)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docdex.ErrorMessage(err))
		return err
	}

	if len(result.Sources) == 0 {
		fmt.Fprintln(deps.Stdout, "No packages registered. Use 'docdex add' to register one.")
		return nil
	}

	failed := 0
	for _, sr := range result.Sources {
		if sr.Err != nil {
			failed++
			fmt.Fprintf(deps.Stderr, "  %s: %s\n", sr.Package, docdex.ErrorMessage(sr.Err))
			continue
		}
		status := "unchanged"
		if sr.Changed {
			status = "updated"
		}
		fmt.Fprintf(deps.Stdout, "%s  %d symbols  %s\n", sr.Package, sr.Symbols, status)
	}

	fmt.Fprintf(deps.Stdout, "Indexed %d symbols from %d packages\n", result.Symbols, len(result.Sources)-failed)

	if failed > 0 {
		return fmt.Errorf("failed to refresh %d of %d packages", failed, len(result.Sources))
	}
	return nil
}
