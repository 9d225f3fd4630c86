package main

import (
	"fmt"
	"strings"

	"github.com/fwojciec/docdex"
)

// Run executes the add command.
func (c *AddCmd) Run(deps *Dependencies) error {
	inventoryURL := c.InventoryURL
	if inventoryURL == "" {
		inventoryURL = defaultInventoryURL(c.URL)
	}

	src, count, err := deps.Resolver.AddOrUpdateSource(deps.Ctx, c.Package, c.URL, inventoryURL)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docdex.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Added %q (%d symbols)\n", src.Package, count)
	return nil
}

// defaultInventoryURL is the Sphinx convention: the inventory sits next to
// the documentation root.
func defaultInventoryURL(baseURL string) string {
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	return baseURL + "objects.inv"
}
