package main

import (
	"fmt"
	"os"

	"github.com/fwojciec/docdex"
	"gopkg.in/yaml.v3"
)

// importFile is the YAML shape accepted by the import command:
//
//	sources:
//	  - package: numpy
//	    base_url: https://numpy.org/doc/stable/
//	    inventory_url: https://numpy.org/doc/stable/objects.inv
type importFile struct {
	Sources []importSource `yaml:"sources"`
}

type importSource struct {
	Package      string `yaml:"package"`
	BaseURL      string `yaml:"base_url"`
	InventoryURL string `yaml:"inventory_url"`
}

// Run executes the import command.
func (c *ImportCmd) Run(deps *Dependencies) error {
	data, err := os.ReadFile(c.File)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %v\n", err)
		return err
	}

	var file importFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		fmt.Fprintf(deps.Stderr, "error: invalid import file: %v\n", err)
		return docdex.Errorf(docdex.EINVALID, "invalid import file %q: %v", c.File, err)
	}
	if len(file.Sources) == 0 {
		fmt.Fprintf(deps.Stderr, "error: import file lists no sources\n")
		return docdex.Errorf(docdex.EINVALID, "import file %q lists no sources", c.File)
	}

	failed := 0
	for _, entry := range file.Sources {
		inventoryURL := entry.InventoryURL
		if inventoryURL == "" {
			inventoryURL = defaultInventoryURL(entry.BaseURL)
		}

		src, count, err := deps.Resolver.AddOrUpdateSource(deps.Ctx, entry.Package, entry.BaseURL, inventoryURL)
		if err != nil {
			failed++
			fmt.Fprintf(deps.Stderr, "  %s: %s\n", entry.Package, docdex.ErrorMessage(err))
			continue
		}
		fmt.Fprintf(deps.Stdout, "Added %q (%d symbols)\n", src.Package, count)
	}

	if failed > 0 {
		return fmt.Errorf("failed to import %d of %d sources", failed, len(file.Sources))
	}
	return nil
}
