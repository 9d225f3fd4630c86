package main

import (
	"fmt"

	"github.com/fwojciec/docdex"
)

// Run executes the list command.
func (c *ListCmd) Run(deps *Dependencies) error {
	packages, err := deps.Resolver.ListPackages(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docdex.ErrorMessage(err))
		return err
	}

	if len(packages) == 0 {
		fmt.Fprintln(deps.Stdout, "No packages registered. Use 'docdex add' to register one.")
		return nil
	}

	for _, p := range packages {
		fmt.Fprintf(deps.Stdout, "%s  %s\n", p.Package, p.BaseURL)
	}

	return nil
}
