package main

import (
	"fmt"

	"github.com/fwojciec/docdex"
)

// Run executes the remove command.
func (c *RemoveCmd) Run(deps *Dependencies) error {
	if !c.Force {
		fmt.Fprintf(deps.Stderr, "error: use --force to confirm removal\n")
		return docdex.Errorf(docdex.EINVALID, "use --force to confirm removal")
	}

	if err := deps.Resolver.RemoveSource(deps.Ctx, c.Package); err != nil {
		if docdex.ErrorCode(err) == docdex.ENOTFOUND {
			fmt.Fprintf(deps.Stderr, "error: package %q not registered. Use 'docdex list' to see registered packages.\n", c.Package)
			return err
		}
		fmt.Fprintf(deps.Stderr, "error: %s\n", docdex.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Removed %q\n", c.Package)
	return nil
}
