package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"charm.land/glamour/v2"
	"github.com/fwojciec/docdex"
	"github.com/mattn/go-isatty"
)

// Run executes the get command.
func (c *GetCmd) Run(deps *Dependencies) error {
	// The symbol table lives in memory, so each invocation loads the
	// registered inventories before resolving.
	result, err := deps.Resolver.RefreshAll(deps.Ctx, nil)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docdex.ErrorMessage(err))
		return err
	}
	if len(result.Sources) == 0 {
		fmt.Fprintf(deps.Stderr, "error: no packages registered. Use 'docdex add' to register one.\n")
		return docdex.Errorf(docdex.EINVALID, "no packages registered")
	}
	for _, sr := range result.Sources {
		if sr.Err != nil {
			fmt.Fprintf(deps.Stderr, "warning: %s: %s\n", sr.Package, docdex.ErrorMessage(sr.Err))
		}
	}

	res, err := deps.Resolver.Resolve(deps.Ctx, c.Name)
	if err != nil {
		if docdex.ErrorCode(err) == docdex.ENOTFOUND {
			fmt.Fprintf(deps.Stderr, "error: %s. Use 'docdex list' to see registered packages.\n", docdex.ErrorMessage(err))
			return err
		}
		fmt.Fprintf(deps.Stderr, "error: %s\n", docdex.ErrorMessage(err))
		return err
	}

	output := docdex.FormatResolution(res)
	if !c.Plain && isTerminal(deps.Stdout) {
		if rendered, rerr := renderTerminal(output, c.Width); rerr == nil {
			output = rendered
		}
	}

	fmt.Fprint(deps.Stdout, output)
	if !strings.HasSuffix(output, "\n") {
		fmt.Fprintln(deps.Stdout)
	}

	return nil
}

// renderTerminal styles markdown for terminal display using glamour.
func renderTerminal(markdown string, width int) (string, error) {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithEnvironmentConfig(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", err
	}
	return renderer.Render(markdown)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}
