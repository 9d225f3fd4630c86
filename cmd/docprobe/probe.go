package main

import (
	"fmt"
	"strings"

	"github.com/fwojciec/docdex"
	"github.com/fwojciec/docdex/goquery"
)

// Run executes the probe command.
func (c *ProbeCmd) Run(deps *Dependencies) error {
	content, err := c.probe(deps)
	if err != nil {
		return err
	}

	if c.Anchor == "" {
		return nil
	}

	return c.preview(deps, content)
}

// probe fetches the page and reports whether plain HTTP is enough for it.
// It returns the HTML the verdict favors, so the preview extracts from
// the same content a matching docdex invocation would see.
func (c *ProbeCmd) probe(deps *Dependencies) (string, error) {
	httpHTML, httpErr := deps.HTTP.Fetch(deps.Ctx, c.URL)

	if c.NoBrowser {
		if httpErr != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", docdex.ErrorMessage(httpErr))
			return "", httpErr
		}
		fmt.Fprintf(deps.Stdout, "Plain HTTP: %d bytes of visible text\n", len(goquery.VisibleText(httpHTML)))
		return httpHTML, nil
	}

	if httpErr != nil {
		fmt.Fprintf(deps.Stderr, "warning: plain HTTP fetch failed: %s\n", docdex.ErrorMessage(httpErr))
		rodHTML, rodErr := deps.Browser.Fetch(deps.Ctx, c.URL)
		if rodErr != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", docdex.ErrorMessage(rodErr))
			return "", rodErr
		}
		fmt.Fprintln(deps.Stdout, "Verdict: needs browser rendering. Use 'docdex get --render-js'.")
		return rodHTML, nil
	}

	rodHTML, rodErr := deps.Browser.Fetch(deps.Ctx, c.URL)
	if rodErr != nil {
		fmt.Fprintf(deps.Stderr, "warning: browser fetch failed, comparison skipped: %s\n", docdex.ErrorMessage(rodErr))
		return httpHTML, nil
	}

	httpText := goquery.VisibleText(httpHTML)
	rodText := goquery.VisibleText(rodHTML)

	fmt.Fprintf(deps.Stdout, "Plain HTTP: %d bytes of visible text\n", len(httpText))
	fmt.Fprintf(deps.Stdout, "Rendered:   %d bytes of visible text\n", len(rodText))

	if contentDiffers(httpText, rodText) {
		fmt.Fprintln(deps.Stdout, "Verdict: needs browser rendering. Use 'docdex get --render-js'.")
		return rodHTML, nil
	}

	fmt.Fprintln(deps.Stdout, "Verdict: static HTML is sufficient.")
	return httpHTML, nil
}

// contentDiffers reports whether the rendered text is meaningfully larger
// than the plain HTTP text (>50% longer), suggesting JavaScript adds
// content the plain fetcher cannot see.
func contentDiffers(httpText, rodText string) bool {
	if len(httpText) == 0 {
		return len(rodText) > 0
	}
	return float64(len(rodText)) > float64(len(httpText))*1.5
}

// preview extracts the anchor's fragment and prints it the way the get
// command would render it.
func (c *ProbeCmd) preview(deps *Dependencies, content string) error {
	page, err := deps.Parser.Parse(content)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docdex.ErrorMessage(err))
		return err
	}

	sym := &docdex.Symbol{
		Name:     c.Anchor,
		Group:    c.Group,
		BaseURL:  c.URL,
		AnchorID: c.Anchor,
	}

	frag, ok := page.Extract(sym)
	if !ok {
		fmt.Fprintf(deps.Stderr, "error: anchor %q not found in %s\n", c.Anchor, c.URL)
		return docdex.Errorf(docdex.ENOTFOUND, "anchor %q not found", c.Anchor)
	}

	markdown, err := deps.Renderer.Render(frag)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docdex.ErrorMessage(err))
		return err
	}

	fmt.Fprintln(deps.Stdout)
	fmt.Fprint(deps.Stdout, markdown)
	if !strings.HasSuffix(markdown, "\n") {
		fmt.Fprintln(deps.Stdout)
	}
	fmt.Fprintf(deps.Stdout, "\n%s\n", sym.URL())

	return nil
}
