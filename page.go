package docdex

// Page is one parsed documentation page, ready for fragment extraction.
// A page is parsed once and queried for every symbol it hosts.
type Page interface {
	// Extract locates the symbol's anchor element and gathers its
	// documentation fragment according to the symbol's group. It reports
	// ok=false when the anchor is not present in the page.
	Extract(sym *Symbol) (frag *Fragment, ok bool)
}

// PageParser turns fetched HTML into a Page.
type PageParser interface {
	// Parse parses the HTML document and strips content irrelevant to
	// extraction (the head element).
	Parse(html string) (Page, error)
}
