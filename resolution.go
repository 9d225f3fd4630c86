package docdex

// Resolution is the result of resolving a symbol name: the table entry,
// its rendered markdown, and any renamed sibling symbols that share the
// plain name.
type Resolution struct {
	Symbol   *Symbol
	Markdown string

	// Related lists other table keys ending in "." + the resolved plain
	// name, e.g. resolving "get" may list "dict.get" and "list.get".
	Related []string
}

// PackageInfo describes one registered package for listings.
type PackageInfo struct {
	Package string
	BaseURL string
}
