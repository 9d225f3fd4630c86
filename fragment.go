package docdex

// Fragment holds the raw material extracted from a documentation page for
// one symbol, before markdown rendering.
type Fragment struct {
	// Signatures are the code signature lines associated with the symbol,
	// already stripped of presentation artifacts. A nil slice means
	// no signature rule applied to the symbol's group; an empty non-nil
	// slice means signatures were expected but none were found.
	Signatures []string

	// Description is the descriptive portion as raw HTML.
	Description string

	// PageURL is the address of the page the fragment came from, used to
	// resolve relative links during rendering.
	PageURL string
}

// FragmentRenderer converts an extracted fragment into display markdown.
type FragmentRenderer interface {
	// Render produces length-bounded markdown for the fragment.
	Render(frag *Fragment) (string, error)
}
