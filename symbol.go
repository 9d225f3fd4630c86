package docdex

import "strings"

// Symbol represents one entry in the merged symbol table. Name is the
// table key and is unique after disambiguation; it may carry a group or
// package prefix (e.g. "label.utils" or "zlib.compress") when the plain
// name collided with an earlier entry.
type Symbol struct {
	Name            string
	Package         string
	Group           string
	BaseURL         string
	RelativeURLPath string
	AnchorID        string
}

// URL returns the absolute address of the symbol's documentation:
// the source base URL, the page path, and the anchor fragment.
func (s *Symbol) URL() string {
	if s.AnchorID == "" {
		return s.BaseURL + s.RelativeURLPath
	}
	return s.BaseURL + s.RelativeURLPath + "#" + s.AnchorID
}

// PageKey identifies the HTML page hosting the symbol, ignoring the
// anchor. Symbols sharing a PageKey share one fetch and one parse pass.
func (s *Symbol) PageKey() string {
	return s.BaseURL + s.RelativeURLPath
}

// Host returns the hostname portion of the symbol's base URL, used for
// no-override checks and per-domain rate limiting. Schemeless or
// otherwise odd URLs yield "" rather than an error.
func (s *Symbol) Host() string {
	parts := strings.SplitN(s.BaseURL, "/", 4)
	if len(parts) < 3 {
		return ""
	}
	return parts[2]
}
