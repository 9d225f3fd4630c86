// Package goquery implements HTML parsing and symbol fragment extraction
// for documentation pages using goquery and x/net/html.
package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/docdex"
	"golang.org/x/net/html"
)

// Ensure Parser implements docdex.PageParser at compile time.
var _ docdex.PageParser = (*Parser)(nil)

// Parser parses fetched HTML into pages.
type Parser struct{}

// NewParser creates a new Parser.
func NewParser() *Parser {
	return &Parser{}
}

// Parse parses the HTML document. The head element is removed up front;
// it contains no symbol content and would otherwise leak scripts and
// styles into general descriptions.
func (p *Parser) Parse(content string) (docdex.Page, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return nil, docdex.Errorf(docdex.EINVALID, "failed to parse HTML: %v", err)
	}

	doc.Find("head").Remove()

	return &Page{doc: doc}, nil
}

// Ensure Page implements docdex.Page at compile time.
var _ docdex.Page = (*Page)(nil)

// Page is one parsed documentation page.
type Page struct {
	doc *goquery.Document
}

// Extract locates the symbol's anchor element and gathers its fragment.
// Symbols without an anchor, or whose anchor is absent from the page,
// report ok=false.
func (p *Page) Extract(sym *docdex.Symbol) (*docdex.Fragment, bool) {
	heading := p.findByID(sym.AnchorID)
	if heading == nil {
		return nil, false
	}

	frag := &docdex.Fragment{PageURL: sym.URL()}

	switch {
	case generalGroups[sym.Group]:
		// Modules, doc pages and labels anchor to container tags like
		// divs and sections; only a general description applies.
		frag.Description = generalDescription(heading)
	case heading.Data != "dt":
		frag.Description = generalDescription(heading)
	case noSignatureGroups[sym.Group]:
		frag.Description = ddDescription(heading)
	default:
		frag.Description = ddDescription(heading)
		frag.Signatures = signatures(heading)
	}

	frag.Description = strings.ReplaceAll(frag.Description, "¶", "")

	return frag, true
}

// findByID returns the first element carrying the exact id attribute.
// Anchors regularly contain dots ("zlib.compress"), so an attribute scan
// is used instead of a CSS id selector.
func (p *Page) findByID(id string) *html.Node {
	if id == "" {
		return nil
	}

	var node *html.Node
	p.doc.Find("[id]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if v, _ := s.Attr("id"); v == id {
			node = s.Nodes[0]
			return false
		}
		return true
	})
	return node
}
