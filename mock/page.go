package mock

import (
	"github.com/fwojciec/docdex"
)

var _ docdex.PageParser = (*PageParser)(nil)

// PageParser is a mock implementation of docdex.PageParser.
type PageParser struct {
	ParseFn func(html string) (docdex.Page, error)
}

func (p *PageParser) Parse(html string) (docdex.Page, error) {
	return p.ParseFn(html)
}

var _ docdex.Page = (*Page)(nil)

// Page is a mock implementation of docdex.Page.
type Page struct {
	ExtractFn func(sym *docdex.Symbol) (*docdex.Fragment, bool)
}

func (p *Page) Extract(sym *docdex.Symbol) (*docdex.Fragment, bool) {
	return p.ExtractFn(sym)
}
