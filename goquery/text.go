package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// VisibleText returns the document's text content with script, style,
// noscript and template elements excluded. Whitespace runs collapse to
// single spaces so markup indentation does not affect the length.
func VisibleText(content string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return ""
	}

	var b strings.Builder
	for _, n := range doc.Selection.Nodes {
		visibleText(&b, n)
	}

	return strings.Join(strings.Fields(b.String()), " ")
}

func visibleText(b *strings.Builder, n *html.Node) {
	if n.Type == html.TextNode {
		b.WriteString(n.Data)
		b.WriteByte(' ')
		return
	}
	if n.Type == html.ElementNode {
		switch n.Data {
		case "script", "style", "noscript", "template":
			return
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		visibleText(b, c)
	}
}
