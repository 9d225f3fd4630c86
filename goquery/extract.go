package goquery

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// unwantedSignatureRe strips presentation artifacts from signature text:
// "[source]" links, escaped backslash pairs, and pilcrows.
var unwantedSignatureRe = regexp.MustCompile(`\[source]|\\\\|¶`)

// generalGroups anchor to container tags rather than definition lists.
var generalGroups = map[string]bool{
	"module": true,
	"doc":    true,
	"label":  true,
}

// noSignatureGroups are definition-list entries whose dt line repeats the
// symbol name without a useful signature.
var noSignatureGroups = map[string]bool{
	"attribute":      true,
	"envvar":         true,
	"setting":        true,
	"templatefilter": true,
	"templatetag":    true,
	"term":           true,
}

// boundaryClasses end a general description: the next sibling starting a
// new definition block, admonition, section or the sidebar.
var boundaryClasses = map[string]bool{
	"data":          true,
	"function":      true,
	"class":         true,
	"exception":     true,
	"seealso":       true,
	"section":       true,
	"rubric":        true,
	"sphinxsidebar": true,
}

// generalDescription serializes the siblings following the anchor element
// up to a boundary element. When a headerlink is present its parent is
// used as the starting point, skipping the heading that repeats the
// symbol name.
func generalDescription(heading *html.Node) string {
	start := heading
	if header := findNext(heading, isHeaderlink); header != nil && header.Parent != nil {
		start = header.Parent
	}
	return renderNodes(collectForward(start.NextSibling, isBoundary, true, 0))
}

// ddDescription serializes the children of the definition body (the next
// dd element) up to a nested dt or dl.
func ddDescription(heading *html.Node) string {
	dd := findNext(heading, func(n *html.Node) bool { return n.Data == "dd" })
	if dd == nil {
		return ""
	}
	return renderNodes(collectForward(dd.FirstChild, stopAtNames("dt", "dl"), true, 0))
}

// signatures collects up to 3 signature lines from dt elements around the
// anchor dt. Following siblings are preferred; preceding ones fill in
// when fewer than two follow.
func signatures(heading *html.Node) []string {
	prev := collectBackward(heading.PrevSibling, stopAtNames("dd"), 2)
	next := collectForward(heading.NextSibling, stopAtNames("dd"), false, 2)

	nodes := make([]*html.Node, 0, len(prev)+len(next)+1)
	for i := len(prev) - 1; i >= 0; i-- {
		nodes = append(nodes, prev[i])
	}
	nodes = append(nodes, heading)
	nodes = append(nodes, next...)
	if len(nodes) > 3 {
		nodes = nodes[len(nodes)-3:]
	}

	sigs := make([]string, 0, len(nodes))
	for _, n := range nodes {
		if s := unwantedSignatureRe.ReplaceAllString(nodeText(n), ""); s != "" {
			sigs = append(sigs, s)
		}
	}
	return sigs
}

type stopFunc func(*html.Node) bool

// stopAtNames matches elements by tag name.
func stopAtNames(names ...string) stopFunc {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return func(n *html.Node) bool {
		return set[n.Data]
	}
}

// collectForward gathers nodes from first through following siblings
// until an element matches stop. Text nodes are included when
// includeText is set and never match stop. A limit of 0 means unbounded.
func collectForward(first *html.Node, stop stopFunc, includeText bool, limit int) []*html.Node {
	var out []*html.Node
	for n := first; n != nil; n = n.NextSibling {
		switch n.Type {
		case html.ElementNode:
			if stop != nil && stop(n) {
				return out
			}
		case html.TextNode:
			if !includeText {
				continue
			}
		default:
			continue
		}
		out = append(out, n)
		if limit > 0 && len(out) == limit {
			return out
		}
	}
	return out
}

// collectBackward gathers elements from first through preceding siblings,
// nearest first, until an element matches stop.
func collectBackward(first *html.Node, stop stopFunc, limit int) []*html.Node {
	var out []*html.Node
	for n := first; n != nil; n = n.PrevSibling {
		if n.Type != html.ElementNode {
			continue
		}
		if stop != nil && stop(n) {
			return out
		}
		out = append(out, n)
		if limit > 0 && len(out) == limit {
			return out
		}
	}
	return out
}

// findNext returns the first element matching match in document order
// after start, descending into start's own children first.
func findNext(start *html.Node, match func(*html.Node) bool) *html.Node {
	for n := nextNode(start); n != nil; n = nextNode(n) {
		if n.Type == html.ElementNode && match(n) {
			return n
		}
	}
	return nil
}

// nextNode advances one step in depth-first pre-order.
func nextNode(n *html.Node) *html.Node {
	if n.FirstChild != nil {
		return n.FirstChild
	}
	for ; n != nil; n = n.Parent {
		if n.NextSibling != nil {
			return n.NextSibling
		}
	}
	return nil
}

func isHeaderlink(n *html.Node) bool {
	return n.Data == "a" && hasClass(n, "headerlink")
}

// isBoundary matches elements whose class list contains a boundary class,
// and tables.
func isBoundary(n *html.Node) bool {
	for _, a := range n.Attr {
		if a.Key != "class" {
			continue
		}
		for _, c := range strings.Fields(a.Val) {
			if boundaryClasses[c] {
				return true
			}
		}
	}
	return n.Data == "table"
}

func hasClass(n *html.Node, name string) bool {
	for _, a := range n.Attr {
		if a.Key != "class" {
			continue
		}
		for _, c := range strings.Fields(a.Val) {
			if c == name {
				return true
			}
		}
	}
	return false
}

// renderNodes serializes nodes back to HTML, preserving text nodes.
func renderNodes(nodes []*html.Node) string {
	var b strings.Builder
	for _, n := range nodes {
		_ = html.Render(&b, n)
	}
	return b.String()
}

// nodeText returns the concatenated text content of a node's subtree.
func nodeText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}
