package docdex

import "strings"

// FormatResolution formats a resolved symbol for display. The rendered
// markdown is framed with the symbol name, its documentation URL, and a
// footer listing renamed symbols sharing the plain name.
func FormatResolution(res *Resolution) string {
	var b strings.Builder

	b.WriteString("## " + res.Symbol.Name + "\n\n")
	b.WriteString(strings.TrimRight(res.Markdown, "\n"))
	b.WriteString("\n\n" + res.Symbol.URL())

	if len(res.Related) > 0 {
		b.WriteString("\n\nRelated: " + strings.Join(res.Related, ", "))
	}

	return b.String()
}
