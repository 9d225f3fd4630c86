package htmltomarkdown

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// minParagraphCut is the shortest acceptable result when truncating at a
// paragraph break; earlier breaks fall through to sentence and word
// boundaries.
const minParagraphCut = 100

// trailingPunctuation is stripped from the cut edge before the ellipsis
// marker is appended.
const trailingPunctuation = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

// cutpoints are boundary candidates in decreasing order of desirability.
var cutpoints = []string{". ", ", ", ",", " "}

// Truncate shortens markdown to at most maxLen bytes plus an ellipsis
// marker. It prefers to cut at the last paragraph break, falling back to
// sentence and word boundaries, and finally to a hard cut. A code fence
// left unterminated by the cut is removed entirely.
func Truncate(markdown string, maxLen int) string {
	if len(markdown) <= maxLen {
		return markdown
	}

	shortened := markdown[:maxLen]

	cutoff := strings.LastIndex(shortened, "\n\n")
	if cutoff < minParagraphCut {
		cutoff = -1
		for _, cp := range cutpoints {
			if idx := strings.LastIndex(shortened, cp); idx != -1 {
				cutoff = idx
				break
			}
		}
		if cutoff == -1 {
			cutoff = maxLen
			for cutoff > 0 && !utf8.RuneStart(markdown[cutoff]) {
				cutoff--
			}
		}
	}
	markdown = markdown[:cutoff]

	if strings.Count(markdown, "```")%2 == 1 {
		markdown = markdown[:strings.LastIndex(markdown, "```")]
		markdown = strings.TrimRightFunc(markdown, unicode.IsSpace)
	}

	return strings.TrimRight(markdown, trailingPunctuation) + "..."
}

// shorten collapses runs of whitespace in s and trims it to at most width
// bytes on a word boundary, appending a placeholder when words were
// dropped.
func shorten(s string, width int) string {
	words := strings.Fields(s)
	joined := strings.Join(words, " ")
	if len(joined) <= width {
		return joined
	}

	const placeholder = " [...]"
	for len(words) > 0 {
		words = words[:len(words)-1]
		if candidate := strings.Join(words, " ") + placeholder; len(candidate) <= width {
			return candidate
		}
	}
	return strings.TrimSpace(placeholder)
}
