// Package htmltomarkdown renders extracted documentation fragments as
// length-bounded markdown using html-to-markdown.
package htmltomarkdown

import (
	"regexp"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/fwojciec/docdex"
)

// Rendering bounds. Descriptions are truncated to fit a chat-message-sized
// display; signature lines are shortened independently.
const (
	DefaultMaxDescriptionLength = 1000
	DefaultMaxSignatureLength   = 500
	DefaultSignatureLanguage    = "py"
)

// genericPageNotice replaces the body when the anchor element was
// expected to carry a signature but had none, which happens on index-like
// pages that anchor many symbols without defining any.
const genericPageNotice = "This appears to be a generic page not tied to a specific symbol."

// whitespaceAfterNewlinesRe collapses indentation following a paragraph
// break, a conversion artifact of deeply nested documentation HTML.
var whitespaceAfterNewlinesRe = regexp.MustCompile(`\n\n\s+`)

// Ensure Renderer implements docdex.FragmentRenderer at compile time.
var _ docdex.FragmentRenderer = (*Renderer)(nil)

// Renderer converts fragments to markdown: signatures on top in fenced
// code blocks, the converted description below.
type Renderer struct {
	conv           *converter.Converter
	maxDescription int
	maxSignature   int
	language       string
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithMaxDescriptionLength bounds the rendered description.
// Defaults to DefaultMaxDescriptionLength.
func WithMaxDescriptionLength(n int) Option {
	return func(r *Renderer) {
		r.maxDescription = n
	}
}

// WithMaxSignatureLength bounds each signature line.
// Defaults to DefaultMaxSignatureLength.
func WithMaxSignatureLength(n int) Option {
	return func(r *Renderer) {
		r.maxSignature = n
	}
}

// WithSignatureLanguage sets the language tag on signature code fences.
// Defaults to DefaultSignatureLanguage.
func WithSignatureLanguage(lang string) Option {
	return func(r *Renderer) {
		r.language = lang
	}
}

// NewRenderer creates a new Renderer.
func NewRenderer(opts ...Option) *Renderer {
	r := &Renderer{
		maxDescription: DefaultMaxDescriptionLength,
		maxSignature:   DefaultMaxSignatureLength,
		language:       DefaultSignatureLanguage,
	}
	for _, opt := range opts {
		opt(r)
	}

	r.conv = converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
			table.NewTablePlugin(),
		),
	)

	return r
}

// Render produces the markdown for a fragment. A nil signature list means
// no signature applied to the symbol's group and only the description is
// returned; an empty list means a signature was expected but missing, and
// the generic-page notice replaces the body.
func (r *Renderer) Render(frag *docdex.Fragment) (string, error) {
	if frag == nil {
		return "", docdex.Errorf(docdex.EINVALID, "nil fragment")
	}

	description, err := r.description(frag)
	if err != nil {
		return "", err
	}

	if frag.Signatures == nil {
		return description, nil
	}
	if len(frag.Signatures) == 0 {
		return genericPageNotice, nil
	}

	var b strings.Builder
	for _, sig := range frag.Signatures {
		b.WriteString("```")
		b.WriteString(r.language)
		b.WriteString("\n")
		b.WriteString(shorten(sig, r.maxSignature))
		b.WriteString("\n```\n")
	}
	b.WriteString("\n")
	b.WriteString(description)

	return b.String(), nil
}

func (r *Renderer) description(frag *docdex.Fragment) (string, error) {
	if strings.TrimSpace(frag.Description) == "" {
		return "", nil
	}

	var opts []converter.ConvertOptionFunc
	if frag.PageURL != "" {
		// Relative links in the fragment resolve against the page address.
		opts = append(opts, converter.WithDomain(frag.PageURL))
	}

	md, err := r.conv.ConvertString(frag.Description, opts...)
	if err != nil {
		return "", docdex.Errorf(docdex.EINTERNAL, "markdown conversion failed: %v", err)
	}

	md = Truncate(md, r.maxDescription)
	return whitespaceAfterNewlinesRe.ReplaceAllString(md, "\n\n"), nil
}
