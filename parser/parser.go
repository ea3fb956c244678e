package parser

import (
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/PuerkitoBio/goquery"
)

// Parser converts a post's raw HTML into a Markdown body. The
// underlying Markdown converter is built once and reused: it is
// goroutine-safe, so a single Parser can be shared across a batch run.
type Parser struct {
	conv *converter.Converter
}

// New creates a Parser.
func New() *Parser {
	return &Parser{conv: newMarkdownConverter()}
}

// Parse classifies rawHTML into a variant and returns its Markdown
// body. It never errors: malformed input degrades to an empty string,
// which the caller treats as "body unavailable" (spec.md §4.2).
func (p *Parser) Parse(rawHTML string, pageURL string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return ""
	}

	normalizeLazyImages(doc)

	variant, subtree := detect(doc)
	switch variant {
	case VariantGallery:
		images := galleryImages(doc)
		return composeGallery(doc, images)
	case VariantArticle:
		if body := parseArticle(p.conv, subtree, pageURL); body != "" {
			return body
		}
		return parseFallback(doc)
	default:
		return parseFallback(doc)
	}
}

// IsEmptyBody reports whether html would parse to an empty body,
// usable as the httpclient.GetHTML emptyBodyCheck callback so the
// retry policy's "empty body after parse" condition (spec.md §4.1)
// runs the real parser rather than a blank-string heuristic.
func (p *Parser) IsEmptyBody(html string) bool {
	return strings.TrimSpace(p.Parse(html, "")) == ""
}
