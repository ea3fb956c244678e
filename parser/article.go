package parser

import (
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/PuerkitoBio/goquery"
)

// minArticleMarkdown is the trimmed length below which an article
// conversion is considered empty and falls through to fallback
// extraction on the same subtree.
const minArticleMarkdown = 10

// parseArticle converts the matched subtree to Markdown, with images
// forced to block form outside inline-marked parents. Returns "" if
// the result is too short, signaling the caller to fall through to
// fallback extraction.
func parseArticle(conv *converter.Converter, subtree *goquery.Selection, pageURL string) string {
	blockifyImages(subtree)

	html, err := goquery.OuterHtml(subtree)
	if err != nil {
		return ""
	}

	markdown, err := conv.ConvertString(html, converter.WithDomain(pageURL))
	if err != nil {
		return ""
	}

	if len(strings.TrimSpace(markdown)) < minArticleMarkdown {
		return ""
	}
	return markdown
}
