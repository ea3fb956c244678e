package parser

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var fallbackTextSelectors = []string{
	".rich_media_content", "#js_content", ".rich_media_area_primary", "article", ".article-content",
}

const fallbackMaxImages = 20

// parseFallback builds a Markdown body when neither the gallery nor
// article variant applies: a title heading, the first matching
// text block's plain text, then up to 20 swept images.
func parseFallback(doc *goquery.Document) string {
	var b strings.Builder

	if title := extractTitle(doc); title != "" {
		b.WriteString("# " + title + "\n\n")
	}

	for _, sel := range fallbackTextSelectors {
		match := doc.Find(sel).First()
		if match.Length() == 0 {
			continue
		}
		if text := strings.TrimSpace(match.Text()); text != "" {
			b.WriteString(text)
			b.WriteString("\n\n")
			break
		}
	}

	images := fallbackImages(doc)
	for _, src := range images {
		fmt.Fprintf(&b, "![](%s)\n\n", src)
	}

	return strings.TrimSpace(b.String()) + "\n"
}

func fallbackImages(doc *goquery.Document) []string {
	set := newImageSet()
	doc.Find(`img[data-src], img[src*="mmbiz.qpic.cn"]`).EachWithBreak(func(_ int, img *goquery.Selection) bool {
		src, ok := img.Attr("src")
		if !ok || src == "" || isDataURI(src) {
			src, ok = img.Attr("data-src")
			if !ok || src == "" || isDataURI(src) {
				return true
			}
		}
		set.add(src)
		return len(set.items) < fallbackMaxImages
	})
	return set.urls()
}
