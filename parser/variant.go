// Package parser turns a post's raw HTML into a Markdown body,
// recognizing PubPlat's three post variants and falling back to plain
// text plus an image sweep when none of them apply (spec.md §4.2).
package parser

import (
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
)

// Variant is the structural category of a post's HTML.
type Variant int

const (
	VariantGallery Variant = iota
	VariantArticle
	VariantFallback
)

func (v Variant) String() string {
	switch v {
	case VariantGallery:
		return "gallery"
	case VariantArticle:
		return "article"
	default:
		return "fallback"
	}
}

// articleSelectors is tried in order; the first match with at least
// minNonWhitespace non-whitespace characters wins.
var articleSelectors = []string{
	".rich_media_content", "#js_content", "#js_image_content", ".image_content",
	"#js_image_desc", ".share_notice", ".swiper_item_img", "#img_swiper_content",
	".share_media_swiper_content", ".img_swiper_area", "#js_video_content",
	".video_content", ".rich_media_video", ".rich_media_area_primary",
	".rich_media_area_primary_inner", "#js_article_content",
	"#js_content_container", "#page-content", ".rich_media_inner",
	".rich_media_wrp", "article", ".article", "#article",
}

// minNonWhitespace is the threshold below which an article selector
// match is considered empty and skipped in favour of the next selector;
// detection falls through to fallback only when no selector qualifies.
const minNonWhitespace = 10

// detect classifies the document and, for the article variant, returns
// the matched subtree.
func detect(doc *goquery.Document) (Variant, *goquery.Selection) {
	if isGallery(doc) {
		return VariantGallery, nil
	}

	for _, sel := range articleSelectors {
		match := doc.Find(sel).First()
		if match.Length() == 0 {
			continue
		}
		if nonWhitespaceLen(match.Text()) >= minNonWhitespace {
			return VariantArticle, match
		}
	}

	return VariantFallback, nil
}

func isGallery(doc *goquery.Document) bool {
	bodyClass, _ := doc.Find("body").First().Attr("class")
	if strings.Contains(bodyClass, "page_share_img") {
		return true
	}
	return doc.Find(".swiper_item, .swiper_item_img, .share_media_swiper").Length() > 0
}

func nonWhitespaceLen(s string) int {
	n := 0
	for _, r := range s {
		if !unicode.IsSpace(r) {
			n++
		}
	}
	return n
}
