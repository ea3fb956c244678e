package parser

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// normalizeLazyImages rewrites every <img> whose src is a lazy-load
// placeholder (empty, a data-URI SVG, or containing "pic_blank") to use
// data-src instead, when data-src is present. Applied first, always,
// before any variant-specific extraction (spec.md §4.2).
func normalizeLazyImages(doc *goquery.Document) {
	doc.Find("img").Each(func(_ int, img *goquery.Selection) {
		src, _ := img.Attr("src")
		dataSrc, hasDataSrc := img.Attr("data-src")
		if !hasDataSrc || dataSrc == "" {
			return
		}
		if src == "" || isPlaceholderImage(src) {
			img.SetAttr("src", dataSrc)
		}
	})
}

func isPlaceholderImage(src string) bool {
	if strings.HasPrefix(src, "data:image/svg") {
		return true
	}
	return strings.Contains(src, "pic_blank")
}
