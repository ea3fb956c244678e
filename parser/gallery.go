package parser

import (
	"encoding/json"
	"html"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// topLevelCDNURL matches a `height:'N'*1,cdn_url:'...'` pair as emitted
// at the top level of picture_page_info_list. Nested occurrences
// (inside watermark_info or share_cover) are never immediately preceded
// by a height field in this shape, so this intentionally does not
// tolerate nesting — see spec.md's note against "improving" it.
var topLevelCDNURL = regexp.MustCompile(`height\s*:\s*'(\d+)'\s*\*\s*1\s*,\s*cdn_url\s*:\s*'([^']*)'`)

var hexEscape = regexp.MustCompile(`\\x([0-9A-Fa-f]{2})`)
var trailingComma = regexp.MustCompile(`,\s*([\]}])`)
var unquotedKey = regexp.MustCompile(`([{,]\s*)([A-Za-z_][A-Za-z0-9_]*)\s*:`)
var starOne = regexp.MustCompile(`'(\d+)'\s*\*\s*1`)

// galleryImages runs the gallery image-extraction precedence and
// returns deduplicated, thumbnail-filtered image URLs in first-seen
// order (spec.md §4.2, points 1-5).
func galleryImages(doc *goquery.Document) []string {
	set := newImageSet()

	if urls := jsVariableScan(doc); len(urls) > 0 {
		for _, u := range urls {
			set.add(u)
		}
		return finalizeGallery(set)
	}

	doc.Find(".swiper_item_img img").Each(func(_ int, img *goquery.Selection) {
		src, ok := img.Attr("src")
		if !ok || src == "" {
			src, _ = img.Attr("data-src")
		}
		set.add(src)
	})
	if len(set.items) > 0 {
		return finalizeGallery(set)
	}

	doc.Find(".swiper_item[data-src]").Each(func(_ int, s *goquery.Selection) {
		if src, ok := s.Attr("data-src"); ok {
			set.add(src)
		}
	})
	if len(set.items) > 0 {
		return finalizeGallery(set)
	}

	doc.Find(".rich_media_content img, #js_content img, .image_content img").Each(func(_ int, img *goquery.Selection) {
		class, _ := img.Attr("class")
		if isAvatarClass(class) {
			return
		}
		if dw, ok := img.Attr("data-w"); ok {
			if n, err := strconv.Atoi(dw); err == nil && n < 200 {
				return
			}
		}
		src, ok := img.Attr("src")
		if !ok || src == "" {
			src, _ = img.Attr("data-src")
		}
		set.add(src)
	})
	if len(set.items) > 0 {
		return finalizeGallery(set)
	}

	doc.Find("img").Each(func(_ int, img *goquery.Selection) {
		src, ok := img.Attr("src")
		if !ok || src == "" {
			src, _ = img.Attr("data-src")
		}
		set.add(src)
	})

	return finalizeGallery(set)
}

// finalizeGallery applies the gallery-only thumbnail filter after
// dedup, preserving order.
func finalizeGallery(set *imageSet) []string {
	out := make([]string, 0, len(set.items))
	for _, u := range set.items {
		if isThumbnail(u) {
			continue
		}
		out = append(out, u)
	}
	return out
}

// jsVariableScan finds picture_page_info_list in each <script> and
// extracts image URLs via regex first, JSON parse second.
func jsVariableScan(doc *goquery.Document) []string {
	var urls []string

	doc.Find("script").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := s.Text()
		idx := strings.Index(text, "picture_page_info_list")
		if idx < 0 {
			return true
		}
		payload := text[idx:]

		if matches := topLevelCDNURL.FindAllStringSubmatch(payload, -1); len(matches) > 0 {
			for _, m := range matches {
				urls = append(urls, m[2])
			}
			return false
		}

		if parsed := parsePictureListJSON(payload); len(parsed) > 0 {
			urls = parsed
			return false
		}

		return true
	})

	return urls
}

// parsePictureListJSON is the fallback for when the regex finds no
// top-level pairs: it coerces the JS object-literal array into JSON
// and decodes it.
func parsePictureListJSON(payload string) []string {
	start := strings.IndexByte(payload, '[')
	if start < 0 {
		return nil
	}
	depth := 0
	end := -1
	for i := start; i < len(payload); i++ {
		switch payload[i] {
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				end = i + 1
			}
		}
		if end != -1 {
			break
		}
	}
	if end == -1 {
		return nil
	}

	raw := payload[start:end]
	raw = html.UnescapeString(raw)
	raw = hexEscape.ReplaceAllStringFunc(raw, func(m string) string {
		sub := hexEscape.FindStringSubmatch(m)
		n, err := strconv.ParseInt(sub[1], 16, 32)
		if err != nil {
			return m
		}
		return string(rune(n))
	})
	raw = starOne.ReplaceAllString(raw, "$1")
	raw = unquotedKey.ReplaceAllString(raw, `$1"$2":`)
	raw = strings.ReplaceAll(raw, "'", `"`)
	raw = trailingComma.ReplaceAllString(raw, "$1")

	var items []map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil
	}

	var urls []string
	for _, item := range items {
		if cdn, ok := item["cdn_url"].(string); ok && cdn != "" {
			urls = append(urls, cdn)
		}
	}
	return urls
}
