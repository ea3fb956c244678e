package parser

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var titleSelectors = []string{".rich_media_title", "#activity-name", "h1"}
var descriptionSelectors = []string{"#js_image_desc", ".share_notice"}

var htmlTagStrip = regexp.MustCompile(`<[^>]*>`)

func extractTitle(doc *goquery.Document) string {
	for _, sel := range titleSelectors {
		if text := strings.TrimSpace(doc.Find(sel).First().Text()); text != "" {
			return text
		}
	}
	return ""
}

func extractDescription(doc *goquery.Document) string {
	for _, sel := range descriptionSelectors {
		if text := strings.TrimSpace(doc.Find(sel).First().Text()); text != "" {
			return text
		}
	}
	if content, ok := doc.Find(`meta[name="description"]`).First().Attr("content"); ok {
		return strings.TrimSpace(content)
	}
	return ""
}

func extractTopics(doc *goquery.Document) []string {
	var topics []string
	doc.Find(".wx_topic_link").Each(func(_ int, s *goquery.Selection) {
		text := htmlTagStrip.ReplaceAllString(s.Text(), "")
		text = strings.TrimSpace(text)
		if text != "" {
			topics = append(topics, text)
		}
	})
	return topics
}

// composeGallery builds the Markdown body for a gallery post: title
// heading, optional description, an image section, then topic tags.
func composeGallery(doc *goquery.Document, images []string) string {
	var b strings.Builder

	if title := extractTitle(doc); title != "" {
		b.WriteString("# " + title + "\n\n")
	}
	if desc := extractDescription(doc); desc != "" {
		b.WriteString(desc + "\n\n")
	}

	b.WriteString("## 图片内容\n\n")
	for _, src := range images {
		fmt.Fprintf(&b, "![](%s)\n\n", src)
	}

	if topics := extractTopics(doc); len(topics) > 0 {
		b.WriteString(strings.Join(topics, " "))
		b.WriteString("\n")
	}

	return strings.TrimSpace(b.String()) + "\n"
}
