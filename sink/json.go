package sink

import (
	"encoding/json"
	"io"

	"github.com/vag-Zhao/WeMediaSpider/models"
)

// jsonRecord mirrors the CSV header's five keys, in the same order and
// the same Chinese names, so the CSV and JSON variants are
// interchangeable views of one record (spec.md §4.7).
type jsonRecord struct {
	Publisher   string `json:"公众号"`
	Title       string `json:"标题"`
	PublishedAt string `json:"发布时间"`
	URL         string `json:"链接"`
	Body        string `json:"内容"`
}

func writeJSON(w io.Writer, records []models.PostRecord) error {
	out := make([]jsonRecord, len(records))
	for i, r := range records {
		out[i] = jsonRecord{
			Publisher:   r.Publisher,
			Title:       r.Title,
			PublishedAt: r.PublishedAtText,
			URL:         r.URL,
			Body:        r.Body,
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(out)
}
