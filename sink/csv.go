package sink

import (
	"encoding/csv"
	"io"

	"github.com/vag-Zhao/WeMediaSpider/models"
)

var csvHeader = []string{"公众号", "标题", "发布时间", "链接", "内容"}

// writeCSV writes the UTF-8 BOM, the canonical Chinese header, then one
// row per record, in PublishedAtText/URL/Body order matching the
// header (spec.md §4.7).
func writeCSV(w io.Writer, records []models.PostRecord) error {
	if _, err := w.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	cw.UseCRLF = false

	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, r := range records {
		row := []string{r.Publisher, r.Title, r.PublishedAtText, r.URL, r.Body}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
