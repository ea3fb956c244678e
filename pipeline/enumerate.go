package pipeline

import (
	"context"
	"net/url"
	"strconv"

	"github.com/vag-Zhao/WeMediaSpider/models"
)

const pageSize = 5

type appMsgResponse struct {
	AppMsgList []struct {
		Title      string `json:"title"`
		Link       string `json:"link"`
		UpdateTime int64  `json:"update_time"`
	} `json:"app_msg_list"`
	AppMsgCnt int `json:"app_msg_cnt"`
	BaseResp  struct {
		Ret    int    `json:"ret"`
		ErrMsg string `json:"err_msg"`
	} `json:"base_resp"`
}

type pageResult struct {
	page    int
	records []models.PostRecord
	err     error
}

// enumeratePosts issues list_ex for pages 0..maxPages-1 concurrently,
// bounded by the per-pipeline inner semaphore, then truncates to the
// contiguous leading prefix of non-empty pages (spec.md §4.5 step 2;
// the "parallel launch, then merge" reading of the concurrent
// stop-early criterion — see DESIGN.md Open Question decisions).
func (p *Pipeline) enumeratePosts(ctx context.Context, ref models.PublisherRef, maxPages int) ([]models.PostRecord, error) {
	results := make([]pageResult, maxPages)

	done := make(chan int, maxPages)
	for page := 0; page < maxPages; page++ {
		page := page
		go func() {
			if err := p.innerSem.Acquire(ctx); err != nil {
				results[page] = pageResult{page: page, err: err}
				done <- page
				return
			}
			defer p.innerSem.Release()

			if ctx.Err() != nil {
				results[page] = pageResult{page: page, err: ctx.Err()}
				done <- page
				return
			}

			records, err := p.fetchPage(ctx, ref, page)
			results[page] = pageResult{page: page, records: records, err: err}
			interRequestPace(ctx, p.cfg.RequestIntervalSecs)
			done <- page
		}()
	}
	for i := 0; i < maxPages; i++ {
		<-done
	}

	var merged []models.PostRecord
	for _, r := range results {
		if r.err != nil || len(r.records) == 0 {
			break
		}
		merged = append(merged, r.records...)
	}
	return merged, nil
}

func (p *Pipeline) fetchPage(ctx context.Context, ref models.PublisherRef, page int) ([]models.PostRecord, error) {
	query := url.Values{
		"action": {"list_ex"},
		"begin":  {strconv.Itoa(page * pageSize)},
		"count":  {strconv.Itoa(pageSize)},
		"fakeid": {ref.InternalID},
		"type":   {"9"},
		"query":  {""},
	}

	var resp appMsgResponse
	if err := p.client.GetJSON(ctx, "/cgi-bin/appmsg", query, &resp); err != nil {
		return nil, err
	}

	records := make([]models.PostRecord, 0, len(resp.AppMsgList))
	for _, item := range resp.AppMsgList {
		records = append(records, models.PostRecord{
			Publisher:       ref.DisplayName,
			Title:           item.Title,
			URL:             item.Link,
			PublishedAt:     item.UpdateTime,
			PublishedAtText: models.FormatPublishedAt(item.UpdateTime),
		})
	}
	return records, nil
}
