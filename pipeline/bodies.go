package pipeline

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/vag-Zhao/WeMediaSpider/models"
)

// fetchBodies concurrently fetches and parses each record's body,
// bounded by the per-pipeline inner semaphore. Emits ContentProgress
// after each completion (spec.md §4.5 step 4). Cancellation leaves
// already-completed bodies in place; remaining records keep body=""
// (partial-result guarantee, spec.md §4.5, §5).
func (p *Pipeline) fetchBodies(ctx context.Context, displayName string, records []models.PostRecord) []models.PostRecord {
	total := len(records)
	var completed int
	var mu sync.Mutex
	var wg sync.WaitGroup

	markDone := func() {
		mu.Lock()
		completed++
		current := completed
		mu.Unlock()
		p.emit(models.NewContentProgressEvent(displayName, current, total, ""))
	}

	for i := range records {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()

			if err := p.innerSem.Acquire(ctx); err != nil {
				return
			}
			defer p.innerSem.Release()

			if ctx.Err() != nil {
				return
			}

			if p.bodies != nil {
				if cached, ok := p.bodies.Get(records[i].URL); ok {
					records[i].Body = cached
					markDone()
					return
				}
			}

			body, err := p.client.GetHTML(ctx, records[i].URL, p.parser.IsEmptyBody)
			if err == nil {
				records[i].Body = p.parser.Parse(body, records[i].URL)
				if p.bodies != nil {
					p.bodies.Set(records[i].URL, records[i].Body)
				}
			}

			interRequestPace(ctx, p.cfg.RequestIntervalSecs)
			markDone()
		}()
	}
	wg.Wait()

	return records
}

// filterByKeyword drops records whose body doesn't contain keyword
// (case-insensitive substring), reporting the drop count as a
// net-negative ArticleCount delta (spec.md §4.5 step 5).
func (p *Pipeline) filterByKeyword(records []models.PostRecord, keyword string) []models.PostRecord {
	if keyword == "" {
		return records
	}

	needle := strings.ToLower(keyword)
	kept := records[:0:0]
	dropped := 0
	for _, r := range records {
		if strings.Contains(strings.ToLower(r.Body), needle) {
			kept = append(kept, r)
		} else {
			dropped++
		}
	}

	if dropped > 0 {
		p.emit(models.NewArticleCountEvent(0, -dropped, fmt.Sprintf("关键词过滤丢弃 %d 篇", dropped)))
	}
	return kept
}
