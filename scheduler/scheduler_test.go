package scheduler

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/vag-Zhao/WeMediaSpider/models"
)

type fakeRunner struct {
	records []models.PostRecord
	delay   time.Duration
	panics  bool
}

func (f *fakeRunner) Run(ctx context.Context, displayName string) []models.PostRecord {
	if f.panics {
		panic("boom")
	}
	if f.delay > 0 {
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(f.delay):
		}
	}
	return f.records
}

type fakeSink struct {
	mu     sync.Mutex
	events []models.ProgressEvent
}

func (f *fakeSink) Emit(e models.ProgressEvent) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, e)
}

func (f *fakeSink) count(kind models.ProgressKind) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, e := range f.events {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

func testCfg(publishers ...string) *models.BatchConfig {
	return &models.BatchConfig{
		Publishers:                        publishers,
		WindowStart:                       time.Now().AddDate(0, -1, 0),
		WindowEnd:                         time.Now(),
		MaxPagesPerPublisher:              1,
		RequestIntervalSecs:               1,
		MaxConcurrentPublishers:           2,
		MaxConcurrentRequestsPerPublisher: 2,
	}
}

func TestSchedulerMergesRecordsAcrossPublishers(t *testing.T) {
	cfg := testCfg("A", "B")
	sink := &fakeSink{}

	factory := func(displayName string) Runner {
		return &fakeRunner{records: []models.PostRecord{{Publisher: displayName, Title: "t", URL: "https://x/1", PublishedAt: 1}}}
	}

	s := New(cfg, factory, sink)
	records := s.Run(context.Background())

	if len(records) != 2 {
		t.Fatalf("expected 2 merged records, got %d", len(records))
	}
	if sink.count(models.KindBatchCompleted) != 1 {
		t.Fatalf("expected exactly 1 BatchCompleted event, got %d", sink.count(models.KindBatchCompleted))
	}
}

func TestSchedulerIsolatesPanickingPipeline(t *testing.T) {
	cfg := testCfg("good", "bad")
	sink := &fakeSink{}

	factory := func(displayName string) Runner {
		if displayName == "bad" {
			return &fakeRunner{panics: true}
		}
		return &fakeRunner{records: []models.PostRecord{{Publisher: displayName, Title: "t", URL: "https://x/1", PublishedAt: 1}}}
	}

	s := New(cfg, factory, sink)
	records := s.Run(context.Background())

	if len(records) != 1 {
		t.Fatalf("expected the good pipeline's record to survive, got %d records", len(records))
	}
}

func TestSchedulerStopsAdmittingAfterCancel(t *testing.T) {
	cfg := testCfg("A", "B", "C")
	cfg.MaxConcurrentPublishers = 1
	sink := &fakeSink{}

	ctx, cancel := context.WithCancel(context.Background())

	factory := func(displayName string) Runner {
		return &fakeRunner{
			records: []models.PostRecord{{Publisher: displayName, Title: "t", URL: "https://x/1", PublishedAt: 1}},
			delay:   50 * time.Millisecond,
		}
	}

	s := New(cfg, factory, sink)

	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	records := s.Run(ctx)
	if len(records) > 1 {
		t.Fatalf("expected at most 1 publisher to complete before cancellation stopped admission, got %d", len(records))
	}
}

func TestArticleCountTotalAccumulatesAcrossPublishers(t *testing.T) {
	cfg := testCfg("A", "B")
	sink := &fakeSink{}

	factory := func(displayName string) Runner {
		return &fakeRunner{records: nil}
	}
	s := New(cfg, factory, sink)

	s.Emit(models.NewArticleCountEvent(0, 3, ""))
	s.Emit(models.NewArticleCountEvent(0, 2, ""))

	sink.mu.Lock()
	defer sink.mu.Unlock()
	if len(sink.events) != 2 {
		t.Fatalf("expected 2 forwarded events, got %d", len(sink.events))
	}
	if sink.events[0].ArticleCount.Total != 3 {
		t.Fatalf("expected first total 3, got %d", sink.events[0].ArticleCount.Total)
	}
	if sink.events[1].ArticleCount.Total != 5 {
		t.Fatalf("expected running total 5, got %d", sink.events[1].ArticleCount.Total)
	}
}
