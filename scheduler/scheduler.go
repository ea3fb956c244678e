// Package scheduler implements the batch scheduler (C6): N publisher
// pipelines run under an outer concurrency bound, their records are
// merged into one shared aggregate under a mutex, and a single
// cancellation token stops admission of new pipelines while letting
// in-flight ones finish at their next poll (spec.md §4.6).
package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/vag-Zhao/WeMediaSpider/concurrency"
	"github.com/vag-Zhao/WeMediaSpider/models"
)

// Runner is what the scheduler needs from a Pipeline: run one
// publisher to completion and return whatever records it collected,
// partial or complete.
type Runner interface {
	Run(ctx context.Context, displayName string) []models.PostRecord
}

// PipelineFactory builds a Runner for one publisher. Scheduler calls
// it once per publisher in cfg.Publishers.
type PipelineFactory func(displayName string) Runner

// EventSink is where the scheduler forwards progress events, after
// rewriting ArticleCount.Total to the running cross-publisher count.
type EventSink interface {
	Emit(models.ProgressEvent)
}

// Scheduler runs a batch: one pipeline per publisher, bounded by
// cfg.MaxConcurrentPublishers.
type Scheduler struct {
	cfg     *models.BatchConfig
	factory PipelineFactory
	sink    EventSink

	outerSem *concurrency.Semaphore

	mu      sync.Mutex
	records []models.PostRecord

	runningTotal atomic.Int64
}

// New creates a Scheduler for one batch run.
func New(cfg *models.BatchConfig, factory PipelineFactory, sink EventSink) *Scheduler {
	return &Scheduler{
		cfg:      cfg,
		factory:  factory,
		sink:     sink,
		outerSem: concurrency.NewSemaphore(cfg.MaxConcurrentPublishers),
	}
}

// Run starts one pipeline per publisher in cfg.Publishers, waits for
// all to finish (or ctx to be cancelled, after which no new pipeline
// is admitted), and returns the accumulated records. Never loses a
// record already appended to the aggregate, even on cancellation
// (spec.md §4.6).
func (s *Scheduler) Run(ctx context.Context) []models.PostRecord {
	runID := uuid.NewString()
	log := slog.With("run_id", runID, "publishers", len(s.cfg.Publishers))
	log.Info("batch run started")

	var wg sync.WaitGroup

	for _, publisher := range s.cfg.Publishers {
		if ctx.Err() != nil {
			log.Warn("cancellation observed before admitting all publishers")
			break // new pipelines do not start once cancelled
		}

		publisher := publisher
		wg.Add(1)
		go func() {
			defer wg.Done()

			if err := s.outerSem.Acquire(ctx); err != nil {
				return
			}
			defer s.outerSem.Release()

			if ctx.Err() != nil {
				return
			}

			runner := s.factory(publisher)
			records := s.runIsolated(ctx, runner, publisher)
			s.append(records)
		}()
	}

	wg.Wait()

	total := int(s.runningTotal.Load())
	log.Info("batch run completed", "total_articles", total)
	s.Emit(models.NewBatchCompletedEvent(total))

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.records
}

// runIsolated runs one pipeline, converting any panic into a Failed
// state event so one publisher's defect never takes down its
// siblings (spec.md §4.6 "Error isolation").
func (s *Scheduler) runIsolated(ctx context.Context, runner Runner, publisher string) (records []models.PostRecord) {
	defer func() {
		if r := recover(); r != nil {
			s.Emit(models.NewPipelineStateEvent(publisher, models.StateFailed, "internal error"))
			records = nil
		}
	}()
	return runner.Run(ctx, publisher)
}

func (s *Scheduler) append(records []models.PostRecord) {
	if len(records) == 0 {
		return
	}
	s.mu.Lock()
	s.records = append(s.records, records...)
	s.mu.Unlock()
}

// Emit forwards an event to the underlying sink, first rewriting
// ArticleCount deltas into the scheduler's running cross-publisher
// total. Scheduler implements pipeline.EventSink with this method so
// that pipelines built by the factory emit through the scheduler
// rather than straight to the external bus.
func (s *Scheduler) Emit(e models.ProgressEvent) {
	if e.Kind == models.KindArticleCount && e.ArticleCount != nil {
		total := s.runningTotal.Add(int64(e.ArticleCount.Delta))
		e.ArticleCount.Total = int(total)
	}
	if s.sink != nil {
		s.sink.Emit(e)
	}
}
