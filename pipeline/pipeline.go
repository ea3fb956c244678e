// Package pipeline implements the per-publisher state machine (C5):
// lookup, enumerate, filter by window, optionally fetch bodies, filter
// by keyword, and report status — spec.md §4.5.
package pipeline

import (
	"context"
	"net/url"

	"github.com/vag-Zhao/WeMediaSpider/bodycache"
	"github.com/vag-Zhao/WeMediaSpider/concurrency"
	"github.com/vag-Zhao/WeMediaSpider/models"
	"github.com/vag-Zhao/WeMediaSpider/parser"
)

// EventSink receives progress events emitted during a pipeline run.
// Implemented by progressbus.Bus.
type EventSink interface {
	Emit(models.ProgressEvent)
}

// jsonHTMLClient is what Pipeline needs from httpclient.Client: both
// JSON and HTML fetches. Declared here, matching httpclient.Client's
// exact method signatures, so pipeline depends on a narrow interface
// rather than the concrete client type.
type jsonHTMLClient interface {
	GetJSON(ctx context.Context, path string, query url.Values, out interface{}) error
	GetHTML(ctx context.Context, targetURL string, emptyBodyCheck func(string) bool) (string, error)
}

// Pipeline runs one publisher's lookup → enumerate → filter → bodies
// → keyword-filter sequence.
type Pipeline struct {
	client   jsonHTMLClient
	parser   *parser.Parser
	cfg      *models.BatchConfig
	breakers *BreakerRegistry
	sink     EventSink
	innerSem *concurrency.Semaphore
	bodies   *bodycache.Cache
}

// New creates a Pipeline bound to one batch's config and shared
// collaborators. client is ordinarily a *httpclient.Client. bodies may
// be nil, in which case every body is fetched fresh.
func New(client jsonHTMLClient, p *parser.Parser, cfg *models.BatchConfig, breakers *BreakerRegistry, sink EventSink, bodies *bodycache.Cache) *Pipeline {
	return &Pipeline{
		client:   client,
		parser:   p,
		cfg:      cfg,
		breakers: breakers,
		sink:     sink,
		innerSem: concurrency.NewSemaphore(cfg.MaxConcurrentRequestsPerPublisher),
		bodies:   bodies,
	}
}

func (p *Pipeline) emit(e models.ProgressEvent) {
	if p.sink != nil {
		p.sink.Emit(e)
	}
}

// Run executes the full pipeline for one publisher. It never returns
// an error to the scheduler: failures are reported as a Failed
// PipelineState event and an empty record slice (spec.md §4.5
// contract: "Never raises to scheduler").
func (p *Pipeline) Run(ctx context.Context, displayName string) []models.PostRecord {
	breaker := p.breakers.forKey(displayName)

	records, err := breaker.Execute(func() ([]models.PostRecord, error) {
		return p.runUnprotected(ctx, displayName)
	})
	if err != nil {
		p.emit(models.NewPipelineStateEvent(displayName, models.StateFailed, err.Error()))
		return nil
	}
	return records
}

func (p *Pipeline) runUnprotected(ctx context.Context, displayName string) ([]models.PostRecord, error) {
	p.emit(models.NewPipelineStateEvent(displayName, models.StateSearching, ""))
	ref, err := p.lookupPublisher(ctx, displayName)
	if err != nil {
		p.emit(models.NewPipelineStateEvent(displayName, models.StateFailed, err.Error()))
		return nil, err
	}

	if ctx.Err() != nil {
		return nil, nil
	}

	p.emit(models.NewPipelineStateEvent(displayName, models.StateFetching, ""))
	records, err := p.enumeratePosts(ctx, ref, p.cfg.MaxPagesPerPublisher)
	if err != nil {
		p.emit(models.NewPipelineStateEvent(displayName, models.StateFailed, err.Error()))
		return nil, err
	}

	p.emit(models.NewPipelineStateEvent(displayName, models.StateFiltering, ""))
	records = p.filterByWindow(records)
	// Total is left 0: the scheduler owns the cross-publisher running
	// aggregate and fills it in before forwarding (see scheduler.go).
	p.emit(models.NewArticleCountEvent(0, len(records), ""))

	if ctx.Err() != nil {
		return records, nil
	}

	if p.cfg.FetchBodies {
		p.emit(models.NewPipelineStateEvent(displayName, models.StateFetchingBodies, ""))
		records = p.fetchBodies(ctx, displayName, records)
		records = p.filterByKeyword(records, p.cfg.BodyKeyword)
	}

	p.emit(models.NewPipelineStateEvent(displayName, models.StateCompleted, ""))
	return records, nil
}

func (p *Pipeline) filterByWindow(records []models.PostRecord) []models.PostRecord {
	kept := records[:0:0]
	for _, r := range records {
		if p.cfg.DateInWindow(r.PublishedAt) {
			kept = append(kept, r)
		}
	}
	return kept
}
