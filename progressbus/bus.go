// Package progressbus implements the single-observer progress event
// dispatch (C8): one typed callback per event kind, delivered
// synchronously from the emitting worker. Unhandled events are
// dropped (spec.md §4.8).
package progressbus

import "github.com/vag-Zhao/WeMediaSpider/models"

// Bus dispatches ProgressEvents to at most one subscriber per kind.
// Safe for concurrent Emit calls; Subscribe is expected to happen
// once, before a batch run starts.
type Bus struct {
	onPipelineState  func(models.PipelineStateEvent)
	onArticleCount   func(models.ArticleCountEvent)
	onContentProgress func(models.ContentProgressEvent)
	onBatchCompleted func(models.BatchCompletedEvent)

	forwarder *webhookForwarder
}

// New creates an empty Bus. Subscribe before use; an unsubscribed
// kind is silently dropped on Emit.
func New() *Bus {
	return &Bus{}
}

// OnPipelineState registers the single observer for PipelineState events.
func (b *Bus) OnPipelineState(fn func(models.PipelineStateEvent)) { b.onPipelineState = fn }

// OnArticleCount registers the single observer for ArticleCount events.
func (b *Bus) OnArticleCount(fn func(models.ArticleCountEvent)) { b.onArticleCount = fn }

// OnContentProgress registers the single observer for ContentProgress events.
func (b *Bus) OnContentProgress(fn func(models.ContentProgressEvent)) { b.onContentProgress = fn }

// OnBatchCompleted registers the single observer for BatchCompleted events.
func (b *Bus) OnBatchCompleted(fn func(models.BatchCompletedEvent)) { b.onBatchCompleted = fn }

// WithWebhook forwards every event to url asynchronously (HMAC-signed
// if secret is non-empty), in addition to the typed subscribers.
func (b *Bus) WithWebhook(url, secret string) *Bus {
	if url != "" {
		b.forwarder = newWebhookForwarder(url, secret)
	}
	return b
}

// Emit dispatches e to its kind's subscriber, if any, then (if
// configured) forwards it to the webhook.
func (b *Bus) Emit(e models.ProgressEvent) {
	switch e.Kind {
	case models.KindPipelineState:
		if b.onPipelineState != nil && e.PipelineState != nil {
			b.onPipelineState(*e.PipelineState)
		}
	case models.KindArticleCount:
		if b.onArticleCount != nil && e.ArticleCount != nil {
			b.onArticleCount(*e.ArticleCount)
		}
	case models.KindContentProgress:
		if b.onContentProgress != nil && e.ContentProgress != nil {
			b.onContentProgress(*e.ContentProgress)
		}
	case models.KindBatchCompleted:
		if b.onBatchCompleted != nil && e.BatchCompleted != nil {
			b.onBatchCompleted(*e.BatchCompleted)
		}
	}

	if b.forwarder != nil {
		b.forwarder.deliverAsync(e)
	}
}
