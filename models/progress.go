package models

// PipelineLifecycleState is one of the states a PublisherPipeline moves
// through on its way from Pending to Completed or Failed (spec.md §4.5).
type PipelineLifecycleState string

const (
	StatePending         PipelineLifecycleState = "pending"
	StateSearching       PipelineLifecycleState = "searching"
	StateFetching        PipelineLifecycleState = "fetching"
	StateFiltering       PipelineLifecycleState = "filtering"
	StateFetchingBodies  PipelineLifecycleState = "fetching_bodies"
	StateCompleted       PipelineLifecycleState = "completed"
	StateFailed          PipelineLifecycleState = "failed"
)

// ProgressEvent is the tagged-union event emitted onto the progress bus.
// Exactly one of the embedded payload types is non-nil-meaningful per
// event; Kind identifies which.
type ProgressEvent struct {
	Kind ProgressKind

	PipelineState  *PipelineStateEvent  `json:"pipeline_state,omitempty"`
	ArticleCount   *ArticleCountEvent   `json:"article_count,omitempty"`
	ContentProgress *ContentProgressEvent `json:"content_progress,omitempty"`
	BatchCompleted *BatchCompletedEvent `json:"batch_completed,omitempty"`
}

// ProgressKind discriminates the event payload.
type ProgressKind string

const (
	KindPipelineState   ProgressKind = "pipeline_state"
	KindArticleCount    ProgressKind = "article_count"
	KindContentProgress ProgressKind = "content_progress"
	KindBatchCompleted  ProgressKind = "batch_completed"
)

// PipelineStateEvent reports a publisher pipeline's current lifecycle state.
type PipelineStateEvent struct {
	Publisher string                 `json:"publisher"`
	State     PipelineLifecycleState `json:"state"`
	Message   string                 `json:"message"`
}

// ArticleCountEvent reports the aggregate article count across all
// publishers so far in the batch. Delta may be negative (keyword filter
// drops).
type ArticleCountEvent struct {
	Total   int    `json:"total"`
	Delta   int    `json:"delta"`
	Message string `json:"message"`
}

// ContentProgressEvent reports deterministic progress during the body
// phase of a single publisher.
type ContentProgressEvent struct {
	Publisher string `json:"publisher"`
	Current   int    `json:"current"`
	Total     int    `json:"total"`
	Message   string `json:"message"`
}

// BatchCompletedEvent is emitted exactly once, last, when the scheduler
// returns its aggregate (whether by natural completion or cancellation).
type BatchCompletedEvent struct {
	Total int `json:"total"`
}

func NewPipelineStateEvent(publisher string, state PipelineLifecycleState, message string) ProgressEvent {
	return ProgressEvent{
		Kind: KindPipelineState,
		PipelineState: &PipelineStateEvent{
			Publisher: publisher,
			State:     state,
			Message:   message,
		},
	}
}

func NewArticleCountEvent(total, delta int, message string) ProgressEvent {
	return ProgressEvent{
		Kind: KindArticleCount,
		ArticleCount: &ArticleCountEvent{
			Total:   total,
			Delta:   delta,
			Message: message,
		},
	}
}

func NewContentProgressEvent(publisher string, current, total int, message string) ProgressEvent {
	return ProgressEvent{
		Kind: KindContentProgress,
		ContentProgress: &ContentProgressEvent{
			Publisher: publisher,
			Current:   current,
			Total:     total,
			Message:   message,
		},
	}
}

func NewBatchCompletedEvent(total int) ProgressEvent {
	return ProgressEvent{
		Kind:           KindBatchCompleted,
		BatchCompleted: &BatchCompletedEvent{Total: total},
	}
}
