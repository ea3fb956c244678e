package progressbus

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/vag-Zhao/WeMediaSpider/models"
)

func TestBusDispatchesToSubscribedKindOnly(t *testing.T) {
	bus := New()

	var gotState models.PipelineStateEvent
	var gotCount models.ArticleCountEvent
	var contentCalls int

	bus.OnPipelineState(func(e models.PipelineStateEvent) { gotState = e })
	bus.OnArticleCount(func(e models.ArticleCountEvent) { gotCount = e })
	// ContentProgress intentionally left unsubscribed: it must be dropped, not panic.
	_ = contentCalls

	bus.Emit(models.NewPipelineStateEvent("公众号A", models.StateCompleted, "done"))
	bus.Emit(models.NewArticleCountEvent(5, 2, ""))
	bus.Emit(models.NewContentProgressEvent("公众号A", 1, 3, ""))

	if gotState.Publisher != "公众号A" || gotState.State != models.StateCompleted {
		t.Fatalf("pipeline state subscriber did not receive expected event: %+v", gotState)
	}
	if gotCount.Total != 5 || gotCount.Delta != 2 {
		t.Fatalf("article count subscriber did not receive expected event: %+v", gotCount)
	}
}

func TestBusUnsubscribedKindDoesNotPanic(t *testing.T) {
	bus := New()
	bus.Emit(models.NewBatchCompletedEvent(10))
}

func TestBusWebhookForwardsWithSignature(t *testing.T) {
	var mu sync.Mutex
	var received webhookPayload
	var gotSig string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		gotSig = r.Header.Get("X-WeMediaSpider-Signature")
		_ = json.NewDecoder(r.Body).Decode(&received)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	bus := New().WithWebhook(server.URL, "s3cr3t")
	bus.Emit(models.NewBatchCompletedEvent(7))

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		mu.Lock()
		done := received.Kind == models.KindBatchCompleted
		mu.Unlock()
		if done {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}

	mu.Lock()
	defer mu.Unlock()
	if received.Kind != models.KindBatchCompleted {
		t.Fatalf("webhook never received the forwarded event")
	}
	if gotSig == "" {
		t.Fatalf("expected a signature header when a secret is configured")
	}
}

func TestWebhookForwarderRetriesOnFailure(t *testing.T) {
	var mu sync.Mutex
	attempts := 0

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		attempts++
		n := attempts
		mu.Unlock()
		if n < 2 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	f := newWebhookForwarder(server.URL, "")
	f.deliverAsync(models.NewBatchCompletedEvent(1))

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		mu.Lock()
		n := attempts
		mu.Unlock()
		if n >= 2 {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}

	mu.Lock()
	defer mu.Unlock()
	if attempts < 2 {
		t.Fatalf("expected the forwarder to retry after the first failure, got %d attempts", attempts)
	}
}
