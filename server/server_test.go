package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/vag-Zhao/WeMediaSpider/models"
)

func TestHealthzReportsOK(t *testing.T) {
	s := New()
	router := s.Router(testGinMode())

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["status"] != "ok" {
		t.Fatalf("expected status ok, got %q", body["status"])
	}
}

func TestMetricsEndpointExposesPrometheusFormat(t *testing.T) {
	s := New()
	router := s.Router(testGinMode())

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "# TYPE ") {
		t.Fatalf("expected Prometheus text exposition, got %q", rec.Body.String())
	}
}

func TestBrokerDeliversToSubscriber(t *testing.T) {
	s := New()
	ch, cancel := s.broker.subscribe()
	defer cancel()

	s.Emit(models.NewBatchCompletedEvent(3))

	select {
	case e := <-ch:
		if e.Kind != models.KindBatchCompleted {
			t.Fatalf("expected BatchCompleted, got %q", e.Kind)
		}
	case <-time.After(time.Second):
		t.Fatalf("subscriber never received the event")
	}
}

func TestBrokerDropsWhenSlowSubscriberBufferFull(t *testing.T) {
	s := New()
	_, cancel := s.broker.subscribe() // never drained
	defer cancel()

	for i := 0; i < 64; i++ {
		s.Emit(models.NewBatchCompletedEvent(i))
	}
	// No assertion beyond "does not block or panic": a full subscriber
	// channel must never back-pressure the emitting pipeline.
}

func testGinMode() string { return "test" }
