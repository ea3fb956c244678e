package httpclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/vag-Zhao/WeMediaSpider/models"
)

func testSession() *models.Session {
	return &models.Session{
		Token:      "tok123",
		Cookies:    map[string]string{"slave_sid": "abc"},
		CapturedAt: time.Now().Unix(),
	}
}

func TestGetJSONSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("token") != "tok123" {
			t.Errorf("expected token query param, got %q", r.URL.RawQuery)
		}
		w.Write([]byte(`{"base_resp":{"ret":0,"err_msg":"ok"},"total":5}`))
	}))
	defer srv.Close()

	c := New(testSession(), 1)
	c.politeLimiter.SetBurst(100)

	var out struct {
		BaseResp struct {
			Ret int `json:"ret"`
		} `json:"base_resp"`
		Total int `json:"total"`
	}
	if err := c.getJSONAt(context.Background(), srv.URL, url.Values{}, &out); err != nil {
		t.Fatalf("GetJSON: %v", err)
	}
	if out.Total != 5 {
		t.Fatalf("expected total=5, got %d", out.Total)
	}
}

func TestGetJSONAuthExpired(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"base_resp":{"ret":-6,"err_msg":"invalid session"}}`))
	}))
	defer srv.Close()

	c := New(testSession(), 1)
	c.politeLimiter.SetBurst(100)

	var out map[string]interface{}
	err := c.getJSONAt(context.Background(), srv.URL, url.Values{}, &out)
	if !models.IsCode(err, models.ErrCodeAuthExpired) {
		t.Fatalf("expected AuthExpired error, got %v", err)
	}
}

func TestGetHTMLRetriesOnBadStatus(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 2 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte("<html>ok</html>"))
	}))
	defer srv.Close()

	c := New(testSession(), 1)
	c.politeLimiter.SetBurst(100)

	body, err := c.getHTMLAt(context.Background(), srv.URL, nil)
	if err != nil {
		t.Fatalf("GetHTML: %v", err)
	}
	if body != "<html>ok</html>" {
		t.Fatalf("unexpected body: %q", body)
	}
	if attempts != 2 {
		t.Fatalf("expected 2 attempts, got %d", attempts)
	}
}

func TestGetHTMLExhaustsRetries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := New(testSession(), 1)
	c.politeLimiter.SetBurst(100)

	_, err := c.getHTMLAt(context.Background(), srv.URL, nil)
	if err == nil {
		t.Fatal("expected error after exhausting retries")
	}
}

func TestGetHTMLRetriesOnEmptyBodyCheck(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.Write([]byte("<html>empty marker</html>"))
	}))
	defer srv.Close()

	c := New(testSession(), 1)
	c.politeLimiter.SetBurst(100)

	_, err := c.getHTMLAt(context.Background(), srv.URL, func(body string) bool { return true })
	if err == nil {
		t.Fatal("expected error when emptyBodyCheck always returns true")
	}
	if attempts != 3 {
		t.Fatalf("expected 3 attempts (full retry budget), got %d", attempts)
	}
}

func TestGetHTMLRespectsCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := New(testSession(), 1)
	c.politeLimiter.SetBurst(100)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.getHTMLAt(ctx, srv.URL, nil)
	if err == nil {
		t.Fatal("expected an error for an already-cancelled context")
	}
}

func TestIsHTMLEmpty(t *testing.T) {
	if !IsHTMLEmpty("   \n\t") {
		t.Fatal("expected blank string to be considered empty")
	}
	if IsHTMLEmpty("<html></html>") {
		t.Fatal("expected non-blank string to not be considered empty")
	}
}
