package progressbus

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/vag-Zhao/WeMediaSpider/models"
)

// webhookPayload is what a subscribed endpoint receives for every
// progress event forwarded from the bus.
type webhookPayload struct {
	Kind      models.ProgressKind `json:"kind"`
	Timestamp int64               `json:"timestamp"`
	Event     models.ProgressEvent `json:"event"`
}

// webhookForwarder delivers progress events to one HTTP endpoint,
// fire-and-forget, with a bounded retry schedule.
type webhookForwarder struct {
	url    string
	secret string
	client *http.Client
	now    func() int64
}

func newWebhookForwarder(url, secret string) *webhookForwarder {
	return &webhookForwarder{
		url:    url,
		secret: secret,
		client: &http.Client{Timeout: 10 * time.Second},
		now:    func() int64 { return time.Now().Unix() },
	}
}

// deliverAsync sends e in a new goroutine, retrying on failure at
// 1s, 5s, 30s before giving up. A slow or dead endpoint never blocks
// the emitting pipeline.
func (w *webhookForwarder) deliverAsync(e models.ProgressEvent) {
	payload := webhookPayload{Kind: e.Kind, Timestamp: w.now(), Event: e}

	go func() {
		delays := []time.Duration{0, 1 * time.Second, 5 * time.Second, 30 * time.Second}
		for attempt, delay := range delays {
			if delay > 0 {
				time.Sleep(delay)
			}
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			err := w.deliver(ctx, payload)
			cancel()
			if err == nil {
				slog.Info("progress webhook delivered", "url", w.url, "kind", e.Kind, "attempt", attempt+1)
				return
			}
			slog.Warn("progress webhook delivery failed", "url", w.url, "kind", e.Kind, "attempt", attempt+1, "error", err)
		}
		slog.Error("progress webhook delivery exhausted all retries", "url", w.url, "kind", e.Kind)
	}()
}

func (w *webhookForwarder) deliver(ctx context.Context, payload webhookPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("progressbus: marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("progressbus: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "WeMediaSpider-Webhook/1.0")

	if w.secret != "" {
		mac := hmac.New(sha256.New, []byte(w.secret))
		mac.Write(body)
		req.Header.Set("X-WeMediaSpider-Signature", "sha256="+hex.EncodeToString(mac.Sum(nil)))
	}

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("progressbus: deliver: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("progressbus: endpoint returned status %d", resp.StatusCode)
	}
	return nil
}
