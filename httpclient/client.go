// Package httpclient implements the cookie-bearing HTTP client that
// talks to PubPlat: retrying HTML fetches, single-attempt JSON calls,
// jittered pacing, and auth-expiry detection (spec.md §4.1).
package httpclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/publicsuffix"
	"golang.org/x/time/rate"

	"github.com/vag-Zhao/WeMediaSpider/models"
)

const (
	userAgent          = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/107.0.0.0 Safari/537.36"
	perAttemptTimeout  = 30 * time.Second
	maxBodyBytes       = 10 << 20
	htmlRetryAttempts  = 3
	htmlRetryBaseDelay = 2 * time.Second
	htmlRetryMaxDelay  = 10 * time.Second
	jsonRetryAttempts  = 2
)

const baseURL = "https://mp.weixin.qq.com"

// Client issues requests against PubPlat on behalf of one Session. It
// is safe for concurrent use: pacing is per-request, not serialized.
type Client struct {
	http    *http.Client
	session *models.Session

	// politeLimiter caps the steady-state request rate independent of
	// the per-request jitter sleep below — defense in depth against
	// bursts when many pipeline goroutines fire requests back to back.
	politeLimiter *rate.Limiter

	// requestIntervalSecs bounds the jitter window: uniform(0.5, n/10).
	requestIntervalSecs int
}

// New creates a Client bound to session, pacing requests within
// requestIntervalSecs (spec.md BatchConfig.request_interval_seconds,
// 1..60).
func New(session *models.Session, requestIntervalSecs int) *Client {
	jar, _ := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})

	c := &Client{
		http: &http.Client{
			Jar:     jar,
			Timeout: perAttemptTimeout,
		},
		session:             session,
		requestIntervalSecs: requestIntervalSecs,
		// Steady rate: roughly one request per requestIntervalSecs/4,
		// with bursts of 4 to tolerate fan-out start-up.
		politeLimiter: rate.NewLimiter(rate.Limit(4.0/float64(max1(requestIntervalSecs))), 4),
	}
	return c
}

func max1(n int) int {
	if n < 1 {
		return 1
	}
	return n
}

// baseResp mirrors PubPlat's {ret, err_msg} envelope present on every
// JSON response.
type baseResp struct {
	Ret    int    `json:"ret"`
	ErrMsg string `json:"err_msg"`
}

type jsonEnvelope struct {
	BaseResp baseResp `json:"base_resp"`
}

// authExpiredRets are the base_resp.ret values PubPlat uses to signal
// that the session token/cookies are no longer valid.
var authExpiredRets = map[int]bool{-6: true, 200013: true}

// GetJSON issues a single GET against path with query, decoding the
// JSON body into out. It retries only transport failures, up to 2
// times; it never retries on content (spec.md §4.1).
func (c *Client) GetJSON(ctx context.Context, path string, query url.Values, out interface{}) error {
	return c.getJSONAt(ctx, baseURL+path, query, out)
}

// getJSONAt is GetJSON against an explicit base URL, so tests can point
// it at an httptest.Server instead of PubPlat.
func (c *Client) getJSONAt(ctx context.Context, base string, query url.Values, out interface{}) error {
	query = cloneValues(query)
	query.Set("token", c.session.Token)
	query.Set("lang", "zh_CN")
	query.Set("f", "json")
	query.Set("ajax", "1")

	reqURL := base + "?" + query.Encode()

	var lastErr error
	for attempt := 0; attempt <= jsonRetryAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return models.NewCancelledError()
			case <-time.After(time.Duration(attempt) * time.Second):
			}
		}

		body, err := c.doRequest(ctx, reqURL)
		if err != nil {
			if isTransportError(err) {
				lastErr = err
				continue
			}
			return err
		}

		c.pace()

		raw := body
		if err := json.Unmarshal(raw, out); err != nil {
			return models.NewBadPayloadError("decode json response", err)
		}

		var env jsonEnvelope
		_ = json.Unmarshal(raw, &env)
		if authExpiredRets[env.BaseResp.Ret] {
			return models.NewAuthExpiredError(
				fmt.Sprintf("base_resp.ret=%d: %s", env.BaseResp.Ret, env.BaseResp.ErrMsg), nil)
		}

		return nil
	}
	return lastErr
}

// GetHTML fetches a URL's raw HTML body, retrying on timeout,
// transport error, non-200, or empty body after parse — up to 3
// attempts, waiting 2s before the second and 3s before the third (the
// delay grows by 1.5x per retry, capped at 10s).
// emptyBodyCheck is called on the fetched HTML; if it returns true the
// attempt is treated as a retry-worthy failure (spec.md §4.1, §4.2).
func (c *Client) GetHTML(ctx context.Context, targetURL string, emptyBodyCheck func(html string) bool) (string, error) {
	return c.getHTMLAt(ctx, targetURL, emptyBodyCheck)
}

// getHTMLAt is GetHTML's implementation, split out so tests can drive
// it directly without reshaping the public signature.
func (c *Client) getHTMLAt(ctx context.Context, targetURL string, emptyBodyCheck func(html string) bool) (string, error) {
	delay := htmlRetryBaseDelay
	var lastErr error

	for attempt := 0; attempt < htmlRetryAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return "", models.NewCancelledError()
			case <-time.After(delay):
			}
			delay = time.Duration(float64(delay) * 1.5)
			if delay > htmlRetryMaxDelay {
				delay = htmlRetryMaxDelay
			}
		}

		body, err := c.doRequest(ctx, targetURL)
		if err != nil {
			lastErr = err
			continue
		}

		c.pace()

		if emptyBodyCheck != nil && emptyBodyCheck(body) {
			lastErr = models.NewBadPayloadError("empty body after parse", nil)
			continue
		}

		return body, nil
	}

	if lastErr == nil {
		lastErr = models.NewNetworkError("get_html exhausted retries", nil)
	}
	return "", lastErr
}

// Probe issues a minimal lookup request used by sessionstore to
// validate a session live (spec.md §4.4).
func (c *Client) Probe(ctx context.Context, s *models.Session) (bool, error) {
	probeClient := c
	if s != c.session {
		probeClient = New(s, 5)
	}

	var resp struct {
		BaseResp baseResp `json:"base_resp"`
	}
	query := url.Values{"query": {"test"}, "count": {"1"}, "begin": {"0"}, "scene": {"1"}, "action": {"search_biz"}}
	if err := probeClient.GetJSON(ctx, "/cgi-bin/searchbiz", query, &resp); err != nil {
		if models.IsCode(err, models.ErrCodeAuthExpired) {
			return false, nil
		}
		return false, err
	}
	return resp.BaseResp.Ret == 0, nil
}

// doRequest performs one HTTP GET with PubPlat's required headers and
// the session's cookies attached, capped at perAttemptTimeout and
// maxBodyBytes.
func (c *Client) doRequest(ctx context.Context, reqURL string) (string, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, perAttemptTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(attemptCtx, http.MethodGet, reqURL, nil)
	if err != nil {
		return "", models.NewNetworkError("build request", err)
	}
	req.Header.Set("User-Agent", userAgent)

	for name, value := range c.session.Cookies {
		req.AddCookie(&http.Cookie{Name: name, Value: value})
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if attemptCtx.Err() != nil {
			return "", models.NewTimeoutError("request timed out", err)
		}
		return "", models.NewNetworkError("request failed", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", models.NewNetworkError("read body", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", models.NewBadStatusError(fmt.Sprintf("HTTP %d for %s", resp.StatusCode, reqURL))
	}

	return string(body), nil
}

// pace applies the jittered post-request delay described in spec.md
// §4.1: uniform(0.5, request_interval/10) seconds, plus the steady
// politeness limiter.
func (c *Client) pace() {
	_ = c.politeLimiter.Wait(context.Background())

	upper := float64(c.requestIntervalSecs) / 10.0
	if upper < 0.5 {
		upper = 0.5
	}
	jitter := 0.5 + rand.Float64()*(upper-0.5)
	time.Sleep(time.Duration(jitter * float64(time.Second)))
}

func isTransportError(err error) bool {
	return models.IsCode(err, models.ErrCodeNetwork) || models.IsCode(err, models.ErrCodeTimeout)
}

func cloneValues(v url.Values) url.Values {
	out := make(url.Values, len(v))
	for k, vals := range v {
		out[k] = append([]string(nil), vals...)
	}
	return out
}

// IsHTMLEmpty is the default emptyBodyCheck for GetHTML callers that
// have no parser-specific signal: a blank response body.
func IsHTMLEmpty(body string) bool {
	return len(strings.TrimSpace(body)) == 0
}
