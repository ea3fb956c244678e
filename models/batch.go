package models

import "time"

// BatchConfig is the input to a single scheduler run over N publishers.
type BatchConfig struct {
	Publishers []string

	WindowStart time.Time // local date, time-of-day ignored
	WindowEnd   time.Time

	MaxPagesPerPublisher int // 1..100
	RequestIntervalSecs  int // 1..60, caps request jitter upper bound

	FetchBodies bool
	BodyKeyword string // empty = no body filter

	MaxConcurrentPublishers            int // 1..N
	MaxConcurrentRequestsPerPublisher  int // 1..M

	OutputPath string // optional
}

// Validate checks the invariants from spec.md §3. Abort-before-start
// errors (ValidationError) belong here.
func (c *BatchConfig) Validate() error {
	if len(c.Publishers) == 0 {
		return NewValidationError("batch config requires at least one publisher", nil)
	}
	if c.WindowStart.After(c.WindowEnd) {
		return NewValidationError("window_start must not be after window_end", nil)
	}
	if c.MaxPagesPerPublisher < 1 || c.MaxPagesPerPublisher > 100 {
		return NewValidationError("max_pages_per_publisher must be in 1..100", nil)
	}
	if c.RequestIntervalSecs < 1 || c.RequestIntervalSecs > 60 {
		return NewValidationError("request_interval_seconds must be in 1..60", nil)
	}
	if c.MaxConcurrentPublishers < 1 {
		return NewValidationError("max_concurrent_publishers must be >= 1", nil)
	}
	if c.MaxConcurrentRequestsPerPublisher < 1 {
		return NewValidationError("max_concurrent_requests_per_publisher must be >= 1", nil)
	}
	return nil
}

// dateInWindow reports whether the local date of t falls within
// [WindowStart, WindowEnd], both edges inclusive, at date granularity
// (spec.md §9, open question 2 — fixed, not ambiguous).
func (c *BatchConfig) dateInWindow(t time.Time) bool {
	d := truncateToDate(t)
	start := truncateToDate(c.WindowStart)
	end := truncateToDate(c.WindowEnd)
	return !d.Before(start) && !d.After(end)
}

// DateInWindow is the exported form of dateInWindow, used by pipeline's
// filter step.
func (c *BatchConfig) DateInWindow(unixSeconds int64) bool {
	return c.dateInWindow(time.Unix(unixSeconds, 0).Local())
}

func truncateToDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
