package models

import (
	"strings"
	"time"
)

// PostRecord is the canonical, five-field unit of output. Once emitted
// into a batch's result set it is never mutated.
type PostRecord struct {
	Publisher        string `json:"publisher"`
	Title            string `json:"title"`
	URL              string `json:"url"`
	PublishedAt      int64  `json:"published_at"`
	PublishedAtText  string `json:"published_at_text"`
	Body             string `json:"body"`
}

// Validate checks the invariants from spec.md §3.
func (r *PostRecord) Validate() error {
	if r.PublishedAt <= 0 {
		return NewValidationError("post record published_at must be positive", nil)
	}
	if !strings.HasPrefix(r.URL, "https://") {
		return NewValidationError("post record url must begin with https://", nil)
	}
	if strings.TrimSpace(r.Title) == "" {
		return NewValidationError("post record title must not be empty", nil)
	}
	return nil
}

// FormatPublishedAt renders a unix timestamp as "YYYY-MM-DD HH:MM:SS"
// in local time, for PublishedAtText.
func FormatPublishedAt(unixSeconds int64) string {
	return time.Unix(unixSeconds, 0).Local().Format("2006-01-02 15:04:05")
}
