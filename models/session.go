package models

import "strings"

// CoreCookies are the cookie names PubPlat uses to authenticate a session.
// Their absence is not fatal — the spec only requires a warning.
var CoreCookies = []string{"slave_sid", "slave_user", "data_ticket"}

// Session is the (token, cookie jar, capture timestamp) tuple that
// authenticates requests against PubPlat.
type Session struct {
	Token      string            `json:"token"`
	Cookies    map[string]string `json:"cookies"`
	CapturedAt int64             `json:"timestamp"`
}

// Validate checks the structural invariants from spec.md §3. It never
// rejects a session for missing core cookies — that's warn-only.
func (s *Session) Validate() error {
	if s == nil {
		return NewValidationError("session is nil", nil)
	}
	if strings.TrimSpace(s.Token) == "" {
		return NewValidationError("session token must not be empty", nil)
	}
	if len(s.Token) > 64 {
		return NewValidationError("session token exceeds 64 characters", nil)
	}
	for name, value := range s.Cookies {
		if name == "" {
			return NewValidationError("session cookie name must not be empty", nil)
		}
		if value == "" {
			return NewValidationError("session cookie value must not be empty", nil)
		}
	}
	return nil
}

// MissingCoreCookies reports which of the three core cookies are absent.
func (s *Session) MissingCoreCookies() []string {
	var missing []string
	for _, name := range CoreCookies {
		if _, ok := s.Cookies[name]; !ok {
			missing = append(missing, name)
		}
	}
	return missing
}
