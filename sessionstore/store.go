// Package sessionstore persists, loads, and validates the single
// Session a batch run authenticates with (spec.md §4.4).
package sessionstore

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"time"

	"github.com/vag-Zhao/WeMediaSpider/models"
)

// DefaultCacheTTL is the age after which a loaded session is treated
// as expired, absent a WMS_CACHE_TTL_HOURS override.
const DefaultCacheTTL = 96 * time.Hour

// Prober issues a minimal live request against PubPlat to check whether
// a session is still authenticated. Implemented by httpclient.Client.
type Prober interface {
	Probe(ctx context.Context, s *models.Session) (valid bool, err error)
}

// Store loads, persists, and validates the single on-disk Session.
type Store struct {
	ttl time.Duration
}

// New creates a Store with the given cache TTL. Pass 0 to use
// DefaultCacheTTL.
func New(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &Store{ttl: ttl}
}

// Load reads the persisted session. It returns (nil, nil) if no
// session file exists or it's malformed ("no session" per spec), and
// a SessionMissing error if the file is well-formed but expired.
func (st *Store) Load() (*models.Session, error) {
	path, err := SessionPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, nil // malformed/unreadable -> "no session", not an error
	}

	var s models.Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, nil
	}

	age := time.Since(time.Unix(s.CapturedAt, 0))
	if age > st.ttl {
		return nil, models.NewSessionMissingError("session expired")
	}

	return &s, nil
}

// Save writes the session file. Best-effort: no atomic-rename
// requirement, since a new session is always recoverable via
// SessionBootstrap.
func (st *Store) Save(s *models.Session) error {
	if err := s.Validate(); err != nil {
		return err
	}
	path, err := SessionPath()
	if err != nil {
		return err
	}
	data, err := json.Marshal(s)
	if err != nil {
		return models.NewBadPayloadError("marshal session", err)
	}
	return os.WriteFile(path, data, 0o600)
}

// Import saves a session, first making a best-effort backup copy of
// any existing session file.
func (st *Store) Import(s *models.Session) error {
	path, err := SessionPath()
	if err == nil {
		if existing, readErr := os.ReadFile(path); readErr == nil {
			if backupPath, bErr := BackupPath(); bErr == nil {
				_ = os.WriteFile(backupPath, existing, 0o600) // best-effort
			}
		}
	}
	return st.Save(s)
}

// Clear removes the session file. A missing file is not an error.
func (st *Store) Clear() error {
	path, err := SessionPath()
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// ValidateLive issues a live probe (a minimal lookup request) against
// the session and reports whether it's still authenticated.
func (st *Store) ValidateLive(ctx context.Context, prober Prober, s *models.Session) (bool, error) {
	return prober.Probe(ctx, s)
}
