package pipeline

import (
	"sync"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/vag-Zhao/WeMediaSpider/models"
)

// consecutiveFailureThreshold and openDuration match the additive
// per-publisher circuit breaker: after 5 consecutive pipeline failures
// for one publisher, further runs fail fast for 30s instead of
// burning a full lookup+enumerate+body-fetch cycle against a remote
// that is clearly rejecting this publisher right now.
const (
	consecutiveFailureThreshold = 5
	openDuration                = 30 * time.Second
)

// BreakerRegistry hands out one circuit breaker per publisher key
// (Pipeline.Run keys it by the publisher's display name), shared across
// pipeline runs within a process so repeated batches benefit from it.
type BreakerRegistry struct {
	mu       sync.Mutex
	breakers map[string]*gobreaker.CircuitBreaker[[]models.PostRecord]
}

// NewBreakerRegistry creates an empty registry.
func NewBreakerRegistry() *BreakerRegistry {
	return &BreakerRegistry{breakers: make(map[string]*gobreaker.CircuitBreaker[[]models.PostRecord])}
}

func (r *BreakerRegistry) forKey(key string) *gobreaker.CircuitBreaker[[]models.PostRecord] {
	r.mu.Lock()
	defer r.mu.Unlock()

	if cb, ok := r.breakers[key]; ok {
		return cb
	}

	cb := gobreaker.NewCircuitBreaker[[]models.PostRecord](gobreaker.Settings{
		Name:        key,
		MaxRequests: 1,
		Timeout:     openDuration,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= consecutiveFailureThreshold
		},
	})
	r.breakers[key] = cb
	return cb
}
