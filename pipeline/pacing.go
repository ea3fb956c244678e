package pipeline

import (
	"context"
	"math/rand"
	"time"
)

// interRequestPace sleeps uniform(1, requestIntervalSecs/10) seconds,
// clamped to a minimum of 0.5s, between successive requests inside one
// pipeline (list pagination or body fetches). Returns early if ctx is
// cancelled mid-sleep.
func interRequestPace(ctx context.Context, requestIntervalSecs int) {
	upper := float64(requestIntervalSecs) / 10.0
	if upper < 1.0 {
		upper = 1.0
	}
	delay := 1.0 + rand.Float64()*(upper-1.0)
	if delay < 0.5 {
		delay = 0.5
	}

	select {
	case <-ctx.Done():
	case <-time.After(time.Duration(delay * float64(time.Second))):
	}
}
