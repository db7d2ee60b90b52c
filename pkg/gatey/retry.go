// retry.go holds the retry policy for event delivery.

package gatey

import (
	"math"
	"math/rand"
	"time"
)

// RetryConfig controls how the delivery queue retries transient
// failures.
type RetryConfig struct {
	// MaxAttempts is the total number of delivery attempts per event,
	// the first one included (default 3).
	MaxAttempts int

	// InitialBackoff is the delay before the first retry (default 100ms).
	InitialBackoff time.Duration

	// MaxBackoff caps the delay between retries (default 2s).
	MaxBackoff time.Duration
}

func defaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:    3,
		InitialBackoff: 100 * time.Millisecond,
		MaxBackoff:     2 * time.Second,
	}
}

// backoffDelay computes the delay before retry number attempt (1-based):
// min(initial * 2^(attempt-1) + jitter, max). Jitter is up to 25% of the
// base delay.
func backoffDelay(cfg RetryConfig, attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	base := float64(cfg.InitialBackoff) * math.Pow(2, float64(attempt-1))
	delay := base + rand.Float64()*base*0.25
	if max := float64(cfg.MaxBackoff); delay > max {
		delay = max
	}
	return time.Duration(delay)
}
