package gatey

import (
	"testing"
	"time"
)

func TestBackoffDelay_GrowsExponentially(t *testing.T) {
	cfg := RetryConfig{
		MaxAttempts:    5,
		InitialBackoff: 100 * time.Millisecond,
		MaxBackoff:     time.Minute,
	}

	for attempt := 1; attempt <= 4; attempt++ {
		base := cfg.InitialBackoff << (attempt - 1)
		// jitter adds at most 25% of the base delay
		ceiling := base + base/4
		delay := backoffDelay(cfg, attempt)
		if delay < base || delay > ceiling {
			t.Errorf("attempt %d: delay = %v, want within [%v, %v]", attempt, delay, base, ceiling)
		}
	}
}

func TestBackoffDelay_CappedAtMax(t *testing.T) {
	cfg := RetryConfig{
		MaxAttempts:    10,
		InitialBackoff: 100 * time.Millisecond,
		MaxBackoff:     time.Second,
	}

	if delay := backoffDelay(cfg, 8); delay != cfg.MaxBackoff {
		t.Errorf("delay = %v, want capped at %v", delay, cfg.MaxBackoff)
	}
}

func TestBackoffDelay_AttemptFloor(t *testing.T) {
	cfg := defaultRetryConfig()
	if delay := backoffDelay(cfg, 0); delay < cfg.InitialBackoff {
		t.Errorf("delay = %v, want at least %v", delay, cfg.InitialBackoff)
	}
}
