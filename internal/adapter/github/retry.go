package github

import (
	"context"
	"math"
	"math/rand"
	"time"
)

// retryConfig holds exponential backoff parameters for a retry loop.
type retryConfig struct {
	MaxRetries     int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	Multiplier     float64
}

func defaultRetryConfig() retryConfig {
	return retryConfig{
		MaxRetries:     defaultMaxRetries,
		InitialBackoff: defaultInitialBackoff,
		MaxBackoff:     32 * time.Second,
		Multiplier:     2.0,
	}
}

// backoff computes the wait before attempt, capped at MaxBackoff and
// jittered by up to 25% in either direction.
func backoff(attempt int, cfg retryConfig) time.Duration {
	base := float64(cfg.InitialBackoff) * math.Pow(cfg.Multiplier, float64(attempt))
	if base > float64(cfg.MaxBackoff) {
		base = float64(cfg.MaxBackoff)
	}

	jitterRange := 0.25 * base
	jittered := base + (rand.Float64()*2*jitterRange - jitterRange)
	if jittered > float64(cfg.MaxBackoff) {
		jittered = float64(cfg.MaxBackoff)
	}
	if jittered < 0 {
		jittered = 0
	}
	return time.Duration(jittered)
}

// retryIf is satisfied by the *errs.Error tag an operation's error maps
// to; it's threaded in by the caller so this package doesn't need to
// know the errs taxonomy's retryability predicate directly.
type retryIf func(error) bool

// withRetry runs operation until it succeeds, returns a non-retryable
// error, or exhausts cfg.MaxRetries attempts.
func withRetry(ctx context.Context, cfg retryConfig, retryable retryIf, operation func(ctx context.Context) error) error {
	var lastErr error

	for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := operation(ctx)
		if err == nil {
			return nil
		}
		lastErr = err

		if !retryable(err) || attempt >= cfg.MaxRetries {
			return err
		}

		wait := backoff(attempt, cfg)
		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	return lastErr
}
