package ingesting

import (
	"context"
	"math/rand"
	"time"

	"github.com/adscope/ad-audit-api/internal/domain"
	"github.com/adscope/ad-audit-api/pkg/log"
)

// RetryConfig bounds the retry budget for transient source failures.
type RetryConfig struct {
	MaxRetries  int
	InitialWait time.Duration
	MaxWait     time.Duration
}

func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:  3,
		InitialWait: 500 * time.Millisecond,
		MaxWait:     30 * time.Second,
	}
}

// withRetry runs op, retrying only transient fetch errors with exponential
// backoff plus jitter. Fatal errors and context cancellation return
// immediately. The last error is returned when the budget is exhausted.
func withRetry(ctx context.Context, cfg RetryConfig, op func(ctx context.Context) error) error {
	wait := cfg.InitialWait

	var err error
	for attempt := 0; ; attempt++ {
		err = op(ctx)
		if err == nil {
			return nil
		}

		if !domain.IsTransientFetchError(err) {
			return err
		}
		if attempt >= cfg.MaxRetries {
			return err
		}

		// Full jitter keeps concurrent partitions from retrying in lockstep
		sleep := wait/2 + time.Duration(rand.Int63n(int64(wait/2)+1))

		log.ForContext(ctx).WithError(err).
			Warnf("Transient fetch error, retrying in %s (attempt %d/%d)", sleep, attempt+1, cfg.MaxRetries)

		timer := time.NewTimer(sleep)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}

		wait *= 2
		if wait > cfg.MaxWait {
			wait = cfg.MaxWait
		}
	}
}
