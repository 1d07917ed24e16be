// Package llm holds behaviour shared by the provider adapters, chiefly
// the rate-limit retry loop applied around every completion request.
package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/nimbus-labs/kbase-cli/internal/core/domain"
	"github.com/nimbus-labs/kbase-cli/internal/logger"
)

const (
	// MaxRetries is the number of retries after a rate-limited response.
	MaxRetries = 3

	baseDelay = 500 * time.Millisecond
)

// WithRetry runs fn, retrying with exponential backoff while it reports a
// rate-limited response. fn returns (result, rateLimited, err); any other
// error is returned immediately. After MaxRetries rate-limited attempts
// the error wraps domain.ErrRateLimited.
func WithRetry(ctx context.Context, provider string, fn func() (string, bool, error)) (string, error) {
	delay := baseDelay
	for attempt := 0; ; attempt++ {
		result, rateLimited, err := fn()
		if !rateLimited {
			return result, err
		}
		if attempt >= MaxRetries {
			return "", fmt.Errorf("%s: still rate limited after %d retries: %w", provider, MaxRetries, domain.ErrRateLimited)
		}

		logger.Warn("%s rate limited, retrying in %s (attempt %d/%d)", provider, delay, attempt+1, MaxRetries)
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
	}
}
