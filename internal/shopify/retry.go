package shopify

import (
	"context"
	"errors"

	"github.com/cenkalti/backoff/v5"
)

// withReadRetry retries idempotent reads on transient failures only.
func withReadRetry[T any](ctx context.Context, c *Client, op func() (T, error)) (T, error) {
	if c.readRetries == 0 {
		return op()
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.retryInterval

	return backoff.Retry(ctx, func() (T, error) {
		result, err := op()
		if err != nil && !isTransient(err) {
			return result, backoff.Permanent(err)
		}
		return result, err
	},
		backoff.WithBackOff(b),
		backoff.WithMaxTries(c.readRetries+1),
	)
}

func isTransient(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var shopifyErr *Error
	if errors.As(err, &shopifyErr) {
		return shopifyErr.Transient()
	}

	// transport-level failure
	return true
}
