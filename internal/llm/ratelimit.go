package llm

import (
	"context"

	"golang.org/x/time/rate"
)

// RateLimitedCompleter wraps a Completer with a token-bucket limiter so all
// pipelines share one requests-per-second budget against the provider.
type RateLimitedCompleter struct {
	inner   Completer
	limiter *rate.Limiter
}

// NewRateLimitedCompleter wraps inner with the given limiter. A nil limiter
// disables limiting.
func NewRateLimitedCompleter(inner Completer, limiter *rate.Limiter) *RateLimitedCompleter {
	return &RateLimitedCompleter{inner: inner, limiter: limiter}
}

// Complete waits for a rate token, then forwards to the inner completer.
func (c *RateLimitedCompleter) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}
	return c.inner.Complete(ctx, req)
}
