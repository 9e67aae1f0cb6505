// ABOUTME: Per-user token bucket in front of a Generator
// ABOUTME: Waits for a token; a cancelled wait yields a cancelled result without calling the endpoint
package llm

import (
	"context"
	"sync"

	"github.com/harper/growth-tribe/internal/metrics"
	"golang.org/x/time/rate"
)

// userRateLimitedGenerator applies per-user rate limiting around generation
type userRateLimitedGenerator struct {
	base   Generator
	limit  rate.Limit
	burst  int
	mu     sync.Mutex
	bucket map[string]*rate.Limiter
}

// WrapWithUserRateLimit wraps g with a per-user limiter when a positive limit
// is supplied. A burst less than 1 is coerced to 1.
func WrapWithUserRateLimit(g Generator, limit rate.Limit, burst int) Generator {
	if limit <= 0 {
		return g
	}
	if burst < 1 {
		burst = 1
	}
	return &userRateLimitedGenerator{
		base:   g,
		limit:  limit,
		burst:  burst,
		bucket: make(map[string]*rate.Limiter),
	}
}

func (g *userRateLimitedGenerator) Generate(ctx context.Context, prompt string) Result {
	limiter := g.limiterForUser(UserIDFromContext(ctx))
	if err := limiter.Wait(ctx); err != nil {
		var r Result
		if ctx.Err() != nil {
			r = cancelled(r, err)
		} else {
			// the wait would outlast the caller's deadline
			r = Result{Kind: ResultExhausted, Text: BusyMessage, Err: err}
		}
		metrics.RecordAIResult(r.Kind.String())
		return r
	}
	return g.base.Generate(ctx, prompt)
}

func (g *userRateLimitedGenerator) limiterForUser(userID string) *rate.Limiter {
	key := userID
	if key == "" {
		key = "anonymous"
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	limiter, ok := g.bucket[key]
	if !ok {
		limiter = rate.NewLimiter(g.limit, g.burst)
		g.bucket[key] = limiter
	}
	return limiter
}
