// ABOUTME: Generator is the single-operation contract of the text generation endpoint
// ABOUTME: Also carries the acting user through context for per-user limits
package llm

import "context"

// Generator turns one free-text prompt into display text. Implementations
// never return a Go error: failures are folded into the Result.
type Generator interface {
	Generate(ctx context.Context, prompt string) Result
}

// GeneratorFunc adapts a function to Generator
type GeneratorFunc func(ctx context.Context, prompt string) Result

// Generate calls f
func (f GeneratorFunc) Generate(ctx context.Context, prompt string) Result {
	return f(ctx, prompt)
}

type contextKey string

const contextKeyUserID = contextKey("user_id")

// WithUserID attaches the acting user's id to ctx
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, contextKeyUserID, userID)
}

// UserIDFromContext returns the acting user's id, or "" when absent
func UserIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(contextKeyUserID).(string)
	return id
}
