// ABOUTME: Retry utilities for API calls with exponential backoff
// ABOUTME: Shared by the resilient call wrapper and its generators
package util

import (
	"math/rand/v2"
	"time"
)

// maxShift bounds the exponent so the shift cannot overflow a Duration
const maxShift = 30

// BackoffBase returns the jitter-free part of the delay: base * 2^attempt
func BackoffBase(baseDelay time.Duration, attempt int) time.Duration {
	if attempt <= 0 {
		return 0
	}
	if attempt > maxShift {
		attempt = maxShift
	}
	return baseDelay * time.Duration(1<<uint(attempt))
}

// CalculateBackoffWithJitter returns exponential backoff with additive
// jitter: base * 2^attempt plus jitter, usually a draw from Jitter
func CalculateBackoffWithJitter(baseDelay time.Duration, attempt int, jitter time.Duration) time.Duration {
	if attempt <= 0 {
		return 0
	}
	if jitter < 0 {
		jitter = 0
	}
	return BackoffBase(baseDelay, attempt) + jitter
}

// Jitter draws uniformly from [0, limit) using auto-seeded math/rand/v2
func Jitter(limit time.Duration) time.Duration {
	if limit <= 0 {
		return 0
	}
	return time.Duration(rand.Int64N(int64(limit)))
}
