// ABOUTME: Tests for retry utilities including exponential backoff
// ABOUTME: Validates backoff calculation, bounds, and jitter behavior
package util

import (
	"testing"
	"time"
)

func TestCalculateBackoffWithJitter_ZeroAttempt(t *testing.T) {
	result := CalculateBackoffWithJitter(time.Second, 0, Jitter(time.Second))
	if result != 0 {
		t.Errorf("expected 0 for attempt 0, got %v", result)
	}
}

func TestCalculateBackoffWithJitter_FirstAttempt(t *testing.T) {
	baseDelay := 1000 * time.Millisecond
	result := CalculateBackoffWithJitter(baseDelay, 1, Jitter(time.Second))

	// First retry: 2^1 * 1000ms = 2000ms, plus [0, 1000ms) jitter
	minExpected := 2000 * time.Millisecond
	maxExpected := 3000 * time.Millisecond

	if result < minExpected || result >= maxExpected {
		t.Errorf("expected backoff in [%v, %v), got %v", minExpected, maxExpected, result)
	}
}

func TestCalculateBackoffWithJitter_ExponentialGrowth(t *testing.T) {
	baseDelay := 100 * time.Millisecond
	maxJitter := 100 * time.Millisecond

	for attempt := 1; attempt <= 5; attempt++ {
		expectedBase := baseDelay * time.Duration(1<<uint(attempt))

		result := CalculateBackoffWithJitter(baseDelay, attempt, Jitter(maxJitter))

		if result < expectedBase || result >= expectedBase+maxJitter {
			t.Errorf("attempt %d: expected backoff in [%v, %v), got %v",
				attempt, expectedBase, expectedBase+maxJitter, result)
		}
	}
}

func TestBackoffBase_StrictlyIncreasing(t *testing.T) {
	prev := BackoffBase(time.Second, 1)
	for attempt := 2; attempt <= 10; attempt++ {
		cur := BackoffBase(time.Second, attempt)
		if cur <= prev {
			t.Errorf("attempt %d: %v is not greater than %v", attempt, cur, prev)
		}
		prev = cur
	}
}

func TestCalculateBackoffWithJitter_AttemptCapped(t *testing.T) {
	// Very high attempt values should not overflow or panic
	result := CalculateBackoffWithJitter(time.Millisecond, 100, Jitter(0))

	if result != time.Millisecond*time.Duration(1<<30) {
		t.Errorf("expected attempt to be capped at 30, got %v", result)
	}
	if result < 0 {
		t.Error("backoff should never be negative")
	}
}

func TestCalculateBackoffWithJitter_JitterDistribution(t *testing.T) {
	baseDelay := time.Second
	attempt := 2 // 2^2 * 1s = 4s base

	var results []time.Duration
	for i := 0; i < 100; i++ {
		results = append(results, CalculateBackoffWithJitter(baseDelay, attempt, Jitter(time.Second)))
	}

	allSame := true
	for i := 1; i < len(results); i++ {
		if results[i] != results[0] {
			allSame = false
			break
		}
	}

	if allSame {
		t.Error("jitter should produce varying results, but all 100 samples were identical")
	}

	for i, r := range results {
		if r < 4*time.Second || r >= 5*time.Second {
			t.Errorf("sample %d: expected in [4s, 5s), got %v", i, r)
		}
	}
}

func TestCalculateBackoffWithJitter_Deterministic(t *testing.T) {
	got := CalculateBackoffWithJitter(time.Second, 3, 250*time.Millisecond)
	if got != 8250*time.Millisecond {
		t.Errorf("expected 8.25s, got %v", got)
	}

	if got := CalculateBackoffWithJitter(time.Second, 1, -time.Second); got != 2*time.Second {
		t.Errorf("negative jitter should be ignored, got %v", got)
	}
}

func TestJitter_NonPositiveMax(t *testing.T) {
	if Jitter(0) != 0 || Jitter(-time.Second) != 0 {
		t.Error("Jitter should be 0 for non-positive max")
	}
}

func TestCalculateBackoffWithJitter_NegativeAttemptReturnsZero(t *testing.T) {
	result := CalculateBackoffWithJitter(time.Second, -1, Jitter(time.Second))

	if result != 0 {
		t.Errorf("expected 0 for negative attempt, got %v", result)
	}

	result = CalculateBackoffWithJitter(time.Second, -100, Jitter(time.Second))
	if result != 0 {
		t.Errorf("expected 0 for very negative attempt, got %v", result)
	}
}
