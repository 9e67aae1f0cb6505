// ABOUTME: Maps HTTP statuses and transport errors onto attempt outcomes
// ABOUTME: Rate limits, server faults and network errors are retryable; the rest is terminal
package llm

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"syscall"
)

// ClassifyStatus maps an HTTP status to an outcome: 2xx succeeds, 429 and
// 5xx are retried, everything else is terminal
func ClassifyStatus(code int) Outcome {
	switch {
	case code >= 200 && code < 300:
		return OutcomeSuccess
	case code == http.StatusTooManyRequests || code >= 500:
		return OutcomeRetryable
	default:
		return OutcomeTerminal
	}
}

// ClassifyError maps a transport-level error to an outcome. Cancellation by
// the caller is terminal; a per-attempt deadline, connection failures and
// truncated responses are retryable.
func ClassifyError(err error) Outcome {
	if err == nil {
		return OutcomeSuccess
	}
	if errors.Is(err, context.Canceled) {
		return OutcomeTerminal
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return OutcomeRetryable
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return OutcomeRetryable
	}

	switch {
	case errors.Is(err, io.EOF),
		errors.Is(err, io.ErrUnexpectedEOF),
		errors.Is(err, syscall.ECONNREFUSED),
		errors.Is(err, syscall.ECONNRESET),
		errors.Is(err, syscall.EPIPE):
		return OutcomeRetryable
	}

	return OutcomeTerminal
}

// attemptFromError builds an AttemptResult for a failed request
func attemptFromError(err error) AttemptResult {
	if ClassifyError(err) == OutcomeRetryable {
		return Retryable(err, 0)
	}
	return Terminal(err, 0)
}
