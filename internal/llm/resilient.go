// ABOUTME: Resilient call wrapper: bounded-retry state machine around one generation request
// ABOUTME: Classifies each attempt, backs off exponentially with jitter, and always yields display text
package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/harper/growth-tribe/internal/logging"
	"github.com/harper/growth-tribe/internal/metrics"
	"github.com/harper/growth-tribe/internal/util"
	"github.com/sirupsen/logrus"
)

const (
	// FallbackText replaces a successful response that carries no text
	FallbackText = "The cosmos is quiet. Please try again."
	// BusyMessage is returned once the retry budget is spent
	BusyMessage = "Connection interrupted or service is busy. Please try again later."
	// TerminalMessage is returned for failures that retrying cannot fix
	TerminalMessage = "Failed to get a response from the AI coach due to an API error."
	// CancelledMessage accompanies a request abandoned by its caller
	CancelledMessage = "Request cancelled."
)

// Outcome classifies a single attempt
type Outcome int

const (
	OutcomeSuccess Outcome = iota
	OutcomeRetryable
	OutcomeTerminal
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeRetryable:
		return "retryable"
	case OutcomeTerminal:
		return "terminal"
	}
	return "unknown"
}

// AttemptResult is what one attempt reports back to the wrapper
type AttemptResult struct {
	Outcome Outcome
	Text    string
	Err     error
	Status  int
}

// Succeeded reports a well-formed response carrying text
func Succeeded(text string) AttemptResult {
	return AttemptResult{Outcome: OutcomeSuccess, Text: text}
}

// Retryable reports a rate-limit, server fault or transport failure
func Retryable(err error, status int) AttemptResult {
	return AttemptResult{Outcome: OutcomeRetryable, Err: err, Status: status}
}

// Terminal reports a failure that retrying cannot fix
func Terminal(err error, status int) AttemptResult {
	return AttemptResult{Outcome: OutcomeTerminal, Err: err, Status: status}
}

// AttemptFunc performs exactly one attempt
type AttemptFunc func(ctx context.Context) AttemptResult

// State is a node of the retry state machine
type State int

const (
	StateAttempting State = iota
	StateBackoff
	StateSucceeded
	StateExhaustedRetries
	StateTerminalFailure
	StateCancelled
)

func (s State) String() string {
	switch s {
	case StateAttempting:
		return "attempting"
	case StateBackoff:
		return "backoff"
	case StateSucceeded:
		return "succeeded"
	case StateExhaustedRetries:
		return "exhausted_retries"
	case StateTerminalFailure:
		return "terminal_failure"
	case StateCancelled:
		return "cancelled"
	}
	return "unknown"
}

// ResultKind is the final classification returned to callers
type ResultKind int

const (
	ResultSuccess ResultKind = iota
	ResultExhausted
	ResultTerminal
	ResultCancelled
)

func (k ResultKind) String() string {
	switch k {
	case ResultSuccess:
		return "success"
	case ResultExhausted:
		return "exhausted_retries"
	case ResultTerminal:
		return "terminal_failure"
	case ResultCancelled:
		return "cancelled"
	}
	return "unknown"
}

// Result is exactly one of: generated text, a busy message, a terminal
// failure message, or a cancellation. Text is always displayable.
type Result struct {
	Kind     ResultKind
	Text     string
	Attempts int
	Delays   []time.Duration
	Status   int
	Err      error
}

// OK reports whether the result carries generated text
func (r Result) OK() bool {
	return r.Kind == ResultSuccess
}

// Message returns the user-facing text for any result kind
func (r Result) Message() string {
	return r.Text
}

// Policy bounds the retry loop
type Policy struct {
	MaxRetries int
	BaseDelay  time.Duration
	MaxJitter  time.Duration
}

// DefaultPolicy allows five retries starting from a one second base
func DefaultPolicy() Policy {
	return Policy{
		MaxRetries: 5,
		BaseDelay:  time.Second,
		MaxJitter:  time.Second,
	}
}

// SleepFunc waits for d or until ctx is done
type SleepFunc func(ctx context.Context, d time.Duration) error

// JitterFunc draws a jitter value in [0, limit)
type JitterFunc func(limit time.Duration) time.Duration

// Transition is reported to observers on every state change
type Transition struct {
	From    State
	To      State
	Attempt int
	Delay   time.Duration
}

// Caller runs the retry state machine. It holds configuration only; every
// Do call owns its own attempt counter, so one Caller may be shared.
type Caller struct {
	policy   Policy
	sleep    SleepFunc
	jitter   JitterFunc
	observer func(Transition)
	log      *logrus.Entry
}

// Option customizes a Caller
type Option func(*Caller)

// WithSleep replaces the context-aware timer, mainly for tests
func WithSleep(fn SleepFunc) Option {
	return func(c *Caller) { c.sleep = fn }
}

// WithJitter replaces the jitter source
func WithJitter(fn JitterFunc) Option {
	return func(c *Caller) { c.jitter = fn }
}

// WithObserver registers a callback for state transitions
func WithObserver(fn func(Transition)) Option {
	return func(c *Caller) { c.observer = fn }
}

// WithLogger sets the logger used for retry diagnostics
func WithLogger(log logrus.FieldLogger) Option {
	return func(c *Caller) { c.log = logging.Component(log, "ai-retry") }
}

// NewCaller creates a Caller. A negative MaxRetries is treated as zero.
func NewCaller(policy Policy, opts ...Option) *Caller {
	if policy.MaxRetries < 0 {
		policy.MaxRetries = 0
	}
	c := &Caller{
		policy: policy,
		sleep:  sleepContext,
		jitter: util.Jitter,
		log:    logging.Component(nil, "ai-retry"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Policy returns the caller's retry policy
func (c *Caller) Policy() Policy {
	return c.policy
}

// callAttempt is the per-request state; it is discarded when Do returns
type callAttempt struct {
	attemptNumber int
	lastErrorKind Outcome
	lastErr       error
	lastStatus    int
	nextDelay     time.Duration
}

// Do runs attempt under the policy until it succeeds, fails terminally,
// exhausts the retry budget, or ctx is cancelled. At most MaxRetries+1
// attempts are made.
func (c *Caller) Do(ctx context.Context, attempt AttemptFunc) Result {
	var (
		call   callAttempt
		result Result
		state  = StateAttempting
	)

	for {
		switch state {
		case StateAttempting:
			if ctx.Err() != nil {
				return c.finish(state, StateCancelled, &call, cancelled(result, ctx.Err()))
			}

			res := attempt(ctx)
			result.Attempts++
			result.Status = res.Status
			metrics.RecordAIAttempt(res.Outcome.String())

			// the caller went away mid-attempt; its response must not be applied
			if ctx.Err() != nil {
				return c.finish(state, StateCancelled, &call, cancelled(result, ctx.Err()))
			}

			switch res.Outcome {
			case OutcomeSuccess:
				result.Kind = ResultSuccess
				result.Text = res.Text
				if result.Text == "" {
					result.Text = FallbackText
				}
				return c.finish(state, StateSucceeded, &call, result)

			case OutcomeRetryable:
				call.attemptNumber++
				call.lastErrorKind = res.Outcome
				call.lastErr = res.Err
				call.lastStatus = res.Status
				c.log.WithFields(logrus.Fields{
					"attempt": call.attemptNumber,
					"status":  res.Status,
				}).WithError(res.Err).Debug("retryable failure")
				state = c.transition(state, StateBackoff, &call)

			default:
				c.log.WithField("status", res.Status).WithError(res.Err).Warn("non-retryable failure")
				result.Kind = ResultTerminal
				result.Err = res.Err
				result.Text = terminalMessage(res.Status)
				return c.finish(state, StateTerminalFailure, &call, result)
			}

		case StateBackoff:
			if call.attemptNumber > c.policy.MaxRetries {
				c.log.WithField("attempts", result.Attempts).WithError(call.lastErr).Warn("retries exhausted")
				result.Kind = ResultExhausted
				result.Err = call.lastErr
				result.Text = BusyMessage
				return c.finish(state, StateExhaustedRetries, &call, result)
			}

			call.nextDelay = util.CalculateBackoffWithJitter(c.policy.BaseDelay, call.attemptNumber, c.jitter(c.policy.MaxJitter))
			result.Delays = append(result.Delays, call.nextDelay)
			metrics.ObserveBackoff(call.nextDelay.Seconds())

			if err := c.sleep(ctx, call.nextDelay); err != nil || ctx.Err() != nil {
				if err == nil {
					err = ctx.Err()
				}
				return c.finish(state, StateCancelled, &call, cancelled(result, err))
			}
			state = c.transition(state, StateAttempting, &call)
		}
	}
}

// transition notifies the observer and returns the new state
func (c *Caller) transition(from, to State, call *callAttempt) State {
	if c.observer != nil {
		c.observer(Transition{From: from, To: to, Attempt: call.attemptNumber, Delay: call.nextDelay})
	}
	return to
}

// finish moves to a terminal state and records the result
func (c *Caller) finish(from, to State, call *callAttempt, r Result) Result {
	c.transition(from, to, call)
	metrics.RecordAIResult(r.Kind.String())
	return r
}

func cancelled(r Result, err error) Result {
	r.Kind = ResultCancelled
	r.Text = CancelledMessage
	r.Err = err
	return r
}

func terminalMessage(status int) string {
	if status == 0 {
		return TerminalMessage
	}
	return fmt.Sprintf("%s (status %d)", TerminalMessage, status)
}

// sleepContext waits for d, returning early with ctx.Err() on cancellation
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
