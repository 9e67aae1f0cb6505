// ABOUTME: Tests for the Gemini client against an httptest server
// ABOUTME: Verifies request shape, retries and fallback text

package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const helloBody = `{"candidates":[{"content":{"parts":[{"text":"hello"}]}}]}`

func newTestGemini(t *testing.T, handler http.HandlerFunc, mutate func(*GeminiConfig)) *GeminiClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := DefaultGeminiConfig("test-key")
	cfg.BaseURL = srv.URL
	cfg.Model = "test-model"
	if mutate != nil {
		mutate(cfg)
	}

	client, err := NewGeminiClient(cfg, WithSleep(recordingSleep(new([]time.Duration))))
	require.NoError(t, err)
	return client
}

func TestNewGeminiClient_RequiresKey(t *testing.T) {
	_, err := NewGeminiClient(DefaultGeminiConfig(""))
	assert.Error(t, err)

	_, err = NewGeminiClient(nil)
	assert.Error(t, err)
}

func TestGemini_SendsPromptAndParsesText(t *testing.T) {
	client := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1beta/models/test-model:generateContent", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-goog-api-key"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req geminiRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Contents, 1)
		require.Len(t, req.Contents[0].Parts, 1)
		assert.Equal(t, "be kind", req.Contents[0].Parts[0].Text)

		w.Write([]byte(helloBody))
	}, nil)

	res := client.Generate(context.Background(), "be kind")

	assert.Equal(t, ResultSuccess, res.Kind)
	assert.Equal(t, "hello", res.Text)
	assert.Equal(t, 1, res.Attempts)
}

func TestGemini_RetriesRateLimitAndServerFault(t *testing.T) {
	var calls int32
	client := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		switch atomic.AddInt32(&calls, 1) {
		case 1:
			w.WriteHeader(http.StatusTooManyRequests)
		case 2:
			w.WriteHeader(http.StatusServiceUnavailable)
		default:
			w.Write([]byte(helloBody))
		}
	}, nil)

	res := client.Generate(context.Background(), "hi")

	assert.Equal(t, ResultSuccess, res.Kind)
	assert.Equal(t, "hello", res.Text)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
	assert.Len(t, res.Delays, 2)
}

func TestGemini_ClientErrorIsTerminal(t *testing.T) {
	var calls int32
	client := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"code":400,"message":"API key not valid"}}`))
	}, nil)

	res := client.Generate(context.Background(), "hi")

	assert.Equal(t, ResultTerminal, res.Kind)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	assert.Contains(t, res.Text, TerminalMessage)
	require.Error(t, res.Err)
	assert.Contains(t, res.Err.Error(), "API key not valid")
}

func TestGemini_MissingTextFallsBack(t *testing.T) {
	client := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates":[]}`))
	}, nil)

	res := client.Generate(context.Background(), "hi")

	assert.Equal(t, ResultSuccess, res.Kind)
	assert.Equal(t, FallbackText, res.Text)
}

func TestGemini_UnparseableBodyIsRetried(t *testing.T) {
	var calls int32
	client := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.Write([]byte(`<html>oops`))
			return
		}
		w.Write([]byte(helloBody))
	}, nil)

	res := client.Generate(context.Background(), "hi")

	assert.Equal(t, ResultSuccess, res.Kind)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestGemini_PersistentFailureExhausts(t *testing.T) {
	var calls int32
	client := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}, func(cfg *GeminiConfig) {
		cfg.Policy.MaxRetries = 2
	})

	res := client.Generate(context.Background(), "hi")

	assert.Equal(t, ResultExhausted, res.Kind)
	assert.Equal(t, BusyMessage, res.Text)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestGemini_AttemptTimeoutIsRetryable(t *testing.T) {
	var calls int32
	client := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			select {
			case <-r.Context().Done():
			case <-time.After(2 * time.Second):
			}
			return
		}
		w.Write([]byte(helloBody))
	}, func(cfg *GeminiConfig) {
		cfg.Timeout = 50 * time.Millisecond
	})

	res := client.Generate(context.Background(), "hi")

	assert.Equal(t, ResultSuccess, res.Kind)
	assert.Equal(t, 2, res.Attempts)
}

func TestGemini_ConnectionRefusedIsRetryable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	cfg := DefaultGeminiConfig("k")
	cfg.BaseURL = base
	cfg.Policy.MaxRetries = 1
	client, err := NewGeminiClient(cfg, WithSleep(recordingSleep(new([]time.Duration))))
	require.NoError(t, err)

	res := client.Generate(context.Background(), "hi")

	assert.Equal(t, ResultExhausted, res.Kind)
	assert.Equal(t, 2, res.Attempts)
}
