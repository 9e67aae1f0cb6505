// ABOUTME: Tests for the OpenAI client against an httptest server
// ABOUTME: Verifies retries, terminal errors and empty choices

package llm

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOpenAI(t *testing.T, handler http.HandlerFunc) *OpenAIClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := DefaultConfig("sk-test")
	cfg.BaseURL = srv.URL + "/v1"
	cfg.ChatModel = "gpt-test"

	client, err := NewOpenAIClientWithConfig(cfg, WithSleep(recordingSleep(new([]time.Duration))))
	require.NoError(t, err)
	return client
}

func TestDefaultConfig_ModelComesFromCaller(t *testing.T) {
	t.Setenv("OPENAI_MODEL", "gpt-from-env")

	cfg := DefaultConfig("sk-test")
	assert.Equal(t, DefaultChatModel, cfg.ChatModel)
	assert.Equal(t, DefaultPolicy(), cfg.Policy)
}

func TestNewOpenAIClient_RequiresKey(t *testing.T) {
	_, err := NewOpenAIClient("")
	assert.Error(t, err)
}

func TestOpenAI_Generate(t *testing.T) {
	client := newTestOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"x","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"grow daily"}}]}`))
	})

	res := client.Generate(context.Background(), "draft")

	assert.Equal(t, ResultSuccess, res.Kind)
	assert.Equal(t, "grow daily", res.Text)
}

func TestOpenAI_RateLimitIsRetried(t *testing.T) {
	var calls int32
	client := newTestOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"error":{"message":"slow down","type":"rate_limit_error"}}`))
			return
		}
		w.Write([]byte(`{"choices":[{"index":0,"message":{"role":"assistant","content":"ok"}}]}`))
	})

	res := client.Generate(context.Background(), "draft")

	assert.Equal(t, ResultSuccess, res.Kind)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestOpenAI_BadRequestIsTerminal(t *testing.T) {
	var calls int32
	client := newTestOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"message":"bad prompt","type":"invalid_request_error"}}`))
	})

	res := client.Generate(context.Background(), "draft")

	assert.Equal(t, ResultTerminal, res.Kind)
	assert.Equal(t, 400, res.Status)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestOpenAI_NoChoicesFallsBack(t *testing.T) {
	client := newTestOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[]}`))
	})

	res := client.Generate(context.Background(), "draft")

	assert.Equal(t, FallbackText, res.Text)
}
