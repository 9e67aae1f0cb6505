// ABOUTME: Gemini generateContent client wrapped in the resilient call wrapper
// ABOUTME: Sends a single-turn prompt and reads candidates[0].content.parts[0].text
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

const (
	// DefaultGeminiModel is the default generation model
	DefaultGeminiModel = "gemini-2.5-flash-preview-09-2025"
	// DefaultGeminiBaseURL is the public generative language endpoint
	DefaultGeminiBaseURL = "https://generativelanguage.googleapis.com"

	geminiTextPath  = "candidates.0.content.parts.0.text"
	maxResponseBody = 4 << 20
)

// GeminiConfig holds configuration for the Gemini client
type GeminiConfig struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
	Policy  Policy
}

// DefaultGeminiConfig returns the default configuration for apiKey
func DefaultGeminiConfig(apiKey string) *GeminiConfig {
	return &GeminiConfig{
		APIKey:  apiKey,
		Model:   DefaultGeminiModel,
		BaseURL: DefaultGeminiBaseURL,
		Timeout: 30 * time.Second,
		Policy:  DefaultPolicy(),
	}
}

// GeminiClient generates text through the Gemini REST API
type GeminiClient struct {
	httpClient *http.Client
	endpoint   string
	apiKey     string
	timeout    time.Duration
	caller     *Caller
}

// NewGeminiClient creates a client; opts customize the retry wrapper
func NewGeminiClient(config *GeminiConfig, opts ...Option) (*GeminiClient, error) {
	if config == nil || config.APIKey == "" {
		return nil, fmt.Errorf("Gemini API key is required")
	}

	model := config.Model
	if model == "" {
		model = DefaultGeminiModel
	}
	base := strings.TrimRight(config.BaseURL, "/")
	if base == "" {
		base = DefaultGeminiBaseURL
	}
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &GeminiClient{
		httpClient: &http.Client{},
		endpoint:   fmt.Sprintf("%s/v1beta/models/%s:generateContent", base, url.PathEscape(model)),
		apiKey:     config.APIKey,
		timeout:    timeout,
		caller:     NewCaller(config.Policy, opts...),
	}, nil
}

// Generate sends prompt and returns display text under the retry policy
func (c *GeminiClient) Generate(ctx context.Context, prompt string) Result {
	return c.caller.Do(ctx, func(ctx context.Context) AttemptResult {
		return c.attempt(ctx, prompt)
	})
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

// attempt performs one POST and classifies the response
func (c *GeminiClient) attempt(ctx context.Context, prompt string) AttemptResult {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	body, err := json.Marshal(geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
	})
	if err != nil {
		return Terminal(fmt.Errorf("encoding request: %w", err), 0)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return Terminal(fmt.Errorf("building request: %w", err), 0)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return attemptFromError(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return Retryable(fmt.Errorf("reading response: %w", err), resp.StatusCode)
	}

	switch ClassifyStatus(resp.StatusCode) {
	case OutcomeSuccess:
		if !gjson.ValidBytes(data) {
			return Retryable(fmt.Errorf("gemini: unparseable response body"), resp.StatusCode)
		}
		// missing text is tolerated; the wrapper substitutes FallbackText
		return Succeeded(gjson.GetBytes(data, geminiTextPath).String())
	case OutcomeRetryable:
		return Retryable(fmt.Errorf("gemini: status %d", resp.StatusCode), resp.StatusCode)
	default:
		return Terminal(fmt.Errorf("gemini: status %d: %s", resp.StatusCode, errorSnippet(data)), resp.StatusCode)
	}
}

// errorSnippet extracts the API error message, falling back to the raw body
func errorSnippet(data []byte) string {
	if msg := gjson.GetBytes(data, "error.message"); msg.Exists() {
		return msg.String()
	}
	s := strings.TrimSpace(string(data))
	if len(s) > 200 {
		s = s[:200] + "..."
	}
	return s
}
