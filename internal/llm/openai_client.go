// ABOUTME: OpenAI chat-completion client wrapped in the resilient call wrapper
// ABOUTME: Uses gpt-4o-mini by default (configurable); API status codes drive retry classification
package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

const (
	// DefaultChatModel is the default model for chat completions
	DefaultChatModel = "gpt-4o-mini"
)

// ClientConfig holds configuration for the OpenAI client
type ClientConfig struct {
	APIKey    string
	ChatModel string
	BaseURL   string
	Timeout   time.Duration
	Policy    Policy
}

// DefaultConfig returns the default client configuration; callers set
// ChatModel from config.Config
func DefaultConfig(apiKey string) *ClientConfig {
	return &ClientConfig{
		APIKey:    apiKey,
		ChatModel: DefaultChatModel,
		Timeout:   30 * time.Second,
		Policy:    DefaultPolicy(),
	}
}

// OpenAIClient wraps the OpenAI API client with the retry state machine
type OpenAIClient struct {
	client    *openai.Client
	chatModel string
	timeout   time.Duration
	caller    *Caller
}

// NewOpenAIClient creates a new OpenAI client with the given API key using default configuration
func NewOpenAIClient(apiKey string, opts ...Option) (*OpenAIClient, error) {
	return NewOpenAIClientWithConfig(DefaultConfig(apiKey), opts...)
}

// NewOpenAIClientWithConfig creates a new OpenAI client with custom configuration
func NewOpenAIClientWithConfig(config *ClientConfig, opts ...Option) (*OpenAIClient, error) {
	if config == nil || config.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	oaiConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		oaiConfig.BaseURL = config.BaseURL
	}

	chatModel := config.ChatModel
	if chatModel == "" {
		chatModel = DefaultChatModel
	}
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &OpenAIClient{
		client:    openai.NewClientWithConfig(oaiConfig),
		chatModel: chatModel,
		timeout:   timeout,
		caller:    NewCaller(config.Policy, opts...),
	}, nil
}

// Generate sends prompt as a single user message
func (c *OpenAIClient) Generate(ctx context.Context, prompt string) Result {
	return c.caller.Do(ctx, func(ctx context.Context) AttemptResult {
		return c.attempt(ctx, prompt)
	})
}

func (c *OpenAIClient) attempt(ctx context.Context, prompt string) AttemptResult {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.chatModel,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		Temperature: 0.7,
	})
	if err != nil {
		return classifyOpenAIError(err)
	}

	// an empty choice list is a well-formed response without text
	if len(resp.Choices) == 0 {
		return Succeeded("")
	}
	return Succeeded(resp.Choices[0].Message.Content)
}

// classifyOpenAIError prefers the HTTP status carried by API errors
func classifyOpenAIError(err error) AttemptResult {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode != 0 {
		return AttemptResult{Outcome: ClassifyStatus(apiErr.HTTPStatusCode), Err: err, Status: apiErr.HTTPStatusCode}
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode != 0 {
		return AttemptResult{Outcome: ClassifyStatus(reqErr.HTTPStatusCode), Err: err, Status: reqErr.HTTPStatusCode}
	}
	return attemptFromError(err)
}
