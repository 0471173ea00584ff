// Package openai provides a client for the OpenAI chat completions API
package openai

import (
	"context"
	"fmt"
	"time"

	goopenai "github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"

	"github.com/bobmcallan/folio/internal/common"
	"github.com/bobmcallan/folio/internal/interfaces"
	"github.com/bobmcallan/folio/internal/models"
)

const (
	DefaultModel     = "gpt-4o-mini"
	DefaultTimeout   = 60 * time.Second
	DefaultRateLimit = 2 // requests per second
)

// Client implements the AIClient interface
type Client struct {
	api     *goopenai.Client
	model   string
	logger  *common.Logger
	limiter *rate.Limiter

	// pendingBaseURL is applied when the underlying client is built,
	// since the go-openai config requires the key first.
	pendingBaseURL string
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithModel sets the model to use
func WithModel(model string) ClientOption {
	return func(c *Client) {
		if model != "" {
			c.model = model
		}
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRateLimit sets the rate limit
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
	}
}

// WithBaseURL sets a custom API base URL (for proxies and tests)
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.pendingBaseURL = baseURL
	}
}

// NewClient creates a new OpenAI client
func NewClient(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		model:   DefaultModel,
		logger:  common.NewSilentLogger(),
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
	}

	for _, opt := range opts {
		opt(c)
	}

	config := goopenai.DefaultConfig(apiKey)
	if c.pendingBaseURL != "" {
		config.BaseURL = c.pendingBaseURL
	}
	c.api = goopenai.NewClientWithConfig(config)

	return c
}

// Complete sends the system prompt and conversation transcript to the chat
// completions API and returns the assistant's reply text.
func (c *Client) Complete(ctx context.Context, systemPrompt string, messages []models.ChatMessage) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit wait: %w", err)
	}

	chatMessages := make([]goopenai.ChatCompletionMessage, 0, len(messages)+1)
	if systemPrompt != "" {
		chatMessages = append(chatMessages, goopenai.ChatCompletionMessage{
			Role:    goopenai.ChatMessageRoleSystem,
			Content: systemPrompt,
		})
	}
	for _, m := range messages {
		role := goopenai.ChatMessageRoleUser
		if m.Role == models.ChatRoleAssistant {
			role = goopenai.ChatMessageRoleAssistant
		}
		chatMessages = append(chatMessages, goopenai.ChatCompletionMessage{
			Role:    role,
			Content: m.Content,
		})
	}

	c.logger.Debug().Str("model", c.model).Int("messages", len(chatMessages)).Msg("OpenAI chat completion request")

	resp, err := c.api.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model:    c.model,
		Messages: chatMessages,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no completion choices returned")
	}

	return resp.Choices[0].Message.Content, nil
}

// Ensure Client implements AIClient
var _ interfaces.AIClient = (*Client)(nil)
