// Package alphavantage provides a client for the Alpha Vantage API
package alphavantage

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/bobmcallan/folio/internal/common"
	"github.com/bobmcallan/folio/internal/interfaces"
	"github.com/bobmcallan/folio/internal/models"
)

const (
	DefaultBaseURL   = "https://www.alphavantage.co"
	DefaultTimeout   = 30 * time.Second
	DefaultRateLimit = 1 // requests per second — free tier is 25/day

	// timePublishedLayout is Alpha Vantage's compact timestamp format.
	timePublishedLayout = "20060102T150405"
)

// Client implements the NewsClient interface against Alpha Vantage.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *common.Logger
	limiter    *rate.Limiter
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithBaseURL sets the base URL
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
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

// WithTimeout sets the HTTP timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// NewClient creates a new Alpha Vantage client
func NewClient(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		logger:  common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// APIError represents an API error
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("Alpha Vantage API error: %s (status: %d, endpoint: %s)", e.Message, e.StatusCode, e.Endpoint)
}

// newsFeedResponse mirrors the NEWS_SENTIMENT payload.
type newsFeedResponse struct {
	Feed []struct {
		Title                 string  `json:"title"`
		URL                   string  `json:"url"`
		TimePublished         string  `json:"time_published"`
		Summary               string  `json:"summary"`
		Source                string  `json:"source"`
		OverallSentimentScore float64 `json:"overall_sentiment_score"`
		OverallSentimentLabel string  `json:"overall_sentiment_label"`
		TickerSentiment       []struct {
			Ticker string `json:"ticker"`
		} `json:"ticker_sentiment"`
	} `json:"feed"`
	// Present instead of feed when the key is invalid or rate limited.
	Information  string `json:"Information"`
	Note         string `json:"Note"`
	ErrorMessage string `json:"Error Message"`
}

// GetNews retrieves news with sentiment for a symbol. symbol may be empty
// for general market news.
func (c *Client) GetNews(ctx context.Context, symbol string, limit int) ([]models.NewsArticle, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	if limit <= 0 {
		limit = 20
	}

	params := url.Values{}
	params.Set("function", "NEWS_SENTIMENT")
	params.Set("apikey", c.apiKey)
	params.Set("limit", strconv.Itoa(limit))
	params.Set("sort", "LATEST")
	if symbol != "" {
		params.Set("tickers", strings.ToUpper(symbol))
	}

	reqURL := fmt.Sprintf("%s/query?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	c.logger.Debug().Str("symbol", symbol).Msg("Alpha Vantage news request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    string(body),
			Endpoint:   "/query",
		}
	}

	var feedResp newsFeedResponse
	if err := json.NewDecoder(resp.Body).Decode(&feedResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	// Alpha Vantage signals quota and key errors as 200s with a message body.
	if len(feedResp.Feed) == 0 {
		msg := feedResp.ErrorMessage
		if msg == "" {
			msg = feedResp.Note
		}
		if msg == "" {
			msg = feedResp.Information
		}
		if msg != "" {
			return nil, &APIError{StatusCode: resp.StatusCode, Message: msg, Endpoint: "/query"}
		}
	}

	articles := make([]models.NewsArticle, 0, len(feedResp.Feed))
	for _, item := range feedResp.Feed {
		publishedAt, _ := time.Parse(timePublishedLayout, item.TimePublished)

		symbols := make([]string, 0, len(item.TickerSentiment))
		for _, ts := range item.TickerSentiment {
			symbols = append(symbols, ts.Ticker)
		}

		articles = append(articles, models.NewsArticle{
			Title:          item.Title,
			URL:            item.URL,
			Source:         item.Source,
			Summary:        item.Summary,
			PublishedAt:    publishedAt,
			Sentiment:      classifyLabel(item.OverallSentimentLabel, item.OverallSentimentScore),
			SentimentScore: item.OverallSentimentScore,
			Symbols:        symbols,
		})
	}

	return articles, nil
}

// classifyLabel maps Alpha Vantage sentiment labels to Folio's three-way
// classification, falling back to the score thresholds when the label is
// unrecognized.
func classifyLabel(label string, score float64) string {
	switch {
	case strings.Contains(strings.ToLower(label), "bullish"):
		return models.SentimentBullish
	case strings.Contains(strings.ToLower(label), "bearish"):
		return models.SentimentBearish
	case label != "":
		return models.SentimentNeutral
	}

	if score > 0.15 {
		return models.SentimentBullish
	}
	if score < -0.15 {
		return models.SentimentBearish
	}
	return models.SentimentNeutral
}

// Ensure Client implements NewsClient
var _ interfaces.NewsClient = (*Client)(nil)
