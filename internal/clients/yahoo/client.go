// Package yahoo provides a client for the Yahoo Finance API
package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/bobmcallan/folio/internal/common"
	"github.com/bobmcallan/folio/internal/interfaces"
	"github.com/bobmcallan/folio/internal/models"
)

const (
	DefaultBaseURL   = "https://query1.finance.yahoo.com"
	DefaultTimeout   = 30 * time.Second
	DefaultRateLimit = 5 // requests per second

	// Yahoo rejects requests without a browser-like User-Agent.
	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

	// crumbTTL is how long a session crumb is reused before re-initializing.
	crumbTTL = 30 * time.Minute
)

// Client implements the MarketClient interface against Yahoo Finance.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *common.Logger
	limiter    *rate.Limiter

	mu          sync.Mutex
	crumb       string
	crumbExpiry time.Time
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

// NewClient creates a new Yahoo Finance client
func NewClient(opts ...ClientOption) *Client {
	jar, _ := cookiejar.New(nil)
	c := &Client{
		baseURL: DefaultBaseURL,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
			Jar:     jar,
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
	return fmt.Sprintf("Yahoo Finance API error: %s (status: %d, endpoint: %s)", e.Message, e.StatusCode, e.Endpoint)
}

// ensureSession establishes Yahoo session cookies and a crumb token.
// Yahoo requires both for authenticated query endpoints; the crumb is
// reused until crumbTTL elapses. Failure is non-fatal — the chart and
// search endpoints usually work without a crumb.
func (c *Client) ensureSession(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.crumb != "" && time.Now().Before(c.crumbExpiry) {
		return
	}

	// Step 1: collect session cookies.
	cookieReq, err := http.NewRequestWithContext(ctx, http.MethodGet, "https://fc.yahoo.com", nil)
	if err != nil {
		return
	}
	cookieReq.Header.Set("User-Agent", userAgent)
	if resp, err := c.httpClient.Do(cookieReq); err == nil {
		resp.Body.Close()
	}

	// Step 2: fetch the crumb using those cookies.
	crumbReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/test/getcrumb", nil)
	if err != nil {
		return
	}
	crumbReq.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(crumbReq)
	if err != nil {
		c.logger.Warn().Err(err).Msg("Yahoo crumb fetch failed")
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn().Int("status", resp.StatusCode).Msg("Yahoo crumb fetch returned non-OK status")
		return
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 256))
	if err != nil {
		return
	}

	crumb := strings.TrimSpace(string(body))
	if crumb != "" && !strings.Contains(crumb, "<") {
		c.crumb = crumb
		c.crumbExpiry = time.Now().Add(crumbTTL)
		c.logger.Debug().Msg("Yahoo session initialized")
	}
}

// get performs a rate-limited GET request against the Yahoo API.
func (c *Client) get(ctx context.Context, path string, params url.Values, result interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	c.ensureSession(ctx)

	if params == nil {
		params = url.Values{}
	}
	c.mu.Lock()
	if c.crumb != "" {
		params.Set("crumb", c.crumb)
	}
	c.mu.Unlock()

	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	c.logger.Debug().Str("url", c.baseURL+path).Msg("Yahoo Finance API request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    string(body),
			Endpoint:   path,
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// chartResponse mirrors the subset of the v8 chart payload Folio consumes.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Currency             string  `json:"currency"`
				Symbol               string  `json:"symbol"`
				ExchangeName         string  `json:"exchangeName"`
				ShortName            string  `json:"shortName"`
				LongName             string  `json:"longName"`
				RegularMarketPrice   float64 `json:"regularMarketPrice"`
				RegularMarketDayHigh float64 `json:"regularMarketDayHigh"`
				RegularMarketDayLow  float64 `json:"regularMarketDayLow"`
				RegularMarketVolume  int64   `json:"regularMarketVolume"`
				RegularMarketTime    int64   `json:"regularMarketTime"`
				ChartPreviousClose   float64 `json:"chartPreviousClose"`
				PreviousClose        float64 `json:"previousClose"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*int64   `json:"volume"`
				} `json:"quote"`
				AdjClose []struct {
					AdjClose []*float64 `json:"adjclose"`
				} `json:"adjclose"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// GetQuote retrieves a current quote from the chart endpoint metadata.
func (c *Client) GetQuote(ctx context.Context, symbol string) (*models.Quote, error) {
	params := url.Values{}
	params.Set("range", "1d")
	params.Set("interval", "1d")

	path := fmt.Sprintf("/v8/finance/chart/%s", url.PathEscape(symbol))

	var resp chartResponse
	if err := c.get(ctx, path, params, &resp); err != nil {
		return nil, err
	}

	if resp.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo chart error for %s: %s", symbol, resp.Chart.Error.Description)
	}
	if len(resp.Chart.Result) == 0 {
		return nil, fmt.Errorf("no quote data for %s", symbol)
	}

	meta := resp.Chart.Result[0].Meta

	prevClose := meta.ChartPreviousClose
	if meta.PreviousClose > 0 {
		prevClose = meta.PreviousClose
	}

	quote := &models.Quote{
		Symbol:        meta.Symbol,
		Exchange:      meta.ExchangeName,
		Currency:      meta.Currency,
		Price:         meta.RegularMarketPrice,
		PreviousClose: prevClose,
		DayHigh:       meta.RegularMarketDayHigh,
		DayLow:        meta.RegularMarketDayLow,
		Volume:        meta.RegularMarketVolume,
		Timestamp:     time.Unix(meta.RegularMarketTime, 0).UTC(),
	}
	if meta.LongName != "" {
		quote.Name = meta.LongName
	} else {
		quote.Name = meta.ShortName
	}
	if prevClose > 0 {
		quote.Change = quote.Price - prevClose
		quote.ChangePct = (quote.Change / prevClose) * 100
	}

	return quote, nil
}

// GetHistory retrieves historical candles. period is a Yahoo range string
// (1d, 5d, 1mo, 3mo, 6mo, 1y, 2y, 5y, max) and interval a Yahoo interval
// (1m, 5m, 1d, 1wk, 1mo). Null bars from partially traded sessions are
// skipped.
func (c *Client) GetHistory(ctx context.Context, symbol, period, interval string) (*models.History, error) {
	params := url.Values{}
	params.Set("range", period)
	params.Set("interval", interval)
	params.Set("events", "history")

	path := fmt.Sprintf("/v8/finance/chart/%s", url.PathEscape(symbol))

	var resp chartResponse
	if err := c.get(ctx, path, params, &resp); err != nil {
		return nil, err
	}

	if resp.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo chart error for %s: %s", symbol, resp.Chart.Error.Description)
	}
	if len(resp.Chart.Result) == 0 {
		return nil, fmt.Errorf("no history data for %s", symbol)
	}

	result := resp.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return nil, fmt.Errorf("no candle data for %s", symbol)
	}
	bars := result.Indicators.Quote[0]

	var adjCloses []*float64
	if len(result.Indicators.AdjClose) > 0 {
		adjCloses = result.Indicators.AdjClose[0].AdjClose
	}

	history := &models.History{
		Symbol:   result.Meta.Symbol,
		Period:   period,
		Interval: interval,
		Candles:  make([]models.Candle, 0, len(result.Timestamp)),
	}

	deref := func(vals []*float64, i int) (float64, bool) {
		if i >= len(vals) || vals[i] == nil {
			return 0, false
		}
		return *vals[i], true
	}

	for i, ts := range result.Timestamp {
		closeVal, ok := deref(bars.Close, i)
		if !ok {
			continue
		}

		candle := models.Candle{
			Date:  time.Unix(ts, 0).UTC(),
			Close: closeVal,
		}
		if v, ok := deref(bars.Open, i); ok {
			candle.Open = v
		}
		if v, ok := deref(bars.High, i); ok {
			candle.High = v
		}
		if v, ok := deref(bars.Low, i); ok {
			candle.Low = v
		}
		if i < len(bars.Volume) && bars.Volume[i] != nil {
			candle.Volume = *bars.Volume[i]
		}
		if v, ok := deref(adjCloses, i); ok {
			candle.AdjClose = v
		} else {
			candle.AdjClose = closeVal
		}

		history.Candles = append(history.Candles, candle)
	}

	return history, nil
}

// searchResponse mirrors the symbol search payload.
type searchResponse struct {
	Quotes []struct {
		Symbol    string `json:"symbol"`
		ShortName string `json:"shortname"`
		LongName  string `json:"longname"`
		Exchange  string `json:"exchange"`
		QuoteType string `json:"quoteType"`
	} `json:"quotes"`
}

// Search retrieves symbol search matches for a free-text query.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]models.SearchResult, error) {
	if limit <= 0 {
		limit = 10
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("quotesCount", strconv.Itoa(limit))
	params.Set("newsCount", "0")
	params.Set("lang", "en-US")

	var resp searchResponse
	if err := c.get(ctx, "/v1/finance/search", params, &resp); err != nil {
		return nil, err
	}

	results := make([]models.SearchResult, 0, len(resp.Quotes))
	for _, q := range resp.Quotes {
		if q.Symbol == "" {
			continue
		}
		name := q.LongName
		if name == "" {
			name = q.ShortName
		}
		results = append(results, models.SearchResult{
			Symbol:   q.Symbol,
			Name:     name,
			Exchange: q.Exchange,
			Type:     q.QuoteType,
		})
		if len(results) >= limit {
			break
		}
	}

	return results, nil
}

// Ensure Client implements MarketClient
var _ interfaces.MarketClient = (*Client)(nil)
