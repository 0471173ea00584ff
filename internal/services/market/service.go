// Package market provides validated, cached market data services
package market

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/bobmcallan/folio/internal/common"
	"github.com/bobmcallan/folio/internal/interfaces"
	"github.com/bobmcallan/folio/internal/models"
	"github.com/bobmcallan/folio/internal/signals"
)

const (
	// DefaultQuoteTTL is how long a fetched quote stays servable from cache.
	DefaultQuoteTTL = 3 * time.Minute

	// maxSymbolLength bounds ticker symbols; class symbols like BRK-B and
	// indices like ^GSPC fit well within it.
	maxSymbolLength = 12

	indicatorPeriod   = "1y"
	indicatorInterval = "1d"
	minIndicatorBars  = 20
)

// symbolPattern accepts uppercase tickers with the punctuation Yahoo uses
// for share classes (BRK.B, BRK-B), indices (^GSPC), and futures (ES=F).
var symbolPattern = regexp.MustCompile(`^[A-Z0-9.^=-]{1,12}$`)

var validPeriods = map[string]bool{
	"1d": true, "5d": true, "1mo": true, "3mo": true, "6mo": true,
	"1y": true, "2y": true, "5y": true, "max": true,
}

var validIntervals = map[string]bool{
	"1m": true, "5m": true, "15m": true, "30m": true, "60m": true,
	"1d": true, "1wk": true, "1mo": true,
}

// moverSymbols is the fixed large-cap set served by GetMovers.
var moverSymbols = []string{"AAPL", "MSFT", "GOOGL", "AMZN", "NVDA", "META", "TSLA", "JPM", "V", "WMT"}

type cachedQuote struct {
	quote     *models.Quote
	fetchedAt time.Time
}

// Service implements MarketService
type Service struct {
	client   interfaces.MarketClient
	logger   *common.Logger
	quoteTTL time.Duration

	mu         sync.Mutex
	quoteCache map[string]cachedQuote
}

// ServiceOption configures the market service
type ServiceOption func(*Service)

// WithQuoteTTL overrides the quote cache TTL.
func WithQuoteTTL(ttl time.Duration) ServiceOption {
	return func(s *Service) {
		if ttl > 0 {
			s.quoteTTL = ttl
		}
	}
}

// NewService creates a new market service
func NewService(client interfaces.MarketClient, logger *common.Logger, opts ...ServiceOption) *Service {
	s := &Service{
		client:     client,
		logger:     logger,
		quoteTTL:   DefaultQuoteTTL,
		quoteCache: make(map[string]cachedQuote),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NormalizeSymbol validates and uppercases a ticker symbol. Invalid symbols
// return a ValidationError before any network call is made.
func NormalizeSymbol(symbol string) (string, error) {
	trimmed := strings.TrimSpace(symbol)
	if trimmed == "" {
		return "", common.NewValidationError("symbol is required")
	}
	upper := strings.ToUpper(trimmed)
	if len(upper) > maxSymbolLength || !symbolPattern.MatchString(upper) {
		return "", common.NewValidationError(fmt.Sprintf("invalid symbol '%s'", symbol))
	}
	return upper, nil
}

// GetQuote returns the latest quote for symbol, serving from cache within
// the TTL window.
func (s *Service) GetQuote(ctx context.Context, symbol string) (*models.Quote, error) {
	normalized, err := NormalizeSymbol(symbol)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	entry, ok := s.quoteCache[normalized]
	s.mu.Unlock()
	if ok && time.Since(entry.fetchedAt) < s.quoteTTL {
		s.logger.Debug().Str("symbol", normalized).Msg("Quote served from cache")
		return entry.quote, nil
	}

	quote, err := s.client.GetQuote(ctx, normalized)
	if err != nil {
		// A stale quote beats an error when the upstream hiccups.
		if ok {
			s.logger.Warn().Err(err).Str("symbol", normalized).Msg("Quote fetch failed, serving stale cache")
			return entry.quote, nil
		}
		return nil, fmt.Errorf("failed to fetch quote for %s: %w", normalized, err)
	}

	s.mu.Lock()
	s.quoteCache[normalized] = cachedQuote{quote: quote, fetchedAt: time.Now()}
	s.mu.Unlock()

	return quote, nil
}

// GetHistory returns OHLCV candles for symbol over the requested period and
// interval. Empty period/interval default to 1mo/1d.
func (s *Service) GetHistory(ctx context.Context, symbol, period, interval string) (*models.History, error) {
	normalized, err := NormalizeSymbol(symbol)
	if err != nil {
		return nil, err
	}

	if period == "" {
		period = "1mo"
	}
	if interval == "" {
		interval = "1d"
	}
	if !validPeriods[period] {
		return nil, common.NewValidationError(fmt.Sprintf("invalid period '%s'", period))
	}
	if !validIntervals[interval] {
		return nil, common.NewValidationError(fmt.Sprintf("invalid interval '%s'", interval))
	}

	history, err := s.client.GetHistory(ctx, normalized, period, interval)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch history for %s: %w", normalized, err)
	}
	return history, nil
}

// Search looks up symbols matching the query.
func (s *Service) Search(ctx context.Context, query string, limit int) ([]models.SearchResult, error) {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return nil, common.NewValidationError("query is required")
	}
	if limit <= 0 || limit > 25 {
		limit = 10
	}

	results, err := s.client.Search(ctx, trimmed, limit)
	if err != nil {
		return nil, fmt.Errorf("search failed for '%s': %w", trimmed, err)
	}
	return results, nil
}

// GetIndicators computes the technical indicator report for symbol from a
// year of daily candles.
func (s *Service) GetIndicators(ctx context.Context, symbol string) (*models.IndicatorReport, error) {
	normalized, err := NormalizeSymbol(symbol)
	if err != nil {
		return nil, err
	}

	history, err := s.client.GetHistory(ctx, normalized, indicatorPeriod, indicatorInterval)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch history for %s: %w", normalized, err)
	}
	if len(history.Candles) < minIndicatorBars {
		return nil, common.NewValidationError(
			fmt.Sprintf("insufficient history for %s: %d bars, need %d", normalized, len(history.Candles), minIndicatorBars))
	}

	closes := signals.Closes(history.Candles)
	lastClose := closes[len(closes)-1]

	sma20 := signals.SMA(closes, 20)
	sma50 := signals.SMA(closes, 50)
	sma200 := signals.SMA(closes, 200)
	rsi := signals.RSI(closes, 14)
	macd, macdSignal, macdHist := signals.MACD(closes, 12, 26, 9)
	support, resistance := signals.SupportResistance(history.Candles, 90)
	trend := signals.DetermineTrend(lastClose, sma20, sma50, sma200)

	report := &models.IndicatorReport{
		Symbol:           normalized,
		ComputeDate:      time.Now(),
		DataPoints:       len(closes),
		LastClose:        lastClose,
		SMA20:            sma20,
		SMA50:            sma50,
		SMA200:           sma200,
		EMA12:            signals.EMA(closes, 12),
		EMA26:            signals.EMA(closes, 26),
		RSI:              rsi,
		RSISignal:        signals.ClassifyRSI(rsi),
		MACD:             macd,
		MACDSignal:       macdSignal,
		MACDHistogram:    macdHist,
		Volatility:       signals.Volatility(closes),
		Support:          support,
		Resistance:       resistance,
		Trend:            trend,
		TrendDescription: signals.TrendDescription(trend),
	}

	s.logger.Debug().Str("symbol", normalized).Int("bars", report.DataPoints).Msg("Indicators computed")
	return report, nil
}

// GetMovers returns quotes for a fixed large-cap watch set. Symbols whose
// fetch fails are skipped rather than failing the whole response.
func (s *Service) GetMovers(ctx context.Context) ([]models.Quote, error) {
	quotes := make([]models.Quote, 0, len(moverSymbols))
	for _, symbol := range moverSymbols {
		quote, err := s.GetQuote(ctx, symbol)
		if err != nil {
			s.logger.Warn().Err(err).Str("symbol", symbol).Msg("Skipping mover quote")
			continue
		}
		quotes = append(quotes, *quote)
	}
	if len(quotes) == 0 {
		return nil, fmt.Errorf("no mover quotes available")
	}
	return quotes, nil
}

// Ensure Service implements MarketService
var _ interfaces.MarketService = (*Service)(nil)
