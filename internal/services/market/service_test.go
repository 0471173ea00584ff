package market

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/bobmcallan/folio/internal/common"
	"github.com/bobmcallan/folio/internal/models"
)

// --- Mocks ---

type mockMarketClient struct {
	quote   *models.Quote
	history *models.History
	results []models.SearchResult
	err     error

	quoteCalls   int
	historyCalls int
	searchCalls  int

	quoteFn func(symbol string) (*models.Quote, error)
}

func (m *mockMarketClient) GetQuote(_ context.Context, symbol string) (*models.Quote, error) {
	m.quoteCalls++
	if m.quoteFn != nil {
		return m.quoteFn(symbol)
	}
	return m.quote, m.err
}

func (m *mockMarketClient) GetHistory(_ context.Context, _, _, _ string) (*models.History, error) {
	m.historyCalls++
	return m.history, m.err
}

func (m *mockMarketClient) Search(_ context.Context, _ string, _ int) ([]models.SearchResult, error) {
	m.searchCalls++
	return m.results, m.err
}

func newTestService(client *mockMarketClient, opts ...ServiceOption) *Service {
	return NewService(client, common.NewSilentLogger(), opts...)
}

// dailyCandles builds n daily candles walking close from start by step.
func dailyCandles(n int, start, step float64) []models.Candle {
	candles := make([]models.Candle, n)
	base := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)
	for i := range candles {
		close := start + step*float64(i)
		candles[i] = models.Candle{
			Date:   base.AddDate(0, 0, i),
			Open:   close - 0.5,
			High:   close + 1,
			Low:    close - 1,
			Close:  close,
			Volume: 1_000_000,
		}
	}
	return candles
}

// --- Symbol validation ---

func TestNormalizeSymbol(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"AAPL", "AAPL", false},
		{"aapl", "AAPL", false},
		{" msft ", "MSFT", false},
		{"BRK.B", "BRK.B", false},
		{"BRK-B", "BRK-B", false},
		{"^GSPC", "^GSPC", false},
		{"ES=F", "ES=F", false},
		{"", "", true},
		{"   ", "", true},
		{"AAPL GOOG", "", true},
		{"TOOLONGSYMBOLXYZ", "", true},
		{"AAPL;DROP", "", true},
	}

	for _, tt := range tests {
		got, err := NormalizeSymbol(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("NormalizeSymbol(%q): expected error", tt.in)
			} else if !common.IsValidationError(err) {
				t.Errorf("NormalizeSymbol(%q): expected ValidationError, got %T", tt.in, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("NormalizeSymbol(%q): unexpected error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("NormalizeSymbol(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestGetQuote_InvalidSymbolSkipsNetwork(t *testing.T) {
	client := &mockMarketClient{}
	svc := newTestService(client)

	_, err := svc.GetQuote(context.Background(), "NOT A SYMBOL")
	if err == nil {
		t.Fatal("expected error for invalid symbol")
	}
	if !common.IsValidationError(err) {
		t.Fatalf("expected ValidationError, got %T: %v", err, err)
	}
	if client.quoteCalls != 0 {
		t.Errorf("expected no upstream calls, got %d", client.quoteCalls)
	}
}

// --- Quote cache ---

func TestGetQuote_CachesWithinTTL(t *testing.T) {
	client := &mockMarketClient{
		quote: &models.Quote{Symbol: "AAPL", Price: 150},
	}
	svc := newTestService(client)

	for i := 0; i < 3; i++ {
		quote, err := svc.GetQuote(context.Background(), "aapl")
		if err != nil {
			t.Fatalf("GetQuote failed: %v", err)
		}
		if quote.Price != 150 {
			t.Errorf("unexpected price: %f", quote.Price)
		}
	}

	if client.quoteCalls != 1 {
		t.Errorf("expected 1 upstream call, got %d", client.quoteCalls)
	}
}

func TestGetQuote_RefetchesAfterTTL(t *testing.T) {
	client := &mockMarketClient{
		quote: &models.Quote{Symbol: "AAPL", Price: 150},
	}
	svc := newTestService(client, WithQuoteTTL(time.Nanosecond))

	svc.GetQuote(context.Background(), "AAPL")
	time.Sleep(time.Millisecond)
	svc.GetQuote(context.Background(), "AAPL")

	if client.quoteCalls != 2 {
		t.Errorf("expected 2 upstream calls, got %d", client.quoteCalls)
	}
}

func TestGetQuote_ServesStaleOnUpstreamFailure(t *testing.T) {
	calls := 0
	client := &mockMarketClient{
		quoteFn: func(string) (*models.Quote, error) {
			calls++
			if calls == 1 {
				return &models.Quote{Symbol: "AAPL", Price: 150}, nil
			}
			return nil, errors.New("upstream down")
		},
	}
	svc := newTestService(client, WithQuoteTTL(time.Nanosecond))

	if _, err := svc.GetQuote(context.Background(), "AAPL"); err != nil {
		t.Fatalf("first GetQuote failed: %v", err)
	}
	time.Sleep(time.Millisecond)

	quote, err := svc.GetQuote(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("expected stale quote, got error: %v", err)
	}
	if quote.Price != 150 {
		t.Errorf("unexpected stale price: %f", quote.Price)
	}
}

// --- History ---

func TestGetHistory_Validation(t *testing.T) {
	client := &mockMarketClient{
		history: &models.History{Symbol: "AAPL", Candles: dailyCandles(5, 100, 1)},
	}
	svc := newTestService(client)

	// Defaults applied
	if _, err := svc.GetHistory(context.Background(), "AAPL", "", ""); err != nil {
		t.Fatalf("GetHistory with defaults failed: %v", err)
	}

	if _, err := svc.GetHistory(context.Background(), "AAPL", "7y", "1d"); err == nil {
		t.Fatal("expected error for invalid period")
	} else if !common.IsValidationError(err) {
		t.Errorf("expected ValidationError, got %T", err)
	}

	if _, err := svc.GetHistory(context.Background(), "AAPL", "1mo", "2h"); err == nil {
		t.Fatal("expected error for invalid interval")
	} else if !common.IsValidationError(err) {
		t.Errorf("expected ValidationError, got %T", err)
	}

	if client.historyCalls != 1 {
		t.Errorf("expected 1 upstream call, got %d", client.historyCalls)
	}
}

// --- Search ---

func TestSearch_EmptyQuery(t *testing.T) {
	client := &mockMarketClient{}
	svc := newTestService(client)

	_, err := svc.Search(context.Background(), "  ", 10)
	if err == nil {
		t.Fatal("expected error for empty query")
	}
	if client.searchCalls != 0 {
		t.Errorf("expected no upstream calls, got %d", client.searchCalls)
	}
}

// --- Indicators ---

func TestGetIndicators_RisingSeries(t *testing.T) {
	client := &mockMarketClient{
		history: &models.History{Symbol: "AAPL", Candles: dailyCandles(250, 100, 0.5)},
	}
	svc := newTestService(client)

	report, err := svc.GetIndicators(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("GetIndicators failed: %v", err)
	}

	if report.DataPoints != 250 {
		t.Errorf("expected 250 data points, got %d", report.DataPoints)
	}
	wantClose := 100 + 0.5*249
	if math.Abs(report.LastClose-wantClose) > 1e-9 {
		t.Errorf("expected last close %f, got %f", wantClose, report.LastClose)
	}
	// Monotonically rising: zero losses over any RSI window
	if report.RSI != 100 {
		t.Errorf("expected RSI 100 on rising series, got %f", report.RSI)
	}
	if report.RSISignal != "overbought" {
		t.Errorf("expected overbought, got %s", report.RSISignal)
	}
	if report.Trend != models.TrendBullish {
		t.Errorf("expected bullish trend, got %s", report.Trend)
	}
	if report.SMA20 <= report.SMA50 || report.SMA50 <= report.SMA200 {
		t.Errorf("expected SMA20 > SMA50 > SMA200 on rising series: %f %f %f",
			report.SMA20, report.SMA50, report.SMA200)
	}
	if report.Support <= 0 || report.Resistance <= report.Support {
		t.Errorf("unexpected support/resistance: %f / %f", report.Support, report.Resistance)
	}
}

func TestGetIndicators_FlatSeries(t *testing.T) {
	client := &mockMarketClient{
		history: &models.History{Symbol: "KO", Candles: dailyCandles(250, 60, 0)},
	}
	svc := newTestService(client)

	report, err := svc.GetIndicators(context.Background(), "KO")
	if err != nil {
		t.Fatalf("GetIndicators failed: %v", err)
	}
	if report.RSI != 50 {
		t.Errorf("expected neutral RSI 50 on flat series, got %f", report.RSI)
	}
	if report.Volatility != 0 {
		t.Errorf("expected zero volatility on flat series, got %f", report.Volatility)
	}
	if report.Trend != models.TrendNeutral {
		t.Errorf("expected neutral trend, got %s", report.Trend)
	}
}

func TestGetIndicators_InsufficientData(t *testing.T) {
	client := &mockMarketClient{
		history: &models.History{Symbol: "NEWIPO", Candles: dailyCandles(5, 20, 1)},
	}
	svc := newTestService(client)

	_, err := svc.GetIndicators(context.Background(), "NEWIPO")
	if err == nil {
		t.Fatal("expected error for insufficient history")
	}
	if !common.IsValidationError(err) {
		t.Errorf("expected ValidationError, got %T", err)
	}
}

// --- Movers ---

func TestGetMovers_SkipsFailedSymbols(t *testing.T) {
	client := &mockMarketClient{
		quoteFn: func(symbol string) (*models.Quote, error) {
			if symbol == "NVDA" || symbol == "TSLA" {
				return nil, fmt.Errorf("fetch failed for %s", symbol)
			}
			return &models.Quote{Symbol: symbol, Price: 100}, nil
		},
	}
	svc := newTestService(client)

	quotes, err := svc.GetMovers(context.Background())
	if err != nil {
		t.Fatalf("GetMovers failed: %v", err)
	}
	if len(quotes) != len(moverSymbols)-2 {
		t.Errorf("expected %d quotes, got %d", len(moverSymbols)-2, len(quotes))
	}
	for _, q := range quotes {
		if q.Symbol == "NVDA" || q.Symbol == "TSLA" {
			t.Errorf("failed symbol %s should have been skipped", q.Symbol)
		}
	}
}

func TestGetMovers_AllFail(t *testing.T) {
	client := &mockMarketClient{
		quoteFn: func(string) (*models.Quote, error) {
			return nil, errors.New("upstream down")
		},
	}
	svc := newTestService(client)

	if _, err := svc.GetMovers(context.Background()); err == nil {
		t.Fatal("expected error when every symbol fails")
	}
}
