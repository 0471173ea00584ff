package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bobmcallan/folio/internal/common"
	"github.com/bobmcallan/folio/internal/models"
)

func TestHandleStockQuote(t *testing.T) {
	svc := &mockMarketService{
		getQuote: func(ctx context.Context, symbol string) (*models.Quote, error) {
			return &models.Quote{Symbol: symbol, Price: 150.25}, nil
		},
	}
	s := newTestServer(testServices{market: svc})

	req := httptest.NewRequest(http.MethodGet, "/api/stocks/quote/AAPL", nil)
	rec := httptest.NewRecorder()
	s.handleStockQuote(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var quote models.Quote
	if err := json.NewDecoder(rec.Body).Decode(&quote); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if quote.Symbol != "AAPL" || quote.Price != 150.25 {
		t.Errorf("unexpected quote: %+v", quote)
	}
}

func TestHandleStockQuote_InvalidSymbol(t *testing.T) {
	svc := &mockMarketService{
		getQuote: func(ctx context.Context, symbol string) (*models.Quote, error) {
			return nil, common.NewValidationError("invalid symbol")
		},
	}
	s := newTestServer(testServices{market: svc})

	req := httptest.NewRequest(http.MethodGet, "/api/stocks/quote/NOT%20A%20SYMBOL", nil)
	rec := httptest.NewRecorder()
	s.handleStockQuote(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestHandleStockHistory_PassesPeriodAndInterval(t *testing.T) {
	var gotSymbol, gotPeriod, gotInterval string
	svc := &mockMarketService{
		getHistory: func(ctx context.Context, symbol, period, interval string) (*models.History, error) {
			gotSymbol, gotPeriod, gotInterval = symbol, period, interval
			return &models.History{Symbol: symbol, Period: period, Interval: interval}, nil
		},
	}
	s := newTestServer(testServices{market: svc})

	req := httptest.NewRequest(http.MethodGet, "/api/stocks/history/MSFT?period=6mo&interval=1wk", nil)
	rec := httptest.NewRecorder()
	s.handleStockHistory(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if gotSymbol != "MSFT" || gotPeriod != "6mo" || gotInterval != "1wk" {
		t.Errorf("service called with %q %q %q", gotSymbol, gotPeriod, gotInterval)
	}
}

func TestHandleStockSearch(t *testing.T) {
	var gotQuery string
	var gotLimit int
	svc := &mockMarketService{
		search: func(ctx context.Context, query string, limit int) ([]models.SearchResult, error) {
			gotQuery, gotLimit = query, limit
			return []models.SearchResult{{Symbol: "AAPL", Name: "Apple Inc."}}, nil
		},
	}
	s := newTestServer(testServices{market: svc})

	req := httptest.NewRequest(http.MethodGet, "/api/stocks/search?q=apple&limit=5", nil)
	rec := httptest.NewRecorder()
	s.handleStockSearch(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if gotQuery != "apple" || gotLimit != 5 {
		t.Errorf("service called with %q %d", gotQuery, gotLimit)
	}

	var results []models.SearchResult
	if err := json.NewDecoder(rec.Body).Decode(&results); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(results) != 1 || results[0].Symbol != "AAPL" {
		t.Errorf("unexpected results: %+v", results)
	}
}

func TestHandleStockIndicators(t *testing.T) {
	svc := &mockMarketService{
		getIndicators: func(ctx context.Context, symbol string) (*models.IndicatorReport, error) {
			return &models.IndicatorReport{Symbol: symbol, Trend: models.TrendBullish}, nil
		},
	}
	s := newTestServer(testServices{market: svc})

	req := httptest.NewRequest(http.MethodGet, "/api/stocks/indicators/NVDA", nil)
	rec := httptest.NewRecorder()
	s.handleStockIndicators(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var report models.IndicatorReport
	if err := json.NewDecoder(rec.Body).Decode(&report); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if report.Symbol != "NVDA" || report.Trend != models.TrendBullish {
		t.Errorf("unexpected report: %+v", report)
	}
}

func TestHandleMarketMovers(t *testing.T) {
	svc := &mockMarketService{
		getMovers: func(ctx context.Context) ([]models.Quote, error) {
			return []models.Quote{{Symbol: "AAPL"}, {Symbol: "TSLA"}}, nil
		},
	}
	s := newTestServer(testServices{market: svc})

	req := httptest.NewRequest(http.MethodGet, "/api/market/movers", nil)
	rec := httptest.NewRecorder()
	s.handleMarketMovers(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var quotes []models.Quote
	if err := json.NewDecoder(rec.Body).Decode(&quotes); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(quotes) != 2 {
		t.Errorf("got %d quotes, want 2", len(quotes))
	}
}
