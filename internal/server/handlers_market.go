package server

import (
	"net/http"
	"strconv"
)

// handleStockQuote handles GET /api/stocks/quote/{symbol}.
func (s *Server) handleStockQuote(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	symbol := PathParam(r, "/api/stocks/quote/", "")
	quote, err := s.app.MarketService.GetQuote(r.Context(), symbol)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, quote)
}

// handleStockHistory handles GET /api/stocks/history/{symbol}?period=&interval=.
func (s *Server) handleStockHistory(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	symbol := PathParam(r, "/api/stocks/history/", "")
	period := r.URL.Query().Get("period")
	interval := r.URL.Query().Get("interval")

	history, err := s.app.MarketService.GetHistory(r.Context(), symbol, period, interval)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, history)
}

// handleStockSearch handles GET /api/stocks/search?q=&limit=.
func (s *Server) handleStockSearch(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	query := r.URL.Query().Get("q")
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	results, err := s.app.MarketService.Search(r.Context(), query, limit)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, results)
}

// handleStockIndicators handles GET /api/stocks/indicators/{symbol}.
func (s *Server) handleStockIndicators(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	symbol := PathParam(r, "/api/stocks/indicators/", "")
	report, err := s.app.MarketService.GetIndicators(r.Context(), symbol)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, report)
}

// handleMarketMovers handles GET /api/market/movers.
func (s *Server) handleMarketMovers(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	quotes, err := s.app.MarketService.GetMovers(r.Context())
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, quotes)
}
