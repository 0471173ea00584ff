package server

import "net/http"

// registerRoutes sets up all REST API routes on the mux.
func (s *Server) registerRoutes(mux *http.ServeMux) {
	// System
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/version", s.handleVersion)
	mux.HandleFunc("/api/config", s.handleConfig)

	// Auth
	mux.HandleFunc("/api/auth/register", s.handleAuthRegister)
	mux.HandleFunc("/api/auth/login", s.handleAuthLogin)
	mux.HandleFunc("/api/auth/validate", s.handleAuthValidate)

	// Portfolio
	mux.HandleFunc("/api/portfolio", s.handlePortfolio)
	mux.HandleFunc("/api/portfolio/holdings", s.handleHoldingCreate)
	mux.HandleFunc("/api/portfolio/holdings/", s.handleHoldingByID)
	mux.HandleFunc("/api/portfolio/summary", s.handlePortfolioSummary)
	mux.HandleFunc("/api/portfolio/sectors", s.handlePortfolioSectors)
	mux.HandleFunc("/api/portfolio/chart", s.handlePortfolioChart)
	mux.HandleFunc("/api/portfolio/refresh", s.handlePortfolioRefresh)

	// Market data
	mux.HandleFunc("/api/stocks/quote/", s.handleStockQuote)
	mux.HandleFunc("/api/stocks/history/", s.handleStockHistory)
	mux.HandleFunc("/api/stocks/search", s.handleStockSearch)
	mux.HandleFunc("/api/stocks/indicators/", s.handleStockIndicators)
	mux.HandleFunc("/api/market/movers", s.handleMarketMovers)

	// Statement upload
	mux.HandleFunc("/api/upload/statement", s.handleUploadStatement)
	mux.HandleFunc("/api/upload/extract-preview", s.handleUploadPreview)

	// AI assistant
	mux.HandleFunc("/api/ai/chat", s.handleChat)
	mux.HandleFunc("/api/ai/history", s.handleChatHistory)

	// News
	mux.HandleFunc("/api/news", s.handleNews)
	mux.HandleFunc("/api/news/sentiment/", s.handleNewsSentiment)
}
