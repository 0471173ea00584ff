package server

import (
	"net/http"

	"github.com/bobmcallan/folio/internal/interfaces"
)

// handlePortfolio handles GET /api/portfolio.
func (s *Server) handlePortfolio(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	view, err := s.app.PortfolioService.GetPortfolio(r.Context())
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, view)
}

// handleHoldingCreate handles POST /api/portfolio/holdings.
func (s *Server) handleHoldingCreate(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req struct {
		Symbol        string  `json:"symbol"`
		Shares        float64 `json:"shares"`
		PurchasePrice float64 `json:"purchase_price"`
		PurchaseDate  string  `json:"purchase_date"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}

	view, err := s.app.PortfolioService.AddHolding(r.Context(), req.Symbol, req.Shares, req.PurchasePrice, req.PurchaseDate)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, view)
}

// handleHoldingByID handles PUT and DELETE /api/portfolio/holdings/{id}.
func (s *Server) handleHoldingByID(w http.ResponseWriter, r *http.Request) {
	id := PathParam(r, "/api/portfolio/holdings/", "")
	if id == "" {
		WriteError(w, http.StatusBadRequest, "holding id is required")
		return
	}

	switch r.Method {
	case http.MethodPut:
		var req struct {
			Shares        *float64 `json:"shares"`
			PurchasePrice *float64 `json:"purchase_price"`
		}
		if !DecodeJSON(w, r, &req) {
			return
		}
		view, err := s.app.PortfolioService.UpdateHolding(r.Context(), id, interfaces.HoldingUpdate{
			Shares:        req.Shares,
			PurchasePrice: req.PurchasePrice,
		})
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, view)

	case http.MethodDelete:
		view, err := s.app.PortfolioService.DeleteHolding(r.Context(), id)
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, view)

	default:
		RequireMethod(w, r, http.MethodPut, http.MethodDelete)
	}
}

// handlePortfolioSummary handles GET /api/portfolio/summary.
func (s *Server) handlePortfolioSummary(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	summary, err := s.app.PortfolioService.GetSummary(r.Context())
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, summary)
}

// handlePortfolioSectors handles GET /api/portfolio/sectors.
func (s *Server) handlePortfolioSectors(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	allocations, err := s.app.PortfolioService.GetSectorBreakdown(r.Context())
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, allocations)
}

// handlePortfolioChart handles GET /api/portfolio/chart — PNG bar chart of
// holding market values.
func (s *Server) handlePortfolioChart(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	png, err := s.app.PortfolioService.RenderChart(r.Context())
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

// handlePortfolioRefresh handles POST /api/portfolio/refresh.
func (s *Server) handlePortfolioRefresh(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	view, err := s.app.PortfolioService.RefreshPrices(r.Context())
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, view)
}
