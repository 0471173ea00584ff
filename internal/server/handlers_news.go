package server

import (
	"net/http"
	"strconv"
)

// handleNews handles GET /api/news?symbol=&limit=.
func (s *Server) handleNews(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	symbol := r.URL.Query().Get("symbol")
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	articles, err := s.app.NewsService.GetNews(r.Context(), symbol, limit)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, articles)
}

// handleNewsSentiment handles GET /api/news/sentiment/{symbol}.
func (s *Server) handleNewsSentiment(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	symbol := PathParam(r, "/api/news/sentiment/", "")
	summary, err := s.app.NewsService.GetSentiment(r.Context(), symbol)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, summary)
}
