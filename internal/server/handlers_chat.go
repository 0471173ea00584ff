package server

import "net/http"

// handleChat handles POST /api/ai/chat.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req struct {
		Message string `json:"message"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}

	resp, err := s.app.ChatService.Chat(r.Context(), req.Message)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, resp)
}

// handleChatHistory handles GET and DELETE /api/ai/history.
func (s *Server) handleChatHistory(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		messages, err := s.app.ChatService.History(r.Context())
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, messages)

	case http.MethodDelete:
		if err := s.app.ChatService.ClearHistory(r.Context()); err != nil {
			WriteServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, map[string]string{"status": "cleared"})

	default:
		RequireMethod(w, r, http.MethodGet, http.MethodDelete)
	}
}
