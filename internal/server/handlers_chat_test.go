package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bobmcallan/folio/internal/common"
	"github.com/bobmcallan/folio/internal/models"
)

func TestHandleChat(t *testing.T) {
	var gotMessage string
	svc := &mockChatService{
		chat: func(ctx context.Context, message string) (*models.ChatResponse, error) {
			gotMessage = message
			return &models.ChatResponse{
				Message:  "Your portfolio is worth $1500.00.",
				Fallback: true,
			}, nil
		},
	}
	s := newTestServer(testServices{chat: svc})

	req := httptest.NewRequest(http.MethodPost, "/api/ai/chat",
		strings.NewReader(`{"message":"what is my portfolio worth?"}`))
	rec := httptest.NewRecorder()
	s.handleChat(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	if gotMessage != "what is my portfolio worth?" {
		t.Errorf("service called with %q", gotMessage)
	}

	var resp models.ChatResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Message != "Your portfolio is worth $1500.00." {
		t.Errorf("message = %q", resp.Message)
	}
	if !resp.Fallback {
		t.Error("fallback flag lost in transit")
	}
}

func TestHandleChat_EmptyMessage(t *testing.T) {
	svc := &mockChatService{
		chat: func(ctx context.Context, message string) (*models.ChatResponse, error) {
			return nil, common.NewValidationError("message is required")
		},
	}
	s := newTestServer(testServices{chat: svc})

	req := httptest.NewRequest(http.MethodPost, "/api/ai/chat", strings.NewReader(`{"message":""}`))
	rec := httptest.NewRecorder()
	s.handleChat(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestHandleChatHistory(t *testing.T) {
	svc := &mockChatService{
		history: func(ctx context.Context) ([]models.ChatMessage, error) {
			return []models.ChatMessage{
				{Role: models.ChatRoleUser, Content: "hi"},
				{Role: models.ChatRoleAssistant, Content: "hello"},
			}, nil
		},
	}
	s := newTestServer(testServices{chat: svc})

	req := httptest.NewRequest(http.MethodGet, "/api/ai/history", nil)
	rec := httptest.NewRecorder()
	s.handleChatHistory(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var messages []models.ChatMessage
	if err := json.NewDecoder(rec.Body).Decode(&messages); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(messages) != 2 {
		t.Errorf("got %d messages, want 2", len(messages))
	}
}

func TestHandleChatHistory_Clear(t *testing.T) {
	cleared := false
	svc := &mockChatService{
		clear: func(ctx context.Context) error {
			cleared = true
			return nil
		},
	}
	s := newTestServer(testServices{chat: svc})

	req := httptest.NewRequest(http.MethodDelete, "/api/ai/history", nil)
	rec := httptest.NewRecorder()
	s.handleChatHistory(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !cleared {
		t.Error("ClearHistory was not called")
	}
	var resp map[string]string
	json.NewDecoder(rec.Body).Decode(&resp)
	if resp["status"] != "cleared" {
		t.Errorf("status = %q, want cleared", resp["status"])
	}
}

func TestHandleChatHistory_MethodNotAllowed(t *testing.T) {
	s := newTestServer(testServices{})

	req := httptest.NewRequest(http.MethodPost, "/api/ai/history", nil)
	rec := httptest.NewRecorder()
	s.handleChatHistory(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rec.Code)
	}
}
