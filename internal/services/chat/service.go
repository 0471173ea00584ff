// Package chat runs the AI portfolio assistant conversation
package chat

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bobmcallan/folio/internal/common"
	"github.com/bobmcallan/folio/internal/interfaces"
	"github.com/bobmcallan/folio/internal/models"
)

// contextWindow is how many recent messages are sent upstream per turn.
const contextWindow = 20

// Service implements ChatService
type Service struct {
	storage   interfaces.StorageManager
	ai        interfaces.AIClient // nil when no API key is configured
	portfolio interfaces.PortfolioService
	logger    *common.Logger
}

// NewService creates a new chat service. ai may be nil; every reply then
// comes from the deterministic fallbacks.
func NewService(storage interfaces.StorageManager, ai interfaces.AIClient, portfolioSvc interfaces.PortfolioService, logger *common.Logger) *Service {
	return &Service{
		storage:   storage,
		ai:        ai,
		portfolio: portfolioSvc,
		logger:    logger,
	}
}

// Chat appends the user message to the conversation, produces a reply, and
// persists both. Upstream failures degrade to a deterministic fallback
// reply instead of an error.
func (s *Service) Chat(ctx context.Context, message string) (*models.ChatResponse, error) {
	trimmed := strings.TrimSpace(message)
	if trimmed == "" {
		return nil, common.NewValidationError("message is required")
	}

	userID := common.ResolveUserID(ctx)
	history, err := s.storage.ChatStore().Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if history == nil {
		history = &models.ChatHistory{UserID: userID}
	}

	history.Messages = append(history.Messages, models.ChatMessage{
		ID:        uuid.NewString(),
		Role:      models.ChatRoleUser,
		Content:   trimmed,
		CreatedAt: time.Now(),
	})

	view, err := s.portfolio.GetPortfolio(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Portfolio unavailable for chat context")
		view = nil
	}

	reply, usedFallback := s.reply(ctx, trimmed, view, history.Messages)

	history.Messages = append(history.Messages, models.ChatMessage{
		ID:        uuid.NewString(),
		Role:      models.ChatRoleAssistant,
		Content:   reply,
		CreatedAt: time.Now(),
	})

	if err := s.storage.ChatStore().Save(ctx, history); err != nil {
		return nil, fmt.Errorf("failed to save chat history: %w", err)
	}

	return &models.ChatResponse{Message: reply, Fallback: usedFallback}, nil
}

// reply tries the AI client first and degrades to the keyword fallback.
func (s *Service) reply(ctx context.Context, message string, view *models.PortfolioView, messages []models.ChatMessage) (string, bool) {
	if s.ai == nil {
		return fallbackReply(message, view), true
	}

	recent := messages
	if len(recent) > contextWindow {
		recent = recent[len(recent)-contextWindow:]
	}

	reply, err := s.ai.Complete(ctx, buildSystemPrompt(view), recent)
	if err != nil || strings.TrimSpace(reply) == "" {
		s.logger.Warn().Err(err).Msg("AI completion failed, using fallback reply")
		return fallbackReply(message, view), true
	}
	return reply, false
}

// History returns the user's conversation, oldest first.
func (s *Service) History(ctx context.Context) ([]models.ChatMessage, error) {
	userID := common.ResolveUserID(ctx)
	history, err := s.storage.ChatStore().Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if history == nil {
		return []models.ChatMessage{}, nil
	}
	return history.Messages, nil
}

// ClearHistory deletes the user's conversation.
func (s *Service) ClearHistory(ctx context.Context) error {
	userID := common.ResolveUserID(ctx)
	return s.storage.ChatStore().Delete(ctx, userID)
}

// Ensure Service implements ChatService
var _ interfaces.ChatService = (*Service)(nil)
