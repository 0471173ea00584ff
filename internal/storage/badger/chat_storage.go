package badger

import (
	"context"
	"fmt"
	"time"

	"github.com/timshannon/badgerhold/v4"

	"github.com/bobmcallan/folio/internal/common"
	"github.com/bobmcallan/folio/internal/models"
)

type chatStorage struct {
	store  *Store
	logger *common.Logger
}

// NewChatStorage creates a new ChatStore backed by BadgerHold.
func NewChatStorage(store *Store, logger *common.Logger) *chatStorage {
	return &chatStorage{store: store, logger: logger}
}

// Get returns the user's chat history, or nil when none has been saved yet.
func (s *chatStorage) Get(_ context.Context, userID string) (*models.ChatHistory, error) {
	var history models.ChatHistory
	err := s.store.db.Get(userID, &history)
	if err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get chat history for '%s': %w", userID, err)
	}
	return &history, nil
}

// Save persists chat history, trimming to the most recent messages first.
func (s *chatStorage) Save(_ context.Context, history *models.ChatHistory) error {
	if len(history.Messages) > models.MaxChatHistory {
		history.Messages = history.Messages[len(history.Messages)-models.MaxChatHistory:]
	}
	history.UpdatedAt = time.Now()

	if err := s.store.db.Upsert(history.UserID, history); err != nil {
		return fmt.Errorf("failed to save chat history: %w", err)
	}
	s.logger.Debug().Str("user", history.UserID).Int("messages", len(history.Messages)).Msg("Chat history saved")
	return nil
}

func (s *chatStorage) Delete(_ context.Context, userID string) error {
	err := s.store.db.Delete(userID, models.ChatHistory{})
	if err != nil && err != badgerhold.ErrNotFound {
		return fmt.Errorf("failed to delete chat history for '%s': %w", userID, err)
	}
	s.logger.Debug().Str("user", userID).Msg("Chat history deleted")
	return nil
}
