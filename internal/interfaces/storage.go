package interfaces

import (
	"context"

	"github.com/bobmcallan/folio/internal/models"
)

// StorageManager coordinates all storage areas.
type StorageManager interface {
	PortfolioStore() PortfolioStore
	UserStore() UserStore
	ChatStore() ChatStore
	KVStore() KVStore

	Close() error
}

// PortfolioStore persists one portfolio per user.
type PortfolioStore interface {
	Get(ctx context.Context, userID string) (*models.Portfolio, error)
	Save(ctx context.Context, portfolio *models.Portfolio) error
	Delete(ctx context.Context, userID string) error
}

// UserStore manages registered accounts.
type UserStore interface {
	Get(ctx context.Context, userID string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Save(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, userID string) error
	List(ctx context.Context) ([]string, error)
}

// ChatStore persists per-user chat history.
type ChatStore interface {
	Get(ctx context.Context, userID string) (*models.ChatHistory, error)
	Save(ctx context.Context, history *models.ChatHistory) error
	Delete(ctx context.Context, userID string) error
}

// KVStore holds system-level key-value settings.
type KVStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}
