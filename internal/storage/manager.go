// Package storage provides the top-level StorageManager that coordinates
// the persistent stores backing portfolios, users, chat history, and
// system settings.
package storage

import (
	"fmt"

	"github.com/bobmcallan/folio/internal/common"
	"github.com/bobmcallan/folio/internal/interfaces"
	"github.com/bobmcallan/folio/internal/storage/badger"
)

// Manager implements interfaces.StorageManager on a single BadgerHold store.
type Manager struct {
	store  *badger.Store
	logger *common.Logger

	portfolios interfaces.PortfolioStore
	users      interfaces.UserStore
	chats      interfaces.ChatStore
	kv         interfaces.KVStore
}

// NewManager opens the store at the configured data path and wires the
// storage areas.
func NewManager(logger *common.Logger, config *common.Config) (*Manager, error) {
	store, err := badger.NewStore(logger, config.Storage.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to create store: %w", err)
	}

	logger.Info().Str("path", config.Storage.Path).Msg("Storage manager initialized")

	return &Manager{
		store:      store,
		logger:     logger,
		portfolios: badger.NewPortfolioStorage(store, logger),
		users:      badger.NewUserStorage(store, logger),
		chats:      badger.NewChatStorage(store, logger),
		kv:         badger.NewKVStorage(store, logger),
	}, nil
}

func (m *Manager) PortfolioStore() interfaces.PortfolioStore {
	return m.portfolios
}

func (m *Manager) UserStore() interfaces.UserStore {
	return m.users
}

func (m *Manager) ChatStore() interfaces.ChatStore {
	return m.chats
}

func (m *Manager) KVStore() interfaces.KVStore {
	return m.kv
}

func (m *Manager) Close() error {
	return m.store.Close()
}

// Compile-time check
var _ interfaces.StorageManager = (*Manager)(nil)
