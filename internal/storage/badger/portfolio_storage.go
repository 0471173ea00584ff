package badger

import (
	"context"
	"fmt"
	"time"

	"github.com/timshannon/badgerhold/v4"

	"github.com/bobmcallan/folio/internal/common"
	"github.com/bobmcallan/folio/internal/models"
)

type portfolioStorage struct {
	store  *Store
	logger *common.Logger
}

// NewPortfolioStorage creates a new PortfolioStore backed by BadgerHold.
func NewPortfolioStorage(store *Store, logger *common.Logger) *portfolioStorage {
	return &portfolioStorage{store: store, logger: logger}
}

// Get returns the user's portfolio, or nil when none has been saved yet.
func (s *portfolioStorage) Get(_ context.Context, userID string) (*models.Portfolio, error) {
	var portfolio models.Portfolio
	err := s.store.db.Get(userID, &portfolio)
	if err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get portfolio for '%s': %w", userID, err)
	}
	return &portfolio, nil
}

func (s *portfolioStorage) Save(_ context.Context, portfolio *models.Portfolio) error {
	portfolio.UpdatedAt = time.Now()
	if portfolio.CreatedAt.IsZero() {
		portfolio.CreatedAt = time.Now()
	}

	if err := s.store.db.Upsert(portfolio.UserID, portfolio); err != nil {
		return fmt.Errorf("failed to save portfolio: %w", err)
	}
	s.logger.Debug().Str("user", portfolio.UserID).Int("holdings", len(portfolio.Holdings)).Msg("Portfolio saved")
	return nil
}

func (s *portfolioStorage) Delete(_ context.Context, userID string) error {
	err := s.store.db.Delete(userID, models.Portfolio{})
	if err != nil && err != badgerhold.ErrNotFound {
		return fmt.Errorf("failed to delete portfolio for '%s': %w", userID, err)
	}
	s.logger.Debug().Str("user", userID).Msg("Portfolio deleted")
	return nil
}
