// Package portfolio provides portfolio management and valuation services
package portfolio

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/bobmcallan/folio/internal/common"
	"github.com/bobmcallan/folio/internal/interfaces"
	"github.com/bobmcallan/folio/internal/models"
	"github.com/bobmcallan/folio/internal/services/market"
)

const purchaseDateLayout = "2006-01-02"

// Service implements PortfolioService
type Service struct {
	storage interfaces.StorageManager
	market  interfaces.MarketService
	logger  *common.Logger
}

// NewService creates a new portfolio service
func NewService(storage interfaces.StorageManager, marketSvc interfaces.MarketService, logger *common.Logger) *Service {
	return &Service{
		storage: storage,
		market:  marketSvc,
		logger:  logger,
	}
}

// getOrCreate loads the user's portfolio, creating an empty one when the
// user has never saved holdings.
func (s *Service) getOrCreate(ctx context.Context) (*models.Portfolio, error) {
	userID := common.ResolveUserID(ctx)
	portfolio, err := s.storage.PortfolioStore().Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if portfolio == nil {
		portfolio = &models.Portfolio{UserID: userID, Holdings: []models.Holding{}}
	}
	return portfolio, nil
}

// revalue recomputes per-holding valuation fields and the summary from the
// stored share counts and prices.
func revalue(portfolio *models.Portfolio) *models.PortfolioSummary {
	var totalValue, totalCost float64

	for i := range portfolio.Holdings {
		h := &portfolio.Holdings[i]
		price := h.CurrentPrice
		if price == 0 {
			price = h.PurchasePrice
		}
		h.MarketValue = h.Shares * price
		h.CostBasis = h.Shares * h.PurchasePrice
		h.GainLoss = h.MarketValue - h.CostBasis
		if h.CostBasis > 0 {
			h.GainLossPct = h.GainLoss / h.CostBasis * 100
		} else {
			h.GainLossPct = 0
		}
		totalValue += h.MarketValue
		totalCost += h.CostBasis
	}

	for i := range portfolio.Holdings {
		h := &portfolio.Holdings[i]
		if totalValue > 0 {
			h.WeightPct = h.MarketValue / totalValue * 100
		} else {
			h.WeightPct = 0
		}
	}

	summary := &models.PortfolioSummary{
		TotalValue:    totalValue,
		TotalCost:     totalCost,
		TotalGainLoss: totalValue - totalCost,
		HoldingCount:  len(portfolio.Holdings),
		ComputedAt:    time.Now(),
	}
	if totalCost > 0 {
		summary.TotalGainLossPct = summary.TotalGainLoss / totalCost * 100
	}
	return summary
}

func (s *Service) view(portfolio *models.Portfolio) *models.PortfolioView {
	summary := revalue(portfolio)
	return &models.PortfolioView{
		UserID:   portfolio.UserID,
		Holdings: portfolio.Holdings,
		Summary:  *summary,
	}
}

// GetPortfolio returns the user's holdings with valuation computed from the
// last stored prices. No upstream calls are made; use RefreshPrices for
// live enrichment.
func (s *Service) GetPortfolio(ctx context.Context) (*models.PortfolioView, error) {
	portfolio, err := s.getOrCreate(ctx)
	if err != nil {
		return nil, err
	}
	return s.view(portfolio), nil
}

// AddHolding adds a position. Adding a symbol already held merges the lots:
// shares are summed and the purchase price becomes the weighted average cost.
func (s *Service) AddHolding(ctx context.Context, symbol string, shares, purchasePrice float64, purchaseDate string) (*models.PortfolioView, error) {
	normalized, err := market.NormalizeSymbol(symbol)
	if err != nil {
		return nil, err
	}
	if shares <= 0 {
		return nil, common.NewValidationError("shares must be positive")
	}
	if purchasePrice <= 0 {
		return nil, common.NewValidationError("purchase price must be positive")
	}

	date := time.Now().Format(purchaseDateLayout)
	if purchaseDate != "" {
		parsed, err := time.Parse(purchaseDateLayout, purchaseDate)
		if err != nil {
			return nil, common.NewValidationError("purchase date must be YYYY-MM-DD")
		}
		date = parsed.Format(purchaseDateLayout)
	}

	portfolio, err := s.getOrCreate(ctx)
	if err != nil {
		return nil, err
	}

	if idx := portfolio.FindHoldingBySymbol(normalized); idx >= 0 {
		existing := &portfolio.Holdings[idx]
		totalShares := existing.Shares + shares
		existing.PurchasePrice = (existing.Shares*existing.PurchasePrice + shares*purchasePrice) / totalShares
		existing.Shares = totalShares
		existing.LastUpdated = time.Now()
	} else {
		portfolio.Holdings = append(portfolio.Holdings, models.Holding{
			ID:            uuid.NewString(),
			Symbol:        normalized,
			Shares:        shares,
			PurchasePrice: purchasePrice,
			PurchaseDate:  date,
			Sector:        lookupSector(normalized),
			LastUpdated:   time.Now(),
		})
	}

	// Best-effort enrichment; a quote failure never blocks the add.
	s.enrichHolding(ctx, portfolio, normalized)

	if err := s.storage.PortfolioStore().Save(ctx, portfolio); err != nil {
		return nil, fmt.Errorf("failed to save portfolio: %w", err)
	}

	s.logger.Info().Str("symbol", normalized).Float64("shares", shares).Msg("Holding added")
	return s.view(portfolio), nil
}

// enrichHolding fills the live quote fields for the holding with the given
// symbol, if a quote can be fetched.
func (s *Service) enrichHolding(ctx context.Context, portfolio *models.Portfolio, symbol string) {
	idx := portfolio.FindHoldingBySymbol(symbol)
	if idx < 0 {
		return
	}
	quote, err := s.market.GetQuote(ctx, symbol)
	if err != nil {
		s.logger.Warn().Err(err).Str("symbol", symbol).Msg("Quote enrichment failed")
		return
	}
	h := &portfolio.Holdings[idx]
	h.CurrentPrice = quote.Price
	if quote.Name != "" {
		h.Name = quote.Name
	}
	h.LastUpdated = time.Now()
}

// UpdateHolding applies a partial update to an existing holding.
func (s *Service) UpdateHolding(ctx context.Context, id string, update interfaces.HoldingUpdate) (*models.PortfolioView, error) {
	if update.Shares == nil && update.PurchasePrice == nil {
		return nil, common.NewValidationError("nothing to update")
	}
	if update.Shares != nil && *update.Shares <= 0 {
		return nil, common.NewValidationError("shares must be positive")
	}
	if update.PurchasePrice != nil && *update.PurchasePrice <= 0 {
		return nil, common.NewValidationError("purchase price must be positive")
	}

	portfolio, err := s.getOrCreate(ctx)
	if err != nil {
		return nil, err
	}

	idx := portfolio.FindHolding(id)
	if idx < 0 {
		return nil, common.NewNotFoundError(fmt.Sprintf("holding '%s' not found", id))
	}

	h := &portfolio.Holdings[idx]
	if update.Shares != nil {
		h.Shares = *update.Shares
	}
	if update.PurchasePrice != nil {
		h.PurchasePrice = *update.PurchasePrice
	}
	h.LastUpdated = time.Now()

	if err := s.storage.PortfolioStore().Save(ctx, portfolio); err != nil {
		return nil, fmt.Errorf("failed to save portfolio: %w", err)
	}

	s.logger.Info().Str("id", id).Str("symbol", h.Symbol).Msg("Holding updated")
	return s.view(portfolio), nil
}

// DeleteHolding removes a holding by ID.
func (s *Service) DeleteHolding(ctx context.Context, id string) (*models.PortfolioView, error) {
	portfolio, err := s.getOrCreate(ctx)
	if err != nil {
		return nil, err
	}

	idx := portfolio.FindHolding(id)
	if idx < 0 {
		return nil, common.NewNotFoundError(fmt.Sprintf("holding '%s' not found", id))
	}

	symbol := portfolio.Holdings[idx].Symbol
	portfolio.Holdings = append(portfolio.Holdings[:idx], portfolio.Holdings[idx+1:]...)

	if err := s.storage.PortfolioStore().Save(ctx, portfolio); err != nil {
		return nil, fmt.Errorf("failed to save portfolio: %w", err)
	}

	s.logger.Info().Str("id", id).Str("symbol", symbol).Msg("Holding deleted")
	return s.view(portfolio), nil
}

// GetSummary returns portfolio totals without the holding detail.
func (s *Service) GetSummary(ctx context.Context) (*models.PortfolioSummary, error) {
	portfolio, err := s.getOrCreate(ctx)
	if err != nil {
		return nil, err
	}
	return revalue(portfolio), nil
}

// GetSectorBreakdown groups holdings by sector, weighted by market value,
// sorted heaviest first.
func (s *Service) GetSectorBreakdown(ctx context.Context) ([]models.SectorAllocation, error) {
	portfolio, err := s.getOrCreate(ctx)
	if err != nil {
		return nil, err
	}
	summary := revalue(portfolio)

	type bucket struct {
		value   float64
		symbols []string
	}
	buckets := make(map[string]*bucket)
	for _, h := range portfolio.Holdings {
		sector := h.Sector
		if sector == "" {
			sector = "Other"
		}
		b, ok := buckets[sector]
		if !ok {
			b = &bucket{}
			buckets[sector] = b
		}
		b.value += h.MarketValue
		b.symbols = append(b.symbols, h.Symbol)
	}

	allocations := make([]models.SectorAllocation, 0, len(buckets))
	for sector, b := range buckets {
		weight := 0.0
		if summary.TotalValue > 0 {
			weight = b.value / summary.TotalValue * 100
		}
		allocations = append(allocations, models.SectorAllocation{
			Sector:  sector,
			Weight:  weight,
			Value:   b.value,
			Symbols: b.symbols,
		})
	}

	sort.Slice(allocations, func(i, j int) bool {
		if allocations[i].Value != allocations[j].Value {
			return allocations[i].Value > allocations[j].Value
		}
		return allocations[i].Sector < allocations[j].Sector
	})

	return allocations, nil
}

// RefreshPrices re-enriches every holding with a live quote. Symbols whose
// quote fails keep their last stored price.
func (s *Service) RefreshPrices(ctx context.Context) (*models.PortfolioView, error) {
	portfolio, err := s.getOrCreate(ctx)
	if err != nil {
		return nil, err
	}

	refreshed := 0
	for i := range portfolio.Holdings {
		h := &portfolio.Holdings[i]
		quote, err := s.market.GetQuote(ctx, h.Symbol)
		if err != nil {
			s.logger.Warn().Err(err).Str("symbol", h.Symbol).Msg("Price refresh failed, keeping stored price")
			continue
		}
		h.CurrentPrice = quote.Price
		if quote.Name != "" {
			h.Name = quote.Name
		}
		h.LastUpdated = time.Now()
		refreshed++
	}

	if err := s.storage.PortfolioStore().Save(ctx, portfolio); err != nil {
		return nil, fmt.Errorf("failed to save portfolio: %w", err)
	}

	s.logger.Info().Int("refreshed", refreshed).Int("total", len(portfolio.Holdings)).Msg("Prices refreshed")
	return s.view(portfolio), nil
}

// MergeExtracted folds statement-extracted holdings into the portfolio.
// Existing symbols get their lots merged: units summed, purchase price
// recomputed as the weighted average cost.
func (s *Service) MergeExtracted(ctx context.Context, extracted []models.ExtractedHolding) (*models.PortfolioView, error) {
	if len(extracted) == 0 {
		return nil, common.NewValidationError("no holdings to merge")
	}

	portfolio, err := s.getOrCreate(ctx)
	if err != nil {
		return nil, err
	}

	merged, added := 0, 0
	for _, e := range extracted {
		normalized, err := market.NormalizeSymbol(e.Symbol)
		if err != nil || e.Shares <= 0 {
			s.logger.Warn().Str("symbol", e.Symbol).Msg("Skipping unusable extracted holding")
			continue
		}

		if idx := portfolio.FindHoldingBySymbol(normalized); idx >= 0 {
			h := &portfolio.Holdings[idx]
			totalShares := h.Shares + e.Shares
			if e.PurchasePrice > 0 {
				h.PurchasePrice = (h.Shares*h.PurchasePrice + e.Shares*e.PurchasePrice) / totalShares
			}
			h.Shares = totalShares
			if e.CurrentPrice > 0 {
				h.CurrentPrice = e.CurrentPrice
			}
			h.LastUpdated = time.Now()
			merged++
			continue
		}

		date := e.PurchaseDate
		if date == "" {
			date = time.Now().Format(purchaseDateLayout)
		}
		portfolio.Holdings = append(portfolio.Holdings, models.Holding{
			ID:            uuid.NewString(),
			Symbol:        normalized,
			Shares:        e.Shares,
			PurchasePrice: e.PurchasePrice,
			PurchaseDate:  date,
			CurrentPrice:  e.CurrentPrice,
			Sector:        lookupSector(normalized),
			LastUpdated:   time.Now(),
		})
		added++
	}

	if merged == 0 && added == 0 {
		return nil, common.NewValidationError("no valid holdings in extraction")
	}

	if err := s.storage.PortfolioStore().Save(ctx, portfolio); err != nil {
		return nil, fmt.Errorf("failed to save portfolio: %w", err)
	}

	s.logger.Info().Int("merged", merged).Int("added", added).Msg("Extracted holdings merged")
	return s.view(portfolio), nil
}

// Ensure Service implements PortfolioService
var _ interfaces.PortfolioService = (*Service)(nil)
