// Package models defines data structures for Folio
package models

import "time"

// Holding represents a single stock position in a user's portfolio.
// PurchaseDate is YYYY-MM-DD, matching the extraction pipeline.
type Holding struct {
	ID            string  `json:"id"`
	Symbol        string  `json:"symbol"`
	Name          string  `json:"name,omitempty"`
	Shares        float64 `json:"shares"`
	PurchasePrice float64 `json:"purchase_price"`
	PurchaseDate  string  `json:"purchase_date,omitempty"`
	CurrentPrice  float64 `json:"current_price"`
	MarketValue   float64 `json:"market_value"`
	CostBasis     float64 `json:"cost_basis"`
	GainLoss      float64 `json:"gain_loss"`
	GainLossPct   float64 `json:"gain_loss_pct"`
	WeightPct     float64 `json:"weight_pct"`
	Sector        string  `json:"sector,omitempty"`

	LastUpdated time.Time `json:"last_updated"`
}

// Portfolio represents a user's stored portfolio.
type Portfolio struct {
	UserID    string    `json:"user_id" badgerhold:"key"`
	Holdings  []Holding `json:"holdings"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FindHolding returns the index of the holding with the given ID, or -1.
func (p *Portfolio) FindHolding(id string) int {
	for i := range p.Holdings {
		if p.Holdings[i].ID == id {
			return i
		}
	}
	return -1
}

// FindHoldingBySymbol returns the index of the first holding with the given
// symbol, or -1.
func (p *Portfolio) FindHoldingBySymbol(symbol string) int {
	for i := range p.Holdings {
		if p.Holdings[i].Symbol == symbol {
			return i
		}
	}
	return -1
}

// PortfolioSummary holds aggregate valuation for a portfolio.
// Computed on response, never persisted.
type PortfolioSummary struct {
	TotalValue       float64   `json:"total_value"`
	TotalCost        float64   `json:"total_cost"`
	TotalGainLoss    float64   `json:"total_gain_loss"`
	TotalGainLossPct float64   `json:"total_gain_loss_pct"`
	HoldingCount     int       `json:"holding_count"`
	ComputedAt       time.Time `json:"computed_at"`
}

// PortfolioView is the API response shape for a valued portfolio.
type PortfolioView struct {
	UserID   string           `json:"user_id"`
	Holdings []Holding        `json:"holdings"`
	Summary  PortfolioSummary `json:"summary"`
}

// SectorAllocation represents allocation to a sector.
type SectorAllocation struct {
	Sector  string   `json:"sector"`
	Weight  float64  `json:"weight"`
	Value   float64  `json:"value"`
	Symbols []string `json:"symbols"`
}
