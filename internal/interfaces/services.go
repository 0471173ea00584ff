package interfaces

import (
	"context"

	"github.com/bobmcallan/folio/internal/models"
)

// HoldingUpdate carries partial updates for an existing holding.
// Nil fields are left unchanged.
type HoldingUpdate struct {
	Shares        *float64
	PurchasePrice *float64
}

// PortfolioService manages holdings and computes valuations.
// All operations are scoped to the user resolved from ctx.
type PortfolioService interface {
	GetPortfolio(ctx context.Context) (*models.PortfolioView, error)
	AddHolding(ctx context.Context, symbol string, shares, purchasePrice float64, purchaseDate string) (*models.PortfolioView, error)
	UpdateHolding(ctx context.Context, id string, update HoldingUpdate) (*models.PortfolioView, error)
	DeleteHolding(ctx context.Context, id string) (*models.PortfolioView, error)
	GetSummary(ctx context.Context) (*models.PortfolioSummary, error)
	GetSectorBreakdown(ctx context.Context) ([]models.SectorAllocation, error)
	RefreshPrices(ctx context.Context) (*models.PortfolioView, error)
	RenderChart(ctx context.Context) ([]byte, error)
	MergeExtracted(ctx context.Context, extracted []models.ExtractedHolding) (*models.PortfolioView, error)
}

// MarketService serves validated, cached market data.
type MarketService interface {
	GetQuote(ctx context.Context, symbol string) (*models.Quote, error)
	GetHistory(ctx context.Context, symbol, period, interval string) (*models.History, error)
	Search(ctx context.Context, query string, limit int) ([]models.SearchResult, error)
	GetIndicators(ctx context.Context, symbol string) (*models.IndicatorReport, error)
	GetMovers(ctx context.Context) ([]models.Quote, error)
}

// ChatService runs the AI assistant conversation.
type ChatService interface {
	Chat(ctx context.Context, message string) (*models.ChatResponse, error)
	History(ctx context.Context) ([]models.ChatMessage, error)
	ClearHistory(ctx context.Context) error
}

// NewsService serves news articles with sentiment.
type NewsService interface {
	GetNews(ctx context.Context, symbol string, limit int) ([]models.NewsArticle, error)
	GetSentiment(ctx context.Context, symbol string) (*models.SentimentSummary, error)
}

// ExtractService runs the statement extraction pipeline over an uploaded file.
type ExtractService interface {
	ExtractFile(ctx context.Context, fileName string, data []byte) (*models.ExtractionResult, error)
}
