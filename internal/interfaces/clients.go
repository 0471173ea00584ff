// Package interfaces defines service contracts for Folio
package interfaces

import (
	"context"

	"github.com/bobmcallan/folio/internal/models"
)

// MarketClient retrieves quotes, history, and symbol search results from an
// external market-data provider.
type MarketClient interface {
	GetQuote(ctx context.Context, symbol string) (*models.Quote, error)
	GetHistory(ctx context.Context, symbol, period, interval string) (*models.History, error)
	Search(ctx context.Context, query string, limit int) ([]models.SearchResult, error)
}

// AIClient generates assistant completions from a system prompt and a
// conversation transcript.
type AIClient interface {
	Complete(ctx context.Context, systemPrompt string, messages []models.ChatMessage) (string, error)
}

// NewsClient retrieves news articles with sentiment for a symbol.
// symbol may be empty for general market news.
type NewsClient interface {
	GetNews(ctx context.Context, symbol string, limit int) ([]models.NewsArticle, error)
}
