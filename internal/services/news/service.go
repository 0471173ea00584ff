// Package news serves market news with sentiment classification
package news

import (
	"context"
	"strings"
	"time"

	"github.com/bobmcallan/folio/internal/common"
	"github.com/bobmcallan/folio/internal/interfaces"
	"github.com/bobmcallan/folio/internal/models"
	"github.com/bobmcallan/folio/internal/services/market"
)

const defaultLimit = 10

// Service implements NewsService
type Service struct {
	client interfaces.NewsClient // nil when no API key is configured
	logger *common.Logger
}

// NewService creates a new news service. client may be nil; every request
// then gets the deterministic fallback feed.
func NewService(client interfaces.NewsClient, logger *common.Logger) *Service {
	return &Service{client: client, logger: logger}
}

// GetNews returns articles for a symbol (or the general market when symbol
// is empty). Upstream failures degrade to a placeholder feed so the news
// panel never errors out.
func (s *Service) GetNews(ctx context.Context, symbol string, limit int) ([]models.NewsArticle, error) {
	normalized := ""
	if symbol != "" {
		var err error
		normalized, err = market.NormalizeSymbol(symbol)
		if err != nil {
			return nil, err
		}
	}
	if limit <= 0 || limit > 50 {
		limit = defaultLimit
	}

	if s.client == nil {
		return fallbackArticles(normalized), nil
	}

	articles, err := s.client.GetNews(ctx, normalized, limit)
	if err != nil {
		s.logger.Warn().Err(err).Str("symbol", normalized).Msg("News fetch failed, serving fallback feed")
		return fallbackArticles(normalized), nil
	}

	// Articles without upstream sentiment get the lexicon classification.
	for i := range articles {
		if articles[i].Sentiment == "" {
			label, score := classifyText(articles[i].Title + " " + articles[i].Summary)
			articles[i].Sentiment = label
			articles[i].SentimentScore = score
		}
	}

	if len(articles) > limit {
		articles = articles[:limit]
	}
	return articles, nil
}

// GetSentiment aggregates article sentiment for a symbol into a single
// bullish/bearish/neutral call.
func (s *Service) GetSentiment(ctx context.Context, symbol string) (*models.SentimentSummary, error) {
	normalized, err := market.NormalizeSymbol(symbol)
	if err != nil {
		return nil, err
	}

	articles, err := s.GetNews(ctx, normalized, 50)
	if err != nil {
		return nil, err
	}

	summary := &models.SentimentSummary{
		Symbol:       normalized,
		Label:        models.SentimentNeutral,
		ArticleCount: len(articles),
	}
	if len(articles) == 0 {
		return summary, nil
	}

	var total float64
	for _, a := range articles {
		total += a.SentimentScore
	}
	summary.Score = total / float64(len(articles))

	switch {
	case summary.Score > 0.15:
		summary.Label = models.SentimentBullish
	case summary.Score < -0.15:
		summary.Label = models.SentimentBearish
	}

	return summary, nil
}

// fallbackArticles is the deterministic feed served when the upstream
// provider is unavailable or unconfigured.
func fallbackArticles(symbol string) []models.NewsArticle {
	subject := "Markets"
	symbols := []string(nil)
	if symbol != "" {
		subject = symbol
		symbols = []string{symbol}
	}

	now := time.Now()
	return []models.NewsArticle{
		{
			Title:       subject + " news is temporarily unavailable",
			Source:      "Folio",
			Summary:     "Live news could not be fetched. Headlines will return once the provider is reachable.",
			PublishedAt: now,
			Sentiment:   models.SentimentNeutral,
			Symbols:     symbols,
		},
		{
			Title:       "Tip: diversification spreads risk",
			Source:      "Folio",
			Summary:     "Review your sector allocation to keep any single position from dominating your portfolio.",
			PublishedAt: now,
			Sentiment:   models.SentimentNeutral,
			Symbols:     symbols,
		},
	}
}

// classifyText scores text against the bullish/bearish lexicons. The score
// is the normalized keyword balance in [-1, 1].
func classifyText(text string) (string, float64) {
	lower := strings.ToLower(text)

	var bullish, bearish int
	for _, word := range bullishWords {
		bullish += strings.Count(lower, word)
	}
	for _, word := range bearishWords {
		bearish += strings.Count(lower, word)
	}

	total := bullish + bearish
	if total == 0 {
		return models.SentimentNeutral, 0
	}

	score := float64(bullish-bearish) / float64(total)
	switch {
	case score > 0.15:
		return models.SentimentBullish, score
	case score < -0.15:
		return models.SentimentBearish, score
	}
	return models.SentimentNeutral, score
}

var bullishWords = []string{
	"surge", "rally", "gain", "soar", "jump", "beat", "upgrade", "record high",
	"outperform", "growth", "profit", "strong", "bullish", "buy rating", "rebound",
}

var bearishWords = []string{
	"plunge", "slump", "fall", "drop", "miss", "downgrade", "record low",
	"underperform", "decline", "loss", "weak", "bearish", "sell rating", "layoff",
	"lawsuit", "recall", "bankruptcy",
}

// Ensure Service implements NewsService
var _ interfaces.NewsService = (*Service)(nil)
