package models

import "time"

// Sentiment labels for news articles.
const (
	SentimentBullish = "bullish"
	SentimentBearish = "bearish"
	SentimentNeutral = "neutral"
)

// NewsArticle is a single news item with sentiment scoring.
// Transient: fetched per request, never persisted.
type NewsArticle struct {
	Title          string    `json:"title"`
	URL            string    `json:"url"`
	Source         string    `json:"source"`
	Summary        string    `json:"summary,omitempty"`
	PublishedAt    time.Time `json:"published_at"`
	Sentiment      string    `json:"sentiment"`
	SentimentScore float64   `json:"sentiment_score"`
	Symbols        []string  `json:"symbols,omitempty"`
}

// SentimentSummary aggregates article sentiment for a symbol.
type SentimentSummary struct {
	Symbol       string  `json:"symbol"`
	Label        string  `json:"label"`
	Score        float64 `json:"score"`
	ArticleCount int     `json:"article_count"`
}
