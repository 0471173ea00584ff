package models

import "time"

// Quote is a snapshot of a security's current trading state.
// Transient: fetched per request and cached briefly by symbol.
type Quote struct {
	Symbol        string    `json:"symbol"`
	Name          string    `json:"name,omitempty"`
	Exchange      string    `json:"exchange,omitempty"`
	Currency      string    `json:"currency,omitempty"`
	Price         float64   `json:"price"`
	PreviousClose float64   `json:"previous_close"`
	Change        float64   `json:"change"`
	ChangePct     float64   `json:"change_pct"`
	DayHigh       float64   `json:"day_high"`
	DayLow        float64   `json:"day_low"`
	Volume        int64     `json:"volume"`
	Timestamp     time.Time `json:"timestamp"`
}

// Candle represents one OHLCV bar of historical price data.
type Candle struct {
	Date     time.Time `json:"date"`
	Open     float64   `json:"open"`
	High     float64   `json:"high"`
	Low      float64   `json:"low"`
	Close    float64   `json:"close"`
	AdjClose float64   `json:"adj_close"`
	Volume   int64     `json:"volume"`
}

// History holds the candle series for a symbol over a requested period.
type History struct {
	Symbol   string   `json:"symbol"`
	Period   string   `json:"period"`
	Interval string   `json:"interval"`
	Candles  []Candle `json:"candles"`
}

// SearchResult is a single symbol search match.
type SearchResult struct {
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Exchange string `json:"exchange"`
	Type     string `json:"type"`
}

// TrendType classifies the overall price trend
type TrendType string

const (
	TrendBullish TrendType = "bullish"
	TrendBearish TrendType = "bearish"
	TrendNeutral TrendType = "neutral"
)

// IndicatorReport contains technical indicators computed on a symbol's
// daily close series.
type IndicatorReport struct {
	Symbol      string    `json:"symbol"`
	ComputeDate time.Time `json:"compute_date"`
	DataPoints  int       `json:"data_points"`
	LastClose   float64   `json:"last_close"`

	// Moving averages
	SMA20  float64 `json:"sma_20"`
	SMA50  float64 `json:"sma_50"`
	SMA200 float64 `json:"sma_200"`
	EMA12  float64 `json:"ema_12"`
	EMA26  float64 `json:"ema_26"`

	// RSI
	RSI       float64 `json:"rsi"`
	RSISignal string  `json:"rsi_signal"`

	// MACD (12, 26, 9)
	MACD          float64 `json:"macd"`
	MACDSignal    float64 `json:"macd_signal"`
	MACDHistogram float64 `json:"macd_histogram"`

	// Annualized volatility of daily log returns
	Volatility float64 `json:"volatility"`

	// Support and resistance levels
	Support    float64 `json:"support"`
	Resistance float64 `json:"resistance"`

	// Trend
	Trend            TrendType `json:"trend"`
	TrendDescription string    `json:"trend_description"`
}
