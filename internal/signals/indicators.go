// Package signals provides technical indicator calculations
package signals

import (
	"math"
	"sort"

	"github.com/bobmcallan/folio/internal/models"
)

// Closes extracts the close series from candles, oldest first.
func Closes(candles []models.Candle) []float64 {
	closes := make([]float64, len(candles))
	for i, c := range candles {
		closes[i] = c.Close
	}
	return closes
}

// SMA calculates the Simple Moving Average over the most recent period.
// closes must be ordered oldest first.
func SMA(closes []float64, period int) float64 {
	if period <= 0 || len(closes) < period {
		return 0
	}

	sum := 0.0
	for _, c := range closes[len(closes)-period:] {
		sum += c
	}
	return sum / float64(period)
}

// EMA calculates the Exponential Moving Average, seeded with the SMA of the
// first period values and smoothed across the full series.
func EMA(closes []float64, period int) float64 {
	series := EMASeries(closes, period)
	if len(series) == 0 {
		return 0
	}
	return series[len(series)-1]
}

// EMASeries returns the EMA value at each index from the seed point onward.
// The returned slice is aligned to closes[period-1:]. Empty when closes is
// shorter than period.
func EMASeries(closes []float64, period int) []float64 {
	if period <= 0 || len(closes) < period {
		return nil
	}

	multiplier := 2.0 / float64(period+1)

	seed := 0.0
	for _, c := range closes[:period] {
		seed += c
	}
	seed /= float64(period)

	series := make([]float64, 0, len(closes)-period+1)
	series = append(series, seed)

	ema := seed
	for _, c := range closes[period:] {
		ema = (c-ema)*multiplier + ema
		series = append(series, ema)
	}
	return series
}

// RSI calculates the Relative Strength Index over the most recent period
// changes. A series with no losses returns 100; a flat series (no gains and
// no losses) returns the neutral 50.
func RSI(closes []float64, period int) float64 {
	if period <= 0 || len(closes) < period+1 {
		return 50 // Neutral default
	}

	var gains, losses float64
	recent := closes[len(closes)-period-1:]
	for i := 1; i < len(recent); i++ {
		change := recent[i] - recent[i-1]
		if change > 0 {
			gains += change
		} else {
			losses -= change
		}
	}

	avgGain := gains / float64(period)
	avgLoss := losses / float64(period)

	if avgLoss == 0 {
		if avgGain == 0 {
			return 50
		}
		return 100
	}

	rs := avgGain / avgLoss
	return 100 - (100 / (1 + rs))
}

// MACD calculates Moving Average Convergence Divergence.
// Returns the MACD line, the signal line (EMA of the MACD series), and the
// histogram.
func MACD(closes []float64, fastPeriod, slowPeriod, signalPeriod int) (float64, float64, float64) {
	if len(closes) < slowPeriod {
		return 0, 0, 0
	}

	fastSeries := EMASeries(closes, fastPeriod)
	slowSeries := EMASeries(closes, slowPeriod)

	// Align: slowSeries starts (slowPeriod - fastPeriod) entries later.
	offset := slowPeriod - fastPeriod
	macdSeries := make([]float64, len(slowSeries))
	for i := range slowSeries {
		macdSeries[i] = fastSeries[i+offset] - slowSeries[i]
	}

	macdLine := macdSeries[len(macdSeries)-1]

	signalLine := macdLine
	if len(macdSeries) >= signalPeriod {
		signalSeries := EMASeries(macdSeries, signalPeriod)
		signalLine = signalSeries[len(signalSeries)-1]
	}

	histogram := macdLine - signalLine

	return macdLine, signalLine, histogram
}

// Volatility calculates annualized volatility as the standard deviation of
// daily log returns scaled by sqrt(252).
func Volatility(closes []float64) float64 {
	if len(closes) < 2 {
		return 0
	}

	returns := make([]float64, 0, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		if closes[i-1] <= 0 || closes[i] <= 0 {
			continue
		}
		returns = append(returns, math.Log(closes[i]/closes[i-1]))
	}
	if len(returns) < 2 {
		return 0
	}

	mean := 0.0
	for _, r := range returns {
		mean += r
	}
	mean /= float64(len(returns))

	variance := 0.0
	for _, r := range returns {
		variance += (r - mean) * (r - mean)
	}
	variance /= float64(len(returns) - 1)

	return math.Sqrt(variance) * math.Sqrt(252)
}

// SupportResistance finds support and resistance levels over the most recent
// lookback candles: support is the lower quartile of lows, resistance the
// upper quartile of highs.
func SupportResistance(candles []models.Candle, lookback int) (support, resistance float64) {
	if len(candles) == 0 {
		return 0, 0
	}
	if lookback > len(candles) {
		lookback = len(candles)
	}

	recent := candles[len(candles)-lookback:]
	highs := make([]float64, lookback)
	lows := make([]float64, lookback)
	for i, c := range recent {
		highs[i] = c.High
		lows[i] = c.Low
	}

	sort.Float64s(highs)
	sort.Float64s(lows)

	resistance = highs[int(float64(len(highs))*0.75)]
	support = lows[int(float64(len(lows))*0.25)]

	return support, resistance
}

// ClassifyRSI classifies an RSI value
func ClassifyRSI(rsi float64) string {
	if rsi >= 70 {
		return "overbought"
	}
	if rsi <= 30 {
		return "oversold"
	}
	return "neutral"
}

// DetermineTrend classifies the overall trend from the close price relative
// to its moving averages.
func DetermineTrend(lastClose, sma20, sma50, sma200 float64) models.TrendType {
	// BULLISH: Price > SMA200 AND SMA20 > SMA50
	if lastClose > sma200 && sma20 > sma50 {
		return models.TrendBullish
	}

	// BEARISH: Price < SMA200 AND SMA20 < SMA50
	if lastClose < sma200 && sma20 < sma50 {
		return models.TrendBearish
	}

	return models.TrendNeutral
}

// TrendDescription returns a human-readable trend description
func TrendDescription(trend models.TrendType) string {
	switch trend {
	case models.TrendBullish:
		return "Bullish trend: price above 200-day SMA with positive momentum"
	case models.TrendBearish:
		return "Bearish trend: price below 200-day SMA with negative momentum"
	default:
		return "Neutral trend: mixed signals, no clear direction"
	}
}
