package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/bobmcallan/folio/internal/models"
)

// Free-text statement patterns, most specific first:
//
//	"10 shares of AAPL at $150.00"
//	"AAPL: 10 shares @ $150.00"
//	"AAPL  10  150.00"  (tabular line)
var (
	sharesOfPattern = regexp.MustCompile(`(?i)([\d,]+(?:\.\d+)?)\s+shares?\s+of\s+([A-Z][A-Z0-9.\-]{0,11})(?:\s+(?:at|@)\s+\$?([\d,]+(?:\.\d+)?))?`)
	symbolAtPattern = regexp.MustCompile(`\b([A-Z][A-Z0-9.\-]{0,11})\s*[:\-]\s*([\d,]+(?:\.\d+)?)\s+shares?(?:\s*(?:at|@)\s*\$?([\d,]+(?:\.\d+)?))?`)
	tabularPattern  = regexp.MustCompile(`^\s*([A-Z][A-Z0-9.\-]{0,11})\s+([\d,]+(?:\.\d+)?)\s+\$?([\d,]+(?:\.\d+)?)\s*$`)
)

// textNoise lists uppercase words that match the ticker shape but never are
// tickers in statement text.
var textNoise = map[string]bool{
	"A": true, "I": true, "AT": true, "OF": true, "THE": true, "AND": true,
	"FOR": true, "TOTAL": true, "SHARES": true, "USD": true, "CASH": true,
	"DATE": true, "PRICE": true, "VALUE": true, "QTY": true,
}

func textNumber(s string) float64 {
	cleaned := strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if cleaned == "" {
		return 0
	}
	n, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}
	return n
}

// parseText extracts holdings from free statement text with regex
// heuristics. Repeat mentions of a symbol keep the first occurrence.
func parseText(text string) ([]models.ExtractedHolding, []string) {
	var holdings []models.ExtractedHolding
	seen := make(map[string]bool)

	add := func(symbol string, shares, price float64) {
		symbol = strings.ToUpper(strings.TrimSpace(symbol))
		if symbol == "" || textNoise[symbol] || seen[symbol] || shares <= 0 {
			return
		}
		seen[symbol] = true
		holdings = append(holdings, models.ExtractedHolding{
			Symbol:        symbol,
			Shares:        shares,
			PurchasePrice: price,
		})
	}

	for _, m := range sharesOfPattern.FindAllStringSubmatch(text, -1) {
		add(m[2], textNumber(m[1]), textNumber(m[3]))
	}
	for _, m := range symbolAtPattern.FindAllStringSubmatch(text, -1) {
		add(m[1], textNumber(m[2]), textNumber(m[3]))
	}
	for _, line := range strings.Split(text, "\n") {
		if m := tabularPattern.FindStringSubmatch(line); m != nil {
			add(m[1], textNumber(m[2]), textNumber(m[3]))
		}
	}

	return holdings, nil
}
