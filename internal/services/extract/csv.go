package extract

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/bobmcallan/folio/internal/models"
)

// columnMap locates the holding fields in a statement header row.
type columnMap struct {
	symbol       int
	shares       int
	price        int
	date         int
	currentPrice int
}

// detectColumns matches header cells against the names brokerages use.
// Returns false when no symbol and shares columns can be found.
func detectColumns(header []string) (columnMap, bool) {
	cols := columnMap{symbol: -1, shares: -1, price: -1, date: -1, currentPrice: -1}

	for i, cell := range header {
		name := strings.ToLower(strings.TrimSpace(cell))
		switch {
		case cols.symbol < 0 && (name == "symbol" || name == "ticker" || name == "stock"):
			cols.symbol = i
		case cols.shares < 0 && (name == "shares" || name == "quantity" || name == "qty" || name == "units"):
			cols.shares = i
		case cols.currentPrice < 0 && (name == "current price" || name == "market price" || name == "last price" || name == "price now"):
			cols.currentPrice = i
		case cols.price < 0 && (name == "price" || name == "cost" || name == "purchase price" || name == "avg cost" ||
			name == "average cost" || name == "cost basis" || name == "unit cost"):
			cols.price = i
		case cols.date < 0 && (name == "date" || name == "purchase date" || name == "trade date" || name == "acquired"):
			cols.date = i
		}
	}

	return cols, cols.symbol >= 0 && cols.shares >= 0
}

// parseNumber reads a float tolerating currency symbols, thousands commas,
// and surrounding whitespace.
func parseNumber(cell string) (float64, error) {
	cleaned := strings.TrimSpace(cell)
	cleaned = strings.TrimPrefix(cleaned, "$")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	if cleaned == "" {
		return 0, fmt.Errorf("empty number")
	}
	return strconv.ParseFloat(cleaned, 64)
}

// parseDate normalizes the date formats statements use to YYYY-MM-DD.
func parseDate(cell string) string {
	cleaned := strings.TrimSpace(cell)
	if cleaned == "" {
		return ""
	}
	for _, layout := range []string{"2006-01-02", "01/02/2006", "1/2/2006", "02/01/2006", "Jan 2, 2006", "2 Jan 2006"} {
		if parsed, err := time.Parse(layout, cleaned); err == nil {
			return parsed.Format("2006-01-02")
		}
	}
	return ""
}

// rowToHolding converts one data row using the detected columns.
func rowToHolding(row []string, cols columnMap) (models.ExtractedHolding, error) {
	cell := func(idx int) string {
		if idx < 0 || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	symbol := strings.ToUpper(cell(cols.symbol))
	if symbol == "" {
		return models.ExtractedHolding{}, fmt.Errorf("missing symbol")
	}

	shares, err := parseNumber(cell(cols.shares))
	if err != nil || shares <= 0 {
		return models.ExtractedHolding{}, fmt.Errorf("bad share count for %s", symbol)
	}

	holding := models.ExtractedHolding{
		Symbol: symbol,
		Shares: shares,
	}
	if cols.price >= 0 {
		if price, err := parseNumber(cell(cols.price)); err == nil && price > 0 {
			holding.PurchasePrice = price
		}
	}
	if cols.currentPrice >= 0 {
		if price, err := parseNumber(cell(cols.currentPrice)); err == nil && price > 0 {
			holding.CurrentPrice = price
		}
	}
	if cols.date >= 0 {
		holding.PurchaseDate = parseDate(cell(cols.date))
	}

	return holding, nil
}

// parseRows applies header detection and row conversion to tabular data,
// shared by the CSV and Excel parsers. Malformed rows are skipped with a
// warning rather than failing the extraction.
func parseRows(rows [][]string) ([]models.ExtractedHolding, []string, error) {
	if len(rows) == 0 {
		return nil, nil, fmt.Errorf("no rows")
	}

	cols, ok := detectColumns(rows[0])
	if !ok {
		return nil, nil, fmt.Errorf("no symbol/shares columns detected in header")
	}

	var holdings []models.ExtractedHolding
	var warnings []string
	for i, row := range rows[1:] {
		if len(row) == 0 {
			continue
		}
		holding, err := rowToHolding(row, cols)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("row %d skipped: %v", i+2, err))
			continue
		}
		holdings = append(holdings, holding)
	}

	return holdings, warnings, nil
}

// parseCSV extracts holdings from CSV statement data.
func parseCSV(data []byte) ([]models.ExtractedHolding, []string, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1 // statements are rarely rectangular
	reader.TrimLeadingSpace = true

	var rows [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("csv parse error: %w", err)
		}
		rows = append(rows, record)
	}

	return parseRows(rows)
}
