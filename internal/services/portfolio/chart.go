package portfolio

import (
	"bytes"
	"context"
	"fmt"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/bobmcallan/folio/internal/common"
	"github.com/bobmcallan/folio/internal/models"
)

// RenderHoldingsChart renders a PNG bar chart of holding market values,
// green bars for gains and red for losses. Returns raw PNG bytes.
func RenderHoldingsChart(holdings []models.Holding) ([]byte, error) {
	if len(holdings) == 0 {
		return nil, fmt.Errorf("no holdings to chart")
	}

	bars := make([]chart.Value, 0, len(holdings))
	for _, h := range holdings {
		color := drawing.ColorFromHex("16a34a") // green-600
		if h.GainLoss < 0 {
			color = drawing.ColorFromHex("dc2626") // red-600
		}
		bars = append(bars, chart.Value{
			Label: h.Symbol,
			Value: h.MarketValue,
			Style: chart.Style{
				FillColor:   color,
				StrokeColor: color,
			},
		})
	}

	graph := chart.BarChart{
		Title:    "Portfolio Holdings",
		Width:    900,
		Height:   400,
		BarWidth: 40,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		YAxis: chart.YAxis{
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("$%.0f", f)
				}
				return ""
			},
		},
		Bars: bars,
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("chart render failed: %w", err)
	}

	return buf.Bytes(), nil
}

// RenderChart renders the current portfolio as a PNG bar chart.
func (s *Service) RenderChart(ctx context.Context) ([]byte, error) {
	portfolio, err := s.getOrCreate(ctx)
	if err != nil {
		return nil, err
	}
	if len(portfolio.Holdings) == 0 {
		return nil, common.NewValidationError("portfolio is empty")
	}
	revalue(portfolio)
	return RenderHoldingsChart(portfolio.Holdings)
}
