package chat

import (
	"fmt"
	"strings"

	"github.com/bobmcallan/folio/internal/models"
)

// buildSystemPrompt composes the assistant instructions plus a snapshot of
// the user's portfolio so the model can answer about actual positions.
func buildSystemPrompt(view *models.PortfolioView) string {
	var sb strings.Builder
	sb.WriteString("You are Folio, a personal finance assistant. Answer questions about the user's ")
	sb.WriteString("stock portfolio using the snapshot below. Be concise and factual. ")
	sb.WriteString("You are not a licensed financial advisor; do not give personalized investment advice.\n\n")

	if view == nil || len(view.Holdings) == 0 {
		sb.WriteString("The user's portfolio is currently empty.")
		return sb.String()
	}

	sb.WriteString("Portfolio snapshot:\n")
	for _, h := range view.Holdings {
		sb.WriteString(fmt.Sprintf("- %s: %.2f shares, cost $%.2f, value $%.2f (%+.1f%%)\n",
			h.Symbol, h.Shares, h.CostBasis, h.MarketValue, h.GainLossPct))
	}
	sb.WriteString(fmt.Sprintf("Totals: value $%.2f, cost $%.2f, gain/loss $%.2f (%+.1f%%)\n",
		view.Summary.TotalValue, view.Summary.TotalCost,
		view.Summary.TotalGainLoss, view.Summary.TotalGainLossPct))

	return sb.String()
}

// fallbackReply answers the common portfolio questions without any AI
// backend, keyed on keywords in the user message.
func fallbackReply(message string, view *models.PortfolioView) string {
	lower := strings.ToLower(message)
	empty := view == nil || len(view.Holdings) == 0

	switch {
	case containsAny(lower, "value", "worth", "total"):
		if empty {
			return "Your portfolio is empty. Add holdings to start tracking its value."
		}
		return fmt.Sprintf("Your portfolio is worth $%.2f across %d holdings, against a total cost of $%.2f.",
			view.Summary.TotalValue, view.Summary.HoldingCount, view.Summary.TotalCost)

	case containsAny(lower, "gain", "loss", "profit", "performance", "return"):
		if empty {
			return "Your portfolio is empty, so there is no gain or loss to report yet."
		}
		direction := "up"
		if view.Summary.TotalGainLoss < 0 {
			direction = "down"
		}
		return fmt.Sprintf("Your portfolio is %s $%.2f (%.1f%%) on a cost basis of $%.2f.",
			direction, abs(view.Summary.TotalGainLoss), abs(view.Summary.TotalGainLossPct), view.Summary.TotalCost)

	case containsAny(lower, "diversif", "allocation", "sector", "spread"):
		if empty {
			return "Your portfolio is empty. A diversified portfolio typically spreads value across several sectors."
		}
		largest := view.Holdings[0]
		for _, h := range view.Holdings[1:] {
			if h.WeightPct > largest.WeightPct {
				largest = h
			}
		}
		return fmt.Sprintf("You hold %d positions. Your largest is %s at %.1f%% of portfolio value. "+
			"Positions above 20-25%% concentrate risk in a single name.",
			len(view.Holdings), largest.Symbol, largest.WeightPct)

	case containsAny(lower, "help", "what can you"):
		return "I can answer questions about your portfolio: its value, gains and losses, " +
			"and how it is spread across holdings and sectors. Try asking " +
			"\"what is my portfolio worth?\" or \"how is my performance?\""

	default:
		if empty {
			return "Your portfolio is empty. Add holdings or upload a brokerage statement, then ask me about value, performance, or diversification."
		}
		return fmt.Sprintf("You hold %d positions worth $%.2f. Ask me about your portfolio's value, "+
			"performance, or diversification for more detail.",
			view.Summary.HoldingCount, view.Summary.TotalValue)
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
