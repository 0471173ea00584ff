package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/bobmcallan/folio/internal/models"
)

const extractSystemPrompt = `You are a financial document parser. Extract stock holdings from the brokerage statement text the user provides.
Respond with ONLY a JSON array, no prose. Each element:
{"symbol": "AAPL", "shares": 10, "purchase_price": 150.0}
Omit purchase_price when the statement does not show it. Return [] when no holdings are present.`

// extractWithAI asks the AI client to pull holdings out of statement text
// the heuristics could not parse.
func (s *Service) extractWithAI(ctx context.Context, text string) ([]models.ExtractedHolding, error) {
	reply, err := s.ai.Complete(ctx, extractSystemPrompt, []models.ChatMessage{
		{Role: models.ChatRoleUser, Content: text},
	})
	if err != nil {
		return nil, fmt.Errorf("ai completion failed: %w", err)
	}

	holdings, err := parseAIHoldings(reply)
	if err != nil {
		return nil, err
	}

	valid := holdings[:0]
	for _, h := range holdings {
		h.Symbol = strings.ToUpper(strings.TrimSpace(h.Symbol))
		if h.Symbol == "" || h.Shares <= 0 {
			continue
		}
		valid = append(valid, h)
	}
	return valid, nil
}

// parseAIHoldings decodes the model reply, tolerating markdown code fences
// and prose around the JSON payload. A single object is accepted as a
// one-element array.
func parseAIHoldings(reply string) ([]models.ExtractedHolding, error) {
	cleaned := strings.TrimSpace(reply)

	// Strip markdown fences: ```json ... ```
	if strings.HasPrefix(cleaned, "```") {
		cleaned = strings.TrimPrefix(cleaned, "```json")
		cleaned = strings.TrimPrefix(cleaned, "```")
		if idx := strings.LastIndex(cleaned, "```"); idx >= 0 {
			cleaned = cleaned[:idx]
		}
		cleaned = strings.TrimSpace(cleaned)
	}

	// Locate the JSON payload inside any surrounding prose.
	if start := strings.Index(cleaned, "["); start >= 0 {
		if end := strings.LastIndex(cleaned, "]"); end > start {
			var holdings []models.ExtractedHolding
			if err := json.Unmarshal([]byte(cleaned[start:end+1]), &holdings); err == nil {
				return holdings, nil
			}
		}
	}
	if start := strings.Index(cleaned, "{"); start >= 0 {
		if end := strings.LastIndex(cleaned, "}"); end > start {
			var holding models.ExtractedHolding
			if err := json.Unmarshal([]byte(cleaned[start:end+1]), &holding); err == nil {
				return []models.ExtractedHolding{holding}, nil
			}
		}
	}

	return nil, fmt.Errorf("no parseable holdings in ai reply")
}
