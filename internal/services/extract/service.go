// Package extract parses brokerage statements into holding candidates.
// Uploaded files are dispatched by type to a CSV, Excel, PDF, or plain-text
// parser; free-text parsing falls back to an AI extraction pass when the
// heuristics come up empty.
package extract

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bobmcallan/folio/internal/common"
	"github.com/bobmcallan/folio/internal/interfaces"
	"github.com/bobmcallan/folio/internal/models"
)

// Service implements ExtractService
type Service struct {
	ai     interfaces.AIClient // nil when no API key is configured
	logger *common.Logger
}

// NewService creates a new extraction service. ai may be nil; the text
// pipeline then relies on heuristics alone.
func NewService(ai interfaces.AIClient, logger *common.Logger) *Service {
	return &Service{ai: ai, logger: logger}
}

// ExtractFile runs the extraction pipeline for one uploaded file.
// Unsupported file types return a ValidationError.
func (s *Service) ExtractFile(ctx context.Context, fileName string, data []byte) (*models.ExtractionResult, error) {
	if len(data) == 0 {
		return nil, common.NewValidationError("file is empty")
	}

	ext := strings.ToLower(filepath.Ext(fileName))
	result := &models.ExtractionResult{
		FileName: fileName,
		FileType: strings.TrimPrefix(ext, "."),
	}

	var err error
	switch ext {
	case ".csv":
		result.Method = models.ExtractMethodCSV
		result.Holdings, result.Warnings, err = parseCSV(data)
	case ".xlsx", ".xls":
		result.Method = models.ExtractMethodExcel
		result.Holdings, result.Warnings, err = parseExcel(data)
	case ".pdf":
		result.Method = models.ExtractMethodPDF
		var text string
		text, err = extractPDFText(data)
		if err == nil {
			result.Holdings, result.Warnings = s.extractFromText(ctx, text, result)
		}
	case ".txt", ".text":
		result.Method = models.ExtractMethodText
		result.Holdings, result.Warnings = s.extractFromText(ctx, string(data), result)
	default:
		return nil, common.NewValidationError("Unsupported file type")
	}
	if err != nil {
		return nil, fmt.Errorf("extraction failed for %s: %w", fileName, err)
	}

	if len(result.Holdings) == 0 {
		result.Warnings = append(result.Warnings, "no holdings found in file")
	}

	s.logger.Info().
		Str("file", fileName).
		Str("method", result.Method).
		Int("holdings", len(result.Holdings)).
		Msg("Statement extracted")

	return result, nil
}

// extractFromText runs the regex heuristics and falls back to AI extraction
// when they find nothing. The result method is updated when the AI pass is
// the one that produced holdings.
func (s *Service) extractFromText(ctx context.Context, text string, result *models.ExtractionResult) ([]models.ExtractedHolding, []string) {
	holdings, warnings := parseText(text)
	if len(holdings) > 0 || s.ai == nil {
		return holdings, warnings
	}

	aiHoldings, err := s.extractWithAI(ctx, text)
	if err != nil {
		s.logger.Warn().Err(err).Msg("AI extraction failed")
		warnings = append(warnings, "AI extraction unavailable")
		return holdings, warnings
	}
	if len(aiHoldings) > 0 {
		result.Method = models.ExtractMethodAI
	}
	return aiHoldings, warnings
}

// Ensure Service implements ExtractService
var _ interfaces.ExtractService = (*Service)(nil)
