package extract

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// maxPDFTextBytes bounds extracted statement text; anything useful sits in
// the first pages.
const maxPDFTextBytes = 50000

// extractPDFText pulls plain text from PDF statement data, page by page.
// Pages that fail to decode are skipped.
func extractPDFText(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}

	var sb strings.Builder
	totalPages := reader.NumPage()

	for i := 1; i <= totalPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		sb.WriteString(text)
		sb.WriteString("\n")

		if sb.Len() > maxPDFTextBytes {
			break
		}
	}

	result := sb.String()
	if len(result) > maxPDFTextBytes {
		result = result[:maxPDFTextBytes]
	}
	if strings.TrimSpace(result) == "" {
		return "", fmt.Errorf("no text extracted from PDF")
	}

	return result, nil
}
