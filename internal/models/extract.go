package models

// Extraction methods, in the order the pipeline attempts them.
const (
	ExtractMethodCSV   = "csv"
	ExtractMethodExcel = "excel"
	ExtractMethodPDF   = "pdf"
	ExtractMethodText  = "text"
	ExtractMethodAI    = "ai"
)

// ExtractedHolding is a holding candidate parsed from an uploaded statement.
// PurchaseDate is YYYY-MM-DD, empty when the statement carries no date.
type ExtractedHolding struct {
	Symbol        string  `json:"symbol"`
	Shares        float64 `json:"shares"`
	PurchasePrice float64 `json:"purchase_price"`
	PurchaseDate  string  `json:"purchase_date,omitempty"`
	CurrentPrice  float64 `json:"current_price,omitempty"`
}

// ExtractionResult is the outcome of running the extraction pipeline over
// one uploaded file.
type ExtractionResult struct {
	FileName string             `json:"file_name"`
	FileType string             `json:"file_type"`
	Method   string             `json:"method"`
	Holdings []ExtractedHolding `json:"holdings"`
	Warnings []string           `json:"warnings,omitempty"`
}
