package entity

import "github.com/joseph-ayodele/docsense/constants"

// LineItem is one row of a line-item table. Values are kept as printed.
type LineItem struct {
	Description string `json:"description"`
	Quantity    string `json:"quantity"`
	UnitPrice   string `json:"unit_price"`
	Amount      string `json:"amount"`
	Category    string `json:"category,omitempty"`
}

// Entity is a typed value found in free text. Offset is the byte position of the
// match in the processed text.
type Entity struct {
	Type   string `json:"type"`
	Value  string `json:"value"`
	Offset int    `json:"offset"`
}

// Raw carries the unmodified input.
type Raw struct {
	Text string `json:"text"`
}

// StructuredResult is the assembled output for one document.
type StructuredResult struct {
	DocumentType       constants.DocumentType `json:"document_type"`
	Confidence         float64                `json:"confidence"`
	Language           constants.Language     `json:"language"`
	LanguageConfidence float64                `json:"language_confidence"`
	Schema             string                 `json:"schema"`
	ExtractedFields    map[string]any         `json:"extracted_fields"`
	LineItems          []LineItem             `json:"line_items"`
	Entities           []Entity               `json:"entities"`
	Raw                Raw                    `json:"raw"`
}

// EmptyResult is the result for blank input.
func EmptyResult(text string) StructuredResult {
	return StructuredResult{
		DocumentType:    constants.UnknownType,
		Language:        constants.UnknownLanguage,
		Schema:          constants.GeneralSchema,
		ExtractedFields: map[string]any{},
		LineItems:       []LineItem{},
		Entities:        []Entity{},
		Raw:             Raw{Text: text},
	}
}
