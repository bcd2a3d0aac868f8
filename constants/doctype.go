package constants

import (
	"strings"
)

type DocumentType string

const (
	Invoice       DocumentType = "invoice"
	Receipt       DocumentType = "receipt"
	Contract      DocumentType = "contract"
	Form          DocumentType = "form"
	Letter        DocumentType = "letter"
	Report        DocumentType = "report"
	IDDocument    DocumentType = "id_document"
	BankStatement DocumentType = "bank_statement"
	TaxDocument   DocumentType = "tax_document"
	Medical       DocumentType = "medical"
	UnknownType   DocumentType = "unknown"
)

// allDocumentTypes is the declaration order. Classification ties resolve to the
// earliest entry, so do not reorder.
var allDocumentTypes = []DocumentType{
	Invoice,
	Receipt,
	Contract,
	Form,
	Letter,
	Report,
	IDDocument,
	BankStatement,
	TaxDocument,
	Medical,
	UnknownType,
}

// GeneralSchema is the routing target for types without a dedicated schema.
const GeneralSchema = "general"

var schemaRoutes = map[DocumentType]string{
	Invoice:       "invoice",
	Receipt:       "receipt",
	Contract:      "contract",
	BankStatement: "bank_statement",
	TaxDocument:   "tax_document",
	Medical:       "medical",
}

// SupportedDocumentTypes returns all classifiable types as strings (Unknown excluded).
func SupportedDocumentTypes() []string {
	result := make([]string, 0, len(allDocumentTypes)-1)
	for _, dt := range allDocumentTypes {
		if dt == UnknownType {
			continue
		}
		result = append(result, string(dt))
	}
	return result
}

// SchemaFor maps a document type to the name of its extraction schema.
func SchemaFor(dt DocumentType) string {
	if name, ok := schemaRoutes[dt]; ok {
		return name
	}
	return GeneralSchema
}

// ParseDocumentType reads a type name case-insensitively, with spaces or dashes
// for underscores, and accepts a few common synonyms.
func ParseDocumentType(input string) (DocumentType, bool) {
	if input == "" {
		return UnknownType, false
	}

	normalized := strings.ToLower(strings.TrimSpace(input))
	normalized = strings.NewReplacer(" ", "_", "-", "_").Replace(normalized)

	synonyms := map[string]DocumentType{
		"bill":         Invoice,
		"statement":    BankStatement,
		"agreement":    Contract,
		"passport":     IDDocument,
		"id":           IDDocument,
		"w2":           TaxDocument,
		"prescription": Medical,
	}
	if dt, ok := synonyms[normalized]; ok {
		return dt, true
	}

	for _, dt := range allDocumentTypes {
		if normalized == string(dt) {
			return dt, dt != UnknownType
		}
	}
	return UnknownType, false
}
