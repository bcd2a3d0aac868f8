package extract

import (
	"log/slog"
	"math"
	"regexp"
	"strings"
	"sync"
)

// DefaultFields is used when an extractor is built without a field list.
var DefaultFields = []string{
	"Invoice Number",
	"Invoice Date",
	"Due Date",
	"Company Name",
	"Customer Name",
	"PO Number",
	"Subtotal",
	"Tax Amount",
	"Total Amount",
	"Payment Terms",
}

// FieldResult is the outcome of extracting one named field.
type FieldResult struct {
	Value      string  `json:"value"`
	Confidence float64 `json:"confidence"`
	Found      bool    `json:"found"`
}

// Stats summarises a set of FieldResults.
type Stats struct {
	TotalFields int     `json:"total_fields"`
	FieldsFound int     `json:"fields_found"`
	FieldsEmpty int     `json:"fields_empty"`
	SuccessRate float64 `json:"success_rate"`
}

// Results keeps extraction output in request order.
type Results struct {
	Order  []string
	Fields map[string]FieldResult
}

// Get returns the result for name and whether it was requested.
func (r Results) Get(name string) (FieldResult, bool) {
	res, ok := r.Fields[name]
	return res, ok
}

// FieldExtractor pulls "Label: value" pairs out of free text by field name.
type FieldExtractor struct {
	fields []string
	logger *slog.Logger

	mu     sync.RWMutex
	custom []string
}

func NewFieldExtractor(fields []string, logger *slog.Logger) *FieldExtractor {
	if logger == nil {
		logger = slog.Default()
	}
	if len(fields) == 0 {
		fields = DefaultFields
	}
	return &FieldExtractor{
		fields: append([]string(nil), fields...),
		logger: logger,
	}
}

// Fields returns the configured default field list.
func (e *FieldExtractor) Fields() []string {
	return append([]string(nil), e.fields...)
}

// AddCustomField registers a field that every later Extract call also looks for.
// Blank and duplicate names are ignored.
func (e *FieldExtractor) AddCustomField(name string) {
	name = strings.TrimSpace(name)
	if name == "" {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, f := range e.custom {
		if f == name {
			return
		}
	}
	e.custom = append(e.custom, name)
}

// CustomFields returns the fields registered through AddCustomField.
func (e *FieldExtractor) CustomFields() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return append([]string(nil), e.custom...)
}

// Extract looks up each enabled field followed by each custom one. A nil enabled
// list means the configured defaults; an empty non-nil list means none. Custom
// names are trimmed and blanks skipped.
func (e *FieldExtractor) Extract(text string, enabled, custom []string) Results {
	if enabled == nil {
		enabled = e.fields
	}

	names := make([]string, 0, len(enabled)+len(custom))
	names = append(names, enabled...)
	for _, c := range custom {
		if c = strings.TrimSpace(c); c != "" {
			names = append(names, c)
		}
	}
	names = append(names, e.CustomFields()...)

	res := Results{Order: make([]string, 0, len(names)), Fields: make(map[string]FieldResult, len(names))}
	for _, name := range names {
		if _, seen := res.Fields[name]; seen {
			continue
		}
		value := LabelValue(text, name)
		res.Order = append(res.Order, name)
		res.Fields[name] = FieldResult{
			Value:      value,
			Confidence: fieldConfidence(name, value),
			Found:      value != "",
		}
	}

	e.logger.Debug("extract.fields.ok", "requested", len(res.Order), "found", countFound(res))
	return res
}

// LabelValue finds the text following label on the same line. It tries the label
// verbatim, lower-cased and with spaces removed, case-insensitively, and returns
// the first trimmed match or "".
func LabelValue(text, label string) string {
	if text == "" || strings.TrimSpace(label) == "" {
		return ""
	}
	candidates := []string{label, strings.ToLower(label), strings.ReplaceAll(label, " ", "")}
	for _, c := range candidates {
		re, err := regexp.Compile(`(?i)` + regexp.QuoteMeta(c) + `[\s:]+([^\n]+)`)
		if err != nil {
			continue
		}
		if m := re.FindStringSubmatch(text); m != nil {
			if v := strings.TrimSpace(m[1]); v != "" {
				return v
			}
		}
	}
	return ""
}

// ConfidenceScores maps each field to its confidence.
func (e *FieldExtractor) ConfidenceScores(res Results) map[string]float64 {
	out := make(map[string]float64, len(res.Fields))
	for name, r := range res.Fields {
		out[name] = r.Confidence
	}
	return out
}

// ToDict maps each field to its value, "" when not found.
func (e *FieldExtractor) ToDict(res Results) map[string]string {
	out := make(map[string]string, len(res.Fields))
	for name, r := range res.Fields {
		out[name] = r.Value
	}
	return out
}

// Statistics counts found and empty fields. SuccessRate is a percentage rounded
// to one decimal, 0 when nothing was requested.
func (e *FieldExtractor) Statistics(res Results) Stats {
	total := len(res.Fields)
	found := countFound(res)
	st := Stats{TotalFields: total, FieldsFound: found, FieldsEmpty: total - found}
	if total > 0 {
		st.SuccessRate = math.Round(float64(found)/float64(total)*1000) / 10
	}
	return st
}

func countFound(res Results) int {
	n := 0
	for _, r := range res.Fields {
		if r.Found {
			n++
		}
	}
	return n
}
