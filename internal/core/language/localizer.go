package language

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/dlclark/regexp2"

	"github.com/joseph-ayodele/docsense/constants"
)

// fieldLabels maps a canonical field name to its printed label per language.
var fieldLabels = map[string]map[constants.Language]string{
	"invoice_number": {
		constants.English:    "invoice number",
		constants.Spanish:    "número de factura",
		constants.French:     "numéro de facture",
		constants.German:     "rechnungsnummer",
		constants.Italian:    "numero fattura",
		constants.Portuguese: "número da fatura",
	},
	"date": {
		constants.English:    "date",
		constants.Spanish:    "fecha",
		constants.French:     "date",
		constants.German:     "datum",
		constants.Italian:    "data",
		constants.Portuguese: "data",
	},
	"total": {
		constants.English:    "total",
		constants.Spanish:    "total",
		constants.French:     "total",
		constants.German:     "gesamt",
		constants.Italian:    "totale",
		constants.Portuguese: "total",
	},
	"tax": {
		constants.English:    "tax",
		constants.Spanish:    "impuesto",
		constants.French:     "taxe",
		constants.German:     "steuer",
		constants.Italian:    "tassa",
		constants.Portuguese: "imposto",
	},
}

// LocalizedFields is the outcome of ExtractLocalized.
type LocalizedFields struct {
	Language   constants.Language `json:"language"`
	Confidence float64            `json:"confidence"`
	Fields     map[string]string  `json:"fields"`
}

// Localizer extracts fields using labels written in the document's own language.
type Localizer struct {
	detector *Detector
	matchers map[string]map[constants.Language]*regexp2.Regexp
	logger   *slog.Logger
}

func NewLocalizer(detector *Detector, logger *slog.Logger) *Localizer {
	if logger == nil {
		logger = slog.Default()
	}
	if detector == nil {
		detector = NewDetector(logger)
	}

	matchers := make(map[string]map[constants.Language]*regexp2.Regexp, len(fieldLabels))
	for field, labels := range fieldLabels {
		matchers[field] = make(map[constants.Language]*regexp2.Regexp, len(labels))
		for lang, label := range labels {
			expr := regexp2.Escape(label) + `\s*:?\s*(.+?)(?:\n|$)`
			matchers[field][lang] = regexp2.MustCompile(expr, regexp2.IgnoreCase)
		}
	}
	return &Localizer{detector: detector, matchers: matchers, logger: logger}
}

var (
	defaultLocalizerOnce sync.Once
	defaultLocalizer     *Localizer
)

// DefaultLocalizer returns the process-wide localizer backed by Default().
func DefaultLocalizer() *Localizer {
	defaultLocalizerOnce.Do(func() {
		defaultLocalizer = NewLocalizer(Default(), nil)
	})
	return defaultLocalizer
}

// FieldLabel returns the printed label of field in lang.
func (l *Localizer) FieldLabel(field string, lang constants.Language) (string, bool) {
	labels, ok := fieldLabels[field]
	if !ok {
		return "", false
	}
	label, ok := labels[lang]
	return label, ok
}

// LocalizedFieldNames lists the fields that have translated labels, sorted.
func LocalizedFieldNames() []string {
	return []string{"date", "invoice_number", "tax", "total"}
}

// ExtractLocalized detects the language of text and pulls each requested field
// using its label in that language. Fields without a label for the detected
// language, or without a match, are left out.
func (l *Localizer) ExtractLocalized(text string, fields []string) LocalizedFields {
	det := l.detector.Detect(text)
	return l.extract(text, fields, det.PrimaryLanguage, det.Confidence)
}

// ExtractLocalizedAs skips detection and reads labels in lang, reported with
// confidence 1.
func (l *Localizer) ExtractLocalizedAs(text string, fields []string, lang constants.Language) LocalizedFields {
	return l.extract(text, fields, lang, 1)
}

func (l *Localizer) extract(text string, fields []string, lang constants.Language, confidence float64) LocalizedFields {
	out := LocalizedFields{
		Language:   lang,
		Confidence: confidence,
		Fields:     map[string]string{},
	}

	for _, field := range fields {
		re, ok := l.matchers[field][lang]
		if !ok {
			continue
		}
		m, err := re.FindStringMatch(text)
		if err != nil || m == nil {
			continue
		}
		if v := strings.TrimSpace(m.GroupByNumber(1).String()); v != "" {
			out.Fields[field] = v
		}
	}

	l.logger.Debug("language.localize.ok", "language", out.Language, "found", len(out.Fields))
	return out
}
