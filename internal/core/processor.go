package core

import (
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/joseph-ayodele/docsense/constants"
	"github.com/joseph-ayodele/docsense/internal/core/classify"
	"github.com/joseph-ayodele/docsense/internal/core/entities"
	"github.com/joseph-ayodele/docsense/internal/core/extract"
	"github.com/joseph-ayodele/docsense/internal/core/language"
	"github.com/joseph-ayodele/docsense/internal/core/lineitems"
	"github.com/joseph-ayodele/docsense/internal/core/markup"
	"github.com/joseph-ayodele/docsense/internal/entity"
)

// Processor coordinates classification, language detection, schema extraction,
// line-item parsing and entity extraction into one StructuredResult.
type Processor struct {
	logger     *slog.Logger
	markup     *markup.Parser
	classifier *classify.Classifier
	detector   *language.Detector
	schemas    *extract.SchemaExtractor
	lineItems  *lineitems.Parser
	entities   *entities.Extractor

	// schemaOverride replaces the routed schema when set.
	schemaOverride string
	minConfidence  float64
}

type Option func(*Processor)

// WithSchemaExtractor swaps in an extractor carrying custom schemas.
func WithSchemaExtractor(e *extract.SchemaExtractor) Option {
	return func(p *Processor) {
		if e != nil {
			p.schemas = e
		}
	}
}

// WithSchema forces every document through the named schema.
func WithSchema(name string) Option {
	return func(p *Processor) {
		p.schemaOverride = strings.TrimSpace(name)
	}
}

// WithMinConfidence drops extracted fields scoring below c.
func WithMinConfidence(c float64) Option {
	return func(p *Processor) {
		if c > 0 && c <= 1 {
			p.minConfidence = c
		}
	}
}

func NewProcessor(logger *slog.Logger, opts ...Option) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	p := &Processor{
		logger:     logger,
		markup:     markup.NewParser(logger),
		classifier: classify.NewClassifier(logger),
		detector:   language.NewDetector(logger),
		lineItems:  lineitems.NewParser(logger),
		entities:   entities.NewExtractor(logger),
	}
	for _, o := range opts {
		o(p)
	}
	if p.schemas == nil {
		p.schemas = extract.DefaultSchemaExtractor()
	}
	return p
}

var (
	defaultOnce      sync.Once
	defaultProcessor *Processor
)

// Default returns the process-wide processor with builtin schemas.
func Default() *Processor {
	defaultOnce.Do(func() {
		defaultProcessor = NewProcessor(nil)
	})
	return defaultProcessor
}

// ProcessToStructured runs the default processor on text alone.
func ProcessToStructured(text string) entity.StructuredResult {
	return Default().Process(text, nil)
}

// Process builds the structured result for one document. tablesHTML holds table
// fragments extracted alongside the text; when empty, tables embedded in the text
// are used instead. Raw.Text always carries the input unchanged.
func (p *Processor) Process(text string, tablesHTML []string) entity.StructuredResult {
	if strings.TrimSpace(text) == "" {
		p.logger.Debug("processor.skip.blank")
		return entity.EmptyResult(text)
	}
	start := time.Now()
	body := markup.Normalize(text)

	cls, schema := p.classifier.ClassifyWithRouting(body)
	if p.schemaOverride != "" {
		schema = p.overrideSchema()
	}
	if !p.schemas.HasSchema(schema) {
		p.logger.Warn("processor.schema.unknown", "schema", schema, "using", extract.GeneralSchema)
		schema = extract.GeneralSchema
	}
	p.logger.Debug("processor.classify.ok",
		"type", cls.DocumentType,
		"confidence", cls.Confidence,
		"schema", schema,
	)

	lang := p.detector.Detect(body)
	p.logger.Debug("processor.language.ok", "language", lang.PrimaryLanguage, "confidence", lang.Confidence)

	fields := p.schemas.ExtractAbove(body, schema, p.minConfidence)

	tables := tablesHTML
	if len(tables) == 0 {
		tables, _ = p.markup.ExtractTables(body)
	}
	items := p.lineItems.ParseAll(tables)
	found := p.entities.Extract(body)

	p.logger.Debug("processor.process.ok",
		"type", cls.DocumentType,
		"language", lang.PrimaryLanguage,
		"fields", len(fields),
		"tables", len(tables),
		"line_items", len(items),
		"entities", len(found),
		"dur", time.Since(start),
	)

	return entity.StructuredResult{
		DocumentType:       cls.DocumentType,
		Confidence:         cls.Confidence,
		Language:           lang.PrimaryLanguage,
		LanguageConfidence: lang.Confidence,
		Schema:             schema,
		ExtractedFields:    fields,
		LineItems:          items,
		Entities:           found,
		Raw:                entity.Raw{Text: text},
	}
}

// overrideSchema resolves the forced schema name. A name that is not a schema
// but reads as a document type ("Bill", "bank statement") routes like that type.
func (p *Processor) overrideSchema() string {
	if p.schemas.HasSchema(p.schemaOverride) {
		return p.schemaOverride
	}
	if dt, ok := constants.ParseDocumentType(p.schemaOverride); ok {
		return constants.SchemaFor(dt)
	}
	return p.schemaOverride
}

// Parse exposes the page-level markup view of text.
func (p *Processor) Parse(text string) markup.ParseResult {
	return p.markup.Parse(text)
}
